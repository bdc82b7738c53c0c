package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"ecoquiz-duel/internal/event"
	"ecoquiz-duel/internal/models"
)

// ChannelSuffix is appended to the configured prefix to form the channel
// name game events are published on.
const ChannelSuffix = "games"

type Redis interface {
	Publish(ctx context.Context, channel string, message any) *redis.IntCmd
}

type Config struct {
	EventBus *event.Bus
	Redis    Redis
	Prefix   string
}

type Notification struct {
	Event string `json:"event"`
	Data  any    `json:"data"`
}

// Publisher forwards game lifecycle events to a Redis channel so that
// dashboards outside this process can follow live games.
type Publisher struct {
	redis   Redis
	channel string
}

func NewPublisher(c Config) *Publisher {
	p := &Publisher{
		redis:   c.Redis,
		channel: Channel(c.Prefix),
	}

	for _, name := range []string{
		models.EventNameGameMatched,
		models.EventNameQuestionResolved,
		models.EventNameGameEnded,
		models.EventNameGameAbandoned,
	} {
		c.EventBus.Subscribe(name, p.Publish)
	}

	return p
}

func Channel(prefix string) string {
	if prefix == "" {
		return ChannelSuffix
	}
	return fmt.Sprintf("%s:%s", prefix, ChannelSuffix)
}

func (p *Publisher) Publish(ctx context.Context, e event.Event) error {
	b, err := json.Marshal(Notification{
		Event: e.Name(),
		Data:  e,
	})
	if err != nil {
		return fmt.Errorf("pubsub: marshal %s: %v", e.Name(), err)
	}

	if err := p.redis.Publish(ctx, p.channel, b).Err(); err != nil {
		return fmt.Errorf("pubsub: publish %s: %w", e.Name(), err)
	}
	return nil
}
