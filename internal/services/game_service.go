package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"ecoquiz-duel/internal/event"
	"ecoquiz-duel/internal/models"
	"ecoquiz-duel/internal/questions"
	"ecoquiz-duel/internal/telemetry"
)

const eventQueueSize = 256

// Transport delivers an encoded message to one connection. Implementations
// must not block.
type Transport interface {
	Send(connID string, data []byte)
}

type Config struct {
	Transport Transport
	Bank      *questions.Bank
	EventBus  *event.Bus
	Metrics   *telemetry.Metrics

	QuestionsPerGame int
	TimeLimit        time.Duration
	MatchDelay       time.Duration
	RevealDelay      time.Duration
	TimeoutGrace     time.Duration

	// Now and Rand are replaceable for tests.
	Now  func() time.Time
	Rand *rand.Rand
}

// GameService owns the matchmaking slot and every live game. All state is
// touched only by the goroutine running Run; inbound calls and timers post
// closures to it.
type GameService struct {
	transport Transport
	bank      *questions.Bank
	eb        *event.Bus
	metrics   *telemetry.Metrics

	questionsPerGame int
	timeLimit        time.Duration
	matchDelay       time.Duration
	revealDelay      time.Duration
	timeoutGrace     time.Duration

	now func() time.Time
	rng *rand.Rand

	events  chan func()
	stopped chan struct{}
	running atomic.Bool

	waiting   *models.Player
	games     map[string]*models.GameSession
	conns     map[string]string
	deadlines map[string]*time.Timer
}

// NewGameService fills unset Config fields with defaults. It fails with
// ErrBankTooSmall when the bank cannot supply a full game of distinct
// questions.
func NewGameService(c Config) (*GameService, error) {
	gs := &GameService{
		transport:        c.Transport,
		bank:             c.Bank,
		eb:               c.EventBus,
		metrics:          c.Metrics,
		questionsPerGame: c.QuestionsPerGame,
		timeLimit:        c.TimeLimit,
		matchDelay:       c.MatchDelay,
		revealDelay:      c.RevealDelay,
		timeoutGrace:     c.TimeoutGrace,
		now:              c.Now,
		rng:              c.Rand,
		events:           make(chan func(), eventQueueSize),
		stopped:          make(chan struct{}),
		games:            make(map[string]*models.GameSession),
		conns:            make(map[string]string),
		deadlines:        make(map[string]*time.Timer),
	}

	if gs.bank == nil {
		gs.bank = questions.Default()
	}
	if gs.questionsPerGame <= 0 {
		gs.questionsPerGame = 5
	}
	if gs.timeLimit <= 0 {
		gs.timeLimit = 15 * time.Second
	}
	if gs.now == nil {
		gs.now = time.Now
	}
	if gs.rng == nil {
		gs.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	if n := gs.bank.Len(); n < gs.questionsPerGame {
		return nil, fmt.Errorf("%w: %d questions, %d per game", ErrBankTooSmall, n, gs.questionsPerGame)
	}

	return gs, nil
}

// Run processes events until ctx is done. It must be called exactly once.
func (gs *GameService) Run(ctx context.Context) {
	gs.running.Store(true)
	slog.Info("game: service started", "questions", gs.bank.Len(), "per_game", gs.questionsPerGame)

	defer func() {
		gs.running.Store(false)
		for id, t := range gs.deadlines {
			t.Stop()
			delete(gs.deadlines, id)
		}
		close(gs.stopped)
		slog.Info("game: service stopped", "active_games", len(gs.games))
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-gs.events:
			fn()
			gs.metrics.ObserveStats(gs.stats())
		}
	}
}

func (gs *GameService) JoinQueue(connID, name string) {
	gs.post(func() {
		if err := gs.joinQueue(connID, name); err != nil {
			slog.Debug("game: join ignored", "conn_id", connID, "error", err)
		}
	})
}

func (gs *GameService) SubmitAnswer(connID string, req models.AnswerRequest) {
	gs.post(func() {
		err := gs.answer(connID, req)
		switch {
		case err == nil:
		case errors.Is(err, ErrTooLate):
			gs.send(connID, models.TypeTooLate, nil)
		default:
			slog.Debug("game: answer ignored", "conn_id", connID, "game_id", req.GameID, "error", err)
		}
	})
}

// QuestionTimeout lets a client close the current question early. The server
// deadline closes it regardless.
func (gs *GameService) QuestionTimeout(connID, gameID string) {
	gs.post(func() {
		if err := gs.timeout(connID, gameID); err != nil {
			slog.Debug("game: timeout ignored", "conn_id", connID, "game_id", gameID, "error", err)
		}
	})
}

func (gs *GameService) Disconnect(connID string) {
	gs.post(func() {
		gs.disconnect(connID)
	})
}

// Stats returns a snapshot of the service. When the loop is not running it
// reports only the bank size.
func (gs *GameService) Stats() models.Stats {
	fallback := models.Stats{TotalQuestions: gs.bank.Len()}
	if !gs.running.Load() {
		return fallback
	}

	res := make(chan models.Stats, 1)
	if !gs.post(func() { res <- gs.stats() }) {
		return fallback
	}

	select {
	case s := <-res:
		return s
	case <-gs.stopped:
		return fallback
	}
}

func (gs *GameService) stats() models.Stats {
	s := models.Stats{
		ActiveGames:    len(gs.games),
		TotalQuestions: gs.bank.Len(),
	}
	if gs.waiting != nil {
		s.WaitingPlayers = 1
	}
	return s
}

func (gs *GameService) post(fn func()) bool {
	select {
	case gs.events <- fn:
		return true
	case <-gs.stopped:
		return false
	}
}

// schedule runs fn on the loop after d.
func (gs *GameService) schedule(d time.Duration, fn func()) *time.Timer {
	return time.AfterFunc(d, func() {
		gs.post(fn)
	})
}

func (gs *GameService) send(connID, msgType string, data any) {
	b, err := models.NewMessage(msgType, data)
	if err != nil {
		slog.Error("game: encode message", "type", msgType, "error", err)
		return
	}
	gs.transport.Send(connID, b)
}

func (gs *GameService) broadcast(g *models.GameSession, msgType string, data any) {
	b, err := models.NewMessage(msgType, data)
	if err != nil {
		slog.Error("game: encode message", "type", msgType, "game_id", g.ID, "error", err)
		return
	}
	for _, p := range g.Players {
		gs.transport.Send(p.ConnID, b)
	}
}

func (gs *GameService) publish(e event.Event) {
	gs.eb.Publish(context.Background(), e)
}
