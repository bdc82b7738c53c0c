package telemetry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"time"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
)

// MonitorRedis adds otel tracing and metrics to r, and logs failed or slow
// commands.
func MonitorRedis(r redis.UniversalClient) error {
	if err := redisotel.InstrumentTracing(r); err != nil {
		return fmt.Errorf("instrument tracing: %w", err)
	}
	if err := redisotel.InstrumentMetrics(r); err != nil {
		return fmt.Errorf("instrument metrics: %w", err)
	}
	r.AddHook(commandLog{slow: 100 * time.Millisecond})
	return nil
}

type commandLog struct {
	slow time.Duration
}

func (l commandLog) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		conn, err := next(ctx, network, addr)
		if err != nil {
			slog.WarnContext(ctx, "redis: dial failed", "addr", addr, "error", err)
			return nil, err
		}
		slog.DebugContext(ctx, "redis: connected", "network", network, "addr", addr)
		return conn, nil
	}
}

func (l commandLog) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmd)
		l.record(ctx, cmd.Name(), 1, time.Since(start), err)
		return err
	}
}

func (l commandLog) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		start := time.Now()
		err := next(ctx, cmds)
		l.record(ctx, "pipeline", len(cmds), time.Since(start), err)
		return err
	}
}

func (l commandLog) record(ctx context.Context, name string, n int, took time.Duration, err error) {
	switch {
	case err != nil && !errors.Is(err, redis.Nil):
		slog.WarnContext(ctx, "redis: command failed", "cmd", name, "cmds", n, "took", took, "error", err)
	case took >= l.slow:
		slog.InfoContext(ctx, "redis: slow command", "cmd", name, "cmds", n, "took", took)
	default:
		slog.DebugContext(ctx, "redis: command", "cmd", name, "cmds", n, "took", took)
	}
}
