package telemetry_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ecoquiz-duel/internal/telemetry"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	t.Cleanup(func() { slog.SetDefault(prev) })
	return &buf
}

func TestMonitorRedis(t *testing.T) {
	logs := captureLogs(t)
	ctx := context.Background()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	r := redis.NewClient(&redis.Options{Addr: mr.Addr(), Protocol: 2, MaxRetries: -1})
	defer r.Close()

	require.NoError(t, telemetry.MonitorRedis(r))

	require.NoError(t, r.Set(ctx, "k", "v", 0).Err())
	assert.Equal(t, "v", r.Get(ctx, "k").Val())
	assert.ErrorIs(t, r.Get(ctx, "missing").Err(), redis.Nil)

	_, err = r.Pipelined(ctx, func(p redis.Pipeliner) error {
		p.Incr(ctx, "n")
		p.Incr(ctx, "n")
		return nil
	})
	require.NoError(t, err)
	n, err := mr.Get("n")
	require.NoError(t, err)
	assert.Equal(t, "2", n)

	assert.Contains(t, logs.String(), "cmd=set")
	assert.Contains(t, logs.String(), "cmd=pipeline")
	assert.NotContains(t, logs.String(), "redis: command failed", "a missing key is not a failure")

	mr.Close()
	assert.Error(t, r.Get(ctx, "k").Err())
	assert.Contains(t, logs.String(), "redis: command failed")
}
