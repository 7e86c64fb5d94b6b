package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gepub/gepub-api/pkg/logger"
)

func TestAdd_ExpressaoInvalida(t *testing.T) {
	s := New(logger.Nop(), time.Second)
	err := s.Add("a cada minuto", "requeue", func(context.Context) error { return nil })
	assert.Error(t, err)

	// segundos não são aceitos
	err = s.Add("*/5 * * * * *", "requeue", func(context.Context) error { return nil })
	assert.Error(t, err)

	require.NoError(t, s.Add(EveryMinute, "requeue", func(context.Context) error { return nil }))
	assert.Len(t, s.cron.Entries(), 1)
}

func TestRun_AplicaTimeout(t *testing.T) {
	s := New(logger.Nop(), 20*time.Millisecond)
	var deadline bool
	s.run("t", func(ctx context.Context) error {
		_, deadline = ctx.Deadline()
		<-ctx.Done()
		return ctx.Err()
	})
	assert.True(t, deadline)
}

func TestStartStop(t *testing.T) {
	s := New(logger.Nop(), 0)
	require.NoError(t, s.Add(EveryMinute, "noop", func(context.Context) error { return nil }))

	// Stop antes de Start não bloqueia
	require.NoError(t, s.Stop(context.Background()))

	s.Start()
	s.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.ErrorIs(t, s.ctx.Err(), context.Canceled)
}
