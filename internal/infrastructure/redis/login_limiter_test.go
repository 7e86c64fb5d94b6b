package redis

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLoginLimiter(t *testing.T) {
	ctx := context.Background()
	agora := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	l := NewMemoryLoginLimiter(3, 10*time.Minute)
	l.now = func() time.Time { return agora }

	for i := 1; i <= 3; i++ {
		n, err := l.Fail(ctx, "k")
		require.NoError(t, err)
		assert.Equal(t, i, n)
	}
	locked, _ := l.Locked(ctx, "k")
	assert.True(t, locked)
	locked, _ = l.Locked(ctx, "outra")
	assert.False(t, locked)

	agora = agora.Add(10 * time.Minute)
	locked, _ = l.Locked(ctx, "k")
	assert.False(t, locked, "janela expirada libera a chave")

	_, _ = l.Fail(ctx, "k")
	require.NoError(t, l.Reset(ctx, "k"))
	n, _ := l.Fail(ctx, "k")
	assert.Equal(t, 1, n)
}

func TestMemoryLoginLimiter_DescartaChavesExpiradas(t *testing.T) {
	ctx := context.Background()
	agora := time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC)
	l := NewMemoryLoginLimiter(3, 10*time.Minute)
	l.now = func() time.Time { return agora }

	for _, k := range []string{"10.0.0.1:ana", "10.0.0.2:bia", "10.0.0.3:caio"} {
		_, err := l.Fail(ctx, k)
		require.NoError(t, err)
	}
	assert.Len(t, l.entries, 3)

	agora = agora.Add(11 * time.Minute)
	_, err := l.Fail(ctx, "10.0.0.4:davi")
	require.NoError(t, err)
	assert.Len(t, l.entries, 1)
	assert.Contains(t, l.entries, "10.0.0.4:davi")
}
