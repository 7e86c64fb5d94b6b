package redis

import (
	"context"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/gepub/gepub-api/internal/application/auth"
)

var (
	_ auth.LoginLimiter = (*LoginLimiter)(nil)
	_ auth.LoginLimiter = (*MemoryLoginLimiter)(nil)
)

// LoginLimiter contador de falhas por chave com expiração (INCR + EXPIRE).
type LoginLimiter struct {
	client      *goredis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter bloqueia a chave após maxAttempts falhas dentro de window.
func NewLoginLimiter(client *goredis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, window: window}
}

func (l *LoginLimiter) Locked(ctx context.Context, key string) (bool, error) {
	n, err := l.client.Get(ctx, key).Int()
	if err == goredis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("redis: ler %s: %w", key, err)
	}
	return n >= l.maxAttempts, nil
}

func (l *LoginLimiter) Fail(ctx context.Context, key string) (int, error) {
	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("redis: incrementar %s: %w", key, err)
	}
	return int(incr.Val()), nil
}

func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("redis: limpar %s: %w", key, err)
	}
	return nil
}

// MemoryLoginLimiter mesma política em memória, usada quando Redis está desligado.
// Não é compartilhado entre instâncias.
type MemoryLoginLimiter struct {
	mu          sync.Mutex
	entries     map[string]memEntry
	maxAttempts int
	window      time.Duration
	now         func() time.Time
	nextSweep   time.Time
}

type memEntry struct {
	count   int
	expires time.Time
}

// NewMemoryLoginLimiter limiter local.
func NewMemoryLoginLimiter(maxAttempts int, window time.Duration) *MemoryLoginLimiter {
	return &MemoryLoginLimiter{
		entries:     map[string]memEntry{},
		maxAttempts: maxAttempts,
		window:      window,
		now:         time.Now,
	}
}

func (l *MemoryLoginLimiter) Locked(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.get(key)
	return ok && e.count >= l.maxAttempts, nil
}

func (l *MemoryLoginLimiter) Fail(_ context.Context, key string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.sweep()
	e, _ := l.get(key)
	e.count++
	e.expires = l.now().Add(l.window)
	l.entries[key] = e
	return e.count, nil
}

func (l *MemoryLoginLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.entries, key)
	return nil
}

// sweep remove as entradas expiradas, no máximo uma vez por janela.
func (l *MemoryLoginLimiter) sweep() {
	now := l.now()
	if now.Before(l.nextSweep) {
		return
	}
	for k, e := range l.entries {
		if !now.Before(e.expires) {
			delete(l.entries, k)
		}
	}
	l.nextSweep = now.Add(l.window)
}

// get devolve a entrada viva; expiradas são descartadas.
func (l *MemoryLoginLimiter) get(key string) (memEntry, bool) {
	e, ok := l.entries[key]
	if !ok {
		return memEntry{}, false
	}
	if !l.now().Before(e.expires) {
		delete(l.entries, key)
		return memEntry{}, false
	}
	return e, true
}
