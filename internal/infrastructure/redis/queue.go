package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/gepub/gepub-api/internal/application/conversor"
)

// QueueKey lista Redis dos jobs de conversão.
const QueueKey = "gepub:conversor:jobs"

var _ conversor.Queue = (*Queue)(nil)

// Queue fila FIFO sobre LPUSH/BRPOP.
type Queue struct {
	client *goredis.Client
	key    string
}

// NewQueue fila na chave padrão.
func NewQueue(client *goredis.Client) *Queue {
	return &Queue{client: client, key: QueueKey}
}

func (q *Queue) Enqueue(ctx context.Context, jobID string) error {
	if err := q.client.LPush(ctx, q.key, jobID).Err(); err != nil {
		return fmt.Errorf("redis: enfileirar job %s: %w", jobID, err)
	}
	return nil
}

func (q *Queue) Dequeue(ctx context.Context, timeout time.Duration) (string, error) {
	res, err := q.client.BRPop(ctx, timeout, q.key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("redis: ler fila: %w", err)
	}
	// BRPOP devolve [chave, valor]
	if len(res) != 2 {
		return "", nil
	}
	return res[1], nil
}
