package conversor

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gepub/gepub-api/pkg/logger"
)

// Processor executa um job pelo id.
type Processor interface {
	Process(ctx context.Context, jobID, actorID string) error
}

// WorkerPool goroutines que consomem a fila de conversão.
type WorkerPool struct {
	queue     Queue
	processor Processor
	workers   int
	poll      time.Duration
	log       *logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorkerPool pool com n workers; poll é o timeout de cada BRPOP.
func NewWorkerPool(queue Queue, processor Processor, n int, poll time.Duration, log *logger.Logger) *WorkerPool {
	if n < 1 {
		n = 1
	}
	if poll <= 0 {
		poll = 5 * time.Second
	}
	return &WorkerPool{queue: queue, processor: processor, workers: n, poll: poll, log: log.Named("conversor-worker")}
}

// Start inicia os workers; param com Stop ou com o cancelamento de ctx.
func (w *WorkerPool) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	for i := 0; i < w.workers; i++ {
		w.wg.Add(1)
		go w.loop(ctx, i)
	}
	w.log.Info().Int("workers", w.workers).Msg("workers do conversor iniciados")
}

// Stop cancela os workers e espera o job corrente terminar (ou ctx expirar).
func (w *WorkerPool) Stop(ctx context.Context) error {
	if w.cancel != nil {
		w.cancel()
	}
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		w.log.Info().Msg("workers do conversor parados")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *WorkerPool) loop(ctx context.Context, id int) {
	defer w.wg.Done()
	for {
		if ctx.Err() != nil {
			return
		}
		jobID, err := w.queue.Dequeue(ctx, w.poll)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			w.log.Error().Err(err).Int("worker", id).Msg("falha ao ler fila")
			select {
			case <-ctx.Done():
				return
			case <-time.After(w.poll):
			}
			continue
		}
		if jobID == "" {
			continue
		}
		// O job corrente termina mesmo com o pool sendo parado.
		if err := w.processor.Process(context.WithoutCancel(ctx), jobID, ""); err != nil {
			w.log.Error().Err(err).Str("job_id", jobID).Msg("falha ao processar job")
		}
	}
}
