// Package scheduler executa tarefas periódicas (cron) dentro do processo da API.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/gepub/gepub-api/pkg/logger"
)

// EveryMinute expressão padrão do reenfileiramento de conversões.
const EveryMinute = "* * * * *"

// Task tarefa agendada; recebe um contexto com o timeout da execução.
type Task func(ctx context.Context) error

// Scheduler agenda tarefas com robfig/cron; execuções sobrepostas da mesma tarefa são puladas.
type Scheduler struct {
	cron    *cron.Cron
	log     *logger.Logger
	timeout time.Duration

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	started bool
}

// New cria o agendador. timeout limita cada execução (0 = sem limite).
func New(log *logger.Logger, timeout time.Duration) *Scheduler {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	cl := cronLogger{log: log}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		log:     log,
		timeout: timeout,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Add registra uma tarefa na expressão cron (5 campos).
func (s *Scheduler) Add(spec, name string, task Task) error {
	_, err := s.cron.AddFunc(spec, func() { s.run(name, task) })
	if err != nil {
		return fmt.Errorf("scheduler: agendar %s: %w", name, err)
	}
	return nil
}

func (s *Scheduler) run(name string, task Task) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	start := time.Now()
	if err := task(ctx); err != nil {
		s.log.Error().Err(err).Str("task", name).Msg("tarefa agendada falhou")
		return
	}
	s.log.Debug().Str("task", name).Dur("duracao", time.Since(start)).Msg("tarefa agendada concluída")
}

// Start inicia o agendador em background.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.cron.Start()
	s.log.Info().Int("tarefas", len(s.cron.Entries())).Msg("agendador iniciado")
}

// Stop cancela as execuções em andamento e aguarda até ctx expirar.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = false
	s.mu.Unlock()

	done := s.cron.Stop()
	s.cancel()
	select {
	case <-done.Done():
		s.log.Info().Msg("agendador parado")
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// cronLogger adapta o logger da aplicação à interface cron.Logger.
type cronLogger struct {
	log *logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
