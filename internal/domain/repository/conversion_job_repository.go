package repository

import (
	"context"
	"time"

	"github.com/gepub/gepub-api/internal/domain/entity"
)

// ConversionJobRepository jobs do conversor e seus arquivos de entrada.
type ConversionJobRepository interface {
	// Create grava o job e os inputs na mesma transação.
	Create(ctx context.Context, job *entity.ConversionJob) error
	GetByID(ctx context.Context, id string) (*entity.ConversionJob, error)
	// Claim passa o job de PENDENTE para PROCESSANDO; devolve nil se outro worker já o pegou.
	Claim(ctx context.Context, id string) (*entity.ConversionJob, error)
	// Finish grava o resultado (status, logs, saída, tamanhos, duração).
	Finish(ctx context.Context, job *entity.ConversionJob) error
	// Reset devolve o job para PENDENTE.
	Reset(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.ConversionJob, int, error)
	// ListStale jobs em PROCESSANDO sem atualização desde before.
	ListStale(ctx context.Context, before time.Time, limit int) ([]*entity.ConversionJob, error)
	// ListPending jobs PENDENTE criados antes de before (fila perdida).
	ListPending(ctx context.Context, before time.Time, limit int) ([]*entity.ConversionJob, error)
}
