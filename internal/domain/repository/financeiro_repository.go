package repository

import (
	"context"

	"github.com/gepub/gepub-api/internal/domain/entity"
)

// ExercicioRepository exercícios financeiros por município.
type ExercicioRepository interface {
	Create(ctx context.Context, e *entity.FinanceiroExercicio) error
	GetByID(ctx context.Context, id string) (*entity.FinanceiroExercicio, error)
	GetByAno(ctx context.Context, municipioID string, ano int) (*entity.FinanceiroExercicio, error)
	Update(ctx context.Context, e *entity.FinanceiroExercicio) error
	List(ctx context.Context, f ListFilter) ([]*entity.FinanceiroExercicio, int, error)
}

// DotacaoRepository dotações orçamentárias.
type DotacaoRepository interface {
	Create(ctx context.Context, d *entity.OrcDotacao) error
	GetByID(ctx context.Context, id string) (*entity.OrcDotacao, error)
	// GetForUpdate lê com lock de linha (usar dentro de transação).
	GetForUpdate(ctx context.Context, id string) (*entity.OrcDotacao, error)
	Update(ctx context.Context, d *entity.OrcDotacao) error
	// List usa ParentID como exercicio_id.
	List(ctx context.Context, f ListFilter) ([]*entity.OrcDotacao, int, error)
}

// EmpenhoRepository empenhos do exercício.
type EmpenhoRepository interface {
	Create(ctx context.Context, e *entity.DespEmpenho) error
	GetByID(ctx context.Context, id string) (*entity.DespEmpenho, error)
	GetForUpdate(ctx context.Context, id string) (*entity.DespEmpenho, error)
	GetByNumero(ctx context.Context, exercicioID, numero string) (*entity.DespEmpenho, error)
	Update(ctx context.Context, e *entity.DespEmpenho) error
	// List usa ParentID como exercicio_id e Tipo como dotacao_id.
	List(ctx context.Context, f ListFilter) ([]*entity.DespEmpenho, int, error)
}

// LiquidacaoRepository liquidações por empenho.
type LiquidacaoRepository interface {
	Create(ctx context.Context, l *entity.DespLiquidacao) error
	GetByID(ctx context.Context, id string) (*entity.DespLiquidacao, error)
	ListByEmpenho(ctx context.Context, empenhoID string) ([]*entity.DespLiquidacao, error)
}

// PagamentoRepository pagamentos por empenho.
type PagamentoRepository interface {
	Create(ctx context.Context, p *entity.DespPagamento) error
	ListByEmpenho(ctx context.Context, empenhoID string) ([]*entity.DespPagamento, error)
}
