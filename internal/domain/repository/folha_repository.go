package repository

import (
	"context"

	"github.com/gepub/gepub-api/internal/domain/entity"
)

// RubricaRepository cadastro de rubricas.
type RubricaRepository interface {
	Create(ctx context.Context, r *entity.Rubrica) error
	GetByID(ctx context.Context, id string) (*entity.Rubrica, error)
	Update(ctx context.Context, r *entity.Rubrica) error
	List(ctx context.Context, f ListFilter) ([]*entity.Rubrica, int, error)
}

// CompetenciaRepository competências da folha.
type CompetenciaRepository interface {
	Create(ctx context.Context, c *entity.FolhaCompetencia) error
	GetByID(ctx context.Context, id string) (*entity.FolhaCompetencia, error)
	GetForUpdate(ctx context.Context, id string) (*entity.FolhaCompetencia, error)
	Update(ctx context.Context, c *entity.FolhaCompetencia) error
	List(ctx context.Context, f ListFilter) ([]*entity.FolhaCompetencia, int, error)
}

// LancamentoRepository lançamentos da competência.
type LancamentoRepository interface {
	Create(ctx context.Context, l *entity.FolhaLancamento) error
	// ListByCompetencia traz os dados da rubrica; servidor filtra por matrícula quando não vazio.
	ListByCompetencia(ctx context.Context, competenciaID, servidor string) ([]entity.FolhaLancamento, error)
	MarkEnviados(ctx context.Context, competenciaID string) error
}

// IntegracaoFinanceiroRepository envio da folha ao financeiro.
type IntegracaoFinanceiroRepository interface {
	GetByCompetencia(ctx context.Context, competenciaID string) (*entity.FolhaIntegracaoFinanceiro, error)
	Upsert(ctx context.Context, i *entity.FolhaIntegracaoFinanceiro) error
}
