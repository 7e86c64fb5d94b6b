package repository

import (
	"context"
	"time"

	"github.com/gepub/gepub-api/internal/domain/entity"
)

// ConectorRepository conectores de integração.
type ConectorRepository interface {
	Create(ctx context.Context, c *entity.ConectorIntegracao) error
	GetByID(ctx context.Context, id string) (*entity.ConectorIntegracao, error)
	Update(ctx context.Context, c *entity.ConectorIntegracao) error
	// List usa Tipo como domínio.
	List(ctx context.Context, f ListFilter) ([]*entity.ConectorIntegracao, int, error)
}

// ExecucaoRepository execuções de integração.
type ExecucaoRepository interface {
	Create(ctx context.Context, e *entity.IntegracaoExecucao) error
	// List usa ParentID como conector_id.
	List(ctx context.Context, f ListFilter) ([]*entity.IntegracaoExecucao, int, error)
	Resumo(ctx context.Context, municipioID string, since time.Time) (entity.IntegracaoResumo, error)
}
