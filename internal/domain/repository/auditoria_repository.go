package repository

import (
	"context"

	"github.com/gepub/gepub-api/internal/domain/entity"
)

// AuditoriaRepository trilha de auditoria por módulo.
type AuditoriaRepository interface {
	Create(ctx context.Context, e *entity.AuditoriaEvento) error
	// List usa ParentID como municipio, Tipo como módulo e Q como entidade_id.
	List(ctx context.Context, f ListFilter) ([]*entity.AuditoriaEvento, int, error)
}

// TransparenciaRepository eventos publicados no portal.
type TransparenciaRepository interface {
	Create(ctx context.Context, e *entity.TransparenciaEvento) error
	ListPublic(ctx context.Context, municipioID string, p Page) ([]*entity.TransparenciaEvento, int, error)
}
