package repository

import (
	"context"
	"time"

	"github.com/gepub/gepub-api/internal/domain/entity"
)

// UsuarioRepository porta de persistência de usuários e perfis.
type UsuarioRepository interface {
	Create(ctx context.Context, u *entity.Usuario) error
	GetByID(ctx context.Context, id string) (*entity.Usuario, error)
	// GetByLogin busca por codigo_acesso e, se não achar, por username (sem diferenciar caixa).
	GetByLogin(ctx context.Context, login string) (*entity.Usuario, error)
	Update(ctx context.Context, u *entity.Usuario) error
	UpdatePassword(ctx context.Context, id, hash string, mustChange bool) error
	TouchLogin(ctx context.Context, id string, at time.Time) error
	List(ctx context.Context, f ListFilter) ([]*entity.Usuario, int, error)
	CodigoExists(ctx context.Context, codigo, exceptID string) (bool, error)
	UsernameExists(ctx context.Context, username, exceptID string) (bool, error)
}

// UserAuditRepository trilha de gestão de usuários.
type UserAuditRepository interface {
	Create(ctx context.Context, a *entity.UserManagementAudit) error
	ListByTarget(ctx context.Context, targetID string, limit int) ([]*entity.UserManagementAudit, error)
}
