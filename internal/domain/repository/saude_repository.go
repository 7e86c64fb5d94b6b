package repository

import (
	"context"
	"time"

	"github.com/gepub/gepub-api/internal/domain/entity"
)

// ProfissionalSaudeRepository profissionais; ParentID filtra a unidade e Tipo o cargo.
type ProfissionalSaudeRepository interface {
	Create(ctx context.Context, p *entity.ProfissionalSaude) error
	GetByID(ctx context.Context, id string) (*entity.ProfissionalSaude, error)
	Update(ctx context.Context, p *entity.ProfissionalSaude) error
	List(ctx context.Context, f ListFilter) ([]*entity.ProfissionalSaude, int, error)
}

// AgendamentoSaudeRepository agenda; ParentID filtra a unidade e Tipo o profissional.
type AgendamentoSaudeRepository interface {
	Create(ctx context.Context, a *entity.AgendamentoSaude) error
	GetByID(ctx context.Context, id string) (*entity.AgendamentoSaude, error)
	Update(ctx context.Context, a *entity.AgendamentoSaude) error
	List(ctx context.Context, f ListFilter) ([]*entity.AgendamentoSaude, int, error)
	// Sobrepostos agendamentos MARCADO/CONFIRMADO do profissional que cruzam [inicio, fim).
	Sobrepostos(ctx context.Context, profissionalID string, inicio, fim time.Time) ([]*entity.AgendamentoSaude, error)
}

// AtendimentoSaudeRepository atendimentos; ParentID filtra a unidade e Tipo o tipo.
type AtendimentoSaudeRepository interface {
	Create(ctx context.Context, a *entity.AtendimentoSaude) error
	GetByID(ctx context.Context, id string) (*entity.AtendimentoSaude, error)
	List(ctx context.Context, f ListFilter) ([]*entity.AtendimentoSaude, int, error)
}
