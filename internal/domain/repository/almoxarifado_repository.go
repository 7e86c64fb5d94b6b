package repository

import (
	"context"
	"time"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/shopspring/decimal"
)

// AlmoxItemRepository itens do almoxarifado.
type AlmoxItemRepository interface {
	Create(ctx context.Context, item *entity.AlmoxItem) error
	GetByID(ctx context.Context, id string) (*entity.AlmoxItem, error)
	// GetForUpdate bloqueia a linha (SELECT ... FOR UPDATE); usar dentro de transação.
	GetForUpdate(ctx context.Context, id string) (*entity.AlmoxItem, error)
	Update(ctx context.Context, item *entity.AlmoxItem) error
	UpdateSaldo(ctx context.Context, id string, saldo, valorMedio decimal.Decimal) error
	List(ctx context.Context, f ListFilter) ([]*entity.AlmoxItem, int, error)
	Dashboard(ctx context.Context, scope rbac.Scope, day time.Time) (entity.AlmoxDashboard, error)
}

// AlmoxMovimentoRepository razão de movimentos (somente inclusão).
type AlmoxMovimentoRepository interface {
	Create(ctx context.Context, m *entity.AlmoxMovimento) error
	// List usa ParentID como item_id quando preenchido.
	List(ctx context.Context, f ListFilter) ([]*entity.AlmoxMovimento, int, error)
}

// AlmoxRequisicaoRepository requisições de material.
type AlmoxRequisicaoRepository interface {
	Create(ctx context.Context, r *entity.AlmoxRequisicao) error
	GetByID(ctx context.Context, id string) (*entity.AlmoxRequisicao, error)
	GetForUpdate(ctx context.Context, id string) (*entity.AlmoxRequisicao, error)
	UpdateStatus(ctx context.Context, r *entity.AlmoxRequisicao) error
	List(ctx context.Context, f ListFilter) ([]*entity.AlmoxRequisicao, int, error)
	// NextNumero incrementa atomicamente o contador do município no ano.
	NextNumero(ctx context.Context, municipioID string, ano int) (int64, error)
	NumeroExists(ctx context.Context, municipioID, numero string) (bool, error)
}
