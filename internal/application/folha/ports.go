package folha

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

// TxRunner transação com competência, lançamentos e envio ao financeiro.
type TxRunner interface {
	RunFolha(ctx context.Context, fn func(
		compRepo repository.CompetenciaRepository,
		lancRepo repository.LancamentoRepository,
		finRepo repository.IntegracaoFinanceiroRepository,
	) error) error
}

// MunicipioResolver município de trabalho do usuário.
type MunicipioResolver interface {
	ResolveMunicipio(ctx context.Context, p rbac.Principal, requested string) (string, error)
}

// FinanceiroReceiver registra o líquido enviado como liquidação do empenho da folha.
// ErrNotFound indica que o município ainda não tem exercício ou empenho para a referência.
type FinanceiroReceiver interface {
	LiquidarFolha(ctx context.Context, p rbac.Principal, municipioID, competencia, referencia string, valor decimal.Decimal) (string, error)
}
