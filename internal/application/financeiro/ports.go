package financeiro

import (
	"context"

	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

// TxRunner transação da execução da despesa.
type TxRunner interface {
	RunFinanceiro(ctx context.Context, fn func(
		dotRepo repository.DotacaoRepository,
		empRepo repository.EmpenhoRepository,
		liqRepo repository.LiquidacaoRepository,
		pagRepo repository.PagamentoRepository,
	) error) error
}

// MunicipioResolver município de trabalho do usuário.
type MunicipioResolver interface {
	ResolveMunicipio(ctx context.Context, p rbac.Principal, requested string) (string, error)
}

// Repos repositórios de leitura do financeiro.
type Repos struct {
	Exercicios  repository.ExercicioRepository
	Dotacoes    repository.DotacaoRepository
	Empenhos    repository.EmpenhoRepository
	Liquidacoes repository.LiquidacaoRepository
	Pagamentos  repository.PagamentoRepository
}
