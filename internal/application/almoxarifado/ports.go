package almoxarifado

import (
	"context"

	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

// TxRunner executa uma função dentro de uma transação, com repositórios atados a ela.
// Garante a atomicidade entre saldo do item, razão de movimentos e requisição.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.AlmoxItemRepository,
		movRepo repository.AlmoxMovimentoRepository,
		reqRepo repository.AlmoxRequisicaoRepository,
	) error) error
}

// MunicipioResolver município de trabalho do usuário (ADMIN escolhe, os demais ficam no token).
type MunicipioResolver interface {
	ResolveMunicipio(ctx context.Context, p rbac.Principal, requested string) (string, error)
}
