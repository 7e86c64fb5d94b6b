package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gepub/gepub-api/internal/application/almoxarifado"
	"github.com/gepub/gepub-api/internal/application/financeiro"
	"github.com/gepub/gepub-api/internal/application/folha"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

var (
	_ almoxarifado.TxRunner = (*TxRunner)(nil)
	_ folha.TxRunner        = (*TxRunner)(nil)
	_ financeiro.TxRunner   = (*TxRunner)(nil)
)

// TxRunner executa callbacks dentro de uma transação PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner constrói o runner com o pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Run abre a transação, executa fn com os repositórios do almoxarifado atados à tx e faz Commit ou Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.AlmoxItemRepository,
	movRepo repository.AlmoxMovimentoRepository,
	reqRepo repository.AlmoxRequisicaoRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewAlmoxItemRepository(tx), NewAlmoxMovimentoRepository(tx), NewAlmoxRequisicaoRepository(tx))
	})
}

// RunFolha transação com competência, lançamentos e envio ao financeiro (processar, fechar, enviar).
func (r *TxRunner) RunFolha(ctx context.Context, fn func(
	compRepo repository.CompetenciaRepository,
	lancRepo repository.LancamentoRepository,
	finRepo repository.IntegracaoFinanceiroRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewCompetenciaRepository(tx), NewLancamentoRepository(tx), NewIntegracaoFinanceiroRepository(tx))
	})
}

// RunFinanceiro transação de empenho, liquidação e pagamento.
func (r *TxRunner) RunFinanceiro(ctx context.Context, fn func(
	dotRepo repository.DotacaoRepository,
	empRepo repository.EmpenhoRepository,
	liqRepo repository.LiquidacaoRepository,
	pagRepo repository.PagamentoRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewDotacaoRepository(tx), NewEmpenhoRepository(tx), NewLiquidacaoRepository(tx), NewPagamentoRepository(tx))
	})
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
