package financeiro

import (
	"testing"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dotacao(atualizado string) *entity.OrcDotacao {
	return &entity.OrcDotacao{ValorAtualizado: dec(atualizado)}
}

func TestEmpenhar_RespeitaSaldoDaDotacao(t *testing.T) {
	d := dotacao("1000")
	e := &entity.DespEmpenho{ValorEmpenhado: dec("600")}
	require.NoError(t, Empenhar(d, e))
	assert.True(t, d.SaldoDisponivel().Equal(dec("400")))
	assert.Equal(t, entity.EmpenhoEmpenhado, e.Status)

	err := Empenhar(d, &entity.DespEmpenho{ValorEmpenhado: dec("400.01")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, d.ValorEmpenhado.Equal(dec("600")))

	assert.ErrorIs(t, Empenhar(d, &entity.DespEmpenho{ValorEmpenhado: decimal.Zero}), domain.ErrInvalidInput)
}

func TestLiquidarEPagar(t *testing.T) {
	d := dotacao("1000")
	e := &entity.DespEmpenho{ValorEmpenhado: dec("500")}
	require.NoError(t, Empenhar(d, e))

	require.NoError(t, Liquidar(d, e, dec("300")))
	assert.Equal(t, entity.EmpenhoLiquidado, e.Status)
	assert.True(t, e.SaldoALiquidar().Equal(dec("200")))
	assert.True(t, d.ValorLiquidado.Equal(dec("300")))

	assert.ErrorIs(t, Liquidar(d, e, dec("200.01")), domain.ErrInvalidInput)
	assert.ErrorIs(t, Pagar(d, e, dec("300.01")), domain.ErrInvalidInput)

	require.NoError(t, Pagar(d, e, dec("300")))
	assert.Equal(t, entity.EmpenhoPago, e.Status)
	assert.True(t, d.ValorPago.Equal(dec("300")))

	// nova liquidação volta o empenho para LIQUIDADO
	require.NoError(t, Liquidar(d, e, dec("50")))
	assert.Equal(t, entity.EmpenhoLiquidado, e.Status)
}

func TestExercicioAberto(t *testing.T) {
	assert.NoError(t, ExercicioAberto(&entity.FinanceiroExercicio{Ano: 2026, Status: entity.ExercicioAberto}))
	assert.ErrorIs(t, ExercicioAberto(&entity.FinanceiroExercicio{Ano: 2025, Status: entity.ExercicioEncerrado}), domain.ErrConflict)
}

func TestNumeroLiquidacao(t *testing.T) {
	assert.Equal(t, "1", NumeroLiquidacao(0))
	assert.Equal(t, "4", NumeroLiquidacao(3))
}
