// Package financeiro regras da execução da despesa: empenho, liquidação e pagamento.
package financeiro

import (
	"fmt"
	"strconv"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// ExercicioAberto só exercícios abertos aceitam dotações e movimentos.
func ExercicioAberto(ex *entity.FinanceiroExercicio) error {
	if ex.Status != entity.ExercicioAberto {
		return fmt.Errorf("%w: exercício %d encerrado", domain.ErrConflict, ex.Ano)
	}
	return nil
}

func valorPositivo(v decimal.Decimal) error {
	if !v.IsPositive() {
		return domain.NewValidationError("valor", "o valor deve ser maior que zero")
	}
	return nil
}

// Empenhar reserva o valor na dotação. Dotação e empenho seguem com lock de linha do chamador.
func Empenhar(d *entity.OrcDotacao, e *entity.DespEmpenho) error {
	if err := valorPositivo(e.ValorEmpenhado); err != nil {
		return err
	}
	if e.ValorEmpenhado.GreaterThan(d.SaldoDisponivel()) {
		return domain.NewValidationError("valor", "Valor do empenho excede o saldo disponível da dotação.")
	}
	d.ValorEmpenhado = d.ValorEmpenhado.Add(e.ValorEmpenhado)
	e.ValorLiquidado = decimal.Zero
	e.ValorPago = decimal.Zero
	e.Status = entity.EmpenhoEmpenhado
	return nil
}

// Liquidar reconhece parte do empenho.
func Liquidar(d *entity.OrcDotacao, e *entity.DespEmpenho, valor decimal.Decimal) error {
	if err := valorPositivo(valor); err != nil {
		return err
	}
	if valor.GreaterThan(e.SaldoALiquidar()) {
		return domain.NewValidationError("valor", "Valor da liquidação excede o saldo a liquidar do empenho.")
	}
	e.ValorLiquidado = e.ValorLiquidado.Add(valor)
	d.ValorLiquidado = d.ValorLiquidado.Add(valor)
	e.Status = StatusEmpenho(e)
	return nil
}

// Pagar quita parte do liquidado.
func Pagar(d *entity.OrcDotacao, e *entity.DespEmpenho, valor decimal.Decimal) error {
	if err := valorPositivo(valor); err != nil {
		return err
	}
	if valor.GreaterThan(e.SaldoAPagar()) {
		return domain.NewValidationError("valor", "Valor do pagamento excede o saldo a pagar do empenho.")
	}
	e.ValorPago = e.ValorPago.Add(valor)
	d.ValorPago = d.ValorPago.Add(valor)
	e.Status = StatusEmpenho(e)
	return nil
}

// StatusEmpenho PAGO quando todo o liquidado foi pago, LIQUIDADO com alguma liquidação.
func StatusEmpenho(e *entity.DespEmpenho) string {
	switch {
	case e.ValorLiquidado.IsPositive() && e.ValorPago.GreaterThanOrEqual(e.ValorLiquidado):
		return entity.EmpenhoPago
	case e.ValorLiquidado.IsPositive():
		return entity.EmpenhoLiquidado
	default:
		return entity.EmpenhoEmpenhado
	}
}

// NumeroLiquidacao sequencial dentro do empenho: "1", "2"...
func NumeroLiquidacao(existentes int) string {
	return strconv.Itoa(existentes + 1)
}
