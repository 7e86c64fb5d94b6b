// Package almoxarifado contém as regras puras do razão de estoque e das requisições.
package almoxarifado

import (
	"fmt"
	"time"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CustoMedio custo médio ponderado após uma entrada:
// ((saldo * custoAtual) + (qtd * custoEntrada)) / (saldo + qtd)
func CustoMedio(saldo, custoAtual, qtd, custoEntrada decimal.Decimal) decimal.Decimal {
	sum := saldo.Add(qtd)
	if sum.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	num := saldo.Mul(custoAtual).Add(qtd.Mul(custoEntrada))
	return num.Div(sum).Round(4)
}

// ValidarMovimento checa tipo, quantidade e valor antes de tocar no saldo.
func ValidarMovimento(tipo string, qtd, valorUnitario decimal.Decimal) error {
	switch tipo {
	case entity.MovimentoEntrada, entity.MovimentoSaida, entity.MovimentoAjuste:
	default:
		return domain.NewValidationError("tipo", fmt.Sprintf("tipo de movimento inválido: %q", tipo))
	}
	if !qtd.IsPositive() {
		return domain.NewValidationError("quantidade", "a quantidade deve ser maior que zero")
	}
	if valorUnitario.IsNegative() {
		return domain.NewValidationError("valor_unitario", "o valor unitário não pode ser negativo")
	}
	return nil
}

// AplicarMovimento atualiza saldo e valor médio do item conforme o tipo.
// O item deve ter sido lido com lock de linha pelo chamador.
func AplicarMovimento(item *entity.AlmoxItem, mov *entity.AlmoxMovimento) error {
	if err := ValidarMovimento(mov.Tipo, mov.Quantidade, mov.ValorUnitario); err != nil {
		return err
	}
	if item.Status != entity.ItemAtivo {
		return fmt.Errorf("%w: item inativo", domain.ErrConflict)
	}

	var novo decimal.Decimal
	switch mov.Tipo {
	case entity.MovimentoEntrada:
		if mov.ValorUnitario.IsPositive() {
			item.ValorMedio = CustoMedio(item.SaldoAtual, item.ValorMedio, mov.Quantidade, mov.ValorUnitario)
		}
		novo = item.SaldoAtual.Add(mov.Quantidade)
	case entity.MovimentoSaida:
		if item.SaldoAtual.LessThan(mov.Quantidade) {
			return domain.ErrInsufficientStock
		}
		novo = item.SaldoAtual.Sub(mov.Quantidade)
	case entity.MovimentoAjuste:
		novo = mov.Quantidade
	}
	if novo.IsNegative() {
		novo = decimal.Zero
	}
	item.SaldoAtual = novo
	return nil
}

// Ações sobre requisições.
const (
	AcaoAprovar  = "aprovar"
	AcaoAtender  = "atender"
	AcaoCancelar = "cancelar"
)

var transicoes = map[string]struct {
	from []string
	to   string
}{
	AcaoAprovar:  {from: []string{entity.RequisicaoPendente}, to: entity.RequisicaoAprovada},
	AcaoAtender:  {from: []string{entity.RequisicaoAprovada, entity.RequisicaoPendente}, to: entity.RequisicaoAtendida},
	AcaoCancelar: {from: []string{entity.RequisicaoPendente, entity.RequisicaoAprovada}, to: entity.RequisicaoCancelada},
}

// Transicao devolve o status resultante da ação ou ErrInvalidTransition.
func Transicao(status, acao string) (string, error) {
	t, ok := transicoes[acao]
	if !ok {
		return "", fmt.Errorf("%w: ação %q", domain.ErrInvalidTransition, acao)
	}
	for _, s := range t.from {
		if s == status {
			return t.to, nil
		}
	}
	return "", fmt.Errorf("%w: %s não permite %s", domain.ErrInvalidTransition, status, acao)
}

// NumeroRequisicao formata "REQ-2026-00042".
func NumeroRequisicao(ano int, seq int64) string {
	return fmt.Sprintf("REQ-%d-%05d", ano, seq)
}

// MovimentoAtendimento monta a saída gerada ao atender a requisição.
func MovimentoAtendimento(req *entity.AlmoxRequisicao, item *entity.AlmoxItem, userID string, now time.Time) *entity.AlmoxMovimento {
	return &entity.AlmoxMovimento{
		MunicipioID:   req.MunicipioID,
		ItemID:        req.ItemID,
		Tipo:          entity.MovimentoSaida,
		DataMovimento: now,
		Quantidade:    req.Quantidade,
		ValorUnitario: item.ValorMedio,
		Documento:     req.Numero,
		Observacao:    fmt.Sprintf("Atendimento da requisição %s", req.Numero),
		CriadoPor:     userID,
	}
}
