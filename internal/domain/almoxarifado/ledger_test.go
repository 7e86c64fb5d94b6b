package almoxarifado

import (
	"errors"
	"testing"
	"time"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func novoItem(saldo, valor string) *entity.AlmoxItem {
	return &entity.AlmoxItem{SaldoAtual: dec(saldo), ValorMedio: dec(valor), Status: entity.ItemAtivo}
}

func TestCustoMedio(t *testing.T) {
	got := CustoMedio(dec("10"), dec("2"), dec("10"), dec("4"))
	assert.True(t, got.Equal(dec("3")), got.String())
	assert.True(t, CustoMedio(decimal.Zero, decimal.Zero, decimal.Zero, dec("4")).IsZero())
}

func TestAplicarMovimento_Entrada(t *testing.T) {
	item := novoItem("10", "2")
	err := AplicarMovimento(item, &entity.AlmoxMovimento{Tipo: entity.MovimentoEntrada, Quantidade: dec("10"), ValorUnitario: dec("4")})
	require.NoError(t, err)
	assert.True(t, item.SaldoAtual.Equal(dec("20")))
	assert.True(t, item.ValorMedio.Equal(dec("3")))
}

func TestAplicarMovimento_EntradaSemValorMantemMedio(t *testing.T) {
	item := novoItem("5", "7.5")
	require.NoError(t, AplicarMovimento(item, &entity.AlmoxMovimento{Tipo: entity.MovimentoEntrada, Quantidade: dec("1")}))
	assert.True(t, item.ValorMedio.Equal(dec("7.5")))
	assert.True(t, item.SaldoAtual.Equal(dec("6")))
}

func TestAplicarMovimento_SaidaInsuficiente(t *testing.T) {
	item := novoItem("3", "1")
	err := AplicarMovimento(item, &entity.AlmoxMovimento{Tipo: entity.MovimentoSaida, Quantidade: dec("4")})
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))
	assert.True(t, item.SaldoAtual.Equal(dec("3")), "saldo não muda em erro")
}

func TestAplicarMovimento_SaidaExata(t *testing.T) {
	item := novoItem("3", "1")
	require.NoError(t, AplicarMovimento(item, &entity.AlmoxMovimento{Tipo: entity.MovimentoSaida, Quantidade: dec("3")}))
	assert.True(t, item.SaldoAtual.IsZero())
}

func TestAplicarMovimento_Ajuste(t *testing.T) {
	item := novoItem("30", "1")
	require.NoError(t, AplicarMovimento(item, &entity.AlmoxMovimento{Tipo: entity.MovimentoAjuste, Quantidade: dec("12")}))
	assert.True(t, item.SaldoAtual.Equal(dec("12")))
}

func TestAplicarMovimento_Validacoes(t *testing.T) {
	item := novoItem("1", "1")
	err := AplicarMovimento(item, &entity.AlmoxMovimento{Tipo: entity.MovimentoEntrada, Quantidade: decimal.Zero})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	err = AplicarMovimento(item, &entity.AlmoxMovimento{Tipo: "TRANSFERENCIA", Quantidade: dec("1")})
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	item.Status = entity.ItemInativo
	err = AplicarMovimento(item, &entity.AlmoxMovimento{Tipo: entity.MovimentoEntrada, Quantidade: dec("1")})
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestTransicao(t *testing.T) {
	cases := []struct {
		status, acao, want string
		ok                 bool
	}{
		{entity.RequisicaoPendente, AcaoAprovar, entity.RequisicaoAprovada, true},
		{entity.RequisicaoAprovada, AcaoAprovar, "", false},
		{entity.RequisicaoPendente, AcaoAtender, entity.RequisicaoAtendida, true},
		{entity.RequisicaoAprovada, AcaoAtender, entity.RequisicaoAtendida, true},
		{entity.RequisicaoAtendida, AcaoAtender, "", false},
		{entity.RequisicaoAprovada, AcaoCancelar, entity.RequisicaoCancelada, true},
		{entity.RequisicaoAtendida, AcaoCancelar, "", false},
		{entity.RequisicaoPendente, "reabrir", "", false},
	}
	for _, c := range cases {
		got, err := Transicao(c.status, c.acao)
		if c.ok {
			require.NoError(t, err, c.status+"/"+c.acao)
			assert.Equal(t, c.want, got)
		} else {
			assert.True(t, errors.Is(err, domain.ErrInvalidTransition), c.status+"/"+c.acao)
		}
	}
}

func TestMovimentoAtendimento(t *testing.T) {
	req := &entity.AlmoxRequisicao{MunicipioID: "m", ItemID: "i", Numero: "REQ-2026-00001", Quantidade: dec("2")}
	mov := MovimentoAtendimento(req, novoItem("5", "3.2"), "u", time.Now())
	assert.Equal(t, entity.MovimentoSaida, mov.Tipo)
	assert.Equal(t, "REQ-2026-00001", mov.Documento)
	assert.Equal(t, "Atendimento da requisição REQ-2026-00001", mov.Observacao)
	assert.True(t, mov.ValorUnitario.Equal(dec("3.2")))
}

func TestNumeroRequisicao(t *testing.T) {
	assert.Equal(t, "REQ-2026-00042", NumeroRequisicao(2026, 42))
}
