package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExercicioRequest abertura do exercício.
type ExercicioRequest struct {
	Ano int `json:"ano" validate:"required,min=2000,max=2100"`
}

// ExercicioResponse exercício financeiro.
type ExercicioResponse struct {
	ID          string    `json:"id"`
	MunicipioID string    `json:"municipio_id"`
	Ano         int       `json:"ano"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// DotacaoRequest cadastro de dotação.
type DotacaoRequest struct {
	ExercicioID     string          `json:"exercicio_id" validate:"required,uuid"`
	SecretariaID    string          `json:"secretaria_id" validate:"omitempty,uuid"`
	ProgramaCodigo  string          `json:"programa_codigo" validate:"required,max=20"`
	AcaoCodigo      string          `json:"acao_codigo" validate:"required,max=20"`
	ElementoDespesa string          `json:"elemento_despesa" validate:"required,max=20"`
	Fonte           string          `json:"fonte" validate:"required,max=20"`
	Descricao       string          `json:"descricao" validate:"omitempty,max=200"`
	ValorInicial    decimal.Decimal `json:"valor_inicial"`
}

// DotacaoResponse dotação com os valores executados.
type DotacaoResponse struct {
	ID              string          `json:"id"`
	ExercicioID     string          `json:"exercicio_id"`
	SecretariaID    string          `json:"secretaria_id,omitempty"`
	ProgramaCodigo  string          `json:"programa_codigo"`
	AcaoCodigo      string          `json:"acao_codigo"`
	ElementoDespesa string          `json:"elemento_despesa"`
	Fonte           string          `json:"fonte"`
	Descricao       string          `json:"descricao"`
	ValorInicial    decimal.Decimal `json:"valor_inicial"`
	ValorAtualizado decimal.Decimal `json:"valor_atualizado"`
	ValorEmpenhado  decimal.Decimal `json:"valor_empenhado"`
	ValorLiquidado  decimal.Decimal `json:"valor_liquidado"`
	ValorPago       decimal.Decimal `json:"valor_pago"`
	SaldoDisponivel decimal.Decimal `json:"saldo_disponivel"`
}

// EmpenhoRequest emissão de empenho.
type EmpenhoRequest struct {
	DotacaoID           string          `json:"dotacao_id" validate:"required,uuid"`
	Numero              string          `json:"numero" validate:"required,max=40"`
	Data                *time.Time      `json:"data"`
	FornecedorNome      string          `json:"fornecedor_nome" validate:"required,max=180"`
	FornecedorDocumento string          `json:"fornecedor_documento" validate:"omitempty,max=20"`
	Objeto              string          `json:"objeto" validate:"required"`
	Tipo                string          `json:"tipo" validate:"omitempty,oneof=ORDINARIO GLOBAL ESTIMATIVO"`
	Valor               decimal.Decimal `json:"valor"`
}

// EmpenhoResponse empenho e saldos.
type EmpenhoResponse struct {
	ID                  string          `json:"id"`
	ExercicioID         string          `json:"exercicio_id"`
	DotacaoID           string          `json:"dotacao_id"`
	Numero              string          `json:"numero"`
	Data                time.Time       `json:"data"`
	FornecedorNome      string          `json:"fornecedor_nome"`
	FornecedorDocumento string          `json:"fornecedor_documento"`
	Objeto              string          `json:"objeto"`
	Tipo                string          `json:"tipo"`
	ValorEmpenhado      decimal.Decimal `json:"valor_empenhado"`
	ValorLiquidado      decimal.Decimal `json:"valor_liquidado"`
	ValorPago           decimal.Decimal `json:"valor_pago"`
	SaldoALiquidar      decimal.Decimal `json:"saldo_a_liquidar"`
	SaldoAPagar         decimal.Decimal `json:"saldo_a_pagar"`
	Status              string          `json:"status"`
}

// EmpenhoDetalheResponse empenho com liquidações e pagamentos.
type EmpenhoDetalheResponse struct {
	EmpenhoResponse
	Liquidacoes []LiquidacaoResponse `json:"liquidacoes"`
	Pagamentos  []PagamentoResponse  `json:"pagamentos"`
}

// LiquidacaoRequest liquidação de parte do empenho.
type LiquidacaoRequest struct {
	Data            *time.Time      `json:"data"`
	DocumentoFiscal string          `json:"documento_fiscal" validate:"omitempty,max=60"`
	Observacao      string          `json:"observacao"`
	Valor           decimal.Decimal `json:"valor"`
}

// LiquidacaoResponse liquidação registrada.
type LiquidacaoResponse struct {
	ID              string          `json:"id"`
	EmpenhoID       string          `json:"empenho_id"`
	Numero          string          `json:"numero"`
	Data            time.Time       `json:"data"`
	DocumentoFiscal string          `json:"documento_fiscal"`
	Observacao      string          `json:"observacao"`
	Valor           decimal.Decimal `json:"valor"`
}

// PagamentoRequest pagamento de uma liquidação do empenho.
type PagamentoRequest struct {
	LiquidacaoID   string          `json:"liquidacao_id" validate:"required,uuid"`
	OrdemPagamento string          `json:"ordem_pagamento" validate:"omitempty,max=40"`
	Data           *time.Time      `json:"data"`
	Valor          decimal.Decimal `json:"valor"`
}

// PagamentoResponse pagamento registrado.
type PagamentoResponse struct {
	ID             string          `json:"id"`
	EmpenhoID      string          `json:"empenho_id"`
	LiquidacaoID   string          `json:"liquidacao_id"`
	OrdemPagamento string          `json:"ordem_pagamento"`
	Data           time.Time       `json:"data"`
	Valor          decimal.Decimal `json:"valor"`
}
