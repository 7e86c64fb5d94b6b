package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RubricaRequest cadastro/edição de rubrica.
type RubricaRequest struct {
	Codigo          string          `json:"codigo" validate:"required,max=30"`
	Nome            string          `json:"nome" validate:"required,max=120"`
	TipoEvento      string          `json:"tipo_evento" validate:"required,oneof=PROVENTO DESCONTO"`
	Natureza        string          `json:"natureza" validate:"required,oneof=FIXO VARIAVEL"`
	ValorReferencia decimal.Decimal `json:"valor_referencia"`
	Formula         string          `json:"formula"`
	Status          string          `json:"status" validate:"omitempty,oneof=ATIVO INATIVO"`
}

// RubricaResponse rubrica.
type RubricaResponse struct {
	ID              string          `json:"id"`
	Codigo          string          `json:"codigo"`
	Nome            string          `json:"nome"`
	TipoEvento      string          `json:"tipo_evento"`
	Natureza        string          `json:"natureza"`
	ValorReferencia decimal.Decimal `json:"valor_referencia"`
	Formula         string          `json:"formula"`
	Status          string          `json:"status"`
}

// CompetenciaRequest abertura de competência.
type CompetenciaRequest struct {
	Competencia string `json:"competencia" validate:"required"`
}

// CompetenciaResponse competência e totais.
type CompetenciaResponse struct {
	ID                 string          `json:"id"`
	Competencia        string          `json:"competencia"`
	Status             string          `json:"status"`
	TotalColaboradores int             `json:"total_colaboradores"`
	TotalProventos     decimal.Decimal `json:"total_proventos"`
	TotalDescontos     decimal.Decimal `json:"total_descontos"`
	TotalLiquido       decimal.Decimal `json:"total_liquido"`
	ProcessadoEm       *time.Time      `json:"processado_em,omitempty"`
	FechadoEm          *time.Time      `json:"fechado_em,omitempty"`
}

// LancamentoRequest lançamento na competência aberta.
type LancamentoRequest struct {
	ServidorNome      string           `json:"servidor_nome" validate:"required,max=180"`
	ServidorMatricula string           `json:"servidor_matricula" validate:"omitempty,max=40"`
	RubricaID         string           `json:"rubrica_id" validate:"required,uuid"`
	Quantidade        decimal.Decimal  `json:"quantidade"`
	ValorUnitario     *decimal.Decimal `json:"valor_unitario"`
	Observacao        string           `json:"observacao"`
}

// LancamentoResponse lançamento com dados da rubrica.
type LancamentoResponse struct {
	ID                string          `json:"id"`
	ServidorNome      string          `json:"servidor_nome"`
	ServidorMatricula string          `json:"servidor_matricula"`
	RubricaID         string          `json:"rubrica_id"`
	RubricaCodigo     string          `json:"rubrica_codigo,omitempty"`
	RubricaNome       string          `json:"rubrica_nome,omitempty"`
	TipoEvento        string          `json:"tipo_evento,omitempty"`
	Quantidade        decimal.Decimal `json:"quantidade"`
	ValorUnitario     decimal.Decimal `json:"valor_unitario"`
	ValorCalculado    decimal.Decimal `json:"valor_calculado"`
	Status            string          `json:"status"`
	Observacao        string          `json:"observacao"`
}

// EnvioFinanceiroResponse resultado do envio ao financeiro.
type EnvioFinanceiroResponse struct {
	CompetenciaID string          `json:"competencia_id"`
	Status        string          `json:"status"`
	Referencia    string          `json:"referencia"`
	TotalEnviado  decimal.Decimal `json:"total_enviado"`
	EnviadoEm     *time.Time      `json:"enviado_em,omitempty"`
	LiquidacaoID  string          `json:"liquidacao_id,omitempty"`
}

// Holerite dados do contracheque de um servidor, consumidos pelo gerador de PDF.
type Holerite struct {
	Municipio   string
	Competencia string
	Servidor    string
	Matricula   string
	Linhas      []HoleriteLinha
	Proventos   decimal.Decimal
	Descontos   decimal.Decimal
	Liquido     decimal.Decimal
	GeradoEm    time.Time
}

// HoleriteLinha rubrica do contracheque.
type HoleriteLinha struct {
	Codigo     string
	Descricao  string
	Quantidade decimal.Decimal
	Provento   decimal.Decimal
	Desconto   decimal.Decimal
}
