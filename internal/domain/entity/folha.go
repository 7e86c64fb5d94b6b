package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipo de evento da rubrica.
const (
	RubricaProvento = "PROVENTO"
	RubricaDesconto = "DESCONTO"
)

// Natureza da rubrica.
const (
	NaturezaFixo     = "FIXO"
	NaturezaVariavel = "VARIAVEL"
)

// Status da rubrica.
const (
	RubricaAtiva   = "ATIVO"
	RubricaInativa = "INATIVO"
)

// Status de competência.
const (
	CompetenciaAberta     = "ABERTA"
	CompetenciaProcessada = "PROCESSADA"
	CompetenciaFechada    = "FECHADA"
)

// Status de lançamento.
const (
	LancamentoPendente          = "PENDENTE"
	LancamentoValidado          = "VALIDADO"
	LancamentoEnviadoFinanceiro = "ENVIADO_FINANCEIRO"
)

// Status da integração folha → financeiro.
const (
	EnvioPendente = "PENDENTE"
	EnvioEnviada  = "ENVIADA"
	EnvioErro     = "ERRO"
)

// Rubrica evento de folha (provento ou desconto).
type Rubrica struct {
	ID              string
	MunicipioID     string
	Codigo          string
	Nome            string
	TipoEvento      string
	Natureza        string
	ValorReferencia decimal.Decimal
	Formula         string
	Status          string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// FolhaCompetencia mês de referência da folha com totais.
type FolhaCompetencia struct {
	ID                 string
	MunicipioID        string
	Competencia        string // YYYY-MM
	Status             string
	TotalColaboradores int
	TotalProventos     decimal.Decimal
	TotalDescontos     decimal.Decimal
	TotalLiquido       decimal.Decimal
	ProcessadoEm       *time.Time
	FechadoEm          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// FolhaLancamento valor de uma rubrica para um servidor na competência.
type FolhaLancamento struct {
	ID                string
	CompetenciaID     string
	ServidorNome      string
	ServidorMatricula string
	RubricaID         string
	RubricaCodigo     string // preenchido em leituras
	RubricaNome       string // preenchido em leituras
	TipoEvento        string // preenchido em leituras
	Quantidade        decimal.Decimal
	ValorUnitario     decimal.Decimal
	ValorCalculado    decimal.Decimal
	Status            string
	Observacao        string
	CreatedAt         time.Time
}

// FolhaIntegracaoFinanceiro envio da competência ao financeiro.
type FolhaIntegracaoFinanceiro struct {
	ID            string
	CompetenciaID string
	Status        string
	TotalEnviado  decimal.Decimal
	Referencia    string
	EnviadoEm     *time.Time
	EnviadoPor    string
}
