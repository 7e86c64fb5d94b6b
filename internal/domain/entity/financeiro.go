package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status do exercício financeiro.
const (
	ExercicioAberto    = "ABERTO"
	ExercicioEncerrado = "ENCERRADO"
)

// Tipos de empenho.
const (
	EmpenhoOrdinario  = "ORDINARIO"
	EmpenhoGlobal     = "GLOBAL"
	EmpenhoEstimativo = "ESTIMATIVO"
)

// EmpenhoTipos lista os tipos aceitos.
var EmpenhoTipos = []string{EmpenhoOrdinario, EmpenhoGlobal, EmpenhoEstimativo}

// Status do empenho, derivado dos valores liquidado e pago.
const (
	EmpenhoEmpenhado = "EMPENHADO"
	EmpenhoLiquidado = "LIQUIDADO"
	EmpenhoPago      = "PAGO"
)

// FinanceiroExercicio ano orçamentário do município.
type FinanceiroExercicio struct {
	ID          string
	MunicipioID string
	Ano         int
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OrcDotacao crédito orçamentário do exercício.
type OrcDotacao struct {
	ID              string
	MunicipioID     string
	ExercicioID     string
	SecretariaID    string
	ProgramaCodigo  string
	AcaoCodigo      string
	ElementoDespesa string
	Fonte           string
	Descricao       string
	ValorInicial    decimal.Decimal
	ValorAtualizado decimal.Decimal
	ValorEmpenhado  decimal.Decimal
	ValorLiquidado  decimal.Decimal
	ValorPago       decimal.Decimal
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SaldoDisponivel valor atualizado menos o já empenhado.
func (d *OrcDotacao) SaldoDisponivel() decimal.Decimal {
	return d.ValorAtualizado.Sub(d.ValorEmpenhado)
}

// DespEmpenho reserva de dotação para uma despesa.
type DespEmpenho struct {
	ID                  string
	MunicipioID         string
	ExercicioID         string
	DotacaoID           string
	Numero              string
	Data                time.Time
	FornecedorNome      string
	FornecedorDocumento string
	Objeto              string
	Tipo                string
	ValorEmpenhado      decimal.Decimal
	ValorLiquidado      decimal.Decimal
	ValorPago           decimal.Decimal
	Status              string
	CriadoPor           string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// SaldoALiquidar empenhado menos liquidado.
func (e *DespEmpenho) SaldoALiquidar() decimal.Decimal {
	return e.ValorEmpenhado.Sub(e.ValorLiquidado)
}

// SaldoAPagar liquidado menos pago.
func (e *DespEmpenho) SaldoAPagar() decimal.Decimal {
	return e.ValorLiquidado.Sub(e.ValorPago)
}

// DespLiquidacao reconhecimento da despesa de um empenho.
type DespLiquidacao struct {
	ID              string
	EmpenhoID       string
	Numero          string
	Data            time.Time
	DocumentoFiscal string
	Observacao      string
	Valor           decimal.Decimal
	CriadoPor       string
	CreatedAt       time.Time
}

// DespPagamento pagamento de uma liquidação.
type DespPagamento struct {
	ID             string
	EmpenhoID      string
	LiquidacaoID   string
	OrdemPagamento string
	Data           time.Time
	Valor          decimal.Decimal
	CriadoPor      string
	CreatedAt      time.Time
}
