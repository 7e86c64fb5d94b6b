package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Unidades de medida de itens do almoxarifado.
const (
	MedidaUnidade = "UN"
	MedidaCaixa   = "CX"
	MedidaQuilo   = "KG"
	MedidaLitro   = "LT"
	MedidaMetro   = "MT"
)

// UnidadesMedida lista as unidades aceitas.
var UnidadesMedida = []string{MedidaUnidade, MedidaCaixa, MedidaQuilo, MedidaLitro, MedidaMetro}

// Status de item.
const (
	ItemAtivo   = "ATIVO"
	ItemInativo = "INATIVO"
)

// Tipos de movimento.
const (
	MovimentoEntrada = "ENTRADA"
	MovimentoSaida   = "SAIDA"
	MovimentoAjuste  = "AJUSTE"
)

// Status de requisição.
const (
	RequisicaoPendente  = "PENDENTE"
	RequisicaoAprovada  = "APROVADA"
	RequisicaoAtendida  = "ATENDIDA"
	RequisicaoCancelada = "CANCELADA"
)

// AlmoxItem item cadastrado no almoxarifado com saldo corrente.
type AlmoxItem struct {
	ID            string
	MunicipioID   string
	SecretariaID  string
	UnidadeID     string
	SetorID       string
	Codigo        string
	Nome          string
	UnidadeMedida string
	EstoqueMinimo decimal.Decimal
	SaldoAtual    decimal.Decimal
	ValorMedio    decimal.Decimal
	Status        string
	Observacao    string
	CriadoPor     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// AbaixoDoMinimo indica saldo menor que o estoque mínimo.
func (i *AlmoxItem) AbaixoDoMinimo() bool {
	return i.SaldoAtual.LessThan(i.EstoqueMinimo)
}

// AlmoxMovimento lançamento imutável do razão de estoque.
type AlmoxMovimento struct {
	ID            string
	MunicipioID   string
	ItemID        string
	Tipo          string
	DataMovimento time.Time
	Quantidade    decimal.Decimal
	ValorUnitario decimal.Decimal
	Documento     string
	Observacao    string
	CriadoPor     string
	CreatedAt     time.Time

	// Preenchidos nas listagens.
	ItemCodigo string
	ItemNome   string
}

// AlmoxRequisicao pedido de material de uma secretaria/unidade/setor.
type AlmoxRequisicao struct {
	ID                      string
	MunicipioID             string
	Numero                  string
	ItemID                  string
	SecretariaSolicitanteID string
	UnidadeSolicitanteID    string
	SetorSolicitanteID      string
	Quantidade              decimal.Decimal
	Justificativa           string
	Status                  string
	AprovadoPor             string
	AprovadoEm              *time.Time
	AtendidoPor             string
	AtendidoEm              *time.Time
	CriadoPor               string
	CreatedAt               time.Time
	UpdatedAt               time.Time

	ItemCodigo string
	ItemNome   string
}

// AlmoxDashboard indicadores da tela inicial do almoxarifado.
type AlmoxDashboard struct {
	ItensAtivos          int
	ItensAbaixoMinimo    int
	RequisicoesPendentes int
	MovimentosHoje       int
}
