package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AlmoxItemRequest cadastro/edição de item.
type AlmoxItemRequest struct {
	SecretariaID  string          `json:"secretaria_id" validate:"omitempty,uuid"`
	UnidadeID     string          `json:"unidade_id" validate:"omitempty,uuid"`
	SetorID       string          `json:"setor_id" validate:"omitempty,uuid"`
	Codigo        string          `json:"codigo" validate:"required,max=40"`
	Nome          string          `json:"nome" validate:"required,max=180"`
	UnidadeMedida string          `json:"unidade_medida" validate:"required,oneof=UN CX KG LT MT"`
	EstoqueMinimo decimal.Decimal `json:"estoque_minimo"`
	Status        string          `json:"status" validate:"omitempty,oneof=ATIVO INATIVO"`
	Observacao    string          `json:"observacao"`
}

// AlmoxItemResponse item com saldo corrente.
type AlmoxItemResponse struct {
	ID            string          `json:"id"`
	MunicipioID   string          `json:"municipio_id"`
	SecretariaID  string          `json:"secretaria_id,omitempty"`
	UnidadeID     string          `json:"unidade_id,omitempty"`
	SetorID       string          `json:"setor_id,omitempty"`
	Codigo        string          `json:"codigo"`
	Nome          string          `json:"nome"`
	UnidadeMedida string          `json:"unidade_medida"`
	EstoqueMinimo decimal.Decimal `json:"estoque_minimo"`
	SaldoAtual    decimal.Decimal `json:"saldo_atual"`
	ValorMedio    decimal.Decimal `json:"valor_medio"`
	AbaixoMinimo  bool            `json:"abaixo_minimo"`
	Status        string          `json:"status"`
	Observacao    string          `json:"observacao"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// AlmoxMovimentoRequest lançamento no razão.
type AlmoxMovimentoRequest struct {
	ItemID        string          `json:"item_id" validate:"required,uuid"`
	Tipo          string          `json:"tipo" validate:"required,oneof=ENTRADA SAIDA AJUSTE"`
	DataMovimento *time.Time      `json:"data_movimento"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valor_unitario"`
	Documento     string          `json:"documento" validate:"omitempty,max=80"`
	Observacao    string          `json:"observacao"`
}

// AlmoxMovimentoResponse movimento registrado.
type AlmoxMovimentoResponse struct {
	ID            string          `json:"id"`
	ItemID        string          `json:"item_id"`
	ItemCodigo    string          `json:"item_codigo,omitempty"`
	ItemNome      string          `json:"item_nome,omitempty"`
	Tipo          string          `json:"tipo"`
	DataMovimento time.Time       `json:"data_movimento"`
	Quantidade    decimal.Decimal `json:"quantidade"`
	ValorUnitario decimal.Decimal `json:"valor_unitario"`
	Documento     string          `json:"documento"`
	Observacao    string          `json:"observacao"`
	CriadoPor     string          `json:"criado_por,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// MovimentoResult movimento + item com saldo atualizado.
type MovimentoResult struct {
	Movimento AlmoxMovimentoResponse `json:"movimento"`
	Item      AlmoxItemResponse      `json:"item"`
}

// AlmoxRequisicaoRequest abertura de requisição.
type AlmoxRequisicaoRequest struct {
	Numero                  string          `json:"numero" validate:"omitempty,max=40"`
	ItemID                  string          `json:"item_id" validate:"required,uuid"`
	SecretariaSolicitanteID string          `json:"secretaria_solicitante_id" validate:"omitempty,uuid"`
	UnidadeSolicitanteID    string          `json:"unidade_solicitante_id" validate:"omitempty,uuid"`
	SetorSolicitanteID      string          `json:"setor_solicitante_id" validate:"omitempty,uuid"`
	Quantidade              decimal.Decimal `json:"quantidade"`
	Justificativa           string          `json:"justificativa"`
}

// AlmoxRequisicaoResponse requisição e seu estado.
type AlmoxRequisicaoResponse struct {
	ID                      string          `json:"id"`
	Numero                  string          `json:"numero"`
	ItemID                  string          `json:"item_id"`
	ItemCodigo              string          `json:"item_codigo,omitempty"`
	ItemNome                string          `json:"item_nome,omitempty"`
	SecretariaSolicitanteID string          `json:"secretaria_solicitante_id,omitempty"`
	UnidadeSolicitanteID    string          `json:"unidade_solicitante_id,omitempty"`
	SetorSolicitanteID      string          `json:"setor_solicitante_id,omitempty"`
	Quantidade              decimal.Decimal `json:"quantidade"`
	Justificativa           string          `json:"justificativa"`
	Status                  string          `json:"status"`
	AprovadoPor             string          `json:"aprovado_por,omitempty"`
	AprovadoEm              *time.Time      `json:"aprovado_em,omitempty"`
	AtendidoPor             string          `json:"atendido_por,omitempty"`
	AtendidoEm              *time.Time      `json:"atendido_em,omitempty"`
	CreatedAt               time.Time       `json:"created_at"`
}

// AlmoxDashboardResponse indicadores da tela inicial.
type AlmoxDashboardResponse struct {
	ItensAtivos          int `json:"itens_ativos"`
	ItensAbaixoMinimo    int `json:"itens_abaixo_minimo"`
	RequisicoesPendentes int `json:"requisicoes_pendentes"`
	MovimentosHoje       int `json:"movimentos_hoje"`
}
