package dto

import (
	"encoding/json"
	"time"
)

// ConectorRequest criação/edição de conector.
type ConectorRequest struct {
	Nome         string          `json:"nome" validate:"required,max=120"`
	Dominio      string          `json:"dominio" validate:"required,oneof=FINANCEIRO EDUCACAO SAUDE TRANSPARENCIA GOVBR SICONFI OUTROS"`
	Tipo         string          `json:"tipo" validate:"required,oneof=API ARQUIVO ETL"`
	Endpoint     string          `json:"endpoint" validate:"omitempty,max=300"`
	Credenciais  json.RawMessage `json:"credenciais" swaggertype:"object"`
	Configuracao json.RawMessage `json:"configuracao" swaggertype:"object"`
	Ativo        *bool           `json:"ativo"`
}

// ConectorResponse conector; credenciais vêm mascaradas sem integracoes.admin.
type ConectorResponse struct {
	ID           string          `json:"id"`
	MunicipioID  string          `json:"municipio_id"`
	Nome         string          `json:"nome"`
	Dominio      string          `json:"dominio"`
	Tipo         string          `json:"tipo"`
	Endpoint     string          `json:"endpoint"`
	Credenciais  json.RawMessage `json:"credenciais" swaggertype:"object"`
	Configuracao json.RawMessage `json:"configuracao" swaggertype:"object"`
	Ativo        bool            `json:"ativo"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ExecucaoRequest registro de execução.
type ExecucaoRequest struct {
	Direcao             string `json:"direcao" validate:"required,oneof=IMPORTACAO EXPORTACAO"`
	Status              string `json:"status" validate:"required,oneof=SUCESSO FALHA"`
	Referencia          string `json:"referencia" validate:"omitempty,max=120"`
	QuantidadeRegistros int    `json:"quantidade_registros" validate:"min=0"`
	Detalhes            string `json:"detalhes"`
}

// ExecucaoResponse execução registrada.
type ExecucaoResponse struct {
	ID                  string    `json:"id"`
	ConectorID          string    `json:"conector_id"`
	ConectorNome        string    `json:"conector_nome,omitempty"`
	Direcao             string    `json:"direcao"`
	Status              string    `json:"status"`
	Referencia          string    `json:"referencia"`
	QuantidadeRegistros int       `json:"quantidade_registros"`
	Detalhes            string    `json:"detalhes"`
	ExecutadoPor        string    `json:"executado_por,omitempty"`
	ExecutadoEm         time.Time `json:"executado_em"`
}

// IntegracaoResumoResponse números do hub.
type IntegracaoResumoResponse struct {
	Conectores       int `json:"conectores"`
	ConectoresAtivos int `json:"conectores_ativos"`
	Execucoes30d     int `json:"execucoes_30d"`
	Falhas30d        int `json:"falhas_30d"`
}
