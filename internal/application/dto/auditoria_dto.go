package dto

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AuditoriaResponse evento da trilha.
type AuditoriaResponse struct {
	ID         string          `json:"id"`
	Modulo     string          `json:"modulo"`
	Evento     string          `json:"evento"`
	Entidade   string          `json:"entidade"`
	EntidadeID string          `json:"entidade_id"`
	UsuarioID  string          `json:"usuario_id,omitempty"`
	Antes      json.RawMessage `json:"antes,omitempty" swaggertype:"object"`
	Depois     json.RawMessage `json:"depois,omitempty" swaggertype:"object"`
	Observacao string          `json:"observacao,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TransparenciaResponse evento público.
type TransparenciaResponse struct {
	Modulo     string           `json:"modulo"`
	TipoEvento string           `json:"tipo_evento"`
	Titulo     string           `json:"titulo"`
	Descricao  string           `json:"descricao"`
	Referencia string           `json:"referencia"`
	Valor      *decimal.Decimal `json:"valor,omitempty"`
	Dados      json.RawMessage  `json:"dados,omitempty" swaggertype:"object"`
	CreatedAt  time.Time        `json:"created_at"`
}
