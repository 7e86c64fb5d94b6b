package entity

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// AuditoriaEvento trilha de eventos de negócio por módulo.
type AuditoriaEvento struct {
	ID          string
	MunicipioID string
	Modulo      string
	Evento      string
	Entidade    string
	EntidadeID  string
	UsuarioID   string
	Antes       json.RawMessage
	Depois      json.RawMessage
	Observacao  string
	CreatedAt   time.Time
}

// TransparenciaEvento publicação para o portal da transparência.
type TransparenciaEvento struct {
	ID          string
	MunicipioID string
	Modulo      string
	TipoEvento  string
	Titulo      string
	Descricao   string
	Referencia  string
	Valor       *decimal.Decimal
	Dados       json.RawMessage
	Publico     bool
	CreatedAt   time.Time
}
