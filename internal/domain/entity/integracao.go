package entity

import (
	"encoding/json"
	"time"
)

// Domínios de conector.
const (
	DominioFinanceiro    = "FINANCEIRO"
	DominioEducacao      = "EDUCACAO"
	DominioSaude         = "SAUDE"
	DominioTransparencia = "TRANSPARENCIA"
	DominioGovBR         = "GOVBR"
	DominioSiconfi       = "SICONFI"
	DominioOutros        = "OUTROS"
)

// ConectorDominios lista os domínios aceitos.
var ConectorDominios = []string{
	DominioFinanceiro, DominioEducacao, DominioSaude, DominioTransparencia, DominioGovBR, DominioSiconfi, DominioOutros,
}

// Tipos de conector.
const (
	ConectorAPI     = "API"
	ConectorArquivo = "ARQUIVO"
	ConectorETL     = "ETL"
)

// ConectorTipos lista os tipos aceitos.
var ConectorTipos = []string{ConectorAPI, ConectorArquivo, ConectorETL}

// Direção e status de execução.
const (
	ExecucaoImportacao = "IMPORTACAO"
	ExecucaoExportacao = "EXPORTACAO"
	ExecucaoSucesso    = "SUCESSO"
	ExecucaoFalha      = "FALHA"
)

// ConectorIntegracao configuração de integração externa de um município.
type ConectorIntegracao struct {
	ID           string
	MunicipioID  string
	Nome         string
	Dominio      string
	Tipo         string
	Endpoint     string
	Credenciais  json.RawMessage
	Configuracao json.RawMessage
	Ativo        bool
	CriadoPor    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IntegracaoExecucao registro de uma execução de importação/exportação.
type IntegracaoExecucao struct {
	ID                  string
	MunicipioID         string
	ConectorID          string
	ConectorNome        string // preenchido em listagens
	Direcao             string
	Status              string
	Referencia          string
	QuantidadeRegistros int
	Detalhes            string
	ExecutadoPor        string
	ExecutadoEm         time.Time
}

// IntegracaoResumo números do hub de integrações.
type IntegracaoResumo struct {
	Conectores       int
	ConectoresAtivos int
	Execucoes30d     int
	Falhas30d        int
}
