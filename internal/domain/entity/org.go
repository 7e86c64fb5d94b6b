package entity

import "time"

// UF padrão para novos municípios.
const DefaultUF = "MA"

// Tipos de Unidade.
const (
	UnidadeEducacao       = "EDUCACAO"
	UnidadeSaude          = "SAUDE"
	UnidadeAdministracao  = "ADMINISTRACAO"
	UnidadeAssistencia    = "ASSISTENCIA"
	UnidadeInfraestrutura = "INFRAESTRUTURA"
	UnidadeAgricultura    = "AGRICULTURA"
	UnidadeTecnologia     = "TECNOLOGIA"
	UnidadeCultura        = "CULTURA"
	UnidadeEsporte        = "ESPORTE"
	UnidadeMeioAmbiente   = "MEIO_AMBIENTE"
	UnidadeOutros         = "OUTROS"
)

// UnidadeTipos lista os tipos aceitos.
var UnidadeTipos = []string{
	UnidadeEducacao, UnidadeSaude, UnidadeAdministracao, UnidadeAssistencia,
	UnidadeInfraestrutura, UnidadeAgricultura, UnidadeTecnologia, UnidadeCultura,
	UnidadeEsporte, UnidadeMeioAmbiente, UnidadeOutros,
}

// Municipio raiz da hierarquia de tenants.
type Municipio struct {
	ID           string
	Nome         string
	UF           string
	SlugSite     string
	CNPJ         string
	RazaoSocial  string
	NomeFantasia string
	Endereco     string
	Telefone     string
	Email        string
	Site         string
	Ativo        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Secretaria pertence a um Municipio.
type Secretaria struct {
	ID          string
	MunicipioID string
	Nome        string
	Sigla       string
	TipoModelo  string
	Ativo       bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Unidade pertence a uma Secretaria (escola, posto de saúde, departamento...).
type Unidade struct {
	ID           string
	SecretariaID string
	MunicipioID  string // derivado da secretaria, preenchido em leituras
	Nome         string
	Tipo         string
	CodigoINEP   string
	CNPJ         string
	Telefone     string
	Email        string
	Endereco     string
	Ativo        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Setor pertence a uma Unidade.
type Setor struct {
	ID           string
	UnidadeID    string
	SecretariaID string // derivado
	MunicipioID  string // derivado
	Nome         string
	Ativo        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ModuloAtivo entrada do catálogo de módulos de um município ou secretaria.
type ModuloAtivo struct {
	OwnerID string
	Modulo  string
	Ativo   bool
}
