package dto

import "time"

// MunicipioRequest criação/edição de município.
type MunicipioRequest struct {
	Nome         string `json:"nome" validate:"required,max=120"`
	UF           string `json:"uf" validate:"omitempty,len=2"`
	SlugSite     string `json:"slug_site" validate:"omitempty,max=90"`
	CNPJ         string `json:"cnpj" validate:"omitempty,max=18"`
	RazaoSocial  string `json:"razao_social" validate:"omitempty,max=200"`
	NomeFantasia string `json:"nome_fantasia" validate:"omitempty,max=200"`
	Endereco     string `json:"endereco"`
	Telefone     string `json:"telefone" validate:"omitempty,max=30"`
	Email        string `json:"email" validate:"omitempty,email"`
	Site         string `json:"site" validate:"omitempty,max=200"`
	Ativo        *bool  `json:"ativo"`
}

// MunicipioResponse saída de município.
type MunicipioResponse struct {
	ID           string    `json:"id"`
	Nome         string    `json:"nome"`
	UF           string    `json:"uf"`
	SlugSite     string    `json:"slug_site"`
	CNPJ         string    `json:"cnpj"`
	RazaoSocial  string    `json:"razao_social"`
	NomeFantasia string    `json:"nome_fantasia"`
	Endereco     string    `json:"endereco"`
	Telefone     string    `json:"telefone"`
	Email        string    `json:"email"`
	Site         string    `json:"site"`
	Ativo        bool      `json:"ativo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SecretariaRequest criação/edição de secretaria.
type SecretariaRequest struct {
	MunicipioID string `json:"municipio_id" validate:"omitempty,uuid"`
	Nome        string `json:"nome" validate:"required,max=160"`
	Sigla       string `json:"sigla" validate:"omitempty,max=20"`
	TipoModelo  string `json:"tipo_modelo" validate:"omitempty,max=40"`
	Ativo       *bool  `json:"ativo"`
}

// SecretariaResponse saída de secretaria.
type SecretariaResponse struct {
	ID          string    `json:"id"`
	MunicipioID string    `json:"municipio_id"`
	Nome        string    `json:"nome"`
	Sigla       string    `json:"sigla"`
	TipoModelo  string    `json:"tipo_modelo"`
	Ativo       bool      `json:"ativo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// UnidadeRequest criação/edição de unidade.
type UnidadeRequest struct {
	SecretariaID string `json:"secretaria_id" validate:"required,uuid"`
	Nome         string `json:"nome" validate:"required,max=160"`
	Tipo         string `json:"tipo" validate:"required"`
	CodigoINEP   string `json:"codigo_inep" validate:"omitempty,max=20"`
	CNPJ         string `json:"cnpj" validate:"omitempty,max=18"`
	Telefone     string `json:"telefone" validate:"omitempty,max=30"`
	Email        string `json:"email" validate:"omitempty,email"`
	Endereco     string `json:"endereco"`
	Ativo        *bool  `json:"ativo"`
}

// UnidadeResponse saída de unidade.
type UnidadeResponse struct {
	ID           string    `json:"id"`
	SecretariaID string    `json:"secretaria_id"`
	MunicipioID  string    `json:"municipio_id"`
	Nome         string    `json:"nome"`
	Tipo         string    `json:"tipo"`
	CodigoINEP   string    `json:"codigo_inep"`
	CNPJ         string    `json:"cnpj"`
	Telefone     string    `json:"telefone"`
	Email        string    `json:"email"`
	Endereco     string    `json:"endereco"`
	Ativo        bool      `json:"ativo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// SetorRequest criação/edição de setor.
type SetorRequest struct {
	UnidadeID string `json:"unidade_id" validate:"required,uuid"`
	Nome      string `json:"nome" validate:"required,max=160"`
	Ativo     *bool  `json:"ativo"`
}

// SetorResponse saída de setor.
type SetorResponse struct {
	ID           string    `json:"id"`
	UnidadeID    string    `json:"unidade_id"`
	SecretariaID string    `json:"secretaria_id"`
	MunicipioID  string    `json:"municipio_id"`
	Nome         string    `json:"nome"`
	Ativo        bool      `json:"ativo"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ModulosRequest PUT do catálogo de módulos: {"modulos": {"almoxarifado": true, ...}}.
type ModulosRequest struct {
	Modulos map[string]bool `json:"modulos" validate:"required"`
}

// ModulosResponse catálogo de um município ou secretaria.
type ModulosResponse struct {
	OwnerID string          `json:"owner_id"`
	Modulos map[string]bool `json:"modulos"`
}
