package repository

import "github.com/gepub/gepub-api/internal/domain/rbac"

// Page paginação comum às listagens.
type Page struct {
	Limit  int
	Offset int
}

// ListFilter filtros genéricos: escopo + busca textual + status.
type ListFilter struct {
	Scope    rbac.Scope
	ParentID string // id do nível superior (municipio, secretaria, unidade...)
	Q        string
	Status   string
	Tipo     string
	Ativo    *bool
	Page
}
