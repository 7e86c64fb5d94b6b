package dto

import "github.com/gepub/gepub-api/internal/domain/repository"

// PageRequest paginação para listagens.
type PageRequest struct {
	Limit  int `query:"limit" validate:"omitempty,min=1,max=500"`
	Offset int `query:"offset" validate:"omitempty,min=0"`
}

// DefaultPage aplica valores padrão se Limit/Offset vierem zerados.
func (p *PageRequest) DefaultPage() {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Repo converte para a paginação dos repositórios.
func (p PageRequest) Repo() repository.Page {
	p.DefaultPage()
	return repository.Page{Limit: p.Limit, Offset: p.Offset}
}

// ListQuery filtros comuns das listagens (?q=&status=&tipo=&ativo=).
type ListQuery struct {
	PageRequest
	Q      string `query:"q"`
	Status string `query:"status"`
	Tipo   string `query:"tipo"`
	Ativo  *bool  `query:"ativo"`
}

// PageResponse metadados de página nas respostas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// NewPage monta PageResponse a partir da requisição e do total.
func NewPage(p repository.Page, total int) PageResponse {
	return PageResponse{Limit: p.Limit, Offset: p.Offset, Total: total}
}

// ListResponse lista paginada.
type ListResponse[T any] struct {
	Items []T          `json:"items"`
	Page  PageResponse `json:"page"`
}

// ErrorResponse corpo de erro HTTP.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details,omitempty"`
}

// MessageResponse resposta simples de sucesso.
type MessageResponse struct {
	Message string `json:"message"`
}
