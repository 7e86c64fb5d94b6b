package domain

import (
	"errors"
	"maps"
	"slices"
	"strings"
)

// Erros de domínio (sem dependências externas).
var (
	ErrNotFound               = errors.New("recurso não encontrado")
	ErrInvalidInput           = errors.New("entrada inválida")
	ErrDuplicate              = errors.New("recurso duplicado")
	ErrUnauthorized           = errors.New("não autorizado")
	ErrInvalidCredentials     = errors.New("credenciais inválidas")
	ErrForbidden              = errors.New("acesso negado")
	ErrConflict               = errors.New("conflito com o estado atual")
	ErrInUse                  = errors.New("registro possui vínculos")
	ErrInsufficientStock      = errors.New("Saldo insuficiente para saída.")
	ErrInvalidTransition      = errors.New("transição de status inválida")
	ErrLocked                 = errors.New("muitas tentativas de login; tente novamente mais tarde")
	ErrAccountInactive        = errors.New("conta inativa ou bloqueada")
	ErrPasswordChangeRequired = errors.New("troca de senha obrigatória")
	ErrModuleDisabled         = errors.New("módulo não habilitado para este escopo")
	ErrQueueUnavailable       = errors.New("fila indisponível")
)

// ValidationError erro de validação associado a um campo (ex.: "pages", "arquivos_adicionais").
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError atalho para erros de campo.
func NewValidationError(field, msg string) error {
	return &ValidationError{Field: field, Message: msg}
}

// FieldErrors erros de validação agrupados por campo.
type FieldErrors map[string][]string

// Add acumula uma mensagem no campo.
func (f FieldErrors) Add(field, msg string) {
	f[field] = append(f[field], msg)
}

// Has indica se o campo possui erro.
func (f FieldErrors) Has(field string) bool {
	return len(f[field]) > 0
}

// Err devolve nil quando não há erros.
func (f FieldErrors) Err() error {
	if len(f) == 0 {
		return nil
	}
	return f
}

func (f FieldErrors) Error() string {
	var b strings.Builder
	for _, k := range slices.Sorted(maps.Keys(f)) {
		if b.Len() > 0 {
			b.WriteString("; ")
		}
		b.WriteString(k + ": " + strings.Join(f[k], ", "))
	}
	return b.String()
}

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (f FieldErrors) Unwrap() error { return ErrInvalidInput }
