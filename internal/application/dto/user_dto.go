package dto

import "time"

// LoginRequest aceita codigo_acesso ou username.
type LoginRequest struct {
	CodigoAcesso string `json:"codigo_acesso"`
	Username     string `json:"username"`
	Password     string `json:"password" validate:"required"`
}

// Login identificador informado (código tem prioridade).
func (r LoginRequest) Login() string {
	if r.CodigoAcesso != "" {
		return r.CodigoAcesso
	}
	return r.Username
}

// LoginResponse token + dados do usuário.
type LoginResponse struct {
	Token              string          `json:"token"`
	MustChangePassword bool            `json:"must_change_password"`
	User               UsuarioResponse `json:"user"`
}

// ChangePasswordRequest troca de senha do próprio usuário.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required"`
}

// MeResponse usuário autenticado com permissões e módulos liberados.
type MeResponse struct {
	User    UsuarioResponse `json:"user"`
	Perms   []string        `json:"perms"`
	Modulos map[string]bool `json:"modulos"`
}

// CreateUsuarioRequest criação de usuário por um gestor.
type CreateUsuarioRequest struct {
	Nome         string `json:"nome" validate:"required,max=160"`
	Username     string `json:"username" validate:"omitempty,max=150"`
	Email        string `json:"email" validate:"omitempty,email"`
	CPF          string `json:"cpf" validate:"omitempty,max=14"`
	Role         string `json:"role" validate:"required"`
	MunicipioID  string `json:"municipio_id" validate:"omitempty,uuid"`
	SecretariaID string `json:"secretaria_id" validate:"omitempty,uuid"`
	UnidadeID    string `json:"unidade_id" validate:"omitempty,uuid"`
	SetorID      string `json:"setor_id" validate:"omitempty,uuid"`
}

// UpdateUsuarioRequest edição parcial de usuário.
type UpdateUsuarioRequest struct {
	Nome         *string `json:"nome" validate:"omitempty,max=160"`
	Email        *string `json:"email" validate:"omitempty,email"`
	CPF          *string `json:"cpf" validate:"omitempty,max=14"`
	Role         *string `json:"role"`
	SecretariaID *string `json:"secretaria_id" validate:"omitempty,uuid"`
	UnidadeID    *string `json:"unidade_id" validate:"omitempty,uuid"`
	SetorID      *string `json:"setor_id" validate:"omitempty,uuid"`
}

// UsuarioResponse saída de usuário (sem hash de senha).
type UsuarioResponse struct {
	ID                 string     `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	Nome               string     `json:"nome"`
	Role               string     `json:"role"`
	MunicipioID        string     `json:"municipio_id,omitempty"`
	SecretariaID       string     `json:"secretaria_id,omitempty"`
	UnidadeID          string     `json:"unidade_id,omitempty"`
	SetorID            string     `json:"setor_id,omitempty"`
	MunicipioNome      string     `json:"municipio_nome,omitempty"`
	SecretariaNome     string     `json:"secretaria_nome,omitempty"`
	UnidadeNome        string     `json:"unidade_nome,omitempty"`
	SetorNome          string     `json:"setor_nome,omitempty"`
	CPF                string     `json:"cpf,omitempty"`
	CodigoAcesso       string     `json:"codigo_acesso"`
	Ativo              bool       `json:"ativo"`
	Bloqueado          bool       `json:"bloqueado"`
	MustChangePassword bool       `json:"must_change_password"`
	LastLoginAt        *time.Time `json:"last_login_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// CredenciaisResponse devolvida uma única vez na criação e nos resets.
type CredenciaisResponse struct {
	User         UsuarioResponse `json:"user"`
	CodigoAcesso string          `json:"codigo_acesso"`
	SenhaInicial string          `json:"senha_inicial,omitempty"`
}

// UserAuditResponse linha da trilha de gestão.
type UserAuditResponse struct {
	ID        string    `json:"id"`
	ActorID   string    `json:"actor_id"`
	TargetID  string    `json:"target_id"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"created_at"`
}
