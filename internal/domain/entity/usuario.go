package entity

import "time"

// Papéis (roles) do perfil.
const (
	RoleAdmin      = "ADMIN"
	RoleMunicipal  = "MUNICIPAL"
	RoleSecretaria = "SECRETARIA"
	RoleUnidade    = "UNIDADE"
	RoleProfessor  = "PROFESSOR"
	RoleNEE        = "NEE"
	RoleLeitura    = "LEITURA"
)

// Roles lista os papéis válidos.
var Roles = []string{RoleAdmin, RoleMunicipal, RoleSecretaria, RoleUnidade, RoleProfessor, RoleNEE, RoleLeitura}

// Usuario junta credenciais e perfil (papel + escopo na hierarquia).
type Usuario struct {
	ID                 string
	Username           string
	Email              string
	Nome               string
	PasswordHash       string
	Role               string
	MunicipioID        string
	SecretariaID       string
	UnidadeID          string
	SetorID            string
	CPF                string
	CodigoAcesso       string
	Ativo              bool
	Bloqueado          bool
	MustChangePassword bool
	LastLoginAt        *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time

	// preenchidos em leituras
	MunicipioNome  string
	SecretariaNome string
	UnidadeNome    string
	SetorNome      string
}

// Ações de gestão de usuários registradas em auditoria.
const (
	UserActionCreate         = "CREATE"
	UserActionUpdate         = "UPDATE"
	UserActionToggleAtivo    = "TOGGLE_ATIVO"
	UserActionToggleBloqueio = "TOGGLE_BLOQUEIO"
	UserActionResetCodigo    = "RESET_CODIGO"
	UserActionResetSenha     = "RESET_SENHA"
)

// UserManagementAudit trilha das ações de gestores sobre usuários.
type UserManagementAudit struct {
	ID          string
	MunicipioID string
	ActorID     string
	TargetID    string
	Action      string
	Details     string
	CreatedAt   time.Time
}
