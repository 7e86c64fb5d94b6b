package rbac

import "github.com/gepub/gepub-api/internal/domain/entity"

// Principal usuário autenticado, montado a partir do token.
type Principal struct {
	UserID       string
	Role         string
	MunicipioID  string
	SecretariaID string
	UnidadeID    string
	SetorID      string
}

// IsAdmin atalho para o papel ADMIN.
func (p Principal) IsAdmin() bool { return p.Role == entity.RoleAdmin }

// Can atalho para Can(p.Role, perm).
func (p Principal) Can(perm string) bool { return Can(p.Role, perm) }

// Scope recorte da hierarquia visível a um usuário. Os campos preenchidos
// são aplicados como filtros cumulativos; All ignora filtros e None não vê nada.
type Scope struct {
	All          bool
	None         bool
	MunicipioID  string
	SecretariaID string
	UnidadeID    string
	SetorID      string
}

// ScopeFor calcula o escopo de leitura do usuário.
//
// ADMIN vê tudo; MUNICIPAL o município; SECRETARIA a secretaria; os demais
// papéis descem até o nível mais profundo preenchido no perfil. Sem município,
// um não-admin não vê nada.
func ScopeFor(p Principal) Scope {
	if p.IsAdmin() {
		return Scope{All: true}
	}
	if p.MunicipioID == "" {
		return Scope{None: true}
	}
	s := Scope{MunicipioID: p.MunicipioID}
	switch p.Role {
	case entity.RoleMunicipal:
		return s
	case entity.RoleSecretaria:
		s.SecretariaID = p.SecretariaID
		return s
	default:
		s.SecretariaID = p.SecretariaID
		s.UnidadeID = p.UnidadeID
		s.SetorID = p.SetorID
		return s
	}
}

// Contains indica se um registro (com sua posição na hierarquia) está no escopo.
// Campos vazios do registro só passam quando o escopo não filtra aquele nível.
func (s Scope) Contains(municipioID, secretariaID, unidadeID, setorID string) bool {
	if s.All {
		return true
	}
	if s.None {
		return false
	}
	if s.MunicipioID != "" && s.MunicipioID != municipioID {
		return false
	}
	if s.SecretariaID != "" && s.SecretariaID != secretariaID {
		return false
	}
	if s.UnidadeID != "" && s.UnidadeID != unidadeID {
		return false
	}
	if s.SetorID != "" && s.SetorID != setorID {
		return false
	}
	return true
}
