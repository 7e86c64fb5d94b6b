// Package rbac concentra as regras de permissão, escopo e habilitação de módulos.
package rbac

import (
	"strings"

	"github.com/gepub/gepub-api/internal/domain/entity"
)

// Módulos com permissão própria.
const (
	ModOrg          = "org"
	ModAccounts     = "accounts"
	ModAlmoxarifado = "almoxarifado"
	ModConversor    = "conversor"
	ModIntegracoes  = "integracoes"
	ModNEE          = "nee"
	ModEducacao     = "educacao"
	ModFolha        = "folha"
	ModFinanceiro   = "financeiro"
	ModSaude        = "saude"
	ModAuditoria    = "auditoria"
)

// Level nível de acesso em um módulo. Um nível implica os inferiores.
type Level int

const (
	LevelNone Level = iota
	LevelView
	LevelManage
	LevelAdmin
)

var levelNames = map[string]Level{"view": LevelView, "manage": LevelManage, "admin": LevelAdmin}

var roleMatrix = map[string]map[string]Level{
	entity.RoleMunicipal: {
		ModOrg: LevelAdmin, ModAccounts: LevelManage, ModAlmoxarifado: LevelAdmin, ModConversor: LevelAdmin,
		ModIntegracoes: LevelAdmin, ModNEE: LevelAdmin, ModEducacao: LevelAdmin, ModFolha: LevelAdmin,
		ModFinanceiro: LevelAdmin, ModSaude: LevelAdmin, ModAuditoria: LevelView,
	},
	entity.RoleSecretaria: {
		ModOrg: LevelView, ModAccounts: LevelManage, ModAlmoxarifado: LevelManage, ModConversor: LevelManage,
		ModIntegracoes: LevelView, ModNEE: LevelManage, ModEducacao: LevelManage, ModFolha: LevelView,
		ModFinanceiro: LevelView, ModSaude: LevelManage,
	},
	entity.RoleUnidade: {
		ModOrg: LevelView, ModAccounts: LevelManage, ModAlmoxarifado: LevelManage, ModConversor: LevelManage,
		ModNEE: LevelManage, ModEducacao: LevelManage, ModSaude: LevelManage,
	},
	entity.RoleProfessor: {
		ModOrg: LevelView, ModEducacao: LevelView, ModNEE: LevelView, ModConversor: LevelManage,
	},
	entity.RoleNEE: {
		ModOrg: LevelView, ModNEE: LevelManage, ModEducacao: LevelView, ModConversor: LevelManage,
	},
	entity.RoleLeitura: {
		ModOrg: LevelView, ModAlmoxarifado: LevelView, ModConversor: LevelView, ModIntegracoes: LevelView,
		ModNEE: LevelView, ModEducacao: LevelView, ModFolha: LevelView, ModAuditoria: LevelView,
		ModFinanceiro: LevelView, ModSaude: LevelView,
	},
}

// ParsePerm separa "modulo.acao" em módulo e nível.
func ParsePerm(perm string) (string, Level) {
	mod, action, ok := strings.Cut(strings.ToLower(strings.TrimSpace(perm)), ".")
	if !ok {
		return mod, LevelView
	}
	return mod, levelNames[action]
}

// LevelOf nível do papel no módulo.
func LevelOf(role, module string) Level {
	if role == entity.RoleAdmin {
		return LevelAdmin
	}
	return roleMatrix[role][module]
}

// Can indica se o papel possui a permissão ("almoxarifado.manage", "org.view"...).
// Sem ação explícita ("org") equivale a ".view".
func Can(role, perm string) bool {
	mod, lvl := ParsePerm(perm)
	if lvl == LevelNone {
		return false
	}
	return LevelOf(role, mod) >= lvl
}

// Perms lista as permissões efetivas do papel, no formato "modulo.acao".
func Perms(role string) []string {
	mods := []string{ModOrg, ModAccounts, ModAlmoxarifado, ModConversor, ModIntegracoes, ModNEE, ModEducacao, ModFolha,
		ModFinanceiro, ModSaude, ModAuditoria}
	out := make([]string, 0, len(mods)*3)
	for _, m := range mods {
		lvl := LevelOf(role, m)
		if lvl >= LevelView {
			out = append(out, m+".view")
		}
		if lvl >= LevelManage {
			out = append(out, m+".manage")
		}
		if lvl >= LevelAdmin {
			out = append(out, m+".admin")
		}
	}
	return out
}

var roleRank = map[string]int{
	entity.RoleAdmin:      100,
	entity.RoleMunicipal:  80,
	entity.RoleSecretaria: 60,
	entity.RoleUnidade:    40,
	entity.RoleProfessor:  20,
	entity.RoleNEE:        20,
	entity.RoleLeitura:    10,
}

// ValidRole indica se o papel existe.
func ValidRole(role string) bool {
	_, ok := roleRank[role]
	return ok
}

// CanManageUsers papéis que administram usuários.
func CanManageUsers(role string) bool {
	return role == entity.RoleAdmin || LevelOf(role, ModAccounts) >= LevelManage
}

// CanAssignRole um gestor só atribui papéis abaixo do seu; ADMIN atribui qualquer um.
func CanAssignRole(actorRole, targetRole string) bool {
	if !ValidRole(targetRole) {
		return false
	}
	if actorRole == entity.RoleAdmin {
		return true
	}
	return CanManageUsers(actorRole) && roleRank[targetRole] < roleRank[actorRole]
}
