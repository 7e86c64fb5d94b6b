package rbac

import (
	"testing"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/stretchr/testify/assert"
)

func TestCan_Hierarquia(t *testing.T) {
	assert.True(t, Can(entity.RoleAdmin, "qualquer.admin"))
	assert.True(t, Can(entity.RoleMunicipal, "almoxarifado.view"))
	assert.True(t, Can(entity.RoleMunicipal, "integracoes.admin"))
	assert.True(t, Can(entity.RoleSecretaria, "integracoes.view"))
	assert.False(t, Can(entity.RoleSecretaria, "integracoes.manage"))
	assert.True(t, Can(entity.RoleProfessor, "educacao"))
	assert.False(t, Can(entity.RoleProfessor, "educacao.manage"))
	assert.False(t, Can(entity.RoleLeitura, "accounts.view"))
	assert.False(t, Can(entity.RoleLeitura, "almoxarifado.acao_inexistente"))
}

func TestPerms_IncluiNiveisInferiores(t *testing.T) {
	p := Perms(entity.RoleSecretaria)
	assert.Contains(t, p, "almoxarifado.view")
	assert.Contains(t, p, "almoxarifado.manage")
	assert.NotContains(t, p, "almoxarifado.admin")
	assert.Contains(t, p, "financeiro.view")
	assert.NotContains(t, p, "financeiro.manage")
	assert.Contains(t, p, "saude.manage")
}

func TestCanAssignRole(t *testing.T) {
	assert.True(t, CanAssignRole(entity.RoleAdmin, entity.RoleAdmin))
	assert.True(t, CanAssignRole(entity.RoleMunicipal, entity.RoleSecretaria))
	assert.False(t, CanAssignRole(entity.RoleMunicipal, entity.RoleMunicipal))
	assert.True(t, CanAssignRole(entity.RoleUnidade, entity.RoleProfessor))
	assert.False(t, CanAssignRole(entity.RoleProfessor, entity.RoleLeitura))
	assert.False(t, CanAssignRole(entity.RoleAdmin, "ROOT"))
}

func TestScopeFor(t *testing.T) {
	assert.True(t, ScopeFor(Principal{Role: entity.RoleAdmin}).All)
	assert.True(t, ScopeFor(Principal{Role: entity.RoleMunicipal}).None)

	s := ScopeFor(Principal{Role: entity.RoleMunicipal, MunicipioID: "m", SecretariaID: "s"})
	assert.Equal(t, Scope{MunicipioID: "m"}, s)

	s = ScopeFor(Principal{Role: entity.RoleSecretaria, MunicipioID: "m", SecretariaID: "s", UnidadeID: "u"})
	assert.Equal(t, Scope{MunicipioID: "m", SecretariaID: "s"}, s)

	s = ScopeFor(Principal{Role: entity.RoleUnidade, MunicipioID: "m", SecretariaID: "s", UnidadeID: "u", SetorID: "x"})
	assert.Equal(t, Scope{MunicipioID: "m", SecretariaID: "s", UnidadeID: "u", SetorID: "x"}, s)
}

func TestScopeContains(t *testing.T) {
	s := Scope{MunicipioID: "m", SecretariaID: "s"}
	assert.True(t, s.Contains("m", "s", "u1", ""))
	assert.False(t, s.Contains("m", "outra", "", ""))
	assert.False(t, s.Contains("m", "", "", ""))
	assert.False(t, Scope{None: true}.Contains("m", "", "", ""))
	assert.True(t, Scope{All: true}.Contains("", "", "", ""))
}

func TestModuleEnabled(t *testing.T) {
	user := Principal{Role: entity.RoleSecretaria, MunicipioID: "m", SecretariaID: "s"}

	// sem catálogo: legado
	assert.True(t, ModuleEnabled(user, ModFolha, Catalog{}))

	cat := Catalog{Enforce: true, Active: map[string]bool{ModEducacao: true}}
	assert.True(t, ModuleEnabled(user, ModEducacao, cat))
	assert.True(t, ModuleEnabled(user, ModNEE, cat), "nee liberado via educacao")
	assert.False(t, ModuleEnabled(user, ModFolha, cat))

	// não gerenciado
	assert.True(t, ModuleEnabled(user, ModOrg, Blocked()))
	// admin
	assert.True(t, ModuleEnabled(Principal{Role: entity.RoleAdmin}, ModFolha, Blocked()))
}
