package rbac

import (
	"strings"

	"github.com/gepub/gepub-api/internal/domain/entity"
)

// ManagedModules módulos sujeitos ao catálogo de módulos ativos.
var ManagedModules = map[string]bool{
	ModAlmoxarifado: true,
	ModConversor:    true,
	ModIntegracoes:  true,
	ModNEE:          true,
	ModEducacao:     true,
	ModFolha:        true,
	ModFinanceiro:   true,
	ModSaude:        true,
}

// moduleAliases NEE opera junto da trilha educacional: basta um dos dois ativo.
var moduleAliases = map[string][]string{
	ModNEE: {ModNEE, ModEducacao},
}

// Catalog módulos ativos de um escopo. Enforce=false significa que o escopo
// não tem catálogo configurado (modo legado, tudo liberado).
type Catalog struct {
	Active  map[string]bool
	Enforce bool
}

// UsesSecretariaCatalog papéis setoriais consultam o catálogo da secretaria primeiro.
func UsesSecretariaCatalog(role string) bool {
	return role == entity.RoleSecretaria || role == entity.RoleUnidade
}

// ModuleEnabled decide se o módulo está liberado para o usuário, dado o catálogo resolvido.
func ModuleEnabled(p Principal, module string, cat Catalog) bool {
	module = strings.ToLower(strings.TrimSpace(module))
	if module == "" || !ManagedModules[module] {
		return true
	}
	if p.IsAdmin() {
		return true
	}
	if !cat.Enforce {
		return true
	}
	keys, ok := moduleAliases[module]
	if !ok {
		keys = []string{module}
	}
	for _, k := range keys {
		if cat.Active[k] {
			return true
		}
	}
	return false
}

// Blocked catálogo que nega todos os módulos gerenciados.
func Blocked() Catalog {
	return Catalog{Active: map[string]bool{}, Enforce: true}
}
