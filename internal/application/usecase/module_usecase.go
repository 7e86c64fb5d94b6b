package usecase

import (
	"context"
	"fmt"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

// ModuleService resolve o catálogo de módulos ativos e o município de trabalho do usuário.
// É o único ponto da aplicação que conhece a lógica de ativação de módulos.
type ModuleService struct {
	moduloRepo repository.ModuloRepository
	munRepo    repository.MunicipioRepository
}

// NewModuleService constrói o serviço de módulos.
func NewModuleService(moduloRepo repository.ModuloRepository, munRepo repository.MunicipioRepository) *ModuleService {
	return &ModuleService{moduloRepo: moduloRepo, munRepo: munRepo}
}

// Catalog catálogo efetivo do usuário: secretaria (papéis setoriais, quando configurado) e depois município.
func (s *ModuleService) Catalog(ctx context.Context, p rbac.Principal) (rbac.Catalog, error) {
	if p.IsAdmin() {
		return rbac.Catalog{}, nil
	}
	if rbac.UsesSecretariaCatalog(p.Role) {
		if p.SecretariaID == "" {
			return rbac.Blocked(), nil
		}
		rows, err := s.moduloRepo.ListSecretaria(ctx, p.SecretariaID)
		if err != nil {
			return rbac.Catalog{}, fmt.Errorf("module: catálogo da secretaria: %w", err)
		}
		if len(rows) > 0 {
			return toCatalog(rows), nil
		}
	}
	if p.MunicipioID == "" {
		return rbac.Blocked(), nil
	}
	rows, err := s.moduloRepo.ListMunicipio(ctx, p.MunicipioID)
	if err != nil {
		return rbac.Catalog{}, fmt.Errorf("module: catálogo do município: %w", err)
	}
	if len(rows) == 0 {
		return rbac.Catalog{}, nil
	}
	return toCatalog(rows), nil
}

// HasActiveModule informa se o módulo está liberado para o usuário.
// Devolve erro só em falhas de infraestrutura.
func (s *ModuleService) HasActiveModule(ctx context.Context, p rbac.Principal, module string) (bool, error) {
	cat, err := s.Catalog(ctx, p)
	if err != nil {
		return false, err
	}
	return rbac.ModuleEnabled(p, module, cat), nil
}

// EnabledModules mapa módulo → liberado, para a tela inicial.
func (s *ModuleService) EnabledModules(ctx context.Context, p rbac.Principal) (map[string]bool, error) {
	cat, err := s.Catalog(ctx, p)
	if err != nil {
		return nil, err
	}
	out := make(map[string]bool, len(rbac.ManagedModules))
	for m := range rbac.ManagedModules {
		out[m] = rbac.ModuleEnabled(p, m, cat) && rbac.LevelOf(p.Role, m) >= rbac.LevelView
	}
	return out, nil
}

// ResolveMunicipio município em que a operação acontece. ADMIN pode escolher via
// ?municipio_id=; sem escolha usa o primeiro município ativo. Os demais ficam presos ao token.
func (s *ModuleService) ResolveMunicipio(ctx context.Context, p rbac.Principal, requested string) (string, error) {
	if !p.IsAdmin() {
		if p.MunicipioID == "" {
			return "", fmt.Errorf("%w: usuário sem município vinculado", domain.ErrForbidden)
		}
		return p.MunicipioID, nil
	}
	var (
		m   *entity.Municipio
		err error
	)
	if requested != "" {
		m, err = s.munRepo.GetByID(ctx, requested)
	} else {
		m, err = s.munRepo.FirstActive(ctx)
	}
	if err != nil {
		return "", fmt.Errorf("module: resolver município: %w", err)
	}
	if m == nil {
		return "", fmt.Errorf("%w: município", domain.ErrNotFound)
	}
	return m.ID, nil
}

func toCatalog(rows []entity.ModuloAtivo) rbac.Catalog {
	cat := rbac.Catalog{Active: make(map[string]bool, len(rows)), Enforce: true}
	for _, r := range rows {
		if r.Ativo {
			cat.Active[r.Modulo] = true
		}
	}
	return cat
}
