package usecase

import (
	"context"
	"fmt"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

// Hierarquia posição de um registro abaixo do município.
type Hierarquia struct {
	MunicipioID  string
	SecretariaID string
	UnidadeID    string
	SetorID      string
}

// HierarquiaCampos nomes de campo usados nos erros de validação.
type HierarquiaCampos struct {
	Secretaria string
	Unidade    string
	Setor      string
}

// CamposHierarquia nomes padrão (secretaria_id, unidade_id, setor_id).
var CamposHierarquia = HierarquiaCampos{Secretaria: "secretaria_id", Unidade: "unidade_id", Setor: "setor_id"}

// HierarquiaResolver completa e valida a posição de registros na hierarquia.
type HierarquiaResolver struct {
	secRepo   repository.SecretariaRepository
	uniRepo   repository.UnidadeRepository
	setorRepo repository.SetorRepository
}

// NewHierarquiaResolver constrói o resolvedor.
func NewHierarquiaResolver(
	secRepo repository.SecretariaRepository,
	uniRepo repository.UnidadeRepository,
	setorRepo repository.SetorRepository,
) *HierarquiaResolver {
	return &HierarquiaResolver{secRepo: secRepo, uniRepo: uniRepo, setorRepo: setorRepo}
}

// Resolve herda do escopo os níveis não informados, sobe setor → unidade → secretaria
// preenchendo os pais vazios e recusa níveis que não pertencem ao pai. Por fim exige que
// o resultado esteja dentro do escopo.
func (r *HierarquiaResolver) Resolve(ctx context.Context, sc rbac.Scope, h *Hierarquia, c HierarquiaCampos) error {
	if h.SecretariaID == "" {
		h.SecretariaID = sc.SecretariaID
	}
	if h.UnidadeID == "" {
		h.UnidadeID = sc.UnidadeID
	}
	if h.SetorID == "" {
		h.SetorID = sc.SetorID
	}

	if h.SetorID != "" {
		st, err := r.setorRepo.GetByID(ctx, h.SetorID)
		if err != nil {
			return err
		}
		if st == nil {
			return domain.NewValidationError(c.Setor, "setor não encontrado")
		}
		if h.UnidadeID == "" {
			h.UnidadeID = st.UnidadeID
		}
		if st.UnidadeID != h.UnidadeID {
			return domain.NewValidationError(c.Setor, "o setor não pertence à unidade")
		}
	}
	if h.UnidadeID != "" {
		un, err := r.uniRepo.GetByID(ctx, h.UnidadeID)
		if err != nil {
			return err
		}
		if un == nil {
			return domain.NewValidationError(c.Unidade, "unidade não encontrada")
		}
		if h.SecretariaID == "" {
			h.SecretariaID = un.SecretariaID
		}
		if un.SecretariaID != h.SecretariaID {
			return domain.NewValidationError(c.Unidade, "a unidade não pertence à secretaria")
		}
	}
	if h.SecretariaID != "" {
		s, err := r.secRepo.GetByID(ctx, h.SecretariaID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.NewValidationError(c.Secretaria, "secretaria não encontrada")
		}
		if s.MunicipioID != h.MunicipioID {
			return domain.NewValidationError(c.Secretaria, "a secretaria não pertence ao município")
		}
	}
	if !sc.Contains(h.MunicipioID, h.SecretariaID, h.UnidadeID, h.SetorID) {
		return fmt.Errorf("%w: fora do seu escopo", domain.ErrForbidden)
	}
	return nil
}

// ScopeMunicipio escopo de listagem dentro do município resolvido; para ADMIN restringe ao município escolhido.
func ScopeMunicipio(p rbac.Principal, municipioID string) rbac.Scope {
	if p.IsAdmin() {
		return rbac.Scope{MunicipioID: municipioID}
	}
	return rbac.ScopeFor(p)
}
