package usecase

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/ports"
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/org"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

const auditOrg = "ORG"

// OrgUseCase cadastro da hierarquia município → secretaria → unidade → setor.
type OrgUseCase struct {
	munRepo    repository.MunicipioRepository
	secRepo    repository.SecretariaRepository
	uniRepo    repository.UnidadeRepository
	setorRepo  repository.SetorRepository
	moduloRepo repository.ModuloRepository
	modules    *ModuleService
	auditor    ports.Auditor
}

// NewOrgUseCase constrói o caso de uso com os portos de persistência.
func NewOrgUseCase(
	munRepo repository.MunicipioRepository,
	secRepo repository.SecretariaRepository,
	uniRepo repository.UnidadeRepository,
	setorRepo repository.SetorRepository,
	moduloRepo repository.ModuloRepository,
	modules *ModuleService,
	auditor ports.Auditor,
) *OrgUseCase {
	return &OrgUseCase{
		munRepo:    munRepo,
		secRepo:    secRepo,
		uniRepo:    uniRepo,
		setorRepo:  setorRepo,
		moduloRepo: moduloRepo,
		modules:    modules,
		auditor:    auditor,
	}
}

// ── Município ────────────────────────────────────────────────────────────────

// CreateMunicipio cria o município; slug_site é derivado do nome quando vazio. Só ADMIN.
func (uc *OrgUseCase) CreateMunicipio(ctx context.Context, p rbac.Principal, in dto.MunicipioRequest) (*dto.MunicipioResponse, error) {
	if !p.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	now := time.Now()
	m := &entity.Municipio{
		ID:        uuid.New().String(),
		CreatedAt: now,
		UpdatedAt: now,
		Ativo:     true,
	}
	applyMunicipio(m, in)
	slug, err := org.UniqueSlug(ctx, org.BaseSlug(in.SlugSite, in.Nome), func(ctx context.Context, s string) (bool, error) {
		return uc.munRepo.SlugExists(ctx, s, "")
	})
	if err != nil {
		return nil, err
	}
	m.SlugSite = slug
	if err := uc.munRepo.Create(ctx, m); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, m.ID, "MUNICIPIO_CRIADO", "Municipio", m.ID, nil, m)
	return toMunicipioResponse(m), nil
}

// GetMunicipio obtém um município visível ao usuário.
func (uc *OrgUseCase) GetMunicipio(ctx context.Context, p rbac.Principal, id string) (*dto.MunicipioResponse, error) {
	m, err := uc.loadMunicipio(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return toMunicipioResponse(m), nil
}

// UpdateMunicipio atualiza o município; um slug informado é reaplicado com sufixo se colidir.
func (uc *OrgUseCase) UpdateMunicipio(ctx context.Context, p rbac.Principal, id string, in dto.MunicipioRequest) (*dto.MunicipioResponse, error) {
	m, err := uc.loadMunicipio(ctx, p, id)
	if err != nil {
		return nil, err
	}
	antes := *m
	applyMunicipio(m, in)
	if in.SlugSite != "" && in.SlugSite != antes.SlugSite {
		slug, err := org.UniqueSlug(ctx, org.BaseSlug(in.SlugSite, m.Nome), func(ctx context.Context, s string) (bool, error) {
			return uc.munRepo.SlugExists(ctx, s, m.ID)
		})
		if err != nil {
			return nil, err
		}
		m.SlugSite = slug
	}
	m.UpdatedAt = time.Now()
	if err := uc.munRepo.Update(ctx, m); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, m.ID, "MUNICIPIO_ATUALIZADO", "Municipio", m.ID, antes, m)
	return toMunicipioResponse(m), nil
}

// DeleteMunicipio remove o município; recusado com ErrInUse se houver vínculos. Só ADMIN.
func (uc *OrgUseCase) DeleteMunicipio(ctx context.Context, p rbac.Principal, id string) error {
	if !p.IsAdmin() {
		return domain.ErrForbidden
	}
	if _, err := uc.loadMunicipio(ctx, p, id); err != nil {
		return err
	}
	return uc.munRepo.Delete(ctx, id)
}

// ListMunicipios lista municípios no escopo do usuário.
func (uc *OrgUseCase) ListMunicipios(ctx context.Context, p rbac.Principal, q dto.ListQuery) (*dto.ListResponse[dto.MunicipioResponse], error) {
	page := q.Repo()
	list, total, err := uc.munRepo.List(ctx, repository.ListFilter{Scope: rbac.ScopeFor(p), Q: q.Q, Ativo: q.Ativo, Page: page})
	if err != nil {
		return nil, err
	}
	items := make([]dto.MunicipioResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toMunicipioResponse(m))
	}
	return &dto.ListResponse[dto.MunicipioResponse]{Items: items, Page: dto.NewPage(page, total)}, nil
}

func (uc *OrgUseCase) loadMunicipio(ctx context.Context, p rbac.Principal, id string) (*entity.Municipio, error) {
	m, err := uc.munRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s := rbac.ScopeFor(p)
	if m == nil || !s.Contains(m.ID, s.SecretariaID, s.UnidadeID, s.SetorID) {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// ── Secretaria ───────────────────────────────────────────────────────────────

// CreateSecretaria cria a secretaria no município do usuário (ADMIN pode informar municipio_id).
func (uc *OrgUseCase) CreateSecretaria(ctx context.Context, p rbac.Principal, in dto.SecretariaRequest) (*dto.SecretariaResponse, error) {
	municipioID, err := uc.modules.ResolveMunicipio(ctx, p, in.MunicipioID)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	s := &entity.Secretaria{
		ID:          uuid.New().String(),
		MunicipioID: municipioID,
		Nome:        strings.TrimSpace(in.Nome),
		Sigla:       strings.ToUpper(strings.TrimSpace(in.Sigla)),
		TipoModelo:  in.TipoModelo,
		Ativo:       in.Ativo == nil || *in.Ativo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.secRepo.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, municipioID, "SECRETARIA_CRIADA", "Secretaria", s.ID, nil, s)
	return toSecretariaResponse(s), nil
}

// GetSecretaria obtém a secretaria no escopo.
func (uc *OrgUseCase) GetSecretaria(ctx context.Context, p rbac.Principal, id string) (*dto.SecretariaResponse, error) {
	s, err := uc.loadSecretaria(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return toSecretariaResponse(s), nil
}

// UpdateSecretaria edita nome, sigla, modelo e situação.
func (uc *OrgUseCase) UpdateSecretaria(ctx context.Context, p rbac.Principal, id string, in dto.SecretariaRequest) (*dto.SecretariaResponse, error) {
	s, err := uc.loadSecretaria(ctx, p, id)
	if err != nil {
		return nil, err
	}
	antes := *s
	s.Nome = strings.TrimSpace(in.Nome)
	s.Sigla = strings.ToUpper(strings.TrimSpace(in.Sigla))
	s.TipoModelo = in.TipoModelo
	if in.Ativo != nil {
		s.Ativo = *in.Ativo
	}
	s.UpdatedAt = time.Now()
	if err := uc.secRepo.Update(ctx, s); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, s.MunicipioID, "SECRETARIA_ATUALIZADA", "Secretaria", s.ID, antes, s)
	return toSecretariaResponse(s), nil
}

// DeleteSecretaria remove a secretaria sem unidades vinculadas.
func (uc *OrgUseCase) DeleteSecretaria(ctx context.Context, p rbac.Principal, id string) error {
	s, err := uc.loadSecretaria(ctx, p, id)
	if err != nil {
		return err
	}
	if err := uc.secRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit(ctx, p, s.MunicipioID, "SECRETARIA_REMOVIDA", "Secretaria", s.ID, s, nil)
	return nil
}

// ListSecretarias lista secretarias; municipioID filtra (ADMIN).
func (uc *OrgUseCase) ListSecretarias(ctx context.Context, p rbac.Principal, municipioID string, q dto.ListQuery) (*dto.ListResponse[dto.SecretariaResponse], error) {
	page := q.Repo()
	list, total, err := uc.secRepo.List(ctx, repository.ListFilter{
		Scope: rbac.ScopeFor(p), ParentID: municipioID, Q: q.Q, Ativo: q.Ativo, Page: page,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SecretariaResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSecretariaResponse(s))
	}
	return &dto.ListResponse[dto.SecretariaResponse]{Items: items, Page: dto.NewPage(page, total)}, nil
}

func (uc *OrgUseCase) loadSecretaria(ctx context.Context, p rbac.Principal, id string) (*entity.Secretaria, error) {
	s, err := uc.secRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sc := rbac.ScopeFor(p)
	if s == nil || !sc.Contains(s.MunicipioID, s.ID, sc.UnidadeID, sc.SetorID) {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// ── Unidade ──────────────────────────────────────────────────────────────────

// CreateUnidade cria a unidade; a secretaria precisa estar no escopo do usuário.
func (uc *OrgUseCase) CreateUnidade(ctx context.Context, p rbac.Principal, in dto.UnidadeRequest) (*dto.UnidadeResponse, error) {
	if !slices.Contains(entity.UnidadeTipos, in.Tipo) {
		return nil, domain.NewValidationError("tipo", fmt.Sprintf("tipo de unidade inválido: %q", in.Tipo))
	}
	sec, err := uc.loadSecretaria(ctx, p, in.SecretariaID)
	if err != nil {
		return nil, secretariaFora(err)
	}
	now := time.Now()
	u := &entity.Unidade{
		ID:           uuid.New().String(),
		SecretariaID: sec.ID,
		MunicipioID:  sec.MunicipioID,
		CreatedAt:    now,
		UpdatedAt:    now,
		Ativo:        true,
	}
	applyUnidade(u, in)
	if err := uc.uniRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, u.MunicipioID, "UNIDADE_CRIADA", "Unidade", u.ID, nil, u)
	return toUnidadeResponse(u), nil
}

// GetUnidade obtém a unidade no escopo.
func (uc *OrgUseCase) GetUnidade(ctx context.Context, p rbac.Principal, id string) (*dto.UnidadeResponse, error) {
	u, err := uc.loadUnidade(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return toUnidadeResponse(u), nil
}

// UpdateUnidade edita a unidade; a troca de secretaria também é validada contra o escopo.
func (uc *OrgUseCase) UpdateUnidade(ctx context.Context, p rbac.Principal, id string, in dto.UnidadeRequest) (*dto.UnidadeResponse, error) {
	if !slices.Contains(entity.UnidadeTipos, in.Tipo) {
		return nil, domain.NewValidationError("tipo", fmt.Sprintf("tipo de unidade inválido: %q", in.Tipo))
	}
	u, err := uc.loadUnidade(ctx, p, id)
	if err != nil {
		return nil, err
	}
	antes := *u
	if in.SecretariaID != u.SecretariaID {
		sec, err := uc.loadSecretaria(ctx, p, in.SecretariaID)
		if err != nil {
			return nil, secretariaFora(err)
		}
		if sec.MunicipioID != u.MunicipioID {
			return nil, domain.NewValidationError("secretaria_id", "secretaria de outro município")
		}
		u.SecretariaID = sec.ID
	}
	applyUnidade(u, in)
	u.UpdatedAt = time.Now()
	if err := uc.uniRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, u.MunicipioID, "UNIDADE_ATUALIZADA", "Unidade", u.ID, antes, u)
	return toUnidadeResponse(u), nil
}

// DeleteUnidade remove a unidade sem setores, turmas ou usuários vinculados.
func (uc *OrgUseCase) DeleteUnidade(ctx context.Context, p rbac.Principal, id string) error {
	u, err := uc.loadUnidade(ctx, p, id)
	if err != nil {
		return err
	}
	if err := uc.uniRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit(ctx, p, u.MunicipioID, "UNIDADE_REMOVIDA", "Unidade", u.ID, u, nil)
	return nil
}

// ListUnidades lista unidades; secretariaID filtra.
func (uc *OrgUseCase) ListUnidades(ctx context.Context, p rbac.Principal, secretariaID string, q dto.ListQuery) (*dto.ListResponse[dto.UnidadeResponse], error) {
	page := q.Repo()
	list, total, err := uc.uniRepo.List(ctx, repository.ListFilter{
		Scope: rbac.ScopeFor(p), ParentID: secretariaID, Q: q.Q, Tipo: q.Tipo, Ativo: q.Ativo, Page: page,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.UnidadeResponse, 0, len(list))
	for _, u := range list {
		items = append(items, *toUnidadeResponse(u))
	}
	return &dto.ListResponse[dto.UnidadeResponse]{Items: items, Page: dto.NewPage(page, total)}, nil
}

func (uc *OrgUseCase) loadUnidade(ctx context.Context, p rbac.Principal, id string) (*entity.Unidade, error) {
	u, err := uc.uniRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	sc := rbac.ScopeFor(p)
	if u == nil || !sc.Contains(u.MunicipioID, u.SecretariaID, u.ID, sc.SetorID) {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

// ── Setor ────────────────────────────────────────────────────────────────────

// CreateSetor cria o setor em uma unidade do escopo.
func (uc *OrgUseCase) CreateSetor(ctx context.Context, p rbac.Principal, in dto.SetorRequest) (*dto.SetorResponse, error) {
	u, err := uc.loadUnidade(ctx, p, in.UnidadeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.NewValidationError("unidade_id", "unidade fora do seu escopo")
		}
		return nil, err
	}
	now := time.Now()
	s := &entity.Setor{
		ID:           uuid.New().String(),
		UnidadeID:    u.ID,
		SecretariaID: u.SecretariaID,
		MunicipioID:  u.MunicipioID,
		Nome:         strings.TrimSpace(in.Nome),
		Ativo:        in.Ativo == nil || *in.Ativo,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.setorRepo.Create(ctx, s); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, s.MunicipioID, "SETOR_CRIADO", "Setor", s.ID, nil, s)
	return toSetorResponse(s), nil
}

// GetSetor obtém o setor no escopo.
func (uc *OrgUseCase) GetSetor(ctx context.Context, p rbac.Principal, id string) (*dto.SetorResponse, error) {
	s, err := uc.loadSetor(ctx, p, id)
	if err != nil {
		return nil, err
	}
	return toSetorResponse(s), nil
}

// UpdateSetor renomeia ou (des)ativa o setor.
func (uc *OrgUseCase) UpdateSetor(ctx context.Context, p rbac.Principal, id string, in dto.SetorRequest) (*dto.SetorResponse, error) {
	s, err := uc.loadSetor(ctx, p, id)
	if err != nil {
		return nil, err
	}
	antes := *s
	s.Nome = strings.TrimSpace(in.Nome)
	if in.Ativo != nil {
		s.Ativo = *in.Ativo
	}
	s.UpdatedAt = time.Now()
	if err := uc.setorRepo.Update(ctx, s); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, s.MunicipioID, "SETOR_ATUALIZADO", "Setor", s.ID, antes, s)
	return toSetorResponse(s), nil
}

// DeleteSetor remove o setor sem vínculos.
func (uc *OrgUseCase) DeleteSetor(ctx context.Context, p rbac.Principal, id string) error {
	s, err := uc.loadSetor(ctx, p, id)
	if err != nil {
		return err
	}
	if err := uc.setorRepo.Delete(ctx, id); err != nil {
		return err
	}
	uc.audit(ctx, p, s.MunicipioID, "SETOR_REMOVIDO", "Setor", s.ID, s, nil)
	return nil
}

// ListSetores lista setores; unidadeID filtra.
func (uc *OrgUseCase) ListSetores(ctx context.Context, p rbac.Principal, unidadeID string, q dto.ListQuery) (*dto.ListResponse[dto.SetorResponse], error) {
	page := q.Repo()
	list, total, err := uc.setorRepo.List(ctx, repository.ListFilter{
		Scope: rbac.ScopeFor(p), ParentID: unidadeID, Q: q.Q, Ativo: q.Ativo, Page: page,
	})
	if err != nil {
		return nil, err
	}
	items := make([]dto.SetorResponse, 0, len(list))
	for _, s := range list {
		items = append(items, *toSetorResponse(s))
	}
	return &dto.ListResponse[dto.SetorResponse]{Items: items, Page: dto.NewPage(page, total)}, nil
}

func (uc *OrgUseCase) loadSetor(ctx context.Context, p rbac.Principal, id string) (*entity.Setor, error) {
	s, err := uc.setorRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil || !rbac.ScopeFor(p).Contains(s.MunicipioID, s.SecretariaID, s.UnidadeID, s.ID) {
		return nil, domain.ErrNotFound
	}
	return s, nil
}

// ── Catálogo de módulos ──────────────────────────────────────────────────────

// MunicipioModulos catálogo configurado do município.
func (uc *OrgUseCase) MunicipioModulos(ctx context.Context, p rbac.Principal, municipioID string) (*dto.ModulosResponse, error) {
	if _, err := uc.loadMunicipio(ctx, p, municipioID); err != nil {
		return nil, err
	}
	rows, err := uc.moduloRepo.ListMunicipio(ctx, municipioID)
	if err != nil {
		return nil, err
	}
	return toModulosResponse(municipioID, rows), nil
}

// SetMunicipioModulos grava o catálogo do município.
func (uc *OrgUseCase) SetMunicipioModulos(ctx context.Context, p rbac.Principal, municipioID string, in dto.ModulosRequest) (*dto.ModulosResponse, error) {
	if _, err := uc.loadMunicipio(ctx, p, municipioID); err != nil {
		return nil, err
	}
	mods, err := normalizeModulos(in.Modulos)
	if err != nil {
		return nil, err
	}
	if err := uc.moduloRepo.SetMunicipio(ctx, municipioID, mods); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, municipioID, "MODULOS_ATUALIZADOS", "Municipio", municipioID, nil, mods)
	return uc.MunicipioModulos(ctx, p, municipioID)
}

// SecretariaModulos catálogo configurado da secretaria.
func (uc *OrgUseCase) SecretariaModulos(ctx context.Context, p rbac.Principal, secretariaID string) (*dto.ModulosResponse, error) {
	if _, err := uc.loadSecretaria(ctx, p, secretariaID); err != nil {
		return nil, err
	}
	rows, err := uc.moduloRepo.ListSecretaria(ctx, secretariaID)
	if err != nil {
		return nil, err
	}
	return toModulosResponse(secretariaID, rows), nil
}

// SetSecretariaModulos grava o catálogo da secretaria.
func (uc *OrgUseCase) SetSecretariaModulos(ctx context.Context, p rbac.Principal, secretariaID string, in dto.ModulosRequest) (*dto.ModulosResponse, error) {
	s, err := uc.loadSecretaria(ctx, p, secretariaID)
	if err != nil {
		return nil, err
	}
	mods, err := normalizeModulos(in.Modulos)
	if err != nil {
		return nil, err
	}
	if err := uc.moduloRepo.SetSecretaria(ctx, secretariaID, mods); err != nil {
		return nil, err
	}
	uc.audit(ctx, p, s.MunicipioID, "MODULOS_ATUALIZADOS", "Secretaria", secretariaID, nil, mods)
	return uc.SecretariaModulos(ctx, p, secretariaID)
}

func normalizeModulos(in map[string]bool) (map[string]bool, error) {
	out := make(map[string]bool, len(in))
	for k, v := range in {
		m := strings.ToLower(strings.TrimSpace(k))
		if !rbac.ManagedModules[m] {
			return nil, domain.NewValidationError("modulos", fmt.Sprintf("módulo desconhecido: %q", k))
		}
		out[m] = v
	}
	return out, nil
}

func (uc *OrgUseCase) audit(ctx context.Context, p rbac.Principal, municipioID, evento, entidade, id string, antes, depois any) {
	uc.auditor.Registrar(ctx, entity.AuditoriaEvento{
		MunicipioID: municipioID,
		Modulo:      auditOrg,
		Evento:      evento,
		Entidade:    entidade,
		EntidadeID:  id,
		UsuarioID:   p.UserID,
		Antes:       ports.Snapshot(antes),
		Depois:      ports.Snapshot(depois),
	})
}

func secretariaFora(err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return domain.NewValidationError("secretaria_id", "secretaria fora do seu escopo")
	}
	return err
}

func applyMunicipio(m *entity.Municipio, in dto.MunicipioRequest) {
	m.Nome = strings.TrimSpace(in.Nome)
	m.UF = strings.ToUpper(strings.TrimSpace(in.UF))
	if m.UF == "" {
		m.UF = entity.DefaultUF
	}
	m.CNPJ = in.CNPJ
	m.RazaoSocial = in.RazaoSocial
	m.NomeFantasia = in.NomeFantasia
	m.Endereco = in.Endereco
	m.Telefone = in.Telefone
	m.Email = in.Email
	m.Site = in.Site
	if in.Ativo != nil {
		m.Ativo = *in.Ativo
	}
}

func applyUnidade(u *entity.Unidade, in dto.UnidadeRequest) {
	u.Nome = strings.TrimSpace(in.Nome)
	u.Tipo = in.Tipo
	u.CodigoINEP = in.CodigoINEP
	u.CNPJ = in.CNPJ
	u.Telefone = in.Telefone
	u.Email = in.Email
	u.Endereco = in.Endereco
	if in.Ativo != nil {
		u.Ativo = *in.Ativo
	}
}

func toMunicipioResponse(m *entity.Municipio) *dto.MunicipioResponse {
	return &dto.MunicipioResponse{
		ID:           m.ID,
		Nome:         m.Nome,
		UF:           m.UF,
		SlugSite:     m.SlugSite,
		CNPJ:         m.CNPJ,
		RazaoSocial:  m.RazaoSocial,
		NomeFantasia: m.NomeFantasia,
		Endereco:     m.Endereco,
		Telefone:     m.Telefone,
		Email:        m.Email,
		Site:         m.Site,
		Ativo:        m.Ativo,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}

func toSecretariaResponse(s *entity.Secretaria) *dto.SecretariaResponse {
	return &dto.SecretariaResponse{
		ID:          s.ID,
		MunicipioID: s.MunicipioID,
		Nome:        s.Nome,
		Sigla:       s.Sigla,
		TipoModelo:  s.TipoModelo,
		Ativo:       s.Ativo,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

func toUnidadeResponse(u *entity.Unidade) *dto.UnidadeResponse {
	return &dto.UnidadeResponse{
		ID:           u.ID,
		SecretariaID: u.SecretariaID,
		MunicipioID:  u.MunicipioID,
		Nome:         u.Nome,
		Tipo:         u.Tipo,
		CodigoINEP:   u.CodigoINEP,
		CNPJ:         u.CNPJ,
		Telefone:     u.Telefone,
		Email:        u.Email,
		Endereco:     u.Endereco,
		Ativo:        u.Ativo,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func toSetorResponse(s *entity.Setor) *dto.SetorResponse {
	return &dto.SetorResponse{
		ID:           s.ID,
		UnidadeID:    s.UnidadeID,
		SecretariaID: s.SecretariaID,
		MunicipioID:  s.MunicipioID,
		Nome:         s.Nome,
		Ativo:        s.Ativo,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
	}
}

func toModulosResponse(ownerID string, rows []entity.ModuloAtivo) *dto.ModulosResponse {
	out := &dto.ModulosResponse{OwnerID: ownerID, Modulos: make(map[string]bool, len(rows))}
	for _, r := range rows {
		out.Modulos[r.Modulo] = r.Ativo
	}
	return out
}
