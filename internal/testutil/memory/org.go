// Package memory implementações em memória das portas de persistência, usadas nos testes dos casos de uso.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

// Org hierarquia município → secretaria → unidade → setor e catálogo de módulos.
type Org struct {
	mu          sync.Mutex
	Municipios  map[string]*entity.Municipio
	Secretarias map[string]*entity.Secretaria
	Unidades    map[string]*entity.Unidade
	Setores     map[string]*entity.Setor
	ModulosMun  map[string]map[string]bool
	ModulosSec  map[string]map[string]bool
}

// NewOrg hierarquia vazia.
func NewOrg() *Org {
	return &Org{
		Municipios:  map[string]*entity.Municipio{},
		Secretarias: map[string]*entity.Secretaria{},
		Unidades:    map[string]*entity.Unidade{},
		Setores:     map[string]*entity.Setor{},
		ModulosMun:  map[string]map[string]bool{},
		ModulosSec:  map[string]map[string]bool{},
	}
}

// Seed atalho para montar uma hierarquia completa com ids fixos.
func (o *Org) Seed(municipioID, secretariaID, unidadeID, setorID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if municipioID != "" {
		o.Municipios[municipioID] = &entity.Municipio{ID: municipioID, Nome: "Mun " + municipioID, SlugSite: municipioID, Ativo: true}
	}
	if secretariaID != "" {
		o.Secretarias[secretariaID] = &entity.Secretaria{ID: secretariaID, MunicipioID: municipioID, Nome: "Sec " + secretariaID, Ativo: true}
	}
	if unidadeID != "" {
		o.Unidades[unidadeID] = &entity.Unidade{ID: unidadeID, SecretariaID: secretariaID, MunicipioID: municipioID, Nome: "Uni " + unidadeID, Ativo: true}
	}
	if setorID != "" {
		o.Setores[setorID] = &entity.Setor{ID: setorID, UnidadeID: unidadeID, SecretariaID: secretariaID, MunicipioID: municipioID, Nome: "Setor " + setorID, Ativo: true}
	}
}

// MunicipioRepo adaptador de municípios.
func (o *Org) MunicipioRepo() repository.MunicipioRepository { return municipioRepo{o} }

// SecretariaRepo adaptador de secretarias.
func (o *Org) SecretariaRepo() repository.SecretariaRepository { return secretariaRepo{o} }

// UnidadeRepo adaptador de unidades.
func (o *Org) UnidadeRepo() repository.UnidadeRepository { return unidadeRepo{o} }

// SetorRepo adaptador de setores.
func (o *Org) SetorRepo() repository.SetorRepository { return setorRepo{o} }

// ModuloRepo adaptador do catálogo de módulos.
func (o *Org) ModuloRepo() repository.ModuloRepository { return moduloRepo{o} }

func contains(s, q string) bool {
	return q == "" || strings.Contains(strings.ToLower(s), strings.ToLower(q))
}

func paginate[T any](all []T, p repository.Page) ([]T, int) {
	total := len(all)
	if p.Offset >= total {
		return nil, total
	}
	end := total
	if p.Limit > 0 && p.Offset+p.Limit < total {
		end = p.Offset + p.Limit
	}
	return all[p.Offset:end], total
}

type municipioRepo struct{ o *Org }

func (r municipioRepo) Create(_ context.Context, m *entity.Municipio) error {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	for _, x := range r.o.Municipios {
		if strings.EqualFold(x.Nome, m.Nome) {
			return domain.ErrDuplicate
		}
	}
	c := *m
	r.o.Municipios[m.ID] = &c
	return nil
}

func (r municipioRepo) GetByID(_ context.Context, id string) (*entity.Municipio, error) {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	if m, ok := r.o.Municipios[id]; ok {
		c := *m
		return &c, nil
	}
	return nil, nil
}

func (r municipioRepo) GetBySlug(_ context.Context, slug string) (*entity.Municipio, error) {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	for _, m := range r.o.Municipios {
		if m.SlugSite == slug {
			c := *m
			return &c, nil
		}
	}
	return nil, nil
}

func (r municipioRepo) FirstActive(_ context.Context) (*entity.Municipio, error) {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	var first *entity.Municipio
	for _, m := range r.o.Municipios {
		if m.Ativo && (first == nil || m.Nome < first.Nome) {
			first = m
		}
	}
	if first == nil {
		return nil, nil
	}
	c := *first
	return &c, nil
}

func (r municipioRepo) Update(_ context.Context, m *entity.Municipio) error {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	c := *m
	r.o.Municipios[m.ID] = &c
	return nil
}

func (r municipioRepo) Delete(_ context.Context, id string) error {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	for _, s := range r.o.Secretarias {
		if s.MunicipioID == id {
			return domain.ErrInUse
		}
	}
	delete(r.o.Municipios, id)
	return nil
}

func (r municipioRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Municipio, int, error) {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	var all []*entity.Municipio
	for _, m := range r.o.Municipios {
		if f.Scope.Contains(m.ID, f.Scope.SecretariaID, f.Scope.UnidadeID, f.Scope.SetorID) && contains(m.Nome, f.Q) {
			all = append(all, m)
		}
	}
	out, total := paginate(all, f.Page)
	return out, total, nil
}

func (r municipioRepo) SlugExists(_ context.Context, slug, exceptID string) (bool, error) {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	for _, m := range r.o.Municipios {
		if m.SlugSite == slug && m.ID != exceptID {
			return true, nil
		}
	}
	return false, nil
}

type secretariaRepo struct{ o *Org }

func (r secretariaRepo) Create(_ context.Context, s *entity.Secretaria) error {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	c := *s
	r.o.Secretarias[s.ID] = &c
	return nil
}

func (r secretariaRepo) GetByID(_ context.Context, id string) (*entity.Secretaria, error) {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	if s, ok := r.o.Secretarias[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (r secretariaRepo) Update(ctx context.Context, s *entity.Secretaria) error {
	return r.Create(ctx, s)
}

func (r secretariaRepo) Delete(_ context.Context, id string) error {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	for _, u := range r.o.Unidades {
		if u.SecretariaID == id {
			return domain.ErrInUse
		}
	}
	delete(r.o.Secretarias, id)
	return nil
}

func (r secretariaRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Secretaria, int, error) {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	var all []*entity.Secretaria
	for _, s := range r.o.Secretarias {
		if (f.ParentID == "" || s.MunicipioID == f.ParentID) && contains(s.Nome, f.Q) &&
			f.Scope.Contains(s.MunicipioID, s.ID, f.Scope.UnidadeID, f.Scope.SetorID) {
			all = append(all, s)
		}
	}
	out, total := paginate(all, f.Page)
	return out, total, nil
}

type unidadeRepo struct{ o *Org }

func (r unidadeRepo) Create(_ context.Context, u *entity.Unidade) error {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	c := *u
	if s, ok := r.o.Secretarias[u.SecretariaID]; ok {
		c.MunicipioID = s.MunicipioID
	}
	r.o.Unidades[u.ID] = &c
	return nil
}

func (r unidadeRepo) GetByID(_ context.Context, id string) (*entity.Unidade, error) {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	if u, ok := r.o.Unidades[id]; ok {
		c := *u
		return &c, nil
	}
	return nil, nil
}

func (r unidadeRepo) Update(ctx context.Context, u *entity.Unidade) error {
	return r.Create(ctx, u)
}

func (r unidadeRepo) Delete(_ context.Context, id string) error {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	for _, s := range r.o.Setores {
		if s.UnidadeID == id {
			return domain.ErrInUse
		}
	}
	delete(r.o.Unidades, id)
	return nil
}

func (r unidadeRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Unidade, int, error) {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	var all []*entity.Unidade
	for _, u := range r.o.Unidades {
		if (f.ParentID == "" || u.SecretariaID == f.ParentID) && contains(u.Nome, f.Q) &&
			f.Scope.Contains(u.MunicipioID, u.SecretariaID, u.ID, f.Scope.SetorID) {
			all = append(all, u)
		}
	}
	out, total := paginate(all, f.Page)
	return out, total, nil
}

type setorRepo struct{ o *Org }

func (r setorRepo) Create(_ context.Context, s *entity.Setor) error {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	c := *s
	if u, ok := r.o.Unidades[s.UnidadeID]; ok {
		c.SecretariaID, c.MunicipioID = u.SecretariaID, u.MunicipioID
	}
	r.o.Setores[s.ID] = &c
	return nil
}

func (r setorRepo) GetByID(_ context.Context, id string) (*entity.Setor, error) {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	if s, ok := r.o.Setores[id]; ok {
		c := *s
		return &c, nil
	}
	return nil, nil
}

func (r setorRepo) Update(ctx context.Context, s *entity.Setor) error {
	return r.Create(ctx, s)
}

func (r setorRepo) Delete(_ context.Context, id string) error {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	delete(r.o.Setores, id)
	return nil
}

func (r setorRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Setor, int, error) {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	var all []*entity.Setor
	for _, s := range r.o.Setores {
		if (f.ParentID == "" || s.UnidadeID == f.ParentID) && contains(s.Nome, f.Q) &&
			f.Scope.Contains(s.MunicipioID, s.SecretariaID, s.UnidadeID, s.ID) {
			all = append(all, s)
		}
	}
	out, total := paginate(all, f.Page)
	return out, total, nil
}

type moduloRepo struct{ o *Org }

func rows(owner string, m map[string]bool) []entity.ModuloAtivo {
	out := make([]entity.ModuloAtivo, 0, len(m))
	for k, v := range m {
		out = append(out, entity.ModuloAtivo{OwnerID: owner, Modulo: k, Ativo: v})
	}
	return out
}

func (r moduloRepo) ListMunicipio(_ context.Context, id string) ([]entity.ModuloAtivo, error) {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	return rows(id, r.o.ModulosMun[id]), nil
}

func (r moduloRepo) ListSecretaria(_ context.Context, id string) ([]entity.ModuloAtivo, error) {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	return rows(id, r.o.ModulosSec[id]), nil
}

func (r moduloRepo) SetMunicipio(_ context.Context, id string, modulos map[string]bool) error {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	r.o.ModulosMun[id] = modulos
	return nil
}

func (r moduloRepo) SetSecretaria(_ context.Context, id string, modulos map[string]bool) error {
	r.o.mu.Lock()
	defer r.o.mu.Unlock()
	r.o.ModulosSec[id] = modulos
	return nil
}
