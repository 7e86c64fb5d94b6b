package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

// Integracoes conectores e execuções.
type Integracoes struct {
	mu         sync.Mutex
	Conectores map[string]*entity.ConectorIntegracao
	Execucoes  []*entity.IntegracaoExecucao
}

// NewIntegracoes hub vazio.
func NewIntegracoes() *Integracoes {
	return &Integracoes{Conectores: map[string]*entity.ConectorIntegracao{}}
}

func (i *Integracoes) ConectorRepo() repository.ConectorRepository { return conectorRepo{i} }
func (i *Integracoes) ExecucaoRepo() repository.ExecucaoRepository { return execucaoRepo{i} }

type conectorRepo struct{ i *Integracoes }

func (r conectorRepo) save(c *entity.ConectorIntegracao) error {
	for _, x := range r.i.Conectores {
		if x.ID != c.ID && x.MunicipioID == c.MunicipioID && strings.EqualFold(x.Nome, c.Nome) {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.i.Conectores[c.ID] = &cp
	return nil
}

func (r conectorRepo) Create(_ context.Context, c *entity.ConectorIntegracao) error {
	r.i.mu.Lock()
	defer r.i.mu.Unlock()
	return r.save(c)
}

func (r conectorRepo) GetByID(_ context.Context, id string) (*entity.ConectorIntegracao, error) {
	r.i.mu.Lock()
	defer r.i.mu.Unlock()
	if c, ok := r.i.Conectores[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r conectorRepo) Update(_ context.Context, c *entity.ConectorIntegracao) error {
	r.i.mu.Lock()
	defer r.i.mu.Unlock()
	return r.save(c)
}

func (r conectorRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.ConectorIntegracao, int, error) {
	r.i.mu.Lock()
	defer r.i.mu.Unlock()
	var all []*entity.ConectorIntegracao
	for _, c := range r.i.Conectores {
		if !f.Scope.Contains(c.MunicipioID, f.Scope.SecretariaID, f.Scope.UnidadeID, f.Scope.SetorID) {
			continue
		}
		if (f.Tipo != "" && c.Dominio != f.Tipo) || (f.Ativo != nil && c.Ativo != *f.Ativo) {
			continue
		}
		if !contains(c.Nome, f.Q) && !contains(c.Endpoint, f.Q) {
			continue
		}
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].Nome < all[b].Nome })
	items, total := paginate(all, f.Page)
	return items, total, nil
}

type execucaoRepo struct{ i *Integracoes }

func (r execucaoRepo) Create(_ context.Context, e *entity.IntegracaoExecucao) error {
	r.i.mu.Lock()
	defer r.i.mu.Unlock()
	if _, ok := r.i.Conectores[e.ConectorID]; !ok {
		return domain.ErrInUse
	}
	cp := *e
	r.i.Execucoes = append(r.i.Execucoes, &cp)
	return nil
}

func (r execucaoRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.IntegracaoExecucao, int, error) {
	r.i.mu.Lock()
	defer r.i.mu.Unlock()
	var all []*entity.IntegracaoExecucao
	for _, e := range r.i.Execucoes {
		if !f.Scope.Contains(e.MunicipioID, f.Scope.SecretariaID, f.Scope.UnidadeID, f.Scope.SetorID) {
			continue
		}
		if (f.ParentID != "" && e.ConectorID != f.ParentID) || (f.Status != "" && e.Status != f.Status) ||
			(f.Tipo != "" && e.Direcao != f.Tipo) {
			continue
		}
		cp := *e
		if c, ok := r.i.Conectores[e.ConectorID]; ok {
			cp.ConectorNome = c.Nome
		}
		if !contains(cp.Referencia, f.Q) && !contains(cp.ConectorNome, f.Q) {
			continue
		}
		all = append(all, &cp)
	}
	sort.SliceStable(all, func(a, b int) bool { return all[a].ExecutadoEm.After(all[b].ExecutadoEm) })
	items, total := paginate(all, f.Page)
	return items, total, nil
}

func (r execucaoRepo) Resumo(_ context.Context, municipioID string, since time.Time) (entity.IntegracaoResumo, error) {
	r.i.mu.Lock()
	defer r.i.mu.Unlock()
	var res entity.IntegracaoResumo
	for _, c := range r.i.Conectores {
		if c.MunicipioID != municipioID {
			continue
		}
		res.Conectores++
		if c.Ativo {
			res.ConectoresAtivos++
		}
	}
	for _, e := range r.i.Execucoes {
		if e.MunicipioID != municipioID || e.ExecutadoEm.Before(since) {
			continue
		}
		res.Execucoes30d++
		if e.Status == entity.ExecucaoFalha {
			res.Falhas30d++
		}
	}
	return res, nil
}
