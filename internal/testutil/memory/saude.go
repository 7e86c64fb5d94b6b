package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/repository"
	"github.com/gepub/gepub-api/internal/domain/saude"
)

// Saude profissionais, agenda e atendimentos.
type Saude struct {
	mu            sync.Mutex
	Profissionais map[string]*entity.ProfissionalSaude
	Agendamentos  map[string]*entity.AgendamentoSaude
	Atendimentos  map[string]*entity.AtendimentoSaude
}

// NewSaude saúde vazia.
func NewSaude() *Saude {
	return &Saude{
		Profissionais: map[string]*entity.ProfissionalSaude{},
		Agendamentos:  map[string]*entity.AgendamentoSaude{},
		Atendimentos:  map[string]*entity.AtendimentoSaude{},
	}
}

func (s *Saude) ProfissionalRepo() repository.ProfissionalSaudeRepository { return profissionalRepo{s} }
func (s *Saude) AgendamentoRepo() repository.AgendamentoSaudeRepository   { return agendamentoRepo{s} }
func (s *Saude) AtendimentoRepo() repository.AtendimentoSaudeRepository   { return atendimentoRepo{s} }

type profissionalRepo struct{ s *Saude }

func (r profissionalRepo) Create(_ context.Context, p *entity.ProfissionalSaude) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *p
	r.s.Profissionais[p.ID] = &cp
	return nil
}

func (r profissionalRepo) GetByID(_ context.Context, id string) (*entity.ProfissionalSaude, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if p, ok := r.s.Profissionais[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, nil
}

func (r profissionalRepo) Update(ctx context.Context, p *entity.ProfissionalSaude) error {
	return r.Create(ctx, p)
}

func (r profissionalRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.ProfissionalSaude, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.ProfissionalSaude
	for _, p := range r.s.Profissionais {
		if !f.Scope.Contains(p.MunicipioID, p.SecretariaID, p.UnidadeID, "") {
			continue
		}
		if (f.ParentID != "" && p.UnidadeID != f.ParentID) || (f.Tipo != "" && p.Cargo != f.Tipo) ||
			(f.Ativo != nil && p.Ativo != *f.Ativo) {
			continue
		}
		if !contains(p.Nome, f.Q) && !contains(p.CPF, f.Q) {
			continue
		}
		cp := *p
		all = append(all, &cp)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].Nome < all[b].Nome })
	items, total := paginate(all, f.Page)
	return items, total, nil
}

type agendamentoRepo struct{ s *Saude }

func (r agendamentoRepo) Create(_ context.Context, a *entity.AgendamentoSaude) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *a
	r.s.Agendamentos[a.ID] = &cp
	return nil
}

func (r agendamentoRepo) GetByID(_ context.Context, id string) (*entity.AgendamentoSaude, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.Agendamentos[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r agendamentoRepo) Update(ctx context.Context, a *entity.AgendamentoSaude) error {
	return r.Create(ctx, a)
}

func (r agendamentoRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.AgendamentoSaude, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.AgendamentoSaude
	for _, a := range r.s.Agendamentos {
		if !f.Scope.Contains(a.MunicipioID, a.SecretariaID, a.UnidadeID, "") {
			continue
		}
		if (f.ParentID != "" && a.UnidadeID != f.ParentID) || (f.Tipo != "" && a.ProfissionalID != f.Tipo) ||
			(f.Status != "" && a.Status != f.Status) {
			continue
		}
		if !contains(a.PacienteNome, f.Q) {
			continue
		}
		cp := *a
		all = append(all, &cp)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].Inicio.Before(all[b].Inicio) })
	items, total := paginate(all, f.Page)
	return items, total, nil
}

func (r agendamentoRepo) Sobrepostos(_ context.Context, profissionalID string, inicio, fim time.Time) ([]*entity.AgendamentoSaude, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.AgendamentoSaude
	for _, a := range r.s.Agendamentos {
		if a.ProfissionalID == profissionalID && saude.Ocupa(a) && saude.Sobrepoe(inicio, fim, a) {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

type atendimentoRepo struct{ s *Saude }

func (r atendimentoRepo) Create(_ context.Context, a *entity.AtendimentoSaude) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *a
	r.s.Atendimentos[a.ID] = &cp
	return nil
}

func (r atendimentoRepo) GetByID(_ context.Context, id string) (*entity.AtendimentoSaude, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if a, ok := r.s.Atendimentos[id]; ok {
		cp := *a
		return &cp, nil
	}
	return nil, nil
}

func (r atendimentoRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.AtendimentoSaude, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var all []*entity.AtendimentoSaude
	for _, a := range r.s.Atendimentos {
		if !f.Scope.Contains(a.MunicipioID, a.SecretariaID, a.UnidadeID, "") {
			continue
		}
		if (f.ParentID != "" && a.UnidadeID != f.ParentID) || (f.Tipo != "" && a.Tipo != f.Tipo) {
			continue
		}
		if !contains(a.PacienteNome, f.Q) {
			continue
		}
		cp := *a
		all = append(all, &cp)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].Data.After(all[b].Data) })
	items, total := paginate(all, f.Page)
	return items, total, nil
}
