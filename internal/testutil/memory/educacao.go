package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

// Educacao turmas, alunos, matrículas e cadastros de NEE.
type Educacao struct {
	mu           sync.Mutex
	Turmas       map[string]*entity.Turma
	Alunos       map[string]*entity.Aluno
	Matriculas   map[string]*entity.Matricula
	Tipos        map[string]*entity.TipoNecessidade
	Necessidades map[string]*entity.AlunoNecessidade
	Apoios       map[string]*entity.ApoioMatricula
}

// NewEducacao base vazia.
func NewEducacao() *Educacao {
	return &Educacao{
		Turmas:       map[string]*entity.Turma{},
		Alunos:       map[string]*entity.Aluno{},
		Matriculas:   map[string]*entity.Matricula{},
		Tipos:        map[string]*entity.TipoNecessidade{},
		Necessidades: map[string]*entity.AlunoNecessidade{},
		Apoios:       map[string]*entity.ApoioMatricula{},
	}
}

func (e *Educacao) TurmaRepo() repository.TurmaRepository                  { return turmaRepo{e} }
func (e *Educacao) AlunoRepo() repository.AlunoRepository                  { return alunoRepo{e} }
func (e *Educacao) MatriculaRepo() repository.MatriculaRepository          { return matriculaRepo{e} }
func (e *Educacao) TipoRepo() repository.TipoNecessidadeRepository         { return tipoRepo{e} }
func (e *Educacao) NecessidadeRepo() repository.AlunoNecessidadeRepository { return necessidadeRepo{e} }
func (e *Educacao) ApoioRepo() repository.ApoioRepository                  { return apoioRepo{e} }

// alunoNoEscopo mesma regra do SQL: município e, abaixo dele, matrícula ATIVA na secretaria/unidade.
func (e *Educacao) alunoNoEscopo(a *entity.Aluno, s rbac.Scope) bool {
	if s.All {
		return true
	}
	if s.None || (s.MunicipioID != "" && s.MunicipioID != a.MunicipioID) {
		return false
	}
	if s.SecretariaID == "" && s.UnidadeID == "" {
		return true
	}
	for _, m := range e.Matriculas {
		if m.AlunoID != a.ID || m.Situacao != entity.MatriculaAtiva {
			continue
		}
		t, ok := e.Turmas[m.TurmaID]
		if !ok {
			continue
		}
		if (s.SecretariaID == "" || s.SecretariaID == t.SecretariaID) && (s.UnidadeID == "" || s.UnidadeID == t.UnidadeID) {
			return true
		}
	}
	return false
}

type turmaRepo struct{ e *Educacao }

func (r turmaRepo) Create(_ context.Context, t *entity.Turma) error {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	for _, x := range r.e.Turmas {
		if x.UnidadeID == t.UnidadeID && x.AnoLetivo == t.AnoLetivo && strings.EqualFold(x.Nome, t.Nome) {
			return domain.ErrDuplicate
		}
	}
	c := *t
	r.e.Turmas[t.ID] = &c
	return nil
}

func (r turmaRepo) GetByID(_ context.Context, id string) (*entity.Turma, error) {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	if t, ok := r.e.Turmas[id]; ok {
		c := *t
		return &c, nil
	}
	return nil, nil
}

func (r turmaRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Turma, int, error) {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	var all []*entity.Turma
	for _, t := range r.e.Turmas {
		if !f.Scope.Contains(t.MunicipioID, t.SecretariaID, t.UnidadeID, f.Scope.SetorID) {
			continue
		}
		if (f.ParentID != "" && t.UnidadeID != f.ParentID) || (f.Tipo != "" && t.Turno != f.Tipo) ||
			(f.Ativo != nil && t.Ativo != *f.Ativo) || !contains(t.Nome, f.Q) {
			continue
		}
		c := *t
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].AnoLetivo != all[j].AnoLetivo {
			return all[i].AnoLetivo > all[j].AnoLetivo
		}
		return all[i].Nome < all[j].Nome
	})
	items, total := paginate(all, f.Page)
	return items, total, nil
}

type alunoRepo struct{ e *Educacao }

func (r alunoRepo) Create(_ context.Context, a *entity.Aluno) error {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	c := *a
	r.e.Alunos[a.ID] = &c
	return nil
}

func (r alunoRepo) GetByID(_ context.Context, id string) (*entity.Aluno, error) {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	if a, ok := r.e.Alunos[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, nil
}

func (r alunoRepo) Update(_ context.Context, a *entity.Aluno) error {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	if _, ok := r.e.Alunos[a.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *a
	r.e.Alunos[a.ID] = &c
	return nil
}

func (r alunoRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Aluno, int, error) {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	var all []*entity.Aluno
	for _, a := range r.e.Alunos {
		if !r.e.alunoNoEscopo(a, f.Scope) || (f.Ativo != nil && a.Ativo != *f.Ativo) {
			continue
		}
		if !contains(a.Nome, f.Q) && !contains(a.CPF, f.Q) && !contains(a.NIS, f.Q) {
			continue
		}
		if f.Tipo == "nee" && !r.temNecessidadeAtiva(a.ID) {
			continue
		}
		c := *a
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Nome < all[j].Nome })
	items, total := paginate(all, f.Page)
	return items, total, nil
}

func (r alunoRepo) temNecessidadeAtiva(alunoID string) bool {
	for _, n := range r.e.Necessidades {
		if n.AlunoID == alunoID && n.Ativo {
			return true
		}
	}
	return false
}

type matriculaRepo struct{ e *Educacao }

func (r matriculaRepo) fill(m *entity.Matricula) *entity.Matricula {
	c := *m
	if t, ok := r.e.Turmas[m.TurmaID]; ok {
		c.TurmaNome, c.UnidadeID = t.Nome, t.UnidadeID
	}
	return &c
}

func (r matriculaRepo) Create(_ context.Context, m *entity.Matricula) error {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	if _, ok := r.e.Alunos[m.AlunoID]; !ok {
		return domain.ErrInUse
	}
	if _, ok := r.e.Turmas[m.TurmaID]; !ok {
		return domain.ErrInUse
	}
	for _, x := range r.e.Matriculas {
		if x.AlunoID == m.AlunoID && x.TurmaID == m.TurmaID {
			return domain.ErrDuplicate
		}
	}
	c := *m
	r.e.Matriculas[m.ID] = &c
	return nil
}

func (r matriculaRepo) GetByID(_ context.Context, id string) (*entity.Matricula, error) {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	if m, ok := r.e.Matriculas[id]; ok {
		return r.fill(m), nil
	}
	return nil, nil
}

func (r matriculaRepo) UpdateSituacao(_ context.Context, id, situacao string) error {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	m, ok := r.e.Matriculas[id]
	if !ok {
		return domain.ErrNotFound
	}
	m.Situacao = situacao
	return nil
}

func (r matriculaRepo) ListByAluno(_ context.Context, alunoID string) ([]*entity.Matricula, error) {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	var out []*entity.Matricula
	for _, m := range r.e.Matriculas {
		if m.AlunoID == alunoID {
			out = append(out, r.fill(m))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type tipoRepo struct{ e *Educacao }

func (r tipoRepo) save(t *entity.TipoNecessidade) error {
	for _, x := range r.e.Tipos {
		if x.ID != t.ID && strings.EqualFold(x.Nome, t.Nome) {
			return domain.ErrDuplicate
		}
	}
	c := *t
	r.e.Tipos[t.ID] = &c
	return nil
}

func (r tipoRepo) Create(_ context.Context, t *entity.TipoNecessidade) error {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	return r.save(t)
}

func (r tipoRepo) GetByID(_ context.Context, id string) (*entity.TipoNecessidade, error) {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	if t, ok := r.e.Tipos[id]; ok {
		c := *t
		return &c, nil
	}
	return nil, nil
}

func (r tipoRepo) Update(_ context.Context, t *entity.TipoNecessidade) error {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	return r.save(t)
}

func (r tipoRepo) List(_ context.Context, onlyActive bool) ([]*entity.TipoNecessidade, error) {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	var out []*entity.TipoNecessidade
	for _, t := range r.e.Tipos {
		if onlyActive && !t.Ativo {
			continue
		}
		c := *t
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Nome < out[j].Nome })
	return out, nil
}

type necessidadeRepo struct{ e *Educacao }

func (r necessidadeRepo) save(n *entity.AlunoNecessidade) error {
	if _, ok := r.e.Tipos[n.TipoID]; !ok {
		return domain.ErrInUse
	}
	for _, x := range r.e.Necessidades {
		if x.ID != n.ID && x.AlunoID == n.AlunoID && x.TipoID == n.TipoID {
			return domain.ErrDuplicate
		}
	}
	c := *n
	r.e.Necessidades[n.ID] = &c
	return nil
}

func (r necessidadeRepo) fill(n *entity.AlunoNecessidade) *entity.AlunoNecessidade {
	c := *n
	if t, ok := r.e.Tipos[n.TipoID]; ok {
		c.TipoNome = t.Nome
	}
	return &c
}

func (r necessidadeRepo) Create(_ context.Context, n *entity.AlunoNecessidade) error {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	return r.save(n)
}

func (r necessidadeRepo) GetByID(_ context.Context, id string) (*entity.AlunoNecessidade, error) {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	if n, ok := r.e.Necessidades[id]; ok {
		return r.fill(n), nil
	}
	return nil, nil
}

func (r necessidadeRepo) Update(_ context.Context, n *entity.AlunoNecessidade) error {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	return r.save(n)
}

func (r necessidadeRepo) ListByAluno(_ context.Context, alunoID string) ([]*entity.AlunoNecessidade, error) {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	var out []*entity.AlunoNecessidade
	for _, n := range r.e.Necessidades {
		if n.AlunoID == alunoID {
			out = append(out, r.fill(n))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TipoNome < out[j].TipoNome })
	return out, nil
}

func (r necessidadeRepo) ContarPorTipo(_ context.Context, scope rbac.Scope) ([]entity.NecessidadeContagem, error) {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	alunos := map[string]map[string]bool{}
	for _, n := range r.e.Necessidades {
		a, ok := r.e.Alunos[n.AlunoID]
		if !ok || !n.Ativo || !a.Ativo || !r.e.alunoNoEscopo(a, scope) {
			continue
		}
		if alunos[n.TipoID] == nil {
			alunos[n.TipoID] = map[string]bool{}
		}
		alunos[n.TipoID][a.ID] = true
	}
	out := make([]entity.NecessidadeContagem, 0, len(alunos))
	for tipoID, set := range alunos {
		c := entity.NecessidadeContagem{TipoID: tipoID, Alunos: len(set)}
		if t, ok := r.e.Tipos[tipoID]; ok {
			c.TipoNome = t.Nome
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Alunos != out[j].Alunos {
			return out[i].Alunos > out[j].Alunos
		}
		return out[i].TipoNome < out[j].TipoNome
	})
	return out, nil
}

type apoioRepo struct{ e *Educacao }

func (r apoioRepo) Create(_ context.Context, a *entity.ApoioMatricula) error {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	if _, ok := r.e.Matriculas[a.MatriculaID]; !ok {
		return domain.ErrInUse
	}
	c := *a
	r.e.Apoios[a.ID] = &c
	return nil
}

func (r apoioRepo) GetByID(_ context.Context, id string) (*entity.ApoioMatricula, error) {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	if a, ok := r.e.Apoios[id]; ok {
		c := *a
		return &c, nil
	}
	return nil, nil
}

func (r apoioRepo) Update(_ context.Context, a *entity.ApoioMatricula) error {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	if _, ok := r.e.Apoios[a.ID]; !ok {
		return domain.ErrNotFound
	}
	c := *a
	r.e.Apoios[a.ID] = &c
	return nil
}

func (r apoioRepo) ListByAluno(_ context.Context, alunoID string, onlyActive bool) ([]*entity.ApoioMatricula, error) {
	r.e.mu.Lock()
	defer r.e.mu.Unlock()
	var out []*entity.ApoioMatricula
	for _, a := range r.e.Apoios {
		m, ok := r.e.Matriculas[a.MatriculaID]
		if !ok || m.AlunoID != alunoID || (onlyActive && m.Situacao != entity.MatriculaAtiva) {
			continue
		}
		c := *a
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
