package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

// Folha rubricas, competências, lançamentos e envios ao financeiro.
type Folha struct {
	mu           sync.Mutex
	Rubricas     map[string]*entity.Rubrica
	Competencias map[string]*entity.FolhaCompetencia
	Lancamentos  []*entity.FolhaLancamento
	Integracoes  map[string]*entity.FolhaIntegracaoFinanceiro // por competência
}

// NewFolha folha vazia.
func NewFolha() *Folha {
	return &Folha{
		Rubricas:     map[string]*entity.Rubrica{},
		Competencias: map[string]*entity.FolhaCompetencia{},
		Integracoes:  map[string]*entity.FolhaIntegracaoFinanceiro{},
	}
}

func (f *Folha) RubricaRepo() repository.RubricaRepository                 { return rubricaRepo{f} }
func (f *Folha) CompetenciaRepo() repository.CompetenciaRepository         { return competenciaRepo{f} }
func (f *Folha) LancamentoRepo() repository.LancamentoRepository           { return lancamentoRepo{f} }
func (f *Folha) FinanceiroRepo() repository.IntegracaoFinanceiroRepository { return financeiroRepo{f} }

// RunFolha simula a transação: em erro restaura o estado anterior.
func (f *Folha) RunFolha(ctx context.Context, fn func(
	compRepo repository.CompetenciaRepository,
	lancRepo repository.LancamentoRepository,
	finRepo repository.IntegracaoFinanceiroRepository,
) error) error {
	f.mu.Lock()
	comps := make(map[string]*entity.FolhaCompetencia, len(f.Competencias))
	for k, v := range f.Competencias {
		c := *v
		comps[k] = &c
	}
	lancs := make([]*entity.FolhaLancamento, 0, len(f.Lancamentos))
	for _, l := range f.Lancamentos {
		c := *l
		lancs = append(lancs, &c)
	}
	integs := make(map[string]*entity.FolhaIntegracaoFinanceiro, len(f.Integracoes))
	for k, v := range f.Integracoes {
		c := *v
		integs[k] = &c
	}
	f.mu.Unlock()

	if err := fn(f.CompetenciaRepo(), f.LancamentoRepo(), f.FinanceiroRepo()); err != nil {
		f.mu.Lock()
		f.Competencias, f.Lancamentos, f.Integracoes = comps, lancs, integs
		f.mu.Unlock()
		return err
	}
	return nil
}

type rubricaRepo struct{ f *Folha }

func (r rubricaRepo) dup(rb *entity.Rubrica) bool {
	for _, x := range r.f.Rubricas {
		if x.ID != rb.ID && x.MunicipioID == rb.MunicipioID && x.Codigo == rb.Codigo {
			return true
		}
	}
	return false
}

func (r rubricaRepo) Create(_ context.Context, rb *entity.Rubrica) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.dup(rb) {
		return domain.ErrDuplicate
	}
	c := *rb
	r.f.Rubricas[rb.ID] = &c
	return nil
}

func (r rubricaRepo) GetByID(_ context.Context, id string) (*entity.Rubrica, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if rb, ok := r.f.Rubricas[id]; ok {
		c := *rb
		return &c, nil
	}
	return nil, nil
}

func (r rubricaRepo) Update(_ context.Context, rb *entity.Rubrica) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if r.dup(rb) {
		return domain.ErrDuplicate
	}
	c := *rb
	r.f.Rubricas[rb.ID] = &c
	return nil
}

func (r rubricaRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.Rubrica, int, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var all []*entity.Rubrica
	for _, rb := range r.f.Rubricas {
		if !f.Scope.Contains(rb.MunicipioID, f.Scope.SecretariaID, f.Scope.UnidadeID, f.Scope.SetorID) {
			continue
		}
		if (f.Tipo != "" && rb.TipoEvento != f.Tipo) || (f.Status != "" && rb.Status != f.Status) {
			continue
		}
		if !contains(rb.Codigo, f.Q) && !contains(rb.Nome, f.Q) {
			continue
		}
		c := *rb
		all = append(all, &c)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Codigo < all[j].Codigo })
	items, total := paginate(all, f.Page)
	return items, total, nil
}

type competenciaRepo struct{ f *Folha }

func (r competenciaRepo) Create(_ context.Context, c *entity.FolhaCompetencia) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, x := range r.f.Competencias {
		if x.MunicipioID == c.MunicipioID && x.Competencia == c.Competencia {
			return domain.ErrDuplicate
		}
	}
	cp := *c
	r.f.Competencias[c.ID] = &cp
	return nil
}

func (r competenciaRepo) GetByID(_ context.Context, id string) (*entity.FolhaCompetencia, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if c, ok := r.f.Competencias[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (r competenciaRepo) GetForUpdate(ctx context.Context, id string) (*entity.FolhaCompetencia, error) {
	return r.GetByID(ctx, id)
}

func (r competenciaRepo) Update(_ context.Context, c *entity.FolhaCompetencia) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.Competencias[c.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *c
	r.f.Competencias[c.ID] = &cp
	return nil
}

func (r competenciaRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.FolhaCompetencia, int, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var all []*entity.FolhaCompetencia
	for _, c := range r.f.Competencias {
		if !f.Scope.Contains(c.MunicipioID, f.Scope.SecretariaID, f.Scope.UnidadeID, f.Scope.SetorID) {
			continue
		}
		if (f.Status != "" && c.Status != f.Status) || !strings.HasPrefix(c.Competencia, f.Q) {
			continue
		}
		cp := *c
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Competencia > all[j].Competencia })
	items, total := paginate(all, f.Page)
	return items, total, nil
}

type lancamentoRepo struct{ f *Folha }

func (r lancamentoRepo) Create(_ context.Context, l *entity.FolhaLancamento) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.Rubricas[l.RubricaID]; !ok {
		return domain.ErrInUse
	}
	c := *l
	r.f.Lancamentos = append(r.f.Lancamentos, &c)
	return nil
}

// ListByCompetencia completa os dados da rubrica como o JOIN do repositório SQL.
func (r lancamentoRepo) ListByCompetencia(_ context.Context, competenciaID, servidor string) ([]entity.FolhaLancamento, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []entity.FolhaLancamento
	for _, l := range r.f.Lancamentos {
		if l.CompetenciaID != competenciaID || (servidor != "" && l.ServidorMatricula != servidor) {
			continue
		}
		c := *l
		if rb, ok := r.f.Rubricas[l.RubricaID]; ok {
			c.RubricaCodigo, c.RubricaNome, c.TipoEvento = rb.Codigo, rb.Nome, rb.TipoEvento
		}
		out = append(out, c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].ServidorNome != out[j].ServidorNome {
			return out[i].ServidorNome < out[j].ServidorNome
		}
		if out[i].TipoEvento != out[j].TipoEvento {
			return out[i].TipoEvento > out[j].TipoEvento
		}
		return out[i].RubricaCodigo < out[j].RubricaCodigo
	})
	return out, nil
}

func (r lancamentoRepo) MarkEnviados(_ context.Context, competenciaID string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, l := range r.f.Lancamentos {
		if l.CompetenciaID == competenciaID {
			l.Status = entity.LancamentoEnviadoFinanceiro
		}
	}
	return nil
}

type financeiroRepo struct{ f *Folha }

func (r financeiroRepo) GetByCompetencia(_ context.Context, competenciaID string) (*entity.FolhaIntegracaoFinanceiro, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if i, ok := r.f.Integracoes[competenciaID]; ok {
		c := *i
		return &c, nil
	}
	return nil, nil
}

func (r financeiroRepo) Upsert(_ context.Context, i *entity.FolhaIntegracaoFinanceiro) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if cur, ok := r.f.Integracoes[i.CompetenciaID]; ok {
		i.ID = cur.ID
	}
	c := *i
	r.f.Integracoes[i.CompetenciaID] = &c
	return nil
}
