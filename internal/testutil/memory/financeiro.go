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

// Financeiro exercícios, dotações e a execução da despesa.
type Financeiro struct {
	mu          sync.Mutex
	Exercicios  map[string]*entity.FinanceiroExercicio
	Dotacoes    map[string]*entity.OrcDotacao
	Empenhos    map[string]*entity.DespEmpenho
	Liquidacoes []*entity.DespLiquidacao
	Pagamentos  []*entity.DespPagamento
}

// NewFinanceiro financeiro vazio.
func NewFinanceiro() *Financeiro {
	return &Financeiro{
		Exercicios: map[string]*entity.FinanceiroExercicio{},
		Dotacoes:   map[string]*entity.OrcDotacao{},
		Empenhos:   map[string]*entity.DespEmpenho{},
	}
}

func (f *Financeiro) ExercicioRepo() repository.ExercicioRepository   { return exercicioRepo{f} }
func (f *Financeiro) DotacaoRepo() repository.DotacaoRepository       { return dotacaoRepo{f} }
func (f *Financeiro) EmpenhoRepo() repository.EmpenhoRepository       { return empenhoRepo{f} }
func (f *Financeiro) LiquidacaoRepo() repository.LiquidacaoRepository { return liquidacaoRepo{f} }
func (f *Financeiro) PagamentoRepo() repository.PagamentoRepository   { return pagamentoRepo{f} }

// RunFinanceiro simula a transação: em erro restaura dotações, empenhos, liquidações e pagamentos.
func (f *Financeiro) RunFinanceiro(ctx context.Context, fn func(
	dotRepo repository.DotacaoRepository,
	empRepo repository.EmpenhoRepository,
	liqRepo repository.LiquidacaoRepository,
	pagRepo repository.PagamentoRepository,
) error) error {
	f.mu.Lock()
	dots := make(map[string]*entity.OrcDotacao, len(f.Dotacoes))
	for k, v := range f.Dotacoes {
		c := *v
		dots[k] = &c
	}
	emps := make(map[string]*entity.DespEmpenho, len(f.Empenhos))
	for k, v := range f.Empenhos {
		c := *v
		emps[k] = &c
	}
	liqs := append([]*entity.DespLiquidacao(nil), f.Liquidacoes...)
	pags := append([]*entity.DespPagamento(nil), f.Pagamentos...)
	f.mu.Unlock()

	if err := fn(f.DotacaoRepo(), f.EmpenhoRepo(), f.LiquidacaoRepo(), f.PagamentoRepo()); err != nil {
		f.mu.Lock()
		f.Dotacoes, f.Empenhos, f.Liquidacoes, f.Pagamentos = dots, emps, liqs, pags
		f.mu.Unlock()
		return err
	}
	return nil
}

type exercicioRepo struct{ f *Financeiro }

func (r exercicioRepo) Create(_ context.Context, e *entity.FinanceiroExercicio) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, x := range r.f.Exercicios {
		if x.MunicipioID == e.MunicipioID && x.Ano == e.Ano {
			return domain.ErrDuplicate
		}
	}
	cp := *e
	r.f.Exercicios[e.ID] = &cp
	return nil
}

func (r exercicioRepo) GetByID(_ context.Context, id string) (*entity.FinanceiroExercicio, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if e, ok := r.f.Exercicios[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (r exercicioRepo) GetByAno(_ context.Context, municipioID string, ano int) (*entity.FinanceiroExercicio, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, e := range r.f.Exercicios {
		if e.MunicipioID == municipioID && e.Ano == ano {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r exercicioRepo) Update(_ context.Context, e *entity.FinanceiroExercicio) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	cp := *e
	r.f.Exercicios[e.ID] = &cp
	return nil
}

func (r exercicioRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.FinanceiroExercicio, int, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var all []*entity.FinanceiroExercicio
	for _, e := range r.f.Exercicios {
		if !f.Scope.Contains(e.MunicipioID, f.Scope.SecretariaID, f.Scope.UnidadeID, f.Scope.SetorID) {
			continue
		}
		if f.Status != "" && e.Status != f.Status {
			continue
		}
		cp := *e
		all = append(all, &cp)
	}
	sort.Slice(all, func(a, b int) bool { return all[a].Ano > all[b].Ano })
	items, total := paginate(all, f.Page)
	return items, total, nil
}

type dotacaoRepo struct{ f *Financeiro }

func (r dotacaoRepo) Create(_ context.Context, d *entity.OrcDotacao) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.Exercicios[d.ExercicioID]; !ok {
		return domain.ErrInUse
	}
	cp := *d
	r.f.Dotacoes[d.ID] = &cp
	return nil
}

func (r dotacaoRepo) GetByID(_ context.Context, id string) (*entity.OrcDotacao, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if d, ok := r.f.Dotacoes[id]; ok {
		cp := *d
		return &cp, nil
	}
	return nil, nil
}

func (r dotacaoRepo) GetForUpdate(ctx context.Context, id string) (*entity.OrcDotacao, error) {
	return r.GetByID(ctx, id)
}

func (r dotacaoRepo) Update(_ context.Context, d *entity.OrcDotacao) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	cp := *d
	r.f.Dotacoes[d.ID] = &cp
	return nil
}

func (r dotacaoRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.OrcDotacao, int, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var all []*entity.OrcDotacao
	for _, d := range r.f.Dotacoes {
		if !f.Scope.Contains(d.MunicipioID, f.Scope.SecretariaID, f.Scope.UnidadeID, f.Scope.SetorID) {
			continue
		}
		if f.ParentID != "" && d.ExercicioID != f.ParentID {
			continue
		}
		if !contains(d.ProgramaCodigo+" "+d.AcaoCodigo+" "+d.ElementoDespesa+" "+d.Descricao, f.Q) {
			continue
		}
		cp := *d
		all = append(all, &cp)
	}
	sort.Slice(all, func(a, b int) bool {
		return all[a].ProgramaCodigo+all[a].AcaoCodigo+all[a].ElementoDespesa < all[b].ProgramaCodigo+all[b].AcaoCodigo+all[b].ElementoDespesa
	})
	items, total := paginate(all, f.Page)
	return items, total, nil
}

type empenhoRepo struct{ f *Financeiro }

func (r empenhoRepo) Create(_ context.Context, e *entity.DespEmpenho) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, x := range r.f.Empenhos {
		if x.ExercicioID == e.ExercicioID && strings.EqualFold(x.Numero, e.Numero) {
			return domain.ErrDuplicate
		}
	}
	cp := *e
	r.f.Empenhos[e.ID] = &cp
	return nil
}

func (r empenhoRepo) GetByID(_ context.Context, id string) (*entity.DespEmpenho, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if e, ok := r.f.Empenhos[id]; ok {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (r empenhoRepo) GetForUpdate(ctx context.Context, id string) (*entity.DespEmpenho, error) {
	return r.GetByID(ctx, id)
}

func (r empenhoRepo) GetByNumero(_ context.Context, exercicioID, numero string) (*entity.DespEmpenho, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, e := range r.f.Empenhos {
		if e.ExercicioID == exercicioID && strings.EqualFold(e.Numero, numero) {
			cp := *e
			return &cp, nil
		}
	}
	return nil, nil
}

func (r empenhoRepo) Update(_ context.Context, e *entity.DespEmpenho) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	cp := *e
	r.f.Empenhos[e.ID] = &cp
	return nil
}

func (r empenhoRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.DespEmpenho, int, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var all []*entity.DespEmpenho
	for _, e := range r.f.Empenhos {
		if !f.Scope.Contains(e.MunicipioID, f.Scope.SecretariaID, f.Scope.UnidadeID, f.Scope.SetorID) {
			continue
		}
		if (f.ParentID != "" && e.ExercicioID != f.ParentID) || (f.Tipo != "" && e.DotacaoID != f.Tipo) ||
			(f.Status != "" && e.Status != f.Status) {
			continue
		}
		if !contains(e.Numero, f.Q) && !contains(e.FornecedorNome, f.Q) && !contains(e.Objeto, f.Q) {
			continue
		}
		cp := *e
		all = append(all, &cp)
	}
	sort.SliceStable(all, func(a, b int) bool {
		if !all[a].Data.Equal(all[b].Data) {
			return all[a].Data.After(all[b].Data)
		}
		return all[a].Numero > all[b].Numero
	})
	items, total := paginate(all, f.Page)
	return items, total, nil
}

type liquidacaoRepo struct{ f *Financeiro }

func (r liquidacaoRepo) Create(_ context.Context, l *entity.DespLiquidacao) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if _, ok := r.f.Empenhos[l.EmpenhoID]; !ok {
		return domain.ErrInUse
	}
	for _, x := range r.f.Liquidacoes {
		if x.EmpenhoID == l.EmpenhoID && x.Numero == l.Numero {
			return domain.ErrDuplicate
		}
	}
	cp := *l
	r.f.Liquidacoes = append(r.f.Liquidacoes, &cp)
	return nil
}

func (r liquidacaoRepo) GetByID(_ context.Context, id string) (*entity.DespLiquidacao, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, l := range r.f.Liquidacoes {
		if l.ID == id {
			cp := *l
			return &cp, nil
		}
	}
	return nil, nil
}

func (r liquidacaoRepo) ListByEmpenho(_ context.Context, empenhoID string) ([]*entity.DespLiquidacao, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*entity.DespLiquidacao
	for _, l := range r.f.Liquidacoes {
		if l.EmpenhoID == empenhoID {
			cp := *l
			out = append(out, &cp)
		}
	}
	return out, nil
}

type pagamentoRepo struct{ f *Financeiro }

func (r pagamentoRepo) Create(_ context.Context, p *entity.DespPagamento) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	cp := *p
	r.f.Pagamentos = append(r.f.Pagamentos, &cp)
	return nil
}

func (r pagamentoRepo) ListByEmpenho(_ context.Context, empenhoID string) ([]*entity.DespPagamento, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*entity.DespPagamento
	for _, p := range r.f.Pagamentos {
		if p.EmpenhoID == empenhoID {
			cp := *p
			out = append(out, &cp)
		}
	}
	return out, nil
}

