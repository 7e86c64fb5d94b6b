package memory

import (
	"context"
	"maps"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

// Almox itens, razão e requisições. Run desfaz as alterações quando fn falha.
type Almox struct {
	mu          sync.Mutex
	Itens       map[string]*entity.AlmoxItem
	Movimentos  []*entity.AlmoxMovimento
	Requisicoes map[string]*entity.AlmoxRequisicao
	seq         map[string]int64
}

// NewAlmox almoxarifado vazio.
func NewAlmox() *Almox {
	return &Almox{
		Itens:       map[string]*entity.AlmoxItem{},
		Requisicoes: map[string]*entity.AlmoxRequisicao{},
		seq:         map[string]int64{},
	}
}

func (a *Almox) ItemRepo() repository.AlmoxItemRepository             { return almoxItemRepo{a} }
func (a *Almox) MovimentoRepo() repository.AlmoxMovimentoRepository   { return almoxMovRepo{a} }
func (a *Almox) RequisicaoRepo() repository.AlmoxRequisicaoRepository { return almoxReqRepo{a} }

// Run simula a transação: em erro restaura o estado anterior.
func (a *Almox) Run(ctx context.Context, fn func(
	itemRepo repository.AlmoxItemRepository,
	movRepo repository.AlmoxMovimentoRepository,
	reqRepo repository.AlmoxRequisicaoRepository,
) error) error {
	a.mu.Lock()
	itens := make(map[string]*entity.AlmoxItem, len(a.Itens))
	for k, v := range a.Itens {
		c := *v
		itens[k] = &c
	}
	reqs := make(map[string]*entity.AlmoxRequisicao, len(a.Requisicoes))
	for k, v := range a.Requisicoes {
		c := *v
		reqs[k] = &c
	}
	movs := len(a.Movimentos)
	seq := maps.Clone(a.seq)
	a.mu.Unlock()

	if err := fn(a.ItemRepo(), a.MovimentoRepo(), a.RequisicaoRepo()); err != nil {
		a.mu.Lock()
		a.Itens, a.Requisicoes, a.Movimentos, a.seq = itens, reqs, a.Movimentos[:movs], seq
		a.mu.Unlock()
		return err
	}
	return nil
}

type almoxItemRepo struct{ a *Almox }

func (r almoxItemRepo) Create(_ context.Context, i *entity.AlmoxItem) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	for _, x := range r.a.Itens {
		if x.MunicipioID == i.MunicipioID && x.Codigo == i.Codigo {
			return domain.ErrDuplicate
		}
	}
	c := *i
	r.a.Itens[i.ID] = &c
	return nil
}

func (r almoxItemRepo) GetByID(_ context.Context, id string) (*entity.AlmoxItem, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	if i, ok := r.a.Itens[id]; ok {
		c := *i
		return &c, nil
	}
	return nil, nil
}

func (r almoxItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.AlmoxItem, error) {
	return r.GetByID(ctx, id)
}

func (r almoxItemRepo) Update(_ context.Context, i *entity.AlmoxItem) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	for _, x := range r.a.Itens {
		if x.ID != i.ID && x.MunicipioID == i.MunicipioID && x.Codigo == i.Codigo {
			return domain.ErrDuplicate
		}
	}
	c := *i
	r.a.Itens[i.ID] = &c
	return nil
}

func (r almoxItemRepo) UpdateSaldo(_ context.Context, id string, saldo, valorMedio decimal.Decimal) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	i, ok := r.a.Itens[id]
	if !ok {
		return domain.ErrNotFound
	}
	i.SaldoAtual, i.ValorMedio = saldo, valorMedio
	return nil
}

func (r almoxItemRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.AlmoxItem, int, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	var all []*entity.AlmoxItem
	for _, i := range r.a.Itens {
		if !f.Scope.Contains(i.MunicipioID, i.SecretariaID, i.UnidadeID, i.SetorID) {
			continue
		}
		if f.Status != "" && i.Status != f.Status {
			continue
		}
		if f.Tipo == "abaixo_minimo" && !i.AbaixoDoMinimo() {
			continue
		}
		if f.Q != "" && !contains(i.Codigo, f.Q) && !contains(i.Nome, f.Q) {
			continue
		}
		c := *i
		all = append(all, &c)
	}
	out, total := paginate(all, f.Page)
	return out, total, nil
}

func (r almoxItemRepo) Dashboard(_ context.Context, sc rbac.Scope, day time.Time) (entity.AlmoxDashboard, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	var d entity.AlmoxDashboard
	for _, i := range r.a.Itens {
		if i.Status == entity.ItemAtivo && sc.Contains(i.MunicipioID, i.SecretariaID, i.UnidadeID, i.SetorID) {
			d.ItensAtivos++
			if i.AbaixoDoMinimo() {
				d.ItensAbaixoMinimo++
			}
		}
	}
	for _, q := range r.a.Requisicoes {
		if q.Status == entity.RequisicaoPendente &&
			sc.Contains(q.MunicipioID, q.SecretariaSolicitanteID, q.UnidadeSolicitanteID, q.SetorSolicitanteID) {
			d.RequisicoesPendentes++
		}
	}
	for _, m := range r.a.Movimentos {
		i := r.a.Itens[m.ItemID]
		if i != nil && sameDay(m.DataMovimento, day) && sc.Contains(i.MunicipioID, i.SecretariaID, i.UnidadeID, i.SetorID) {
			d.MovimentosHoje++
		}
	}
	return d, nil
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

type almoxMovRepo struct{ a *Almox }

func (r almoxMovRepo) Create(_ context.Context, m *entity.AlmoxMovimento) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	c := *m
	r.a.Movimentos = append(r.a.Movimentos, &c)
	return nil
}

func (r almoxMovRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.AlmoxMovimento, int, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	var all []*entity.AlmoxMovimento
	for _, m := range r.a.Movimentos {
		i := r.a.Itens[m.ItemID]
		if i == nil || !f.Scope.Contains(i.MunicipioID, i.SecretariaID, i.UnidadeID, i.SetorID) {
			continue
		}
		if (f.ParentID != "" && m.ItemID != f.ParentID) || (f.Tipo != "" && m.Tipo != f.Tipo) {
			continue
		}
		c := *m
		c.ItemCodigo, c.ItemNome = i.Codigo, i.Nome
		all = append(all, &c)
	}
	out, total := paginate(all, f.Page)
	return out, total, nil
}

type almoxReqRepo struct{ a *Almox }

func (r almoxReqRepo) Create(_ context.Context, q *entity.AlmoxRequisicao) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	for _, x := range r.a.Requisicoes {
		if x.MunicipioID == q.MunicipioID && strings.EqualFold(x.Numero, q.Numero) {
			return domain.ErrDuplicate
		}
	}
	c := *q
	r.a.Requisicoes[q.ID] = &c
	return nil
}

func (r almoxReqRepo) GetByID(_ context.Context, id string) (*entity.AlmoxRequisicao, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	q, ok := r.a.Requisicoes[id]
	if !ok {
		return nil, nil
	}
	c := *q
	if i := r.a.Itens[q.ItemID]; i != nil {
		c.ItemCodigo, c.ItemNome = i.Codigo, i.Nome
	}
	return &c, nil
}

func (r almoxReqRepo) GetForUpdate(ctx context.Context, id string) (*entity.AlmoxRequisicao, error) {
	return r.GetByID(ctx, id)
}

func (r almoxReqRepo) UpdateStatus(_ context.Context, q *entity.AlmoxRequisicao) error {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	x, ok := r.a.Requisicoes[q.ID]
	if !ok {
		return domain.ErrNotFound
	}
	x.Status, x.AprovadoPor, x.AprovadoEm = q.Status, q.AprovadoPor, q.AprovadoEm
	x.AtendidoPor, x.AtendidoEm, x.UpdatedAt = q.AtendidoPor, q.AtendidoEm, q.UpdatedAt
	return nil
}

func (r almoxReqRepo) List(_ context.Context, f repository.ListFilter) ([]*entity.AlmoxRequisicao, int, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	var all []*entity.AlmoxRequisicao
	for _, q := range r.a.Requisicoes {
		if !f.Scope.Contains(q.MunicipioID, q.SecretariaSolicitanteID, q.UnidadeSolicitanteID, q.SetorSolicitanteID) {
			continue
		}
		if f.Status != "" && q.Status != f.Status {
			continue
		}
		c := *q
		all = append(all, &c)
	}
	out, total := paginate(all, f.Page)
	return out, total, nil
}

func (r almoxReqRepo) NumeroExists(_ context.Context, municipioID, numero string) (bool, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	for _, x := range r.a.Requisicoes {
		if x.MunicipioID == municipioID && strings.EqualFold(x.Numero, numero) {
			return true, nil
		}
	}
	return false, nil
}

func (r almoxReqRepo) NextNumero(_ context.Context, municipioID string, ano int) (int64, error) {
	r.a.mu.Lock()
	defer r.a.mu.Unlock()
	k := municipioID + "/" + time.Date(ano, 1, 1, 0, 0, 0, 0, time.UTC).Format("2006")
	r.a.seq[k]++
	return r.a.seq[k], nil
}
