package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

var (
	_ repository.AlmoxItemRepository       = (*AlmoxItemRepo)(nil)
	_ repository.AlmoxMovimentoRepository  = (*AlmoxMovimentoRepo)(nil)
	_ repository.AlmoxRequisicaoRepository = (*AlmoxRequisicaoRepo)(nil)
)

// FiltroAbaixoMinimo valor de ListFilter.Tipo que restringe a itens com saldo abaixo do mínimo.
const FiltroAbaixoMinimo = "abaixo_minimo"

var itemScope = scopeCols{Municipio: "i.municipio_id", Secretaria: "i.secretaria_id", Unidade: "i.unidade_id", Setor: "i.setor_id"}

// AlmoxItemRepo itens do almoxarifado.
type AlmoxItemRepo struct {
	q Querier
}

// NewAlmoxItemRepository constrói o adaptador de itens.
func NewAlmoxItemRepository(q Querier) *AlmoxItemRepo {
	return &AlmoxItemRepo{q: q}
}

const itemSelect = `
	SELECT i.id::text, i.municipio_id::text, COALESCE(i.secretaria_id::text, ''), COALESCE(i.unidade_id::text, ''),
		COALESCE(i.setor_id::text, ''), i.codigo, i.nome, i.unidade_medida, i.estoque_minimo, i.saldo_atual,
		i.valor_medio, i.status, i.observacao, COALESCE(i.criado_por::text, ''), i.created_at, i.updated_at
	FROM almox_itens i`

func scanItem(row interface{ Scan(...any) error }) (*entity.AlmoxItem, error) {
	var i entity.AlmoxItem
	err := row.Scan(&i.ID, &i.MunicipioID, &i.SecretariaID, &i.UnidadeID, &i.SetorID, &i.Codigo, &i.Nome,
		&i.UnidadeMedida, &i.EstoqueMinimo, &i.SaldoAtual, &i.ValorMedio, &i.Status, &i.Observacao,
		&i.CriadoPor, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *AlmoxItemRepo) Create(ctx context.Context, i *entity.AlmoxItem) error {
	query := `
		INSERT INTO almox_itens (id, municipio_id, secretaria_id, unidade_id, setor_id, codigo, nome,
			unidade_medida, estoque_minimo, saldo_atual, valor_medio, status, observacao, criado_por,
			created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, NULLIF($4, '')::uuid, NULLIF($5, '')::uuid, $6, $7, $8, $9,
			$10, $11, $12, $13, NULLIF($14, '')::uuid, $15, $16)`
	_, err := r.q.Exec(ctx, query, i.ID, i.MunicipioID, i.SecretariaID, i.UnidadeID, i.SetorID, i.Codigo,
		i.Nome, i.UnidadeMedida, i.EstoqueMinimo, i.SaldoAtual, i.ValorMedio, i.Status, i.Observacao,
		i.CriadoPor, i.CreatedAt, i.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert almox item", err)
	}
	return nil
}

func (r *AlmoxItemRepo) GetByID(ctx context.Context, id string) (*entity.AlmoxItem, error) {
	return r.get(ctx, itemSelect+` WHERE i.id::text = $1`, id)
}

func (r *AlmoxItemRepo) GetForUpdate(ctx context.Context, id string) (*entity.AlmoxItem, error) {
	return r.get(ctx, itemSelect+` WHERE i.id::text = $1 FOR UPDATE`, id)
}

func (r *AlmoxItemRepo) get(ctx context.Context, query, id string) (*entity.AlmoxItem, error) {
	i, err := scanItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get almox item: %w", err)
	}
	return i, nil
}

// Update altera o cadastro; saldo e custo médio só mudam via UpdateSaldo.
func (r *AlmoxItemRepo) Update(ctx context.Context, i *entity.AlmoxItem) error {
	query := `
		UPDATE almox_itens SET secretaria_id = NULLIF($2, '')::uuid, unidade_id = NULLIF($3, '')::uuid,
			setor_id = NULLIF($4, '')::uuid, codigo = $5, nome = $6, unidade_medida = $7, estoque_minimo = $8,
			status = $9, observacao = $10, updated_at = $11
		WHERE id::text = $1`
	_, err := r.q.Exec(ctx, query, i.ID, i.SecretariaID, i.UnidadeID, i.SetorID, i.Codigo, i.Nome,
		i.UnidadeMedida, i.EstoqueMinimo, i.Status, i.Observacao, i.UpdatedAt)
	if err != nil {
		return mapWriteErr("update almox item", err)
	}
	return nil
}

func (r *AlmoxItemRepo) UpdateSaldo(ctx context.Context, id string, saldo, valorMedio decimal.Decimal) error {
	_, err := r.q.Exec(ctx,
		`UPDATE almox_itens SET saldo_atual = $2, valor_medio = $3, updated_at = now() WHERE id::text = $1`,
		id, saldo, valorMedio)
	if err != nil {
		return fmt.Errorf("update saldo: %w", err)
	}
	return nil
}

func (r *AlmoxItemRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.AlmoxItem, int, error) {
	w := &where{}
	w.scope(f.Scope, itemScope)
	w.eq("i.status", f.Status)
	w.ilike(f.Q, "i.codigo", "i.nome")
	if f.Tipo == FiltroAbaixoMinimo {
		w.and("i.saldo_atual < i.estoque_minimo")
	}

	total, err := count(ctx, r.q, "almox_itens i", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count almox itens: %w", err)
	}
	rows, err := r.q.Query(ctx, itemSelect+w.sql()+` ORDER BY i.nome`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list almox itens: %w", err)
	}
	defer rows.Close()

	var out []*entity.AlmoxItem
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan almox item: %w", err)
		}
		out = append(out, i)
	}
	return out, total, rows.Err()
}

func (r *AlmoxItemRepo) Dashboard(ctx context.Context, scope rbac.Scope, day time.Time) (entity.AlmoxDashboard, error) {
	var d entity.AlmoxDashboard

	w := &where{}
	w.scope(scope, itemScope)
	w.and("i.status = 'ATIVO'")
	query := `SELECT COUNT(*), COUNT(*) FILTER (WHERE i.saldo_atual < i.estoque_minimo) FROM almox_itens i` + w.sql()
	if err := r.q.QueryRow(ctx, query, w.args...).Scan(&d.ItensAtivos, &d.ItensAbaixoMinimo); err != nil {
		return d, fmt.Errorf("dashboard itens: %w", err)
	}

	w = &where{}
	w.scope(scope, requisicaoScope)
	w.and("r.status = 'PENDENTE'")
	if err := r.q.QueryRow(ctx, `SELECT COUNT(*) FROM almox_requisicoes r`+w.sql(), w.args...).Scan(&d.RequisicoesPendentes); err != nil {
		return d, fmt.Errorf("dashboard requisicoes: %w", err)
	}

	w = &where{}
	w.scope(scope, itemScope)
	w.and("mv.data_movimento = " + w.arg(day.Format("2006-01-02")) + "::date")
	query = `SELECT COUNT(*) FROM almox_movimentos mv JOIN almox_itens i ON i.id = mv.item_id` + w.sql()
	if err := r.q.QueryRow(ctx, query, w.args...).Scan(&d.MovimentosHoje); err != nil {
		return d, fmt.Errorf("dashboard movimentos: %w", err)
	}
	return d, nil
}

// AlmoxMovimentoRepo razão de movimentos.
type AlmoxMovimentoRepo struct {
	q Querier
}

// NewAlmoxMovimentoRepository constrói o adaptador do razão.
func NewAlmoxMovimentoRepository(q Querier) *AlmoxMovimentoRepo {
	return &AlmoxMovimentoRepo{q: q}
}

func (r *AlmoxMovimentoRepo) Create(ctx context.Context, m *entity.AlmoxMovimento) error {
	query := `
		INSERT INTO almox_movimentos (id, municipio_id, item_id, tipo, data_movimento, quantidade,
			valor_unitario, documento, observacao, criado_por, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, '')::uuid, $11)`
	_, err := r.q.Exec(ctx, query, m.ID, m.MunicipioID, m.ItemID, m.Tipo, m.DataMovimento, m.Quantidade,
		m.ValorUnitario, m.Documento, m.Observacao, m.CriadoPor, m.CreatedAt)
	if err != nil {
		return mapWriteErr("insert almox movimento", err)
	}
	return nil
}

func (r *AlmoxMovimentoRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.AlmoxMovimento, int, error) {
	w := &where{}
	w.scope(f.Scope, itemScope)
	if f.ParentID != "" {
		w.and("mv.item_id::text = " + w.arg(f.ParentID))
	}
	w.eq("mv.tipo", f.Tipo)
	w.ilike(f.Q, "mv.documento", "mv.observacao", "i.nome")

	from := "almox_movimentos mv JOIN almox_itens i ON i.id = mv.item_id"
	total, err := count(ctx, r.q, from, w)
	if err != nil {
		return nil, 0, fmt.Errorf("count almox movimentos: %w", err)
	}
	query := `
		SELECT mv.id::text, mv.municipio_id::text, mv.item_id::text, mv.tipo, mv.data_movimento, mv.quantidade,
			mv.valor_unitario, mv.documento, mv.observacao, COALESCE(mv.criado_por::text, ''), mv.created_at,
			i.codigo, i.nome
		FROM ` + from + w.sql() + ` ORDER BY mv.data_movimento DESC, mv.created_at DESC` + w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list almox movimentos: %w", err)
	}
	defer rows.Close()

	var out []*entity.AlmoxMovimento
	for rows.Next() {
		var m entity.AlmoxMovimento
		err := rows.Scan(&m.ID, &m.MunicipioID, &m.ItemID, &m.Tipo, &m.DataMovimento, &m.Quantidade,
			&m.ValorUnitario, &m.Documento, &m.Observacao, &m.CriadoPor, &m.CreatedAt, &m.ItemCodigo, &m.ItemNome)
		if err != nil {
			return nil, 0, fmt.Errorf("scan almox movimento: %w", err)
		}
		out = append(out, &m)
	}
	return out, total, rows.Err()
}

var requisicaoScope = scopeCols{
	Municipio:  "r.municipio_id",
	Secretaria: "r.secretaria_solicitante_id",
	Unidade:    "r.unidade_solicitante_id",
	Setor:      "r.setor_solicitante_id",
}

// AlmoxRequisicaoRepo requisições de material.
type AlmoxRequisicaoRepo struct {
	q Querier
}

// NewAlmoxRequisicaoRepository constrói o adaptador de requisições.
func NewAlmoxRequisicaoRepository(q Querier) *AlmoxRequisicaoRepo {
	return &AlmoxRequisicaoRepo{q: q}
}

const requisicaoSelect = `
	SELECT r.id::text, r.municipio_id::text, r.numero, r.item_id::text,
		COALESCE(r.secretaria_solicitante_id::text, ''), COALESCE(r.unidade_solicitante_id::text, ''),
		COALESCE(r.setor_solicitante_id::text, ''), r.quantidade, r.justificativa, r.status,
		COALESCE(r.aprovado_por::text, ''), r.aprovado_em, COALESCE(r.atendido_por::text, ''), r.atendido_em,
		COALESCE(r.criado_por::text, ''), r.created_at, r.updated_at, i.codigo, i.nome
	FROM almox_requisicoes r JOIN almox_itens i ON i.id = r.item_id`

func scanRequisicao(row interface{ Scan(...any) error }) (*entity.AlmoxRequisicao, error) {
	var q entity.AlmoxRequisicao
	err := row.Scan(&q.ID, &q.MunicipioID, &q.Numero, &q.ItemID, &q.SecretariaSolicitanteID,
		&q.UnidadeSolicitanteID, &q.SetorSolicitanteID, &q.Quantidade, &q.Justificativa, &q.Status,
		&q.AprovadoPor, &q.AprovadoEm, &q.AtendidoPor, &q.AtendidoEm, &q.CriadoPor, &q.CreatedAt, &q.UpdatedAt,
		&q.ItemCodigo, &q.ItemNome)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (r *AlmoxRequisicaoRepo) Create(ctx context.Context, q *entity.AlmoxRequisicao) error {
	query := `
		INSERT INTO almox_requisicoes (id, municipio_id, numero, item_id, secretaria_solicitante_id,
			unidade_solicitante_id, setor_solicitante_id, quantidade, justificativa, status, criado_por,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, NULLIF($6, '')::uuid, NULLIF($7, '')::uuid, $8, $9, $10,
			NULLIF($11, '')::uuid, $12, $13)`
	_, err := r.q.Exec(ctx, query, q.ID, q.MunicipioID, q.Numero, q.ItemID, q.SecretariaSolicitanteID,
		q.UnidadeSolicitanteID, q.SetorSolicitanteID, q.Quantidade, q.Justificativa, q.Status, q.CriadoPor,
		q.CreatedAt, q.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert almox requisicao", err)
	}
	return nil
}

func (r *AlmoxRequisicaoRepo) GetByID(ctx context.Context, id string) (*entity.AlmoxRequisicao, error) {
	return r.get(ctx, requisicaoSelect+` WHERE r.id::text = $1`, id)
}

func (r *AlmoxRequisicaoRepo) GetForUpdate(ctx context.Context, id string) (*entity.AlmoxRequisicao, error) {
	return r.get(ctx, requisicaoSelect+` WHERE r.id::text = $1 FOR UPDATE OF r`, id)
}

func (r *AlmoxRequisicaoRepo) get(ctx context.Context, query, id string) (*entity.AlmoxRequisicao, error) {
	q, err := scanRequisicao(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get almox requisicao: %w", err)
	}
	return q, nil
}

func (r *AlmoxRequisicaoRepo) UpdateStatus(ctx context.Context, q *entity.AlmoxRequisicao) error {
	query := `
		UPDATE almox_requisicoes SET status = $2, aprovado_por = NULLIF($3, '')::uuid, aprovado_em = $4,
			atendido_por = NULLIF($5, '')::uuid, atendido_em = $6, updated_at = $7
		WHERE id::text = $1`
	_, err := r.q.Exec(ctx, query, q.ID, q.Status, q.AprovadoPor, q.AprovadoEm, q.AtendidoPor, q.AtendidoEm, q.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update requisicao status: %w", err)
	}
	return nil
}

func (r *AlmoxRequisicaoRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.AlmoxRequisicao, int, error) {
	w := &where{}
	w.scope(f.Scope, requisicaoScope)
	w.eq("r.status", f.Status)
	if f.ParentID != "" {
		w.and("r.item_id::text = " + w.arg(f.ParentID))
	}
	w.ilike(f.Q, "r.numero", "r.justificativa")

	total, err := count(ctx, r.q, "almox_requisicoes r", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count almox requisicoes: %w", err)
	}
	rows, err := r.q.Query(ctx, requisicaoSelect+w.sql()+` ORDER BY r.created_at DESC`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list almox requisicoes: %w", err)
	}
	defer rows.Close()

	var out []*entity.AlmoxRequisicao
	for rows.Next() {
		q, err := scanRequisicao(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan almox requisicao: %w", err)
		}
		out = append(out, q)
	}
	return out, total, rows.Err()
}

func (r *AlmoxRequisicaoRepo) NumeroExists(ctx context.Context, municipioID, numero string) (bool, error) {
	var ok bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM almox_requisicoes WHERE municipio_id::text = $1 AND upper(numero) = upper($2))`,
		municipioID, numero).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("numero requisicao existe: %w", err)
	}
	return ok, nil
}

func (r *AlmoxRequisicaoRepo) NextNumero(ctx context.Context, municipioID string, ano int) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `
		INSERT INTO almox_sequencias (municipio_id, ano, valor) VALUES ($1, $2, 1)
		ON CONFLICT (municipio_id, ano) DO UPDATE SET valor = almox_sequencias.valor + 1
		RETURNING valor`, municipioID, ano).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("next numero requisicao: %w", err)
	}
	return n, nil
}
