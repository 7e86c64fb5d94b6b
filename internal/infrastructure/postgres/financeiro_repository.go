package postgres

import (
	"context"
	"fmt"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

var (
	_ repository.ExercicioRepository  = (*ExercicioRepo)(nil)
	_ repository.DotacaoRepository    = (*DotacaoRepo)(nil)
	_ repository.EmpenhoRepository    = (*EmpenhoRepo)(nil)
	_ repository.LiquidacaoRepository = (*LiquidacaoRepo)(nil)
	_ repository.PagamentoRepository  = (*PagamentoRepo)(nil)
)

// ExercicioRepo exercícios financeiros.
type ExercicioRepo struct {
	q Querier
}

// NewExercicioRepository constrói o adaptador de exercícios.
func NewExercicioRepository(q Querier) *ExercicioRepo {
	return &ExercicioRepo{q: q}
}

const exercicioCols = `id::text, municipio_id::text, ano, status, created_at, updated_at`

func scanExercicio(row interface{ Scan(...any) error }) (*entity.FinanceiroExercicio, error) {
	var e entity.FinanceiroExercicio
	if err := row.Scan(&e.ID, &e.MunicipioID, &e.Ano, &e.Status, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *ExercicioRepo) Create(ctx context.Context, e *entity.FinanceiroExercicio) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO fin_exercicios (id, municipio_id, ano, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, e.ID, e.MunicipioID, e.Ano, e.Status, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert exercicio", err)
	}
	return nil
}

func (r *ExercicioRepo) GetByID(ctx context.Context, id string) (*entity.FinanceiroExercicio, error) {
	return r.get(ctx, `SELECT `+exercicioCols+` FROM fin_exercicios WHERE id::text = $1`, id)
}

func (r *ExercicioRepo) GetByAno(ctx context.Context, municipioID string, ano int) (*entity.FinanceiroExercicio, error) {
	return r.get(ctx, `SELECT `+exercicioCols+` FROM fin_exercicios WHERE municipio_id::text = $1 AND ano = $2`, municipioID, ano)
}

func (r *ExercicioRepo) get(ctx context.Context, query string, args ...any) (*entity.FinanceiroExercicio, error) {
	e, err := scanExercicio(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get exercicio: %w", err)
	}
	return e, nil
}

func (r *ExercicioRepo) Update(ctx context.Context, e *entity.FinanceiroExercicio) error {
	_, err := r.q.Exec(ctx, `UPDATE fin_exercicios SET status = $2, updated_at = $3 WHERE id::text = $1`,
		e.ID, e.Status, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update exercicio: %w", err)
	}
	return nil
}

func (r *ExercicioRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.FinanceiroExercicio, int, error) {
	w := &where{}
	w.scope(f.Scope, scopeCols{Municipio: "municipio_id"})
	w.eq("status", f.Status)

	total, err := count(ctx, r.q, "fin_exercicios", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count exercicios: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+exercicioCols+` FROM fin_exercicios`+w.sql()+` ORDER BY ano DESC`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list exercicios: %w", err)
	}
	defer rows.Close()

	var out []*entity.FinanceiroExercicio
	for rows.Next() {
		e, err := scanExercicio(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan exercicio: %w", err)
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// DotacaoRepo dotações orçamentárias.
type DotacaoRepo struct {
	q Querier
}

// NewDotacaoRepository constrói o adaptador de dotações.
func NewDotacaoRepository(q Querier) *DotacaoRepo {
	return &DotacaoRepo{q: q}
}

const dotacaoCols = `id::text, municipio_id::text, exercicio_id::text, COALESCE(secretaria_id::text, ''),
	programa_codigo, acao_codigo, elemento_despesa, fonte, descricao, valor_inicial, valor_atualizado,
	valor_empenhado, valor_liquidado, valor_pago, created_at, updated_at`

func scanDotacao(row interface{ Scan(...any) error }) (*entity.OrcDotacao, error) {
	var d entity.OrcDotacao
	err := row.Scan(&d.ID, &d.MunicipioID, &d.ExercicioID, &d.SecretariaID, &d.ProgramaCodigo, &d.AcaoCodigo,
		&d.ElementoDespesa, &d.Fonte, &d.Descricao, &d.ValorInicial, &d.ValorAtualizado, &d.ValorEmpenhado,
		&d.ValorLiquidado, &d.ValorPago, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *DotacaoRepo) Create(ctx context.Context, d *entity.OrcDotacao) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO orc_dotacoes (id, municipio_id, exercicio_id, secretaria_id, programa_codigo, acao_codigo,
			elemento_despesa, fonte, descricao, valor_inicial, valor_atualizado, valor_empenhado, valor_liquidado,
			valor_pago, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, '')::uuid, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`,
		d.ID, d.MunicipioID, d.ExercicioID, d.SecretariaID, d.ProgramaCodigo, d.AcaoCodigo, d.ElementoDespesa,
		d.Fonte, d.Descricao, d.ValorInicial, d.ValorAtualizado, d.ValorEmpenhado, d.ValorLiquidado, d.ValorPago,
		d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert dotacao", err)
	}
	return nil
}

func (r *DotacaoRepo) GetByID(ctx context.Context, id string) (*entity.OrcDotacao, error) {
	return r.get(ctx, `SELECT `+dotacaoCols+` FROM orc_dotacoes WHERE id::text = $1`, id)
}

func (r *DotacaoRepo) GetForUpdate(ctx context.Context, id string) (*entity.OrcDotacao, error) {
	return r.get(ctx, `SELECT `+dotacaoCols+` FROM orc_dotacoes WHERE id::text = $1 FOR UPDATE`, id)
}

func (r *DotacaoRepo) get(ctx context.Context, query, id string) (*entity.OrcDotacao, error) {
	d, err := scanDotacao(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get dotacao: %w", err)
	}
	return d, nil
}

// Update grava apenas os valores executados.
func (r *DotacaoRepo) Update(ctx context.Context, d *entity.OrcDotacao) error {
	_, err := r.q.Exec(ctx, `
		UPDATE orc_dotacoes SET valor_atualizado = $2, valor_empenhado = $3, valor_liquidado = $4, valor_pago = $5,
			updated_at = $6
		WHERE id::text = $1`,
		d.ID, d.ValorAtualizado, d.ValorEmpenhado, d.ValorLiquidado, d.ValorPago, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update dotacao: %w", err)
	}
	return nil
}

func (r *DotacaoRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.OrcDotacao, int, error) {
	w := &where{}
	w.scope(f.Scope, scopeCols{Municipio: "municipio_id"})
	if f.ParentID != "" {
		w.and("exercicio_id::text = " + w.arg(f.ParentID))
	}
	w.ilike(f.Q, "programa_codigo", "acao_codigo", "elemento_despesa", "descricao")

	total, err := count(ctx, r.q, "orc_dotacoes", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count dotacoes: %w", err)
	}
	query := `SELECT ` + dotacaoCols + ` FROM orc_dotacoes` + w.sql() +
		` ORDER BY programa_codigo, acao_codigo, elemento_despesa` + w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list dotacoes: %w", err)
	}
	defer rows.Close()

	var out []*entity.OrcDotacao
	for rows.Next() {
		d, err := scanDotacao(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan dotacao: %w", err)
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

// EmpenhoRepo empenhos.
type EmpenhoRepo struct {
	q Querier
}

// NewEmpenhoRepository constrói o adaptador de empenhos.
func NewEmpenhoRepository(q Querier) *EmpenhoRepo {
	return &EmpenhoRepo{q: q}
}

const empenhoCols = `id::text, municipio_id::text, exercicio_id::text, dotacao_id::text, numero, data_empenho,
	fornecedor_nome, fornecedor_documento, objeto, tipo, valor_empenhado, valor_liquidado, valor_pago, status,
	COALESCE(criado_por::text, ''), created_at, updated_at`

func scanEmpenho(row interface{ Scan(...any) error }) (*entity.DespEmpenho, error) {
	var e entity.DespEmpenho
	err := row.Scan(&e.ID, &e.MunicipioID, &e.ExercicioID, &e.DotacaoID, &e.Numero, &e.Data, &e.FornecedorNome,
		&e.FornecedorDocumento, &e.Objeto, &e.Tipo, &e.ValorEmpenhado, &e.ValorLiquidado, &e.ValorPago, &e.Status,
		&e.CriadoPor, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EmpenhoRepo) Create(ctx context.Context, e *entity.DespEmpenho) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO desp_empenhos (id, municipio_id, exercicio_id, dotacao_id, numero, data_empenho, fornecedor_nome,
			fornecedor_documento, objeto, tipo, valor_empenhado, valor_liquidado, valor_pago, status, criado_por,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NULLIF($15, '')::uuid, $16, $17)`,
		e.ID, e.MunicipioID, e.ExercicioID, e.DotacaoID, e.Numero, e.Data, e.FornecedorNome, e.FornecedorDocumento,
		e.Objeto, e.Tipo, e.ValorEmpenhado, e.ValorLiquidado, e.ValorPago, e.Status, e.CriadoPor, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert empenho", err)
	}
	return nil
}

func (r *EmpenhoRepo) GetByID(ctx context.Context, id string) (*entity.DespEmpenho, error) {
	return r.get(ctx, `SELECT `+empenhoCols+` FROM desp_empenhos WHERE id::text = $1`, id)
}

func (r *EmpenhoRepo) GetForUpdate(ctx context.Context, id string) (*entity.DespEmpenho, error) {
	return r.get(ctx, `SELECT `+empenhoCols+` FROM desp_empenhos WHERE id::text = $1 FOR UPDATE`, id)
}

func (r *EmpenhoRepo) GetByNumero(ctx context.Context, exercicioID, numero string) (*entity.DespEmpenho, error) {
	return r.get(ctx, `SELECT `+empenhoCols+` FROM desp_empenhos WHERE exercicio_id::text = $1 AND upper(numero) = upper($2)`,
		exercicioID, numero)
}

func (r *EmpenhoRepo) get(ctx context.Context, query string, args ...any) (*entity.DespEmpenho, error) {
	e, err := scanEmpenho(r.q.QueryRow(ctx, query, args...))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get empenho: %w", err)
	}
	return e, nil
}

// Update grava valores executados e status.
func (r *EmpenhoRepo) Update(ctx context.Context, e *entity.DespEmpenho) error {
	_, err := r.q.Exec(ctx, `
		UPDATE desp_empenhos SET valor_liquidado = $2, valor_pago = $3, status = $4, updated_at = $5
		WHERE id::text = $1`, e.ID, e.ValorLiquidado, e.ValorPago, e.Status, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update empenho: %w", err)
	}
	return nil
}

func (r *EmpenhoRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.DespEmpenho, int, error) {
	w := &where{}
	w.scope(f.Scope, scopeCols{Municipio: "municipio_id"})
	if f.ParentID != "" {
		w.and("exercicio_id::text = " + w.arg(f.ParentID))
	}
	if f.Tipo != "" {
		w.and("dotacao_id::text = " + w.arg(f.Tipo))
	}
	w.eq("status", f.Status)
	w.ilike(f.Q, "numero", "fornecedor_nome", "objeto")

	total, err := count(ctx, r.q, "desp_empenhos", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count empenhos: %w", err)
	}
	query := `SELECT ` + empenhoCols + ` FROM desp_empenhos` + w.sql() + ` ORDER BY data_empenho DESC, numero DESC` + w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list empenhos: %w", err)
	}
	defer rows.Close()

	var out []*entity.DespEmpenho
	for rows.Next() {
		e, err := scanEmpenho(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan empenho: %w", err)
		}
		out = append(out, e)
	}
	return out, total, rows.Err()
}

// LiquidacaoRepo liquidações.
type LiquidacaoRepo struct {
	q Querier
}

// NewLiquidacaoRepository constrói o adaptador de liquidações.
func NewLiquidacaoRepository(q Querier) *LiquidacaoRepo {
	return &LiquidacaoRepo{q: q}
}

const liquidacaoCols = `id::text, empenho_id::text, numero, data_liquidacao, documento_fiscal, observacao, valor,
	COALESCE(criado_por::text, ''), created_at`

func scanLiquidacao(row interface{ Scan(...any) error }) (*entity.DespLiquidacao, error) {
	var l entity.DespLiquidacao
	err := row.Scan(&l.ID, &l.EmpenhoID, &l.Numero, &l.Data, &l.DocumentoFiscal, &l.Observacao, &l.Valor,
		&l.CriadoPor, &l.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *LiquidacaoRepo) Create(ctx context.Context, l *entity.DespLiquidacao) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO desp_liquidacoes (id, empenho_id, numero, data_liquidacao, documento_fiscal, observacao, valor,
			criado_por, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::uuid, $9)`,
		l.ID, l.EmpenhoID, l.Numero, l.Data, l.DocumentoFiscal, l.Observacao, l.Valor, l.CriadoPor, l.CreatedAt)
	if err != nil {
		return mapWriteErr("insert liquidacao", err)
	}
	return nil
}

func (r *LiquidacaoRepo) GetByID(ctx context.Context, id string) (*entity.DespLiquidacao, error) {
	l, err := scanLiquidacao(r.q.QueryRow(ctx, `SELECT `+liquidacaoCols+` FROM desp_liquidacoes WHERE id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get liquidacao: %w", err)
	}
	return l, nil
}

func (r *LiquidacaoRepo) ListByEmpenho(ctx context.Context, empenhoID string) ([]*entity.DespLiquidacao, error) {
	rows, err := r.q.Query(ctx, `SELECT `+liquidacaoCols+` FROM desp_liquidacoes WHERE empenho_id::text = $1 ORDER BY created_at`, empenhoID)
	if err != nil {
		return nil, fmt.Errorf("list liquidacoes: %w", err)
	}
	defer rows.Close()

	var out []*entity.DespLiquidacao
	for rows.Next() {
		l, err := scanLiquidacao(rows)
		if err != nil {
			return nil, fmt.Errorf("scan liquidacao: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

// PagamentoRepo pagamentos.
type PagamentoRepo struct {
	q Querier
}

// NewPagamentoRepository constrói o adaptador de pagamentos.
func NewPagamentoRepository(q Querier) *PagamentoRepo {
	return &PagamentoRepo{q: q}
}

func (r *PagamentoRepo) Create(ctx context.Context, p *entity.DespPagamento) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO desp_pagamentos (id, empenho_id, liquidacao_id, ordem_pagamento, data_pagamento, valor,
			criado_por, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, $8)`,
		p.ID, p.EmpenhoID, p.LiquidacaoID, p.OrdemPagamento, p.Data, p.Valor, p.CriadoPor, p.CreatedAt)
	if err != nil {
		return mapWriteErr("insert pagamento", err)
	}
	return nil
}

func (r *PagamentoRepo) ListByEmpenho(ctx context.Context, empenhoID string) ([]*entity.DespPagamento, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id::text, empenho_id::text, liquidacao_id::text, ordem_pagamento, data_pagamento, valor,
			COALESCE(criado_por::text, ''), created_at
		FROM desp_pagamentos WHERE empenho_id::text = $1 ORDER BY created_at`, empenhoID)
	if err != nil {
		return nil, fmt.Errorf("list pagamentos: %w", err)
	}
	defer rows.Close()

	var out []*entity.DespPagamento
	for rows.Next() {
		var p entity.DespPagamento
		err := rows.Scan(&p.ID, &p.EmpenhoID, &p.LiquidacaoID, &p.OrdemPagamento, &p.Data, &p.Valor, &p.CriadoPor, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan pagamento: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}
