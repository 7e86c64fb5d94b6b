package postgres

import (
	"context"
	"fmt"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

var (
	_ repository.RubricaRepository              = (*RubricaRepo)(nil)
	_ repository.CompetenciaRepository          = (*CompetenciaRepo)(nil)
	_ repository.LancamentoRepository           = (*LancamentoRepo)(nil)
	_ repository.IntegracaoFinanceiroRepository = (*IntegracaoFinanceiroRepo)(nil)
)

// RubricaRepo rubricas da folha.
type RubricaRepo struct {
	q Querier
}

// NewRubricaRepository constrói o adaptador de rubricas.
func NewRubricaRepository(q Querier) *RubricaRepo {
	return &RubricaRepo{q: q}
}

const rubricaCols = `id::text, municipio_id::text, codigo, nome, tipo_evento, natureza, valor_referencia, formula,
	status, created_at, updated_at`

func scanRubrica(row interface{ Scan(...any) error }) (*entity.Rubrica, error) {
	var r entity.Rubrica
	err := row.Scan(&r.ID, &r.MunicipioID, &r.Codigo, &r.Nome, &r.TipoEvento, &r.Natureza, &r.ValorReferencia,
		&r.Formula, &r.Status, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *RubricaRepo) Create(ctx context.Context, rb *entity.Rubrica) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO folha_rubricas (id, municipio_id, codigo, nome, tipo_evento, natureza, valor_referencia,
			formula, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rb.ID, rb.MunicipioID, rb.Codigo, rb.Nome, rb.TipoEvento, rb.Natureza, rb.ValorReferencia, rb.Formula,
		rb.Status, rb.CreatedAt, rb.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert rubrica", err)
	}
	return nil
}

func (r *RubricaRepo) GetByID(ctx context.Context, id string) (*entity.Rubrica, error) {
	rb, err := scanRubrica(r.q.QueryRow(ctx, `SELECT `+rubricaCols+` FROM folha_rubricas WHERE id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get rubrica: %w", err)
	}
	return rb, nil
}

func (r *RubricaRepo) Update(ctx context.Context, rb *entity.Rubrica) error {
	_, err := r.q.Exec(ctx, `
		UPDATE folha_rubricas SET codigo = $2, nome = $3, tipo_evento = $4, natureza = $5, valor_referencia = $6,
			formula = $7, status = $8, updated_at = $9
		WHERE id::text = $1`,
		rb.ID, rb.Codigo, rb.Nome, rb.TipoEvento, rb.Natureza, rb.ValorReferencia, rb.Formula, rb.Status, rb.UpdatedAt)
	if err != nil {
		return mapWriteErr("update rubrica", err)
	}
	return nil
}

func (r *RubricaRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Rubrica, int, error) {
	w := &where{}
	w.scope(f.Scope, scopeCols{Municipio: "municipio_id"})
	w.eq("tipo_evento", f.Tipo)
	w.eq("status", f.Status)
	w.ilike(f.Q, "codigo", "nome")

	total, err := count(ctx, r.q, "folha_rubricas", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count rubricas: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+rubricaCols+` FROM folha_rubricas`+w.sql()+` ORDER BY codigo`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list rubricas: %w", err)
	}
	defer rows.Close()

	var out []*entity.Rubrica
	for rows.Next() {
		rb, err := scanRubrica(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan rubrica: %w", err)
		}
		out = append(out, rb)
	}
	return out, total, rows.Err()
}

// CompetenciaRepo competências da folha.
type CompetenciaRepo struct {
	q Querier
}

// NewCompetenciaRepository constrói o adaptador de competências.
func NewCompetenciaRepository(q Querier) *CompetenciaRepo {
	return &CompetenciaRepo{q: q}
}

const competenciaCols = `id::text, municipio_id::text, competencia, status, total_colaboradores, total_proventos,
	total_descontos, total_liquido, processado_em, fechado_em, created_at, updated_at`

func scanCompetencia(row interface{ Scan(...any) error }) (*entity.FolhaCompetencia, error) {
	var c entity.FolhaCompetencia
	err := row.Scan(&c.ID, &c.MunicipioID, &c.Competencia, &c.Status, &c.TotalColaboradores, &c.TotalProventos,
		&c.TotalDescontos, &c.TotalLiquido, &c.ProcessadoEm, &c.FechadoEm, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CompetenciaRepo) Create(ctx context.Context, c *entity.FolhaCompetencia) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO folha_competencias (id, municipio_id, competencia, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, c.ID, c.MunicipioID, c.Competencia, c.Status, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert competencia", err)
	}
	return nil
}

func (r *CompetenciaRepo) GetByID(ctx context.Context, id string) (*entity.FolhaCompetencia, error) {
	return r.get(ctx, `SELECT `+competenciaCols+` FROM folha_competencias WHERE id::text = $1`, id)
}

func (r *CompetenciaRepo) GetForUpdate(ctx context.Context, id string) (*entity.FolhaCompetencia, error) {
	return r.get(ctx, `SELECT `+competenciaCols+` FROM folha_competencias WHERE id::text = $1 FOR UPDATE`, id)
}

func (r *CompetenciaRepo) get(ctx context.Context, query, id string) (*entity.FolhaCompetencia, error) {
	c, err := scanCompetencia(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get competencia: %w", err)
	}
	return c, nil
}

func (r *CompetenciaRepo) Update(ctx context.Context, c *entity.FolhaCompetencia) error {
	_, err := r.q.Exec(ctx, `
		UPDATE folha_competencias SET status = $2, total_colaboradores = $3, total_proventos = $4,
			total_descontos = $5, total_liquido = $6, processado_em = $7, fechado_em = $8, updated_at = $9
		WHERE id::text = $1`,
		c.ID, c.Status, c.TotalColaboradores, c.TotalProventos, c.TotalDescontos, c.TotalLiquido,
		c.ProcessadoEm, c.FechadoEm, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update competencia: %w", err)
	}
	return nil
}

func (r *CompetenciaRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.FolhaCompetencia, int, error) {
	w := &where{}
	w.scope(f.Scope, scopeCols{Municipio: "municipio_id"})
	w.eq("status", f.Status)
	if f.Q != "" {
		w.and("competencia LIKE " + w.arg(f.Q+"%"))
	}

	total, err := count(ctx, r.q, "folha_competencias", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count competencias: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+competenciaCols+` FROM folha_competencias`+w.sql()+` ORDER BY competencia DESC`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list competencias: %w", err)
	}
	defer rows.Close()

	var out []*entity.FolhaCompetencia
	for rows.Next() {
		c, err := scanCompetencia(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan competencia: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// LancamentoRepo lançamentos da folha.
type LancamentoRepo struct {
	q Querier
}

// NewLancamentoRepository constrói o adaptador de lançamentos.
func NewLancamentoRepository(q Querier) *LancamentoRepo {
	return &LancamentoRepo{q: q}
}

func (r *LancamentoRepo) Create(ctx context.Context, l *entity.FolhaLancamento) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO folha_lancamentos (id, competencia_id, servidor_nome, servidor_matricula, rubrica_id,
			quantidade, valor_unitario, valor_calculado, status, observacao, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		l.ID, l.CompetenciaID, l.ServidorNome, l.ServidorMatricula, l.RubricaID, l.Quantidade, l.ValorUnitario,
		l.ValorCalculado, l.Status, l.Observacao, l.CreatedAt)
	if err != nil {
		return mapWriteErr("insert lancamento", err)
	}
	return nil
}

func (r *LancamentoRepo) ListByCompetencia(ctx context.Context, competenciaID, servidor string) ([]entity.FolhaLancamento, error) {
	w := &where{}
	w.and("l.competencia_id::text = " + w.arg(competenciaID))
	w.eq("l.servidor_matricula", servidor)
	query := `
		SELECT l.id::text, l.competencia_id::text, l.servidor_nome, l.servidor_matricula, l.rubrica_id::text,
			rb.codigo, rb.nome, rb.tipo_evento, l.quantidade, l.valor_unitario, l.valor_calculado, l.status,
			l.observacao, l.created_at
		FROM folha_lancamentos l JOIN folha_rubricas rb ON rb.id = l.rubrica_id` + w.sql() + `
		ORDER BY l.servidor_nome, rb.tipo_evento DESC, rb.codigo`
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("list lancamentos: %w", err)
	}
	defer rows.Close()

	var out []entity.FolhaLancamento
	for rows.Next() {
		var l entity.FolhaLancamento
		err := rows.Scan(&l.ID, &l.CompetenciaID, &l.ServidorNome, &l.ServidorMatricula, &l.RubricaID,
			&l.RubricaCodigo, &l.RubricaNome, &l.TipoEvento, &l.Quantidade, &l.ValorUnitario, &l.ValorCalculado,
			&l.Status, &l.Observacao, &l.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan lancamento: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LancamentoRepo) MarkEnviados(ctx context.Context, competenciaID string) error {
	_, err := r.q.Exec(ctx, `UPDATE folha_lancamentos SET status = 'ENVIADO_FINANCEIRO' WHERE competencia_id::text = $1`, competenciaID)
	if err != nil {
		return fmt.Errorf("mark lancamentos enviados: %w", err)
	}
	return nil
}

// IntegracaoFinanceiroRepo envio da folha ao financeiro.
type IntegracaoFinanceiroRepo struct {
	q Querier
}

// NewIntegracaoFinanceiroRepository constrói o adaptador.
func NewIntegracaoFinanceiroRepository(q Querier) *IntegracaoFinanceiroRepo {
	return &IntegracaoFinanceiroRepo{q: q}
}

func (r *IntegracaoFinanceiroRepo) GetByCompetencia(ctx context.Context, competenciaID string) (*entity.FolhaIntegracaoFinanceiro, error) {
	var i entity.FolhaIntegracaoFinanceiro
	err := r.q.QueryRow(ctx, `
		SELECT id::text, competencia_id::text, status, total_enviado, referencia, enviado_em,
			COALESCE(enviado_por::text, '')
		FROM folha_integracoes_financeiro WHERE competencia_id::text = $1`, competenciaID).
		Scan(&i.ID, &i.CompetenciaID, &i.Status, &i.TotalEnviado, &i.Referencia, &i.EnviadoEm, &i.EnviadoPor)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get integracao financeiro: %w", err)
	}
	return &i, nil
}

// Upsert mantém um registro por competência.
func (r *IntegracaoFinanceiroRepo) Upsert(ctx context.Context, i *entity.FolhaIntegracaoFinanceiro) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO folha_integracoes_financeiro (id, competencia_id, status, total_enviado, referencia, enviado_em, enviado_por)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid)
		ON CONFLICT (competencia_id) DO UPDATE SET status = EXCLUDED.status, total_enviado = EXCLUDED.total_enviado,
			referencia = EXCLUDED.referencia, enviado_em = EXCLUDED.enviado_em, enviado_por = EXCLUDED.enviado_por`,
		i.ID, i.CompetenciaID, i.Status, i.TotalEnviado, i.Referencia, i.EnviadoEm, i.EnviadoPor)
	if err != nil {
		return mapWriteErr("upsert integracao financeiro", err)
	}
	return nil
}
