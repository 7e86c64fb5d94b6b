package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

var (
	_ repository.ConectorRepository = (*ConectorRepo)(nil)
	_ repository.ExecucaoRepository = (*ExecucaoRepo)(nil)
)

// ConectorRepo conectores de integração.
type ConectorRepo struct {
	q Querier
}

// NewConectorRepository constrói o adaptador de conectores.
func NewConectorRepository(q Querier) *ConectorRepo {
	return &ConectorRepo{q: q}
}

const conectorCols = `id::text, municipio_id::text, nome, dominio, tipo, endpoint, credenciais, configuracao,
	ativo, COALESCE(criado_por::text, ''), created_at, updated_at`

func scanConector(row interface{ Scan(...any) error }) (*entity.ConectorIntegracao, error) {
	var c entity.ConectorIntegracao
	err := row.Scan(&c.ID, &c.MunicipioID, &c.Nome, &c.Dominio, &c.Tipo, &c.Endpoint, &c.Credenciais,
		&c.Configuracao, &c.Ativo, &c.CriadoPor, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ConectorRepo) Create(ctx context.Context, c *entity.ConectorIntegracao) error {
	query := `
		INSERT INTO conectores_integracao (id, municipio_id, nome, dominio, tipo, endpoint, credenciais,
			configuracao, ativo, criado_por, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, '')::uuid, $11, $12)`
	_, err := r.q.Exec(ctx, query, c.ID, c.MunicipioID, c.Nome, c.Dominio, c.Tipo, c.Endpoint,
		jsonOrEmpty(c.Credenciais), jsonOrEmpty(c.Configuracao), c.Ativo, c.CriadoPor, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert conector", err)
	}
	return nil
}

func (r *ConectorRepo) GetByID(ctx context.Context, id string) (*entity.ConectorIntegracao, error) {
	c, err := scanConector(r.q.QueryRow(ctx, `SELECT `+conectorCols+` FROM conectores_integracao WHERE id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conector: %w", err)
	}
	return c, nil
}

func (r *ConectorRepo) Update(ctx context.Context, c *entity.ConectorIntegracao) error {
	query := `
		UPDATE conectores_integracao SET nome = $2, dominio = $3, tipo = $4, endpoint = $5, credenciais = $6,
			configuracao = $7, ativo = $8, updated_at = $9
		WHERE id::text = $1`
	_, err := r.q.Exec(ctx, query, c.ID, c.Nome, c.Dominio, c.Tipo, c.Endpoint,
		jsonOrEmpty(c.Credenciais), jsonOrEmpty(c.Configuracao), c.Ativo, c.UpdatedAt)
	if err != nil {
		return mapWriteErr("update conector", err)
	}
	return nil
}

func (r *ConectorRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.ConectorIntegracao, int, error) {
	w := &where{}
	w.scope(f.Scope, scopeCols{Municipio: "municipio_id"})
	w.eq("dominio", f.Tipo)
	w.ilike(f.Q, "nome", "endpoint")
	w.boolean("ativo", f.Ativo)

	total, err := count(ctx, r.q, "conectores_integracao", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count conectores: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+conectorCols+` FROM conectores_integracao`+w.sql()+` ORDER BY nome`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list conectores: %w", err)
	}
	defer rows.Close()

	var out []*entity.ConectorIntegracao
	for rows.Next() {
		c, err := scanConector(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan conector: %w", err)
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// ExecucaoRepo execuções de integração.
type ExecucaoRepo struct {
	q Querier
}

// NewExecucaoRepository constrói o adaptador de execuções.
func NewExecucaoRepository(q Querier) *ExecucaoRepo {
	return &ExecucaoRepo{q: q}
}

func (r *ExecucaoRepo) Create(ctx context.Context, e *entity.IntegracaoExecucao) error {
	query := `
		INSERT INTO integracao_execucoes (id, municipio_id, conector_id, direcao, status, referencia,
			quantidade_registros, detalhes, executado_por, executado_em)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NULLIF($9, '')::uuid, $10)`
	_, err := r.q.Exec(ctx, query, e.ID, e.MunicipioID, e.ConectorID, e.Direcao, e.Status, e.Referencia,
		e.QuantidadeRegistros, e.Detalhes, e.ExecutadoPor, e.ExecutadoEm)
	if err != nil {
		return mapWriteErr("insert execucao", err)
	}
	return nil
}

func (r *ExecucaoRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.IntegracaoExecucao, int, error) {
	w := &where{}
	w.scope(f.Scope, scopeCols{Municipio: "e.municipio_id"})
	if f.ParentID != "" {
		w.and("e.conector_id::text = " + w.arg(f.ParentID))
	}
	w.eq("e.status", f.Status)
	w.eq("e.direcao", f.Tipo)
	w.ilike(f.Q, "e.referencia", "c.nome")

	from := "integracao_execucoes e JOIN conectores_integracao c ON c.id = e.conector_id"
	total, err := count(ctx, r.q, from, w)
	if err != nil {
		return nil, 0, fmt.Errorf("count execucoes: %w", err)
	}
	query := `
		SELECT e.id::text, e.municipio_id::text, e.conector_id::text, c.nome, e.direcao, e.status, e.referencia,
			e.quantidade_registros, e.detalhes, COALESCE(e.executado_por::text, ''), e.executado_em
		FROM ` + from + w.sql() + ` ORDER BY e.executado_em DESC` + w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list execucoes: %w", err)
	}
	defer rows.Close()

	var out []*entity.IntegracaoExecucao
	for rows.Next() {
		var e entity.IntegracaoExecucao
		err := rows.Scan(&e.ID, &e.MunicipioID, &e.ConectorID, &e.ConectorNome, &e.Direcao, &e.Status,
			&e.Referencia, &e.QuantidadeRegistros, &e.Detalhes, &e.ExecutadoPor, &e.ExecutadoEm)
		if err != nil {
			return nil, 0, fmt.Errorf("scan execucao: %w", err)
		}
		out = append(out, &e)
	}
	return out, total, rows.Err()
}

func (r *ExecucaoRepo) Resumo(ctx context.Context, municipioID string, since time.Time) (entity.IntegracaoResumo, error) {
	var res entity.IntegracaoResumo
	err := r.q.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE ativo) FROM conectores_integracao WHERE municipio_id::text = $1`,
		municipioID).Scan(&res.Conectores, &res.ConectoresAtivos)
	if err != nil {
		return res, fmt.Errorf("resumo conectores: %w", err)
	}
	err = r.q.QueryRow(ctx, `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE status = 'FALHA')
		FROM integracao_execucoes WHERE municipio_id::text = $1 AND executado_em >= $2`,
		municipioID, since).Scan(&res.Execucoes30d, &res.Falhas30d)
	if err != nil {
		return res, fmt.Errorf("resumo execucoes: %w", err)
	}
	return res, nil
}
