package postgres

import (
	"context"
	"fmt"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

var (
	_ repository.AuditoriaRepository     = (*AuditoriaRepo)(nil)
	_ repository.TransparenciaRepository = (*TransparenciaRepo)(nil)
)

// AuditoriaRepo trilha de auditoria.
type AuditoriaRepo struct {
	q Querier
}

// NewAuditoriaRepository constrói o adaptador de auditoria.
func NewAuditoriaRepository(q Querier) *AuditoriaRepo {
	return &AuditoriaRepo{q: q}
}

func (r *AuditoriaRepo) Create(ctx context.Context, e *entity.AuditoriaEvento) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO auditoria_eventos (id, municipio_id, modulo, evento, entidade, entidade_id, usuario_id,
			antes, depois, observacao, created_at)
		VALUES ($1, NULLIF($2, '')::uuid, $3, $4, $5, $6, NULLIF($7, '')::uuid, $8, $9, $10, $11)`,
		e.ID, e.MunicipioID, e.Modulo, e.Evento, e.Entidade, e.EntidadeID, e.UsuarioID,
		jsonOrNull(e.Antes), jsonOrNull(e.Depois), e.Observacao, e.CreatedAt)
	if err != nil {
		return mapWriteErr("insert auditoria", err)
	}
	return nil
}

func (r *AuditoriaRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.AuditoriaEvento, int, error) {
	w := &where{}
	w.scope(f.Scope, scopeCols{Municipio: "municipio_id"})
	if f.ParentID != "" {
		w.and("municipio_id::text = " + w.arg(f.ParentID))
	}
	w.eq("modulo", f.Tipo)
	w.eq("entidade_id", f.Q)
	w.eq("evento", f.Status)

	total, err := count(ctx, r.q, "auditoria_eventos", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count auditoria: %w", err)
	}
	query := `
		SELECT id::text, COALESCE(municipio_id::text, ''), modulo, evento, entidade, entidade_id,
			COALESCE(usuario_id::text, ''), antes, depois, observacao, created_at
		FROM auditoria_eventos` + w.sql() + ` ORDER BY created_at DESC` + w.page(f.Page)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list auditoria: %w", err)
	}
	defer rows.Close()

	var out []*entity.AuditoriaEvento
	for rows.Next() {
		var e entity.AuditoriaEvento
		var antes, depois []byte
		err := rows.Scan(&e.ID, &e.MunicipioID, &e.Modulo, &e.Evento, &e.Entidade, &e.EntidadeID,
			&e.UsuarioID, &antes, &depois, &e.Observacao, &e.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan auditoria: %w", err)
		}
		e.Antes, e.Depois = antes, depois
		out = append(out, &e)
	}
	return out, total, rows.Err()
}

// TransparenciaRepo eventos do portal da transparência.
type TransparenciaRepo struct {
	q Querier
}

// NewTransparenciaRepository constrói o adaptador da transparência.
func NewTransparenciaRepository(q Querier) *TransparenciaRepo {
	return &TransparenciaRepo{q: q}
}

func (r *TransparenciaRepo) Create(ctx context.Context, e *entity.TransparenciaEvento) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO transparencia_eventos (id, municipio_id, modulo, tipo_evento, titulo, descricao, referencia,
			valor, dados, publico, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		e.ID, e.MunicipioID, e.Modulo, e.TipoEvento, e.Titulo, e.Descricao, e.Referencia, e.Valor,
		jsonOrEmpty(e.Dados), e.Publico, e.CreatedAt)
	if err != nil {
		return mapWriteErr("insert transparencia", err)
	}
	return nil
}

func (r *TransparenciaRepo) ListPublic(ctx context.Context, municipioID string, p repository.Page) ([]*entity.TransparenciaEvento, int, error) {
	w := &where{}
	w.and("publico")
	w.and("municipio_id::text = " + w.arg(municipioID))

	total, err := count(ctx, r.q, "transparencia_eventos", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count transparencia: %w", err)
	}
	query := `
		SELECT id::text, municipio_id::text, modulo, tipo_evento, titulo, descricao, referencia, valor, dados,
			publico, created_at
		FROM transparencia_eventos` + w.sql() + ` ORDER BY created_at DESC` + w.page(p)
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list transparencia: %w", err)
	}
	defer rows.Close()

	var out []*entity.TransparenciaEvento
	for rows.Next() {
		var e entity.TransparenciaEvento
		var dados []byte
		err := rows.Scan(&e.ID, &e.MunicipioID, &e.Modulo, &e.TipoEvento, &e.Titulo, &e.Descricao, &e.Referencia,
			&e.Valor, &dados, &e.Publico, &e.CreatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scan transparencia: %w", err)
		}
		e.Dados = dados
		out = append(out, &e)
	}
	return out, total, rows.Err()
}
