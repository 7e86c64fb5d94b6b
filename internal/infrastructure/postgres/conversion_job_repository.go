package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

var _ repository.ConversionJobRepository = (*ConversionJobRepo)(nil)

type txBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ConversionJobRepo jobs do conversor.
type ConversionJobRepo struct {
	q Querier
}

// NewConversionJobRepository constrói o adaptador de jobs.
func NewConversionJobRepository(q Querier) *ConversionJobRepo {
	return &ConversionJobRepo{q: q}
}

const jobCols = `j.id::text, j.municipio_id::text, COALESCE(j.secretaria_id::text, ''),
	COALESCE(j.unidade_id::text, ''), COALESCE(j.setor_id::text, ''), j.tipo, j.status,
	COALESCE(j.parametros->>'pages', ''), j.output_key, j.output_nome, j.logs, j.tamanho_entrada,
	j.tamanho_saida, j.duracao_ms, j.tentativas, COALESCE(j.criado_por::text, ''), j.created_at,
	j.updated_at, j.concluido_em`

func scanJob(row interface{ Scan(...any) error }) (*entity.ConversionJob, error) {
	var j entity.ConversionJob
	err := row.Scan(&j.ID, &j.MunicipioID, &j.SecretariaID, &j.UnidadeID, &j.SetorID, &j.Tipo, &j.Status,
		&j.Pages, &j.OutputKey, &j.OutputNome, &j.Logs, &j.TamanhoEntrada, &j.TamanhoSaida, &j.DuracaoMS,
		&j.Tentativas, &j.CriadoPor, &j.CreatedAt, &j.UpdatedAt, &j.ConcluidoEm)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

// Create grava job e inputs atomicamente (abre transação ou savepoint conforme o Querier).
func (r *ConversionJobRepo) Create(ctx context.Context, job *entity.ConversionJob) error {
	b, ok := r.q.(txBeginner)
	if !ok {
		return r.insert(ctx, r.q, job)
	}
	tx, err := b.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := r.insert(ctx, tx, job); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *ConversionJobRepo) insert(ctx context.Context, q Querier, job *entity.ConversionJob) error {
	query := `
		INSERT INTO conversion_jobs (id, municipio_id, secretaria_id, unidade_id, setor_id, tipo, status,
			parametros, tamanho_entrada, criado_por, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, '')::uuid, NULLIF($4, '')::uuid, NULLIF($5, '')::uuid, $6, $7,
			jsonb_build_object('pages', $8::text), $9, NULLIF($10, '')::uuid, $11, $12)`
	_, err := q.Exec(ctx, query, job.ID, job.MunicipioID, job.SecretariaID, job.UnidadeID, job.SetorID,
		job.Tipo, job.Status, job.Pages, job.TamanhoEntrada, job.CriadoPor, job.CreatedAt, job.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert conversion job", err)
	}
	for _, in := range job.Inputs {
		_, err := q.Exec(ctx, `
			INSERT INTO conversion_job_inputs (id, job_id, ordem, storage_key, nome, tamanho)
			VALUES ($1, $2, $3, $4, $5, $6)`, in.ID, job.ID, in.Ordem, in.StorageKey, in.Nome, in.Tamanho)
		if err != nil {
			return mapWriteErr("insert conversion job input", err)
		}
	}
	return nil
}

func (r *ConversionJobRepo) GetByID(ctx context.Context, id string) (*entity.ConversionJob, error) {
	j, err := scanJob(r.q.QueryRow(ctx, `SELECT `+jobCols+` FROM conversion_jobs j WHERE j.id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get conversion job: %w", err)
	}
	if err := r.loadInputs(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

// Claim só tem efeito sobre jobs PENDENTE; conta a tentativa.
func (r *ConversionJobRepo) Claim(ctx context.Context, id string) (*entity.ConversionJob, error) {
	query := `
		UPDATE conversion_jobs j SET status = 'PROCESSANDO', tentativas = j.tentativas + 1, updated_at = now()
		WHERE j.id::text = $1 AND j.status = 'PENDENTE'
		RETURNING ` + jobCols
	j, err := scanJob(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("claim conversion job: %w", err)
	}
	if err := r.loadInputs(ctx, j); err != nil {
		return nil, err
	}
	return j, nil
}

func (r *ConversionJobRepo) Finish(ctx context.Context, job *entity.ConversionJob) error {
	query := `
		UPDATE conversion_jobs SET status = $2, logs = $3, output_key = $4, output_nome = $5,
			tamanho_saida = $6, duracao_ms = $7, concluido_em = $8, updated_at = now()
		WHERE id::text = $1`
	_, err := r.q.Exec(ctx, query, job.ID, job.Status, job.Logs, job.OutputKey, job.OutputNome,
		job.TamanhoSaida, job.DuracaoMS, job.ConcluidoEm)
	if err != nil {
		return fmt.Errorf("finish conversion job: %w", err)
	}
	return nil
}

func (r *ConversionJobRepo) Reset(ctx context.Context, id string) error {
	_, err := r.q.Exec(ctx, `
		UPDATE conversion_jobs SET status = 'PENDENTE', output_key = '', output_nome = '', tamanho_saida = 0,
			duracao_ms = 0, concluido_em = NULL, updated_at = now()
		WHERE id::text = $1`, id)
	if err != nil {
		return fmt.Errorf("reset conversion job: %w", err)
	}
	return nil
}

func (r *ConversionJobRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.ConversionJob, int, error) {
	w := &where{}
	w.scope(f.Scope, scopeCols{Municipio: "j.municipio_id", Secretaria: "j.secretaria_id", Unidade: "j.unidade_id", Setor: "j.setor_id"})
	w.eq("j.status", f.Status)
	w.eq("j.tipo", f.Tipo)
	if f.Q != "" {
		p := w.arg("%" + f.Q + "%")
		w.and("(j.output_nome ILIKE " + p + " OR EXISTS (SELECT 1 FROM conversion_job_inputs ci WHERE ci.job_id = j.id AND ci.nome ILIKE " + p + "))")
	}

	total, err := count(ctx, r.q, "conversion_jobs j", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count conversion jobs: %w", err)
	}
	jobs, err := r.query(ctx, `SELECT `+jobCols+` FROM conversion_jobs j`+w.sql()+` ORDER BY j.created_at DESC`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, err
	}
	return jobs, total, nil
}

func (r *ConversionJobRepo) ListStale(ctx context.Context, before time.Time, limit int) ([]*entity.ConversionJob, error) {
	return r.query(ctx, `SELECT `+jobCols+` FROM conversion_jobs j
		WHERE j.status = 'PROCESSANDO' AND j.updated_at < $1 ORDER BY j.updated_at LIMIT $2`, before, limit)
}

func (r *ConversionJobRepo) ListPending(ctx context.Context, before time.Time, limit int) ([]*entity.ConversionJob, error) {
	return r.query(ctx, `SELECT `+jobCols+` FROM conversion_jobs j
		WHERE j.status = 'PENDENTE' AND j.created_at < $1 ORDER BY j.created_at LIMIT $2`, before, limit)
}

func (r *ConversionJobRepo) query(ctx context.Context, query string, args ...any) ([]*entity.ConversionJob, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversion jobs: %w", err)
	}
	var out []*entity.ConversionJob
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan conversion job: %w", err)
		}
		out = append(out, j)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if err := r.loadInputsBatch(ctx, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ConversionJobRepo) loadInputs(ctx context.Context, j *entity.ConversionJob) error {
	return r.loadInputsBatch(ctx, []*entity.ConversionJob{j})
}

func (r *ConversionJobRepo) loadInputsBatch(ctx context.Context, jobs []*entity.ConversionJob) error {
	if len(jobs) == 0 {
		return nil
	}
	ids := make([]string, len(jobs))
	byID := make(map[string]*entity.ConversionJob, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
		byID[j.ID] = j
	}
	rows, err := r.q.Query(ctx, `
		SELECT id::text, job_id::text, ordem, storage_key, nome, tamanho
		FROM conversion_job_inputs WHERE job_id::text = ANY($1) ORDER BY job_id, ordem`, ids)
	if err != nil {
		return fmt.Errorf("list job inputs: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var in entity.ConversionJobInput
		if err := rows.Scan(&in.ID, &in.JobID, &in.Ordem, &in.StorageKey, &in.Nome, &in.Tamanho); err != nil {
			return fmt.Errorf("scan job input: %w", err)
		}
		if j := byID[in.JobID]; j != nil {
			j.Inputs = append(j.Inputs, in)
		}
	}
	return rows.Err()
}
