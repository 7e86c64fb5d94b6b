package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

var (
	_ repository.ProfissionalSaudeRepository = (*ProfissionalSaudeRepo)(nil)
	_ repository.AgendamentoSaudeRepository  = (*AgendamentoSaudeRepo)(nil)
	_ repository.AtendimentoSaudeRepository  = (*AtendimentoSaudeRepo)(nil)
)

var saudeScopeCols = scopeCols{Municipio: "municipio_id", Secretaria: "secretaria_id", Unidade: "unidade_id"}

// ProfissionalSaudeRepo profissionais de saúde.
type ProfissionalSaudeRepo struct {
	q Querier
}

// NewProfissionalSaudeRepository constrói o adaptador de profissionais.
func NewProfissionalSaudeRepository(q Querier) *ProfissionalSaudeRepo {
	return &ProfissionalSaudeRepo{q: q}
}

const profissionalCols = `id::text, municipio_id::text, secretaria_id::text, unidade_id::text, nome, cpf, cargo,
	conselho_numero, cbo, carga_horaria_semanal, ativo, created_at, updated_at`

func scanProfissional(row interface{ Scan(...any) error }) (*entity.ProfissionalSaude, error) {
	var p entity.ProfissionalSaude
	err := row.Scan(&p.ID, &p.MunicipioID, &p.SecretariaID, &p.UnidadeID, &p.Nome, &p.CPF, &p.Cargo,
		&p.ConselhoNumero, &p.CBO, &p.CargaHorariaSemanal, &p.Ativo, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProfissionalSaudeRepo) Create(ctx context.Context, p *entity.ProfissionalSaude) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO saude_profissionais (id, municipio_id, secretaria_id, unidade_id, nome, cpf, cargo,
			conselho_numero, cbo, carga_horaria_semanal, ativo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		p.ID, p.MunicipioID, p.SecretariaID, p.UnidadeID, p.Nome, p.CPF, p.Cargo, p.ConselhoNumero, p.CBO,
		p.CargaHorariaSemanal, p.Ativo, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert profissional", err)
	}
	return nil
}

func (r *ProfissionalSaudeRepo) GetByID(ctx context.Context, id string) (*entity.ProfissionalSaude, error) {
	p, err := scanProfissional(r.q.QueryRow(ctx, `SELECT `+profissionalCols+` FROM saude_profissionais WHERE id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get profissional: %w", err)
	}
	return p, nil
}

func (r *ProfissionalSaudeRepo) Update(ctx context.Context, p *entity.ProfissionalSaude) error {
	_, err := r.q.Exec(ctx, `
		UPDATE saude_profissionais SET secretaria_id = $2, unidade_id = $3, nome = $4, cpf = $5, cargo = $6,
			conselho_numero = $7, cbo = $8, carga_horaria_semanal = $9, ativo = $10, updated_at = $11
		WHERE id::text = $1`,
		p.ID, p.SecretariaID, p.UnidadeID, p.Nome, p.CPF, p.Cargo, p.ConselhoNumero, p.CBO,
		p.CargaHorariaSemanal, p.Ativo, p.UpdatedAt)
	if err != nil {
		return mapWriteErr("update profissional", err)
	}
	return nil
}

func (r *ProfissionalSaudeRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.ProfissionalSaude, int, error) {
	w := &where{}
	w.scope(f.Scope, saudeScopeCols)
	if f.ParentID != "" {
		w.and("unidade_id::text = " + w.arg(f.ParentID))
	}
	w.eq("cargo", f.Tipo)
	w.boolean("ativo", f.Ativo)
	w.ilike(f.Q, "nome", "cpf")

	total, err := count(ctx, r.q, "saude_profissionais", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count profissionais: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+profissionalCols+` FROM saude_profissionais`+w.sql()+` ORDER BY nome`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list profissionais: %w", err)
	}
	defer rows.Close()

	var out []*entity.ProfissionalSaude
	for rows.Next() {
		p, err := scanProfissional(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan profissional: %w", err)
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

// AgendamentoSaudeRepo agenda.
type AgendamentoSaudeRepo struct {
	q Querier
}

// NewAgendamentoSaudeRepository constrói o adaptador da agenda.
func NewAgendamentoSaudeRepository(q Querier) *AgendamentoSaudeRepo {
	return &AgendamentoSaudeRepo{q: q}
}

const agendamentoCols = `id::text, municipio_id::text, secretaria_id::text, unidade_id::text, profissional_id::text,
	COALESCE(aluno_id::text, ''), paciente_nome, paciente_cpf, inicio, fim, tipo, status, motivo,
	COALESCE(criado_por::text, ''), created_at, updated_at`

func scanAgendamento(row interface{ Scan(...any) error }) (*entity.AgendamentoSaude, error) {
	var a entity.AgendamentoSaude
	err := row.Scan(&a.ID, &a.MunicipioID, &a.SecretariaID, &a.UnidadeID, &a.ProfissionalID, &a.AlunoID,
		&a.PacienteNome, &a.PacienteCPF, &a.Inicio, &a.Fim, &a.Tipo, &a.Status, &a.Motivo, &a.CriadoPor,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AgendamentoSaudeRepo) Create(ctx context.Context, a *entity.AgendamentoSaude) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO saude_agendamentos (id, municipio_id, secretaria_id, unidade_id, profissional_id, aluno_id,
			paciente_nome, paciente_cpf, inicio, fim, tipo, status, motivo, criado_por, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, $7, $8, $9, $10, $11, $12, $13, NULLIF($14, '')::uuid, $15, $16)`,
		a.ID, a.MunicipioID, a.SecretariaID, a.UnidadeID, a.ProfissionalID, a.AlunoID, a.PacienteNome,
		a.PacienteCPF, a.Inicio, a.Fim, a.Tipo, a.Status, a.Motivo, a.CriadoPor, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert agendamento", err)
	}
	return nil
}

func (r *AgendamentoSaudeRepo) GetByID(ctx context.Context, id string) (*entity.AgendamentoSaude, error) {
	a, err := scanAgendamento(r.q.QueryRow(ctx, `SELECT `+agendamentoCols+` FROM saude_agendamentos WHERE id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get agendamento: %w", err)
	}
	return a, nil
}

// Update grava status e motivo.
func (r *AgendamentoSaudeRepo) Update(ctx context.Context, a *entity.AgendamentoSaude) error {
	_, err := r.q.Exec(ctx, `UPDATE saude_agendamentos SET status = $2, motivo = $3, updated_at = $4 WHERE id::text = $1`,
		a.ID, a.Status, a.Motivo, a.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update agendamento: %w", err)
	}
	return nil
}

func (r *AgendamentoSaudeRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.AgendamentoSaude, int, error) {
	w := &where{}
	w.scope(f.Scope, saudeScopeCols)
	if f.ParentID != "" {
		w.and("unidade_id::text = " + w.arg(f.ParentID))
	}
	if f.Tipo != "" {
		w.and("profissional_id::text = " + w.arg(f.Tipo))
	}
	w.eq("status", f.Status)
	w.ilike(f.Q, "paciente_nome")

	total, err := count(ctx, r.q, "saude_agendamentos", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count agendamentos: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+agendamentoCols+` FROM saude_agendamentos`+w.sql()+` ORDER BY inicio`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list agendamentos: %w", err)
	}
	defer rows.Close()
	return collectAgendamentos(rows, total)
}

func (r *AgendamentoSaudeRepo) Sobrepostos(ctx context.Context, profissionalID string, inicio, fim time.Time) ([]*entity.AgendamentoSaude, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+agendamentoCols+` FROM saude_agendamentos
		WHERE profissional_id::text = $1 AND status IN ('MARCADO', 'CONFIRMADO') AND inicio < $3 AND fim > $2
		ORDER BY inicio`, profissionalID, inicio, fim)
	if err != nil {
		return nil, fmt.Errorf("agendamentos sobrepostos: %w", err)
	}
	defer rows.Close()
	out, _, err := collectAgendamentos(rows, 0)
	return out, err
}

func collectAgendamentos(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}, total int) ([]*entity.AgendamentoSaude, int, error) {
	var out []*entity.AgendamentoSaude
	for rows.Next() {
		a, err := scanAgendamento(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan agendamento: %w", err)
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// AtendimentoSaudeRepo atendimentos.
type AtendimentoSaudeRepo struct {
	q Querier
}

// NewAtendimentoSaudeRepository constrói o adaptador de atendimentos.
func NewAtendimentoSaudeRepository(q Querier) *AtendimentoSaudeRepo {
	return &AtendimentoSaudeRepo{q: q}
}

const atendimentoCols = `id::text, municipio_id::text, secretaria_id::text, unidade_id::text, profissional_id::text,
	COALESCE(agendamento_id::text, ''), COALESCE(aluno_id::text, ''), paciente_nome, paciente_cpf, data, tipo,
	observacoes, cid, COALESCE(criado_por::text, ''), created_at`

func scanAtendimento(row interface{ Scan(...any) error }) (*entity.AtendimentoSaude, error) {
	var a entity.AtendimentoSaude
	err := row.Scan(&a.ID, &a.MunicipioID, &a.SecretariaID, &a.UnidadeID, &a.ProfissionalID, &a.AgendamentoID,
		&a.AlunoID, &a.PacienteNome, &a.PacienteCPF, &a.Data, &a.Tipo, &a.Observacoes, &a.CID, &a.CriadoPor, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AtendimentoSaudeRepo) Create(ctx context.Context, a *entity.AtendimentoSaude) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO saude_atendimentos (id, municipio_id, secretaria_id, unidade_id, profissional_id, agendamento_id,
			aluno_id, paciente_nome, paciente_cpf, data, tipo, observacoes, cid, criado_por, created_at)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, '')::uuid, NULLIF($7, '')::uuid, $8, $9, $10, $11, $12, $13,
			NULLIF($14, '')::uuid, $15)`,
		a.ID, a.MunicipioID, a.SecretariaID, a.UnidadeID, a.ProfissionalID, a.AgendamentoID, a.AlunoID,
		a.PacienteNome, a.PacienteCPF, a.Data, a.Tipo, a.Observacoes, a.CID, a.CriadoPor, a.CreatedAt)
	if err != nil {
		return mapWriteErr("insert atendimento", err)
	}
	return nil
}

func (r *AtendimentoSaudeRepo) GetByID(ctx context.Context, id string) (*entity.AtendimentoSaude, error) {
	a, err := scanAtendimento(r.q.QueryRow(ctx, `SELECT `+atendimentoCols+` FROM saude_atendimentos WHERE id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get atendimento: %w", err)
	}
	return a, nil
}

func (r *AtendimentoSaudeRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.AtendimentoSaude, int, error) {
	w := &where{}
	w.scope(f.Scope, saudeScopeCols)
	if f.ParentID != "" {
		w.and("unidade_id::text = " + w.arg(f.ParentID))
	}
	w.eq("tipo", f.Tipo)
	w.ilike(f.Q, "paciente_nome", "cid")

	total, err := count(ctx, r.q, "saude_atendimentos", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count atendimentos: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+atendimentoCols+` FROM saude_atendimentos`+w.sql()+` ORDER BY data DESC`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list atendimentos: %w", err)
	}
	defer rows.Close()

	var out []*entity.AtendimentoSaude
	for rows.Next() {
		a, err := scanAtendimento(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan atendimento: %w", err)
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}
