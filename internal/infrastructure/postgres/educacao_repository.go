package postgres

import (
	"context"
	"fmt"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

var (
	_ repository.TurmaRepository            = (*TurmaRepo)(nil)
	_ repository.AlunoRepository            = (*AlunoRepo)(nil)
	_ repository.MatriculaRepository        = (*MatriculaRepo)(nil)
	_ repository.TipoNecessidadeRepository  = (*TipoNecessidadeRepo)(nil)
	_ repository.AlunoNecessidadeRepository = (*AlunoNecessidadeRepo)(nil)
	_ repository.ApoioRepository            = (*ApoioRepo)(nil)
)

// alunoScope filtra alunos pelo município e, abaixo dele, por matrícula ativa na secretaria/unidade.
func alunoScope(w *where, s rbac.Scope, alias string) {
	if s.All {
		return
	}
	if s.None {
		w.and("FALSE")
		return
	}
	if s.MunicipioID != "" {
		w.and(alias + ".municipio_id::text = " + w.arg(s.MunicipioID))
	}
	if s.SecretariaID == "" && s.UnidadeID == "" {
		return
	}
	cond := `EXISTS (SELECT 1 FROM matriculas sm
		JOIN turmas stt ON stt.id = sm.turma_id
		JOIN unidades su ON su.id = stt.unidade_id
		WHERE sm.aluno_id = ` + alias + `.id AND sm.situacao = 'ATIVA'`
	if s.SecretariaID != "" {
		cond += " AND su.secretaria_id::text = " + w.arg(s.SecretariaID)
	}
	if s.UnidadeID != "" {
		cond += " AND stt.unidade_id::text = " + w.arg(s.UnidadeID)
	}
	w.and(cond + ")")
}

// ──────────────────────────────────────────────────────────────────────────────
// Turmas
// ──────────────────────────────────────────────────────────────────────────────

// TurmaRepo turmas.
type TurmaRepo struct {
	q Querier
}

// NewTurmaRepository constrói o adaptador de turmas.
func NewTurmaRepository(q Querier) *TurmaRepo {
	return &TurmaRepo{q: q}
}

const turmaFrom = `turmas t JOIN unidades u ON u.id = t.unidade_id JOIN secretarias s ON s.id = u.secretaria_id`

const turmaSelect = `
	SELECT t.id::text, t.unidade_id::text, u.secretaria_id::text, s.municipio_id::text, t.nome, t.ano_letivo,
		t.turno, t.ativo, t.created_at
	FROM ` + turmaFrom

func scanTurma(row interface{ Scan(...any) error }) (*entity.Turma, error) {
	var t entity.Turma
	err := row.Scan(&t.ID, &t.UnidadeID, &t.SecretariaID, &t.MunicipioID, &t.Nome, &t.AnoLetivo, &t.Turno, &t.Ativo, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *TurmaRepo) Create(ctx context.Context, t *entity.Turma) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO turmas (id, unidade_id, nome, ano_letivo, turno, ativo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, t.ID, t.UnidadeID, t.Nome, t.AnoLetivo, t.Turno, t.Ativo, t.CreatedAt)
	if err != nil {
		return mapWriteErr("insert turma", err)
	}
	return nil
}

func (r *TurmaRepo) GetByID(ctx context.Context, id string) (*entity.Turma, error) {
	t, err := scanTurma(r.q.QueryRow(ctx, turmaSelect+` WHERE t.id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get turma: %w", err)
	}
	return t, nil
}

func (r *TurmaRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Turma, int, error) {
	w := &where{}
	w.scope(f.Scope, scopeCols{Municipio: "s.municipio_id", Secretaria: "u.secretaria_id", Unidade: "t.unidade_id"})
	if f.ParentID != "" {
		w.and("t.unidade_id::text = " + w.arg(f.ParentID))
	}
	w.eq("t.turno", f.Tipo)
	w.ilike(f.Q, "t.nome")
	w.boolean("t.ativo", f.Ativo)

	total, err := count(ctx, r.q, turmaFrom, w)
	if err != nil {
		return nil, 0, fmt.Errorf("count turmas: %w", err)
	}
	rows, err := r.q.Query(ctx, turmaSelect+w.sql()+` ORDER BY t.ano_letivo DESC, t.nome`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list turmas: %w", err)
	}
	defer rows.Close()

	var out []*entity.Turma
	for rows.Next() {
		t, err := scanTurma(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan turma: %w", err)
		}
		out = append(out, t)
	}
	return out, total, rows.Err()
}

// ──────────────────────────────────────────────────────────────────────────────
// Alunos
// ──────────────────────────────────────────────────────────────────────────────

// AlunoRepo alunos.
type AlunoRepo struct {
	q Querier
}

// NewAlunoRepository constrói o adaptador de alunos.
func NewAlunoRepository(q Querier) *AlunoRepo {
	return &AlunoRepo{q: q}
}

const alunoCols = `a.id::text, a.municipio_id::text, a.nome, a.data_nascimento, a.cpf, a.nis, a.nome_mae, a.nome_pai,
	a.telefone, a.email, a.endereco, a.ativo, a.created_at, a.updated_at`

func scanAluno(row interface{ Scan(...any) error }) (*entity.Aluno, error) {
	var a entity.Aluno
	err := row.Scan(&a.ID, &a.MunicipioID, &a.Nome, &a.DataNascimento, &a.CPF, &a.NIS, &a.NomeMae, &a.NomePai,
		&a.Telefone, &a.Email, &a.Endereco, &a.Ativo, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AlunoRepo) Create(ctx context.Context, a *entity.Aluno) error {
	query := `
		INSERT INTO alunos (id, municipio_id, nome, data_nascimento, cpf, nis, nome_mae, nome_pai, telefone,
			email, endereco, ativo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query, a.ID, a.MunicipioID, a.Nome, a.DataNascimento, a.CPF, a.NIS, a.NomeMae,
		a.NomePai, a.Telefone, a.Email, a.Endereco, a.Ativo, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert aluno", err)
	}
	return nil
}

func (r *AlunoRepo) GetByID(ctx context.Context, id string) (*entity.Aluno, error) {
	a, err := scanAluno(r.q.QueryRow(ctx, `SELECT `+alunoCols+` FROM alunos a WHERE a.id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get aluno: %w", err)
	}
	return a, nil
}

func (r *AlunoRepo) Update(ctx context.Context, a *entity.Aluno) error {
	query := `
		UPDATE alunos SET nome = $2, data_nascimento = $3, cpf = $4, nis = $5, nome_mae = $6, nome_pai = $7,
			telefone = $8, email = $9, endereco = $10, ativo = $11, updated_at = $12
		WHERE id::text = $1`
	_, err := r.q.Exec(ctx, query, a.ID, a.Nome, a.DataNascimento, a.CPF, a.NIS, a.NomeMae, a.NomePai,
		a.Telefone, a.Email, a.Endereco, a.Ativo, a.UpdatedAt)
	if err != nil {
		return mapWriteErr("update aluno", err)
	}
	return nil
}

// List com Tipo = "nee" restringe a alunos com necessidade ativa.
func (r *AlunoRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Aluno, int, error) {
	w := &where{}
	alunoScope(w, f.Scope, "a")
	w.ilike(f.Q, "a.nome", "a.cpf", "a.nis")
	w.boolean("a.ativo", f.Ativo)
	if f.Tipo == "nee" {
		w.and("EXISTS (SELECT 1 FROM aluno_necessidades an WHERE an.aluno_id = a.id AND an.ativo)")
	}

	total, err := count(ctx, r.q, "alunos a", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count alunos: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+alunoCols+` FROM alunos a`+w.sql()+` ORDER BY a.nome`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list alunos: %w", err)
	}
	defer rows.Close()

	var out []*entity.Aluno
	for rows.Next() {
		a, err := scanAluno(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan aluno: %w", err)
		}
		out = append(out, a)
	}
	return out, total, rows.Err()
}

// ──────────────────────────────────────────────────────────────────────────────
// Matrículas
// ──────────────────────────────────────────────────────────────────────────────

// MatriculaRepo matrículas.
type MatriculaRepo struct {
	q Querier
}

// NewMatriculaRepository constrói o adaptador de matrículas.
func NewMatriculaRepository(q Querier) *MatriculaRepo {
	return &MatriculaRepo{q: q}
}

const matriculaSelect = `
	SELECT mt.id::text, mt.aluno_id::text, mt.turma_id::text, t.nome, t.unidade_id::text, mt.data_matricula,
		mt.situacao, mt.observacao, mt.created_at
	FROM matriculas mt JOIN turmas t ON t.id = mt.turma_id`

func scanMatricula(row interface{ Scan(...any) error }) (*entity.Matricula, error) {
	var m entity.Matricula
	err := row.Scan(&m.ID, &m.AlunoID, &m.TurmaID, &m.TurmaNome, &m.UnidadeID, &m.DataMatricula, &m.Situacao,
		&m.Observacao, &m.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MatriculaRepo) Create(ctx context.Context, m *entity.Matricula) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO matriculas (id, aluno_id, turma_id, data_matricula, situacao, observacao, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.AlunoID, m.TurmaID, m.DataMatricula, m.Situacao, m.Observacao, m.CreatedAt)
	if err != nil {
		return mapWriteErr("insert matricula", err)
	}
	return nil
}

func (r *MatriculaRepo) GetByID(ctx context.Context, id string) (*entity.Matricula, error) {
	m, err := scanMatricula(r.q.QueryRow(ctx, matriculaSelect+` WHERE mt.id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get matricula: %w", err)
	}
	return m, nil
}

func (r *MatriculaRepo) UpdateSituacao(ctx context.Context, id, situacao string) error {
	if _, err := r.q.Exec(ctx, `UPDATE matriculas SET situacao = $2 WHERE id::text = $1`, id, situacao); err != nil {
		return fmt.Errorf("update matricula: %w", err)
	}
	return nil
}

func (r *MatriculaRepo) ListByAluno(ctx context.Context, alunoID string) ([]*entity.Matricula, error) {
	rows, err := r.q.Query(ctx, matriculaSelect+` WHERE mt.aluno_id::text = $1 ORDER BY t.ano_letivo DESC, mt.created_at DESC`, alunoID)
	if err != nil {
		return nil, fmt.Errorf("list matriculas: %w", err)
	}
	defer rows.Close()

	var out []*entity.Matricula
	for rows.Next() {
		m, err := scanMatricula(rows)
		if err != nil {
			return nil, fmt.Errorf("scan matricula: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

// ──────────────────────────────────────────────────────────────────────────────
// NEE
// ──────────────────────────────────────────────────────────────────────────────

// TipoNecessidadeRepo catálogo global de necessidades.
type TipoNecessidadeRepo struct {
	q Querier
}

// NewTipoNecessidadeRepository constrói o adaptador do catálogo.
func NewTipoNecessidadeRepository(q Querier) *TipoNecessidadeRepo {
	return &TipoNecessidadeRepo{q: q}
}

func (r *TipoNecessidadeRepo) Create(ctx context.Context, t *entity.TipoNecessidade) error {
	_, err := r.q.Exec(ctx, `INSERT INTO tipos_necessidade (id, nome, ativo, created_at) VALUES ($1, $2, $3, $4)`,
		t.ID, t.Nome, t.Ativo, t.CreatedAt)
	if err != nil {
		return mapWriteErr("insert tipo necessidade", err)
	}
	return nil
}

func (r *TipoNecessidadeRepo) GetByID(ctx context.Context, id string) (*entity.TipoNecessidade, error) {
	var t entity.TipoNecessidade
	err := r.q.QueryRow(ctx, `SELECT id::text, nome, ativo, created_at FROM tipos_necessidade WHERE id::text = $1`, id).
		Scan(&t.ID, &t.Nome, &t.Ativo, &t.CreatedAt)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get tipo necessidade: %w", err)
	}
	return &t, nil
}

func (r *TipoNecessidadeRepo) Update(ctx context.Context, t *entity.TipoNecessidade) error {
	if _, err := r.q.Exec(ctx, `UPDATE tipos_necessidade SET nome = $2, ativo = $3 WHERE id::text = $1`, t.ID, t.Nome, t.Ativo); err != nil {
		return mapWriteErr("update tipo necessidade", err)
	}
	return nil
}

func (r *TipoNecessidadeRepo) List(ctx context.Context, onlyActive bool) ([]*entity.TipoNecessidade, error) {
	query := `SELECT id::text, nome, ativo, created_at FROM tipos_necessidade`
	if onlyActive {
		query += ` WHERE ativo`
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY nome`)
	if err != nil {
		return nil, fmt.Errorf("list tipos necessidade: %w", err)
	}
	defer rows.Close()

	var out []*entity.TipoNecessidade
	for rows.Next() {
		var t entity.TipoNecessidade
		if err := rows.Scan(&t.ID, &t.Nome, &t.Ativo, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan tipo necessidade: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

// AlunoNecessidadeRepo necessidades por aluno.
type AlunoNecessidadeRepo struct {
	q Querier
}

// NewAlunoNecessidadeRepository constrói o adaptador de necessidades do aluno.
func NewAlunoNecessidadeRepository(q Querier) *AlunoNecessidadeRepo {
	return &AlunoNecessidadeRepo{q: q}
}

const necessidadeSelect = `
	SELECT an.id::text, an.aluno_id::text, an.tipo_id::text, tn.nome, an.cid, an.observacao, an.ativo, an.created_at
	FROM aluno_necessidades an JOIN tipos_necessidade tn ON tn.id = an.tipo_id`

func scanNecessidade(row interface{ Scan(...any) error }) (*entity.AlunoNecessidade, error) {
	var n entity.AlunoNecessidade
	if err := row.Scan(&n.ID, &n.AlunoID, &n.TipoID, &n.TipoNome, &n.CID, &n.Observacao, &n.Ativo, &n.CreatedAt); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *AlunoNecessidadeRepo) Create(ctx context.Context, n *entity.AlunoNecessidade) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO aluno_necessidades (id, aluno_id, tipo_id, cid, observacao, ativo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, n.ID, n.AlunoID, n.TipoID, n.CID, n.Observacao, n.Ativo, n.CreatedAt)
	if err != nil {
		return mapWriteErr("insert aluno necessidade", err)
	}
	return nil
}

func (r *AlunoNecessidadeRepo) GetByID(ctx context.Context, id string) (*entity.AlunoNecessidade, error) {
	n, err := scanNecessidade(r.q.QueryRow(ctx, necessidadeSelect+` WHERE an.id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get aluno necessidade: %w", err)
	}
	return n, nil
}

func (r *AlunoNecessidadeRepo) Update(ctx context.Context, n *entity.AlunoNecessidade) error {
	_, err := r.q.Exec(ctx, `UPDATE aluno_necessidades SET tipo_id = $2, cid = $3, observacao = $4, ativo = $5 WHERE id::text = $1`,
		n.ID, n.TipoID, n.CID, n.Observacao, n.Ativo)
	if err != nil {
		return mapWriteErr("update aluno necessidade", err)
	}
	return nil
}

func (r *AlunoNecessidadeRepo) ListByAluno(ctx context.Context, alunoID string) ([]*entity.AlunoNecessidade, error) {
	rows, err := r.q.Query(ctx, necessidadeSelect+` WHERE an.aluno_id::text = $1 ORDER BY tn.nome`, alunoID)
	if err != nil {
		return nil, fmt.Errorf("list aluno necessidades: %w", err)
	}
	defer rows.Close()

	var out []*entity.AlunoNecessidade
	for rows.Next() {
		n, err := scanNecessidade(rows)
		if err != nil {
			return nil, fmt.Errorf("scan aluno necessidade: %w", err)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// ContarPorTipo alunos ativos distintos por tipo de necessidade ativa, dentro do escopo.
func (r *AlunoNecessidadeRepo) ContarPorTipo(ctx context.Context, scope rbac.Scope) ([]entity.NecessidadeContagem, error) {
	w := &where{}
	w.and("an.ativo")
	w.and("a.ativo")
	alunoScope(w, scope, "a")
	query := `
		SELECT tn.id::text, tn.nome, COUNT(DISTINCT a.id)
		FROM aluno_necessidades an
		JOIN tipos_necessidade tn ON tn.id = an.tipo_id
		JOIN alunos a ON a.id = an.aluno_id` + w.sql() + `
		GROUP BY tn.id, tn.nome
		ORDER BY COUNT(DISTINCT a.id) DESC, tn.nome`
	rows, err := r.q.Query(ctx, query, w.args...)
	if err != nil {
		return nil, fmt.Errorf("contar necessidades: %w", err)
	}
	defer rows.Close()

	var out []entity.NecessidadeContagem
	for rows.Next() {
		var c entity.NecessidadeContagem
		if err := rows.Scan(&c.TipoID, &c.TipoNome, &c.Alunos); err != nil {
			return nil, fmt.Errorf("scan contagem: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// ApoioRepo apoios por matrícula.
type ApoioRepo struct {
	q Querier
}

// NewApoioRepository constrói o adaptador de apoios.
func NewApoioRepository(q Querier) *ApoioRepo {
	return &ApoioRepo{q: q}
}

const apoioCols = `ap.id::text, ap.matricula_id::text, ap.tipo, ap.descricao, ap.carga_horaria_semanal, ap.ativo, ap.created_at`

func scanApoio(row interface{ Scan(...any) error }) (*entity.ApoioMatricula, error) {
	var a entity.ApoioMatricula
	if err := row.Scan(&a.ID, &a.MatriculaID, &a.Tipo, &a.Descricao, &a.CargaHorariaSemanal, &a.Ativo, &a.CreatedAt); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ApoioRepo) Create(ctx context.Context, a *entity.ApoioMatricula) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO apoios_matricula (id, matricula_id, tipo, descricao, carga_horaria_semanal, ativo, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		a.ID, a.MatriculaID, a.Tipo, a.Descricao, a.CargaHorariaSemanal, a.Ativo, a.CreatedAt)
	if err != nil {
		return mapWriteErr("insert apoio", err)
	}
	return nil
}

func (r *ApoioRepo) GetByID(ctx context.Context, id string) (*entity.ApoioMatricula, error) {
	a, err := scanApoio(r.q.QueryRow(ctx, `SELECT `+apoioCols+` FROM apoios_matricula ap WHERE ap.id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get apoio: %w", err)
	}
	return a, nil
}

func (r *ApoioRepo) Update(ctx context.Context, a *entity.ApoioMatricula) error {
	_, err := r.q.Exec(ctx, `
		UPDATE apoios_matricula SET tipo = $2, descricao = $3, carga_horaria_semanal = $4, ativo = $5
		WHERE id::text = $1`, a.ID, a.Tipo, a.Descricao, a.CargaHorariaSemanal, a.Ativo)
	if err != nil {
		return mapWriteErr("update apoio", err)
	}
	return nil
}

func (r *ApoioRepo) ListByAluno(ctx context.Context, alunoID string, onlyActive bool) ([]*entity.ApoioMatricula, error) {
	query := `SELECT ` + apoioCols + `
		FROM apoios_matricula ap JOIN matriculas mt ON mt.id = ap.matricula_id
		WHERE mt.aluno_id::text = $1`
	if onlyActive {
		query += ` AND mt.situacao = 'ATIVA'`
	}
	rows, err := r.q.Query(ctx, query+` ORDER BY ap.created_at DESC`, alunoID)
	if err != nil {
		return nil, fmt.Errorf("list apoios: %w", err)
	}
	defer rows.Close()

	var out []*entity.ApoioMatricula
	for rows.Next() {
		a, err := scanApoio(rows)
		if err != nil {
			return nil, fmt.Errorf("scan apoio: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
