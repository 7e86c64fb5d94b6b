package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

var (
	_ repository.UsuarioRepository   = (*UsuarioRepo)(nil)
	_ repository.UserAuditRepository = (*UserAuditRepo)(nil)
)

// UsuarioRepo implementação de UsuarioRepository sobre PostgreSQL.
type UsuarioRepo struct {
	q Querier
}

// NewUsuarioRepository constrói o adaptador de usuários.
func NewUsuarioRepository(q Querier) *UsuarioRepo {
	return &UsuarioRepo{q: q}
}

const usuarioFrom = `usuarios x
	LEFT JOIN municipios m ON m.id = x.municipio_id
	LEFT JOIN secretarias s ON s.id = x.secretaria_id
	LEFT JOIN unidades u ON u.id = x.unidade_id
	LEFT JOIN setores st ON st.id = x.setor_id`

const usuarioSelect = `
	SELECT x.id::text, x.username, x.email, x.nome, x.password_hash, x.role,
		COALESCE(x.municipio_id::text, ''), COALESCE(x.secretaria_id::text, ''),
		COALESCE(x.unidade_id::text, ''), COALESCE(x.setor_id::text, ''),
		x.cpf, x.codigo_acesso, x.ativo, x.bloqueado, x.must_change_password, x.last_login_at,
		x.created_at, x.updated_at,
		COALESCE(m.nome, ''), COALESCE(s.nome, ''), COALESCE(u.nome, ''), COALESCE(st.nome, '')
	FROM ` + usuarioFrom

func scanUsuario(row interface{ Scan(...any) error }) (*entity.Usuario, error) {
	var u entity.Usuario
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Nome, &u.PasswordHash, &u.Role,
		&u.MunicipioID, &u.SecretariaID, &u.UnidadeID, &u.SetorID,
		&u.CPF, &u.CodigoAcesso, &u.Ativo, &u.Bloqueado, &u.MustChangePassword, &u.LastLoginAt,
		&u.CreatedAt, &u.UpdatedAt,
		&u.MunicipioNome, &u.SecretariaNome, &u.UnidadeNome, &u.SetorNome)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UsuarioRepo) Create(ctx context.Context, u *entity.Usuario) error {
	query := `
		INSERT INTO usuarios (id, username, email, nome, password_hash, role, municipio_id, secretaria_id,
			unidade_id, setor_id, cpf, codigo_acesso, ativo, bloqueado, must_change_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NULLIF($7, '')::uuid, NULLIF($8, '')::uuid,
			NULLIF($9, '')::uuid, NULLIF($10, '')::uuid, $11, $12, $13, $14, $15, $16, $17)`
	_, err := r.q.Exec(ctx, query, u.ID, u.Username, u.Email, u.Nome, u.PasswordHash, u.Role,
		u.MunicipioID, u.SecretariaID, u.UnidadeID, u.SetorID, u.CPF, u.CodigoAcesso,
		u.Ativo, u.Bloqueado, u.MustChangePassword, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert usuario", err)
	}
	return nil
}

func (r *UsuarioRepo) GetByID(ctx context.Context, id string) (*entity.Usuario, error) {
	u, err := scanUsuario(r.q.QueryRow(ctx, usuarioSelect+` WHERE x.id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario: %w", err)
	}
	return u, nil
}

// GetByLogin prioriza o código de acesso; o username é o fallback.
func (r *UsuarioRepo) GetByLogin(ctx context.Context, login string) (*entity.Usuario, error) {
	query := usuarioSelect + `
		WHERE lower(x.codigo_acesso) = lower($1) OR lower(x.username) = lower($1)
		ORDER BY (lower(x.codigo_acesso) = lower($1)) DESC
		LIMIT 1`
	u, err := scanUsuario(r.q.QueryRow(ctx, query, login))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get usuario by login: %w", err)
	}
	return u, nil
}

func (r *UsuarioRepo) Update(ctx context.Context, u *entity.Usuario) error {
	query := `
		UPDATE usuarios SET username = $2, email = $3, nome = $4, role = $5,
			municipio_id = NULLIF($6, '')::uuid, secretaria_id = NULLIF($7, '')::uuid,
			unidade_id = NULLIF($8, '')::uuid, setor_id = NULLIF($9, '')::uuid,
			cpf = $10, codigo_acesso = $11, ativo = $12, bloqueado = $13, must_change_password = $14,
			updated_at = $15
		WHERE id::text = $1`
	_, err := r.q.Exec(ctx, query, u.ID, u.Username, u.Email, u.Nome, u.Role,
		u.MunicipioID, u.SecretariaID, u.UnidadeID, u.SetorID,
		u.CPF, u.CodigoAcesso, u.Ativo, u.Bloqueado, u.MustChangePassword, u.UpdatedAt)
	if err != nil {
		return mapWriteErr("update usuario", err)
	}
	return nil
}

func (r *UsuarioRepo) UpdatePassword(ctx context.Context, id, hash string, mustChange bool) error {
	_, err := r.q.Exec(ctx,
		`UPDATE usuarios SET password_hash = $2, must_change_password = $3, updated_at = now() WHERE id::text = $1`,
		id, hash, mustChange)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (r *UsuarioRepo) TouchLogin(ctx context.Context, id string, at time.Time) error {
	if _, err := r.q.Exec(ctx, `UPDATE usuarios SET last_login_at = $2 WHERE id::text = $1`, id, at); err != nil {
		return fmt.Errorf("touch login: %w", err)
	}
	return nil
}

func (r *UsuarioRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Usuario, int, error) {
	w := &where{}
	w.scope(f.Scope, scopeCols{
		Municipio: "x.municipio_id", Secretaria: "x.secretaria_id", Unidade: "x.unidade_id", Setor: "x.setor_id",
	})
	w.eq("x.role", f.Tipo)
	w.ilike(f.Q, "x.nome", "x.username", "x.email", "x.codigo_acesso", "x.cpf")
	w.boolean("x.ativo", f.Ativo)
	switch f.Status {
	case "bloqueado":
		w.and("x.bloqueado")
	case "desbloqueado":
		w.and("NOT x.bloqueado")
	}

	total, err := count(ctx, r.q, usuarioFrom, w)
	if err != nil {
		return nil, 0, fmt.Errorf("count usuarios: %w", err)
	}
	rows, err := r.q.Query(ctx, usuarioSelect+w.sql()+` ORDER BY x.nome`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list usuarios: %w", err)
	}
	defer rows.Close()

	var out []*entity.Usuario
	for rows.Next() {
		u, err := scanUsuario(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan usuario: %w", err)
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

func (r *UsuarioRepo) CodigoExists(ctx context.Context, codigo, exceptID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM usuarios WHERE lower(codigo_acesso) = lower($1) AND id::text <> $2)`, codigo, exceptID)
}

func (r *UsuarioRepo) UsernameExists(ctx context.Context, username, exceptID string) (bool, error) {
	return r.exists(ctx, `SELECT EXISTS (SELECT 1 FROM usuarios WHERE lower(username) = lower($1) AND id::text <> $2)`, username, exceptID)
}

func (r *UsuarioRepo) exists(ctx context.Context, query, value, exceptID string) (bool, error) {
	var ok bool
	if err := r.q.QueryRow(ctx, query, value, exceptID).Scan(&ok); err != nil {
		return false, fmt.Errorf("usuario exists: %w", err)
	}
	return ok, nil
}

// UserAuditRepo trilha das ações de gestão de usuários.
type UserAuditRepo struct {
	q Querier
}

// NewUserAuditRepository constrói o adaptador da trilha de usuários.
func NewUserAuditRepository(q Querier) *UserAuditRepo {
	return &UserAuditRepo{q: q}
}

func (r *UserAuditRepo) Create(ctx context.Context, a *entity.UserManagementAudit) error {
	query := `
		INSERT INTO user_management_audits (id, municipio_id, actor_id, target_id, action, details, created_at)
		VALUES ($1, NULLIF($2, '')::uuid, NULLIF($3, '')::uuid, $4, $5, $6, $7)`
	_, err := r.q.Exec(ctx, query, a.ID, a.MunicipioID, a.ActorID, a.TargetID, a.Action, a.Details, a.CreatedAt)
	if err != nil {
		return mapWriteErr("insert user audit", err)
	}
	return nil
}

func (r *UserAuditRepo) ListByTarget(ctx context.Context, targetID string, limit int) ([]*entity.UserManagementAudit, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.q.Query(ctx, `
		SELECT id::text, COALESCE(municipio_id::text, ''), COALESCE(actor_id::text, ''), target_id::text,
			action, details, created_at
		FROM user_management_audits WHERE target_id::text = $1
		ORDER BY created_at DESC LIMIT $2`, targetID, limit)
	if err != nil {
		return nil, fmt.Errorf("list user audits: %w", err)
	}
	defer rows.Close()

	var out []*entity.UserManagementAudit
	for rows.Next() {
		var a entity.UserManagementAudit
		if err := rows.Scan(&a.ID, &a.MunicipioID, &a.ActorID, &a.TargetID, &a.Action, &a.Details, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan user audit: %w", err)
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
