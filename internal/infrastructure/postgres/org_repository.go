package postgres

import (
	"context"
	"fmt"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

var (
	_ repository.MunicipioRepository  = (*MunicipioRepo)(nil)
	_ repository.SecretariaRepository = (*SecretariaRepo)(nil)
	_ repository.UnidadeRepository    = (*UnidadeRepo)(nil)
	_ repository.SetorRepository      = (*SetorRepo)(nil)
	_ repository.ModuloRepository     = (*ModuloRepo)(nil)
)

// ──────────────────────────────────────────────────────────────────────────────
// Municípios
// ──────────────────────────────────────────────────────────────────────────────

// MunicipioRepo implementação de MunicipioRepository sobre PostgreSQL.
type MunicipioRepo struct {
	q Querier
}

// NewMunicipioRepository constrói o adaptador de municípios.
func NewMunicipioRepository(q Querier) *MunicipioRepo {
	return &MunicipioRepo{q: q}
}

const municipioCols = `id::text, nome, uf, slug_site, cnpj, razao_social, nome_fantasia,
	endereco, telefone, email, site, ativo, created_at, updated_at`

func scanMunicipio(row interface{ Scan(...any) error }) (*entity.Municipio, error) {
	var m entity.Municipio
	err := row.Scan(&m.ID, &m.Nome, &m.UF, &m.SlugSite, &m.CNPJ, &m.RazaoSocial, &m.NomeFantasia,
		&m.Endereco, &m.Telefone, &m.Email, &m.Site, &m.Ativo, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MunicipioRepo) Create(ctx context.Context, m *entity.Municipio) error {
	query := `
		INSERT INTO municipios (id, nome, uf, slug_site, cnpj, razao_social, nome_fantasia,
			endereco, telefone, email, site, ativo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query, m.ID, m.Nome, m.UF, m.SlugSite, m.CNPJ, m.RazaoSocial, m.NomeFantasia,
		m.Endereco, m.Telefone, m.Email, m.Site, m.Ativo, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert municipio", err)
	}
	return nil
}

func (r *MunicipioRepo) GetByID(ctx context.Context, id string) (*entity.Municipio, error) {
	m, err := scanMunicipio(r.q.QueryRow(ctx, `SELECT `+municipioCols+` FROM municipios WHERE id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get municipio: %w", err)
	}
	return m, nil
}

func (r *MunicipioRepo) GetBySlug(ctx context.Context, slug string) (*entity.Municipio, error) {
	m, err := scanMunicipio(r.q.QueryRow(ctx, `SELECT `+municipioCols+` FROM municipios WHERE slug_site = $1`, slug))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get municipio by slug: %w", err)
	}
	return m, nil
}

// FirstActive primeiro município ativo por nome; usado como padrão para administradores.
func (r *MunicipioRepo) FirstActive(ctx context.Context) (*entity.Municipio, error) {
	m, err := scanMunicipio(r.q.QueryRow(ctx,
		`SELECT `+municipioCols+` FROM municipios WHERE ativo ORDER BY nome LIMIT 1`))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("first active municipio: %w", err)
	}
	return m, nil
}

func (r *MunicipioRepo) Update(ctx context.Context, m *entity.Municipio) error {
	query := `
		UPDATE municipios SET nome = $2, uf = $3, slug_site = $4, cnpj = $5, razao_social = $6,
			nome_fantasia = $7, endereco = $8, telefone = $9, email = $10, site = $11, ativo = $12,
			updated_at = $13
		WHERE id::text = $1`
	_, err := r.q.Exec(ctx, query, m.ID, m.Nome, m.UF, m.SlugSite, m.CNPJ, m.RazaoSocial, m.NomeFantasia,
		m.Endereco, m.Telefone, m.Email, m.Site, m.Ativo, m.UpdatedAt)
	if err != nil {
		return mapWriteErr("update municipio", err)
	}
	return nil
}

func (r *MunicipioRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM municipios WHERE id::text = $1`, id); err != nil {
		return mapWriteErr("delete municipio", err)
	}
	return nil
}

func (r *MunicipioRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Municipio, int, error) {
	w := &where{}
	w.scope(f.Scope, scopeCols{Municipio: "id"})
	w.ilike(f.Q, "nome", "slug_site", "cnpj")
	w.boolean("ativo", f.Ativo)

	total, err := count(ctx, r.q, "municipios", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count municipios: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+municipioCols+` FROM municipios`+w.sql()+` ORDER BY nome`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list municipios: %w", err)
	}
	defer rows.Close()

	var out []*entity.Municipio
	for rows.Next() {
		m, err := scanMunicipio(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan municipio: %w", err)
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r *MunicipioRepo) SlugExists(ctx context.Context, slug, exceptID string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM municipios WHERE slug_site = $1 AND id::text <> $2)`, slug, exceptID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("slug exists: %w", err)
	}
	return exists, nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Secretarias
// ──────────────────────────────────────────────────────────────────────────────

// SecretariaRepo implementação de SecretariaRepository.
type SecretariaRepo struct {
	q Querier
}

// NewSecretariaRepository constrói o adaptador de secretarias.
func NewSecretariaRepository(q Querier) *SecretariaRepo {
	return &SecretariaRepo{q: q}
}

const secretariaCols = `id::text, municipio_id::text, nome, sigla, tipo_modelo, ativo, created_at, updated_at`

func scanSecretaria(row interface{ Scan(...any) error }) (*entity.Secretaria, error) {
	var s entity.Secretaria
	if err := row.Scan(&s.ID, &s.MunicipioID, &s.Nome, &s.Sigla, &s.TipoModelo, &s.Ativo, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SecretariaRepo) Create(ctx context.Context, s *entity.Secretaria) error {
	query := `
		INSERT INTO secretarias (id, municipio_id, nome, sigla, tipo_modelo, ativo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, s.ID, s.MunicipioID, s.Nome, s.Sigla, s.TipoModelo, s.Ativo, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert secretaria", err)
	}
	return nil
}

func (r *SecretariaRepo) GetByID(ctx context.Context, id string) (*entity.Secretaria, error) {
	s, err := scanSecretaria(r.q.QueryRow(ctx, `SELECT `+secretariaCols+` FROM secretarias WHERE id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get secretaria: %w", err)
	}
	return s, nil
}

func (r *SecretariaRepo) Update(ctx context.Context, s *entity.Secretaria) error {
	query := `
		UPDATE secretarias SET nome = $2, sigla = $3, tipo_modelo = $4, ativo = $5, updated_at = $6
		WHERE id::text = $1`
	if _, err := r.q.Exec(ctx, query, s.ID, s.Nome, s.Sigla, s.TipoModelo, s.Ativo, s.UpdatedAt); err != nil {
		return mapWriteErr("update secretaria", err)
	}
	return nil
}

func (r *SecretariaRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM secretarias WHERE id::text = $1`, id); err != nil {
		return mapWriteErr("delete secretaria", err)
	}
	return nil
}

func (r *SecretariaRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Secretaria, int, error) {
	w := &where{}
	w.scope(f.Scope, scopeCols{Municipio: "municipio_id", Secretaria: "id"})
	if f.ParentID != "" {
		w.and("municipio_id::text = " + w.arg(f.ParentID))
	}
	w.ilike(f.Q, "nome", "sigla")
	w.boolean("ativo", f.Ativo)

	total, err := count(ctx, r.q, "secretarias", w)
	if err != nil {
		return nil, 0, fmt.Errorf("count secretarias: %w", err)
	}
	rows, err := r.q.Query(ctx, `SELECT `+secretariaCols+` FROM secretarias`+w.sql()+` ORDER BY nome`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list secretarias: %w", err)
	}
	defer rows.Close()

	var out []*entity.Secretaria
	for rows.Next() {
		s, err := scanSecretaria(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan secretaria: %w", err)
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// ──────────────────────────────────────────────────────────────────────────────
// Unidades
// ──────────────────────────────────────────────────────────────────────────────

// UnidadeRepo implementação de UnidadeRepository.
type UnidadeRepo struct {
	q Querier
}

// NewUnidadeRepository constrói o adaptador de unidades.
func NewUnidadeRepository(q Querier) *UnidadeRepo {
	return &UnidadeRepo{q: q}
}

const unidadeSelect = `
	SELECT u.id::text, u.secretaria_id::text, s.municipio_id::text, u.nome, u.tipo, u.codigo_inep,
		u.cnpj, u.telefone, u.email, u.endereco, u.ativo, u.created_at, u.updated_at
	FROM unidades u JOIN secretarias s ON s.id = u.secretaria_id`

func scanUnidade(row interface{ Scan(...any) error }) (*entity.Unidade, error) {
	var u entity.Unidade
	err := row.Scan(&u.ID, &u.SecretariaID, &u.MunicipioID, &u.Nome, &u.Tipo, &u.CodigoINEP,
		&u.CNPJ, &u.Telefone, &u.Email, &u.Endereco, &u.Ativo, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UnidadeRepo) Create(ctx context.Context, u *entity.Unidade) error {
	query := `
		INSERT INTO unidades (id, secretaria_id, nome, tipo, codigo_inep, cnpj, telefone, email, endereco,
			ativo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(ctx, query, u.ID, u.SecretariaID, u.Nome, u.Tipo, u.CodigoINEP, u.CNPJ, u.Telefone,
		u.Email, u.Endereco, u.Ativo, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return mapWriteErr("insert unidade", err)
	}
	return nil
}

func (r *UnidadeRepo) GetByID(ctx context.Context, id string) (*entity.Unidade, error) {
	u, err := scanUnidade(r.q.QueryRow(ctx, unidadeSelect+` WHERE u.id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get unidade: %w", err)
	}
	return u, nil
}

func (r *UnidadeRepo) Update(ctx context.Context, u *entity.Unidade) error {
	query := `
		UPDATE unidades SET nome = $2, tipo = $3, codigo_inep = $4, cnpj = $5, telefone = $6, email = $7,
			endereco = $8, ativo = $9, updated_at = $10
		WHERE id::text = $1`
	_, err := r.q.Exec(ctx, query, u.ID, u.Nome, u.Tipo, u.CodigoINEP, u.CNPJ, u.Telefone, u.Email,
		u.Endereco, u.Ativo, u.UpdatedAt)
	if err != nil {
		return mapWriteErr("update unidade", err)
	}
	return nil
}

func (r *UnidadeRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM unidades WHERE id::text = $1`, id); err != nil {
		return mapWriteErr("delete unidade", err)
	}
	return nil
}

func (r *UnidadeRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Unidade, int, error) {
	w := &where{}
	w.scope(f.Scope, scopeCols{Municipio: "s.municipio_id", Secretaria: "u.secretaria_id", Unidade: "u.id"})
	if f.ParentID != "" {
		w.and("u.secretaria_id::text = " + w.arg(f.ParentID))
	}
	w.eq("u.tipo", f.Tipo)
	w.ilike(f.Q, "u.nome", "u.codigo_inep")
	w.boolean("u.ativo", f.Ativo)

	from := "unidades u JOIN secretarias s ON s.id = u.secretaria_id"
	total, err := count(ctx, r.q, from, w)
	if err != nil {
		return nil, 0, fmt.Errorf("count unidades: %w", err)
	}
	rows, err := r.q.Query(ctx, unidadeSelect+w.sql()+` ORDER BY u.nome`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list unidades: %w", err)
	}
	defer rows.Close()

	var out []*entity.Unidade
	for rows.Next() {
		u, err := scanUnidade(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan unidade: %w", err)
		}
		out = append(out, u)
	}
	return out, total, rows.Err()
}

// ──────────────────────────────────────────────────────────────────────────────
// Setores
// ──────────────────────────────────────────────────────────────────────────────

// SetorRepo implementação de SetorRepository.
type SetorRepo struct {
	q Querier
}

// NewSetorRepository constrói o adaptador de setores.
func NewSetorRepository(q Querier) *SetorRepo {
	return &SetorRepo{q: q}
}

const setorFrom = `setores st
	JOIN unidades u ON u.id = st.unidade_id
	JOIN secretarias s ON s.id = u.secretaria_id`

const setorSelect = `
	SELECT st.id::text, st.unidade_id::text, u.secretaria_id::text, s.municipio_id::text, st.nome, st.ativo,
		st.created_at, st.updated_at
	FROM ` + setorFrom

func scanSetor(row interface{ Scan(...any) error }) (*entity.Setor, error) {
	var s entity.Setor
	if err := row.Scan(&s.ID, &s.UnidadeID, &s.SecretariaID, &s.MunicipioID, &s.Nome, &s.Ativo, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SetorRepo) Create(ctx context.Context, s *entity.Setor) error {
	query := `
		INSERT INTO setores (id, unidade_id, nome, ativo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, s.ID, s.UnidadeID, s.Nome, s.Ativo, s.CreatedAt, s.UpdatedAt); err != nil {
		return mapWriteErr("insert setor", err)
	}
	return nil
}

func (r *SetorRepo) GetByID(ctx context.Context, id string) (*entity.Setor, error) {
	s, err := scanSetor(r.q.QueryRow(ctx, setorSelect+` WHERE st.id::text = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get setor: %w", err)
	}
	return s, nil
}

func (r *SetorRepo) Update(ctx context.Context, s *entity.Setor) error {
	_, err := r.q.Exec(ctx, `UPDATE setores SET nome = $2, ativo = $3, updated_at = $4 WHERE id::text = $1`,
		s.ID, s.Nome, s.Ativo, s.UpdatedAt)
	if err != nil {
		return mapWriteErr("update setor", err)
	}
	return nil
}

func (r *SetorRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM setores WHERE id::text = $1`, id); err != nil {
		return mapWriteErr("delete setor", err)
	}
	return nil
}

func (r *SetorRepo) List(ctx context.Context, f repository.ListFilter) ([]*entity.Setor, int, error) {
	w := &where{}
	w.scope(f.Scope, scopeCols{
		Municipio: "s.municipio_id", Secretaria: "u.secretaria_id", Unidade: "st.unidade_id", Setor: "st.id",
	})
	if f.ParentID != "" {
		w.and("st.unidade_id::text = " + w.arg(f.ParentID))
	}
	w.ilike(f.Q, "st.nome")
	w.boolean("st.ativo", f.Ativo)

	total, err := count(ctx, r.q, setorFrom, w)
	if err != nil {
		return nil, 0, fmt.Errorf("count setores: %w", err)
	}
	rows, err := r.q.Query(ctx, setorSelect+w.sql()+` ORDER BY st.nome`+w.page(f.Page), w.args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list setores: %w", err)
	}
	defer rows.Close()

	var out []*entity.Setor
	for rows.Next() {
		s, err := scanSetor(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan setor: %w", err)
		}
		out = append(out, s)
	}
	return out, total, rows.Err()
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo de módulos
// ──────────────────────────────────────────────────────────────────────────────

// ModuloRepo catálogo de módulos por município e secretaria.
type ModuloRepo struct {
	q Querier
}

// NewModuloRepository constrói o adaptador do catálogo de módulos.
func NewModuloRepository(q Querier) *ModuloRepo {
	return &ModuloRepo{q: q}
}

func (r *ModuloRepo) ListMunicipio(ctx context.Context, municipioID string) ([]entity.ModuloAtivo, error) {
	return r.list(ctx, `SELECT municipio_id::text, modulo, ativo FROM municipio_modulos WHERE municipio_id::text = $1 ORDER BY modulo`, municipioID)
}

func (r *ModuloRepo) ListSecretaria(ctx context.Context, secretariaID string) ([]entity.ModuloAtivo, error) {
	return r.list(ctx, `SELECT secretaria_id::text, modulo, ativo FROM secretaria_modulos WHERE secretaria_id::text = $1 ORDER BY modulo`, secretariaID)
}

func (r *ModuloRepo) list(ctx context.Context, query, ownerID string) ([]entity.ModuloAtivo, error) {
	rows, err := r.q.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list modulos: %w", err)
	}
	defer rows.Close()

	var out []entity.ModuloAtivo
	for rows.Next() {
		var m entity.ModuloAtivo
		if err := rows.Scan(&m.OwnerID, &m.Modulo, &m.Ativo); err != nil {
			return nil, fmt.Errorf("scan modulo: %w", err)
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *ModuloRepo) SetMunicipio(ctx context.Context, municipioID string, modulos map[string]bool) error {
	query := `
		INSERT INTO municipio_modulos (municipio_id, modulo, ativo) VALUES ($1, $2, $3)
		ON CONFLICT (municipio_id, modulo) DO UPDATE SET ativo = EXCLUDED.ativo`
	for modulo, ativo := range modulos {
		if _, err := r.q.Exec(ctx, query, municipioID, modulo, ativo); err != nil {
			return mapWriteErr("upsert municipio_modulo", err)
		}
	}
	return nil
}

func (r *ModuloRepo) SetSecretaria(ctx context.Context, secretariaID string, modulos map[string]bool) error {
	query := `
		INSERT INTO secretaria_modulos (secretaria_id, modulo, ativo) VALUES ($1, $2, $3)
		ON CONFLICT (secretaria_id, modulo) DO UPDATE SET ativo = EXCLUDED.ativo`
	for modulo, ativo := range modulos {
		if _, err := r.q.Exec(ctx, query, secretariaID, modulo, ativo); err != nil {
			return mapWriteErr("upsert secretaria_modulo", err)
		}
	}
	return nil
}
