package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

// Querier é satisfeito por *pgxpool.Pool e pgx.Tx; os repositórios funcionam dentro ou fora de transação.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

// isUniqueViolation verifica violação de constraint única (23505).
func isUniqueViolation(err error) bool {
	return pgCode(err) == "23505"
}

// isForeignKeyViolation verifica violação de FK (23503), ex.: DELETE de registro em uso.
func isForeignKeyViolation(err error) bool {
	return pgCode(err) == "23503"
}

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// mapWriteErr traduz erros de escrita para os sentinelas do domínio.
func mapWriteErr(op string, err error) error {
	switch {
	case isUniqueViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrDuplicate)
	case isForeignKeyViolation(err):
		return fmt.Errorf("%s: %w", op, domain.ErrInUse)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

// jsonOrEmpty evita NULL em colunas JSONB NOT NULL.
func jsonOrEmpty(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage(`{}`)
	}
	return raw
}

// jsonOrNull grava NULL quando não há conteúdo.
func jsonOrNull(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}

// where monta cláusulas WHERE com placeholders numerados.
type where struct {
	conds []string
	args  []any
}

// arg registra o valor e devolve o placeholder ($n).
func (w *where) arg(v any) string {
	w.args = append(w.args, v)
	return fmt.Sprintf("$%d", len(w.args))
}

func (w *where) and(cond string) {
	w.conds = append(w.conds, cond)
}

func (w *where) eq(col string, v string) {
	if v != "" {
		w.and(col + " = " + w.arg(v))
	}
}

func (w *where) ilike(v string, cols ...string) {
	v = strings.TrimSpace(v)
	if v == "" || len(cols) == 0 {
		return
	}
	p := w.arg("%" + v + "%")
	parts := make([]string, len(cols))
	for i, c := range cols {
		parts[i] = c + " ILIKE " + p
	}
	w.and("(" + strings.Join(parts, " OR ") + ")")
}

func (w *where) boolean(col string, v *bool) {
	if v != nil {
		w.and(col + " = " + w.arg(*v))
	}
}

// scopeCols colunas da tabela para cada nível da hierarquia; vazio = tabela sem o nível.
type scopeCols struct {
	Municipio  string
	Secretaria string
	Unidade    string
	Setor      string
}

// scope restringe a consulta ao escopo do usuário.
func (w *where) scope(s rbac.Scope, c scopeCols) {
	if s.All {
		return
	}
	if s.None {
		w.and("FALSE")
		return
	}
	if c.Municipio != "" && s.MunicipioID != "" {
		w.and(c.Municipio + "::text = " + w.arg(s.MunicipioID))
	}
	if c.Secretaria != "" && s.SecretariaID != "" {
		w.and(c.Secretaria + "::text = " + w.arg(s.SecretariaID))
	}
	if c.Unidade != "" && s.UnidadeID != "" {
		w.and(c.Unidade + "::text = " + w.arg(s.UnidadeID))
	}
	if c.Setor != "" && s.SetorID != "" {
		w.and(c.Setor + "::text = " + w.arg(s.SetorID))
	}
}

func (w *where) sql() string {
	if len(w.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(w.conds, " AND ")
}

// page devolve LIMIT/OFFSET normalizados.
func (w *where) page(p repository.Page) string {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	offset := p.Offset
	if offset < 0 {
		offset = 0
	}
	return fmt.Sprintf(" LIMIT %d OFFSET %d", limit, offset)
}

// count executa SELECT COUNT(*) com o mesmo WHERE.
func count(ctx context.Context, q Querier, from string, w *where) (int, error) {
	var total int
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM "+from+w.sql(), w.args...).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

// notFound converte pgx.ErrNoRows em (nil, nil), padrão dos GetByID.
func notFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
