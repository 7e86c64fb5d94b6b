package repository

import (
	"context"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
)

// TurmaRepository turmas por unidade.
type TurmaRepository interface {
	Create(ctx context.Context, t *entity.Turma) error
	GetByID(ctx context.Context, id string) (*entity.Turma, error)
	List(ctx context.Context, f ListFilter) ([]*entity.Turma, int, error)
}

// AlunoRepository cadastro de alunos.
type AlunoRepository interface {
	Create(ctx context.Context, a *entity.Aluno) error
	GetByID(ctx context.Context, id string) (*entity.Aluno, error)
	Update(ctx context.Context, a *entity.Aluno) error
	List(ctx context.Context, f ListFilter) ([]*entity.Aluno, int, error)
}

// MatriculaRepository vínculos aluno ⇄ turma.
type MatriculaRepository interface {
	Create(ctx context.Context, m *entity.Matricula) error
	GetByID(ctx context.Context, id string) (*entity.Matricula, error)
	UpdateSituacao(ctx context.Context, id, situacao string) error
	ListByAluno(ctx context.Context, alunoID string) ([]*entity.Matricula, error)
}

// TipoNecessidadeRepository catálogo de necessidades.
type TipoNecessidadeRepository interface {
	Create(ctx context.Context, t *entity.TipoNecessidade) error
	GetByID(ctx context.Context, id string) (*entity.TipoNecessidade, error)
	Update(ctx context.Context, t *entity.TipoNecessidade) error
	List(ctx context.Context, onlyActive bool) ([]*entity.TipoNecessidade, error)
}

// AlunoNecessidadeRepository necessidades por aluno.
type AlunoNecessidadeRepository interface {
	Create(ctx context.Context, n *entity.AlunoNecessidade) error
	GetByID(ctx context.Context, id string) (*entity.AlunoNecessidade, error)
	Update(ctx context.Context, n *entity.AlunoNecessidade) error
	ListByAluno(ctx context.Context, alunoID string) ([]*entity.AlunoNecessidade, error)
	ContarPorTipo(ctx context.Context, scope rbac.Scope) ([]entity.NecessidadeContagem, error)
}

// ApoioRepository apoios por matrícula.
type ApoioRepository interface {
	Create(ctx context.Context, a *entity.ApoioMatricula) error
	GetByID(ctx context.Context, id string) (*entity.ApoioMatricula, error)
	Update(ctx context.Context, a *entity.ApoioMatricula) error
	// ListByAluno apoios de todas as matrículas do aluno; onlyActive restringe a matrículas ATIVA.
	ListByAluno(ctx context.Context, alunoID string, onlyActive bool) ([]*entity.ApoioMatricula, error)
}
