package repository

import (
	"context"

	"github.com/gepub/gepub-api/internal/domain/entity"
)

// MunicipioRepository porta de persistência de Municipio.
type MunicipioRepository interface {
	Create(ctx context.Context, m *entity.Municipio) error
	GetByID(ctx context.Context, id string) (*entity.Municipio, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Municipio, error)
	FirstActive(ctx context.Context) (*entity.Municipio, error)
	Update(ctx context.Context, m *entity.Municipio) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Municipio, int, error)
	// SlugExists ignora o registro exceptID (vazio na criação).
	SlugExists(ctx context.Context, slug, exceptID string) (bool, error)
}

// SecretariaRepository porta de persistência de Secretaria. ParentID filtra por município.
type SecretariaRepository interface {
	Create(ctx context.Context, s *entity.Secretaria) error
	GetByID(ctx context.Context, id string) (*entity.Secretaria, error)
	Update(ctx context.Context, s *entity.Secretaria) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Secretaria, int, error)
}

// UnidadeRepository porta de persistência de Unidade. ParentID filtra por secretaria.
type UnidadeRepository interface {
	Create(ctx context.Context, u *entity.Unidade) error
	GetByID(ctx context.Context, id string) (*entity.Unidade, error)
	Update(ctx context.Context, u *entity.Unidade) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Unidade, int, error)
}

// SetorRepository porta de persistência de Setor. ParentID filtra por unidade.
type SetorRepository interface {
	Create(ctx context.Context, s *entity.Setor) error
	GetByID(ctx context.Context, id string) (*entity.Setor, error)
	Update(ctx context.Context, s *entity.Setor) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f ListFilter) ([]*entity.Setor, int, error)
}

// ModuloRepository catálogo de módulos ativos por município e secretaria.
type ModuloRepository interface {
	ListMunicipio(ctx context.Context, municipioID string) ([]entity.ModuloAtivo, error)
	ListSecretaria(ctx context.Context, secretariaID string) ([]entity.ModuloAtivo, error)
	SetMunicipio(ctx context.Context, municipioID string, modulos map[string]bool) error
	SetSecretaria(ctx context.Context, secretariaID string, modulos map[string]bool) error
}
