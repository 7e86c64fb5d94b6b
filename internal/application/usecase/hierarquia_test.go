package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/rbac"
)

func TestHierarquiaResolver(t *testing.T) {
	o := seedOrg()
	r := NewHierarquiaResolver(o.SecretariaRepo(), o.UnidadeRepo(), o.SetorRepo())
	ctx := context.Background()
	mun := rbac.Scope{MunicipioID: "m1"}

	t.Run("sobe do setor até a secretaria", func(t *testing.T) {
		h := &Hierarquia{MunicipioID: "m1", SetorID: "st1"}
		require.NoError(t, r.Resolve(ctx, mun, h, CamposHierarquia))
		assert.Equal(t, Hierarquia{MunicipioID: "m1", SecretariaID: "s1", UnidadeID: "u1", SetorID: "st1"}, *h)
	})

	t.Run("herda do escopo", func(t *testing.T) {
		h := &Hierarquia{MunicipioID: "m1"}
		sc := rbac.Scope{MunicipioID: "m1", SecretariaID: "s1", UnidadeID: "u1"}
		require.NoError(t, r.Resolve(ctx, sc, h, CamposHierarquia))
		assert.Equal(t, "u1", h.UnidadeID)
		assert.Equal(t, "s1", h.SecretariaID)
	})

	cases := []struct {
		name  string
		h     Hierarquia
		field string
	}{
		{"setor inexistente", Hierarquia{MunicipioID: "m1", SetorID: "stx"}, "setor_id"},
		{"setor de outra unidade", Hierarquia{MunicipioID: "m1", UnidadeID: "u3", SetorID: "st1"}, "setor_id"},
		{"unidade de outra secretaria", Hierarquia{MunicipioID: "m1", SecretariaID: "s1", UnidadeID: "u3"}, "unidade_id"},
		{"secretaria de outro municipio", Hierarquia{MunicipioID: "m1", SecretariaID: "s9"}, "secretaria_id"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			h := c.h
			assert.Equal(t, c.field, fieldErr(t, r.Resolve(ctx, mun, &h, CamposHierarquia)))
		})
	}

	t.Run("campos customizados", func(t *testing.T) {
		h := &Hierarquia{MunicipioID: "m1", UnidadeID: "ux"}
		err := r.Resolve(ctx, mun, h, HierarquiaCampos{Secretaria: "sec", Unidade: "destino_unidade_id", Setor: "st"})
		assert.Equal(t, "destino_unidade_id", fieldErr(t, err))
	})

	t.Run("fora do escopo", func(t *testing.T) {
		h := &Hierarquia{MunicipioID: "m1", SecretariaID: "s2", UnidadeID: "u3"}
		err := r.Resolve(ctx, rbac.Scope{MunicipioID: "m1", SecretariaID: "s1"}, h, CamposHierarquia)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestScopeMunicipio(t *testing.T) {
	assert.Equal(t, rbac.Scope{MunicipioID: "m2"}, ScopeMunicipio(admin, "m2"))
	assert.Equal(t, rbac.Scope{MunicipioID: "m1", SecretariaID: "s1"}, ScopeMunicipio(gestorSecretaria, "m2"))
}
