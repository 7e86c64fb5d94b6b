package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_PreservaEscopo(t *testing.T) {
	tok, err := Generate("segredo", "gepub", 5, Subject{
		UserID:             "u1",
		Role:               "SECRETARIA",
		MunicipioID:        "m1",
		SecretariaID:       "s1",
		MustChangePassword: true,
	})
	require.NoError(t, err)

	c, err := Parse("segredo", tok)
	require.NoError(t, err)
	assert.Equal(t, "u1", c.UserID)
	assert.Equal(t, "u1", c.Subject)
	assert.Equal(t, "SECRETARIA", c.Role)
	assert.Equal(t, "m1", c.MunicipioID)
	assert.Equal(t, "s1", c.SecretariaID)
	assert.Empty(t, c.UnidadeID)
	assert.True(t, c.MustChangePassword)
}

func TestParse_SegredoErrado(t *testing.T) {
	tok, err := Generate("a", "gepub", 5, Subject{UserID: "u1"})
	require.NoError(t, err)

	_, err = Parse("b", tok)
	assert.Error(t, err)
}

func TestParse_Expirado(t *testing.T) {
	tok, err := Generate("a", "gepub", -1, Subject{UserID: "u1"})
	require.NoError(t, err)

	_, err = Parse("a", tok)
	assert.Error(t, err)
}

func TestGenerate_SemSegredo(t *testing.T) {
	_, err := Generate("", "gepub", 5, Subject{UserID: "u1"})
	assert.Error(t, err)
}
