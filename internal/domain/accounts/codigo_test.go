package accounts

import (
	"context"
	"errors"
	"testing"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodigoAcesso(t *testing.T) {
	assert.Equal(t, "joao.da.silva-2026", CodigoAcesso("João da Silva", 2026))
	assert.Equal(t, "usuario-2025", CodigoAcesso("  ", 2025))
}

func TestUniqueCodigoAcesso_Colisao(t *testing.T) {
	used := map[string]bool{"ana.souza-2026": true, "ana.souza-2-2026": true}
	got, err := UniqueCodigoAcesso(context.Background(), "Ana Souza", 2026, func(_ context.Context, c string) (bool, error) {
		return used[c], nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ana.souza-3-2026", got)
}

func TestUniqueCodigoAcesso_PrimeiraColisao(t *testing.T) {
	got, err := UniqueCodigoAcesso(context.Background(), "José Lima", 2026, func(_ context.Context, c string) (bool, error) {
		return c == "jose.lima-2026", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "jose.lima-2-2026", got)
}

func TestValidateNewPassword(t *testing.T) {
	assert.NoError(t, ValidateNewPassword("antiga123", "NovaSenha9", "123.456.789-01"))

	err := ValidateNewPassword("antiga123", "curta", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))

	assert.Error(t, ValidateNewPassword("antiga123", "antiga123", ""))
	assert.Error(t, ValidateNewPassword("antiga123", "12345678901", "123.456.789-01"))
}

func TestRandomPassword(t *testing.T) {
	p, err := RandomPassword(4)
	require.NoError(t, err)
	assert.Len(t, p, MinPasswordLen)
	assert.NotContains(t, p, "0")
	assert.NotContains(t, p, "l")
}
