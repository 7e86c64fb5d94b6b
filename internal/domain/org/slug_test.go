package org

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseSlug(t *testing.T) {
	assert.Equal(t, "sao-luis", BaseSlug("", "São Luís"))
	assert.Equal(t, "portal-slz", BaseSlug("Portal SLZ", "São Luís"))
	assert.Equal(t, "municipio", BaseSlug("", "***"))
}

func TestUniqueSlug_Sufixos(t *testing.T) {
	used := map[string]bool{"caxias": true, "caxias-2": true}
	slug, err := UniqueSlug(context.Background(), "caxias", func(_ context.Context, s string) (bool, error) {
		return used[s], nil
	})
	require.NoError(t, err)
	assert.Equal(t, "caxias-3", slug)
}

func TestUniqueSlug_RespeitaTamanho(t *testing.T) {
	base := strings.Repeat("a", SlugMaxLen)
	slug, err := UniqueSlug(context.Background(), base, func(_ context.Context, s string) (bool, error) {
		return s == base, nil
	})
	require.NoError(t, err)
	assert.Len(t, slug, SlugMaxLen)
	assert.True(t, strings.HasSuffix(slug, "-2"))
}

func TestUniqueSlug_PropagaErro(t *testing.T) {
	_, err := UniqueSlug(context.Background(), "x", func(context.Context, string) (bool, error) {
		return false, errors.New("db")
	})
	assert.Error(t, err)
}
