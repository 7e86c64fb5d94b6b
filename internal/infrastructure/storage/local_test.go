package storage

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/pkg/config"
)

func TestLocal(t *testing.T) {
	ctx := context.Background()
	l, err := NewLocal(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, l.Put(ctx, "conversor/m1/job/entrada.pdf", strings.NewReader("%PDF"), 4))
	rc, err := l.Get(ctx, "conversor/m1/job/entrada.pdf")
	require.NoError(t, err)
	b, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF", string(b))

	require.NoError(t, l.Delete(ctx, "conversor/m1/job/entrada.pdf"))
	require.NoError(t, l.Delete(ctx, "conversor/m1/job/entrada.pdf"))
	_, err = l.Get(ctx, "conversor/m1/job/entrada.pdf")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestLocal_ChaveNaoSaiDaRaiz(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	l, err := NewLocal(root)
	require.NoError(t, err)

	// "../" é absorvido pela raiz
	require.NoError(t, l.Put(ctx, "../../fora.txt", strings.NewReader("x"), 1))
	rc, err := l.Get(ctx, "fora.txt")
	require.NoError(t, err)
	rc.Close()

	assert.ErrorIs(t, l.Put(ctx, "", strings.NewReader("x"), 1), domain.ErrInvalidInput)
}

func TestNew_DriverDesconhecido(t *testing.T) {
	_, err := New(context.Background(), config.StorageConfig{Driver: "ftp"})
	assert.Error(t, err)
}
