// Package storage armazenamento dos arquivos do conversor em disco local ou em bucket S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gepub/gepub-api/internal/application/conversor"
	"github.com/gepub/gepub-api/internal/domain"
)

var _ conversor.Storage = (*Local)(nil)

// Local grava as chaves como caminhos relativos abaixo de root.
type Local struct {
	root string
}

// NewLocal cria o diretório raiz se preciso.
func NewLocal(root string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: raiz %q: %w", root, err)
	}
	if err := os.MkdirAll(abs, 0o750); err != nil {
		return nil, fmt.Errorf("storage: criar %s: %w", abs, err)
	}
	return &Local{root: abs}, nil
}

func (l *Local) Put(_ context.Context, key string, r io.Reader, _ int64) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o750); err != nil {
		return fmt.Errorf("storage: criar diretório: %w", err)
	}
	tmp := p + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("storage: criar %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("storage: gravar %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("storage: fechar %s: %w", key, err)
	}
	return os.Rename(tmp, p)
}

func (l *Local) Get(_ context.Context, key string) (io.ReadCloser, error) {
	p, err := l.path(key)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("storage: %s: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("storage: abrir %s: %w", key, err)
	}
	return f, nil
}

func (l *Local) Delete(_ context.Context, key string) error {
	p, err := l.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("storage: remover %s: %w", key, err)
	}
	return nil
}

// path resolve a chave sem permitir sair da raiz.
func (l *Local) path(key string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(key))
	p := filepath.Join(l.root, clean)
	if !strings.HasPrefix(p, l.root+string(filepath.Separator)) {
		return "", fmt.Errorf("storage: chave inválida %q: %w", key, domain.ErrInvalidInput)
	}
	return p, nil
}
