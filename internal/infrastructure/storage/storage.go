package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/gepub/gepub-api/internal/application/conversor"
	"github.com/gepub/gepub-api/pkg/config"
)

// New escolhe o driver configurado (local | s3).
func New(ctx context.Context, cfg config.StorageConfig) (conversor.Storage, error) {
	switch strings.ToLower(cfg.Driver) {
	case "", "local":
		return NewLocal(cfg.LocalDir)
	case "s3":
		s, err := NewS3(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("storage: driver desconhecido %q", cfg.Driver)
	}
}
