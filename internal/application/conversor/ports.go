package conversor

import (
	"context"
	"io"
	"time"

	"github.com/gepub/gepub-api/internal/domain/rbac"
)

// Storage armazenamento dos arquivos de entrada e saída (disco local ou S3).
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
}

// Queue fila de jobs de conversão.
type Queue interface {
	Enqueue(ctx context.Context, jobID string) error
	// Dequeue bloqueia até timeout; devolve "" quando nada chegou.
	Dequeue(ctx context.Context, timeout time.Duration) (string, error)
}

// Output arquivo produzido por uma conversão.
type Output struct {
	Nome     string
	Conteudo []byte
	Logs     string
}

// Converter executa a conversão sobre arquivos já copiados para um diretório de trabalho.
// inputs vem na ordem do job (principal primeiro).
type Converter interface {
	Convert(ctx context.Context, tipo string, inputs []string, workdir, pages string) (*Output, error)
}

// MunicipioResolver município de trabalho do usuário.
type MunicipioResolver interface {
	ResolveMunicipio(ctx context.Context, p rbac.Principal, requested string) (string, error)
}
