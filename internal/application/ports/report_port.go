package ports

import (
	"time"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/domain/entity"
)

// Exporter gera o arquivo de uma listagem no formato pedido (csv, xlsx ou pdf).
type Exporter interface {
	Export(formato string, t dto.Tabela) (*dto.Arquivo, error)
}

// HoleriteGenerator gera o PDF do contracheque.
type HoleriteGenerator interface {
	Holerite(h dto.Holerite) ([]byte, error)
}

// ExecucoesXMLWriter serializa o livro de execuções e devolve o SHA-256 da forma canônica.
type ExecucoesXMLWriter interface {
	ExecucoesXML(municipio string, geradoEm time.Time, rows []*entity.IntegracaoExecucao) (body []byte, sha256Hex string, err error)
}
