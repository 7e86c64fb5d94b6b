// Package export gera os arquivos das listagens (CSV, XLSX e PDF) e o XML
// do livro de execuções de integrações.
package export

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/domain"
)

const (
	ContentTypeCSV  = "text/csv; charset=utf-8"
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypePDF  = "application/pdf"
	ContentTypeXML  = "application/xml; charset=utf-8"
)

// ReportRenderer gera o PDF tabular (implementado por pdf.Generator).
type ReportRenderer interface {
	Relatorio(t dto.Tabela) ([]byte, error)
}

// Exporter implementa ports.Exporter.
type Exporter struct {
	pdf ReportRenderer
}

// NewExporter constrói o exportador.
func NewExporter(pdf ReportRenderer) *Exporter { return &Exporter{pdf: pdf} }

// Export gera o arquivo no formato pedido; formato vazio vale csv.
func (e *Exporter) Export(formato string, t dto.Tabela) (*dto.Arquivo, error) {
	formato = strings.ToLower(strings.TrimSpace(formato))
	if formato == "" {
		formato = dto.FormatoCSV
	}

	var (
		body        []byte
		contentType string
		err         error
	)
	switch formato {
	case dto.FormatoCSV:
		body, err = CSV(t)
		contentType = ContentTypeCSV
	case dto.FormatoXLSX:
		body, err = XLSX(t)
		contentType = ContentTypeXLSX
	case dto.FormatoPDF:
		if e.pdf == nil {
			return nil, domain.NewValidationError("format", "pdf indisponível")
		}
		body, err = e.pdf.Relatorio(t)
		contentType = ContentTypePDF
	default:
		return nil, domain.NewValidationError("format", "use csv, xlsx ou pdf")
	}
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", formato, err)
	}

	sum := sha256.Sum256(body)
	return &dto.Arquivo{
		Nome:        nonEmpty(t.Arquivo, "relatorio") + "." + formato,
		ContentType: contentType,
		Conteudo:    body,
		Hash:        hex.EncodeToString(sum[:]),
	}, nil
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}
