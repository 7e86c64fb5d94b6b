// Package pdf gera os documentos PDF do GEPUB com Maroto v2.
//
// Layout de página A4 comum aos documentos:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Município / título   │  Competência ou data        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELA: cabeçalho azul + linhas                            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RODAPÉ: emitido por / data / hash de conferência + QR      │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/orientation"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"
)

// ── Paleta ────────────────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 236, Green: 241, Blue: 247}
)

const autor = "GEPUB"

// Generator implementa ports.HoleriteGenerator e o relatório tabular das exportações.
type Generator struct{}

// NewGenerator constrói o gerador.
func NewGenerator() *Generator { return &Generator{} }

// newDocument monta o documento A4 com as margens e fonte padrão.
func newDocument(titulo string, paisagem bool, gridSize int) core.Maroto {
	b := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(titulo, true).
		WithAuthor(autor, true)
	if paisagem {
		b = b.WithOrientation(orientation.Horizontal)
	}
	if gridSize > 12 {
		b = b.WithMaxGridSize(gridSize)
	}
	return maroto.New(b.Build())
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: gerar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Seções ────────────────────────────────────────────────────────────────────

// headerRow: título à esquerda e informação de referência à direita.
func headerRow(titulo, subtitulo, direita string) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New(titulo, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(subtitulo, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New(direita, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 2,
			}),
		),
	)
}

// tableHeaderRow: cabeçalho da tabela com fundo azul.
func tableHeaderRow(labels []string, sizes []int, aligns []align.Type) core.Row {
	cols := make([]core.Col, 0, len(labels))
	for i, label := range labels {
		cols = append(cols, col.New(sizes[i]).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: aligns[i],
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRow: uma linha de dados; linhas pares recebem fundo listrado.
func tableRow(values []string, sizes []int, aligns []align.Type, listrada bool) core.Row {
	cols := make([]core.Col, 0, len(values))
	for i, v := range values {
		cols = append(cols, col.New(sizes[i]).Add(text.New(v, props.Text{
			Size: 7.5, Align: aligns[i], Top: 1, Left: 1, Right: 1,
		})))
	}
	r := row.New(6).Add(cols...)
	if listrada {
		r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
	}
	return r
}

// ── helpers ───────────────────────────────────────────────────────────────────

// columnSizes distribui o grid entre n colunas; a sobra vai para as primeiras.
func columnSizes(n int) (sizes []int, grid int) {
	grid = 12
	if n > grid {
		grid = n
	}
	sizes = make([]int, n)
	if n == 0 {
		return sizes, grid
	}
	base, extra := grid/n, grid%n
	for i := range sizes {
		sizes[i] = base
		if i < extra {
			sizes[i]++
		}
	}
	return sizes, grid
}

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// formatMoney formata no padrão brasileiro com duas casas.
// Ex: 1234567.8 → "1.234.567,80", -25 → "-25,00"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sinal := ""
	if strings.HasPrefix(s, "-") {
		sinal, s = "-", s[1:]
	}
	inteiro, frac, _ := strings.Cut(s, ".")
	n := len(inteiro)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(inteiro) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sinal + string(buf) + "," + frac
}

// splitEvery divide s em pedaços de no máximo n runas.
func splitEvery(s string, n int) []string {
	r := []rune(s)
	var parts []string
	for len(r) > n {
		parts = append(parts, string(r[:n]))
		r = r[n:]
	}
	if len(r) > 0 {
		parts = append(parts, string(r))
	}
	return parts
}
