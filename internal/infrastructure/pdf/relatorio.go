package pdf

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/gepub/gepub-api/internal/application/dto"
)

// Acima deste número de colunas o relatório sai em paisagem.
const colunasRetrato = 6

const formatoDataHora = "02/01/2006 15:04"

// ReportHash código de conferência impresso no rodapé dos relatórios:
// 16 primeiros hex (maiúsculos) do SHA-256 de título|usuário|data|cabeçalho|linhas.
func ReportHash(t dto.Tabela) string {
	linhas := make([]string, len(t.Linhas))
	for i, l := range t.Linhas {
		linhas[i] = strings.Join(l, ",")
	}
	raw := strings.Join([]string{
		t.Titulo,
		t.Usuario,
		t.GeradoEm.Format(formatoDataHora),
		strings.Join(t.Cabecalho, ","),
		strings.Join(linhas, ";"),
	}, "|")
	sum := sha256.Sum256([]byte(raw))
	return strings.ToUpper(hex.EncodeToString(sum[:]))[:16]
}

// Relatorio gera o PDF tabular de uma listagem com rodapé de conferência.
func (g *Generator) Relatorio(t dto.Tabela) ([]byte, error) {
	sizes, grid := columnSizes(len(t.Cabecalho))
	m := newDocument(t.Titulo, len(t.Cabecalho) > colunasRetrato, grid)

	hash := ReportHash(t)
	emitido := t.GeradoEm.Format(formatoDataHora)
	if err := m.RegisterFooter(footerRow(t.Usuario, emitido, hash, grid)); err != nil {
		return nil, fmt.Errorf("pdf: registrar rodapé: %w", err)
	}

	m.AddRows(headerRow(t.Titulo, fmt.Sprintf("%d registro(s)", len(t.Linhas)), emitido))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	aligns := make([]align.Type, len(t.Cabecalho))
	for i := range aligns {
		aligns[i] = align.Left
	}
	if len(t.Cabecalho) > 0 {
		m.AddRows(tableHeaderRow(t.Cabecalho, sizes, aligns))
	}
	for i, l := range t.Linhas {
		m.AddRows(tableRow(normalizar(l, len(t.Cabecalho)), sizes, aligns, i%2 == 1))
	}
	if len(t.Linhas) == 0 {
		m.AddRows(row.New(10).Add(col.New(grid).Add(
			text.New("Nenhum registro encontrado.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}

	m.AddRows(line.NewRow(4))
	m.AddRows(conferenciaRow(t, emitido, hash, grid))
	return generate(m)
}

// footerRow: repetido em todas as páginas.
func footerRow(usuario, emitido, hash string, grid int) core.Row {
	return row.New(6).Add(col.New(grid).Add(
		text.New(fmt.Sprintf("Emitido por %s em %s  |  Conferência: %s",
			nonEmpty(usuario, "sistema"), emitido, hash,
		), props.Text{Size: 6.5, Color: colorGray, Align: align.Right, Top: 2}),
	))
}

// conferenciaRow: QR com os dados de conferência ao final do documento.
func conferenciaRow(t dto.Tabela, emitido, hash string, grid int) core.Row {
	qrSize := grid / 6
	if qrSize < 1 {
		qrSize = 1
	}
	qr := strings.Join([]string{autor, t.Titulo, emitido, nonEmpty(t.Usuario, "sistema"), hash}, "|")
	return row.New(28).Add(
		col.New(qrSize).Add(code.NewQr(qr, props.Rect{Percent: 95, Center: true})),
		col.New(grid-qrSize).Add(
			text.New("Código de conferência", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 4, Left: 3,
			}),
			text.New(hash, props.Text{
				Style: fontstyle.Bold, Size: 12, Top: 10, Left: 3,
			}),
			text.New("Relatório gerado pelo GEPUB em "+emitido+".", props.Text{
				Size: 7, Color: colorGray, Top: 18, Left: 3,
			}),
		),
	)
}

// normalizar ajusta a linha ao número de colunas do cabeçalho.
func normalizar(l []string, n int) []string {
	if len(l) == n {
		return l
	}
	out := make([]string, n)
	copy(out, l)
	return out
}

