package pdf

import (
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

var (
	holeriteLabels = []string{"Cód.", "Descrição", "Ref.", "Proventos", "Descontos"}
	holeriteSizes  = []int{1, 5, 2, 2, 2}
	holeriteAligns = []align.Type{align.Center, align.Left, align.Center, align.Right, align.Right}
)

// Holerite gera o contracheque de um servidor na competência.
func (g *Generator) Holerite(h dto.Holerite) ([]byte, error) {
	m := newDocument("Holerite "+h.Competencia, false, 12)

	m.AddRows(headerRow(nonEmpty(h.Municipio, autor), "Demonstrativo de pagamento", "Competência "+h.Competencia))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(servidorRow(h))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow(holeriteLabels, holeriteSizes, holeriteAligns))
	for i, l := range h.Linhas {
		provento, desconto := "", ""
		if !l.Provento.IsZero() {
			provento = formatMoney(l.Provento)
		}
		if !l.Desconto.IsZero() {
			desconto = formatMoney(l.Desconto)
		}
		ref := ""
		if !l.Quantidade.IsZero() {
			ref = l.Quantidade.String()
		}
		m.AddRows(tableRow([]string{l.Codigo, l.Descricao, ref, provento, desconto},
			holeriteSizes, holeriteAligns, i%2 == 1))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totaisRow(h))
	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("Emitido em "+h.GeradoEm.Format(formatoDataHora)+" pelo GEPUB.", props.Text{
			Size: 6.5, Color: colorGray, Top: 2,
		}),
	)))
	return generate(m)
}

// servidorRow: nome e matrícula.
func servidorRow(h dto.Holerite) core.Row {
	return row.New(14).Add(
		col.New(9).Add(
			text.New("SERVIDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(h.Servidor, "—"), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
		col.New(3).Add(
			text.New("MATRÍCULA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(h.Matricula, "—"), props.Text{
				Size: 10, Align: align.Right, Top: 6,
			}),
		),
	)
}

// totaisRow: proventos, descontos e líquido alinhados à direita.
func totaisRow(h dto.Holerite) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Total de proventos:", 1),
			label("Total de descontos:", 7),
			text.New("LÍQUIDO A RECEBER:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 14,
			}),
		),
		col.New(3).Add(
			value(formatMoney(h.Proventos), 1),
			value(formatMoney(h.Descontos), 7),
			text.New(formatMoney(h.Liquido), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 14,
			}),
		),
	)
}
