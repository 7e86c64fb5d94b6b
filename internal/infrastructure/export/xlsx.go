package export

import (
	"bytes"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/gepub/gepub-api/internal/application/dto"
)

// Nome de aba no Excel: até 31 caracteres, sem : \ / ? * [ ].
const maxSheetName = 31

var sheetReplacer = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

// XLSX gera a planilha com cabeçalho em negrito e painel congelado.
func XLSX(t dto.Tabela) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(t.Titulo)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"00467F"}},
	})
	if err != nil {
		return nil, err
	}

	linha := 1
	if len(t.Cabecalho) > 0 {
		if err := writeRow(f, sheet, linha, t.Cabecalho); err != nil {
			return nil, err
		}
		last, _ := excelize.CoordinatesToCellName(len(t.Cabecalho), 1)
		if err := f.SetCellStyle(sheet, "A1", last, bold); err != nil {
			return nil, err
		}
		if err := f.SetPanes(sheet, &excelize.Panes{
			Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft",
		}); err != nil {
			return nil, err
		}
		linha++
	}
	for _, l := range t.Linhas {
		if err := writeRow(f, sheet, linha, l); err != nil {
			return nil, err
		}
		linha++
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeRow(f *excelize.File, sheet string, linha int, valores []string) error {
	cell, err := excelize.CoordinatesToCellName(1, linha)
	if err != nil {
		return err
	}
	row := make([]any, len(valores))
	for i, v := range valores {
		row[i] = v
	}
	return f.SetSheetRow(sheet, cell, &row)
}

func sheetName(titulo string) string {
	s := strings.TrimSpace(sheetReplacer.Replace(titulo))
	if s == "" {
		return "Relatorio"
	}
	r := []rune(s)
	if len(r) > maxSheetName {
		r = r[:maxSheetName]
	}
	return string(r)
}
