package export

import (
	"bytes"
	"encoding/csv"

	"github.com/gepub/gepub-api/internal/application/dto"
)

// BOM UTF-8 para o Excel reconhecer a codificação.
const bom = "\ufeff"

// CSV serializa a tabela com ";" como separador.
func CSV(t dto.Tabela) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(bom)

	w := csv.NewWriter(&buf)
	w.Comma = ';'
	if len(t.Cabecalho) > 0 {
		if err := w.Write(t.Cabecalho); err != nil {
			return nil, err
		}
	}
	if err := w.WriteAll(t.Linhas); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
