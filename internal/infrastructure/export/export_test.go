package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/beevik/etree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
)

type pdfFake struct {
	got dto.Tabela
	err error
}

func (p *pdfFake) Relatorio(t dto.Tabela) ([]byte, error) {
	p.got = t
	return []byte("%PDF-1.3 fake"), p.err
}

func tabela() dto.Tabela {
	return dto.Tabela{
		Titulo:    "Itens do almoxarifado",
		Arquivo:   "almox_itens",
		Usuario:   "gestor",
		GeradoEm:  time.Date(2026, 3, 2, 14, 5, 0, 0, time.UTC),
		Cabecalho: []string{"Código", "Descrição", "Saldo"},
		Linhas: [][]string{
			{"001", "Papel A4; resma", "10,5"},
			{"002", `Caneta "azul"`, "3"},
		},
	}
}

func TestExport_CSV(t *testing.T) {
	arq, err := NewExporter(nil).Export("CSV", tabela())
	require.NoError(t, err)
	assert.Equal(t, "almox_itens.csv", arq.Nome)
	assert.Equal(t, ContentTypeCSV, arq.ContentType)
	assert.Len(t, arq.Hash, 64)
	require.True(t, bytes.HasPrefix(arq.Conteudo, []byte("\ufeff")))

	r := csv.NewReader(strings.NewReader(strings.TrimPrefix(string(arq.Conteudo), "\ufeff")))
	r.Comma = ';'
	recs, err := r.ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 3)
	assert.Equal(t, []string{"Código", "Descrição", "Saldo"}, recs[0])
	assert.Equal(t, "Papel A4; resma", recs[1][1])
	assert.Equal(t, `Caneta "azul"`, recs[2][1])
}

func TestExport_FormatoPadraoEInvalido(t *testing.T) {
	arq, err := NewExporter(nil).Export("", tabela())
	require.NoError(t, err)
	assert.Equal(t, "almox_itens.csv", arq.Nome)

	_, err = NewExporter(nil).Export("docx", tabela())
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "format", ve.Field)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestExport_XLSX(t *testing.T) {
	arq, err := NewExporter(nil).Export(dto.FormatoXLSX, tabela())
	require.NoError(t, err)
	assert.Equal(t, "almox_itens.xlsx", arq.Nome)
	assert.Equal(t, ContentTypeXLSX, arq.ContentType)

	f, err := excelize.OpenReader(bytes.NewReader(arq.Conteudo))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Itens do almoxarifado")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Descrição", rows[0][1])
	assert.Equal(t, "002", rows[2][0])
}

func TestExport_PDF(t *testing.T) {
	fake := &pdfFake{}
	arq, err := NewExporter(fake).Export(dto.FormatoPDF, tabela())
	require.NoError(t, err)
	assert.Equal(t, "almox_itens.pdf", arq.Nome)
	assert.Equal(t, ContentTypePDF, arq.ContentType)
	assert.Equal(t, "Itens do almoxarifado", fake.got.Titulo)

	fake.err = errors.New("falhou")
	_, err = NewExporter(fake).Export(dto.FormatoPDF, tabela())
	assert.Error(t, err)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Relatorio", sheetName("  "))
	assert.Equal(t, "Entradas 01 2026", sheetName("Entradas 01/2026"))
	assert.Len(t, []rune(sheetName(strings.Repeat("á", 40))), 31)
}

func TestExecucoesXML(t *testing.T) {
	rows := []*entity.IntegracaoExecucao{
		{
			ID: "e1", ConectorID: "c1", ConectorNome: "SICONFI", Direcao: entity.ExecucaoExportacao,
			Status: entity.ExecucaoSucesso, Referencia: "2026-02", QuantidadeRegistros: 12,
			Detalhes: "ok & enviado", ExecutadoPor: "gestor",
			ExecutadoEm: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}
	geradoEm := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	body, sum, err := NewXMLWriter().ExecucoesXML("Município Teste", geradoEm, rows)
	require.NoError(t, err)
	assert.Len(t, sum, 64)

	doc := etree.NewDocument()
	require.NoError(t, doc.ReadFromBytes(body))
	root := doc.SelectElement("IntegracaoExecucoes")
	require.NotNil(t, root)
	assert.Equal(t, "Município Teste", root.SelectAttrValue("municipio", ""))
	assert.Equal(t, "2026-03-02T09:00:00Z", root.SelectAttrValue("geradoEm", ""))
	execs := root.SelectElements("Execucao")
	require.Len(t, execs, 1)
	assert.Equal(t, "ok & enviado", execs[0].SelectElement("Detalhes").Text())
	assert.Equal(t, "12", execs[0].SelectElement("QuantidadeRegistros").Text())

	again, err := CanonicalSHA256(body)
	require.NoError(t, err)
	assert.Equal(t, sum, again)

	_, sum2, err := NewXMLWriter().ExecucoesXML("Município Teste", geradoEm, nil)
	require.NoError(t, err)
	assert.NotEqual(t, sum, sum2)
}
