package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gepub/gepub-api/internal/application/dto"
)

func TestFormatMoney(t *testing.T) {
	cases := map[string]string{
		"0":          "0,00",
		"25":         "25,00",
		"1234.5":     "1.234,50",
		"1234567.89": "1.234.567,89",
		"-980.1":     "-980,10",
	}
	for in, want := range cases {
		assert.Equal(t, want, formatMoney(decimal.RequireFromString(in)), in)
	}
}

func TestColumnSizes(t *testing.T) {
	sizes, grid := columnSizes(5)
	assert.Equal(t, 12, grid)
	assert.Equal(t, []int{3, 3, 2, 2, 2}, sizes)

	sizes, grid = columnSizes(14)
	assert.Equal(t, 14, grid)
	assert.Len(t, sizes, 14)
	assert.Equal(t, 1, sizes[13])
}

func TestSplitEvery(t *testing.T) {
	assert.Equal(t, []string{"ação", "ões"}, splitEvery("açãoões", 4))
	assert.Nil(t, splitEvery("", 3))
}

func tabela() dto.Tabela {
	return dto.Tabela{
		Titulo:    "Usuários",
		Arquivo:   "usuarios",
		Usuario:   "gestor",
		GeradoEm:  time.Date(2026, 3, 2, 14, 5, 0, 0, time.UTC),
		Cabecalho: []string{"Nome", "Login", "Perfil"},
		Linhas: [][]string{
			{"Ana Lima", "ana", "LEITURA"},
			{"José da Silva", "jose", "UNIDADE"},
		},
	}
}

func TestReportHash(t *testing.T) {
	tb := tabela()
	h := ReportHash(tb)
	assert.Len(t, h, 16)
	assert.Equal(t, h, ReportHash(tb))
	assert.Regexp(t, "^[0-9A-F]{16}$", h)

	tb.Linhas[1][2] = "LEITURA"
	assert.NotEqual(t, h, ReportHash(tb))

	tb = tabela()
	tb.GeradoEm = tb.GeradoEm.Add(30 * time.Second)
	assert.Equal(t, h, ReportHash(tb), "segundos não entram no hash")
}

func TestRelatorio(t *testing.T) {
	g := NewGenerator()

	out, err := g.Relatorio(tabela())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	vazia := tabela()
	vazia.Linhas = nil
	out, err = g.Relatorio(vazia)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	larga := tabela()
	larga.Cabecalho = []string{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l", "m", "n"}
	out, err = g.Relatorio(larga)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestHolerite(t *testing.T) {
	out, err := NewGenerator().Holerite(dto.Holerite{
		Municipio:   "Município Teste",
		Competencia: "03/2026",
		Servidor:    "Ana Lima",
		Matricula:   "0001",
		Linhas: []dto.HoleriteLinha{
			{Codigo: "001", Descricao: "Vencimento base", Quantidade: decimal.NewFromInt(30), Provento: decimal.NewFromInt(3500)},
			{Codigo: "501", Descricao: "INSS", Desconto: decimal.RequireFromString("385.00")},
		},
		Proventos: decimal.NewFromInt(3500),
		Descontos: decimal.NewFromInt(385),
		Liquido:   decimal.NewFromInt(3115),
		GeradoEm:  time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}
