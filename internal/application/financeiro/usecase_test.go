package financeiro

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/usecase"
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/testutil/memory"
)

var (
	contador = rbac.Principal{UserID: "u-fin", Role: entity.RoleMunicipal, MunicipioID: "m1"}
	vizinho  = rbac.Principal{UserID: "u-m2", Role: entity.RoleMunicipal, MunicipioID: "m2"}
)

type fixture struct {
	uc      *UseCase
	fin     *memory.Financeiro
	auditor *memory.Auditor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	org := memory.NewOrg()
	org.Seed("m1", "s1", "", "")
	org.Seed("m2", "s2", "", "")
	f := &fixture{fin: memory.NewFinanceiro(), auditor: &memory.Auditor{}}
	modules := usecase.NewModuleService(org.ModuloRepo(), org.MunicipioRepo())
	hierarquia := usecase.NewHierarquiaResolver(org.SecretariaRepo(), org.UnidadeRepo(), org.SetorRepo())
	f.uc = NewUseCase(f.fin, Repos{
		Exercicios:  f.fin.ExercicioRepo(),
		Dotacoes:    f.fin.DotacaoRepo(),
		Empenhos:    f.fin.EmpenhoRepo(),
		Liquidacoes: f.fin.LiquidacaoRepo(),
		Pagamentos:  f.fin.PagamentoRepo(),
	}, hierarquia, modules, f.auditor)
	f.uc.now = func() time.Time { return time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC) }
	return f
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) exercicio(t *testing.T) *dto.ExercicioResponse {
	t.Helper()
	ex, err := f.uc.CreateExercicio(context.Background(), contador, "", dto.ExercicioRequest{Ano: 2026})
	require.NoError(t, err)
	return ex
}

func (f *fixture) dotacao(t *testing.T, exercicioID, valor string) *dto.DotacaoResponse {
	t.Helper()
	d, err := f.uc.CreateDotacao(context.Background(), contador, dto.DotacaoRequest{
		ExercicioID:     exercicioID,
		SecretariaID:    "s1",
		ProgramaCodigo:  "0001",
		AcaoCodigo:      "2001",
		ElementoDespesa: "3.1.90.11",
		Fonte:           "1500",
		ValorInicial:    dec(valor),
	})
	require.NoError(t, err)
	return d
}

func (f *fixture) empenho(t *testing.T, dotacaoID, numero, valor string) *dto.EmpenhoResponse {
	t.Helper()
	e, err := f.uc.CreateEmpenho(context.Background(), contador, dto.EmpenhoRequest{
		DotacaoID:      dotacaoID,
		Numero:         numero,
		FornecedorNome: "Papelaria Central",
		Objeto:         "Material de expediente",
		Valor:          dec(valor),
	})
	require.NoError(t, err)
	return e
}

func TestExercicio_AnoUnicoEEncerramento(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ex := f.exercicio(t)
	assert.Equal(t, entity.ExercicioAberto, ex.Status)

	_, err := f.uc.CreateExercicio(ctx, contador, "", dto.ExercicioRequest{Ano: 2026})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "ano", ve.Field)

	// outro município pode ter o mesmo ano
	_, err = f.uc.CreateExercicio(ctx, vizinho, "", dto.ExercicioRequest{Ano: 2026})
	require.NoError(t, err)

	enc, err := f.uc.EncerrarExercicio(ctx, contador, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ExercicioEncerrado, enc.Status)
	_, err = f.uc.EncerrarExercicio(ctx, contador, ex.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.uc.EncerrarExercicio(ctx, vizinho, ex.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.uc.ListExercicios(ctx, contador, "", dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)
}

func TestDotacao_SecretariaDoMunicipio(t *testing.T) {
	f := newFixture(t)
	ex := f.exercicio(t)
	_, err := f.uc.CreateDotacao(context.Background(), contador, dto.DotacaoRequest{
		ExercicioID: ex.ID, SecretariaID: "s2", ProgramaCodigo: "1", AcaoCodigo: "1", ElementoDespesa: "1", Fonte: "1",
		ValorInicial: dec("10"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	d := f.dotacao(t, ex.ID, "1000")
	assert.True(t, d.ValorAtualizado.Equal(dec("1000")))
	assert.True(t, d.SaldoDisponivel.Equal(dec("1000")))
}

func TestEmpenho_LimitadoAoSaldoDaDotacao(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.dotacao(t, f.exercicio(t).ID, "1000")

	e := f.empenho(t, d.ID, "2026ne0001", "600")
	assert.Equal(t, "2026NE0001", e.Numero)
	assert.Equal(t, entity.EmpenhoOrdinario, e.Tipo)
	assert.Equal(t, entity.EmpenhoEmpenhado, e.Status)

	_, err := f.uc.CreateEmpenho(ctx, contador, dto.EmpenhoRequest{
		DotacaoID: d.ID, Numero: "2026NE0002", FornecedorNome: "X", Objeto: "Y", Valor: dec("400.01"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.CreateEmpenho(ctx, contador, dto.EmpenhoRequest{
		DotacaoID: d.ID, Numero: "2026NE0001", FornecedorNome: "X", Objeto: "Y", Valor: dec("1"),
	})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "numero", ve.Field)

	got, err := f.uc.GetDotacao(ctx, contador, d.ID)
	require.NoError(t, err)
	assert.True(t, got.ValorEmpenhado.Equal(dec("600")), "falhas não alteram a dotação")
	assert.True(t, got.SaldoDisponivel.Equal(dec("400")))

	last := f.auditor.Transparencia[len(f.auditor.Transparencia)-1]
	assert.Equal(t, "EMPENHO_CRIADO", last.TipoEvento)
	assert.True(t, last.Publico)
	assert.True(t, last.Valor.Equal(dec("600")))
}

func TestLiquidacaoEPagamento(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.dotacao(t, f.exercicio(t).ID, "1000")
	e := f.empenho(t, d.ID, "NE1", "500")
	outro := f.empenho(t, d.ID, "NE2", "100")

	liq, err := f.uc.Liquidar(ctx, contador, e.ID, dto.LiquidacaoRequest{DocumentoFiscal: "NF 123", Valor: dec("300")})
	require.NoError(t, err)
	assert.Equal(t, "1", liq.Numero)

	_, err = f.uc.Liquidar(ctx, contador, e.ID, dto.LiquidacaoRequest{Valor: dec("200.01")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Pagar(ctx, contador, outro.ID, dto.PagamentoRequest{LiquidacaoID: liq.ID, Valor: dec("10")})
	var ve *domain.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "liquidacao_id", ve.Field)

	_, err = f.uc.Pagar(ctx, contador, e.ID, dto.PagamentoRequest{LiquidacaoID: liq.ID, Valor: dec("300.01")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.uc.Pagar(ctx, contador, e.ID, dto.PagamentoRequest{LiquidacaoID: liq.ID, OrdemPagamento: "OP-1", Valor: dec("300")})
	require.NoError(t, err)

	det, err := f.uc.GetEmpenho(ctx, contador, e.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EmpenhoPago, det.Status)
	assert.True(t, det.SaldoALiquidar.Equal(dec("200")))
	assert.True(t, det.SaldoAPagar.IsZero())
	assert.Len(t, det.Liquidacoes, 1)
	assert.Len(t, det.Pagamentos, 1)

	dot, err := f.uc.GetDotacao(ctx, contador, d.ID)
	require.NoError(t, err)
	assert.True(t, dot.ValorLiquidado.Equal(dec("300")))
	assert.True(t, dot.ValorPago.Equal(dec("300")))

	assert.Contains(t, f.auditor.Nomes(), "LIQUIDACAO_REGISTRADA")
	assert.Contains(t, f.auditor.Nomes(), "PAGAMENTO_REGISTRADO")

	_, err = f.uc.GetEmpenho(ctx, vizinho, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestExercicioEncerrado_BloqueiaMovimentos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ex := f.exercicio(t)
	d := f.dotacao(t, ex.ID, "1000")
	e := f.empenho(t, d.ID, "NE1", "100")
	_, err := f.uc.EncerrarExercicio(ctx, contador, ex.ID)
	require.NoError(t, err)

	_, err = f.uc.Liquidar(ctx, contador, e.ID, dto.LiquidacaoRequest{Valor: dec("10")})
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.uc.CreateEmpenho(ctx, contador, dto.EmpenhoRequest{
		DotacaoID: d.ID, Numero: "NE2", FornecedorNome: "X", Objeto: "Y", Valor: dec("1"),
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestListEmpenhos_FiltrosETabela(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	d := f.dotacao(t, f.exercicio(t).ID, "1000")
	e := f.empenho(t, d.ID, "NE1", "100")
	f.empenho(t, d.ID, "NE2", "50")
	_, err := f.uc.Liquidar(ctx, contador, e.ID, dto.LiquidacaoRequest{Valor: dec("100")})
	require.NoError(t, err)

	list, err := f.uc.ListEmpenhos(ctx, contador, "", "", d.ID, dto.ListQuery{Status: "liquidado"})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "NE1", list.Items[0].Numero)

	tab, err := f.uc.TabelaEmpenhos(ctx, contador, "", "", "", dto.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, tab.Linhas, 2)
	assert.Equal(t, "financeiro_empenhos", tab.Arquivo)

	vazio, err := f.uc.ListEmpenhos(ctx, vizinho, "", "", "", dto.ListQuery{})
	require.NoError(t, err)
	assert.Zero(t, vazio.Page.Total)
}

func TestLiquidarFolha(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.LiquidarFolha(ctx, contador, "m1", "2026-03", "FOLHA-2026-03", dec("1849.75"))
	assert.ErrorIs(t, err, domain.ErrNotFound, "sem exercício")

	d := f.dotacao(t, f.exercicio(t).ID, "10000")
	_, err = f.uc.LiquidarFolha(ctx, contador, "m1", "2026-03", "FOLHA-2026-03", dec("1849.75"))
	assert.ErrorIs(t, err, domain.ErrNotFound, "sem empenho da folha")

	e := f.empenho(t, d.ID, "folha-2026-03", "5000")
	id, err := f.uc.LiquidarFolha(ctx, contador, "m1", "2026-03", "FOLHA-2026-03", dec("1849.75"))
	require.NoError(t, err)
	require.NotEmpty(t, id)

	// reenvio com o mesmo valor não duplica
	again, err := f.uc.LiquidarFolha(ctx, contador, "m1", "2026-03", "FOLHA-2026-03", dec("1849.75"))
	require.NoError(t, err)
	assert.Equal(t, id, again)

	_, err = f.uc.LiquidarFolha(ctx, contador, "m1", "2026-03", "FOLHA-2026-03", dec("1900"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	det, err := f.uc.GetEmpenho(ctx, contador, e.ID)
	require.NoError(t, err)
	require.Len(t, det.Liquidacoes, 1)
	assert.Equal(t, "FOLHA-2026-03", det.Liquidacoes[0].DocumentoFiscal)
	assert.True(t, det.ValorLiquidado.Equal(dec("1849.75")))
	assert.Equal(t, entity.EmpenhoLiquidado, det.Status)
}
