package folha

import (
	"context"
	"errors"
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
	gestor  = rbac.Principal{UserID: "u-rh", Role: entity.RoleMunicipal, MunicipioID: "m1"}
	vizinho = rbac.Principal{UserID: "u-m2", Role: entity.RoleMunicipal, MunicipioID: "m2"}
)

type holeriteStub struct{ got dto.Holerite }

func (h *holeriteStub) Holerite(in dto.Holerite) ([]byte, error) {
	h.got = in
	return []byte("%PDF-holerite"), nil
}

type fixture struct {
	uc       *UseCase
	folha    *memory.Folha
	auditor  *memory.Auditor
	holerite *holeriteStub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	org := memory.NewOrg()
	org.Seed("m1", "s1", "", "")
	org.Seed("m2", "s2", "", "")
	f := &fixture{folha: memory.NewFolha(), auditor: &memory.Auditor{}, holerite: &holeriteStub{}}
	modules := usecase.NewModuleService(org.ModuloRepo(), org.MunicipioRepo())
	f.uc = NewUseCase(f.folha, f.folha.RubricaRepo(), f.folha.CompetenciaRepo(), f.folha.LancamentoRepo(),
		f.folha.FinanceiroRepo(), org.MunicipioRepo(), modules, f.holerite, f.auditor)
	f.uc.now = func() time.Time { return time.Date(2026, 4, 2, 10, 0, 0, 0, time.UTC) }
	return f
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) rubrica(t *testing.T, codigo, tipo, valor string) *dto.RubricaResponse {
	t.Helper()
	r, err := f.uc.CreateRubrica(context.Background(), gestor, "", dto.RubricaRequest{
		Codigo:          codigo,
		Nome:            "Rubrica " + codigo,
		TipoEvento:      tipo,
		Natureza:        entity.NaturezaFixo,
		ValorReferencia: dec(valor),
	})
	require.NoError(t, err)
	return r
}

func (f *fixture) competencia(t *testing.T) *dto.CompetenciaResponse {
	t.Helper()
	c, err := f.uc.CreateCompetencia(context.Background(), gestor, "", dto.CompetenciaRequest{Competencia: "2026-03"})
	require.NoError(t, err)
	return c
}

func (f *fixture) lancar(t *testing.T, compID, rubricaID, nome, matricula, qtd string) *dto.LancamentoResponse {
	t.Helper()
	l, err := f.uc.CreateLancamento(context.Background(), gestor, compID, dto.LancamentoRequest{
		ServidorNome:      nome,
		ServidorMatricula: matricula,
		RubricaID:         rubricaID,
		Quantidade:        dec(qtd),
	})
	require.NoError(t, err)
	return l
}

func TestRubrica_CodigoUnicoNoMunicipio(t *testing.T) {
	f := newFixture(t)
	r := f.rubrica(t, "sal-base", entity.RubricaProvento, "3000")
	assert.Equal(t, "SAL-BASE", r.Codigo)
	assert.Equal(t, entity.RubricaAtiva, r.Status)

	_, err := f.uc.CreateRubrica(context.Background(), gestor, "", dto.RubricaRequest{
		Codigo: "SAL-BASE", Nome: "Outra", TipoEvento: entity.RubricaProvento, Natureza: entity.NaturezaFixo,
	})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "codigo", ve.Field)

	// outro município pode repetir o código
	_, err = f.uc.CreateRubrica(context.Background(), vizinho, "", dto.RubricaRequest{
		Codigo: "SAL-BASE", Nome: "Salário", TipoEvento: entity.RubricaProvento, Natureza: entity.NaturezaFixo,
	})
	require.NoError(t, err)

	_, err = f.uc.GetRubrica(context.Background(), vizinho, r.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.uc.ListRubricas(context.Background(), gestor, "", dto.ListQuery{})
	require.NoError(t, err)
	assert.Len(t, list.Items, 1)
	assert.Equal(t, []string{"RUBRICA_CRIADA", "RUBRICA_CRIADA"}, f.auditor.Nomes())
}

func TestCompetencia_FormatoEUnicidade(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CreateCompetencia(context.Background(), gestor, "", dto.CompetenciaRequest{Competencia: "03/2026"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	c := f.competencia(t)
	assert.Equal(t, entity.CompetenciaAberta, c.Status)

	_, err = f.uc.CreateCompetencia(context.Background(), gestor, "", dto.CompetenciaRequest{Competencia: "2026-03"})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "competencia", ve.Field)
}

func TestLancamento_RecalculaTotais(t *testing.T) {
	f := newFixture(t)
	sal := f.rubrica(t, "SAL", entity.RubricaProvento, "3000")
	inss := f.rubrica(t, "INSS", entity.RubricaDesconto, "330")
	c := f.competencia(t)

	l := f.lancar(t, c.ID, sal.ID, "Ana", "001", "0")
	assert.True(t, l.Quantidade.Equal(dec("1")))
	assert.True(t, l.ValorCalculado.Equal(dec("3000")))
	assert.Equal(t, entity.LancamentoPendente, l.Status)

	f.lancar(t, c.ID, inss.ID, "Ana", "001", "1")
	unit := dec("10.333")
	_, err := f.uc.CreateLancamento(context.Background(), gestor, c.ID, dto.LancamentoRequest{
		ServidorNome: "Bruno", ServidorMatricula: "002", RubricaID: sal.ID, Quantidade: dec("1.5"), ValorUnitario: &unit,
	})
	require.NoError(t, err)

	got, err := f.uc.GetCompetencia(context.Background(), gestor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, got.TotalColaboradores)
	assert.True(t, got.TotalProventos.Equal(dec("3015.5")), got.TotalProventos.String())
	assert.True(t, got.TotalDescontos.Equal(dec("330")))
	assert.True(t, got.TotalLiquido.Equal(dec("2685.5")))

	lancs, err := f.uc.ListLancamentos(context.Background(), gestor, c.ID, "001")
	require.NoError(t, err)
	assert.Len(t, lancs, 2)
}

func TestLancamento_RubricaDeOutroMunicipioOuInativa(t *testing.T) {
	f := newFixture(t)
	c := f.competencia(t)
	alheia, err := f.uc.CreateRubrica(context.Background(), vizinho, "", dto.RubricaRequest{
		Codigo: "X", Nome: "X", TipoEvento: entity.RubricaProvento, Natureza: entity.NaturezaFixo,
	})
	require.NoError(t, err)

	_, err = f.uc.CreateLancamento(context.Background(), gestor, c.ID, dto.LancamentoRequest{
		ServidorNome: "Ana", RubricaID: alheia.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	inativa, err := f.uc.CreateRubrica(context.Background(), gestor, "", dto.RubricaRequest{
		Codigo: "OLD", Nome: "Antiga", TipoEvento: entity.RubricaProvento, Natureza: entity.NaturezaFixo,
		Status: entity.RubricaInativa,
	})
	require.NoError(t, err)
	_, err = f.uc.CreateLancamento(context.Background(), gestor, c.ID, dto.LancamentoRequest{
		ServidorNome: "Ana", RubricaID: inativa.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCicloDaCompetencia(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sal := f.rubrica(t, "SAL", entity.RubricaProvento, "2000")
	c := f.competencia(t)
	f.lancar(t, c.ID, sal.ID, "Ana", "001", "1")

	_, err := f.uc.Fechar(ctx, gestor, c.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	p, err := f.uc.Processar(ctx, gestor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CompetenciaProcessada, p.Status)
	require.NotNil(t, p.ProcessadoEm)

	// competência processada não aceita lançamentos
	_, err = f.uc.CreateLancamento(ctx, gestor, c.ID, dto.LancamentoRequest{ServidorNome: "Bruno", RubricaID: sal.ID})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Len(t, f.folha.Lancamentos, 1)

	fe, err := f.uc.Fechar(ctx, gestor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CompetenciaFechada, fe.Status)
	require.NotNil(t, fe.FechadoEm)
	require.Len(t, f.auditor.Transparencia, 1)
	assert.Equal(t, "FOLHA_FECHADA", f.auditor.Transparencia[0].TipoEvento)
	assert.True(t, f.auditor.Transparencia[0].Valor.Equal(dec("2000")))

	r, err := f.uc.Reabrir(ctx, gestor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CompetenciaAberta, r.Status)
	assert.Nil(t, r.FechadoEm)

	_, err = f.uc.Processar(ctx, vizinho, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEnviarFinanceiro(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sal := f.rubrica(t, "SAL", entity.RubricaProvento, "2000")
	irrf := f.rubrica(t, "IRRF", entity.RubricaDesconto, "150.25")
	c := f.competencia(t)

	_, err := f.uc.EnviarFinanceiro(ctx, gestor, c.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.uc.Processar(ctx, gestor, c.ID)
	require.NoError(t, err)
	_, err = f.uc.EnviarFinanceiro(ctx, gestor, c.ID)
	assert.ErrorIs(t, err, domain.ErrConflict, "sem lançamentos")

	_, err = f.uc.Reabrir(ctx, gestor, c.ID)
	require.NoError(t, err)
	f.lancar(t, c.ID, sal.ID, "Ana", "001", "1")
	f.lancar(t, c.ID, irrf.ID, "Ana", "001", "1")
	_, err = f.uc.Processar(ctx, gestor, c.ID)
	require.NoError(t, err)

	env, err := f.uc.EnviarFinanceiro(ctx, gestor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.EnvioEnviada, env.Status)
	assert.Equal(t, "FOLHA-2026-03", env.Referencia)
	assert.True(t, env.TotalEnviado.Equal(dec("1849.75")))

	for _, l := range f.folha.Lancamentos {
		assert.Equal(t, entity.LancamentoEnviadoFinanceiro, l.Status)
	}
	assert.Equal(t, "u-rh", f.folha.Integracoes[c.ID].EnviadoPor)
	last := f.auditor.Transparencia[len(f.auditor.Transparencia)-1]
	assert.Equal(t, "FINANCEIRO", last.Modulo)
	assert.Equal(t, "FOLHA_ENVIADA_FINANCEIRO", last.TipoEvento)
	assert.False(t, last.Publico)

	// reenviar atualiza o mesmo registro
	id := f.folha.Integracoes[c.ID].ID
	_, err = f.uc.EnviarFinanceiro(ctx, gestor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, id, f.folha.Integracoes[c.ID].ID)
	assert.Len(t, f.folha.Integracoes, 1)

	_, err = f.uc.Reabrir(ctx, gestor, c.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	got, err := f.uc.GetCompetencia(ctx, gestor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.CompetenciaProcessada, got.Status)
}

func TestHolerite(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	sal := f.rubrica(t, "SAL", entity.RubricaProvento, "2500")
	inss := f.rubrica(t, "INSS", entity.RubricaDesconto, "275")
	c := f.competencia(t)
	f.lancar(t, c.ID, sal.ID, "Ana Souza", "001", "1")
	f.lancar(t, c.ID, inss.ID, "Ana Souza", "001", "1")
	f.lancar(t, c.ID, sal.ID, "Bruno", "002", "1")

	arq, err := f.uc.Holerite(ctx, gestor, c.ID, "001")
	require.NoError(t, err)
	assert.Equal(t, "holerite_2026-03_001.pdf", arq.Nome)
	assert.Equal(t, "application/pdf", arq.ContentType)
	assert.Equal(t, "%PDF-holerite", string(arq.Conteudo))

	h := f.holerite.got
	assert.Equal(t, "Ana Souza", h.Servidor)
	assert.Equal(t, "2026-03", h.Competencia)
	require.Len(t, h.Linhas, 2)
	assert.Equal(t, "SAL", h.Linhas[0].Codigo)
	assert.True(t, h.Linhas[0].Provento.Equal(dec("2500")))
	assert.True(t, h.Linhas[1].Desconto.Equal(dec("275")))
	assert.True(t, h.Liquido.Equal(dec("2225")))

	_, err = f.uc.Holerite(ctx, gestor, c.ID, "999")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTabelaCompetencias(t *testing.T) {
	f := newFixture(t)
	f.competencia(t)
	_, err := f.uc.CreateCompetencia(context.Background(), gestor, "", dto.CompetenciaRequest{Competencia: "2026-04"})
	require.NoError(t, err)

	tab, err := f.uc.TabelaCompetencias(context.Background(), gestor, "", dto.ListQuery{})
	require.NoError(t, err)
	require.Len(t, tab.Linhas, 2)
	assert.Equal(t, "2026-04", tab.Linhas[0][0])
	assert.Equal(t, "0.00", tab.Linhas[0][5])
	assert.Equal(t, "folha_competencias", tab.Arquivo)
}

type financeiroStub struct {
	err        error
	referencia string
	valor      decimal.Decimal
	chamadas   int
}

func (s *financeiroStub) LiquidarFolha(_ context.Context, _ rbac.Principal, municipioID, competencia, referencia string, valor decimal.Decimal) (string, error) {
	s.chamadas++
	s.referencia, s.valor = referencia, valor
	if s.err != nil {
		return "", s.err
	}
	return "liq-" + municipioID + "-" + competencia, nil
}

func (f *fixture) competenciaProcessada(t *testing.T) *dto.CompetenciaResponse {
	t.Helper()
	sal := f.rubrica(t, "SAL", entity.RubricaProvento, "2000")
	c := f.competencia(t)
	f.lancar(t, c.ID, sal.ID, "Ana", "001", "1")
	_, err := f.uc.Processar(context.Background(), gestor, c.ID)
	require.NoError(t, err)
	return c
}

func TestEnviarFinanceiro_RegistraLiquidacao(t *testing.T) {
	f := newFixture(t)
	fin := &financeiroStub{}
	f.uc.ComFinanceiro(fin)
	c := f.competenciaProcessada(t)

	env, err := f.uc.EnviarFinanceiro(context.Background(), gestor, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "liq-m1-2026-03", env.LiquidacaoID)
	assert.Equal(t, "FOLHA-2026-03", fin.referencia)
	assert.True(t, fin.valor.Equal(dec("2000")))
	assert.Equal(t, entity.EnvioEnviada, f.folha.Integracoes[c.ID].Status)
}

func TestEnviarFinanceiro_SemEmpenhoFicaEnviada(t *testing.T) {
	f := newFixture(t)
	f.uc.ComFinanceiro(&financeiroStub{err: domain.ErrNotFound})
	c := f.competenciaProcessada(t)

	env, err := f.uc.EnviarFinanceiro(context.Background(), gestor, c.ID)
	require.NoError(t, err)
	assert.Empty(t, env.LiquidacaoID)
	assert.Equal(t, entity.EnvioEnviada, f.folha.Integracoes[c.ID].Status)
}

func TestEnviarFinanceiro_FalhaNoFinanceiroMarcaErro(t *testing.T) {
	f := newFixture(t)
	f.uc.ComFinanceiro(&financeiroStub{err: domain.ErrConflict})
	c := f.competenciaProcessada(t)
	publicados := len(f.auditor.Transparencia)

	_, err := f.uc.EnviarFinanceiro(context.Background(), gestor, c.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, entity.EnvioErro, f.folha.Integracoes[c.ID].Status)
	assert.Len(t, f.auditor.Transparencia, publicados)
	assert.Contains(t, f.auditor.Nomes(), "FOLHA_ENVIO_ERRO")
}
