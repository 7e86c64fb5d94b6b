package integracoes

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

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
	municipal  = rbac.Principal{UserID: "u-mun", Role: entity.RoleMunicipal, MunicipioID: "m1"}
	secretaria = rbac.Principal{UserID: "u-sec", Role: entity.RoleSecretaria, MunicipioID: "m1", SecretariaID: "s1"}
	outro      = rbac.Principal{UserID: "u-m2", Role: entity.RoleMunicipal, MunicipioID: "m2"}
)

type xmlStub struct {
	municipio string
	rows      []*entity.IntegracaoExecucao
}

func (x *xmlStub) ExecucoesXML(municipio string, _ time.Time, rows []*entity.IntegracaoExecucao) ([]byte, string, error) {
	x.municipio, x.rows = municipio, rows
	return []byte("<IntegracaoExecucoes/>"), "abc123", nil
}

type fixture struct {
	uc      *UseCase
	hub     *memory.Integracoes
	auditor *memory.Auditor
	xml     *xmlStub
	agora   time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	org := memory.NewOrg()
	org.Seed("m1", "s1", "", "")
	org.Seed("m2", "", "", "")
	f := &fixture{hub: memory.NewIntegracoes(), auditor: &memory.Auditor{}, xml: &xmlStub{}}
	f.agora = time.Date(2026, 5, 20, 8, 0, 0, 0, time.UTC)
	modules := usecase.NewModuleService(org.ModuloRepo(), org.MunicipioRepo())
	f.uc = NewUseCase(f.hub.ConectorRepo(), f.hub.ExecucaoRepo(), org.MunicipioRepo(), modules, f.xml, f.auditor)
	f.uc.now = func() time.Time { return f.agora }
	return f
}

func (f *fixture) conector(t *testing.T, nome string) *dto.ConectorResponse {
	t.Helper()
	c, err := f.uc.CreateConector(context.Background(), municipal, "", dto.ConectorRequest{
		Nome:        nome,
		Dominio:     entity.DominioSiconfi,
		Tipo:        entity.ConectorAPI,
		Endpoint:    "https://siconfi.example.gov.br/api",
		Credenciais: json.RawMessage(`{"token":"segredo"}`),
	})
	require.NoError(t, err)
	return c
}

func (f *fixture) execucao(t *testing.T, conectorID, status string) {
	t.Helper()
	_, err := f.uc.RegistrarExecucao(context.Background(), municipal, conectorID, dto.ExecucaoRequest{
		Direcao: entity.ExecucaoExportacao, Status: status, Referencia: "RREO-1B", QuantidadeRegistros: 12,
	})
	require.NoError(t, err)
}

func TestCreateConector(t *testing.T) {
	f := newFixture(t)
	c := f.conector(t, "SICONFI")

	assert.True(t, c.Ativo)
	assert.JSONEq(t, `{"token":"segredo"}`, string(c.Credenciais))
	assert.JSONEq(t, `{}`, string(c.Configuracao))
	assert.Equal(t, []string{"CONECTOR_CRIADO"}, f.auditor.Nomes())
	require.Len(t, f.auditor.Transparencia, 1)
	assert.Equal(t, "Conector SICONFI cadastrado", f.auditor.Transparencia[0].Titulo)

	_, err := f.uc.CreateConector(context.Background(), municipal, "", dto.ConectorRequest{
		Nome: "SICONFI", Dominio: entity.DominioSiconfi, Tipo: entity.ConectorAPI,
	})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "nome", ve.Field)

	_, err = f.uc.CreateConector(context.Background(), municipal, "", dto.ConectorRequest{
		Nome: "Quebrado", Dominio: entity.DominioOutros, Tipo: entity.ConectorETL, Configuracao: json.RawMessage(`{x`),
	})
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "configuracao", ve.Field)
}

func TestCredenciaisMascaradas(t *testing.T) {
	f := newFixture(t)
	c := f.conector(t, "SICONFI")

	got, err := f.uc.GetConector(context.Background(), secretaria, c.ID)
	require.NoError(t, err)
	assert.Equal(t, `"***"`, string(got.Credenciais))

	list, err := f.uc.ListConectores(context.Background(), secretaria, "", dto.ListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, `"***"`, string(list.Items[0].Credenciais))

	// reenviar a máscara mantém o segredo
	upd, err := f.uc.UpdateConector(context.Background(), municipal, c.ID, dto.ConectorRequest{
		Nome: "SICONFI v2", Dominio: entity.DominioSiconfi, Tipo: entity.ConectorAPI, Credenciais: json.RawMessage(`"***"`),
	})
	require.NoError(t, err)
	assert.Equal(t, "SICONFI v2", upd.Nome)
	assert.JSONEq(t, `{"token":"segredo"}`, string(upd.Credenciais))
	assert.Equal(t, []string{"CONECTOR_CRIADO", "CONECTOR_ATUALIZADO"}, f.auditor.Nomes())
}

func TestExecucao_ConectorInativo(t *testing.T) {
	f := newFixture(t)
	c := f.conector(t, "SICONFI")

	off, err := f.uc.ToggleAtivo(context.Background(), municipal, c.ID)
	require.NoError(t, err)
	assert.False(t, off.Ativo)

	_, err = f.uc.RegistrarExecucao(context.Background(), municipal, c.ID, dto.ExecucaoRequest{
		Direcao: entity.ExecucaoImportacao, Status: entity.ExecucaoSucesso,
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Empty(t, f.hub.Execucoes)

	on, err := f.uc.ToggleAtivo(context.Background(), municipal, c.ID)
	require.NoError(t, err)
	assert.True(t, on.Ativo)
	f.execucao(t, c.ID, entity.ExecucaoSucesso)

	last := f.auditor.Transparencia[len(f.auditor.Transparencia)-1]
	assert.Equal(t, "EXECUCAO_REGISTRADA", last.TipoEvento)
	assert.Equal(t, "RREO-1B", last.Referencia)
}

func TestExecucao_ForaDoMunicipio(t *testing.T) {
	f := newFixture(t)
	c := f.conector(t, "SICONFI")

	_, err := f.uc.RegistrarExecucao(context.Background(), outro, c.ID, dto.ExecucaoRequest{
		Direcao: entity.ExecucaoImportacao, Status: entity.ExecucaoSucesso,
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.uc.ListExecucoes(context.Background(), outro, "", c.ID, dto.ListQuery{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListExecucoesEResumo(t *testing.T) {
	f := newFixture(t)
	a := f.conector(t, "SICONFI")
	b := f.conector(t, "Portal")

	f.agora = f.agora.AddDate(0, 0, -45)
	f.execucao(t, a.ID, entity.ExecucaoSucesso)
	f.agora = f.agora.AddDate(0, 0, 45)
	f.execucao(t, a.ID, entity.ExecucaoFalha)
	f.execucao(t, b.ID, entity.ExecucaoSucesso)
	_, err := f.uc.ToggleAtivo(context.Background(), municipal, b.ID)
	require.NoError(t, err)

	porConector, err := f.uc.ListExecucoes(context.Background(), municipal, "", a.ID, dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, porConector.Page.Total)

	falhas, err := f.uc.ListExecucoes(context.Background(), municipal, "", "", dto.ListQuery{Status: "falha"})
	require.NoError(t, err)
	require.Len(t, falhas.Items, 1)
	assert.Equal(t, "SICONFI", falhas.Items[0].ConectorNome)

	res, err := f.uc.Resumo(context.Background(), municipal, "")
	require.NoError(t, err)
	assert.Equal(t, dto.IntegracaoResumoResponse{Conectores: 2, ConectoresAtivos: 1, Execucoes30d: 2, Falhas30d: 1}, *res)
}

func TestExportXMLETabela(t *testing.T) {
	f := newFixture(t)
	c := f.conector(t, "SICONFI")
	f.execucao(t, c.ID, entity.ExecucaoSucesso)
	f.execucao(t, c.ID, entity.ExecucaoFalha)

	arq, err := f.uc.ExportXML(context.Background(), municipal, "", "", dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, "abc123", arq.Hash)
	assert.Equal(t, "application/xml", arq.ContentType)
	assert.Equal(t, "Mun m1", f.xml.municipio)
	assert.Len(t, f.xml.rows, 2)

	tab, err := f.uc.TabelaExecucoes(context.Background(), municipal, "", c.ID, dto.ListQuery{})
	require.NoError(t, err)
	require.Len(t, tab.Linhas, 2)
	assert.Equal(t, "20/05/2026 08:00", tab.Linhas[0][0])
	assert.Equal(t, "12", tab.Linhas[0][5])
}
