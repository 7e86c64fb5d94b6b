package nee

import (
	"context"
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
	municipal    = rbac.Principal{UserID: "u-mun", Role: entity.RoleMunicipal, MunicipioID: "m1"}
	escolaU1     = rbac.Principal{UserID: "u-u1", Role: entity.RoleUnidade, MunicipioID: "m1", SecretariaID: "s1", UnidadeID: "u1"}
	escolaU3     = rbac.Principal{UserID: "u-u3", Role: entity.RoleUnidade, MunicipioID: "m1", SecretariaID: "s2", UnidadeID: "u3"}
	vizinho      = rbac.Principal{UserID: "u-m2", Role: entity.RoleMunicipal, MunicipioID: "m2"}
	inativoFlag  = false
	cargaSemanal = 10
)

type fixture struct {
	uc      *UseCase
	edu     *memory.Educacao
	auditor *memory.Auditor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	org := memory.NewOrg()
	org.Seed("m1", "s1", "u1", "")
	org.Seed("m1", "s1", "u2", "")
	org.Seed("m1", "s2", "u3", "")
	org.Seed("m2", "", "", "")
	f := &fixture{edu: memory.NewEducacao(), auditor: &memory.Auditor{}}
	repos := Repos{
		Turmas:       f.edu.TurmaRepo(),
		Alunos:       f.edu.AlunoRepo(),
		Matriculas:   f.edu.MatriculaRepo(),
		Tipos:        f.edu.TipoRepo(),
		Necessidades: f.edu.NecessidadeRepo(),
		Apoios:       f.edu.ApoioRepo(),
	}
	hier := usecase.NewHierarquiaResolver(org.SecretariaRepo(), org.UnidadeRepo(), org.SetorRepo())
	modules := usecase.NewModuleService(org.ModuloRepo(), org.MunicipioRepo())
	f.uc = NewUseCase(repos, hier, modules, f.auditor)
	f.uc.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	return f
}

func (f *fixture) turma(t *testing.T, unidade, nome string) string {
	t.Helper()
	tr, err := f.uc.CreateTurma(context.Background(), municipal, "", dto.TurmaRequest{
		UnidadeID: unidade, Nome: nome, AnoLetivo: 2026, Turno: entity.TurnoManha,
	})
	require.NoError(t, err)
	return tr.ID
}

func (f *fixture) aluno(t *testing.T, nome string) string {
	t.Helper()
	a, err := f.uc.CreateAluno(context.Background(), municipal, "", dto.AlunoRequest{Nome: nome})
	require.NoError(t, err)
	return a.ID
}

func (f *fixture) matricular(t *testing.T, p rbac.Principal, alunoID, turmaID string) string {
	t.Helper()
	m, err := f.uc.CreateMatricula(context.Background(), p, alunoID, dto.MatriculaRequest{TurmaID: turmaID})
	require.NoError(t, err)
	return m.ID
}

func (f *fixture) tipo(t *testing.T, nome string) string {
	t.Helper()
	tp, err := f.uc.CreateTipo(context.Background(), municipal, dto.TipoNecessidadeRequest{Nome: nome})
	require.NoError(t, err)
	return tp.ID
}

func (f *fixture) necessidade(t *testing.T, alunoID, tipoID string) {
	t.Helper()
	_, err := f.uc.CreateNecessidade(context.Background(), municipal, alunoID, dto.NecessidadeRequest{TipoID: tipoID})
	require.NoError(t, err)
}

func fieldOf(t *testing.T, err error) string {
	t.Helper()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "esperava ValidationError, veio %v", err)
	return ve.Field
}

func TestCreateTurma(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tr, err := f.uc.CreateTurma(ctx, municipal, "", dto.TurmaRequest{
		UnidadeID: "u1", Nome: " 5º Ano A ", AnoLetivo: 2026, Turno: entity.TurnoTarde,
	})
	require.NoError(t, err)
	assert.Equal(t, "s1", tr.SecretariaID)
	assert.Equal(t, "5º Ano A", tr.Nome)
	assert.True(t, tr.Ativo)

	_, err = f.uc.CreateTurma(ctx, municipal, "", dto.TurmaRequest{
		UnidadeID: "u1", Nome: "5º ano a", AnoLetivo: 2026, Turno: entity.TurnoManha,
	})
	assert.Equal(t, "nome", fieldOf(t, err))

	// mesmo nome em outro ano letivo é outra turma
	_, err = f.uc.CreateTurma(ctx, municipal, "", dto.TurmaRequest{
		UnidadeID: "u1", Nome: "5º Ano A", AnoLetivo: 2027, Turno: entity.TurnoTarde,
	})
	require.NoError(t, err)

	_, err = f.uc.CreateTurma(ctx, municipal, "", dto.TurmaRequest{
		UnidadeID: "u1", Nome: "6º Ano", AnoLetivo: 2026, Turno: "MADRUGADA",
	})
	assert.Equal(t, "turno", fieldOf(t, err))

	// unidade de outra secretaria não serve ao usuário de u1
	_, err = f.uc.CreateTurma(ctx, escolaU1, "", dto.TurmaRequest{
		UnidadeID: "u3", Nome: "1º Ano", AnoLetivo: 2026, Turno: entity.TurnoManha,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.uc.ListTurmas(ctx, escolaU1, "", "", dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, list.Page.Total)
	assert.Equal(t, 2027, list.Items[0].AnoLetivo)

	_, err = f.uc.GetTurma(ctx, escolaU3, tr.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, []string{"TURMA_CRIADA", "TURMA_CRIADA"}, f.auditor.Nomes())
}

func TestAluno_EscopoPelaMatricula(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turma := f.turma(t, "u1", "3º Ano")
	a := f.aluno(t, "Ana")

	_, err := f.uc.GetAluno(ctx, escolaU1, a)
	assert.ErrorIs(t, err, domain.ErrNotFound, "sem matrícula a escola não enxerga o aluno")

	m := f.matricular(t, escolaU1, a, turma)

	got, err := f.uc.GetAluno(ctx, escolaU1, a)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Nome)

	_, err = f.uc.GetAluno(ctx, escolaU3, a)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.GetAluno(ctx, vizinho, a)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	for _, c := range []struct {
		p    rbac.Principal
		want int
	}{{municipal, 1}, {escolaU1, 1}, {escolaU3, 0}} {
		list, err := f.uc.ListAlunos(ctx, c.p, "", dto.ListQuery{})
		require.NoError(t, err)
		assert.Equal(t, c.want, list.Page.Total, c.p.UserID)
	}

	mat, err := f.uc.UpdateSituacao(ctx, escolaU1, m, dto.MatriculaSituacaoRequest{Situacao: entity.MatriculaTransferido})
	require.NoError(t, err)
	assert.Equal(t, entity.MatriculaTransferido, mat.Situacao)

	_, err = f.uc.GetAluno(ctx, escolaU1, a)
	assert.ErrorIs(t, err, domain.ErrNotFound, "matrícula transferida tira o aluno do escopo da escola")
	_, err = f.uc.GetAluno(ctx, municipal, a)
	require.NoError(t, err)

	_, err = f.uc.UpdateSituacao(ctx, escolaU3, m, dto.MatriculaSituacaoRequest{Situacao: entity.MatriculaAtiva})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.UpdateSituacao(ctx, municipal, m, dto.MatriculaSituacaoRequest{Situacao: "SUMIDO"})
	assert.Equal(t, "situacao", fieldOf(t, err))

	assert.Equal(t, []string{"TURMA_CRIADA", "ALUNO_CRIADO", "MATRICULA_CRIADA", "MATRICULA_SITUACAO_ALTERADA"}, f.auditor.Nomes())
}

func TestMatricula_Regras(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turma := f.turma(t, "u1", "3º Ano")
	a := f.aluno(t, "Bruno")
	f.matricular(t, municipal, a, turma)

	_, err := f.uc.CreateMatricula(ctx, municipal, a, dto.MatriculaRequest{TurmaID: turma})
	assert.Equal(t, "turma_id", fieldOf(t, err))

	_, err = f.uc.CreateMatricula(ctx, escolaU3, a, dto.MatriculaRequest{TurmaID: turma})
	assert.Equal(t, "turma_id", fieldOf(t, err), "turma fora do escopo")

	_, err = f.uc.CreateMatricula(ctx, vizinho, a, dto.MatriculaRequest{TurmaID: turma})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	mats, err := f.uc.ListMatriculas(ctx, municipal, a)
	require.NoError(t, err)
	require.Len(t, mats, 1)
	assert.Equal(t, "3º Ano", mats[0].TurmaNome)
	assert.Equal(t, "u1", mats[0].UnidadeID)
	require.NotNil(t, mats[0].DataMatricula)
	assert.Equal(t, "2026-03-02", mats[0].DataMatricula.Format("2006-01-02"))
}

func TestAluno_Documentos(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	a, err := f.uc.CreateAluno(ctx, municipal, "", dto.AlunoRequest{
		Nome: "Carla", CPF: "123.456.789-09", NIS: "120.5432.198-7", Email: " Mae@Exemplo.com ",
	})
	require.NoError(t, err)
	assert.Equal(t, "12345678909", a.CPF)
	assert.Equal(t, "12054321987", a.NIS)
	assert.Equal(t, "mae@exemplo.com", a.Email)

	_, err = f.uc.CreateAluno(ctx, municipal, "", dto.AlunoRequest{Nome: "Davi", CPF: "123"})
	assert.Equal(t, "cpf", fieldOf(t, err))

	upd, err := f.uc.UpdateAluno(ctx, municipal, a.ID, dto.AlunoRequest{Nome: "Carla Souza", Ativo: &inativoFlag})
	require.NoError(t, err)
	assert.Equal(t, "Carla Souza", upd.Nome)
	assert.False(t, upd.Ativo)
	assert.Empty(t, upd.CPF)
}

func TestNecessidades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	tea := f.tipo(t, "TEA")
	a := f.aluno(t, "Eva")
	b := f.aluno(t, "Fábio")

	_, err := f.uc.CreateTipo(ctx, municipal, dto.TipoNecessidadeRequest{Nome: "tea"})
	assert.Equal(t, "nome", fieldOf(t, err))

	n, err := f.uc.CreateNecessidade(ctx, municipal, a, dto.NecessidadeRequest{TipoID: tea, CID: "f84.0"})
	require.NoError(t, err)
	assert.Equal(t, "TEA", n.TipoNome)
	assert.Equal(t, "F84.0", n.CID)

	_, err = f.uc.CreateNecessidade(ctx, municipal, a, dto.NecessidadeRequest{TipoID: tea})
	assert.Equal(t, "tipo_id", fieldOf(t, err))

	desativado, err := f.uc.CreateTipo(ctx, municipal, dto.TipoNecessidadeRequest{Nome: "Baixa visão", Ativo: &inativoFlag})
	require.NoError(t, err)
	_, err = f.uc.CreateNecessidade(ctx, municipal, a, dto.NecessidadeRequest{TipoID: desativado.ID})
	assert.Equal(t, "tipo_id", fieldOf(t, err))

	tipos, err := f.uc.ListTipos(ctx, true)
	require.NoError(t, err)
	require.Len(t, tipos, 1)

	// necessidade de outro aluno não é alcançável pela rota de b
	_, err = f.uc.UpdateNecessidade(ctx, municipal, b, n.ID, dto.NecessidadeRequest{Observacao: "x"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	nee, err := f.uc.ListAlunos(ctx, municipal, "", dto.ListQuery{Tipo: "NEE"})
	require.NoError(t, err)
	require.Len(t, nee.Items, 1)
	assert.Equal(t, "Eva", nee.Items[0].Nome)

	_, err = f.uc.UpdateNecessidade(ctx, municipal, a, n.ID, dto.NecessidadeRequest{Ativo: &inativoFlag})
	require.NoError(t, err)
	nee, err = f.uc.ListAlunos(ctx, municipal, "", dto.ListQuery{Tipo: "nee"})
	require.NoError(t, err)
	assert.Empty(t, nee.Items)

	todos, err := f.uc.ListAlunos(ctx, municipal, "", dto.ListQuery{Tipo: "qualquer"})
	require.NoError(t, err)
	assert.Equal(t, 2, todos.Page.Total)
}

func TestApoio_MatriculaDoAluno(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	turma := f.turma(t, "u1", "4º Ano")
	a := f.aluno(t, "Gil")
	b := f.aluno(t, "Hana")
	f.matricular(t, municipal, a, turma)
	mb := f.matricular(t, municipal, b, turma)

	_, err := f.uc.CreateApoio(ctx, municipal, a, dto.ApoioRequest{MatriculaID: mb, Tipo: entity.ApoioCuidador})
	assert.Equal(t, "matricula_id", fieldOf(t, err))

	neg := -1
	_, err = f.uc.CreateApoio(ctx, municipal, b, dto.ApoioRequest{MatriculaID: mb, Tipo: entity.ApoioAEE, CargaHorariaSemanal: &neg})
	assert.Equal(t, "carga_horaria_semanal", fieldOf(t, err))

	ap, err := f.uc.CreateApoio(ctx, municipal, b, dto.ApoioRequest{
		MatriculaID: mb, Tipo: entity.ApoioAEE, Descricao: "Sala de recursos", CargaHorariaSemanal: &cargaSemanal,
	})
	require.NoError(t, err)
	assert.True(t, ap.Ativo)

	_, err = f.uc.UpdateApoio(ctx, municipal, a, ap.ID, dto.ApoioRequest{Tipo: entity.ApoioOutro})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.uc.ListApoios(ctx, escolaU1, b)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 10, *list[0].CargaHorariaSemanal)
}

func TestAlunoNEE_ApoiosDeMatriculasAtivas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	antiga := f.turma(t, "u1", "2º Ano")
	atual := f.turma(t, "u2", "3º Ano")
	a := f.aluno(t, "Igor")
	f.necessidade(t, a, f.tipo(t, "TDAH"))

	m1 := f.matricular(t, municipal, a, antiga)
	m2 := f.matricular(t, municipal, a, atual)
	_, err := f.uc.UpdateSituacao(ctx, municipal, m1, dto.MatriculaSituacaoRequest{Situacao: entity.MatriculaTransferido})
	require.NoError(t, err)

	apoio := func(mat, tipo string, ativo *bool) {
		_, err := f.uc.CreateApoio(ctx, municipal, a, dto.ApoioRequest{MatriculaID: mat, Tipo: tipo, Ativo: ativo})
		require.NoError(t, err)
	}
	apoio(m1, entity.ApoioAEE, nil)
	apoio(m2, entity.ApoioCuidador, nil)
	apoio(m2, entity.ApoioTransporte, &inativoFlag)

	res, err := f.uc.AlunoNEE(ctx, municipal, a)
	require.NoError(t, err)
	assert.Equal(t, "Igor", res.Aluno.Nome)
	require.Len(t, res.Necessidades, 1)
	assert.Equal(t, "TDAH", res.Necessidades[0].TipoNome)
	assert.Len(t, res.Matriculas, 2)
	require.Len(t, res.ApoiosAtivos, 1)
	assert.Equal(t, entity.ApoioCuidador, res.ApoiosAtivos[0].Tipo)
	assert.Equal(t, m2, res.ApoiosAtivos[0].MatriculaID)

	todos, err := f.uc.ListApoios(ctx, municipal, a)
	require.NoError(t, err)
	assert.Len(t, todos, 3)
}

func TestRelatorioNecessidades(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	t1 := f.turma(t, "u1", "1º Ano")
	t3 := f.turma(t, "u3", "1º Ano")
	tea := f.tipo(t, "TEA")
	tdah := f.tipo(t, "TDAH")

	a := f.aluno(t, "Júlia")
	b := f.aluno(t, "Kauã")
	c := f.aluno(t, "Lia")
	f.matricular(t, municipal, a, t1)
	f.matricular(t, municipal, b, t1)
	f.matricular(t, municipal, c, t3)
	f.necessidade(t, a, tea)
	f.necessidade(t, a, tdah)
	f.necessidade(t, b, tea)
	f.necessidade(t, c, tea)
	_, err := f.uc.CreateNecessidade(ctx, municipal, c, dto.NecessidadeRequest{TipoID: tdah, Ativo: &inativoFlag})
	require.NoError(t, err)

	rows, err := f.uc.RelatorioNecessidades(ctx, municipal, "")
	require.NoError(t, err)
	assert.Equal(t, []dto.NecessidadeContagemResponse{
		{TipoID: tea, TipoNome: "TEA", Alunos: 3},
		{TipoID: tdah, TipoNome: "TDAH", Alunos: 1},
	}, rows)

	escola, err := f.uc.RelatorioNecessidades(ctx, escolaU3, "")
	require.NoError(t, err)
	assert.Equal(t, []dto.NecessidadeContagemResponse{{TipoID: tea, TipoNome: "TEA", Alunos: 1}}, escola)

	vazio, err := f.uc.RelatorioNecessidades(ctx, vizinho, "")
	require.NoError(t, err)
	assert.Empty(t, vazio)

	tab, err := f.uc.TabelaNecessidades(ctx, escolaU1, "")
	require.NoError(t, err)
	assert.Equal(t, "nee_necessidades", tab.Arquivo)
	assert.Equal(t, [][]string{{"TEA", "2"}, {"TDAH", "1"}}, tab.Linhas)
}
