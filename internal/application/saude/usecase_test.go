package saude

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
	municipal = rbac.Principal{UserID: "u-mun", Role: entity.RoleMunicipal, MunicipioID: "m1"}
	postoU1   = rbac.Principal{UserID: "u-u1", Role: entity.RoleUnidade, MunicipioID: "m1", SecretariaID: "s1", UnidadeID: "u1"}
	postoU3   = rbac.Principal{UserID: "u-u3", Role: entity.RoleUnidade, MunicipioID: "m1", SecretariaID: "s2", UnidadeID: "u3"}
	vizinho   = rbac.Principal{UserID: "u-m2", Role: entity.RoleMunicipal, MunicipioID: "m2"}
)

type fixture struct {
	uc      *UseCase
	saude   *memory.Saude
	auditor *memory.Auditor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	org := memory.NewOrg()
	org.Seed("m1", "s1", "u1", "")
	org.Seed("m1", "s1", "u2", "")
	org.Seed("m1", "s2", "u3", "")
	org.Seed("m2", "s9", "u9", "")
	for _, id := range []string{"u1", "u3", "u9"} {
		org.Unidades[id].Tipo = entity.UnidadeSaude
	}
	org.Unidades["u2"].Tipo = entity.UnidadeEducacao

	edu := memory.NewEducacao()
	edu.Alunos["al1"] = &entity.Aluno{ID: "al1", MunicipioID: "m1", Nome: "Bia Souza", Ativo: true}
	edu.Alunos["al9"] = &entity.Aluno{ID: "al9", MunicipioID: "m2", Nome: "Caio Lima", Ativo: true}

	f := &fixture{saude: memory.NewSaude(), auditor: &memory.Auditor{}}
	hier := usecase.NewHierarquiaResolver(org.SecretariaRepo(), org.UnidadeRepo(), org.SetorRepo())
	modules := usecase.NewModuleService(org.ModuloRepo(), org.MunicipioRepo())
	f.uc = NewUseCase(Repos{
		Profissionais: f.saude.ProfissionalRepo(),
		Agendamentos:  f.saude.AgendamentoRepo(),
		Atendimentos:  f.saude.AtendimentoRepo(),
		Unidades:      org.UnidadeRepo(),
		Alunos:        edu.AlunoRepo(),
	}, hier, modules, f.auditor)
	f.uc.now = func() time.Time { return time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC) }
	return f
}

func hora(hh, mm int) time.Time { return time.Date(2026, 3, 10, hh, mm, 0, 0, time.UTC) }

func (f *fixture) profissional(t *testing.T, unidade, nome string) string {
	t.Helper()
	pr, err := f.uc.CreateProfissional(context.Background(), municipal, "", dto.ProfissionalSaudeRequest{
		UnidadeID: unidade,
		Nome:      nome,
		Cargo:     entity.CargoMedico,
	})
	require.NoError(t, err)
	return pr.ID
}

func (f *fixture) agendar(p rbac.Principal, unidade, prof string, ini, fim time.Time) (*dto.AgendamentoSaudeResponse, error) {
	return f.uc.CreateAgendamento(context.Background(), p, "", dto.AgendamentoSaudeRequest{
		UnidadeID:      unidade,
		ProfissionalID: prof,
		PacienteNome:   "José Alves",
		Inicio:         ini,
		Fim:            fim,
	})
}

func campo(err error) string {
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Field
	}
	var fe domain.FieldErrors
	if errors.As(err, &fe) && len(fe) == 1 {
		for k := range fe {
			return k
		}
	}
	return ""
}

func TestProfissional_UnidadeDeSaude(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.CreateProfissional(ctx, municipal, "", dto.ProfissionalSaudeRequest{UnidadeID: "u2", Nome: "Rita"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, "unidade_id", campo(err))

	pr, err := f.uc.CreateProfissional(ctx, municipal, "", dto.ProfissionalSaudeRequest{
		UnidadeID: "u1", Nome: " Rita Lopes ", CPF: "123.456.789-01",
	})
	require.NoError(t, err)
	assert.Equal(t, "Rita Lopes", pr.Nome)
	assert.Equal(t, "12345678901", pr.CPF)
	assert.Equal(t, entity.CargoOutros, pr.Cargo)
	assert.Equal(t, 20, pr.CargaHorariaSemanal)
	assert.Equal(t, "s1", pr.SecretariaID)
	assert.True(t, pr.Ativo)
	assert.Contains(t, f.auditor.Nomes(), "PROFISSIONAL_CRIADO")

	_, err = f.uc.CreateProfissional(ctx, municipal, "", dto.ProfissionalSaudeRequest{UnidadeID: "u1", Nome: "X", Cargo: "PILOTO"})
	assert.Equal(t, "cargo", campo(err))
}

func TestProfissional_EscopoDaUnidade(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p1 := f.profissional(t, "u1", "Ana")
	f.profissional(t, "u3", "Bruno")

	// usuário da unidade lota na própria unidade sem informar unidade_id
	pr, err := f.uc.CreateProfissional(ctx, postoU1, "", dto.ProfissionalSaudeRequest{Nome: "Clara"})
	require.NoError(t, err)
	assert.Equal(t, "u1", pr.UnidadeID)

	_, err = f.uc.CreateProfissional(ctx, postoU1, "", dto.ProfissionalSaudeRequest{UnidadeID: "u3", Nome: "Davi"})
	assert.Error(t, err)

	list, err := f.uc.ListProfissionais(ctx, postoU3, "", "", dto.ListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "Bruno", list.Items[0].Nome)

	list, err = f.uc.ListProfissionais(ctx, municipal, "", "", dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Page.Total)

	_, err = f.uc.GetProfissional(ctx, postoU3, p1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = f.uc.GetProfissional(ctx, vizinho, p1)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	inativo := false
	_, err = f.uc.UpdateProfissional(ctx, municipal, p1, dto.ProfissionalSaudeRequest{UnidadeID: "u1", Nome: "Ana", Ativo: &inativo})
	require.NoError(t, err)
	ativos := true
	list, err = f.uc.ListProfissionais(ctx, municipal, "", "u1", dto.ListQuery{Ativo: &ativos})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)
}

func TestAgendamento_ProfissionalDaUnidade(t *testing.T) {
	f := newFixture(t)
	prof := f.profissional(t, "u1", "Ana")

	_, err := f.agendar(municipal, "u3", prof, hora(9, 0), hora(9, 30))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "não pertence à unidade escolhida")

	_, err = f.agendar(municipal, "u1", prof, hora(9, 30), hora(9, 0))
	assert.Equal(t, "fim", campo(err))

	ag, err := f.agendar(municipal, "u1", prof, hora(9, 0), hora(9, 30))
	require.NoError(t, err)
	assert.Equal(t, entity.AgendamentoMarcado, ag.Status)
	assert.Equal(t, entity.AgendamentoPrimeiraConsulta, ag.Tipo)
}

func TestAgendamento_HorarioOcupado(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prof := f.profissional(t, "u1", "Ana")

	ag, err := f.agendar(municipal, "u1", prof, hora(9, 0), hora(9, 30))
	require.NoError(t, err)

	_, err = f.agendar(municipal, "u1", prof, hora(9, 15), hora(9, 45))
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.agendar(municipal, "u1", prof, hora(9, 30), hora(10, 0))
	require.NoError(t, err, "horário seguinte está livre")

	_, err = f.uc.AlterarStatusAgendamento(ctx, municipal, ag.ID, dto.AgendamentoStatusRequest{Status: entity.AgendamentoCancelado})
	assert.Equal(t, "motivo", campo(err))
	cancelado, err := f.uc.AlterarStatusAgendamento(ctx, municipal, ag.ID, dto.AgendamentoStatusRequest{
		Status: entity.AgendamentoCancelado, Motivo: "paciente desistiu",
	})
	require.NoError(t, err)
	assert.Equal(t, entity.AgendamentoCancelado, cancelado.Status)

	// cancelado libera o horário
	_, err = f.agendar(municipal, "u1", prof, hora(9, 0), hora(9, 30))
	require.NoError(t, err)

	_, err = f.uc.AlterarStatusAgendamento(ctx, municipal, ag.ID, dto.AgendamentoStatusRequest{Status: entity.AgendamentoConfirmado})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Contains(t, f.auditor.Nomes(), "AGENDAMENTO_CANCELADO")
}

func TestAgendamento_AlunoComoPaciente(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prof := f.profissional(t, "u1", "Ana")

	ag, err := f.uc.CreateAgendamento(ctx, municipal, "", dto.AgendamentoSaudeRequest{
		UnidadeID: "u1", ProfissionalID: prof, AlunoID: "al1", Inicio: hora(10, 0), Fim: hora(10, 20), Tipo: "retorno",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bia Souza", ag.PacienteNome)
	assert.Equal(t, entity.AgendamentoRetorno, ag.Tipo)

	_, err = f.uc.CreateAgendamento(ctx, municipal, "", dto.AgendamentoSaudeRequest{
		UnidadeID: "u1", ProfissionalID: prof, AlunoID: "al9", Inicio: hora(11, 0), Fim: hora(11, 20),
	})
	assert.Equal(t, "aluno_id", campo(err))
}

func TestAtendimento_FechaAgendamento(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prof := f.profissional(t, "u1", "Ana")
	outro := f.profissional(t, "u1", "Beto")
	ag, err := f.agendar(municipal, "u1", prof, hora(9, 0), hora(9, 30))
	require.NoError(t, err)

	_, err = f.uc.RegistrarAtendimento(ctx, municipal, "", dto.AtendimentoSaudeRequest{
		UnidadeID: "u1", ProfissionalID: outro, AgendamentoID: ag.ID,
	})
	assert.Equal(t, "agendamento_id", campo(err))

	at, err := f.uc.RegistrarAtendimento(ctx, postoU1, "", dto.AtendimentoSaudeRequest{
		UnidadeID: "u1", ProfissionalID: prof, AgendamentoID: ag.ID, CID: " j06.9 ",
	})
	require.NoError(t, err)
	assert.Equal(t, "José Alves", at.PacienteNome)
	assert.Equal(t, entity.AtendimentoConsulta, at.Tipo)
	assert.Equal(t, "J06.9", at.CID)
	assert.Equal(t, hora(8, 0), at.Data)

	got, err := f.uc.GetAgendamento(ctx, postoU1, ag.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.AgendamentoAtendido, got.Status)

	_, err = f.uc.RegistrarAtendimento(ctx, municipal, "", dto.AtendimentoSaudeRequest{
		UnidadeID: "u1", ProfissionalID: prof, AgendamentoID: ag.ID,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.Len(t, f.saude.Atendimentos, 1)

	_, err = f.uc.GetAtendimento(ctx, postoU3, at.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	list, err := f.uc.ListAtendimentos(ctx, postoU1, "", "", dto.ListQuery{Tipo: "consulta"})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Page.Total)
}

func TestAtendimento_SemAgendamento(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	prof := f.profissional(t, "u3", "Ana")

	_, err := f.uc.RegistrarAtendimento(ctx, postoU3, "", dto.AtendimentoSaudeRequest{UnidadeID: "u3", ProfissionalID: prof})
	assert.Equal(t, "paciente_nome", campo(err))

	at, err := f.uc.RegistrarAtendimento(ctx, postoU3, "", dto.AtendimentoSaudeRequest{
		UnidadeID: "u3", ProfissionalID: prof, PacienteNome: "Lia", Tipo: entity.AtendimentoVacina,
	})
	require.NoError(t, err)
	assert.Empty(t, at.AgendamentoID)

	list, err := f.uc.ListAtendimentos(ctx, postoU1, "", "", dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Page.Total)
	list, err = f.uc.ListAtendimentos(ctx, vizinho, "", "", dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 0, list.Page.Total)
}
