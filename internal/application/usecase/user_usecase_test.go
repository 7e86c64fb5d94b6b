package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gepub/gepub-api/internal/application/auth"
	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/testutil/memory"
	"github.com/gepub/gepub-api/pkg/logger"
)

var (
	gestorMunicipal  = rbac.Principal{UserID: "gestor", Role: entity.RoleMunicipal, MunicipioID: "m1"}
	gestorSecretaria = rbac.Principal{UserID: "sec-s1", Role: entity.RoleSecretaria, MunicipioID: "m1", SecretariaID: "s1"}
)

func seedOrg() *memory.Org {
	o := memory.NewOrg()
	o.Seed("m1", "s1", "u1", "st1")
	o.Seed("m1", "s2", "u3", "")
	o.Seed("m2", "s9", "u9", "")
	return o
}

func newUserUseCase(t *testing.T) (*UserUseCase, *memory.Usuarios) {
	t.Helper()
	o := seedOrg()
	users := memory.NewUsuarios()
	users.Add(&entity.Usuario{ID: "gestor", Nome: "Gestor", Username: "gestor", CodigoAcesso: "gestor-2026", Role: entity.RoleMunicipal, MunicipioID: "m1", Ativo: true})
	users.Add(&entity.Usuario{ID: "sec-s1", Nome: "Sec S1", Username: "sec", CodigoAcesso: "sec.s1-2026", Role: entity.RoleSecretaria, MunicipioID: "m1", SecretariaID: "s1", Ativo: true})
	uc := NewUserUseCase(users.Repo(), users.AuditRepo(), o.SecretariaRepo(), o.UnidadeRepo(), o.SetorRepo(), logger.Nop())
	uc.now = func() time.Time { return time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC) }
	return uc, users
}

func fieldErr(t *testing.T, err error) string {
	t.Helper()
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve), "esperava ValidationError, veio %v", err)
	return ve.Field
}

func TestUserCreate_CodigoESenhaInicial(t *testing.T) {
	uc, users := newUserUseCase(t)
	ctx := context.Background()

	res, err := uc.Create(ctx, gestorMunicipal, dto.CreateUsuarioRequest{Nome: "José da Silva", Role: entity.RoleSecretaria, SecretariaID: "s1", CPF: "123.456.789-09"})
	require.NoError(t, err)
	assert.Equal(t, "jose.da.silva-2026", res.CodigoAcesso)
	assert.Equal(t, "jose.da.silva-2026", res.User.Username)
	assert.Equal(t, "m1", res.User.MunicipioID)
	assert.True(t, res.User.MustChangePassword)
	assert.Len(t, res.SenhaInicial, senhaInicialLen)

	stored := users.Users[res.User.ID]
	assert.Equal(t, "12345678909", stored.CPF)
	assert.True(t, auth.CheckPassword(stored.PasswordHash, res.SenhaInicial))

	outro, err := uc.Create(ctx, gestorMunicipal, dto.CreateUsuarioRequest{Nome: "Jose da Silva", Role: entity.RoleUnidade, UnidadeID: "u3"})
	require.NoError(t, err)
	assert.Equal(t, "jose.da.silva-2-2026", outro.CodigoAcesso)
	// unidade completa a secretaria
	assert.Equal(t, "s2", outro.User.SecretariaID)

	assert.Equal(t, []string{entity.UserActionCreate, entity.UserActionCreate}, users.Acoes())
}

func TestUserCreate_Perfil(t *testing.T) {
	uc, _ := newUserUseCase(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		actor rbac.Principal
		in    dto.CreateUsuarioRequest
		field string
	}{
		{"papel acima", gestorMunicipal, dto.CreateUsuarioRequest{Nome: "A", Role: entity.RoleMunicipal}, "role"},
		{"papel inexistente", gestorMunicipal, dto.CreateUsuarioRequest{Nome: "A", Role: "ROOT"}, "role"},
		{"sem secretaria", gestorMunicipal, dto.CreateUsuarioRequest{Nome: "A", Role: entity.RoleSecretaria}, "secretaria_id"},
		{"secretaria inexistente", gestorMunicipal, dto.CreateUsuarioRequest{Nome: "A", Role: entity.RoleSecretaria, SecretariaID: "sx"}, "secretaria_id"},
		{"secretaria de outro municipio", gestorMunicipal, dto.CreateUsuarioRequest{Nome: "A", Role: entity.RoleSecretaria, SecretariaID: "s9"}, "secretaria_id"},
		{"unidade de outra secretaria", gestorSecretaria, dto.CreateUsuarioRequest{Nome: "A", Role: entity.RoleUnidade, UnidadeID: "u3"}, "unidade_id"},
		{"unidade sem id", gestorMunicipal, dto.CreateUsuarioRequest{Nome: "A", Role: entity.RoleUnidade}, "unidade_id"},
		{"setor inexistente", gestorMunicipal, dto.CreateUsuarioRequest{Nome: "A", Role: entity.RoleLeitura, SetorID: "stx"}, "setor_id"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := uc.Create(ctx, c.actor, c.in)
			assert.Equal(t, c.field, fieldErr(t, err))
		})
	}

	_, err := uc.Create(ctx, rbac.Principal{UserID: "x", Role: entity.RoleLeitura, MunicipioID: "m1"}, dto.CreateUsuarioRequest{Nome: "A", Role: entity.RoleLeitura})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// setor completa unidade e secretaria
	res, err := uc.Create(ctx, gestorSecretaria, dto.CreateUsuarioRequest{Nome: "Setorial", Role: entity.RoleLeitura, SetorID: "st1"})
	require.NoError(t, err)
	assert.Equal(t, "u1", res.User.UnidadeID)
	assert.Equal(t, "s1", res.User.SecretariaID)
}

func TestUserCreate_UsernameEmUso(t *testing.T) {
	uc, _ := newUserUseCase(t)
	_, err := uc.Create(context.Background(), gestorMunicipal, dto.CreateUsuarioRequest{Nome: "Outro", Username: "SEC", Role: entity.RoleLeitura})
	assert.Equal(t, "username", fieldErr(t, err))
}

func TestUser_EscopoEGestao(t *testing.T) {
	uc, users := newUserUseCase(t)
	ctx := context.Background()

	alvo, err := uc.Create(ctx, gestorMunicipal, dto.CreateUsuarioRequest{Nome: "Ana Lima", Role: entity.RoleUnidade, UnidadeID: "u3"})
	require.NoError(t, err)
	id := alvo.User.ID

	_, err = uc.Get(ctx, gestorSecretaria, id)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.ToggleAtivo(ctx, gestorMunicipal, "gestor")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	// papel igual ao do gestor não é gerenciável
	par, err := uc.Create(ctx, gestorMunicipal, dto.CreateUsuarioRequest{Nome: "Par", Role: entity.RoleSecretaria, SecretariaID: "s1"})
	require.NoError(t, err)
	_, err = uc.ToggleAtivo(ctx, gestorSecretaria, par.User.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	bloq, err := uc.ToggleBloqueio(ctx, gestorMunicipal, id)
	require.NoError(t, err)
	assert.True(t, bloq.Bloqueado)

	senha, err := uc.ResetSenha(ctx, gestorMunicipal, id)
	require.NoError(t, err)
	assert.True(t, senha.User.MustChangePassword)
	assert.True(t, auth.CheckPassword(users.Users[id].PasswordHash, senha.SenhaInicial))
	assert.False(t, auth.CheckPassword(users.Users[id].PasswordHash, alvo.SenhaInicial))

	uc.now = func() time.Time { return time.Date(2027, 1, 10, 9, 0, 0, 0, time.UTC) }
	cod, err := uc.ResetCodigo(ctx, gestorMunicipal, id)
	require.NoError(t, err)
	assert.Equal(t, "ana.lima-2027", cod.CodigoAcesso)
	assert.Empty(t, cod.SenhaInicial)

	trilha, err := uc.Auditoria(ctx, gestorMunicipal, id)
	require.NoError(t, err)
	require.Len(t, trilha, 4)
	assert.Equal(t, entity.UserActionResetCodigo, trilha[0].Action)
	assert.Equal(t, entity.UserActionResetSenha, trilha[1].Action)
	assert.Equal(t, entity.UserActionToggleBloqueio, trilha[2].Action)
	assert.Equal(t, entity.UserActionCreate, trilha[3].Action)
	assert.Equal(t, "ana.lima-2026 -> ana.lima-2027", trilha[0].Details)
}

func TestUserUpdate_TrocaDePapel(t *testing.T) {
	uc, _ := newUserUseCase(t)
	ctx := context.Background()

	alvo, err := uc.Create(ctx, gestorMunicipal, dto.CreateUsuarioRequest{Nome: "Caio", Role: entity.RoleLeitura})
	require.NoError(t, err)

	papel := entity.RoleMunicipal
	_, err = uc.Update(ctx, gestorMunicipal, alvo.User.ID, dto.UpdateUsuarioRequest{Role: &papel})
	assert.Equal(t, "role", fieldErr(t, err))

	papel = entity.RoleSecretaria
	_, err = uc.Update(ctx, gestorMunicipal, alvo.User.ID, dto.UpdateUsuarioRequest{Role: &papel})
	assert.Equal(t, "secretaria_id", fieldErr(t, err))

	sec := "s2"
	nome := "  Caio Souza "
	res, err := uc.Update(ctx, gestorMunicipal, alvo.User.ID, dto.UpdateUsuarioRequest{Role: &papel, SecretariaID: &sec, Nome: &nome})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleSecretaria, res.Role)
	assert.Equal(t, "Caio Souza", res.Nome)
	assert.Equal(t, "s2", res.SecretariaID)
}

func TestUserList(t *testing.T) {
	uc, _ := newUserUseCase(t)
	ctx := context.Background()

	a, err := uc.Create(ctx, gestorMunicipal, dto.CreateUsuarioRequest{Nome: "Beatriz", Role: entity.RoleLeitura, SecretariaID: "s1"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, gestorMunicipal, dto.CreateUsuarioRequest{Nome: "Carlos", Role: entity.RoleLeitura, SecretariaID: "s2"})
	require.NoError(t, err)
	_, err = uc.ToggleBloqueio(ctx, gestorMunicipal, a.User.ID)
	require.NoError(t, err)

	all, err := uc.List(ctx, gestorMunicipal, dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 4, all.Page.Total)

	bloq, err := uc.List(ctx, gestorMunicipal, dto.ListQuery{Status: "Bloqueado"})
	require.NoError(t, err)
	require.Len(t, bloq.Items, 1)
	assert.Equal(t, "Beatriz", bloq.Items[0].Nome)

	doS1, err := uc.List(ctx, gestorSecretaria, dto.ListQuery{Tipo: entity.RoleLeitura})
	require.NoError(t, err)
	require.Len(t, doS1.Items, 1)
	assert.Equal(t, "Beatriz", doS1.Items[0].Nome)

	_, err = uc.List(ctx, rbac.Principal{UserID: "l", Role: entity.RoleLeitura, MunicipioID: "m1"}, dto.ListQuery{})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	tab, err := uc.Tabela(ctx, gestorMunicipal, dto.ListQuery{Status: "bloqueado"})
	require.NoError(t, err)
	require.Len(t, tab.Linhas, 1)
	assert.Equal(t, "Bloqueado", tab.Linhas[0][len(tab.Linhas[0])-1])
}
