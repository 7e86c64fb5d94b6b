package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/testutil/memory"
)

var admin = rbac.Principal{UserID: "root", Role: entity.RoleAdmin}

func newOrgUseCase() (*OrgUseCase, *memory.Org, *memory.Auditor) {
	o := seedOrg()
	aud := &memory.Auditor{}
	modules := NewModuleService(o.ModuloRepo(), o.MunicipioRepo())
	return NewOrgUseCase(o.MunicipioRepo(), o.SecretariaRepo(), o.UnidadeRepo(), o.SetorRepo(), o.ModuloRepo(), modules, aud), o, aud
}

func TestCreateMunicipio(t *testing.T) {
	uc, _, aud := newOrgUseCase()
	ctx := context.Background()

	_, err := uc.CreateMunicipio(ctx, gestorMunicipal, dto.MunicipioRequest{Nome: "Outro"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	m, err := uc.CreateMunicipio(ctx, admin, dto.MunicipioRequest{Nome: "São José de Ribamar", UF: "ma"})
	require.NoError(t, err)
	assert.Equal(t, "sao-jose-de-ribamar", m.SlugSite)
	assert.Equal(t, "MA", m.UF)
	assert.True(t, m.Ativo)

	// slug informado já em uso ganha sufixo
	m2, err := uc.CreateMunicipio(ctx, admin, dto.MunicipioRequest{Nome: "Paço do Lumiar", SlugSite: "m1"})
	require.NoError(t, err)
	assert.Equal(t, "m1-2", m2.SlugSite)

	_, err = uc.CreateMunicipio(ctx, admin, dto.MunicipioRequest{Nome: "são josé de ribamar"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	assert.Equal(t, []string{"MUNICIPIO_CRIADO", "MUNICIPIO_CRIADO"}, aud.Nomes())
	assert.Equal(t, m.ID, aud.Eventos[0].MunicipioID)
	assert.Equal(t, "ORG", aud.Eventos[0].Modulo)
}

func TestMunicipio_Escopo(t *testing.T) {
	uc, _, _ := newOrgUseCase()
	ctx := context.Background()

	_, err := uc.GetMunicipio(ctx, gestorMunicipal, "m2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.ListMunicipios(ctx, gestorMunicipal, dto.ListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "m1", list.Items[0].ID)

	all, err := uc.ListMunicipios(ctx, admin, dto.ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.Page.Total)

	assert.ErrorIs(t, uc.DeleteMunicipio(ctx, gestorMunicipal, "m1"), domain.ErrForbidden)
	assert.ErrorIs(t, uc.DeleteMunicipio(ctx, admin, "m1"), domain.ErrInUse)
}

func TestSecretaria(t *testing.T) {
	uc, _, aud := newOrgUseCase()
	ctx := context.Background()

	// município do token prevalece sobre o informado
	s, err := uc.CreateSecretaria(ctx, gestorMunicipal, dto.SecretariaRequest{MunicipioID: "m2", Nome: " Saúde ", Sigla: "sms"})
	require.NoError(t, err)
	assert.Equal(t, "m1", s.MunicipioID)
	assert.Equal(t, "Saúde", s.Nome)
	assert.Equal(t, "SMS", s.Sigla)
	assert.True(t, s.Ativo)

	_, err = uc.GetSecretaria(ctx, gestorSecretaria, "s2")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := uc.ListSecretarias(ctx, gestorSecretaria, "", dto.ListQuery{})
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Equal(t, "s1", list.Items[0].ID)

	assert.ErrorIs(t, uc.DeleteSecretaria(ctx, gestorMunicipal, "s2"), domain.ErrInUse)
	require.NoError(t, uc.DeleteSecretaria(ctx, gestorMunicipal, s.ID))
	assert.Equal(t, []string{"SECRETARIA_CRIADA", "SECRETARIA_REMOVIDA"}, aud.Nomes())
}

func TestUnidadeESetor(t *testing.T) {
	uc, _, _ := newOrgUseCase()
	ctx := context.Background()

	_, err := uc.CreateUnidade(ctx, gestorMunicipal, dto.UnidadeRequest{SecretariaID: "s1", Nome: "Escola", Tipo: "ESCOLA"})
	assert.Equal(t, "tipo", fieldErr(t, err))

	_, err = uc.CreateUnidade(ctx, gestorSecretaria, dto.UnidadeRequest{SecretariaID: "s2", Nome: "Escola", Tipo: entity.UnidadeEducacao})
	assert.Equal(t, "secretaria_id", fieldErr(t, err))

	u, err := uc.CreateUnidade(ctx, gestorSecretaria, dto.UnidadeRequest{SecretariaID: "s1", Nome: "EM Centro", Tipo: entity.UnidadeEducacao})
	require.NoError(t, err)
	assert.Equal(t, "m1", u.MunicipioID)

	_, err = uc.CreateSetor(ctx, gestorSecretaria, dto.SetorRequest{UnidadeID: "u3", Nome: "Secretaria escolar"})
	assert.Equal(t, "unidade_id", fieldErr(t, err))

	st, err := uc.CreateSetor(ctx, gestorSecretaria, dto.SetorRequest{UnidadeID: u.ID, Nome: "Secretaria escolar"})
	require.NoError(t, err)
	assert.Equal(t, "s1", st.SecretariaID)

	assert.ErrorIs(t, uc.DeleteUnidade(ctx, gestorSecretaria, u.ID), domain.ErrInUse)
	require.NoError(t, uc.DeleteSetor(ctx, gestorSecretaria, st.ID))
	require.NoError(t, uc.DeleteUnidade(ctx, gestorSecretaria, u.ID))

	unidade := rbac.Principal{UserID: "x", Role: entity.RoleUnidade, MunicipioID: "m1", SecretariaID: "s1", UnidadeID: "u1"}
	_, err = uc.GetUnidade(ctx, unidade, "u1")
	require.NoError(t, err)
	_, err = uc.GetUnidade(ctx, unidade, "u3")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestModulosDoMunicipio(t *testing.T) {
	uc, o, _ := newOrgUseCase()
	ctx := context.Background()

	_, err := uc.SetMunicipioModulos(ctx, gestorMunicipal, "m1", dto.ModulosRequest{Modulos: map[string]bool{"estoque": true}})
	assert.Equal(t, "modulos", fieldErr(t, err))

	res, err := uc.SetMunicipioModulos(ctx, gestorMunicipal, "m1", dto.ModulosRequest{Modulos: map[string]bool{" Almoxarifado ": true, "FOLHA": false}})
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{rbac.ModAlmoxarifado: true, rbac.ModFolha: false}, res.Modulos)
	assert.Equal(t, map[string]bool{rbac.ModAlmoxarifado: true, rbac.ModFolha: false}, o.ModulosMun["m1"])

	_, err = uc.SetMunicipioModulos(ctx, gestorMunicipal, "m2", dto.ModulosRequest{Modulos: map[string]bool{rbac.ModFolha: true}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	sec, err := uc.SetSecretariaModulos(ctx, gestorMunicipal, "s1", dto.ModulosRequest{Modulos: map[string]bool{rbac.ModNEE: true}})
	require.NoError(t, err)
	assert.Equal(t, "s1", sec.OwnerID)
	assert.True(t, sec.Modulos[rbac.ModNEE])
}
