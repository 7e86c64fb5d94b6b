package auth

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/domain"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/testutil/memory"
	"github.com/gepub/gepub-api/pkg/jwt"
	"github.com/gepub/gepub-api/pkg/logger"
)

const testSecret = "segredo-de-teste"

type limiterStub struct {
	mu     sync.Mutex
	max    int
	counts map[string]int
	down   bool
}

func (l *limiterStub) Locked(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.down {
		return false, errors.New("redis fora")
	}
	return l.counts[key] >= l.max, nil
}

func (l *limiterStub) Fail(_ context.Context, key string) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.down {
		return 0, errors.New("redis fora")
	}
	l.counts[key]++
	return l.counts[key], nil
}

func (l *limiterStub) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.counts, key)
	return nil
}

type modulesStub map[string]bool

func (m modulesStub) EnabledModules(context.Context, rbac.Principal) (map[string]bool, error) {
	return m, nil
}

type fixture struct {
	uc      *AuthUseCase
	users   *memory.Usuarios
	limiter *limiterStub
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{users: memory.NewUsuarios(), limiter: &limiterStub{max: 3, counts: map[string]int{}}}
	hash, err := HashPassword("senha-inicial")
	require.NoError(t, err)
	f.users.Add(&entity.Usuario{
		ID:                 "u1",
		Username:           "Maria",
		Nome:               "Maria Souza",
		PasswordHash:       hash,
		Role:               entity.RoleSecretaria,
		MunicipioID:        "m1",
		SecretariaID:       "s1",
		CPF:                "12345678909",
		CodigoAcesso:       "maria.souza-2026",
		Ativo:              true,
		MustChangePassword: true,
	})
	mods := modulesStub{rbac.ModAlmoxarifado: true, rbac.ModFolha: false}
	f.uc = NewAuthUseCase(f.users.Repo(), f.limiter, mods, JWTConfig{Secret: testSecret, ExpMinutes: 30, Issuer: "gepub-test"}, logger.Nop())
	f.uc.now = func() time.Time { return time.Date(2026, 1, 5, 8, 0, 0, 0, time.UTC) }
	return f
}

func TestLogin_PorCodigoEUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	res, err := f.uc.Login(ctx, "10.0.0.1", dto.LoginRequest{CodigoAcesso: "maria.souza-2026", Password: "senha-inicial"})
	require.NoError(t, err)
	assert.True(t, res.MustChangePassword)
	assert.Equal(t, "u1", res.User.ID)
	require.NotNil(t, res.User.LastLoginAt)

	claims, err := jwt.Parse(testSecret, res.Token)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, entity.RoleSecretaria, claims.Role)
	assert.Equal(t, "s1", claims.SecretariaID)
	assert.True(t, claims.MustChangePassword)

	_, err = f.uc.Login(ctx, "10.0.0.1", dto.LoginRequest{Username: "MARIA", Password: "senha-inicial"})
	require.NoError(t, err)

	_, err = f.uc.Login(ctx, "10.0.0.1", dto.LoginRequest{Password: "x"})
	var ve *domain.ValidationError
	require.True(t, errors.As(err, &ve))
	assert.Equal(t, "codigo_acesso", ve.Field)
}

func TestLogin_BloqueioPorTentativas(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	req := dto.LoginRequest{CodigoAcesso: "maria.souza-2026", Password: "errada"}

	for i := 0; i < 3; i++ {
		_, err := f.uc.Login(ctx, "10.0.0.9", req)
		assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	}
	// mesmo com a senha certa, o par (ip, login) fica travado
	_, err := f.uc.Login(ctx, "10.0.0.9", dto.LoginRequest{CodigoAcesso: "maria.souza-2026", Password: "senha-inicial"})
	assert.ErrorIs(t, err, domain.ErrLocked)

	// outro IP segue livre e o sucesso zera o contador dele
	_, err = f.uc.Login(ctx, "10.0.0.10", dto.LoginRequest{CodigoAcesso: "MARIA.SOUZA-2026", Password: "errada"})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = f.uc.Login(ctx, "10.0.0.10", dto.LoginRequest{Username: "maria", Password: "senha-inicial"})
	require.NoError(t, err)
	assert.Equal(t, 3, f.limiter.counts[LockKey("10.0.0.9", "maria.souza-2026")])
}

func TestLogin_LimiterIndisponivel(t *testing.T) {
	f := newFixture(t)
	f.limiter.down = true
	_, err := f.uc.Login(context.Background(), "10.0.0.1", dto.LoginRequest{CodigoAcesso: "maria.souza-2026", Password: "senha-inicial"})
	require.NoError(t, err)
}

func TestLogin_ContaInativa(t *testing.T) {
	f := newFixture(t)
	f.users.Users["u1"].Bloqueado = true
	_, err := f.uc.Login(context.Background(), "10.0.0.1", dto.LoginRequest{CodigoAcesso: "maria.souza-2026", Password: "senha-inicial"})
	assert.ErrorIs(t, err, domain.ErrAccountInactive)
}

func TestChangePassword(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		in    dto.ChangePasswordRequest
		field string
	}{
		{"senha atual errada", dto.ChangePasswordRequest{CurrentPassword: "x", NewPassword: "nova-senha-1"}, "current_password"},
		{"curta", dto.ChangePasswordRequest{CurrentPassword: "senha-inicial", NewPassword: "curta"}, "new_password"},
		{"igual", dto.ChangePasswordRequest{CurrentPassword: "senha-inicial", NewPassword: "senha-inicial"}, "new_password"},
		{"cpf", dto.ChangePasswordRequest{CurrentPassword: "senha-inicial", NewPassword: "12345678909"}, "new_password"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			_, err := f.uc.ChangePassword(ctx, "u1", c.in)
			var ve *domain.ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, c.field, ve.Field)
		})
	}

	res, err := f.uc.ChangePassword(ctx, "u1", dto.ChangePasswordRequest{CurrentPassword: "senha-inicial", NewPassword: "nova-senha-1"})
	require.NoError(t, err)
	assert.False(t, res.User.MustChangePassword)
	claims, err := jwt.Parse(testSecret, res.Token)
	require.NoError(t, err)
	assert.False(t, claims.MustChangePassword)

	stored := f.users.Users["u1"]
	assert.False(t, stored.MustChangePassword)
	assert.True(t, CheckPassword(stored.PasswordHash, "nova-senha-1"))

	_, err = f.uc.ChangePassword(ctx, "nao-existe", dto.ChangePasswordRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMe(t *testing.T) {
	f := newFixture(t)
	me, err := f.uc.Me(context.Background(), rbac.Principal{UserID: "u1", Role: entity.RoleSecretaria, MunicipioID: "m1"})
	require.NoError(t, err)
	assert.Equal(t, "Maria Souza", me.User.Nome)
	assert.Contains(t, me.Perms, "almoxarifado.manage")
	assert.NotContains(t, me.Perms, "accounts.admin")
	assert.True(t, me.Modulos[rbac.ModAlmoxarifado])
}

func TestCheckPassword_HashVazio(t *testing.T) {
	assert.False(t, CheckPassword("", ""))
}
