package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	apphttp "github.com/gepub/gepub-api/internal/interfaces/http"
	"github.com/gepub/gepub-api/internal/testutil/memory"
	pkgjwt "github.com/gepub/gepub-api/pkg/jwt"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de teste
// ──────────────────────────────────────────────────────────────────────────────

const (
	testJWTSecret   = "test-secret-key-for-unit-tests"
	testUserID      = "00000000-0000-0000-0000-000000000001"
	testMunicipioID = "00000000-0000-0000-0000-000000000002"
	testIssuer      = "gepub-test"
	testExpMin      = 60
)

func newTestApp() *fiber.App {
	return fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler})
}

func ok(c *fiber.Ctx) error {
	p := apphttp.GetPrincipal(c)
	return c.JSON(fiber.Map{"ok": true, "role": p.Role, "user_id": p.UserID, "municipio_id": p.MunicipioID})
}

// testAuth base de usuários em memória e o AuthMiddleware ligado a ela.
type testAuth struct {
	users *memory.Usuarios
	mw    fiber.Handler
}

func newTestAuth() *testAuth {
	users := memory.NewUsuarios()
	return &testAuth{users: users, mw: apphttp.AuthMiddleware(testJWTSecret, users.Repo())}
}

// tokenFor grava o usuário de teste com o papel indicado e gera o JWT correspondente.
func (a *testAuth) tokenFor(t *testing.T, role string, mustChange bool) string {
	t.Helper()
	a.users.Add(&entity.Usuario{
		ID:                 testUserID,
		Username:           "teste",
		Role:               role,
		MunicipioID:        testMunicipioID,
		Ativo:              true,
		MustChangePassword: mustChange,
	})
	return bearer(t, role, mustChange)
}

// bearer gera só o token, sem tocar no cadastro.
func bearer(t *testing.T, role string, mustChange bool) string {
	t.Helper()
	tok, err := pkgjwt.Generate(testJWTSecret, testIssuer, testExpMin, pkgjwt.Subject{
		UserID:             testUserID,
		Role:               role,
		MunicipioID:        testMunicipioID,
		MustChangePassword: mustChange,
	})
	require.NoError(t, err, "deve gerar um token JWT válido")
	return "Bearer " + tok
}

// alterar muda o cadastro do usuário de teste depois da emissão do token.
func (a *testAuth) alterar(fn func(u *entity.Usuario)) {
	u := *a.users.Users[testUserID]
	fn(&u)
	a.users.Add(&u)
}

func doGet(t *testing.T, app *fiber.App, path, authHeader string) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func errorCode(t *testing.T, resp *http.Response) string {
	t.Helper()
	var body struct {
		Code string `json:"code"`
	}
	raw, _ := io.ReadAll(resp.Body)
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return body.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// AuthMiddleware
// ──────────────────────────────────────────────────────────────────────────────

func TestAuthMiddleware_CarregaPrincipal(t *testing.T) {
	a := newTestAuth()
	app := newTestApp()
	app.Get("/me", a.mw, ok)

	resp := doGet(t, app, "/me", a.tokenFor(t, entity.RoleMunicipal, false))
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, testUserID, body["user_id"])
	assert.Equal(t, entity.RoleMunicipal, body["role"])
	assert.Equal(t, testMunicipioID, body["municipio_id"])
}

func TestAuthMiddleware_SemHeader(t *testing.T) {
	app := newTestApp()
	app.Get("/me", newTestAuth().mw, ok)

	resp := doGet(t, app, "/me", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "MISSING_TOKEN", errorCode(t, resp))
}

func TestAuthMiddleware_TokenInvalido(t *testing.T) {
	app := newTestApp()
	app.Get("/me", newTestAuth().mw, ok)

	for _, h := range []string{"Bearer token.invalido.aqui", "Basic abc", "Token"} {
		resp := doGet(t, app, "/me", h)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, h)
		assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp), h)
		resp.Body.Close()
	}
}

func TestAuthMiddleware_SegredoErrado(t *testing.T) {
	a := newTestAuth()
	app := newTestApp()
	app.Get("/me", apphttp.AuthMiddleware("outro-segredo", a.users.Repo()), ok)

	resp := doGet(t, app, "/me", a.tokenFor(t, entity.RoleAdmin, false))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthMiddleware_PapelDoCadastroAtual(t *testing.T) {
	a := newTestAuth()
	app := newTestApp()
	app.Get("/org", a.mw, apphttp.RequirePerm("org.admin"), ok)

	tok := a.tokenFor(t, entity.RoleMunicipal, false)
	a.alterar(func(u *entity.Usuario) { u.Role = entity.RoleLeitura })

	resp := doGet(t, app, "/org", tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "rebaixado para LEITURA depois do login")
	assert.Equal(t, apphttp.CodeForbidden, errorCode(t, resp))
}

func TestAuthMiddleware_ContaBloqueadaOuInativa(t *testing.T) {
	tests := []struct {
		name  string
		mudar func(u *entity.Usuario)
	}{
		{"bloqueada", func(u *entity.Usuario) { u.Bloqueado = true }},
		{"inativa", func(u *entity.Usuario) { u.Ativo = false }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAuth()
			app := newTestApp()
			app.Get("/me", a.mw, ok)

			tok := a.tokenFor(t, entity.RoleLeitura, false)
			a.alterar(tt.mudar)

			resp := doGet(t, app, "/me", tok)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusForbidden, resp.StatusCode)
			assert.Equal(t, apphttp.CodeAccountInactive, errorCode(t, resp))
		})
	}
}

func TestAuthMiddleware_UsuarioRemovido(t *testing.T) {
	app := newTestApp()
	app.Get("/me", newTestAuth().mw, ok)

	resp := doGet(t, app, "/me", bearer(t, entity.RoleAdmin, false))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "INVALID_TOKEN", errorCode(t, resp))
}

type usersFalhando struct{}

func (usersFalhando) GetByID(context.Context, string) (*entity.Usuario, error) {
	return nil, errors.New("db down")
}

func TestAuthMiddleware_FalhaAoCarregarUsuario(t *testing.T) {
	app := newTestApp()
	app.Get("/me", apphttp.AuthMiddleware(testJWTSecret, usersFalhando{}), ok)

	resp := doGet(t, app, "/me", bearer(t, entity.RoleAdmin, false))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, apphttp.CodeServiceUnavailable, errorCode(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// RequirePasswordChanged
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePasswordChanged(t *testing.T) {
	a := newTestAuth()
	app := newTestApp()
	g := app.Group("/api", a.mw, apphttp.RequirePasswordChanged("/api/auth/me"))
	g.Get("/auth/me", ok)
	g.Get("/almoxarifado/itens", ok)

	pendente := a.tokenFor(t, entity.RoleUnidade, true)

	resp := doGet(t, app, "/api/auth/me", pendente)
	assert.Equal(t, http.StatusOK, resp.StatusCode, "rota liberada durante a troca de senha")
	resp.Body.Close()

	resp = doGet(t, app, "/api/almoxarifado/itens", pendente)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, apphttp.CodePasswordChange, errorCode(t, resp))
	resp.Body.Close()

	resp = doGet(t, app, "/api/almoxarifado/itens", a.tokenFor(t, entity.RoleUnidade, false))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()
}

func TestRequirePasswordChanged_SenhaResetadaDepoisDoLogin(t *testing.T) {
	a := newTestAuth()
	app := newTestApp()
	app.Get("/api/almoxarifado/itens", a.mw, apphttp.RequirePasswordChanged(), ok)

	tok := a.tokenFor(t, entity.RoleLeitura, false)

	resp := doGet(t, app, "/api/almoxarifado/itens", tok)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	a.alterar(func(u *entity.Usuario) { u.MustChangePassword = true })

	resp = doGet(t, app, "/api/almoxarifado/itens", tok)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode, "o token antigo não dispensa a troca")
	assert.Equal(t, apphttp.CodePasswordChange, errorCode(t, resp))
}

// ──────────────────────────────────────────────────────────────────────────────
// RequirePerm / RequireRole
// ──────────────────────────────────────────────────────────────────────────────

func TestRequirePerm(t *testing.T) {
	tests := []struct {
		name string
		role string
		perm string
		want int
	}{
		{"admin acessa tudo", entity.RoleAdmin, "org.admin", http.StatusOK},
		{"municipal administra folha", entity.RoleMunicipal, "folha.admin", http.StatusOK},
		{"secretaria só vê folha", entity.RoleSecretaria, "folha.manage", http.StatusForbidden},
		{"manage implica view", entity.RoleUnidade, "almoxarifado.view", http.StatusOK},
		{"leitura não altera", entity.RoleLeitura, "almoxarifado.manage", http.StatusForbidden},
		{"professor sem almoxarifado", entity.RoleProfessor, "almoxarifado.view", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := newTestAuth()
			app := newTestApp()
			app.Get("/r", a.mw, apphttp.RequirePerm(tt.perm), ok)

			resp := doGet(t, app, "/r", a.tokenFor(t, tt.role, false))
			defer resp.Body.Close()
			assert.Equal(t, tt.want, resp.StatusCode)
			if tt.want == http.StatusForbidden {
				assert.Equal(t, apphttp.CodeForbidden, errorCode(t, resp))
			}
		})
	}
}

func TestRequirePerm_SemAutenticacao(t *testing.T) {
	app := newTestApp()
	app.Get("/r", apphttp.RequirePerm("org.view"), ok)

	resp := doGet(t, app, "/r", "")
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRequireRole(t *testing.T) {
	a := newTestAuth()
	app := newTestApp()
	app.Get("/r", a.mw, apphttp.RequireRole(entity.RoleAdmin), ok)

	resp := doGet(t, app, "/r", a.tokenFor(t, entity.RoleAdmin, false))
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doGet(t, app, "/r", a.tokenFor(t, entity.RoleMunicipal, false))
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	resp.Body.Close()
}

// ──────────────────────────────────────────────────────────────────────────────
// RequireModule
// ──────────────────────────────────────────────────────────────────────────────

type moduleFake struct {
	ativos map[string]bool
	err    error
}

func (f moduleFake) HasActiveModule(_ context.Context, _ rbac.Principal, module string) (bool, error) {
	return f.ativos[module], f.err
}

func TestRequireModule(t *testing.T) {
	checker := moduleFake{ativos: map[string]bool{rbac.ModAlmoxarifado: true}}
	a := newTestAuth()
	app := newTestApp()
	app.Get("/almox", a.mw, apphttp.RequireModule(rbac.ModAlmoxarifado, checker), ok)
	app.Get("/folha", a.mw, apphttp.RequireModule(rbac.ModFolha, checker), ok)

	tok := a.tokenFor(t, entity.RoleMunicipal, false)

	resp := doGet(t, app, "/almox", tok)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = doGet(t, app, "/folha", tok)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, apphttp.CodeModuleDisabled, errorCode(t, resp))
	resp.Body.Close()
}

func TestRequireModule_FalhaNoCatalogo(t *testing.T) {
	a := newTestAuth()
	app := newTestApp()
	app.Get("/almox", a.mw, apphttp.RequireModule(rbac.ModAlmoxarifado, moduleFake{err: errors.New("db down")}), ok)

	resp := doGet(t, app, "/almox", a.tokenFor(t, entity.RoleMunicipal, false))
	defer resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "MODULE_CHECK_FAILED", errorCode(t, resp))
}
