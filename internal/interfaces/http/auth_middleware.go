package http

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/pkg/jwt"
)

// Locals keys preenchidas pelo AuthMiddleware.
const (
	LocalPrincipal          = "principal"
	LocalMustChangePassword = "must_change_password"
)

// userLoader lê o usuário atual; implementado por repository.UsuarioRepository.
type userLoader interface {
	GetByID(ctx context.Context, id string) (*entity.Usuario, error)
}

// AuthMiddleware valida o Bearer Token JWT e carrega o rbac.Principal em c.Locals.
// Papel, escopo, status e troca de senha vêm do cadastro atual do usuário, não do token:
//
//   - 401 INVALID_TOKEN → token inválido ou usuário removido.
//   - 403 ACCOUNT_INACTIVE → conta inativa ou bloqueada.
//   - 503 → falha ao consultar o usuário.
func AuthMiddleware(jwtSecret string, users userLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return errorJSON(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "header Authorization obrigatório")
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return errorJSON(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "formato: Bearer <token>")
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return errorJSON(c, fiber.StatusUnauthorized, "MISSING_TOKEN", "token vazio")
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil || claims.UserID == "" {
			return errorJSON(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "token inválido ou expirado")
		}

		user, err := users.GetByID(c.UserContext(), claims.UserID)
		if err != nil {
			log.Error().Err(err).Str("user_id", claims.UserID).Msg("falha ao carregar usuário do token")
			return errorJSON(c, fiber.StatusServiceUnavailable, CodeServiceUnavailable,
				"não foi possível validar o usuário, tente mais tarde")
		}
		if user == nil {
			return errorJSON(c, fiber.StatusUnauthorized, "INVALID_TOKEN", "usuário não encontrado")
		}
		if !user.Ativo || user.Bloqueado {
			return errorJSON(c, fiber.StatusForbidden, CodeAccountInactive, "conta inativa ou bloqueada")
		}

		c.Locals(LocalPrincipal, rbac.Principal{
			UserID:       user.ID,
			Role:         user.Role,
			MunicipioID:  user.MunicipioID,
			SecretariaID: user.SecretariaID,
			UnidadeID:    user.UnidadeID,
			SetorID:      user.SetorID,
		})
		c.Locals(LocalMustChangePassword, user.MustChangePassword)
		return c.Next()
	}
}

// RequirePasswordChanged bloqueia com 403 PASSWORD_CHANGE_REQUIRED enquanto o cadastro
// indicar troca de senha pendente. Usar DEPOIS do AuthMiddleware; as rotas em
// allowed (caminho completo) continuam acessíveis.
func RequirePasswordChanged(allowed ...string) fiber.Handler {
	free := make(map[string]bool, len(allowed))
	for _, p := range allowed {
		free[strings.TrimRight(p, "/")] = true
	}
	return func(c *fiber.Ctx) error {
		pending, _ := c.Locals(LocalMustChangePassword).(bool)
		if pending && !free[strings.TrimRight(c.Path(), "/")] {
			return errorJSON(c, fiber.StatusForbidden, CodePasswordChange, "troque a senha antes de continuar")
		}
		return c.Next()
	}
}

// RequirePerm exige a permissão "<modulo>.<nivel>" (ver rbac.Can).
func RequirePerm(perm string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p.UserID == "" {
			return errorJSON(c, fiber.StatusUnauthorized, CodeUnauthorized, "não autenticado")
		}
		if !p.Can(perm) {
			return errorJSON(c, fiber.StatusForbidden, CodeForbidden, "permissão necessária: "+perm)
		}
		return c.Next()
	}
}

// RequireRole restringe a rota aos papéis informados.
func RequireRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p.UserID == "" {
			return errorJSON(c, fiber.StatusUnauthorized, CodeUnauthorized, "não autenticado")
		}
		for _, r := range roles {
			if strings.EqualFold(p.Role, r) {
				return c.Next()
			}
		}
		return errorJSON(c, fiber.StatusForbidden, CodeForbidden, "papel sem acesso a este recurso")
	}
}

// GetPrincipal devolve o usuário autenticado (zero value fora das rotas protegidas).
func GetPrincipal(c *fiber.Ctx) rbac.Principal {
	p, _ := c.Locals(LocalPrincipal).(rbac.Principal)
	return p
}

// GetUserID atalho para o ID do usuário autenticado.
func GetUserID(c *fiber.Ctx) string { return GetPrincipal(c).UserID }

// GetRole atalho para o papel do usuário autenticado.
func GetRole(c *fiber.Ctx) string { return GetPrincipal(c).Role }
