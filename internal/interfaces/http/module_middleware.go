package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/gepub/gepub-api/internal/domain/rbac"
)

// moduleChecker contrato mínimo do middleware; implementado por *usecase.ModuleService.
type moduleChecker interface {
	HasActiveModule(ctx context.Context, p rbac.Principal, module string) (bool, error)
}

// RequireModule verifica se o módulo está habilitado no catálogo do escopo do usuário.
// Deve ser usado DEPOIS do AuthMiddleware.
//
//   - 403 MODULE_DISABLED → módulo desligado para o município/secretaria.
//   - 503 → falha ao consultar o catálogo.
func RequireModule(moduleName string, checker moduleChecker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p := GetPrincipal(c)
		if p.UserID == "" {
			return errorJSON(c, fiber.StatusUnauthorized, CodeUnauthorized, "não autenticado")
		}

		active, err := checker.HasActiveModule(c.UserContext(), p, moduleName)
		if err != nil {
			log.Error().Err(err).Str("modulo", moduleName).Str("user_id", p.UserID).Msg("falha ao verificar módulo")
			return errorJSON(c, fiber.StatusServiceUnavailable, "MODULE_CHECK_FAILED",
				"não foi possível verificar o módulo, tente mais tarde")
		}
		if !active {
			return errorJSON(c, fiber.StatusForbidden, CodeModuleDisabled,
				"o módulo '"+moduleName+"' não está habilitado para este escopo")
		}
		return c.Next()
	}
}
