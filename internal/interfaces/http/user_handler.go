package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/ports"
	"github.com/gepub/gepub-api/internal/application/usecase"
	"github.com/gepub/gepub-api/internal/domain/rbac"
)

// UserHandler gestão de usuários (accounts.manage).
type UserHandler struct {
	uc       *usecase.UserUseCase
	exporter ports.Exporter
}

// NewUserHandler constrói o handler.
func NewUserHandler(uc *usecase.UserUseCase, exporter ports.Exporter) *UserHandler {
	return &UserHandler{uc: uc, exporter: exporter}
}

// Create godoc
// @Summary      Criar usuário
// @Description  Gera código de acesso e senha inicial (devolvidos uma única vez).
// @Tags         usuarios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateUsuarioRequest  true  "Dados do usuário"
// @Success      201   {object}  dto.CredenciaisResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/usuarios [post]
func (h *UserHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateUsuarioRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar usuários do escopo
// @Tags         usuarios
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  false  "Nome, username ou código"
// @Param        status  query  string  false  "ATIVO, INATIVO ou BLOQUEADO"
// @Param        limit   query  int     false  "Limite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.ListResponse[dto.UsuarioResponse]
// @Router       /api/usuarios [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.List(c.UserContext(), GetPrincipal(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Export godoc
// @Summary      Exportar usuários
// @Tags         usuarios
// @Security     Bearer
// @Produce      octet-stream
// @Param        format  query  string  false  "csv, xlsx ou pdf"  default(csv)
// @Success      200
// @Router       /api/usuarios/export [get]
func (h *UserHandler) Export(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	return exportTabela(c, h.exporter, func(p rbac.Principal) (dto.Tabela, error) {
		return h.uc.Tabela(c.UserContext(), p, q)
	})
}

// Get godoc
// @Summary      Detalhar usuário
// @Tags         usuarios
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do usuário"
// @Success      200  {object}  dto.UsuarioResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/usuarios/{id} [get]
func (h *UserHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Atualizar usuário
// @Tags         usuarios
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do usuário"
// @Param        body  body  dto.UpdateUsuarioRequest  true  "Campos a alterar"
// @Success      200   {object}  dto.UsuarioResponse
// @Router       /api/usuarios/{id} [put]
func (h *UserHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateUsuarioRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ToggleAtivo godoc
// @Summary      Ativar/desativar usuário
// @Tags         usuarios
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do usuário"
// @Success      200  {object}  dto.UsuarioResponse
// @Router       /api/usuarios/{id}/toggle-ativo [post]
func (h *UserHandler) ToggleAtivo(c *fiber.Ctx) error {
	return h.action(c, h.uc.ToggleAtivo)
}

// ToggleBloqueio godoc
// @Summary      Bloquear/desbloquear usuário
// @Tags         usuarios
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do usuário"
// @Success      200  {object}  dto.UsuarioResponse
// @Router       /api/usuarios/{id}/toggle-bloqueio [post]
func (h *UserHandler) ToggleBloqueio(c *fiber.Ctx) error {
	return h.action(c, h.uc.ToggleBloqueio)
}

// ResetCodigo godoc
// @Summary      Regenerar código de acesso
// @Tags         usuarios
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do usuário"
// @Success      200  {object}  dto.CredenciaisResponse
// @Router       /api/usuarios/{id}/reset-codigo [post]
func (h *UserHandler) ResetCodigo(c *fiber.Ctx) error {
	return h.credenciais(c, h.uc.ResetCodigo)
}

// ResetSenha godoc
// @Summary      Gerar nova senha provisória
// @Tags         usuarios
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do usuário"
// @Success      200  {object}  dto.CredenciaisResponse
// @Router       /api/usuarios/{id}/reset-senha [post]
func (h *UserHandler) ResetSenha(c *fiber.Ctx) error {
	return h.credenciais(c, h.uc.ResetSenha)
}

// Auditoria godoc
// @Summary      Histórico de gestão do usuário
// @Tags         usuarios
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do usuário"
// @Success      200  {array}  dto.UserAuditResponse
// @Router       /api/usuarios/{id}/auditoria [get]
func (h *UserHandler) Auditoria(c *fiber.Ctx) error {
	out, err := h.uc.Auditoria(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *UserHandler) action(c *fiber.Ctx, fn func(context.Context, rbac.Principal, string) (*dto.UsuarioResponse, error)) error {
	out, err := fn(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

func (h *UserHandler) credenciais(c *fiber.Ctx, fn func(context.Context, rbac.Principal, string) (*dto.CredenciaisResponse, error)) error {
	out, err := fn(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
