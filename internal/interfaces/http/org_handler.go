package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/usecase"
)

// OrgHandler hierarquia município → secretaria → unidade → setor e catálogo de módulos.
type OrgHandler struct {
	uc *usecase.OrgUseCase
}

// NewOrgHandler constrói o handler.
func NewOrgHandler(uc *usecase.OrgUseCase) *OrgHandler {
	return &OrgHandler{uc: uc}
}

// ── Municípios ────────────────────────────────────────────────────────────────

// CreateMunicipio godoc
// @Summary      Criar município (ADMIN)
// @Tags         org
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MunicipioRequest  true  "Dados do município"
// @Success      201   {object}  dto.MunicipioResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/org/municipios [post]
func (h *OrgHandler) CreateMunicipio(c *fiber.Ctx) error {
	var in dto.MunicipioRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateMunicipio(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMunicipios godoc
// @Summary      Listar municípios
// @Tags         org
// @Security     Bearer
// @Produce      json
// @Param        q      query  string  false  "Nome contém"
// @Param        ativo  query  bool    false  "Filtro de ativo"
// @Success      200    {object}  dto.ListResponse[dto.MunicipioResponse]
// @Router       /api/org/municipios [get]
func (h *OrgHandler) ListMunicipios(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListMunicipios(c.UserContext(), GetPrincipal(c), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetMunicipio godoc
// @Summary      Detalhar município
// @Tags         org
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do município"
// @Success      200  {object}  dto.MunicipioResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/org/municipios/{id} [get]
func (h *OrgHandler) GetMunicipio(c *fiber.Ctx) error {
	out, err := h.uc.GetMunicipio(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateMunicipio godoc
// @Summary      Atualizar município
// @Tags         org
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do município"
// @Param        body  body  dto.MunicipioRequest  true  "Dados do município"
// @Success      200   {object}  dto.MunicipioResponse
// @Router       /api/org/municipios/{id} [put]
func (h *OrgHandler) UpdateMunicipio(c *fiber.Ctx) error {
	var in dto.MunicipioRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateMunicipio(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteMunicipio godoc
// @Summary      Remover município (ADMIN)
// @Tags         org
// @Security     Bearer
// @Param        id   path  string  true  "ID do município"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/org/municipios/{id} [delete]
func (h *OrgHandler) DeleteMunicipio(c *fiber.Ctx) error {
	if err := h.uc.DeleteMunicipio(c.UserContext(), GetPrincipal(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// MunicipioModulos godoc
// @Summary      Catálogo de módulos do município
// @Tags         org
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do município"
// @Success      200  {object}  dto.ModulosResponse
// @Router       /api/org/municipios/{id}/modulos [get]
func (h *OrgHandler) MunicipioModulos(c *fiber.Ctx) error {
	out, err := h.uc.MunicipioModulos(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetMunicipioModulos godoc
// @Summary      Definir módulos ativos do município
// @Tags         org
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do município"
// @Param        body  body  dto.ModulosRequest  true  "Mapa módulo → ativo"
// @Success      200   {object}  dto.ModulosResponse
// @Router       /api/org/municipios/{id}/modulos [put]
func (h *OrgHandler) SetMunicipioModulos(c *fiber.Ctx) error {
	var in dto.ModulosRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SetMunicipioModulos(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ── Secretarias ───────────────────────────────────────────────────────────────

// CreateSecretaria godoc
// @Summary      Criar secretaria
// @Tags         org
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SecretariaRequest  true  "Dados da secretaria"
// @Success      201   {object}  dto.SecretariaResponse
// @Router       /api/org/secretarias [post]
func (h *OrgHandler) CreateSecretaria(c *fiber.Ctx) error {
	var in dto.SecretariaRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateSecretaria(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSecretarias godoc
// @Summary      Listar secretarias
// @Tags         org
// @Security     Bearer
// @Produce      json
// @Param        municipio_id  query  string  false  "Município (ADMIN)"
// @Param        q             query  string  false  "Nome contém"
// @Success      200           {object}  dto.ListResponse[dto.SecretariaResponse]
// @Router       /api/org/secretarias [get]
func (h *OrgHandler) ListSecretarias(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListSecretarias(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetSecretaria godoc
// @Summary      Detalhar secretaria
// @Tags         org
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da secretaria"
// @Success      200  {object}  dto.SecretariaResponse
// @Router       /api/org/secretarias/{id} [get]
func (h *OrgHandler) GetSecretaria(c *fiber.Ctx) error {
	out, err := h.uc.GetSecretaria(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateSecretaria godoc
// @Summary      Atualizar secretaria
// @Tags         org
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da secretaria"
// @Param        body  body  dto.SecretariaRequest  true  "Dados da secretaria"
// @Success      200   {object}  dto.SecretariaResponse
// @Router       /api/org/secretarias/{id} [put]
func (h *OrgHandler) UpdateSecretaria(c *fiber.Ctx) error {
	var in dto.SecretariaRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateSecretaria(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteSecretaria godoc
// @Summary      Remover secretaria
// @Tags         org
// @Security     Bearer
// @Param        id   path  string  true  "ID da secretaria"
// @Success      204
// @Router       /api/org/secretarias/{id} [delete]
func (h *OrgHandler) DeleteSecretaria(c *fiber.Ctx) error {
	if err := h.uc.DeleteSecretaria(c.UserContext(), GetPrincipal(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SecretariaModulos godoc
// @Summary      Catálogo de módulos da secretaria
// @Tags         org
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da secretaria"
// @Success      200  {object}  dto.ModulosResponse
// @Router       /api/org/secretarias/{id}/modulos [get]
func (h *OrgHandler) SecretariaModulos(c *fiber.Ctx) error {
	out, err := h.uc.SecretariaModulos(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// SetSecretariaModulos godoc
// @Summary      Definir módulos ativos da secretaria
// @Tags         org
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da secretaria"
// @Param        body  body  dto.ModulosRequest  true  "Mapa módulo → ativo"
// @Success      200   {object}  dto.ModulosResponse
// @Router       /api/org/secretarias/{id}/modulos [put]
func (h *OrgHandler) SetSecretariaModulos(c *fiber.Ctx) error {
	var in dto.ModulosRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.SetSecretariaModulos(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ── Unidades ──────────────────────────────────────────────────────────────────

// CreateUnidade godoc
// @Summary      Criar unidade
// @Tags         org
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.UnidadeRequest  true  "Dados da unidade"
// @Success      201   {object}  dto.UnidadeResponse
// @Router       /api/org/unidades [post]
func (h *OrgHandler) CreateUnidade(c *fiber.Ctx) error {
	var in dto.UnidadeRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateUnidade(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListUnidades godoc
// @Summary      Listar unidades
// @Tags         org
// @Security     Bearer
// @Produce      json
// @Param        secretaria_id  query  string  false  "Secretaria"
// @Param        q              query  string  false  "Nome contém"
// @Success      200            {object}  dto.ListResponse[dto.UnidadeResponse]
// @Router       /api/org/unidades [get]
func (h *OrgHandler) ListUnidades(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListUnidades(c.UserContext(), GetPrincipal(c), c.Query("secretaria_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetUnidade godoc
// @Summary      Detalhar unidade
// @Tags         org
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da unidade"
// @Success      200  {object}  dto.UnidadeResponse
// @Router       /api/org/unidades/{id} [get]
func (h *OrgHandler) GetUnidade(c *fiber.Ctx) error {
	out, err := h.uc.GetUnidade(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateUnidade godoc
// @Summary      Atualizar unidade
// @Tags         org
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da unidade"
// @Param        body  body  dto.UnidadeRequest  true  "Dados da unidade"
// @Success      200   {object}  dto.UnidadeResponse
// @Router       /api/org/unidades/{id} [put]
func (h *OrgHandler) UpdateUnidade(c *fiber.Ctx) error {
	var in dto.UnidadeRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateUnidade(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteUnidade godoc
// @Summary      Remover unidade
// @Tags         org
// @Security     Bearer
// @Param        id   path  string  true  "ID da unidade"
// @Success      204
// @Router       /api/org/unidades/{id} [delete]
func (h *OrgHandler) DeleteUnidade(c *fiber.Ctx) error {
	if err := h.uc.DeleteUnidade(c.UserContext(), GetPrincipal(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ── Setores ───────────────────────────────────────────────────────────────────

// CreateSetor godoc
// @Summary      Criar setor
// @Tags         org
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SetorRequest  true  "Dados do setor"
// @Success      201   {object}  dto.SetorResponse
// @Router       /api/org/setores [post]
func (h *OrgHandler) CreateSetor(c *fiber.Ctx) error {
	var in dto.SetorRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateSetor(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListSetores godoc
// @Summary      Listar setores
// @Tags         org
// @Security     Bearer
// @Produce      json
// @Param        unidade_id  query  string  false  "Unidade"
// @Success      200         {object}  dto.ListResponse[dto.SetorResponse]
// @Router       /api/org/setores [get]
func (h *OrgHandler) ListSetores(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListSetores(c.UserContext(), GetPrincipal(c), c.Query("unidade_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetSetor godoc
// @Summary      Detalhar setor
// @Tags         org
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do setor"
// @Success      200  {object}  dto.SetorResponse
// @Router       /api/org/setores/{id} [get]
func (h *OrgHandler) GetSetor(c *fiber.Ctx) error {
	out, err := h.uc.GetSetor(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateSetor godoc
// @Summary      Atualizar setor
// @Tags         org
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do setor"
// @Param        body  body  dto.SetorRequest  true  "Dados do setor"
// @Success      200   {object}  dto.SetorResponse
// @Router       /api/org/setores/{id} [put]
func (h *OrgHandler) UpdateSetor(c *fiber.Ctx) error {
	var in dto.SetorRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateSetor(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// DeleteSetor godoc
// @Summary      Remover setor
// @Tags         org
// @Security     Bearer
// @Param        id   path  string  true  "ID do setor"
// @Success      204
// @Router       /api/org/setores/{id} [delete]
func (h *OrgHandler) DeleteSetor(c *fiber.Ctx) error {
	if err := h.uc.DeleteSetor(c.UserContext(), GetPrincipal(c), c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
