package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/usecase"
)

// AuditoriaHandler trilha de auditoria e portal de transparência.
type AuditoriaHandler struct {
	svc *usecase.AuditoriaService
}

// NewAuditoriaHandler cria o handler.
func NewAuditoriaHandler(svc *usecase.AuditoriaService) *AuditoriaHandler {
	return &AuditoriaHandler{svc: svc}
}

type auditoriaQuery struct {
	dto.PageRequest
	MunicipioID string `query:"municipio_id"`
	Modulo      string `query:"modulo"`
	EntidadeID  string `query:"entidade_id"`
	Evento      string `query:"evento"`
}

// List godoc
// @Summary      Consultar trilha de auditoria
// @Tags         auditoria
// @Security     Bearer
// @Produce      json
// @Param        municipio_id  query  string  false  "Município (admin)"
// @Param        modulo        query  string  false  "Módulo"
// @Param        entidade_id   query  string  false  "Entidade"
// @Param        evento        query  string  false  "Evento"
// @Param        limit         query  int     false  "Limite"  default(50)
// @Param        offset        query  int     false  "Deslocamento"
// @Success      200  {object}  dto.ListResponse[dto.AuditoriaResponse]
// @Failure      403  {object}  dto.ErrorResponse
// @Router       /api/auditoria [get]
func (h *AuditoriaHandler) List(c *fiber.Ctx) error {
	var q auditoriaQuery
	if err := bindQuery(c, &q); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.List(c.UserContext(), GetPrincipal(c), usecase.AuditoriaFiltro{
		MunicipioID: q.MunicipioID,
		Modulo:      q.Modulo,
		EntidadeID:  q.EntidadeID,
		Evento:      q.Evento,
		Page:        q.Repo(),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Transparencia godoc
// @Summary      Portal público de transparência do município
// @Tags         transparencia
// @Produce      json
// @Param        slug    path   string  true   "Slug do município"
// @Param        limit   query  int     false  "Limite"  default(50)
// @Param        offset  query  int     false  "Deslocamento"
// @Success      200  {object}  dto.ListResponse[dto.TransparenciaResponse]
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/public/{slug}/transparencia [get]
func (h *AuditoriaHandler) Transparencia(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := bindQuery(c, &page); err != nil {
		return respondError(c, err)
	}
	out, err := h.svc.Transparencia(c.UserContext(), c.Params("slug"), page.Repo())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
