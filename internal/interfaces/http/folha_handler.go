package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/folha"
	"github.com/gepub/gepub-api/internal/application/ports"
	"github.com/gepub/gepub-api/internal/domain/rbac"
)

// FolhaHandler rubricas, competências, lançamentos e holerites.
type FolhaHandler struct {
	uc       *folha.UseCase
	exporter ports.Exporter
}

// NewFolhaHandler cria o handler.
func NewFolhaHandler(uc *folha.UseCase, exporter ports.Exporter) *FolhaHandler {
	return &FolhaHandler{uc: uc, exporter: exporter}
}

// CreateRubrica godoc
// @Summary      Cadastrar rubrica
// @Tags         folha
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RubricaRequest  true  "Rubrica"
// @Success      201   {object}  dto.RubricaResponse
// @Router       /api/folha/rubricas [post]
func (h *FolhaHandler) CreateRubrica(c *fiber.Ctx) error {
	var in dto.RubricaRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateRubrica(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRubricas godoc
// @Summary      Listar rubricas
// @Tags         folha
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  false  "Código ou nome"
// @Param        status  query  string  false  "ATIVO ou INATIVO"
// @Success      200     {object}  dto.ListResponse[dto.RubricaResponse]
// @Router       /api/folha/rubricas [get]
func (h *FolhaHandler) ListRubricas(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListRubricas(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetRubrica godoc
// @Summary      Detalhar rubrica
// @Tags         folha
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da rubrica"
// @Success      200  {object}  dto.RubricaResponse
// @Router       /api/folha/rubricas/{id} [get]
func (h *FolhaHandler) GetRubrica(c *fiber.Ctx) error {
	out, err := h.uc.GetRubrica(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateRubrica godoc
// @Summary      Atualizar rubrica
// @Tags         folha
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da rubrica"
// @Param        body  body  dto.RubricaRequest  true  "Rubrica"
// @Success      200   {object}  dto.RubricaResponse
// @Router       /api/folha/rubricas/{id} [put]
func (h *FolhaHandler) UpdateRubrica(c *fiber.Ctx) error {
	var in dto.RubricaRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateRubrica(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateCompetencia godoc
// @Summary      Abrir competência (YYYY-MM)
// @Tags         folha
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CompetenciaRequest  true  "Competência"
// @Success      201   {object}  dto.CompetenciaResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/folha/competencias [post]
func (h *FolhaHandler) CreateCompetencia(c *fiber.Ctx) error {
	var in dto.CompetenciaRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateCompetencia(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListCompetencias godoc
// @Summary      Listar competências
// @Tags         folha
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "ABERTA, PROCESSADA ou FECHADA"
// @Success      200     {object}  dto.ListResponse[dto.CompetenciaResponse]
// @Router       /api/folha/competencias [get]
func (h *FolhaHandler) ListCompetencias(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListCompetencias(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportCompetencias godoc
// @Summary      Exportar competências
// @Tags         folha
// @Security     Bearer
// @Produce      octet-stream
// @Param        format  query  string  false  "csv, xlsx ou pdf"  default(csv)
// @Success      200
// @Router       /api/folha/competencias/export [get]
func (h *FolhaHandler) ExportCompetencias(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	return exportTabela(c, h.exporter, func(p rbac.Principal) (dto.Tabela, error) {
		return h.uc.TabelaCompetencias(c.UserContext(), p, c.Query("municipio_id"), q)
	})
}

// GetCompetencia godoc
// @Summary      Detalhar competência
// @Tags         folha
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da competência"
// @Success      200  {object}  dto.CompetenciaResponse
// @Router       /api/folha/competencias/{id} [get]
func (h *FolhaHandler) GetCompetencia(c *fiber.Ctx) error {
	return h.competencia(c, h.uc.GetCompetencia)
}

// Processar godoc
// @Summary      Processar competência (ABERTA → PROCESSADA)
// @Tags         folha
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da competência"
// @Success      200  {object}  dto.CompetenciaResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/folha/competencias/{id}/processar [post]
func (h *FolhaHandler) Processar(c *fiber.Ctx) error {
	return h.competencia(c, h.uc.Processar)
}

// Fechar godoc
// @Summary      Fechar competência (PROCESSADA → FECHADA)
// @Tags         folha
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da competência"
// @Success      200  {object}  dto.CompetenciaResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/folha/competencias/{id}/fechar [post]
func (h *FolhaHandler) Fechar(c *fiber.Ctx) error {
	return h.competencia(c, h.uc.Fechar)
}

// Reabrir godoc
// @Summary      Reabrir competência
// @Tags         folha
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da competência"
// @Success      200  {object}  dto.CompetenciaResponse
// @Failure      409  {object}  dto.ErrorResponse  "Já enviada ao financeiro"
// @Router       /api/folha/competencias/{id}/reabrir [post]
func (h *FolhaHandler) Reabrir(c *fiber.Ctx) error {
	return h.competencia(c, h.uc.Reabrir)
}

// EnviarFinanceiro godoc
// @Summary      Enviar competência ao financeiro
// @Tags         folha
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da competência"
// @Success      200  {object}  dto.EnvioFinanceiroResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/folha/competencias/{id}/enviar-financeiro [post]
func (h *FolhaHandler) EnviarFinanceiro(c *fiber.Ctx) error {
	out, err := h.uc.EnviarFinanceiro(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateLancamento godoc
// @Summary      Lançar rubrica para servidor
// @Tags         folha
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da competência"
// @Param        body  body  dto.LancamentoRequest  true  "Lançamento"
// @Success      201   {object}  dto.LancamentoResponse
// @Failure      409   {object}  dto.ErrorResponse  "Competência não está ABERTA"
// @Router       /api/folha/competencias/{id}/lancamentos [post]
func (h *FolhaHandler) CreateLancamento(c *fiber.Ctx) error {
	var in dto.LancamentoRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateLancamento(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListLancamentos godoc
// @Summary      Lançamentos da competência
// @Tags         folha
// @Security     Bearer
// @Produce      json
// @Param        id        path   string  true   "ID da competência"
// @Param        servidor  query  string  false  "Nome ou matrícula"
// @Success      200       {array}  dto.LancamentoResponse
// @Router       /api/folha/competencias/{id}/lancamentos [get]
func (h *FolhaHandler) ListLancamentos(c *fiber.Ctx) error {
	out, err := h.uc.ListLancamentos(c.UserContext(), GetPrincipal(c), c.Params("id"), c.Query("servidor"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Holerite godoc
// @Summary      Holerite (PDF) do servidor na competência
// @Tags         folha
// @Security     Bearer
// @Produce      application/pdf
// @Param        id         path  string  true  "ID da competência"
// @Param        matricula  path  string  true  "Matrícula do servidor"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/folha/competencias/{id}/holerites/{matricula} [get]
func (h *FolhaHandler) Holerite(c *fiber.Ctx) error {
	arq, err := h.uc.Holerite(c.UserContext(), GetPrincipal(c), c.Params("id"), c.Params("matricula"))
	if err != nil {
		return respondError(c, err)
	}
	return sendArquivo(c, arq)
}

func (h *FolhaHandler) competencia(c *fiber.Ctx, fn func(context.Context, rbac.Principal, string) (*dto.CompetenciaResponse, error)) error {
	out, err := fn(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
