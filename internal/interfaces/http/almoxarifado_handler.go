package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/gepub/gepub-api/internal/application/almoxarifado"
	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/ports"
	"github.com/gepub/gepub-api/internal/domain/rbac"
)

// AlmoxarifadoHandler itens, movimentos e requisições do almoxarifado.
type AlmoxarifadoHandler struct {
	uc       *almoxarifado.UseCase
	exporter ports.Exporter
}

// NewAlmoxarifadoHandler constrói o handler.
func NewAlmoxarifadoHandler(uc *almoxarifado.UseCase, exporter ports.Exporter) *AlmoxarifadoHandler {
	return &AlmoxarifadoHandler{uc: uc, exporter: exporter}
}

// Dashboard godoc
// @Summary      Indicadores do almoxarifado
// @Tags         almoxarifado
// @Security     Bearer
// @Produce      json
// @Param        municipio_id  query  string  false  "Município (ADMIN)"
// @Success      200           {object}  dto.AlmoxDashboardResponse
// @Router       /api/almoxarifado/dashboard [get]
func (h *AlmoxarifadoHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.Dashboard(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateItem godoc
// @Summary      Cadastrar item
// @Tags         almoxarifado
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        municipio_id  query  string  false  "Município (ADMIN)"
// @Param        body          body   dto.AlmoxItemRequest  true  "Dados do item"
// @Success      201           {object}  dto.AlmoxItemResponse
// @Failure      409           {object}  dto.ErrorResponse
// @Router       /api/almoxarifado/itens [post]
func (h *AlmoxarifadoHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.AlmoxItemRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateItem(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListItens godoc
// @Summary      Listar itens
// @Tags         almoxarifado
// @Security     Bearer
// @Produce      json
// @Param        q       query  string  false  "Código ou nome"
// @Param        status  query  string  false  "ATIVO ou INATIVO"
// @Success      200     {object}  dto.ListResponse[dto.AlmoxItemResponse]
// @Router       /api/almoxarifado/itens [get]
func (h *AlmoxarifadoHandler) ListItens(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListItens(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportItens godoc
// @Summary      Exportar itens
// @Tags         almoxarifado
// @Security     Bearer
// @Produce      octet-stream
// @Param        format  query  string  false  "csv, xlsx ou pdf"  default(csv)
// @Success      200
// @Router       /api/almoxarifado/itens/export [get]
func (h *AlmoxarifadoHandler) ExportItens(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	return exportTabela(c, h.exporter, func(p rbac.Principal) (dto.Tabela, error) {
		return h.uc.TabelaItens(c.UserContext(), p, c.Query("municipio_id"), q)
	})
}

// GetItem godoc
// @Summary      Detalhar item
// @Tags         almoxarifado
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do item"
// @Success      200  {object}  dto.AlmoxItemResponse
// @Router       /api/almoxarifado/itens/{id} [get]
func (h *AlmoxarifadoHandler) GetItem(c *fiber.Ctx) error {
	out, err := h.uc.GetItem(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateItem godoc
// @Summary      Atualizar item
// @Tags         almoxarifado
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do item"
// @Param        body  body  dto.AlmoxItemRequest  true  "Dados do item"
// @Success      200   {object}  dto.AlmoxItemResponse
// @Router       /api/almoxarifado/itens/{id} [put]
func (h *AlmoxarifadoHandler) UpdateItem(c *fiber.Ctx) error {
	var in dto.AlmoxItemRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateItem(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RegistrarMovimento godoc
// @Summary      Registrar movimento (ENTRADA, SAIDA ou AJUSTE)
// @Tags         almoxarifado
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AlmoxMovimentoRequest  true  "Movimento"
// @Success      201   {object}  dto.MovimentoResult
// @Failure      422   {object}  dto.ErrorResponse  "Saldo insuficiente"
// @Router       /api/almoxarifado/movimentos [post]
func (h *AlmoxarifadoHandler) RegistrarMovimento(c *fiber.Ctx) error {
	var in dto.AlmoxMovimentoRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RegistrarMovimento(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMovimentos godoc
// @Summary      Listar movimentos
// @Tags         almoxarifado
// @Security     Bearer
// @Produce      json
// @Param        item_id  query  string  false  "Item"
// @Param        tipo     query  string  false  "ENTRADA, SAIDA ou AJUSTE"
// @Success      200      {object}  dto.ListResponse[dto.AlmoxMovimentoResponse]
// @Router       /api/almoxarifado/movimentos [get]
func (h *AlmoxarifadoHandler) ListMovimentos(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListMovimentos(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), c.Query("item_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportMovimentos godoc
// @Summary      Exportar movimentos
// @Tags         almoxarifado
// @Security     Bearer
// @Produce      octet-stream
// @Param        format  query  string  false  "csv, xlsx ou pdf"  default(csv)
// @Success      200
// @Router       /api/almoxarifado/movimentos/export [get]
func (h *AlmoxarifadoHandler) ExportMovimentos(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	return exportTabela(c, h.exporter, func(p rbac.Principal) (dto.Tabela, error) {
		return h.uc.TabelaMovimentos(c.UserContext(), p, c.Query("municipio_id"), c.Query("item_id"), q)
	})
}

// CriarRequisicao godoc
// @Summary      Criar requisição
// @Tags         almoxarifado
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AlmoxRequisicaoRequest  true  "Requisição"
// @Success      201   {object}  dto.AlmoxRequisicaoResponse
// @Router       /api/almoxarifado/requisicoes [post]
func (h *AlmoxarifadoHandler) CriarRequisicao(c *fiber.Ctx) error {
	var in dto.AlmoxRequisicaoRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CriarRequisicao(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListRequisicoes godoc
// @Summary      Listar requisições
// @Tags         almoxarifado
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "PENDENTE, APROVADA, ATENDIDA ou CANCELADA"
// @Success      200     {object}  dto.ListResponse[dto.AlmoxRequisicaoResponse]
// @Router       /api/almoxarifado/requisicoes [get]
func (h *AlmoxarifadoHandler) ListRequisicoes(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListRequisicoes(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportRequisicoes godoc
// @Summary      Exportar requisições
// @Tags         almoxarifado
// @Security     Bearer
// @Produce      octet-stream
// @Param        format  query  string  false  "csv, xlsx ou pdf"  default(csv)
// @Success      200
// @Router       /api/almoxarifado/requisicoes/export [get]
func (h *AlmoxarifadoHandler) ExportRequisicoes(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	return exportTabela(c, h.exporter, func(p rbac.Principal) (dto.Tabela, error) {
		return h.uc.TabelaRequisicoes(c.UserContext(), p, c.Query("municipio_id"), q)
	})
}

// GetRequisicao godoc
// @Summary      Detalhar requisição
// @Tags         almoxarifado
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da requisição"
// @Success      200  {object}  dto.AlmoxRequisicaoResponse
// @Router       /api/almoxarifado/requisicoes/{id} [get]
func (h *AlmoxarifadoHandler) GetRequisicao(c *fiber.Ctx) error {
	return h.requisicao(c, h.uc.GetRequisicao)
}

// AprovarRequisicao godoc
// @Summary      Aprovar requisição (PENDENTE)
// @Tags         almoxarifado
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da requisição"
// @Success      200  {object}  dto.AlmoxRequisicaoResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/almoxarifado/requisicoes/{id}/aprovar [post]
func (h *AlmoxarifadoHandler) AprovarRequisicao(c *fiber.Ctx) error {
	return h.requisicao(c, h.uc.AprovarRequisicao)
}

// AtenderRequisicao godoc
// @Summary      Atender requisição (gera SAIDA)
// @Tags         almoxarifado
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da requisição"
// @Success      200  {object}  dto.AlmoxRequisicaoResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/almoxarifado/requisicoes/{id}/atender [post]
func (h *AlmoxarifadoHandler) AtenderRequisicao(c *fiber.Ctx) error {
	return h.requisicao(c, h.uc.AtenderRequisicao)
}

// CancelarRequisicao godoc
// @Summary      Cancelar requisição
// @Tags         almoxarifado
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da requisição"
// @Success      200  {object}  dto.AlmoxRequisicaoResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/almoxarifado/requisicoes/{id}/cancelar [post]
func (h *AlmoxarifadoHandler) CancelarRequisicao(c *fiber.Ctx) error {
	return h.requisicao(c, h.uc.CancelarRequisicao)
}

func (h *AlmoxarifadoHandler) requisicao(c *fiber.Ctx, fn func(context.Context, rbac.Principal, string) (*dto.AlmoxRequisicaoResponse, error)) error {
	out, err := fn(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
