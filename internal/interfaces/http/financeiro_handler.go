package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/financeiro"
	"github.com/gepub/gepub-api/internal/application/ports"
	"github.com/gepub/gepub-api/internal/domain/rbac"
)

// FinanceiroHandler exercícios, dotações e execução da despesa.
type FinanceiroHandler struct {
	uc       *financeiro.UseCase
	exporter ports.Exporter
}

// NewFinanceiroHandler cria o handler.
func NewFinanceiroHandler(uc *financeiro.UseCase, exporter ports.Exporter) *FinanceiroHandler {
	return &FinanceiroHandler{uc: uc, exporter: exporter}
}

// CreateExercicio godoc
// @Summary      Abrir exercício financeiro
// @Tags         financeiro
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ExercicioRequest  true  "Exercício"
// @Success      201   {object}  dto.ExercicioResponse
// @Failure      422   {object}  dto.ErrorResponse  "Ano já cadastrado"
// @Router       /api/financeiro/exercicios [post]
func (h *FinanceiroHandler) CreateExercicio(c *fiber.Ctx) error {
	var in dto.ExercicioRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateExercicio(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListExercicios godoc
// @Summary      Listar exercícios
// @Tags         financeiro
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "ABERTO ou ENCERRADO"
// @Success      200     {object}  dto.ListResponse[dto.ExercicioResponse]
// @Router       /api/financeiro/exercicios [get]
func (h *FinanceiroHandler) ListExercicios(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListExercicios(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// EncerrarExercicio godoc
// @Summary      Encerrar exercício
// @Tags         financeiro
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do exercício"
// @Success      200  {object}  dto.ExercicioResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/financeiro/exercicios/{id}/encerrar [post]
func (h *FinanceiroHandler) EncerrarExercicio(c *fiber.Ctx) error {
	out, err := h.uc.EncerrarExercicio(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateDotacao godoc
// @Summary      Cadastrar dotação orçamentária
// @Tags         financeiro
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.DotacaoRequest  true  "Dotação"
// @Success      201   {object}  dto.DotacaoResponse
// @Router       /api/financeiro/dotacoes [post]
func (h *FinanceiroHandler) CreateDotacao(c *fiber.Ctx) error {
	var in dto.DotacaoRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateDotacao(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListDotacoes godoc
// @Summary      Listar dotações
// @Tags         financeiro
// @Security     Bearer
// @Produce      json
// @Param        exercicio_id  query  string  false  "Exercício"
// @Param        q             query  string  false  "Programa, ação, elemento ou descrição"
// @Success      200           {object}  dto.ListResponse[dto.DotacaoResponse]
// @Router       /api/financeiro/dotacoes [get]
func (h *FinanceiroHandler) ListDotacoes(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListDotacoes(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), c.Query("exercicio_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetDotacao godoc
// @Summary      Detalhar dotação
// @Tags         financeiro
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da dotação"
// @Success      200  {object}  dto.DotacaoResponse
// @Router       /api/financeiro/dotacoes/{id} [get]
func (h *FinanceiroHandler) GetDotacao(c *fiber.Ctx) error {
	out, err := h.uc.GetDotacao(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateEmpenho godoc
// @Summary      Emitir empenho
// @Tags         financeiro
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.EmpenhoRequest  true  "Empenho"
// @Success      201   {object}  dto.EmpenhoResponse
// @Failure      422   {object}  dto.ErrorResponse  "Saldo da dotação insuficiente"
// @Router       /api/financeiro/empenhos [post]
func (h *FinanceiroHandler) CreateEmpenho(c *fiber.Ctx) error {
	var in dto.EmpenhoRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateEmpenho(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListEmpenhos godoc
// @Summary      Listar empenhos
// @Tags         financeiro
// @Security     Bearer
// @Produce      json
// @Param        exercicio_id  query  string  false  "Exercício"
// @Param        dotacao_id    query  string  false  "Dotação"
// @Param        status        query  string  false  "EMPENHADO, LIQUIDADO ou PAGO"
// @Param        q             query  string  false  "Número, fornecedor ou objeto"
// @Success      200           {object}  dto.ListResponse[dto.EmpenhoResponse]
// @Router       /api/financeiro/empenhos [get]
func (h *FinanceiroHandler) ListEmpenhos(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListEmpenhos(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"),
		c.Query("exercicio_id"), c.Query("dotacao_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportEmpenhos godoc
// @Summary      Exportar empenhos
// @Tags         financeiro
// @Security     Bearer
// @Produce      octet-stream
// @Param        format  query  string  false  "csv, xlsx ou pdf"  default(csv)
// @Success      200
// @Router       /api/financeiro/empenhos/export [get]
func (h *FinanceiroHandler) ExportEmpenhos(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	return exportTabela(c, h.exporter, func(p rbac.Principal) (dto.Tabela, error) {
		return h.uc.TabelaEmpenhos(c.UserContext(), p, c.Query("municipio_id"), c.Query("exercicio_id"), c.Query("dotacao_id"), q)
	})
}

// GetEmpenho godoc
// @Summary      Detalhar empenho com liquidações e pagamentos
// @Tags         financeiro
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do empenho"
// @Success      200  {object}  dto.EmpenhoDetalheResponse
// @Router       /api/financeiro/empenhos/{id} [get]
func (h *FinanceiroHandler) GetEmpenho(c *fiber.Ctx) error {
	out, err := h.uc.GetEmpenho(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Liquidar godoc
// @Summary      Registrar liquidação do empenho
// @Tags         financeiro
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do empenho"
// @Param        body  body  dto.LiquidacaoRequest  true  "Liquidação"
// @Success      201   {object}  dto.LiquidacaoResponse
// @Failure      409   {object}  dto.ErrorResponse  "Exercício encerrado"
// @Router       /api/financeiro/empenhos/{id}/liquidacoes [post]
func (h *FinanceiroHandler) Liquidar(c *fiber.Ctx) error {
	var in dto.LiquidacaoRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Liquidar(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Pagar godoc
// @Summary      Registrar pagamento de uma liquidação
// @Tags         financeiro
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do empenho"
// @Param        body  body  dto.PagamentoRequest  true  "Pagamento"
// @Success      201   {object}  dto.PagamentoResponse
// @Router       /api/financeiro/empenhos/{id}/pagamentos [post]
func (h *FinanceiroHandler) Pagar(c *fiber.Ctx) error {
	var in dto.PagamentoRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.Pagar(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
