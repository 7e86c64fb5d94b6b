package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/integracoes"
	"github.com/gepub/gepub-api/internal/application/ports"
	"github.com/gepub/gepub-api/internal/domain/rbac"
)

// IntegracaoHandler conectores e livro de execuções.
type IntegracaoHandler struct {
	uc       *integracoes.UseCase
	exporter ports.Exporter
}

// NewIntegracaoHandler constrói o handler.
func NewIntegracaoHandler(uc *integracoes.UseCase, exporter ports.Exporter) *IntegracaoHandler {
	return &IntegracaoHandler{uc: uc, exporter: exporter}
}

// Resumo godoc
// @Summary      Resumo do hub de integrações
// @Tags         integracoes
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.IntegracaoResumoResponse
// @Router       /api/integracoes/resumo [get]
func (h *IntegracaoHandler) Resumo(c *fiber.Ctx) error {
	out, err := h.uc.Resumo(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateConector godoc
// @Summary      Criar conector
// @Tags         integracoes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConectorRequest  true  "Conector"
// @Success      201   {object}  dto.ConectorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/integracoes/conectores [post]
func (h *IntegracaoHandler) CreateConector(c *fiber.Ctx) error {
	var in dto.ConectorRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateConector(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListConectores godoc
// @Summary      Listar conectores
// @Description  Credenciais só aparecem com integracoes.admin; caso contrário vêm como "***".
// @Tags         integracoes
// @Security     Bearer
// @Produce      json
// @Param        q      query  string  false  "Nome contém"
// @Param        ativo  query  bool    false  "Filtro de ativo"
// @Success      200    {object}  dto.ListResponse[dto.ConectorResponse]
// @Router       /api/integracoes/conectores [get]
func (h *IntegracaoHandler) ListConectores(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListConectores(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetConector godoc
// @Summary      Detalhar conector
// @Tags         integracoes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do conector"
// @Success      200  {object}  dto.ConectorResponse
// @Router       /api/integracoes/conectores/{id} [get]
func (h *IntegracaoHandler) GetConector(c *fiber.Ctx) error {
	out, err := h.uc.GetConector(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateConector godoc
// @Summary      Atualizar conector
// @Description  Credenciais enviadas como "***" mantêm o valor atual.
// @Tags         integracoes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do conector"
// @Param        body  body  dto.ConectorRequest  true  "Conector"
// @Success      200   {object}  dto.ConectorResponse
// @Router       /api/integracoes/conectores/{id} [put]
func (h *IntegracaoHandler) UpdateConector(c *fiber.Ctx) error {
	var in dto.ConectorRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateConector(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ToggleConector godoc
// @Summary      Ativar/desativar conector
// @Tags         integracoes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do conector"
// @Success      200  {object}  dto.ConectorResponse
// @Router       /api/integracoes/conectores/{id}/toggle-ativo [post]
func (h *IntegracaoHandler) ToggleConector(c *fiber.Ctx) error {
	out, err := h.uc.ToggleAtivo(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RegistrarExecucao godoc
// @Summary      Registrar execução do conector
// @Tags         integracoes
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do conector"
// @Param        body  body  dto.ExecucaoRequest  true  "Execução"
// @Success      201   {object}  dto.ExecucaoResponse
// @Failure      409   {object}  dto.ErrorResponse  "Conector inativo"
// @Router       /api/integracoes/conectores/{id}/execucoes [post]
func (h *IntegracaoHandler) RegistrarExecucao(c *fiber.Ctx) error {
	var in dto.ExecucaoRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RegistrarExecucao(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListExecucoesConector godoc
// @Summary      Execuções de um conector
// @Tags         integracoes
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do conector"
// @Success      200  {object}  dto.ListResponse[dto.ExecucaoResponse]
// @Router       /api/integracoes/conectores/{id}/execucoes [get]
func (h *IntegracaoHandler) ListExecucoesConector(c *fiber.Ctx) error {
	return h.listExecucoes(c, c.Params("id"))
}

// ListExecucoes godoc
// @Summary      Execuções do município
// @Tags         integracoes
// @Security     Bearer
// @Produce      json
// @Param        conector_id  query  string  false  "Conector"
// @Param        status       query  string  false  "SUCESSO ou FALHA"
// @Success      200          {object}  dto.ListResponse[dto.ExecucaoResponse]
// @Router       /api/integracoes/execucoes [get]
func (h *IntegracaoHandler) ListExecucoes(c *fiber.Ctx) error {
	return h.listExecucoes(c, c.Query("conector_id"))
}

func (h *IntegracaoHandler) listExecucoes(c *fiber.Ctx, conectorID string) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListExecucoes(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), conectorID, q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ExportExecucoes godoc
// @Summary      Exportar execuções
// @Tags         integracoes
// @Security     Bearer
// @Produce      octet-stream
// @Param        format       query  string  false  "csv, xlsx ou pdf"  default(csv)
// @Param        conector_id  query  string  false  "Conector"
// @Success      200
// @Router       /api/integracoes/execucoes/export [get]
func (h *IntegracaoHandler) ExportExecucoes(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	return exportTabela(c, h.exporter, func(p rbac.Principal) (dto.Tabela, error) {
		return h.uc.TabelaExecucoes(c.UserContext(), p, c.Query("municipio_id"), c.Query("conector_id"), q)
	})
}

// ExportXML godoc
// @Summary      Livro de execuções em XML
// @Description  O header X-Content-SHA256 traz o SHA-256 da forma canônica (C14N) do documento.
// @Tags         integracoes
// @Security     Bearer
// @Produce      xml
// @Param        conector_id  query  string  false  "Conector"
// @Success      200
// @Header       200  {string}  X-Content-SHA256  "SHA-256 do XML canônico"
// @Router       /api/integracoes/execucoes/export.xml [get]
func (h *IntegracaoHandler) ExportXML(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	arq, err := h.uc.ExportXML(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), c.Query("conector_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return sendArquivo(c, arq)
}
