package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/saude"
)

// SaudeHandler profissionais, agenda e atendimentos.
type SaudeHandler struct {
	uc *saude.UseCase
}

// NewSaudeHandler cria o handler.
func NewSaudeHandler(uc *saude.UseCase) *SaudeHandler {
	return &SaudeHandler{uc: uc}
}

// CreateProfissional godoc
// @Summary      Cadastrar profissional de saúde
// @Tags         saude
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ProfissionalSaudeRequest  true  "Profissional"
// @Success      201   {object}  dto.ProfissionalSaudeResponse
// @Failure      422   {object}  dto.ErrorResponse  "Unidade não é de saúde"
// @Router       /api/saude/profissionais [post]
func (h *SaudeHandler) CreateProfissional(c *fiber.Ctx) error {
	var in dto.ProfissionalSaudeRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateProfissional(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListProfissionais godoc
// @Summary      Listar profissionais
// @Tags         saude
// @Security     Bearer
// @Produce      json
// @Param        unidade_id  query  string  false  "Unidade"
// @Param        tipo        query  string  false  "Cargo"
// @Param        ativo       query  bool    false  "Filtro de ativo"
// @Param        q           query  string  false  "Nome ou CPF"
// @Success      200         {object}  dto.ListResponse[dto.ProfissionalSaudeResponse]
// @Router       /api/saude/profissionais [get]
func (h *SaudeHandler) ListProfissionais(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListProfissionais(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), c.Query("unidade_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetProfissional godoc
// @Summary      Detalhar profissional
// @Tags         saude
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do profissional"
// @Success      200  {object}  dto.ProfissionalSaudeResponse
// @Router       /api/saude/profissionais/{id} [get]
func (h *SaudeHandler) GetProfissional(c *fiber.Ctx) error {
	out, err := h.uc.GetProfissional(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateProfissional godoc
// @Summary      Atualizar profissional
// @Tags         saude
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do profissional"
// @Param        body  body  dto.ProfissionalSaudeRequest  true  "Profissional"
// @Success      200   {object}  dto.ProfissionalSaudeResponse
// @Router       /api/saude/profissionais/{id} [put]
func (h *SaudeHandler) UpdateProfissional(c *fiber.Ctx) error {
	var in dto.ProfissionalSaudeRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateProfissional(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateAgendamento godoc
// @Summary      Marcar agendamento
// @Tags         saude
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AgendamentoSaudeRequest  true  "Agendamento"
// @Success      201   {object}  dto.AgendamentoSaudeResponse
// @Failure      409   {object}  dto.ErrorResponse  "Horário ocupado"
// @Router       /api/saude/agendamentos [post]
func (h *SaudeHandler) CreateAgendamento(c *fiber.Ctx) error {
	var in dto.AgendamentoSaudeRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateAgendamento(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAgendamentos godoc
// @Summary      Agenda
// @Tags         saude
// @Security     Bearer
// @Produce      json
// @Param        unidade_id       query  string  false  "Unidade"
// @Param        profissional_id  query  string  false  "Profissional"
// @Param        status           query  string  false  "MARCADO, CONFIRMADO, ATENDIDO, FALTA ou CANCELADO"
// @Param        q                query  string  false  "Paciente"
// @Success      200              {object}  dto.ListResponse[dto.AgendamentoSaudeResponse]
// @Router       /api/saude/agendamentos [get]
func (h *SaudeHandler) ListAgendamentos(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListAgendamentos(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"),
		c.Query("unidade_id"), c.Query("profissional_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetAgendamento godoc
// @Summary      Detalhar agendamento
// @Tags         saude
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do agendamento"
// @Success      200  {object}  dto.AgendamentoSaudeResponse
// @Router       /api/saude/agendamentos/{id} [get]
func (h *SaudeHandler) GetAgendamento(c *fiber.Ctx) error {
	out, err := h.uc.GetAgendamento(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AlterarStatusAgendamento godoc
// @Summary      Confirmar, registrar falta ou cancelar agendamento
// @Tags         saude
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do agendamento"
// @Param        body  body  dto.AgendamentoStatusRequest  true  "Novo status"
// @Success      200   {object}  dto.AgendamentoSaudeResponse
// @Failure      409   {object}  dto.ErrorResponse  "Transição inválida"
// @Router       /api/saude/agendamentos/{id}/status [post]
func (h *SaudeHandler) AlterarStatusAgendamento(c *fiber.Ctx) error {
	var in dto.AgendamentoStatusRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.AlterarStatusAgendamento(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RegistrarAtendimento godoc
// @Summary      Registrar atendimento
// @Tags         saude
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AtendimentoSaudeRequest  true  "Atendimento"
// @Success      201   {object}  dto.AtendimentoSaudeResponse
// @Router       /api/saude/atendimentos [post]
func (h *SaudeHandler) RegistrarAtendimento(c *fiber.Ctx) error {
	var in dto.AtendimentoSaudeRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.RegistrarAtendimento(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAtendimentos godoc
// @Summary      Listar atendimentos
// @Tags         saude
// @Security     Bearer
// @Produce      json
// @Param        unidade_id  query  string  false  "Unidade"
// @Param        tipo        query  string  false  "Tipo de atendimento"
// @Param        q           query  string  false  "Paciente ou CID"
// @Success      200         {object}  dto.ListResponse[dto.AtendimentoSaudeResponse]
// @Router       /api/saude/atendimentos [get]
func (h *SaudeHandler) ListAtendimentos(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListAtendimentos(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), c.Query("unidade_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetAtendimento godoc
// @Summary      Detalhar atendimento
// @Tags         saude
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do atendimento"
// @Success      200  {object}  dto.AtendimentoSaudeResponse
// @Router       /api/saude/atendimentos/{id} [get]
func (h *SaudeHandler) GetAtendimento(c *fiber.Ctx) error {
	out, err := h.uc.GetAtendimento(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
