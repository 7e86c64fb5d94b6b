package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gepub/gepub-api/internal/application/dto"
	"github.com/gepub/gepub-api/internal/application/nee"
	"github.com/gepub/gepub-api/internal/application/ports"
	"github.com/gepub/gepub-api/internal/domain/rbac"
)

// NEEHandler turmas, alunos, matrículas e necessidades educacionais especiais.
type NEEHandler struct {
	uc       *nee.UseCase
	exporter ports.Exporter
}

// NewNEEHandler constrói o handler.
func NewNEEHandler(uc *nee.UseCase, exporter ports.Exporter) *NEEHandler {
	return &NEEHandler{uc: uc, exporter: exporter}
}

// ── Educação ──────────────────────────────────────────────────────────────────

// CreateTurma godoc
// @Summary      Criar turma
// @Tags         educacao
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TurmaRequest  true  "Turma"
// @Success      201   {object}  dto.TurmaResponse
// @Router       /api/educacao/turmas [post]
func (h *NEEHandler) CreateTurma(c *fiber.Ctx) error {
	var in dto.TurmaRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateTurma(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListTurmas godoc
// @Summary      Listar turmas
// @Tags         educacao
// @Security     Bearer
// @Produce      json
// @Param        unidade_id  query  string  false  "Unidade"
// @Success      200         {object}  dto.ListResponse[dto.TurmaResponse]
// @Router       /api/educacao/turmas [get]
func (h *NEEHandler) ListTurmas(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListTurmas(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), c.Query("unidade_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetTurma godoc
// @Summary      Detalhar turma
// @Tags         educacao
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID da turma"
// @Success      200  {object}  dto.TurmaResponse
// @Router       /api/educacao/turmas/{id} [get]
func (h *NEEHandler) GetTurma(c *fiber.Ctx) error {
	out, err := h.uc.GetTurma(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateAluno godoc
// @Summary      Cadastrar aluno
// @Tags         educacao
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AlunoRequest  true  "Aluno"
// @Success      201   {object}  dto.AlunoResponse
// @Router       /api/educacao/alunos [post]
func (h *NEEHandler) CreateAluno(c *fiber.Ctx) error {
	var in dto.AlunoRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateAluno(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListAlunos godoc
// @Summary      Listar alunos visíveis no escopo
// @Tags         educacao
// @Security     Bearer
// @Produce      json
// @Param        q  query  string  false  "Nome ou CPF"
// @Success      200  {object}  dto.ListResponse[dto.AlunoResponse]
// @Router       /api/educacao/alunos [get]
func (h *NEEHandler) ListAlunos(c *fiber.Ctx) error {
	q, err := listQuery(c)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.ListAlunos(c.UserContext(), GetPrincipal(c), c.Query("municipio_id"), q)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GetAluno godoc
// @Summary      Detalhar aluno
// @Tags         educacao
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do aluno"
// @Success      200  {object}  dto.AlunoResponse
// @Router       /api/educacao/alunos/{id} [get]
func (h *NEEHandler) GetAluno(c *fiber.Ctx) error {
	out, err := h.uc.GetAluno(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateAluno godoc
// @Summary      Atualizar aluno
// @Tags         educacao
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do aluno"
// @Param        body  body  dto.AlunoRequest  true  "Aluno"
// @Success      200   {object}  dto.AlunoResponse
// @Router       /api/educacao/alunos/{id} [put]
func (h *NEEHandler) UpdateAluno(c *fiber.Ctx) error {
	var in dto.AlunoRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateAluno(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateMatricula godoc
// @Summary      Matricular aluno em turma
// @Tags         educacao
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do aluno"
// @Param        body  body  dto.MatriculaRequest  true  "Matrícula"
// @Success      201   {object}  dto.MatriculaResponse
// @Router       /api/educacao/alunos/{id}/matriculas [post]
func (h *NEEHandler) CreateMatricula(c *fiber.Ctx) error {
	var in dto.MatriculaRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateMatricula(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// ListMatriculas godoc
// @Summary      Matrículas do aluno
// @Tags         educacao
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do aluno"
// @Success      200  {array}  dto.MatriculaResponse
// @Router       /api/educacao/alunos/{id}/matriculas [get]
func (h *NEEHandler) ListMatriculas(c *fiber.Ctx) error {
	out, err := h.uc.ListMatriculas(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateSituacao godoc
// @Summary      Alterar situação da matrícula
// @Tags         educacao
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID da matrícula"
// @Param        body  body  dto.MatriculaSituacaoRequest  true  "Situação"
// @Success      200   {object}  dto.MatriculaResponse
// @Router       /api/educacao/matriculas/{id}/situacao [put]
func (h *NEEHandler) UpdateSituacao(c *fiber.Ctx) error {
	var in dto.MatriculaSituacaoRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateSituacao(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ── NEE ───────────────────────────────────────────────────────────────────────

// ListTipos godoc
// @Summary      Tipos de necessidade
// @Tags         nee
// @Security     Bearer
// @Produce      json
// @Param        ativos  query  bool  false  "Somente ativos"
// @Success      200     {array}  dto.TipoNecessidadeResponse
// @Router       /api/nee/tipos [get]
func (h *NEEHandler) ListTipos(c *fiber.Ctx) error {
	out, err := h.uc.ListTipos(c.UserContext(), c.QueryBool("ativos", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateTipo godoc
// @Summary      Criar tipo de necessidade (nee.admin)
// @Tags         nee
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TipoNecessidadeRequest  true  "Tipo"
// @Success      201   {object}  dto.TipoNecessidadeResponse
// @Router       /api/nee/tipos [post]
func (h *NEEHandler) CreateTipo(c *fiber.Ctx) error {
	var in dto.TipoNecessidadeRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateTipo(c.UserContext(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateTipo godoc
// @Summary      Atualizar tipo de necessidade (nee.admin)
// @Tags         nee
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do tipo"
// @Param        body  body  dto.TipoNecessidadeRequest  true  "Tipo"
// @Success      200   {object}  dto.TipoNecessidadeResponse
// @Router       /api/nee/tipos/{id} [put]
func (h *NEEHandler) UpdateTipo(c *fiber.Ctx) error {
	var in dto.TipoNecessidadeRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateTipo(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// AlunoNEE godoc
// @Summary      Resumo NEE do aluno
// @Description  Necessidades e apoios das matrículas ativas.
// @Tags         nee
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do aluno"
// @Success      200  {object}  dto.AlunoNEEResponse
// @Router       /api/nee/alunos/{id} [get]
func (h *NEEHandler) AlunoNEE(c *fiber.Ctx) error {
	out, err := h.uc.AlunoNEE(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListNecessidades godoc
// @Summary      Necessidades do aluno
// @Tags         nee
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do aluno"
// @Success      200  {array}  dto.NecessidadeResponse
// @Router       /api/nee/alunos/{id}/necessidades [get]
func (h *NEEHandler) ListNecessidades(c *fiber.Ctx) error {
	out, err := h.uc.ListNecessidades(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateNecessidade godoc
// @Summary      Registrar necessidade do aluno
// @Tags         nee
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do aluno"
// @Param        body  body  dto.NecessidadeRequest  true  "Necessidade"
// @Success      201   {object}  dto.NecessidadeResponse
// @Router       /api/nee/alunos/{id}/necessidades [post]
func (h *NEEHandler) CreateNecessidade(c *fiber.Ctx) error {
	var in dto.NecessidadeRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateNecessidade(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateNecessidade godoc
// @Summary      Atualizar necessidade do aluno
// @Tags         nee
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do aluno"
// @Param        nid   path  string  true  "ID da necessidade"
// @Param        body  body  dto.NecessidadeRequest  true  "Necessidade"
// @Success      200   {object}  dto.NecessidadeResponse
// @Router       /api/nee/alunos/{id}/necessidades/{nid} [put]
func (h *NEEHandler) UpdateNecessidade(c *fiber.Ctx) error {
	var in dto.NecessidadeRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateNecessidade(c.UserContext(), GetPrincipal(c), c.Params("id"), c.Params("nid"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// ListApoios godoc
// @Summary      Apoios do aluno
// @Tags         nee
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID do aluno"
// @Success      200  {array}  dto.ApoioResponse
// @Router       /api/nee/alunos/{id}/apoios [get]
func (h *NEEHandler) ListApoios(c *fiber.Ctx) error {
	out, err := h.uc.ListApoios(c.UserContext(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// CreateApoio godoc
// @Summary      Registrar apoio em matrícula do aluno
// @Tags         nee
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do aluno"
// @Param        body  body  dto.ApoioRequest  true  "Apoio"
// @Success      201   {object}  dto.ApoioResponse
// @Router       /api/nee/alunos/{id}/apoios [post]
func (h *NEEHandler) CreateApoio(c *fiber.Ctx) error {
	var in dto.ApoioRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateApoio(c.UserContext(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// UpdateApoio godoc
// @Summary      Atualizar apoio
// @Tags         nee
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID do aluno"
// @Param        aid   path  string  true  "ID do apoio"
// @Param        body  body  dto.ApoioRequest  true  "Apoio"
// @Success      200   {object}  dto.ApoioResponse
// @Router       /api/nee/alunos/{id}/apoios/{aid} [put]
func (h *NEEHandler) UpdateApoio(c *fiber.Ctx) error {
	var in dto.ApoioRequest
	if err := bindJSON(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateApoio(c.UserContext(), GetPrincipal(c), c.Params("id"), c.Params("aid"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// RelatorioNecessidades godoc
// @Summary      Alunos por tipo de necessidade
// @Description  Com ?format=csv|xlsx|pdf devolve o arquivo.
// @Tags         nee
// @Security     Bearer
// @Produce      json
// @Param        format  query  string  false  "csv, xlsx ou pdf"
// @Success      200     {array}  dto.NecessidadeContagemResponse
// @Router       /api/nee/relatorios/necessidades [get]
func (h *NEEHandler) RelatorioNecessidades(c *fiber.Ctx) error {
	mun := c.Query("municipio_id")
	if c.Query("format") != "" {
		return exportTabela(c, h.exporter, func(p rbac.Principal) (dto.Tabela, error) {
			return h.uc.TabelaNecessidades(c.UserContext(), p, mun)
		})
	}
	out, err := h.uc.RelatorioNecessidades(c.UserContext(), GetPrincipal(c), mun)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
