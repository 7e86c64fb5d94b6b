package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gepub/gepub-api/internal/application/almoxarifado"
	"github.com/gepub/gepub-api/internal/application/auth"
	"github.com/gepub/gepub-api/internal/application/conversor"
	"github.com/gepub/gepub-api/internal/application/financeiro"
	"github.com/gepub/gepub-api/internal/application/folha"
	"github.com/gepub/gepub-api/internal/application/integracoes"
	"github.com/gepub/gepub-api/internal/application/nee"
	"github.com/gepub/gepub-api/internal/application/ports"
	"github.com/gepub/gepub-api/internal/application/saude"
	"github.com/gepub/gepub-api/internal/application/usecase"
	"github.com/gepub/gepub-api/internal/domain/entity"
	"github.com/gepub/gepub-api/internal/domain/rbac"
	"github.com/gepub/gepub-api/internal/domain/repository"
)

// RouterDeps dependências para o router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	UserUC         *usecase.UserUseCase
	OrgUC          *usecase.OrgUseCase
	ModuleService  *usecase.ModuleService
	AuditoriaSvc   *usecase.AuditoriaService
	AlmoxarifadoUC *almoxarifado.UseCase
	ConversorSvc   *conversor.Service
	IntegracoesUC  *integracoes.UseCase
	NEEUC          *nee.UseCase
	FolhaUC        *folha.UseCase
	FinanceiroUC   *financeiro.UseCase
	SaudeUC        *saude.UseCase
	Exporter       ports.Exporter
	Health         *HealthHandler
	Usuarios       repository.UsuarioRepository
	JWTSecret      string
}

// Router registra as rotas da API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Health != nil {
		app.Get("/health", deps.Health.Live)
		app.Get("/health/ready", deps.Health.Ready)
	}

	api := app.Group("/api")

	// Públicas
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	auditoriaHandler := NewAuditoriaHandler(deps.AuditoriaSvc)
	api.Get("/public/:slug/transparencia", auditoriaHandler.Transparencia)

	// Protegidas (Bearer Token). Com troca de senha pendente só as rotas de auth ficam livres.
	protected := api.Group("/",
		AuthMiddleware(deps.JWTSecret, deps.Usuarios),
		RequirePasswordChanged("/api/auth/change-password", "/api/auth/me", "/api/auth/logout"),
	)

	protected.Post("/auth/change-password", authHandler.ChangePassword)
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/logout", authHandler.Logout)

	// Usuários
	userHandler := NewUserHandler(deps.UserUC, deps.Exporter)
	users := protected.Group("/usuarios", RequirePerm("accounts.manage"))
	users.Post("/", userHandler.Create)
	users.Get("/", userHandler.List)
	users.Get("/export", userHandler.Export)
	users.Get("/:id", userHandler.Get)
	users.Put("/:id", userHandler.Update)
	users.Post("/:id/toggle-ativo", userHandler.ToggleAtivo)
	users.Post("/:id/toggle-bloqueio", userHandler.ToggleBloqueio)
	users.Post("/:id/reset-codigo", userHandler.ResetCodigo)
	users.Post("/:id/reset-senha", userHandler.ResetSenha)
	users.Get("/:id/auditoria", RequirePerm("auditoria.view"), userHandler.Auditoria)

	registerOrg(protected.Group("/org"), NewOrgHandler(deps.OrgUC))

	// Auditoria
	protected.Get("/auditoria", RequirePerm("auditoria.view"), auditoriaHandler.List)

	// Almoxarifado
	almox := NewAlmoxarifadoHandler(deps.AlmoxarifadoUC, deps.Exporter)
	alm := protected.Group("/almoxarifado", RequireModule(rbac.ModAlmoxarifado, deps.ModuleService))
	view, manage := RequirePerm("almoxarifado.view"), RequirePerm("almoxarifado.manage")
	alm.Get("/dashboard", view, almox.Dashboard)
	alm.Post("/itens", manage, almox.CreateItem)
	alm.Get("/itens", view, almox.ListItens)
	alm.Get("/itens/export", view, almox.ExportItens)
	alm.Get("/itens/:id", view, almox.GetItem)
	alm.Put("/itens/:id", manage, almox.UpdateItem)
	alm.Post("/movimentos", manage, almox.RegistrarMovimento)
	alm.Get("/movimentos", view, almox.ListMovimentos)
	alm.Get("/movimentos/export", view, almox.ExportMovimentos)
	alm.Post("/requisicoes", manage, almox.CriarRequisicao)
	alm.Get("/requisicoes", view, almox.ListRequisicoes)
	alm.Get("/requisicoes/export", view, almox.ExportRequisicoes)
	alm.Get("/requisicoes/:id", view, almox.GetRequisicao)
	alm.Post("/requisicoes/:id/aprovar", manage, almox.AprovarRequisicao)
	alm.Post("/requisicoes/:id/atender", manage, almox.AtenderRequisicao)
	alm.Post("/requisicoes/:id/cancelar", manage, almox.CancelarRequisicao)

	// Conversor
	conv := NewConversorHandler(deps.ConversorSvc)
	cv := protected.Group("/conversor", RequireModule(rbac.ModConversor, deps.ModuleService))
	view, manage = RequirePerm("conversor.view"), RequirePerm("conversor.manage")
	cv.Post("/jobs", manage, conv.Create)
	cv.Get("/jobs", view, conv.List)
	cv.Get("/jobs/:id", view, conv.Get)
	cv.Post("/jobs/:id/reprocessar", manage, conv.Reprocess)
	cv.Get("/jobs/:id/download", view, conv.Download)

	// Integrações
	integ := NewIntegracaoHandler(deps.IntegracoesUC, deps.Exporter)
	ig := protected.Group("/integracoes", RequireModule(rbac.ModIntegracoes, deps.ModuleService))
	view, manage = RequirePerm("integracoes.view"), RequirePerm("integracoes.manage")
	ig.Get("/resumo", view, integ.Resumo)
	ig.Post("/conectores", manage, integ.CreateConector)
	ig.Get("/conectores", view, integ.ListConectores)
	ig.Get("/conectores/:id", view, integ.GetConector)
	ig.Put("/conectores/:id", manage, integ.UpdateConector)
	ig.Post("/conectores/:id/toggle-ativo", manage, integ.ToggleConector)
	ig.Post("/conectores/:id/execucoes", manage, integ.RegistrarExecucao)
	ig.Get("/conectores/:id/execucoes", view, integ.ListExecucoesConector)
	ig.Get("/execucoes", view, integ.ListExecucoes)
	ig.Get("/execucoes/export", view, integ.ExportExecucoes)
	ig.Get("/execucoes/export.xml", view, integ.ExportXML)

	registerEducacao(protected, NewNEEHandler(deps.NEEUC, deps.Exporter), deps.ModuleService)

	// Folha
	fh := NewFolhaHandler(deps.FolhaUC, deps.Exporter)
	fl := protected.Group("/folha", RequireModule(rbac.ModFolha, deps.ModuleService))
	view, manage = RequirePerm("folha.view"), RequirePerm("folha.manage")
	admin := RequirePerm("folha.admin")
	fl.Post("/rubricas", manage, fh.CreateRubrica)
	fl.Get("/rubricas", view, fh.ListRubricas)
	fl.Get("/rubricas/:id", view, fh.GetRubrica)
	fl.Put("/rubricas/:id", manage, fh.UpdateRubrica)
	fl.Post("/competencias", manage, fh.CreateCompetencia)
	fl.Get("/competencias", view, fh.ListCompetencias)
	fl.Get("/competencias/export", view, fh.ExportCompetencias)
	fl.Get("/competencias/:id", view, fh.GetCompetencia)
	fl.Post("/competencias/:id/processar", manage, fh.Processar)
	fl.Post("/competencias/:id/fechar", admin, fh.Fechar)
	fl.Post("/competencias/:id/reabrir", admin, fh.Reabrir)
	fl.Post("/competencias/:id/enviar-financeiro", admin, fh.EnviarFinanceiro)
	fl.Post("/competencias/:id/lancamentos", manage, fh.CreateLancamento)
	fl.Get("/competencias/:id/lancamentos", view, fh.ListLancamentos)
	fl.Get("/competencias/:id/holerites/:matricula", view, fh.Holerite)

	fin := protected.Group("/financeiro", RequireModule(rbac.ModFinanceiro, deps.ModuleService))
	registerFinanceiro(fin, NewFinanceiroHandler(deps.FinanceiroUC, deps.Exporter))

	sd := protected.Group("/saude", RequireModule(rbac.ModSaude, deps.ModuleService))
	sh := NewSaudeHandler(deps.SaudeUC)
	view, manage = RequirePerm("saude.view"), RequirePerm("saude.manage")
	sd.Post("/profissionais", manage, sh.CreateProfissional)
	sd.Get("/profissionais", view, sh.ListProfissionais)
	sd.Get("/profissionais/:id", view, sh.GetProfissional)
	sd.Put("/profissionais/:id", manage, sh.UpdateProfissional)
	sd.Post("/agendamentos", manage, sh.CreateAgendamento)
	sd.Get("/agendamentos", view, sh.ListAgendamentos)
	sd.Get("/agendamentos/:id", view, sh.GetAgendamento)
	sd.Post("/agendamentos/:id/status", manage, sh.AlterarStatusAgendamento)
	sd.Post("/atendimentos", manage, sh.RegistrarAtendimento)
	sd.Get("/atendimentos", view, sh.ListAtendimentos)
	sd.Get("/atendimentos/:id", view, sh.GetAtendimento)
}

func registerFinanceiro(fin fiber.Router, h *FinanceiroHandler) {
	view, manage, admin := RequirePerm("financeiro.view"), RequirePerm("financeiro.manage"), RequirePerm("financeiro.admin")
	fin.Post("/exercicios", admin, h.CreateExercicio)
	fin.Get("/exercicios", view, h.ListExercicios)
	fin.Post("/exercicios/:id/encerrar", admin, h.EncerrarExercicio)
	fin.Post("/dotacoes", admin, h.CreateDotacao)
	fin.Get("/dotacoes", view, h.ListDotacoes)
	fin.Get("/dotacoes/:id", view, h.GetDotacao)
	fin.Post("/empenhos", manage, h.CreateEmpenho)
	fin.Get("/empenhos", view, h.ListEmpenhos)
	fin.Get("/empenhos/export", view, h.ExportEmpenhos)
	fin.Get("/empenhos/:id", view, h.GetEmpenho)
	fin.Post("/empenhos/:id/liquidacoes", manage, h.Liquidar)
	fin.Post("/empenhos/:id/pagamentos", manage, h.Pagar)
}

func registerOrg(org fiber.Router, h *OrgHandler) {
	view, manage, admin := RequirePerm("org.view"), RequirePerm("org.manage"), RequirePerm("org.admin")
	onlyAdmin := RequireRole(entity.RoleAdmin)

	org.Post("/municipios", onlyAdmin, h.CreateMunicipio)
	org.Get("/municipios", view, h.ListMunicipios)
	org.Get("/municipios/:id", view, h.GetMunicipio)
	org.Put("/municipios/:id", admin, h.UpdateMunicipio)
	org.Delete("/municipios/:id", onlyAdmin, h.DeleteMunicipio)
	org.Get("/municipios/:id/modulos", view, h.MunicipioModulos)
	org.Put("/municipios/:id/modulos", admin, h.SetMunicipioModulos)

	org.Post("/secretarias", manage, h.CreateSecretaria)
	org.Get("/secretarias", view, h.ListSecretarias)
	org.Get("/secretarias/:id", view, h.GetSecretaria)
	org.Put("/secretarias/:id", manage, h.UpdateSecretaria)
	org.Delete("/secretarias/:id", admin, h.DeleteSecretaria)
	org.Get("/secretarias/:id/modulos", view, h.SecretariaModulos)
	org.Put("/secretarias/:id/modulos", admin, h.SetSecretariaModulos)

	org.Post("/unidades", manage, h.CreateUnidade)
	org.Get("/unidades", view, h.ListUnidades)
	org.Get("/unidades/:id", view, h.GetUnidade)
	org.Put("/unidades/:id", manage, h.UpdateUnidade)
	org.Delete("/unidades/:id", manage, h.DeleteUnidade)

	org.Post("/setores", manage, h.CreateSetor)
	org.Get("/setores", view, h.ListSetores)
	org.Get("/setores/:id", view, h.GetSetor)
	org.Put("/setores/:id", manage, h.UpdateSetor)
	org.Delete("/setores/:id", manage, h.DeleteSetor)
}

// registerEducacao rotas de educação e NEE; o módulo nee também é liberado quando educacao está ativo.
func registerEducacao(protected fiber.Router, h *NEEHandler, modules moduleChecker) {
	edu := protected.Group("/educacao", RequireModule(rbac.ModEducacao, modules))
	view, manage := RequirePerm("educacao.view"), RequirePerm("educacao.manage")
	edu.Post("/turmas", manage, h.CreateTurma)
	edu.Get("/turmas", view, h.ListTurmas)
	edu.Get("/turmas/:id", view, h.GetTurma)
	edu.Post("/alunos", manage, h.CreateAluno)
	edu.Get("/alunos", view, h.ListAlunos)
	edu.Get("/alunos/:id", view, h.GetAluno)
	edu.Put("/alunos/:id", manage, h.UpdateAluno)
	edu.Post("/alunos/:id/matriculas", manage, h.CreateMatricula)
	edu.Get("/alunos/:id/matriculas", view, h.ListMatriculas)
	edu.Put("/matriculas/:id/situacao", manage, h.UpdateSituacao)

	n := protected.Group("/nee", RequireModule(rbac.ModNEE, modules))
	view, manage = RequirePerm("nee.view"), RequirePerm("nee.manage")
	n.Get("/tipos", view, h.ListTipos)
	n.Post("/tipos", RequirePerm("nee.admin"), h.CreateTipo)
	n.Put("/tipos/:id", RequirePerm("nee.admin"), h.UpdateTipo)
	n.Get("/alunos/:id", view, h.AlunoNEE)
	n.Get("/alunos/:id/necessidades", view, h.ListNecessidades)
	n.Post("/alunos/:id/necessidades", manage, h.CreateNecessidade)
	n.Put("/alunos/:id/necessidades/:nid", manage, h.UpdateNecessidade)
	n.Get("/alunos/:id/apoios", view, h.ListApoios)
	n.Post("/alunos/:id/apoios", manage, h.CreateApoio)
	n.Put("/alunos/:id/apoios/:aid", manage, h.UpdateApoio)
	n.Get("/relatorios/necessidades", view, h.RelatorioNecessidades)
}
