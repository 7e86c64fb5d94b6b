package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	_ "github.com/gepub/gepub-api/docs"
	"github.com/gepub/gepub-api/internal/application/almoxarifado"
	"github.com/gepub/gepub-api/internal/application/auth"
	"github.com/gepub/gepub-api/internal/application/conversor"
	"github.com/gepub/gepub-api/internal/application/financeiro"
	"github.com/gepub/gepub-api/internal/application/folha"
	"github.com/gepub/gepub-api/internal/application/integracoes"
	"github.com/gepub/gepub-api/internal/application/nee"
	"github.com/gepub/gepub-api/internal/application/saude"
	"github.com/gepub/gepub-api/internal/application/usecase"
	"github.com/gepub/gepub-api/internal/infrastructure/converter"
	"github.com/gepub/gepub-api/internal/infrastructure/export"
	infrapdf "github.com/gepub/gepub-api/internal/infrastructure/pdf"
	"github.com/gepub/gepub-api/internal/infrastructure/postgres"
	infraredis "github.com/gepub/gepub-api/internal/infrastructure/redis"
	"github.com/gepub/gepub-api/internal/infrastructure/scheduler"
	"github.com/gepub/gepub-api/internal/infrastructure/storage"
	httpRouter "github.com/gepub/gepub-api/internal/interfaces/http"
	"github.com/gepub/gepub-api/pkg/config"
	"github.com/gepub/gepub-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("carregar configuração: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicação")

	ctx := context.Background()

	if cfg.App.MigrateOnStart {
		mg, err := postgres.NewMigrator(cfg.DB.ConnectionString(), log.Named("migrate"))
		if err != nil {
			log.Fatal().Err(err).Msg("migrações")
		}
		if err := mg.Up(); err != nil {
			log.Fatal().Err(err).Msg("aplicar migrações")
		}
		_ = mg.Close()
	}

	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexão com PostgreSQL")
	}
	defer pool.Close()

	health := httpRouter.NewHealthHandler(cfg.App.Name).Check("postgres", pool)

	// Redis opcional: sem ele o bloqueio de login fica em memória e a conversão roda na requisição.
	loginWindow := time.Duration(cfg.Security.LoginLockMinutes) * time.Minute
	var (
		limiter auth.LoginLimiter = infraredis.NewMemoryLoginLimiter(cfg.Security.LoginMaxAttempts, loginWindow)
		queue   conversor.Queue
	)
	if cfg.Redis.Enabled() {
		rdb, err := infraredis.NewClient(ctx, cfg.Redis)
		if err != nil {
			log.Fatal().Err(err).Msg("conexão com Redis")
		}
		defer rdb.Close()
		limiter = infraredis.NewLoginLimiter(rdb, cfg.Security.LoginMaxAttempts, loginWindow)
		queue = infraredis.NewQueue(rdb)
		health.Check("redis", httpRouter.PingFunc(func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}))
	} else {
		log.Warn().Msg("REDIS_ADDR vazio: lockout em memória e conversão síncrona")
	}

	files, err := storage.New(ctx, cfg.Storage)
	if err != nil {
		log.Fatal().Err(err).Str("driver", cfg.Storage.Driver).Msg("armazenamento de arquivos")
	}

	// Repositórios
	munRepo := postgres.NewMunicipioRepository(pool)
	secRepo := postgres.NewSecretariaRepository(pool)
	uniRepo := postgres.NewUnidadeRepository(pool)
	setorRepo := postgres.NewSetorRepository(pool)
	moduloRepo := postgres.NewModuloRepository(pool)
	userRepo := postgres.NewUsuarioRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Serviços transversais
	auditoriaSvc := usecase.NewAuditoriaService(
		postgres.NewAuditoriaRepository(pool), postgres.NewTransparenciaRepository(pool), munRepo, log,
	)
	moduleSvc := usecase.NewModuleService(moduloRepo, munRepo)
	hierarquia := usecase.NewHierarquiaResolver(secRepo, uniRepo, setorRepo)

	pdfGenerator := infrapdf.NewGenerator()
	exporter := export.NewExporter(pdfGenerator)

	// Casos de uso
	authUC := auth.NewAuthUseCase(userRepo, limiter, moduleSvc, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)
	userUC := usecase.NewUserUseCase(userRepo, postgres.NewUserAuditRepository(pool), secRepo, uniRepo, setorRepo, log)
	orgUC := usecase.NewOrgUseCase(munRepo, secRepo, uniRepo, setorRepo, moduloRepo, moduleSvc, auditoriaSvc)

	almoxUC := almoxarifado.NewUseCase(
		txRunner,
		postgres.NewAlmoxItemRepository(pool),
		postgres.NewAlmoxMovimentoRepository(pool),
		postgres.NewAlmoxRequisicaoRepository(pool),
		moduleSvc, hierarquia, auditoriaSvc,
	)

	conversorSvc := conversor.NewService(
		postgres.NewConversionJobRepository(pool),
		files,
		queue,
		converter.New(cfg.Conversor.SofficeBin, cfg.Conversor.PdftoppmBin, log),
		moduleSvc,
		auditoriaSvc,
		conversor.Config{
			MaxUploadBytes: cfg.Conversor.MaxUploadBytes(),
			Timeout:        cfg.Conversor.Timeout(),
		},
		log,
	)

	integracoesUC := integracoes.NewUseCase(
		postgres.NewConectorRepository(pool),
		postgres.NewExecucaoRepository(pool),
		munRepo, moduleSvc, export.NewXMLWriter(), auditoriaSvc,
	)

	neeUC := nee.NewUseCase(nee.Repos{
		Turmas:       postgres.NewTurmaRepository(pool),
		Alunos:       postgres.NewAlunoRepository(pool),
		Matriculas:   postgres.NewMatriculaRepository(pool),
		Tipos:        postgres.NewTipoNecessidadeRepository(pool),
		Necessidades: postgres.NewAlunoNecessidadeRepository(pool),
		Apoios:       postgres.NewApoioRepository(pool),
	}, hierarquia, moduleSvc, auditoriaSvc)

	saudeUC := saude.NewUseCase(saude.Repos{
		Profissionais: postgres.NewProfissionalSaudeRepository(pool),
		Agendamentos:  postgres.NewAgendamentoSaudeRepository(pool),
		Atendimentos:  postgres.NewAtendimentoSaudeRepository(pool),
		Unidades:      uniRepo,
		Alunos:        postgres.NewAlunoRepository(pool),
	}, hierarquia, moduleSvc, auditoriaSvc)

	financeiroUC := financeiro.NewUseCase(txRunner, financeiro.Repos{
		Exercicios:  postgres.NewExercicioRepository(pool),
		Dotacoes:    postgres.NewDotacaoRepository(pool),
		Empenhos:    postgres.NewEmpenhoRepository(pool),
		Liquidacoes: postgres.NewLiquidacaoRepository(pool),
		Pagamentos:  postgres.NewPagamentoRepository(pool),
	}, hierarquia, moduleSvc, auditoriaSvc)

	folhaUC := folha.NewUseCase(
		txRunner,
		postgres.NewRubricaRepository(pool),
		postgres.NewCompetenciaRepository(pool),
		postgres.NewLancamentoRepository(pool),
		postgres.NewIntegracaoFinanceiroRepository(pool),
		munRepo, moduleSvc, pdfGenerator, auditoriaSvc,
	).ComFinanceiro(financeiroUC)

	// Workers da fila e tarefas periódicas
	workerCtx, stopWorkers := context.WithCancel(ctx)
	defer stopWorkers()
	var workers *conversor.WorkerPool
	if queue != nil {
		workers = conversor.NewWorkerPool(queue, conversorSvc, cfg.Conversor.Workers, 5*time.Second, log)
		workers.Start(workerCtx)
	}

	cron := scheduler.New(log, time.Minute)
	if err := cron.Add(scheduler.EveryMinute, "conversor.requeue_stale", conversorSvc.RequeueStale); err != nil {
		log.Fatal().Err(err).Msg("agendar tarefa")
	}
	cron.Start()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httpRouter.ErrorHandler,
		BodyLimit:    int(cfg.Conversor.MaxUploadBytes()) + 1024*1024,
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 60,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowHeaders:  "Origin, Content-Type, Accept, Authorization",
		ExposeHeaders: "Content-Disposition, " + httpRouter.HeaderContentSHA256,
	}))
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI em local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "GEPUB API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		UserUC:         userUC,
		OrgUC:          orgUC,
		ModuleService:  moduleSvc,
		AuditoriaSvc:   auditoriaSvc,
		AlmoxarifadoUC: almoxUC,
		ConversorSvc:   conversorSvc,
		IntegracoesUC:  integracoesUC,
		NEEUC:          neeUC,
		FolhaUC:        folhaUC,
		FinanceiroUC:   financeiroUC,
		SaudeUC:        saudeUC,
		Exporter:       exporter,
		Health:         health,
		Usuarios:       userRepo,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("sinal de desligamento recebido, encerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("desligamento do servidor")
	}
	if err := cron.Stop(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("parar agendador")
	}
	if workers != nil {
		if err := workers.Stop(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("parar workers do conversor")
		}
	}

	log.Info().Msg("aplicação encerrada")
}
