package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	appanalytics "github.com/jhoicas/Mantenimiento-api/internal/application/analytics"
	"github.com/jhoicas/Mantenimiento-api/internal/application/auth"
	"github.com/jhoicas/Mantenimiento-api/internal/application/inventory"
	"github.com/jhoicas/Mantenimiento-api/internal/application/ports"
	"github.com/jhoicas/Mantenimiento-api/internal/application/usecase"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/access"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/Mantenimiento-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/scheduler"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/storage"
	httpRouter "github.com/jhoicas/Mantenimiento-api/internal/interfaces/http"
	"github.com/jhoicas/Mantenimiento-api/pkg/config"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios
	companyRepo := postgres.NewCompanyRepository(pool)
	planRepo := postgres.NewPlanRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	roleRepo := postgres.NewCustomRoleRepository(pool)
	clientRepo := postgres.NewClientRepository(pool)
	assetRepo := postgres.NewAssetRepository(pool)
	woRepo := postgres.NewWorkOrderRepository(pool)
	templateRepo := postgres.NewWorkOrderTemplateRepository(pool)
	seqRepo := postgres.NewSequenceRepository(pool)
	pmRepo := postgres.NewPMPlanRepository(pool)
	partRepo := postgres.NewSparePartRepository(pool)
	movRepo := postgres.NewInventoryMovementRepository(pool)
	docRepo := postgres.NewDocumentRepository(pool)
	attachmentRepo := postgres.NewAttachmentRepository(pool)
	attendanceRepo := postgres.NewAttendanceRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Control de acceso: tabla fija, métricas de decisiones y cachés de sesión
	m := metrics.New()
	table := access.DefaultTable()
	guard := access.NewGuard(table, m)
	roleCache := auth.NewRoleCache(roleRepo, cfg.RoleCache.Size, cfg.RoleCache.TTL())
	userCache := auth.NewUserCache(userRepo, cfg.RoleCache.Size, cfg.RoleCache.TTL())
	sessions := auth.NewSessionResolver(cfg.JWT.Secret, roleCache, userCache)

	// Almacenamiento de adjuntos (opcional)
	var objectStorage ports.ObjectStorage
	if cfg.Storage.Enabled() {
		presigner, err := storage.NewS3Presigner(ctx, cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento de adjuntos")
		}
		objectStorage = presigner
	} else {
		log.Warn().Msg("STORAGE_BUCKET vacío: adjuntos deshabilitados")
	}

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()

	authUC := auth.NewAuthUseCase(userRepo, table, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	pmUC := usecase.NewPMPlanUseCase(pmRepo, assetRepo, templateRepo, txRunner, m, guard, log)

	pmScheduler, err := scheduler.New(cfg.Scheduler.PMSchedule, pmUC, log)
	if err != nil {
		log.Fatal().Err(err).Msg("programador de preventivos")
	}
	pmScheduler.Start()

	app := fiber.New(httpRouter.WithTrustedProxies(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
	}, cfg.HTTP.TrustedProxies, cfg.HTTP.ProxyHeader))
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Mantenimiento API",
		}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.UserContext()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "db_down", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		Sessions:  sessions,
		CompanyUC: usecase.NewCompanyUseCase(companyRepo, planRepo, guard),
		PlanUC:    usecase.NewPlanUseCase(planRepo, guard),
		UserUC:    usecase.NewUserUseCase(userRepo, roleRepo, clientRepo, planRepo, userCache, guard),
		RoleUC:    usecase.NewRoleUseCase(roleRepo, userRepo, roleCache, guard),
		ClientUC:  usecase.NewClientUseCase(clientRepo, guard),
		AssetUC:   usecase.NewAssetUseCase(assetRepo, clientRepo, planRepo, guard),
		WorkOrderUC: usecase.NewWorkOrderUseCase(usecase.WorkOrderDeps{
			WorkOrders: woRepo,
			Templates:  templateRepo,
			Sequences:  seqRepo,
			Assets:     assetRepo,
			Users:      userRepo,
			Companies:  companyRepo,
			Clients:    clientRepo,
			Movements:  movRepo,
			PDF:        pdfGenerator,
			Guard:      guard,
		}),
		PMPlanUC:         pmUC,
		SparePartUC:      inventory.NewSparePartUseCase(partRepo, movRepo, guard),
		RegisterMovement: inventory.NewRegisterMovementUseCase(txRunner, guard),
		Replenishment:    inventory.NewReplenishmentUseCase(partRepo, guard),
		DocumentUC: usecase.NewDocumentUseCase(usecase.DocumentDeps{
			Documents:   docRepo,
			Attachments: attachmentRepo,
			Sequences:   seqRepo,
			WorkOrders:  woRepo,
			Assets:      assetRepo,
			Companies:   companyRepo,
			Clients:     clientRepo,
			Storage:     objectStorage,
			PDF:         pdfGenerator,
			Guard:       guard,
		}),
		AttendanceUC:  usecase.NewAttendanceUseCase(attendanceRepo, clientRepo, guard),
		DashboardUC:   appanalytics.NewDashboardUseCase(woRepo, assetRepo, partRepo, guard),
		ModuleService: usecase.NewModuleService(companyRepo),
		Metrics:       m,
		Log:           log.Named("http"),
		CookieName:    cfg.JWT.CookieName,
		SecureCookie:  cfg.App.Env == "production",
	})

	go func() {
		addr := cfg.HTTP.Addr()
		log.Info().Str("addr", addr).Msg("servidor HTTP escuchando")
		if err := app.Listen(addr); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pmScheduler.Stop(shutdownCtx)
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
