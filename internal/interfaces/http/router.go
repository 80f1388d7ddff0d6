package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	appanalytics "github.com/jhoicas/Mantenimiento-api/internal/application/analytics"
	"github.com/jhoicas/Mantenimiento-api/internal/application/auth"
	"github.com/jhoicas/Mantenimiento-api/internal/application/inventory"
	"github.com/jhoicas/Mantenimiento-api/internal/application/usecase"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/compliance"
	"github.com/jhoicas/Mantenimiento-api/internal/domain/entity"
	"github.com/jhoicas/Mantenimiento-api/internal/infrastructure/metrics"
	"github.com/jhoicas/Mantenimiento-api/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC           *auth.AuthUseCase
	Sessions         sessionResolver
	CompanyUC        *usecase.CompanyUseCase
	PlanUC           *usecase.PlanUseCase
	UserUC           *usecase.UserUseCase
	RoleUC           *usecase.RoleUseCase
	ClientUC         *usecase.ClientUseCase
	AssetUC          *usecase.AssetUseCase
	WorkOrderUC      *usecase.WorkOrderUseCase
	PMPlanUC         *usecase.PMPlanUseCase
	SparePartUC      *inventory.SparePartUseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	DocumentUC       *usecase.DocumentUseCase
	AttendanceUC     *usecase.AttendanceUseCase
	DashboardUC      *appanalytics.DashboardUseCase
	ModuleService    moduleChecker // nil = sin verificación de módulos (tests)
	Metrics          *metrics.Metrics
	Log              *logger.Logger
	CookieName       string
	SecureCookie     bool
	LoginPerMinute   int
	LoginBurst       int
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Log != nil {
		app.Use(RequestLogger(deps.Log))
	}
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	module := func(name string) fiber.Handler {
		if deps.ModuleService == nil {
			return func(c *fiber.Ctx) error { return c.Next() }
		}
		return RequireModule(name, deps.ModuleService)
	}

	api := app.Group("/api")

	// Auth (público)
	perMinute, burst := deps.LoginPerMinute, deps.LoginBurst
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = 5
	}
	authHandler := NewAuthHandler(deps.AuthUC, deps.CookieName, deps.SecureCookie)
	authGroup := api.Group("/auth")
	authGroup.Post("/login", LoginRateLimit(perMinute, burst), authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)

	// Rutas protegidas (Bearer o cookie de sesión)
	protected := api.Group("", AuthMiddleware(deps.Sessions, deps.CookieName))

	protected.Get("/me", authHandler.Me)
	protected.Get("/me/navigation", authHandler.Navigation)

	// Administración SaaS
	companyHandler := NewCompanyHandler(deps.CompanyUC, deps.PlanUC)
	companies := protected.Group("/companies")
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Patch("/:id", companyHandler.Update)
	companies.Post("/:id/plan", companyHandler.AssignPlan)

	plans := protected.Group("/plans")
	plans.Get("/", companyHandler.ListPlans)
	plans.Post("/", companyHandler.CreatePlan)
	plans.Put("/:id", companyHandler.UpdatePlan)

	userHandler := NewUserHandler(deps.UserUC, deps.RoleUC)
	users := protected.Group("/users")
	users.Get("/", userHandler.List)
	users.Post("/", userHandler.Create)
	users.Get("/:id", userHandler.GetByID)
	users.Patch("/:id", userHandler.Update)

	roles := protected.Group("/roles")
	roles.Get("/permissions", userHandler.PermissionCatalog)
	roles.Get("/", userHandler.ListRoles)
	roles.Post("/", userHandler.CreateRole)
	roles.Put("/:id", userHandler.UpdateRole)
	roles.Delete("/:id", userHandler.DeleteRole)

	clientHandler := NewClientHandler(deps.ClientUC)
	clients := protected.Group("/clients")
	clients.Get("/", clientHandler.List)
	clients.Post("/", clientHandler.Create)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Get("/:id/sites", clientHandler.ListSites)
	clients.Post("/:id/sites", clientHandler.CreateSite)

	// Activos
	assetHandler := NewAssetHandler(deps.AssetUC)
	assets := protected.Group("/assets", module(entity.ModuleAssets))
	assets.Get("/", assetHandler.List)
	assets.Post("/", assetHandler.Create)
	assets.Get("/:id", assetHandler.GetByID)
	assets.Patch("/:id", assetHandler.Update)

	// Órdenes de trabajo (las rutas fijas antes de /:id)
	woHandler := NewWorkOrderHandler(deps.WorkOrderUC)
	wo := protected.Group("/work-orders", module(entity.ModuleWorkOrders))
	wo.Get("/templates", woHandler.ListTemplates)
	wo.Post("/templates", woHandler.CreateTemplate)
	wo.Delete("/templates/:id", woHandler.DeleteTemplate)
	wo.Post("/from-template", woHandler.CreateFromTemplate)
	wo.Get("/", woHandler.List)
	wo.Post("/", woHandler.Create)
	wo.Get("/:id", woHandler.GetByID)
	wo.Patch("/:id", woHandler.Update)
	wo.Post("/:id/transition", woHandler.Transition)
	wo.Post("/:id/assign", woHandler.Assign)
	wo.Get("/:id/pdf", woHandler.PDF)

	// Mantenimiento preventivo
	pmHandler := NewPMPlanHandler(deps.PMPlanUC)
	pm := protected.Group("/pm-plans", module(entity.ModulePreventive))
	pm.Get("/", pmHandler.List)
	pm.Post("/", pmHandler.Create)
	pm.Get("/:id", pmHandler.GetByID)
	pm.Patch("/:id", pmHandler.Update)
	pm.Delete("/:id", pmHandler.Deactivate)

	// Inventario de repuestos
	invHandler := NewInventoryHandler(deps.SparePartUC, deps.RegisterMovement, deps.Replenishment)
	inv := protected.Group("/inventory", module(entity.ModuleInventory))
	inv.Get("/parts", invHandler.ListParts)
	inv.Post("/parts", invHandler.CreatePart)
	inv.Get("/parts/:id", invHandler.GetPart)
	inv.Get("/parts/:id/movements", invHandler.ListMovements)
	inv.Post("/movements", invHandler.RegisterMovement)
	inv.Get("/replenishment-list", invHandler.GetReplenishmentList)

	// Documentos de cumplimiento: una instancia por familia
	for _, fam := range []compliance.Family{compliance.Safety(), compliance.Quality()} {
		h := NewDocumentHandler(deps.DocumentUC, fam)
		docs := protected.Group("/"+fam.Name+"/documents", module(fam.Module))
		docs.Get("/", h.List)
		docs.Post("/", h.Create)
		docs.Get("/:id", h.GetByID)
		docs.Patch("/:id", h.Update)
		docs.Post("/:id/transition", h.Transition)
		docs.Get("/:id/attachments", h.ListAttachments)
		docs.Post("/:id/attachments", h.RequestUpload)
		docs.Get("/:id/attachments/:attachment_id/download", h.DownloadURL)
		docs.Get("/:id/pdf", h.PDF)
	}

	// Asistencia
	attHandler := NewAttendanceHandler(deps.AttendanceUC)
	att := protected.Group("/attendance", module(entity.ModuleAttendance))
	att.Get("/", attHandler.List)
	att.Post("/check-in", attHandler.CheckIn)
	att.Post("/check-out", attHandler.CheckOut)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard/summary", dashboardHandler.GetSummary)
}
