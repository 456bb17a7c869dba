package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jportillac/servicampo-api/internal/application/audit"
	"github.com/jportillac/servicampo-api/internal/application/auth"
	"github.com/jportillac/servicampo-api/internal/application/catalog"
	"github.com/jportillac/servicampo-api/internal/application/movement"
	"github.com/jportillac/servicampo-api/internal/application/warehouse"
	"github.com/jportillac/servicampo-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	ValidateUC  *movement.ValidateUseCase
	PreviewUC   *movement.PreviewUseCase
	ExecuteUC   *movement.ExecuteUseCase
	HistoryUC   *movement.HistoryUseCase
	WarehouseUC *warehouse.UseCase
	ExportUC    *warehouse.ExportUseCase
	AuditUC     *audit.UseCase
	ReportUC    *audit.ReportUseCase
	CatalogUC   *catalog.UseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth: login es público, register queda detrás del rol admin.
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	adminOnly := RequireRole(entity.RoleAdmin)
	storeRoles := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	protected.Post("/auth/register", adminOnly, authHandler.Register)

	// Movimientos de stock (protegido)
	wh := protected.Group("/warehouse")
	movementHandler := NewMovementHandler(deps.ValidateUC, deps.PreviewUC, deps.ExecuteUC, deps.HistoryUC)
	wh.Post("/movements/validate", movementHandler.Validate)
	wh.Post("/movements/preview", movementHandler.Preview)
	wh.Post("/movements", movementHandler.Execute)
	wh.Get("/movements", movementHandler.History)
	wh.Post("/receive", movementHandler.Receive)
	wh.Get("/reasons", movementHandler.Reasons)

	// Tablero e inventario (protegido)
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, deps.ExportUC)
	wh.Get("/dashboard", warehouseHandler.Dashboard)
	wh.Get("/activity", warehouseHandler.Activity)
	wh.Get("/tasks", warehouseHandler.Tasks)
	wh.Get("/inventory", warehouseHandler.Inventory)
	wh.Get("/inventory/export", warehouseHandler.Export)
	wh.Get("/staging", warehouseHandler.Staging)

	// Auditorías (protegido). Las rutas fijas van antes de /:id.
	audits := protected.Group("/audits")
	auditHandler := NewAuditHandler(deps.AuditUC, deps.ReportUC)
	audits.Post("/", auditHandler.Start)
	audits.Get("/", auditHandler.List)
	audits.Get("/rolling/preview", auditHandler.RollingPreview)
	audits.Get("/:id", auditHandler.Detail)
	audits.Get("/:id/next", auditHandler.NextItem)
	audits.Post("/:id/items/:itemID/count", auditHandler.Count)
	audits.Post("/:id/pause", auditHandler.Pause)
	audits.Post("/:id/resume", auditHandler.Resume)
	audits.Post("/:id/complete", auditHandler.Complete)
	audits.Post("/:id/adjustments", storeRoles, auditHandler.ApplyAdjustments)
	audits.Get("/:id/report", auditHandler.Report)

	// Catálogo y preferencias de proveedor (protegido)
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	parts := protected.Group("/parts")
	parts.Get("/", catalogHandler.Parts)
	parts.Get("/:id", catalogHandler.Part)
	parts.Get("/:id/preferences", catalogHandler.PartPreferences)

	protected.Put("/preferences", storeRoles, catalogHandler.SetPreference)
	protected.Delete("/preferences/:scope/:scopeID", storeRoles, catalogHandler.RemovePreference)

	protected.Get("/categories", catalogHandler.Categories)
	protected.Get("/suppliers", catalogHandler.Suppliers)
}
