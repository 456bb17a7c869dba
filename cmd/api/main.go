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

	"github.com/jportillac/servicampo-api/internal/application/audit"
	"github.com/jportillac/servicampo-api/internal/application/auth"
	"github.com/jportillac/servicampo-api/internal/application/catalog"
	"github.com/jportillac/servicampo-api/internal/application/forecast"
	"github.com/jportillac/servicampo-api/internal/application/movement"
	"github.com/jportillac/servicampo-api/internal/application/warehouse"
	infraexcel "github.com/jportillac/servicampo-api/internal/infrastructure/excel"
	infrapdf "github.com/jportillac/servicampo-api/internal/infrastructure/pdf"
	"github.com/jportillac/servicampo-api/internal/infrastructure/postgres"
	httpRouter "github.com/jportillac/servicampo-api/internal/interfaces/http"
	"github.com/jportillac/servicampo-api/pkg/config"
	"github.com/jportillac/servicampo-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
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

	userRepo := postgres.NewUserRepository(pool)
	partRepo := postgres.NewPartRepository(pool)
	stockRepo := postgres.NewStockRepository(pool)
	logRepo := postgres.NewMovementLogRepository(pool)
	prefRepo := postgres.NewPreferenceRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	auditRepo := postgres.NewAuditRepository(pool)
	forecastRepo := postgres.NewForecastRepository(pool)
	directory := postgres.NewLocationDirectory(pool)
	queryRepo := postgres.NewWarehouseQueryRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Pronóstico + centinela de stock bajo; corre post-commit tras cada
	// movimiento y tras aplicar ajustes de auditoría.
	forecastUC := forecast.NewUseCase(partRepo, stockRepo, logRepo, forecastRepo, auditRepo, txRunner, log)

	validateUC := movement.NewValidateUseCase(partRepo, stockRepo)
	resolver := movement.NewSupplierResolver(stockRepo, prefRepo, supplierRepo)
	previewUC := movement.NewPreviewUseCase(partRepo, stockRepo, resolver)
	executeUC := movement.NewExecuteUseCase(txRunner, validateUC, directory, forecastUC, log)
	historyUC := movement.NewHistoryUseCase(logRepo)

	auditUC := audit.NewUseCase(auditRepo, partRepo, stockRepo, logRepo, txRunner, forecastUC, log)
	reportUC := audit.NewReportUseCase(auditRepo, infrapdf.NewMarotoReportGenerator())

	warehouseUC := warehouse.NewUseCase(queryRepo, auditRepo)
	exportUC := warehouse.NewExportUseCase(warehouseUC, infraexcel.NewInventoryExporter())

	categoryRepo := postgres.NewCategoryRepository(pool)
	catalogUC := catalog.NewUseCase(partRepo, supplierRepo, prefRepo, categoryRepo, log)

	authUC := auth.NewUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "ServiCampo API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		ValidateUC:  validateUC,
		PreviewUC:   previewUC,
		ExecuteUC:   executeUC,
		HistoryUC:   historyUC,
		WarehouseUC: warehouseUC,
		ExportUC:    exportUC,
		AuditUC:     auditUC,
		ReportUC:    reportUC,
		CatalogUC:   catalogUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
