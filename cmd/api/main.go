package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/cvaldivia/bodega-api/internal/application/catalog"
	"github.com/cvaldivia/bodega-api/internal/application/importer"
	"github.com/cvaldivia/bodega-api/internal/application/movements"
	"github.com/cvaldivia/bodega-api/internal/application/sales"
	"github.com/cvaldivia/bodega-api/internal/application/stock"
	"github.com/cvaldivia/bodega-api/internal/infrastructure/postgres"
	"github.com/cvaldivia/bodega-api/internal/infrastructure/spreadsheet"
	httpRouter "github.com/cvaldivia/bodega-api/internal/interfaces/http"
	"github.com/cvaldivia/bodega-api/pkg/config"
	"github.com/cvaldivia/bodega-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
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

	if err := postgres.ApplySchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("aplicar esquema")
	}

	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewMovementRepository(pool)
	saleRepo := postgres.NewSaleRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockUC := stock.NewUseCase(txRunner, log)
	catalogUC := catalog.NewUseCase(txRunner, productRepo, stockUC, log)
	salesUC := sales.NewUseCase(txRunner, productRepo, saleRepo, stockUC, log)
	movementUC := movements.NewUseCase(movementRepo, log)
	importerUC := importer.NewUseCase(txRunner, spreadsheet.NewExcelReader(), cfg.Import.Timeout(), log)

	app := fiber.New(fiber.Config{
		AppName:     cfg.App.Name,
		ReadTimeout: time.Second * 30,
		// La importación masiva puede tardar hasta el presupuesto de su
		// transacción antes de responder.
		WriteTimeout: cfg.Import.Timeout() + time.Second*30,
		IdleTimeout:  time.Second * 60,
		// La importación masiva sube planillas de varios MB.
		BodyLimit: 20 * 1024 * 1024,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		CatalogUC:  catalogUC,
		SalesUC:    salesUC,
		ImporterUC: importerUC,
		MovementUC: movementUC,
		UploadDir:  cfg.Import.UploadDir,
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
