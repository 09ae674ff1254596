package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cvaldivia/bodega-api/internal/application/catalog"
	"github.com/cvaldivia/bodega-api/internal/application/importer"
	"github.com/cvaldivia/bodega-api/internal/application/movements"
	"github.com/cvaldivia/bodega-api/internal/application/sales"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	CatalogUC  *catalog.UseCase
	SalesUC    *sales.UseCase
	ImporterUC *importer.UseCase
	MovementUC *movements.UseCase
	UploadDir  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	products := api.Group("/productos")
	productHandler := NewProductHandler(deps.CatalogUC)
	products.Get("/", productHandler.Search)
	products.Get("/sku/:sku", productHandler.GetBySKU)
	products.Post("/", productHandler.Create)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	salesGroup := api.Group("/ventas")
	saleHandler := NewSaleHandler(deps.SalesUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Post("/:id/anular", saleHandler.Void)
	salesGroup.Get("/historial", saleHandler.History)

	importHandler := NewImportHandler(deps.ImporterUC, deps.UploadDir)
	api.Post("/importar", importHandler.Upload)

	movementHandler := NewMovementHandler(deps.MovementUC)
	api.Get("/movimientos", movementHandler.List)
}
