package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/inventario-sedes/internal/application/inventory"
	"github.com/jhoicas/inventario-sedes/internal/application/purchasing"
	"github.com/jhoicas/inventario-sedes/internal/application/sales"
	"github.com/jhoicas/inventario-sedes/internal/application/usecase"
	"github.com/jhoicas/inventario-sedes/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC     *usecase.ProductUseCase
	LocationUC    *usecase.LocationUseCase
	PurchaseUC    *purchasing.PurchaseUseCase
	SaleUC        *sales.SaleUseCase
	TransferUC    *inventory.TransferUseCase
	AdjustUC      *inventory.AdjustStockUseCase
	QueryUC       *inventory.QueryUseCase
	Reconciler    *inventory.Reconciler
	Replenishment *inventory.ReplenishmentUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Rutas protegidas (requieren Bearer Token)
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))
	stockRoles := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	locations := api.Group("/locations")
	locationHandler := NewLocationHandler(deps.LocationUC)
	locations.Post("/", RequireRole(entity.RoleAdmin), locationHandler.Create)
	locations.Get("/", locationHandler.List)
	locations.Get("/:id", locationHandler.GetByID)

	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", stockRoles, productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", stockRoles, productHandler.Update)
	products.Delete("/:id", RequireRole(entity.RoleAdmin), productHandler.Delete)

	purchases := api.Group("/purchases", stockRoles)
	purchaseHandler := NewPurchaseHandler(deps.PurchaseUC)
	purchases.Post("/", purchaseHandler.Create)
	purchases.Get("/:id", purchaseHandler.Get)
	purchases.Post("/:id/complete", purchaseHandler.Complete)
	purchases.Post("/:id/cancel", purchaseHandler.Cancel)
	purchases.Delete("/:id", purchaseHandler.Delete)

	salesGroup := api.Group("/sales")
	saleHandler := NewSaleHandler(deps.SaleUC)
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/:id", saleHandler.Get)

	transfers := api.Group("/transfers", stockRoles)
	transferHandler := NewTransferHandler(deps.TransferUC)
	transfers.Post("/", transferHandler.Create)
	transfers.Get("/:id", transferHandler.Get)
	transfers.Post("/:id/ship", transferHandler.Ship)
	transfers.Post("/:id/receive", transferHandler.Receive)
	transfers.Post("/:id/reject", transferHandler.Reject)

	invGroup := api.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.AdjustUC, deps.QueryUC, deps.Reconciler, deps.Replenishment)
	invGroup.Post("/adjustments", stockRoles, inventoryHandler.AdjustStock)
	invGroup.Get("/stock", inventoryHandler.ListStock)
	invGroup.Get("/stock/:product_id/:location_id", inventoryHandler.GetStock)
	invGroup.Get("/movements", inventoryHandler.ListMovements)
	invGroup.Get("/verify", RequireRole(entity.RoleAdmin), inventoryHandler.VerifyLedger)
	invGroup.Get("/replenishment", stockRoles, inventoryHandler.GetReplenishmentList)
}
