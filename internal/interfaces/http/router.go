package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/omnicanal-api/internal/application/cancellation"
	"github.com/jhoicas/omnicanal-api/internal/application/checkout"
	"github.com/jhoicas/omnicanal-api/internal/application/inventory"
	"github.com/jhoicas/omnicanal-api/internal/application/orders"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Checkout         *checkout.UseCase
	Orders           *orders.UseCase
	Cancellation     *cancellation.UseCase
	RegisterMovement *inventory.RegisterMovementUseCase
	Reconciliation   *inventory.ReconciliationUseCase
	Replenishment    *inventory.ReplenishmentUseCase
	JWTSecret        string
	JWTIssuer        string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	checkoutHandler := NewCheckoutHandler(deps.Checkout)
	api.Post("/checkout", checkoutHandler.Checkout)

	orderHandler := NewOrderHandler(deps.Orders, deps.Cancellation)
	ordersGroup := api.Group("/orders")
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Get("/:id/cancellation-preview", orderHandler.PreviewCancellation)
	ordersGroup.Post("/:id/cancel", orderHandler.Cancel)
	ordersGroup.Patch("/:id/status", RequireRole(RoleAdmin), orderHandler.UpdateStatus)

	inventoryHandler := NewInventoryHandler(deps.RegisterMovement, deps.Reconciliation, deps.Replenishment)
	invGroup := api.Group("/inventory", RequireRole(RoleAdmin))
	invGroup.Post("/movements", inventoryHandler.RegisterMovement)
	invGroup.Get("/reconciliation", inventoryHandler.Reconcile)
	invGroup.Get("/replenishment", inventoryHandler.GetReplenishmentList)
}
