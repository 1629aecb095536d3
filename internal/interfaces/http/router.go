package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/ordesk/orders-api/internal/application/auth"
	"github.com/ordesk/orders-api/internal/application/orders"
	"github.com/ordesk/orders-api/internal/application/stock"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	LedgerUC  *stock.LedgerUseCase
	ImportUC  *stock.ImportUseCase
	AuditUC   *stock.AuditUseCase
	OrdersUC  *orders.UseCase
	AuthUC    *auth.UseCase
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Stock (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.LedgerUC, deps.ImportUC)
	stockGroup.Get("/", stockHandler.Snapshot)
	stockGroup.Get("/export", stockHandler.Export)
	stockGroup.Post("/manual", stockHandler.ManualUpdate)
	stockGroup.Post("/import", stockHandler.Import)
	stockGroup.Post("/fetch", stockHandler.Fetch)
	stockGroup.Post("/deduct", stockHandler.Deduct)
	stockGroup.Post("/restock", stockHandler.Restock)

	// Auditoría (protegido)
	auditGroup := protected.Group("/audit")
	auditHandler := NewAuditHandler(deps.AuditUC)
	auditGroup.Get("/", auditHandler.Query)

	// Pedidos (protegido)
	ordersGroup := protected.Group("/orders")
	orderHandler := NewOrderHandler(deps.OrdersUC)
	ordersGroup.Post("/", orderHandler.Intake)
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Post("/:id/approve", orderHandler.Approve)
	ordersGroup.Post("/:id/payment", orderHandler.MarkPaid)
	ordersGroup.Post("/:id/fulfill", orderHandler.Fulfill)
	ordersGroup.Post("/:id/delivered", orderHandler.DeliveryComplete)

	// Métricas del flujo (protegido)
	protected.Get("/oversight", orderHandler.Oversight)
}
