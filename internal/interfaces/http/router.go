package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pedidos-api/internal/application/access"
	"github.com/jhoicas/pedidos-api/internal/application/auth"
	"github.com/jhoicas/pedidos-api/internal/application/billing"
	"github.com/jhoicas/pedidos-api/internal/application/ledger"
	"github.com/jhoicas/pedidos-api/internal/application/orders"
	"github.com/jhoicas/pedidos-api/internal/application/quotes"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	AccessUC       *access.UseCase
	ProvisioningUC *billing.ProvisioningUseCase
	WebhookUC      *billing.WebhookUseCase
	OrdersUC       *orders.UseCase
	QuotesUC       *quotes.UseCase
	LedgerUC       *ledger.UseCase
	JWTSecret      string
	Log            zerolog.Logger
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.Log)
	authGroup.Post("/register-company", authHandler.RegisterCompany)
	authGroup.Post("/login", authHandler.Login)

	// Webhook del proveedor (público, firmado con HMAC)
	webhookHandler := NewWebhookHandler(deps.WebhookUC, deps.Log)
	api.Post("/webhooks/asaas", webhookHandler.Receive)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Suscripción: accesible aunque la prueba haya vencido
	subscriptionHandler := NewSubscriptionHandler(deps.AccessUC, deps.ProvisioningUC, deps.Log)
	protected.Get("/subscription/status", subscriptionHandler.Status)
	protected.Get("/plans", subscriptionHandler.ListPlans)
	protected.Post("/subscriptions", subscriptionHandler.Create)
	protected.Get("/subscriptions/:id/pix", subscriptionHandler.GetPix)

	// Rutas de negocio (requieren acceso activo)
	paid := protected.Group("/", RequireActiveAccess(deps.AccessUC, deps.Log))

	orderHandler := NewOrderHandler(deps.OrdersUC, deps.Log)
	ordersGroup := paid.Group("/orders")
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Post("/", orderHandler.Create)
	ordersGroup.Get("/:id", orderHandler.GetByID)
	ordersGroup.Put("/:id", orderHandler.Update)
	ordersGroup.Post("/:id/transitions", orderHandler.Transition)
	ordersGroup.Get("/:id/receipt", orderHandler.Receipt)

	quoteHandler := NewQuoteHandler(deps.QuotesUC, deps.Log)
	quotesGroup := paid.Group("/quotes")
	quotesGroup.Get("/", quoteHandler.List)
	quotesGroup.Post("/", quoteHandler.Create)
	quotesGroup.Post("/:id/approve", quoteHandler.Approve)
	quotesGroup.Post("/:id/convert", quoteHandler.Convert)

	financialHandler := NewFinancialHandler(deps.LedgerUC, deps.Log)
	financial := paid.Group("/financial")
	financial.Get("/transactions", financialHandler.List)
	financial.Post("/transactions", financialHandler.Create)
	financial.Patch("/transactions/:id/paid", financialHandler.SetPaid)
	financial.Get("/summary", financialHandler.Summary)
}
