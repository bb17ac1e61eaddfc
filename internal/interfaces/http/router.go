package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Facturacion-api/internal/application/analytics"
	"github.com/jhoicas/Facturacion-api/internal/application/auth"
	"github.com/jhoicas/Facturacion-api/internal/application/billing"
	"github.com/jhoicas/Facturacion-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	UserUC     *usecase.UserUseCase
	CompanyUC  *usecase.CompanyUseCase
	ClientUC   *usecase.ClientUseCase
	ProductUC  *usecase.ProductUseCase
	InvoiceUC  *billing.InvoiceUseCase
	EstimateUC *billing.EstimateUseCase
	PaymentUC  *billing.PaymentUseCase
	InvoicePDF *billing.PDFUseCase
	SummaryUC  *analytics.SummaryUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	api.Get("/me", AuthMiddleware(deps.AuthUC), NewUserHandler(deps.UserUC).Me)

	// Todo lo demás cuelga de una empresa del usuario autenticado.
	companies := api.Group("/companies", AuthMiddleware(deps.AuthUC))
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", companyHandler.Create)
	companies.Get("/:companyId", companyHandler.GetByID)
	companies.Patch("/:companyId", companyHandler.Update)
	companies.Delete("/:companyId", companyHandler.Delete)

	company := companies.Group("/:companyId")
	company.Get("/summary", NewSummaryHandler(deps.SummaryUC).GetSummary)

	clients := company.Group("/clients")
	clientHandler := NewClientHandler(deps.ClientUC)
	clients.Post("/", clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
	clients.Patch("/:id", clientHandler.Update)
	clients.Delete("/:id", clientHandler.Delete)

	products := company.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Patch("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	invoices := company.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.InvoicePDF)
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.List)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id", invoiceHandler.Update)
	invoices.Delete("/:id", invoiceHandler.Delete)
	invoices.Get("/:id/pdf", invoiceHandler.DownloadPDF)

	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	invoices.Post("/:invoiceId/payments", paymentHandler.Create)
	invoices.Get("/:invoiceId/payments", paymentHandler.List)
	invoices.Delete("/:invoiceId/payments/:paymentId", paymentHandler.Delete)

	estimates := company.Group("/estimates")
	estimateHandler := NewEstimateHandler(deps.EstimateUC)
	estimates.Post("/", estimateHandler.Create)
	estimates.Get("/", estimateHandler.List)
	estimates.Get("/:id", estimateHandler.GetByID)
	estimates.Patch("/:id", estimateHandler.Update)
	estimates.Delete("/:id", estimateHandler.Delete)
	estimates.Post("/:id/convert", estimateHandler.Convert)
}
