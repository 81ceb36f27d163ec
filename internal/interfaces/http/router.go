package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturamx/gastos-api/internal/application/auth"
	"github.com/facturamx/gastos-api/internal/application/billing"
	"github.com/facturamx/gastos-api/internal/application/receipts"
	"github.com/facturamx/gastos-api/internal/application/reporting"
	appsync "github.com/facturamx/gastos-api/internal/application/sync"
	"github.com/facturamx/gastos-api/internal/application/usecase"
	"github.com/facturamx/gastos-api/internal/domain/entity"
	"github.com/facturamx/gastos-api/internal/domain/repository"
	"github.com/facturamx/gastos-api/internal/infrastructure/pdf"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC       *auth.AuthUseCase
	CompanyUC    *usecase.CompanyUseCase
	ExpenseUC    *reporting.ExpenseUseCase
	ReceiptsUC   *receipts.UseCase
	Orchestrator *appsync.Orchestrator
	CheckoutUC   *billing.CheckoutUseCase
	CompanyRepo  repository.CompanyRepository
	ReportGen    *pdf.ReportGenerator
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token con empresa)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Company (protegido; edición solo admin, validada en el use case)
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	protected.Get("/company", companyHandler.Get)
	protected.Put("/company", RequireRole(entity.RoleAdmin), companyHandler.Update)
	protected.Get("/company/users", RequireRole(entity.RoleAdmin), companyHandler.ListUsers)

	// Expenses (protegido)
	expenseHandler := NewExpenseHandler(deps.ExpenseUC, deps.ReceiptsUC, deps.CompanyRepo, deps.ReportGen)
	protected.Get("/expenses", expenseHandler.List)
	protected.Get("/expenses/report.pdf", RequireRole(entity.RoleAdmin), expenseHandler.Report)
	protected.Post("/expenses/:id/receipt", expenseHandler.AttachReceipt)
	protected.Post("/expenses/:id/invoice", expenseHandler.AttachInvoice)

	// Sync (protegido, solo admin)
	syncHandler := NewSyncHandler(deps.Orchestrator)
	protected.Post("/sync", RequireRole(entity.RoleAdmin), syncHandler.Synchronize)
	protected.Get("/sync/mapping", RequireRole(entity.RoleAdmin), syncHandler.DetectMapping)

	// Billing (protegido, solo admin)
	billingHandler := NewBillingHandler(deps.CheckoutUC)
	protected.Post("/billing/checkout", RequireRole(entity.RoleAdmin), billingHandler.Checkout)
}
