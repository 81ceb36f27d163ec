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

	"github.com/facturamx/gastos-api/internal/application/auth"
	"github.com/facturamx/gastos-api/internal/application/billing"
	"github.com/facturamx/gastos-api/internal/application/receipts"
	"github.com/facturamx/gastos-api/internal/application/reporting"
	appsync "github.com/facturamx/gastos-api/internal/application/sync"
	"github.com/facturamx/gastos-api/internal/application/usecase"
	"github.com/facturamx/gastos-api/internal/infrastructure/cfdi"
	infradrive "github.com/facturamx/gastos-api/internal/infrastructure/drive"
	"github.com/facturamx/gastos-api/internal/infrastructure/monday"
	"github.com/facturamx/gastos-api/internal/infrastructure/payments"
	infrapdf "github.com/facturamx/gastos-api/internal/infrastructure/pdf"
	"github.com/facturamx/gastos-api/internal/infrastructure/postgres"
	httpRouter "github.com/facturamx/gastos-api/internal/interfaces/http"
	"github.com/facturamx/gastos-api/pkg/config"
	"github.com/facturamx/gastos-api/pkg/logger"
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

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	expenseRepo := postgres.NewExpenseRepository(pool)

	// Tablero externo de gastos (Monday.com)
	boardSource := monday.NewClient(cfg.Monday, log)
	orchestrator := appsync.NewOrchestrator(
		boardSource, expenseRepo, userRepo, companyRepo, log, cfg.Sync.UpsertConcurrency,
	)

	// Almacenamiento de comprobantes (Google Drive). Opcional: sin
	// credenciales la API arranca y los adjuntos devuelven error claro.
	var storage receipts.ReceiptStorage
	if cfg.Drive.CredentialsJSON != "" || cfg.Drive.CredentialsPath != "" {
		uploader, err := infradrive.NewUploader(ctx, cfg.Drive)
		if err != nil {
			log.Fatal().Err(err).Msg("inicializar Google Drive")
		}
		storage = uploader
	} else {
		log.Warn().Msg("Drive sin configurar; los adjuntos quedarán deshabilitados")
		storage = receipts.DisabledStorage{}
	}

	receiptsUC := receipts.NewUseCase(expenseRepo, companyRepo, storage, cfdi.NewParser(), log)
	expenseUC := reporting.NewExpenseUseCase(expenseRepo)
	companyUC := usecase.NewCompanyUseCase(companyRepo, userRepo)
	checkoutUC := billing.NewCheckoutUseCase(payments.NewGateway(cfg.Payments), companyRepo, log)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 30,
		IdleTimeout:  time.Second * 60,
		BodyLimit:    12 << 20, // CFDI y fotos de tickets
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Factura Mis Gastos API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:       authUC,
		CompanyUC:    companyUC,
		ExpenseUC:    expenseUC,
		ReceiptsUC:   receiptsUC,
		Orchestrator: orchestrator,
		CheckoutUC:   checkoutUC,
		CompanyRepo:  companyRepo,
		ReportGen:    infrapdf.NewReportGenerator(),
		JWTSecret:    cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando servidor")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}
}
