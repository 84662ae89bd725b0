package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/jhoicas/Gestion-api/internal/application/debt"
	"github.com/jhoicas/Gestion-api/internal/application/inventory"
	"github.com/jhoicas/Gestion-api/internal/application/ledger"
	infraexcel "github.com/jhoicas/Gestion-api/internal/infrastructure/excel"
	infrapdf "github.com/jhoicas/Gestion-api/internal/infrastructure/pdf"
	"github.com/jhoicas/Gestion-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/Gestion-api/internal/interfaces/http"
	"github.com/jhoicas/Gestion-api/pkg/config"
	"github.com/jhoicas/Gestion-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Service: cfg.App.Name,
		Env:     cfg.App.Env,
		Level:   "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	txRunner := postgres.NewTxRunner(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	balanceRepo := postgres.NewBalanceRepository(pool)
	journalRepo := postgres.NewJournalRepository(pool)
	debtRepo := postgres.NewDebtEntryRepository(pool)
	voucherRepo := postgres.NewVoucherRepository(pool)

	stockUC := inventory.NewStockUseCase(txRunner, movementRepo, balanceRepo)
	valuationUC := inventory.NewValuationUseCase(movementRepo, balanceRepo)
	customerDebtUC := debt.NewCustomerDebtUseCase(txRunner, debtRepo, journalRepo)
	supplierDebtUC := debt.NewSupplierDebtUseCase(txRunner, debtRepo, journalRepo)
	ledgerUC := ledger.NewUseCase(journalRepo, voucherRepo)

	pdfGenerator := infrapdf.NewMarotoReportGenerator()
	excelExporter := infraexcel.NewReportExcelExporter()

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		StockUC:        stockUC,
		ValuationUC:    valuationUC,
		CustomerDebtUC: customerDebtUC,
		SupplierDebtUC: supplierDebtUC,
		LedgerUC:       ledgerUC,
		PDFGenerator:   pdfGenerator,
		ExcelExporter:  excelExporter,
		JWTSecret:      cfg.JWT.Secret,
	})

	httpLog := log.Component("http")
	go func() {
		httpLog.Info().Str("addr", cfg.HTTP.Addr()).Msg("escuchando")
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			httpLog.Error().Err(err).Msg("servidor finalizado")
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
