package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Gestion-api/internal/application/debt"
	"github.com/jhoicas/Gestion-api/internal/application/inventory"
	"github.com/jhoicas/Gestion-api/internal/application/ledger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	StockUC        *inventory.StockUseCase
	ValuationUC    *inventory.ValuationUseCase
	CustomerDebtUC *debt.UseCase
	SupplierDebtUC *debt.UseCase
	LedgerUC       *ledger.UseCase
	PDFGenerator   interface {
		DebtLedgerPDFGenerator
		CashBookPDFGenerator
	}
	ExcelExporter ReportExcelExporter
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Inventario (protegido)
	invGroup := protected.Group("/inventory")
	inventoryHandler := NewInventoryHandler(deps.StockUC, deps.ValuationUC)
	invGroup.Post("/receive", inventoryHandler.ReceiveStock)
	invGroup.Post("/issue", inventoryHandler.IssueStock)
	invGroup.Post("/adjust", inventoryHandler.AdjustStock)
	invGroup.Post("/revert/:origin_type/:origin_id", inventoryHandler.RevertTransactions)
	invGroup.Post("/availability", inventoryHandler.CheckAvailability)
	invGroup.Get("/balance/:variant_id", inventoryHandler.GetBalance)
	invGroup.Get("/cogs/:variant_id", inventoryHandler.GetCogs)
	invGroup.Get("/overview", inventoryHandler.GetOverview)

	// Cartera de clientes y de proveedores (protegido): mismas rutas, dos libros.
	registerDebtRoutes(protected.Group("/debts/customers"), NewDebtHandler(deps.CustomerDebtUC, deps.PDFGenerator))
	registerDebtRoutes(protected.Group("/debts/suppliers"), NewDebtHandler(deps.SupplierDebtUC, deps.PDFGenerator))

	// Libros de período (protegido)
	ledgerGroup := protected.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.LedgerUC, deps.PDFGenerator, deps.ExcelExporter)
	ledgerGroup.Get("/general/:account", ledgerHandler.GetGeneralLedger)
	ledgerGroup.Get("/general/:account/excel", ledgerHandler.GetGeneralLedgerExcel)
	ledgerGroup.Get("/cash-book", ledgerHandler.GetCashBook)
	ledgerGroup.Get("/cash-book/pdf", ledgerHandler.GetCashBookPDF)
	ledgerGroup.Get("/cash-book/excel", ledgerHandler.GetCashBookExcel)
}

func registerDebtRoutes(group fiber.Router, handler *DebtHandler) {
	group.Get("/", handler.ListSummaries)
	group.Post("/:party_id/debits", handler.RecordDebit)
	group.Post("/:party_id/credits", handler.RecordCredit)
	group.Get("/:party_id/balance", handler.GetBalance)
	group.Get("/:party_id/ledger", handler.GetDetailedLedger)
	group.Get("/:party_id/ledger/pdf", handler.GetDetailedLedgerPDF)
	group.Delete("/origins/:origin_type/:origin_id", handler.ReverseByOrigin)
}
