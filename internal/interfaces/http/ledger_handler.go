package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/ledger"
)

// CashBookPDFGenerator contrato mínimo para exportar el libro de caja en PDF.
type CashBookPDFGenerator interface {
	GenerateCashBookPDF(ctx context.Context, report *dto.CashBookReportDTO) ([]byte, error)
}

// ReportExcelExporter contrato mínimo para exportar los libros a XLSX.
type ReportExcelExporter interface {
	ExportGeneralLedger(ctx context.Context, report *dto.GeneralLedgerReportDTO) ([]byte, error)
	ExportCashBook(ctx context.Context, report *dto.CashBookReportDTO) ([]byte, error)
}

// LedgerHandler maneja las peticiones HTTP de los libros de período
// (libro mayor y libro de caja).
type LedgerHandler struct {
	uc    *ledger.UseCase
	pdf   CashBookPDFGenerator
	excel ReportExcelExporter
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(uc *ledger.UseCase, pdf CashBookPDFGenerator, excel ReportExcelExporter) *LedgerHandler {
	return &LedgerHandler{uc: uc, pdf: pdf, excel: excel}
}

// GetGeneralLedger libro mayor de una cuenta en un período.
// GET /api/ledger/general/:account
func (h *LedgerHandler) GetGeneralLedger(c *fiber.Ctx) error {
	report, err := h.uc.GeneralLedger(c.Context(), c.Params("account"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetGeneralLedgerExcel libro mayor en XLSX.
// GET /api/ledger/general/:account/excel
func (h *LedgerHandler) GetGeneralLedgerExcel(c *fiber.Ctx) error {
	report, err := h.uc.GeneralLedger(c.Context(), c.Params("account"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return respondError(c, err)
	}
	bytes, err := h.excel.ExportGeneralLedger(c.Context(), report)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="libro-mayor.xlsx"`)
	return c.Send(bytes)
}

// GetCashBook libro de caja de un medio de pago en un período.
// GET /api/ledger/cash-book?payment_method=cash|bank
func (h *LedgerHandler) GetCashBook(c *fiber.Ctx) error {
	report, err := h.uc.CashBook(c.Context(), c.Query("start_date"), c.Query("end_date"), c.Query("payment_method"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetCashBookPDF libro de caja en PDF.
// GET /api/ledger/cash-book/pdf
func (h *LedgerHandler) GetCashBookPDF(c *fiber.Ctx) error {
	report, err := h.uc.CashBook(c.Context(), c.Query("start_date"), c.Query("end_date"), c.Query("payment_method"))
	if err != nil {
		return respondError(c, err)
	}
	bytes, err := h.pdf.GenerateCashBookPDF(c.Context(), report)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="libro-caja.pdf"`)
	return c.Send(bytes)
}

// GetCashBookExcel libro de caja en XLSX.
// GET /api/ledger/cash-book/excel
func (h *LedgerHandler) GetCashBookExcel(c *fiber.Ctx) error {
	report, err := h.uc.CashBook(c.Context(), c.Query("start_date"), c.Query("end_date"), c.Query("payment_method"))
	if err != nil {
		return respondError(c, err)
	}
	bytes, err := h.excel.ExportCashBook(c.Context(), report)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="libro-caja.xlsx"`)
	return c.Send(bytes)
}
