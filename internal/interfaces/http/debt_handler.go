package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Gestion-api/internal/application/debt"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain/origin"
	"github.com/shopspring/decimal"
)

// DebtLedgerPDFGenerator contrato mínimo para exportar el extracto en PDF.
// Lo implementa *pdf.MarotoReportGenerator.
type DebtLedgerPDFGenerator interface {
	GenerateDebtLedgerPDF(ctx context.Context, report *dto.DebtLedgerReportDTO) ([]byte, error)
}

// DebtHandler maneja las peticiones HTTP del libro de cartera de un tipo de
// tercero. Se instancia dos veces: clientes y proveedores.
type DebtHandler struct {
	uc  *debt.UseCase
	pdf DebtLedgerPDFGenerator
}

// NewDebtHandler construye el handler.
func NewDebtHandler(uc *debt.UseCase, pdf DebtLedgerPDFGenerator) *DebtHandler {
	return &DebtHandler{uc: uc, pdf: pdf}
}

// debtEntryRequest payload para registrar un débito o crédito de cartera.
type debtEntryRequest struct {
	OriginType string          `json:"origin_type"`
	OriginID   string          `json:"origin_id"`
	Amount     decimal.Decimal `json:"amount"`
	Date       string          `json:"date,omitempty"` // ISO; vacío = ahora
}

func (r *debtEntryRequest) resolve() (origin.Ref, time.Time, bool) {
	ref := origin.Ref{Type: origin.Type(r.OriginType), ID: r.OriginID}
	if !ref.Valid() {
		return origin.Ref{}, time.Time{}, false
	}
	date := time.Now()
	if r.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", r.Date, time.Local)
		if err != nil {
			return origin.Ref{}, time.Time{}, false
		}
		date = parsed
	}
	return ref, date, true
}

// RecordDebit registra un débito (la deuda del tercero aumenta).
// POST /api/debts/{customers|suppliers}/:party_id/debits
func (h *DebtHandler) RecordDebit(c *fiber.Ctx) error {
	return h.record(c, h.uc.RecordDebit)
}

// RecordCredit registra un crédito (la deuda del tercero disminuye).
// POST /api/debts/{customers|suppliers}/:party_id/credits
func (h *DebtHandler) RecordCredit(c *fiber.Ctx) error {
	return h.record(c, h.uc.RecordCredit)
}

func (h *DebtHandler) record(c *fiber.Ctx, op func(ctx context.Context, partyID string, ref origin.Ref, amount decimal.Decimal, date time.Time) error) error {
	var in debtEntryRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	ref, date, ok := in.resolve()
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "origen o fecha inválidos"})
	}
	if err := op(c.Context(), c.Params("party_id"), ref, in.Amount, date); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusCreated)
}

// ReverseByOrigin elimina las partidas de cartera de un documento anulado.
// DELETE /api/debts/{customers|suppliers}/origins/:origin_type/:origin_id
func (h *DebtHandler) ReverseByOrigin(c *fiber.Ctx) error {
	reversed, err := h.uc.ReverseByOrigin(c.Context(), c.Params("origin_type"), c.Params("origin_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reversed": reversed})
}

// GetBalance saldo del tercero a una fecha (until opcional, ISO; vacío = histórico).
// GET /api/debts/{customers|suppliers}/:party_id/balance
func (h *DebtHandler) GetBalance(c *fiber.Ctx) error {
	var until *time.Time
	if raw := c.Query("until"); raw != "" {
		t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "until inválido, formato YYYY-MM-DD"})
		}
		endOfDay := t.Add(24*time.Hour - time.Nanosecond)
		until = &endOfDay
	}
	balance, err := h.uc.BalanceAsOf(c.Context(), c.Params("party_id"), until)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{
		"party_id":   c.Params("party_id"),
		"party_kind": h.uc.PartyKind(),
		"balance":    balance,
	})
}

// GetDetailedLedger extracto detallado del tercero en un período.
// GET /api/debts/{customers|suppliers}/:party_id/ledger
func (h *DebtHandler) GetDetailedLedger(c *fiber.Ctx) error {
	report, err := h.uc.DetailedLedger(c.Context(), c.Params("party_id"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(report)
}

// GetDetailedLedgerPDF extracto detallado en PDF.
// GET /api/debts/{customers|suppliers}/:party_id/ledger/pdf
func (h *DebtHandler) GetDetailedLedgerPDF(c *fiber.Ctx) error {
	report, err := h.uc.DetailedLedger(c.Context(), c.Params("party_id"), c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		return respondError(c, err)
	}
	bytes, err := h.pdf.GenerateDebtLedgerPDF(c.Context(), report)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="extracto-cartera.pdf"`)
	return c.Send(bytes)
}

// ListSummaries listado paginado de terceros con saldos y actividad del período.
// GET /api/debts/{customers|suppliers}
func (h *DebtHandler) ListSummaries(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	list, err := h.uc.ListPartySummaries(c.Context(), c.Query("start_date"), c.Query("end_date"), page)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
