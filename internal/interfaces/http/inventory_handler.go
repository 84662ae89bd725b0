package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/application/inventory"
	"github.com/shopspring/decimal"
)

// InventoryHandler maneja las peticiones HTTP del motor de inventario (protegido).
type InventoryHandler struct {
	stock     *inventory.StockUseCase
	valuation *inventory.ValuationUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(stock *inventory.StockUseCase, valuation *inventory.ValuationUseCase) *InventoryHandler {
	return &InventoryHandler{stock: stock, valuation: valuation}
}

// ReceiveStock registra entradas de stock de un documento de origen.
// POST /api/inventory/receive
func (h *InventoryHandler) ReceiveStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movements, err := h.stock.ReceiveStock(c.Context(), in, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movements": movements})
}

// IssueStock registra salidas de stock valoradas al costo promedio vigente.
// POST /api/inventory/issue
func (h *InventoryHandler) IssueStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.IssueStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	movements, err := h.stock.IssueStock(c.Context(), in, userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"movements": movements})
}

// AdjustStock lleva una variante a una cantidad objetivo.
// POST /api/inventory/adjust
func (h *InventoryHandler) AdjustStock(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AdjustStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.stock.AdjustStock(c.Context(), in, userID)
	if err != nil {
		return respondError(c, err)
	}
	status := fiber.StatusCreated
	if !result.Adjusted {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(result)
}

// RevertTransactions reversa los movimientos de un documento de origen.
// POST /api/inventory/revert/:origin_type/:origin_id
func (h *InventoryHandler) RevertTransactions(c *fiber.Ctx) error {
	reverted, err := h.stock.RevertTransactions(c.Context(), c.Params("origin_type"), c.Params("origin_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"reverted": reverted})
}

// CheckAvailability verifica stock suficiente para un lote de salidas, sin mutar nada.
// POST /api/inventory/availability
func (h *InventoryHandler) CheckAvailability(c *fiber.Ctx) error {
	var in struct {
		Items []dto.MovementItemRequest `json:"items"`
	}
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	result, err := h.stock.CheckStockAvailability(c.Context(), in.Items, time.Now())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(result)
}

// GetBalance saldo de una variante a una fecha de corte (as_of opcional, ISO).
// GET /api/inventory/balance/:variant_id
func (h *InventoryHandler) GetBalance(c *fiber.Ctx) error {
	asOf, err := parseAsOf(c.Query("as_of"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "as_of inválido, formato YYYY-MM-DD"})
	}
	balance, err := h.valuation.CurrentBalance(c.Context(), c.Params("variant_id"), asOf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(balance)
}

// GetCogs costo de mercancía vendida para una salida hipotética.
// GET /api/inventory/cogs/:variant_id?quantity=N
func (h *InventoryHandler) GetCogs(c *fiber.Ctx) error {
	qty, err := decimal.NewFromString(c.Query("quantity"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "quantity inválida"})
	}
	asOf, err := parseAsOf(c.Query("as_of"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "as_of inválido, formato YYYY-MM-DD"})
	}
	cogs, err := h.valuation.CostOfGoodsSold(c.Context(), c.Params("variant_id"), qty, asOf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cogs)
}

// GetOverview panorama del inventario: totales, clasificación de stock y
// flujo del mes en curso.
// GET /api/inventory/overview
func (h *InventoryHandler) GetOverview(c *fiber.Ctx) error {
	asOf, err := parseAsOf(c.Query("as_of"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "as_of inválido, formato YYYY-MM-DD"})
	}
	var threshold *decimal.Decimal
	if raw := c.Query("low_stock_threshold"); raw != "" {
		t, err := decimal.NewFromString(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "low_stock_threshold inválido"})
		}
		threshold = &t
	}
	overview, err := h.stock.InventoryOverview(c.Context(), asOf, threshold)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(overview)
}

// parseAsOf interpreta el query param as_of. Vacío = ahora.
func parseAsOf(raw string) (time.Time, error) {
	if raw == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", raw, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	// fin de día para incluir los movimientos de la fecha pedida
	return t.Add(24*time.Hour - time.Nanosecond), nil
}
