package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementItemRequest renglón de una recepción o salida de stock.
// UnitCost es obligatorio en recepciones; en salidas se ignora (la salida se
// valora al costo promedio vigente).
type MovementItemRequest struct {
	VariantID string           `json:"variant_id"`
	Quantity  decimal.Decimal  `json:"quantity"`
	UnitCost  *decimal.Decimal `json:"unit_cost,omitempty"`
}

// ReceiveStockRequest payload para registrar entradas.
type ReceiveStockRequest struct {
	Items      []MovementItemRequest `json:"items"`
	OriginType string                `json:"origin_type"`
	OriginID   string                `json:"origin_id"`
	Date       string                `json:"date,omitempty"` // ISO; vacío = ahora
	Note       string                `json:"note,omitempty"`
}

// IssueStockRequest payload para registrar salidas.
type IssueStockRequest struct {
	Items      []MovementItemRequest `json:"items"`
	OriginType string                `json:"origin_type"`
	OriginID   string                `json:"origin_id"`
	Date       string                `json:"date,omitempty"`
	Note       string                `json:"note,omitempty"`
}

// AdjustStockRequest payload para un ajuste a cantidad objetivo.
type AdjustStockRequest struct {
	VariantID   string          `json:"variant_id"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	Reason      string          `json:"reason"`
	Date        string          `json:"date,omitempty"`
}

// StockMovementDTO fila de respuesta de un movimiento registrado.
type StockMovementDTO struct {
	ID          string          `json:"id"`
	VariantID   string          `json:"variant_id"`
	Direction   string          `json:"direction"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	TotalCost   decimal.Decimal `json:"total_cost"`
	OriginType  string          `json:"origin_type"`
	OriginID    string          `json:"origin_id"`
	Date        time.Time       `json:"date"`
	BeforeQty   decimal.Decimal `json:"before_quantity"`
	BeforeValue decimal.Decimal `json:"before_value"`
	AfterQty    decimal.Decimal `json:"after_quantity"`
	AfterValue  decimal.Decimal `json:"after_value"`
	Note        string          `json:"note,omitempty"`
}

// BalanceDTO saldo puntual de una variante.
type BalanceDTO struct {
	VariantID   string          `json:"variant_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// CogsDTO costo de mercancía vendida para una salida hipotética.
type CogsDTO struct {
	AverageCost decimal.Decimal `json:"average_cost"`
	Quantity    decimal.Decimal `json:"quantity"`
	Cogs        decimal.Decimal `json:"cogs"`
}

// AdjustResultDTO resultado de un ajuste. Adjusted=false significa no-op
// (la cantidad ya era la pedida), no un error.
type AdjustResultDTO struct {
	Adjusted   bool            `json:"adjusted"`
	Old        decimal.Decimal `json:"old"`
	New        decimal.Decimal `json:"new"`
	Difference decimal.Decimal `json:"difference"`
	MovementID string          `json:"movement_id,omitempty"`
}

// ShortageDTO faltante detectado en la verificación de disponibilidad.
type ShortageDTO struct {
	VariantID string          `json:"variant_id"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
}

// AvailabilityDTO resultado de CheckStockAvailability.
type AvailabilityDTO struct {
	Available bool          `json:"available"`
	Shortages []ShortageDTO `json:"shortages"`
}

// InventoryOverviewDTO panorama del inventario a una fecha de corte.
type InventoryOverviewDTO struct {
	AsOf               string          `json:"as_of"`
	TotalVariants      int             `json:"total_variants"`
	TotalQuantity      decimal.Decimal `json:"total_quantity"`
	TotalValue         decimal.Decimal `json:"total_value"`
	InStock            int             `json:"in_stock"`
	LowStock           int             `json:"low_stock"`
	OutOfStock         int             `json:"out_of_stock"`
	LowStockThreshold  decimal.Decimal `json:"low_stock_threshold"`
	MonthInboundQty    decimal.Decimal `json:"month_inbound_qty"`
	MonthInboundValue  decimal.Decimal `json:"month_inbound_value"`
	MonthOutboundQty   decimal.Decimal `json:"month_outbound_qty"`
	MonthOutboundValue decimal.Decimal `json:"month_outbound_value"`
}
