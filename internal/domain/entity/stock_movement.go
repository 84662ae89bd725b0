package entity

import (
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/origin"
	"github.com/shopspring/decimal"
)

// Dirección de un movimiento de stock.
const (
	DirectionInbound  = "inbound"  // entrada
	DirectionOutbound = "outbound" // salida
)

// StockMovement es una entrada del libro de movimientos de inventario.
// El libro es append-only: un movimiento nunca se actualiza ni se borra;
// una corrección se modela como un movimiento nuevo de dirección opuesta con
// origen Reversal apuntando al id del movimiento original.
//
// Invariantes:
//
//	AfterQty   = BeforeQty   + Quantity  (inbound)  |  BeforeQty   - Quantity  (outbound)
//	AfterValue = BeforeValue + TotalCost (inbound)  |  BeforeValue - TotalCost (outbound)
type StockMovement struct {
	ID          string
	VariantID   string // variante de producto cuyo stock se rastrea
	Direction   string // inbound | outbound
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	TotalCost   decimal.Decimal // Quantity * UnitCost
	Origin      origin.Ref
	Date        time.Time
	BeforeQty   decimal.Decimal
	BeforeValue decimal.Decimal
	AfterQty    decimal.Decimal
	AfterValue  decimal.Decimal
	Note        string
	CreatedBy   string
	CreatedAt   time.Time
	DeletedAt   *time.Time
}

// Sign devuelve +1 para entradas y -1 para salidas.
func (m *StockMovement) Sign() decimal.Decimal {
	if m.Direction == DirectionOutbound {
		return decimal.NewFromInt(-1)
	}
	return decimal.NewFromInt(1)
}

// SignedQuantity cantidad con signo según la dirección.
func (m *StockMovement) SignedQuantity() decimal.Decimal {
	return m.Quantity.Mul(m.Sign())
}

// SignedTotalCost costo total con signo según la dirección.
func (m *StockMovement) SignedTotalCost() decimal.Decimal {
	return m.TotalCost.Mul(m.Sign())
}

// OppositeDirection dirección contraria, usada al construir reversiones.
func OppositeDirection(direction string) string {
	if direction == DirectionInbound {
		return DirectionOutbound
	}
	return DirectionInbound
}
