package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// BalanceSnapshot es la proyección memoizada del libro de movimientos para una
// variante a una fecha de corte: una fila por (variante, fecha). Puede no
// existir; en ese caso el motor de valoración reconstruye el saldo sumando el
// libro hasta esa fecha.
type BalanceSnapshot struct {
	VariantID   string
	BalanceDate time.Time // solo fecha (hora truncada a medianoche)
	Quantity    decimal.Decimal
	Value       decimal.Decimal
	AverageCost decimal.Decimal // Value / Quantity si Quantity > 0; 0 en otro caso
	UpdatedAt   time.Time
}

// ZeroBalance saldo vacío para una variante sin movimientos: estado válido, no error.
func ZeroBalance(variantID string, date time.Time) *BalanceSnapshot {
	return &BalanceSnapshot{
		VariantID:   variantID,
		BalanceDate: date,
		Quantity:    decimal.Zero,
		Value:       decimal.Zero,
		AverageCost: decimal.Zero,
	}
}
