package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/origin"
	"github.com/shopspring/decimal"
)

// LedgerTotals agregado del libro de movimientos hasta una fecha de corte:
// cantidad = Σentradas − Σsalidas; valor = Σcosto entradas − Σcosto salidas.
type LedgerTotals struct {
	Quantity decimal.Decimal
	Value    decimal.Decimal
}

// MonthlyFlow totales de entradas y salidas de un mes calendario.
type MonthlyFlow struct {
	InboundQty    decimal.Decimal
	InboundValue  decimal.Decimal
	OutboundQty   decimal.Decimal
	OutboundValue decimal.Decimal
}

// StockMovementRepository puerto de persistencia del libro de movimientos
// (append-only: solo Create; jamás update ni delete físico).
type StockMovementRepository interface {
	Create(ctx context.Context, movement *entity.StockMovement) error
	GetByID(ctx context.Context, id string) (*entity.StockMovement, error)
	ListByOrigin(ctx context.Context, ref origin.Ref) ([]*entity.StockMovement, error)
	ListByVariant(ctx context.Context, variantID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)

	// SumAsOf reconstruye el saldo de una variante agregando el libro completo
	// hasta la fecha de corte (inclusive). Sin movimientos devuelve ceros.
	SumAsOf(ctx context.Context, variantID string, asOf time.Time) (LedgerTotals, error)

	// IsReversed estado derivado: existe un movimiento con origen reversal cuyo
	// id de origen es el movimiento dado. Nunca se almacena como columna.
	IsReversed(ctx context.Context, movementID string) (bool, error)

	// MonthlyFlow totales de entradas/salidas del mes calendario que contiene a ref.
	MonthlyFlow(ctx context.Context, ref time.Time) (MonthlyFlow, error)
}
