package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// VoucherRepository puerto de solo lectura sobre comprobantes de egreso y
// recibos de caja confirmados, para el libro de caja.
type VoucherRepository interface {
	// ListConfirmed comprobantes confirmados del medio de pago en [start, end],
	// orden (fecha, created_at) para desempates estables.
	ListConfirmed(ctx context.Context, paymentMethod string, start, end time.Time) ([]*entity.Voucher, error)

	// SumConfirmedBefore suma con signo (recibos − egresos) de los confirmados
	// del medio de pago con fecha < before. Semilla del saldo de apertura.
	SumConfirmedBefore(ctx context.Context, paymentMethod string, before time.Time) (decimal.Decimal, error)
}
