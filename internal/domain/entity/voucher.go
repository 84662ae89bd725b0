package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clase de comprobante de tesorería.
const (
	VoucherPayment = "payment" // comprobante de egreso (salida de dinero)
	VoucherReceipt = "receipt" // recibo de caja (entrada de dinero)
)

// Medio de pago del comprobante.
const (
	PaymentMethodCash = "cash"
	PaymentMethodBank = "bank"
)

// Estado del comprobante. El libro de caja solo considera confirmados.
const (
	VoucherStatusDraft     = "draft"
	VoucherStatusConfirmed = "confirmed"
	VoucherStatusVoided    = "voided"
)

// Voucher proyección de solo lectura de un comprobante de egreso o recibo de
// caja, suficiente para el libro de caja. El CRUD del documento vive fuera del
// núcleo.
type Voucher struct {
	ID            string
	Code          string
	Kind          string // payment | receipt
	Date          time.Time
	Amount        decimal.Decimal
	PaymentMethod string // cash | bank
	PartyName     string
	Description   string
	Status        string
	CreatedAt     time.Time
}

// SignedAmount monto con signo para el saldo corrido del libro de caja:
// los recibos suman, los egresos restan.
func (v *Voucher) SignedAmount() decimal.Decimal {
	if v.Kind == VoucherPayment {
		return v.Amount.Neg()
	}
	return v.Amount
}
