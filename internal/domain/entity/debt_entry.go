package entity

import (
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/origin"
	"github.com/shopspring/decimal"
)

// Tipo de tercero en el libro de cartera.
const (
	PartyCustomer = "customer" // cliente (cuentas por cobrar)
	PartySupplier = "supplier" // proveedor (cuentas por pagar)
)

// DebtEntry es una partida inmutable del libro de cartera (clientes o
// proveedores). Débito aumenta la deuda, crédito la disminuye. Por evento de
// negocio exactamente uno de los dos es distinto de cero, pero ambos campos se
// modelan para soportar netos con signo genéricos.
//
// El saldo de un tercero en cualquier instante es Σdébito − Σcrédito sobre las
// partidas con fecha ≤ instante. Esta tabla es la fuente de verdad del saldo,
// independiente de si el asiento contable formal ya fue registrado.
type DebtEntry struct {
	ID        string
	PartyID   string
	PartyKind string // customer | supplier
	Origin    origin.Ref
	Debit     decimal.Decimal
	Credit    decimal.Decimal
	Date      time.Time
	CreatedAt time.Time
}

// Net débito − crédito de la partida.
func (e *DebtEntry) Net() decimal.Decimal {
	return e.Debit.Sub(e.Credit)
}
