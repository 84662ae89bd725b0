package entity

import (
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/origin"
	"github.com/shopspring/decimal"
)

// Lado de saldo normal de una cuenta contable.
const (
	NormalSideDebit  = "D" // activo / gasto: saldo = débitos − créditos
	NormalSideCredit = "C" // pasivo / patrimonio / ingreso: saldo = créditos − débitos
)

// Account cuenta del plan contable (colaborador de solo lectura para reportes).
type Account struct {
	ID         string
	Code       string
	Name       string
	NormalSide string // D | C
}

// SignedBalance aplica la convención de signo del lado normal de la cuenta.
func (a *Account) SignedBalance(debit, credit decimal.Decimal) decimal.Decimal {
	if a.NormalSide == NormalSideCredit {
		return credit.Sub(debit)
	}
	return debit.Sub(credit)
}

// JournalEntry asiento del sistema genérico de partida doble. El núcleo nunca
// escribe en estas tablas; las lee para enriquecer los reportes de libros.
type JournalEntry struct {
	ID          string
	Origin      origin.Ref
	Date        time.Time
	Description string
	CreatedAt   time.Time
}

// JournalEntryDetail línea de un asiento: una cuenta con su débito o crédito.
type JournalEntryDetail struct {
	ID          string
	EntryID     string
	AccountID   string
	AccountCode string
	AccountName string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
}
