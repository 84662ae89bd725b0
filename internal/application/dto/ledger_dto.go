package dto

import "github.com/shopspring/decimal"

// AccountDTO cuenta contable en cabeceras de reporte.
type AccountDTO struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	NormalSide string `json:"normal_side"`
}

// GeneralLedgerRowDTO fila del libro mayor. Cuando un asiento toca más de dos
// cuentas se emite una fila por contrapartida (fan-out), nunca una sola fila
// ambigua.
type GeneralLedgerRowDTO struct {
	Date              string          `json:"date"`
	EntryID           string          `json:"entry_id"`
	Description       string          `json:"description"`
	DocumentCode      string          `json:"document_code"`
	DocumentLabel     string          `json:"document_label"`
	OriginID          string          `json:"origin_id"`
	ContraAccountCode string          `json:"contra_account_code"`
	ContraAccountName string          `json:"contra_account_name"`
	Debit             decimal.Decimal `json:"debit"`
	Credit            decimal.Decimal `json:"credit"`
	Balance           decimal.Decimal `json:"balance"`
}

// LedgerSummaryDTO totales del período.
type LedgerSummaryDTO struct {
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
}

// GeneralLedgerReportDTO libro mayor de una cuenta en un período.
type GeneralLedgerReportDTO struct {
	Period         PeriodDTO             `json:"period"`
	Account        AccountDTO            `json:"account"`
	OpeningBalance decimal.Decimal       `json:"opening_balance"`
	ClosingBalance decimal.Decimal       `json:"closing_balance"`
	Rows           []GeneralLedgerRowDTO `json:"rows"`
	Summary        LedgerSummaryDTO      `json:"summary"`
}

// CashBookRowDTO fila del libro de caja (egreso o recibo confirmado).
type CashBookRowDTO struct {
	Date          string          `json:"date"`
	Code          string          `json:"code"`
	Kind          string          `json:"kind"`
	DocumentLabel string          `json:"document_label"`
	PartyName     string          `json:"party_name"`
	Description   string          `json:"description"`
	In            decimal.Decimal `json:"in"`
	Out           decimal.Decimal `json:"out"`
	Balance       decimal.Decimal `json:"balance"`
}

// CashBookSummaryDTO totales del libro de caja en el período.
type CashBookSummaryDTO struct {
	TotalIn  decimal.Decimal `json:"total_in"`
	TotalOut decimal.Decimal `json:"total_out"`
}

// CashBookReportDTO libro de caja de un medio de pago en un período.
type CashBookReportDTO struct {
	Period         PeriodDTO          `json:"period"`
	PaymentMethod  string             `json:"payment_method"`
	OpeningBalance decimal.Decimal    `json:"opening_balance"`
	ClosingBalance decimal.Decimal    `json:"closing_balance"`
	Rows           []CashBookRowDTO   `json:"rows"`
	Summary        CashBookSummaryDTO `json:"summary"`
}
