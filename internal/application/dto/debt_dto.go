package dto

import "github.com/shopspring/decimal"

// DebtActivityDTO actividad de cartera de un tercero en un período.
type DebtActivityDTO struct {
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Count       int             `json:"count"`
}

// DebtLedgerRowDTO fila del extracto detallado de cartera. Cuando el documento
// de origen ya tiene asiento contable, la fila viene enriquecida con la línea
// del asiento (HasJournalEntry=true); si no, es una fila fallback construida
// directamente desde la partida de cartera con la cuenta de control por defecto.
type DebtLedgerRowDTO struct {
	Date            string          `json:"date"`
	OriginType      string          `json:"origin_type"`
	OriginID        string          `json:"origin_id"`
	DocumentCode    string          `json:"document_code"`
	DocumentLabel   string          `json:"document_label"`
	JournalEntryID  string          `json:"journal_entry_id,omitempty"`
	DetailID        string          `json:"detail_id,omitempty"`
	AccountCode     string          `json:"account_code"`
	AccountName     string          `json:"account_name"`
	Debit           decimal.Decimal `json:"debit"`
	Credit          decimal.Decimal `json:"credit"`
	Balance         decimal.Decimal `json:"balance"`
	HasJournalEntry bool            `json:"has_journal_entry"`
	AffectsControl  bool            `json:"affects_control"` // mueve la cuenta por cobrar/pagar
}

// DebtLedgerReportDTO extracto de cartera de un tercero en un período.
type DebtLedgerReportDTO struct {
	Period         PeriodDTO          `json:"period"`
	PartyID        string             `json:"party_id"`
	PartyKind      string             `json:"party_kind"`
	OpeningBalance decimal.Decimal    `json:"opening_balance"`
	ClosingBalance decimal.Decimal    `json:"closing_balance"`
	Rows           []DebtLedgerRowDTO `json:"rows"`
	Summary        DebtActivityDTO    `json:"summary"`
}

// PartySummaryDTO fila del listado de cartera por tercero.
type PartySummaryDTO struct {
	PartyID string          `json:"party_id"`
	Name    string          `json:"name"`
	Opening decimal.Decimal `json:"opening_balance"`
	Debit   decimal.Decimal `json:"total_debit"`
	Credit  decimal.Decimal `json:"total_credit"`
	Closing decimal.Decimal `json:"closing_balance"`
}

// PartySummaryListDTO listado paginado de cartera.
type PartySummaryListDTO struct {
	Period     PeriodDTO         `json:"period"`
	Data       []PartySummaryDTO `json:"data"`
	Pagination PaginationDTO     `json:"pagination"`
}
