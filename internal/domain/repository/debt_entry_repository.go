package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/origin"
	"github.com/shopspring/decimal"
)

// DebtPeriodTotals actividad de cartera de un tercero en un período.
type DebtPeriodTotals struct {
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Count       int
}

// PartySummaryRow fila cruda para el listado paginado de cartera: saldos y
// actividad de un tercero, todo derivado de Σdébito − Σcrédito.
type PartySummaryRow struct {
	PartyID      string
	PartyName    string
	Opening      decimal.Decimal
	PeriodDebit  decimal.Decimal
	PeriodCredit decimal.Decimal
}

// DebtEntryRepository puerto del libro de cartera (customer_debts /
// supplier_debts). Append-only salvo DeleteByOrigin, la única mutación
// permitida, usada cuando se anula el documento de origen.
type DebtEntryRepository interface {
	Create(ctx context.Context, e *entity.DebtEntry) error

	// DeleteByOrigin borra las partidas del origen dado. Devuelve cuántas borró.
	DeleteByOrigin(ctx context.Context, partyKind string, ref origin.Ref) (int64, error)

	// Balance Σdébito − Σcrédito del tercero con fecha ≤ until.
	// until nil = todo el histórico.
	Balance(ctx context.Context, partyKind, partyID string, until *time.Time) (decimal.Decimal, error)

	// PeriodTotals actividad en [start, end].
	PeriodTotals(ctx context.Context, partyKind, partyID string, start, end time.Time) (DebtPeriodTotals, error)

	// ListByPartyPeriod partidas del tercero en [start, end], orden cronológico.
	ListByPartyPeriod(ctx context.Context, partyKind, partyID string, start, end time.Time) ([]*entity.DebtEntry, error)

	// PartyExists verifica que el tercero tenga al menos una partida registrada
	// o exista en la tabla de terceros referenciada.
	PartyExists(ctx context.Context, partyKind, partyID string) (bool, error)

	// PartySummaries listado paginado de terceros con apertura y actividad del
	// período. total = número de terceros con partidas (para el envelope).
	PartySummaries(ctx context.Context, partyKind string, start, end time.Time, limit, offset int) ([]PartySummaryRow, int, error)
}
