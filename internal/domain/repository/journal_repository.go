package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/origin"
	"github.com/shopspring/decimal"
)

// AccountDetailRow línea de asiento de una cuenta con los datos del asiento
// padre, para el libro mayor.
type AccountDetailRow struct {
	Detail      entity.JournalEntryDetail
	EntryID     string
	EntryDate   time.Time
	Description string
	Origin      origin.Ref
}

// JournalRepository puerto de solo lectura sobre el sistema genérico de
// partida doble (asientos + plan de cuentas). El núcleo nunca escribe aquí;
// los asientos son detalle opcional de los reportes, jamás fuente de saldos
// de cartera.
type JournalRepository interface {
	// GetAccount busca por id o por código. ErrNotFound si no existe.
	GetAccount(ctx context.Context, idOrCode string) (*entity.Account, error)

	// FindEntryByOrigin asiento registrado para el documento dado.
	// nil si aún no fue contabilizado (no es error: dispara la fila fallback).
	FindEntryByOrigin(ctx context.Context, ref origin.Ref) (*entity.JournalEntry, error)

	// ListDetails líneas de un asiento.
	ListDetails(ctx context.Context, entryID string) ([]*entity.JournalEntryDetail, error)

	// ListAccountDetails líneas de la cuenta en [start, end] con su asiento,
	// orden (fecha, asiento, línea).
	ListAccountDetails(ctx context.Context, accountID string, start, end time.Time) ([]AccountDetailRow, error)

	// AccountTotalsBefore Σdébito y Σcrédito de la cuenta con fecha < before.
	AccountTotalsBefore(ctx context.Context, accountID string, before time.Time) (debit, credit decimal.Decimal, err error)

	// ListContraDetails para cada asiento dado, las líneas de las demás cuentas
	// (contrapartidas), indexadas por id de asiento.
	ListContraDetails(ctx context.Context, entryIDs []string, excludeAccountID string) (map[string][]*entity.JournalEntryDetail, error)
}
