package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// BalanceRepository puerto para la proyección de saldos (inventory_balances):
// una fila por (variante, fecha de corte). Es el único estado mutable
// compartido del núcleo; las escrituras se serializan por variante.
type BalanceRepository interface {
	// Get snapshot exacto para (variante, fecha). nil si no existe (no es error).
	Get(ctx context.Context, variantID string, date time.Time) (*entity.BalanceSnapshot, error)

	// Upsert inserta o actualiza el snapshot de (variante, fecha).
	Upsert(ctx context.Context, snapshot *entity.BalanceSnapshot) error

	// ListAsOf último snapshot por variante con fecha ≤ asOf (para el overview).
	ListAsOf(ctx context.Context, asOf time.Time) ([]*entity.BalanceSnapshot, error)

	// DeleteAfter borra los snapshots de la variante con fecha > after. Un
	// movimiento retro-fechado los deja obsoletos; la siguiente lectura los
	// reconstruye desde el libro.
	DeleteAfter(ctx context.Context, variantID string, after time.Time) error

	// LockVariants serializa escrituras por variante durante la transacción
	// actual (pg_advisory_xact_lock). Los ids se bloquean en orden ordenado
	// para evitar deadlocks entre lotes concurrentes. Debe llamarse al inicio
	// de toda operación de mutación, antes de leer el saldo.
	LockVariants(ctx context.Context, variantIDs []string) error
}
