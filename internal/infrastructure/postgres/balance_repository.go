package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.BalanceRepository = (*BalanceRepo)(nil)

// BalanceRepo implementación del puerto BalanceRepository sobre PostgreSQL.
type BalanceRepo struct {
	q Querier
}

// NewBalanceRepository construye el adaptador de la proyección de saldos.
func NewBalanceRepository(q Querier) *BalanceRepo {
	return &BalanceRepo{q: q}
}

// Get snapshot exacto para (variante, fecha). nil si no existe.
func (r *BalanceRepo) Get(ctx context.Context, variantID string, date time.Time) (*entity.BalanceSnapshot, error) {
	query := `
		SELECT variant_id, balance_date, quantity, value, average_cost, updated_at
		FROM inventory_balances
		WHERE variant_id = $1 AND balance_date = $2`
	var s entity.BalanceSnapshot
	err := r.q.QueryRow(ctx, query, variantID, date).Scan(
		&s.VariantID, &s.BalanceDate, &s.Quantity, &s.Value, &s.AverageCost, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get balance snapshot: %w", err)
	}
	return &s, nil
}

// Upsert inserta o actualiza el snapshot de (variante, fecha).
func (r *BalanceRepo) Upsert(ctx context.Context, s *entity.BalanceSnapshot) error {
	query := `
		INSERT INTO inventory_balances (variant_id, balance_date, quantity, value, average_cost, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
		ON CONFLICT (variant_id, balance_date)
		DO UPDATE SET quantity = EXCLUDED.quantity, value = EXCLUDED.value,
			average_cost = EXCLUDED.average_cost, updated_at = NOW()`
	_, err := r.q.Exec(ctx, query, s.VariantID, s.BalanceDate, s.Quantity, s.Value, s.AverageCost)
	if err != nil {
		return fmt.Errorf("upsert balance snapshot: %w", err)
	}
	return nil
}

// ListAsOf último snapshot por variante con fecha <= asOf.
func (r *BalanceRepo) ListAsOf(ctx context.Context, asOf time.Time) ([]*entity.BalanceSnapshot, error) {
	query := `
		SELECT DISTINCT ON (variant_id)
			variant_id, balance_date, quantity, value, average_cost, updated_at
		FROM inventory_balances
		WHERE balance_date <= $1
		ORDER BY variant_id, balance_date DESC`
	rows, err := r.q.Query(ctx, query, asOf)
	if err != nil {
		return nil, fmt.Errorf("list balance snapshots: %w", err)
	}
	defer rows.Close()

	var snapshots []*entity.BalanceSnapshot
	for rows.Next() {
		var s entity.BalanceSnapshot
		if err := rows.Scan(&s.VariantID, &s.BalanceDate, &s.Quantity, &s.Value, &s.AverageCost, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan balance snapshot: %w", err)
		}
		snapshots = append(snapshots, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate balance snapshots: %w", err)
	}
	return snapshots, nil
}

// DeleteAfter borra los snapshots de la variante con fecha > after.
func (r *BalanceRepo) DeleteAfter(ctx context.Context, variantID string, after time.Time) error {
	_, err := r.q.Exec(ctx,
		`DELETE FROM inventory_balances WHERE variant_id = $1 AND balance_date > $2`,
		variantID, after,
	)
	if err != nil {
		return fmt.Errorf("delete stale balance snapshots: %w", err)
	}
	return nil
}

// LockVariants serializa escrituras por variante mediante advisory locks de
// transacción. Funciona aun cuando la variante no tiene fila de saldo todavía
// (un SELECT FOR UPDATE no bloquearía nada). Se toman en orden ordenado para
// evitar deadlocks entre lotes concurrentes.
func (r *BalanceRepo) LockVariants(ctx context.Context, variantIDs []string) error {
	ids := append([]string(nil), variantIDs...)
	sort.Strings(ids)
	for _, id := range ids {
		if _, err := r.q.Exec(ctx,
			`SELECT pg_advisory_xact_lock(hashtextextended('stock:' || $1::text, 0))`, id,
		); err != nil {
			return fmt.Errorf("lock variant %s: %w", id, err)
		}
	}
	return nil
}
