package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/origin"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

var _ repository.StockMovementRepository = (*StockMovementRepo)(nil)

const movementColumns = `id, variant_id, direction, quantity, unit_cost, total_cost,
	origin_type, origin_id, movement_date, before_qty, before_value, after_qty, after_value,
	note, created_by, created_at, deleted_at`

// StockMovementRepo implementación del puerto StockMovementRepository sobre
// PostgreSQL (usable con pool o tx). El libro es append-only: no expone
// UPDATE ni DELETE.
type StockMovementRepo struct {
	q Querier
}

// NewStockMovementRepository construye el adaptador de persistencia del libro
// de movimientos. Pasar pool o tx (Querier).
func NewStockMovementRepository(q Querier) *StockMovementRepo {
	return &StockMovementRepo{q: q}
}

// Create persiste un movimiento nuevo del libro.
func (r *StockMovementRepo) Create(ctx context.Context, m *entity.StockMovement) error {
	query := `
		INSERT INTO stock_movements (id, variant_id, direction, quantity, unit_cost, total_cost,
			origin_type, origin_id, movement_date, before_qty, before_value, after_qty, after_value,
			note, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(ctx, query,
		m.ID, m.VariantID, m.Direction, m.Quantity, m.UnitCost, m.TotalCost,
		m.Origin.Type, m.Origin.ID, m.Date, m.BeforeQty, m.BeforeValue, m.AfterQty, m.AfterValue,
		m.Note, m.CreatedBy, m.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock movement: %w", err)
	}
	return nil
}

// GetByID obtiene un movimiento por ID. nil si no existe.
func (r *StockMovementRepo) GetByID(ctx context.Context, id string) (*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + ` FROM stock_movements WHERE id = $1 AND deleted_at IS NULL`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get stock movement: %w", err)
	}
	return m, nil
}

// ListByOrigin movimientos generados por un documento de origen, orden de creación.
func (r *StockMovementRepo) ListByOrigin(ctx context.Context, ref origin.Ref) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE origin_type = $1 AND origin_id = $2 AND deleted_at IS NULL
		ORDER BY created_at, id`
	rows, err := r.q.Query(ctx, query, ref.Type, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("list movements by origin: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// ListByVariant historial de una variante, más recientes primero. from/to
// acotan la fecha del movimiento (ambos opcionales).
func (r *StockMovementRepo) ListByVariant(ctx context.Context, variantID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	query := `SELECT ` + movementColumns + `
		FROM stock_movements
		WHERE variant_id = $1
		  AND deleted_at IS NULL
		  AND ($2::timestamptz IS NULL OR movement_date >= $2)
		  AND ($3::timestamptz IS NULL OR movement_date <= $3)
		ORDER BY movement_date DESC, created_at DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(ctx, query, variantID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movements by variant: %w", err)
	}
	defer rows.Close()
	return collectMovements(rows)
}

// SumAsOf reconstruye cantidad y valor de una variante agregando el libro
// completo hasta la fecha de corte. COALESCE asegura ceros sin movimientos.
func (r *StockMovementRepo) SumAsOf(ctx context.Context, variantID string, asOf time.Time) (repository.LedgerTotals, error) {
	query := `
		SELECT
			COALESCE(SUM(CASE WHEN direction = 'inbound' THEN quantity ELSE -quantity END), 0),
			COALESCE(SUM(CASE WHEN direction = 'inbound' THEN total_cost ELSE -total_cost END), 0)
		FROM stock_movements
		WHERE variant_id = $1 AND movement_date <= $2 AND deleted_at IS NULL`
	var t repository.LedgerTotals
	if err := r.q.QueryRow(ctx, query, variantID, asOf).Scan(&t.Quantity, &t.Value); err != nil {
		return repository.LedgerTotals{}, fmt.Errorf("sum movements as of: %w", err)
	}
	return t, nil
}

// IsReversed estado derivado del libro: existe un movimiento con origen
// reversal apuntando al movimiento dado.
func (r *StockMovementRepo) IsReversed(ctx context.Context, movementID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM stock_movements
			WHERE origin_type = $1 AND origin_id = $2 AND deleted_at IS NULL
		)`
	var reversed bool
	if err := r.q.QueryRow(ctx, query, origin.TypeReversal, movementID).Scan(&reversed); err != nil {
		return false, fmt.Errorf("check movement reversed: %w", err)
	}
	return reversed, nil
}

// MonthlyFlow totales de entradas y salidas del mes calendario que contiene a ref.
func (r *StockMovementRepo) MonthlyFlow(ctx context.Context, ref time.Time) (repository.MonthlyFlow, error) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 1, 0)
	query := `
		SELECT
			COALESCE(SUM(quantity)   FILTER (WHERE direction = 'inbound'), 0),
			COALESCE(SUM(total_cost) FILTER (WHERE direction = 'inbound'), 0),
			COALESCE(SUM(quantity)   FILTER (WHERE direction = 'outbound'), 0),
			COALESCE(SUM(total_cost) FILTER (WHERE direction = 'outbound'), 0)
		FROM stock_movements
		WHERE movement_date >= $1 AND movement_date < $2 AND deleted_at IS NULL`
	var f repository.MonthlyFlow
	err := r.q.QueryRow(ctx, query, start, end).Scan(
		&f.InboundQty, &f.InboundValue, &f.OutboundQty, &f.OutboundValue,
	)
	if err != nil {
		return repository.MonthlyFlow{}, fmt.Errorf("monthly flow: %w", err)
	}
	return f, nil
}

func scanMovement(row pgx.Row) (*entity.StockMovement, error) {
	var m entity.StockMovement
	err := row.Scan(
		&m.ID, &m.VariantID, &m.Direction, &m.Quantity, &m.UnitCost, &m.TotalCost,
		&m.Origin.Type, &m.Origin.ID, &m.Date, &m.BeforeQty, &m.BeforeValue, &m.AfterQty, &m.AfterValue,
		&m.Note, &m.CreatedBy, &m.CreatedAt, &m.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func collectMovements(rows pgx.Rows) ([]*entity.StockMovement, error) {
	var movements []*entity.StockMovement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan stock movement: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate stock movements: %w", err)
	}
	return movements, nil
}
