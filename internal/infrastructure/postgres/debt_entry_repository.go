package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/origin"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.DebtEntryRepository = (*DebtEntryRepo)(nil)

// DebtEntryRepo implementación del puerto DebtEntryRepository sobre
// PostgreSQL. Cartera de clientes y de proveedores viven en tablas gemelas
// (customer_debts / supplier_debts); partyKind selecciona la tabla.
type DebtEntryRepo struct {
	q Querier
}

// NewDebtEntryRepository construye el adaptador del libro de cartera.
func NewDebtEntryRepository(q Querier) *DebtEntryRepo {
	return &DebtEntryRepo{q: q}
}

// tableFor resuelve la tabla de cartera y la tabla de terceros del tipo dado.
func tableFor(partyKind string) (debts, parties string, err error) {
	switch partyKind {
	case entity.PartyCustomer:
		return "customer_debts", "customers", nil
	case entity.PartySupplier:
		return "supplier_debts", "suppliers", nil
	}
	return "", "", fmt.Errorf("%w: party kind %q", domain.ErrInvalidInput, partyKind)
}

// Create persiste una partida de cartera.
func (r *DebtEntryRepo) Create(ctx context.Context, e *entity.DebtEntry) error {
	table, _, err := tableFor(e.PartyKind)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, party_id, origin_type, origin_id, debit, credit, entry_date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`, table)
	_, err = r.q.Exec(ctx, query,
		e.ID, e.PartyID, e.Origin.Type, e.Origin.ID, e.Debit, e.Credit, e.Date, e.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert debt entry: %w", err)
	}
	return nil
}

// DeleteByOrigin borra las partidas del origen dado (anulación del documento).
func (r *DebtEntryRepo) DeleteByOrigin(ctx context.Context, partyKind string, ref origin.Ref) (int64, error) {
	table, _, err := tableFor(partyKind)
	if err != nil {
		return 0, err
	}
	query := fmt.Sprintf(`DELETE FROM %s WHERE origin_type = $1 AND origin_id = $2`, table)
	cmd, err := r.q.Exec(ctx, query, ref.Type, ref.ID)
	if err != nil {
		return 0, fmt.Errorf("delete debt entries by origin: %w", err)
	}
	return cmd.RowsAffected(), nil
}

// Balance Σdébito − Σcrédito del tercero con fecha <= until (nil = histórico completo).
func (r *DebtEntryRepo) Balance(ctx context.Context, partyKind, partyID string, until *time.Time) (decimal.Decimal, error) {
	table, _, err := tableFor(partyKind)
	if err != nil {
		return decimal.Zero, err
	}
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(debit - credit), 0)
		FROM %s
		WHERE party_id = $1 AND ($2::timestamptz IS NULL OR entry_date <= $2)`, table)
	var balance decimal.Decimal
	if err := r.q.QueryRow(ctx, query, partyID, until).Scan(&balance); err != nil {
		return decimal.Zero, fmt.Errorf("debt balance: %w", err)
	}
	return balance, nil
}

// PeriodTotals actividad del tercero en [start, end].
func (r *DebtEntryRepo) PeriodTotals(ctx context.Context, partyKind, partyID string, start, end time.Time) (repository.DebtPeriodTotals, error) {
	table, _, err := tableFor(partyKind)
	if err != nil {
		return repository.DebtPeriodTotals{}, err
	}
	query := fmt.Sprintf(`
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0), COUNT(*)
		FROM %s
		WHERE party_id = $1 AND entry_date >= $2 AND entry_date <= $3`, table)
	var t repository.DebtPeriodTotals
	if err := r.q.QueryRow(ctx, query, partyID, start, end).Scan(&t.TotalDebit, &t.TotalCredit, &t.Count); err != nil {
		return repository.DebtPeriodTotals{}, fmt.Errorf("debt period totals: %w", err)
	}
	return t, nil
}

// ListByPartyPeriod partidas del tercero en [start, end], orden cronológico
// con created_at como desempate estable.
func (r *DebtEntryRepo) ListByPartyPeriod(ctx context.Context, partyKind, partyID string, start, end time.Time) ([]*entity.DebtEntry, error) {
	table, _, err := tableFor(partyKind)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`
		SELECT id, party_id, origin_type, origin_id, debit, credit, entry_date, created_at
		FROM %s
		WHERE party_id = $1 AND entry_date >= $2 AND entry_date <= $3
		ORDER BY entry_date, created_at, id`, table)
	rows, err := r.q.Query(ctx, query, partyID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list debt entries: %w", err)
	}
	defer rows.Close()

	var entries []*entity.DebtEntry
	for rows.Next() {
		e := entity.DebtEntry{PartyKind: partyKind}
		err := rows.Scan(&e.ID, &e.PartyID, &e.Origin.Type, &e.Origin.ID, &e.Debit, &e.Credit, &e.Date, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan debt entry: %w", err)
		}
		entries = append(entries, &e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate debt entries: %w", err)
	}
	return entries, nil
}

// PartyExists verifica que el tercero exista en su tabla maestra o tenga
// partidas registradas.
func (r *DebtEntryRepo) PartyExists(ctx context.Context, partyKind, partyID string) (bool, error) {
	table, parties, err := tableFor(partyKind)
	if err != nil {
		return false, err
	}
	query := fmt.Sprintf(`
		SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)
		    OR EXISTS (SELECT 1 FROM %s WHERE party_id = $1)`, parties, table)
	var exists bool
	if err := r.q.QueryRow(ctx, query, partyID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check party exists: %w", err)
	}
	return exists, nil
}

// PartySummaries listado paginado de terceros con apertura (saldo antes de
// start) y actividad del período. Incluye terceros sin actividad en el
// período pero con saldo de arrastre.
func (r *DebtEntryRepo) PartySummaries(ctx context.Context, partyKind string, start, end time.Time, limit, offset int) ([]repository.PartySummaryRow, int, error) {
	table, parties, err := tableFor(partyKind)
	if err != nil {
		return nil, 0, err
	}
	base := fmt.Sprintf(`
		SELECT d.party_id, COALESCE(p.name, d.party_id) AS party_name,
			COALESCE(SUM(d.debit - d.credit) FILTER (WHERE d.entry_date < $1), 0)  AS opening,
			COALESCE(SUM(d.debit)  FILTER (WHERE d.entry_date >= $1 AND d.entry_date <= $2), 0) AS period_debit,
			COALESCE(SUM(d.credit) FILTER (WHERE d.entry_date >= $1 AND d.entry_date <= $2), 0) AS period_credit
		FROM %s d
		LEFT JOIN %s p ON p.id = d.party_id
		WHERE d.entry_date <= $2
		GROUP BY d.party_id, p.name`, table, parties)

	var total int
	countQuery := `SELECT COUNT(*) FROM (` + base + `) s`
	if err := r.q.QueryRow(ctx, countQuery, start, end).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count party summaries: %w", err)
	}

	pageQuery := base + ` ORDER BY party_name, d.party_id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, pageQuery, start, end, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list party summaries: %w", err)
	}
	defer rows.Close()

	var summaries []repository.PartySummaryRow
	for rows.Next() {
		var s repository.PartySummaryRow
		if err := rows.Scan(&s.PartyID, &s.PartyName, &s.Opening, &s.PeriodDebit, &s.PeriodCredit); err != nil {
			return nil, 0, fmt.Errorf("scan party summary: %w", err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate party summaries: %w", err)
	}
	return summaries, total, nil
}
