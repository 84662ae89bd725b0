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
	"github.com/shopspring/decimal"
)

var _ repository.JournalRepository = (*JournalRepo)(nil)

// JournalRepo adaptador de solo lectura sobre asientos contables y plan de
// cuentas. El núcleo jamás escribe en estas tablas.
type JournalRepo struct {
	q Querier
}

// NewJournalRepository construye el adaptador de lectura contable.
func NewJournalRepository(q Querier) *JournalRepo {
	return &JournalRepo{q: q}
}

// GetAccount busca una cuenta por id o por código.
func (r *JournalRepo) GetAccount(ctx context.Context, idOrCode string) (*entity.Account, error) {
	query := `
		SELECT id, code, name, normal_side
		FROM accounts
		WHERE id = $1 OR code = $1`
	var a entity.Account
	err := r.q.QueryRow(ctx, query, idOrCode).Scan(&a.ID, &a.Code, &a.Name, &a.NormalSide)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: account %s", domain.ErrNotFound, idOrCode)
		}
		return nil, fmt.Errorf("get account: %w", err)
	}
	return &a, nil
}

// FindEntryByOrigin asiento del documento dado. nil si aún no fue contabilizado.
func (r *JournalRepo) FindEntryByOrigin(ctx context.Context, ref origin.Ref) (*entity.JournalEntry, error) {
	query := `
		SELECT id, origin_type, origin_id, entry_date, description, created_at
		FROM journal_entries
		WHERE origin_type = $1 AND origin_id = $2
		ORDER BY created_at
		LIMIT 1`
	var e entity.JournalEntry
	err := r.q.QueryRow(ctx, query, ref.Type, ref.ID).Scan(
		&e.ID, &e.Origin.Type, &e.Origin.ID, &e.Date, &e.Description, &e.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find journal entry by origin: %w", err)
	}
	return &e, nil
}

// ListDetails líneas de un asiento con cuenta resuelta.
func (r *JournalRepo) ListDetails(ctx context.Context, entryID string) ([]*entity.JournalEntryDetail, error) {
	query := `
		SELECT d.id, d.entry_id, d.account_id, a.code, a.name, d.debit, d.credit
		FROM journal_entry_details d
		JOIN accounts a ON a.id = d.account_id
		WHERE d.entry_id = $1
		ORDER BY d.id`
	rows, err := r.q.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("list journal details: %w", err)
	}
	defer rows.Close()
	return collectDetails(rows)
}

// ListAccountDetails líneas de la cuenta en [start, end] con su asiento padre.
func (r *JournalRepo) ListAccountDetails(ctx context.Context, accountID string, start, end time.Time) ([]repository.AccountDetailRow, error) {
	query := `
		SELECT d.id, d.entry_id, d.account_id, a.code, a.name, d.debit, d.credit,
			e.id, e.entry_date, e.description, e.origin_type, e.origin_id
		FROM journal_entry_details d
		JOIN journal_entries e ON e.id = d.entry_id
		JOIN accounts a ON a.id = d.account_id
		WHERE d.account_id = $1 AND e.entry_date >= $2 AND e.entry_date <= $3
		ORDER BY e.entry_date, e.id, d.id`
	rows, err := r.q.Query(ctx, query, accountID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list account details: %w", err)
	}
	defer rows.Close()

	var result []repository.AccountDetailRow
	for rows.Next() {
		var row repository.AccountDetailRow
		err := rows.Scan(
			&row.Detail.ID, &row.Detail.EntryID, &row.Detail.AccountID,
			&row.Detail.AccountCode, &row.Detail.AccountName, &row.Detail.Debit, &row.Detail.Credit,
			&row.EntryID, &row.EntryDate, &row.Description, &row.Origin.Type, &row.Origin.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("scan account detail: %w", err)
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate account details: %w", err)
	}
	return result, nil
}

// AccountTotalsBefore Σdébito y Σcrédito de la cuenta con fecha < before.
func (r *JournalRepo) AccountTotalsBefore(ctx context.Context, accountID string, before time.Time) (debit, credit decimal.Decimal, err error) {
	query := `
		SELECT COALESCE(SUM(d.debit), 0), COALESCE(SUM(d.credit), 0)
		FROM journal_entry_details d
		JOIN journal_entries e ON e.id = d.entry_id
		WHERE d.account_id = $1 AND e.entry_date < $2`
	if err := r.q.QueryRow(ctx, query, accountID, before).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("account totals before: %w", err)
	}
	return debit, credit, nil
}

// ListContraDetails líneas de contrapartida de un lote de asientos, indexadas
// por id de asiento.
func (r *JournalRepo) ListContraDetails(ctx context.Context, entryIDs []string, excludeAccountID string) (map[string][]*entity.JournalEntryDetail, error) {
	result := make(map[string][]*entity.JournalEntryDetail, len(entryIDs))
	if len(entryIDs) == 0 {
		return result, nil
	}
	query := `
		SELECT d.id, d.entry_id, d.account_id, a.code, a.name, d.debit, d.credit
		FROM journal_entry_details d
		JOIN accounts a ON a.id = d.account_id
		WHERE d.entry_id = ANY($1) AND d.account_id <> $2
		ORDER BY d.entry_id, d.id`
	rows, err := r.q.Query(ctx, query, entryIDs, excludeAccountID)
	if err != nil {
		return nil, fmt.Errorf("list contra details: %w", err)
	}
	defer rows.Close()

	details, err := collectDetails(rows)
	if err != nil {
		return nil, err
	}
	for _, d := range details {
		result[d.EntryID] = append(result[d.EntryID], d)
	}
	return result, nil
}

func collectDetails(rows pgx.Rows) ([]*entity.JournalEntryDetail, error) {
	var details []*entity.JournalEntryDetail
	for rows.Next() {
		var d entity.JournalEntryDetail
		err := rows.Scan(&d.ID, &d.EntryID, &d.AccountID, &d.AccountCode, &d.AccountName, &d.Debit, &d.Credit)
		if err != nil {
			return nil, fmt.Errorf("scan journal detail: %w", err)
		}
		details = append(details, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate journal details: %w", err)
	}
	return details, nil
}
