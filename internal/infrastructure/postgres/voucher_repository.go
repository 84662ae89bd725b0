package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.VoucherRepository = (*VoucherRepo)(nil)

// VoucherRepo adaptador de solo lectura sobre comprobantes de egreso y
// recibos de caja. Las dos tablas se funden con UNION ALL etiquetando la
// clase de comprobante.
type VoucherRepo struct {
	q Querier
}

// NewVoucherRepository construye el adaptador de lectura de tesorería.
func NewVoucherRepository(q Querier) *VoucherRepo {
	return &VoucherRepo{q: q}
}

const voucherUnion = `
	SELECT id, code, 'payment' AS kind, voucher_date, amount, payment_method, party_name, description, status, created_at
	FROM payment_vouchers
	UNION ALL
	SELECT id, code, 'receipt' AS kind, voucher_date, amount, payment_method, party_name, description, status, created_at
	FROM receipt_vouchers`

// ListConfirmed comprobantes confirmados del medio de pago en [start, end].
func (r *VoucherRepo) ListConfirmed(ctx context.Context, paymentMethod string, start, end time.Time) ([]*entity.Voucher, error) {
	query := `
		SELECT id, code, kind, voucher_date, amount, payment_method, party_name, description, status, created_at
		FROM (` + voucherUnion + `) v
		WHERE status = $1 AND payment_method = $2 AND voucher_date >= $3 AND voucher_date <= $4
		ORDER BY voucher_date, created_at, id`
	rows, err := r.q.Query(ctx, query, entity.VoucherStatusConfirmed, paymentMethod, start, end)
	if err != nil {
		return nil, fmt.Errorf("list confirmed vouchers: %w", err)
	}
	defer rows.Close()

	var vouchers []*entity.Voucher
	for rows.Next() {
		var v entity.Voucher
		err := rows.Scan(&v.ID, &v.Code, &v.Kind, &v.Date, &v.Amount, &v.PaymentMethod,
			&v.PartyName, &v.Description, &v.Status, &v.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan voucher: %w", err)
		}
		vouchers = append(vouchers, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate vouchers: %w", err)
	}
	return vouchers, nil
}

// SumConfirmedBefore suma con signo (recibos − egresos) de los confirmados
// anteriores a before. Semilla del saldo de apertura del libro de caja.
func (r *VoucherRepo) SumConfirmedBefore(ctx context.Context, paymentMethod string, before time.Time) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN kind = 'receipt' THEN amount ELSE -amount END), 0)
		FROM (` + voucherUnion + `) v
		WHERE status = $1 AND payment_method = $2 AND voucher_date < $3`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, entity.VoucherStatusConfirmed, paymentMethod, before).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum confirmed vouchers: %w", err)
	}
	return sum, nil
}
