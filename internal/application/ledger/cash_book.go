package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/valuation"
)

// CashBook libro de caja de un medio de pago en un período: mezcla los
// comprobantes de egreso y los recibos de caja confirmados en una sola lista
// cronológica (desempate por created_at) con saldo corrido, sembrado con la
// suma de todos los confirmados del medio anteriores al período.
func (uc *UseCase) CashBook(ctx context.Context, startStr, endStr, paymentMethod string) (*dto.CashBookReportDTO, error) {
	if paymentMethod != entity.PaymentMethodCash && paymentMethod != entity.PaymentMethodBank {
		return nil, domain.ErrInvalidInput
	}

	start, end, period := dto.ResolvePeriod(startStr, endStr, time.Now())

	opening, err := uc.vouchers.SumConfirmedBefore(ctx, paymentMethod, start)
	if err != nil {
		return nil, err
	}

	vouchers, err := uc.vouchers.ListConfirmed(ctx, paymentMethod, start, end)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.CashBookRowDTO, 0, len(vouchers))
	summary := dto.CashBookSummaryDTO{}
	balance := opening
	for _, v := range vouchers {
		row := dto.CashBookRowDTO{
			Date:        v.Date.Format("2006-01-02"),
			Code:        v.Code,
			Kind:        v.Kind,
			PartyName:   v.PartyName,
			Description: v.Description,
		}
		if v.Kind == entity.VoucherPayment {
			row.DocumentLabel = "Comprobante de egreso"
			row.Out = valuation.RoundMoney(v.Amount)
			summary.TotalOut = summary.TotalOut.Add(v.Amount)
		} else {
			row.DocumentLabel = "Recibo de caja"
			row.In = valuation.RoundMoney(v.Amount)
			summary.TotalIn = summary.TotalIn.Add(v.Amount)
		}
		balance = balance.Add(v.SignedAmount())
		row.Balance = valuation.RoundMoney(balance)
		rows = append(rows, row)
	}
	summary.TotalIn = valuation.RoundMoney(summary.TotalIn)
	summary.TotalOut = valuation.RoundMoney(summary.TotalOut)

	return &dto.CashBookReportDTO{
		Period:         period,
		PaymentMethod:  paymentMethod,
		OpeningBalance: valuation.RoundMoney(opening),
		ClosingBalance: valuation.RoundMoney(balance),
		Rows:           rows,
		Summary:        summary,
	}, nil
}
