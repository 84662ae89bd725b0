package debt

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain/valuation"
)

// ListPartySummaries listado paginado de cartera por tercero: apertura,
// actividad del período y cierre. Los saldos salen de las mismas sumas
// Σdébito − Σcrédito que BalanceAsOf, así que el listado y el extracto
// detallado de cada tercero siempre coinciden.
func (uc *UseCase) ListPartySummaries(ctx context.Context, startStr, endStr string, page dto.PageRequest) (*dto.PartySummaryListDTO, error) {
	page.DefaultPage()
	start, end, period := dto.ResolvePeriod(startStr, endStr, time.Now())

	rows, total, err := uc.debts.PartySummaries(ctx, uc.partyKind, start, end, page.PerPage, page.Offset())
	if err != nil {
		return nil, err
	}

	data := make([]dto.PartySummaryDTO, 0, len(rows))
	for _, r := range rows {
		closing := r.Opening.Add(r.PeriodDebit).Sub(r.PeriodCredit)
		data = append(data, dto.PartySummaryDTO{
			PartyID: r.PartyID,
			Name:    r.PartyName,
			Opening: valuation.RoundMoney(r.Opening),
			Debit:   valuation.RoundMoney(r.PeriodDebit),
			Credit:  valuation.RoundMoney(r.PeriodCredit),
			Closing: valuation.RoundMoney(closing),
		})
	}

	return &dto.PartySummaryListDTO{
		Period:     period,
		Data:       data,
		Pagination: dto.NewPagination(page.Page, page.PerPage, total),
	}, nil
}
