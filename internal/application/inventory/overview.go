package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain/valuation"
	"github.com/shopspring/decimal"
)

// defaultLowStockThreshold cantidad bajo la cual una variante cuenta como
// stock bajo cuando el caller no fija umbral.
var defaultLowStockThreshold = decimal.NewFromInt(10)

// InventoryOverview panorama agregado a una fecha de corte: totales, conteos
// de variantes sin stock (qty ≤ 0), con stock bajo (0 < qty < umbral) y con
// stock, más los flujos del mes calendario que contiene la fecha.
func (uc *StockUseCase) InventoryOverview(ctx context.Context, asOf time.Time, lowStockThreshold *decimal.Decimal) (*dto.InventoryOverviewDTO, error) {
	threshold := defaultLowStockThreshold
	if lowStockThreshold != nil && lowStockThreshold.GreaterThan(decimal.Zero) {
		threshold = *lowStockThreshold
	}

	snaps, err := uc.balances.ListAsOf(ctx, asOf)
	if err != nil {
		return nil, err
	}

	out := &dto.InventoryOverviewDTO{
		AsOf:              asOf.Format("2006-01-02"),
		TotalQuantity:     decimal.Zero,
		TotalValue:        decimal.Zero,
		LowStockThreshold: threshold,
	}
	for _, s := range snaps {
		out.TotalVariants++
		switch {
		case s.Quantity.LessThanOrEqual(decimal.Zero):
			out.OutOfStock++
		case s.Quantity.LessThan(threshold):
			out.LowStock++
		default:
			out.InStock++
		}
		if s.Quantity.GreaterThan(decimal.Zero) {
			out.TotalQuantity = out.TotalQuantity.Add(s.Quantity)
			out.TotalValue = out.TotalValue.Add(s.Value)
		}
	}
	out.TotalValue = valuation.RoundMoney(out.TotalValue)

	flow, err := uc.movements.MonthlyFlow(ctx, asOf)
	if err != nil {
		return nil, err
	}
	out.MonthInboundQty = flow.InboundQty
	out.MonthInboundValue = valuation.RoundMoney(flow.InboundValue)
	out.MonthOutboundQty = flow.OutboundQty
	out.MonthOutboundValue = valuation.RoundMoney(flow.OutboundValue)

	return out, nil
}
