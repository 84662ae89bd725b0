package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/internal/domain/valuation"
	"github.com/shopspring/decimal"
)

// ValuationUseCase cálculo puro sobre el libro de movimientos: saldo puntual,
// costo promedio y costo de venta. Solo lecturas; no muta nada.
type ValuationUseCase struct {
	movements repository.StockMovementRepository
	balances  repository.BalanceRepository
}

// NewValuationUseCase construye el caso de uso.
func NewValuationUseCase(
	movements repository.StockMovementRepository,
	balances repository.BalanceRepository,
) *ValuationUseCase {
	return &ValuationUseCase{movements: movements, balances: balances}
}

// currentBalance saldo de una variante a una fecha de corte. Usa el snapshot
// exacto de (variante, fecha) si existe; si no, reconstruye agregando el libro
// hasta la fecha. Sin movimientos devuelve saldo cero: estado válido, no error.
//
// Función de paquete para que el orquestador la reutilice con repos atados a
// su transacción.
func currentBalance(
	ctx context.Context,
	movements repository.StockMovementRepository,
	balances repository.BalanceRepository,
	variantID string,
	asOf time.Time,
) (*entity.BalanceSnapshot, error) {
	snap, err := balances.Get(ctx, variantID, dto.DateOnly(asOf))
	if err != nil {
		return nil, fmt.Errorf("leer snapshot: %w", err)
	}
	if snap != nil {
		return snap, nil
	}

	totals, err := movements.SumAsOf(ctx, variantID, asOf)
	if err != nil {
		return nil, fmt.Errorf("reconstruir saldo desde el libro: %w", err)
	}
	return &entity.BalanceSnapshot{
		VariantID:   variantID,
		BalanceDate: dto.DateOnly(asOf),
		Quantity:    totals.Quantity,
		Value:       totals.Value,
		AverageCost: valuation.AverageCost(totals.Quantity, totals.Value),
	}, nil
}

// CurrentBalance saldo puntual con los montos redondeados en la frontera.
func (uc *ValuationUseCase) CurrentBalance(ctx context.Context, variantID string, asOf time.Time) (*dto.BalanceDTO, error) {
	if variantID == "" {
		return nil, domain.ErrInvalidInput
	}
	snap, err := currentBalance(ctx, uc.movements, uc.balances, variantID, asOf)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceDTO{
		VariantID:   variantID,
		Quantity:    snap.Quantity,
		Value:       valuation.RoundMoney(snap.Value),
		AverageCost: valuation.RoundMoney(snap.AverageCost),
	}, nil
}

// AverageCost costo promedio vigente de la variante a la fecha (sin redondear:
// es un insumo de cálculo, no una salida final).
func (uc *ValuationUseCase) AverageCost(ctx context.Context, variantID string, asOf time.Time) (decimal.Decimal, error) {
	snap, err := currentBalance(ctx, uc.movements, uc.balances, variantID, asOf)
	if err != nil {
		return decimal.Zero, err
	}
	return snap.AverageCost, nil
}

// CostOfGoodsSold costo de venta de qty unidades al costo promedio vigente.
func (uc *ValuationUseCase) CostOfGoodsSold(ctx context.Context, variantID string, qty decimal.Decimal, asOf time.Time) (*dto.CogsDTO, error) {
	if variantID == "" || qty.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	snap, err := currentBalance(ctx, uc.movements, uc.balances, variantID, asOf)
	if err != nil {
		return nil, err
	}
	return &dto.CogsDTO{
		AverageCost: valuation.RoundMoney(snap.AverageCost),
		Quantity:    qty,
		Cogs:        valuation.CostOfGoodsSold(snap.AverageCost, qty),
	}, nil
}
