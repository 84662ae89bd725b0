package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/origin"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/internal/domain/valuation"
	"github.com/shopspring/decimal"
)

// StockUseCase orquesta las mutaciones del inventario: recepción, salida,
// ajuste y reversión. Cada operación es atómica (append al libro + upsert del
// snapshot, todo o nada) y serializa las escrituras por variante con un
// advisory lock transaccional tomado en orden ordenado, de modo que dos
// salidas concurrentes de la misma variante no puedan pasar ambas la
// verificación de suficiencia sobre un saldo desactualizado.
type StockUseCase struct {
	tx        TxRunner
	movements repository.StockMovementRepository // lecturas fuera de transacción
	balances  repository.BalanceRepository
}

// NewStockUseCase construye el orquestador.
func NewStockUseCase(
	tx TxRunner,
	movements repository.StockMovementRepository,
	balances repository.BalanceRepository,
) *StockUseCase {
	return &StockUseCase{tx: tx, movements: movements, balances: balances}
}

// ── Recepción ────────────────────────────────────────────────────────────────

// ReceiveStock registra entradas para cada renglón del lote: lee el saldo
// vigente, agrega el movimiento inbound con los campos before/after y upserta
// el snapshot de (variante, fecha) recomputado desde el libro.
func (uc *StockUseCase) ReceiveStock(ctx context.Context, in dto.ReceiveStockRequest, createdBy string) ([]dto.StockMovementDTO, error) {
	ref := origin.Ref{Type: origin.Type(in.OriginType), ID: in.OriginID}
	if !ref.Valid() || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.VariantID == "" || !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if it.UnitCost == nil || it.UnitCost.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	date, err := parseMovementDate(in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	var created []*entity.StockMovement
	err = uc.tx.Run(ctx, func(movements repository.StockMovementRepository, balances repository.BalanceRepository) error {
		if err := balances.LockVariants(ctx, variantIDs(in.Items)); err != nil {
			return err
		}
		for _, it := range in.Items {
			mov, err := appendMovement(ctx, movements, balances, appendInput{
				VariantID: it.VariantID,
				Direction: entity.DirectionInbound,
				Quantity:  it.Quantity,
				UnitCost:  *it.UnitCost,
				Origin:    ref,
				Date:      date,
				Note:      in.Note,
				CreatedBy: createdBy,
			})
			if err != nil {
				return err
			}
			created = append(created, mov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMovementDTOs(created), nil
}

// ── Salida ───────────────────────────────────────────────────────────────────

// IssueStock registra salidas valoradas al costo promedio vigente. Si algún
// renglón pide más de lo disponible, todo el lote se aborta con
// InsufficientStockError: la salida parcial no está permitida.
func (uc *StockUseCase) IssueStock(ctx context.Context, in dto.IssueStockRequest, createdBy string) ([]dto.StockMovementDTO, error) {
	ref := origin.Ref{Type: origin.Type(in.OriginType), ID: in.OriginID}
	if !ref.Valid() || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.VariantID == "" || !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
	}
	date, err := parseMovementDate(in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}

	var created []*entity.StockMovement
	err = uc.tx.Run(ctx, func(movements repository.StockMovementRepository, balances repository.BalanceRepository) error {
		if err := balances.LockVariants(ctx, variantIDs(in.Items)); err != nil {
			return err
		}
		for _, it := range in.Items {
			mov, err := appendOutbound(ctx, movements, balances, it.VariantID, it.Quantity, ref, date, in.Note, createdBy)
			if err != nil {
				return err
			}
			created = append(created, mov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toMovementDTOs(created), nil
}

// ── Ajuste ───────────────────────────────────────────────────────────────────

// AdjustStock lleva la variante a la cantidad objetivo. Si la cantidad vigente
// ya es la pedida devuelve {Adjusted:false} sin tocar el libro (no-op, no
// error). La diferencia pasa por el mismo camino de entrada/salida que
// cualquier movimiento: no existe una ruta de "corrección" aparte que pueda
// desalinearse de los invariantes.
func (uc *StockUseCase) AdjustStock(ctx context.Context, in dto.AdjustStockRequest, createdBy string) (*dto.AdjustResultDTO, error) {
	if in.VariantID == "" || in.NewQuantity.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	date, err := parseMovementDate(in.Date)
	if err != nil {
		return nil, domain.ErrInvalidInput
	}
	ref := origin.Adjustment(uuid.New().String())
	note := "Ajuste de inventario"
	if in.Reason != "" {
		note = "Ajuste: " + in.Reason
	}

	result := &dto.AdjustResultDTO{Adjusted: false, New: in.NewQuantity}
	err = uc.tx.Run(ctx, func(movements repository.StockMovementRepository, balances repository.BalanceRepository) error {
		if err := balances.LockVariants(ctx, []string{in.VariantID}); err != nil {
			return err
		}
		snap, err := currentBalance(ctx, movements, balances, in.VariantID, date)
		if err != nil {
			return err
		}
		result.Old = snap.Quantity
		diff := in.NewQuantity.Sub(snap.Quantity)
		result.Difference = diff
		if diff.IsZero() {
			return nil // ya está en la cantidad pedida
		}

		var mov *entity.StockMovement
		if diff.GreaterThan(decimal.Zero) {
			// Entrada al costo promedio vigente para no distorsionar la valoración.
			mov, err = appendMovement(ctx, movements, balances, appendInput{
				VariantID: in.VariantID,
				Direction: entity.DirectionInbound,
				Quantity:  diff,
				UnitCost:  snap.AverageCost,
				Origin:    ref,
				Date:      date,
				Note:      note,
				CreatedBy: createdBy,
			})
		} else {
			mov, err = appendOutbound(ctx, movements, balances, in.VariantID, diff.Neg(), ref, date, note, createdBy)
		}
		if err != nil {
			return err
		}
		result.Adjusted = true
		result.MovementID = mov.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ── Reversión ────────────────────────────────────────────────────────────────

// RevertTransactions reversa todos los movimientos de un documento de origen
// agregando, por cada uno, un movimiento de dirección opuesta con origen
// reversal que referencia el id original. El libro nunca se borra ni se
// modifica; los movimientos ya reversados se omiten. Devuelve true si reversó
// al menos uno.
func (uc *StockUseCase) RevertTransactions(ctx context.Context, originType, originID string) (bool, error) {
	ref := origin.Ref{Type: origin.Type(originType), ID: originID}
	if !ref.Valid() {
		return false, domain.ErrInvalidInput
	}

	reverted := false
	err := uc.tx.Run(ctx, func(movements repository.StockMovementRepository, balances repository.BalanceRepository) error {
		originals, err := movements.ListByOrigin(ctx, ref)
		if err != nil {
			return err
		}
		if len(originals) == 0 {
			return nil
		}

		ids := make([]string, 0, len(originals))
		for _, m := range originals {
			ids = append(ids, m.VariantID)
		}
		sort.Strings(ids)
		if err := balances.LockVariants(ctx, ids); err != nil {
			return err
		}

		now := time.Now()
		for _, m := range originals {
			done, err := movements.IsReversed(ctx, m.ID)
			if err != nil {
				return err
			}
			if done {
				continue
			}
			_, err = appendMovement(ctx, movements, balances, appendInput{
				VariantID: m.VariantID,
				Direction: entity.OppositeDirection(m.Direction),
				Quantity:  m.Quantity,
				UnitCost:  m.UnitCost,
				Origin:    origin.Reversal(m.ID),
				Date:      now,
				Note:      "Reversión de " + string(m.Origin.Type) + " " + m.Origin.ID,
				CreatedBy: m.CreatedBy,
			})
			if err != nil {
				return err
			}
			reverted = true
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return reverted, nil
}

// ── Disponibilidad ───────────────────────────────────────────────────────────

// CheckStockAvailability verificación de solo lectura previa a una salida:
// devuelve la lista estructurada de faltantes en vez de un error genérico.
func (uc *StockUseCase) CheckStockAvailability(ctx context.Context, items []dto.MovementItemRequest, asOf time.Time) (*dto.AvailabilityDTO, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	out := &dto.AvailabilityDTO{Available: true, Shortages: []dto.ShortageDTO{}}
	for _, it := range items {
		if it.VariantID == "" || !it.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		snap, err := currentBalance(ctx, uc.movements, uc.balances, it.VariantID, asOf)
		if err != nil {
			return nil, err
		}
		if snap.Quantity.LessThan(it.Quantity) {
			out.Available = false
			out.Shortages = append(out.Shortages, dto.ShortageDTO{
				VariantID: it.VariantID,
				Requested: it.Quantity,
				Available: snap.Quantity,
			})
		}
	}
	return out, nil
}

// ── Internos ─────────────────────────────────────────────────────────────────

// appendInput parámetros para agregar un movimiento al libro.
type appendInput struct {
	VariantID string
	Direction string
	Quantity  decimal.Decimal
	UnitCost  decimal.Decimal
	Origin    origin.Ref
	Date      time.Time
	Note      string
	CreatedBy string
}

// appendMovement lee el saldo vigente, agrega el movimiento con los campos
// before/after y upserta el snapshot de (variante, fecha) recomputado desde el
// libro. Presupone que el caller ya tomó el lock de la variante.
func appendMovement(
	ctx context.Context,
	movements repository.StockMovementRepository,
	balances repository.BalanceRepository,
	in appendInput,
) (*entity.StockMovement, error) {
	snap, err := currentBalance(ctx, movements, balances, in.VariantID, in.Date)
	if err != nil {
		return nil, err
	}

	mov := &entity.StockMovement{
		ID:          uuid.New().String(),
		VariantID:   in.VariantID,
		Direction:   in.Direction,
		Quantity:    in.Quantity,
		UnitCost:    in.UnitCost,
		TotalCost:   in.Quantity.Mul(in.UnitCost),
		Origin:      in.Origin,
		Date:        in.Date,
		BeforeQty:   snap.Quantity,
		BeforeValue: snap.Value,
		Note:        in.Note,
		CreatedBy:   in.CreatedBy,
		CreatedAt:   time.Now(),
	}
	mov.AfterQty = snap.Quantity.Add(mov.SignedQuantity())
	mov.AfterValue = snap.Value.Add(mov.SignedTotalCost())

	if err := movements.Create(ctx, mov); err != nil {
		return nil, err
	}

	totals, err := movements.SumAsOf(ctx, in.VariantID, in.Date)
	if err != nil {
		return nil, fmt.Errorf("recomputar saldo: %w", err)
	}
	err = balances.Upsert(ctx, &entity.BalanceSnapshot{
		VariantID:   in.VariantID,
		BalanceDate: dto.DateOnly(in.Date),
		Quantity:    totals.Quantity,
		Value:       totals.Value,
		AverageCost: valuation.AverageCost(totals.Quantity, totals.Value),
	})
	if err != nil {
		return nil, err
	}

	// Un movimiento retro-fechado deja obsoletos los snapshots posteriores a su
	// fecha; se borran para que la siguiente lectura reconstruya desde el libro.
	if movDate := dto.DateOnly(in.Date); movDate.Before(dto.DateOnly(time.Now())) {
		if err := balances.DeleteAfter(ctx, in.VariantID, movDate); err != nil {
			return nil, err
		}
	}
	return mov, nil
}

// appendOutbound agrega una salida valorada al costo promedio vigente, previa
// verificación de suficiencia.
func appendOutbound(
	ctx context.Context,
	movements repository.StockMovementRepository,
	balances repository.BalanceRepository,
	variantID string,
	qty decimal.Decimal,
	ref origin.Ref,
	date time.Time,
	note, createdBy string,
) (*entity.StockMovement, error) {
	snap, err := currentBalance(ctx, movements, balances, variantID, date)
	if err != nil {
		return nil, err
	}
	if snap.Quantity.LessThan(qty) {
		return nil, &domain.InsufficientStockError{
			VariantID: variantID,
			Requested: qty,
			Available: snap.Quantity,
		}
	}
	return appendMovement(ctx, movements, balances, appendInput{
		VariantID: variantID,
		Direction: entity.DirectionOutbound,
		Quantity:  qty,
		UnitCost:  snap.AverageCost,
		Origin:    ref,
		Date:      date,
		Note:      note,
		CreatedBy: createdBy,
	})
}

// parseMovementDate fecha del movimiento: vacía = ahora; si viene, ISO estricta
// (a diferencia de los reportes, una fecha malformada en una mutación es error
// del caller, no se sustituye).
func parseMovementDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// variantIDs ids únicos del lote en orden ordenado (orden estable de locks).
func variantIDs(items []dto.MovementItemRequest) []string {
	seen := make(map[string]struct{}, len(items))
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if _, ok := seen[it.VariantID]; ok {
			continue
		}
		seen[it.VariantID] = struct{}{}
		ids = append(ids, it.VariantID)
	}
	sort.Strings(ids)
	return ids
}

func toMovementDTOs(list []*entity.StockMovement) []dto.StockMovementDTO {
	out := make([]dto.StockMovementDTO, 0, len(list))
	for _, m := range list {
		out = append(out, dto.StockMovementDTO{
			ID:          m.ID,
			VariantID:   m.VariantID,
			Direction:   m.Direction,
			Quantity:    m.Quantity,
			UnitCost:    valuation.RoundMoney(m.UnitCost),
			TotalCost:   valuation.RoundMoney(m.TotalCost),
			OriginType:  string(m.Origin.Type),
			OriginID:    m.Origin.ID,
			Date:        m.Date,
			BeforeQty:   m.BeforeQty,
			BeforeValue: valuation.RoundMoney(m.BeforeValue),
			AfterQty:    m.AfterQty,
			AfterValue:  valuation.RoundMoney(m.AfterValue),
			Note:        m.Note,
		})
	}
	return out
}
