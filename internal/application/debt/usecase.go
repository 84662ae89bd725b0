// Package debt implementa el motor de cartera: el libro de deudas de clientes
// y proveedores como fuente de verdad de los saldos, con conciliación contra
// los asientos contables cuando existen.
//
// El libro de cartera se alimenta sincrónicamente con el documento de origen;
// el asiento contable formal puede llegar después (contabilización asíncrona o
// con aprobación). Por eso los saldos SIEMPRE se derivan de este libro, nunca
// de los asientos: el reporte no puede mostrar un hueco solo porque la
// contabilización va retrasada.
package debt

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/origin"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/internal/domain/valuation"
	"github.com/shopspring/decimal"
)

// ControlAccount cuenta de control de la cartera (por cobrar o por pagar)
// usada en las filas fallback del extracto detallado.
type ControlAccount struct {
	Code string
	Name string
}

// UseCase motor de cartera para un tipo de tercero. La misma implementación
// sirve clientes y proveedores; cambian el partyKind y la cuenta de control.
type UseCase struct {
	partyKind string
	control   ControlAccount
	tx        DebtTxRunner
	debts     repository.DebtEntryRepository // lecturas fuera de transacción
	journal   repository.JournalRepository
}

// NewCustomerDebtUseCase cartera de clientes (cuentas por cobrar, PUC 1305).
func NewCustomerDebtUseCase(tx DebtTxRunner, debts repository.DebtEntryRepository, journal repository.JournalRepository) *UseCase {
	return &UseCase{
		partyKind: entity.PartyCustomer,
		control:   ControlAccount{Code: "1305", Name: "Clientes nacionales"},
		tx:        tx,
		debts:     debts,
		journal:   journal,
	}
}

// NewSupplierDebtUseCase cartera de proveedores (cuentas por pagar, PUC 2205).
func NewSupplierDebtUseCase(tx DebtTxRunner, debts repository.DebtEntryRepository, journal repository.JournalRepository) *UseCase {
	return &UseCase{
		partyKind: entity.PartySupplier,
		control:   ControlAccount{Code: "2205", Name: "Proveedores nacionales"},
		tx:        tx,
		debts:     debts,
		journal:   journal,
	}
}

// PartyKind tipo de tercero que atiende este motor.
func (uc *UseCase) PartyKind() string { return uc.partyKind }

// ── Mutaciones ───────────────────────────────────────────────────────────────

// RecordDebit registra el cargo de un documento (factura de venta al cliente,
// factura de compra del proveedor): aumenta la deuda.
func (uc *UseCase) RecordDebit(ctx context.Context, partyID string, ref origin.Ref, amount decimal.Decimal, date time.Time) error {
	return uc.record(ctx, partyID, ref, amount, decimal.Zero, date)
}

// RecordCredit registra un abono (recibo de caja del cliente, comprobante de
// egreso al proveedor): disminuye la deuda.
func (uc *UseCase) RecordCredit(ctx context.Context, partyID string, ref origin.Ref, amount decimal.Decimal, date time.Time) error {
	return uc.record(ctx, partyID, ref, decimal.Zero, amount, date)
}

func (uc *UseCase) record(ctx context.Context, partyID string, ref origin.Ref, debit, credit decimal.Decimal, date time.Time) error {
	if partyID == "" || !ref.Valid() {
		return domain.ErrInvalidInput
	}
	if debit.LessThan(decimal.Zero) || credit.LessThan(decimal.Zero) || debit.Add(credit).IsZero() {
		return domain.ErrInvalidInput
	}
	if date.IsZero() {
		date = time.Now()
	}
	return uc.tx.RunDebt(ctx, func(debts repository.DebtEntryRepository) error {
		return debts.Create(ctx, &entity.DebtEntry{
			ID:        uuid.New().String(),
			PartyID:   partyID,
			PartyKind: uc.partyKind,
			Origin:    ref,
			Debit:     debit,
			Credit:    credit,
			Date:      date,
			CreatedAt: time.Now(),
		})
	})
}

// ReverseByOrigin borra las partidas del documento anulado. Es la única
// mutación permitida sobre el libro de cartera. Devuelve true si borró alguna.
func (uc *UseCase) ReverseByOrigin(ctx context.Context, originType, originID string) (bool, error) {
	ref := origin.Ref{Type: origin.Type(originType), ID: originID}
	if !ref.Valid() {
		return false, domain.ErrInvalidInput
	}
	var deleted int64
	err := uc.tx.RunDebt(ctx, func(debts repository.DebtEntryRepository) error {
		n, err := debts.DeleteByOrigin(ctx, uc.partyKind, ref)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return false, err
	}
	return deleted > 0, nil
}

// ── Lecturas ─────────────────────────────────────────────────────────────────

// BalanceAsOf saldo del tercero: Σdébito − Σcrédito con fecha ≤ date
// (date nil = todo el histórico). Única fuente de verdad del saldo: el listado
// paginado y el extracto detallado derivan sus aperturas y cierres de aquí,
// así que siempre coinciden entre sí.
func (uc *UseCase) BalanceAsOf(ctx context.Context, partyID string, date *time.Time) (decimal.Decimal, error) {
	if partyID == "" {
		return decimal.Zero, domain.ErrInvalidInput
	}
	bal, err := uc.debts.Balance(ctx, uc.partyKind, partyID, date)
	if err != nil {
		return decimal.Zero, err
	}
	return valuation.RoundMoney(bal), nil
}

// PeriodActivity actividad del tercero en [start, end].
func (uc *UseCase) PeriodActivity(ctx context.Context, partyID string, start, end time.Time) (*repository.DebtPeriodTotals, error) {
	if partyID == "" {
		return nil, domain.ErrInvalidInput
	}
	totals, err := uc.debts.PeriodTotals(ctx, uc.partyKind, partyID, start, end)
	if err != nil {
		return nil, err
	}
	totals.TotalDebit = valuation.RoundMoney(totals.TotalDebit)
	totals.TotalCredit = valuation.RoundMoney(totals.TotalCredit)
	return &totals, nil
}
