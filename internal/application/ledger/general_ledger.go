// Package ledger implementa la capa de reportes por período: libro mayor y
// libro de caja. Solo lecturas sobre asientos, cuentas y comprobantes.
package ledger

import (
	"context"
	"time"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
	"github.com/jhoicas/Gestion-api/internal/domain/valuation"
	"github.com/shopspring/decimal"
)

// UseCase reportes de libros por período.
type UseCase struct {
	journal  repository.JournalRepository
	vouchers repository.VoucherRepository
}

// NewUseCase construye la capa de reportes.
func NewUseCase(journal repository.JournalRepository, vouchers repository.VoucherRepository) *UseCase {
	return &UseCase{journal: journal, vouchers: vouchers}
}

// GeneralLedger libro mayor de una cuenta en un período: apertura, filas
// cronológicas con contrapartida y saldo corrido, cierre y totales.
//
// La apertura es la suma firmada de los movimientos previos al período según
// el lado normal de la cuenta (débito-normal: débitos − créditos;
// crédito-normal: créditos − débitos). Cuando un asiento toca más de dos
// cuentas se emite una fila por contrapartida, prorrateando el monto de la
// línea entre ellas, en vez de colapsar a una fila ambigua.
func (uc *UseCase) GeneralLedger(ctx context.Context, accountIDOrCode, startStr, endStr string) (*dto.GeneralLedgerReportDTO, error) {
	if accountIDOrCode == "" {
		return nil, domain.ErrInvalidInput
	}
	account, err := uc.journal.GetAccount(ctx, accountIDOrCode)
	if err != nil {
		return nil, err
	}

	start, end, period := dto.ResolvePeriod(startStr, endStr, time.Now())

	openDebit, openCredit, err := uc.journal.AccountTotalsBefore(ctx, account.ID, start)
	if err != nil {
		return nil, err
	}
	opening := account.SignedBalance(openDebit, openCredit)

	details, err := uc.journal.ListAccountDetails(ctx, account.ID, start, end)
	if err != nil {
		return nil, err
	}

	entryIDs := make([]string, 0, len(details))
	for _, d := range details {
		entryIDs = append(entryIDs, d.EntryID)
	}
	contras, err := uc.journal.ListContraDetails(ctx, entryIDs, account.ID)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.GeneralLedgerRowDTO, 0, len(details))
	summary := dto.LedgerSummaryDTO{}
	balance := opening
	for _, d := range details {
		for _, r := range fanOutRows(d, contras[d.EntryID]) {
			balance = balance.Add(account.SignedBalance(r.Debit, r.Credit))
			r.Balance = valuation.RoundMoney(balance)
			r.Debit = valuation.RoundMoney(r.Debit)
			r.Credit = valuation.RoundMoney(r.Credit)
			rows = append(rows, r)
		}
		summary.TotalDebit = summary.TotalDebit.Add(d.Detail.Debit)
		summary.TotalCredit = summary.TotalCredit.Add(d.Detail.Credit)
	}
	summary.TotalDebit = valuation.RoundMoney(summary.TotalDebit)
	summary.TotalCredit = valuation.RoundMoney(summary.TotalCredit)

	return &dto.GeneralLedgerReportDTO{
		Period: period,
		Account: dto.AccountDTO{
			ID:         account.ID,
			Code:       account.Code,
			Name:       account.Name,
			NormalSide: account.NormalSide,
		},
		OpeningBalance: valuation.RoundMoney(opening),
		ClosingBalance: valuation.RoundMoney(balance),
		Rows:           rows,
		Summary:        summary,
	}, nil
}

// fanOutRows filas de salida para una línea de la cuenta: una por
// contrapartida cuando el asiento reparte el monto entre varias cuentas. El
// monto de la línea se prorratea entre las contrapartidas según el peso de la
// línea de cada una (lado opuesto); la última fila recibe el residuo, de modo
// que la suma de las filas reproduce exactamente la línea original aun cuando
// el asiento tenga varias líneas del mismo lado.
func fanOutRows(d repository.AccountDetailRow, contraLines []*entity.JournalEntryDetail) []dto.GeneralLedgerRowDTO {
	desc := d.Origin.Describe()
	base := dto.GeneralLedgerRowDTO{
		Date:          d.EntryDate.Format("2006-01-02"),
		EntryID:       d.EntryID,
		Description:   d.Description,
		DocumentCode:  desc.Code,
		DocumentLabel: desc.Label,
		OriginID:      d.Origin.ID,
	}

	targetDebited := d.Detail.Debit.GreaterThan(decimal.Zero)

	// Contrapartidas con monto en el lado opuesto al de la línea objetivo.
	matching := make([]*entity.JournalEntryDetail, 0, len(contraLines))
	for _, c := range contraLines {
		amt := c.Debit
		if targetDebited {
			amt = c.Credit
		}
		if amt.GreaterThan(decimal.Zero) {
			matching = append(matching, c)
		}
	}

	// Sin contrapartida utilizable (asiento de una sola línea o compuesto
	// atípico): una fila con el monto completo y contrapartida vacía.
	if len(matching) == 0 {
		row := base
		row.Debit = d.Detail.Debit
		row.Credit = d.Detail.Credit
		return []dto.GeneralLedgerRowDTO{row}
	}

	// Una contrapartida: fila única con el monto completo de la línea.
	if len(matching) == 1 {
		row := base
		row.Debit = d.Detail.Debit
		row.Credit = d.Detail.Credit
		row.ContraAccountCode = matching[0].AccountCode
		row.ContraAccountName = matching[0].AccountName
		return []dto.GeneralLedgerRowDTO{row}
	}

	// Fan-out: una fila por contrapartida, prorrateando el monto de la línea
	// según el peso de cada contrapartida en su lado. Repartir los montos
	// completos de las contrapartidas inflaría la cuenta cuando el asiento tiene
	// otra línea de su mismo lado.
	target := d.Detail.Debit
	if !targetDebited {
		target = d.Detail.Credit
	}
	totalOpposite := decimal.Zero
	for _, c := range matching {
		if targetDebited {
			totalOpposite = totalOpposite.Add(c.Credit)
		} else {
			totalOpposite = totalOpposite.Add(c.Debit)
		}
	}

	rows := make([]dto.GeneralLedgerRowDTO, 0, len(matching))
	assigned := decimal.Zero
	for i, c := range matching {
		row := base
		row.ContraAccountCode = c.AccountCode
		row.ContraAccountName = c.AccountName

		// La última fila lleva el residuo: la suma queda exacta.
		amount := target.Sub(assigned)
		if i < len(matching)-1 {
			contra := c.Credit
			if !targetDebited {
				contra = c.Debit
			}
			amount = target.Mul(contra).Div(totalOpposite)
			assigned = assigned.Add(amount)
		}
		if targetDebited {
			row.Debit = amount
		} else {
			row.Credit = amount
		}
		rows = append(rows, row)
	}
	return rows
}
