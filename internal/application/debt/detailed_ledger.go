package debt

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/valuation"
)

// DetailedLedger extracto detallado de cartera de un tercero en un período.
//
// Por cada partida del libro de cartera busca el asiento contable de su
// documento de origen. Con asiento y líneas, emite una fila por línea
// (has_journal_entry=true, enriquecida con cuenta); sin asiento o sin líneas,
// emite una fila fallback construida desde la propia partida
// (has_journal_entry=false, cuenta de control por defecto). El reporte nunca
// muestra un hueco porque la contabilización vaya retrasada: es el modo
// degradado diseñado, no una falla.
//
// Rango ausente o malformado: mes calendario en curso (sustitución por
// defecto, marcada en period.defaulted).
func (uc *UseCase) DetailedLedger(ctx context.Context, partyID, startStr, endStr string) (*dto.DebtLedgerReportDTO, error) {
	if partyID == "" {
		return nil, domain.ErrInvalidInput
	}
	exists, err := uc.debts.PartyExists(ctx, uc.partyKind, partyID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, domain.ErrNotFound
	}

	start, end, period := dto.ResolvePeriod(startStr, endStr, time.Now())

	// Apertura: saldo estrictamente anterior al período.
	beforeStart := start.Add(-time.Nanosecond)
	opening, err := uc.debts.Balance(ctx, uc.partyKind, partyID, &beforeStart)
	if err != nil {
		return nil, err
	}

	entries, err := uc.debts.ListByPartyPeriod(ctx, uc.partyKind, partyID, start, end)
	if err != nil {
		return nil, err
	}

	rows := make([]dto.DebtLedgerRowDTO, 0, len(entries))
	for _, e := range entries {
		enriched, err := uc.enrichEntry(ctx, e)
		if err != nil {
			return nil, err
		}
		rows = append(rows, enriched...)
	}

	// Orden determinista aun mezclando filas contabilizadas y fallback:
	// (fecha, id de asiento o vacío, id de línea o id de origen).
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Date != rows[j].Date {
			return rows[i].Date < rows[j].Date
		}
		if rows[i].JournalEntryID != rows[j].JournalEntryID {
			return rows[i].JournalEntryID < rows[j].JournalEntryID
		}
		return sortDetailKey(rows[i]) < sortDetailKey(rows[j])
	})

	// Saldo corrido: solo acumulan las filas que mueven la cuenta de control.
	balance := opening
	summary := dto.DebtActivityDTO{}
	for i := range rows {
		if rows[i].AffectsControl {
			balance = balance.Add(rows[i].Debit).Sub(rows[i].Credit)
			summary.TotalDebit = summary.TotalDebit.Add(rows[i].Debit)
			summary.TotalCredit = summary.TotalCredit.Add(rows[i].Credit)
			summary.Count++
		}
		rows[i].Balance = valuation.RoundMoney(balance)
		rows[i].Debit = valuation.RoundMoney(rows[i].Debit)
		rows[i].Credit = valuation.RoundMoney(rows[i].Credit)
	}
	summary.TotalDebit = valuation.RoundMoney(summary.TotalDebit)
	summary.TotalCredit = valuation.RoundMoney(summary.TotalCredit)

	return &dto.DebtLedgerReportDTO{
		Period:         period,
		PartyID:        partyID,
		PartyKind:      uc.partyKind,
		OpeningBalance: valuation.RoundMoney(opening),
		ClosingBalance: valuation.RoundMoney(balance),
		Rows:           rows,
		Summary:        summary,
	}, nil
}

// enrichEntry resuelve la partida contra el sistema de asientos: filas
// enriquecidas si hay asiento con líneas, fila fallback si no.
func (uc *UseCase) enrichEntry(ctx context.Context, e *entity.DebtEntry) ([]dto.DebtLedgerRowDTO, error) {
	desc := e.Origin.Describe()

	entry, err := uc.journal.FindEntryByOrigin(ctx, e.Origin)
	if err != nil {
		return nil, err
	}
	if entry != nil {
		details, err := uc.journal.ListDetails(ctx, entry.ID)
		if err != nil {
			return nil, err
		}
		if len(details) > 0 {
			rows := make([]dto.DebtLedgerRowDTO, 0, len(details))
			for _, d := range details {
				rows = append(rows, dto.DebtLedgerRowDTO{
					Date:            e.Date.Format("2006-01-02"),
					OriginType:      string(e.Origin.Type),
					OriginID:        e.Origin.ID,
					DocumentCode:    desc.Code,
					DocumentLabel:   desc.Label,
					JournalEntryID:  entry.ID,
					DetailID:        d.ID,
					AccountCode:     d.AccountCode,
					AccountName:     d.AccountName,
					Debit:           d.Debit,
					Credit:          d.Credit,
					HasJournalEntry: true,
					AffectsControl:  d.AccountCode == uc.control.Code,
				})
			}
			return rows, nil
		}
	}

	// Fallback: el documento aún no está contabilizado (o el asiento no tiene
	// líneas); la partida de cartera basta para el saldo.
	return []dto.DebtLedgerRowDTO{{
		Date:            e.Date.Format("2006-01-02"),
		OriginType:      string(e.Origin.Type),
		OriginID:        e.Origin.ID,
		DocumentCode:    desc.Code,
		DocumentLabel:   desc.Label,
		AccountCode:     uc.control.Code,
		AccountName:     uc.control.Name,
		Debit:           e.Debit,
		Credit:          e.Credit,
		HasJournalEntry: false,
		AffectsControl:  true,
	}}, nil
}

// sortDetailKey tercera clave del orden compuesto: id de línea para filas
// contabilizadas, id de origen para filas fallback.
func sortDetailKey(r dto.DebtLedgerRowDTO) string {
	if r.DetailID != "" {
		return r.DetailID
	}
	return r.OriginID
}
