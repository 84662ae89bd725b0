package ledger_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Gestion-api/internal/application/ledger"
	"github.com/jhoicas/Gestion-api/internal/domain"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
	"github.com/jhoicas/Gestion-api/internal/domain/origin"
	"github.com/jhoicas/Gestion-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria del sistema de asientos y de los comprobantes de tesorería.
// ──────────────────────────────────────────────────────────────────────────────

type journalFixture struct {
	accounts map[string]*entity.Account // indexadas por id y por código
	entries  []*entity.JournalEntry
	details  []*entity.JournalEntryDetail
}

func newJournalFixture() *journalFixture {
	return &journalFixture{accounts: make(map[string]*entity.Account)}
}

func (f *journalFixture) addAccount(a *entity.Account) {
	f.accounts[a.ID] = a
	f.accounts[a.Code] = a
}

func (f *journalFixture) accountIDByCode(code string) string {
	return f.accounts[code].ID
}

// post registra un asiento balanceado; lines alterna (código, débito, crédito).
func (f *journalFixture) post(id string, date time.Time, desc string, ref origin.Ref, lines ...journalLine) {
	f.entries = append(f.entries, &entity.JournalEntry{ID: id, Origin: ref, Date: date, Description: desc})
	for i, l := range lines {
		acc := f.accounts[l.code]
		f.details = append(f.details, &entity.JournalEntryDetail{
			ID:          id + "-l" + string(rune('0'+i)),
			EntryID:     id,
			AccountID:   acc.ID,
			AccountCode: acc.Code,
			AccountName: acc.Name,
			Debit:       l.debit,
			Credit:      l.credit,
		})
	}
}

type journalLine struct {
	code          string
	debit, credit decimal.Decimal
}

func dr(code, amount string) journalLine {
	return journalLine{code: code, debit: dec(amount), credit: decimal.Zero}
}

func cr(code, amount string) journalLine {
	return journalLine{code: code, debit: decimal.Zero, credit: dec(amount)}
}

func (f *journalFixture) entryByID(id string) *entity.JournalEntry {
	for _, e := range f.entries {
		if e.ID == id {
			return e
		}
	}
	return nil
}

func (f *journalFixture) GetAccount(_ context.Context, idOrCode string) (*entity.Account, error) {
	if a, ok := f.accounts[idOrCode]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

func (f *journalFixture) FindEntryByOrigin(_ context.Context, ref origin.Ref) (*entity.JournalEntry, error) {
	for _, e := range f.entries {
		if e.Origin == ref {
			return e, nil
		}
	}
	return nil, nil
}

func (f *journalFixture) ListDetails(_ context.Context, entryID string) ([]*entity.JournalEntryDetail, error) {
	var out []*entity.JournalEntryDetail
	for _, d := range f.details {
		if d.EntryID == entryID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *journalFixture) ListAccountDetails(_ context.Context, accountID string, start, end time.Time) ([]repository.AccountDetailRow, error) {
	var out []repository.AccountDetailRow
	for _, d := range f.details {
		if d.AccountID != accountID {
			continue
		}
		e := f.entryByID(d.EntryID)
		if e.Date.Before(start) || e.Date.After(end) {
			continue
		}
		out = append(out, repository.AccountDetailRow{
			Detail:      *d,
			EntryID:     e.ID,
			EntryDate:   e.Date,
			Description: e.Description,
			Origin:      e.Origin,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].EntryDate.Equal(out[j].EntryDate) {
			return out[i].EntryDate.Before(out[j].EntryDate)
		}
		return out[i].EntryID < out[j].EntryID
	})
	return out, nil
}

func (f *journalFixture) AccountTotalsBefore(_ context.Context, accountID string, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	debit, credit := decimal.Zero, decimal.Zero
	for _, d := range f.details {
		if d.AccountID != accountID {
			continue
		}
		if !f.entryByID(d.EntryID).Date.Before(before) {
			continue
		}
		debit = debit.Add(d.Debit)
		credit = credit.Add(d.Credit)
	}
	return debit, credit, nil
}

func (f *journalFixture) ListContraDetails(_ context.Context, entryIDs []string, excludeAccountID string) (map[string][]*entity.JournalEntryDetail, error) {
	wanted := make(map[string]bool, len(entryIDs))
	for _, id := range entryIDs {
		wanted[id] = true
	}
	out := make(map[string][]*entity.JournalEntryDetail)
	for _, d := range f.details {
		if wanted[d.EntryID] && d.AccountID != excludeAccountID {
			out[d.EntryID] = append(out[d.EntryID], d)
		}
	}
	return out, nil
}

type fakeVoucherRepo struct {
	vouchers []*entity.Voucher
}

func (r *fakeVoucherRepo) ListConfirmed(_ context.Context, method string, start, end time.Time) ([]*entity.Voucher, error) {
	var out []*entity.Voucher
	for _, v := range r.vouchers {
		if v.Status != entity.VoucherStatusConfirmed || v.PaymentMethod != method {
			continue
		}
		if v.Date.Before(start) || v.Date.After(end) {
			continue
		}
		out = append(out, v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeVoucherRepo) SumConfirmedBefore(_ context.Context, method string, before time.Time) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, v := range r.vouchers {
		if v.Status != entity.VoucherStatusConfirmed || v.PaymentMethod != method || !v.Date.Before(before) {
			continue
		}
		sum = sum.Add(v.SignedAmount())
	}
	return sum, nil
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func date(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

const (
	periodStart = "2026-03-01"
	periodEnd   = "2026-03-31"
)

// plan de cuentas mínimo de los fixtures
func seedAccounts(f *journalFixture) {
	f.addAccount(&entity.Account{ID: "acc-caja", Code: "1105", Name: "Caja general", NormalSide: entity.NormalSideDebit})
	f.addAccount(&entity.Account{ID: "acc-clientes", Code: "1305", Name: "Clientes nacionales", NormalSide: entity.NormalSideDebit})
	f.addAccount(&entity.Account{ID: "acc-ingresos", Code: "4135", Name: "Comercio al por mayor", NormalSide: entity.NormalSideCredit})
	f.addAccount(&entity.Account{ID: "acc-iva", Code: "2408", Name: "IVA por pagar", NormalSide: entity.NormalSideCredit})
}

// ──────────────────────────────────────────────────────────────────────────────
// Libro mayor
// ──────────────────────────────────────────────────────────────────────────────

func TestGeneralLedger_CuentaInexistente(t *testing.T) {
	uc := ledger.NewUseCase(newJournalFixture(), &fakeVoucherRepo{})
	_, err := uc.GeneralLedger(context.Background(), "9999", periodStart, periodEnd)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = uc.GeneralLedger(context.Background(), "", periodStart, periodEnd)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGeneralLedger_BuscaPorCodigoOPorId(t *testing.T) {
	f := newJournalFixture()
	seedAccounts(f)
	uc := ledger.NewUseCase(f, &fakeVoucherRepo{})

	porCodigo, err := uc.GeneralLedger(context.Background(), "1105", periodStart, periodEnd)
	require.NoError(t, err)
	porID, err := uc.GeneralLedger(context.Background(), "acc-caja", periodStart, periodEnd)
	require.NoError(t, err)
	assert.Equal(t, porCodigo.Account, porID.Account)
	assert.Equal(t, "D", porCodigo.Account.NormalSide)
}

func TestGeneralLedger_AperturaSegunLadoNormal(t *testing.T) {
	f := newJournalFixture()
	seedAccounts(f)
	// febrero: venta de contado 1000 (caja debita, ingresos acredita)
	f.post("je-feb", date("2026-02-15"), "Venta de contado", origin.SalesReceipt("fv-feb"),
		dr("1105", "1000"), cr("4135", "1000"))
	uc := ledger.NewUseCase(f, &fakeVoucherRepo{})
	ctx := context.Background()

	// cuenta débito-normal: apertura = débitos − créditos
	caja, err := uc.GeneralLedger(ctx, "1105", periodStart, periodEnd)
	require.NoError(t, err)
	assert.True(t, dec("1000").Equal(caja.OpeningBalance))
	assert.Empty(t, caja.Rows)
	assert.True(t, caja.OpeningBalance.Equal(caja.ClosingBalance))

	// cuenta crédito-normal: apertura = créditos − débitos
	ingresos, err := uc.GeneralLedger(ctx, "4135", periodStart, periodEnd)
	require.NoError(t, err)
	assert.True(t, dec("1000").Equal(ingresos.OpeningBalance))
}

func TestGeneralLedger_SaldoCorridoYContrapartidaSimple(t *testing.T) {
	f := newJournalFixture()
	seedAccounts(f)
	f.post("je-1", date("2026-03-05"), "Venta de contado", origin.SalesReceipt("fv-1"),
		dr("1105", "500"), cr("4135", "500"))
	f.post("je-2", date("2026-03-10"), "Recaudo de cartera", origin.ReceiptVoucher("rc-1"),
		dr("1105", "300"), cr("1305", "300"))
	uc := ledger.NewUseCase(f, &fakeVoucherRepo{})

	report, err := uc.GeneralLedger(context.Background(), "1105", periodStart, periodEnd)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	assert.Equal(t, "4135", report.Rows[0].ContraAccountCode)
	assert.True(t, dec("500").Equal(report.Rows[0].Debit))
	assert.True(t, dec("500").Equal(report.Rows[0].Balance))

	assert.Equal(t, "1305", report.Rows[1].ContraAccountCode)
	assert.Equal(t, "RC", report.Rows[1].DocumentCode)
	assert.True(t, dec("800").Equal(report.Rows[1].Balance))

	assert.True(t, dec("800").Equal(report.ClosingBalance))
	assert.True(t, dec("800").Equal(report.Summary.TotalDebit))
	assert.True(t, report.Summary.TotalCredit.IsZero())
}

func TestGeneralLedger_FanOutPorContrapartida(t *testing.T) {
	f := newJournalFixture()
	seedAccounts(f)
	// asiento de tres cuentas: clientes debita 1190; ingresos 1000 e IVA 190 acreditan
	f.post("je-1", date("2026-03-05"), "Venta a crédito", origin.SalesReceipt("fv-1"),
		dr("1305", "1190"), cr("4135", "1000"), cr("2408", "190"))
	uc := ledger.NewUseCase(f, &fakeVoucherRepo{})

	report, err := uc.GeneralLedger(context.Background(), "1305", periodStart, periodEnd)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2, "una fila por contrapartida, no una fila ambigua")

	byContra := make(map[string]decimal.Decimal, 2)
	for _, r := range report.Rows {
		byContra[r.ContraAccountCode] = r.Debit
		assert.Equal(t, "je-1", r.EntryID)
		assert.Equal(t, "FV", r.DocumentCode)
	}
	assert.True(t, dec("1000").Equal(byContra["4135"]), "la fila de ingresos lleva el monto de su línea")
	assert.True(t, dec("190").Equal(byContra["2408"]), "la fila de IVA lleva el monto de su línea")

	// la suma de las filas reproduce la línea original y el cierre
	assert.True(t, dec("1190").Equal(report.ClosingBalance))
	assert.True(t, dec("1190").Equal(report.Summary.TotalDebit))
}

func TestGeneralLedger_FanOutProrrateaConVariasLineasDelMismoLado(t *testing.T) {
	f := newJournalFixture()
	seedAccounts(f)
	// asiento compuesto con dos líneas débito: clientes 600 y caja 590 contra
	// ingresos 1000 e IVA 190. Cada cuenta debitada solo absorbe su parte
	// proporcional de las contrapartidas, nunca el monto completo de cada una.
	f.post("je-1", date("2026-03-05"), "Venta mixta contado/crédito", origin.SalesReceipt("fv-1"),
		dr("1305", "600"), dr("1105", "590"), cr("4135", "1000"), cr("2408", "190"))
	uc := ledger.NewUseCase(f, &fakeVoucherRepo{})

	report, err := uc.GeneralLedger(context.Background(), "1305", periodStart, periodEnd)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	suma := decimal.Zero
	byContra := make(map[string]decimal.Decimal, 2)
	for _, r := range report.Rows {
		suma = suma.Add(r.Debit)
		byContra[r.ContraAccountCode] = r.Debit
	}
	assert.True(t, dec("600").Equal(suma), "las filas deben sumar la línea original, obtuvo %s", suma)

	// reparto proporcional: 1000/1190 y 190/1190 de 600
	assert.True(t, dec("504.20").Equal(byContra["4135"]))
	assert.True(t, dec("95.80").Equal(byContra["2408"]))

	// cierre = apertura + actividad firmada del período, consistente con el resumen
	assert.True(t, dec("600").Equal(report.ClosingBalance), "cierre esperado 600, obtuvo %s", report.ClosingBalance)
	assert.True(t, dec("600").Equal(report.Summary.TotalDebit))
}

func TestGeneralLedger_AsientoDeUnaSolaLinea(t *testing.T) {
	f := newJournalFixture()
	seedAccounts(f)
	// asiento atípico sin contrapartida: la fila sale con el monto completo
	f.post("je-1", date("2026-03-05"), "Ajuste manual", origin.Adjustment("aj-1"),
		dr("1105", "50"))
	uc := ledger.NewUseCase(f, &fakeVoucherRepo{})

	report, err := uc.GeneralLedger(context.Background(), "1105", periodStart, periodEnd)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.Empty(t, report.Rows[0].ContraAccountCode)
	assert.True(t, dec("50").Equal(report.Rows[0].Debit))
}

// ──────────────────────────────────────────────────────────────────────────────
// Libro de caja
// ──────────────────────────────────────────────────────────────────────────────

func voucher(code, kind, method, dateStr, amount string, seq int) *entity.Voucher {
	return &entity.Voucher{
		ID: code, Code: code, Kind: kind,
		Date: date(dateStr), Amount: dec(amount),
		PaymentMethod: method, Status: entity.VoucherStatusConfirmed,
		PartyName: "Tercero " + code,
		CreatedAt: date(dateStr).Add(time.Duration(seq) * time.Minute),
	}
}

func TestCashBook_MedioDePagoInvalido(t *testing.T) {
	uc := ledger.NewUseCase(newJournalFixture(), &fakeVoucherRepo{})
	_, err := uc.CashBook(context.Background(), periodStart, periodEnd, "tarjeta")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCashBook_SaldoCorridoYEtiquetas(t *testing.T) {
	repo := &fakeVoucherRepo{vouchers: []*entity.Voucher{
		// apertura: recibo de febrero por 200
		voucher("RC-001", entity.VoucherReceipt, entity.PaymentMethodCash, "2026-02-20", "200", 0),
		voucher("RC-002", entity.VoucherReceipt, entity.PaymentMethodCash, "2026-03-05", "500", 0),
		voucher("CE-001", entity.VoucherPayment, entity.PaymentMethodCash, "2026-03-10", "300", 0),
	}}
	uc := ledger.NewUseCase(newJournalFixture(), repo)

	report, err := uc.CashBook(context.Background(), periodStart, periodEnd, entity.PaymentMethodCash)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)

	assert.True(t, dec("200").Equal(report.OpeningBalance), "la apertura siembra con los confirmados previos")

	assert.Equal(t, "Recibo de caja", report.Rows[0].DocumentLabel)
	assert.True(t, dec("500").Equal(report.Rows[0].In))
	assert.True(t, report.Rows[0].Out.IsZero())
	assert.True(t, dec("700").Equal(report.Rows[0].Balance))

	assert.Equal(t, "Comprobante de egreso", report.Rows[1].DocumentLabel)
	assert.True(t, dec("300").Equal(report.Rows[1].Out))
	assert.True(t, dec("400").Equal(report.Rows[1].Balance))

	assert.True(t, dec("400").Equal(report.ClosingBalance))
	assert.True(t, dec("500").Equal(report.Summary.TotalIn))
	assert.True(t, dec("300").Equal(report.Summary.TotalOut))
}

func TestCashBook_SeparaMediosDePago(t *testing.T) {
	repo := &fakeVoucherRepo{vouchers: []*entity.Voucher{
		voucher("RC-001", entity.VoucherReceipt, entity.PaymentMethodCash, "2026-03-05", "500", 0),
		voucher("RC-002", entity.VoucherReceipt, entity.PaymentMethodBank, "2026-03-05", "900", 0),
	}}
	uc := ledger.NewUseCase(newJournalFixture(), repo)

	banco, err := uc.CashBook(context.Background(), periodStart, periodEnd, entity.PaymentMethodBank)
	require.NoError(t, err)
	require.Len(t, banco.Rows, 1)
	assert.Equal(t, "RC-002", banco.Rows[0].Code)
	assert.True(t, dec("900").Equal(banco.ClosingBalance))
}

func TestCashBook_IgnoraNoConfirmados(t *testing.T) {
	anulado := voucher("CE-009", entity.VoucherPayment, entity.PaymentMethodCash, "2026-03-08", "999", 0)
	anulado.Status = entity.VoucherStatusVoided
	borrador := voucher("RC-009", entity.VoucherReceipt, entity.PaymentMethodCash, "2026-03-09", "999", 0)
	borrador.Status = entity.VoucherStatusDraft

	repo := &fakeVoucherRepo{vouchers: []*entity.Voucher{
		anulado, borrador,
		voucher("RC-001", entity.VoucherReceipt, entity.PaymentMethodCash, "2026-03-05", "500", 0),
	}}
	uc := ledger.NewUseCase(newJournalFixture(), repo)

	report, err := uc.CashBook(context.Background(), periodStart, periodEnd, entity.PaymentMethodCash)
	require.NoError(t, err)
	require.Len(t, report.Rows, 1)
	assert.True(t, dec("500").Equal(report.ClosingBalance))
}

func TestCashBook_DesempatePorCreatedAt(t *testing.T) {
	repo := &fakeVoucherRepo{vouchers: []*entity.Voucher{
		voucher("RC-002", entity.VoucherReceipt, entity.PaymentMethodCash, "2026-03-05", "100", 2),
		voucher("RC-001", entity.VoucherReceipt, entity.PaymentMethodCash, "2026-03-05", "100", 1),
	}}
	uc := ledger.NewUseCase(newJournalFixture(), repo)

	report, err := uc.CashBook(context.Background(), periodStart, periodEnd, entity.PaymentMethodCash)
	require.NoError(t, err)
	require.Len(t, report.Rows, 2)
	assert.Equal(t, "RC-001", report.Rows[0].Code)
	assert.Equal(t, "RC-002", report.Rows[1].Code)
}

func TestCashBook_PeriodoPorDefecto(t *testing.T) {
	uc := ledger.NewUseCase(newJournalFixture(), &fakeVoucherRepo{})
	report, err := uc.CashBook(context.Background(), "", "", entity.PaymentMethodCash)
	require.NoError(t, err)
	assert.True(t, report.Period.Defaulted)

	now := time.Now()
	assert.Equal(t, time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).Format("2006-01-02"), report.Period.StartDate)
}
