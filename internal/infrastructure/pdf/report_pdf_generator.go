// Package pdf implementa la generación en PDF de los libros de período
// (libro de caja y extracto de cartera) usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título del libro  │  Período                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SALDO DE APERTURA                                          │
//	│  TABLA: Fecha | Documento | Detalle | Débito/Entrada | ...  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES + SALDO DE CIERRE                                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
	"github.com/jhoicas/Gestion-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoReportGenerator genera los PDF de los libros de período.
type MarotoReportGenerator struct{}

// NewMarotoReportGenerator construye el generador.
func NewMarotoReportGenerator() *MarotoReportGenerator { return &MarotoReportGenerator{} }

func newDocument(title string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		Build()
	return maroto.New(cfg)
}

// GenerateCashBookPDF genera el PDF del libro de caja y devuelve sus bytes.
func (g *MarotoReportGenerator) GenerateCashBookPDF(_ context.Context, report *dto.CashBookReportDTO) ([]byte, error) {
	title := "LIBRO DE CAJA"
	if report.PaymentMethod == entity.PaymentMethodBank {
		title = "LIBRO DE BANCOS"
	}

	m := newDocument(title)
	m.AddRows(reportHeaderRow(title, report.Period))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(balanceRow("Saldo de apertura", report.OpeningBalance))

	m.AddRows(cashBookTableHeader())
	for _, r := range report.Rows {
		m.AddRows(cashBookDetailRow(r))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsPairRow("Total entradas", report.Summary.TotalIn, "Total salidas", report.Summary.TotalOut))
	m.AddRows(balanceRow("Saldo de cierre", report.ClosingBalance))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar libro de caja: %w", err)
	}
	return doc.GetBytes(), nil
}

// GenerateDebtLedgerPDF genera el PDF del extracto de cartera de un tercero.
func (g *MarotoReportGenerator) GenerateDebtLedgerPDF(_ context.Context, report *dto.DebtLedgerReportDTO) ([]byte, error) {
	title := "EXTRACTO DE CARTERA - CLIENTE"
	if report.PartyKind == entity.PartySupplier {
		title = "EXTRACTO DE CARTERA - PROVEEDOR"
	}

	m := newDocument(title)
	m.AddRows(reportHeaderRow(title, report.Period))
	m.AddRows(row.New(6).Add(
		col.New(12).Add(text.New("Tercero: "+report.PartyID, props.Text{Size: 8, Color: colorGray})),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(balanceRow("Saldo de apertura", report.OpeningBalance))

	m.AddRows(debtTableHeader())
	for _, r := range report.Rows {
		m.AddRows(debtDetailRow(r))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsPairRow("Total débitos", report.Summary.TotalDebit, "Total créditos", report.Summary.TotalCredit))
	m.AddRows(balanceRow("Saldo de cierre", report.ClosingBalance))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar extracto de cartera: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// reportHeaderRow: título del libro (izq) y período (der).
func reportHeaderRow(title string, period dto.PeriodDTO) core.Row {
	return row.New(14).Add(
		col.New(7).Add(
			text.New(title, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 2,
			}),
		),
		col.New(5).Add(
			text.New("Período", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 2,
			}),
			text.New(period.Label, props.Text{
				Size: 9, Align: align.Right, Top: 7,
			}),
		),
	)
}

func balanceRow(label string, amount decimal.Decimal) core.Row {
	return row.New(7).Add(
		col.New(8).Add(text.New(label, props.Text{Style: fontstyle.Bold, Size: 9, Top: 1})),
		col.New(4).Add(text.New(formatMoney(amount), props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
		})),
	)
}

func totalsPairRow(labelA string, amountA decimal.Decimal, labelB string, amountB decimal.Decimal) core.Row {
	return row.New(7).Add(
		col.New(4).Add(text.New(labelA+": "+formatMoney(amountA), props.Text{Size: 9, Top: 1})),
		col.New(4).Add(text.New(labelB+": "+formatMoney(amountB), props.Text{Size: 9, Top: 1})),
		col.New(4),
	)
}

func cashBookTableHeader() core.Row {
	return row.New(7).Add(
		headerCell(2, "Fecha"),
		headerCell(2, "Documento"),
		headerCell(3, "Detalle"),
		headerCellRight(1, "Entrada"),
		headerCellRight(2, "Salida"),
		headerCellRight(2, "Saldo"),
	)
}

func cashBookDetailRow(r dto.CashBookRowDTO) core.Row {
	return row.New(6).Add(
		bodyCell(2, r.Date),
		bodyCell(2, r.Code),
		bodyCell(3, firstNonEmpty(r.Description, r.PartyName)),
		bodyCellRight(1, formatMoney(r.In)),
		bodyCellRight(2, formatMoney(r.Out)),
		bodyCellRight(2, formatMoney(r.Balance)),
	)
}

func debtTableHeader() core.Row {
	return row.New(7).Add(
		headerCell(2, "Fecha"),
		headerCell(2, "Documento"),
		headerCell(2, "Cuenta"),
		headerCellRight(2, "Débito"),
		headerCellRight(2, "Crédito"),
		headerCellRight(2, "Saldo"),
	)
}

func debtDetailRow(r dto.DebtLedgerRowDTO) core.Row {
	return row.New(6).Add(
		bodyCell(2, r.Date),
		bodyCell(2, r.DocumentCode+" "+r.OriginID),
		bodyCell(2, r.AccountCode),
		bodyCellRight(2, formatMoney(r.Debit)),
		bodyCellRight(2, formatMoney(r.Credit)),
		bodyCellRight(2, formatMoney(r.Balance)),
	)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func headerCell(size int, label string) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
	}))
}

func headerCellRight(size int, label string) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Align: align.Right, Top: 1,
	}))
}

func bodyCell(size int, value string) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8, Top: 1}))
}

func bodyCellRight(size int, value string) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: align.Right, Top: 1}))
}

func formatMoney(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
