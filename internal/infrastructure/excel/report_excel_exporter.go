// Package excel exporta los libros de período a XLSX usando excelize.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Gestion-api/internal/application/dto"
)

const sheetName = "Sheet1"

// ReportExcelExporter genera archivos XLSX de los libros de período.
type ReportExcelExporter struct{}

// NewReportExcelExporter construye el exportador.
func NewReportExcelExporter() *ReportExcelExporter { return &ReportExcelExporter{} }

// ExportGeneralLedger serializa el libro mayor de una cuenta a XLSX.
func (e *ReportExcelExporter) ExportGeneralLedger(_ context.Context, report *dto.GeneralLedgerReportDTO) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	setRow(f, 1, "Libro mayor", report.Account.Code+" "+report.Account.Name)
	setRow(f, 2, "Período", report.Period.Label)
	setRow(f, 3, "Saldo de apertura", report.OpeningBalance.StringFixed(2))

	setRow(f, 5, "Fecha", "Documento", "Descripción", "Contrapartida", "Débito", "Crédito", "Saldo")
	rowNo := 6
	for _, r := range report.Rows {
		contra := r.ContraAccountCode
		if r.ContraAccountName != "" {
			contra += " " + r.ContraAccountName
		}
		setRow(f, rowNo,
			r.Date, r.DocumentCode+" "+r.OriginID, r.Description, contra,
			r.Debit.StringFixed(2), r.Credit.StringFixed(2), r.Balance.StringFixed(2),
		)
		rowNo++
	}

	rowNo++
	setRow(f, rowNo, "Totales", "", "", "",
		report.Summary.TotalDebit.StringFixed(2), report.Summary.TotalCredit.StringFixed(2),
		report.ClosingBalance.StringFixed(2),
	)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro mayor: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportCashBook serializa el libro de caja a XLSX.
func (e *ReportExcelExporter) ExportCashBook(_ context.Context, report *dto.CashBookReportDTO) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	setRow(f, 1, "Libro de caja", report.PaymentMethod)
	setRow(f, 2, "Período", report.Period.Label)
	setRow(f, 3, "Saldo de apertura", report.OpeningBalance.StringFixed(2))

	setRow(f, 5, "Fecha", "Código", "Documento", "Tercero", "Detalle", "Entrada", "Salida", "Saldo")
	rowNo := 6
	for _, r := range report.Rows {
		setRow(f, rowNo,
			r.Date, r.Code, r.DocumentLabel, r.PartyName, r.Description,
			r.In.StringFixed(2), r.Out.StringFixed(2), r.Balance.StringFixed(2),
		)
		rowNo++
	}

	rowNo++
	setRow(f, rowNo, "Totales", "", "", "", "",
		report.Summary.TotalIn.StringFixed(2), report.Summary.TotalOut.StringFixed(2),
		report.ClosingBalance.StringFixed(2),
	)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("excel: escribir libro de caja: %w", err)
	}
	return buf.Bytes(), nil
}

// setRow escribe valores consecutivos desde la columna A de la fila dada.
func setRow(f *excelize.File, rowNo int, values ...interface{}) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, rowNo)
		_ = f.SetCellValue(sheetName, cell, v)
	}
}
