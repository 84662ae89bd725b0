package dto

import "time"

// dateLayout formato ISO de fechas en requests y respuestas de reportes.
const dateLayout = "2006-01-02"

// PeriodDTO rango de fechas de un reporte, formateado y crudo.
// Defaulted indica que el rango pedido venía ausente o malformado y se
// sustituyó por el mes calendario en curso (política de recuperación por
// defecto, documentada al consumidor; no es corrupción silenciosa).
type PeriodDTO struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Label     string `json:"label"`
	Defaulted bool   `json:"defaulted"`
}

// ResolvePeriod interpreta un rango ISO {start_date, end_date}. Cualquier
// combinación ausente, no parseable o invertida cae al mes calendario en curso.
// Devuelve los límites efectivos (end extendido a fin de día) y el DTO.
func ResolvePeriod(startStr, endStr string, now time.Time) (time.Time, time.Time, PeriodDTO) {
	start, errStart := time.ParseInLocation(dateLayout, startStr, now.Location())
	end, errEnd := time.ParseInLocation(dateLayout, endStr, now.Location())

	defaulted := errStart != nil || errEnd != nil || end.Before(start)
	if defaulted {
		start = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		end = start.AddDate(0, 1, -1)
	}

	endOfDay := time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), end.Location())

	p := PeriodDTO{
		StartDate: start.Format(dateLayout),
		EndDate:   end.Format(dateLayout),
		Label:     start.Format("02/01/2006") + " - " + end.Format("02/01/2006"),
		Defaulted: defaulted,
	}
	return start, endOfDay, p
}

// DateOnly trunca un instante a su fecha (medianoche local). Las filas de
// inventory_balances se indexan por esta fecha.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
