package parser

import (
	"time"

	"github.com/ukaji3/planingest-go/pkg/planingest/models"
)

// QuantityScale converts monthly plan quantities (thousands) to units.
const QuantityScale = 1000

// ExpandSpec names the fields rewritten by daily expansion.
type ExpandSpec struct {
	DateField     string
	QuantityField string
}

// DaysInMonth returns the number of days in the given month.
func DaysInMonth(year int, month time.Month) int {
	return models.YearMonth{Year: year, Month: month}.Days()
}

// ExpandDaily spreads one monthly record over every day of target.
//
// Day i of N carries (monthly * 1000 / N) * i, the cumulative plan up to and
// including that day, so the last day equals the scaled monthly total.
// A null quantity stays null; a non-numeric one is reported and emitted as
// null on every day.
func ExpandDaily(rec models.Record, spec ExpandSpec, target models.YearMonth) ([]models.Record, *models.CellError) {
	n := target.Days()
	raw := rec.Get(spec.QuantityField)

	var cellErr *models.CellError
	monthly, numeric := raw.Float()
	if !numeric && !raw.IsNull() {
		cellErr = &models.CellError{
			Row:    rec.Row,
			Col:    rec.Col(spec.QuantityField),
			Header: spec.QuantityField,
			Raw:    raw,
			Reason: "plan quantity is not a number",
		}
	}

	out := make([]models.Record, 0, n)
	for i := 1; i <= n; i++ {
		day, _ := target.Day(i)
		c := rec.Clone()
		c.Set(spec.DateField, models.DateOf(day))
		if numeric {
			c.Set(spec.QuantityField, models.Number((monthly*QuantityScale/float64(n))*float64(i)))
		} else {
			c.Set(spec.QuantityField, models.Null())
		}
		out = append(out, c)
	}
	return out, cellErr
}
