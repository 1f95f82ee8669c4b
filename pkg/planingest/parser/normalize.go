package parser

import (
	"github.com/ukaji3/planingest-go/pkg/planingest/models"
)

// Normalizer turns raw records into normalized ones: the date field goes
// through NormalizeDate, every other field through the Coercer.
type Normalizer struct {
	Coercer   *Coercer
	DateField string
	Override  *models.YearMonth
	Date1904  bool
}

// Normalize returns the normalized copy of raw and the cells that failed to
// decode. Failed cells are null in the returned record.
func (n *Normalizer) Normalize(raw models.Record) (models.Record, []models.CellError) {
	coercer := n.Coercer
	if coercer == nil {
		coercer = NewCoercer("")
	}

	out := models.NewRecord(raw.Row)
	var errs []models.CellError
	for _, f := range raw.Fields() {
		var res models.CellResult
		if f.Name == n.DateField {
			res = NormalizeDate(f.Value, n.Override, n.Date1904)
		} else {
			res = coercer.Coerce(f.Name, f.Value)
		}
		if res.Err != nil {
			e := *res.Err
			e.Row, e.Col, e.Header = raw.Row, f.Col, f.Name
			errs = append(errs, e)
		}
		out.SetCell(f.Name, f.Col, res.Collapse())
	}
	return out, errs
}
