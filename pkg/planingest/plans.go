package planingest

import (
	"github.com/ukaji3/planingest-go/pkg/planingest/models"
	"github.com/ukaji3/planingest-go/pkg/planingest/parser"
)

// Header aliases of the typed plan fields.
var (
	horizonNames    = []string{"Хоризонт", "Хор.", "Horizon"}
	shovelNames     = []string{"Багер", "Екскаватор", "Shovel"}
	blockNames      = []string{"Блок", "Block"}
	oreTonnesNames  = []string{"Руда - т", "Руда - тона", "Ore - t"}
	oreCopperNames  = []string{"Руда - Cu %", "Руда - Cu", "Ore - Cu %"}
	overburdenNames = []string{"Откривка - м3", "Откривка - m3", "Overburden - m3"}
	metalNames      = []string{"Мед - т", "Метал - т", "Cu metal - t"}
)

// ShovelPlanDay is one day of a shovel plan.
type ShovelPlanDay struct {
	Row         int
	Date        models.Date
	Horizon     *float64
	Shovel      string
	Quantity    *float64
	CopperGrade *float64
	// Extra holds the columns without a typed field.
	Extra map[string]models.Value

	record models.Record
}

// Record returns the row as a header-keyed record.
func (d ShovelPlanDay) Record() models.Record { return d.record }

// MarshalJSON writes the header-keyed form.
func (d ShovelPlanDay) MarshalJSON() ([]byte, error) { return d.record.MarshalJSON() }

// OperationalPlanRow is one row of an operational plan.
type OperationalPlanRow struct {
	Row int
	// Date is a date, or the verbatim text when it was not a serial date
	// and no override month was given.
	Date       models.Value
	OreTonnes  *float64
	OreCopper  *float64
	Overburden *float64
	Extra      map[string]models.Value

	record models.Record
}

// Record returns the row as a header-keyed record.
func (r OperationalPlanRow) Record() models.Record { return r.record }

// MarshalJSON writes the header-keyed form.
func (r OperationalPlanRow) MarshalJSON() ([]byte, error) { return r.record.MarshalJSON() }

// NaturalIndicatorRow is one row of a natural-indicator plan.
type NaturalIndicatorRow struct {
	Row         int
	Horizon     *float64
	Block       string
	Date        models.Value
	OreTonnes   *float64
	OreCopper   *float64
	CopperMetal *float64
	Extra       map[string]models.Value

	record models.Record
}

// Record returns the row as a header-keyed record.
func (r NaturalIndicatorRow) Record() models.Record { return r.record }

// MarshalJSON writes the header-keyed form.
func (r NaturalIndicatorRow) MarshalJSON() ([]byte, error) { return r.record.MarshalJSON() }

// binder maps header-keyed records onto typed rows. Every header it binds is
// remembered so the rest can go to Extra.
type binder struct {
	headers []string
}

func (b *binder) header(names ...string) string {
	h, _ := parser.FindHeader(b.headers, names...)
	return h
}

// number returns the numeric value of a typed column. Text stays available
// in the record and leaves the typed field nil.
func number(rec models.Record, header string) *float64 {
	if header == "" {
		return nil
	}
	if f, ok := rec.Get(header).Float(); ok {
		return &f
	}
	return nil
}

func text(rec models.Record, header string) string {
	if header == "" {
		return ""
	}
	return rec.Get(header).String()
}

func extra(rec models.Record, bound ...string) map[string]models.Value {
	skip := make(map[string]bool, len(bound))
	for _, h := range bound {
		if h != "" {
			skip[h] = true
		}
	}
	out := make(map[string]models.Value)
	for _, f := range rec.Fields() {
		if !skip[f.Name] {
			out[f.Name] = f.Value
		}
	}
	return out
}

func (b *binder) copperHeader(c *parser.Coercer) string {
	for _, h := range b.headers {
		if c.IsCopper(h) {
			return h
		}
	}
	return ""
}

func (b *binder) shovelDays(records []models.Record, fields FieldNames, c *parser.Coercer) []ShovelPlanDay {
	horizon := b.header(horizonNames...)
	date := b.header(fields.Date)
	quantity := b.header(fields.Quantity)
	shovel := b.header(shovelNames...)
	copper := b.copperHeader(c)

	out := make([]ShovelPlanDay, 0, len(records))
	for _, rec := range records {
		day := ShovelPlanDay{
			Row:         rec.Row,
			Horizon:     number(rec, horizon),
			Shovel:      text(rec, shovel),
			Quantity:    number(rec, quantity),
			CopperGrade: number(rec, copper),
			Extra:       extra(rec, horizon, date, quantity, shovel, copper),
			record:      rec,
		}
		dateField := fields.Date
		if date != "" {
			dateField = date
		}
		day.Date, _ = rec.Get(dateField).Date()
		out = append(out, day)
	}
	return out
}

func (b *binder) operationalRows(records []models.Record, fields FieldNames) []OperationalPlanRow {
	date := b.header(fields.Date)
	ore := b.header(oreTonnesNames...)
	copper := b.header(oreCopperNames...)
	overburden := b.header(overburdenNames...)

	out := make([]OperationalPlanRow, 0, len(records))
	for _, rec := range records {
		out = append(out, OperationalPlanRow{
			Row:        rec.Row,
			Date:       rec.Get(date),
			OreTonnes:  number(rec, ore),
			OreCopper:  number(rec, copper),
			Overburden: number(rec, overburden),
			Extra:      extra(rec, date, ore, copper, overburden),
			record:     rec,
		})
	}
	return out
}

func (b *binder) naturalRows(records []models.Record, fields FieldNames) []NaturalIndicatorRow {
	horizon := b.header(horizonNames...)
	date := b.header(fields.Date)
	block := b.header(blockNames...)
	ore := b.header(oreTonnesNames...)
	copper := b.header(oreCopperNames...)
	metal := b.header(metalNames...)

	out := make([]NaturalIndicatorRow, 0, len(records))
	for _, rec := range records {
		out = append(out, NaturalIndicatorRow{
			Row:         rec.Row,
			Horizon:     number(rec, horizon),
			Block:       text(rec, block),
			Date:        rec.Get(date),
			OreTonnes:   number(rec, ore),
			OreCopper:   number(rec, copper),
			CopperMetal: number(rec, metal),
			Extra:       extra(rec, horizon, date, block, ore, copper, metal),
			record:      rec,
		})
	}
	return out
}
