package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/ukaji3/planingest-go/pkg/planingest/models"
)

// DefaultCopperMarker marks copper ore-grade columns, which keep three
// decimals instead of being rounded to whole numbers.
const DefaultCopperMarker = "Cu"

var decimalPattern = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// Coercer types and rounds non-date field values.
type Coercer struct {
	copperMarker string
}

// NewCoercer returns a Coercer using marker to recognize copper fields.
// An empty marker selects DefaultCopperMarker.
func NewCoercer(marker string) *Coercer {
	if marker == "" {
		marker = DefaultCopperMarker
	}
	return &Coercer{copperMarker: marker}
}

// IsCopper reports whether header names a copper-percentage field.
func (c *Coercer) IsCopper(header string) bool {
	return strings.Contains(header, c.copperMarker)
}

// Coerce converts raw into its typed form. Numeric-looking strings become
// numbers; numbers are rounded to 3 decimals for copper fields and to whole
// numbers otherwise. Other values pass through.
func (c *Coercer) Coerce(header string, raw models.Value) models.CellResult {
	v := raw
	if s, ok := raw.Text(); ok {
		if f, ok := ParseNumber(s); ok {
			v = models.Number(f)
		}
	}

	f, ok := v.Float()
	if !ok {
		return models.OK(v)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return models.Fail(raw, "not a finite number")
	}
	if c.IsCopper(header) {
		return models.OK(models.Number(RoundHalfUp(f, 3)))
	}
	return models.OK(models.Number(RoundHalfUp(f, 0)))
}

// ParseNumber parses a plain decimal, accepting a decimal comma.
// Thousands separators, hex and special values are rejected.
func ParseNumber(s string) (float64, bool) {
	s = strings.Replace(strings.TrimSpace(s), ",", ".", 1)
	if !decimalPattern.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// RoundHalfUp rounds x to the given number of decimals, with halves going
// toward positive infinity.
func RoundHalfUp(x float64, places int) float64 {
	if places == 0 {
		return math.Floor(x + 0.5)
	}
	p := math.Pow10(places)
	return math.Floor(x*p+0.5) / p
}
