// Package planingest converts monthly mine planning spreadsheets into
// normalized per-day records.
//
// A call to Ingest reads one workbook, scans its first worksheet, resolves
// the (possibly multi-row) header, types every cell and drops rows without
// their key field. Shovel plans are additionally spread over every day of
// the plan month. Nothing is persisted; the caller stores Result.Records.
package planingest

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ukaji3/planingest-go/pkg/planingest/models"
	"github.com/ukaji3/planingest-go/pkg/planingest/parser"
	"go.uber.org/zap"
)

// DefaultMaxBytes bounds the size of an input workbook.
const DefaultMaxBytes = 32 << 20

// Variant is one of the three plan spreadsheet shapes.
type Variant string

const (
	// VariantShovel is a single-header shovel plan expanded to daily rows.
	VariantShovel Variant = "shovel"
	// VariantOperational is an operational plan with a two-row header.
	VariantOperational Variant = "operational"
	// VariantNatural is a natural-indicator plan with a three-row header.
	VariantNatural Variant = "natural"
)

// Variants lists the supported plan variants.
func Variants() []Variant {
	return []Variant{VariantShovel, VariantOperational, VariantNatural}
}

// ParseVariant validates a variant name.
func ParseVariant(s string) (Variant, error) {
	for _, v := range Variants() {
		if string(v) == s {
			return v, nil
		}
	}
	return "", fmt.Errorf("%w: unknown variant %q (must be shovel, operational or natural)", ErrInvalidOptions, s)
}

// FieldNames are the header names the pipeline relies on. Matching is
// case-insensitive.
type FieldNames struct {
	// Date is the date-bearing field.
	Date string `yaml:"date"`
	// Required must be non-null for a row to be kept.
	Required string `yaml:"required"`
	// Quantity is the monthly plan quantity spread by daily expansion.
	Quantity string `yaml:"quantity"`
}

// Schema describes the layout of a plan variant.
type Schema struct {
	HeaderRows int
	Fields     FieldNames
	Expand     bool
}

// DefaultSchema returns the built-in layout of v.
//
// Shovel and natural-indicator plans key their rows on the horizon (the
// elevation field). Operational plans have one row per plan day and no
// identifier column, so the date is their key: rows without a date are
// subtotal or note rows and are dropped.
func DefaultSchema(v Variant) (Schema, error) {
	switch v {
	case VariantShovel:
		return Schema{
			HeaderRows: 1,
			Fields:     FieldNames{Date: "Дата", Required: "Хоризонт", Quantity: "План"},
			Expand:     true,
		}, nil
	case VariantOperational:
		return Schema{
			HeaderRows: 2,
			Fields:     FieldNames{Date: "Дата", Required: "Дата"},
		}, nil
	case VariantNatural:
		return Schema{
			HeaderRows: 3,
			Fields:     FieldNames{Date: "Дата", Required: "Хоризонт"},
		}, nil
	default:
		return Schema{}, fmt.Errorf("%w: unknown variant %q", ErrInvalidOptions, v)
	}
}

// Observer receives a summary of every Ingest call.
type Observer interface {
	ObserveIngest(variant Variant, stats Stats, elapsed time.Duration, err error)
}

// Options configures ingestion.
type Options struct {
	// Variant selects the plan layout.
	Variant Variant `validate:"required,oneof=shovel operational natural"`
	// Override replaces the year and month of every plan date, keeping the day.
	Override *models.YearMonth
	// Fields overrides the default field names of the variant; empty names
	// keep the default.
	Fields FieldNames
	// CopperMarker marks copper-percentage headers (default "Cu").
	CopperMarker string
	// Range restricts ingestion to an A1 range such as "A3:F40".
	Range string
	// MaxBytes bounds the input size; 0 selects DefaultMaxBytes.
	MaxBytes int64 `validate:"gte=0"`
	// Source names the input in errors and logs.
	Source string
	// Logger receives debug summaries; nil disables logging.
	Logger *zap.Logger `validate:"-"`
	// Observer receives per-call statistics; optional.
	Observer Observer `validate:"-"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func optionsValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// Validate checks the options.
func (o Options) Validate() error {
	if err := optionsValidator().Struct(o); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOptions, err)
	}
	return nil
}

// Schema returns the variant layout with field name overrides applied.
func (o Options) Schema() (Schema, error) {
	s, err := DefaultSchema(o.Variant)
	if err != nil {
		return Schema{}, err
	}
	if o.Fields.Date != "" {
		s.Fields.Date = o.Fields.Date
	}
	if o.Fields.Required != "" {
		s.Fields.Required = o.Fields.Required
	}
	if o.Fields.Quantity != "" {
		s.Fields.Quantity = o.Fields.Quantity
	}
	return s, nil
}

func (o Options) maxBytes() int64 {
	if o.MaxBytes > 0 {
		return o.MaxBytes
	}
	return DefaultMaxBytes
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}

func (o Options) coercer() *parser.Coercer {
	return parser.NewCoercer(o.CopperMarker)
}
