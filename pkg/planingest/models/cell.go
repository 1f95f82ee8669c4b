// Package models defines the data structures shared by the plan ingestion pipeline.
package models

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"cloud.google.com/go/civil"
)

// Kind identifies the dynamic type held by a Value.
type Kind uint8

const (
	// KindNull is an empty cell or a value that failed to decode.
	KindNull Kind = iota
	// KindNumber is a float64.
	KindNumber
	// KindString is free text.
	KindString
	// KindDate is a calendar date without time of day.
	KindDate
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Date is the canonical calendar date emitted for date fields.
type Date = civil.Date

// Value is a single cell or field value: null, number, string or date.
// The zero Value is null.
type Value struct {
	kind Kind
	num  float64
	str  string
	date Date
}

// Null returns the null Value.
func Null() Value { return Value{} }

// Number returns a numeric Value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// String returns a text Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// DateOf returns a date Value.
func DateOf(d Date) Value { return Value{kind: KindDate, date: d} }

// Kind returns the dynamic type of v.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v holds no value.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Float returns the number held by v.
func (v Value) Float() (float64, bool) { return v.num, v.kind == KindNumber }

// Text returns the string held by v.
func (v Value) Text() (string, bool) { return v.str, v.kind == KindString }

// Date returns the date held by v.
func (v Value) Date() (Date, bool) { return v.date, v.kind == KindDate }

// Interface returns v as a plain Go value: nil, float64, string or Date.
func (v Value) Interface() interface{} {
	switch v.kind {
	case KindNumber:
		return v.num
	case KindString:
		return v.str
	case KindDate:
		return v.date
	default:
		return nil
	}
}

// String renders v for headers and diagnostics. Numbers use the shortest
// decimal form, so a header cell holding 2025 renders as "2025".
func (v Value) String() string {
	switch v.kind {
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindString:
		return v.str
	case KindDate:
		return v.date.String()
	default:
		return ""
	}
}

// Equal reports whether two values have the same kind and content.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindNumber:
		return v.num == o.num || (math.IsNaN(v.num) && math.IsNaN(o.num))
	case KindString:
		return v.str == o.str
	case KindDate:
		return v.date == o.date
	default:
		return true
	}
}

// MarshalJSON encodes dates as "YYYY-MM-DD" and null as JSON null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindNumber:
		if math.IsNaN(v.num) || math.IsInf(v.num, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.num)
	case KindString:
		return json.Marshal(v.str)
	case KindDate:
		return json.Marshal(v.date.String())
	default:
		return []byte("null"), nil
	}
}

// MarshalYAML implements yaml.Marshaler.
func (v Value) MarshalYAML() (interface{}, error) {
	if v.kind == KindDate {
		return v.date.String(), nil
	}
	return v.Interface(), nil
}

// CellError describes a cell whose content could not be decoded. The cell
// is emitted as null; the error is kept for diagnostics.
type CellError struct {
	// Row is the 1-based sheet row.
	Row int `json:"row"`
	// Col is the 1-based sheet column.
	Col int `json:"col"`
	// Header is the resolved header of the column.
	Header string `json:"header"`
	// Raw is the value before decoding.
	Raw Value `json:"raw"`
	// Reason explains the failure.
	Reason string `json:"reason"`
}

func (e *CellError) Error() string {
	return fmt.Sprintf("cell R%dC%d (%s): %s: %q", e.Row, e.Col, e.Header, e.Reason, e.Raw.String())
}

// CellResult is the outcome of decoding one cell.
type CellResult struct {
	Value Value
	Err   *CellError
}

// OK wraps a successfully decoded value.
func OK(v Value) CellResult { return CellResult{Value: v} }

// Fail builds a failed result for raw with the given reason.
func Fail(raw Value, reason string) CellResult {
	return CellResult{Err: &CellError{Raw: raw, Reason: reason}}
}

// Failed reports whether decoding failed.
func (r CellResult) Failed() bool { return r.Err != nil }

// Collapse returns the value to store in a record: null on failure.
func (r CellResult) Collapse() Value {
	if r.Err != nil {
		return Null()
	}
	return r.Value
}
