// Package output provides serialization of ingestion results.
package output

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ukaji3/planingest-go/pkg/planingest"
	"github.com/ukaji3/planingest-go/pkg/planingest/models"
	"github.com/ukaji3/planingest-go/pkg/planingest/sheet"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates an output format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be json or yaml)", s)
	}
}

// Document is the serialized view of a planingest.Result.
type Document struct {
	RunID      string             `json:"run_id" yaml:"run_id"`
	Source     string             `json:"source,omitempty" yaml:"source,omitempty"`
	Variant    planingest.Variant `json:"variant" yaml:"variant"`
	Format     sheet.Format       `json:"format" yaml:"format"`
	Sheet      string             `json:"sheet" yaml:"sheet"`
	Range      string             `json:"range" yaml:"range"`
	Headers    []string           `json:"headers" yaml:"headers"`
	Records    []models.Record    `json:"records" yaml:"records"`
	CellErrors []models.CellError `json:"cell_errors,omitempty" yaml:"cell_errors,omitempty"`
	Stats      planingest.Stats   `json:"stats" yaml:"stats"`
}

// NewDocument builds the serialized view of res.
func NewDocument(res *planingest.Result) Document {
	records := res.Records
	if records == nil {
		records = []models.Record{}
	}
	return Document{
		RunID:      res.RunID,
		Source:     res.Source,
		Variant:    res.Variant,
		Format:     res.Format,
		Sheet:      res.Sheet,
		Range:      sheet.FormatRange(res.Region),
		Headers:    res.Headers,
		Records:    records,
		CellErrors: res.CellErrors,
		Stats:      res.Stats,
	}
}

// ToJSON serializes results to JSON. A single result is written as an
// object, several as an array.
func ToJSON(results []*planingest.Result, pretty bool) ([]byte, error) {
	var v interface{} = documents(results)
	if len(results) == 1 {
		v = NewDocument(results[0])
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// ToYAML serializes results to YAML, one document per result.
func ToYAML(results []*planingest.Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	for _, res := range results {
		if err := enc.Encode(NewDocument(res)); err != nil {
			return nil, err
		}
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Encode serializes results in the given format.
func Encode(results []*planingest.Result, format Format, pretty bool) ([]byte, error) {
	switch format {
	case FormatYAML:
		return ToYAML(results)
	case FormatJSON, "":
		return ToJSON(results, pretty)
	default:
		return nil, fmt.Errorf("invalid format: %s", format)
	}
}

func documents(results []*planingest.Result) []Document {
	docs := make([]Document, 0, len(results))
	for _, res := range results {
		docs = append(docs, NewDocument(res))
	}
	return docs
}
