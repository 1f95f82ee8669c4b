package planingest

import (
	"errors"
	"fmt"

	"github.com/ukaji3/planingest-go/pkg/planingest/parser"
	"github.com/ukaji3/planingest-go/pkg/planingest/sheet"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrUnsupportedFormat indicates input that is neither xlsx nor xls.
var ErrUnsupportedFormat = sheet.ErrUnsupportedFormat

// ErrMalformedWorkbook indicates a spreadsheet that could not be read.
var ErrMalformedWorkbook = errors.New("malformed workbook")

// ErrFileTooLarge indicates input above Options.MaxBytes.
var ErrFileTooLarge = errors.New("file too large")

// ErrNoData indicates a worksheet without data rows.
var ErrNoData = errors.New("no data found")

// ErrNoValidData indicates that every data row was filtered out.
var ErrNoValidData = parser.ErrNoValidData

// ErrInvalidOptions indicates options that failed validation.
var ErrInvalidOptions = errors.New("invalid options")

// Stage names the pipeline step a fatal error came from.
type Stage string

const (
	StageOptions Stage = "options"
	StageRead    Stage = "read"
	StageOpen    Stage = "open"
	StageScan    Stage = "scan"
	StageHeaders Stage = "headers"
	StageRows    Stage = "rows"
	StageFilter  Stage = "filter"
	StageExpand  Stage = "expand"
)

// IngestError represents a fatal error during ingestion of one file.
type IngestError struct {
	Source string
	Stage  Stage
	Err    error
}

func (e *IngestError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("ingest (%s): %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("ingest %q (%s): %v", e.Source, e.Stage, e.Err)
}

func (e *IngestError) Unwrap() error {
	return e.Err
}

// NewIngestError creates a new IngestError.
func NewIngestError(source string, stage Stage, err error) *IngestError {
	return &IngestError{
		Source: source,
		Stage:  stage,
		Err:    err,
	}
}
