package sheet

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/ukaji3/planingest-go/pkg/planingest/models"
)

// ErrUnsupportedFormat indicates bytes that are neither xlsx nor xls.
var ErrUnsupportedFormat = errors.New("unsupported spreadsheet format")

// ErrNoSheet indicates a workbook without worksheets.
var ErrNoSheet = errors.New("workbook has no worksheets")

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeZip  = "application/zip"
	mimeXLS  = "application/vnd.ms-excel"
	mimeOLE  = "application/x-ole-storage"
)

// Open detects the container format of data and loads its first worksheet.
func Open(data []byte) (*Grid, error) {
	format, err := Detect(data)
	if err != nil {
		return nil, err
	}
	switch format {
	case FormatXLS:
		return OpenXLS(data)
	default:
		return OpenXLSX(data)
	}
}

// Detect sniffs the container format of data.
func Detect(data []byte) (Format, error) {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		switch {
		case m.Is(mimeXLSX), m.Is(mimeZip):
			return FormatXLSX, nil
		case m.Is(mimeXLS), m.Is(mimeOLE):
			return FormatXLS, nil
		}
	}
	return "", ErrUnsupportedFormat
}

var numericText = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// textValue converts loader text into a value: numbers when the text is a
// plain decimal, strings otherwise.
func textValue(s string) models.Value {
	t := strings.TrimSpace(s)
	if numericText.MatchString(t) {
		if f, err := strconv.ParseFloat(t, 64); err == nil {
			return models.Number(f)
		}
	}
	return models.String(s)
}
