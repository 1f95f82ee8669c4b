// Package parser turns worksheet cells into normalized plan records.
package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ukaji3/planingest-go/pkg/planingest/models"
	"github.com/ukaji3/planingest-go/pkg/planingest/sheet"
	"golang.org/x/text/unicode/norm"
)

// HeaderSeparator joins a group label and its sub-label.
const HeaderSeparator = " - "

// MaxHeaderRows is the deepest header layout supported.
const MaxHeaderRows = 3

// ErrHeaderRows indicates an unsupported header row count.
var ErrHeaderRows = errors.New("header row count must be 1, 2 or 3")

// ResolveHeaders builds one header string per column of region from its
// first headerRows rows.
//
// With one header row the label is used as is. With two, the first row holds
// group labels that stick to the right until the next group label, and the
// second row holds sub-labels. With three, the first row is a title band and
// the remaining two rows are read as in the two-row layout.
func ResolveHeaders(r sheet.Reader, region models.Region, headerRows int) ([]string, error) {
	if headerRows < 1 || headerRows > MaxHeaderRows {
		return nil, fmt.Errorf("%w: got %d", ErrHeaderRows, headerRows)
	}
	if region.Empty() {
		return nil, nil
	}

	width := region.Cols()
	if headerRows == 1 {
		labels := readLabels(r, region.MinRow, region)
		return JoinHeaderRows(nil, labels, region.MinCol), nil
	}

	topRow := region.MinRow + headerRows - 2
	subRow := topRow + 1
	top := readLabels(r, topRow, region)
	sub := readLabels(r, subRow, region)
	if len(top) != width || len(sub) != width {
		return nil, fmt.Errorf("header rows misaligned: %d/%d labels for %d columns", len(top), len(sub), width)
	}
	return JoinHeaderRows(top, sub, region.MinCol), nil
}

// JoinHeaderRows combines aligned group and sub-label rows. top may be nil
// for single-row headers. firstCol is the absolute index of the first column
// and names the Column_<n> placeholders of unlabeled columns.
func JoinHeaderRows(top, sub []string, firstCol int) []string {
	headers := make([]string, len(sub))
	lastTop := ""
	for i, label := range sub {
		if i < len(top) && top[i] != "" {
			lastTop = top[i]
		}
		switch {
		case lastTop != "" && label != "":
			headers[i] = lastTop + HeaderSeparator + label
		case lastTop != "":
			headers[i] = lastTop
		case label != "":
			headers[i] = label
		default:
			headers[i] = Placeholder(firstCol + i)
		}
	}
	return headers
}

// Placeholder names an unlabeled column by its 0-based index.
func Placeholder(col int) string {
	return fmt.Sprintf("Column_%d", col)
}

func readLabels(r sheet.Reader, row int, region models.Region) []string {
	labels := make([]string, 0, region.Cols())
	for col := region.MinCol; col <= region.MaxCol; col++ {
		labels = append(labels, NormalizeLabel(r.CellAt(row, col).String()))
	}
	return labels
}

// NormalizeLabel trims a header label and brings it to Unicode NFC, so that
// decomposed Cyrillic letters compare equal to their composed forms.
func NormalizeLabel(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// FindHeader returns the first header equal to one of names, ignoring case.
func FindHeader(headers []string, names ...string) (string, bool) {
	for _, name := range names {
		name = NormalizeLabel(name)
		for _, h := range headers {
			if strings.EqualFold(h, name) {
				return h, true
			}
		}
	}
	return "", false
}
