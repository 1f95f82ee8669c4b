package parser

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/ukaji3/planingest-go/pkg/planingest/models"
	"github.com/xuri/excelize/v2"
)

// maxSerial is 9999-12-31 in the 1900 date system.
const maxSerial = 2958465

// dayLayouts are full-date layouts seen in plan sheets, tried before falling
// back to the first one- or two-digit group.
var dayLayouts = []string{
	"02.01.2006",
	"2.1.2006",
	"02.01.06",
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
}

var dayPattern = regexp.MustCompile(`(?:^|\D)(\d{1,2})(?:\D|$)`)

// NormalizeDate converts a date cell into a canonical date.
//
// Serial numbers are decoded with the workbook's date system. Strings are
// kept verbatim (trimmed) unless an override is given, in which case only
// their day-of-month is used. With an override the result always lies in the
// override month and keeps the source day.
func NormalizeDate(raw models.Value, override *models.YearMonth, date1904 bool) models.CellResult {
	switch raw.Kind() {
	case models.KindNumber:
		f, _ := raw.Float()
		d, err := DecodeSerial(f, date1904)
		if err != nil {
			return models.Fail(raw, err.Error())
		}
		return withOverride(raw, d, override)

	case models.KindDate:
		d, _ := raw.Date()
		return withOverride(raw, d, override)

	case models.KindString:
		s, _ := raw.Text()
		s = strings.TrimSpace(s)
		if override == nil {
			if s == "" {
				return models.OK(models.Null())
			}
			return models.OK(models.String(s))
		}
		day, ok := ExtractDay(s)
		if !ok {
			return models.Fail(raw, "no day of month in text")
		}
		return onDay(raw, *override, day)

	default:
		return models.OK(models.Null())
	}
}

func withOverride(raw models.Value, d models.Date, override *models.YearMonth) models.CellResult {
	if override == nil {
		return models.OK(models.DateOf(d))
	}
	return onDay(raw, *override, d.Day)
}

func onDay(raw models.Value, month models.YearMonth, day int) models.CellResult {
	d, ok := month.Day(day)
	if !ok {
		return models.Fail(raw, fmt.Sprintf("day %d does not exist in %s", day, month))
	}
	return models.OK(models.DateOf(d))
}

// DecodeSerial converts a spreadsheet serial date into a calendar date.
// The time-of-day fraction is dropped.
func DecodeSerial(serial float64, date1904 bool) (models.Date, error) {
	if math.IsNaN(serial) || math.IsInf(serial, 0) || serial < 0 || serial > maxSerial {
		return models.Date{}, fmt.Errorf("serial date %v out of range", serial)
	}
	t, err := excelize.ExcelDateToTime(math.Floor(serial), date1904)
	if err != nil {
		return models.Date{}, fmt.Errorf("decode serial date %v: %w", serial, err)
	}
	return civil.DateOf(t), nil
}

// ExtractDay finds the day of month in free text such as "05.01.2025" or
// "17-ти". ok is false when no plausible day is present.
func ExtractDay(s string) (int, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dayLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Day(), true
		}
	}
	m := dayPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	day, err := strconv.Atoi(m[1])
	if err != nil || day < 1 || day > 31 {
		return 0, false
	}
	return day, true
}
