package models

import (
	"fmt"
	"time"
)

// YearMonth is a calendar month, used as the override applied to plan dates
// and as the target month of daily expansion.
type YearMonth struct {
	Year  int        `json:"year" yaml:"year" validate:"min=1900,max=9999"`
	Month time.Month `json:"month" yaml:"month" validate:"min=1,max=12"`
}

// Days returns the number of days in the month.
func (ym YearMonth) Days() int {
	return time.Date(ym.Year, ym.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// Day returns day d of the month; ok is false when the day does not exist.
func (ym YearMonth) Day(d int) (Date, bool) {
	date := Date{Year: ym.Year, Month: ym.Month, Day: d}
	return date, date.IsValid()
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// MonthOf returns the month containing d.
func MonthOf(d Date) YearMonth {
	return YearMonth{Year: d.Year, Month: d.Month}
}
