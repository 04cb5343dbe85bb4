package calendar

import (
	"fmt"
	"strings"
	"time"
)

// Date is a Neoteran calendar date.
type Date struct {
	Day       int    // 1-based day of month
	MonthCode string // e.g. "07C" or "09S"
	Year      int
	Era       Era
}

// Format renders a date as "DD|MonthCode|YYYY ERA".
func Format(day int, monthCode string, year int, era Era) string {
	return fmt.Sprintf("%02d|%s|%04d %s", day, monthCode, year, era)
}

func (d Date) String() string {
	return Format(d.Day, d.MonthCode, d.Year, d.Era)
}

// IsIntercalary reports whether the date falls in an inserted month.
func (d Date) IsIntercalary() bool {
	return strings.HasSuffix(d.MonthCode, "S")
}

// Accepted input layouts, all interpreted as UTC.
var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseInstant parses a civil date/time. Values without a zone are UTC.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date/time %q: use YYYY-MM-DD or YYYY-MM-DDTHH:MM", s)
}

// ParseDateString parses a date string in YYYY-MM-DD format
func ParseDateString(dateStr string) (time.Time, error) {
	return time.Parse("2006-01-02", dateStr)
}

// FormatDate formats a date as YYYY-MM-DD
func FormatDate(date time.Time) string {
	return date.Format("2006-01-02")
}

func formatInstant(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
