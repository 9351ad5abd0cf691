package domain

import (
	"strings"
	"time"
)

// FieldNotSet marks optional string fields that carry no value yet.
const FieldNotSet = "Not Set"

type DateTimeFormat string

const (
	DayMonthYear     DateTimeFormat = "DD/MM/YYYY"
	DayMonthYearTime DateTimeFormat = "DD/MM/YYYY-HH:MM:SS"
	MonthDayYear     DateTimeFormat = "MM/DD/YYYY"
	MonthDayYearTime DateTimeFormat = "MM/DD/YYYY-HH:MM:SS"
	YearMonthDay     DateTimeFormat = "YYYY/MM/DD"
	YearMonthDayTime DateTimeFormat = "YYYY/MM/DD-HH:MM:SS"
)

var allDateTimeFormats = []DateTimeFormat{
	DayMonthYear, DayMonthYearTime,
	MonthDayYear, MonthDayYearTime,
	YearMonthDay, YearMonthDayTime,
}

var dateTimeLayouts = map[DateTimeFormat]string{
	DayMonthYear:     "02/01/2006",
	DayMonthYearTime: "02/01/2006-15:04:05",
	MonthDayYear:     "01/02/2006",
	MonthDayYearTime: "01/02/2006-15:04:05",
	YearMonthDay:     "2006/01/02",
	YearMonthDayTime: "2006/01/02-15:04:05",
}

// AllDateTimeFormats returns the selectable formats in display order.
func AllDateTimeFormats() []DateTimeFormat {
	out := make([]DateTimeFormat, len(allDateTimeFormats))
	copy(out, allDateTimeFormats)
	return out
}

func (f DateTimeFormat) Valid() bool {
	_, ok := dateTimeLayouts[f]
	return ok
}

// Layout returns the Go time layout for the format.
func (f DateTimeFormat) Layout() string {
	if layout, ok := dateTimeLayouts[f]; ok {
		return layout
	}
	return dateTimeLayouts[DayMonthYearTime]
}

func (f DateTimeFormat) HasTime() bool {
	return strings.Contains(string(f), "HH")
}

// ParseDueDate parses a user-entered due date. The configured format is
// tried first, then every other known format, then a couple of lenient
// dash-separated fallbacks. The boolean reports whether parsing succeeded.
func ParseDueDate(raw string, preferred DateTimeFormat) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == FieldNotSet {
		return time.Time{}, false
	}

	layouts := make([]string, 0, len(allDateTimeFormats)+2)
	layouts = append(layouts, preferred.Layout())
	for _, f := range allDateTimeFormats {
		if f != preferred {
			layouts = append(layouts, f.Layout())
		}
	}
	layouts = append(layouts, "02-01-2006", "02-01-2006-15:04:05")

	for _, layout := range layouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}

// FormatDueDate reformats a stored due date for display under the given
// format. Unparsable values are returned untouched.
func FormatDueDate(raw string, format DateTimeFormat) string {
	ts, ok := ParseDueDate(raw, format)
	if !ok {
		return raw
	}
	return ts.Format(format.Layout())
}
