package enums

import (
	"fmt"
	"strings"
)

// ReportPeriod is the period keyword picked by the caller.
type ReportPeriod string

const (
	ReportPeriodToday     ReportPeriod = "today"
	ReportPeriodYesterday ReportPeriod = "yesterday"
	ReportPeriodTomorrow  ReportPeriod = "tomorrow"
	ReportPeriodMonthly   ReportPeriod = "monthly"
)

var validReportPeriods = []ReportPeriod{
	ReportPeriodToday,
	ReportPeriodYesterday,
	ReportPeriodTomorrow,
	ReportPeriodMonthly,
}

// String implements fmt.Stringer.
func (p ReportPeriod) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ReportPeriod.
func (p ReportPeriod) IsValid() bool {
	for _, candidate := range validReportPeriods {
		if candidate == p {
			return true
		}
	}
	return false
}

// DayOffset is the shift from the current day for single-day periods.
func (p ReportPeriod) DayOffset() (int, bool) {
	switch p {
	case ReportPeriodToday:
		return 0, true
	case ReportPeriodYesterday:
		return -1, true
	case ReportPeriodTomorrow:
		return 1, true
	}
	return 0, false
}

// ParseReportPeriod accepts keywords case-insensitively; empty input means today.
func ParseReportPeriod(value string) (ReportPeriod, error) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return ReportPeriodToday, nil
	}
	for _, candidate := range validReportPeriods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid report period %q", value)
}
