package util

import (
	"fmt"
	"time"
)

const layout = "2006-01-02"

var acceptedLayouts = []string{
	layout,
	"20060102",
	"2006-01-02 15:04:05",
	"2006/01/02",
	time.RFC3339,
}

func NewDate(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

func DateLte(t1, t2 time.Time) bool {
	return t1.Before(t2) || t1.Format(layout) == t2.Format(layout)
}

// DateKey is the canonical map key for a trading day
func DateKey(t time.Time) string {
	return t.Format(layout)
}

// TruncateDate drops the clock and zone so that dates from different
// sources compare equal
func TruncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate accepts the handful of layouts the upstream csv exports use
func ParseDate(s string) (time.Time, error) {
	for _, l := range acceptedLayouts {
		t, err := time.Parse(l, s)
		if err == nil {
			return TruncateDate(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("could not parse date %q", s)
}
