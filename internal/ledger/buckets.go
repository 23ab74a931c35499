package ledger

import (
	"time"

	"github.com/citymood/citymood-cli/internal/model"
)

// WeekStart truncates a date to its ISO week start (Monday).
func WeekStart(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return t.AddDate(0, 0, -offset)
}

// MonthStart truncates a date to the first of its month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// Buckets derives the week_start and month_start strings for an ISO date.
func Buckets(date string) (weekStart, monthStart string, err error) {
	t, err := model.ParseDate(date)
	if err != nil {
		return "", "", err
	}
	return WeekStart(t).Format(model.ISODate), MonthStart(t).Format(model.ISODate), nil
}
