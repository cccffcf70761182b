package dashboard

import (
	"fmt"
	"strings"
	"time"

	"github.com/verte-zerg/exampulse/internal/model"
)

// ParseDateRange normalizes a date range name.
func ParseDateRange(s string) (model.DateRange, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "week", "7d", "last-7-days":
		return model.RangeWeek, nil
	case "month", "30d", "last-30-days":
		return model.RangeMonth, nil
	case "all", "all-time":
		return model.RangeAll, nil
	}
	return "", fmt.Errorf("unknown date range %q (want week, month or all)", s)
}

// RangeCutoff returns the earliest timestamp included by the range.
// Unknown ranges behave like a week.
func RangeCutoff(r model.DateRange, now time.Time) time.Time {
	switch r {
	case model.RangeMonth:
		return now.AddDate(0, -1, 0)
	case model.RangeAll:
		return time.Time{}
	default:
		return now.AddDate(0, 0, -7)
	}
}

// FilterByRange returns the records completed at or after the range cutoff,
// preserving order. The input slice is not modified.
func FilterByRange(records []model.ExamRecord, r model.DateRange, now time.Time) []model.ExamRecord {
	cutoff := RangeCutoff(r, now)
	out := make([]model.ExamRecord, 0, len(records))
	for _, rec := range records {
		if !rec.CompletedAt.Before(cutoff) {
			out = append(out, rec)
		}
	}
	return out
}
