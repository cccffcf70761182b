// Package dashboard aggregates exam history into dashboard statistics.
package dashboard

import (
	"slices"

	"github.com/verte-zerg/exampulse/internal/model"
)

// DefaultRetention is the number of exam records kept in history.
const DefaultRetention = 50

// History is the newest-first exam record list, capped at a retention count.
type History struct {
	records   []model.ExamRecord
	retention int
}

// NewHistory builds a history from records ordered newest first.
// Records beyond the retention cap are dropped from the tail.
func NewHistory(records []model.ExamRecord, retention int) *History {
	if retention <= 0 {
		retention = DefaultRetention
	}
	h := &History{retention: retention}
	h.records = slices.Clone(records)
	h.trim()
	return h
}

// Append inserts a record at the front and drops the oldest records over the cap.
func (h *History) Append(record model.ExamRecord) {
	h.records = slices.Insert(h.records, 0, record)
	h.trim()
}

// Records returns a copy of the history, newest first.
func (h *History) Records() []model.ExamRecord {
	return slices.Clone(h.records)
}

// Len returns the number of stored records.
func (h *History) Len() int {
	return len(h.records)
}

// Retention returns the history cap.
func (h *History) Retention() int {
	return h.retention
}

func (h *History) trim() {
	if len(h.records) > h.retention {
		clear(h.records[h.retention:])
		h.records = h.records[:h.retention]
	}
}
