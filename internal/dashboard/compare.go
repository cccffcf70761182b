package dashboard

import (
	"time"

	"github.com/verte-zerg/exampulse/internal/model"
)

const comparisonPeriod = 7 * 24 * time.Hour

// Trend is the direction of a period-over-period change.
type Trend int

// Trend directions.
const (
	TrendFlat Trend = iota
	TrendUp
	TrendDown
)

// TrendOf maps the sign of a delta to a trend direction.
func TrendOf(delta float64) Trend {
	switch {
	case delta > 0:
		return TrendUp
	case delta < 0:
		return TrendDown
	}
	return TrendFlat
}

// Arrow renders the trend as a single glyph.
func (t Trend) Arrow() string {
	switch t {
	case TrendUp:
		return "▲"
	case TrendDown:
		return "▼"
	}
	return "▶"
}

// ComputeComparison compares the last seven days with the seven before them.
// It reports false when there are no records to compare.
func ComputeComparison(records []model.ExamRecord, now time.Time) (model.ComparisonResult, bool) {
	if len(records) == 0 {
		return model.ComparisonResult{}, false
	}
	weekAgo := now.Add(-comparisonPeriod)
	twoWeeksAgo := now.Add(-2 * comparisonPeriod)

	var this, last periodAccumulator
	for _, r := range records {
		at := r.CompletedAt
		switch {
		case !at.Before(weekAgo) && !at.After(now):
			this.add(r.Score)
		case !at.Before(twoWeeksAgo) && at.Before(weekAgo):
			last.add(r.Score)
		}
	}
	thisStats := this.stats()
	lastStats := last.stats()
	return model.ComparisonResult{
		ThisPeriod: thisStats,
		LastPeriod: lastStats,
		Change: model.PeriodChange{
			Exams: thisStats.ExamCount - lastStats.ExamCount,
			Score: thisStats.AverageScore - lastStats.AverageScore,
		},
	}, true
}

type periodAccumulator struct {
	count int
	sum   float64
}

func (p *periodAccumulator) add(score float64) {
	p.count++
	p.sum += score
}

func (p periodAccumulator) stats() model.PeriodStats {
	if p.count == 0 {
		return model.PeriodStats{}
	}
	return model.PeriodStats{ExamCount: p.count, AverageScore: p.sum / float64(p.count)}
}
