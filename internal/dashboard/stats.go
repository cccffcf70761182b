package dashboard

import (
	"time"

	"github.com/verte-zerg/exampulse/internal/model"
)

// RecomputeStats derives user stats from the full history, newest first.
// StudyStreak and Trend are left zero; they are stored values, not derived ones.
func RecomputeStats(records []model.ExamRecord) model.UserStats {
	var stats model.UserStats
	if len(records) == 0 {
		return stats
	}
	var totalScore float64
	for _, r := range records {
		totalScore += r.Score
		stats.TotalQuestions += r.QuestionCount
		stats.TotalStudyTime += r.TimeSpent
	}
	stats.TotalExams = len(records)
	stats.AverageScore = totalScore / float64(len(records))
	last := records[0].CompletedAt
	stats.LastExamDate = &last
	return stats
}

// DerivedStreak counts consecutive local calendar days with at least one
// exam, ending today or yesterday. It is computed for display next to the
// stored StudyStreak and never written back into it.
func DerivedStreak(records []model.ExamRecord, now time.Time) int {
	if len(records) == 0 {
		return 0
	}
	days := make(map[time.Time]struct{}, len(records))
	for _, r := range records {
		days[dayStart(r.CompletedAt.In(now.Location()))] = struct{}{}
	}
	day := dayStart(now)
	if _, ok := days[day]; !ok {
		day = day.AddDate(0, 0, -1)
		if _, ok := days[day]; !ok {
			return 0
		}
	}
	streak := 0
	for {
		if _, ok := days[day]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

func dayStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
