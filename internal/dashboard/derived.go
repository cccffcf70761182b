package dashboard

import (
	"math"
	"slices"
	"time"

	"github.com/verte-zerg/exampulse/internal/model"
)

// HeatMapDays is the number of days shown by the study calendar.
const HeatMapDays = 30

// HeatCell is one day of the study calendar.
type HeatCell struct {
	Date      time.Time
	Score     float64
	Questions int
	Intensity int
}

// CalendarHeatMap lays daily progress onto the last n days, oldest first.
// Days without progress get a zero cell.
func CalendarHeatMap(daily []model.DailyProgress, now time.Time, n int) []HeatCell {
	if n <= 0 {
		return nil
	}
	byDay := make(map[time.Time]model.DailyProgress, len(daily))
	for _, d := range daily {
		byDay[dayStart(d.Date.In(now.Location()))] = d
	}
	cells := make([]HeatCell, 0, n)
	today := dayStart(now)
	for i := n - 1; i >= 0; i-- {
		day := today.AddDate(0, 0, -i)
		cell := HeatCell{Date: day}
		if d, ok := byDay[day]; ok {
			cell.Score = d.Score
			cell.Questions = d.QuestionsAttempted
		}
		cell.Intensity = Intensity(cell.Score)
		cells = append(cells, cell)
	}
	return cells
}

// Intensity buckets a score into 0-4 for the calendar.
func Intensity(score float64) int {
	switch {
	case score == 0:
		return 0
	case score < 50:
		return 1
	case score < 70:
		return 2
	case score < 85:
		return 3
	}
	return 4
}

// GoalStatus is the derived state of the current goal.
type GoalStatus struct {
	Goal     model.Goal
	Percent  float64
	DaysLeft int
}

// GoalProgress reports completion percent and whole days until the deadline.
func GoalProgress(goal model.Goal, now time.Time) GoalStatus {
	status := GoalStatus{Goal: goal}
	if goal.TargetValue != 0 {
		status.Percent = goal.Current / goal.TargetValue * 100
	}
	status.DaysLeft = int(math.Ceil(goal.Deadline.Sub(now).Hours() / 24))
	return status
}

// AchievementSummary counts unlocked achievements.
func AchievementSummary(achievements []model.Achievement) (unlocked, total int) {
	for _, a := range achievements {
		if a.Unlocked {
			unlocked++
		}
	}
	return unlocked, len(achievements)
}

// SortedDomains returns domains ordered by accuracy, highest first.
func SortedDomains(domains []model.DomainStat) []model.DomainStat {
	out := slices.Clone(domains)
	slices.SortStableFunc(out, func(a, b model.DomainStat) int {
		switch {
		case a.Accuracy > b.Accuracy:
			return -1
		case a.Accuracy < b.Accuracy:
			return 1
		}
		return 0
	})
	return out
}
