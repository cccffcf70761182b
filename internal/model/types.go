// Package model defines shared data structures.
package model

import (
	"fmt"
	"strings"
	"time"
)

// ExamStatus is the outcome state of an exam attempt.
type ExamStatus string

// Exam statuses.
const (
	StatusCompleted  ExamStatus = "completed"
	StatusInProgress ExamStatus = "in-progress"
	StatusFailed     ExamStatus = "failed"
)

// ParseExamStatus normalizes a status string.
func ParseExamStatus(s string) (ExamStatus, error) {
	switch ExamStatus(strings.ToLower(strings.TrimSpace(s))) {
	case StatusCompleted:
		return StatusCompleted, nil
	case StatusInProgress:
		return StatusInProgress, nil
	case StatusFailed:
		return StatusFailed, nil
	}
	return "", fmt.Errorf("unknown exam status %q (want completed, in-progress or failed)", s)
}

// ExamRecord is one finished or attempted exam. Records are never mutated
// after creation.
type ExamRecord struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	CompletedAt   time.Time  `json:"date"`
	Score         float64    `json:"score"`
	MaxScore      float64    `json:"maxScore"`
	TimeSpent     int        `json:"timeSpent"`
	QuestionCount int        `json:"questionCount"`
	Status        ExamStatus `json:"status"`
}

// Validate checks field ranges for records entering through the CLI.
func (r ExamRecord) Validate() error {
	if strings.TrimSpace(r.ID) == "" {
		return fmt.Errorf("exam id must not be empty")
	}
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("exam name must not be empty")
	}
	if r.Score < 0 || r.Score > 100 {
		return fmt.Errorf("score must be between 0 and 100")
	}
	if r.TimeSpent < 0 {
		return fmt.Errorf("time spent must be >= 0")
	}
	if r.QuestionCount < 0 {
		return fmt.Errorf("question count must be >= 0")
	}
	if _, err := ParseExamStatus(string(r.Status)); err != nil {
		return err
	}
	return nil
}

// StatsTrend carries the display trend values stored with the snapshot.
type StatsTrend struct {
	Score  float64 `json:"score"`
	Exams  int     `json:"exams"`
	Streak int     `json:"streak"`
}

// UserStats is the aggregate derived from the exam history.
// StudyStreak is a stored counter and is not recomputed from records.
type UserStats struct {
	TotalExams     int        `json:"totalExams"`
	AverageScore   float64    `json:"averageScore"`
	StudyStreak    int        `json:"studyStreak"`
	TotalQuestions int        `json:"totalQuestions"`
	TotalStudyTime int        `json:"totalStudyTime"`
	LastExamDate   *time.Time `json:"lastExamDate,omitempty"`
	Trend          StatsTrend `json:"trend"`
}

// DateRange selects the window of history shown to the user.
type DateRange string

// Supported date ranges.
const (
	RangeWeek  DateRange = "week"
	RangeMonth DateRange = "month"
	RangeAll   DateRange = "all"
)

// Label returns a human readable name for the range.
func (r DateRange) Label() string {
	switch r {
	case RangeWeek:
		return "Last 7 days"
	case RangeMonth:
		return "Last 30 days"
	case RangeAll:
		return "All time"
	}
	return string(r)
}

// PeriodStats summarizes one comparison window.
type PeriodStats struct {
	ExamCount    int     `json:"exams"`
	AverageScore float64 `json:"avgScore"`
}

// PeriodChange is this period minus the previous one.
type PeriodChange struct {
	Exams int     `json:"exams"`
	Score float64 `json:"score"`
}

// ComparisonResult compares the current week with the week before it.
type ComparisonResult struct {
	ThisPeriod PeriodStats  `json:"thisWeek"`
	LastPeriod PeriodStats  `json:"lastWeek"`
	Change     PeriodChange `json:"change"`
}

// Config defines dashboard settings after flags, environment and file are merged.
type Config struct {
	RefreshInterval time.Duration
	Range           DateRange
	Retention       int
	RecentLimit     int
	DBPath          string
}
