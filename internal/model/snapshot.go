package model

import "time"

// DashboardSnapshot is the cached dashboard document kept by storage.
type DashboardSnapshot struct {
	UserStats         UserStats        `json:"userStats"`
	RecentExams       []ExamRecord     `json:"recentExams"`
	DomainPerformance []DomainStat     `json:"domainPerformance"`
	StudyAnalytics    StudyAnalytics   `json:"studyAnalytics"`
	WeakAreas         []WeakArea       `json:"weakAreas"`
	Achievements      []Achievement    `json:"achievements"`
	Recommendations   []Recommendation `json:"recommendations"`
	Goals             Goals            `json:"goals"`
}

// DomainStat is accuracy for one knowledge domain.
type DomainStat struct {
	Domain            string  `json:"domain"`
	Accuracy          float64 `json:"accuracy"`
	QuestionsAnswered int     `json:"questionsAnswered"`
	TotalQuestions    int     `json:"totalQuestions"`
	AverageTime       int     `json:"averageTime"`
}

// StudyAnalytics holds the series behind the dashboard charts.
type StudyAnalytics struct {
	DailyProgress   []DailyProgress `json:"dailyProgress"`
	WeeklyStudyTime []WeeklyHours   `json:"weeklyStudyTime"`
	PeakHours       []HourActivity  `json:"peakHours"`
}

// DailyProgress is a single day's score and question volume.
type DailyProgress struct {
	Date               time.Time `json:"date"`
	Score              float64   `json:"score"`
	QuestionsAttempted int       `json:"questionsAttempted"`
}

// WeeklyHours is study time for one weekday.
type WeeklyHours struct {
	Day   string  `json:"day"`
	Hours float64 `json:"hours"`
}

// HourActivity is relative activity at a time of day.
type HourActivity struct {
	Hour     string `json:"hour"`
	Activity int    `json:"activity"`
}

// WeakArea flags a low-accuracy domain with a study hint.
type WeakArea struct {
	Domain             string  `json:"domain"`
	Accuracy           float64 `json:"accuracy"`
	QuestionsAttempted int     `json:"questionsAttempted"`
	Recommendation     string  `json:"recommendation"`
	Priority           string  `json:"priority"`
}

// Achievement is an unlockable badge.
type Achievement struct {
	ID           int        `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	Icon         string     `json:"icon"`
	Unlocked     bool       `json:"unlocked"`
	UnlockedDate *time.Time `json:"unlockedDate,omitempty"`
	Progress     int        `json:"progress,omitempty"`
}

// Recommendation suggests a next study activity.
type Recommendation struct {
	Type          string `json:"type"`
	Title         string `json:"title"`
	Reason        string `json:"reason"`
	EstimatedTime int    `json:"estimatedTime"`
}

// Goals holds the active goal and milestone list.
type Goals struct {
	Current    *Goal       `json:"current,omitempty"`
	Milestones []Milestone `json:"milestones"`
}

// Goal is a target value with a deadline.
type Goal struct {
	Target      string    `json:"target"`
	Current     float64   `json:"current"`
	TargetValue float64   `json:"target_value"`
	Deadline    time.Time `json:"deadline"`
}

// Milestone is a step toward a long-running goal.
type Milestone struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
	Progress  int    `json:"progress,omitempty"`
}
