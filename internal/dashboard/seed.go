package dashboard

import (
	"time"

	"github.com/verte-zerg/exampulse/internal/model"
)

const day = 24 * time.Hour

// SeedSnapshot builds the starter dashboard shown before any exam is recorded.
func SeedSnapshot(now time.Time) model.DashboardSnapshot {
	at := func(d time.Duration) time.Time { return now.Add(-d) }
	ptr := func(t time.Time) *time.Time { return &t }

	recent := []model.ExamRecord{
		{ID: "seed-1", Name: "JavaScript Fundamentals", CompletedAt: at(2 * time.Hour), Score: 85, MaxScore: 100, TimeSpent: 45, QuestionCount: 20, Status: model.StatusCompleted},
		{ID: "seed-2", Name: "React Advanced Concepts", CompletedAt: at(day), Score: 72, MaxScore: 100, TimeSpent: 60, QuestionCount: 30, Status: model.StatusCompleted},
		{ID: "seed-3", Name: "Database Design", CompletedAt: at(2 * day), Score: 90, MaxScore: 100, TimeSpent: 50, QuestionCount: 25, Status: model.StatusCompleted},
		{ID: "seed-4", Name: "System Architecture", CompletedAt: at(3 * day), Score: 68, MaxScore: 100, TimeSpent: 55, QuestionCount: 20, Status: model.StatusCompleted},
		{ID: "seed-5", Name: "API Development", CompletedAt: at(4 * day), Score: 82, MaxScore: 100, TimeSpent: 40, QuestionCount: 15, Status: model.StatusCompleted},
	}

	daily := make([]model.DailyProgress, 0, 7)
	for i, p := range []struct {
		score     float64
		questions int
	}{{72, 15}, {75, 20}, {78, 18}, {82, 22}, {80, 25}, {85, 20}, {88, 16}} {
		daily = append(daily, model.DailyProgress{
			Date:               at(time.Duration(6-i) * day),
			Score:              p.score,
			QuestionsAttempted: p.questions,
		})
	}

	return model.DashboardSnapshot{
		UserStats: model.UserStats{
			TotalExams:     24,
			AverageScore:   78.5,
			StudyStreak:    7,
			TotalQuestions: 480,
			TotalStudyTime: 720,
			LastExamDate:   ptr(at(2 * time.Hour)),
			Trend:          model.StatsTrend{Score: 5.2, Exams: 2, Streak: 3},
		},
		RecentExams: recent,
		DomainPerformance: []model.DomainStat{
			{Domain: "JavaScript Basics", Accuracy: 92, QuestionsAnswered: 85, TotalQuestions: 92, AverageTime: 45},
			{Domain: "React Components", Accuracy: 78, QuestionsAnswered: 62, TotalQuestions: 79, AverageTime: 60},
			{Domain: "State Management", Accuracy: 85, QuestionsAnswered: 45, TotalQuestions: 53, AverageTime: 50},
			{Domain: "Database Design", Accuracy: 88, QuestionsAnswered: 67, TotalQuestions: 76, AverageTime: 55},
			{Domain: "API Development", Accuracy: 75, QuestionsAnswered: 48, TotalQuestions: 64, AverageTime: 42},
			{Domain: "System Architecture", Accuracy: 65, QuestionsAnswered: 39, TotalQuestions: 60, AverageTime: 70},
			{Domain: "Security", Accuracy: 58, QuestionsAnswered: 29, TotalQuestions: 50, AverageTime: 65},
		},
		StudyAnalytics: model.StudyAnalytics{
			DailyProgress: daily,
			WeeklyStudyTime: []model.WeeklyHours{
				{Day: "Mon", Hours: 1.5},
				{Day: "Tue", Hours: 2.0},
				{Day: "Wed", Hours: 1.2},
				{Day: "Thu", Hours: 2.5},
				{Day: "Fri", Hours: 1.8},
				{Day: "Sat", Hours: 3.0},
				{Day: "Sun", Hours: 2.2},
			},
			PeakHours: []model.HourActivity{
				{Hour: "6 AM", Activity: 5},
				{Hour: "9 AM", Activity: 15},
				{Hour: "12 PM", Activity: 8},
				{Hour: "3 PM", Activity: 12},
				{Hour: "6 PM", Activity: 25},
				{Hour: "9 PM", Activity: 30},
				{Hour: "12 AM", Activity: 10},
			},
		},
		WeakAreas: []model.WeakArea{
			{Domain: "Security", Accuracy: 58, QuestionsAttempted: 29, Recommendation: "Focus on authentication and encryption concepts", Priority: "high"},
			{Domain: "System Architecture", Accuracy: 65, QuestionsAttempted: 39, Recommendation: "Review microservices and scaling patterns", Priority: "medium"},
			{Domain: "API Development", Accuracy: 75, QuestionsAttempted: 48, Recommendation: "Practice RESTful design principles", Priority: "low"},
		},
		Achievements: []model.Achievement{
			{ID: 1, Name: "First Steps", Description: "Complete your first exam", Icon: "🎯", Unlocked: true, UnlockedDate: ptr(at(30 * day))},
			{ID: 2, Name: "Week Warrior", Description: "Maintain a 7-day study streak", Icon: "🔥", Unlocked: true, UnlockedDate: ptr(at(day))},
			{ID: 3, Name: "Perfect Score", Description: "Score 100% on any exam", Icon: "💯", Progress: 90},
			{ID: 4, Name: "Speed Demon", Description: "Complete an exam in under 30 minutes", Icon: "⚡", Unlocked: true, UnlockedDate: ptr(at(5 * day))},
			{ID: 5, Name: "Marathon Runner", Description: "Complete 50 exams", Icon: "🏃", Progress: 48},
			{ID: 6, Name: "Master Mind", Description: "Achieve 90%+ average across all domains", Icon: "🧠", Progress: 65},
		},
		Recommendations: []model.Recommendation{
			{Type: "practice", Title: "Security Fundamentals Quiz", Reason: "Based on your weak areas", EstimatedTime: 30},
			{Type: "review", Title: "Review System Architecture Notes", Reason: "Low accuracy in recent exam", EstimatedTime: 20},
		},
		Goals: model.Goals{
			Current: &model.Goal{
				Target:      "Reach 85% average score",
				Current:     78.5,
				TargetValue: 85,
				Deadline:    now.Add(14 * day),
			},
			Milestones: []model.Milestone{
				{Name: "10 Exams", Completed: true},
				{Name: "20 Exams", Completed: true},
				{Name: "50 Exams", Progress: 48},
				{Name: "100 Exams", Progress: 24},
			},
		},
	}
}
