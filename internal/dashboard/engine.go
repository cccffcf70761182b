package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/verte-zerg/exampulse/internal/model"
	"github.com/verte-zerg/exampulse/internal/store"
)

// DefaultRecentLimit is the number of exams kept in the snapshot's recent list.
const DefaultRecentLimit = 5

// Storage persists the dashboard snapshot and the exam history.
// Missing data is reported as store.ErrNotFound and undecodable data as
// store.ErrCorrupt; both are treated as "nothing stored".
type Storage interface {
	LoadDashboardSnapshot(ctx context.Context) (model.DashboardSnapshot, error)
	SaveDashboardSnapshot(ctx context.Context, snap model.DashboardSnapshot) error
	LoadHistory(ctx context.Context) ([]model.ExamRecord, error)
	SaveHistory(ctx context.Context, records []model.ExamRecord) error
	ClearAll(ctx context.Context) error
}

// Options configures an Engine.
type Options struct {
	Retention   int
	RecentLimit int
	Now         func() time.Time
}

// Engine owns the exam history and the statistics derived from it.
type Engine struct {
	storage     Storage
	retention   int
	recentLimit int
	now         func() time.Time

	// opMu serializes operations that read from or write to storage.
	opMu sync.Mutex

	mu        sync.RWMutex
	loaded    bool
	history   *History
	snapshot  model.DashboardSnapshot
	fetchedAt time.Time
}

// NewEngine constructs an engine over the given storage.
func NewEngine(storage Storage, opts Options) *Engine {
	if opts.Retention <= 0 {
		opts.Retention = DefaultRetention
	}
	if opts.RecentLimit <= 0 {
		opts.RecentLimit = DefaultRecentLimit
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Engine{
		storage:     storage,
		retention:   opts.Retention,
		recentLimit: opts.RecentLimit,
		now:         opts.Now,
		history:     NewHistory(nil, opts.Retention),
	}
}

// Refresh reloads the snapshot and history from storage. On a storage
// failure the previously loaded state is kept and the error returned.
func (e *Engine) Refresh(ctx context.Context) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()
	return e.refreshLocked(ctx)
}

func (e *Engine) refreshLocked(ctx context.Context) error {
	now := e.now()
	snap, err := e.storage.LoadDashboardSnapshot(ctx)
	seeded := false
	if err != nil {
		if !isNoData(err) {
			return fmt.Errorf("load dashboard: %w", err)
		}
		if errors.Is(err, store.ErrCorrupt) {
			log.Printf("reseeding dashboard: %v", err)
		}
		snap = SeedSnapshot(now)
		seeded = true
	}

	records, err := e.storage.LoadHistory(ctx)
	if err != nil {
		if !isNoData(err) {
			return fmt.Errorf("load exam history: %w", err)
		}
		log.Printf("ignoring stored exam history: %v", err)
		records = nil
	}

	if seeded {
		if err := e.storage.SaveDashboardSnapshot(ctx, snap); err != nil {
			log.Printf("failed to save seeded dashboard: %v", err)
		}
	}

	history := NewHistory(records, e.retention)
	if history.Len() > 0 {
		applyHistory(&snap, history.Records(), e.recentLimit)
	}

	e.mu.Lock()
	e.history = history
	e.snapshot = snap
	e.fetchedAt = now
	e.loaded = true
	e.mu.Unlock()
	return nil
}

// SubmitExamResult records a freshly finished exam, recomputes statistics
// and persists the history and snapshot. When the history cannot be saved
// the engine state is left unchanged.
func (e *Engine) SubmitExamResult(ctx context.Context, record model.ExamRecord) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()

	if !e.isLoaded() {
		if err := e.refreshLocked(ctx); err != nil {
			return err
		}
	}

	e.mu.RLock()
	history := NewHistory(e.history.Records(), e.retention)
	snap := cloneSnapshot(e.snapshot)
	e.mu.RUnlock()

	history.Append(record)
	records := history.Records()
	applyHistory(&snap, records, e.recentLimit)

	// memory is updated only after the history is saved
	if err := e.storage.SaveHistory(ctx, records); err != nil {
		return fmt.Errorf("save exam history: %w", err)
	}

	e.mu.Lock()
	e.history = history
	e.snapshot = snap
	e.mu.Unlock()

	if err := e.storage.SaveDashboardSnapshot(ctx, cloneSnapshot(snap)); err != nil {
		return fmt.Errorf("save dashboard: %w", err)
	}
	return nil
}

// Clear removes all stored data and reseeds the dashboard.
func (e *Engine) Clear(ctx context.Context) error {
	e.opMu.Lock()
	defer e.opMu.Unlock()
	if err := e.storage.ClearAll(ctx); err != nil {
		return fmt.Errorf("clear storage: %w", err)
	}
	return e.refreshLocked(ctx)
}

// Records returns a copy of the exam history, newest first.
func (e *Engine) Records() []model.ExamRecord {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.history.Records()
}

// Snapshot returns a copy of the current dashboard snapshot.
func (e *Engine) Snapshot() model.DashboardSnapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return cloneSnapshot(e.snapshot)
}

// Stats returns the current user stats.
func (e *Engine) Stats() model.UserStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot.UserStats
}

// FetchedAt returns the time of the last successful refresh.
func (e *Engine) FetchedAt() time.Time {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.fetchedAt
}

// View is the derived, read-only data handed to the presentation layer.
type View struct {
	Range         model.DateRange
	Snapshot      model.DashboardSnapshot
	Exams         []model.ExamRecord
	Comparison    model.ComparisonResult
	HasComparison bool
	DerivedStreak int
	Domains       []model.DomainStat
	HeatMap       []HeatCell
	Goal          *GoalStatus
	Unlocked      int
	Achievements  int
	FetchedAt     time.Time
	Err           error
}

// View derives the presentation data for a date range.
// Until an exam is recorded the seeded recent exams stand in for history.
func (e *Engine) View(r model.DateRange, now time.Time) View {
	e.mu.RLock()
	snap := cloneSnapshot(e.snapshot)
	records := e.history.Records()
	fetchedAt := e.fetchedAt
	e.mu.RUnlock()

	if len(records) == 0 {
		records = slices.Clone(snap.RecentExams)
	}
	v := View{
		Range:         r,
		Snapshot:      snap,
		Exams:         FilterByRange(records, r, now),
		DerivedStreak: DerivedStreak(records, now),
		Domains:       SortedDomains(snap.DomainPerformance),
		HeatMap:       CalendarHeatMap(snap.StudyAnalytics.DailyProgress, now, HeatMapDays),
		FetchedAt:     fetchedAt,
	}
	v.Comparison, v.HasComparison = ComputeComparison(records, now)
	if snap.Goals.Current != nil {
		status := GoalProgress(*snap.Goals.Current, now)
		v.Goal = &status
	}
	v.Unlocked, v.Achievements = AchievementSummary(snap.Achievements)
	return v
}

func (e *Engine) isLoaded() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.loaded
}

// applyHistory recomputes the snapshot stats from history, carrying the
// stored streak and trend forward.
func applyHistory(snap *model.DashboardSnapshot, records []model.ExamRecord, recentLimit int) {
	stats := RecomputeStats(records)
	stats.StudyStreak = snap.UserStats.StudyStreak
	stats.Trend = snap.UserStats.Trend
	snap.UserStats = stats
	if len(records) > recentLimit {
		records = records[:recentLimit]
	}
	snap.RecentExams = slices.Clone(records)
}

// cloneSnapshot copies every slice of the snapshot. Pointer fields are
// shared; they are replaced, never modified in place.
func cloneSnapshot(s model.DashboardSnapshot) model.DashboardSnapshot {
	s.RecentExams = slices.Clone(s.RecentExams)
	s.DomainPerformance = slices.Clone(s.DomainPerformance)
	s.StudyAnalytics.DailyProgress = slices.Clone(s.StudyAnalytics.DailyProgress)
	s.StudyAnalytics.WeeklyStudyTime = slices.Clone(s.StudyAnalytics.WeeklyStudyTime)
	s.StudyAnalytics.PeakHours = slices.Clone(s.StudyAnalytics.PeakHours)
	s.WeakAreas = slices.Clone(s.WeakAreas)
	s.Achievements = slices.Clone(s.Achievements)
	s.Recommendations = slices.Clone(s.Recommendations)
	s.Goals.Milestones = slices.Clone(s.Goals.Milestones)
	return s
}

func isNoData(err error) bool {
	return errors.Is(err, store.ErrNotFound) || errors.Is(err, store.ErrCorrupt)
}
