package dashboard

import (
	"context"
	"slices"
	"sync"

	"github.com/verte-zerg/exampulse/internal/model"
	"github.com/verte-zerg/exampulse/internal/store"
)

type fakeStorage struct {
	mu        sync.Mutex
	snapshot  *model.DashboardSnapshot
	history   []model.ExamRecord
	loadErr   error
	saveErr   error
	loads     int
	saves     int
	snapSaves int

	// block, when set, is received from at the start of every LoadHistory.
	block   chan struct{}
	started chan struct{}
}

func (f *fakeStorage) LoadDashboardSnapshot(context.Context) (model.DashboardSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return model.DashboardSnapshot{}, f.loadErr
	}
	if f.snapshot == nil {
		return model.DashboardSnapshot{}, store.ErrNotFound
	}
	return cloneSnapshot(*f.snapshot), nil
}

func (f *fakeStorage) SaveDashboardSnapshot(_ context.Context, snap model.DashboardSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	snap = cloneSnapshot(snap)
	f.snapshot = &snap
	f.snapSaves++
	return nil
}

func (f *fakeStorage) LoadHistory(context.Context) ([]model.ExamRecord, error) {
	f.mu.Lock()
	block := f.block
	started := f.started
	f.loads++
	f.mu.Unlock()

	if started != nil {
		select {
		case started <- struct{}{}:
		default:
		}
	}
	if block != nil {
		<-block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return slices.Clone(f.history), nil
}

func (f *fakeStorage) SaveHistory(_ context.Context, records []model.ExamRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.history = slices.Clone(records)
	f.saves++
	return nil
}

func (f *fakeStorage) ClearAll(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snapshot = nil
	f.history = nil
	return nil
}

func (f *fakeStorage) loadCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loads
}
