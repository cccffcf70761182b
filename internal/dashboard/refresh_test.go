package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/verte-zerg/exampulse/internal/model"
)

const waitTimeout = 2 * time.Second

func waitView(t *testing.T, views <-chan View) View {
	t.Helper()
	select {
	case v := <-views:
		return v
	case <-time.After(waitTimeout):
		t.Fatalf("timed out waiting for view")
	}
	return View{}
}

func waitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(waitTimeout):
		t.Fatalf("timed out waiting for refresh to start")
	}
}

func (c *Coordinator) isStopped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stopped
}

func TestCoordinatorPublishesInitialView(t *testing.T) {
	st := &fakeStorage{history: []model.ExamRecord{exam("a", 80, time.Hour)}}
	views := make(chan View, 4)
	c := NewCoordinator(newTestEngine(st), time.Hour, model.RangeWeek, func(v View) { views <- v })
	c.Start(context.Background())
	defer c.Stop()

	v := waitView(t, views)
	if v.Err != nil {
		t.Fatalf("unexpected error %v", v.Err)
	}
	if v.Range != model.RangeWeek || len(v.Exams) != 1 {
		t.Fatalf("unexpected view %+v", v)
	}
	if !v.FetchedAt.Equal(testNow) {
		t.Fatalf("expected fetch time %v, got %v", testNow, v.FetchedAt)
	}
}

func TestCoordinatorCoalescesTriggers(t *testing.T) {
	st := &fakeStorage{block: make(chan struct{}), started: make(chan struct{}, 1)}
	views := make(chan View, 8)
	c := NewCoordinator(newTestEngine(st), time.Hour, model.RangeWeek, func(v View) { views <- v })
	c.Start(context.Background())
	defer func() {
		close(st.block)
		c.Stop()
	}()

	waitSignal(t, st.started)
	for i := 0; i < 5; i++ {
		c.Trigger()
	}
	st.block <- struct{}{}
	waitView(t, views)

	waitSignal(t, st.started)
	st.block <- struct{}{}
	waitView(t, views)

	select {
	case <-st.started:
		t.Fatalf("expected triggers to collapse into a single follow-up refresh")
	case <-time.After(100 * time.Millisecond):
	}
	if got := st.loadCount(); got != 2 {
		t.Fatalf("expected 2 refreshes, got %d", got)
	}
}

func TestCoordinatorSetRangeRepublishesWithoutFetching(t *testing.T) {
	st := &fakeStorage{history: []model.ExamRecord{
		exam("a", 80, time.Hour),
		exam("b", 60, 20*24*time.Hour),
	}}
	views := make(chan View, 4)
	c := NewCoordinator(newTestEngine(st), time.Hour, model.RangeWeek, func(v View) { views <- v })
	c.Start(context.Background())
	defer c.Stop()

	if v := waitView(t, views); len(v.Exams) != 1 {
		t.Fatalf("expected 1 exam in week view, got %d", len(v.Exams))
	}
	c.SetRange(model.RangeAll)
	v := waitView(t, views)
	if v.Range != model.RangeAll || len(v.Exams) != 2 {
		t.Fatalf("unexpected all-time view: range %s, %d exams", v.Range, len(v.Exams))
	}
	if c.Range() != model.RangeAll {
		t.Fatalf("expected coordinator range to be all")
	}
	if got := st.loadCount(); got != 1 {
		t.Fatalf("expected no extra fetch on range change, got %d loads", got)
	}
}

func TestCoordinatorSetRangeDoesNotWaitForPublisher(t *testing.T) {
	st := &fakeStorage{history: []model.ExamRecord{exam("a", 80, time.Hour)}}
	views := make(chan View)
	c := NewCoordinator(newTestEngine(st), time.Hour, model.RangeWeek, func(v View) { views <- v })
	c.Start(context.Background())
	defer func() {
		go func() {
			for range views {
			}
		}()
		c.Stop()
		close(views)
	}()

	waitView(t, views)

	// nothing reads views while SetRange runs
	returned := make(chan struct{})
	go func() {
		c.SetRange(model.RangeMonth)
		c.SetRange(model.RangeWeek)
		c.SetRange(model.RangeAll)
		close(returned)
	}()
	select {
	case <-returned:
	case <-time.After(waitTimeout):
		t.Fatalf("SetRange blocked on the publisher")
	}

	for i := 0; ; i++ {
		v := waitView(t, views)
		if v.Range == model.RangeAll {
			break
		}
		if i == 2 {
			t.Fatalf("expected a view for the latest range, last got %s", v.Range)
		}
	}
	if got := st.loadCount(); got != 1 {
		t.Fatalf("expected no fetch on range change, got %d loads", got)
	}
}

func TestCoordinatorReportsStorageFailure(t *testing.T) {
	boom := errors.New("storage offline")
	st := &fakeStorage{loadErr: boom}
	views := make(chan View, 4)
	c := NewCoordinator(newTestEngine(st), time.Hour, model.RangeWeek, func(v View) { views <- v })
	c.Start(context.Background())
	defer c.Stop()

	v := waitView(t, views)
	if !errors.Is(v.Err, boom) {
		t.Fatalf("expected storage error in view, got %v", v.Err)
	}

	st.mu.Lock()
	st.loadErr = nil
	st.mu.Unlock()
	c.Trigger()
	v = waitView(t, views)
	if v.Err != nil {
		t.Fatalf("expected manual retry to clear the error, got %v", v.Err)
	}
}

func TestCoordinatorPollsOnInterval(t *testing.T) {
	st := &fakeStorage{}
	views := make(chan View, 16)
	c := NewCoordinator(newTestEngine(st), 10*time.Millisecond, model.RangeWeek, func(v View) {
		select {
		case views <- v:
		default:
		}
	})
	c.Start(context.Background())
	defer c.Stop()

	for i := 0; i < 3; i++ {
		waitView(t, views)
	}
	if got := st.loadCount(); got < 3 {
		t.Fatalf("expected at least 3 refreshes, got %d", got)
	}
}

func TestCoordinatorStopDiscardsInFlightRefresh(t *testing.T) {
	st := &fakeStorage{block: make(chan struct{}), started: make(chan struct{}, 1)}
	views := make(chan View, 4)
	c := NewCoordinator(newTestEngine(st), time.Hour, model.RangeWeek, func(v View) { views <- v })
	c.Start(context.Background())

	waitSignal(t, st.started)
	stopped := make(chan struct{})
	go func() {
		c.Stop()
		close(stopped)
	}()
	deadline := time.Now().Add(waitTimeout)
	for !c.isStopped() {
		if time.Now().After(deadline) {
			t.Fatalf("coordinator never marked stopped")
		}
		time.Sleep(time.Millisecond)
	}
	close(st.block)

	select {
	case <-stopped:
	case <-time.After(waitTimeout):
		t.Fatalf("stop did not return")
	}
	c.SetRange(model.RangeAll)
	c.Trigger()

	select {
	case v := <-views:
		t.Fatalf("expected no view after stop, got %+v", v)
	case <-time.After(50 * time.Millisecond):
	}
	if got := st.loadCount(); got != 1 {
		t.Fatalf("expected no refresh after stop, got %d loads", got)
	}
}
