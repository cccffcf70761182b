package dashboard

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/verte-zerg/exampulse/internal/model"
)

// DefaultRefreshInterval is the polling period of the coordinator.
const DefaultRefreshInterval = 30 * time.Second

// Publisher receives every view the coordinator produces.
type Publisher func(View)

// Coordinator refreshes the engine on a timer and on demand and publishes
// the resulting views. At most one refresh runs at a time; requests that
// arrive while one is running collapse into a single follow-up refresh.
type Coordinator struct {
	engine   *Engine
	interval time.Duration
	publish  Publisher
	now      func() time.Time

	trigger chan struct{}
	// rangeChanged asks the loop to republish with the current range.
	rangeChanged chan struct{}

	// publishMu orders view construction and delivery.
	publishMu sync.Mutex

	mu        sync.Mutex
	dateRange model.DateRange
	lastErr   error
	started   bool
	stopped   bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// NewCoordinator builds a coordinator. A non-positive interval uses the default.
func NewCoordinator(engine *Engine, interval time.Duration, r model.DateRange, publish Publisher) *Coordinator {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if r == "" {
		r = model.RangeWeek
	}
	return &Coordinator{
		engine:       engine,
		interval:     interval,
		publish:      publish,
		now:          engine.now,
		trigger:      make(chan struct{}, 1),
		rangeChanged: make(chan struct{}, 1),
		dateRange:    r,
	}
}

// Start performs an initial refresh and begins polling until Stop is called
// or ctx is cancelled. Calling Start more than once has no effect.
func (c *Coordinator) Start(ctx context.Context) {
	c.mu.Lock()
	if c.started || c.stopped {
		c.mu.Unlock()
		return
	}
	c.started = true
	ctx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.done = make(chan struct{})
	done := c.done
	c.mu.Unlock()

	go func() {
		defer close(done)
		c.run(ctx)
	}()
}

// Stop halts polling and waits for the loop to exit. A refresh in flight is
// allowed to finish; its view is discarded.
func (c *Coordinator) Stop() {
	c.mu.Lock()
	c.stopped = true
	cancel := c.cancel
	done := c.done
	c.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Trigger requests a refresh without blocking.
func (c *Coordinator) Trigger() {
	select {
	case c.trigger <- struct{}{}:
	default:
	}
}

// SetRange changes the date range and republishes without fetching. The
// view is published from the polling goroutine; SetRange never waits on the
// publisher.
func (c *Coordinator) SetRange(r model.DateRange) {
	c.mu.Lock()
	c.dateRange = r
	c.mu.Unlock()
	select {
	case c.rangeChanged <- struct{}{}:
	default:
	}
}

// Range returns the current date range.
func (c *Coordinator) Range() model.DateRange {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dateRange
}

func (c *Coordinator) run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	c.drainPending(ticker.C)
	c.refresh(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-c.rangeChanged:
			c.emit()
			continue
		case <-ticker.C:
		case <-c.trigger:
		}
		for {
			c.refresh(ctx)
			if !c.drainPending(ticker.C) {
				break
			}
		}
	}
}

// drainPending consumes queued ticks and triggers, reporting whether any were queued.
func (c *Coordinator) drainPending(tick <-chan time.Time) bool {
	pending := false
	for {
		select {
		case <-tick:
			pending = true
		case <-c.trigger:
			pending = true
		default:
			return pending
		}
	}
}

func (c *Coordinator) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	err := c.engine.Refresh(ctx)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		log.Printf("dashboard refresh failed: %v", err)
	}
	c.mu.Lock()
	c.lastErr = err
	c.mu.Unlock()
	c.emit()
}

func (c *Coordinator) emit() {
	c.publishMu.Lock()
	defer c.publishMu.Unlock()

	c.mu.Lock()
	if c.stopped || c.publish == nil {
		c.mu.Unlock()
		return
	}
	r := c.dateRange
	err := c.lastErr
	c.mu.Unlock()

	view := c.engine.View(r, c.now())
	view.Err = err
	c.publish(view)
}
