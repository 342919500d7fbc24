package state

import (
	"context"
	"fmt"
	"sync"

	"listing_crawler/internal/domain"
)

const DefaultHistorySize = 30

// Store persists one RunState document.
type Store interface {
	Load(ctx context.Context) (*domain.RunState, error)
	Save(ctx context.Context, state *domain.RunState) error
}

// Tracker keeps the run state of one job in memory between Load and Save.
type Tracker struct {
	store   Store
	history int

	mu    sync.Mutex
	state domain.RunState
}

func NewTracker(store Store, historySize int) *Tracker {
	if historySize <= 0 {
		historySize = DefaultHistorySize
	}
	return &Tracker{store: store, history: historySize}
}

// Load replaces the in-memory state with the stored one. A store with
// nothing saved yields the zero state.
func (t *Tracker) Load(ctx context.Context) (*domain.RunState, error) {
	loaded, err := t.store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load run state: %w", err)
	}
	if loaded == nil {
		loaded = &domain.RunState{}
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.state = *loaded
	t.trim()
	return copyState(&t.state), nil
}

// Record appends a finished run and folds its counters into the totals.
func (t *Tracker) Record(summary domain.RunSummary) {
	t.mu.Lock()
	defer t.mu.Unlock()

	finished := summary.StartedAt.Add(summary.Duration)
	switch summary.Status {
	case domain.RunStatusFailed:
		t.state.LastFailure = &finished
	default:
		t.state.LastRun = &finished
	}

	t.state.TotalScraped += int64(summary.Processed)
	t.state.TotalNew += int64(summary.New)
	t.state.TotalUpdated += int64(summary.Updated)
	t.state.TotalSuccess += int64(summary.Success)
	t.state.TotalErrors += int64(summary.Errors)

	t.state.Runs = append(t.state.Runs, summary)
	t.trim()
}

func (t *Tracker) Save(ctx context.Context) error {
	t.mu.Lock()
	snapshot := copyState(&t.state)
	t.mu.Unlock()

	if err := t.store.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("save run state: %w", err)
	}
	return nil
}

func (t *Tracker) Snapshot() domain.RunState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return *copyState(&t.state)
}

func (t *Tracker) trim() {
	if over := len(t.state.Runs) - t.history; over > 0 {
		t.state.Runs = append([]domain.RunSummary(nil), t.state.Runs[over:]...)
	}
}

func copyState(s *domain.RunState) *domain.RunState {
	c := *s
	c.Runs = append([]domain.RunSummary(nil), s.Runs...)
	if s.LastRun != nil {
		v := *s.LastRun
		c.LastRun = &v
	}
	if s.LastFailure != nil {
		v := *s.LastFailure
		c.LastFailure = &v
	}
	return &c
}
