// Package tracker is the in-memory session the CLI and TUI drive. It keeps the
// last confirmed snapshot plus the changes still being written, so readers see
// their own edits immediately while failed writes are reverted and reported
// instead of silently diverging from storage.
package tracker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/balkashynov/lifetrack/internal/models"
)

// Persister is the durable side of the session; *db.Store implements it.
type Persister interface {
	Load(ctx context.Context) (models.Snapshot, error)
	Save(ctx context.Context, snap models.Snapshot) error
	AddDomain(ctx context.Context, d models.Domain) error
	UpdateDomain(ctx context.Context, d models.Domain) error
	RemoveDomainCascade(ctx context.Context, id string) error
	AddTask(ctx context.Context, t models.Task) error
	UpdateTask(ctx context.Context, t models.Task) error
	RemoveTaskCascade(ctx context.Context, id string) error
	AddCompletion(ctx context.Context, c models.TaskCompletion) error
	RemoveCompletion(ctx context.Context, id string) error
	ExportJSON(ctx context.Context) ([]byte, error)
	ResetToDefaults(ctx context.Context) error
}

// State is where a change is in its write.
type State int

const (
	Pending State = iota
	Confirmed
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Confirmed:
		return "confirmed"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Change describes one mutation of the session.
type Change struct {
	ID    string
	Kind  string
	State State
	Err   error
	At    time.Time

	apply func(*models.Snapshot)
}

// Tracker is safe for concurrent use. The lock is never held across storage
// calls.
type Tracker struct {
	store Persister
	log   *zap.Logger
	now   func() time.Time
	newID func() string

	mu        sync.Mutex
	confirmed models.Snapshot
	pending   []*Change
	failures  []Change
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger; the default discards output.
func WithLogger(log *zap.Logger) Option {
	return func(t *Tracker) { t.log = log }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// WithIDs replaces the record id generator.
func WithIDs(newID func() string) Option {
	return func(t *Tracker) { t.newID = newID }
}

// New creates an empty session; call Load to fill it.
func New(store Persister, opts ...Option) *Tracker {
	t := &Tracker{
		store: store,
		log:   zap.NewNop(),
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.confirmed.Normalize()
	return t
}

// Load replaces the session with the durable snapshot. Pending changes are
// dropped.
func (t *Tracker) Load(ctx context.Context) error {
	snap, err := t.store.Load(ctx)
	if err != nil {
		return err
	}
	t.mu.Lock()
	t.confirmed = snap
	t.pending = nil
	t.mu.Unlock()
	return nil
}

// Snapshot returns the visible state: confirmed data with pending changes
// applied in order.
func (t *Tracker) Snapshot() models.Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.viewLocked()
}

func (t *Tracker) viewLocked() models.Snapshot {
	view := t.confirmed.Clone()
	for _, ch := range t.pending {
		ch.apply(&view)
	}
	return view
}

// Pending lists changes whose write has not finished.
func (t *Tracker) Pending() []Change {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Change, len(t.pending))
	for i, ch := range t.pending {
		out[i] = *ch
	}
	return out
}

// Failures lists changes whose write failed and were reverted.
func (t *Tracker) Failures() []Change {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]Change(nil), t.failures...)
}

// ClearFailures forgets reported failures.
func (t *Tracker) ClearFailures() {
	t.mu.Lock()
	t.failures = nil
	t.mu.Unlock()
}

// beginLocked records a pending change. Callers hold t.mu.
func (t *Tracker) beginLocked(kind string, apply func(*models.Snapshot)) *Change {
	ch := &Change{
		ID:    uuid.NewString(),
		Kind:  kind,
		State: Pending,
		At:    t.now(),
		apply: apply,
	}
	t.pending = append(t.pending, ch)
	return ch
}

// settle finishes a change: success folds it into the confirmed snapshot,
// failure drops it so the visible state reverts.
func (t *Tracker) settle(ch *Change, err error) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i, p := range t.pending {
		if p == ch {
			t.pending = append(t.pending[:i], t.pending[i+1:]...)
			break
		}
	}

	if err != nil {
		ch.State = Failed
		ch.Err = err
		t.failures = append(t.failures, *ch)
		t.log.Warn("Change failed, reverted",
			zap.String("kind", ch.Kind),
			zap.String("change", ch.ID),
			zap.Error(err))
		return err
	}

	ch.State = Confirmed
	ch.apply(&t.confirmed)
	t.log.Debug("Change confirmed", zap.String("kind", ch.Kind), zap.String("change", ch.ID))
	return nil
}

// run applies a change optimistically and persists it.
func (t *Tracker) run(ctx context.Context, kind string, apply func(*models.Snapshot), persist func(context.Context) error) error {
	t.mu.Lock()
	ch := t.beginLocked(kind, apply)
	t.mu.Unlock()
	return t.settle(ch, persist(ctx))
}
