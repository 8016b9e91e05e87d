// Package fetch implements the per-view read lifecycle against the catalog
// service: one network read per activation, tracked as Loading, Ready or
// Failed.
package fetch

import (
	"context"
	"sync"
	"time"

	applog "formulary/internal/log"
	"formulary/internal/metrics"
)

// Phase is the lifecycle position of a Unit.
type Phase int

const (
	Loading Phase = iota
	Ready
	Failed
)

func (p Phase) String() string {
	switch p {
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// State is a snapshot of a Unit. Data is meaningful only when Phase is Ready
// and Err only when Phase is Failed.
type State[T any] struct {
	Phase      Phase
	Data       T
	Err        error
	Generation uint64
}

// Message returns the failure text shown to users.
func (s State[T]) Message() string {
	if s.Err == nil {
		return ""
	}
	return s.Err.Error()
}

// PathFunc produces the request path for an activation. It returns a
// MissingInputError when a required identifier is absent.
type PathFunc func() (string, error)

// Path returns a PathFunc for a fixed path.
func Path(path string) PathFunc {
	return func() (string, error) { return path, nil }
}

// Observer receives every state transition. Observers run while the unit's
// lock is held and must not call back into the unit.
type Observer[T any] func(State[T])

// Unit performs one read per activation and keeps the outcome of the most
// recent activation only.
type Unit[T any] struct {
	client   *Client
	endpoint string
	path     PathFunc
	status   StatusMessage

	mu         sync.Mutex
	generation uint64
	state      State[T]
	observers  []Observer[T]
}

// NewUnit builds a Unit in the Loading phase. endpoint labels logs and metrics.
func NewUnit[T any](client *Client, endpoint string, path PathFunc, status StatusMessage) *Unit[T] {
	if status == nil {
		status = ListStatus
	}
	return &Unit[T]{
		client:   client,
		endpoint: endpoint,
		path:     path,
		status:   status,
	}
}

// Endpoint returns the label the unit logs and records metrics under.
func (u *Unit[T]) Endpoint() string {
	return u.endpoint
}

// Subscribe registers fn for all later transitions.
func (u *Unit[T]) Subscribe(fn Observer[T]) {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.observers = append(u.observers, fn)
}

// State returns the current snapshot.
func (u *Unit[T]) State() State[T] {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.state
}

// Activate restarts the unit at Loading and performs the read. It returns
// the unit's state once this activation has resolved; if a newer activation
// was issued meanwhile, this activation's outcome is discarded and the
// returned state is whatever the newer one has produced so far.
func (u *Unit[T]) Activate(ctx context.Context) State[T] {
	gen := u.begin()
	data, err := u.load(ctx)
	return u.settle(ctx, gen, data, err)
}

func (u *Unit[T]) begin() uint64 {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.generation++
	u.transition(State[T]{Phase: Loading, Generation: u.generation})
	return u.generation
}

func (u *Unit[T]) load(ctx context.Context) (T, error) {
	var out T
	path, err := u.path()
	if err != nil {
		return out, err
	}
	if !u.client.Configured() {
		return out, ErrBaseURLMissing
	}

	started := time.Now()
	err = u.client.Get(ctx, path, &out, u.status)
	metrics.ObserveFetchDuration(u.endpoint, time.Since(started))
	return out, err
}

func (u *Unit[T]) settle(ctx context.Context, gen uint64, data T, err error) State[T] {
	u.mu.Lock()
	defer u.mu.Unlock()

	if gen != u.generation {
		applog.Debug(ctx, "discarding superseded fetch", "endpoint", u.endpoint, "generation", gen, "current", u.generation)
		metrics.ObserveFetch(u.endpoint, metrics.OutcomeSuperseded)
		return u.state
	}

	if err != nil {
		applog.Warn(ctx, "fetch failed", "endpoint", u.endpoint, "kind", Kind(err), "error", err)
		metrics.ObserveFetch(u.endpoint, metrics.OutcomeFailed)
		u.transition(State[T]{Phase: Failed, Err: err, Generation: gen})
		return u.state
	}

	metrics.ObserveFetch(u.endpoint, metrics.OutcomeReady)
	u.transition(State[T]{Phase: Ready, Data: data, Generation: gen})
	return u.state
}

// transition must be called with mu held.
func (u *Unit[T]) transition(next State[T]) {
	u.state = next
	for _, fn := range u.observers {
		fn(next)
	}
}
