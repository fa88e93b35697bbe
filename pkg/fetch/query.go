package fetch

import (
	"context"
	"sync"
	"time"
)

// State is the snapshot a caller renders from.
type State[T any] struct {
	Data      T
	HasData   bool
	Err       error
	Loading   bool
	UpdatedAt time.Time
}

// QueryConfig describes a keyed read.
type QueryConfig[T any] struct {
	// Key identifies the data, e.g. "vacancies?remote=true". Queries with
	// the same key share calls and cache entries.
	Key   string
	Fetch func(ctx context.Context) (T, error)
	// TTL is how long a cached result is served without a call. Zero
	// always calls.
	TTL time.Duration

	OnSuccess func(T)
	OnError   func(error)
	// OnChange receives every state transition.
	OnChange func(State[T])
}

// Query tracks one keyed read and its state. Each Execute cancels the one
// before it; results of superseded or closed executions are dropped.
type Query[T any] struct {
	client *Client
	cfg    QueryConfig[T]

	mu     sync.Mutex
	state  State[T]
	seq    uint64
	cancel context.CancelFunc
	closed bool
}

func NewQuery[T any](client *Client, cfg QueryConfig[T]) *Query[T] {
	return &Query[T]{client: client, cfg: cfg}
}

func (q *Query[T]) Key() string {
	return q.cfg.Key
}

func (q *Query[T]) State() State[T] {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Execute returns cached data when it is fresh, otherwise it calls Fetch.
func (q *Query[T]) Execute(ctx context.Context) (T, error) {
	return q.run(ctx, false)
}

// Refetch always calls Fetch.
func (q *Query[T]) Refetch(ctx context.Context) (T, error) {
	return q.run(ctx, true)
}

func (q *Query[T]) run(ctx context.Context, force bool) (T, error) {
	var zero T

	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return zero, ErrClosed
	}
	if q.cancel != nil {
		q.cancel()
	}
	callCtx, cancel := context.WithCancel(ctx)
	q.seq++
	seq := q.seq
	q.cancel = cancel
	q.state.Loading = true
	q.state.Err = nil
	loading := q.state
	q.mu.Unlock()
	defer cancel()

	q.emit(loading)

	raw, err := q.client.load(callCtx, q.cfg.Key, q.cfg.TTL, force, func(ctx context.Context) (interface{}, error) {
		return q.cfg.Fetch(ctx)
	})

	var value T
	if err == nil {
		v, ok := raw.(T)
		if !ok {
			err = ErrTypeMismatch
		} else {
			value = v
		}
	}

	q.mu.Lock()
	if q.closed || seq != q.seq {
		q.mu.Unlock()
		if err != nil {
			return zero, err
		}
		return value, nil
	}
	if err != nil {
		q.state.Err = err
	} else {
		q.state.Data = value
		q.state.HasData = true
		q.state.UpdatedAt = q.client.now()
	}
	q.state.Loading = false
	q.cancel = nil
	done := q.state
	q.mu.Unlock()

	q.emit(done)
	if err != nil {
		if q.cfg.OnError != nil {
			q.cfg.OnError(err)
		}
		return zero, err
	}
	if q.cfg.OnSuccess != nil {
		q.cfg.OnSuccess(value)
	}
	return value, nil
}

// Reset cancels any call in flight and clears the state.
func (q *Query[T]) Reset() {
	q.mu.Lock()
	q.stop()
	q.state = State[T]{}
	cleared := q.state
	closed := q.closed
	q.mu.Unlock()

	if !closed {
		q.emit(cleared)
	}
}

// Close cancels any call in flight. Later results and executions are
// ignored.
func (q *Query[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.stop()
	q.state.Loading = false
	q.closed = true
}

func (q *Query[T]) stop() {
	if q.cancel != nil {
		q.cancel()
		q.cancel = nil
	}
	q.seq++
}

func (q *Query[T]) emit(s State[T]) {
	if q.cfg.OnChange != nil {
		q.cfg.OnChange(s)
	}
}
