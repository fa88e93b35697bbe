package fetch

import (
	"context"
	"sync"
)

// MutationConfig describes a write, such as applying to a vacancy.
type MutationConfig[In, Out any] struct {
	Mutate func(ctx context.Context, in In) (Out, error)
	// Invalidates lists the cache keys made stale by a successful write.
	Invalidates []string

	OnSuccess func(Out)
	OnError   func(error)
	// OnReset runs after OnSuccess, typically to clear a form.
	OnReset  func()
	OnChange func(State[Out])
}

// Mutation runs writes. Writes are never coalesced or cached.
type Mutation[In, Out any] struct {
	client *Client
	cfg    MutationConfig[In, Out]

	mu    sync.Mutex
	state State[Out]
}

func NewMutation[In, Out any](client *Client, cfg MutationConfig[In, Out]) *Mutation[In, Out] {
	return &Mutation[In, Out]{client: client, cfg: cfg}
}

func (m *Mutation[In, Out]) State() State[Out] {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mutation[In, Out]) Submit(ctx context.Context, in In) (Out, error) {
	m.mu.Lock()
	m.state.Loading = true
	m.state.Err = nil
	loading := m.state
	m.mu.Unlock()
	m.emit(loading)

	out, err := m.cfg.Mutate(ctx, in)

	m.mu.Lock()
	if err != nil {
		m.state.Err = err
	} else {
		m.state.Data = out
		m.state.HasData = true
		m.state.UpdatedAt = m.client.now()
	}
	m.state.Loading = false
	done := m.state
	m.mu.Unlock()
	m.emit(done)

	if err != nil {
		if m.cfg.OnError != nil {
			m.cfg.OnError(err)
		}
		var zero Out
		return zero, err
	}

	m.client.Invalidate(m.cfg.Invalidates...)
	if m.cfg.OnSuccess != nil {
		m.cfg.OnSuccess(out)
	}
	if m.cfg.OnReset != nil {
		m.cfg.OnReset()
	}
	return out, nil
}

func (m *Mutation[In, Out]) Reset() {
	m.mu.Lock()
	m.state = State[Out]{}
	cleared := m.state
	m.mu.Unlock()
	m.emit(cleared)
}

func (m *Mutation[In, Out]) emit(s State[Out]) {
	if m.cfg.OnChange != nil {
		m.cfg.OnChange(s)
	}
}
