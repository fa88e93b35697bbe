// Package fetch caches and coalesces API reads for long-lived callers.
//
// A Client is shared by every Query and Mutation of one user session. Reads
// are identified by an explicit cache key: concurrent reads of the same key
// share a single call, results are cached for the query's TTL, and
// mutations drop the keys they make stale.
package fetch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

var (
	ErrClosed       = errors.New("fetch: query closed")
	ErrTypeMismatch = errors.New("fetch: cached value has a different type")
)

type entry struct {
	value    interface{}
	storedAt time.Time
}

// flight is the shared call for one key. It runs on its own context and is
// cancelled only when every waiter has gone. A detached flight still answers
// its waiters but never writes the cache.
type flight struct {
	ctx      context.Context
	cancel   context.CancelFunc
	waiters  int
	detached bool
}

type Client struct {
	mu      sync.Mutex
	group   singleflight.Group
	entries map[string]entry
	flights map[string]*flight
	now     func() time.Time
}

func NewClient() *Client {
	return &Client{
		entries: make(map[string]entry),
		flights: make(map[string]*flight),
		now:     time.Now,
	}
}

// Cached returns the value stored under key and when it was stored.
func (c *Client) Cached(key string) (interface{}, time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	return e.value, e.storedAt, ok
}

// Invalidate drops the cached values of the given keys. A key also covers
// its sub-keys: "applications" drops "applications?status=pending" and
// "applications/7". Calls already in flight for those keys still return to
// their waiters but are not cached, and later reads start a new call.
func (c *Client) Invalidate(keys ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, key := range keys {
		for k := range c.entries {
			if covers(key, k) {
				delete(c.entries, k)
			}
		}
		for k, f := range c.flights {
			if covers(key, k) {
				c.detach(k, f)
			}
		}
	}
}

func covers(prefix, key string) bool {
	if key == prefix {
		return true
	}
	if !strings.HasPrefix(key, prefix) {
		return false
	}
	switch key[len(prefix)] {
	case '?', '/':
		return true
	}
	return false
}

// load returns the cached value for key when it is younger than ttl, and
// otherwise joins or starts the shared call. ttl <= 0 skips the cache;
// force skips both the cache and a call already running.
func (c *Client) load(ctx context.Context, key string, ttl time.Duration, force bool, fn func(context.Context) (interface{}, error)) (interface{}, error) {
	c.mu.Lock()
	if !force && ttl > 0 {
		if e, ok := c.entries[key]; ok && c.now().Sub(e.storedAt) < ttl {
			c.mu.Unlock()
			return e.value, nil
		}
	}

	f, ok := c.flights[key]
	if ok && force {
		// Leave the running call to its waiters and start a fresh one.
		c.detach(key, f)
		ok = false
	}
	if !ok {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel}
		c.flights[key] = f
	}
	f.waiters++

	// Registered under the lock so the flight in the map and the call in
	// the group always belong together.
	ch := c.group.DoChan(key, func() (interface{}, error) {
		v, err := fn(f.ctx)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.flights[key] == f {
			delete(c.flights, key)
		}
		if err == nil && !f.detached {
			c.entries[key] = entry{value: v, storedAt: c.now()}
		}
		return v, err
	})
	c.mu.Unlock()

	select {
	case res := <-ch:
		c.leave(key, f)
		return res.Val, res.Err
	case <-ctx.Done():
		c.leave(key, f)
		return nil, ctx.Err()
	}
}

func (c *Client) leave(key string, f *flight) {
	c.mu.Lock()
	defer c.mu.Unlock()

	f.waiters--
	if f.waiters > 0 {
		return
	}
	f.cancel()
	if c.flights[key] == f {
		c.detach(key, f)
	}
}

// detach removes f from the key so the next load starts a new call.
// Callers hold c.mu.
func (c *Client) detach(key string, f *flight) {
	f.detached = true
	delete(c.flights, key)
	c.group.Forget(key)
}
