package fetch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

// gate is a Fetch function whose calls block until released.
type gate struct {
	calls     int32
	started   chan int32
	release   chan struct{}
	cancelled chan int32
}

func newGate() *gate {
	return &gate{
		started:   make(chan int32, 16),
		release:   make(chan struct{}),
		cancelled: make(chan int32, 16),
	}
}

func (g *gate) fetch(ctx context.Context) (int, error) {
	n := atomic.AddInt32(&g.calls, 1)
	g.started <- n
	select {
	case <-g.release:
		return int(n) * 10, nil
	case <-ctx.Done():
		g.cancelled <- n
		return 0, ctx.Err()
	}
}

func (g *gate) count() int32 {
	return atomic.LoadInt32(&g.calls)
}

type recorder[T any] struct {
	mu     sync.Mutex
	states []State[T]
}

func (r *recorder[T]) record(s State[T]) {
	r.mu.Lock()
	r.states = append(r.states, s)
	r.mu.Unlock()
}

func (r *recorder[T]) all() []State[T] {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]State[T](nil), r.states...)
}

func waitFor(cond func() bool) bool {
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(time.Millisecond)
	}
	return false
}

func (c *Client) waiters(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if f, ok := c.flights[key]; ok {
		return f.waiters
	}
	return 0
}

type result struct {
	value int
	err   error
}

func TestQueryState(t *testing.T) {
	Convey("Given a query over a successful fetch", t, func() {
		client := NewClient()
		calls := 0
		rec := &recorder[[]string]{}
		q := NewQuery(client, QueryConfig[[]string]{
			Key: "vacancies",
			Fetch: func(ctx context.Context) ([]string, error) {
				calls++
				return []string{"Go Developer", "SRE"}, nil
			},
			OnChange: rec.record,
		})

		Convey("When it is executed", func() {
			data, err := q.Execute(context.Background())

			Convey("Then loading goes true then false and data is set once", func() {
				So(err, ShouldBeNil)
				So(data, ShouldResemble, []string{"Go Developer", "SRE"})
				So(calls, ShouldEqual, 1)

				states := rec.all()
				So(states, ShouldHaveLength, 2)
				So(states[0].Loading, ShouldBeTrue)
				So(states[0].HasData, ShouldBeFalse)
				So(states[1].Loading, ShouldBeFalse)
				So(states[1].HasData, ShouldBeTrue)
				So(states[1].Data, ShouldResemble, data)
				So(states[1].UpdatedAt.IsZero(), ShouldBeFalse)
			})
		})
	})

	Convey("Given a query over a failing fetch", t, func() {
		client := NewClient()
		boom := errors.New("server unavailable")
		fail := true
		q := NewQuery(client, QueryConfig[[]string]{
			Key: "notifications",
			Fetch: func(ctx context.Context) ([]string, error) {
				if fail {
					return nil, boom
				}
				return []string{"Отклик отправлен"}, nil
			},
		})

		Convey("When it is executed", func() {
			_, err := q.Execute(context.Background())

			Convey("Then the error is set and data stays empty", func() {
				So(err, ShouldEqual, boom)
				st := q.State()
				So(st.Err, ShouldEqual, boom)
				So(st.HasData, ShouldBeFalse)
				So(st.Data, ShouldBeNil)
				So(st.Loading, ShouldBeFalse)
			})
		})

		Convey("When a later execute fails after a success", func() {
			fail = false
			_, err := q.Execute(context.Background())
			So(err, ShouldBeNil)
			fail = true
			_, err = q.Refetch(context.Background())

			Convey("Then the previous data is kept next to the error", func() {
				So(err, ShouldEqual, boom)
				st := q.State()
				So(st.Err, ShouldEqual, boom)
				So(st.HasData, ShouldBeTrue)
				So(st.Data, ShouldResemble, []string{"Отклик отправлен"})
			})
		})

		Convey("When it is reset", func() {
			_, _ = q.Execute(context.Background())
			q.Reset()

			Convey("Then the state is empty", func() {
				So(q.State(), ShouldResemble, State[[]string]{})
			})
		})
	})
}

func TestQueryCache(t *testing.T) {
	Convey("Given a cached query", t, func() {
		client := NewClient()
		now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		client.now = func() time.Time { return now }

		var calls int32
		q := NewQuery(client, QueryConfig[int]{
			Key: "stats",
			TTL: time.Minute,
			Fetch: func(ctx context.Context) (int, error) {
				return int(atomic.AddInt32(&calls, 1)), nil
			},
		})

		first, err := q.Execute(context.Background())
		So(err, ShouldBeNil)

		Convey("Execute within the TTL serves the cache", func() {
			v, err := q.Execute(context.Background())
			So(err, ShouldBeNil)
			So(v, ShouldEqual, first)
			So(atomic.LoadInt32(&calls), ShouldEqual, 1)
		})

		Convey("Execute after the TTL calls again", func() {
			now = now.Add(2 * time.Minute)
			v, err := q.Execute(context.Background())
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 2)
		})

		Convey("Refetch ignores the cache", func() {
			v, err := q.Refetch(context.Background())
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 2)
			cached, _, ok := client.Cached("stats")
			So(ok, ShouldBeTrue)
			So(cached, ShouldEqual, 2)
		})

		Convey("A query of another type on the same key is rejected", func() {
			other := NewQuery(client, QueryConfig[string]{
				Key:   "stats",
				TTL:   time.Minute,
				Fetch: func(ctx context.Context) (string, error) { return "x", nil },
			})
			_, err := other.Execute(context.Background())
			So(err, ShouldEqual, ErrTypeMismatch)
		})
	})
}

func TestCoalescing(t *testing.T) {
	Convey("Given two queries on the same key", t, func() {
		client := NewClient()
		g := newGate()
		q1 := NewQuery(client, QueryConfig[int]{Key: "vacancies?remote=true", Fetch: g.fetch})
		q2 := NewQuery(client, QueryConfig[int]{Key: "vacancies?remote=true", Fetch: g.fetch})

		ctx1, cancel1 := context.WithCancel(context.Background())
		defer cancel1()

		r1 := make(chan result, 1)
		r2 := make(chan result, 1)
		go func() { v, err := q1.Execute(ctx1); r1 <- result{v, err} }()
		<-g.started
		go func() { v, err := q2.Execute(context.Background()); r2 <- result{v, err} }()
		So(waitFor(func() bool { return client.waiters("vacancies?remote=true") == 2 }), ShouldBeTrue)

		Convey("When the call completes", func() {
			close(g.release)
			a, b := <-r1, <-r2

			Convey("Then both share one call", func() {
				So(g.count(), ShouldEqual, 1)
				So(a.err, ShouldBeNil)
				So(b.err, ShouldBeNil)
				So(a.value, ShouldEqual, 10)
				So(b.value, ShouldEqual, 10)
				So(q1.State().Data, ShouldEqual, 10)
				So(q2.State().Data, ShouldEqual, 10)
			})
		})

		Convey("When one caller cancels", func() {
			cancel1()
			a := <-r1
			So(waitFor(func() bool { return client.waiters("vacancies?remote=true") == 1 }), ShouldBeTrue)
			close(g.release)
			b := <-r2

			Convey("Then the other still gets the result", func() {
				So(a.err, ShouldEqual, context.Canceled)
				So(b.err, ShouldBeNil)
				So(b.value, ShouldEqual, 10)
				So(g.count(), ShouldEqual, 1)
				So(len(g.cancelled), ShouldEqual, 0)
			})
		})
	})
}

func TestCancellation(t *testing.T) {
	Convey("Given a query with a call in flight", t, func() {
		client := NewClient()
		g := newGate()
		rec := &recorder[int]{}
		q := NewQuery(client, QueryConfig[int]{Key: "applications", Fetch: g.fetch, OnChange: rec.record})

		r1 := make(chan result, 1)
		go func() { v, err := q.Execute(context.Background()); r1 <- result{v, err} }()
		<-g.started

		Convey("When it is closed", func() {
			q.Close()
			a := <-r1

			Convey("Then the call is cancelled and nothing is stored", func() {
				So(a.err, ShouldEqual, context.Canceled)
				So(<-g.cancelled, ShouldEqual, 1)
				st := q.State()
				So(st.HasData, ShouldBeFalse)
				So(st.Loading, ShouldBeFalse)
				So(rec.all(), ShouldHaveLength, 1)
			})

			Convey("Then later executions are refused", func() {
				_, err := q.Execute(context.Background())
				So(err, ShouldEqual, ErrClosed)
			})
		})

		Convey("When it is refetched", func() {
			r2 := make(chan result, 1)
			go func() { v, err := q.Refetch(context.Background()); r2 <- result{v, err} }()
			<-g.started
			a := <-r1
			So(<-g.cancelled, ShouldEqual, 1)
			close(g.release)
			b := <-r2

			Convey("Then the first call is cancelled and the second wins", func() {
				So(a.err, ShouldEqual, context.Canceled)
				So(b.err, ShouldBeNil)
				So(b.value, ShouldEqual, 20)
				So(q.State().Data, ShouldEqual, 20)
				So(q.State().Loading, ShouldBeFalse)
			})
		})

		Convey("When the key is invalidated before the call returns", func() {
			client.Invalidate("applications")
			close(g.release)
			a := <-r1

			Convey("Then the caller gets the data but it is not cached", func() {
				So(a.err, ShouldBeNil)
				So(q.State().Data, ShouldEqual, 10)
				_, _, ok := client.Cached("applications")
				So(ok, ShouldBeFalse)
			})
		})
	})
}

func TestSupersededCalls(t *testing.T) {
	Convey("Given a slow call in flight on a cached key", t, func() {
		client := NewClient()
		release := make(chan struct{})
		started := make(chan struct{}, 1)
		slow := NewQuery(client, QueryConfig[string]{
			Key: "vacancies",
			TTL: time.Minute,
			Fetch: func(ctx context.Context) (string, error) {
				started <- struct{}{}
				<-release
				return "old", nil
			},
		})
		r1 := make(chan string, 1)
		go func() { v, _ := slow.Execute(context.Background()); r1 <- v }()
		<-started

		Convey("When another query refetches and the slow call finishes last", func() {
			fresh := NewQuery(client, QueryConfig[string]{
				Key: "vacancies",
				TTL: time.Minute,
				Fetch: func(ctx context.Context) (string, error) {
					return "new", nil
				},
			})
			v, err := fresh.Refetch(context.Background())
			So(err, ShouldBeNil)
			So(v, ShouldEqual, "new")
			close(release)
			So(<-r1, ShouldEqual, "old")

			Convey("Then the newer result stays cached", func() {
				cached, _, ok := client.Cached("vacancies")
				So(ok, ShouldBeTrue)
				So(cached, ShouldEqual, "new")

				v, err := NewQuery(client, QueryConfig[string]{
					Key: "vacancies",
					TTL: time.Minute,
					Fetch: func(ctx context.Context) (string, error) {
						return "unexpected", nil
					},
				}).Execute(context.Background())
				So(err, ShouldBeNil)
				So(v, ShouldEqual, "new")
			})
		})

		Convey("When the key is invalidated and read again", func() {
			client.Invalidate("vacancies")
			calls := 0
			after := NewQuery(client, QueryConfig[string]{
				Key: "vacancies",
				TTL: time.Minute,
				Fetch: func(ctx context.Context) (string, error) {
					calls++
					return "after", nil
				},
			})
			v, err := after.Execute(context.Background())
			close(release)
			<-r1

			Convey("Then the read starts its own call instead of joining the old one", func() {
				So(err, ShouldBeNil)
				So(v, ShouldEqual, "after")
				So(calls, ShouldEqual, 1)
				cached, _, _ := client.Cached("vacancies")
				So(cached, ShouldEqual, "after")
			})
		})
	})
}

func TestMutation(t *testing.T) {
	Convey("Given a cached list and a mutation that changes it", t, func() {
		client := NewClient()
		var listCalls int32
		list := NewQuery(client, QueryConfig[int]{
			Key: "applications?status=pending",
			TTL: time.Hour,
			Fetch: func(ctx context.Context) (int, error) {
				return int(atomic.AddInt32(&listCalls, 1)), nil
			},
		})
		stats := NewQuery(client, QueryConfig[int]{
			Key:   "stats",
			TTL:   time.Hour,
			Fetch: func(ctx context.Context) (int, error) { return 7, nil },
		})
		_, err := list.Execute(context.Background())
		So(err, ShouldBeNil)
		_, err = stats.Execute(context.Background())
		So(err, ShouldBeNil)

		var events []string
		failNext := false
		apply := NewMutation(client, MutationConfig[int64, string]{
			Invalidates: []string{"applications"},
			Mutate: func(ctx context.Context, vacancyID int64) (string, error) {
				if failNext {
					return "", errors.New("You have already applied to this vacancy")
				}
				return "pending", nil
			},
			OnSuccess: func(status string) { events = append(events, "success:"+status) },
			OnError:   func(err error) { events = append(events, "error") },
			OnReset:   func() { events = append(events, "reset") },
		})

		Convey("When it succeeds", func() {
			out, err := apply.Submit(context.Background(), 3)
			So(err, ShouldBeNil)
			So(out, ShouldEqual, "pending")

			Convey("Then covered keys are refetched and others stay cached", func() {
				So(events, ShouldResemble, []string{"success:pending", "reset"})
				So(apply.State().Data, ShouldEqual, "pending")

				v, err := list.Execute(context.Background())
				So(err, ShouldBeNil)
				So(v, ShouldEqual, 2)

				_, _, ok := client.Cached("stats")
				So(ok, ShouldBeTrue)
			})
		})

		Convey("When it fails", func() {
			failNext = true
			_, err := apply.Submit(context.Background(), 3)

			Convey("Then nothing is invalidated", func() {
				So(err, ShouldNotBeNil)
				So(events, ShouldResemble, []string{"error"})
				So(apply.State().Err, ShouldEqual, err)
				v, _ := list.Execute(context.Background())
				So(v, ShouldEqual, 1)
			})
		})
	})
}

func TestCovers(t *testing.T) {
	Convey("Key coverage", t, func() {
		So(covers("applications", "applications"), ShouldBeTrue)
		So(covers("applications", "applications?status=pending"), ShouldBeTrue)
		So(covers("applications", "applications/7"), ShouldBeTrue)
		So(covers("applications", "applications-export"), ShouldBeFalse)
		So(covers("applications/7", "applications"), ShouldBeFalse)
	})
}
