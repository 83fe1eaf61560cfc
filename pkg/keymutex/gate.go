package keymutex

import (
	"context"
	"errors"
	"sync"
)

// DefaultMaxPending is the default number of operations allowed to wait for
// their key across the whole gate.
const DefaultMaxPending = 1000

// ErrTooManyPending is returned when an operation would exceed the gate's
// ceiling of waiting operations.
var ErrTooManyPending = errors.New("too many pending operations")

// Gate runs operations so that at most one operation per key is in flight.
// Operations waiting on the same key are admitted in FIFO order, operations
// on different keys don't wait for each other.
type Gate struct {
	// locks maps a key to its holder's queue. The entry is removed once no
	// caller holds or waits for the key.
	locks map[string]*keyQueue
	// pending counts callers waiting for a key, across all keys.
	pending    int
	maxPending int

	mtx sync.Mutex
}

// keyQueue is owned by the caller holding the key. Waiters are woken one at a
// time by closing their channel, which hands the ownership over.
type keyQueue struct {
	waiters []chan struct{}
}

// NewGate returns a gate that allows up to maxPending waiting operations. A
// non positive maxPending defaults to DefaultMaxPending.
func NewGate(maxPending int) *Gate {
	if maxPending <= 0 {
		maxPending = DefaultMaxPending
	}
	return &Gate{
		locks:      make(map[string]*keyQueue),
		maxPending: maxPending,
	}
}

// Do runs fn while holding key. If ctx is done while waiting, the operation
// is dropped without running and ctx's error is returned. The key is
// released on every exit path of fn, panics included.
func (g *Gate) Do(ctx context.Context, key string, fn func() error) error {
	if err := g.lock(ctx, key); err != nil {
		return err
	}
	defer g.unlock(key)

	return fn()
}

// WithLock is the value returning version of Gate.Do.
func WithLock[T any](
	ctx context.Context, g *Gate, key string, fn func() (T, error),
) (T, error) {
	var res T
	err := g.Do(ctx, key, func() error {
		var err error
		res, err = fn()
		return err
	})
	return res, err
}

// Pending returns the number of operations currently waiting for a key.
func (g *Gate) Pending() int {
	g.mtx.Lock()
	defer g.mtx.Unlock()
	return g.pending
}

func (g *Gate) lock(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mtx.Lock()
	q, held := g.locks[key]
	if !held {
		g.locks[key] = &keyQueue{}
		g.mtx.Unlock()
		return nil
	}
	if g.pending >= g.maxPending {
		g.mtx.Unlock()
		return ErrTooManyPending
	}

	ready := make(chan struct{})
	q.waiters = append(q.waiters, ready)
	g.pending++
	g.mtx.Unlock()

	select {
	case <-ready:
		return nil
	case <-ctx.Done():
	}

	g.mtx.Lock()
	defer g.mtx.Unlock()

	for i, w := range q.waiters {
		if w == ready {
			q.waiters = append(q.waiters[:i], q.waiters[i+1:]...)
			g.pending--
			return ctx.Err()
		}
	}

	// The key was handed over right after ctx was done, we own it now.
	return nil
}

func (g *Gate) unlock(key string) {
	g.mtx.Lock()
	defer g.mtx.Unlock()

	q, ok := g.locks[key]
	if !ok {
		panic("keymutex: unlock of unlocked key " + key)
	}
	if len(q.waiters) == 0 {
		delete(g.locks, key)
		return
	}

	next := q.waiters[0]
	q.waiters = q.waiters[1:]
	g.pending--
	close(next)
}
