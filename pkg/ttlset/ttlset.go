package ttlset

import (
	"sync"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	orderedmap "github.com/wk8/go-ordered-map"
)

// DefaultWindow is the default retention of an entry.
const DefaultWindow = 60 * time.Second

// Set is a set of strings whose entries expire once older than a fixed
// window. Entries are kept in insertion order so that expired ones are always
// a prefix of the set and purging stops at the first live entry.
type Set struct {
	entries *orderedmap.OrderedMap
	window  time.Duration
	clock   clock.Clock

	mtx sync.Mutex
}

// New returns an empty set with the given retention window. A nil clk
// defaults to the wall clock, a non positive window to DefaultWindow.
func New(window time.Duration, clk clock.Clock) *Set {
	if window <= 0 {
		window = DefaultWindow
	}
	if clk == nil {
		clk = clock.NewDefaultClock()
	}
	return &Set{
		entries: orderedmap.New(),
		window:  window,
		clock:   clk,
	}
}

// Add inserts key if absent and reports whether it did. Checking and
// inserting happen atomically, so among concurrent callers adding the same
// key exactly one gets true.
func (s *Set) Add(key string) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.entries.Get(key); ok {
		return false
	}
	s.entries.Set(key, s.clock.Now())
	return true
}

// Purge removes the entries older than the retention window and returns how
// many were removed.
func (s *Set) Purge() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	now := s.clock.Now()
	count := 0
	for pair := s.entries.Oldest(); pair != nil; {
		insertedAt := pair.Value.(time.Time)
		if now.Sub(insertedAt) <= s.window {
			break
		}
		next := pair.Next()
		s.entries.Delete(pair.Key)
		pair = next
		count++
	}
	return count
}

func (s *Set) Len() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.entries.Len()
}

// Clear empties the set.
func (s *Set) Clear() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.entries = orderedmap.New()
}
