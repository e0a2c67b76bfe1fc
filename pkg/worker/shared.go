package worker

import (
	"sync/atomic"

	"github.com/screa/hashhunter/pkg/types"
)

// Shared is the only state workers have in common: the attempt counter,
// the stop flag and the single-assignment result slot.
type Shared struct {
	attempts atomic.Uint64
	stop     atomic.Bool
	result   atomic.Pointer[types.Result]
}

// NewShared creates an empty shared state
func NewShared() *Shared {
	return &Shared{}
}

// Attempts returns the flushed attempt count.
func (s *Shared) Attempts() uint64 {
	return s.attempts.Load()
}

// AddAttempts flushes a worker's local count.
func (s *Shared) AddAttempts(n uint64) {
	s.attempts.Add(n)
}

// Stop raises the stop flag. It never goes back down.
func (s *Shared) Stop() {
	s.stop.Store(true)
}

// Stopped reports whether the stop flag is raised.
func (s *Shared) Stopped() bool {
	return s.stop.Load()
}

// Publish stores r if no result has been stored yet and raises the stop flag.
// Only the first caller succeeds; later calls return false and change nothing.
func (s *Shared) Publish(r *types.Result) bool {
	if !s.result.CompareAndSwap(nil, r) {
		return false
	}
	s.stop.Store(true)
	return true
}

// Result returns the published result, or nil.
func (s *Shared) Result() *types.Result {
	return s.result.Load()
}
