package miner

import (
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/screa/hashhunter/internal/crypto"
	"github.com/screa/hashhunter/internal/logger"
	"github.com/screa/hashhunter/pkg/types"
	"github.com/screa/hashhunter/pkg/worker"
)

// Errors
var (
	ErrRandomSource   = crypto.ErrRandomSource
	ErrAlreadyStarted = errors.New("miner already started")
)

// State of a run
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateFound
	StateExhausted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateFound:
		return "found"
	case StateExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// GeneratorFactory builds one generator per worker
type GeneratorFactory func() (worker.Generator, error)

// ProgressFunc receives periodic progress snapshots from the observer goroutine
type ProgressFunc func(types.Progress)

// VerifyFunc re-derives a result's address from its private key
type VerifyFunc func(address, privateKeyHex string) bool

// Option configures a Miner
type Option func(*Miner)

// WithGeneratorFactory replaces the default crypto/rand key generator.
func WithGeneratorFactory(f GeneratorFactory) Option {
	return func(m *Miner) { m.newGenerator = f }
}

// WithProgress installs a progress callback. It runs on the observer goroutine.
func WithProgress(f ProgressFunc) Option {
	return func(m *Miner) { m.progress = f }
}

// WithVerifier replaces crypto.VerifyAddress.
func WithVerifier(f VerifyFunc) Option {
	return func(m *Miner) { m.verify = f }
}

// Miner coordinates the worker pool for a single search
type Miner struct {
	criteria types.SearchCriteria
	limits   types.Limits
	logger   *logger.Logger

	newGenerator GeneratorFactory
	progress     ProgressFunc
	verify       VerifyFunc

	state  atomic.Int32
	shared *worker.Shared
}

// NewMiner creates a new miner instance
func NewMiner(criteria types.SearchCriteria, limits types.Limits, log *logger.Logger, opts ...Option) *Miner {
	if limits.Workers <= 0 {
		limits.Workers = runtime.NumCPU()
	}
	if limits.BatchStep <= 0 {
		limits.BatchStep = 1
	}
	if log == nil {
		log = logger.Discard()
	}

	m := &Miner{
		criteria: criteria,
		limits:   limits,
		logger:   log,
		newGenerator: func() (worker.Generator, error) {
			gen, err := crypto.NewKeyGenerator()
			if err != nil {
				return nil, err
			}
			return gen, nil
		},
		verify: crypto.VerifyAddress,
		shared: worker.NewShared(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Run performs the search and blocks until it ends.
func Run(criteria types.SearchCriteria, limits types.Limits) (*types.Outcome, error) {
	return NewMiner(criteria, limits, nil).Run()
}

// State returns the current state of the run.
func (m *Miner) State() State {
	return State(m.state.Load())
}

// Attempts returns the attempts flushed so far.
func (m *Miner) Attempts() uint64 {
	return m.shared.Attempts()
}

// Stop asks every worker to exit at its next iteration.
func (m *Miner) Stop() {
	m.shared.Stop()
}

// Run starts the mining process
func (m *Miner) Run() (*types.Outcome, error) {
	if !m.state.CompareAndSwap(int32(StateIdle), int32(StateRunning)) {
		return nil, ErrAlreadyStarted
	}
	start := time.Now()

	// Every generator is built before any worker starts, so an unavailable
	// random source fails the run up front.
	gens := make([]worker.Generator, m.limits.Workers)
	for i := range gens {
		gen, err := m.newGenerator()
		if err != nil {
			m.state.Store(int32(StateExhausted))
			return nil, fmt.Errorf("creating generator %d: %w", i, err)
		}
		gens[i] = gen
	}

	cfg := &worker.Config{
		Criteria:    m.criteria,
		BatchStep:   uint64(m.limits.BatchStep),
		MaxAttempts: m.limits.MaxAttempts,
	}

	var g errgroup.Group
	for i, gen := range gens {
		w := worker.NewWorker(i, cfg, gen, m.shared)
		g.Go(w.Run)
	}

	m.logger.Debugf("Mining started with %d workers, batch step %d, ceiling %d",
		m.limits.Workers, m.limits.BatchStep, m.limits.MaxAttempts)

	// Start periodic progress reporting
	var observerDone chan struct{}
	var observerExited chan struct{}
	if m.limits.ProgressInterval > 0 && (m.progress != nil || m.logger.Verbose()) {
		observerDone = make(chan struct{})
		observerExited = make(chan struct{})
		go func() {
			defer close(observerExited)
			m.periodicProgress(m.limits.ProgressInterval, observerDone, start)
		}()
	}

	// Wait for completion
	err := g.Wait()

	if observerDone != nil {
		close(observerDone)
		<-observerExited
	}

	elapsed := time.Since(start)
	attempts := m.shared.Attempts()

	if err != nil {
		m.state.Store(int32(StateExhausted))
		return nil, err
	}

	result := m.shared.Result()
	if result == nil {
		m.state.Store(int32(StateExhausted))
		m.logger.Debugf("Search exhausted after %d attempts", attempts)
		return &types.Outcome{
			Status:   types.StatusExhausted,
			Attempts: attempts,
			Duration: elapsed,
		}, nil
	}

	result.Duration = elapsed
	verified := m.verify(result.Address, result.PrivateKey)
	if !verified {
		m.logger.Errorf("address verification failed for %s: derived address does not match private key", result.Address)
	}

	m.state.Store(int32(StateFound))
	return &types.Outcome{
		Status:   types.StatusFound,
		Result:   result,
		Attempts: attempts,
		Verified: verified,
		Duration: elapsed,
	}, nil
}

// periodicProgress reports mining progress at regular intervals
func (m *Miner) periodicProgress(interval time.Duration, done <-chan struct{}, start time.Time) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last uint64
	lastTick := start
	for {
		select {
		case now := <-ticker.C:
			attempts := m.shared.Attempts()
			elapsed := now.Sub(start)

			// Calculate rate safely
			rate := 0.0
			if elapsed.Seconds() > 0 {
				rate = float64(attempts) / elapsed.Seconds()
			}

			if m.progress != nil {
				m.progress(types.Progress{Attempts: attempts, Rate: rate, Elapsed: elapsed})
			} else {
				window := now.Sub(lastTick).Seconds()
				recent := 0.0
				if window > 0 {
					recent = float64(attempts-last) / window
				}
				m.logger.Printf("Progress: %d attempts, %.2f attempts/sec (%.2f recent)", attempts, rate, recent)
			}
			last, lastTick = attempts, now
		case <-done:
			return
		}
	}
}
