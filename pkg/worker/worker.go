package worker

import (
	"fmt"

	"github.com/screa/hashhunter/internal/crypto"
	"github.com/screa/hashhunter/pkg/types"
)

// Generator produces candidates for a single worker
type Generator interface {
	Generate() (*types.Candidate, error)
}

// Config contains configuration for individual workers
type Config struct {
	Criteria    types.SearchCriteria
	BatchStep   uint64 // local attempts buffered before a flush
	MaxAttempts uint64
}

// Worker handles individual address generation and matching
type Worker struct {
	id      int
	config  *Config
	gen     Generator
	matcher *Matcher
	encoder *crypto.Encoder
	shared  *Shared
}

// NewWorker creates a new worker instance
func NewWorker(id int, config *Config, gen Generator, shared *Shared) *Worker {
	if config.BatchStep == 0 {
		config.BatchStep = 1
	}
	return &Worker{
		id:      id,
		config:  config,
		gen:     gen,
		matcher: NewMatcher(config.Criteria),
		encoder: crypto.NewEncoder(),
		shared:  shared,
	}
}

// Check renders the candidate's address in display form and tests it against the criteria.
func (w *Worker) Check(c *types.Candidate) (string, bool) {
	address := c.Hex()
	if w.config.Criteria.Checksum {
		address = w.encoder.Encode(address)
	}
	return address, w.matcher.Matches(address)
}

// Run loops until a match is published, the stop flag is raised, or the
// attempt ceiling is reached. A generator error stops every worker.
func (w *Worker) Run() error {
	var local uint64
	defer func() {
		if local > 0 {
			w.shared.AddAttempts(local)
		}
	}()

	for {
		if w.shared.Stopped() {
			return nil
		}
		if w.shared.Attempts()+local >= w.config.MaxAttempts {
			return nil
		}

		c, err := w.gen.Generate()
		if err != nil {
			w.shared.Stop()
			return fmt.Errorf("worker %d: %w", w.id, err)
		}
		local++

		if address, ok := w.Check(c); ok {
			// losing a publish race is fine, the slot keeps the first winner
			w.shared.Publish(&types.Result{
				Address:    "0x" + address,
				PrivateKey: c.PrivateKeyHex(),
				Attempts:   w.shared.Attempts() + local,
			})
			return nil
		}

		if local >= w.config.BatchStep {
			w.shared.AddAttempts(local)
			local = 0
		}
	}
}
