package types

import (
	"encoding/hex"
	"regexp"
	"time"
)

// Candidate is one generated key pair and its derived address
type Candidate struct {
	PrivateKey [32]byte // secret scalar, big-endian
	PublicKey  [65]byte // uncompressed: 0x04 || X || Y
	Address    [20]byte // low 20 bytes of keccak256(X || Y)
}

// Hex returns the address as 40 lowercase hex characters without 0x
func (c *Candidate) Hex() string {
	return hex.EncodeToString(c.Address[:])
}

// PrivateKeyHex returns the secret scalar as 64 lowercase hex characters
func (c *Candidate) PrivateKeyHex() string {
	return hex.EncodeToString(c.PrivateKey[:])
}

// SearchCriteria is shared read-only by every worker for the whole run
type SearchCriteria struct {
	Prefix   string         // matched against the display form, without 0x
	Suffix   string
	MinZeros int            // minimum number of '0' characters in the address body
	Pattern  *regexp.Regexp // nil when no pattern is configured
	Checksum bool           // apply EIP-55 casing before matching
}

// Limits bounds a single run
type Limits struct {
	Workers          int
	BatchStep        int    // local attempts buffered before flushing to the shared counter
	MaxAttempts      uint64 // hard ceiling across all workers
	ProgressInterval time.Duration
}

// Result represents the winning candidate
type Result struct {
	Address    string // 0x-prefixed, cased per criteria
	PrivateKey string // hex, no prefix
	Attempts   uint64 // attempt count at the moment of discovery
	Duration   time.Duration
}

// Status is the terminal state of a run
type Status int

const (
	StatusExhausted Status = iota
	StatusFound
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusExhausted:
		return "exhausted"
	default:
		return "unknown"
	}
}

// Outcome is what a run hands back to its host
type Outcome struct {
	Status   Status
	Result   *Result // nil unless Status == StatusFound
	Attempts uint64  // exact total once all workers have exited
	Verified bool    // independent re-derivation agreed with Result
	Duration time.Duration
}

// Found reports whether the run produced a result.
func (o *Outcome) Found() bool {
	return o.Status == StatusFound && o.Result != nil
}

// Progress is a snapshot handed to progress observers
type Progress struct {
	Attempts uint64
	Rate     float64 // attempts per second since start
	Elapsed  time.Duration
}
