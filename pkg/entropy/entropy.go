// Package entropy gives rough, reporting-only difficulty figures for a search.
package entropy

import (
	"math"

	"github.com/screa/hashhunter/pkg/types"
)

const (
	// DefaultGuessesPerSecond assumes an adversary testing one trillion keys per second.
	DefaultGuessesPerSecond = 1e12

	bitsPerHexChar = 4
	secondsPerYear = 365.25 * 24 * 60 * 60
)

// Caveat must accompany any figure shown to a user.
const Caveat = "estimate treats the pattern as one contiguous fixed-length window; " +
	"combined prefix, suffix, minimum-zero and regex constraints are not modelled jointly"

// Report summarises the difficulty of a set of criteria
type Report struct {
	ConstrainedChars int
	Bits             int
	YearsToCrack     float64
	ExpectedAttempts float64 // mean attempts for a single match
	Caveat           string
}

// Bits returns the entropy carried by n constrained hex characters.
func Bits(constrainedChars int) int {
	if constrainedChars < 0 {
		return 0
	}
	return constrainedChars * bitsPerHexChar
}

// YearsToCrack estimates the time to exhaust a space of 2^bits at the given guess rate.
func YearsToCrack(bits int, guessesPerSecond float64) float64 {
	if guessesPerSecond <= 0 {
		guessesPerSecond = DefaultGuessesPerSecond
	}
	return math.Pow(2, float64(bits)) / guessesPerSecond / secondsPerYear
}

// CalculateYearsToCrack is YearsToCrack at DefaultGuessesPerSecond.
func CalculateYearsToCrack(bits int) float64 {
	return YearsToCrack(bits, DefaultGuessesPerSecond)
}

// Estimate builds a Report for the given criteria.
func Estimate(criteria types.SearchCriteria, guessesPerSecond float64) Report {
	n := len(criteria.Prefix) + len(criteria.Suffix)
	bits := Bits(n)
	return Report{
		ConstrainedChars: n,
		Bits:             bits,
		YearsToCrack:     YearsToCrack(bits, guessesPerSecond),
		ExpectedAttempts: ExpectedAttempts(criteria),
		Caveat:           Caveat,
	}
}

// ExpectedAttempts is the mean number of candidates needed to satisfy the
// prefix and suffix. With checksum casing each letter also has to land on
// the requested case, which halves its odds.
func ExpectedAttempts(criteria types.SearchCriteria) float64 {
	attempts := 1.0
	for _, s := range []string{criteria.Prefix, criteria.Suffix} {
		for i := 0; i < len(s); i++ {
			attempts *= 16
			if criteria.Checksum && isHexLetter(s[i]) {
				attempts *= 2
			}
		}
	}
	return attempts
}

func isHexLetter(c byte) bool {
	return (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}
