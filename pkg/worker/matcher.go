package worker

import (
	"strings"

	"github.com/screa/hashhunter/pkg/types"
)

// Matcher evaluates a finished address against the search criteria.
// Matching is case-sensitive: with checksum mode on, callers must apply
// EIP-55 casing before calling Matches.
type Matcher struct {
	criteria types.SearchCriteria
}

// NewMatcher creates a matcher for the given criteria
func NewMatcher(criteria types.SearchCriteria) *Matcher {
	return &Matcher{criteria: criteria}
}

// Matches reports whether the 40-character address body (no 0x) satisfies every constraint.
func (m *Matcher) Matches(address string) bool {
	if m.criteria.Prefix != "" && !strings.HasPrefix(address, m.criteria.Prefix) {
		return false
	}
	if m.criteria.Suffix != "" && !strings.HasSuffix(address, m.criteria.Suffix) {
		return false
	}
	if m.criteria.MinZeros > 0 && strings.Count(address, "0") < m.criteria.MinZeros {
		return false
	}
	if m.criteria.Pattern != nil && !m.criteria.Pattern.MatchString(address) {
		return false
	}
	return true
}
