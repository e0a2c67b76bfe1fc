package entropy

import (
	"math"
	"testing"

	"github.com/screa/hashhunter/pkg/types"
)

func TestCalculateYearsToCrackIsIncreasing(t *testing.T) {
	y32 := CalculateYearsToCrack(32)
	y64 := CalculateYearsToCrack(64)
	y128 := CalculateYearsToCrack(128)

	if !(y128 > y64 && y64 > y32 && y32 > 0) {
		t.Errorf("years not strictly increasing and positive: 32=%g 64=%g 128=%g", y32, y64, y128)
	}
	if y128 < 1e18 {
		t.Errorf("128-bit estimate %g years is implausibly small", y128)
	}
}

func TestYearsToCrack(t *testing.T) {
	// 2^40 guesses at 2^40/s takes one second
	got := YearsToCrack(40, math.Pow(2, 40))
	want := 1 / secondsPerYear
	if math.Abs(got-want)/want > 1e-9 {
		t.Errorf("YearsToCrack(40, 2^40) = %g, want %g", got, want)
	}

	if YearsToCrack(10, 0) != YearsToCrack(10, DefaultGuessesPerSecond) {
		t.Error("non-positive rate should fall back to the default")
	}
}

func TestBits(t *testing.T) {
	tests := []struct {
		chars int
		want  int
	}{
		{0, 0},
		{1, 4},
		{16, 64},
		{40, 160},
		{-3, 0},
	}

	for _, tt := range tests {
		if got := Bits(tt.chars); got != tt.want {
			t.Errorf("Bits(%d) = %d, want %d", tt.chars, got, tt.want)
		}
	}
}

func TestEstimate(t *testing.T) {
	tests := []struct {
		name         string
		criteria     types.SearchCriteria
		wantChars    int
		wantAttempts float64
	}{
		{
			name:         "no constraints",
			criteria:     types.SearchCriteria{},
			wantChars:    0,
			wantAttempts: 1,
		},
		{
			name:         "lowercase prefix and suffix",
			criteria:     types.SearchCriteria{Prefix: "69", Suffix: "abc"},
			wantChars:    5,
			wantAttempts: math.Pow(16, 5),
		},
		{
			name:         "checksum letters cost double",
			criteria:     types.SearchCriteria{Prefix: "dE", Suffix: "00", Checksum: true},
			wantChars:    4,
			wantAttempts: math.Pow(16, 4) * 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Estimate(tt.criteria, 0)
			if r.ConstrainedChars != tt.wantChars {
				t.Errorf("ConstrainedChars = %d, want %d", r.ConstrainedChars, tt.wantChars)
			}
			if r.Bits != tt.wantChars*4 {
				t.Errorf("Bits = %d, want %d", r.Bits, tt.wantChars*4)
			}
			if r.ExpectedAttempts != tt.wantAttempts {
				t.Errorf("ExpectedAttempts = %g, want %g", r.ExpectedAttempts, tt.wantAttempts)
			}
			if r.Caveat == "" {
				t.Error("report must carry the approximation caveat")
			}
		})
	}
}
