package config

import (
	"errors"
	"fmt"
	"regexp"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/screa/hashhunter/internal/crypto"
	"github.com/screa/hashhunter/pkg/entropy"
	"github.com/screa/hashhunter/pkg/types"
)

// Errors
var (
	ErrNoTargetSpecified = errors.New("must specify at least one of --prefix, --suffix, --min-zeros or --regex")
	ErrInvalidConfig     = errors.New("invalid configuration")
)

// AutoThreads selects one worker per logical CPU
const AutoThreads = "auto"

// Config holds the application configuration
type Config struct {
	Search      Search      `toml:"search"`
	Performance Performance `toml:"performance"`
	Output      Output      `toml:"output"`
	Security    Security    `toml:"security"`

	// Command-line only
	Verbose bool     `toml:"-"`
	LogFile string   `toml:"-"`
	Unknown []string `toml:"-"` // keys in the config file that were not recognised
}

// Search holds what to look for
type Search struct {
	Patterns   Patterns   `toml:"patterns"`
	Validation Validation `toml:"validation"`
}

// Patterns are matched against the address body, without 0x
type Patterns struct {
	Start string `toml:"start"`
	End   string `toml:"end"`
	Regex string `toml:"regex"`
}

// Validation holds the checksum and zero-count constraints
type Validation struct {
	UseChecksum bool `toml:"use_checksum"`
	MinZeros    int  `toml:"min_zeros"`
}

// Performance holds the worker pool limits
type Performance struct {
	StepSize      int     `toml:"step_size"`
	MaxTries      uint64  `toml:"max_tries"`
	LogIntervalMs int     `toml:"log_interval_ms"`
	Threads       Threads `toml:"threads"`
}

// Output controls where the host persists results
type Output struct {
	Directory string `toml:"directory"`
	Files     Files  `toml:"files"`
}

// Files are named relative to the output directory
type Files struct {
	Log           string `toml:"log"`
	SuccessMarker string `toml:"success_marker"`
}

// Security holds the prompt and entropy-report settings
type Security struct {
	SkipConfirmation bool    `toml:"skip_confirmation"`
	Entropy          Entropy `toml:"entropy"`
}

// Entropy configures the crack-time estimate
type Entropy struct {
	GuessesPerSecond float64 `toml:"guesses_per_second"`
}

// Threads is "auto" or a positive worker count
type Threads string

// UnmarshalTOML accepts both threads = "auto" and threads = 8.
func (t *Threads) UnmarshalTOML(v interface{}) error {
	switch x := v.(type) {
	case string:
		*t = Threads(strings.TrimSpace(x))
	case int64:
		*t = Threads(strconv.FormatInt(x, 10))
	default:
		return fmt.Errorf("threads must be %q or an integer, got %T", AutoThreads, v)
	}
	return nil
}

// NewConfig creates a new configuration with default values
func NewConfig() *Config {
	return &Config{
		Search: Search{
			Validation: Validation{UseChecksum: true},
		},
		Performance: Performance{
			StepSize:      50_000,
			MaxTries:      10_000_000_000,
			LogIntervalMs: 15_000,
			Threads:       AutoThreads,
		},
		Output: Output{
			Directory: "gen",
			Files: Files{
				Log:           "hunter.log",
				SuccessMarker: "SUCCESS",
			},
		},
		Security: Security{
			Entropy: Entropy{GuessesPerSecond: entropy.DefaultGuessesPerSecond},
		},
	}
}

// Load reads a TOML config file on top of the defaults
func Load(path string) (*Config, error) {
	cfg := NewConfig()
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("loading config %s: %w", path, err)
	}
	for _, key := range md.Undecoded() {
		cfg.Unknown = append(cfg.Unknown, key.String())
	}
	return cfg, nil
}

// Normalize trims whitespace and a leading 0x from the patterns
func (c *Config) Normalize() {
	p := &c.Search.Patterns
	p.Start = crypto.TrimHexPrefix(strings.TrimSpace(p.Start))
	p.End = strings.TrimSpace(p.End)
	p.Regex = strings.TrimSpace(p.Regex)
	c.Performance.Threads = Threads(strings.ToLower(strings.TrimSpace(string(c.Performance.Threads))))
}

// Validate validates the configuration
func (c *Config) Validate() error {
	c.Normalize()
	p := c.Search.Patterns
	v := c.Search.Validation

	if p.Start == "" && p.End == "" && p.Regex == "" && v.MinZeros == 0 {
		return ErrNoTargetSpecified
	}

	for name, s := range map[string]string{"prefix": p.Start, "suffix": p.End} {
		if !isHex(s) {
			return fmt.Errorf("%w: %s %q must be hex (0-9, a-f)", ErrInvalidConfig, name, s)
		}
		if !v.UseChecksum && s != strings.ToLower(s) {
			return fmt.Errorf("%w: %s %q has uppercase letters, which only occur with checksum enabled", ErrInvalidConfig, name, s)
		}
	}
	if n := len(p.Start) + len(p.End); n > crypto.AddressHexLen {
		return fmt.Errorf("%w: prefix and suffix total %d characters, an address has %d", ErrInvalidConfig, n, crypto.AddressHexLen)
	}
	if v.MinZeros < 0 || v.MinZeros > crypto.AddressHexLen {
		return fmt.Errorf("%w: min zeros %d outside 0..%d", ErrInvalidConfig, v.MinZeros, crypto.AddressHexLen)
	}
	if p.Regex != "" {
		if _, err := regexp.Compile(p.Regex); err != nil {
			return fmt.Errorf("%w: regex: %v", ErrInvalidConfig, err)
		}
	}

	perf := c.Performance
	if perf.StepSize <= 0 {
		return fmt.Errorf("%w: step size must be positive, got %d", ErrInvalidConfig, perf.StepSize)
	}
	if perf.MaxTries == 0 {
		return fmt.Errorf("%w: max tries must be positive", ErrInvalidConfig)
	}
	if perf.LogIntervalMs <= 0 {
		return fmt.Errorf("%w: log interval must be positive, got %dms", ErrInvalidConfig, perf.LogIntervalMs)
	}
	if _, err := c.ResolveWorkers(); err != nil {
		return err
	}
	if c.Security.Entropy.GuessesPerSecond <= 0 {
		return fmt.Errorf("%w: guesses per second must be positive", ErrInvalidConfig)
	}
	return nil
}

// ResolveWorkers returns the configured worker count. "auto" falls back to
// the number of logical CPUs; an explicit count always wins.
func (c *Config) ResolveWorkers() (int, error) {
	t := strings.ToLower(strings.TrimSpace(string(c.Performance.Threads)))
	if t == "" || t == AutoThreads {
		return runtime.NumCPU(), nil
	}
	n, err := strconv.Atoi(t)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: threads must be %q or a positive integer, got %q", ErrInvalidConfig, AutoThreads, t)
	}
	return n, nil
}

// Criteria builds the search criteria. Call Validate first.
func (c *Config) Criteria() (types.SearchCriteria, error) {
	p := c.Search.Patterns
	criteria := types.SearchCriteria{
		Prefix:   p.Start,
		Suffix:   p.End,
		MinZeros: c.Search.Validation.MinZeros,
		Checksum: c.Search.Validation.UseChecksum,
	}
	if p.Regex != "" {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			return types.SearchCriteria{}, fmt.Errorf("%w: regex: %v", ErrInvalidConfig, err)
		}
		criteria.Pattern = re
	}
	return criteria, nil
}

// Limits builds the run limits. Call Validate first.
func (c *Config) Limits() (types.Limits, error) {
	workers, err := c.ResolveWorkers()
	if err != nil {
		return types.Limits{}, err
	}
	return types.Limits{
		Workers:          workers,
		BatchStep:        c.Performance.StepSize,
		MaxAttempts:      c.Performance.MaxTries,
		ProgressInterval: time.Duration(c.Performance.LogIntervalMs) * time.Millisecond,
	}, nil
}

// GetTargetDescription returns a human-readable description of the target
func (c *Config) GetTargetDescription() string {
	p := c.Search.Patterns
	var parts []string
	if p.Start != "" {
		parts = append(parts, "prefix: "+p.Start)
	}
	if p.End != "" {
		parts = append(parts, "suffix: "+p.End)
	}
	if n := c.Search.Validation.MinZeros; n > 0 {
		parts = append(parts, fmt.Sprintf("min zeros: %d", n))
	}
	if p.Regex != "" {
		parts = append(parts, "regex: "+p.Regex)
	}
	if len(parts) == 0 {
		return "unknown"
	}
	return strings.Join(parts, ", ")
}

func isHex(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}
