package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"
)

func TestNewConfigDefaults(t *testing.T) {
	cfg := NewConfig()
	if !cfg.Search.Validation.UseChecksum {
		t.Error("checksum should be on by default")
	}
	if cfg.Performance.StepSize != 50_000 || cfg.Performance.MaxTries != 10_000_000_000 {
		t.Errorf("unexpected performance defaults: %+v", cfg.Performance)
	}
	if cfg.Performance.Threads != AutoThreads {
		t.Errorf("Threads = %q, want %q", cfg.Performance.Threads, AutoThreads)
	}
	if err := cfg.Validate(); !errors.Is(err, ErrNoTargetSpecified) {
		t.Errorf("Validate() on defaults = %v, want ErrNoTargetSpecified", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{
			name:   "prefix only",
			modify: func(c *Config) { c.Search.Patterns.Start = "69" },
		},
		{
			name:   "0x prefix stripped",
			modify: func(c *Config) { c.Search.Patterns.Start = "0xdEaD" },
		},
		{
			name:   "min zeros only",
			modify: func(c *Config) { c.Search.Validation.MinZeros = 10 },
		},
		{
			name:   "regex only",
			modify: func(c *Config) { c.Search.Patterns.Regex = "^(dead|beef)" },
		},
		{
			name:    "non-hex prefix",
			modify:  func(c *Config) { c.Search.Patterns.Start = "xyz" },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "non-hex suffix",
			modify:  func(c *Config) { c.Search.Patterns.End = "g0" },
			wantErr: ErrInvalidConfig,
		},
		{
			name: "uppercase without checksum",
			modify: func(c *Config) {
				c.Search.Patterns.Start = "DEAD"
				c.Search.Validation.UseChecksum = false
			},
			wantErr: ErrInvalidConfig,
		},
		{
			name: "too long",
			modify: func(c *Config) {
				c.Search.Patterns.Start = "00000000000000000000"
				c.Search.Patterns.End = "000000000000000000000"
			},
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "min zeros out of range",
			modify:  func(c *Config) { c.Search.Validation.MinZeros = 41 },
			wantErr: ErrInvalidConfig,
		},
		{
			name:    "bad regex",
			modify:  func(c *Config) { c.Search.Patterns.Regex = "([" },
			wantErr: ErrInvalidConfig,
		},
		{
			name: "zero step",
			modify: func(c *Config) {
				c.Search.Patterns.Start = "1"
				c.Performance.StepSize = 0
			},
			wantErr: ErrInvalidConfig,
		},
		{
			name: "zero max tries",
			modify: func(c *Config) {
				c.Search.Patterns.Start = "1"
				c.Performance.MaxTries = 0
			},
			wantErr: ErrInvalidConfig,
		},
		{
			name: "zero interval",
			modify: func(c *Config) {
				c.Search.Patterns.Start = "1"
				c.Performance.LogIntervalMs = 0
			},
			wantErr: ErrInvalidConfig,
		},
		{
			name: "bad threads",
			modify: func(c *Config) {
				c.Search.Patterns.Start = "1"
				c.Performance.Threads = "lots"
			},
			wantErr: ErrInvalidConfig,
		},
		{
			name: "negative threads",
			modify: func(c *Config) {
				c.Search.Patterns.Start = "1"
				c.Performance.Threads = "-2"
			},
			wantErr: ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil && err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestResolveWorkers(t *testing.T) {
	tests := []struct {
		threads Threads
		want    int
	}{
		{"auto", runtime.NumCPU()},
		{"AUTO", runtime.NumCPU()},
		{"", runtime.NumCPU()},
		{"3", 3},
		{" 12 ", 12},
	}

	for _, tt := range tests {
		cfg := NewConfig()
		cfg.Performance.Threads = tt.threads
		got, err := cfg.ResolveWorkers()
		if err != nil {
			t.Fatalf("ResolveWorkers(%q) failed: %v", tt.threads, err)
		}
		if got != tt.want {
			t.Errorf("ResolveWorkers(%q) = %d, want %d", tt.threads, got, tt.want)
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[search.patterns]
start = "0x69"
end = "6969"
regex = "^69"

[search.validation]
use_checksum = false
min_zeros = 3

[performance]
step_size = 1000
max_tries = 5000000
log_interval_ms = 2500
threads = 6

[output]
directory = "results"

[output.files]
log = "run.log"
success_marker = "FOUND"

[security]
skip_confirmation = true

[security.entropy]
guesses_per_second = 1e9

[docker]
base_image = "alpine"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	criteria, err := cfg.Criteria()
	if err != nil {
		t.Fatalf("Criteria failed: %v", err)
	}
	if criteria.Prefix != "69" || criteria.Suffix != "6969" || criteria.MinZeros != 3 || criteria.Checksum {
		t.Errorf("unexpected criteria: %+v", criteria)
	}
	if criteria.Pattern == nil || criteria.Pattern.String() != "^69" {
		t.Errorf("Pattern = %v, want ^69", criteria.Pattern)
	}

	limits, err := cfg.Limits()
	if err != nil {
		t.Fatalf("Limits failed: %v", err)
	}
	if limits.Workers != 6 || limits.BatchStep != 1000 || limits.MaxAttempts != 5_000_000 || limits.ProgressInterval != 2500*time.Millisecond {
		t.Errorf("unexpected limits: %+v", limits)
	}

	if cfg.Output.Directory != "results" || cfg.Output.Files.Log != "run.log" || cfg.Output.Files.SuccessMarker != "FOUND" {
		t.Errorf("unexpected output: %+v", cfg.Output)
	}
	if !cfg.Security.SkipConfirmation || cfg.Security.Entropy.GuessesPerSecond != 1e9 {
		t.Errorf("unexpected security: %+v", cfg.Security)
	}
	if len(cfg.Unknown) == 0 {
		t.Error("unknown [docker] keys were not reported")
	}
	for _, key := range cfg.Unknown {
		if strings.HasPrefix(key, "output") {
			t.Errorf("output key %q reported as unknown", key)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load of a missing file should fail")
	}
}

func TestGetTargetDescription(t *testing.T) {
	cfg := NewConfig()
	if got := cfg.GetTargetDescription(); got != "unknown" {
		t.Errorf("GetTargetDescription() = %q, want unknown", got)
	}
	cfg.Search.Patterns.Start = "69"
	cfg.Search.Validation.MinZeros = 2
	if got, want := cfg.GetTargetDescription(), "prefix: 69, min zeros: 2"; got != want {
		t.Errorf("GetTargetDescription() = %q, want %q", got, want)
	}
}
