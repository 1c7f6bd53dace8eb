// Package appconfig holds process-wide knobs that are not sourced from
// the assistant's own settings layers: the corpus root, resource caps
// from the concurrency model, and the environment variables the CLI
// collaborator recognizes. Structured the way codeNERD's internal/config
// composes nested sub-configs with a DefaultConfig constructor.
package appconfig

import (
	"os"
	"path/filepath"
	"runtime"
	"time"
)

// Config is the effective process configuration.
type Config struct {
	// CorpusRoot is the directory the assistant persists sessions under.
	CorpusRoot string

	// NonInteractive fails instead of prompting (CCBOARD_NON_INTERACTIVE).
	NonInteractive bool

	// Format forces output format for CLI collaborators (CCBOARD_FORMAT).
	Format string

	// NoColor disables styling for CLI collaborators (CCBOARD_NO_COLOR).
	NoColor bool

	Limits ResourceLimits
}

// ResourceLimits mirrors spec §5's resource caps so every component reads
// its bound from one place instead of hard-coding magic numbers.
type ResourceLimits struct {
	// MaxLineBytes bounds a single JSONL line; longer lines are skipped.
	MaxLineBytes int64

	// InitialLoadConcurrency caps the initial-load worker pool.
	InitialLoadConcurrency int

	// ContentCacheBudgetBytes bounds the session content cache.
	ContentCacheBudgetBytes int64

	// ContentCacheIdle evicts content-cache entries idle longer than this.
	ContentCacheIdle time.Duration

	// EventBusCapacity bounds the event bus broadcast buffer.
	EventBusCapacity int

	// PageSizeCap bounds list_sessions pagination.
	PageSizeCap int

	// DebounceBase is the watcher's base debounce window.
	DebounceBase time.Duration

	// DebounceMax is the watcher's adaptive debounce ceiling.
	DebounceMax time.Duration

	// StatsParseRetries and StatsParseBudget bound the stats-file retry loop.
	StatsParseRetries int
	StatsParseBudget  time.Duration
}

// DefaultResourceLimits returns the caps named in spec §5.
func DefaultResourceLimits() ResourceLimits {
	return ResourceLimits{
		MaxLineBytes:            10 * 1024 * 1024,
		InitialLoadConcurrency:  defaultConcurrency(),
		ContentCacheBudgetBytes: 100 * 1024 * 1024,
		ContentCacheIdle:        5 * time.Minute,
		EventBusCapacity:        256,
		PageSizeCap:             100,
		DebounceBase:            500 * time.Millisecond,
		DebounceMax:             2 * time.Second,
		StatsParseRetries:       3,
		StatsParseBudget:        1 * time.Second,
	}
}

func defaultConcurrency() int {
	n := runtime.NumCPU()
	if n > 16 {
		return 16
	}
	if n < 1 {
		return 1
	}
	return n
}

// FromEnv builds a Config from environment variables, falling back to
// ~/.claude for the corpus root when CCBOARD_CLAUDE_HOME is unset.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Limits: DefaultResourceLimits(),
	}

	if root := os.Getenv("CCBOARD_CLAUDE_HOME"); root != "" {
		cfg.CorpusRoot = root
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		cfg.CorpusRoot = filepath.Join(home, ".claude")
	}

	cfg.NonInteractive = os.Getenv("CCBOARD_NON_INTERACTIVE") == "1"
	cfg.Format = os.Getenv("CCBOARD_FORMAT")
	cfg.NoColor = os.Getenv("CCBOARD_NO_COLOR") == "1"

	return cfg, nil
}

// CacheDir returns the derived-data directory this process owns.
func (c *Config) CacheDir() string {
	return filepath.Join(c.CorpusRoot, "cache")
}

// MetadataDBPath returns the metadata cache's sqlite file path.
func (c *Config) MetadataDBPath() string {
	return filepath.Join(c.CacheDir(), "session-metadata.db")
}
