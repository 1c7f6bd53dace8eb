// Package statsparse reads the corpus's stats-cache.json aggregate, with
// a short retry loop to tolerate the assistant rewriting the file while
// the core is reading it.
package statsparse

import (
	"encoding/json"
	"os"
	"time"

	"ccboard/internal/corpuserr"
	"ccboard/internal/logging"
)

// ModelBreakdown is one model's share of the corpus-wide totals.
type ModelBreakdown struct {
	Model         string
	SessionCount  int
	InputTokens   int64
	OutputTokens  int64
	CacheReadTokens  int64
	CacheWriteTokens int64
	CostUSD       float64
}

// ProjectBreakdown is one project's share of the corpus-wide totals.
type ProjectBreakdown struct {
	ProjectPath  string
	SessionCount int
	CostUSD      float64
}

// Snapshot is the corpus-wide aggregate (spec §3 StatsSnapshot).
type Snapshot struct {
	TotalSessions    int
	InputTokens      int64
	OutputTokens     int64
	CacheReadTokens  int64
	CacheWriteTokens int64
	TotalCostUSD     float64
	ByModel          []ModelBreakdown
	ByProject        []ProjectBreakdown
}

// wireFormat mirrors the on-disk stats-cache.json shape. Unknown fields
// are tolerated implicitly: json.Unmarshal drops anything not named here.
type wireFormat struct {
	TotalSessions int `json:"total_sessions"`
	Tokens        struct {
		Input      int64 `json:"input"`
		Output     int64 `json:"output"`
		CacheRead  int64 `json:"cache_read"`
		CacheWrite int64 `json:"cache_write"`
	} `json:"tokens"`
	TotalCostUSD float64 `json:"total_cost_usd"`
	ByModel      []struct {
		Model        string  `json:"model"`
		SessionCount int     `json:"session_count"`
		InputTokens  int64   `json:"input_tokens"`
		OutputTokens int64   `json:"output_tokens"`
		CacheRead    int64   `json:"cache_read_tokens"`
		CacheWrite   int64   `json:"cache_write_tokens"`
		CostUSD      float64 `json:"cost_usd"`
	} `json:"by_model"`
	ByProject []struct {
		ProjectPath  string  `json:"project_path"`
		SessionCount int     `json:"session_count"`
		CostUSD      float64 `json:"cost_usd"`
	} `json:"by_project"`
}

// RetryOptions bounds the retry loop.
type RetryOptions struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Budget      time.Duration
}

// DefaultRetryOptions matches spec §4.2's stats parser: 3 attempts with
// a 50ms then 100ms backoff between them, 1s total wall-clock budget.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{MaxAttempts: 3, BaseDelay: 50 * time.Millisecond, Budget: 1 * time.Second}
}

// Parse reads and decodes path, retrying on transient I/O or parse
// failure (the assistant may be mid-rewrite) with exponential backoff.
// On final failure it returns a default-valued Snapshot and the last
// error, so callers can record the failure in the load report without
// blocking startup — the stats parser never aborts the process.
func Parse(path string, opts RetryOptions) (Snapshot, error) {
	log := logging.Get(logging.CategoryParser)
	deadline := time.Now().Add(opts.Budget)
	delay := opts.BaseDelay

	var lastErr error
	for attempt := 1; attempt <= opts.MaxAttempts; attempt++ {
		snap, err := parseOnce(path)
		if err == nil {
			return snap, nil
		}
		lastErr = err
		log.Debugw("stats parse attempt failed", "path", path, "attempt", attempt, "error", err)

		if attempt == opts.MaxAttempts || time.Now().Add(delay).After(deadline) {
			break
		}
		time.Sleep(delay)
		delay *= 2
	}

	log.Warnw("stats parse exhausted retries, using default snapshot", "path", path, "error", lastErr)
	return Snapshot{}, corpuserr.New(corpuserr.Parse, path, lastErr).
		WithSuggestion("ensure stats-cache.json is valid JSON")
}

func parseOnce(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, err
	}
	var wf wireFormat
	if err := json.Unmarshal(data, &wf); err != nil {
		return Snapshot{}, err
	}

	snap := Snapshot{
		TotalSessions:    wf.TotalSessions,
		InputTokens:      wf.Tokens.Input,
		OutputTokens:     wf.Tokens.Output,
		CacheReadTokens:  wf.Tokens.CacheRead,
		CacheWriteTokens: wf.Tokens.CacheWrite,
		TotalCostUSD:     wf.TotalCostUSD,
	}
	for _, m := range wf.ByModel {
		snap.ByModel = append(snap.ByModel, ModelBreakdown{
			Model: m.Model, SessionCount: m.SessionCount,
			InputTokens: m.InputTokens, OutputTokens: m.OutputTokens,
			CacheReadTokens: m.CacheRead, CacheWriteTokens: m.CacheWrite,
			CostUSD: m.CostUSD,
		})
	}
	for _, p := range wf.ByProject {
		snap.ByProject = append(snap.ByProject, ProjectBreakdown{
			ProjectPath: p.ProjectPath, SessionCount: p.SessionCount, CostUSD: p.CostUSD,
		})
	}
	return snap, nil
}
