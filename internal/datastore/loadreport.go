package datastore

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"ccboard/internal/corpuserr"
)

// FailureRecord is one (path, kind, suggestion) entry in a LoadReport,
// exactly the triple spec §3 names.
type FailureRecord struct {
	Path       string
	Kind       corpuserr.Kind
	Suggestion string
}

// LoadReport is the per-load diagnostic surfaced to collaborators (spec
// §3 LoadReport / §4.6 initial_load).
type LoadReport struct {
	// RunID correlates this load's log lines and LoadCompleted event with
	// each other, distinct from any single session's SessionID.
	RunID           string
	StatsLoaded     bool
	SettingsLoaded  bool
	SessionsScanned int
	SessionsFailed  int
	Failures        []FailureRecord
}

// reportBuilder accumulates failures from concurrent workers. A plain
// mutex is enough: failures are rare relative to successes, so lock
// contention here is never the bottleneck (worker pool count is bounded
// by InitialLoadConcurrency, per spec §5).
type reportBuilder struct {
	mu      sync.Mutex
	scanned int
	failed  int
	failures []FailureRecord
}

func (r *reportBuilder) recordSuccess() {
	r.mu.Lock()
	r.scanned++
	r.mu.Unlock()
}

func (r *reportBuilder) recordFailure(path string, err error) {
	kind, ok := corpuserr.KindOf(err)
	if !ok {
		kind = corpuserr.Io
	}
	var suggestion string
	var ce *corpuserr.CorpusError
	if errors.As(err, &ce) {
		suggestion = ce.Suggestion
	}

	r.mu.Lock()
	r.scanned++
	r.failed++
	r.failures = append(r.failures, FailureRecord{Path: path, Kind: kind, Suggestion: suggestion})
	r.mu.Unlock()
}

func (r *reportBuilder) build(statsLoaded, settingsLoaded bool) *LoadReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &LoadReport{
		RunID:           uuid.NewString(),
		StatsLoaded:     statsLoaded,
		SettingsLoaded:  settingsLoaded,
		SessionsScanned: r.scanned,
		SessionsFailed:  r.failed,
		Failures:        append([]FailureRecord(nil), r.failures...),
	}
}
