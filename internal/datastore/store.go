// Package datastore is the central orchestrator named in spec §4.6: it
// owns the concurrent session index, the stats snapshot, the merged
// settings and its dependent parsed views, and drives the initial
// bounded-concurrency corpus scan. Grounded on codeNERD's
// internal/store.LocalStore, which composes the same shape (a concurrent
// index behind RWMutex-guarded slots, one shared metadata cache handle,
// one event sink) for its world-file cache; generalized here to
// session-metadata semantics and a golang.org/x/sync/semaphore worker
// pool in place of that store's fixed goroutine fan-out.
package datastore

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"ccboard/internal/appconfig"
	"ccboard/internal/catalog"
	"ccboard/internal/corpuserr"
	"ccboard/internal/eventbus"
	"ccboard/internal/hooksdef"
	"ccboard/internal/logging"
	"ccboard/internal/mcpregistry"
	"ccboard/internal/metacache"
	"ccboard/internal/sessionparse"
	"ccboard/internal/settings"
	"ccboard/internal/statsparse"
)

// DerivedSettings bundles the merged configuration with the parsed views
// that depend on it, so a single RWMutex slot covers all of them at once
// (spec §4.6: "reader/writer-protected slot for the current
// MergedSettings and dependent parsed views").
type DerivedSettings struct {
	Merged     *settings.Merged
	Hooks      []hooksdef.Definition
	Agents     []catalog.Definition
	Commands   []catalog.Definition
	Skills     []catalog.Definition
	MCPServers []mcpregistry.Entry
}

// Store is the Data Store. Zero value is not usable; construct with New.
type Store struct {
	cfg   *appconfig.Config
	cache *metacache.Cache
	bus   *eventbus.Bus

	sessionsMu sync.RWMutex
	sessions   map[string]*sessionparse.SessionMetadata

	statsMu sync.RWMutex
	stats   *statsparse.Snapshot

	settingsMu sync.RWMutex
	settingsV  *DerivedSettings

	reportMu sync.RWMutex
	report   *LoadReport
}

// New constructs a Store over cfg, sharing cache and bus with the rest of
// the process. No I/O happens until InitialLoad is called.
func New(cfg *appconfig.Config, cache *metacache.Cache, bus *eventbus.Bus) *Store {
	return &Store{
		cfg:      cfg,
		cache:    cache,
		bus:      bus,
		sessions: make(map[string]*sessionparse.SessionMetadata),
	}
}

// InitialLoad performs the first corpus-wide scan: loads settings, stats,
// and every session file, publishing LoadStarted then LoadCompleted
// (spec §4.6 initial_load). Cancelling ctx truncates the session scan;
// files already parsed before cancellation remain in the index — a
// best-effort cancellation, never a rollback.
func (s *Store) InitialLoad(ctx context.Context) (*LoadReport, error) {
	log := logging.Get(logging.CategoryDataStore)
	s.bus.Publish(eventbus.Event{Kind: eventbus.LoadStarted})

	rb := &reportBuilder{}

	settingsLoaded := s.loadSettingsLocked()
	statsLoaded := s.loadStatsLocked()

	paths := enumerateSessionFiles(s.cfg.CorpusRoot)
	s.scanSessions(ctx, paths, rb)

	rep := rb.build(statsLoaded, settingsLoaded)
	s.reportMu.Lock()
	s.report = rep
	s.reportMu.Unlock()

	log.Infow("initial load complete", "run_id", rep.RunID, "scanned", rep.SessionsScanned, "failed", rep.SessionsFailed)
	s.bus.Publish(eventbus.Event{Kind: eventbus.LoadCompleted, Report: rep})
	return rep, nil
}

// scanSessions parses paths through a bounded worker pool (cap: physical
// cores, per spec §5), each worker consulting the metadata cache before
// parsing. ctx cancellation stops new work from starting but lets
// in-flight parses finish.
func (s *Store) scanSessions(ctx context.Context, paths []string, rb *reportBuilder) {
	limit := int64(s.cfg.Limits.InitialLoadConcurrency)
	if limit < 1 {
		limit = 1
	}
	sem := semaphore.NewWeighted(limit)
	var wg sync.WaitGroup

	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer sem.Release(1)
			s.loadOneSession(path, rb)
		}(path)
	}
	wg.Wait()
}

// loadOneSession is the per-file body of the initial-load worker (spec
// §4.6 initial-load algorithm): cache lookup, parse-on-miss,
// asynchronous cache write, index insert.
func (s *Store) loadOneSession(path string, rb *reportBuilder) {
	log := logging.Get(logging.CategoryDataStore)

	if _, err := os.Stat(path); err != nil {
		log.Debugw("session file vanished before scan, treating as transient", "path", path, "error", err)
		return
	}

	meta, ok := s.cache.Get(path)
	if !ok {
		var err error
		meta, err = sessionparse.ParseSessionFile(path, sessionparse.ParseOptions{MaxLineBytes: s.cfg.Limits.MaxLineBytes})
		if kind, isCorpusErr := corpuserr.KindOf(err); isCorpusErr && kind == corpuserr.Empty {
			// Empty per spec §4.6 edge cases: still index a zero-record
			// entry, not a failure.
			rb.recordSuccess()
		} else if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				log.Debugw("session file vanished during parse, treating as transient", "path", path)
				return
			}
			rb.recordFailure(path, err)
			return
		} else {
			rb.recordSuccess()
		}
		go s.cache.Put(path, meta)
	} else {
		rb.recordSuccess()
	}

	s.sessionsMu.Lock()
	s.sessions[path] = meta
	s.sessionsMu.Unlock()
}

// loadSettingsLocked re-reads and re-merges the four settings layers plus
// their dependent views, replacing the settings slot.
func (s *Store) loadSettingsLocked() bool {
	paths := settings.DefaultPaths(s.cfg.CorpusRoot, "")
	merged, err := settings.Load(settings.Tree{}, paths)
	if err != nil {
		logging.Get(logging.CategoryDataStore).Warnw("settings load failed", "error", err)
		return false
	}

	derived := &DerivedSettings{
		Merged:     merged,
		Hooks:      hooksdef.Parse(merged.Effective, s.cfg.CorpusRoot),
		Agents:     catalog.ScanAgents(s.cfg.CorpusRoot),
		Commands:   catalog.ScanCommands(s.cfg.CorpusRoot),
		Skills:     catalog.ScanSkills(s.cfg.CorpusRoot),
		MCPServers: mcpregistry.Load(merged.Effective, s.cfg.CorpusRoot),
	}

	s.settingsMu.Lock()
	s.settingsV = derived
	s.settingsMu.Unlock()
	return true
}

// loadStatsLocked re-parses the stats-cache.json file, replacing the
// stats slot.
func (s *Store) loadStatsLocked() bool {
	path := filepath.Join(s.cfg.CorpusRoot, "stats-cache.json")
	snap, err := statsparse.Parse(path, statsparse.RetryOptions{
		MaxAttempts: s.cfg.Limits.StatsParseRetries,
		BaseDelay:   50 * time.Millisecond,
		Budget:      s.cfg.Limits.StatsParseBudget,
	})
	loaded := err == nil

	s.statsMu.Lock()
	s.stats = &snap
	s.statsMu.Unlock()
	return loaded
}

// ReloadStats re-parses the stats file and publishes StatsUpdated (spec
// §4.6 reload_stats).
func (s *Store) ReloadStats() {
	s.loadStatsLocked()
	s.bus.Publish(eventbus.Event{Kind: eventbus.StatsUpdated})
}

// ReloadSettings re-reads and re-merges the four layers and publishes
// ConfigChanged (spec §4.6 reload_settings).
func (s *Store) ReloadSettings() {
	s.loadSettingsLocked()
	s.bus.Publish(eventbus.Event{Kind: eventbus.ConfigChanged, Scope: "settings"})
}

// UpdateSession re-parses one session file through the cache and upserts
// it into the index, publishing SessionCreated or SessionUpdated
// depending on whether it was already present (spec §4.6 update_session).
func (s *Store) UpdateSession(path string) error {
	_, existed := s.GetSession(path)

	meta, err := sessionparse.ParseSessionFile(path, sessionparse.ParseOptions{MaxLineBytes: s.cfg.Limits.MaxLineBytes})
	if err != nil {
		kind, isCorpusErr := corpuserr.KindOf(err)
		if !isCorpusErr || kind != corpuserr.Empty {
			return err
		}
	}
	s.cache.Put(path, meta)

	s.sessionsMu.Lock()
	s.sessions[path] = meta
	s.sessionsMu.Unlock()

	kind := eventbus.SessionCreated
	if existed {
		kind = eventbus.SessionUpdated
	}
	s.bus.Publish(eventbus.Event{Kind: kind, Path: path})
	return nil
}

// RemoveSession deletes path from the index and cache and publishes
// SessionRemoved (spec §4.6 remove_session). The index delete is a map
// operation, but the cache invalidation is a synchronous sqlite delete
// that this call waits on before publishing.
func (s *Store) RemoveSession(path string) {
	s.sessionsMu.Lock()
	delete(s.sessions, path)
	s.sessionsMu.Unlock()

	s.cache.Invalidate(path)
	s.bus.Publish(eventbus.Event{Kind: eventbus.SessionRemoved, Path: path})
}

// GetSession returns a shared handle to the session at path, if indexed.
func (s *Store) GetSession(path string) (*sessionparse.SessionMetadata, bool) {
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()
	meta, ok := s.sessions[path]
	return meta, ok
}

// SessionsByProject groups the index by project path (spec §4.6
// sessions_by_project).
func (s *Store) SessionsByProject() map[string][]*sessionparse.SessionMetadata {
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()

	out := make(map[string][]*sessionparse.SessionMetadata)
	for _, meta := range s.sessions {
		out[meta.ProjectPath] = append(out[meta.ProjectPath], meta)
	}
	return out
}

// RecentSessions returns the top-n sessions by last timestamp, most
// recent first (spec §4.6 recent_sessions).
func (s *Store) RecentSessions(n int) []*sessionparse.SessionMetadata {
	s.sessionsMu.RLock()
	all := make([]*sessionparse.SessionMetadata, 0, len(s.sessions))
	for _, meta := range s.sessions {
		all = append(all, meta)
	}
	s.sessionsMu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return lastTimestamp(all[i]).After(lastTimestamp(all[j]))
	})
	if n >= 0 && n < len(all) {
		all = all[:n]
	}
	return all
}

func lastTimestamp(m *sessionparse.SessionMetadata) time.Time {
	if m.LastTimestamp == nil {
		return time.Time{}
	}
	return *m.LastTimestamp
}

// AllSessions returns every indexed session, unordered. Used by the
// Analytics Derivations (spec §4.10), which take a full snapshot.
func (s *Store) AllSessions() []*sessionparse.SessionMetadata {
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()
	out := make([]*sessionparse.SessionMetadata, 0, len(s.sessions))
	for _, meta := range s.sessions {
		out = append(out, meta)
	}
	return out
}

// Stats returns a shared handle to the current StatsSnapshot (spec §4.6
// stats).
func (s *Store) Stats() *statsparse.Snapshot {
	s.statsMu.RLock()
	defer s.statsMu.RUnlock()
	return s.stats
}

// Settings returns a shared handle to the current DerivedSettings (spec
// §4.6 settings).
func (s *Store) Settings() *DerivedSettings {
	s.settingsMu.RLock()
	defer s.settingsMu.RUnlock()
	return s.settingsV
}

// LoadReport returns the most recent LoadReport (spec §4.6 load_report).
func (s *Store) LoadReport() *LoadReport {
	s.reportMu.RLock()
	defer s.reportMu.RUnlock()
	return s.report
}

// ActiveSessionCount counts sessions whose last record arrived within
// live (default 5 minutes), the SPEC_FULL §4.6 supplemental operation
// grounded on mrf-agent-racer's session.Store.ActiveCount.
func (s *Store) ActiveSessionCount(live time.Duration) int {
	cutoff := time.Now().Add(-live)
	s.sessionsMu.RLock()
	defer s.sessionsMu.RUnlock()

	count := 0
	for _, meta := range s.sessions {
		if meta.LastTimestamp != nil && meta.LastTimestamp.After(cutoff) {
			count++
		}
	}
	return count
}

// Bus exposes the shared event bus for subscribe_events (spec §4.9).
func (s *Store) Bus() *eventbus.Bus { return s.bus }

// Config exposes the process configuration, used by components that
// build paths relative to the corpus root (content cache, query layer).
func (s *Store) Config() *appconfig.Config { return s.cfg }
