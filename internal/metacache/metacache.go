// Package metacache is the durable metadata cache (spec §4.4): a single
// sqlite file keyed by canonical session path, invalidated by mtime, that
// turns a tens-of-seconds cold start into a sub-second warm start.
//
// Grounded on codeNERD's internal/store.LocalStore bootstrap sequence —
// single connection, WAL journal mode, busy_timeout, a path-keyed table
// mirroring that store's world_files cache table — generalized to the
// session-metadata schema this spec names.
package metacache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"ccboard/internal/corpuserr"
	"ccboard/internal/logging"
	"ccboard/internal/sessionparse"
)

// CurrentSchemaVersion is bumped whenever SessionMetadata's field set or
// serialization changes, so a stale cache is rebuilt rather than
// misinterpreted (spec "schema-versioned persistent cache" design note).
const CurrentSchemaVersion = 1

// Cache is the metadata cache. All access is serialized behind mu: sqlite
// access is rare on the hot path (only startup and file-change events),
// so one mutex is acceptable per spec §5.
type Cache struct {
	mu   sync.Mutex
	db   *sql.DB
	path string
}

// Open creates or opens the cache database at path, rebuilding it from
// scratch if the schema version row is missing or stale, or if the file
// is corrupt.
func Open(path string) (*Cache, error) {
	log := logging.Get(logging.CategoryMetaCache)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, corpuserr.New(corpuserr.CacheError, path, err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, corpuserr.New(corpuserr.CacheError, path, err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		log.Debugw("failed to set busy_timeout", "error", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		log.Debugw("failed to set journal_mode=WAL", "error", err)
	}
	if _, err := db.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		log.Debugw("failed to set synchronous=NORMAL", "error", err)
	}

	c := &Cache{db: db, path: path}
	if err := c.ensureSchema(); err != nil {
		log.Warnw("metadata cache corrupt or unreadable, rebuilding", "path", path, "error", err)
		db.Close()
		if rebuildErr := rebuild(path); rebuildErr != nil {
			return nil, corpuserr.New(corpuserr.CacheError, path, rebuildErr)
		}
		return Open(path)
	}

	return c, nil
}

func rebuild(path string) error {
	for _, suffix := range []string{"", "-wal", "-shm"} {
		_ = os.Remove(path + suffix)
	}
	return nil
}

func (c *Cache) ensureSchema() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
		CREATE TABLE IF NOT EXISTS sessions (
			path               TEXT PRIMARY KEY,
			mtime              INTEGER NOT NULL,
			session_id         TEXT,
			project            TEXT,
			first_timestamp    INTEGER,
			last_timestamp     INTEGER,
			message_count      INTEGER,
			total_tokens       INTEGER,
			models_json        TEXT,
			has_subagents      INTEGER,
			first_user_message TEXT,
			payload            BLOB
		);
		CREATE INDEX IF NOT EXISTS idx_sessions_project ON sessions(project);
		CREATE INDEX IF NOT EXISTS idx_sessions_mtime ON sessions(mtime);
	`)
	if err != nil {
		return err
	}

	var versionStr string
	row := c.db.QueryRow(`SELECT value FROM schema_meta WHERE key = 'schema_version'`)
	switch err := row.Scan(&versionStr); err {
	case sql.ErrNoRows:
		_, err := c.db.Exec(`INSERT INTO schema_meta(key, value) VALUES ('schema_version', ?)`, fmt.Sprint(CurrentSchemaVersion))
		return err
	case nil:
		if versionStr != fmt.Sprint(CurrentSchemaVersion) {
			return fmt.Errorf("schema version mismatch: have %s, want %d", versionStr, CurrentSchemaVersion)
		}
		return nil
	default:
		return err
	}
}

// Close releases the underlying database handle.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.db.Close()
}

// payload is the JSON-serialized form of fields not worth their own
// column (git branch, tool-call count, token breakdown) stored in the
// payload BLOB.
type payload struct {
	GitBranch     string `json:"git_branch"`
	ToolCallCount int    `json:"tool_call_count"`
	Input         int64  `json:"input_tokens"`
	Output        int64  `json:"output_tokens"`
	CacheRead     int64  `json:"cache_read_tokens"`
	CacheWrite    int64  `json:"cache_write_tokens"`
}

// Get returns the cached metadata for path iff its stored mtime equals
// the file's current on-disk mtime. Any discrepancy — including the
// file no longer existing — returns (nil, false), never an error: a
// cache miss is a normal, expected outcome.
func (c *Cache) Get(path string) (*sessionparse.SessionMetadata, bool) {
	log := logging.Get(logging.CategoryMetaCache)

	info, err := os.Stat(path)
	if err != nil {
		return nil, false
	}
	currentMtime := info.ModTime().UnixNano()

	c.mu.Lock()
	defer c.mu.Unlock()

	row := c.db.QueryRow(`
		SELECT mtime, session_id, project, first_timestamp, last_timestamp,
		       message_count, total_tokens, models_json, has_subagents,
		       first_user_message, payload
		FROM sessions WHERE path = ?`, path)

	var (
		storedMtime                      int64
		sessionID, project, modelsJSON   string
		firstTS, lastTS                  sql.NullInt64
		messageCount                     int
		totalTokens                      int64
		hasSubagents                     int
		firstUserMessage                 string
		payloadBlob                      []byte
	)
	if err := row.Scan(&storedMtime, &sessionID, &project, &firstTS, &lastTS,
		&messageCount, &totalTokens, &modelsJSON, &hasSubagents,
		&firstUserMessage, &payloadBlob); err != nil {
		return nil, false
	}

	if storedMtime != currentMtime {
		return nil, false
	}

	var models []string
	if modelsJSON != "" {
		if err := json.Unmarshal([]byte(modelsJSON), &models); err != nil {
			log.Debugw("failed to decode cached models set", "path", path, "error", err)
		}
	}
	var p payload
	if len(payloadBlob) > 0 {
		if err := json.Unmarshal(payloadBlob, &p); err != nil {
			log.Debugw("failed to decode cached payload", "path", path, "error", err)
		}
	}

	meta := &sessionparse.SessionMetadata{
		Path:          path,
		SessionID:     sessionID,
		ProjectPath:   project,
		RecordCount:   messageCount,
		GitBranch:     p.GitBranch,
		HasSubAgents:  hasSubagents != 0,
		ToolCallCount: p.ToolCallCount,
		Models:        make(map[string]struct{}, len(models)),
	}
	meta.Tokens = sessionparse.TokenBreakdown{
		Input: p.Input, Output: p.Output, CacheRead: p.CacheRead, CacheWrite: p.CacheWrite,
	}
	if meta.Tokens.Total() != totalTokens {
		log.Debugw("cached total_tokens column disagrees with payload breakdown", "path", path)
	}
	for _, m := range models {
		meta.Models[m] = struct{}{}
	}
	if firstTS.Valid {
		t := time.Unix(0, firstTS.Int64).UTC()
		meta.FirstTimestamp = &t
	}
	if lastTS.Valid {
		t := time.Unix(0, lastTS.Int64).UTC()
		meta.LastTimestamp = &t
	}
	meta.Preview = firstUserMessage

	return meta, true
}

// Put upserts meta by path, recording the file's current mtime.
// Idempotent: calling it twice with the same metadata leaves the row
// unchanged apart from mtime. Failures are logged and swallowed — the
// cache is an accelerator, never a source of truth, so a write failure
// (e.g. disk full) must never propagate to the caller.
func (c *Cache) Put(path string, meta *sessionparse.SessionMetadata) {
	log := logging.Get(logging.CategoryMetaCache)

	info, err := os.Stat(path)
	if err != nil {
		log.Debugw("skipping cache write, file vanished", "path", path, "error", err)
		return
	}

	modelsJSON, _ := json.Marshal(meta.ModelList())
	p := payload{
		GitBranch: meta.GitBranch, ToolCallCount: meta.ToolCallCount,
		Input: meta.Tokens.Input, Output: meta.Tokens.Output,
		CacheRead: meta.Tokens.CacheRead, CacheWrite: meta.Tokens.CacheWrite,
	}
	payloadBlob, _ := json.Marshal(p)

	var firstTS, lastTS sql.NullInt64
	if meta.FirstTimestamp != nil {
		firstTS = sql.NullInt64{Int64: meta.FirstTimestamp.UnixNano(), Valid: true}
	}
	if meta.LastTimestamp != nil {
		lastTS = sql.NullInt64{Int64: meta.LastTimestamp.UnixNano(), Valid: true}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	_, err = c.db.Exec(`
		INSERT INTO sessions (path, mtime, session_id, project, first_timestamp,
		                       last_timestamp, message_count, total_tokens,
		                       models_json, has_subagents, first_user_message, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			mtime=excluded.mtime, session_id=excluded.session_id, project=excluded.project,
			first_timestamp=excluded.first_timestamp, last_timestamp=excluded.last_timestamp,
			message_count=excluded.message_count, total_tokens=excluded.total_tokens,
			models_json=excluded.models_json, has_subagents=excluded.has_subagents,
			first_user_message=excluded.first_user_message, payload=excluded.payload
	`,
		path, info.ModTime().UnixNano(), meta.SessionID, meta.ProjectPath,
		firstTS, lastTS, meta.RecordCount, meta.TotalTokens(),
		string(modelsJSON), boolToInt(meta.HasSubAgents), meta.Preview, payloadBlob,
	)
	if err != nil {
		log.Warnw("metadata cache write failed, skipping", "path", path, "error", err)
	}
}

// Invalidate deletes the entry for path, used on file removal.
func (c *Cache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.db.Exec(`DELETE FROM sessions WHERE path = ?`, path); err != nil {
		logging.Get(logging.CategoryMetaCache).Warnw("cache invalidate failed", "path", path, "error", err)
	}
}

// Vacuum removes entries whose path no longer exists on disk.
func (c *Cache) Vacuum() error {
	c.mu.Lock()
	rows, err := c.db.Query(`SELECT path FROM sessions`)
	c.mu.Unlock()
	if err != nil {
		return corpuserr.New(corpuserr.CacheError, c.path, err)
	}
	defer rows.Close()

	var stale []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			continue
		}
		if _, err := os.Stat(p); err != nil {
			stale = append(stale, p)
		}
	}

	for _, p := range stale {
		c.Invalidate(p)
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
