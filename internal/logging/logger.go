// Package logging provides categorized structured logging for ccboard,
// one named logger per subsystem so log lines are greppable by component.
// Logging is backed by go.uber.org/zap; this package only adds the
// category registry on top, the way codeNERD's internal/logging keyed a
// map of *log.Logger by Category — here the map holds zap.SugaredLogger
// instances instead of hand-rolled file writers.
package logging

import (
	"sync"

	"go.uber.org/zap"
)

// Category names a subsystem for log correlation.
type Category string

const (
	CategoryBoot         Category = "boot"
	CategoryPathSec      Category = "pathsec"
	CategoryParser       Category = "parser"
	CategorySettings     Category = "settings"
	CategoryMetaCache    Category = "metacache"
	CategoryContentCache Category = "contentcache"
	CategoryDataStore    Category = "datastore"
	CategoryWatcher      Category = "watcher"
	CategoryEventBus     Category = "eventbus"
	CategoryQuery        Category = "query"
	CategoryAnalytics    Category = "analytics"
)

var (
	mu       sync.RWMutex
	base     *zap.Logger
	loggers  = make(map[Category]*zap.SugaredLogger)
	initDone bool
)

// Init builds the shared zap core. debug selects a development config
// (console encoding, debug level) over the production config (JSON,
// info level). Safe to call once at process startup; subsequent calls
// are no-ops so tests can call it defensively.
func Init(debug bool) error {
	mu.Lock()
	defer mu.Unlock()
	if initDone {
		return nil
	}

	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	l, err := cfg.Build()
	if err != nil {
		return err
	}
	base = l
	initDone = true
	return nil
}

// Get returns (or lazily creates) the logger for category. If Init has
// not been called yet, a no-op logger is returned so packages can log
// unconditionally without nil-checking.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	if l, ok := loggers[category]; ok {
		mu.RUnlock()
		return l
	}
	mu.RUnlock()

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	root := base
	if root == nil {
		root = zap.NewNop()
	}
	l := root.Sugar().With("component", string(category))
	loggers[category] = l
	return l
}

// Sync flushes all buffered log entries. Call on shutdown.
func Sync() {
	mu.RLock()
	defer mu.RUnlock()
	if base != nil {
		_ = base.Sync()
	}
}
