package main

import (
	"context"

	"ccboard/internal/appconfig"
	"ccboard/internal/contentcache"
)

// cmdContext is the root context for the one-shot CLI's initial load.
// A future long-running mode (TUI/HTTP collaborator) would thread a
// cancellable context through signal handling instead.
func cmdContext() context.Context {
	return context.Background()
}

func newContentCache(cfg *appconfig.Config) *contentcache.Cache {
	return contentcache.New(cfg.Limits.ContentCacheBudgetBytes, cfg.Limits.ContentCacheIdle)
}
