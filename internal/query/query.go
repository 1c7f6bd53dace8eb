// Package query is the read-only surface consumed by a TUI or HTTP
// collaborator (spec §4.9). Every operation is non-blocking except
// SessionContent, which parses on a content-cache miss. Grounded on
// codeNERD's cmd/nerd session-listing commands for the filter/sort/page
// shape, generalized from a one-shot CLI printout to a reusable query
// surface any collaborator can call.
package query

import (
	"os"
	"sort"
	"strings"
	"time"

	"ccboard/internal/analytics"
	"ccboard/internal/catalog"
	"ccboard/internal/contentcache"
	"ccboard/internal/corpuserr"
	"ccboard/internal/datastore"
	"ccboard/internal/eventbus"
	"ccboard/internal/hooksdef"
	"ccboard/internal/mcpregistry"
	"ccboard/internal/sessionparse"
	"ccboard/internal/settings"
)

// SortOrder selects list_sessions's ordering.
type SortOrder string

const (
	SortByLastTimestamp SortOrder = "last_timestamp"
	SortByTotalTokens    SortOrder = "total_tokens"
	SortByCost          SortOrder = "cost"
)

// Filter narrows list_sessions results (spec §4.9).
type Filter struct {
	// Search substring-matches session id, project path, or preview.
	Search string
	// ProjectPrefix restricts to project paths with this prefix.
	ProjectPrefix string
	// ModelSubstring restricts to sessions that observed a matching model.
	ModelSubstring string
	// Since restricts to sessions whose last timestamp is at or after it.
	// Zero value means unbounded.
	Since time.Time
	Sort  SortOrder
}

// Page bounds an offset+limit request; Limit is clamped to pageSizeCap.
type Page struct {
	Offset int
	Limit  int
}

// Service implements the Query Interface over a Store and a content
// cache.
type Service struct {
	store       *datastore.Store
	content     *contentcache.Cache
	pageSizeCap int
}

// New constructs a query Service.
func New(store *datastore.Store, content *contentcache.Cache, pageSizeCap int) *Service {
	if pageSizeCap <= 0 {
		pageSizeCap = 100
	}
	return &Service{store: store, content: content, pageSizeCap: pageSizeCap}
}

// ListSessions applies filter, sorts, and paginates the session index
// (spec §4.9 list_sessions).
func (s *Service) ListSessions(filter Filter, page Page) ([]*sessionparse.SessionMetadata, int) {
	all := s.store.AllSessions()

	matched := make([]*sessionparse.SessionMetadata, 0, len(all))
	for _, meta := range all {
		if matches(meta, filter) {
			matched = append(matched, meta)
		}
	}

	sortSessions(matched, filter.Sort)

	total := len(matched)
	limit := page.Limit
	if limit <= 0 || limit > s.pageSizeCap {
		limit = s.pageSizeCap
	}
	offset := page.Offset
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return nil, total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total
}

func matches(meta *sessionparse.SessionMetadata, f Filter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(meta.SessionID), needle) &&
			!strings.Contains(strings.ToLower(meta.ProjectPath), needle) &&
			!strings.Contains(strings.ToLower(meta.Preview), needle) {
			return false
		}
	}
	if f.ProjectPrefix != "" && !strings.HasPrefix(meta.ProjectPath, f.ProjectPrefix) {
		return false
	}
	if f.ModelSubstring != "" {
		found := false
		needle := strings.ToLower(f.ModelSubstring)
		for _, m := range meta.ModelList() {
			if strings.Contains(strings.ToLower(m), needle) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if !f.Since.IsZero() {
		if meta.LastTimestamp == nil || meta.LastTimestamp.Before(f.Since) {
			return false
		}
	}
	return true
}

func sortSessions(sessions []*sessionparse.SessionMetadata, order SortOrder) {
	switch order {
	case SortByTotalTokens:
		sort.Slice(sessions, func(i, j int) bool { return sessions[i].TotalTokens() > sessions[j].TotalTokens() })
	case SortByCost:
		sort.Slice(sessions, func(i, j int) bool { return analytics.SessionCost(sessions[i]) > analytics.SessionCost(sessions[j]) })
	default:
		sort.Slice(sessions, func(i, j int) bool {
			return lastTimestamp(sessions[i]).After(lastTimestamp(sessions[j]))
		})
	}
}

func lastTimestamp(m *sessionparse.SessionMetadata) time.Time {
	if m.LastTimestamp == nil {
		return time.Time{}
	}
	return *m.LastTimestamp
}

// RecentSessions is a dashboard convenience wrapper (spec §4.9).
func (s *Service) RecentSessions(limit int) []*sessionparse.SessionMetadata {
	return s.store.RecentSessions(limit)
}

// SessionContent returns the fully-decoded body for a session id/path,
// consulting the content cache first (spec §4.9 session_content).
func (s *Service) SessionContent(path string) (*contentcache.Content, error) {
	if c, ok := s.content.Get(path); ok {
		return c, nil
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, corpuserr.New(corpuserr.Io, path, err)
	}

	records, err := sessionparse.ParseFullContent(path, s.store.Config().Limits.MaxLineBytes)
	if err != nil {
		return nil, err
	}

	c := &contentcache.Content{Path: path, Records: records, Bytes: info.Size()}
	s.content.Put(path, c)
	return c, nil
}

// MergedConfig returns the effective configuration with provenance and
// sensitive leaves masked (spec §4.9 merged_config).
func (s *Service) MergedConfig() (effective, provenance settings.Tree) {
	derived := s.store.Settings()
	if derived == nil || derived.Merged == nil {
		return nil, nil
	}
	return settings.Masked(derived.Merged.Effective), derived.Merged.Provenance
}

// Hooks, Agents, Commands, Skills, and MCPServers are read-through
// accessors over the merged settings / parsed directory trees (spec §4.9).
func (s *Service) Hooks() []hooksdef.Definition {
	derived := s.store.Settings()
	if derived == nil {
		return nil
	}
	return derived.Hooks
}

func (s *Service) Agents() []catalog.Definition {
	derived := s.store.Settings()
	if derived == nil {
		return nil
	}
	return derived.Agents
}

func (s *Service) Commands() []catalog.Definition {
	derived := s.store.Settings()
	if derived == nil {
		return nil
	}
	return derived.Commands
}

func (s *Service) Skills() []catalog.Definition {
	derived := s.store.Settings()
	if derived == nil {
		return nil
	}
	return derived.Skills
}

// MCPServers returns the MCP registry with environment values masked.
func (s *Service) MCPServers() []mcpregistry.Entry {
	derived := s.store.Settings()
	if derived == nil {
		return nil
	}
	out := make([]mcpregistry.Entry, 0, len(derived.MCPServers))
	for _, e := range derived.MCPServers {
		out = append(out, e.Masked())
	}
	return out
}

// Subscribe returns a fresh event receiver handle on the Event Bus (spec
// §4.9 subscribe_events).
func (s *Service) Subscribe() *eventbus.Subscription {
	return s.store.Bus().Subscribe()
}
