package sessionparse

import (
	"encoding/json"
	"time"
)

// TokenBreakdown splits a token total by accounting kind, so Analytics
// Derivations can apply the cache-read/cache-write cost multipliers
// without re-reading the session file (SPEC_FULL §4.2 supplement).
type TokenBreakdown struct {
	Input       int64
	Output      int64
	CacheRead   int64
	CacheWrite int64
}

// Total sums every accounting kind.
func (t TokenBreakdown) Total() int64 {
	return t.Input + t.Output + t.CacheRead + t.CacheWrite
}

// Add accumulates other into t and returns the result.
func (t TokenBreakdown) Add(other TokenBreakdown) TokenBreakdown {
	return TokenBreakdown{
		Input:      t.Input + other.Input,
		Output:     t.Output + other.Output,
		CacheRead:  t.CacheRead + other.CacheRead,
		CacheWrite: t.CacheWrite + other.CacheWrite,
	}
}

// SessionMetadata is the unit of the session index (spec §3). It is
// cheap to share (a pointer-sized handle) and expensive to copy, so it
// is never mutated after publication: updates replace the whole value.
type SessionMetadata struct {
	Path             string
	ProjectPath      string
	SessionID        string
	FirstTimestamp   *time.Time
	LastTimestamp    *time.Time
	RecordCount      int
	Tokens           TokenBreakdown
	Models           map[string]struct{}
	Preview          string
	GitBranch        string
	HasSubAgents     bool
	ToolCallCount    int
}

// TotalTokens is a convenience accessor over Tokens.
func (s *SessionMetadata) TotalTokens() int64 {
	return s.Tokens.Total()
}

// ModelList returns the observed model identifiers, sorted for
// deterministic output.
func (s *SessionMetadata) ModelList() []string {
	out := make([]string, 0, len(s.Models))
	for m := range s.Models {
		out = append(out, m)
	}
	return sortedStrings(out)
}

// record is one decoded line of a session JSONL file. Unknown fields are
// preserved implicitly by being ignored: json.Unmarshal into a struct
// silently drops fields it does not recognize, which is exactly the
// "tolerate unknown fields" behaviour spec §1 requires.
type record struct {
	Type      string          `json:"type"`
	Timestamp string          `json:"timestamp"`
	GitBranch string          `json:"gitBranch"`
	Message   *messageContent `json:"message"`
}

type messageContent struct {
	Role    string          `json:"role"`
	Model   string          `json:"model"`
	Usage   *tokenUsage     `json:"usage"`
	Content json.RawMessage `json:"content"`
}

type tokenUsage struct {
	InputTokens              int64 `json:"input_tokens"`
	OutputTokens             int64 `json:"output_tokens"`
	CacheReadInputTokens     int64 `json:"cache_read_input_tokens"`
	CacheCreationInputTokens int64 `json:"cache_creation_input_tokens"`
}

// contentBlock is one element of a message.content array. Blocks of type
// "text" carry the message's natural-language text; blocks of type
// "tool_use" name an invoked tool, used to recover tool-call counts and
// sub-agent detection (a tool named "Task").
type contentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
	Name string `json:"name"`
}

// subAgentToolName is the tool invocation name the assistant uses to
// spawn a sub-agent task.
const subAgentToolName = "Task"
