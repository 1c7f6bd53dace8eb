package sessionparse

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ccboard/internal/corpuserr"
	"ccboard/internal/logging"
)

// defaultMaxLineBytes bounds a single line; longer lines are skipped with a
// warning rather than read into memory. Overridable via ParseOptions for
// tests exercising the boundary.
const defaultMaxLineBytes = 10 * 1024 * 1024

// ParseOptions configures ParseSessionFile.
type ParseOptions struct {
	MaxLineBytes int64
}

// ParseSessionFile streams path line by line and returns its
// SessionMetadata. It never loads the whole file into memory and never
// aborts on a single malformed line: failures are tracked per line and
// only surface once zero lines decoded, per spec §4.2's "never aborts
// on a single malformed line" contract. A byte-empty (or
// whitespace/blank-line-only) file reports corpuserr.Empty; a non-empty
// file whose lines all failed json.Unmarshal reports corpuserr.Parse,
// so callers can tell "nothing to read" from "content but unreadable"
// per the §7 error taxonomy.
func ParseSessionFile(path string, opts ParseOptions) (*SessionMetadata, error) {
	log := logging.Get(logging.CategoryParser)
	maxLine := opts.MaxLineBytes
	if maxLine <= 0 {
		maxLine = defaultMaxLineBytes
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, corpuserr.New(corpuserr.Io, path, err)
	}
	defer f.Close()

	meta := &SessionMetadata{
		Path:      path,
		SessionID: strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)),
		Models:    make(map[string]struct{}),
	}
	if projectDir := filepath.Base(filepath.Dir(path)); projectDir != "." {
		meta.ProjectPath = DecodeProjectPath(projectDir)
	}

	reader := bufio.NewReaderSize(f, 64*1024)
	decoded := 0
	var firstPreviewSet bool
	var sawContentLine bool
	var lastDecodeErr error

	for {
		line, readErr := readLine(reader, maxLine, log, path)
		if line == nil && readErr == io.EOF {
			break
		}
		if readErr != nil && readErr != errLineTooLong {
			return nil, corpuserr.New(corpuserr.Io, path, readErr)
		}
		if readErr == errLineTooLong {
			continue
		}
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		sawContentLine = true

		var rec record
		if err := json.Unmarshal(line, &rec); err != nil {
			lastDecodeErr = err
			continue
		}

		ts, tsErr := parseTimestamp(rec.Timestamp)
		if tsErr == nil {
			if meta.FirstTimestamp == nil {
				meta.FirstTimestamp = &ts
			}
			meta.LastTimestamp = &ts
		}

		if rec.GitBranch != "" {
			meta.GitBranch = rec.GitBranch
		}

		if rec.Message != nil {
			if rec.Message.Model != "" {
				meta.Models[rec.Message.Model] = struct{}{}
			}
			if rec.Message.Usage != nil {
				meta.Tokens = meta.Tokens.Add(TokenBreakdown{
					Input:      rec.Message.Usage.InputTokens,
					Output:     rec.Message.Usage.OutputTokens,
					CacheRead:  rec.Message.Usage.CacheReadInputTokens,
					CacheWrite: rec.Message.Usage.CacheCreationInputTokens,
				})
			}
			if calls, hasSubAgent := countToolCalls(rec.Message.Content); calls > 0 {
				meta.ToolCallCount += calls
				if hasSubAgent {
					meta.HasSubAgents = true
				}
			}
			if !firstPreviewSet && rec.Type == "user" && rec.Message.Role == "user" {
				text := extractText(rec.Message.Content)
				if IsMeaningfulMessage(text) {
					meta.Preview = TruncatePreview(text)
					firstPreviewSet = true
				}
			}
		}

		decoded++
		meta.RecordCount = decoded
	}

	if decoded == 0 {
		if sawContentLine {
			log.Debugw("session file has content but every line failed to decode", "path", path, "error", lastDecodeErr)
			return meta, corpuserr.New(corpuserr.Parse, path, lastDecodeErr)
		}
		log.Debugw("session file produced zero decodable records", "path", path)
		return meta, corpuserr.New(corpuserr.Empty, path, nil)
	}

	return meta, nil
}

var errLineTooLong = io.ErrShortBuffer

// readLine reads one newline-delimited line, enforcing maxLine. Lines
// that exceed the bound are drained and reported via errLineTooLong
// rather than returned, so the caller's buffer never grows past the cap.
func readLine(r *bufio.Reader, maxLine int64, log interface {
	Warnw(string, ...interface{})
}, path string) ([]byte, error) {
	var buf []byte
	var overLimit bool

	for {
		chunk, isPrefix, err := r.ReadLine()
		if err != nil {
			if len(buf) == 0 {
				return nil, err
			}
			if overLimit {
				return nil, errLineTooLong
			}
			return buf, nil
		}
		if !overLimit {
			if int64(len(buf)+len(chunk)) > maxLine {
				overLimit = true
				log.Warnw("skipping oversized session line", "path", path, "limit", maxLine)
			} else {
				buf = append(buf, chunk...)
			}
		}
		if !isPrefix {
			if overLimit {
				return nil, errLineTooLong
			}
			return buf, nil
		}
	}
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, errEmptyTimestamp
	}
	return time.Parse(time.RFC3339, s)
}

var errEmptyTimestamp = &timestampError{}

type timestampError struct{}

func (e *timestampError) Error() string { return "empty timestamp" }
