package analytics

import (
	"time"

	"ccboard/internal/sessionparse"
)

func session(projectPath, model string, ts time.Time, input, output, cacheRead, cacheWrite int64) *sessionparse.SessionMetadata {
	return &sessionparse.SessionMetadata{
		ProjectPath:   projectPath,
		LastTimestamp: &ts,
		Models:        map[string]struct{}{model: {}},
		Tokens: sessionparse.TokenBreakdown{
			Input:      input,
			Output:     output,
			CacheRead:  cacheRead,
			CacheWrite: cacheWrite,
		},
	}
}
