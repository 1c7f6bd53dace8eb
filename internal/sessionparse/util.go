package sessionparse

import (
	"encoding/json"
	"sort"
)

func sortedStrings(in []string) []string {
	sort.Strings(in)
	return in
}

// extractText concatenates the text blocks of a message.content array,
// or returns content verbatim when it was encoded as a plain JSON string
// rather than an array of blocks (the corpus uses both shapes).
func extractText(raw []byte) string {
	if len(raw) == 0 {
		return ""
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString
	}

	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return ""
	}

	var out []byte
	for _, b := range blocks {
		if b.Type == "text" && b.Text != "" {
			if len(out) > 0 {
				out = append(out, '\n')
			}
			out = append(out, b.Text...)
		}
	}
	return string(out)
}

// countToolCalls reports the number of tool_use blocks and whether any
// of them invoke the sub-agent spawning tool.
func countToolCalls(raw []byte) (count int, hasSubAgent bool) {
	var blocks []contentBlock
	if err := json.Unmarshal(raw, &blocks); err != nil {
		return 0, false
	}
	for _, b := range blocks {
		if b.Type == "tool_use" {
			count++
			if b.Name == subAgentToolName {
				hasSubAgent = true
			}
		}
	}
	return count, hasSubAgent
}
