// Package frontmatter parses the `---`-fenced YAML header shared by
// agent, command, and skill Markdown files.
package frontmatter

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Document is a parsed front-matter file: the decoded header map plus
// the Markdown body that follows the closing fence.
type Document struct {
	Fields map[string]interface{}
	Body   string
}

const fence = "---"

// Parse splits raw file content into front matter and body. A file with
// no leading fence is not an error: it is returned with an empty field
// map and the whole content as Body, so callers can continue past a
// single malformed file.
func Parse(raw string) (*Document, error) {
	lines := strings.Split(raw, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != fence {
		return &Document{Fields: map[string]interface{}{}, Body: raw}, nil
	}

	end := -1
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == fence {
			end = i
			break
		}
	}
	if end == -1 {
		// Opening fence with no close: treat the whole thing as body.
		return &Document{Fields: map[string]interface{}{}, Body: raw}, nil
	}

	header := strings.Join(lines[1:end], "\n")
	body := strings.Join(lines[end+1:], "\n")
	body = strings.TrimPrefix(body, "\n")

	fields := map[string]interface{}{}
	if strings.TrimSpace(header) != "" {
		if err := yaml.Unmarshal([]byte(header), &fields); err != nil {
			return nil, err
		}
	}

	return &Document{Fields: fields, Body: body}, nil
}

// FieldString returns fields[key] coerced to a string, or "" if absent
// or not a string.
func (d *Document) FieldString(key string) string {
	v, ok := d.Fields[key]
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}
