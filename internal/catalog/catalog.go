// Package catalog scans the corpus's agents/, commands/, and skills/
// subtrees, parsing each file's front matter (see internal/frontmatter)
// into a named definition. Every parser continues past a single
// malformed file, matching spec §4.2's "Hook / Agent / Command / Skill /
// MCP Parsers" contract.
package catalog

import (
	"os"
	"path/filepath"
	"strings"

	"ccboard/internal/frontmatter"
	"ccboard/internal/logging"
)

// Definition is a name, its front-matter fields, and a Markdown body —
// the shape shared by agents, commands, and skills (spec §3).
type Definition struct {
	Name   string
	Fields map[string]interface{}
	Body   string
}

// ScanAgents reads <corpusRoot>/agents/<name>.md files.
func ScanAgents(corpusRoot string) []Definition {
	return scanFlatMarkdown(filepath.Join(corpusRoot, "agents"))
}

// ScanCommands reads <corpusRoot>/commands/<name>.md files.
func ScanCommands(corpusRoot string) []Definition {
	return scanFlatMarkdown(filepath.Join(corpusRoot, "commands"))
}

// ScanSkills reads <corpusRoot>/skills/<name>/SKILL.md files.
func ScanSkills(corpusRoot string) []Definition {
	log := logging.Get(logging.CategorySettings)
	root := filepath.Join(corpusRoot, "skills")
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil
	}

	var out []Definition
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		skillPath := filepath.Join(root, entry.Name(), "SKILL.md")
		def, err := parseMarkdownFile(entry.Name(), skillPath)
		if err != nil {
			log.Warnw("skipping malformed skill", "skill", entry.Name(), "error", err)
			continue
		}
		if def != nil {
			out = append(out, *def)
		}
	}
	return out
}

func scanFlatMarkdown(dir string) []Definition {
	log := logging.Get(logging.CategorySettings)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var out []Definition
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".md")
		def, err := parseMarkdownFile(name, filepath.Join(dir, entry.Name()))
		if err != nil {
			log.Warnw("skipping malformed definition file", "file", entry.Name(), "error", err)
			continue
		}
		if def != nil {
			out = append(out, *def)
		}
	}
	return out
}

func parseMarkdownFile(name, path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := frontmatter.Parse(string(data))
	if err != nil {
		return nil, err
	}
	return &Definition{Name: name, Fields: doc.Fields, Body: doc.Body}, nil
}
