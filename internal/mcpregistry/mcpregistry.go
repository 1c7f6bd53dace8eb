// Package mcpregistry parses the MCP server registry, which may be
// declared either in the merged settings' "mcpServers" section or in a
// standalone claude_desktop_config.json at the corpus root.
package mcpregistry

import (
	"encoding/json"
	"os"
	"path/filepath"

	"ccboard/internal/logging"
	"ccboard/internal/settings"
)

// Transport identifies how the core reaches an MCP server.
type Transport string

const (
	TransportCommand Transport = "command"
	TransportHTTP    Transport = "http"
)

// Entry is one configured MCP server (spec §3).
type Entry struct {
	Name      string
	Transport Transport
	Command   string
	Args      []string
	URL       string
	Env       map[string]string
}

// Masked returns a copy of e with sensitive env values redacted, for
// surfacing through the query interface (spec invariant 4).
func (e Entry) Masked() Entry {
	e.Env = settings.MaskedEnv(e.Env)
	return e
}

type desktopConfigFile struct {
	MCPServers map[string]settings.MCPServerConfig `json:"mcpServers"`
}

// Load merges MCP servers declared in the effective settings tree with
// any declared in claude_desktop_config.json at the corpus root, the
// latter only filling in names not already present in settings.
func Load(effective settings.Tree, corpusRoot string) []Entry {
	log := logging.Get(logging.CategorySettings)
	seen := map[string]bool{}
	var out []Entry

	for name, cfg := range settings.MCPServers(effective) {
		out = append(out, toEntry(name, cfg))
		seen[name] = true
	}

	path := filepath.Join(corpusRoot, "claude_desktop_config.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return out
	}
	var desktop desktopConfigFile
	if err := json.Unmarshal(data, &desktop); err != nil {
		log.Warnw("failed to parse MCP registry file", "path", path, "error", err)
		return out
	}
	for name, cfg := range desktop.MCPServers {
		if seen[name] {
			continue
		}
		out = append(out, toEntry(name, cfg))
	}
	return out
}

func toEntry(name string, cfg settings.MCPServerConfig) Entry {
	e := Entry{Name: name, Command: cfg.Command, Args: cfg.Args, URL: cfg.URL, Env: cfg.Env}
	if cfg.URL != "" {
		e.Transport = TransportHTTP
	} else {
		e.Transport = TransportCommand
	}
	return e
}
