package mcpregistry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ccboard/internal/settings"
)

func TestLoad_ReadsServersFromSettingsTree(t *testing.T) {
	root := t.TempDir()
	effective := settings.Tree{
		"mcpServers": map[string]interface{}{
			"fs": map[string]interface{}{"command": "mcp-fs", "args": []interface{}{"--root", "."}},
		},
	}

	entries := Load(effective, root)
	require.Len(t, entries, 1)
	assert.Equal(t, "fs", entries[0].Name)
	assert.Equal(t, TransportCommand, entries[0].Transport)
}

func TestLoad_HTTPServerDetectedByURL(t *testing.T) {
	root := t.TempDir()
	effective := settings.Tree{
		"mcpServers": map[string]interface{}{
			"remote": map[string]interface{}{"url": "https://example.test/mcp"},
		},
	}

	entries := Load(effective, root)
	require.Len(t, entries, 1)
	assert.Equal(t, TransportHTTP, entries[0].Transport)
}

func TestLoad_DesktopConfigFillsNamesNotInSettings(t *testing.T) {
	root := t.TempDir()
	effective := settings.Tree{
		"mcpServers": map[string]interface{}{
			"fs": map[string]interface{}{"command": "mcp-fs"},
		},
	}
	desktop := `{"mcpServers":{"fs":{"command":"should-be-ignored"},"db":{"command":"mcp-db"}}}`
	require.NoError(t, os.WriteFile(filepath.Join(root, "claude_desktop_config.json"), []byte(desktop), 0o644))

	entries := Load(effective, root)
	require.Len(t, entries, 2)

	names := map[string]Entry{}
	for _, e := range entries {
		names[e.Name] = e
	}
	assert.Equal(t, "mcp-fs", names["fs"].Command, "settings entries win over the desktop config for duplicate names")
	assert.Equal(t, "mcp-db", names["db"].Command)
}

func TestLoad_MalformedDesktopConfigIgnored(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "claude_desktop_config.json"), []byte("{not json"), 0o644))

	entries := Load(settings.Tree{}, root)
	assert.Empty(t, entries)
}

func TestMasked_RedactsSensitiveEnvValues(t *testing.T) {
	e := Entry{Name: "fs", Env: map[string]string{"API_KEY": "secret", "LOG_LEVEL": "debug"}}
	masked := e.Masked()
	assert.Equal(t, "***", masked.Env["API_KEY"])
	assert.Equal(t, "debug", masked.Env["LOG_LEVEL"])
}
