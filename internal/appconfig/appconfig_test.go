package appconfig

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_UsesCorpusRootOverride(t *testing.T) {
	t.Setenv("CCBOARD_CLAUDE_HOME", "/tmp/corpus-override")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/corpus-override", cfg.CorpusRoot)
}

func TestFromEnv_FallsBackToHomeDotClaude(t *testing.T) {
	t.Setenv("CCBOARD_CLAUDE_HOME", "")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, ".claude", filepath.Base(cfg.CorpusRoot))
}

func TestFromEnv_ParsesBooleanFlags(t *testing.T) {
	t.Setenv("CCBOARD_NON_INTERACTIVE", "1")
	t.Setenv("CCBOARD_NO_COLOR", "1")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.True(t, cfg.NonInteractive)
	assert.True(t, cfg.NoColor)
}

func TestMetadataDBPath_NestedUnderCacheDir(t *testing.T) {
	cfg := &Config{CorpusRoot: "/corpus"}
	assert.Equal(t, "/corpus/cache/session-metadata.db", cfg.MetadataDBPath())
}

func TestDefaultResourceLimits_ConcurrencyIsPositiveAndBounded(t *testing.T) {
	limits := DefaultResourceLimits()
	assert.GreaterOrEqual(t, limits.InitialLoadConcurrency, 1)
	assert.LessOrEqual(t, limits.InitialLoadConcurrency, 16)
}
