package frontmatter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_FencedHeaderDecodesFieldsAndBody(t *testing.T) {
	raw := "---\nname: reviewer\ndescription: reviews code\n---\nYou are a reviewer.\n"
	doc, err := Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "reviewer", doc.FieldString("name"))
	assert.Equal(t, "reviews code", doc.FieldString("description"))
	assert.Equal(t, "You are a reviewer.\n", doc.Body)
}

func TestParse_NoFenceReturnsWholeContentAsBody(t *testing.T) {
	raw := "just a plain markdown file\nwith no header\n"
	doc, err := Parse(raw)
	require.NoError(t, err)
	assert.Empty(t, doc.Fields)
	assert.Equal(t, raw, doc.Body)
}

func TestParse_UnclosedFenceReturnsWholeContentAsBody(t *testing.T) {
	raw := "---\nname: broken\nno closing fence here\n"
	doc, err := Parse(raw)
	require.NoError(t, err)
	assert.Empty(t, doc.Fields)
	assert.Equal(t, raw, doc.Body)
}

func TestParse_InvalidYAMLHeaderReturnsError(t *testing.T) {
	raw := "---\nname: [unterminated\n---\nbody\n"
	_, err := Parse(raw)
	assert.Error(t, err)
}

func TestFieldString_MissingOrNonStringReturnsEmpty(t *testing.T) {
	doc := &Document{Fields: map[string]interface{}{"count": 3}}
	assert.Equal(t, "", doc.FieldString("count"))
	assert.Equal(t, "", doc.FieldString("absent"))
}
