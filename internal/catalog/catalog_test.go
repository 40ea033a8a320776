package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/memegpt/internal/domain"
)

func TestDefaultCatalog(t *testing.T) {
	cat, err := Load("")
	require.NoError(t, err)
	require.Greater(t, cat.Len(), 0)

	seen := make(map[string]bool)
	for _, tmpl := range cat.Templates() {
		assert.False(t, seen[tmpl.Name], "duplicate template %q", tmpl.Name)
		seen[tmpl.Name] = true
		assert.NotEmpty(t, tmpl.CaptionNames, "template %q has no caption slots", tmpl.Name)
		assert.Positive(t, tmpl.ID)
	}

	cat2 := Default()
	assert.Equal(t, cat.Names(), cat2.Names())
}

func TestLookupIsExact(t *testing.T) {
	cat := Default()

	tmpl, ok := cat.Lookup("Drake Hotline Bling")
	require.True(t, ok)
	assert.Equal(t, 181913649, tmpl.ID)

	_, ok = cat.Lookup("drake hotline bling")
	assert.False(t, ok)

	_, ok = cat.Lookup(" Drake Hotline Bling")
	assert.False(t, ok)
}

func TestTemplatesAreCopies(t *testing.T) {
	cat := Default()

	templates := cat.Templates()
	templates[0].Name = "changed"
	templates[0].CaptionNames[0] = "changed"

	fresh := cat.Templates()
	assert.NotEqual(t, "changed", fresh[0].Name)
	assert.NotEqual(t, "changed", fresh[0].CaptionNames[0])

	tmpl, _ := cat.Lookup(fresh[0].Name)
	tmpl.CaptionNames[0] = "changed"
	again, _ := cat.Lookup(fresh[0].Name)
	assert.NotEqual(t, "changed", again.CaptionNames[0])
}

func TestParseRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{name: "not json", data: `templates: []`},
		{name: "object instead of array", data: `{"id":1}`},
		{name: "empty", data: `[]`},
		{name: "missing id", data: `[{"name":"A","caption_names":["x"]}]`},
		{name: "missing name", data: `[{"id":1,"caption_names":["x"]}]`},
		{name: "missing captions", data: `[{"id":1,"name":"A"}]`},
		{name: "blank caption", data: `[{"id":1,"name":"A","caption_names":[" "]}]`},
		{name: "duplicate caption", data: `[{"id":1,"name":"A","caption_names":["x","x"]}]`},
		{name: "duplicate name", data: `[{"id":1,"name":"A","caption_names":["x"]},{"id":2,"name":"A","caption_names":["y"]}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, domain.ErrConfig), "got %v", err)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "templates.json")
	data := `[{"id":42,"name":"Custom","caption_names":["Top","Bottom"]}]`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cat, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Custom"}, cat.Names())

	tmpl, ok := cat.Lookup("Custom")
	require.True(t, ok)
	assert.Equal(t, []string{"Top", "Bottom"}, tmpl.CaptionNames)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConfig))
}
