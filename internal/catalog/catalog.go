// Package catalog holds the fixed list of meme templates the generator may use.
package catalog

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/timmy/memegpt/internal/domain"
)

//go:embed templates.json
var defaultTemplates []byte

// Catalog is an immutable, ordered set of templates indexed by name.
type Catalog struct {
	templates []domain.Template
	byName    map[string]int
}

// Load reads the catalog from path, or the embedded default when path is empty.
// Parameters:
//   - path: catalog JSON file; empty selects the built-in catalog.
//
// Returns:
//   - *Catalog: parsed catalog.
//   - error: matches domain.ErrConfig if the file is missing or invalid.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultTemplates)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.ConfigErrorf("failed to read template catalog: %v", err)
	}

	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog %s: %w", path, err)
	}
	return cat, nil
}

// Default returns the embedded catalog.
func Default() *Catalog {
	cat, err := Parse(defaultTemplates)
	if err != nil {
		panic(fmt.Sprintf("embedded template catalog is invalid: %v", err))
	}
	return cat
}

// Parse decodes and validates a JSON array of templates.
// Every template needs a positive id, a non-empty name unique in the
// catalog and at least one non-empty caption name.
func Parse(data []byte) (*Catalog, error) {
	var templates []domain.Template
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, domain.ConfigErrorf("template catalog is not valid JSON: %v", err)
	}
	return New(templates)
}

// New validates templates and builds a catalog from them.
func New(templates []domain.Template) (*Catalog, error) {
	if len(templates) == 0 {
		return nil, domain.ConfigErrorf("template catalog is empty")
	}

	cat := &Catalog{
		templates: make([]domain.Template, 0, len(templates)),
		byName:    make(map[string]int, len(templates)),
	}

	for i, t := range templates {
		if t.ID <= 0 {
			return nil, domain.ConfigErrorf("template #%d: id must be positive", i)
		}
		if strings.TrimSpace(t.Name) == "" {
			return nil, domain.ConfigErrorf("template #%d: name is required", i)
		}
		if _, dup := cat.byName[t.Name]; dup {
			return nil, domain.ConfigErrorf("template %q: duplicate name", t.Name)
		}
		if len(t.CaptionNames) == 0 {
			return nil, domain.ConfigErrorf("template %q: at least one caption name is required", t.Name)
		}
		seen := make(map[string]struct{}, len(t.CaptionNames))
		for _, slot := range t.CaptionNames {
			if strings.TrimSpace(slot) == "" {
				return nil, domain.ConfigErrorf("template %q: caption names must not be empty", t.Name)
			}
			if _, dup := seen[slot]; dup {
				return nil, domain.ConfigErrorf("template %q: duplicate caption name %q", t.Name, slot)
			}
			seen[slot] = struct{}{}
		}

		cat.byName[t.Name] = len(cat.templates)
		cat.templates = append(cat.templates, t.Clone())
	}

	return cat, nil
}

// Lookup finds a template by exact, case-sensitive name.
func (c *Catalog) Lookup(name string) (domain.Template, bool) {
	i, ok := c.byName[name]
	if !ok {
		return domain.Template{}, false
	}
	return c.templates[i].Clone(), true
}

// Templates returns the templates in declared order.
func (c *Catalog) Templates() []domain.Template {
	out := make([]domain.Template, len(c.templates))
	for i, t := range c.templates {
		out[i] = t.Clone()
	}
	return out
}

// Names returns the template names in declared order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.templates))
	for i, t := range c.templates {
		names[i] = t.Name
	}
	return names
}

// Len returns the number of templates.
func (c *Catalog) Len() int {
	return len(c.templates)
}
