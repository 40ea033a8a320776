package domain

// Template is a meme template from the catalog.
// CaptionNames lists the caption slots in the order the captioning service
// expects its text boxes.
type Template struct {
	ID           int      `json:"id"`
	Name         string   `json:"name"`
	CaptionNames []string `json:"caption_names"`
}

// HasSlot reports whether name is one of the template's caption slots.
func (t Template) HasSlot(name string) bool {
	for _, n := range t.CaptionNames {
		if n == name {
			return true
		}
	}
	return false
}

// Clone returns a copy that shares no memory with t.
func (t Template) Clone() Template {
	names := make([]string, len(t.CaptionNames))
	copy(names, t.CaptionNames)
	return Template{
		ID:           t.ID,
		Name:         t.Name,
		CaptionNames: names,
	}
}
