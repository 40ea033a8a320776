package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// MemeRequest pairs a scenario with the template chosen for it.
// Its JSON form is what the caption prompt shows the model.
type MemeRequest struct {
	Scenario string   `json:"scenario"`
	Template Template `json:"template"`
}

// JSON serializes the request the way the caption prompt expects it.
func (r MemeRequest) JSON() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", fmt.Errorf("failed to marshal meme request: %w", err)
	}
	return string(b), nil
}

// Caption is the text for one caption slot.
type Caption struct {
	Slot string
	Text string
}

// Captions maps caption slot names to text while keeping insertion order.
type Captions []Caption

// Get returns the text for slot.
func (c Captions) Get(slot string) (string, bool) {
	for _, caption := range c {
		if caption.Slot == slot {
			return caption.Text, true
		}
	}
	return "", false
}

// Slots returns the slot names in order.
func (c Captions) Slots() []string {
	slots := make([]string, len(c))
	for i, caption := range c {
		slots[i] = caption.Slot
	}
	return slots
}

// Texts returns the caption texts in order.
func (c Captions) Texts() []string {
	texts := make([]string, len(c))
	for i, caption := range c {
		texts[i] = caption.Text
	}
	return texts
}

// MarshalJSON encodes the captions as a JSON object in slot order.
func (c Captions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, caption := range c {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(caption.Slot)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(caption.Text)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of string values, keeping key order.
// Duplicate keys and non-string values, null included, are rejected.
func (c *Captions) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.New("captions must be a JSON object")
	}

	var out Captions
	seen := make(map[string]struct{})
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v", keyTok)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("duplicate caption slot %q", key)
		}
		seen[key] = struct{}{}

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("caption %q: %w", key, err)
		}
		if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			return fmt.Errorf("caption %q: value must be a string, got null", key)
		}
		var text string
		if err := json.Unmarshal(raw, &text); err != nil {
			return fmt.Errorf("caption %q: %w", key, err)
		}
		out = append(out, Caption{Slot: key, Text: text})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	if _, err := dec.Token(); err != io.EOF {
		return errors.New("unexpected data after captions object")
	}

	*c = out
	return nil
}

// Meme is the outcome of a successful generation run.
type Meme struct {
	Template Template `json:"template"`
	Captions Captions `json:"captions"`
	URL      string   `json:"url"`
}
