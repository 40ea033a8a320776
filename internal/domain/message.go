package domain

import (
	"encoding/json"
	"fmt"
)

// Role identifies the author of a chat message.
// Only RoleSystem, RoleUser and RoleAssistant exist; the unexported field
// keeps other packages from minting new roles.
type Role struct {
	name string
}

var (
	RoleSystem    = Role{"system"}
	RoleUser      = Role{"user"}
	RoleAssistant = Role{"assistant"}
)

// String returns the wire name of the role.
func (r Role) String() string {
	return r.name
}

// IsZero reports whether r is the zero Role, which is never valid on the wire.
func (r Role) IsZero() bool {
	return r.name == ""
}

// ParseRole maps a wire name to its Role.
func ParseRole(s string) (Role, error) {
	switch s {
	case RoleSystem.name:
		return RoleSystem, nil
	case RoleUser.name:
		return RoleUser, nil
	case RoleAssistant.name:
		return RoleAssistant, nil
	default:
		return Role{}, fmt.Errorf("unknown role %q", s)
	}
}

// MarshalJSON implements json.Marshaler.
func (r Role) MarshalJSON() ([]byte, error) {
	if r.IsZero() {
		return nil, fmt.Errorf("cannot marshal zero role")
	}
	return json.Marshal(r.name)
}

// UnmarshalJSON implements json.Unmarshaler.
func (r *Role) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseRole(s)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// Message is a single role-tagged chat message.
type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// SystemMessage builds a system message.
func SystemMessage(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

// UserMessage builds a user message.
func UserMessage(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

// AssistantMessage builds an assistant message.
func AssistantMessage(content string) Message {
	return Message{Role: RoleAssistant, Content: content}
}
