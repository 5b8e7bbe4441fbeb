package message

import (
	"encoding/json"
	"fmt"
)

// Msg's fields are unexported so callers can't mutate a message after
// construction; persistence (session.Store) still needs to round-trip it
// through JSON, so Msg and its ContentBlock union implement the
// json.Marshaler/Unmarshaler contract by hand.

type msgWire struct {
	ID       string            `json:"id"`
	Role     Role              `json:"role"`
	Name     string            `json:"name"`
	Content  []json.RawMessage `json:"content"`
	Metadata map[string]any    `json:"metadata,omitempty"`
}

type blockTag struct {
	Type string `json:"type"`
}

// MarshalJSON implements json.Marshaler.
func (m *Msg) MarshalJSON() ([]byte, error) {
	blocks := make([]json.RawMessage, len(m.content))
	for i, b := range m.content {
		raw, err := marshalContentBlock(b)
		if err != nil {
			return nil, err
		}
		blocks[i] = raw
	}
	return json.Marshal(msgWire{
		ID:       m.id,
		Role:     m.role,
		Name:     m.name,
		Content:  blocks,
		Metadata: m.metadata,
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (m *Msg) UnmarshalJSON(data []byte) error {
	var w msgWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	content := make([]ContentBlock, len(w.Content))
	for i, raw := range w.Content {
		b, err := unmarshalContentBlock(raw)
		if err != nil {
			return err
		}
		content[i] = b
	}
	m.id = w.ID
	m.role = w.Role
	m.name = w.Name
	m.content = content
	m.metadata = w.Metadata
	return nil
}

func marshalContentBlock(b ContentBlock) (json.RawMessage, error) {
	switch v := b.(type) {
	case Text:
		return json.Marshal(struct {
			Type string `json:"type"`
			Text
		}{v.Type(), v})
	case ToolUse:
		return json.Marshal(struct {
			Type string `json:"type"`
			ToolUse
		}{v.Type(), v})
	case ToolResult:
		return json.Marshal(struct {
			Type string `json:"type"`
			ToolResult
		}{v.Type(), v})
	case Unknown:
		return json.Marshal(v)
	default:
		return nil, fmt.Errorf("message: cannot marshal content block of type %T", b)
	}
}

func unmarshalContentBlock(raw json.RawMessage) (ContentBlock, error) {
	var tag blockTag
	if err := json.Unmarshal(raw, &tag); err != nil {
		return nil, err
	}
	switch tag.Type {
	case "text":
		var w struct {
			Text
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return w.Text, nil
	case "tool_use":
		var w struct {
			ToolUse
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return w.ToolUse, nil
	case "tool_result":
		var w struct {
			ToolResult
		}
		if err := json.Unmarshal(raw, &w); err != nil {
			return nil, err
		}
		return w.ToolResult, nil
	default:
		var u Unknown
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil, err
		}
		u.TypeTag = tag.Type
		return u, nil
	}
}
