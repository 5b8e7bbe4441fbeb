// Package message defines the immutable conversational message model shared
// by the pipeline, msghub, and memory subsystems.
package message

import (
	"time"

	"github.com/google/uuid"
)

// Role identifies who produced a Msg.
type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleTool      Role = "tool"
)

// Reserved metadata keys. Compression and usage accounting both live in
// Msg.Metadata rather than as first-class fields so new annotations don't
// require a Msg schema change.
const (
	MetaOffloadUUID            = "_compress_meta.offloaduuid"
	MetaCompressedCurrentRound = "_compress_meta.compressed_current_round"
	MetaChatUsage              = "_chat_usage"
)

// ChatUsage is the token-usage record stored under MetaChatUsage.
type ChatUsage struct {
	Input  int           `json:"input"`
	Output int           `json:"output"`
	Time   time.Duration `json:"time"`
}

// ContentBlock is the tagged-union member type for Msg.Content. Every
// implementation must report a stable Type() so persistence can round-trip
// variants this core doesn't otherwise interpret.
type ContentBlock interface {
	Type() string
	clone() ContentBlock
}

// Text is a plain-text content block.
type Text struct {
	TextValue string `json:"text"`
}

func (Text) Type() string          { return "text" }
func (t Text) clone() ContentBlock { return Text{TextValue: t.TextValue} }
func (t Text) String() string      { return t.TextValue }

// NewTextBlock constructs a Text content block.
func NewTextBlock(text string) Text { return Text{TextValue: text} }

// ToolUse is issued by an assistant message to invoke a tool. ID pairs it
// with a later ToolResult carrying the same ID.
type ToolUse struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Input map[string]any `json:"input"`
}

func (ToolUse) Type() string { return "tool_use" }
func (u ToolUse) clone() ContentBlock {
	cp := make(map[string]any, len(u.Input))
	for k, v := range u.Input {
		cp[k] = v
	}
	return ToolUse{ID: u.ID, Name: u.Name, Input: cp}
}

// ToolResult carries the output of a tool invocation, matched to a ToolUse
// by ID. Output is itself a sequence of Text blocks.
type ToolResult struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Output []Text `json:"output"`
}

func (ToolResult) Type() string { return "tool_result" }
func (r ToolResult) clone() ContentBlock {
	out := make([]Text, len(r.Output))
	copy(out, r.Output)
	return ToolResult{ID: r.ID, Name: r.Name, Output: out}
}

// Unknown preserves any content block variant this core doesn't recognize
// (e.g. image/audio blocks), keyed by its original "type" tag, so
// persistence round-trips never silently drop content.
type Unknown struct {
	TypeTag string         `json:"type"`
	Raw     map[string]any `json:"raw"`
}

func (u Unknown) Type() string { return u.TypeTag }
func (u Unknown) clone() ContentBlock {
	cp := make(map[string]any, len(u.Raw))
	for k, v := range u.Raw {
		cp[k] = v
	}
	return Unknown{TypeTag: u.TypeTag, Raw: cp}
}

// Msg is an immutable, identity-bearing conversational message. Callers
// must treat a Msg as read-only after construction; memories and hubs that
// need to "mutate" a message (e.g. during compression) always build a new
// Msg rather than editing one in place.
type Msg struct {
	id       string
	role     Role
	name     string
	content  []ContentBlock
	metadata map[string]any
}

// New constructs a Msg with a fresh UUID identity.
func New(role Role, name string, content []ContentBlock, metadata map[string]any) *Msg {
	return &Msg{
		id:       uuid.NewString(),
		role:     role,
		name:     name,
		content:  cloneBlocks(content),
		metadata: cloneMeta(metadata),
	}
}

func cloneBlocks(in []ContentBlock) []ContentBlock {
	out := make([]ContentBlock, len(in))
	for i, b := range in {
		out[i] = b.clone()
	}
	return out
}

// NewText is a convenience constructor for a single-text-block message.
func NewText(role Role, name, text string) *Msg {
	return New(role, name, []ContentBlock{NewTextBlock(text)}, nil)
}

func (m *Msg) ID() string             { return m.id }
func (m *Msg) Role() Role             { return m.role }
func (m *Msg) Name() string           { return m.name }
func (m *Msg) Content() []ContentBlock {
	return cloneBlocks(m.content)
}

// Metadata returns a shallow copy of the message's metadata map so callers
// cannot mutate the original through the returned value.
func (m *Msg) Metadata() map[string]any {
	return cloneMeta(m.metadata)
}

// MetaBool reads a boolean metadata flag, defaulting to false when absent
// or of the wrong type.
func (m *Msg) MetaBool(key string) bool {
	v, ok := m.metadata[key]
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// MetaString reads a string metadata value.
func (m *Msg) MetaString(key string) (string, bool) {
	v, ok := m.metadata[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Text concatenates the text of every Text block in the message, which is
// what the compression strategies mean by "the message's text length".
func (m *Msg) Text() string {
	var out string
	for _, b := range m.content {
		if t, ok := b.(Text); ok {
			out += t.TextValue
		}
	}
	return out
}

// WithContent returns a new Msg with the same identity, role, name, and
// metadata but replaced content. Used by compression strategies that
// replace a message's body in place (same role/name) while offloading the
// original elsewhere.
func (m *Msg) WithContent(content []ContentBlock) *Msg {
	return &Msg{
		id:       m.id,
		role:     m.role,
		name:     m.name,
		content:  cloneBlocks(content),
		metadata: cloneMeta(m.metadata),
	}
}

// WithMetadata returns a new Msg with merged metadata (new keys override
// existing ones); content, role, name, and ID are unchanged.
func (m *Msg) WithMetadata(extra map[string]any) *Msg {
	merged := cloneMeta(m.metadata)
	for k, v := range extra {
		merged[k] = v
	}
	return &Msg{
		id:       m.id,
		role:     m.role,
		name:     m.name,
		content:  cloneBlocks(m.content),
		metadata: merged,
	}
}

// Rekeyed returns a new Msg with a freshly generated ID but otherwise
// identical fields. Used when compression produces a genuinely new
// synthetic message (as opposed to replacing an existing message's body).
func (m *Msg) Rekeyed() *Msg {
	cp := m.WithMetadata(nil)
	cp.id = uuid.NewString()
	return cp
}

func cloneMeta(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

// HasToolUse reports whether the message contains any ToolUse block.
func (m *Msg) HasToolUse() bool {
	for _, b := range m.content {
		if _, ok := b.(ToolUse); ok {
			return true
		}
	}
	return false
}

// HasToolResult reports whether the message contains any ToolResult block.
func (m *Msg) HasToolResult() bool {
	for _, b := range m.content {
		if _, ok := b.(ToolResult); ok {
			return true
		}
	}
	return false
}

// ToolUseIDs returns the IDs of every ToolUse block in the message.
func (m *Msg) ToolUseIDs() []string {
	var ids []string
	for _, b := range m.content {
		if u, ok := b.(ToolUse); ok {
			ids = append(ids, u.ID)
		}
	}
	return ids
}

// ToolResultIDs returns the IDs of every ToolResult block in the message.
func (m *Msg) ToolResultIDs() []string {
	var ids []string
	for _, b := range m.content {
		if r, ok := b.(ToolResult); ok {
			ids = append(ids, r.ID)
		}
	}
	return ids
}
