package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAssignsIdentity(t *testing.T) {
	m1 := NewText(RoleUser, "alice", "hi")
	m2 := NewText(RoleUser, "alice", "hi")
	assert.NotEmpty(t, m1.ID())
	assert.NotEqual(t, m1.ID(), m2.ID(), "each Msg gets its own identity")
}

func TestContentIsDefensivelyCopied(t *testing.T) {
	toolUse := ToolUse{ID: "t1", Name: "search", Input: map[string]any{"q": "go"}}
	m := New(RoleAssistant, "bot", []ContentBlock{toolUse}, nil)

	got := m.Content()
	require.Len(t, got, 1)
	gotUse := got[0].(ToolUse)
	gotUse.Input["q"] = "mutated"

	again := m.Content()[0].(ToolUse)
	assert.Equal(t, "go", again.Input["q"], "mutating a returned block must not affect the stored Msg")
}

func TestMetadataRoundTrip(t *testing.T) {
	m := New(RoleAssistant, "bot", []ContentBlock{NewTextBlock("ok")}, map[string]any{
		MetaCompressedCurrentRound: true,
	})
	assert.True(t, m.MetaBool(MetaCompressedCurrentRound))
	assert.False(t, m.MetaBool("missing"))

	m.Metadata()[MetaCompressedCurrentRound] = false
	assert.True(t, m.MetaBool(MetaCompressedCurrentRound), "Metadata() must return a copy")
}

func TestWithContentPreservesIdentity(t *testing.T) {
	m := NewText(RoleAssistant, "bot", "original")
	m2 := m.WithContent([]ContentBlock{NewTextBlock("replaced")})
	assert.Equal(t, m.ID(), m2.ID())
	assert.Equal(t, m.Role(), m2.Role())
	assert.Equal(t, "replaced", m2.Text())
	assert.Equal(t, "original", m.Text(), "original Msg is unaffected")
}

func TestRekeyedAssignsFreshID(t *testing.T) {
	m := NewText(RoleAssistant, "bot", "x")
	m2 := m.Rekeyed()
	assert.NotEqual(t, m.ID(), m2.ID())
	assert.Equal(t, m.Text(), m2.Text())
}

func TestHasToolUseAndResult(t *testing.T) {
	use := New(RoleAssistant, "bot", []ContentBlock{ToolUse{ID: "a", Name: "x"}}, nil)
	assert.True(t, use.HasToolUse())
	assert.False(t, use.HasToolResult())
	assert.Equal(t, []string{"a"}, use.ToolUseIDs())

	res := New(RoleTool, "x", []ContentBlock{ToolResult{ID: "a", Name: "x"}}, nil)
	assert.True(t, res.HasToolResult())
	assert.Equal(t, []string{"a"}, res.ToolResultIDs())
}

func TestUnknownBlockPreservesTag(t *testing.T) {
	u := Unknown{TypeTag: "image", Raw: map[string]any{"url": "http://x"}}
	m := New(RoleUser, "u", []ContentBlock{u}, nil)
	got := m.Content()[0]
	assert.Equal(t, "image", got.Type())
}

func TestCharEstimatorIsDeterministic(t *testing.T) {
	est := CharEstimator{}
	m := New(RoleAssistant, "bot", []ContentBlock{
		NewTextBlock("hello world, this is a reasonably long message body"),
		ToolUse{ID: "1", Name: "search", Input: map[string]any{"q": "golang"}},
	}, nil)

	a := est.EstimateMessage(m)
	b := est.EstimateMessage(m)
	assert.Equal(t, a, b)
	assert.Greater(t, a, 0)
}

func TestEstimateMessagesSums(t *testing.T) {
	est := CharEstimator{}
	msgs := []*Msg{
		NewText(RoleUser, "u", "one"),
		NewText(RoleAssistant, "a", "two"),
	}
	total := EstimateMessages(est, msgs)
	assert.Equal(t, est.EstimateMessage(msgs[0])+est.EstimateMessage(msgs[1]), total)
}
