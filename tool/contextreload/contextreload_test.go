package contextreload_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentscope-go/core/message"
	"github.com/agentscope-go/core/offload"
	"github.com/agentscope-go/core/tool/contextreload"
)

type fakeOffloader struct {
	store *offload.Store[*message.Msg]
}

func (f fakeOffloader) Reload(uuid string) []*message.Msg { return f.store.Get(uuid) }

func TestCallReloadsOffloadedMessages(t *testing.T) {
	store := offload.New[*message.Msg]()
	original := message.NewText(message.RoleAssistant, "assistant", "the original big payload")
	store.Put("abc-123", []*message.Msg{original})

	tl := contextreload.New(fakeOffloader{store: store})
	out := tl.Call(context.Background(), map[string]any{"working_context_offload_uuid": "abc-123"})

	require.Len(t, out, 1)
	assert.Equal(t, "the original big payload", out[0].Text())
}

func TestCallMissingUUIDReturnsErrorMessage(t *testing.T) {
	tl := contextreload.New(fakeOffloader{store: offload.New[*message.Msg]()})
	out := tl.Call(context.Background(), map[string]any{})

	require.Len(t, out, 1)
	assert.Equal(t, message.RoleTool, out[0].Role())
	assert.Contains(t, out[0].Text(), "working_context_offload_uuid")
}

func TestCallUnknownUUIDReturnsErrorMessage(t *testing.T) {
	tl := contextreload.New(fakeOffloader{store: offload.New[*message.Msg]()})
	out := tl.Call(context.Background(), map[string]any{"working_context_offload_uuid": "nope"})

	require.Len(t, out, 1)
	assert.Contains(t, out[0].Text(), "no offloaded content")
}

func TestCallNilOffloaderReturnsErrorMessage(t *testing.T) {
	tl := contextreload.New(nil)
	out := tl.Call(context.Background(), map[string]any{"working_context_offload_uuid": "anything"})

	require.Len(t, out, 1)
	assert.Contains(t, out[0].Text(), "no offloader")
}

func TestNameAndSchema(t *testing.T) {
	tl := contextreload.New(nil)
	assert.Equal(t, "context_reload", tl.Name())
	assert.NotEmpty(t, tl.Description())

	schema := contextreload.Schema()
	assert.Equal(t, "object", schema["type"])
}
