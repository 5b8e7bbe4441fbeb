// Package contextreload implements the one tool this core ships:
// context_reload, which lets the LLM pull back the original content an
// auto-context compression pass moved into the offload store.
package contextreload

import (
	"context"
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/mitchellh/mapstructure"

	"github.com/agentscope-go/core/message"
)

// ToolName is the name the LLM invokes to reload offloaded content.
const ToolName = "context_reload"

const paramUUID = "working_context_offload_uuid"

// Offloader is the narrow collaborator Tool depends on — satisfied by
// *memory.AutoContextMemory. A tool is bound to exactly one offloader at
// construction; there is no global tool registry.
type Offloader interface {
	Reload(uuid string) []*message.Msg
}

// Request is the typed, schema-described input to the tool.
type Request struct {
	UUID string `json:"working_context_offload_uuid" jsonschema:"required,description=The offload UUID embedded in a compressed message."`
}

// Tool implements the context_reload tool against one bound offloader.
type Tool struct {
	offloader Offloader
}

// New binds a Tool to offloader. offloader may be nil; in that case every
// call reports "offloader unavailable" rather than panicking.
func New(offloader Offloader) *Tool {
	return &Tool{offloader: offloader}
}

// Name returns the tool's invocation name.
func (t *Tool) Name() string { return ToolName }

// Description describes the tool for LLM function-calling.
func (t *Tool) Description() string {
	return "Reloads the original content of a message that was compressed out of the working " +
		"context, given the working_context_offload_uuid it was replaced with."
}

// Schema returns the JSON schema for the tool's input, generated from
// Request for LLM function-calling registration.
func Schema() map[string]any {
	reflector := &jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		DoNotReference:             true,
	}
	schema := reflector.Reflect(new(Request))
	data, err := json.Marshal(schema)
	if err != nil {
		return map[string]any{"type": "object"}
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return map[string]any{"type": "object"}
	}
	delete(out, "$schema")
	delete(out, "$id")
	return out
}

// Call decodes input, looks up the UUID in the bound offloader, and
// returns the offloaded messages. Errors never cross this boundary as a
// Go error — any problem (nil offloader, missing/blank UUID, unknown
// UUID) comes back as a single Text message describing it instead.
func (t *Tool) Call(ctx context.Context, input map[string]any) []*message.Msg {
	if t.offloader == nil {
		return errorResult("context_reload: no offloader is configured for this memory")
	}

	var req Request
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &req,
		TagName:          "json",
		WeaklyTypedInput: true,
	})
	if err != nil {
		return errorResult("context_reload: internal decoder error: " + err.Error())
	}
	if err := decoder.Decode(input); err != nil {
		return errorResult("context_reload: could not decode input: " + err.Error())
	}

	if req.UUID == "" {
		return errorResult("context_reload: " + paramUUID + " is required")
	}

	msgs := t.offloader.Reload(req.UUID)
	if len(msgs) == 0 {
		return errorResult("context_reload: no offloaded content found for " + paramUUID + " = " + req.UUID)
	}
	return msgs
}

func errorResult(text string) []*message.Msg {
	return []*message.Msg{message.NewText(message.RoleTool, ToolName, text)}
}
