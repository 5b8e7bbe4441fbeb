package memory

import "github.com/agentscope-go/core/message"

// planToolNames lists the plan-notebook tool names that
// filterPlanRelatedToolCalls strips from compression prompts, so plan
// bookkeeping churn doesn't distract the summarizer.
var planToolNames = map[string]bool{
	"create_plan":             true,
	"update_plan_info":        true,
	"revise_current_plan":     true,
	"update_subtask_state":    true,
	"finish_subtask":          true,
	"view_subtasks":           true,
	"get_subtask_count":       true,
	"finish_plan":             true,
	"view_historical_plans":   true,
	"recover_historical_plan": true,
}

func isToolUseMessage(m *message.Msg) bool { return m.HasToolUse() }

func isToolResultMessage(m *message.Msg) bool { return m.HasToolResult() }

func isToolMessage(m *message.Msg) bool {
	return isToolUseMessage(m) || isToolResultMessage(m)
}

// isFinalAssistantResponse reports whether m is an ASSISTANT message with
// no tool-use/result blocks that hasn't been marked as a synthetic
// current-round compression message.
func isFinalAssistantResponse(m *message.Msg) bool {
	return m.Role() == message.RoleAssistant &&
		!m.HasToolUse() &&
		!m.HasToolResult() &&
		!m.MetaBool(message.MetaCompressedCurrentRound)
}

// filterPlanRelatedToolCalls removes ASSISTANT messages whose every
// ToolUse block names a plan-notebook tool, along with any TOOL message
// whose ToolResult id matches a removed ToolUse, so compression prompts
// aren't distracted by plan bookkeeping.
func filterPlanRelatedToolCalls(msgs []*message.Msg) []*message.Msg {
	removedIDs := make(map[string]bool)
	kept := make([]*message.Msg, 0, len(msgs))

	for _, m := range msgs {
		if m.Role() == message.RoleAssistant && m.HasToolUse() && allToolUsesArePlanTools(m) {
			for _, id := range m.ToolUseIDs() {
				removedIDs[id] = true
			}
			continue
		}
		kept = append(kept, m)
	}

	out := make([]*message.Msg, 0, len(kept))
	for _, m := range kept {
		if m.HasToolResult() && allToolResultsRemoved(m, removedIDs) {
			continue
		}
		out = append(out, m)
	}
	return out
}

func allToolUsesArePlanTools(m *message.Msg) bool {
	for _, b := range m.Content() {
		u, ok := b.(message.ToolUse)
		if !ok {
			continue
		}
		if !planToolNames[u.Name] {
			return false
		}
	}
	return true
}

func allToolResultsRemoved(m *message.Msg, removedIDs map[string]bool) bool {
	for _, id := range m.ToolResultIDs() {
		if !removedIDs[id] {
			return false
		}
	}
	return true
}
