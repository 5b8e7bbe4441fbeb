package memory

import (
	"fmt"
	"strings"

	"github.com/agentscope-go/core/message"
	"github.com/agentscope-go/core/plan"
)

const compressionListMarker = "Above is the message list that needs to be compressed."

const defaultPreviousRoundToolPrompt = "Summarize the following tool invocation run. Preserve every tool " +
	"name and its arguments, and the key result of each call. Give stronger, more literal retention to " +
	"calls that write, mutate, or have side effects (file writes, commits, API mutations) than to pure " +
	"reads. Do not invent results you don't see."

const defaultPreviousRoundSummaryPrompt = "Summarize the following prior conversation round. Never mention " +
	"tools, APIs, or function calls by name; describe only what was accomplished and learned. Preserve " +
	"file paths, identifiers, error codes, and the outcome of any write operation exactly."

const defaultCurrentRoundLargePrompt = "Compress the following large message into a concise summary that " +
	"preserves identifiers, file paths, error codes, and any decision-relevant detail a later turn might " +
	"need."

const defaultCurrentRoundCompressPrompt = "Compress the following tool run from the current turn into a " +
	"concise account that preserves tool names, arguments, and result highlights, with stronger retention " +
	"for write/mutating calls."

// offloadHint formats the fixed footer appended to every compressed
// replacement, pointing the model at the context_reload tool.
func offloadHint(uuid string) string {
	return fmt.Sprintf(
		"[The original content has been moved to working_context_offload_uuid = %s. "+
			"Call the context_reload tool with this UUID if you need the original content.]",
		uuid,
	)
}

// compressionBudgetMessage is the fixed-format USER message S6 appends
// after the message-list marker, carrying the explicit character budget.
func compressionBudgetMessage(targetChars int) *message.Msg {
	text := fmt.Sprintf(
		"Compress the above into at most approximately %d characters. Prioritize the information a "+
			"continuing conversation would need most.",
		targetChars,
	)
	return message.NewText(message.RoleUser, "user", text)
}

// buildCompressionRequest assembles the shared prompt structure used by
// S1, S4, S5, and S6: instruction, content, fixed marker, optional
// budget message (S6 only), optional plan-aware hint (last, for
// recency).
func buildCompressionRequest(instruction string, toCompress []*message.Msg, budgetChars int, activePlan *plan.Plan) []*message.Msg {
	out := make([]*message.Msg, 0, len(toCompress)+3)
	out = append(out, message.NewText(message.RoleUser, "user", instruction))
	out = append(out, toCompress...)
	out = append(out, message.NewText(message.RoleUser, "user", compressionListMarker))

	if budgetChars > 0 {
		out = append(out, compressionBudgetMessage(budgetChars))
	}

	if activePlan != nil {
		out = append(out, message.NewText(message.RoleUser, "user", planAwareHint(activePlan)))
	}
	return out
}

// planAwareHint renders the current plan into the <plan_aware_hint> block
// appended to a compression request, placed last to exploit recency.
func planAwareHint(p *plan.Plan) string {
	var b strings.Builder
	b.WriteString("<plan_aware_hint>\n")
	fmt.Fprintf(&b, "Plan: %s (%s)\n", p.Name, p.State)
	if p.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", p.Description)
	}
	if p.ExpectedOutcome != "" {
		fmt.Fprintf(&b, "Expected outcome: %s\n", p.ExpectedOutcome)
	}
	b.WriteString("Subtasks:\n")
	for _, st := range p.Subtasks {
		marker := ""
		switch st.State {
		case plan.StateInProgress:
			marker = " [IN PROGRESS]"
		case plan.StateDone:
			marker = " [DONE"
			if st.Outcome != "" {
				marker += ": " + st.Outcome
			}
			marker += "]"
		}
		fmt.Fprintf(&b, "- %s%s\n", st.Name, marker)
	}
	b.WriteString("Prioritize plan-aligned information and preserve context for any in-progress subtask.\n")
	b.WriteString("</plan_aware_hint>")
	return b.String()
}

func (c Config) previousRoundToolPrompt() string {
	if c.Prompts.PreviousRoundToolPrompt != "" {
		return c.Prompts.PreviousRoundToolPrompt
	}
	return defaultPreviousRoundToolPrompt
}

func (c Config) previousRoundSummaryPrompt() string {
	if c.Prompts.PreviousRoundSummaryPrompt != "" {
		return c.Prompts.PreviousRoundSummaryPrompt
	}
	return defaultPreviousRoundSummaryPrompt
}

func (c Config) currentRoundLargePrompt() string {
	if c.Prompts.CurrentRoundLargePrompt != "" {
		return c.Prompts.CurrentRoundLargePrompt
	}
	return defaultCurrentRoundLargePrompt
}

func (c Config) currentRoundCompressPrompt() string {
	if c.Prompts.CurrentRoundCompressPrompt != "" {
		return c.Prompts.CurrentRoundCompressPrompt
	}
	return defaultCurrentRoundCompressPrompt
}
