package memory

import (
	"context"
	"math"

	"github.com/agentscope-go/core/internal/logging"
	"github.com/agentscope-go/core/message"
	"github.com/agentscope-go/core/plan"
)

// applyS1 compresses the oldest qualifying run of consecutive tool
// messages strictly before the latest final assistant response and the
// protected tail, iterating up to five times in one pass so multiple
// disjoint runs can be coalesced.
func (m *AutoContextMemory) applyS1(ctx context.Context) (bool, error) {
	applied := false
	for iter := 0; iter < 5; iter++ {
		boundary := protectedBoundary(m.working, m.cfg.LastKeep)
		if boundary <= 0 {
			break
		}
		start, end, found := scanForQualifyingToolRun(m.working, boundary, m.cfg.MinConsecutiveToolMessages)
		if !found {
			break
		}

		run := append([]*message.Msg(nil), m.working[start:end+1]...)
		summary, err := m.runSummarizer(ctx, m.cfg.previousRoundToolPrompt(), run, 0)
		if err != nil {
			logging.Default().WarnContext(ctx, "previous-round tool compression failed", "error", err)
			break
		}

		uid := newOffloadUUID()
		m.offloadStore.Put(uid, run)
		replacement := message.NewText(message.RoleAssistant, "assistant", summary+"\n\n"+offloadHint(uid)).
			WithMetadata(map[string]any{message.MetaOffloadUUID: uid})
		m.spliceWorking(start, end, replacement)
		m.recordEvent(EventPreviousRoundToolCompression, len(run), idAt(m.working, start-1), idAt(m.working, start+1), replacement.ID())
		applied = true
	}
	return applied, nil
}

// applyS2 offloads any over-threshold message strictly before
// min(latestFinalAssistantIndex, size-lastKeep).
func (m *AutoContextMemory) applyS2(ctx context.Context) (bool, error) {
	if len(m.working) < m.cfg.LastKeep {
		return false, nil
	}
	boundary := protectedBoundary(m.working, m.cfg.LastKeep)
	return m.offloadLargePayloads(boundary, EventLargePayloadOffloadTail), nil
}

// applyS3 offloads any over-threshold message up to the latest final
// assistant response, without the last-lastKeep guard S2 applies.
func (m *AutoContextMemory) applyS3(ctx context.Context) (bool, error) {
	boundary := len(m.working)
	if idx := latestFinalAssistantIndex(m.working); idx >= 0 {
		boundary = idx
	}
	return m.offloadLargePayloads(boundary, EventLargePayloadOffload), nil
}

// applyS4 summarizes each non-adjacent (user, final-assistant-response)
// round strictly before the latest final assistant response, processing
// rounds from last to first so earlier indices stay valid.
func (m *AutoContextMemory) applyS4(ctx context.Context) (bool, error) {
	finalIdx := latestFinalAssistantIndex(m.working)
	if finalIdx < 0 {
		return false, nil
	}

	var priorAssistantIdxs []int
	for _, idx := range allFinalAssistantIndices(m.working) {
		if idx < finalIdx {
			priorAssistantIdxs = append(priorAssistantIdxs, idx)
		}
	}

	applied := false
	for i := len(priorAssistantIdxs) - 1; i >= 0; i-- {
		assistantIdx := priorAssistantIdxs[i]
		userIdx := precedingUserIndex(m.working, assistantIdx)
		if userIdx < 0 || assistantIdx <= userIdx+1 {
			continue
		}

		start, end := userIdx+1, assistantIdx
		run := append([]*message.Msg(nil), m.working[start:end+1]...)
		summary, err := m.runSummarizer(ctx, m.cfg.previousRoundSummaryPrompt(), run, 0)
		if err != nil {
			logging.Default().WarnContext(ctx, "previous-round summary failed", "error", err)
			continue
		}

		uid := newOffloadUUID()
		m.offloadStore.Put(uid, run)
		text := "<conversation_summary>" + summary + "</conversation_summary>\n\n" + offloadHint(uid)
		replacement := message.NewText(message.RoleAssistant, "assistant", text).
			WithMetadata(map[string]any{message.MetaOffloadUUID: uid})
		m.spliceWorking(start, end, replacement)
		m.recordEvent(EventPreviousRoundSummary, len(run), idAt(m.working, start-1), idAt(m.working, start+1), replacement.ID())
		applied = true
	}
	return applied, nil
}

// applyS5 summarizes any over-threshold message after the latest USER
// message, walking from the tail backward to avoid index shifts.
func (m *AutoContextMemory) applyS5(ctx context.Context) (bool, error) {
	userIdx := latestUserIndex(m.working)
	if userIdx < 0 {
		return false, nil
	}

	applied := false
	for i := len(m.working) - 1; i > userIdx; i-- {
		msg := m.working[i]
		text := msg.Text()
		if len(text) <= m.cfg.LargePayloadThreshold {
			continue
		}

		summary, err := m.runSummarizer(ctx, m.cfg.currentRoundLargePrompt(), []*message.Msg{msg}, 0)
		if err != nil {
			logging.Default().WarnContext(ctx, "current-round large-message summary failed", "error", err)
			continue
		}

		uid := newOffloadUUID()
		m.offloadStore.Put(uid, []*message.Msg{msg})
		body := "<compressed_large_message>" + summary + "</compressed_large_message>\n\n" + offloadHint(uid)
		replacement := msg.WithContent([]message.ContentBlock{message.NewTextBlock(body)}).
			WithMetadata(map[string]any{message.MetaOffloadUUID: uid})
		m.working[i] = replacement
		m.recordEvent(EventCurrentRoundLargeMessage, 1, idAt(m.working, i-1), idAt(m.working, i+1), replacement.ID())
		applied = true
	}
	return applied, nil
}

// applyS6 compresses the current round's tool run (everything after the
// latest USER message, minus a trailing unpaired ToolUse) under an
// explicit character budget.
func (m *AutoContextMemory) applyS6(ctx context.Context) (bool, error) {
	userIdx := latestUserIndex(m.working)
	if userIdx < 0 {
		return false, nil
	}

	start, end := userIdx+1, len(m.working)-1
	if end >= start && isToolUseMessage(m.working[end]) {
		end--
	}
	if start > end {
		return false, nil
	}

	run := append([]*message.Msg(nil), m.working[start:end+1]...)
	originalChars := 0
	for _, r := range run {
		originalChars += len(r.Text())
	}
	targetChars := int(math.Round(float64(originalChars) * m.cfg.CurrentRoundCompressionRatio))

	summary, err := m.runSummarizer(ctx, m.cfg.currentRoundCompressPrompt(), run, targetChars)
	if err != nil {
		logging.Default().WarnContext(ctx, "current-round tool compression failed", "error", err)
		return false, nil
	}

	uid := newOffloadUUID()
	m.offloadStore.Put(uid, run)
	text := summary + "\n\n" + offloadHint(uid)
	replacement := message.NewText(message.RoleAssistant, "assistant", text).
		WithMetadata(map[string]any{
			message.MetaOffloadUUID:            uid,
			message.MetaCompressedCurrentRound: true,
		})
	m.spliceWorking(start, end, replacement)
	m.recordEvent(EventCurrentRoundToolCompression, len(run), idAt(m.working, start-1), idAt(m.working, start+1), replacement.ID())
	return true, nil
}

func (m *AutoContextMemory) offloadLargePayloads(boundary int, eventType EventType) bool {
	applied := false
	limit := minInt(boundary, len(m.working))
	for i := 0; i < limit; i++ {
		msg := m.working[i]
		text := msg.Text()
		if len(text) <= m.cfg.LargePayloadThreshold {
			continue
		}

		uid := newOffloadUUID()
		m.offloadStore.Put(uid, []*message.Msg{msg})
		preview := text
		if len(preview) > m.cfg.OffloadSinglePreview {
			preview = preview[:m.cfg.OffloadSinglePreview]
		}
		replacement := msg.WithContent([]message.ContentBlock{message.NewTextBlock(preview + "…\n" + offloadHint(uid))}).
			WithMetadata(map[string]any{message.MetaOffloadUUID: uid})
		m.working[i] = replacement
		m.recordEvent(eventType, 1, idAt(m.working, i-1), idAt(m.working, i+1), replacement.ID())
		applied = true
	}
	return applied
}

// runSummarizer assembles the shared compression-prompt structure and
// invokes the configured Summarizer, stripping plan-notebook bookkeeping
// tool calls from the content first.
func (m *AutoContextMemory) runSummarizer(ctx context.Context, instruction string, toCompress []*message.Msg, budgetChars int) (string, error) {
	if m.summarizer == nil {
		return "", errNoSummarizer
	}
	filtered := filterPlanRelatedToolCalls(toCompress)
	reqMsgs := buildCompressionRequest(instruction, filtered, budgetChars, m.currentPlanSnapshot())
	return m.summarizer.Generate(ctx, reqMsgs, budgetChars)
}

func (m *AutoContextMemory) currentPlanSnapshot() *plan.Plan {
	if m.notebook == nil {
		return nil
	}
	p, ok := m.notebook.CurrentPlan()
	if !ok {
		return nil
	}
	cp := p.Clone()
	return &cp
}

// spliceWorking replaces the inclusive range [start,end] of the working
// store with the single message replacement.
func (m *AutoContextMemory) spliceWorking(start, end int, replacement *message.Msg) {
	tail := append([]*message.Msg(nil), m.working[end+1:]...)
	m.working = append(m.working[:start:start], replacement)
	m.working = append(m.working, tail...)
}

func (m *AutoContextMemory) recordEvent(eventType EventType, count int, prevID, nextID, compressedID string) {
	m.events = append(m.events, CompressionEvent{
		EventType:              eventType,
		Timestamp:              nowForEvent(),
		CompressedMessageCount: count,
		PreviousMessageID:      prevID,
		NextMessageID:          nextID,
		CompressedMessageID:    compressedID,
	})
}

// protectedBoundary returns the index before which S1/S2 may touch
// messages: min(latestFinalAssistantIndex, size-lastKeep). A missing
// final assistant response imposes no constraint from that side.
func protectedBoundary(msgs []*message.Msg, lastKeep int) int {
	limit := len(msgs) - lastKeep
	if idx := latestFinalAssistantIndex(msgs); idx >= 0 {
		limit = minInt(limit, idx)
	}
	return limit
}

// scanForQualifyingToolRun finds the oldest maximal run of consecutive
// tool messages within [0,boundary) whose length exceeds k, trims it to
// start at a ToolUse and end at a ToolResult, and returns it only if the
// trimmed length still exceeds k; otherwise it keeps scanning past that
// run for another candidate.
func scanForQualifyingToolRun(msgs []*message.Msg, boundary, k int) (int, int, bool) {
	i := 0
	for i < boundary {
		if !isToolMessage(msgs[i]) {
			i++
			continue
		}
		j := i
		for j < boundary && isToolMessage(msgs[j]) {
			j++
		}
		rawStart, rawEnd := i, j-1
		if rawEnd-rawStart+1 > k {
			ts, te, ok := trimToolRunBounds(msgs, rawStart, rawEnd)
			if ok && te-ts+1 > k {
				return ts, te, true
			}
		}
		i = j
	}
	return 0, 0, false
}

// trimToolRunBounds trims [start,end] inward so it starts at a ToolUse
// message and ends at a ToolResult message.
func trimToolRunBounds(msgs []*message.Msg, start, end int) (int, int, bool) {
	for start <= end && !isToolUseMessage(msgs[start]) {
		start++
	}
	for end >= start && !isToolResultMessage(msgs[end]) {
		end--
	}
	if start > end {
		return 0, 0, false
	}
	return start, end, true
}

func idAt(msgs []*message.Msg, i int) string {
	if i < 0 || i >= len(msgs) {
		return ""
	}
	return msgs[i].ID()
}
