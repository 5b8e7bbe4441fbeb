package memory

import "github.com/agentscope-go/core/message"

// latestFinalAssistantIndex returns the index of the last message in
// msgs that is a final assistant response, or -1 if none exists.
func latestFinalAssistantIndex(msgs []*message.Msg) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		if isFinalAssistantResponse(msgs[i]) {
			return i
		}
	}
	return -1
}

// latestUserIndex returns the index of the last USER message in msgs, or
// -1 if none exists.
func latestUserIndex(msgs []*message.Msg) int {
	for i := len(msgs) - 1; i >= 0; i-- {
		if msgs[i].Role() == message.RoleUser {
			return i
		}
	}
	return -1
}

// allFinalAssistantIndices returns the indices of every final assistant
// response in msgs, oldest first.
func allFinalAssistantIndices(msgs []*message.Msg) []int {
	var out []int
	for i, m := range msgs {
		if isFinalAssistantResponse(m) {
			out = append(out, i)
		}
	}
	return out
}

// precedingUserIndex returns the index of the closest USER message at or
// before assistantIdx, or -1 if none.
func precedingUserIndex(msgs []*message.Msg, assistantIdx int) int {
	for i := assistantIdx; i >= 0; i-- {
		if msgs[i].Role() == message.RoleUser {
			return i
		}
	}
	return -1
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
