package memory

import (
	"context"
	"errors"

	"github.com/agentscope-go/core/message"
)

var errNoSummarizer = errors.New("memory: no summarizer configured")

// Summarizer stands in for the LLM itself: compression strategies hand it
// a sequence of instruction + content messages and get back compressed
// text. budgetChars is non-zero only for the current-round tool-run
// strategy, which enforces an explicit character budget; other
// strategies pass 0.
type Summarizer interface {
	Generate(ctx context.Context, msgs []*message.Msg, budgetChars int) (string, error)
}
