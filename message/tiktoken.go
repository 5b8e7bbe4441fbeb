package message

import (
	"sync"

	"github.com/pkoukk/tiktoken-go"
)

// TiktokenEstimator is an optional, more precise Estimator backed by
// pkoukk/tiktoken-go, for callers who want real BPE tokenization for
// observability/dashboards rather than the deterministic char-based
// approximation that drives the compression trigger itself. The core
// never selects this estimator implicitly; CharEstimator remains the
// default.
type TiktokenEstimator struct {
	mu  sync.Mutex
	enc *tiktoken.Tiktoken
}

// NewTiktokenEstimator builds an estimator using the named encoding (e.g.
// "cl100k_base"). If the encoding cannot be loaded it returns a nil
// estimator and the load error; it does not fall back to CharEstimator.
func NewTiktokenEstimator(encoding string) (*TiktokenEstimator, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, err
	}
	return &TiktokenEstimator{enc: enc}, nil
}

// EstimateMessage implements Estimator.
func (t *TiktokenEstimator) EstimateMessage(m *Msg) int {
	if m == nil || t.enc == nil {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	total := overheadMessage
	total += len(t.enc.Encode(string(m.role), nil, nil))
	total += len(t.enc.Encode(m.name, nil, nil))
	for _, b := range m.content {
		if txt, ok := b.(Text); ok {
			total += len(t.enc.Encode(txt.TextValue, nil, nil))
			continue
		}
		total += estimateBlock(b)
	}
	return total
}
