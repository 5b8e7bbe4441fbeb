// Package memory implements the auto-context engine: a six-strategy
// context compression pipeline that keeps an LLM's rolling conversation
// under message and token budgets while preserving tool-call semantics,
// offloading large payloads for later retrieval, and staying plan-aware.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/agentscope-go/core/internal/logging"
	"github.com/agentscope-go/core/message"
	"github.com/agentscope-go/core/offload"
	"github.com/agentscope-go/core/plan"
	"github.com/agentscope-go/core/session"
	"github.com/agentscope-go/core/telemetry"
)

const (
	sessionSubKeyWorking  = "autoContextMemory_workingMessages"
	sessionSubKeyOriginal = "autoContextMemory_originalMessages"
	sessionSubKeyOffload  = "autoContextMemory_offloadContext"
)

// AutoContextMemory maintains a working store (what the LLM sees) and an
// append-only original store (the audit trail), compressing the working
// store with the six ordered strategies whenever it grows past its
// configured thresholds.
type AutoContextMemory struct {
	mu sync.Mutex

	cfg        Config
	estimator  message.Estimator
	summarizer Summarizer
	notebook   plan.Notebook

	working      []*message.Msg
	original     []*message.Msg
	offloadStore *offload.Store[*message.Msg]
	events       []CompressionEvent
}

// New constructs an AutoContextMemory. estimator may be nil, defaulting
// to message.CharEstimator. summarizer must be non-nil if the caller ever
// expects compression to actually trigger (without one, compression
// strategies that need the LLM simply report "not applied").
func New(cfg Config, estimator message.Estimator, summarizer Summarizer) *AutoContextMemory {
	if estimator == nil {
		estimator = message.CharEstimator{}
	}
	return &AutoContextMemory{
		cfg:          cfg,
		estimator:    estimator,
		summarizer:   summarizer,
		offloadStore: offload.New[*message.Msg](),
	}
}

// AddMessage appends m to both the working store and the original store.
func (m *AutoContextMemory) AddMessage(msg *message.Msg) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.working = append(m.working, msg)
	m.original = append(m.original, msg)
}

// GetMessages returns a snapshot of the working store, triggering
// compression first if either the message-count or token thresholds are
// reached.
func (m *AutoContextMemory) GetMessages(ctx context.Context) ([]*message.Msg, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.thresholdReachedLocked() {
		if _, err := m.compressIfNeededLocked(ctx); err != nil {
			return nil, err
		}
	}
	return snapshot(m.working), nil
}

// CompressIfNeeded performs at most one strategy application pass,
// reporting whether any strategy applied. It does not check the
// thresholds first. Calling it again immediately may apply a further
// strategy, or report false if nothing more qualifies.
func (m *AutoContextMemory) CompressIfNeeded(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.compressIfNeededLocked(ctx)
}

func (m *AutoContextMemory) thresholdReachedLocked() bool {
	if len(m.working) >= m.cfg.MsgThreshold {
		return true
	}
	tokens := message.EstimateMessages(m.estimator, m.working)
	return float64(tokens) >= float64(m.cfg.MaxToken)*m.cfg.TokenRatio
}

func (m *AutoContextMemory) compressIfNeededLocked(ctx context.Context) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "agentscope.memory", telemetry.SpanMemoryCompress)
	defer span.End()

	strategies := []func(context.Context) (bool, error){
		m.applyS1,
		m.applyS2,
		m.applyS3,
		m.applyS4,
		m.applyS5,
		m.applyS6,
	}

	for i, strategy := range strategies {
		applied, err := strategy(ctx)
		if err != nil {
			logging.Default().WarnContext(ctx, "compression strategy failed, trying next",
				"strategy_index", i+1, "error", err)
			continue
		}
		if applied {
			telemetry.Global().CompressionEvents.WithLabelValues(fmt.Sprintf("s%d", i+1)).Inc()
			return true, nil
		}
	}
	return false, nil
}

// DeleteMessage removes the message at working-store index i.
func (m *AutoContextMemory) DeleteMessage(i int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i < 0 || i >= len(m.working) {
		return fmt.Errorf("memory: index %d out of range [0,%d)", i, len(m.working))
	}
	m.working = append(m.working[:i:i], m.working[i+1:]...)
	return nil
}

// Clear resets both the working store and the original store. The
// offload store and event log are untouched.
func (m *AutoContextMemory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.working = nil
	m.original = nil
}

// Offload files msgs under uuid in the offload store.
func (m *AutoContextMemory) Offload(uuid string, msgs []*message.Msg) {
	m.offloadStore.Put(uuid, msgs)
}

// Reload returns the messages filed under uuid, or an empty slice if
// absent.
func (m *AutoContextMemory) Reload(uuid string) []*message.Msg {
	return m.offloadStore.Get(uuid)
}

// ClearOffload removes the entry filed under uuid.
func (m *AutoContextMemory) ClearOffload(uuid string) {
	m.offloadStore.Clear(uuid)
}

// AttachPlanNote attaches (or detaches, if nil) the plan notebook
// consulted for plan-aware compression hints. Idempotent.
func (m *AutoContextMemory) AttachPlanNote(notebook plan.Notebook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notebook = notebook
}

// OriginalMessages returns a snapshot of the append-only original store.
func (m *AutoContextMemory) OriginalMessages() []*message.Msg {
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot(m.original)
}

// InteractionMessages returns the original store filtered to USER
// messages and final assistant responses only, in original order.
func (m *AutoContextMemory) InteractionMessages() []*message.Msg {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]*message.Msg, 0, len(m.original))
	for _, msg := range m.original {
		if msg.Role() == message.RoleUser || isFinalAssistantResponse(msg) {
			out = append(out, msg)
		}
	}
	return out
}

// OffloadContext returns a deep snapshot of the offload store, keyed by
// UUID.
func (m *AutoContextMemory) OffloadContext() map[string][]*message.Msg {
	return m.offloadStore.Snapshot()
}

// CompressionEvents returns a snapshot of the append-only compression
// event log.
func (m *AutoContextMemory) CompressionEvents() []CompressionEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CompressionEvent(nil), m.events...)
}

// SaveTo serializes the working store, original store, and offload store
// into store under key, using fixed sub-keys.
func (m *AutoContextMemory) SaveTo(ctx context.Context, store session.Store, key string) error {
	m.mu.Lock()
	working := snapshot(m.working)
	original := snapshot(m.original)
	m.mu.Unlock()
	offloadSnapshot := m.offloadStore.Snapshot()

	if err := store.Save(ctx, key, sessionSubKeyWorking, working); err != nil {
		return fmt.Errorf("memory: save working store: %w", err)
	}
	if err := store.Save(ctx, key, sessionSubKeyOriginal, original); err != nil {
		return fmt.Errorf("memory: save original store: %w", err)
	}
	if err := store.Save(ctx, key, sessionSubKeyOffload, offloadSnapshot); err != nil {
		return fmt.Errorf("memory: save offload store: %w", err)
	}
	return nil
}

// LoadFrom restores the working store, original store, and offload store
// from store under key. Missing sub-keys leave the corresponding store
// untouched.
func (m *AutoContextMemory) LoadFrom(ctx context.Context, store session.Store, key string) error {
	var working []*message.Msg
	found, err := store.GetList(ctx, key, sessionSubKeyWorking, &working)
	if err != nil {
		return fmt.Errorf("memory: load working store: %w", err)
	}

	var original []*message.Msg
	foundOriginal, err := store.GetList(ctx, key, sessionSubKeyOriginal, &original)
	if err != nil {
		return fmt.Errorf("memory: load original store: %w", err)
	}

	var offloadSnapshot map[string][]*message.Msg
	foundOffload, err := store.Get(ctx, key, sessionSubKeyOffload, &offloadSnapshot)
	if err != nil {
		return fmt.Errorf("memory: load offload store: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if found {
		m.working = working
	}
	if foundOriginal {
		m.original = original
	}
	if foundOffload {
		m.offloadStore.Restore(offloadSnapshot)
	}
	return nil
}

func snapshot(msgs []*message.Msg) []*message.Msg {
	return append([]*message.Msg(nil), msgs...)
}

func newOffloadUUID() string { return uuid.NewString() }

func nowForEvent() time.Time { return time.Now() }
