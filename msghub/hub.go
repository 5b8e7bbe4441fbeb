// Package msghub implements the pub/sub room that broadcasts each
// participant agent's output to its peers, with dynamic membership and a
// scoped-acquisition lifecycle modeled on Go's own defer idiom rather
// than a borrowed reactive resource type.
package msghub

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agentscope-go/core/agent"
	"github.com/agentscope-go/core/message"
	"github.com/agentscope-go/core/telemetry"
)

// Hub is a named room over an ordered set of participant agents.
type Hub struct {
	mu            sync.Mutex
	name          string
	participants  []agent.Agent
	announcement  []*message.Msg
	autoBroadcast bool
	entered       bool
}

// Builder builds a Hub.
type Builder struct {
	name          string
	participants  []agent.Agent
	announcement  []*message.Msg
	autoBroadcast bool
}

// NewBuilder starts a builder with autoBroadcast defaulting to true.
func NewBuilder() *Builder {
	return &Builder{autoBroadcast: true}
}

// Name sets the hub's name. If never called (or called with ""), Build
// auto-generates one.
func (b *Builder) Name(name string) *Builder {
	b.name = name
	return b
}

// Participants sets the ordered participant set.
func (b *Builder) Participants(participants []agent.Agent) *Builder {
	b.participants = append([]agent.Agent(nil), participants...)
	return b
}

// Announcement appends one or more announcement messages, broadcast to
// every participant on Enter.
func (b *Builder) Announcement(msgs ...*message.Msg) *Builder {
	b.announcement = append(b.announcement, msgs...)
	return b
}

// AutoBroadcast toggles whether Enter installs peer subscriber sets.
// Defaults to true.
func (b *Builder) AutoBroadcast(enabled bool) *Builder {
	b.autoBroadcast = enabled
	return b
}

// Build finalizes the hub. Returns an *IllegalArgumentError if
// participants is empty.
func (b *Builder) Build() (*Hub, error) {
	if len(b.participants) == 0 {
		return nil, newIllegalArgumentError("Hub", "participants must be non-empty")
	}
	name := b.name
	if name == "" {
		name = "hub-" + uuid.NewString()
	}
	return &Hub{
		name:          name,
		participants:  append([]agent.Agent(nil), b.participants...),
		announcement:  append([]*message.Msg(nil), b.announcement...),
		autoBroadcast: b.autoBroadcast,
	}, nil
}

// Name returns the hub's name.
func (h *Hub) Name() string { return h.name }

// IsAutoBroadcastEnabled reports whether auto-broadcast subscriber
// installation is currently enabled.
func (h *Hub) IsAutoBroadcastEnabled() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.autoBroadcast
}

// Participants returns a snapshot of the current participant set.
func (h *Hub) Participants() []agent.Agent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]agent.Agent(nil), h.participants...)
}

// Enter broadcasts every announcement message to every participant, then
// — if auto-broadcast is enabled — installs each participant's
// subscriber set to its peers, scoped to this hub's name.
func (h *Hub) Enter(ctx context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.entered = true
	if err := h.broadcastLocked(ctx, h.announcement); err != nil {
		return err
	}
	if h.autoBroadcast {
		h.installSubscribersLocked()
	}
	return nil
}

// Exit removes this hub's subscribers from every current and former
// participant. Exit is an alias for Close.
func (h *Hub) Exit() {
	h.Close()
}

// Close removes this hub's subscribers from every participant. Idempotent
// — safe to call multiple times, including from a deferred cleanup after
// an error.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeSubscribersLocked()
	h.entered = false
}

// Broadcast invokes Observe on every participant for each message, in
// participant iteration order, one message at a time so that within a
// single call each participant's deliveries are in the given order.
func (h *Hub) Broadcast(ctx context.Context, msgs ...*message.Msg) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.broadcastLocked(ctx, msgs)
}

func (h *Hub) broadcastLocked(ctx context.Context, msgs []*message.Msg) error {
	if len(msgs) == 0 {
		return nil
	}
	_, span := telemetry.StartSpan(ctx, "agentscope.msghub", telemetry.SpanHubBroadcast)
	defer span.End()
	span.SetAttributes(attribute.Int(telemetry.AttrParticipants, len(h.participants)))

	for _, m := range msgs {
		for _, p := range h.participants {
			if err := p.Observe(ctx, m); err != nil {
				return err
			}
		}
	}
	telemetry.Global().HubBroadcasts.Inc()
	return nil
}

// Add appends agent a to the participant set, idempotently (a no-op if
// already present by ID). If the hub has entered and auto-broadcast is
// enabled, every participant's subscriber set (including the new one's)
// is recomputed.
func (h *Hub) Add(a agent.Agent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, p := range h.participants {
		if p.ID() == a.ID() {
			return
		}
	}
	h.participants = append(h.participants, a)
	if h.entered && h.autoBroadcast {
		h.installSubscribersLocked()
	}
}

// Delete removes agent a from the participant set. If the hub has entered
// with auto-broadcast enabled, subscriber sets are recomputed for the
// remaining participants and a's own subscribers for this hub are
// removed.
func (h *Hub) Delete(a agent.Agent) {
	h.mu.Lock()
	defer h.mu.Unlock()

	idx := -1
	for i, p := range h.participants {
		if p.ID() == a.ID() {
			idx = i
			break
		}
	}
	if idx == -1 {
		return
	}
	h.participants = append(h.participants[:idx:idx], h.participants[idx+1:]...)

	if h.entered && h.autoBroadcast {
		a.RemoveSubscribers(h.name)
		h.installSubscribersLocked()
	}
}

// SetAutoBroadcast toggles auto-broadcast. Toggling to false removes
// every participant's subscriber set for this hub; toggling to true
// re-installs the current participant set as each other's subscribers
// (only if the hub has entered).
func (h *Hub) SetAutoBroadcast(enabled bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.autoBroadcast == enabled {
		return
	}
	h.autoBroadcast = enabled
	if !h.entered {
		return
	}
	if enabled {
		h.installSubscribersLocked()
	} else {
		h.removeSubscribersLocked()
	}
}

func (h *Hub) installSubscribersLocked() {
	for _, p := range h.participants {
		peers := make([]agent.Agent, 0, len(h.participants)-1)
		for _, other := range h.participants {
			if other.ID() != p.ID() {
				peers = append(peers, other)
			}
		}
		p.ResetSubscribers(h.name, peers)
	}
}

func (h *Hub) removeSubscribersLocked() {
	for _, p := range h.participants {
		p.RemoveSubscribers(h.name)
	}
}

// Scoped runs fn with a hub entered, guaranteeing Close runs on every
// exit path (including a panic unwinding through fn), mirroring the
// defer-based scoped-acquisition idiom Go code uses in place of a
// try-with-resources construct.
func Scoped(ctx context.Context, h *Hub, fn func(ctx context.Context, h *Hub) error) error {
	if err := h.Enter(ctx); err != nil {
		return err
	}
	defer h.Close()
	return fn(ctx, h)
}

// With is an alternative entry point returning a release function for
// callers that prefer an explicit defer at the call site over a
// callback, e.g.:
//
//	release, err := msghub.With(ctx, h)
//	if err != nil { return err }
//	defer release()
func With(ctx context.Context, h *Hub) (func(), error) {
	if err := h.Enter(ctx); err != nil {
		return nil, err
	}
	return h.Close, nil
}
