// Package agent defines the narrow capability interface pipelines and
// MsgHub depend on. No inheritance is assumed: any type implementing
// this interface can participate in a pipeline or a hub.
package agent

import (
	"context"

	"github.com/agentscope-go/core/message"
)

// Agent is the minimal contract the pipeline engine and MsgHub require.
type Agent interface {
	// Name returns the agent's display name.
	Name() string

	// ID returns the agent's opaque unique identifier.
	ID() string

	// Call performs one turn, producing the agent's final response (an
	// ASSISTANT message without ToolUse/ToolResult blocks). input may be
	// nil for agents that can produce a first message unprompted. May
	// fail with an *AgentError.
	//
	// After producing its final response, an implementation must deliver
	// that response to every current subscriber via Observe — intermediate
	// (tool-invoking) messages must never be broadcast this way.
	Call(ctx context.Context, input *message.Msg) (*message.Msg, error)

	// Observe appends an externally produced message to the agent's own
	// memory without triggering reasoning. Used by MsgHub to deliver peer
	// broadcasts and announcements.
	Observe(ctx context.Context, msg *message.Msg) error

	// ResetSubscribers replaces the agent's subscriber set scoped to
	// hubName. Two hubs over the same agent keep independent subscriber
	// sets because they're keyed by hub name.
	ResetSubscribers(hubName string, participants []Agent)

	// RemoveSubscribers detaches every subscriber owned by hubName,
	// leaving subscriber sets belonging to other hubs untouched.
	RemoveSubscribers(hubName string)

	// HasSubscribers reports whether the agent currently has any
	// subscriber, across all hubs.
	HasSubscribers() bool

	// SubscriberCount returns the total subscriber count across all hubs.
	SubscriberCount() int
}
