package agent

import "sync"

// BaseAgent implements the subscriber-management quarter of Agent so
// concrete agent types (and test doubles) don't need to reimplement
// hub-name-scoped subscriber bookkeeping. Embed it in a concrete Agent
// implementation and delegate ResetSubscribers/RemoveSubscribers/
// HasSubscribers/SubscriberCount to it.
type BaseAgent struct {
	mu          sync.RWMutex
	subscribers map[string][]Agent // hubName -> participants
}

// ResetSubscribers implements Agent.
func (b *BaseAgent) ResetSubscribers(hubName string, participants []Agent) {
	cp := append([]Agent(nil), participants...)
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subscribers == nil {
		b.subscribers = make(map[string][]Agent)
	}
	b.subscribers[hubName] = cp
}

// RemoveSubscribers implements Agent.
func (b *BaseAgent) RemoveSubscribers(hubName string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, hubName)
}

// HasSubscribers implements Agent.
func (b *BaseAgent) HasSubscribers() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, subs := range b.subscribers {
		if len(subs) > 0 {
			return true
		}
	}
	return false
}

// SubscriberCount implements Agent.
func (b *BaseAgent) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	n := 0
	for _, subs := range b.subscribers {
		n += len(subs)
	}
	return n
}

// Subscribers returns a snapshot of the current subscriber set for
// hubName, used by the agent's own Call implementation to broadcast its
// final response.
func (b *BaseAgent) Subscribers(hubName string) []Agent {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Agent(nil), b.subscribers[hubName]...)
}

// AllSubscribers returns the union of every hub's subscriber set,
// deduplicated by Agent.ID, for agents that broadcast regardless of which
// hub produced the subscription.
func (b *BaseAgent) AllSubscribers() []Agent {
	b.mu.RLock()
	defer b.mu.RUnlock()
	seen := make(map[string]bool)
	var out []Agent
	for _, subs := range b.subscribers {
		for _, a := range subs {
			if seen[a.ID()] {
				continue
			}
			seen[a.ID()] = true
			out = append(out, a)
		}
	}
	return out
}
