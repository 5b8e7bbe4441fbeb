package agent_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentscope-go/core/agent"
	"github.com/agentscope-go/core/agent/agenttest"
)

func TestSubscriberScopingByHubName(t *testing.T) {
	a := agenttest.New("a", "hi")
	peer1 := agenttest.New("peer1", "x")
	peer2 := agenttest.New("peer2", "y")

	a.ResetSubscribers("hub1", []agent.Agent{peer1, peer2})
	assert.Equal(t, 2, a.SubscriberCount())
	assert.True(t, a.HasSubscribers())

	a.ResetSubscribers("hub2", []agent.Agent{peer1})
	assert.Equal(t, 3, a.SubscriberCount(), "hub1 and hub2 subscriber sets are independent")

	a.RemoveSubscribers("hub1")
	assert.Equal(t, 1, a.SubscriberCount(), "removing hub1 must not touch hub2's subscribers")

	a.RemoveSubscribers("hub2")
	assert.False(t, a.HasSubscribers())
}
