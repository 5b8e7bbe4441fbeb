package msghub_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentscope-go/core/agent"
	"github.com/agentscope-go/core/agent/agenttest"
	"github.com/agentscope-go/core/message"
	"github.com/agentscope-go/core/msghub"
)

func TestBuildRejectsEmptyParticipants(t *testing.T) {
	_, err := msghub.NewBuilder().Build()
	require.Error(t, err)

	var illegal *msghub.IllegalArgumentError
	assert.ErrorAs(t, err, &illegal)
}

func TestEnterBroadcastsAnnouncementsAndInstallsSubscribers(t *testing.T) {
	a := agenttest.New("a", "ra")
	b := agenttest.New("b", "rb")
	announce := message.NewText(message.RoleSystem, "system", "welcome")

	h, err := msghub.NewBuilder().
		Participants([]agent.Agent{a, b}).
		Announcement(announce).
		Build()
	require.NoError(t, err)

	require.NoError(t, h.Enter(context.Background()))

	require.Len(t, a.Observed(), 1)
	assert.Equal(t, "welcome", a.Observed()[0].Text())
	require.Len(t, b.Observed(), 1)

	assert.Equal(t, 1, a.SubscriberCount(), "a's subscriber set should be {b}")
	assert.Equal(t, 1, b.SubscriberCount(), "b's subscriber set should be {a}")
}

func TestCloseRemovesSubscribersAndIsIdempotent(t *testing.T) {
	a := agenttest.New("a", "ra")
	b := agenttest.New("b", "rb")

	h, err := msghub.NewBuilder().Participants([]agent.Agent{a, b}).Build()
	require.NoError(t, err)
	require.NoError(t, h.Enter(context.Background()))
	require.True(t, a.HasSubscribers())

	h.Close()
	assert.False(t, a.HasSubscribers())
	assert.False(t, b.HasSubscribers())

	h.Close() // idempotent
}

func TestBroadcastDeliversInOrderToEveryParticipant(t *testing.T) {
	a := agenttest.New("a", "ra")
	b := agenttest.New("b", "rb")

	h, err := msghub.NewBuilder().Participants([]agent.Agent{a, b}).AutoBroadcast(false).Build()
	require.NoError(t, err)
	require.NoError(t, h.Enter(context.Background()))

	m1 := message.NewText(message.RoleUser, "user", "one")
	m2 := message.NewText(message.RoleUser, "user", "two")
	require.NoError(t, h.Broadcast(context.Background(), m1, m2))

	require.Len(t, a.Observed(), 2)
	assert.Equal(t, "one", a.Observed()[0].Text())
	assert.Equal(t, "two", a.Observed()[1].Text())
	require.Len(t, b.Observed(), 2)
}

func TestAddIsIdempotentAndRecomputesSubscribers(t *testing.T) {
	a := agenttest.New("a", "ra")
	b := agenttest.New("b", "rb")
	c := agenttest.New("c", "rc")

	h, err := msghub.NewBuilder().Participants([]agent.Agent{a, b}).Build()
	require.NoError(t, err)
	require.NoError(t, h.Enter(context.Background()))

	h.Add(c)
	assert.Equal(t, 2, a.SubscriberCount(), "a should now see {b, c}")
	assert.Equal(t, 2, c.SubscriberCount(), "newly added c should see {a, b}")

	h.Add(c) // idempotent
	assert.Equal(t, 2, a.SubscriberCount())
	assert.Len(t, h.Participants(), 3)
}

func TestDeleteRemovesParticipantAndItsSubscribers(t *testing.T) {
	a := agenttest.New("a", "ra")
	b := agenttest.New("b", "rb")
	c := agenttest.New("c", "rc")

	h, err := msghub.NewBuilder().Participants([]agent.Agent{a, b, c}).Build()
	require.NoError(t, err)
	require.NoError(t, h.Enter(context.Background()))

	h.Delete(c)
	assert.False(t, c.HasSubscribers(), "departed participant's own subscribers must be removed")
	assert.Equal(t, 1, a.SubscriberCount(), "remaining participants recompute to {b}")
	assert.Len(t, h.Participants(), 2)
}

func TestSetAutoBroadcastTogglesSubscriberInstallation(t *testing.T) {
	a := agenttest.New("a", "ra")
	b := agenttest.New("b", "rb")

	h, err := msghub.NewBuilder().Participants([]agent.Agent{a, b}).Build()
	require.NoError(t, err)
	require.NoError(t, h.Enter(context.Background()))
	require.True(t, a.HasSubscribers())

	h.SetAutoBroadcast(false)
	assert.False(t, a.HasSubscribers())
	assert.False(t, h.IsAutoBroadcastEnabled())

	h.SetAutoBroadcast(true)
	assert.True(t, a.HasSubscribers())
}

func TestScopedGuaranteesCloseOnError(t *testing.T) {
	a := agenttest.New("a", "ra")
	b := agenttest.New("b", "rb")

	h, err := msghub.NewBuilder().Participants([]agent.Agent{a, b}).Build()
	require.NoError(t, err)

	boom := assertError("boom")
	err = msghub.Scoped(context.Background(), h, func(ctx context.Context, h *msghub.Hub) error {
		assert.True(t, a.HasSubscribers())
		return boom
	})

	assert.Equal(t, boom, err)
	assert.False(t, a.HasSubscribers(), "Close must run even though fn returned an error")
}

type assertError string

func (e assertError) Error() string { return string(e) }
