package pipeline_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentscope-go/core/agent/agenttest"
	"github.com/agentscope-go/core/message"
	"github.com/agentscope-go/core/pipeline"
)

func TestSequentialChainsAgentsInOrder(t *testing.T) {
	a1 := agenttest.New("a1", "r1")
	a2 := agenttest.New("a2", "r2")
	a3 := agenttest.New("a3", "r3")

	seq := pipeline.NewSequentialBuilder().Append(a1).Append(a2).Append(a3).Build()
	require.Equal(t, 3, seq.Size())

	in := message.NewText(message.RoleUser, "user", "go")
	out, err := seq.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "r3", out.Text())

	assert.Equal(t, 1, a1.CallCount())
	assert.Equal(t, 1, a2.CallCount())
	assert.Equal(t, 1, a3.CallCount())
}

func TestSequentialEmptyReturnsInputUnchanged(t *testing.T) {
	seq := pipeline.NewSequentialBuilder().Build()
	in := message.NewText(message.RoleUser, "user", "go")

	out, err := seq.Execute(context.Background(), in)
	require.NoError(t, err)
	assert.Same(t, in, out)
}

func TestSequentialAbortsOnFirstFailure(t *testing.T) {
	a1 := agenttest.New("a1", "r1")
	failing := agenttest.NewFailing("broken", nil)
	a3 := agenttest.New("a3", "r3")

	seq := pipeline.NewSequentialBuilder().Append(a1).Append(failing).Append(a3).Build()
	in := message.NewText(message.RoleUser, "user", "go")

	out, err := seq.Execute(context.Background(), in)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.Equal(t, 0, a3.CallCount(), "agents after the failure must not be invoked")
}

func TestSequentialRespectsCancellation(t *testing.T) {
	a1 := agenttest.New("a1", "r1")
	a2 := agenttest.New("a2", "r2")

	seq := pipeline.NewSequentialBuilder().Append(a1).Append(a2).Build()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := message.NewText(message.RoleUser, "user", "go")
	out, err := seq.Execute(ctx, in)
	assert.Error(t, err)
	assert.Nil(t, out)
}
