package plan_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentscope-go/core/plan"
)

func TestCloneDeepCopiesSubtasks(t *testing.T) {
	p := plan.Plan{
		Name:  "ship-feature",
		State: plan.StateInProgress,
		Subtasks: []plan.SubTask{
			{Name: "design", State: plan.StateDone, Outcome: "approved"},
			{Name: "implement", State: plan.StateInProgress},
		},
	}

	cp := p.Clone()
	cp.Subtasks[0].Name = "mutated"

	assert.Equal(t, "design", p.Subtasks[0].Name, "mutating the clone must not alias the original")
	assert.Equal(t, "mutated", cp.Subtasks[0].Name)
}

func TestInProgressFindsActiveSubtask(t *testing.T) {
	p := plan.Plan{
		Subtasks: []plan.SubTask{
			{Name: "a", State: plan.StateDone},
			{Name: "b", State: plan.StateInProgress},
			{Name: "c", State: plan.StateTODO},
		},
	}

	st, ok := p.InProgress()
	assert.True(t, ok)
	assert.Equal(t, "b", st.Name)
}

func TestInProgressReportsAbsence(t *testing.T) {
	p := plan.Plan{Subtasks: []plan.SubTask{{Name: "a", State: plan.StateDone}}}

	_, ok := p.InProgress()
	assert.False(t, ok)
}

type fakeNotebook struct {
	p  plan.Plan
	ok bool
}

func (f fakeNotebook) CurrentPlan() (plan.Plan, bool) { return f.p, f.ok }

func TestNotebookInterfaceSatisfiedByFake(t *testing.T) {
	var n plan.Notebook = fakeNotebook{p: plan.Plan{Name: "x"}, ok: true}
	got, ok := n.CurrentPlan()
	assert.True(t, ok)
	assert.Equal(t, "x", got.Name)
}
