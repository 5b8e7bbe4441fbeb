package pipeline

import "strings"

// CompositeAgentError is emitted by fan-out pipelines when one or more
// agents fail. Causes are collected in completion order: in concurrent
// mode that's whichever order the agents finished in, not submission
// order. Error() concatenates every cause's message so any individual
// cause's text is findable as a substring of the combined message.
type CompositeAgentError struct {
	Causes []error
}

func (e *CompositeAgentError) Error() string {
	parts := make([]string, len(e.Causes))
	for i, c := range e.Causes {
		parts[i] = c.Error()
	}
	return "fan-out pipeline: " + strings.Join(parts, "; ")
}

// Unwrap supports errors.Is/As against any individual cause via
// errors.Join semantics.
func (e *CompositeAgentError) Unwrap() []error { return e.Causes }
