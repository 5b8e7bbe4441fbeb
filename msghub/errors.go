package msghub

import "fmt"

// IllegalArgumentError reports a construction-time argument violation —
// an empty participant set, most commonly.
type IllegalArgumentError struct {
	Component string
	Message   string
}

func (e *IllegalArgumentError) Error() string {
	return fmt.Sprintf("%s: %s", e.Component, e.Message)
}

func newIllegalArgumentError(component, message string) *IllegalArgumentError {
	return &IllegalArgumentError{Component: component, Message: message}
}
