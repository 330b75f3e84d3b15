package workflow

import (
	"errors"
	"fmt"
)

var (
	// ErrCommandNotFound indicates no workflow definition exists for the
	// requested command.
	ErrCommandNotFound = errors.New("workflow: command not found")

	// ErrNotImplemented indicates the requested execution mode is defined
	// but not yet supported.
	ErrNotImplemented = errors.New("workflow: scheduled execution not implemented")

	// ErrUnknownAgent indicates a workflow step references an agent that
	// is not registered with the runner.
	ErrUnknownAgent = errors.New("workflow: unknown agent")
)

// StepError wraps errors from step execution.
type StepError struct {
	StepName string
	Err      error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("workflow: step %q failed: %v", e.StepName, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
