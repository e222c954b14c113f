package engine

import "errors"

var (
	// ErrUnknownSubject is returned when a subject name is neither
	// registered nor bound in the running module.
	ErrUnknownSubject = errors.New("unknown subject")

	// ErrUnknownAction is returned when an action name is neither
	// registered nor an import alias of the running module.
	ErrUnknownAction = errors.New("unknown action")

	// ErrUnknownCondition is returned when a condition name is not
	// registered.
	ErrUnknownCondition = errors.New("unknown condition")

	// ErrCallTimeout is returned when a registered function does not return
	// within the configured call timeout.
	ErrCallTimeout = errors.New("call timed out")
)
