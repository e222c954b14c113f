package registry

import "errors"

var (
	// ErrArgumentPatternMismatch is returned when the raw argument text of a
	// statement does not match the pattern the function was registered with.
	ErrArgumentPatternMismatch = errors.New("arguments do not match the registered pattern")

	// ErrWrongArgumentArity is returned when the assembled argument list does
	// not have the declared number of parameters.
	ErrWrongArgumentArity = errors.New("wrong number of arguments")
)
