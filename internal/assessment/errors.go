package assessment

import "errors"

// Common errors for assessment session operations.
var (
	ErrInvalidStep     = errors.New("invalid assessment step")
	ErrSessionNotFound = errors.New("assessment session not found")
	ErrInvalidDriver   = errors.New("invalid repository driver")
	ErrInvalidConfig   = errors.New("invalid repository configuration")
)
