package runtime

import "errors"

var (
	ErrRuntime          = errors.New("runtime error")
	ErrImageUnavailable = errors.New("image unavailable")
	ErrEmptyIndex       = errors.New("empty image index")
	ErrPlatformMismatch = errors.New("no manifest for platform")
)
