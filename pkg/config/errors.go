package config

import "errors"

var (
	// ErrParsingConfig wraps env parse failures (missing required vars,
	// unparseable values).
	ErrParsingConfig = errors.New("config: failed to parse environment")

	// ErrNilPointer is returned when Load receives a nil destination.
	ErrNilPointer = errors.New("config: nil pointer")
)
