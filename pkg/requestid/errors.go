package requestid

import "errors"

var (
	// ErrClockUnavailable is returned by the ULID scheme when the clock
	// reading cannot be encoded as a 48-bit millisecond timestamp.
	ErrClockUnavailable = errors.New("requestid: clock unavailable")

	// ErrEntropyUnavailable is returned when the random source fails.
	ErrEntropyUnavailable = errors.New("requestid: entropy unavailable")

	// ErrUnknownScheme is returned for an unsupported scheme name.
	ErrUnknownScheme = errors.New("requestid: unknown scheme")

	// ErrMalformed is returned by Validate for values that do not match the scheme.
	ErrMalformed = errors.New("requestid: malformed identifier")
)
