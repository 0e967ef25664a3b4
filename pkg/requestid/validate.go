package requestid

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
)

const (
	// UUIDLength is the length of a canonical UUID string.
	UUIDLength = 36
	// ULIDLength is the length of an encoded ULID.
	ULIDLength = ulid.EncodedSize
)

// Validate reports whether value is a well-formed identifier of the scheme.
// UUIDs must be canonical, lower-case and version 4 with the RFC 4122 variant.
// ULIDs must be 26 characters of the upper-case Crockford alphabet.
func Validate(scheme Scheme, value string) error {
	switch scheme {
	case SchemeUUID:
		return validateUUID(value)
	case SchemeULID:
		return validateULID(value)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

func validateUUID(value string) error {
	if len(value) != UUIDLength {
		return fmt.Errorf("%w: uuid length %d", ErrMalformed, len(value))
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if id.Version() != 4 || id.Variant() != uuid.RFC4122 {
		return fmt.Errorf("%w: not a version 4 uuid", ErrMalformed)
	}
	if id.String() != value {
		return fmt.Errorf("%w: uuid not in canonical form", ErrMalformed)
	}
	return nil
}

func validateULID(value string) error {
	if len(value) != ULIDLength {
		return fmt.Errorf("%w: ulid length %d", ErrMalformed, len(value))
	}
	for i := 0; i < len(value); i++ {
		if !isCrockford(value[i]) {
			return fmt.Errorf("%w: invalid ulid character %q", ErrMalformed, value[i])
		}
	}
	if _, err := ulid.ParseStrict(value); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func isCrockford(c byte) bool {
	for i := 0; i < len(ulid.Encoding); i++ {
		if ulid.Encoding[i] == c {
			return true
		}
	}
	return false
}
