package requestid

import (
	"fmt"
	"strings"
)

// Scheme selects the identifier format.
type Scheme string

const (
	// SchemeUUID produces random RFC 4122 version 4 identifiers.
	SchemeUUID Scheme = "UUID"
	// SchemeULID produces time-ordered ULIDs.
	SchemeULID Scheme = "ULID"

	// DefaultScheme is used when no scheme is configured.
	DefaultScheme = SchemeULID
)

// String returns the scheme name.
func (s Scheme) String() string {
	return string(s)
}

// Valid reports whether s is a known scheme.
func (s Scheme) Valid() bool {
	return s == SchemeUUID || s == SchemeULID
}

// ParseScheme converts a configuration value to a Scheme.
// Matching is case-insensitive and an empty value selects DefaultScheme.
func ParseScheme(value string) (Scheme, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "":
		return DefaultScheme, nil
	case string(SchemeUUID):
		return SchemeUUID, nil
	case string(SchemeULID):
		return SchemeULID, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: %s, %s)", ErrUnknownScheme, value, SchemeUUID, SchemeULID)
	}
}

// SupportedSchemes returns every known scheme, default first.
func SupportedSchemes() []Scheme {
	return []Scheme{SchemeULID, SchemeUUID}
}
