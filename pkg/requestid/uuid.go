package requestid

import (
	"fmt"
	"io"

	"github.com/google/uuid"
)

type uuidGenerator struct {
	entropy io.Reader
}

func newUUIDGenerator(entropy io.Reader) *uuidGenerator {
	return &uuidGenerator{entropy: entropy}
}

func (g *uuidGenerator) Scheme() Scheme {
	return SchemeUUID
}

// Generate draws 16 bytes and fixes the version 4 and RFC 4122 variant bits.
func (g *uuidGenerator) Generate() (string, error) {
	id, err := uuid.NewRandomFromReader(g.entropy)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}
	return id.String(), nil
}
