package requestid

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type ulidGenerator struct {
	clock Clock

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
	// lastMS is the highest timestamp emitted so far.
	lastMS uint64
}

func newULIDGenerator(clock Clock, entropy io.Reader) *ulidGenerator {
	return &ulidGenerator{
		clock:   clock,
		entropy: ulid.Monotonic(entropy, 0),
	}
}

func (g *ulidGenerator) Scheme() Scheme {
	return SchemeULID
}

// Generate returns the next ULID. Within one millisecond the random part is
// incremented, so successive values are strictly increasing. A clock reading
// older than the last emitted timestamp is clamped to it.
func (g *ulidGenerator) Generate() (string, error) {
	ms, err := timestamp(g.clock.Now())
	if err != nil {
		return "", err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if ms < g.lastMS {
		ms = g.lastMS
	}

	id, err := ulid.New(ms, g.entropy)
	if errors.Is(err, ulid.ErrMonotonicOverflow) {
		// random part exhausted for this millisecond; move to the next one
		ms++
		id, err = ulid.New(ms, g.entropy)
	}
	if err != nil {
		if errors.Is(err, ulid.ErrBigTime) {
			return "", fmt.Errorf("%w: %v", ErrClockUnavailable, err)
		}
		return "", fmt.Errorf("%w: %v", ErrEntropyUnavailable, err)
	}

	g.lastMS = ms
	return id.String(), nil
}

var unixEpoch = time.Unix(0, 0)

func timestamp(now time.Time) (uint64, error) {
	if now.IsZero() || now.Before(unixEpoch) {
		return 0, fmt.Errorf("%w: invalid time %v", ErrClockUnavailable, now)
	}
	ms := ulid.Timestamp(now)
	if ms > ulid.MaxTime() {
		return 0, fmt.Errorf("%w: time %v exceeds 48-bit range", ErrClockUnavailable, now)
	}
	return ms, nil
}
