package requestid

import (
	"crypto/rand"
	"fmt"
	"io"
	"sync"
	"time"
)

// Generator produces one identifier per call.
// Implementations are safe for concurrent use.
type Generator interface {
	// Generate returns a new identifier or an error wrapping
	// ErrClockUnavailable or ErrEntropyUnavailable.
	Generate() (string, error)

	// Scheme returns the scheme the generator is bound to.
	Scheme() Scheme
}

// Clock supplies the current time to time-ordered schemes.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads the process wall clock.
var SystemClock Clock = ClockFunc(time.Now)

type options struct {
	clock   Clock
	entropy io.Reader
}

// Option configures a Generator.
type Option func(*options)

// WithClock replaces the system clock.
func WithClock(clock Clock) Option {
	return func(o *options) {
		if clock != nil {
			o.clock = clock
		}
	}
}

// WithEntropy replaces crypto/rand as the random source.
// The reader must be cryptographically strong outside of tests. It is
// wrapped in a mutex once, when the option is created, so every generator
// built from the same option serializes its reads even when r is not safe
// for concurrent use.
func WithEntropy(r io.Reader) Option {
	if r == nil {
		return func(*options) {}
	}
	shared := &lockedReader{r: r}
	return func(o *options) {
		o.entropy = shared
	}
}

type lockedReader struct {
	mu sync.Mutex
	r  io.Reader
}

func (l *lockedReader) Read(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Read(p)
}

// NewGenerator creates a generator for the given scheme.
// An empty scheme selects DefaultScheme.
func NewGenerator(scheme Scheme, opts ...Option) (Generator, error) {
	o := options{
		clock:   SystemClock,
		entropy: rand.Reader,
	}
	for _, opt := range opts {
		opt(&o)
	}

	if scheme == "" {
		scheme = DefaultScheme
	}

	switch scheme {
	case SchemeUUID:
		return newUUIDGenerator(o.entropy), nil
	case SchemeULID:
		return newULIDGenerator(o.clock, o.entropy), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, scheme)
	}
}

// MustNewGenerator is like NewGenerator but panics on an unknown scheme.
func MustNewGenerator(scheme Scheme, opts ...Option) Generator {
	g, err := NewGenerator(scheme, opts...)
	if err != nil {
		panic(err)
	}
	return g
}
