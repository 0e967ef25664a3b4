package health

import (
	"context"
	"errors"
	"time"

	"github.com/nimburion/correlation/pkg/requestid"
)

// PingChecker always reports healthy. It backs the liveness probe.
type PingChecker struct {
	name string
}

// NewPingChecker creates a new ping checker
func NewPingChecker(name string) *PingChecker {
	return &PingChecker{name: name}
}

// Check always returns healthy status
func (c *PingChecker) Check(ctx context.Context) CheckResult {
	return CheckResult{
		Name:      c.name,
		Status:    StatusHealthy,
		Message:   "Service is alive",
		Timestamp: time.Now(),
	}
}

// Name returns the name of the health check
func (c *PingChecker) Name() string {
	return c.name
}

// GeneratorChecker probes an identifier generator. It reports unhealthy
// when the clock or entropy source the generator depends on has failed,
// which is when requests would start receiving 500s.
type GeneratorChecker struct {
	name      string
	generator requestid.Generator
	fallback  requestid.Generator
}

// NewGeneratorChecker wraps g. Use a dedicated generator built with the same
// clock and entropy as the request pipeline.
func NewGeneratorChecker(name string, g requestid.Generator) *GeneratorChecker {
	return &GeneratorChecker{name: name, generator: g}
}

// WithFallback mirrors a pipeline that falls back to UUIDs when the clock
// is unavailable. A working fallback downgrades such failures to degraded.
func (c *GeneratorChecker) WithFallback(g requestid.Generator) *GeneratorChecker {
	c.fallback = g
	return c
}

// Check generates and validates one identifier.
func (c *GeneratorChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{Name: c.name, Status: StatusHealthy}

	err := probe(c.generator)
	switch {
	case err == nil:
		result.Message = string(c.generator.Scheme()) + " generator ready"
	case c.fallback != nil && errors.Is(err, requestid.ErrClockUnavailable) && probe(c.fallback) == nil:
		result.Status = StatusDegraded
		result.Message = "serving " + string(c.fallback.Scheme()) + " fallback identifiers"
		result.Error = err.Error()
	default:
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	}

	result.Timestamp = time.Now()
	result.Duration = time.Since(start)
	return result
}

// Name returns the name of the health check
func (c *GeneratorChecker) Name() string {
	return c.name
}

func probe(g requestid.Generator) error {
	id, err := g.Generate()
	if err != nil {
		return err
	}
	return requestid.Validate(g.Scheme(), id)
}
