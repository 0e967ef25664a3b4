// Package health aggregates readiness checks for the management server.
package health

import (
	"context"
	"sort"
	"sync"
	"time"
)

// Status represents the health status of a component
type Status string

const (
	StatusHealthy Status = "healthy"
	// StatusDegraded means requests are still served, e.g. with UUID
	// identifiers while the ULID clock is unusable.
	StatusDegraded  Status = "degraded"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the result of a health check
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
}

// Checker is the interface that health check implementations must satisfy
type Checker interface {
	Check(ctx context.Context) CheckResult
	Name() string
}

// Registry manages a collection of health checks
type Registry struct {
	mu       sync.RWMutex
	checkers map[string]Checker
}

// NewRegistry creates a new health check registry
func NewRegistry() *Registry {
	return &Registry{
		checkers: make(map[string]Checker),
	}
}

// Register adds a health check, replacing any checker with the same name.
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[checker.Name()] = checker
}

// Check runs all registered checks concurrently. The overall status is the
// worst individual status. Results are sorted by name.
func (r *Registry) Check(ctx context.Context) AggregatedResult {
	r.mu.RLock()
	checkers := make([]Checker, 0, len(r.checkers))
	for _, checker := range r.checkers {
		checkers = append(checkers, checker)
	}
	r.mu.RUnlock()

	start := time.Now()
	results := make([]CheckResult, len(checkers))

	var wg sync.WaitGroup
	for i, checker := range checkers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = checker.Check(ctx)
		}()
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i].Name < results[j].Name })

	overall := StatusHealthy
	for _, result := range results {
		switch {
		case result.Status == StatusUnhealthy:
			overall = StatusUnhealthy
		case result.Status == StatusDegraded && overall == StatusHealthy:
			overall = StatusDegraded
		}
	}

	return AggregatedResult{
		Status:    overall,
		Checks:    results,
		Timestamp: time.Now(),
		Duration:  time.Since(start),
	}
}

// AggregatedResult represents the aggregated result of all health checks
type AggregatedResult struct {
	Status    Status        `json:"status"`
	Checks    []CheckResult `json:"checks"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
}

// IsHealthy returns true if the overall status is healthy
func (r AggregatedResult) IsHealthy() bool {
	return r.Status == StatusHealthy
}

// Serving reports whether the service can still answer requests, which
// holds for healthy and degraded results.
func (r AggregatedResult) Serving() bool {
	return r.Status != StatusUnhealthy
}
