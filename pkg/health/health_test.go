package health

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/nimburion/correlation/pkg/requestid"
)

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("closed") }

func TestGeneratorChecker(t *testing.T) {
	tests := []struct {
		name   string
		scheme requestid.Scheme
		opts   []requestid.Option
		want   Status
	}{
		{name: "ulid ok", scheme: requestid.SchemeULID, want: StatusHealthy},
		{name: "uuid ok", scheme: requestid.SchemeUUID, want: StatusHealthy},
		{
			name:   "clock unavailable",
			scheme: requestid.SchemeULID,
			opts:   []requestid.Option{requestid.WithClock(requestid.ClockFunc(func() time.Time { return time.Time{} }))},
			want:   StatusUnhealthy,
		},
		{
			name:   "entropy unavailable",
			scheme: requestid.SchemeUUID,
			opts:   []requestid.Option{requestid.WithEntropy(failingReader{})},
			want:   StatusUnhealthy,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := requestid.NewGenerator(tt.scheme, tt.opts...)
			if err != nil {
				t.Fatalf("NewGenerator() error = %v", err)
			}
			result := NewGeneratorChecker("requestid", g).Check(context.Background())
			if result.Status != tt.want {
				t.Fatalf("status = %s, want %s (error %q)", result.Status, tt.want, result.Error)
			}
			if tt.want == StatusUnhealthy && result.Error == "" {
				t.Error("expected error detail on unhealthy result")
			}
		})
	}
}

func TestGeneratorChecker_Fallback(t *testing.T) {
	zero := requestid.WithClock(requestid.ClockFunc(func() time.Time { return time.Time{} }))
	primary := requestid.MustNewGenerator(requestid.SchemeULID, zero)

	tests := []struct {
		name     string
		fallback requestid.Generator
		want     Status
	}{
		{"working fallback degrades", requestid.MustNewGenerator(requestid.SchemeUUID), StatusDegraded},
		{"broken fallback stays unhealthy", requestid.MustNewGenerator(requestid.SchemeUUID, requestid.WithEntropy(failingReader{})), StatusUnhealthy},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := NewGeneratorChecker("requestid", primary).WithFallback(tt.fallback).Check(context.Background())
			if result.Status != tt.want {
				t.Fatalf("status = %s, want %s", result.Status, tt.want)
			}
		})
	}

	entropyFail := requestid.MustNewGenerator(requestid.SchemeULID, requestid.WithEntropy(failingReader{}))
	result := NewGeneratorChecker("requestid", entropyFail).WithFallback(requestid.MustNewGenerator(requestid.SchemeUUID)).Check(context.Background())
	if result.Status != StatusUnhealthy {
		t.Fatalf("entropy failure must not fall back, got %s", result.Status)
	}
}

type staticChecker struct {
	name   string
	status Status
}

func (s staticChecker) Name() string { return s.name }
func (s staticChecker) Check(context.Context) CheckResult {
	return CheckResult{Name: s.name, Status: s.status}
}

func TestRegistry_Check(t *testing.T) {
	tests := []struct {
		name     string
		statuses []Status
		want     Status
	}{
		{"empty", nil, StatusHealthy},
		{"all healthy", []Status{StatusHealthy, StatusHealthy}, StatusHealthy},
		{"one degraded", []Status{StatusHealthy, StatusDegraded}, StatusDegraded},
		{"unhealthy wins", []Status{StatusDegraded, StatusUnhealthy, StatusHealthy}, StatusUnhealthy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			for i, s := range tt.statuses {
				r.Register(staticChecker{name: string(rune('a' + i)), status: s})
			}
			result := r.Check(context.Background())
			if result.Status != tt.want {
				t.Fatalf("status = %s, want %s", result.Status, tt.want)
			}
			if len(result.Checks) != len(tt.statuses) {
				t.Fatalf("got %d results", len(result.Checks))
			}
			for i := 1; i < len(result.Checks); i++ {
				if result.Checks[i-1].Name > result.Checks[i].Name {
					t.Fatal("results are not sorted by name")
				}
			}
		})
	}
}

func TestAggregatedResult_Serving(t *testing.T) {
	tests := []struct {
		status  Status
		healthy bool
		serving bool
	}{
		{StatusHealthy, true, true},
		{StatusDegraded, false, true},
		{StatusUnhealthy, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			r := AggregatedResult{Status: tt.status}
			if r.IsHealthy() != tt.healthy || r.Serving() != tt.serving {
				t.Fatalf("IsHealthy=%v Serving=%v", r.IsHealthy(), r.Serving())
			}
		})
	}
}
