package provider

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/dealerdesk/concierge/internal/classify"
)

// Stub is a configurable in-process provider for tests and local runs.
type Stub struct {
	SourceName string
	Payload    map[string]any
	Fail       bool
	Delay      time.Duration

	calls atomic.Int64
}

func (s *Stub) Name() string { return s.SourceName }

func (s *Stub) Fetch(ctx context.Context, _ classify.Query) Result {
	s.calls.Add(1)
	if s.Delay > 0 {
		select {
		case <-time.After(s.Delay):
		case <-ctx.Done():
			return failure(s.SourceName)
		}
	}
	if s.Fail {
		return failure(s.SourceName)
	}
	return success(s.SourceName, s.Payload)
}

// Calls reports how many times Fetch ran.
func (s *Stub) Calls() int { return int(s.calls.Load()) }
