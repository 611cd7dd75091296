package llm

import (
	"context"
	"sync"
)

// StubClient is a deterministic Client for tests: it returns a fixed result
// or error and counts invocations.
type StubClient struct {
	mu     sync.Mutex
	Result *RawResult
	Err    error
	calls  int
}

// Classify returns the configured result or error.
func (s *StubClient) Classify(_ context.Context, _ string) (*RawResult, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.Err != nil {
		return nil, s.Err
	}
	if s.Result == nil {
		return &RawResult{Stage: 0, Labels: []string{}}, nil
	}
	return s.Result, nil
}

// Calls reports how many times Classify was invoked.
func (s *StubClient) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
