// Package llm wraps the external semantic classifier behind a narrow
// capability interface so the engine stays testable without live network
// access.
package llm

import "context"

// RawResult is the unvalidated wire shape the classifier service returns:
// a stage integer and a list of label strings. The gateway validates it
// before anything else sees it.
type RawResult struct {
	Stage  int      `json:"stage"`
	Labels []string `json:"labels"`
}

// Client is the raw semantic-classifier capability. Implementations: the
// network-backed chat client and the deterministic test stub.
type Client interface {
	Classify(ctx context.Context, message string) (*RawResult, error)
}
