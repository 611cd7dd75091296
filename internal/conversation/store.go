// Package conversation holds per-conversation state: the append-only message
// history and the most recent classification result.
package conversation

import (
	"sync"

	"github.com/ioozy/scamwatch/internal/domain"
	"github.com/ioozy/scamwatch/internal/telemetry"
)

// Store keys conversation state by an opaque conversation identifier.
// Entries are created lazily on first touch and retained for the process
// lifetime; there is no eviction. Production deployments that need bounded
// memory must add an explicit eviction extension rather than rely on this
// store to shed entries.
//
// Concurrency: a per-entry mutex serializes all work on one conversation,
// so a message's read-classify-commit sequence is a single critical section
// while distinct conversations proceed in parallel.
type Store struct {
	mu        sync.Mutex
	entries   map[string]*entry
	telemetry *telemetry.Provider
}

type entry struct {
	mu      sync.Mutex
	history []string
	last    *domain.ClassificationResult
}

// NewStore creates an empty conversation store.
func NewStore(tp *telemetry.Provider) *Store {
	return &Store{
		entries:   make(map[string]*entry),
		telemetry: tp,
	}
}

// Tx exposes one conversation's state inside its critical section.
type Tx struct {
	e *entry
}

// History returns the message history snapshot, oldest first.
func (t *Tx) History() []string {
	out := make([]string, len(t.e.history))
	copy(out, t.e.history)
	return out
}

// Append adds a message to the end of the history.
func (t *Tx) Append(text string) {
	t.e.history = append(t.e.history, text)
}

// SetLastResult commits the conversation's most recent result.
func (t *Tx) SetLastResult(r *domain.ClassificationResult) {
	t.e.last = r
}

// LastResult returns the stored result, or nil if none yet.
func (t *Tx) LastResult() *domain.ClassificationResult {
	return t.e.last
}

// Update runs fn under the conversation's lock, creating the entry if the
// identifier has not been seen. Everything fn does is one atomic step from
// the point of view of concurrent readers of the same conversation.
func (s *Store) Update(conversationID string, fn func(*Tx)) {
	e := s.getOrCreate(conversationID)
	e.mu.Lock()
	defer e.mu.Unlock()
	fn(&Tx{e: e})
}

// AppendMessage appends one message to the conversation history.
func (s *Store) AppendMessage(conversationID, text string) {
	s.Update(conversationID, func(tx *Tx) {
		tx.Append(text)
	})
}

// SetLastResult stores the conversation's most recent result.
func (s *Store) SetLastResult(conversationID string, r *domain.ClassificationResult) {
	s.Update(conversationID, func(tx *Tx) {
		tx.SetLastResult(r)
	})
}

// LastResult returns the most recent result for the conversation. The
// second return is false when the conversation has no result yet; an unseen
// identifier is not an error.
func (s *Store) LastResult(conversationID string) (*domain.ClassificationResult, bool) {
	s.mu.Lock()
	e, ok := s.entries[conversationID]
	s.mu.Unlock()
	if !ok {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.last == nil {
		return nil, false
	}
	return e.last, true
}

// History returns a snapshot of the conversation's messages in submission
// order. Unseen identifiers yield an empty history.
func (s *Store) History(conversationID string) []string {
	s.mu.Lock()
	e, ok := s.entries[conversationID]
	s.mu.Unlock()
	if !ok {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.history))
	copy(out, e.history)
	return out
}

// Len reports how many conversations are tracked.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *Store) getOrCreate(conversationID string) *entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[conversationID]
	if !ok {
		e = &entry{}
		s.entries[conversationID] = e
		s.telemetry.SetTrackedConversations(len(s.entries))
	}
	return e
}
