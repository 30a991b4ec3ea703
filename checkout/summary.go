package checkout

import (
	"sync"
	"time"

	"github.com/Kariqs/neon-store-api/models"
)

type storedSummary struct {
	summary models.LastOrderSummary
	stored  time.Time
}

// LastOrderStore keeps the latest order summary per session until the
// confirmation page reads it or Sweep ages it out.
type LastOrderStore struct {
	mu        sync.Mutex
	summaries map[string]storedSummary
	now       func() time.Time
}

func NewLastOrderStore() *LastOrderStore {
	return &LastOrderStore{summaries: make(map[string]storedSummary), now: time.Now}
}

func (s *LastOrderStore) Put(sessionID string, summary models.LastOrderSummary) {
	s.mu.Lock()
	s.summaries[sessionID] = storedSummary{summary: summary, stored: s.now()}
	s.mu.Unlock()
}

// Take returns the summary and forgets it.
func (s *LastOrderStore) Take(sessionID string) (models.LastOrderSummary, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry, ok := s.summaries[sessionID]
	if ok {
		delete(s.summaries, sessionID)
	}
	return entry.summary, ok
}

// Sweep forgets summaries older than maxAge that were never read.
func (s *LastOrderStore) Sweep(maxAge time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := s.now().Add(-maxAge)
	dropped := 0
	for id, entry := range s.summaries {
		if entry.stored.Before(cutoff) {
			delete(s.summaries, id)
			dropped++
		}
	}
	return dropped
}
