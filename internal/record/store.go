package record

import (
	"sync"

	"github.com/maxbolgarin/abstract"
	"github.com/maxbolgarin/diffsense/internal/model"
)

// Store keeps the last processed webhook response for debugging visibility.
// It is a best-effort debugging aid, not a source of truth: concurrent
// deliveries racing to write may interleave, and readers must tolerate a
// stale or unrelated value. Request outcomes are never derived from it.
type Store struct {
	mu     sync.RWMutex
	last   *model.WebhookResponse
	byRepo *abstract.SafeMap[string, model.WebhookResponse]
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		byRepo: abstract.NewSafeMap[string, model.WebhookResponse](),
	}
}

// Set records a response as the most recent one, also indexed by repository
// when it is known.
func (s *Store) Set(resp model.WebhookResponse, repository string) {
	s.mu.Lock()
	s.last = &resp
	s.mu.Unlock()

	if repository != "" {
		s.byRepo.Set(repository, resp)
	}
}

// Last returns the most recently recorded response, if any.
func (s *Store) Last() (model.WebhookResponse, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.last == nil {
		return model.WebhookResponse{}, false
	}
	return *s.last, true
}

// ForRepo returns the most recent response recorded for a repository.
func (s *Store) ForRepo(repository string) (model.WebhookResponse, bool) {
	return s.byRepo.Lookup(repository)
}
