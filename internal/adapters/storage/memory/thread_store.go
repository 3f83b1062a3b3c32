package memory

import (
	"sync"

	"github.com/lifeos-app/echo/internal/domain"
)

// ThreadStore is the in-memory domain.ThreadStore. Threads are created on
// first append and live for the process lifetime. History per thread is
// bounded by maxTurns; the oldest turns are dropped past that.
type ThreadStore struct {
	mu       sync.RWMutex
	threads  map[domain.ThreadID]*domain.Thread
	messages map[domain.ThreadID][]*domain.Message
	maxTurns int
}

func NewThreadStore(maxTurns int) *ThreadStore {
	return &ThreadStore{
		threads:  make(map[domain.ThreadID]*domain.Thread),
		messages: make(map[domain.ThreadID][]*domain.Message),
		maxTurns: maxTurns,
	}
}

func (s *ThreadStore) GetThread(id domain.ThreadID) (*domain.Thread, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.threads[id]
	if !ok {
		return nil, domain.ErrThreadNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *ThreadStore) History(id domain.ThreadID, limit int) ([]*domain.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	msgs := s.messages[id]
	if limit > 0 && len(msgs) > limit {
		msgs = msgs[len(msgs)-limit:]
	}

	out := make([]*domain.Message, len(msgs))
	copy(out, msgs)
	return out, nil
}

func (s *ThreadStore) Append(msg *domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.threads[msg.ThreadID]
	if !ok {
		t = &domain.Thread{
			ID:        msg.ThreadID,
			CreatedAt: msg.CreatedAt,
		}
		s.threads[msg.ThreadID] = t
	}
	t.UpdatedAt = msg.CreatedAt

	msgs := append(s.messages[msg.ThreadID], msg)
	if s.maxTurns > 0 && len(msgs) > s.maxTurns {
		// Copy into a fresh array so evicted turns become collectable
		// instead of staying pinned by the shared backing array.
		kept := make([]*domain.Message, s.maxTurns)
		copy(kept, msgs[len(msgs)-s.maxTurns:])
		msgs = kept
	}
	s.messages[msg.ThreadID] = msgs
	return nil
}
