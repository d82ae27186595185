package memory

import (
	"sync"

	"github.com/studycircle/studycircle/internal/domain"
)

// StateStore keeps conversation snapshots in memory. NOT persistent; only
// suitable for development / local mode.
type StateStore struct {
	mu    sync.RWMutex
	snaps map[domain.SessionID]*domain.StateSnapshot
}

func NewStateStore() *StateStore {
	return &StateStore{
		snaps: make(map[domain.SessionID]*domain.StateSnapshot),
	}
}

func (s *StateStore) SaveState(id domain.SessionID, snap *domain.StateSnapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snaps[id] = snap
	return nil
}

// LoadState returns (nil, nil) when no snapshot has been saved for the
// session yet.
func (s *StateStore) LoadState(id domain.SessionID) (*domain.StateSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.snaps[id], nil
}
