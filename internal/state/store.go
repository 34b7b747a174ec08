// Package state owns the single in-memory snapshot the renderers read.
package state

import (
	"sync"

	"github.com/emoread23/miniapp23/internal/domain"
	"github.com/emoread23/miniapp23/internal/gateway"
)

// Snapshot is everything loaded from the backend for the current session.
// Renderers receive it by value and never see a half-applied refresh.
type Snapshot struct {
	User         *domain.UserProfile
	CurrentLevel *gateway.LevelInfo
	Upgrades     []domain.Upgrade
	Achievements []domain.Achievement
}

type Store struct {
	mu      sync.RWMutex
	snap    Snapshot
	nextSeq uint64
	applied uint64
}

func NewStore() *Store { return &Store{} }

// Get returns the current snapshot. Safe for concurrent use.
func (s *Store) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Begin reserves a sequence number for a refresh about to start. Responses
// are applied in request-start order: whatever resolves for an older
// sequence after a newer one has landed is discarded.
func (s *Store) Begin() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextSeq++
	return s.nextSeq
}

// Apply installs the snapshot fetched under seq. It reports false and leaves
// the store untouched when a newer refresh has already been applied.
func (s *Store) Apply(seq uint64, snap Snapshot) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if seq <= s.applied {
		return false
	}
	s.applied = seq
	s.snap = snap
	return true
}

// Clear drops the session state (logout).
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.applied = s.nextSeq
	s.snap = Snapshot{}
}
