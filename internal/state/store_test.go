package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emoread23/miniapp23/internal/domain"
)

func snapFor(username string) Snapshot {
	return Snapshot{User: &domain.UserProfile{Username: username}}
}

func TestApplyReplacesWholeSnapshot(t *testing.T) {
	s := NewStore()
	seq := s.Begin()
	require.True(t, s.Apply(seq, snapFor("ivan")))
	got := s.Get()
	require.NotNil(t, got.User)
	assert.Equal(t, "ivan", got.User.Username)
}

func TestStaleResponseDiscarded(t *testing.T) {
	s := NewStore()

	// Two refreshes start back to back; the first-issued resolves last.
	first := s.Begin()
	second := s.Begin()

	require.True(t, s.Apply(second, snapFor("newer")))
	assert.False(t, s.Apply(first, snapFor("older")))

	// Request-start order wins: the stale body never shows.
	assert.Equal(t, "newer", s.Get().User.Username)
}

func TestFailedRefreshKeepsPreviousSnapshot(t *testing.T) {
	s := NewStore()
	require.True(t, s.Apply(s.Begin(), snapFor("ivan")))

	// A refresh that errors out simply never calls Apply.
	_ = s.Begin()

	assert.Equal(t, "ivan", s.Get().User.Username)
}

func TestClear(t *testing.T) {
	s := NewStore()
	pending := s.Begin()
	require.True(t, s.Apply(s.Begin(), snapFor("ivan")))

	s.Clear()
	assert.Nil(t, s.Get().User)

	// In-flight responses from before the logout stay discarded.
	assert.False(t, s.Apply(pending, snapFor("ghost")))
}
