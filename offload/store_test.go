package offload

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPutGetRoundTrip(t *testing.T) {
	s := New[string]()
	s.Put("u1", []string{"a", "b"})
	assert.Equal(t, []string{"a", "b"}, s.Get("u1"))
}

func TestGetAbsentReturnsEmpty(t *testing.T) {
	s := New[string]()
	assert.Empty(t, s.Get("missing"))
	assert.False(t, s.Has("missing"))
}

func TestClearRemovesEntry(t *testing.T) {
	s := New[int]()
	s.Put("u1", []int{1, 2, 3})
	s.Clear("u1")
	assert.False(t, s.Has("u1"))
	assert.Empty(t, s.Get("u1"))
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	s := New[string]()
	s.Put("u1", []string{"a"})
	s.Put("u2", []string{"b", "c"})

	snap := s.Snapshot()

	s2 := New[string]()
	s2.Restore(snap)

	assert.Equal(t, s.Get("u1"), s2.Get("u1"))
	assert.Equal(t, s.Get("u2"), s2.Get("u2"))
	assert.Equal(t, s.Len(), s2.Len())
}

func TestGetIsDefensiveCopy(t *testing.T) {
	s := New[string]()
	s.Put("u1", []string{"a"})
	got := s.Get("u1")
	got[0] = "mutated"
	assert.Equal(t, []string{"a"}, s.Get("u1"))
}
