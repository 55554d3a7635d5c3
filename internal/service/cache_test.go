package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywordCache_EvictsOldestAtCapacity(t *testing.T) {
	cache := NewKeywordCache(2)

	cache.Put(1, []string{"a"})
	cache.Put(2, []string{"b"})
	cache.Put(3, []string{"c"})

	_, ok := cache.Get(1)
	assert.False(t, ok, "oldest entry should be evicted")

	got, ok := cache.Get(2)
	assert.True(t, ok)
	assert.Equal(t, []string{"b"}, got)

	got, ok = cache.Get(3)
	assert.True(t, ok)
	assert.Equal(t, []string{"c"}, got)
}

func TestKeywordCache_RewriteRefreshesRecency(t *testing.T) {
	cache := NewKeywordCache(2)

	cache.Put(1, []string{"a"})
	cache.Put(2, []string{"b"})
	cache.Put(1, []string{"a2"}) // user 1 is now the most recent writer
	cache.Put(3, []string{"c"})

	got, ok := cache.Get(1)
	assert.True(t, ok)
	assert.Equal(t, []string{"a2"}, got)

	_, ok = cache.Get(2)
	assert.False(t, ok, "user 2 should be evicted, not user 1")
}

func TestKeywordCache_MissingUser(t *testing.T) {
	cache := NewKeywordCache(2)

	_, ok := cache.Get(99)
	assert.False(t, ok)
}
