package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyCache(t *testing.T) {
	c, err := New(4)
	require.NoError(t, err)

	_, ok := c.Get("prompt-a")
	assert.False(t, ok)

	c.Set("prompt-a", "reply-a")
	got, ok := c.Get("prompt-a")
	assert.True(t, ok)
	assert.Equal(t, "reply-a", got)

	hits, misses, size := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
	assert.Equal(t, 1, size)
}

func TestReplyCache_Eviction(t *testing.T) {
	c, err := New(2)
	require.NoError(t, err)

	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("c", "3") // evicts a

	_, ok := c.Get("a")
	assert.False(t, ok)
	got, ok := c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, "3", got)
}

func TestReplyCache_DefaultSize(t *testing.T) {
	c, err := New(0)
	require.NoError(t, err)
	c.Set("a", "1")
	_, _, size := c.Stats()
	assert.Equal(t, 1, size)
}

func TestKey_Stable(t *testing.T) {
	assert.Equal(t, Key("same"), Key("same"))
	assert.NotEqual(t, Key("same"), Key("different"))
}
