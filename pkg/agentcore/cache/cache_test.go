package cache

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOrLoad_CachesWithinTTL(t *testing.T) {
	c := New(50 * time.Millisecond)
	var calls int32

	load := func() (any, error) {
		atomic.AddInt32(&calls, 1)
		return "value", nil
	}

	v1, err := c.GetOrLoad("k", load)
	require.NoError(t, err)
	v2, err := c.GetOrLoad("k", load)
	require.NoError(t, err)

	assert.Equal(t, "value", v1)
	assert.Equal(t, "value", v2)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetOrLoad_ReloadsAfterExpiry(t *testing.T) {
	c := New(10 * time.Millisecond)
	var calls int32

	load := func() (any, error) {
		n := atomic.AddInt32(&calls, 1)
		return n, nil
	}

	_, _ = c.GetOrLoad("k", load)
	time.Sleep(30 * time.Millisecond)
	v, _ := c.GetOrLoad("k", load)

	assert.Equal(t, int32(2), v)
}

func TestNew_ClampsToMaxTTL(t *testing.T) {
	c := New(10 * time.Hour)
	assert.Equal(t, MaxTTL, c.ttl)
}

func TestSet_OverwritesExisting(t *testing.T) {
	c := New(time.Second)
	c.Set("k", "a")
	c.Set("k", "b")

	v, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, "b", v)
}

func TestGet_MissReportsAbsent(t *testing.T) {
	c := New(time.Second)
	_, ok := c.Get("missing")
	assert.False(t, ok)
}
