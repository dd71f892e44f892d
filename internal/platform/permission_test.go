package platform

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
)

func TestPermissionCacheReusesRecentCheck(t *testing.T) {
	clock := clockwork.NewFakeClock()
	checks := 0
	cache := newPermissionCache(clock, func() bool {
		checks++
		return true
	})

	assert.True(t, cache.Granted())
	clock.Advance(10 * time.Second)
	assert.True(t, cache.Granted())
	assert.Equal(t, 1, checks)

	clock.Advance(permissionCacheTTL)
	assert.True(t, cache.Granted())
	assert.Equal(t, 2, checks)
}

func TestPermissionCacheObserve(t *testing.T) {
	clock := clockwork.NewFakeClock()
	checks := 0
	cache := newPermissionCache(clock, func() bool {
		checks++
		return false
	})

	// Successful snapshots keep the grant fresh without running the check.
	for i := 0; i < 60; i++ {
		cache.Observe(true)
		assert.True(t, cache.Granted())
		clock.Advance(2 * time.Second)
	}
	assert.Zero(t, checks)

	cache.Observe(false)
	assert.False(t, cache.Granted())
	assert.Equal(t, 1, checks)
}
