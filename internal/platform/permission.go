package platform

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

const permissionCacheTTL = 30 * time.Second

// permissionCache remembers the result of an expensive permission check.
// A successful focus query counts as a fresh grant; a failed one forces
// the next Granted call to check again.
type permissionCache struct {
	mu        sync.Mutex
	clock     clockwork.Clock
	ttl       time.Duration
	check     func() bool
	granted   bool
	checkedAt time.Time
}

func newPermissionCache(clock clockwork.Clock, check func() bool) *permissionCache {
	return &permissionCache{clock: clock, ttl: permissionCacheTTL, check: check}
}

func (cache *permissionCache) Granted() bool {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if !cache.checkedAt.IsZero() && cache.clock.Since(cache.checkedAt) < cache.ttl {
		return cache.granted
	}
	cache.granted = cache.check()
	cache.checkedAt = cache.clock.Now()
	return cache.granted
}

func (cache *permissionCache) Observe(ok bool) {
	cache.mu.Lock()
	defer cache.mu.Unlock()
	if ok {
		cache.granted = true
		cache.checkedAt = cache.clock.Now()
		return
	}
	cache.checkedAt = time.Time{}
}
