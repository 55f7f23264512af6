// Package cooldown enforces a per-chat delay between upstream lookups.
package cooldown

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Gate owns one limiter per chat. A chat gets a single lookup slot per
// window; entries are never evicted.
type Gate struct {
	mu       sync.Mutex
	window   time.Duration
	limiters map[int64]*rate.Limiter
}

// New returns a Gate with the given cooldown window.
func New(window time.Duration) *Gate {
	return &Gate{
		window:   window,
		limiters: make(map[int64]*rate.Limiter),
	}
}

// Check consumes the chat's slot when one is free. While the chat is still
// cooling down it reports limited=true with the remaining wait and leaves
// the slot untouched, so checking does not extend the cooldown.
func (g *Gate) Check(chatID int64) (limited bool, retryAfter time.Duration) {
	g.mu.Lock()
	lim, ok := g.limiters[chatID]
	if !ok {
		lim = rate.NewLimiter(rate.Every(g.window), 1)
		g.limiters[chatID] = lim
	}
	g.mu.Unlock()

	r := lim.Reserve()
	if d := r.Delay(); d > 0 {
		r.Cancel()
		return true, d
	}
	return false, 0
}
