package game

import (
	"sync"
	"time"
)

// Limiter enforces a per-name cooldown between chat messages. The check and
// the re-arm happen under one lock so two racing sends cannot both pass. It
// is keyed by player name, not session, so a quick reconnect does not reset
// the window.
type Limiter struct {
	mu       sync.Mutex
	last     map[string]time.Time
	cooldown time.Duration
}

// NewLimiter builds a limiter with the given cooldown window.
func NewLimiter(cooldown time.Duration) *Limiter {
	return &Limiter{
		last:     make(map[string]time.Time),
		cooldown: cooldown,
	}
}

// Allow reports whether the name may send now, arming the cooldown if so.
// A rejected send does not re-arm the window.
func (l *Limiter) Allow(name string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if last, ok := l.last[name]; ok && now.Sub(last) < l.cooldown {
		return false
	}
	l.last[name] = now
	return true
}

// Forget drops the stored timestamp for a name.
func (l *Limiter) Forget(name string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.last, name)
}

// Sweep drops entries whose cooldown expired long ago, keeping the map from
// growing with every name that ever spoke.
func (l *Limiter) Sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for name, last := range l.last {
		if now.Sub(last) > 10*l.cooldown {
			delete(l.last, name)
		}
	}
}
