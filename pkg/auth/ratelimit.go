package auth

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// SignInLimiter throttles sign-in attempts per client address to slow
// credential brute-forcing. Limiters are kept in memory and pruned after
// a period of inactivity.
type SignInLimiter struct {
	limit rate.Limit
	burst int

	mu      sync.Mutex
	clients map[string]*clientLimiter
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// staleAfter is how long an idle client entry survives before pruning.
const staleAfter = 10 * time.Minute

// NewSignInLimiter creates a limiter allowing perMinute attempts per
// client with the given burst.
func NewSignInLimiter(perMinute int, burst int) *SignInLimiter {
	if perMinute <= 0 {
		perMinute = 10
	}
	if burst <= 0 {
		burst = perMinute
	}
	return &SignInLimiter{
		limit:   rate.Limit(float64(perMinute) / 60.0),
		burst:   burst,
		clients: make(map[string]*clientLimiter),
	}
}

// Allow reports whether the client may attempt a sign-in now.
func (l *SignInLimiter) Allow(clientAddr string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()

	c, ok := l.clients[clientAddr]
	if !ok {
		c = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[clientAddr] = c
		l.pruneLocked(now)
	}
	c.lastSeen = now

	return c.limiter.Allow()
}

// pruneLocked drops entries idle for longer than staleAfter. Called with
// the mutex held, on the insert path only, so steady-state lookups stay
// cheap.
func (l *SignInLimiter) pruneLocked(now time.Time) {
	for addr, c := range l.clients {
		if now.Sub(c.lastSeen) > staleAfter {
			delete(l.clients, addr)
		}
	}
}
