package server

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/DENFSA/CharkLi/internal/config"
)

// loginGuard locks a client address out of the login form after repeated
// failures. Each lockout doubles the previous one up to a cap.
type loginGuard struct {
	mu          sync.Mutex
	clients     map[string]*loginRecord
	maxFailures int
	lockout     time.Duration
	maxLockout  time.Duration
	now         func() time.Time
}

type loginRecord struct {
	failures    int
	lockouts    int
	lockedUntil time.Time
}

func newLoginGuard(cfg config.RateLimitConfig) *loginGuard {
	g := &loginGuard{
		clients:     make(map[string]*loginRecord),
		maxFailures: cfg.MaxAttempts,
		lockout:     time.Duration(cfg.LockoutSeconds) * time.Second,
		maxLockout:  time.Duration(cfg.MaxLockoutSeconds) * time.Second,
		now:         time.Now,
	}
	if g.maxFailures <= 0 {
		g.maxFailures = 5
	}
	if g.lockout <= 0 {
		g.lockout = 30 * time.Second
	}
	if g.maxLockout < g.lockout {
		g.maxLockout = max(g.lockout, 300*time.Second)
	}
	return g
}

// run prunes stale records until ctx is done.
func (g *loginGuard) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			g.prune()
		}
	}
}

// Locked reports whether ip is locked out and for how much longer.
func (g *loginGuard) Locked(ip string) (bool, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	rec, ok := g.clients[ip]
	if !ok {
		return false, 0
	}
	if left := rec.lockedUntil.Sub(g.now()); left > 0 {
		return true, left
	}
	return false, 0
}

// Fail records a failed login. It returns the lockout now in force, if any.
func (g *loginGuard) Fail(ip string) (bool, time.Duration) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	rec, ok := g.clients[ip]
	if !ok {
		rec = &loginRecord{}
		g.clients[ip] = rec
	}
	if left := rec.lockedUntil.Sub(now); left > 0 {
		return true, left
	}

	rec.failures++
	if rec.failures < g.maxFailures {
		return false, 0
	}

	rec.lockouts++
	rec.failures = 0
	d := g.lockoutFor(rec.lockouts)
	rec.lockedUntil = now.Add(d)
	return true, d
}

// lockoutFor returns the duration of the n-th lockout.
func (g *loginGuard) lockoutFor(n int) time.Duration {
	d := g.lockout
	for i := 1; i < n; i++ {
		if d >= g.maxLockout/2 {
			return g.maxLockout
		}
		d *= 2
	}
	return min(d, g.maxLockout)
}

// Succeed forgets every failure recorded for ip.
func (g *loginGuard) Succeed(ip string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.clients, ip)
}

// Failures returns the failures counted toward the next lockout.
func (g *loginGuard) Failures(ip string) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	if rec, ok := g.clients[ip]; ok {
		return rec.failures
	}
	return 0
}

// prune drops records that have been unlocked for ten minutes with no
// failures since.
func (g *loginGuard) prune() {
	g.mu.Lock()
	defer g.mu.Unlock()

	cutoff := g.now().Add(-10 * time.Minute)
	for ip, rec := range g.clients {
		if rec.failures == 0 && rec.lockedUntil.Before(cutoff) {
			delete(g.clients, ip)
		}
	}
}

// socketLimiter caps concurrent live sheets per client address and overall.
// A zero limit is unlimited.
type socketLimiter struct {
	mu       sync.Mutex
	perIP    map[string]int
	total    int
	maxPerIP int
	maxTotal int
}

func newSocketLimiter(cfg config.ConnectionsConfig) *socketLimiter {
	return &socketLimiter{
		perIP:    make(map[string]int),
		maxPerIP: cfg.MaxPerIP,
		maxTotal: cfg.MaxTotal,
	}
}

// Acquire takes a slot for ip, or reports false when a limit is reached.
func (l *socketLimiter) Acquire(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.maxTotal > 0 && l.total >= l.maxTotal {
		return false
	}
	if l.maxPerIP > 0 && l.perIP[ip] >= l.maxPerIP {
		return false
	}
	l.perIP[ip]++
	l.total++
	return true
}

// Release returns a slot taken by Acquire. Releasing an address that holds
// no slot is a no-op.
func (l *socketLimiter) Release(ip string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	n, ok := l.perIP[ip]
	if !ok {
		return
	}
	if n > 1 {
		l.perIP[ip] = n - 1
	} else {
		delete(l.perIP, ip)
	}
	l.total--
}

// Stats returns the open sockets and the number of distinct addresses.
func (l *socketLimiter) Stats() (total, addresses int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total, len(l.perIP)
}

// Count returns the open sockets for ip.
func (l *socketLimiter) Count(ip string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.perIP[ip]
}

// clientIP is the address limits and audit records are keyed by. Proxy
// headers win over the socket address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	return hostOnly(r.RemoteAddr)
}

// hostOnly strips the port from an ip:port address.
func hostOnly(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}
