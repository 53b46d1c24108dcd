package httpserver

import (
	"net"
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// loginThrottle limits login attempts per username and client address: a
// burst of 5, refilling one attempt every 12 seconds.
type loginThrottle struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

func newLoginThrottle() *loginThrottle {
	return &loginThrottle{limiters: make(map[string]*rate.Limiter)}
}

func (t *loginThrottle) allow(username, clientIP string) bool {
	key := username + "|" + clientIP

	t.mu.Lock()
	limiter, ok := t.limiters[key]
	if !ok {
		limiter = rate.NewLimiter(rate.Limit(5.0/60.0), 5)
		t.limiters[key] = limiter
	}
	t.mu.Unlock()

	return limiter.Allow()
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
