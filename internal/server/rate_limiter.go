package server

import (
	"sync"
	"time"
)

// orgRateLimiter applies a fixed-window request quota per organization.
type orgRateLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	windows map[string]orgWindow
}

type orgWindow struct {
	startedAt time.Time
	count     int
}

func newOrgRateLimiter(limit int, window time.Duration) *orgRateLimiter {
	return &orgRateLimiter{
		limit:   limit,
		window:  window,
		windows: make(map[string]orgWindow),
	}
}

// Allow records one request for org and reports whether it fits the current
// window. Requests without an org key are rejected.
func (r *orgRateLimiter) Allow(org string) bool {
	if org == "" {
		return false
	}

	now := time.Now().UTC()
	r.mu.Lock()
	defer r.mu.Unlock()

	win, ok := r.windows[org]
	if !ok || now.Sub(win.startedAt) > r.window {
		win = orgWindow{startedAt: now}
	}
	if win.count >= r.limit {
		r.windows[org] = win
		return false
	}
	win.count++
	r.windows[org] = win
	return true
}
