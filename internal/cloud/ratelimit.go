package cloud

import "time"

// ResetRateLimit throttles reset-link requests client-side. The backend
// answers rapid repeats with a 429, so the limiter keeps the quota intact
// and lets the UI show the wait instead.
type ResetRateLimit struct {
	every time.Duration
	last  time.Time
}

// NewResetRateLimit returns a limiter allowing one request per window.
func NewResetRateLimit(every time.Duration) *ResetRateLimit {
	return &ResetRateLimit{every: every}
}

// Allow reports whether a request may fire now and records it when allowed.
func (r *ResetRateLimit) Allow(now time.Time) bool {
	if r == nil {
		return true
	}
	if !r.last.IsZero() && now.Sub(r.last) < r.every {
		return false
	}
	r.last = now
	return true
}

// Remaining returns the wait until the next allowed request.
func (r *ResetRateLimit) Remaining(now time.Time) time.Duration {
	if r == nil || r.last.IsZero() {
		return 0
	}
	left := r.every - now.Sub(r.last)
	if left < 0 {
		return 0
	}
	return left
}
