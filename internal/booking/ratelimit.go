package booking

import "time"

// rateLimiter is a sliding-window attempt counter keyed by guest email.
// It is not safe for concurrent use on its own: the manager only touches it
// inside its booking critical section.
type rateLimiter struct {
	window   time.Duration
	max      int
	attempts map[string][]time.Time
}

func newRateLimiter(window time.Duration, maxAttempts int) *rateLimiter {
	return &rateLimiter{
		window:   window,
		max:      maxAttempts,
		attempts: make(map[string][]time.Time),
	}
}

// allow records the attempt and reports whether it fits the budget. Attempts
// over the budget are recorded too, so retrying while limited cannot wait
// the window out.
func (r *rateLimiter) allow(email string, now time.Time) bool {
	cutoff := now.Add(-r.window)

	kept := r.attempts[email][:0]

	for _, t := range r.attempts[email] {
		if !t.Before(cutoff) {
			kept = append(kept, t)
		}
	}

	kept = append(kept, now)
	r.attempts[email] = kept

	return len(kept) <= r.max
}
