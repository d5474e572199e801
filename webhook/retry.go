package webhook

import (
	"math/rand"
	"net/http"
	"time"
)

// maxAttempts bounds retries before a delivery transitions to dead: one
// initial attempt plus four retries, matching backoffSchedule's length.
const maxAttempts = 5

// backoffSchedule is the fixed delay before each retry, indexed by
// attempt-1 and clamped to the last entry for any attempt beyond it.
var backoffSchedule = []time.Duration{
	5 * time.Second,
	30 * time.Second,
	5 * time.Minute,
	30 * time.Minute,
}

// backoffJitter is the fractional jitter applied to each scheduled delay so
// a burst of deliveries failing together doesn't retry in lockstep.
const backoffJitter = 0.2

// backoffFor returns the delay before the next attempt after a delivery has
// failed attempt times already (1-indexed), drawn from the fixed schedule
// with +/-20% jitter.
func backoffFor(attempt int) time.Duration {
	idx := attempt - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(backoffSchedule) {
		idx = len(backoffSchedule) - 1
	}
	base := backoffSchedule[idx]

	jitter := time.Duration(float64(base) * backoffJitter)
	if jitter <= 0 {
		return base
	}
	delta := time.Duration(rand.Int63n(int64(2*jitter+1))) - jitter
	return base + delta
}

// isRetryableStatus reports whether an HTTP response status should be
// retried: request timeouts, 429, and server errors are transient, every
// other 4xx means the subscriber will never accept this payload.
func isRetryableStatus(status int) bool {
	switch status {
	case http.StatusRequestTimeout, http.StatusTooManyRequests:
		return true
	}
	return status >= 500
}
