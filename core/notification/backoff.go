package notification

import "time"

const (
	backoffBase = 30 * time.Second
	backoffMax  = 30 * time.Minute
)

// Backoff returns the delay before the next dispatch attempt. attempt is 1-based;
// the delay doubles per attempt and caps at backoffMax.
func Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	delay := backoffBase << (attempt - 1)
	if delay > backoffMax || delay <= 0 { // guard shift overflow
		return backoffMax
	}
	return delay
}
