package domain

import "time"

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// MaxIdempotencyKeyLength совпадает с размером колонки submit_intents.idempotency_key
const MaxIdempotencyKeyLength = 64

// Payment poller defaults
const (
	DefaultPollInterval        = 5 * time.Second
	DefaultDirectRedirectDelay = 3 * time.Second
	DefaultPolledRedirectDelay = 5 * time.Second
	DefaultRedirectTarget      = "/dashboard"
)
