package usecase

import "time"

const (
	// RunCacheTTL is how long finished runs stay in the cache. Runs are
	// immutable apart from their title, so a long TTL is safe.
	RunCacheTTL = 1 * time.Hour

	// IdempotencyKeyTTL is how long idempotency keys are cached.
	IdempotencyKeyTTL = 24 * time.Hour
)
