package ratelimiter

import (
	"context"
	"time"
)

// Store holds bucket state per key. Implementations refill and consume in
// one atomic step so concurrent attempts against the same identifier cannot
// both observe a full bucket.
type Store interface {
	// ConsumeTokens refills the bucket per config, then consumes the given
	// tokens. A negative remaining count means the attempt is denied.
	ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (remaining int, resetAt time.Time, err error)

	// Reset clears the bucket for the key, e.g. after a successful login.
	Reset(ctx context.Context, key string) error
}
