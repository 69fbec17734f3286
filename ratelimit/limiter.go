package ratelimit

import (
	"context"
	"errors"
	"time"
)

var ErrLimitExceeded = errors.New("rate limit exceeded")

// Limiter counts requests per client key within a fixed window.
type Limiter interface {
	CheckAndIncrement(ctx context.Context, key string, limit int, window time.Duration) error
}
