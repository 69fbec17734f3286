package csrf

import (
	"errors"
	"time"
)

// Token is the CSRF token record: an opaque random value bound to an
// absolute expiry in epoch milliseconds. Records are immutable once
// issued; a client refreshes by obtaining a new one.
type Token struct {
	Value   string `json:"token"`
	Expires int64  `json:"expires"`
}

var (
	ErrTokenMissing   = errors.New("csrf token missing from request")
	ErrCookieMissing  = errors.New("csrf reference cookie missing")
	ErrTokenMalformed = errors.New("csrf reference cookie malformed")
	ErrTokenExpired   = errors.New("csrf token expired")
	ErrTokenMismatch  = errors.New("csrf token mismatch")
)

// ExpiresAt converts the epoch-millisecond expiry to a time.Time.
func (t Token) ExpiresAt() time.Time {
	return time.UnixMilli(t.Expires)
}

// Expired reports whether the record is past its expiry at the given time.
func (t Token) Expired(now time.Time) bool {
	return now.UnixMilli() > t.Expires
}
