package csrf

import (
	"crypto/subtle"
	"time"
)

// Validate decides whether a submitted token matches the reference
// record at the given instant. It is a pure function: no I/O, no
// mutation, same inputs always produce the same result.
//
// The checks run in a fixed order: reference presence, submitted
// presence, expiry, then a constant-time value comparison. The
// comparison inspects every byte regardless of where a mismatch
// occurs, so timing reveals nothing about a correct prefix.
func Validate(submitted string, ref *Token, now time.Time) error {
	if ref == nil {
		return ErrCookieMissing
	}
	if ref.Value == "" || ref.Expires <= 0 {
		return ErrTokenMalformed
	}
	if submitted == "" {
		return ErrTokenMissing
	}
	if ref.Expired(now) {
		return ErrTokenExpired
	}
	if subtle.ConstantTimeCompare([]byte(submitted), []byte(ref.Value)) != 1 {
		return ErrTokenMismatch
	}
	return nil
}
