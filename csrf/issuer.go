package csrf

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

const (
	// DefaultTTL is the token lifetime when none is configured.
	DefaultTTL = 30 * time.Minute

	minTTL = 1 * time.Minute
	maxTTL = 24 * time.Hour

	// tokenBytes gives 256 bits of entropy, hex-encoded to 64 chars.
	tokenBytes = 32
)

// Issuer produces fresh token records. It holds no per-request state;
// every Issue call draws from crypto/rand independently.
type Issuer struct {
	now func() time.Time
	ttl time.Duration
}

type IssuerConfig struct {
	// Now overrides the clock, for tests. Defaults to time.Now.
	Now func() time.Time
	// TTL is the token lifetime, clamped to [1m, 24h]. Zero means DefaultTTL.
	TTL time.Duration
}

func NewIssuer(cfg IssuerConfig) *Issuer {
	nowFn := cfg.Now
	if nowFn == nil {
		nowFn = time.Now
	}
	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}
	if ttl < minTTL {
		ttl = minTTL
	}
	if ttl > maxTTL {
		ttl = maxTTL
	}
	return &Issuer{now: nowFn, ttl: ttl}
}

// TTL returns the effective (clamped) token lifetime.
func (i *Issuer) TTL() time.Duration {
	return i.ttl
}

// Issue generates a new token record. A failure to read from the
// system's secure random source is a hard error, never a weak fallback.
func (i *Issuer) Issue() (Token, error) {
	buf := make([]byte, tokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return Token{}, fmt.Errorf("generating csrf token: %w", err)
	}
	return Token{
		Value:   hex.EncodeToString(buf),
		Expires: i.now().Add(i.ttl).UnixMilli(),
	}, nil
}
