package csrf

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"
)

// CookieName is the fixed name of the reference cookie.
const CookieName = "csrf_token"

type cookiePayload struct {
	Token   string `json:"token"`
	Expires int64  `json:"expires"`
	Sig     string `json:"sig,omitempty"`
}

// CookieCodec serializes token records into the HttpOnly reference
// cookie and parses them back out of inbound requests. When a signing
// secret is configured the payload carries an HMAC tag that must verify
// on decode.
type CookieCodec struct {
	signer *Signer
	secure bool
}

// NewCookieCodec builds a codec. An empty secret disables signing;
// secure controls the cookie's Secure attribute and should be on
// everywhere except local development.
func NewCookieCodec(secret string, secure bool) *CookieCodec {
	c := &CookieCodec{secure: secure}
	if secret != "" {
		c.signer = NewSigner(secret)
	}
	return c
}

// Encode wraps a token record into the reference cookie. The JSON value
// is URL-escaped because cookie values cannot carry quotes or commas raw.
func (c *CookieCodec) Encode(t Token) (*http.Cookie, error) {
	payload := cookiePayload{Token: t.Value, Expires: t.Expires}
	if c.signer != nil {
		payload.Sig = c.signer.Sign(t)
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &http.Cookie{
		Name:     CookieName,
		Value:    url.QueryEscape(string(raw)),
		Path:     "/",
		Expires:  t.ExpiresAt(),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	}, nil
}

// Decode parses a raw cookie value back into a token record. The value
// is tried URL-decoded first, then as-is; if neither form parses the
// cookie is malformed and validation fails closed.
func (c *CookieCodec) Decode(raw string) (*Token, error) {
	payload, ok := parseCookiePayload(raw)
	if !ok {
		return nil, ErrTokenMalformed
	}
	if payload.Token == "" || payload.Expires <= 0 {
		return nil, ErrTokenMalformed
	}
	t := Token{Value: payload.Token, Expires: payload.Expires}
	if c.signer != nil && !c.signer.Verify(t, payload.Sig) {
		return nil, ErrTokenMalformed
	}
	return &t, nil
}

// ReadRequest extracts and decodes the reference cookie from a request.
func (c *CookieCodec) ReadRequest(r *http.Request) (*Token, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrCookieMissing
	}
	return c.Decode(cookie.Value)
}

func parseCookiePayload(raw string) (cookiePayload, bool) {
	var payload cookiePayload
	if decoded, err := url.QueryUnescape(raw); err == nil {
		if json.Unmarshal([]byte(decoded), &payload) == nil {
			return payload, true
		}
	}
	payload = cookiePayload{}
	if json.Unmarshal([]byte(raw), &payload) == nil {
		return payload, true
	}
	return cookiePayload{}, false
}

// ExpireCookie returns a cookie that clears the reference value.
func (c *CookieCodec) ExpireCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteStrictMode,
	}
}
