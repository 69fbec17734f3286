package csrf

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"strconv"
)

// Signer adds an HMAC-SHA256 integrity tag to cookie payloads. The tag
// makes client-side tampering detectable early, but a verified cookie
// is still untrusted input: forgery is prevented by the token's entropy
// and the constant-time comparison, not by the signature alone.
type Signer struct {
	secret []byte
}

func NewSigner(secret string) *Signer {
	return &Signer{secret: []byte(secret)}
}

func (s *Signer) Sign(t Token) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(t.Value))
	mac.Write([]byte("|"))
	mac.Write([]byte(strconv.FormatInt(t.Expires, 10)))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

func (s *Signer) Verify(t Token, signature string) bool {
	expected := s.Sign(t)
	return hmac.Equal([]byte(expected), []byte(signature))
}
