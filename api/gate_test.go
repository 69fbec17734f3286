package api

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/subtranslate/guard/config"
	"github.com/subtranslate/guard/csrf"
	"github.com/subtranslate/guard/project"
	"github.com/subtranslate/guard/ratelimit"
)

func newTestAPI(t *testing.T) *API {
	t.Helper()
	cfg := &config.Config{
		Env:           "test",
		CSRFSecret:    "test-csrf-secret",
		CSRFTokenTTL:  30 * time.Minute,
		JWTSecret:     "test-jwt-secret",
		RateLimit:     10_000,
		RateWindow:    time.Minute,
		SecureCookies: false,
	}
	return NewAPI(cfg, zap.NewNop().Sugar(), ratelimit.NewMemoryLimiter(), project.NewMemoryStore())
}

func sessionJWT(t *testing.T, secret, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": sub,
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	signed, err := tok.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

// issueToken calls GET /api/csrf and returns the token value plus the
// reference cookie the server set.
func issueToken(t *testing.T, a *API) (string, *http.Cookie) {
	t.Helper()
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/csrf", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body tokenResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	for _, c := range rec.Result().Cookies() {
		if c.Name == csrf.CookieName {
			return body.CSRFToken, c
		}
	}
	t.Fatal("reference cookie not set")
	return "", nil
}

func decodeErrorBody(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var body errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGate_SafeMethodsBypass(t *testing.T) {
	a := newTestAPI(t)
	auth := "Bearer " + sessionJWT(t, "test-jwt-secret", "user-1")

	// no token, no cookie: GET must never be gated
	req := httptest.NewRequest(http.MethodGet, "/api/projects", nil)
	req.Header.Set("Authorization", auth)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGate_MissingTokenIs400(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeErrorBody(t, rec)
	assert.Equal(t, CodeTokenMissing, body.Code)
	assert.Equal(t, remediationMessage, body.Message)
	assert.NotEmpty(t, body.Timestamp)
}

func TestGate_MissingCookieIs403(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader("{}"))
	req.Header.Set(TokenHeader, "0123456789abcdef0123456789abcdef")
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, CodeCookieMissing, decodeErrorBody(t, rec).Code)
}

func TestGate_MalformedCookieIs403(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader("{}"))
	req.Header.Set(TokenHeader, "0123456789abcdef0123456789abcdef")
	req.AddCookie(&http.Cookie{Name: csrf.CookieName, Value: "not-a-json-payload"})
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, CodeTokenMalformed, decodeErrorBody(t, rec).Code)
}

func TestGate_ExpiredTokenIs403(t *testing.T) {
	a := newTestAPI(t)

	expired := csrf.Token{
		Value:   "0123456789abcdef0123456789abcdef",
		Expires: time.Now().UnixMilli() - 1,
	}
	cookie, err := a.cookies.Encode(expired)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader("{}"))
	req.Header.Set(TokenHeader, expired.Value)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, CodeTokenExpired, decodeErrorBody(t, rec).Code)
}

func TestGate_MismatchedTokenIs403(t *testing.T) {
	a := newTestAPI(t)
	_, cookie := issueToken(t, a)

	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader("{}"))
	req.Header.Set(TokenHeader, "wrong-value")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, CodeTokenMismatch, decodeErrorBody(t, rec).Code)
}

func TestGate_RoundTripAllowsRequest(t *testing.T) {
	a := newTestAPI(t)
	token, cookie := issueToken(t, a)

	payload, _ := json.Marshal(createProjectRequest{
		Title:      "Interview footage",
		SourceLang: "en",
		TargetLang: "de",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/projects", bytes.NewReader(payload))
	req.Header.Set(TokenHeader, token)
	req.Header.Set("Authorization", "Bearer "+sessionJWT(t, "test-jwt-secret", "user-1"))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestGate_FormFieldFallback(t *testing.T) {
	a := newTestAPI(t)
	token, cookie := issueToken(t, a)

	form := url.Values{TokenField: {token}}
	req := httptest.NewRequest(http.MethodPost, "/api/projects", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+sessionJWT(t, "test-jwt-secret", "user-1"))
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	// the gate let it through; the handler then rejects the non-JSON
	// body, which proves validation happened before business logic
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "INVALID_REQUEST", decodeErrorBody(t, rec).Code)
}

func TestGate_IssuanceEndpointExempt(t *testing.T) {
	a := newTestAPI(t)

	// POST to the verify endpoint with no token headers at all must not
	// be blocked by the gate itself
	req := httptest.NewRequest(http.MethodPost, "/api/csrf/verify", strings.NewReader(`{"token":"x"}`))
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	var body verifyResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Valid)
}

func TestGate_OAuthCallbackExempt(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/auth/callback/google", nil)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	// no such route is registered here, but the gate must not be the
	// thing that answers
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGate_NonAPIPathsBypass(t *testing.T) {
	a := newTestAPI(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	a.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGateApplies(t *testing.T) {
	tests := []struct {
		method string
		path   string
		want   bool
	}{
		{http.MethodGet, "/api/projects", false},
		{http.MethodHead, "/api/projects", false},
		{http.MethodOptions, "/api/projects", false},
		{http.MethodPost, "/api/projects", true},
		{http.MethodPut, "/api/projects/123", true},
		{http.MethodPatch, "/api/projects/123", true},
		{http.MethodDelete, "/api/projects/123", true},
		{http.MethodPost, "/api/csrf", false},
		{http.MethodPost, "/api/csrf/verify", false},
		{http.MethodPost, "/api/auth/callback/github", false},
		{http.MethodPost, "/health", false},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.path, nil)
			assert.Equal(t, tt.want, gateApplies(r))
		})
	}
}
