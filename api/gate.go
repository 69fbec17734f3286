package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/subtranslate/guard/csrf"
	"github.com/subtranslate/guard/metrics"
)

// TokenHeader is the preferred way for clients to submit a CSRF token.
// TokenField is the form/query fallback for requests that cannot set
// custom headers.
const (
	TokenHeader = "X-CSRF-Token"
	TokenField  = "csrf_token"
)

// Machine-readable classification codes carried in the error envelope.
const (
	CodeTokenMissing    = "CSRF_TOKEN_MISSING"
	CodeCookieMissing   = "CSRF_COOKIE_MISSING"
	CodeTokenMalformed  = "CSRF_TOKEN_MALFORMED"
	CodeTokenExpired    = "CSRF_TOKEN_EXPIRED"
	CodeTokenMismatch   = "CSRF_TOKEN_MISMATCH"
	CodeValidationError = "CSRF_VALIDATION_ERROR"
)

// errInternalValidation marks an unexpected failure inside the check
// itself. It fails closed like every other classification.
var errInternalValidation = errors.New("internal csrf validation error")

var stateChangingMethods = map[string]bool{
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// Routes that cannot carry a same-origin token: the issuance endpoints
// themselves and external OAuth callback redirects.
var exemptPaths = map[string]bool{
	"/api/csrf":        true,
	"/api/csrf/verify": true,
}

const exemptCallbackPrefix = "/api/auth/callback"

// csrfGate blocks state-changing requests under /api that do not carry
// a token matching the reference cookie. Safe methods and exempt routes
// pass through untouched. The gate holds no cross-request state; every
// decision depends only on the request in hand.
func (a *API) csrfGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !gateApplies(r) {
			next.ServeHTTP(w, r)
			return
		}

		if err := a.checkRequest(r); err != nil {
			status, code := classify(err)
			metrics.Validations.WithLabelValues(code).Inc()
			a.logger.Warnw("csrf validation failed",
				"code", code,
				"method", r.Method,
				"path", r.URL.Path,
				"client_ip", clientIP(r),
				"request_id", requestIDFrom(r.Context()),
			)
			writeError(w, status, code, "CSRF validation failed")
			return
		}

		metrics.Validations.WithLabelValues("ok").Inc()
		next.ServeHTTP(w, r)
	})
}

func gateApplies(r *http.Request) bool {
	if !stateChangingMethods[r.Method] {
		return false
	}
	if !strings.HasPrefix(r.URL.Path, "/api/") {
		return false
	}
	if exemptPaths[r.URL.Path] {
		return false
	}
	if strings.HasPrefix(r.URL.Path, exemptCallbackPrefix) {
		return false
	}
	return true
}

// checkRequest runs the extraction/decode/validate sequence. A panic
// anywhere inside is converted to the internal classification rather
// than escaping to the server; token values are never logged.
func (a *API) checkRequest(r *http.Request) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			metrics.PanicsRecovered.WithLabelValues(r.Method).Inc()
			a.logger.Errorw("panic during csrf validation",
				"panic", rec,
				"method", r.Method,
				"path", r.URL.Path,
			)
			err = errInternalValidation
		}
	}()

	submitted := extractToken(r)
	if submitted == "" {
		return csrf.ErrTokenMissing
	}

	ref, err := a.cookies.ReadRequest(r)
	if err != nil {
		return err
	}

	return csrf.Validate(submitted, ref, time.Now())
}

func extractToken(r *http.Request) string {
	if tok := r.Header.Get(TokenHeader); tok != "" {
		return tok
	}
	return r.FormValue(TokenField)
}

func classify(err error) (status int, code string) {
	switch {
	case errors.Is(err, csrf.ErrTokenMissing):
		return http.StatusBadRequest, CodeTokenMissing
	case errors.Is(err, csrf.ErrCookieMissing):
		return http.StatusForbidden, CodeCookieMissing
	case errors.Is(err, csrf.ErrTokenMalformed):
		return http.StatusForbidden, CodeTokenMalformed
	case errors.Is(err, csrf.ErrTokenExpired):
		return http.StatusForbidden, CodeTokenExpired
	case errors.Is(err, csrf.ErrTokenMismatch):
		return http.StatusForbidden, CodeTokenMismatch
	default:
		return http.StatusForbidden, CodeValidationError
	}
}
