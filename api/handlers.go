package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/subtranslate/guard/csrf"
	"github.com/subtranslate/guard/metrics"
)

type tokenResponse struct {
	CSRFToken string `json:"csrfToken"`
	Expires   int64  `json:"expires"`
}

// handleIssueToken mints a fresh token, sets the reference cookie and
// returns the readable copy. The response is a one-time secret so it
// must never be cached.
func (a *API) handleIssueToken(w http.ResponseWriter, r *http.Request) {
	token, err := a.issuer.Issue()
	if err != nil {
		a.logger.Errorw("token issuance failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeValidationError, "Token issuance failed")
		return
	}

	cookie, err := a.cookies.Encode(token)
	if err != nil {
		a.logger.Errorw("cookie encoding failed", "error", err)
		writeError(w, http.StatusInternalServerError, CodeValidationError, "Token issuance failed")
		return
	}

	metrics.TokensIssued.Inc()
	http.SetCookie(w, cookie)
	w.Header().Set("Cache-Control", "no-store, no-cache")
	w.Header().Set("Pragma", "no-cache")
	writeJSON(w, http.StatusOK, tokenResponse{
		CSRFToken: token.Value,
		Expires:   token.Expires,
	})
}

type verifyRequest struct {
	Token string `json:"token"`
}

type verifyResponse struct {
	Valid bool `json:"valid"`
}

// handleVerifyToken lets a client self-check a token it holds against
// its own reference cookie without performing any protected operation.
func (a *API) handleVerifyToken(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeTokenMissing, "Invalid request body")
		return
	}

	ref, err := a.cookies.ReadRequest(r)
	if err == nil {
		err = csrf.Validate(req.Token, ref, time.Now())
	}
	if err != nil {
		writeJSON(w, http.StatusForbidden, verifyResponse{Valid: false})
		return
	}
	writeJSON(w, http.StatusOK, verifyResponse{Valid: true})
}

func (a *API) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
