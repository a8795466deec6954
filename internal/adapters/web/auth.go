package web

import (
	"context"
	"net/http"
	"strings"
	"time"

	"jewelry-ledger/internal/core"
)

const authCookie = "auth_token"

type credentialKey struct{}

// credentialFromContext returns the credential RequireAuth verified, if any.
func credentialFromContext(ctx context.Context) (core.Credential, bool) {
	c, ok := ctx.Value(credentialKey{}).(core.Credential)
	return c, ok
}

// bearerToken reads the token from the Authorization header, falling back to the auth cookie.
func bearerToken(r *http.Request) string {
	if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
	}
	if c, err := r.Cookie(authCookie); err == nil {
		return c.Value
	}
	return ""
}

// RequireAuth verifies the bearer token and makes sure the shop document is loaded
// under it, refreshing the store's credential when the token was renewed.
// Returns 401 if the token is absent or invalid.
func (h *Handler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			writeError(w, r, "authentication required", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}
		cred, err := h.svc.Authenticate(token)
		if err != nil {
			writeError(w, r, "invalid or expired token", "UNAUTHORIZED", http.StatusUnauthorized)
			return
		}
		if err := h.svc.OpenSession(r.Context(), cred); err != nil {
			writeServiceError(w, r, err)
			return
		}
		ctx := context.WithValue(r.Context(), credentialKey{}, cred)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// login handles POST /api/auth/login.
func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.svc.Login(r.Context(), req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    res.Token,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   int(time.Until(res.ExpiresAt).Seconds()),
	})
	writeJSON(w, res)
}

// logout handles POST /api/auth/logout: clears the cookie and disposes the loaded document.
func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	if _, err := h.svc.Authenticate(bearerToken(r)); err == nil {
		h.svc.CloseSession(r.Context())
	}
	http.SetCookie(w, &http.Cookie{
		Name:     authCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteStrictMode,
		MaxAge:   -1,
	})
	w.WriteHeader(http.StatusNoContent)
}

// sessionStatus handles GET /api/session.
func (h *Handler) sessionStatus(w http.ResponseWriter, r *http.Request) {
	cred, _ := credentialFromContext(r.Context())
	type response struct {
		State     string    `json:"state"`
		LastError string    `json:"lastError,omitempty"`
		Subject   string    `json:"subject"`
		ExpiresAt time.Time `json:"expiresAt"`
	}
	st := h.svc.Status(r.Context())
	writeJSON(w, response{State: st.State, LastError: st.LastError, Subject: cred.Subject, ExpiresAt: cred.Expiry})
}

// sessionSave handles POST /api/session/save, retrying a failed document write.
func (h *Handler) sessionSave(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Save(r.Context()); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeJSON(w, h.svc.Status(r.Context()))
}
