package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/fieldforge/servicedesk/pkg/async"
	"github.com/fieldforge/servicedesk/pkg/audit"
	"github.com/fieldforge/servicedesk/pkg/membership"
	"github.com/fieldforge/servicedesk/pkg/middleware"
	"github.com/fieldforge/servicedesk/pkg/navigation"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	principal, err := s.verifier.VerifyCredentials(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, membership.ErrInvalidCredentials) {
			s.recordAuth(r, audit.EventAuthLoginFailed, nil, req.Email)
			writeError(w, http.StatusUnauthorized, "invalid credentials")
			return
		}
		s.logger.WithError(err).Warn("credential verification failed")
		writeError(w, http.StatusServiceUnavailable, "login unavailable")
		return
	}

	token, err := s.sessions.Create(r.Context(), principal)
	if err != nil {
		s.logger.WithError(err).Warn("session creation failed")
		writeError(w, http.StatusServiceUnavailable, "login unavailable")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName(),
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.recordAuth(r, audit.EventAuthLogin, &principal.ID, principal.Email)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"principal_id": principal.ID,
		"email":        principal.Email,
	})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Destroy(r.Context(), r); err != nil {
		s.logger.WithError(err).Warn("session destroy failed")
	}
	http.SetCookie(w, &http.Cookie{
		Name:     s.cookieName(),
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})
	s.recordAuth(r, audit.EventAuthLogout, nil, "")
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	principal, err := s.sessions.GetCurrentPrincipal(r)
	if err != nil {
		s.logger.WithError(err).Warn("session lookup failed")
		writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}
	if principal == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"principal_id":  principal.ID,
		"email":         principal.Email,
	})
}

func (s *Server) handleNavigation(w http.ResponseWriter, r *http.Request) {
	role := middleware.RoleFromContext(r)
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"role":  role,
		"items": navigation.Build(role),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, middleware.LandingPath, http.StatusFound)
}

func (s *Server) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"page": "login"})
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"page": r.URL.Path,
		"role": middleware.RoleFromContext(r),
	}
	if t := middleware.TenantFromContext(r); t != nil {
		resp["workspace"] = t.Workspace
	}
	writeJSON(w, http.StatusOK, resp)
}

// recordAuth writes a login/logout audit event without blocking the
// response. The email lands in the message field so failed attempts are
// searchable even without a principal id.
func (s *Server) recordAuth(r *http.Request, eventType audit.EventType, principalID *int64, email string) {
	if s.audits == nil {
		return
	}
	ev := &audit.Event{
		EventType:   eventType,
		PrincipalID: principalID,
		Method:      r.Method,
		Path:        r.URL.Path,
		Message:     email,
	}
	async.SafeGo(r.Context(), 5*time.Second, "audit record", func(ctx context.Context) error {
		return s.audits.Record(ctx, ev)
	})
}

func (s *Server) cookieName() string {
	type named interface{ CookieName() string }
	if n, ok := s.sessions.(named); ok {
		return n.CookieName()
	}
	return "sd_session"
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
