package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// AuthDependencies defines the account and session operations.
type AuthDependencies interface {
	Register(ctx context.Context, email, password string) error
	Login(ctx context.Context, email, password string) (string, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (string, error)
}

type cookieConfig struct {
	name   string
	ttl    time.Duration
	secure bool
}

// AuthHandler handles registration and session requests.
type AuthHandler struct {
	deps   AuthDependencies
	cookie cookieConfig
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(deps AuthDependencies, cookie cookieConfig) *AuthHandler {
	return &AuthHandler{deps: deps, cookie: cookie}
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func decodeCredentials(r *http.Request) (credentials, error) {
	var c credentials
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		return credentials{}, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	return c, nil
}

type meResponse struct {
	Email string `json:"email"`
}

// HandleRegister handles POST /api/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	c, err := decodeCredentials(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.deps.Register(r.Context(), c.Email, c.Password); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{Message: "User registered successfully."})
}

// HandleLogin handles POST /api/login requests and sets the session cookie.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	c, err := decodeCredentials(r)
	if err != nil {
		writeError(w, err)
		return
	}
	token, err := h.deps.Login(r.Context(), c.Email, c.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	http.SetCookie(w, h.sessionCookie(token, int(h.cookie.ttl.Seconds())))
	writeJSON(w, http.StatusOK, messageResponse{Message: "Login successful"})
}

// HandleLogout handles POST /api/logout requests. It succeeds without a
// session too.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if c, err := r.Cookie(h.cookie.name); err == nil && c.Value != "" {
		if err := h.deps.Logout(r.Context(), c.Value); err != nil {
			writeError(w, err)
			return
		}
	}
	http.SetCookie(w, h.sessionCookie("", -1))
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logged out successfully"})
}

// HandleMe handles GET /api/me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	c, err := r.Cookie(h.cookie.name)
	if err != nil || c.Value == "" {
		writeDetail(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	email, err := h.deps.Authenticate(r.Context(), c.Value)
	if err != nil {
		writeDetail(w, http.StatusUnauthorized, "Not logged in")
		return
	}
	writeJSON(w, http.StatusOK, meResponse{Email: email})
}

func (h *AuthHandler) sessionCookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     h.cookie.name,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.cookie.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
