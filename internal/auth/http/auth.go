package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
	"github.com/aussiebroadwan/freshmart/internal/auth/service"
	"github.com/aussiebroadwan/freshmart/pkg/httpx"
	"github.com/aussiebroadwan/freshmart/pkg/slogx"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type tokenPayload struct {
	AccessToken      string `json:"access_token"`
	AccessExpiresAt  int64  `json:"access_expires_at"`
	RefreshToken     string `json:"refresh_token"`
	RefreshExpiresAt int64  `json:"refresh_expires_at"`
}

func tokenPayloadOf(t service.TokenPair) tokenPayload {
	return tokenPayload{
		AccessToken:      t.AccessToken,
		AccessExpiresAt:  t.AccessExpiresAt.Unix(),
		RefreshToken:     t.RefreshToken,
		RefreshExpiresAt: t.RefreshExpiresAt.Unix(),
	}
}

func (r *Router) handleRegister(w http.ResponseWriter, req *http.Request) {
	var in registerRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)
	if in.Username == "" || in.Email == "" || in.Password == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "Username, email and password are required")
		return
	}
	if !strings.Contains(in.Email, "@") {
		httpx.WriteMessage(w, http.StatusBadRequest, "A valid email address is required")
		return
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Role must be either user or admin")
		return
	}

	u, err := r.svc.Register(req.Context(), service.RegisterInput{
		Username: in.Username,
		Email:    in.Email,
		Password: in.Password,
		Role:     role,
	})
	switch {
	case errors.Is(err, service.ErrUsernameTaken):
		httpx.WriteMessage(w, http.StatusConflict, "Username is already taken")
		return
	case errors.Is(err, service.ErrEmailRegistered):
		httpx.WriteMessage(w, http.StatusConflict, "Email is already registered")
		return
	case errors.Is(err, service.ErrAdminLimit):
		httpx.WriteMessage(w, http.StatusConflict, "Admin account limit reached")
		return
	case err != nil:
		slogx.FromContext(req.Context()).Error("register failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, httpx.Response{
		Status:  http.StatusCreated,
		Message: "Account created successfully",
		Data:    map[string]any{"id": u.ID, "username": u.Username},
	})
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *Router) handleLogin(w http.ResponseWriter, req *http.Request) {
	var in loginRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.Username == "" || in.Password == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "Username and password are required")
		return
	}

	res, err := r.svc.Authenticate(req.Context(), in.Username, in.Password)
	if errors.Is(err, service.ErrBadCredentials) {
		httpx.WriteMessage(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if err != nil {
		slogx.FromContext(req.Context()).Error("login failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Response{
		Status:  http.StatusOK,
		Message: res.Message,
		Data:    tokenPayloadOf(res.Tokens),
	})
}

func (r *Router) handleLogout(w http.ResponseWriter, req *http.Request) {
	email, _ := req.Context().Value(httpx.CtxKeyEmail).(string)
	if email == "" {
		httpx.WriteMessage(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	out, err := r.svc.Logout(req.Context(), email)
	if err != nil {
		slogx.FromContext(req.Context()).Error("logout failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	writeOutcome(w, out)
}
