package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
	"github.com/aussiebroadwan/freshmart/pkg/httpx"
	"github.com/aussiebroadwan/freshmart/pkg/slogx"
)

type forgotPasswordRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (r *Router) handleForgotPassword(w http.ResponseWriter, req *http.Request) {
	var in forgotPasswordRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "Email is required")
		return
	}

	role, err := domain.ParseRole(in.Role)
	if err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Role must be either user or admin")
		return
	}

	out, err := r.svc.StartPasswordReset(req.Context(), in.Email, role)
	if err != nil {
		slogx.FromContext(req.Context()).Error("forgot password failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	writeOutcome(w, out)
}

type resetPasswordRequest struct {
	UserID      int64  `json:"userId"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

func (r *Router) handleResetPassword(w http.ResponseWriter, req *http.Request) {
	var in resetPasswordRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.UserID <= 0 || in.Code == "" || in.NewPassword == "" {
		httpx.WriteMessage(w, http.StatusBadRequest, "userId, code and newPassword are required")
		return
	}

	out, err := r.svc.CompletePasswordReset(req.Context(), in.UserID, in.Code, in.NewPassword)
	if err != nil {
		slogx.FromContext(req.Context()).Error("reset password failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	writeOutcome(w, out)
}
