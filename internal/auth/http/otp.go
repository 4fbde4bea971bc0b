package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
	"github.com/aussiebroadwan/freshmart/pkg/httpx"
	"github.com/aussiebroadwan/freshmart/pkg/slogx"
)

type otpSendRequest struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}

func (r *Router) handleOTPSend(w http.ResponseWriter, req *http.Request) {
	var in otpSendRequest
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

	out, err := r.svc.StartOTPLogin(req.Context(), in.Email, role)
	if err != nil {
		slogx.FromContext(req.Context()).Error("otp send failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}
	writeOutcome(w, out)
}

type otpConfirmRequest struct {
	Email string `json:"email"`
	OTP   int    `json:"otp"`
}

func (r *Router) handleOTPConfirm(w http.ResponseWriter, req *http.Request) {
	var in otpConfirmRequest
	if err := json.NewDecoder(req.Body).Decode(&in); err != nil {
		httpx.WriteMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	in.Email = strings.TrimSpace(in.Email)
	if in.Email == "" || in.OTP == 0 {
		httpx.WriteMessage(w, http.StatusBadRequest, "Email and otp are required")
		return
	}

	res, err := r.svc.ConfirmOTPLogin(req.Context(), in.Email, in.OTP)
	if err != nil {
		slogx.FromContext(req.Context()).Error("otp confirm failed", "err", err)
		httpx.WriteMessage(w, http.StatusInternalServerError, "Something went wrong")
		return
	}

	if !res.Outcome.OK {
		writeOutcome(w, res.Outcome)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, httpx.Response{
		Status:  http.StatusOK,
		Message: res.Outcome.Message,
		Data:    tokenPayloadOf(res.Tokens),
	})
}
