// Package http wires the auth service's handlers onto a ServeMux. Handlers
// decode and validate input, call the service and translate the outcome to
// a status code; everything else lives in the service layer.
package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
	"github.com/aussiebroadwan/freshmart/internal/auth/service"
	"github.com/aussiebroadwan/freshmart/internal/auth/store"
	"github.com/aussiebroadwan/freshmart/pkg/httpx"
	"github.com/aussiebroadwan/freshmart/pkg/jwtx"
	"github.com/aussiebroadwan/freshmart/pkg/slogx"
)

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	verifier     *jwtx.Verifier
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger

	store store.Store
	svc   *service.Service
}

func NewRouter(
	svc *service.Service,
	verifier *jwtx.Verifier,
	buildVersion string,
	st store.Store,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		verifier:     verifier,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		store:        st,
		svc:          svc,
		logger:       logger,
	}

	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAuth()
	r.registerPasswordReset()
	r.registerOTP()
	r.registerAdmin()
	r.registerSystem()
}

// ServeHTTP implements http.Handler for Router and applies the global
// middleware chain.
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

func (r *Router) registerAuth() {
	// Credential-bearing endpoints take the strict limit to slow down
	// guessing; logout only needs a valid token so it sits at moderate.
	r.Mux.Handle("POST /v1/auth/register",
		httpx.Chain(http.HandlerFunc(r.handleRegister),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/login",
		httpx.Chain(http.HandlerFunc(r.handleLogin),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/logout",
		httpx.Chain(http.HandlerFunc(r.handleLogout),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerPasswordReset() {
	r.Mux.Handle("POST /v1/auth/forgot-password",
		httpx.Chain(http.HandlerFunc(r.handleForgotPassword),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/reset-password",
		httpx.Chain(http.HandlerFunc(r.handleResetPassword),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerOTP() {
	r.Mux.Handle("POST /v1/auth/otp/send",
		httpx.Chain(http.HandlerFunc(r.handleOTPSend),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
	r.Mux.Handle("POST /v1/auth/otp/confirm",
		httpx.Chain(http.HandlerFunc(r.handleOTPConfirm),
			httpx.RateLimitByIP(httpx.StrictLimit),
		),
	)
}

func (r *Router) registerAdmin() {
	r.Mux.Handle("GET /v1/admin/users/{id}/cart",
		httpx.Chain(http.HandlerFunc(r.handleAdminUserCart),
			httpx.AuthnMiddleware(r.verifier),
			httpx.RequireRole(domain.RoleAdmin.String()),
			httpx.RateLimitByIP(httpx.ModerateLimit),
		),
	)
}

func (r *Router) registerSystem() {
	r.Mux.Handle("GET /livez",
		httpx.Chain(LivezHandler(r.startTime, r.buildVersion),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
	r.Mux.Handle("GET /readyz",
		httpx.Chain(ReadyzHandler(r.startTime, r.buildVersion, r.store),
			httpx.RateLimitByIP(httpx.LenientLimit),
		),
	)
}

// statusFor maps a business outcome onto an HTTP status.
func statusFor(o service.Outcome) int {
	switch o.Code {
	case service.CodeOK:
		return http.StatusOK
	case service.CodeInvalid, service.CodeExpired:
		return http.StatusBadRequest
	case service.CodeNotFound:
		return http.StatusNotFound
	case service.CodeUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeOutcome(w http.ResponseWriter, o service.Outcome) {
	httpx.WriteMessage(w, statusFor(o), o.Message)
}
