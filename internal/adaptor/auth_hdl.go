package adaptor

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"
	"time"

	"omylab/internal/dto/request"
	"omylab/internal/dto/response"
	"omylab/internal/usecase"
	"omylab/pkg/utils"

	"go.uber.org/zap"
)

const (
	PendingLoginCookie = "omylab_pending"
	PendingLoginHeader = "X-Login-Challenge"
)

type AuthHandler struct {
	service usecase.AuthService
	log     *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		log:     log,
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req request.LoginRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	// Validate request
	if validationErrors := utils.ValidateStruct(req); len(validationErrors) > 0 {
		utils.ResponseBadRequest(w, "Validation failed", validationErrors)
		return
	}

	pending, err := h.service.IssueCode(r.Context(), &req)
	if err != nil {
		handleServiceError(w, h.log, err, "login")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     PendingLoginCookie,
		Value:    pending.Token,
		Path:     "/api/auth",
		Expires:  pending.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})
	w.Header().Set(PendingLoginHeader, pending.Token)

	utils.ResponseSuccess(w, "Verification code sent to your email", response.PendingLoginResponse{
		ExpiresAt: pending.ExpiresAt,
	})
}

// VerifyOTP handles POST /api/auth/verify-otp
func (h *AuthHandler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req request.VerifyOTPRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return
	}

	resp, err := h.service.ValidateCode(r.Context(), pendingToken(r), &req, clientMeta(r))
	if err != nil {
		handleServiceError(w, h.log, err, "verify OTP")
		return
	}

	// the pending handle is single use
	http.SetCookie(w, &http.Cookie{
		Name:     PendingLoginCookie,
		Value:    "",
		Path:     "/api/auth",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})

	utils.ResponseSuccess(w, "Login successful", resp)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, ok := utils.GetTokenFromContext(r.Context())
	if !ok || token == "" {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	employeeID, ok := utils.GetEmployeeIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return
	}

	if err := h.service.Logout(r.Context(), token, employeeID); err != nil {
		handleServiceError(w, h.log, err, "logout")
		return
	}

	utils.ResponseSuccess(w, "Logout successful", nil)
}

func pendingToken(r *http.Request) string {
	if c, err := r.Cookie(PendingLoginCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return strings.TrimSpace(r.Header.Get(PendingLoginHeader))
}

func clientMeta(r *http.Request) request.ClientMeta {
	ip := r.RemoteAddr
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		ip = strings.TrimSpace(strings.Split(fwd, ",")[0])
	} else if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		ip = host
	}

	return request.ClientMeta{
		UserAgent: r.UserAgent(),
		IPAddress: ip,
	}
}
