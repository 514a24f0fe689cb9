package response

import (
	"time"

	"omylab/internal/data/entity"
)

// PendingLoginResponse is returned after the credential step. The handle
// itself travels in a cookie.
type PendingLoginResponse struct {
	ExpiresAt time.Time `json:"expires_at"`
}

type AuthResponse struct {
	EmployeeID  string              `json:"employee_id"`
	Username    string              `json:"username"`
	FullName    string              `json:"full_name"`
	Role        entity.EmployeeRole `json:"role"`
	Token       string              `json:"token"`
	ExpiresAt   time.Time           `json:"expires_at"`
	RedirectURL string              `json:"redirect_url"`
}

func AuthToResponse(employee *entity.Employee, session *entity.Session, redirect string) AuthResponse {
	resp := AuthResponse{
		EmployeeID:  employee.ID.String(),
		Username:    employee.Username,
		FullName:    employee.FullName(),
		Role:        employee.Role,
		RedirectURL: redirect,
	}

	if session != nil {
		resp.Token = session.Token.String()
		resp.ExpiresAt = session.ExpiresAt
	}

	return resp
}
