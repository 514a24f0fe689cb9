package response

import (
	"time"

	"omylab/internal/data/entity"
)

type EmployeeResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	DNI       string    `json:"dni"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func EmployeeToResponse(e *entity.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:        e.ID.String(),
		FirstName: e.FirstName,
		LastName:  e.LastName,
		DNI:       e.DNI,
		Email:     e.Email,
		Username:  e.Username,
		Role:      string(e.Role),
		Status:    string(e.Status),
		CreatedAt: e.CreatedAt,
	}
}
