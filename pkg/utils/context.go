package utils

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	EmployeeIDKey contextKey = "employee_id"
	RoleKey       contextKey = "role"
	TokenKey      contextKey = "token"
)

func GetEmployeeIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(EmployeeIDKey).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}

func GetRoleFromContext(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(RoleKey).(string)
	return role, ok
}

func SetEmployeeContext(ctx context.Context, employeeID uuid.UUID, role string) context.Context {
	ctx = context.WithValue(ctx, EmployeeIDKey, employeeID)
	ctx = context.WithValue(ctx, RoleKey, role)
	return ctx
}

// GetTokenFromContext returns the bearer session token set by AuthSession
func GetTokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(TokenKey).(string)
	return token, ok
}

func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
