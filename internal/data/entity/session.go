package entity

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	BaseSimple
	EmployeeID uuid.UUID  `db:"employee_id"`
	Token      uuid.UUID  `db:"token"`
	UserAgent  *string    `db:"user_agent"`
	IPAddress  *string    `db:"ip_address"`
	ExpiresAt  time.Time  `db:"expires_at"`
	RevokedAt  *time.Time `db:"revoked_at"`
}

// SessionIdentity is a live session joined with the employee it belongs to.
type SessionIdentity struct {
	SessionID  uuid.UUID
	EmployeeID uuid.UUID
	Username   string
	Role       EmployeeRole
	ExpiresAt  time.Time
}

// PendingLogin links a short-lived handle to the employee that passed the
// credential step and still owes a passcode.
type PendingLogin struct {
	Token      string
	EmployeeID uuid.UUID
	ExpiresAt  time.Time
}
