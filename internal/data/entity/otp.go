package entity

import (
	"time"

	"github.com/google/uuid"
)

// OTP is a one-time login passcode. Code stays a string to keep leading digits.
type OTP struct {
	BaseSimple
	EmployeeID uuid.UUID `db:"employee_id"`
	Code       string    `db:"code"`
	ExpiresAt  time.Time `db:"expires_at"`
	Used       bool      `db:"used"`
}

func (o *OTP) ExpiredAt(now time.Time) bool {
	return now.After(o.ExpiresAt)
}
