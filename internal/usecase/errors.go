package usecase

import "errors"

// Login flow errors. Every failed credential check yields ErrCredentialsInvalid
// whatever the cause, so callers cannot tell unknown users from bad passwords.
var (
	ErrCredentialsInvalid = errors.New("invalid credentials or inactive account")
	ErrSessionExpired     = errors.New("login session expired, sign in again")
	ErrNoActiveCode       = errors.New("no valid code found, request a new one")
	ErrCodeExpired        = errors.New("code has expired, request a new one")
	ErrCodeIncorrect      = errors.New("incorrect code, try again")
	ErrNotificationFailed = errors.New("could not deliver the verification code")
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrResultClosed = errors.New("result is not pending")
)
