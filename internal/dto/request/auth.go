package request

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type VerifyOTPRequest struct {
	Code string `json:"code" validate:"required"`
}

// ClientMeta describes the caller a session is issued to.
type ClientMeta struct {
	UserAgent string
	IPAddress string
}
