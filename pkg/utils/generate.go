package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
)

// ==================== UUID & TOKEN ====================

func ParseUUID(uuidStr string) (uuid.UUID, error) {
	return uuid.Parse(uuidStr)
}

func GenerateToken() uuid.UUID {
	return uuid.New()
}

// ==================== OTP ====================

// OTPLength is the number of digits in a login code.
const OTPLength = 6

// GenerateOTP draws a code uniformly from [10^(length-1), 10^length - 1],
// so a 6 digit code is always in [100000, 999999].
func GenerateOTP(length int) (string, error) {
	if length <= 0 || length > 18 {
		length = OTPLength
	}

	low := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length-1)), nil)
	high := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	span := new(big.Int).Sub(high, low)

	n, err := rand.Int(rand.Reader, span)
	if err != nil {
		return "", fmt.Errorf("draw otp: %w", err)
	}

	return n.Add(n, low).String(), nil
}
