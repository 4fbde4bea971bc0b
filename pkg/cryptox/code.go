package cryptox

import (
	"math/rand"
)

// resetCodeAlphabet is the character set for password-reset codes. The +, #
// and friends are why reset codes must be URL-encoded before they ride in a
// callback link.
const resetCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz!@#$%^&*+_0123456789"

// ResetCodeLength is the length of a generated password-reset code.
const ResetCodeLength = 10

// OTP bounds. Codes are four digits, never zero-padded.
const (
	otpMin = 1000
	otpMax = 10000 // exclusive
)

// NewResetCode returns a ResetCodeLength-character code drawn from
// resetCodeAlphabet.
//
// Codes come from math/rand, not crypto/rand. The security bar for reset
// codes is still an open product question; if it lands on
// cryptographically strong codes, swap the source here and nothing else
// changes.
func NewResetCode() string {
	buf := make([]byte, ResetCodeLength)
	for i := range buf {
		buf[i] = resetCodeAlphabet[rand.Intn(len(resetCodeAlphabet))]
	}
	return string(buf)
}

// NewOTP returns a login one-time password in [1000, 9999].
func NewOTP() int {
	return otpMin + rand.Intn(otpMax-otpMin)
}
