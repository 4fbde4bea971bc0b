package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewResetCode(t *testing.T) {
	t.Parallel()

	for range 50 {
		code := NewResetCode()
		require.Len(t, code, ResetCodeLength)
		for _, r := range code {
			require.True(t, strings.ContainsRune(resetCodeAlphabet, r), "unexpected rune %q", r)
		}
	}
}

func TestNewOTP(t *testing.T) {
	t.Parallel()

	for range 200 {
		otp := NewOTP()
		require.GreaterOrEqual(t, otp, 1000)
		require.LessOrEqual(t, otp, 9999)
	}
}

func TestPasswordRoundTrip(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEqual(t, "correct horse battery staple", hash)

	require.NoError(t, VerifyPassword("correct horse battery staple", hash))
	require.Error(t, VerifyPassword("wrong", hash))
}

func TestHashPasswordRejectsEmpty(t *testing.T) {
	t.Parallel()

	_, err := HashPassword("")
	require.Error(t, err)
}
