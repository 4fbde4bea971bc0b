package service

import (
	"context"
	"testing"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestOTPLoginRoundTrip(t *testing.T) {
	t.Parallel()

	svc, _, mailer := newTestService(t)
	ctx := context.Background()
	u := registerUser(t, svc, "liam", "liam@example.com", domain.RoleUser)

	out, err := svc.StartOTPLogin(ctx, u.Email, domain.RoleUser)
	require.NoError(t, err)
	require.True(t, out.OK)
	require.Equal(t, MsgOTPSent, out.Message)

	require.Len(t, mailer.otpCalls, 1)
	otp := mailer.otpCalls[0].otp
	require.GreaterOrEqual(t, otp, 1000)
	require.LessOrEqual(t, otp, 9999)

	res, err := svc.ConfirmOTPLogin(ctx, u.Email, otp)
	require.NoError(t, err)
	require.True(t, res.Outcome.OK)
	require.Equal(t, MsgOTPValid, res.Outcome.Message)
	require.NotEmpty(t, res.Tokens.AccessToken)
	require.NotEmpty(t, res.Tokens.RefreshToken)
}

func TestOTPConfirmRotatesTokens(t *testing.T) {
	t.Parallel()

	svc, _, mailer := newTestService(t)
	ctx := context.Background()
	u := registerUser(t, svc, "mary", "mary@example.com", domain.RoleUser)

	before, err := svc.IssueTokenPair(ctx, u)
	require.NoError(t, err)

	_, err = svc.StartOTPLogin(ctx, u.Email, domain.RoleUser)
	require.NoError(t, err)
	otp := mailer.otpCalls[0].otp

	res, err := svc.ConfirmOTPLogin(ctx, u.Email, otp)
	require.NoError(t, err)
	require.True(t, res.Outcome.OK)

	// Confirmation always mints fresh tokens, even though the old pair
	// was still live.
	require.NotEqual(t, before.AccessToken, res.Tokens.AccessToken)
	require.NotEqual(t, before.RefreshToken, res.Tokens.RefreshToken)
}

func TestOTPConfirmTwiceSucceedsTwice(t *testing.T) {
	t.Parallel()

	svc, _, mailer := newTestService(t)
	ctx := context.Background()
	u := registerUser(t, svc, "nina", "nina@example.com", domain.RoleUser)

	_, err := svc.StartOTPLogin(ctx, u.Email, domain.RoleUser)
	require.NoError(t, err)
	otp := mailer.otpCalls[0].otp

	first, err := svc.ConfirmOTPLogin(ctx, u.Email, otp)
	require.NoError(t, err)
	require.True(t, first.Outcome.OK)

	// The code is not consumed on use. A second confirmation with the
	// same code succeeds and rotates the tokens again.
	second, err := svc.ConfirmOTPLogin(ctx, u.Email, otp)
	require.NoError(t, err)
	require.True(t, second.Outcome.OK)
	require.NotEqual(t, first.Tokens.AccessToken, second.Tokens.AccessToken)
}

func TestOTPConfirmWrongCode(t *testing.T) {
	t.Parallel()

	svc, _, mailer := newTestService(t)
	ctx := context.Background()
	u := registerUser(t, svc, "oscar", "oscar@example.com", domain.RoleUser)

	_, err := svc.StartOTPLogin(ctx, u.Email, domain.RoleUser)
	require.NoError(t, err)
	otp := mailer.otpCalls[0].otp

	wrong := otp + 1
	if wrong > 9999 {
		wrong = 1000
	}

	res, err := svc.ConfirmOTPLogin(ctx, u.Email, wrong)
	require.NoError(t, err)
	require.False(t, res.Outcome.OK)
	require.Equal(t, MsgOTPInvalid, res.Outcome.Message)
	require.Empty(t, res.Tokens.AccessToken)
}

func TestOTPSendRoleMismatch(t *testing.T) {
	t.Parallel()

	svc, _, mailer := newTestService(t)
	ctx := context.Background()
	u := registerUser(t, svc, "rita", "rita@example.com", domain.RoleUser)

	// The right email with the wrong role reads as not found and no code
	// is dispatched.
	out, err := svc.StartOTPLogin(ctx, u.Email, domain.RoleAdmin)
	require.NoError(t, err)
	require.False(t, out.OK)
	require.Equal(t, MsgEmailNotFound, out.Message)
	require.Empty(t, mailer.otpCalls)
}

func TestOTPConfirmWithoutPending(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()
	u := registerUser(t, svc, "pam", "pam@example.com", domain.RoleUser)

	res, err := svc.ConfirmOTPLogin(ctx, u.Email, 1234)
	require.NoError(t, err)
	require.False(t, res.Outcome.OK)
	require.Equal(t, MsgOTPNotFound, res.Outcome.Message)
}

func TestOTPStartEmailFailureLeavesNoCode(t *testing.T) {
	t.Parallel()

	svc, _, mailer := newTestService(t)
	ctx := context.Background()
	u := registerUser(t, svc, "quinn", "quinn@example.com", domain.RoleUser)

	mailer.failNext = true
	out, err := svc.StartOTPLogin(ctx, u.Email, domain.RoleUser)
	require.NoError(t, err)
	require.False(t, out.OK)
	require.Equal(t, MsgServiceDown, out.Message)

	res, err := svc.ConfirmOTPLogin(ctx, u.Email, 1234)
	require.NoError(t, err)
	require.Equal(t, MsgOTPNotFound, res.Outcome.Message)
}
