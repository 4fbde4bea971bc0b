package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
	"github.com/aussiebroadwan/freshmart/internal/auth/store"
	"github.com/aussiebroadwan/freshmart/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func TestIssueTokenPairReusesUnexpired(t *testing.T) {
	t.Parallel()

	svc, _, _ := newTestService(t)
	ctx := context.Background()
	u := registerUser(t, svc, "alice", "alice@example.com", domain.RoleUser)

	first, err := svc.IssueTokenPair(ctx, u)
	require.NoError(t, err)

	second, err := svc.IssueTokenPair(ctx, u)
	require.NoError(t, err)

	// Logging in again inside the token lifetime hands back the exact
	// same token strings, not fresh ones.
	require.Equal(t, first.AccessToken, second.AccessToken)
	require.Equal(t, first.RefreshToken, second.RefreshToken)
}

func TestIssueTokenPairReplacesExpired(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	ctx := context.Background()
	u := registerUser(t, svc, "bob", "bob@example.com", domain.RoleUser)

	base := time.Now()
	svc.now = func() time.Time { return base }

	first, err := svc.IssueTokenPair(ctx, u)
	require.NoError(t, err)

	// Jump past the access token's lifetime and issue again.
	later := base.Add(jwtx.AccessTokenTTL + time.Minute)
	svc.now = func() time.Time { return later }

	second, err := svc.IssueTokenPair(ctx, u)
	require.NoError(t, err)

	require.NotEqual(t, first.AccessToken, second.AccessToken)
	require.WithinDuration(t, later.Add(jwtx.AccessTokenTTL), second.AccessExpiresAt, 2*time.Second)

	// The replacement overwrote the old row rather than adding one.
	rec, err := st.AccessTokens().GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, second.AccessToken, rec.Token)
}

func TestIssueTokenPairConcurrent(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	ctx := context.Background()
	u := registerUser(t, svc, "carol", "carol@example.com", domain.RoleUser)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = svc.IssueTokenPair(ctx, u)
		}()
	}
	wg.Wait()

	// However the race resolves, the account ends with a single usable
	// token per namespace.
	access, err := st.AccessTokens().GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.False(t, access.Expired(time.Now()))

	refresh, err := st.RefreshTokens().GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.False(t, refresh.Expired(time.Now()))
}

func TestLogoutClearsStoredTokens(t *testing.T) {
	t.Parallel()

	svc, st, _ := newTestService(t)
	ctx := context.Background()
	u := registerUser(t, svc, "dave", "dave@example.com", domain.RoleUser)

	_, err := svc.IssueTokenPair(ctx, u)
	require.NoError(t, err)

	out, err := svc.Logout(ctx, u.Email)
	require.NoError(t, err)
	require.True(t, out.OK)
	require.Equal(t, MsgLoggedOut, out.Message)

	_, err = st.AccessTokens().GetByEmail(ctx, u.Email)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = st.RefreshTokens().GetByEmail(ctx, u.Email)
	require.ErrorIs(t, err, store.ErrNotFound)
}
