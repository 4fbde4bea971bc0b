package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/aussiebroadwan/freshmart/internal/auth/domain"
	"github.com/aussiebroadwan/freshmart/internal/auth/store"
	"github.com/aussiebroadwan/freshmart/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations(context.Background()))
	return s
}

func seedUser(t *testing.T, s *Store, username, email string, role domain.Role) domain.User {
	t.Helper()

	u, err := s.Users().Create(context.Background(), domain.User{
		Username:     username,
		Email:        email,
		Role:         role,
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhash",
	})
	require.NoError(t, err)
	return u
}

func TestUsersCreateDuplicates(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "alice", "alice@example.com", domain.RoleUser)

	_, err := s.Users().Create(ctx, domain.User{
		Username: "alice", Email: "other@example.com",
		Role: domain.RoleUser, PasswordHash: "x",
	})
	require.ErrorIs(t, err, store.ErrDuplicateUsername)

	_, err = s.Users().Create(ctx, domain.User{
		Username: "alice2", Email: "alice@example.com",
		Role: domain.RoleUser, PasswordHash: "x",
	})
	require.ErrorIs(t, err, store.ErrDuplicateEmail)
}

func TestUsersAdminLimit(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < MaxAdmins; i++ {
		seedUser(t, s,
			fmt.Sprintf("admin%d", i),
			fmt.Sprintf("admin%d@example.com", i),
			domain.RoleAdmin)
	}

	_, err := s.Users().Create(ctx, domain.User{
		Username: "onetoomany", Email: "extra@example.com",
		Role: domain.RoleAdmin, PasswordHash: "x",
	})
	require.ErrorIs(t, err, store.ErrAdminLimit)

	// Regular accounts are unaffected by the cap.
	seedUser(t, s, "bob", "bob@example.com", domain.RoleUser)
}

func TestUsersUpdatePassword(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()

	seedUser(t, s, "carol", "carol@example.com", domain.RoleUser)

	n, err := s.Users().UpdatePasswordByEmail(ctx, "carol@example.com", "newhash")
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	u, err := s.Users().GetByEmail(ctx, "carol@example.com")
	require.NoError(t, err)
	require.Equal(t, "newhash", u.PasswordHash)

	n, err = s.Users().UpdatePasswordByEmail(ctx, "nobody@example.com", "newhash")
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestAccessTokensUpsertOneRowPerEmail(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "dave", "dave@example.com", domain.RoleUser)

	rec := domain.AccessTokenRecord{
		ID: idx.New().String(), UserID: u.ID, Email: u.Email, Username: u.Username,
		Role: u.Role, Token: "tok-1", ExpiresAt: time.Now().Add(time.Hour),
	}
	require.NoError(t, s.AccessTokens().Upsert(ctx, rec))

	rec.ID = idx.New().String()
	rec.Token = "tok-2"
	require.NoError(t, s.AccessTokens().Upsert(ctx, rec))

	got, err := s.AccessTokens().GetByEmail(ctx, u.Email)
	require.NoError(t, err)
	require.Equal(t, "tok-2", got.Token)

	var count int
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM access_tokens WHERE email = ?`, u.Email).Scan(&count)
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestAccessTokensConcurrentUpserts(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "erin", "erin@example.com", domain.RoleUser)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			rec := domain.AccessTokenRecord{
				ID: idx.New().String(), UserID: u.ID, Email: u.Email,
				Username: u.Username, Role: u.Role,
				Token: fmt.Sprintf("tok-%d", i), ExpiresAt: time.Now().Add(time.Hour),
			}
			// SQLITE_BUSY under contention is fine; the invariant is that
			// no winner ever produces a second row.
			_ = s.AccessTokens().Upsert(ctx, rec)
		}(i)
	}
	wg.Wait()

	var count int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM access_tokens WHERE email = ?`, u.Email).Scan(&count)
	require.NoError(t, err)
	require.LessOrEqual(t, count, 1)
}

func TestSweepExpiredTokens(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	u1 := seedUser(t, s, "frank", "frank@example.com", domain.RoleUser)
	u2 := seedUser(t, s, "grace", "grace@example.com", domain.RoleUser)

	require.NoError(t, s.AccessTokens().Upsert(ctx, domain.AccessTokenRecord{
		ID: idx.New().String(), UserID: u1.ID, Email: u1.Email, Username: u1.Username,
		Role: u1.Role, Token: "expired", ExpiresAt: now.Add(-time.Minute),
	}))
	require.NoError(t, s.RefreshTokens().Upsert(ctx, domain.RefreshTokenRecord{
		ID: idx.New().String(), UserID: u1.ID, Email: u1.Email, Username: u1.Username,
		Role: u1.Role, Token: "expired", ExpiresAt: now.Add(-time.Minute),
	}))
	require.NoError(t, s.AccessTokens().Upsert(ctx, domain.AccessTokenRecord{
		ID: idx.New().String(), UserID: u2.ID, Email: u2.Email, Username: u2.Username,
		Role: u2.Role, Token: "live", ExpiresAt: now.Add(time.Hour),
	}))

	// Aged-out codes go with the same sweep; fresh ones stay.
	require.NoError(t, s.ResetCodes().Upsert(ctx, domain.ResetCode{
		UserID: u1.ID, Email: u1.Email, Code: "stale", CreatedAt: now.Add(-48 * time.Hour),
	}))
	require.NoError(t, s.OTPCodes().Upsert(ctx, domain.OTPCode{
		UserID: u1.ID, Email: u1.Email, Code: 1111, CreatedAt: now.Add(-48 * time.Hour),
	}))
	require.NoError(t, s.ResetCodes().Upsert(ctx, domain.ResetCode{
		UserID: u2.ID, Email: u2.Email, Code: "fresh", CreatedAt: now,
	}))

	n, err := s.SweepExpiredTokens(ctx, now)
	require.NoError(t, err)
	require.EqualValues(t, 4, n)

	_, err = s.AccessTokens().GetByEmail(ctx, u1.Email)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.ResetCodes().GetByUserID(ctx, u1.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.OTPCodes().GetByUserID(ctx, u1.ID)
	require.ErrorIs(t, err, store.ErrNotFound)

	live, err := s.AccessTokens().GetByEmail(ctx, u2.Email)
	require.NoError(t, err)
	require.Equal(t, "live", live.Token)

	kept, err := s.ResetCodes().GetByUserID(ctx, u2.ID)
	require.NoError(t, err)
	require.Equal(t, "fresh", kept.Code)
}

func TestSweepStaleCarts(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()
	u := seedUser(t, s, "heidi", "heidi@example.com", domain.RoleUser)

	require.NoError(t, s.Carts().UpsertItem(ctx, domain.CartItem{
		UserID: u.ID, ProductID: 1, Quantity: 2, UpdatedAt: now.Add(-48 * time.Hour),
	}))
	require.NoError(t, s.Carts().UpsertItem(ctx, domain.CartItem{
		UserID: u.ID, ProductID: 2, Quantity: 1, UpdatedAt: now,
	}))

	n, err := s.SweepStaleCarts(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	items, err := s.Carts().ListByUser(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.EqualValues(t, 2, items[0].ProductID)
}

func TestResetCodesUpsertReplaces(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "ivan", "ivan@example.com", domain.RoleUser)

	require.NoError(t, s.ResetCodes().Upsert(ctx, domain.ResetCode{
		UserID: u.ID, Email: u.Email, Code: "first%21",
	}))
	require.NoError(t, s.ResetCodes().Upsert(ctx, domain.ResetCode{
		UserID: u.ID, Email: u.Email, Code: "second%40",
	}))

	got, err := s.ResetCodes().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, "second%40", got.Code)

	require.NoError(t, s.ResetCodes().DeleteByUserID(ctx, u.ID))
	_, err = s.ResetCodes().GetByUserID(ctx, u.ID)
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestOTPCodesRoundTrip(t *testing.T) {
	t.Parallel()

	s := newTestStore(t)
	ctx := context.Background()
	u := seedUser(t, s, "judy", "judy@example.com", domain.RoleUser)

	require.NoError(t, s.OTPCodes().Upsert(ctx, domain.OTPCode{
		UserID: u.ID, Email: u.Email, Code: 4242,
	}))

	got, err := s.OTPCodes().GetByUserID(ctx, u.ID)
	require.NoError(t, err)
	require.Equal(t, 4242, got.Code)
}
