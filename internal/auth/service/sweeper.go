package service

import (
	"context"
	"fmt"
	"time"

	"github.com/aussiebroadwan/freshmart/pkg/slogx"
)

// SweepStore is the slice of the store the sweeper needs.
type SweepStore interface {
	SweepExpiredTokens(ctx context.Context, now time.Time) (int64, error)
	SweepStaleCarts(ctx context.Context, cutoff time.Time) (int64, error)
}

const (
	DefaultTokenSweepInterval = time.Second
	DefaultCartSweepInterval  = time.Minute

	// Carts older than this are considered abandoned.
	DefaultCartMaxAge = 24 * time.Hour
)

// Sweeper periodically deletes expired tokens and, during the overnight
// window, abandoned cart items. Token sweeps run around the clock; cart
// sweeps only fire between midnight and 6am local time so they stay off
// the shopping peak.
type Sweeper struct {
	store SweepStore

	TokenInterval time.Duration
	CartInterval  time.Duration
	CartMaxAge    time.Duration

	// Now is swapped out by tests that pin the wall clock.
	Now func() time.Time
}

func NewSweeper(st SweepStore) *Sweeper {
	return &Sweeper{
		store:         st,
		TokenInterval: DefaultTokenSweepInterval,
		CartInterval:  DefaultCartSweepInterval,
		CartMaxAge:    DefaultCartMaxAge,
		Now:           time.Now,
	}
}

// Run blocks until the context is cancelled or a sweep fails. A sweep
// failure is returned to the caller, which treats it as fatal: a store that
// cannot delete rows is a store that will fail the next login too.
func (s *Sweeper) Run(ctx context.Context) error {
	log := slogx.FromContext(ctx)
	log.Info("sweeper started",
		"token_interval", s.TokenInterval, "cart_interval", s.CartInterval)

	tokenTicker := time.NewTicker(s.TokenInterval)
	defer tokenTicker.Stop()
	cartTicker := time.NewTicker(s.CartInterval)
	defer cartTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Info("sweeper stopped")
			return ctx.Err()

		case <-tokenTicker.C:
			now := s.Now()
			n, err := s.store.SweepExpiredTokens(ctx, now)
			if err != nil {
				return fmt.Errorf("sweep expired tokens: %w", err)
			}
			if n > 0 {
				log.Info("swept expired tokens", "count", n)
			}

		case <-cartTicker.C:
			now := s.Now()
			if !inCartWindow(now) {
				continue
			}
			n, err := s.store.SweepStaleCarts(ctx, now.Add(-s.CartMaxAge))
			if err != nil {
				return fmt.Errorf("sweep stale carts: %w", err)
			}
			if n > 0 {
				log.Info("swept stale carts", "count", n)
			}
		}
	}
}

// inCartWindow reports whether t falls in the overnight window, midnight
// inclusive to 6am exclusive.
func inCartWindow(t time.Time) bool {
	return t.Hour() < 6
}
