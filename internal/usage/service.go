package usage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"hiring-backend/internal/candidates"
)

type store interface {
	Get(ctx context.Context, userID string) (Usage, error)
	EnsurePeriod(ctx context.Context, userID string) (Usage, error)
	// Consume spends n units. A spend past the limit returns the
	// unchanged usage with ErrLimitReached.
	Consume(ctx context.Context, userID string, n int) (Usage, error)
	Reset(ctx context.Context, userID string) (Usage, error)
}

// Service manages parse-quota accounting via an underlying store.
type Service struct {
	store store
}

// NewService constructs a Service with an in-memory store.
func NewService(def Defaults) *Service {
	return &Service{store: newMemoryStore(def)}
}

// NewPostgresService constructs a Service backed by Postgres.
func NewPostgresService(db *sql.DB, def Defaults) *Service {
	return &Service{store: newPGStore(db, def)}
}

// Get returns the current usage for a user, initializing defaults if absent.
func (s *Service) Get(ctx context.Context, userID string) (Usage, error) {
	return s.store.Get(ctx, userID)
}

// EnsurePeriod rolls the window forward if the month has turned.
func (s *Service) EnsurePeriod(ctx context.Context, userID string) (Usage, error) {
	return s.store.EnsurePeriod(ctx, userID)
}

// Consume spends n parse units if the budget allows.
func (s *Service) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	return s.store.Consume(ctx, userID, n)
}

// Reset zeroes the counter and restarts the window.
func (s *Service) Reset(ctx context.Context, userID string) (Usage, error) {
	return s.store.Reset(ctx, userID)
}

// ConsumeParse spends one parse unit for an owner. It satisfies
// candidates.ParseQuota: a spent budget surfaces as
// candidates.ErrQuotaExceeded carrying the reset date.
func (s *Service) ConsumeParse(ctx context.Context, ownerID string) error {
	u, err := s.Consume(ctx, ownerID, 1)
	if errors.Is(err, ErrLimitReached) {
		return fmt.Errorf("%w: resets %s", candidates.ErrQuotaExceeded, u.ResetsAt.Format("2006-01-02"))
	}
	return err
}

var _ candidates.ParseQuota = (*Service)(nil)
