package usage

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type pgStore struct {
	db  *sql.DB
	def Defaults
}

func newPGStore(db *sql.DB, def Defaults) *pgStore {
	return &pgStore{db: db, def: def.normalized()}
}

func (s *pgStore) Get(ctx context.Context, userID string) (Usage, error) {
	return s.ensure(ctx, userID)
}

func (s *pgStore) EnsurePeriod(ctx context.Context, userID string) (Usage, error) {
	return s.ensure(ctx, userID)
}

func (s *pgStore) Consume(ctx context.Context, userID string, n int) (Usage, error) {
	if n <= 0 {
		return s.ensure(ctx, userID)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	u, err := s.lockAndEnsure(ctx, tx, userID)
	if err != nil {
		return Usage{}, err
	}
	if u.Used+n > u.Limit {
		if err = tx.Commit(); err != nil {
			return Usage{}, err
		}
		return u, ErrLimitReached
	}
	u.Used += n
	if _, err = tx.ExecContext(ctx, `
UPDATE usage_counters SET used = $1 WHERE user_id = $2`, u.Used, userID); err != nil {
		return Usage{}, err
	}
	if err = tx.Commit(); err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *pgStore) Reset(ctx context.Context, userID string) (Usage, error) {
	resetsAt := nextMonthStart(time.Now().UTC())
	u := Usage{Plan: s.def.Plan, Limit: s.def.Limit, Used: 0, ResetsAt: resetsAt}
	_, err := s.db.ExecContext(ctx, `
INSERT INTO usage_counters (user_id, plan, limit_amount, used, resets_at)
VALUES ($1, $2, $3, 0, $4)
ON CONFLICT (user_id) DO UPDATE SET used = 0, resets_at = EXCLUDED.resets_at`,
		userID, u.Plan, u.Limit, resetsAt)
	if err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *pgStore) ensure(ctx context.Context, userID string) (Usage, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Usage{}, err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()
	u, err := s.lockAndEnsure(ctx, tx, userID)
	if err != nil {
		return Usage{}, err
	}
	if err = tx.Commit(); err != nil {
		return Usage{}, err
	}
	return u, nil
}

func (s *pgStore) lockAndEnsure(ctx context.Context, tx *sql.Tx, userID string) (Usage, error) {
	var u Usage
	row := tx.QueryRowContext(ctx, `
SELECT plan, limit_amount, used, resets_at FROM usage_counters WHERE user_id = $1 FOR UPDATE`, userID)
	err := row.Scan(&u.Plan, &u.Limit, &u.Used, &u.ResetsAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			u = s.def.newUsage(time.Now().UTC())
			if _, err = tx.ExecContext(ctx, `
INSERT INTO usage_counters (user_id, plan, limit_amount, used, resets_at)
VALUES ($1, $2, $3, $4, $5)`,
				userID, u.Plan, u.Limit, u.Used, u.ResetsAt); err != nil {
				return Usage{}, err
			}
			return u, nil
		}
		return Usage{}, err
	}

	now := time.Now().UTC()
	if !now.Before(u.ResetsAt) {
		u.Used = 0
		u.ResetsAt = nextMonthStart(now)
		if _, err = tx.ExecContext(ctx, `
UPDATE usage_counters SET used = $1, resets_at = $2 WHERE user_id = $3`,
			u.Used, u.ResetsAt, userID); err != nil {
			return Usage{}, err
		}
	}
	return u, nil
}
