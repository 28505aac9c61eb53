package storage

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Users persists every distinct end-user identifier seen by the bot.
type Users struct {
	db *sqlx.DB
}

// NewUsers constructs the user repository.
func NewUsers(db *sqlx.DB) *Users {
	return &Users{db: db}
}

// Upsert records the user, ignoring duplicates.
func (r *Users) Upsert(ctx context.Context, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (user_id) VALUES ($1) ON CONFLICT (user_id) DO NOTHING`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("upsert user %d: %w", userID, err)
	}
	return nil
}

// Count returns the number of registered users.
func (r *Users) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return count, nil
}

// ListIDs returns every registered user identifier.
func (r *Users) ListIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	if err := r.db.SelectContext(ctx, &ids, `SELECT user_id FROM users ORDER BY id`); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return ids, nil
}
