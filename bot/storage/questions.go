package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Questions persists question tickets and their relayed messages. It is
// the sole writer of the ticket status column.
type Questions struct {
	db *sqlx.DB
}

// NewQuestions constructs the question repository.
func NewQuestions(db *sqlx.DB) *Questions {
	return &Questions{db: db}
}

// Create inserts a new ticket with status open.
func (r *Questions) Create(ctx context.Context, userID int64, text string) (Question, error) {
	var q Question
	err := r.db.GetContext(ctx, &q,
		`INSERT INTO questions (user_id, question_text, status)
		 VALUES ($1, $2, $3)
		 RETURNING id, user_id, question_text, status, admin_id, created_at`,
		userID, text, StatusOpen,
	)
	if err != nil {
		return Question{}, fmt.Errorf("create question: %w", err)
	}
	return q, nil
}

// Get returns a ticket by id.
func (r *Questions) Get(ctx context.Context, id int64) (Question, error) {
	var q Question
	err := r.db.GetContext(ctx, &q,
		`SELECT id, user_id, question_text, status, admin_id, created_at
		 FROM questions WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrNotFound
	}
	if err != nil {
		return Question{}, fmt.Errorf("get question %d: %w", id, err)
	}
	return q, nil
}

// Claim assigns the ticket to an admin and moves it to in_progress. The
// update is conditional on the ticket not being closed, which keeps the
// status monotonic; concurrent claims by two admins remain last-writer-wins.
func (r *Questions) Claim(ctx context.Context, id, adminID int64) (Question, error) {
	var q Question
	err := r.db.GetContext(ctx, &q,
		`UPDATE questions SET admin_id = $2, status = $3
		 WHERE id = $1 AND status <> $4
		 RETURNING id, user_id, question_text, status, admin_id, created_at`,
		id, adminID, StatusInProgress, StatusClosed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		if _, getErr := r.Get(ctx, id); getErr == nil {
			return Question{}, ErrTicketClosed
		}
		return Question{}, ErrNotFound
	}
	if err != nil {
		return Question{}, fmt.Errorf("claim question %d: %w", id, err)
	}
	return q, nil
}

// Close sets the ticket status to closed. Closing an already closed
// ticket is a no-op that still returns the row.
func (r *Questions) Close(ctx context.Context, id int64) (Question, error) {
	var q Question
	err := r.db.GetContext(ctx, &q,
		`UPDATE questions SET status = $2
		 WHERE id = $1
		 RETURNING id, user_id, question_text, status, admin_id, created_at`,
		id, StatusClosed,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrNotFound
	}
	if err != nil {
		return Question{}, fmt.Errorf("close question %d: %w", id, err)
	}
	return q, nil
}

// LatestByUser returns the user's single most recent ticket, any status.
func (r *Questions) LatestByUser(ctx context.Context, userID int64) (Question, error) {
	var q Question
	err := r.db.GetContext(ctx, &q,
		`SELECT id, user_id, question_text, status, admin_id, created_at
		 FROM questions WHERE user_id = $1
		 ORDER BY id DESC LIMIT 1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return Question{}, ErrNotFound
	}
	if err != nil {
		return Question{}, fmt.Errorf("latest question for user %d: %w", userID, err)
	}
	return q, nil
}

// ListOpen returns every ticket that is not closed, oldest first.
func (r *Questions) ListOpen(ctx context.Context) ([]Question, error) {
	var qs []Question
	err := r.db.SelectContext(ctx, &qs,
		`SELECT id, user_id, question_text, status, admin_id, created_at
		 FROM questions WHERE status <> $1
		 ORDER BY id`, StatusClosed)
	if err != nil {
		return nil, fmt.Errorf("list open questions: %w", err)
	}
	return qs, nil
}

// AppendMessage records one relayed dialog message.
func (r *Questions) AppendMessage(ctx context.Context, questionID, senderID int64, text string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO question_messages (question_id, sender_id, message_text)
		 VALUES ($1, $2, $3)`,
		questionID, senderID, text,
	)
	if err != nil {
		return fmt.Errorf("append message to question %d: %w", questionID, err)
	}
	return nil
}
