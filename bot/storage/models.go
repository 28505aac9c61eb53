package storage

import (
	"database/sql"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("storage: not found")
	// ErrTicketClosed is returned when an operation requires a ticket
	// that has not been closed yet.
	ErrTicketClosed = errors.New("storage: ticket already closed")
)

// QuestionStatus is the lifecycle state of a question ticket.
type QuestionStatus string

const (
	StatusOpen       QuestionStatus = "open"
	StatusInProgress QuestionStatus = "in_progress"
	StatusClosed     QuestionStatus = "closed"
)

// User is a registered end user of the bot.
type User struct {
	ID     int64 `db:"id"`
	UserID int64 `db:"user_id"`
}

// Question is a user-submitted question tracked through the
// open -> in_progress -> closed lifecycle.
type Question struct {
	ID           int64          `db:"id"`
	UserID       int64          `db:"user_id"`
	QuestionText string         `db:"question_text"`
	Status       QuestionStatus `db:"status"`
	AdminID      sql.NullInt64  `db:"admin_id"`
	CreatedAt    time.Time      `db:"created_at"`
}

// QuestionMessage is one relayed message inside a question dialog.
type QuestionMessage struct {
	ID          int64     `db:"id"`
	QuestionID  int64     `db:"question_id"`
	SenderID    int64     `db:"sender_id"`
	MessageText string    `db:"message_text"`
	SentAt      time.Time `db:"sent_at"`
}
