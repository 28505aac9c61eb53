// Package tickets implements the question ticket workflow: users submit
// questions, admins claim them, both sides relay messages until either
// party closes the dialog.
package tickets

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/session"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/storage"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/logger"
	"log/slog"
)

var (
	// ErrNotAwaiting means the user has no pending question prompt.
	ErrNotAwaiting = errors.New("tickets: not awaiting a question")
	// ErrNoActiveDialog means no in_progress ticket matches the sender.
	ErrNoActiveDialog = errors.New("tickets: no active dialog")
)

// Repo is the ticket persistence surface the service needs.
type Repo interface {
	Create(ctx context.Context, userID int64, text string) (storage.Question, error)
	Get(ctx context.Context, id int64) (storage.Question, error)
	Claim(ctx context.Context, id, adminID int64) (storage.Question, error)
	Close(ctx context.Context, id int64) (storage.Question, error)
	LatestByUser(ctx context.Context, userID int64) (storage.Question, error)
	ListOpen(ctx context.Context) ([]storage.Question, error)
	AppendMessage(ctx context.Context, questionID, senderID int64, text string) error
}

// Notifier delivers ticket workflow messages outside the triggering
// conversation.
type Notifier interface {
	NotifyNewTicket(adminID int64, q storage.Question, askerName string) error
	NotifyClaimed(userID int64) error
	NotifyClosed(chatID int64) error
	RelayToUser(userID int64, text string) error
	RelayToAdmin(adminID, ticketID int64, text string) error
}

// Service orchestrates the ticket lifecycle.
type Service struct {
	repo     Repo
	notifier Notifier
	sessions *session.Store
	adminIDs []int64
}

// NewService constructs the ticketing service.
func NewService(repo Repo, notifier Notifier, sessions *session.Store, adminIDs []int64) *Service {
	return &Service{
		repo:     repo,
		notifier: notifier,
		sessions: sessions,
		adminIDs: adminIDs,
	}
}

// Submit creates a new open ticket from the user's message. It is valid
// only while the session awaits a question. Every admin is notified; a
// notification failure for one admin is logged and never fails the
// submission.
func (s *Service) Submit(ctx context.Context, userID int64, askerName, text string) (storage.Question, error) {
	sess := s.sessions.Get(userID)
	if !sess.AwaitingQuestion {
		return storage.Question{}, ErrNotAwaiting
	}

	q, err := s.repo.Create(ctx, userID, text)
	if err != nil {
		return storage.Question{}, fmt.Errorf("submit question: %w", err)
	}
	s.sessions.Update(userID, func(sess *session.Session) {
		sess.AwaitingQuestion = false
	})

	for _, adminID := range s.adminIDs {
		if err := s.notifier.NotifyNewTicket(adminID, q, askerName); err != nil {
			logger.Tickets.Warn("admin notification failed",
				slog.String("event", "ticket.notify"),
				slog.Int64("ticket_id", q.ID),
				slog.Int64("admin_id", adminID),
				slog.String("err", err.Error()),
			)
		}
	}

	logger.Tickets.Info("ticket created",
		slog.String("event", "ticket.create"),
		slog.Int64("ticket_id", q.ID),
		slog.Int64("user_id", userID),
	)
	return q, nil
}

// Claim assigns the ticket to the acting admin and starts the relay
// dialog. Claiming is allowed while the ticket is open or already
// in_progress; two admins claiming concurrently is last-writer-wins.
func (s *Service) Claim(ctx context.Context, ticketID, adminID int64) (storage.Question, error) {
	q, err := s.repo.Claim(ctx, ticketID, adminID)
	if err != nil {
		return storage.Question{}, err
	}

	s.sessions.Update(adminID, func(sess *session.Session) {
		sess.ActiveQuestion = q.ID
	})
	if err := s.notifier.NotifyClaimed(q.UserID); err != nil {
		logger.Tickets.Warn("claim notification failed",
			slog.String("event", "ticket.claim"),
			slog.Int64("ticket_id", q.ID),
			slog.String("err", err.Error()),
		)
	}

	logger.Tickets.Info("ticket claimed",
		slog.String("event", "ticket.claim"),
		slog.Int64("ticket_id", q.ID),
		slog.Int64("admin_id", adminID),
	)
	return q, nil
}

// RelayFromUser forwards an ordinary user message into their dialog.
// Only the user's single most recent ticket is considered.
func (s *Service) RelayFromUser(ctx context.Context, userID int64, text string) error {
	q, err := s.repo.LatestByUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNoActiveDialog
	}
	if err != nil {
		return fmt.Errorf("relay from user %d: %w", userID, err)
	}
	if q.Status != storage.StatusInProgress || !q.AdminID.Valid {
		return ErrNoActiveDialog
	}

	if err := s.repo.AppendMessage(ctx, q.ID, userID, text); err != nil {
		return err
	}
	return s.notifier.RelayToAdmin(q.AdminID.Int64, q.ID, text)
}

// RelayFromAdmin forwards an admin's plain message to the asker of the
// admin's active ticket.
func (s *Service) RelayFromAdmin(ctx context.Context, adminID int64, text string) error {
	sess := s.sessions.Get(adminID)
	if sess.ActiveQuestion == 0 {
		return ErrNoActiveDialog
	}

	q, err := s.repo.Get(ctx, sess.ActiveQuestion)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNoActiveDialog
	}
	if err != nil {
		return fmt.Errorf("relay from admin %d: %w", adminID, err)
	}
	if q.Status != storage.StatusInProgress {
		return ErrNoActiveDialog
	}

	if err := s.repo.AppendMessage(ctx, q.ID, adminID, text); err != nil {
		return err
	}
	return s.notifier.RelayToUser(q.UserID, text)
}

// CloseDirect closes the ticket unconditionally if it is found. Ownership
// is not checked for this action; only "end dialog" verifies it.
func (s *Service) CloseDirect(ctx context.Context, ticketID, adminID int64) (storage.Question, error) {
	q, err := s.repo.Close(ctx, ticketID)
	if err != nil {
		return storage.Question{}, err
	}

	s.sessions.Update(adminID, func(sess *session.Session) {
		if sess.ActiveQuestion == q.ID {
			sess.ActiveQuestion = 0
		}
	})
	if err := s.notifier.NotifyClosed(q.UserID); err != nil {
		logger.Tickets.Warn("close notification failed",
			slog.String("event", "ticket.close"),
			slog.Int64("ticket_id", q.ID),
			slog.String("err", err.Error()),
		)
	}

	logger.Tickets.Info("ticket closed",
		slog.String("event", "ticket.close"),
		slog.Int64("ticket_id", q.ID),
		slog.Int64("admin_id", adminID),
	)
	return q, nil
}

// EndDialogAdmin closes the admin's active ticket. Unlike CloseDirect it
// first checks the session actually points at a ticket.
func (s *Service) EndDialogAdmin(ctx context.Context, adminID int64) error {
	sess := s.sessions.Get(adminID)
	if sess.ActiveQuestion == 0 {
		return ErrNoActiveDialog
	}
	_, err := s.CloseDirect(ctx, sess.ActiveQuestion, adminID)
	return err
}

// EndDialogUser closes the user's current in_progress ticket and tells
// the assigned admin.
func (s *Service) EndDialogUser(ctx context.Context, userID int64) error {
	q, err := s.repo.LatestByUser(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNoActiveDialog
	}
	if err != nil {
		return fmt.Errorf("end dialog for user %d: %w", userID, err)
	}
	if q.Status != storage.StatusInProgress {
		return ErrNoActiveDialog
	}

	if _, err := s.repo.Close(ctx, q.ID); err != nil {
		return err
	}
	if q.AdminID.Valid {
		s.sessions.Update(q.AdminID.Int64, func(sess *session.Session) {
			if sess.ActiveQuestion == q.ID {
				sess.ActiveQuestion = 0
			}
		})
		if err := s.notifier.NotifyClosed(q.AdminID.Int64); err != nil {
			logger.Tickets.Warn("close notification failed",
				slog.String("event", "ticket.close"),
				slog.Int64("ticket_id", q.ID),
				slog.String("err", err.Error()),
			)
		}
	}

	logger.Tickets.Info("ticket closed by user",
		slog.String("event", "ticket.close"),
		slog.Int64("ticket_id", q.ID),
		slog.Int64("user_id", userID),
	)
	return nil
}

// ListOpen returns every ticket that has not been closed.
func (s *Service) ListOpen(ctx context.Context) ([]storage.Question, error) {
	return s.repo.ListOpen(ctx)
}
