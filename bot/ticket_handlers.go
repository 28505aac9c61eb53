package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/menu"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/session"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/storage"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/tickets"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/logger"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/telegram/callbacks"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/telegram/keyboard"
	"log/slog"
)

// askQuestion arms the question prompt. The next plain message from this
// user becomes a new ticket.
func (b *Bot) askQuestion(c tele.Context) error {
	userID := c.Sender().ID
	b.sessions.Update(userID, func(s *session.Session) {
		s.Previous = s.Current
		s.Current = menu.Question
		s.AwaitingQuestion = true
		s.Draft = nil
	})
	return c.Send(textAskQuestion, keyboard.ReplyButtons(menu.BackRows()...))
}

func (b *Bot) submitQuestion(c tele.Context) error {
	sender := c.Sender()
	_, err := b.tickets.Submit(context.Background(), sender.ID, senderName(sender), c.Text())
	switch {
	case errors.Is(err, tickets.ErrNotAwaiting):
		return b.onFreeText(c)
	case err != nil:
		logger.Tickets.Error("submit failed",
			slog.String("event", "ticket.create"),
			slog.Int64("user_id", sender.ID),
			slog.String("err", err.Error()),
		)
		return c.Send(textGenericError)
	}

	if err := c.Send(textQuestionAccepted); err != nil {
		return err
	}
	return b.showMain(c)
}

// endDialog closes the sender's active dialog; admins close the ticket
// they claimed, users close their own latest in_progress ticket.
func (b *Bot) endDialog(c tele.Context) error {
	sender := c.Sender()
	ctx := context.Background()

	var err error
	if b.isAdmin(sender.ID) && b.sessions.Get(sender.ID).ActiveQuestion != 0 {
		err = b.tickets.EndDialogAdmin(ctx, sender.ID)
	} else {
		err = b.tickets.EndDialogUser(ctx, sender.ID)
	}
	switch {
	case errors.Is(err, tickets.ErrNoActiveDialog), errors.Is(err, storage.ErrNotFound):
		return c.Send(textNoActiveDialog, keyboard.ReplyButtons(menu.BackRows()...))
	case err != nil:
		logger.Tickets.Error("end dialog failed",
			slog.String("event", "ticket.close"),
			slog.Int64("user_id", sender.ID),
			slog.String("err", err.Error()),
		)
		return c.Send(textGenericError)
	}

	if err := c.Send(textDialogClosed); err != nil {
		return err
	}
	return b.showMain(c)
}

func (b *Bot) cbTicketClaim(c tele.Context) error {
	if !b.isAdmin(c.Sender().ID) {
		return c.Respond(&tele.CallbackResponse{Text: textNoAccess})
	}
	ticketID, err := callbacks.PayloadInt64(c)
	if err != nil {
		logger.Tickets.Warn("malformed claim token",
			slog.String("event", "ticket.claim"),
			slog.String("data", logger.SanitizeLimit(c.Data(), 64)),
		)
		return c.Respond(&tele.CallbackResponse{Text: textCallbackRetry})
	}

	q, err := b.tickets.Claim(context.Background(), ticketID, c.Sender().ID)
	switch {
	case errors.Is(err, storage.ErrTicketClosed), errors.Is(err, storage.ErrNotFound):
		return c.Respond(&tele.CallbackResponse{Text: textTicketGone})
	case err != nil:
		logger.Tickets.Error("claim failed",
			slog.String("event", "ticket.claim"),
			slog.Int64("ticket_id", ticketID),
			slog.String("err", err.Error()),
		)
		return c.Respond(&tele.CallbackResponse{Text: textGenericError})
	}

	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		return err
	}
	return c.Send(fmt.Sprintf(textTicketClaimed, q.ID), dialogKeyboard())
}

// dialogKeyboard is the reply keyboard both sides see while a dialog is
// active: end the dialog, or leave for the main menu.
func dialogKeyboard() *tele.ReplyMarkup {
	return keyboard.ReplyButtons(menu.DialogRows()...)
}

// cbTicketClose closes a ticket from its inline button. Ownership is not
// checked here; any admin may close any ticket directly.
func (b *Bot) cbTicketClose(c tele.Context) error {
	if !b.isAdmin(c.Sender().ID) {
		return c.Respond(&tele.CallbackResponse{Text: textNoAccess})
	}
	ticketID, err := callbacks.PayloadInt64(c)
	if err != nil {
		logger.Tickets.Warn("malformed close token",
			slog.String("event", "ticket.close"),
			slog.String("data", logger.SanitizeLimit(c.Data(), 64)),
		)
		return c.Respond(&tele.CallbackResponse{Text: textCallbackRetry})
	}

	q, err := b.tickets.CloseDirect(context.Background(), ticketID, c.Sender().ID)
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return c.Respond(&tele.CallbackResponse{Text: textTicketGone})
	case err != nil:
		logger.Tickets.Error("close failed",
			slog.String("event", "ticket.close"),
			slog.Int64("ticket_id", ticketID),
			slog.String("err", err.Error()),
		)
		return c.Respond(&tele.CallbackResponse{Text: textGenericError})
	}

	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		return err
	}
	return c.Send(fmt.Sprintf(textTicketClosed, q.ID))
}

// adminOpenTickets lists every non-closed ticket, one message each, with
// claim and close buttons attached.
func (b *Bot) adminOpenTickets(c tele.Context) error {
	if !b.isAdmin(c.Sender().ID) {
		return c.Send(textNoAccess)
	}

	open, err := b.tickets.ListOpen(context.Background())
	if err != nil {
		logger.Tickets.Error("list open failed",
			slog.String("event", "ticket.list"),
			slog.String("err", err.Error()),
		)
		return c.Send(textGenericError)
	}
	if len(open) == 0 {
		return c.Send(textNoOpenTickets)
	}

	for _, q := range open {
		msg := fmt.Sprintf(textOpenTicket, q.ID, q.UserID, q.Status, q.QuestionText)
		markup := ticketActions(q.ID)
		if err := c.Send(msg, markup); err != nil {
			return err
		}
	}
	return nil
}

// ticketActions builds the claim/close inline row for a ticket.
func ticketActions(ticketID int64) *tele.ReplyMarkup {
	payload := strconv.FormatInt(ticketID, 10)
	return keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: labelTicketClaim, Unique: cbTicketClaim, Data: payload},
		{Text: labelTicketClose, Unique: cbTicketClose, Data: payload},
	})
}

// senderName renders the asker handle shown to admins: @username when
// set, otherwise the visible name, otherwise the bare ID.
func senderName(u *tele.User) string {
	if u.Username != "" {
		return "@" + u.Username
	}
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name != "" {
		return name
	}
	return strconv.FormatInt(u.ID, 10)
}
