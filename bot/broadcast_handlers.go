package bot

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/broadcast"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/menu"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/session"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/logger"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/telegram/keyboard"
	"log/slog"
)

// broadcastPrompt starts the drafting flow for an admin conversation.
func (b *Bot) broadcastPrompt(c tele.Context) error {
	userID := c.Sender().ID
	if !b.isAdmin(userID) {
		return c.Send(textNoAccess)
	}
	b.sessions.Update(userID, func(s *session.Session) {
		s.Previous = s.Current
		s.Current = menu.BroadcastDraft
		s.AwaitingQuestion = false
		s.Draft = nil
	})
	return c.Send(textBroadcastPrompt, keyboard.ReplyButtons([]string{menu.LabelMainMenu}))
}

func (b *Bot) captureDraftText(c tele.Context) error {
	return b.confirmDraft(c, broadcast.Draft{Text: c.Text()})
}

// captureDraftPhoto drafts a photo broadcast; the caption the admin
// attached becomes the message text.
func (b *Bot) captureDraftPhoto(c tele.Context) error {
	photo := c.Message().Photo
	if photo == nil {
		return c.Send(textBroadcastPrompt)
	}
	return b.confirmDraft(c, broadcast.Draft{Text: c.Message().Caption, PhotoID: photo.FileID})
}

// confirmDraft stores the draft and renders the two-button decision. The
// reply keyboard offers the way back to the top-level menu; leaving
// through it drops the draft.
func (b *Bot) confirmDraft(c tele.Context, d broadcast.Draft) error {
	userID := c.Sender().ID
	b.sessions.Update(userID, func(s *session.Session) {
		s.Previous = s.Current
		s.Current = menu.BroadcastConfirm
		s.Draft = &d
	})

	decision := keyboard.InlineButtonsRows([]keyboard.InlineBtn{
		{Text: labelBroadcastSend, Unique: cbBroadcastSend},
		{Text: labelBroadcastCancel, Unique: cbBroadcastCancel},
	})
	if d.PhotoID != "" {
		preview := &tele.Photo{File: tele.File{FileID: d.PhotoID}, Caption: d.Text}
		if err := c.Send(preview); err != nil {
			return err
		}
	} else if err := c.Send(d.Text); err != nil {
		return err
	}
	// The reply keyboard from the drafting prompt still shows the way
	// back to the top-level menu, so only the decision is sent here.
	return c.Send(textBroadcastConfirm, decision)
}

// cbBroadcastSend fans the stored draft out to every registered user and
// reports the tally. The run is not cancellable once started.
func (b *Bot) cbBroadcastSend(c tele.Context) error {
	userID := c.Sender().ID
	if !b.isAdmin(userID) {
		return c.Respond(&tele.CallbackResponse{Text: textNoAccess})
	}

	sess := b.sessions.Get(userID)
	if sess.Draft == nil {
		return c.Respond(&tele.CallbackResponse{Text: textBroadcastNoDraft})
	}
	draft := *sess.Draft
	b.sessions.Update(userID, func(s *session.Session) {
		s.Draft = nil
	})

	recipients, err := b.users.ListIDs(context.Background())
	if err != nil {
		logger.Broadcast.Error("recipient list failed",
			slog.String("event", "broadcast.recipients"),
			slog.String("err", err.Error()),
		)
		return c.Respond(&tele.CallbackResponse{Text: textGenericError})
	}

	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		return err
	}
	report := b.broadcasts.Run(recipients, draft)

	if err := c.Send(fmt.Sprintf(textBroadcastReport, report.Delivered, report.Failed)); err != nil {
		return err
	}
	return b.showMain(c)
}

func (b *Bot) cbBroadcastCancel(c tele.Context) error {
	userID := c.Sender().ID
	if !b.isAdmin(userID) {
		return c.Respond(&tele.CallbackResponse{Text: textNoAccess})
	}
	b.sessions.Update(userID, func(s *session.Session) {
		s.Draft = nil
	})

	if err := c.Respond(&tele.CallbackResponse{}); err != nil {
		return err
	}
	if err := c.Send(textBroadcastCancelled); err != nil {
		return err
	}
	return b.showMain(c)
}
