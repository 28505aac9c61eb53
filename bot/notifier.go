package bot

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/storage"
)

// notifier delivers ticketing and broadcast messages through the bot's
// API client. The client is attached in OnStart, before any update is
// handled, so send methods never observe a nil API.
type notifier struct {
	bot *Bot
}

func (n *notifier) send(to int64, what any, opts ...any) error {
	if n.bot.api == nil {
		return fmt.Errorf("notifier: bot not started")
	}
	_, err := n.bot.api.Send(tele.ChatID(to), what, opts...)
	return err
}

func (n *notifier) NotifyNewTicket(adminID int64, q storage.Question, askerName string) error {
	msg := fmt.Sprintf(textAdminNewTicket, q.ID, askerName, q.QuestionText)
	return n.send(adminID, msg, ticketActions(q.ID))
}

func (n *notifier) NotifyClaimed(userID int64) error {
	return n.send(userID, textDialogJoined, dialogKeyboard())
}

func (n *notifier) NotifyClosed(chatID int64) error {
	return n.send(chatID, textDialogClosed)
}

func (n *notifier) RelayToUser(userID int64, text string) error {
	return n.send(userID, text)
}

func (n *notifier) RelayToAdmin(adminID, ticketID int64, text string) error {
	return n.send(adminID, fmt.Sprintf(textAdminRelay, ticketID, text))
}

// SendText delivers one broadcast text message. Telebot sends carry no
// context; the deadline only stops a send from being attempted late.
func (n *notifier) SendText(ctx context.Context, chatID int64, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return n.send(chatID, text)
}

func (n *notifier) SendPhoto(ctx context.Context, chatID int64, photoID, caption string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	photo := &tele.Photo{File: tele.File{FileID: photoID}, Caption: caption}
	return n.send(chatID, photo)
}
