package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tele "gopkg.in/telebot.v4"

	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/menu"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/logger"
	"log/slog"
)

func (b *Bot) adminStats(c tele.Context) error {
	userID := c.Sender().ID
	if !b.isAdmin(userID) {
		return c.Send(textNoAccess)
	}

	count, err := b.users.Count(context.Background())
	if err != nil {
		logger.DB.Error("user count failed",
			slog.String("event", "users.count"),
			slog.String("err", err.Error()),
		)
		return c.Send(textGenericError)
	}

	b.enterMenuFrom(userID, menu.AdminStats, menu.Admin)
	return c.Send(fmt.Sprintf(textUserCount, count))
}

// adminExportUsers sends the registry as a plain-text document, one user
// ID per line.
func (b *Bot) adminExportUsers(c tele.Context) error {
	userID := c.Sender().ID
	if !b.isAdmin(userID) {
		return c.Send(textNoAccess)
	}

	ids, err := b.users.ListIDs(context.Background())
	if err != nil {
		logger.DB.Error("user export failed",
			slog.String("event", "users.export"),
			slog.String("err", err.Error()),
		)
		return c.Send(textGenericError)
	}
	if len(ids) == 0 {
		return c.Send(textExportEmpty)
	}

	var sb strings.Builder
	for _, id := range ids {
		sb.WriteString(strconv.FormatInt(id, 10))
		sb.WriteByte('\n')
	}
	doc := &tele.Document{
		File:     tele.FromReader(strings.NewReader(sb.String())),
		FileName: "users.txt",
		Caption:  textExportCaption,
	}
	return c.Send(doc)
}
