package middleware

import (
	"context"
	"time"

	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/logger"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// Logging logs one receipt line per update and one summary line after handling.
func Logging(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		start := time.Now()
		upd := c.Update()

		attrs := []slog.Attr{
			slog.Int("update_id", upd.ID),
		}
		if chat := c.Chat(); chat != nil {
			attrs = append(attrs, slog.Int64("chat_id", chat.ID))
		}
		if user := c.Sender(); user != nil {
			attrs = append(attrs, slog.Int64("user_id", user.ID))
			if user.Username != "" {
				attrs = append(attrs, slog.String("username", logger.SanitizeLimit(user.Username, 64)))
			}
		}
		switch {
		case upd.Callback != nil:
			attrs = append(attrs, slog.String("kind", "callback"),
				slog.String("payload", logger.SanitizeLimit(upd.Callback.Data, 128)))
		case upd.Message != nil:
			attrs = append(attrs, slog.String("kind", "message"),
				slog.String("payload", logger.SanitizeLimit(c.Text(), 256)))
		}
		logger.TG.LogAttrs(context.Background(), slog.LevelDebug, "update.received", attrs...)

		err := next(c)

		attrs = append(attrs,
			slog.String("status", logger.Status(err)),
			slog.Int64("duration_ms", logger.Took(start).Milliseconds()),
		)
		if err != nil {
			attrs = append(attrs, slog.String("err", logger.SanitizeLimit(err.Error(), 256)))
		}
		logger.TG.LogAttrs(context.Background(), slog.LevelInfo, "update.handled", attrs...)
		return err
	}
}
