package bot

import (
	"context"
	"errors"

	tele "gopkg.in/telebot.v4"

	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/menu"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/tickets"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/logger"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/telegram/callbacks"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/telegram/keyboard"
	"log/slog"
)

func (b *Bot) onStart(c tele.Context) error {
	if c.Sender().IsBot {
		return c.Send(textBotRejected)
	}
	return b.showMain(c)
}

// onText classifies every plain message: global labels first, then the
// label table of the active menu, then free text handed to the ticketing
// and broadcast workflows.
func (b *Bot) onText(c tele.Context) error {
	sender := c.Sender()
	if sender.IsBot {
		return c.Send(textBotRejected)
	}

	text := c.Text()
	sess := b.sessions.Get(sender.ID)

	switch text {
	case menu.LabelBack:
		return b.onBack(c)
	case menu.LabelMainMenu:
		return b.showMain(c)
	case menu.LabelEndDialog:
		return b.endDialog(c)
	case menu.LabelATS:
		return b.showGame(c, menu.GameATS)
	case menu.LabelETS2:
		return b.showGame(c, menu.GameETS2)
	case menu.LabelAdmin:
		return b.showAdmin(c)
	case menu.LabelAsk:
		return b.askQuestion(c)
	}

	if handler, ok := b.menuRoutes(sess.Current)[text]; ok {
		return handler(c)
	}
	return b.onFreeText(c)
}

// menuRoutes returns the label table scoped to the active menu. Leaf
// screens share the table of the list they were opened from, so pressing
// a sibling label on a leaf works without going back first.
func (b *Bot) menuRoutes(m menu.Menu) map[string]tele.HandlerFunc {
	switch m {
	case menu.GameMenu:
		return map[string]tele.HandlerFunc{
			menu.LabelGuides:   b.showGuides,
			menu.LabelMods:     b.showModsMenu,
			menu.LabelPatch:    b.showPatch,
			menu.LabelSocial:   b.showSocial,
			menu.LabelMapPacks: b.showMapPacks,
		}
	case menu.Guides, menu.GuideLeaf:
		return map[string]tele.HandlerFunc{
			menu.LabelGuideNewbie:   b.guideHandler(menu.LabelGuideNewbie),
			menu.LabelGuideConsole:  b.guideHandler(menu.LabelGuideConsole),
			menu.LabelGuideCommands: b.guideHandler(menu.LabelGuideCommands),
			menu.LabelGuideConvoy:   b.guideHandler(menu.LabelGuideConvoy),
		}
	case menu.Mods, menu.ModsTable, menu.Schmilfa:
		return map[string]tele.HandlerFunc{
			menu.LabelModsTable: b.showModsTable,
			menu.LabelSchmilfa:  b.showSchmilfa,
		}
	case menu.MapPacks, menu.MapPackLeaf:
		return map[string]tele.HandlerFunc{
			menu.LabelGoldRus: b.showGoldRus,
		}
	case menu.Admin, menu.AdminStats:
		return map[string]tele.HandlerFunc{
			menu.LabelStats:       b.adminStats,
			menu.LabelOpenTickets: b.adminOpenTickets,
			menu.LabelBroadcast:   b.broadcastPrompt,
			menu.LabelExportUsers: b.adminExportUsers,
		}
	default:
		return nil
	}
}

// onFreeText handles a message that matched no button label: a broadcast
// draft, a new question, or a ticket relay message.
func (b *Bot) onFreeText(c tele.Context) error {
	sender := c.Sender()
	sess := b.sessions.Get(sender.ID)
	ctx := context.Background()

	if b.isAdmin(sender.ID) && sess.Current == menu.BroadcastDraft {
		return b.captureDraftText(c)
	}
	if sess.AwaitingQuestion {
		return b.submitQuestion(c)
	}

	var err error
	if b.isAdmin(sender.ID) && sess.ActiveQuestion != 0 {
		err = b.tickets.RelayFromAdmin(ctx, sender.ID, c.Text())
	} else {
		err = b.tickets.RelayFromUser(ctx, sender.ID, c.Text())
	}
	switch {
	case err == nil:
		return nil
	case errors.Is(err, tickets.ErrNoActiveDialog):
		return c.Send(textNoActiveDialog, keyboard.ReplyButtons(menu.BackRows()...))
	default:
		logger.Tickets.Error("relay failed",
			slog.String("event", "ticket.relay"),
			slog.Int64("user_id", sender.ID),
			slog.String("err", err.Error()),
		)
		return c.Send(textGenericError)
	}
}

func (b *Bot) onPhoto(c tele.Context) error {
	sender := c.Sender()
	if sender.IsBot {
		return c.Send(textBotRejected)
	}
	sess := b.sessions.Get(sender.ID)
	if b.isAdmin(sender.ID) && sess.Current == menu.BroadcastDraft {
		return b.captureDraftPhoto(c)
	}
	return c.Send(textUseButtons, keyboard.ReplyButtons(menu.BackRows()...))
}

// onCallback routes inline button presses by callback unique. A token
// that parses to no known key is answered with a retry hint and leaves
// all state untouched.
func (b *Bot) onCallback(c tele.Context) error {
	key := callbacks.Key(c)
	switch key {
	case cbTicketClaim:
		return b.cbTicketClaim(c)
	case cbTicketClose:
		return b.cbTicketClose(c)
	case cbBroadcastSend:
		return b.cbBroadcastSend(c)
	case cbBroadcastCancel:
		return b.cbBroadcastCancel(c)
	default:
		logger.TG.Warn("unknown callback",
			slog.String("event", "tg.callback"),
			slog.String("key", logger.SanitizeLimit(key, 64)),
			slog.Int64("user_id", c.Sender().ID),
		)
		return c.Respond(&tele.CallbackResponse{Text: textCallbackRetry})
	}
}
