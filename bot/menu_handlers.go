package bot

import (
	"context"
	"fmt"

	tele "gopkg.in/telebot.v4"

	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/menu"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/session"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/logger"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/telegram/keyboard"
	"log/slog"
)

// enterMenu records a transition where the previous screen is whatever
// was current. Rendering any menu is a terminal action for the pending
// question prompt and the broadcast draft, so both are dropped here.
func (b *Bot) enterMenu(userID int64, current menu.Menu) {
	b.sessions.Update(userID, func(s *session.Session) {
		s.Previous = s.Current
		s.Current = current
		s.AwaitingQuestion = false
		s.Draft = nil
	})
}

// enterMenuFrom records a transition with an explicitly pinned previous
// screen, for menus whose back target does not depend on the path in.
func (b *Bot) enterMenuFrom(userID int64, current, previous menu.Menu) {
	b.sessions.Update(userID, func(s *session.Session) {
		s.Previous = previous
		s.Current = current
		s.AwaitingQuestion = false
		s.Draft = nil
	})
}

// showMain renders the top-level menu and registers the user. The upsert
// is idempotent; a registry failure is logged but the menu still renders.
func (b *Bot) showMain(c tele.Context) error {
	userID := c.Sender().ID
	if err := b.users.Upsert(context.Background(), userID); err != nil {
		logger.DB.Error("user upsert failed",
			slog.String("event", "users.upsert"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
	}

	b.enterMenuFrom(userID, menu.Main, menu.Start)
	logger.Menu.Info("main menu",
		slog.String("event", "menu.show"),
		slog.String("menu", menu.Main.String()),
		slog.Int64("user_id", userID),
	)
	return c.Send(textChooseGame, keyboard.ReplyButtons(menu.MainRows(b.isAdmin(userID))...))
}

func (b *Bot) showGame(c tele.Context, g menu.Game) error {
	userID := c.Sender().ID
	b.sessions.Update(userID, func(s *session.Session) {
		s.Game = g
	})
	b.enterMenuFrom(userID, menu.GameMenu, menu.Main)
	return c.Send(fmt.Sprintf(textChooseOption, g.Label()), keyboard.ReplyButtons(menu.GameRows(g)...))
}

func (b *Bot) showGuides(c tele.Context) error {
	userID := c.Sender().ID
	b.enterMenu(userID, menu.Guides)
	return c.Send(textChooseGuide, keyboard.ReplyButtons(menu.GuidesRows()...))
}

// guideHandler binds one guide topic label to its content leaf.
func (b *Bot) guideHandler(topic string) tele.HandlerFunc {
	return func(c tele.Context) error {
		return b.showGuideLeaf(c, topic)
	}
}

func (b *Bot) showGuideLeaf(c tele.Context, topic string) error {
	userID := c.Sender().ID
	text, ok := b.content.Load(menu.GuideFile(topic))
	if !ok {
		text = fmt.Sprintf(textGuideNotFound, topic)
	}
	b.enterMenuFrom(userID, menu.GuideLeaf, menu.Guides)
	return c.Send(text, keyboard.ReplyButtons(menu.BackRows()...))
}

func (b *Bot) showModsMenu(c tele.Context) error {
	userID := c.Sender().ID
	b.enterMenu(userID, menu.Mods)
	return c.Send(textChooseMods, keyboard.ReplyButtons(menu.ModsRows()...))
}

// showModsTable serves the shared mods table with a link button. The
// screen keeps the mods list keyboard visible underneath.
func (b *Bot) showModsTable(c tele.Context) error {
	userID := c.Sender().ID
	text, ok := b.content.Load(menu.ModsTableFile)
	if !ok {
		text = textFileNotFound
	}
	b.enterMenuFrom(userID, menu.ModsTable, menu.Mods)
	return c.Send(text, keyboard.InlineButtons([]keyboard.InlineBtn{
		{Text: labelModsLink, URL: urlModsLink},
	}))
}

func (b *Bot) showSchmilfa(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	text, ok := b.content.Load(menu.SchmilfaFile(sess.Game))
	if !ok {
		text = textFileNotFound
	}
	b.enterMenuFrom(userID, menu.Schmilfa, menu.Mods)
	return c.Send(text, keyboard.ReplyButtons(menu.BackRows()...))
}

func (b *Bot) showPatch(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	text, ok := b.content.Load(menu.PatchFile(sess.Game))
	if !ok {
		text = fmt.Sprintf(textPatchNotFound, sess.Game.Label())
	}
	b.enterMenu(userID, menu.Patch)
	return c.Send(text, keyboard.ReplyButtons(menu.BackRows()...))
}

// showSocial sends the link buttons and, separately, the back keyboard:
// Telegram cannot attach both markups to one message.
func (b *Bot) showSocial(c tele.Context) error {
	userID := c.Sender().ID
	b.enterMenu(userID, menu.Social)

	if err := c.Send(textSocial, keyboard.InlineButtonsRows(
		[]keyboard.InlineBtn{{Text: labelSocialTelegram, URL: urlSocialTelegram}},
		[]keyboard.InlineBtn{{Text: labelSocialYouTube, URL: urlSocialYouTube}},
		[]keyboard.InlineBtn{{Text: labelSocialDzen, URL: urlSocialDzen}},
	)); err != nil {
		return err
	}
	return c.Send(textSocialBack, keyboard.ReplyButtons(menu.BackRows()...))
}

func (b *Bot) showMapPacks(c tele.Context) error {
	userID := c.Sender().ID
	b.enterMenuFrom(userID, menu.MapPacks, menu.GameMenu)
	return c.Send(textChooseMapPack, keyboard.ReplyButtons(menu.MapPacksRows()...))
}

func (b *Bot) showGoldRus(c tele.Context) error {
	userID := c.Sender().ID
	text, ok := b.content.Load(menu.GoldRusFile)
	if !ok {
		text = textFileNotFound
	}
	b.enterMenuFrom(userID, menu.MapPackLeaf, menu.MapPacks)
	return c.Send(text, keyboard.ReplyButtons(menu.BackRows()...))
}

// showAdmin renders the admin submenu. Non-admins get a rejection and
// the normal back navigation instead.
func (b *Bot) showAdmin(c tele.Context) error {
	userID := c.Sender().ID
	if !b.isAdmin(userID) {
		if err := c.Send(textNoAccess); err != nil {
			return err
		}
		return b.onBack(c)
	}
	b.enterMenuFrom(userID, menu.Admin, menu.Main)
	return c.Send(textAdminMenu, keyboard.ReplyButtons(menu.AdminRows()...))
}

// onBack resolves the back target from the session and renders it.
func (b *Bot) onBack(c tele.Context) error {
	userID := c.Sender().ID
	sess := b.sessions.Get(userID)
	target, game := menu.Back(sess.Current, sess.Previous, sess.Game)

	logger.Menu.Debug("back",
		slog.String("event", "menu.back"),
		slog.String("from", sess.Current.String()),
		slog.String("to", target.String()),
		slog.Int64("user_id", userID),
	)
	return b.renderMenu(c, target, game)
}

// renderMenu dispatches to the handler that shows the given list screen.
// Back never lands on a content leaf, so only list menus appear here.
func (b *Bot) renderMenu(c tele.Context, m menu.Menu, g menu.Game) error {
	switch m {
	case menu.GameMenu:
		return b.showGame(c, g)
	case menu.Guides:
		return b.showGuides(c)
	case menu.Mods:
		return b.showModsMenu(c)
	case menu.Social:
		return b.showSocial(c)
	case menu.MapPacks:
		return b.showMapPacks(c)
	case menu.Admin:
		return b.showAdmin(c)
	default:
		return b.showMain(c)
	}
}
