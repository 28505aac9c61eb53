// Package bot wires the Telegram surface: routing inbound updates to the
// menu state machine, the ticketing workflow and the admin tools.
package bot

import (
	"context"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/broadcast"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/content"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/session"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/tickets"
	coreconfig "github.com/Leonardo66rus/telegram-bot-schmilfa/core/config"
	coretelegram "github.com/Leonardo66rus/telegram-bot-schmilfa/core/telegram"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/telegram/middleware"
)

// UserRegistry is the persistence surface for registered users.
type UserRegistry interface {
	Upsert(ctx context.Context, userID int64) error
	Count(ctx context.Context) (int64, error)
	ListIDs(ctx context.Context) ([]int64, error)
}

// Options carries the collaborators the bot needs.
type Options struct {
	Config    *coreconfig.Config
	Sessions  *session.Store
	Content   *content.Store
	Users     UserRegistry
	Questions tickets.Repo
}

// Bot holds the assembled update handlers. The underlying API client is
// attached in OnStart, once the transport is up.
type Bot struct {
	cfg      *coreconfig.Config
	sessions *session.Store
	content  *content.Store
	users    UserRegistry

	tickets    *tickets.Service
	broadcasts *broadcast.Service

	api *tele.Bot
}

// New assembles the bot from its collaborators.
func New(opts Options) *Bot {
	b := &Bot{
		cfg:      opts.Config,
		sessions: opts.Sessions,
		content:  opts.Content,
		users:    opts.Users,
	}
	n := &notifier{bot: b}
	b.tickets = tickets.NewService(opts.Questions, n, opts.Sessions, opts.Config.Telegram.AdminIDs)
	b.broadcasts = broadcast.NewService(n, broadcast.Options{
		Workers:     opts.Config.Broadcast.Workers,
		SendTimeout: time.Duration(opts.Config.Broadcast.SendTimeoutSeconds) * time.Second,
	})
	return b
}

// OnStart captures the API client once the transport is built.
func (b *Bot) OnStart(ctx context.Context, api *tele.Bot) error {
	b.api = api
	return nil
}

// Middlewares returns the global middleware chain, outermost first.
func (b *Bot) Middlewares() []coretelegram.Middleware {
	exclude := make(map[string]struct{}, len(b.cfg.RateLimit.ExcludeUpdates))
	for _, kind := range b.cfg.RateLimit.ExcludeUpdates {
		exclude[kind] = struct{}{}
	}
	return []coretelegram.Middleware{
		{Name: "recover", Use: middleware.Recover},
		{Name: "logging", Use: middleware.Logging},
		{Name: "ratelimit", Use: middleware.RateLimit(middleware.RateLimitOptions{
			Interval: time.Duration(b.cfg.RateLimit.IntervalMS) * time.Millisecond,
			Exclude:  exclude,
		})},
	}
}

// Routes returns every endpoint the bot handles.
func (b *Bot) Routes() []coretelegram.Route {
	return []coretelegram.Route{
		{Endpoint: "/start", Handler: b.onStart},
		{Endpoint: tele.OnText, Handler: b.onText},
		{Endpoint: tele.OnPhoto, Handler: b.onPhoto},
		{Endpoint: tele.OnCallback, Handler: b.onCallback},
	}
}

func (b *Bot) isAdmin(userID int64) bool {
	return b.cfg.Telegram.IsAdmin(userID)
}
