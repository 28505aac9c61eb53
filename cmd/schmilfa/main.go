package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/content"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/session"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/bot/storage"
	coreconfig "github.com/Leonardo66rus/telegram-bot-schmilfa/core/config"
	coredatabase "github.com/Leonardo66rus/telegram-bot-schmilfa/core/database"
	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/logger"
	coretelegram "github.com/Leonardo66rus/telegram-bot-schmilfa/core/telegram"

	"log/slog"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

func run() error {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}
	log.Printf("loading config: %s", cfgPath)

	cfg, err := coreconfig.Load(cfgPath)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg); err != nil {
		return err
	}
	defer func() {
		if err := logger.Shutdown(); err != nil {
			log.Printf("logger shutdown error: %v", err)
		}
	}()

	if err := coredatabase.RunMigrations(cfg.Database); err != nil {
		return err
	}
	db, err := coredatabase.Connect(cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	app := bot.New(bot.Options{
		Config:    cfg,
		Sessions:  session.NewStore(),
		Content:   content.NewStore(cfg.Content.Dir),
		Users:     storage.NewUsers(db),
		Questions: storage.NewQuestions(db),
	})

	startedAt := time.Now()
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return coretelegram.Run(ctx, coretelegram.RunOptions{
		Config:      cfg,
		Middlewares: app.Middlewares(),
		Routes:      app.Routes(),
		OnStart: func(ctx context.Context, api *tele.Bot) error {
			if err := app.OnStart(ctx, api); err != nil {
				return err
			}
			logger.L.With("component", "app").Info("app ready",
				slog.String("event", "ready"),
				slog.Duration("startup_duration", logger.RoundMS(time.Since(startedAt))),
			)
			return nil
		},
		OnStop: func(ctx context.Context, api *tele.Bot) error {
			logger.L.With("component", "app").Info("shutting down...",
				slog.String("event", "shutdown"),
			)
			return nil
		},
	})
}
