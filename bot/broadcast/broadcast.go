// Package broadcast fans an admin-authored message out to every
// registered user.
package broadcast

import (
	"context"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Leonardo66rus/telegram-bot-schmilfa/core/logger"
	"log/slog"
)

// Draft is a pending broadcast: plain text, or a photo whose caption is
// the message text.
type Draft struct {
	Text    string
	PhotoID string
}

// Sender delivers one message to one recipient.
type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
	SendPhoto(ctx context.Context, chatID int64, photoID, caption string) error
}

// Report is the delivery tally of one broadcast run. Delivered plus
// Failed always equals the number of recipients.
type Report struct {
	Delivered int64
	Failed    int64
}

// Options bound the fan-out.
type Options struct {
	Workers     int
	SendTimeout time.Duration
}

// Service runs broadcast fan-outs with a bounded worker pool.
type Service struct {
	sender Sender
	opts   Options
}

// NewService constructs a broadcast service. Zero options fall back to
// safe defaults.
func NewService(sender Sender, opts Options) *Service {
	if opts.Workers <= 0 {
		opts.Workers = 8
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 10 * time.Second
	}
	return &Service{sender: sender, opts: opts}
}

// Run delivers the draft to every recipient. A delivery failure for one
// user never aborts the run; failures are counted and the run continues.
// Once started the run is not cancellable and always completes.
func (s *Service) Run(recipients []int64, d Draft) Report {
	start := time.Now()
	var delivered, failed atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(s.opts.Workers)

	for _, chatID := range recipients {
		chatID := chatID
		g.Go(func() error {
			ctx, cancel := context.WithTimeout(context.Background(), s.opts.SendTimeout)
			defer cancel()

			var err error
			if d.PhotoID != "" {
				err = s.sender.SendPhoto(ctx, chatID, d.PhotoID, d.Text)
			} else {
				err = s.sender.SendText(ctx, chatID, d.Text)
			}
			if err != nil {
				failed.Add(1)
				logger.Broadcast.Warn("delivery failed",
					slog.String("event", "broadcast.delivery"),
					slog.Int64("chat_id", chatID),
					slog.String("err", err.Error()),
				)
				return nil
			}
			delivered.Add(1)
			return nil
		})
	}
	_ = g.Wait()

	report := Report{Delivered: delivered.Load(), Failed: failed.Load()}
	logger.Broadcast.Info("broadcast finished",
		slog.String("event", "broadcast.done"),
		slog.Int("recipients", len(recipients)),
		slog.Int64("delivered", report.Delivered),
		slog.Int64("failed", report.Failed),
		slog.Duration("duration", logger.Took(start)),
	)
	return report
}
