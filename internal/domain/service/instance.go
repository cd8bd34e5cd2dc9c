package service

import (
	"log/slog"
	"time"

	"github.com/diegoclair/qotd-bot/internal/domain"
	"github.com/diegoclair/qotd-bot/internal/domain/contract"
	"github.com/diegoclair/qotd-bot/internal/metrics"
)

// Options carries the channel routing and schedule settings of the bot
type Options struct {
	QotdChannelID       string
	ModerationChannelID string
	RoleID              string
	PostHour            int
	Location            *time.Location
}

type Instance struct {
	Questions *questionService
	Scheduler *scheduler
}

func NewInstance(store contract.QueueStore, messenger contract.Messenger, opts Options, logger *slog.Logger, m *metrics.Metrics) *Instance {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.PostHour < 0 || opts.PostHour > 23 {
		opts.PostHour = domain.DefaultPostHour
	}

	questions := newQuestionService(store, messenger, opts, logger, m)

	return &Instance{
		Questions: questions,
		Scheduler: newScheduler(questions, opts.PostHour, opts.Location, logger),
	}
}
