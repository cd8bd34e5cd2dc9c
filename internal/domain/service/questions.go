package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/diegoclair/qotd-bot/internal/domain"
	"github.com/diegoclair/qotd-bot/internal/domain/contract"
	"github.com/diegoclair/qotd-bot/internal/domain/entity"
	"github.com/diegoclair/qotd-bot/internal/metrics"
	"github.com/diegoclair/qotd-bot/pkg/models"
)

// questionService owns the queue stores. Every operation holds mu for its whole
// duration, so the scheduler and command handlers never interleave store writes.
type questionService struct {
	mu        sync.Mutex
	store     contract.QueueStore
	messenger contract.Messenger
	opts      Options
	logger    *slog.Logger
	metrics   *metrics.Metrics

	// pick returns an index in [0, n)
	pick func(n int) int
	now  func() time.Time
}

var _ contract.QuestionService = (*questionService)(nil)

// lineBreaks matches any whitespace run that contains a line break.
// Stores are line oriented, so a prompt must stay on one line.
var lineBreaks = regexp.MustCompile(`\s*[\r\n]\s*`)

func newQuestionService(store contract.QueueStore, messenger contract.Messenger, opts Options, logger *slog.Logger, m *metrics.Metrics) *questionService {
	return &questionService{
		store:     store,
		messenger: messenger,
		opts:      opts,
		logger:    logger,
		metrics:   m,
		pick:      rand.IntN,
		now:       time.Now,
	}
}

func (s *questionService) Submit(ctx context.Context, text string) error {
	prompt := lineBreaks.ReplaceAllString(strings.TrimSpace(text), " ")
	if prompt == "" {
		return domain.ErrEmptyPrompt
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.store.Append(ctx, entity.StoreIntake, prompt)
	s.metrics.ObserveSubmission(err)
	if err != nil {
		return fmt.Errorf("failed to store submission: %w", err)
	}

	s.logger.Info("Submission received", slog.String("prompt", prompt))
	return nil
}

// BeginReview returns the oldest suggestion, or nil when the intake log is empty
func (s *questionService) BeginReview(ctx context.Context) (*entity.ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.currentReviewItem(ctx)
}

// Approve moves the oldest suggestion into the pending pool and returns the next one
func (s *questionService) Approve(ctx context.Context) (*entity.ReviewItem, error) {
	return s.decide(ctx, entity.StorePending)
}

// Reject moves the oldest suggestion into the rejected log and returns the next one
func (s *questionService) Reject(ctx context.Context) (*entity.ReviewItem, error) {
	return s.decide(ctx, entity.StoreRejected)
}

func (s *questionService) decide(ctx context.Context, target entity.StoreName) (*entity.ReviewItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.moveOldestSuggestion(ctx, target)
	s.metrics.ObserveReview(target, err)
	if err != nil {
		return nil, err
	}

	if target == entity.StorePending {
		s.refreshPending(ctx)
	}

	return s.currentReviewItem(ctx)
}

func (s *questionService) moveOldestSuggestion(ctx context.Context, target entity.StoreName) error {
	lines, err := s.store.ReadAll(ctx, entity.StoreIntake)
	if err != nil {
		return fmt.Errorf("failed to read submissions: %w", err)
	}

	if len(lines) == 0 {
		return domain.ErrNothingToReview
	}

	prompt := lines[0]
	if err := s.store.ReplaceAll(ctx, entity.StoreIntake, lines[1:]); err != nil {
		return fmt.Errorf("failed to remove submission: %w", err)
	}

	if err := s.store.Append(ctx, target, prompt); err != nil {
		// the suggestion is already gone from the intake log
		s.logger.Error("Submission lost between stores",
			slog.String("prompt", prompt),
			slog.String("target", string(target)),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to move submission to %s: %w", target, err)
	}

	s.logger.Info("Submission reviewed", slog.String("prompt", prompt), slog.String("target", string(target)))
	return nil
}

func (s *questionService) currentReviewItem(ctx context.Context) (*entity.ReviewItem, error) {
	lines, err := s.store.ReadAll(ctx, entity.StoreIntake)
	if err != nil {
		return nil, fmt.Errorf("failed to read submissions: %w", err)
	}

	if len(lines) == 0 {
		return nil, nil
	}

	return &entity.ReviewItem{Text: lines[0], Pending: len(lines)}, nil
}

func (s *questionService) refreshPending(ctx context.Context) {
	lines, err := s.store.ReadAll(ctx, entity.StorePending)
	if err != nil {
		s.logger.Warn("Failed to count pending questions", slog.String("error", err.Error()))
		return
	}
	s.metrics.SetPending(len(lines))
}

// Status counts the lines of every store
func (s *questionService) Status(ctx context.Context) (*models.QueueStatus, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[entity.StoreName]int, len(entity.AllStores))
	for _, name := range entity.AllStores {
		lines, err := s.store.ReadAll(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", name, err)
		}
		counts[name] = len(lines)
	}

	s.metrics.SetPending(counts[entity.StorePending])

	now := s.now().In(s.opts.Location)
	return &models.QueueStatus{
		Pending:     counts[entity.StorePending],
		Past:        counts[entity.StorePast],
		Rejected:    counts[entity.StoreRejected],
		Suggestions: counts[entity.StoreIntake],
		PostHour:    s.opts.PostHour,
		NextPostAt:  NextPostTime(now, s.opts.PostHour),
		CheckedAt:   now,
	}, nil
}
