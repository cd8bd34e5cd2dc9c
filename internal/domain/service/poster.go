package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/diegoclair/qotd-bot/internal/domain"
	"github.com/diegoclair/qotd-bot/internal/domain/entity"
	"github.com/google/uuid"
)

// PostDaily draws a pending question and announces it. On failure the moderation
// channel gets a notice and the error is returned for logging only; stores may
// already be partially updated.
func (s *questionService) PostDaily(ctx context.Context, trigger entity.Trigger) (*entity.Announcement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	logger := s.logger.With(
		slog.String("op_id", uuid.NewString()),
		slog.String("trigger", string(trigger)),
	)

	announcement, err := s.postDaily(ctx)
	s.metrics.ObservePost(trigger, err)
	if err != nil {
		logger.Error("Failed to post question of the day", slog.String("error", err.Error()))

		if sendErr := s.send(ctx, s.opts.ModerationChannelID, domain.MsgPostFailed); sendErr != nil {
			logger.Error("Failed to notify moderators", slog.String("error", sendErr.Error()))
		}
		return nil, err
	}

	logger.Info("Question of the day posted",
		slog.Int("number", announcement.Number),
		slog.Int("remaining", announcement.Remaining),
		slog.String("question", announcement.Question),
	)
	return announcement, nil
}

func (s *questionService) postDaily(ctx context.Context) (*entity.Announcement, error) {
	pending, err := s.store.ReadAll(ctx, entity.StorePending)
	if err != nil {
		return nil, fmt.Errorf("failed to read pending pool: %w", err)
	}

	chosen := domain.NoQuestionsPlaceholder
	remaining := pending
	if len(pending) > 0 {
		idx := s.pick(len(pending))
		chosen = pending[idx]
		remaining = slices.Delete(slices.Clone(pending), idx, idx+1)

		if err := s.store.ReplaceAll(ctx, entity.StorePending, remaining); err != nil {
			return nil, fmt.Errorf("failed to remove question from pool: %w", err)
		}
	}
	s.metrics.SetPending(len(remaining))

	// the -1 matches the count moderators have always been shown
	notice := fmt.Sprintf(domain.MsgRemainingFormat, len(remaining)-1)
	if err := s.send(ctx, s.opts.ModerationChannelID, notice); err != nil {
		return nil, err
	}

	past, err := s.store.ReadAll(ctx, entity.StorePast)
	if err != nil {
		return nil, fmt.Errorf("failed to read past questions: %w", err)
	}
	number := len(past) + 1

	question := NormalizeQuestion(chosen)
	text := fmt.Sprintf(domain.MsgAnnouncementFormat, s.messenger.MentionRole(s.opts.RoleID), number, question)
	if err := s.send(ctx, s.opts.QotdChannelID, text); err != nil {
		return nil, err
	}

	if err := s.store.Append(ctx, entity.StorePast, question); err != nil {
		return nil, fmt.Errorf("failed to record posted question: %w", err)
	}

	return &entity.Announcement{
		Number:    number,
		Question:  question,
		Remaining: len(remaining),
	}, nil
}

func (s *questionService) send(ctx context.Context, channelID, text string) error {
	if err := s.messenger.Send(ctx, channelID, text); err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	return nil
}

// NormalizeQuestion trims q and makes sure it ends with a question mark
func NormalizeQuestion(q string) string {
	q = strings.TrimSpace(q)
	if !strings.HasSuffix(q, "?") {
		q += "?"
	}
	return q
}
