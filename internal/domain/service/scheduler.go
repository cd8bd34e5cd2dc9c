package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/diegoclair/qotd-bot/internal/domain/contract"
	"github.com/diegoclair/qotd-bot/internal/domain/entity"
)

type fireState int

const (
	// stateArmed means the next matching second will post
	stateArmed fireState = iota
	// stateFired means this matching second already posted
	stateFired
)

func (f fireState) String() string {
	if f == stateFired {
		return "fired"
	}
	return "armed"
}

const tickInterval = time.Second

// scheduler polls the wall clock and posts once when it reads HH:00:00 at the
// configured hour. A tick that misses that exact second skips the day's post.
type scheduler struct {
	poster   contract.QuestionService
	postHour int
	location *time.Location
	interval time.Duration
	logger   *slog.Logger
	now      func() time.Time

	state fireState

	mu       sync.Mutex
	running  bool
	stopChan chan struct{}
	done     chan struct{}
}

func newScheduler(poster contract.QuestionService, postHour int, location *time.Location, logger *slog.Logger) *scheduler {
	return &scheduler{
		poster:   poster,
		postHour: postHour,
		location: location,
		interval: tickInterval,
		logger:   logger,
		now:      time.Now,
		state:    stateArmed,
	}
}

// Start runs the polling loop in the background until Stop is called or ctx ends
func (s *scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true
	s.state = stateArmed
	s.stopChan = make(chan struct{})
	s.done = make(chan struct{})

	s.logger.Info("Scheduler starting...",
		slog.Int("post_hour", s.postHour),
		slog.String("location", s.location.String()),
		slog.Time("next_post_at", NextPostTime(s.now().In(s.location), s.postHour)),
	)
	go s.mainLoop(ctx, s.stopChan, s.done)
}

// Stop ends the polling loop and waits for an in-flight post to finish
func (s *scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	done := s.done
	s.mu.Unlock()

	<-done
	s.logger.Info("Scheduler stopped")
}

func (s *scheduler) mainLoop(ctx context.Context, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick(ctx, s.now())
		case <-stop:
			return
		case <-ctx.Done():
			s.mu.Lock()
			// a Stop and a new Start may already have replaced this run
			if s.running && s.done == done {
				s.running = false
			}
			s.mu.Unlock()
			return
		}
	}
}

// tick applies one clock reading to the armed/fired state and reports whether it posted
func (s *scheduler) tick(ctx context.Context, now time.Time) bool {
	now = now.In(s.location)

	if now.Hour() != s.postHour || now.Minute() != 0 || now.Second() != 0 {
		s.state = stateArmed
		return false
	}

	if s.state == stateFired {
		return false
	}
	s.state = stateFired

	s.logger.Info("Post hour reached, posting question of the day", slog.Time("at", now))
	if _, err := s.poster.PostDaily(ctx, entity.TriggerScheduled); err != nil {
		s.logger.Error("Scheduled post failed", slog.String("error", err.Error()))
	}

	return true
}

// NextPostTime returns the next instant at hour:00:00 strictly after now, in now's location
func NextPostTime(now time.Time, hour int) time.Time {
	today := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if today.After(now) {
		return today
	}
	return today.AddDate(0, 0, 1)
}
