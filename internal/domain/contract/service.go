package contract

import (
	"context"

	"github.com/diegoclair/qotd-bot/internal/domain/entity"
	"github.com/diegoclair/qotd-bot/pkg/models"
)

//go:generate mockgen -source=service.go -destination=../../../mocks/service_mock.go -package=mocks

type QuestionService interface {
	Submit(ctx context.Context, text string) error
	BeginReview(ctx context.Context) (*entity.ReviewItem, error)
	Approve(ctx context.Context) (*entity.ReviewItem, error)
	Reject(ctx context.Context) (*entity.ReviewItem, error)
	PostDaily(ctx context.Context, trigger entity.Trigger) (*entity.Announcement, error)
	Status(ctx context.Context) (*models.QueueStatus, error)
}
