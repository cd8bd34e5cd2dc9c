package contract

import (
	"context"

	"github.com/diegoclair/qotd-bot/internal/domain/entity"
)

//go:generate mockgen -source=repo.go -destination=../../../mocks/repo_mock.go -package=mocks

// QueueStore is a set of named, line-oriented stores.
// Lines returned by ReadAll are trimmed and never empty.
type QueueStore interface {
	ReadAll(ctx context.Context, store entity.StoreName) ([]string, error)
	Append(ctx context.Context, store entity.StoreName, line string) error
	ReplaceAll(ctx context.Context, store entity.StoreName, lines []string) error
}
