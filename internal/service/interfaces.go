package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"github.com/shalom2552/InstaBriefBot/internal/domain"
)

type MessageStore interface {
	InsertBatch(ctx context.Context, msgs []domain.Message) ([]domain.Message, error)
	SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]domain.Message, error)
	CountByChannel(ctx context.Context) ([]domain.ChannelStat, error)
	Unsummarized(ctx context.Context, userID int64, channel string) ([]domain.Message, error)
}

type ChannelStore interface {
	List(ctx context.Context) ([]string, error)
	Add(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
}

type SyncStateStore interface {
	Get(ctx context.Context, channel string) (int64, error)
	Set(ctx context.Context, channel string, messageID int64) error
}

type UserCursorStore interface {
	Set(ctx context.Context, userID int64, channel string, messageID int64) error
}

type Source interface {
	FetchMessages(ctx context.Context, channel string, minID int64, limit int, progress domain.ProgressFunc) ([]domain.Message, error)
}

type Summarizer interface {
	ExtractKeywords(ctx context.Context, question string) ([]string, error)
	Summarize(ctx context.Context, question string, msgs []domain.Message) (string, error)
}

type Publisher interface {
	Publish(ctx context.Context, msg *domain.Message) error
	Close() error
}
