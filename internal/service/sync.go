package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shalom2552/InstaBriefBot/internal/domain"
)

// SyncService brings the store up to date with each tracked channel's
// source feed. Sync of a given channel is serialized with an in-process
// lock so concurrent requests cannot race the read-cursor/fetch/
// write-cursor sequence.
type SyncService struct {
	source    Source
	messages  MessageStore
	channels  ChannelStore
	syncState SyncStateStore
	publisher Publisher // optional; nil disables publishing
	logger    *slog.Logger
	pageSize  int

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewSyncService(
	source Source,
	messages MessageStore,
	channels ChannelStore,
	syncState SyncStateStore,
	publisher Publisher,
	logger *slog.Logger,
	pageSize int,
) *SyncService {
	return &SyncService{
		source:    source,
		messages:  messages,
		channels:  channels,
		syncState: syncState,
		publisher: publisher,
		logger:    logger.With("component", "sync"),
		pageSize:  pageSize,
		locks:     make(map[string]*sync.Mutex),
	}
}

func (s *SyncService) channelLock(channel string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	lock, ok := s.locks[channel]
	if !ok {
		lock = &sync.Mutex{}
		s.locks[channel] = lock
	}
	return lock
}

// SyncChannel fetches messages newer than the channel's cursor, stores the
// ones not already present, and advances the cursor to the highest message
// id actually inserted. A pass that inserts nothing leaves the cursor
// untouched.
func (s *SyncService) SyncChannel(ctx context.Context, channel string, progress domain.ProgressFunc) (domain.ChannelSyncResult, error) {
	lock := s.channelLock(channel)
	lock.Lock()
	defer lock.Unlock()

	result := domain.ChannelSyncResult{Channel: channel}

	lastID, err := s.syncState.Get(ctx, channel)
	if err != nil {
		return result, fmt.Errorf("read cursor: %w", err)
	}

	fetched, err := s.source.FetchMessages(ctx, channel, lastID, s.pageSize, progress)
	if err != nil {
		return result, fmt.Errorf("fetch messages: %w", err)
	}
	result.Fetched = len(fetched)

	inserted, err := s.messages.InsertBatch(ctx, fetched)
	if err != nil {
		return result, fmt.Errorf("store messages: %w", err)
	}
	result.Inserted = len(inserted)

	if len(inserted) == 0 {
		s.logger.Info("channel up to date", "channel", channel, "cursor", lastID)
		return result, nil
	}

	maxID := inserted[0].MessageID
	for _, m := range inserted[1:] {
		if m.MessageID > maxID {
			maxID = m.MessageID
		}
	}

	if err := s.syncState.Set(ctx, channel, maxID); err != nil {
		return result, fmt.Errorf("advance cursor: %w", err)
	}

	if s.publisher != nil {
		for i := range inserted {
			if err := s.publisher.Publish(ctx, &inserted[i]); err != nil {
				s.logger.Error("publish failed",
					"channel", channel,
					"message_id", inserted[i].MessageID,
					"error", err,
				)
			} else {
				result.Published++
			}
		}
	}

	s.logger.Info("channel synced",
		"channel", channel,
		"fetched", result.Fetched,
		"inserted", result.Inserted,
		"published", result.Published,
		"cursor", maxID,
	)

	return result, nil
}

// SyncAll runs SyncChannel over the full roster in order. The first
// channel failure aborts the pass; channels already completed keep their
// advanced cursors, and the partial report is returned alongside the
// error.
func (s *SyncService) SyncAll(ctx context.Context, progress domain.ProgressFunc) (*domain.SyncReport, error) {
	startTime := time.Now()

	channels, err := s.channels.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}

	report := &domain.SyncReport{}
	for _, channel := range channels {
		result, err := s.SyncChannel(ctx, channel, progress)
		if err != nil {
			report.Duration = time.Since(startTime)
			return report, fmt.Errorf("sync %s: %w", channel, err)
		}
		report.Results = append(report.Results, result)
	}

	report.Duration = time.Since(startTime)

	s.logger.Info("sync pass completed",
		"channels", len(channels),
		"inserted", report.TotalInserted(),
		"duration", report.Duration,
	)

	return report, nil
}
