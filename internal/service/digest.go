package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shalom2552/InstaBriefBot/internal/domain"
)

// digestQuestion is the fixed question the digest path summarizes with.
const digestQuestion = "סכם לי את החדשות של ההודעות."

// DigestService summarizes, per user, every stored message the user has
// not yet had summarized, across all tracked channels.
type DigestService struct {
	messages    MessageStore
	channels    ChannelStore
	userCursors UserCursorStore
	summarizer  Summarizer
	logger      *slog.Logger
}

func NewDigestService(
	messages MessageStore,
	channels ChannelStore,
	userCursors UserCursorStore,
	summarizer Summarizer,
	logger *slog.Logger,
) *DigestService {
	return &DigestService{
		messages:    messages,
		channels:    channels,
		userCursors: userCursors,
		summarizer:  summarizer,
		logger:      logger.With("component", "digest"),
	}
}

// DigestResult is the outcome of one digest request. Empty is true when no
// channel had unread messages; Summary is set only otherwise.
type DigestResult struct {
	Summary  string
	Messages int
	Empty    bool
}

// Digest collects every unread message across the roster, summarizes the
// merged list, and only after a successful summarization advances the
// user's per-channel cursors. A summarization failure leaves every cursor
// untouched, so the same unread set is retried on the next request.
func (d *DigestService) Digest(ctx context.Context, userID int64) (*DigestResult, error) {
	channels, err := d.channels.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}

	var all []domain.Message
	latestPerChannel := make(map[string]int64)

	for _, channel := range channels {
		msgs, err := d.messages.Unsummarized(ctx, userID, channel)
		if err != nil {
			return nil, fmt.Errorf("unsummarized %s: %w", channel, err)
		}
		if len(msgs) == 0 {
			continue
		}

		all = append(all, msgs...)

		maxID := msgs[0].MessageID
		for _, m := range msgs[1:] {
			if m.MessageID > maxID {
				maxID = m.MessageID
			}
		}
		latestPerChannel[channel] = maxID
	}

	if len(all) == 0 {
		return &DigestResult{Empty: true}, nil
	}

	summary, err := d.summarizer.Summarize(ctx, digestQuestion, all)
	if err != nil {
		return nil, fmt.Errorf("summarize digest: %w", err)
	}

	for channel, lastID := range latestPerChannel {
		if err := d.userCursors.Set(ctx, userID, channel, lastID); err != nil {
			// The digest was already generated; a cursor write failure
			// means the channel is re-summarized next time, which the
			// at-least-once contract allows.
			d.logger.Error("advance user cursor failed",
				"user_id", userID,
				"channel", channel,
				"error", err,
			)
		}
	}

	d.logger.Info("digest generated",
		"user_id", userID,
		"messages", len(all),
		"channels", len(latestPerChannel),
	)

	return &DigestResult{Summary: summary, Messages: len(all)}, nil
}
