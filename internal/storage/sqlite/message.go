package sqlite

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/shalom2552/InstaBriefBot/internal/domain"
)

type MessageStore struct {
	db *sqlx.DB
}

func NewMessageStore(db *sqlx.DB) *MessageStore {
	return &MessageStore{db: db}
}

// InsertBatch attempts to insert each message independently, in input
// order, and returns the subset that was actually stored. A duplicate
// (channel, message_id) is skipped silently; partial success is normal.
func (s *MessageStore) InsertBatch(ctx context.Context, msgs []domain.Message) ([]domain.Message, error) {
	query := `
		INSERT OR IGNORE INTO messages (message_id, channel, date, text)
		VALUES (?, ?, ?, ?)`

	inserted := make([]domain.Message, 0, len(msgs))
	for _, m := range msgs {
		res, err := s.db.ExecContext(ctx, query, m.MessageID, m.Channel, m.Date, m.Text)
		if err != nil {
			return inserted, fmt.Errorf("insert message %s/%d: %w", m.Channel, m.MessageID, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return inserted, fmt.Errorf("insert message %s/%d: %w", m.Channel, m.MessageID, err)
		}
		if affected > 0 {
			inserted = append(inserted, m)
		}
	}

	return inserted, nil
}

// SearchByKeywords matches messages whose text contains all keywords as an
// ordered substring pattern (%k1%k2%...%), newest date first. An empty
// keyword list matches nothing.
func (s *MessageStore) SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]domain.Message, error) {
	if len(keywords) == 0 {
		return nil, nil
	}

	pattern := "%" + strings.Join(keywords, "%") + "%"
	query := `
		SELECT date, text FROM messages
		WHERE text LIKE ?
		ORDER BY date DESC
		LIMIT ?`

	var msgs []domain.Message
	if err := s.db.SelectContext(ctx, &msgs, query, pattern, limit); err != nil {
		return nil, fmt.Errorf("search messages: %w", err)
	}
	return msgs, nil
}

// CountByChannel returns the stored-message count grouped by channel.
func (s *MessageStore) CountByChannel(ctx context.Context) ([]domain.ChannelStat, error) {
	query := `SELECT channel, COUNT(*) AS count FROM messages GROUP BY channel`

	var stats []domain.ChannelStat
	if err := s.db.SelectContext(ctx, &stats, query); err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	return stats, nil
}

// Unsummarized returns every stored message for channel with an id
// strictly greater than the user's digest cursor, ascending by id. A user
// with no cursor for the channel gets the full channel history.
func (s *MessageStore) Unsummarized(ctx context.Context, userID int64, channel string) ([]domain.Message, error) {
	query := `
		SELECT message_id, channel, date, text FROM messages
		WHERE channel = ?
		  AND message_id > COALESCE(
			(SELECT last_message_id FROM user_channel_state
			 WHERE user_id = ? AND channel = ?), 0)
		ORDER BY message_id ASC`

	var msgs []domain.Message
	if err := s.db.SelectContext(ctx, &msgs, query, channel, userID, channel); err != nil {
		return nil, fmt.Errorf("unsummarized messages: %w", err)
	}
	return msgs, nil
}
