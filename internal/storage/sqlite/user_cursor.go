package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// UserCursorStore tracks, per user and per channel, the last message id
// already covered by a delivered digest. Distinct from the fetch cursor:
// this is per-consumer, not per-producer.
type UserCursorStore struct {
	db *sqlx.DB
}

func NewUserCursorStore(db *sqlx.DB) *UserCursorStore {
	return &UserCursorStore{db: db}
}

// Set upserts the (user, channel) cursor, overwriting unconditionally.
func (s *UserCursorStore) Set(ctx context.Context, userID int64, channel string, messageID int64) error {
	query := `
		INSERT INTO user_channel_state (user_id, channel, last_message_id)
		VALUES (?, ?, ?)
		ON CONFLICT (user_id, channel)
		DO UPDATE SET last_message_id = excluded.last_message_id`

	if _, err := s.db.ExecContext(ctx, query, userID, channel, messageID); err != nil {
		return fmt.Errorf("set user cursor %d/%s: %w", userID, channel, err)
	}
	return nil
}
