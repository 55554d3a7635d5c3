package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// SyncStateStore tracks the per-channel fetch cursor: the highest message
// id confirmed persisted for the channel.
type SyncStateStore struct {
	db *sqlx.DB
}

func NewSyncStateStore(db *sqlx.DB) *SyncStateStore {
	return &SyncStateStore{db: db}
}

// Get returns the channel's cursor, or 0 for a channel that has never been
// synced.
func (s *SyncStateStore) Get(ctx context.Context, channel string) (int64, error) {
	var lastID int64
	err := s.db.GetContext(ctx, &lastID,
		`SELECT last_message_id FROM sync_state WHERE channel = ?`, channel)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get sync state %s: %w", channel, err)
	}
	return lastID, nil
}

// Set overwrites the channel's cursor unconditionally; last write wins.
func (s *SyncStateStore) Set(ctx context.Context, channel string, messageID int64) error {
	_, err := s.db.ExecContext(ctx,
		`REPLACE INTO sync_state (channel, last_message_id) VALUES (?, ?)`,
		channel, messageID)
	if err != nil {
		return fmt.Errorf("set sync state %s: %w", channel, err)
	}
	return nil
}
