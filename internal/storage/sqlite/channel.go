package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// ChannelStore holds the roster of channels the sync engine polls.
type ChannelStore struct {
	db *sqlx.DB
}

func NewChannelStore(db *sqlx.DB) *ChannelStore {
	return &ChannelStore{db: db}
}

func (s *ChannelStore) List(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.SelectContext(ctx, &names, `SELECT name FROM channels ORDER BY name`); err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	return names, nil
}

// Add registers a channel; adding an already-present name is a no-op.
func (s *ChannelStore) Add(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `INSERT OR IGNORE INTO channels (name) VALUES (?)`, name); err != nil {
		return fmt.Errorf("add channel %s: %w", name, err)
	}
	return nil
}

// Remove drops a channel from the roster. Stored messages for the channel
// are kept; removing an absent name is a no-op.
func (s *ChannelStore) Remove(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM channels WHERE name = ?`, name); err != nil {
		return fmt.Errorf("remove channel %s: %w", name, err)
	}
	return nil
}
