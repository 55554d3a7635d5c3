package sqlite

import (
	"context"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"

	"github.com/shalom2552/InstaBriefBot/internal/domain"
)

type StoreTestSuite struct {
	suite.Suite
	ctx context.Context
	db  *sqlx.DB

	messages    *MessageStore
	channels    *ChannelStore
	syncState   *SyncStateStore
	userCursors *UserCursorStore
}

func (s *StoreTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.db = OpenMemory(s.T())

	s.messages = NewMessageStore(s.db)
	s.channels = NewChannelStore(s.db)
	s.syncState = NewSyncStateStore(s.db)
	s.userCursors = NewUserCursorStore(s.db)
}

func TestStoreTestSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) TestMigrateIdempotent() {
	s.NoError(Migrate(s.ctx, s.db))
	s.NoError(Migrate(s.ctx, s.db))
}

func (s *StoreTestSuite) TestInsertBatch_Idempotent() {
	batch := []domain.Message{
		{MessageID: 5, Channel: "@chA", Date: "2024-01-01 10:00:00", Text: "first"},
		{MessageID: 7, Channel: "@chA", Date: "2024-01-01 11:00:00", Text: "second"},
	}

	inserted, err := s.messages.InsertBatch(s.ctx, batch)
	s.NoError(err)
	s.Len(inserted, 2)

	// Second attempt with the same ids stores nothing.
	inserted, err = s.messages.InsertBatch(s.ctx, batch)
	s.NoError(err)
	s.Empty(inserted)

	stats, err := s.messages.CountByChannel(s.ctx)
	s.NoError(err)
	s.Equal([]domain.ChannelStat{{Channel: "@chA", Count: 2}}, stats)
}

func (s *StoreTestSuite) TestInsertBatch_PartialDuplicates() {
	_, err := s.messages.InsertBatch(s.ctx, []domain.Message{
		{MessageID: 5, Channel: "@chA", Date: "2024-01-01", Text: "first"},
	})
	s.Require().NoError(err)

	inserted, err := s.messages.InsertBatch(s.ctx, []domain.Message{
		{MessageID: 5, Channel: "@chA", Date: "2024-01-01", Text: "dup"},
		{MessageID: 9, Channel: "@chA", Date: "2024-01-02", Text: "new"},
		{MessageID: 5, Channel: "@chB", Date: "2024-01-01", Text: "other channel"},
	})
	s.NoError(err)
	s.Len(inserted, 2)
	s.Equal(int64(9), inserted[0].MessageID)
	s.Equal("@chB", inserted[1].Channel)
}

func (s *StoreTestSuite) TestSearchByKeywords_OrderedPattern() {
	_, err := s.messages.InsertBatch(s.ctx, []domain.Message{
		{MessageID: 1, Channel: "@chA", Date: "2024-01-02", Text: "א חדש ב"},
		{MessageID: 2, Channel: "@chA", Date: "2024-01-01", Text: "ב לפני א"},
	})
	s.Require().NoError(err)

	// Substring order matters: only the first message matches %א%ב%.
	results, err := s.messages.SearchByKeywords(s.ctx, []string{"א", "ב"}, 5)
	s.NoError(err)
	s.Require().Len(results, 1)
	s.Equal("א חדש ב", results[0].Text)
	s.Equal("2024-01-02", results[0].Date)
}

func (s *StoreTestSuite) TestSearchByKeywords_LimitAndOrder() {
	batch := make([]domain.Message, 0, 8)
	for i := 1; i <= 8; i++ {
		batch = append(batch, domain.Message{
			MessageID: int64(i),
			Channel:   "@chA",
			Date:      "2024-01-0" + string(rune('0'+i)),
			Text:      "breaking news",
		})
	}
	_, err := s.messages.InsertBatch(s.ctx, batch)
	s.Require().NoError(err)

	results, err := s.messages.SearchByKeywords(s.ctx, []string{"news"}, 5)
	s.NoError(err)
	s.Len(results, 5)
	// Date descending on the serialized string.
	s.Equal("2024-01-08", results[0].Date)
	s.Equal("2024-01-04", results[4].Date)
}

func (s *StoreTestSuite) TestSearchByKeywords_EmptyKeywords() {
	_, err := s.messages.InsertBatch(s.ctx, []domain.Message{
		{MessageID: 1, Channel: "@chA", Date: "2024-01-01", Text: "something"},
	})
	s.Require().NoError(err)

	results, err := s.messages.SearchByKeywords(s.ctx, nil, 20)
	s.NoError(err)
	s.Empty(results)
}

func (s *StoreTestSuite) TestSyncState_ZeroWhenAbsent() {
	lastID, err := s.syncState.Get(s.ctx, "@never")
	s.NoError(err)
	s.Equal(int64(0), lastID)
}

func (s *StoreTestSuite) TestSyncState_ReplaceSemantics() {
	s.NoError(s.syncState.Set(s.ctx, "@chA", 9))
	s.NoError(s.syncState.Set(s.ctx, "@chA", 12))

	lastID, err := s.syncState.Get(s.ctx, "@chA")
	s.NoError(err)
	s.Equal(int64(12), lastID)
}

func (s *StoreTestSuite) TestChannels_RosterIdempotence() {
	s.NoError(s.channels.Add(s.ctx, "@chA"))
	s.NoError(s.channels.Add(s.ctx, "@chA"))

	names, err := s.channels.List(s.ctx)
	s.NoError(err)
	s.Equal([]string{"@chA"}, names)

	// Removing an absent name is a no-op, not an error.
	s.NoError(s.channels.Remove(s.ctx, "@ghost"))
	s.NoError(s.channels.Remove(s.ctx, "@chA"))

	names, err = s.channels.List(s.ctx)
	s.NoError(err)
	s.Empty(names)
}

func (s *StoreTestSuite) TestRemoveChannel_KeepsMessages() {
	s.Require().NoError(s.channels.Add(s.ctx, "@chA"))
	_, err := s.messages.InsertBatch(s.ctx, []domain.Message{
		{MessageID: 1, Channel: "@chA", Date: "2024-01-01", Text: "kept"},
	})
	s.Require().NoError(err)

	s.NoError(s.channels.Remove(s.ctx, "@chA"))

	stats, err := s.messages.CountByChannel(s.ctx)
	s.NoError(err)
	s.Equal([]domain.ChannelStat{{Channel: "@chA", Count: 1}}, stats)
}

func (s *StoreTestSuite) TestUnsummarized_Correctness() {
	_, err := s.messages.InsertBatch(s.ctx, []domain.Message{
		{MessageID: 9, Channel: "@chA", Date: "2024-01-03", Text: "third"},
		{MessageID: 5, Channel: "@chA", Date: "2024-01-01", Text: "first"},
		{MessageID: 7, Channel: "@chA", Date: "2024-01-02", Text: "second"},
		{MessageID: 6, Channel: "@chB", Date: "2024-01-01", Text: "elsewhere"},
	})
	s.Require().NoError(err)

	// No cursor: full channel history, ascending by id.
	msgs, err := s.messages.Unsummarized(s.ctx, 42, "@chA")
	s.NoError(err)
	s.Require().Len(msgs, 3)
	s.Equal(int64(5), msgs[0].MessageID)
	s.Equal(int64(7), msgs[1].MessageID)
	s.Equal(int64(9), msgs[2].MessageID)

	// Cursor excludes everything at or below it, for this user only.
	s.Require().NoError(s.userCursors.Set(s.ctx, 42, "@chA", 7))

	msgs, err = s.messages.Unsummarized(s.ctx, 42, "@chA")
	s.NoError(err)
	s.Require().Len(msgs, 1)
	s.Equal(int64(9), msgs[0].MessageID)

	msgs, err = s.messages.Unsummarized(s.ctx, 43, "@chA")
	s.NoError(err)
	s.Len(msgs, 3)
}

func (s *StoreTestSuite) TestUserCursor_Overwrite() {
	s.Require().NoError(s.userCursors.Set(s.ctx, 42, "@chA", 9))
	// Not a max(): an explicit lower write wins.
	s.Require().NoError(s.userCursors.Set(s.ctx, 42, "@chA", 3))

	_, err := s.messages.InsertBatch(s.ctx, []domain.Message{
		{MessageID: 4, Channel: "@chA", Date: "2024-01-01", Text: "reappears"},
	})
	s.Require().NoError(err)

	msgs, err := s.messages.Unsummarized(s.ctx, 42, "@chA")
	s.NoError(err)
	s.Require().Len(msgs, 1)
	s.Equal(int64(4), msgs[0].MessageID)
}
