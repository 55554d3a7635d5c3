package domain

// Message is a single post ingested from a tracked channel. MessageID is
// assigned by the source platform and is unique only within a channel;
// the (channel, message_id) pair is the record identity.
type Message struct {
	ID        int64  `db:"id"`
	MessageID int64  `db:"message_id"`
	Channel   string `db:"channel"`
	Date      string `db:"date"`
	Text      string `db:"text"`
}

// ChannelStat is the stored-message count for one channel.
type ChannelStat struct {
	Channel string `db:"channel"`
	Count   int64  `db:"count"`
}
