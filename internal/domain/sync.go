package domain

import "time"

// ProgressFunc reports how many source messages have been consulted so far
// for a channel during a fetch. Used for UI feedback only.
type ProgressFunc func(channel string, consulted int)

// ChannelSyncResult holds the outcome of syncing a single channel.
type ChannelSyncResult struct {
	Channel   string
	Fetched   int
	Inserted  int
	Published int
}

// SyncReport accumulates per-channel results for a full roster pass.
type SyncReport struct {
	Results  []ChannelSyncResult
	Duration time.Duration
}

// TotalInserted returns the number of newly stored messages across all
// channels in the pass.
func (r *SyncReport) TotalInserted() int {
	var n int
	for _, res := range r.Results {
		n += res.Inserted
	}
	return n
}
