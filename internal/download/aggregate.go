package download

import (
	"fmt"
	"strings"
	"time"

	"github.com/ytget/videodl/internal/model"
)

// Snapshot is the caller-facing view of progress after one event
type Snapshot struct {
	Percent     float64 // whole download
	ItemPercent float64 // current item
	Index       int
	Count       int
	Speed       float64
	ETA         time.Duration
}

// IsPlaylist reports whether the snapshot spans several items
func (s Snapshot) IsPlaylist() bool {
	return s.Count > 1
}

// AggregatePercent returns ((index-1)+fraction)/count*100. Without a known
// position the fraction alone is the aggregate.
func AggregatePercent(index, count int, fraction float64) float64 {
	if count <= 0 || index <= 0 {
		return fraction * 100
	}
	index = min(index, count)
	return (float64(index-1) + fraction) / float64(count) * 100
}

// Tracker folds progress events of one download into snapshots. The
// aggregate never goes backwards, even when an item restarts for a second
// stream.
type Tracker struct {
	count int
	last  Snapshot
}

// NewTracker creates a tracker; count is the expected number of items, or
// zero when unknown.
func NewTracker(count int) *Tracker {
	return &Tracker{count: count}
}

// Update applies e and returns the resulting snapshot
func (t *Tracker) Update(e model.ProgressEvent) Snapshot {
	s := t.last
	if e.PlaylistCount > 0 {
		t.count = e.PlaylistCount
	}
	s.Count = t.count
	if e.PlaylistIndex > 0 {
		s.Index = e.PlaylistIndex
	}
	s.Speed = e.Speed
	s.ETA = e.ETA

	if fraction, ok := e.ItemFraction(); ok {
		s.ItemPercent = fraction * 100
		s.Percent = max(t.last.Percent, AggregatePercent(s.Index, s.Count, fraction))
	}
	t.last = s
	return s
}

// StatusText renders the snapshot as a status line, e.g.
// "Playlist: 37.5% | Item 2/4 (50.0% of item) | 512 KB/s | ETA 00:42".
func (s Snapshot) StatusText() string {
	var parts []string
	if s.IsPlaylist() {
		parts = append(parts,
			fmt.Sprintf("Playlist: %.1f%%", s.Percent),
			fmt.Sprintf("Item %d/%d (%.1f%% of item)", max(s.Index, 1), s.Count, s.ItemPercent))
	} else {
		parts = append(parts, fmt.Sprintf("%.1f%%", s.Percent))
	}
	if s.Speed > 0 {
		parts = append(parts, FormatSpeed(s.Speed))
	}
	if s.ETA > 0 {
		parts = append(parts, "ETA "+FormatETA(s.ETA))
	}
	return strings.Join(parts, " | ")
}

// FormatSpeed renders bytes per second as KB/s or MB/s
func FormatSpeed(bps float64) string {
	kb := bps / 1024
	if kb >= 1024 {
		return fmt.Sprintf("%.1f MB/s", kb/1024)
	}
	return fmt.Sprintf("%.0f KB/s", kb)
}

// FormatETA renders d as MM:SS, or HH:MM:SS past an hour
func FormatETA(d time.Duration) string {
	sec := int(d.Round(time.Second).Seconds())
	if sec >= 3600 {
		return fmt.Sprintf("%02d:%02d:%02d", sec/3600, sec%3600/60, sec%60)
	}
	return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
}
