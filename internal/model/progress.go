package model

import "time"

// ProgressStatus is the normalized state carried by a progress event
type ProgressStatus string

const (
	ProgressQueued      ProgressStatus = "queued"
	ProgressDownloading ProgressStatus = "downloading"
	ProgressFinished    ProgressStatus = "finished"
	ProgressError       ProgressStatus = "error"
)

// ProgressEvent is emitted by every retrieval strategy in the same shape.
// Zero numeric fields mean "not reported".
type ProgressEvent struct {
	Status          ProgressStatus
	DownloadedBytes int64
	TotalBytes      int64
	Speed           float64 // bytes per second
	ETA             time.Duration
	PlaylistIndex   int
	PlaylistCount   int
	OutputPath      string

	// Percent is set by strategies that measure media position instead of bytes
	Percent float64
}

// ItemFraction returns the completed fraction of the current item and
// whether it could be determined.
func (e ProgressEvent) ItemFraction() (float64, bool) {
	switch {
	case e.Status == ProgressFinished:
		return 1, true
	case e.TotalBytes > 0:
		f := float64(e.DownloadedBytes) / float64(e.TotalBytes)
		if f > 1 {
			f = 1
		}
		return f, true
	case e.Percent > 0:
		return min(e.Percent, 100) / 100, true
	}
	return 0, false
}

// ProgressFunc receives progress events on the background unit's goroutine
type ProgressFunc func(ProgressEvent)
