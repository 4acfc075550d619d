package model

import (
	"strings"
	"time"
)

// DownloadTask is the job record a session keeps for each download
type DownloadTask struct {
	ID            string
	URL           string
	Source        string // "gui", "cli" or the bridge client's source tag
	Title         string
	Status        TaskStatus
	Percent       float64 // aggregate 0 to 100
	ItemPercent   float64 // current item 0 to 100
	Speed         float64 // bytes per second
	ETASec        int     // -1 if unknown
	PlaylistIndex int
	PlaylistCount int
	StatusText    string // human-readable progress line
	LastError     string
	OutputPath    string
	StartedAt     time.Time
	FinishedAt    time.Time
}

// GetETAString returns ETA formatted as mm:ss or hh:mm:ss, or "—" if unknown
func (dt *DownloadTask) GetETAString() string {
	if dt.ETASec <= 0 {
		return "—"
	}
	return formatClock(dt.ETASec)
}

// GetSpeedString returns the speed in KB/s, or "—" if unknown
func (dt *DownloadTask) GetSpeedString() string {
	if dt.Speed <= 0 {
		return "—"
	}
	return FormatBytes(int64(dt.Speed)) + "/s"
}

// GetDisplayTitle returns title, filename, or URL in order of preference
func (dt *DownloadTask) GetDisplayTitle() string {
	if dt.Title != "" && !strings.HasPrefix(dt.Title, "http") {
		return dt.Title
	}

	if dt.OutputPath != "" {
		// support both / and \ separators
		parts := strings.FieldsFunc(dt.OutputPath, func(r rune) bool {
			return r == '/' || r == '\\'
		})
		if len(parts) > 0 {
			filename := parts[len(parts)-1]
			if idx := strings.LastIndex(filename, "."); idx > 0 {
				filename = filename[:idx]
			}
			return filename
		}
	}

	return dt.URL
}

// IsPlaylist reports whether the job tracks more than one item
func (dt *DownloadTask) IsPlaylist() bool {
	return dt.PlaylistCount > 1
}
