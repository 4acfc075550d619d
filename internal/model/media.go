package model

import (
	"fmt"
	"strings"
	"time"
)

// Sentinels used by stream descriptors
const (
	CodecNone       = "none"
	ResolutionAudio = "audio"
)

// StreamDescriptor describes one retrievable media stream of an item.
// Values are produced fresh by every resolution call and never mutated.
type StreamDescriptor struct {
	ID         string
	Container  string
	Resolution string
	FrameRate  float64 // 0 when unknown
	VideoCodec string
	AudioCodec string
	SizeBytes  int64 // exact or estimated, 0 when unknown
	Note       string
}

// HasVideo reports whether the stream carries a video track
func (s StreamDescriptor) HasVideo() bool {
	return s.VideoCodec != "" && s.VideoCodec != CodecNone
}

// HasAudio reports whether the stream carries an audio track
func (s StreamDescriptor) HasAudio() bool {
	return s.AudioCodec != "" && s.AudioCodec != CodecNone
}

// Label renders the descriptor as a single line for selection lists.
func (s StreamDescriptor) Label() string {
	parts := []string{s.ID, s.Container, s.Resolution}
	if s.FrameRate > 0 {
		parts = append(parts, fmt.Sprintf("%gfps", s.FrameRate))
	}
	parts = append(parts, fmt.Sprintf("v:%s a:%s", orNone(s.VideoCodec), orNone(s.AudioCodec)))
	if s.SizeBytes > 0 {
		parts = append(parts, FormatBytes(s.SizeBytes))
	}
	if s.Note != "" {
		parts = append(parts, s.Note)
	}
	return strings.Join(parts, " | ")
}

func orNone(codec string) string {
	if codec == "" {
		return CodecNone
	}
	return codec
}

// MediaItem is one logical video or audio entity within a URL's scope
type MediaItem struct {
	Index      int // 1-based, contiguous within one listing
	ID         string
	Title      string
	Duration   time.Duration // 0 when unknown
	Uploader   string
	ViewCount  int64
	UploadDate string // YYYYMMDD as reported by the extractor
	URL        string
}

// DurationString returns the duration as mm:ss or hh:mm:ss, or "—" if unknown
func (m MediaItem) DurationString() string {
	if m.Duration <= 0 {
		return "—"
	}
	return formatClock(int(m.Duration.Seconds()))
}

// ResolutionResult summarises what a URL resolved to.
// The zero value means nothing was found.
type ResolutionResult struct {
	IsPlaylist     bool
	Title          string
	TotalCount     int
	FirstItemTitle string
}

// IsEmpty reports whether the resolution found nothing
func (r ResolutionResult) IsEmpty() bool {
	return r.TotalCount == 0
}

// FormatBytes renders a byte count with a binary unit suffix
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%dB", n)
	}
	div, exp := int64(unit), 0
	for v := n / unit; v >= unit; v /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

func formatClock(total int) string {
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}
