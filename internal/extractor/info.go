package extractor

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/ytget/videodl/internal/model"
)

// Info is the subset of yt-dlp's info document the adapter consumes.
// Entries and Formats keep nil slots for elements that were not objects
// so callers can tell malformed input apart from absent input.
type Info struct {
	Type          string
	ID            string
	Title         string
	URL           string
	WebpageURL    string
	Uploader      string
	UploadDate    string
	Duration      float64
	ViewCount     int64
	PlaylistCount int
	Entries       []*Info
	Formats       []*Format
}

// Format is one element of an info document's "formats" list
type Format struct {
	FormatID       string
	Ext            string
	Resolution     string
	Height         int
	FPS            float64
	VCodec         string
	ACodec         string
	Filesize       int64
	FilesizeApprox int64
	FormatNote     string
	URL            string
}

type rawInfo struct {
	Type          string            `json:"_type"`
	ID            string            `json:"id"`
	Title         string            `json:"title"`
	URL           string            `json:"url"`
	WebpageURL    string            `json:"webpage_url"`
	Uploader      string            `json:"uploader"`
	UploadDate    string            `json:"upload_date"`
	Duration      float64           `json:"duration"`
	ViewCount     float64           `json:"view_count"`
	PlaylistCount float64           `json:"playlist_count"`
	Entries       []json.RawMessage `json:"entries"`
	Formats       []json.RawMessage `json:"formats"`
}

type rawFormat struct {
	FormatID       json.RawMessage `json:"format_id"`
	Ext            string          `json:"ext"`
	Resolution     string          `json:"resolution"`
	Height         float64         `json:"height"`
	FPS            float64         `json:"fps"`
	VCodec         string          `json:"vcodec"`
	ACodec         string          `json:"acodec"`
	Filesize       float64         `json:"filesize"`
	FilesizeApprox float64         `json:"filesize_approx"`
	FormatNote     string          `json:"format_note"`
	URL            string          `json:"url"`
}

// ParseInfo decodes a yt-dlp JSON info document. A "null" document yields
// a nil Info and no error.
func ParseInfo(data []byte) (*Info, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	if data[0] != '{' {
		return nil, fmt.Errorf("unexpected info document: starts with %q", data[0])
	}
	info, err := decodeInfo(data)
	if err != nil {
		return nil, fmt.Errorf("decode info: %w", err)
	}
	return info, nil
}

func decodeInfo(data []byte) (*Info, error) {
	var raw rawInfo
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	info := &Info{
		Type:          raw.Type,
		ID:            raw.ID,
		Title:         raw.Title,
		URL:           raw.URL,
		WebpageURL:    raw.WebpageURL,
		Uploader:      raw.Uploader,
		UploadDate:    raw.UploadDate,
		Duration:      raw.Duration,
		ViewCount:     int64(raw.ViewCount),
		PlaylistCount: int(raw.PlaylistCount),
	}
	for _, e := range raw.Entries {
		info.Entries = append(info.Entries, decodeEntry(e))
	}
	for _, f := range raw.Formats {
		info.Formats = append(info.Formats, decodeFormat(f))
	}
	return info, nil
}

func decodeEntry(data json.RawMessage) *Info {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	info, err := decodeInfo(data)
	if err != nil {
		return nil
	}
	return info
}

func decodeFormat(data json.RawMessage) *Format {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}
	var raw rawFormat
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	return &Format{
		FormatID:       formatID(raw.FormatID),
		Ext:            raw.Ext,
		Resolution:     raw.Resolution,
		Height:         int(raw.Height),
		FPS:            raw.FPS,
		VCodec:         raw.VCodec,
		ACodec:         raw.ACodec,
		Filesize:       int64(raw.Filesize),
		FilesizeApprox: int64(raw.FilesizeApprox),
		FormatNote:     raw.FormatNote,
		URL:            raw.URL,
	}
}

// format_id is normally a string but some extractors emit numbers
func formatID(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	return ""
}

// HasEntries reports whether the document describes a playlist
func (i *Info) HasEntries() bool {
	return len(i.Entries) > 0
}

// ValidEntries returns the entries that decoded as objects
func (i *Info) ValidEntries() []*Info {
	valid := make([]*Info, 0, len(i.Entries))
	for _, e := range i.Entries {
		if e != nil {
			valid = append(valid, e)
		}
	}
	return valid
}

// FirstEntry returns the first entry that decoded as an object, or nil
func (i *Info) FirstEntry() *Info {
	for _, e := range i.Entries {
		if e != nil {
			return e
		}
	}
	return nil
}

// Resolvable reports whether an entry carries enough metadata to be listed
func (i *Info) Resolvable() bool {
	return i.ID != "" || i.URL != "" || i.WebpageURL != ""
}

// CanonicalURL prefers the page URL over the media URL
func (i *Info) CanonicalURL() string {
	if i.WebpageURL != "" {
		return i.WebpageURL
	}
	return i.URL
}

// Stream converts a format into a descriptor. Formats without a
// retrievable URL yield false.
func (f *Format) Stream() (model.StreamDescriptor, bool) {
	if f == nil || f.URL == "" {
		return model.StreamDescriptor{}, false
	}
	resolution := f.Resolution
	if resolution == "" {
		if f.Height > 0 {
			resolution = strconv.Itoa(f.Height) + "p"
		} else {
			resolution = model.ResolutionAudio
		}
	}
	size := f.Filesize
	if size <= 0 {
		size = f.FilesizeApprox
	}
	return model.StreamDescriptor{
		ID:         f.FormatID,
		Container:  f.Ext,
		Resolution: resolution,
		FrameRate:  max(f.FPS, 0),
		VideoCodec: codecOrNone(f.VCodec),
		AudioCodec: codecOrNone(f.ACodec),
		SizeBytes:  max(size, 0),
		Note:       f.FormatNote,
	}, true
}

func codecOrNone(c string) string {
	if c == "" {
		return model.CodecNone
	}
	return c
}

// Item converts an info document into a media item at index
func (i *Info) Item(index int, fallbackTitle, fallbackURL string) model.MediaItem {
	title := i.Title
	if title == "" {
		title = fallbackTitle
	}
	u := i.CanonicalURL()
	if u == "" {
		u = fallbackURL
	}
	return model.MediaItem{
		Index:      index,
		ID:         i.ID,
		Title:      title,
		Duration:   time.Duration(i.Duration * float64(time.Second)),
		Uploader:   i.Uploader,
		ViewCount:  i.ViewCount,
		UploadDate: i.UploadDate,
		URL:        u,
	}
}
