package extractor

import (
	"context"
	"fmt"
	neturl "net/url"
	"strings"
	"time"

	ytget "github.com/ytget/ytdlp/v2"

	"github.com/ytget/videodl/internal/model"
)

// YouTube playlist constants
const (
	DefaultPlaylistTimeout  = 60 * time.Second
	PlaylistQueryParam      = "list"
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

var youtubeHosts = []string{"youtube.com", "youtu.be"}

// YouTubePlaylist lists YouTube playlists through the native client, which
// avoids spawning yt-dlp for a flat listing.
type YouTubePlaylist struct {
	timeout time.Duration
}

// NewYouTubePlaylist creates a lister with the default timeout
func NewYouTubePlaylist() *YouTubePlaylist {
	return &YouTubePlaylist{timeout: DefaultPlaylistTimeout}
}

// SetTimeout sets the timeout for a listing
func (y *YouTubePlaylist) SetTimeout(timeout time.Duration) {
	y.timeout = timeout
}

// Supports reports whether url is a YouTube URL with a playlist id
func (y *YouTubePlaylist) Supports(url string) bool {
	return isYouTubeURL(url) && PlaylistID(url) != ""
}

// ListItems fetches every item of the playlist
func (y *YouTubePlaylist) ListItems(ctx context.Context, url string) ([]model.MediaItem, error) {
	playlistID := PlaylistID(url)
	if playlistID == "" {
		return nil, fmt.Errorf("could not extract playlist ID from URL: %s", url)
	}

	ctx, cancel := context.WithTimeout(ctx, y.timeout)
	defer cancel()

	d := ytget.New()
	entries, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to get playlist items: %w", err)
	}

	items := make([]model.MediaItem, 0, len(entries))
	for _, it := range entries {
		if it.VideoID == "" {
			continue
		}
		index := len(items) + 1
		title := it.Title
		if title == "" {
			title = fmt.Sprintf(DefaultItemTitleFormat, index)
		}
		items = append(items, model.MediaItem{
			Index: index,
			ID:    it.VideoID,
			Title: title,
			URL:   fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}
	return items, nil
}

// PlaylistID extracts the first "list" query value from url
func PlaylistID(url string) string {
	u, err := neturl.Parse(url)
	if err != nil {
		return ""
	}
	return u.Query().Get(PlaylistQueryParam)
}

func isYouTubeURL(url string) bool {
	u, err := neturl.Parse(url)
	if err != nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range youtubeHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return true
		}
	}
	return false
}
