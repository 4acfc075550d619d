package config

import (
	"os"
	"path/filepath"

	"fyne.io/fyne/v2"

	"github.com/ytget/videodl/internal/platform"
)

// Settings keys for Fyne preferences
const (
	KeyDownloadDir        = "download_directory"
	KeyPreferMP4          = "prefer_mp4"
	KeyAudioOnly          = "audio_only"
	KeyPlaylistMode       = "playlist_mode"
	KeyThumbnail          = "embed_thumbnail"
	KeyAlwaysOnTop        = "always_on_top"
	KeyBrowserIntegration = "browser_integration"
)

// Default values
const (
	DefaultPreferMP4          = true
	DefaultAudioOnly          = false
	DefaultPlaylistMode       = false
	DefaultThumbnail          = false
	DefaultAlwaysOnTop        = false
	DefaultBrowserIntegration = true
	FallbackDownloadDirName   = "videodl"
)

// Preferences is a snapshot of the persisted user choices
type Preferences struct {
	DownloadDir        string
	PreferMP4          bool
	AudioOnly          bool
	PlaylistMode       bool
	Thumbnail          bool
	AlwaysOnTop        bool
	BrowserIntegration bool
}

// Settings manages persisted preferences
type Settings struct {
	app fyne.App
}

// NewSettings creates a new settings manager
func NewSettings(app fyne.App) *Settings {
	return &Settings{app: app}
}

// GetDownloadDirectory returns the configured download directory
func (s *Settings) GetDownloadDirectory() string {
	dir := s.app.Preferences().String(KeyDownloadDir)
	if dir == "" {
		// Use system default Downloads directory
		defaultDir, err := platform.GetHomeDownloadsDir()
		if err != nil {
			defaultDir = filepath.Join(os.TempDir(), FallbackDownloadDirName)
		}
		s.SetDownloadDirectory(defaultDir)
		return defaultDir
	}
	return dir
}

// SetDownloadDirectory sets the download directory
func (s *Settings) SetDownloadDirectory(dir string) {
	s.app.Preferences().SetString(KeyDownloadDir, dir)
}

// GetPreferMP4 returns whether mp4 streams are preferred
func (s *Settings) GetPreferMP4() bool {
	return s.app.Preferences().BoolWithFallback(KeyPreferMP4, DefaultPreferMP4)
}

// SetPreferMP4 sets whether mp4 streams are preferred
func (s *Settings) SetPreferMP4(v bool) {
	s.app.Preferences().SetBool(KeyPreferMP4, v)
}

// GetAudioOnly returns the audio-only default
func (s *Settings) GetAudioOnly() bool {
	return s.app.Preferences().BoolWithFallback(KeyAudioOnly, DefaultAudioOnly)
}

// SetAudioOnly sets the audio-only default
func (s *Settings) SetAudioOnly(v bool) {
	s.app.Preferences().SetBool(KeyAudioOnly, v)
}

// GetPlaylistMode returns the playlist-mode default
func (s *Settings) GetPlaylistMode() bool {
	return s.app.Preferences().BoolWithFallback(KeyPlaylistMode, DefaultPlaylistMode)
}

// SetPlaylistMode sets the playlist-mode default
func (s *Settings) SetPlaylistMode(v bool) {
	s.app.Preferences().SetBool(KeyPlaylistMode, v)
}

// GetThumbnail returns the thumbnail default
func (s *Settings) GetThumbnail() bool {
	return s.app.Preferences().BoolWithFallback(KeyThumbnail, DefaultThumbnail)
}

// SetThumbnail sets the thumbnail default
func (s *Settings) SetThumbnail(v bool) {
	s.app.Preferences().SetBool(KeyThumbnail, v)
}

// GetAlwaysOnTop returns whether the window should stay above others
func (s *Settings) GetAlwaysOnTop() bool {
	return s.app.Preferences().BoolWithFallback(KeyAlwaysOnTop, DefaultAlwaysOnTop)
}

// SetAlwaysOnTop sets whether the window should stay above others
func (s *Settings) SetAlwaysOnTop(v bool) {
	s.app.Preferences().SetBool(KeyAlwaysOnTop, v)
}

// GetBrowserIntegration returns whether the browser bridge is enabled
func (s *Settings) GetBrowserIntegration() bool {
	return s.app.Preferences().BoolWithFallback(KeyBrowserIntegration, DefaultBrowserIntegration)
}

// SetBrowserIntegration enables or disables the browser bridge
func (s *Settings) SetBrowserIntegration(v bool) {
	s.app.Preferences().SetBool(KeyBrowserIntegration, v)
}

// Load returns all preferences at once
func (s *Settings) Load() Preferences {
	return Preferences{
		DownloadDir:        s.GetDownloadDirectory(),
		PreferMP4:          s.GetPreferMP4(),
		AudioOnly:          s.GetAudioOnly(),
		PlaylistMode:       s.GetPlaylistMode(),
		Thumbnail:          s.GetThumbnail(),
		AlwaysOnTop:        s.GetAlwaysOnTop(),
		BrowserIntegration: s.GetBrowserIntegration(),
	}
}

// Save persists all preferences, e.g. when the window closes
func (s *Settings) Save(p Preferences) {
	if p.DownloadDir != "" {
		s.SetDownloadDirectory(p.DownloadDir)
	}
	s.SetPreferMP4(p.PreferMP4)
	s.SetAudioOnly(p.AudioOnly)
	s.SetPlaylistMode(p.PlaylistMode)
	s.SetThumbnail(p.Thumbnail)
	s.SetAlwaysOnTop(p.AlwaysOnTop)
	s.SetBrowserIntegration(p.BrowserIntegration)
}
