package config

import (
	"testing"

	"fyne.io/fyne/v2/test"
)

func TestNewSettings(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	if settings.app != app {
		t.Error("Settings app reference should match provided app")
	}
}

func TestDownloadDirectory(t *testing.T) {
	app := test.NewApp()
	settings := NewSettings(app)

	// Test default value
	dir := settings.GetDownloadDirectory()
	if dir == "" {
		t.Error("Download directory should not be empty")
	}

	// Test setting custom value
	customDir := "/custom/downloads"
	settings.SetDownloadDirectory(customDir)

	retrievedDir := settings.GetDownloadDirectory()
	if retrievedDir != customDir {
		t.Errorf("Expected download directory %s, got %s", customDir, retrievedDir)
	}
}

func TestBoolPreferences(t *testing.T) {
	tests := []struct {
		name string
		def  bool
		get  func(*Settings) bool
		set  func(*Settings, bool)
	}{
		{"prefer mp4", DefaultPreferMP4, (*Settings).GetPreferMP4, (*Settings).SetPreferMP4},
		{"audio only", DefaultAudioOnly, (*Settings).GetAudioOnly, (*Settings).SetAudioOnly},
		{"playlist mode", DefaultPlaylistMode, (*Settings).GetPlaylistMode, (*Settings).SetPlaylistMode},
		{"thumbnail", DefaultThumbnail, (*Settings).GetThumbnail, (*Settings).SetThumbnail},
		{"always on top", DefaultAlwaysOnTop, (*Settings).GetAlwaysOnTop, (*Settings).SetAlwaysOnTop},
		{"browser integration", DefaultBrowserIntegration, (*Settings).GetBrowserIntegration, (*Settings).SetBrowserIntegration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := NewSettings(test.NewApp())
			if got := tt.get(settings); got != tt.def {
				t.Errorf("default = %v, expected %v", got, tt.def)
			}
			tt.set(settings, !tt.def)
			if got := tt.get(settings); got != !tt.def {
				t.Errorf("after set = %v, expected %v", got, !tt.def)
			}
		})
	}
}

func TestLoadSave(t *testing.T) {
	settings := NewSettings(test.NewApp())
	prefs := Preferences{
		DownloadDir:        "/videos",
		PreferMP4:          false,
		AudioOnly:          true,
		PlaylistMode:       true,
		Thumbnail:          true,
		AlwaysOnTop:        true,
		BrowserIntegration: false,
	}
	settings.Save(prefs)

	if got := settings.Load(); got != prefs {
		t.Errorf("Load() = %+v, expected %+v", got, prefs)
	}

	// an empty directory does not clear the stored one
	prefs.DownloadDir = ""
	settings.Save(prefs)
	if got := settings.GetDownloadDirectory(); got != "/videos" {
		t.Errorf("download directory = %q", got)
	}
}
