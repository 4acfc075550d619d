package ui

import (
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"fyne.io/fyne/v2/test"

	"github.com/ytget/videodl/internal/model"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"https", "https://www.youtube.com/watch?v=abc", nil},
		{"http with spaces", "  http://example.com/v  ", nil},
		{"empty", "   ", errEmptyURL},
		{"ftp", "ftp://example.com/file", errInvalidURL},
		{"no scheme", "example.com/watch", errInvalidURL},
		{"no host", "https://", errInvalidURL},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateURL(tt.input)
			if tt.want == nil && err != nil {
				t.Errorf("validateURL(%q) = %v, want nil", tt.input, err)
			}
			if tt.want != nil && !errors.Is(err, tt.want) {
				t.Errorf("validateURL(%q) = %v, want %v", tt.input, err, tt.want)
			}
		})
	}
}

func TestBuildRequest(t *testing.T) {
	dir := t.TempDir()
	base := FormState{
		URL:       "https://www.youtube.com/watch?v=abc",
		OutputDir: dir,
		PreferMP4: true,
	}

	t.Run("format id from label", func(t *testing.T) {
		f := base
		f.FormatLabel = model.StreamDescriptor{ID: "137", Container: "mp4", Resolution: "1920x1080"}.Label()
		req, err := buildRequest(f)
		if err != nil {
			t.Fatalf("buildRequest() error = %v", err)
		}
		if req.FormatID != "137" {
			t.Errorf("FormatID = %q, want 137", req.FormatID)
		}
		if !req.EnsureAudio || !req.PreferMP4 {
			t.Errorf("EnsureAudio/PreferMP4 = %v/%v, want true/true", req.EnsureAudio, req.PreferMP4)
		}
	})

	t.Run("audio only ignores selection", func(t *testing.T) {
		f := base
		f.AudioOnly = true
		f.FormatLabel = "18 | mp4 | 640x360"
		req, err := buildRequest(f)
		if err != nil {
			t.Fatalf("buildRequest() error = %v", err)
		}
		if req.FormatID != "" || !req.AudioOnly {
			t.Errorf("got FormatID %q AudioOnly %v", req.FormatID, req.AudioOnly)
		}
	})

	t.Run("items parsed", func(t *testing.T) {
		f := base
		f.Playlist = true
		f.Items = "1, 3-4"
		req, err := buildRequest(f)
		if err != nil {
			t.Fatalf("buildRequest() error = %v", err)
		}
		if !slices.Equal(req.Items, []int{1, 3, 4}) {
			t.Errorf("Items = %v, want [1 3 4]", req.Items)
		}
	})

	t.Run("bad items", func(t *testing.T) {
		f := base
		f.Items = "2-x"
		_, err := buildRequest(f)
		if model.KindOf(err) != model.KindConfiguration {
			t.Errorf("KindOf(err) = %v, want configuration", model.KindOf(err))
		}
	})

	t.Run("missing destination", func(t *testing.T) {
		f := base
		f.OutputDir = ""
		if _, err := buildRequest(f); !errors.Is(err, errEmptyDestination) {
			t.Errorf("err = %v, want %v", err, errEmptyDestination)
		}
	})

	t.Run("destination does not exist", func(t *testing.T) {
		f := base
		f.OutputDir = filepath.Join(dir, "missing")
		if _, err := buildRequest(f); !errors.Is(err, errInvalidDestination) {
			t.Errorf("err = %v, want %v", err, errInvalidDestination)
		}
	})
}

func TestFormatLabels(t *testing.T) {
	streams := []model.StreamDescriptor{
		{ID: "18", Container: "mp4", Resolution: "640x360"},
		{ID: "251", Container: "webm", Resolution: "audio only", AudioCodec: "opus"},
	}
	labels := formatLabels(streams)
	if len(labels) != 2 {
		t.Fatalf("len(labels) = %d, want 2", len(labels))
	}
	for i, l := range labels {
		if got := formatIDFromLabel(l); got != streams[i].ID {
			t.Errorf("formatIDFromLabel(%q) = %q, want %q", l, got, streams[i].ID)
		}
	}
}

func TestLocalization(t *testing.T) {
	tests := []struct {
		locale string
		lang   string
		key    string
		want   string
	}{
		{"pt-BR", "pt", KeyDownload, "Baixar"},
		{"pt_PT", "pt", KeyCancel, "Cancelar"},
		{"en-US", "en", KeyDownload, "Download"},
		{"de-DE", "en", KeyReady, "Ready"},
		{"pt", "pt", "no_such_key", "no_such_key"},
	}
	for _, tt := range tests {
		t.Run(tt.locale+"/"+tt.key, func(t *testing.T) {
			l := NewLocalization(tt.locale)
			if l.GetCurrentLanguage() != tt.lang {
				t.Errorf("language = %q, want %q", l.GetCurrentLanguage(), tt.lang)
			}
			if got := l.GetText(tt.key); got != tt.want {
				t.Errorf("GetText(%q) = %q, want %q", tt.key, got, tt.want)
			}
		})
	}
}

func TestLogPanelKeepsTail(t *testing.T) {
	test.NewTempApp(t)

	p := NewLogPanel()
	p.max = 3
	for _, line := range []string{"a", "b", "c", "d", "e"} {
		p.appendLine(line)
	}
	if got := p.Lines(); !slices.Equal(got, []string{"c", "d", "e"}) {
		t.Errorf("Lines() = %v, want [c d e]", got)
	}
}
