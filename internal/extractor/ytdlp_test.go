package extractor

import (
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/ytget/videodl/internal/model"
)

func TestRawArgs(t *testing.T) {
	opts := Options{
		HTTPHeaders:       map[string]string{"Origin": "https://o", "Accept": "*/*"},
		Referer:           "https://r",
		UserAgent:         "UA",
		ExtractorArgs:     []string{"udemy:skip_hls=false", "generic:allow_unplayable_formats=true"},
		PostProcessorArgs: "-movflags +faststart",
		SocketTimeout:     30 * time.Second,
		Retries:           3,
		SleepInterval:     time.Second,
		MaxSleepInterval:  3 * time.Second,
	}

	expected := []string{
		"--add-headers", "Accept:*/*",
		"--add-headers", "Origin:https://o",
		"--add-headers", "Referer:https://r",
		"--add-headers", "User-Agent:UA",
		"--extractor-args", "udemy:skip_hls=false",
		"--extractor-args", "generic:allow_unplayable_formats=true",
		"--postprocessor-args", "ffmpeg:-movflags +faststart",
		"--socket-timeout", "30",
		"--retries", "3",
		"--sleep-interval", "1",
		"--max-sleep-interval", "3",
	}
	if got := rawArgs(opts); !slices.Equal(got, expected) {
		t.Errorf("rawArgs() =\n%v\nexpected\n%v", got, expected)
	}
}

func TestRawArgs_Empty(t *testing.T) {
	if got := rawArgs(Options{}); len(got) != 0 {
		t.Errorf("rawArgs(empty) = %v", got)
	}
	got := rawArgs(Options{SleepInterval: 2 * time.Second, MaxSleepInterval: time.Second})
	if strings.Contains(strings.Join(got, " "), "--max-sleep-interval") {
		t.Errorf("max sleep below min should be dropped: %v", got)
	}
}

func TestRedactArgs(t *testing.T) {
	args := []string{"--add-headers", "Cookie:session=secret", "--retries", "3"}
	got := redactArgs(args)
	if got[1] != "Cookie:<redacted>" {
		t.Errorf("redactArgs() = %v", got)
	}
	if args[1] != "Cookie:session=secret" {
		t.Error("redactArgs must not modify its input")
	}
}

func TestPlaylistIndexFromFilename(t *testing.T) {
	tests := []struct {
		name     string
		expected int
	}{
		{"/d/007 - Intro.mp4", 7},
		{"012 - Part 2 - Setup.f137.mp4", 12},
		{"/d/Intro.mp4", 0},
		{"2024 Recap.mp4", 0},
		{"", 0},
	}
	for _, tt := range tests {
		if got := PlaylistIndexFromFilename(tt.name); got != tt.expected {
			t.Errorf("PlaylistIndexFromFilename(%q) = %d, expected %d", tt.name, got, tt.expected)
		}
	}
}

func TestOptionsClone(t *testing.T) {
	o := Options{
		HTTPHeaders:    map[string]string{"A": "1"},
		PostProcessors: []model.PostProcessor{{Kind: model.PPEmbedMetadata}},
		ExtractorArgs:  []string{"x"},
	}
	c := o.Clone()
	c.SetHeader("B", "2")
	c.PostProcessors[0].Kind = model.PPEmbedThumbnail
	c.ExtractorArgs[0] = "y"

	if len(o.HTTPHeaders) != 1 || o.PostProcessors[0].Kind != model.PPEmbedMetadata || o.ExtractorArgs[0] != "x" {
		t.Errorf("Clone shares state with original: %+v", o)
	}

	var empty Options
	empty.SetHeader("K", "V")
	if empty.HTTPHeaders["K"] != "V" {
		t.Error("SetHeader should allocate the map")
	}
}

func TestPhase_Has(t *testing.T) {
	if !PhaseResolve.Has(PhaseItems) || PhaseResolve.Has(PhaseDownload) {
		t.Error("PhaseResolve should cover probe, items and formats only")
	}
	if !PhaseAll.Has(PhaseDownload) {
		t.Error("PhaseAll should include download")
	}
}
