package mux

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"testing"

	"github.com/ytget/videodl/internal/model"
)

func TestBuildArgs(t *testing.T) {
	args := BuildArgs("https://cdn.example/master.m3u8", map[string]string{
		"User-Agent": "UA",
		"Referer":    "https://site.example/",
	}, "/out/clip.mp4")

	expected := []string{
		"-y", "-hide_banner", "-loglevel", "info",
		"-headers", "Referer: https://site.example/\r\nUser-Agent: UA\r\n",
		"-i", "https://cdn.example/master.m3u8",
		"-c", "copy",
		"/out/clip.mp4",
	}
	if !slices.Equal(args, expected) {
		t.Errorf("BuildArgs() = %q\nexpected %q", args, expected)
	}
}

func TestBuildArgs_NoHeaders(t *testing.T) {
	args := BuildArgs("u", nil, "o.mp4")
	if slices.Contains(args, "-headers") {
		t.Errorf("unexpected -headers in %q", args)
	}
}

func TestOutputPath(t *testing.T) {
	if got := OutputPath("/tmp/Lesson 1"); got != "/tmp/Lesson 1.mp4" {
		t.Errorf("OutputPath() = %q", got)
	}
}

func TestScanLogLines(t *testing.T) {
	input := "Duration: 00:00:10.00\rframe=1 time=00:00:01.00\rframe=2 time=00:00:02.00\nlast"
	scanner := bufio.NewScanner(strings.NewReader(input))
	scanner.Split(ScanLogLines)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	expected := []string{"Duration: 00:00:10.00", "frame=1 time=00:00:01.00", "frame=2 time=00:00:02.00", "last"}
	if !slices.Equal(lines, expected) {
		t.Errorf("lines = %q, expected %q", lines, expected)
	}
}

func TestParser(t *testing.T) {
	var p Parser

	if _, ok := p.Feed("size=1kB time=00:00:01.00"); ok {
		t.Error("progress reported before duration was known")
	}
	p.Feed("  Duration: 00:01:40.00, start: 0.000000, bitrate: N/A")
	if p.Duration() != 100 {
		t.Fatalf("Duration() = %v, expected 100", p.Duration())
	}

	tests := []struct {
		line    string
		percent int
		ok      bool
	}{
		{"time=00:00:10.00 bitrate=1kbits/s", 10, true},
		{"time=00:00:10.50", 0, false},
		{"time=00:00:25.00", 25, true},
		{"time=00:00:20.00", 0, false},
		{"Duration: 00:00:01.00", 0, false},
		{"time=00:01:39.99", 99, true},
		{"time=00:02:00.00", 100, true},
		{"time=00:03:00.00", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			percent, ok := p.Feed(tt.line)
			if ok != tt.ok || percent != tt.percent {
				t.Errorf("Feed(%q) = (%d, %v), expected (%d, %v)", tt.line, percent, ok, tt.percent, tt.ok)
			}
		})
	}
}

func TestClockSeconds(t *testing.T) {
	if got := clockSeconds([]string{"01", "02", "03", "50"}); got != 3723.5 {
		t.Errorf("clockSeconds() = %v, expected 3723.5", got)
	}
}

func fakeFFmpeg(t *testing.T, script string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatalf("failed to write fake ffmpeg: %v", err)
	}
	return path
}

func TestRun_ReportsProgress(t *testing.T) {
	bin := fakeFFmpeg(t, `printf 'Duration: 00:00:04.00, start\n' >&2
printf 'time=00:00:01.00\rtime=00:00:02.00\rtime=00:00:02.00\rtime=00:00:04.00\n' >&2
exit 0
`)
	var events []model.ProgressEvent
	err := NewRunner(bin, nil).Run(context.Background(), "https://cdn.example/a.m3u8", nil, "/out/a.mp4", func(e model.ProgressEvent) {
		events = append(events, e)
	})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	var percents []float64
	for _, e := range events {
		if e.Status != model.ProgressDownloading || e.OutputPath != "/out/a.mp4" {
			t.Errorf("unexpected event %+v", e)
		}
		percents = append(percents, e.Percent)
	}
	if !slices.Equal(percents, []float64{25, 50, 100}) {
		t.Errorf("percents = %v, expected [25 50 100]", percents)
	}
}

func TestRun_NonZeroExit(t *testing.T) {
	bin := fakeFFmpeg(t, `echo 'Server returned 403 Forbidden' >&2
exit 1
`)
	err := NewRunner(bin, nil).Run(context.Background(), "u", nil, "o.mp4", nil)
	if err == nil {
		t.Fatal("expected an error for a failing ffmpeg")
	}
	if !strings.Contains(err.Error(), "403 Forbidden") {
		t.Errorf("error should carry the last stderr line, got %v", err)
	}
}

func TestRun_FailureRemovesPartialOutput(t *testing.T) {
	bin := fakeFFmpeg(t, `for a; do out=$a; done
printf 'partial' > "$out"
exit 1
`)
	out := filepath.Join(t.TempDir(), "a.mp4")
	if err := NewRunner(bin, nil).Run(context.Background(), "u", nil, out, nil); err == nil {
		t.Fatal("expected an error for a failing ffmpeg")
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("partial output should be removed, stat error = %v", err)
	}
}

func TestRun_MissingBinary(t *testing.T) {
	err := NewRunner(filepath.Join(t.TempDir(), "nope"), nil).Run(context.Background(), "u", nil, "o.mp4", nil)
	if err == nil || !strings.Contains(err.Error(), "failed to start ffmpeg") {
		t.Errorf("Run() error = %v", err)
	}
}

func TestRun_ContextCancelled(t *testing.T) {
	bin := fakeFFmpeg(t, "sleep 5\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewRunner(bin, nil).Run(ctx, "u", nil, "o.mp4", nil); err == nil {
		t.Error("expected an error when the context is already cancelled")
	}
}
