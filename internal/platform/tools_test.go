package platform

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestLookupTool_Missing(t *testing.T) {
	if _, err := LookupTool("", "videodl-definitely-not-installed"); err == nil {
		t.Error("expected error for missing tool")
	}
	if ToolAvailable("/nonexistent/bin/ffmpeg", FFmpegCommand) {
		t.Error("override pointing nowhere should not be available")
	}
}

func TestLookupTool_OverridePath(t *testing.T) {
	if runtime.GOOS == OSWindows {
		t.Skip("executable bit semantics differ on windows")
	}
	bin := filepath.Join(t.TempDir(), "fake-ffmpeg")
	if err := os.WriteFile(bin, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
		t.Fatal(err)
	}

	path, err := LookupTool(bin, FFmpegCommand)
	if err != nil {
		t.Fatalf("LookupTool() error = %v", err)
	}
	if path != bin {
		t.Errorf("LookupTool() = %q, expected %q", path, bin)
	}
}
