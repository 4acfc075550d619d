package platform

import (
	"fmt"
	"os/exec"
)

// External tool names looked up on PATH
const (
	FFmpegCommand = "ffmpeg"
	YTDLPCommand  = "yt-dlp"
)

// LookupTool resolves an executable. A non-empty override (a name or a path)
// wins over the default name.
func LookupTool(override, name string) (string, error) {
	target := name
	if override != "" {
		target = override
	}
	path, err := exec.LookPath(target)
	if err != nil {
		return "", fmt.Errorf("%s not found: %w", target, err)
	}
	return path, nil
}

// ToolAvailable reports whether LookupTool would succeed
func ToolAvailable(override, name string) bool {
	_, err := LookupTool(override, name)
	return err == nil
}
