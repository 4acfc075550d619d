package format

// Package format turns download constraints into a yt-dlp format selection
// expression plus the container and post-processing side effects that go
// with it.
