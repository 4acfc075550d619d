// Package mux remuxes adaptive (HLS/DASH) streams into a single mp4 with
// ffmpeg and reports progress from its log output.
package mux
