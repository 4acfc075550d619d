package ui

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"strings"

	"github.com/ytget/videodl/internal/model"
)

// Form validation errors, mapped to localized messages by the window
var (
	errEmptyURL           = errors.New("empty url")
	errInvalidURL         = errors.New("url must start with http:// or https://")
	errEmptyDestination   = errors.New("empty destination")
	errInvalidDestination = errors.New("destination is not a directory")
)

// FormState is what the window's inputs currently hold
type FormState struct {
	URL         string
	OutputDir   string
	FormatLabel string
	AudioOnly   bool
	Playlist    bool
	Thumbnail   bool
	PreferMP4   bool
	Items       string
}

// validateURL accepts absolute http(s) URLs
func validateURL(input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return errEmptyURL
	}
	parsedURL, err := url.Parse(input)
	if err != nil {
		return fmt.Errorf("%w: %v", errInvalidURL, err)
	}
	if !slices.Contains(allowedSchemes, parsedURL.Scheme) || parsedURL.Host == "" {
		return errInvalidURL
	}
	return nil
}

// validateDestination requires an existing directory
func validateDestination(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return errEmptyDestination
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return errInvalidDestination
	}
	return nil
}

// buildRequest turns the form into a download request. The stream id is
// the first field of the selected format label; audio-only ignores it.
func buildRequest(f FormState) (model.DownloadRequest, error) {
	if err := validateURL(f.URL); err != nil {
		return model.DownloadRequest{}, err
	}
	if err := validateDestination(f.OutputDir); err != nil {
		return model.DownloadRequest{}, err
	}
	items, err := model.ParseItemSelector(f.Items)
	if err != nil {
		return model.DownloadRequest{}, err
	}

	req := model.DownloadRequest{
		URL:         strings.TrimSpace(f.URL),
		OutputDir:   strings.TrimSpace(f.OutputDir),
		AudioOnly:   f.AudioOnly,
		Playlist:    f.Playlist,
		Thumbnail:   f.Thumbnail,
		PreferMP4:   f.PreferMP4,
		EnsureAudio: true,
		Items:       items,
	}
	if !f.AudioOnly {
		req.FormatID = formatIDFromLabel(f.FormatLabel)
	}
	return req, nil
}

// formatIDFromLabel extracts the stream id from a StreamDescriptor label
func formatIDFromLabel(label string) string {
	id, _, _ := strings.Cut(label, FormatLabelSep)
	return strings.TrimSpace(id)
}

// formatLabels renders the format select options
func formatLabels(streams []model.StreamDescriptor) []string {
	labels := make([]string, 0, len(streams))
	for _, s := range streams {
		labels = append(labels, s.Label())
	}
	return labels
}
