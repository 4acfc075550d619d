package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytget/videodl/internal/model"
)

func addHeaderFlag(cmd *cobra.Command, dst *[]string) {
	cmd.Flags().StringArrayVarP(dst, "header", "H", nil, `Request header "Name: value" (repeatable)`)
}

// parseHeaders turns "Name: value" pairs into a header map. A nil map is
// returned when no headers were given, which keeps site rules off.
func parseHeaders(raw []string) (map[string]string, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	headers := make(map[string]string, len(raw))
	for _, h := range raw {
		name, value, ok := strings.Cut(h, ":")
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid header %q: want \"Name: value\"", h)
		}
		headers[name] = strings.TrimSpace(value)
	}
	return headers, nil
}

// getOptions are the flags of the get command
type getOptions struct {
	dir       string
	format    string
	audioOnly bool
	mp4       bool
	playlist  bool
	items     string
	thumbnail bool
	title     string
	headers   []string
	direct    bool
}

// request builds the download request for url
func (o getOptions) request(url string) (model.DownloadRequest, error) {
	items, err := model.ParseItemSelector(o.items)
	if err != nil {
		return model.DownloadRequest{}, fmt.Errorf("--items: %w", err)
	}
	headers, err := parseHeaders(o.headers)
	if err != nil {
		return model.DownloadRequest{}, err
	}
	if o.audioOnly && o.format != "" {
		return model.DownloadRequest{}, fmt.Errorf("--format and --audio-only are mutually exclusive")
	}
	return model.DownloadRequest{
		URL:         strings.TrimSpace(url),
		OutputDir:   o.dir,
		FormatID:    o.format,
		AudioOnly:   o.audioOnly,
		Playlist:    o.playlist || len(items) > 0,
		Thumbnail:   o.thumbnail,
		PreferMP4:   o.mp4,
		EnsureAudio: true,
		Items:       items,
		Title:       o.title,
		Headers:     headers,
		Direct:      o.direct,
	}, nil
}
