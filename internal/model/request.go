package model

import (
	"errors"
	"strconv"
	"strings"
)

// MaxSelectedItems bounds how many positions an item selector may expand to
const MaxSelectedItems = 5000

var errTooManyItems = errors.New("item selection exceeds 5000 positions")

// DownloadRequest is the caller's intent for a single download invocation.
// It is built fresh per call and never shared between concurrent downloads.
type DownloadRequest struct {
	URL       string
	OutputDir string

	// FormatID selects an explicit stream; empty lets the policy choose
	FormatID string

	AudioOnly   bool
	Playlist    bool
	Thumbnail   bool
	PreferMP4   bool
	EnsureAudio bool

	// Items restricts a playlist download to these 1-based positions
	Items []int

	// Title overrides the extractor-chosen base filename
	Title string

	// Headers captured from a browser session
	Headers map[string]string

	// Direct marks URL as a media resource rather than a catalog page
	Direct bool

	// PlaylistCount is used for aggregate progress when ticks omit it
	PlaylistCount int
}

// ItemSelector joins Items into the extractor's comma-separated form
func (r DownloadRequest) ItemSelector() string {
	if len(r.Items) == 0 {
		return ""
	}
	parts := make([]string, 0, len(r.Items))
	for _, i := range r.Items {
		parts = append(parts, strconv.Itoa(i))
	}
	return strings.Join(parts, ",")
}

// ParseItemSelector parses "1,3,5-7" into 1-based positions.
// Ranges are expanded up to MaxSelectedItems positions in total; invalid
// tokens are reported as an error.
func ParseItemSelector(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var items []int
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		lo, hi, isRange := strings.Cut(tok, "-")
		start, err := parsePosition(lo)
		if err != nil {
			return nil, err
		}
		end := start
		if isRange {
			if end, err = parsePosition(hi); err != nil {
				return nil, err
			}
		}
		if end < start {
			return nil, &Error{Kind: KindConfiguration, Op: "parse items", Err: strconv.ErrRange}
		}
		if end-start >= MaxSelectedItems-len(items) {
			return nil, &Error{Kind: KindConfiguration, Op: "parse items", Err: errTooManyItems}
		}
		for i := start; i <= end; i++ {
			items = append(items, i)
		}
	}
	return items, nil
}

func parsePosition(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, &Error{Kind: KindConfiguration, Op: "parse items", Err: err}
	}
	if n < 1 {
		return 0, &Error{Kind: KindConfiguration, Op: "parse items", Err: strconv.ErrRange}
	}
	return n, nil
}
