package bridge

import (
	"fmt"
	"maps"
	"net/textproto"
	"slices"
	"strings"

	"github.com/ytget/videodl/internal/model"
)

// DefaultSource tags requests that do not name their origin
const DefaultSource = "browser_extension"

// DownloadPayload is the body of POST /download. Referer, UserAgent and
// Cookies are the flat fields older extension builds send instead of
// Headers.
type DownloadPayload struct {
	URL       string            `json:"url" binding:"required"`
	Title     string            `json:"title"`
	Source    string            `json:"source"`
	Headers   map[string]string `json:"headers"`
	Referer   string            `json:"referer"`
	UserAgent string            `json:"user_agent"`
	Cookies   any               `json:"cookies"`
}

// Request converts the payload into a direct download into outputDir
func (p DownloadPayload) Request(outputDir string) model.DownloadRequest {
	return model.DownloadRequest{
		URL:       strings.TrimSpace(p.URL),
		OutputDir: outputDir,
		Title:     p.Title,
		Headers:   p.MergedHeaders(),
		Direct:    true,
		PreferMP4: true,
	}
}

// SourceName returns the request origin tag
func (p DownloadPayload) SourceName() string {
	if p.Source == "" {
		return DefaultSource
	}
	return p.Source
}

// MergedHeaders folds the legacy flat fields into the header map. Values in
// Headers win over the flat fields.
func (p DownloadPayload) MergedHeaders() map[string]string {
	headers := maps.Clone(p.Headers)
	if headers == nil {
		headers = make(map[string]string)
	}
	setMissing(headers, "Referer", p.Referer)
	setMissing(headers, "User-Agent", p.UserAgent)
	setMissing(headers, "Cookie", NormalizeCookies(p.Cookies))
	if len(headers) == 0 {
		return nil
	}
	return headers
}

// NormalizeCookies renders the cookies field as a Cookie header value. A
// string is used as is, an object becomes "k=v; k=v" (sorted by name) and
// a list is joined with "; ".
func NormalizeCookies(v any) string {
	switch c := v.(type) {
	case nil:
		return ""
	case string:
		return c
	case map[string]any:
		pairs := make([]string, 0, len(c))
		for _, k := range slices.Sorted(maps.Keys(c)) {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, c[k]))
		}
		return strings.Join(pairs, "; ")
	case []any:
		parts := make([]string, 0, len(c))
		for _, e := range c {
			parts = append(parts, fmt.Sprint(e))
		}
		return strings.Join(parts, "; ")
	default:
		return fmt.Sprint(c)
	}
}

func setMissing(headers map[string]string, name, value string) {
	if value == "" {
		return
	}
	canonical := textproto.CanonicalMIMEHeaderKey(name)
	for k := range headers {
		if textproto.CanonicalMIMEHeaderKey(k) == canonical {
			return
		}
	}
	headers[name] = value
}
