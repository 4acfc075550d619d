package download

import (
	"maps"
	"net/textproto"

	"github.com/ytget/videodl/internal/siterules"
)

// DirectHeaders returns the headers used for a browser-captured media URL.
// A desktop User-Agent is added when none was captured, and defaultReferer
// (when set) fills a missing Referer.
func DirectHeaders(captured map[string]string, defaultReferer string) map[string]string {
	headers := maps.Clone(captured)
	if headers == nil {
		headers = make(map[string]string)
	}
	if !hasHeader(headers, "User-Agent") {
		headers["User-Agent"] = siterules.DefaultUserAgent
	}
	if defaultReferer != "" && !hasHeader(headers, "Referer") {
		headers["Referer"] = defaultReferer
	}
	return headers
}

func hasHeader(headers map[string]string, name string) bool {
	canonical := textproto.CanonicalMIMEHeaderKey(name)
	for k := range headers {
		if textproto.CanonicalMIMEHeaderKey(k) == canonical {
			return true
		}
	}
	return false
}
