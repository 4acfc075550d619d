package download

import (
	"net/url"
	"path"
	"strings"
)

// Strategy is the retrieval path chosen for a download
type Strategy string

const (
	StrategyDelegated   Strategy = "delegated"
	StrategyAdaptiveMux Strategy = "adaptive-mux"
	StrategyRawStream   Strategy = "raw-stream"
)

var strategyByExt = map[string]Strategy{
	".m3u8": StrategyAdaptiveMux,
	".mpd":  StrategyAdaptiveMux,
	".mp4":  StrategyRawStream,
	".ts":   StrategyRawStream,
}

// Classify picks a strategy from the extension of the URL path. The query
// string is ignored; unparseable URLs are delegated.
func Classify(rawURL string) Strategy {
	ext := MediaExtension(rawURL)
	if s, ok := strategyByExt[ext]; ok {
		return s
	}
	return StrategyDelegated
}

// MediaExtension returns the lowercase extension of the URL path, with the
// leading dot, or "" when there is none.
func MediaExtension(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(path.Ext(u.Path))
}
