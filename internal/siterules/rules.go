package siterules

import (
	"net/textproto"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/videodl/internal/extractor"
)

// Header values shared by the built-in rules
const (
	DefaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	AcceptLanguage       = "pt-BR,pt;q=0.9,en;q=0.8"
	AcceptDocument       = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"
	AcceptEncodingBrowse = "gzip, deflate, br"
	BunnyCDNOrigin       = "https://app.rocketseat.com.br"
)

// Pacing and timeouts
const (
	HeaderSocketTimeout = 30 * time.Second
	UdemySocketTimeout  = 60 * time.Second
	UdemyRetries        = 3
)

// Extractor arguments
const (
	BunnyCDNExtractorArgs      = "generic:allow_unplayable_formats=true"
	UdemyExtractorArgs         = "udemy:skip_subtitles=false;skip_hls=false"
	UdemyDownloadExtractorArgs = "udemy:skip_subtitles=false;skip_hls=false;business=true"
)

// BestFormat is forced for hosts whose format metadata is unreliable
const BestFormat = "best"

var authLikeHeaders = []string{"auth", "token", "bearer"}

// Request describes what is being adapted
type Request struct {
	URL     string
	Headers map[string]string
	Phase   extractor.Phase
}

// Rule is one (matcher, adaptation) pair. Match is not consulted for
// phases the rule does not declare.
type Rule struct {
	Name   string
	Phases extractor.Phase
	Match  func(url string) bool
	Apply  func(req Request, opts *extractor.Options)
}

// Registry evaluates host rules in order; the first match is applied on
// top of the base header rule.
type Registry struct {
	base  Rule
	rules []Rule
	log   *zap.Logger
}

// NewRegistry creates an empty registry around the base header rule
func NewRegistry(log *zap.Logger) *Registry {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry{base: headerRule(), log: log}
}

// Default returns a registry with the built-in host rules
func Default(log *zap.Logger) *Registry {
	r := NewRegistry(log)
	r.Register(BunnyCDN())
	r.Register(Udemy())
	return r
}

// Register appends a rule
func (r *Registry) Register(rule Rule) {
	r.rules = append(r.rules, rule)
}

// Names lists registered host rules in evaluation order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.rules))
	for _, rule := range r.rules {
		names = append(names, rule.Name)
	}
	return names
}

// Adapt implements extractor.OptionAdapter. Nothing is changed unless the
// caller supplied headers.
func (r *Registry) Adapt(url string, headers map[string]string, phase extractor.Phase, opts *extractor.Options) {
	if len(headers) == 0 {
		return
	}

	req := Request{URL: url, Headers: headers, Phase: phase}
	r.log.Debug("applying captured headers",
		zap.Int("count", len(headers)),
		zap.Strings("auth_headers", AuthHeaderNames(headers)))
	r.base.Apply(req, opts)

	for _, rule := range r.rules {
		if !rule.Phases.Has(phase) || !rule.Match(url) {
			continue
		}
		r.log.Debug("site rule matched", zap.String("rule", rule.Name), zap.String("url", url))
		rule.Apply(req, opts)
		return
	}
}

// MatchAny builds a case-insensitive substring matcher
func MatchAny(fragments ...string) func(string) bool {
	return func(url string) bool {
		lower := strings.ToLower(url)
		for _, f := range fragments {
			if strings.Contains(lower, strings.ToLower(f)) {
				return true
			}
		}
		return false
	}
}

// AuthHeaderNames returns the names of headers that look like credentials
func AuthHeaderNames(headers map[string]string) []string {
	var names []string
	for name := range headers {
		lower := strings.ToLower(name)
		for _, marker := range authLikeHeaders {
			if strings.Contains(lower, marker) {
				names = append(names, name)
				break
			}
		}
	}
	return names
}

// headerRule promotes captured headers into extractor options
func headerRule() Rule {
	return Rule{
		Name:   "captured-headers",
		Phases: extractor.PhaseAll,
		Match:  func(string) bool { return true },
		Apply: func(req Request, opts *extractor.Options) {
			for k, v := range req.Headers {
				opts.SetHeader(k, v)
			}
			if v := header(req.Headers, "Referer"); v != "" {
				opts.Referer = v
			}
			if v := header(req.Headers, "User-Agent"); v != "" {
				opts.UserAgent = v
			}
			opts.DisableCookieFile = true
			opts.IgnoreCertificateErrors = true
			if req.Phase == extractor.PhaseDownload {
				opts.SocketTimeout = HeaderSocketTimeout
			}
		},
	}
}

// BunnyCDN handles iframe embeds served from the BunnyCDN media delivery network
func BunnyCDN() Rule {
	return Rule{
		Name:   "bunnycdn",
		Phases: extractor.PhaseProbe | extractor.PhaseDownload,
		Match:  MatchAny("iframe.mediadelivery.net", "bunnycdn"),
		Apply: func(req Request, opts *extractor.Options) {
			opts.ExtractFlat = false
			opts.ExtractorArgs = append(opts.ExtractorArgs, BunnyCDNExtractorArgs)
			if opts.UserAgent == "" {
				opts.UserAgent = DefaultUserAgent
			}
			opts.SetHeader("Accept", "*/*")
			opts.SetHeader("Accept-Language", AcceptLanguage)
			opts.SetHeader("Accept-Encoding", "identity")
			opts.SetHeader("Origin", BunnyCDNOrigin)
			opts.SetHeader("Sec-Fetch-Dest", "video")
			opts.SetHeader("Sec-Fetch-Mode", "cors")
			opts.SetHeader("Sec-Fetch-Site", "cross-site")
			if req.Phase == extractor.PhaseDownload {
				opts.Format = BestFormat
			}
		},
	}
}

// Udemy mimics a browser document request and paces requests to avoid
// rate-limit rejections.
func Udemy() Rule {
	return Rule{
		Name:   "udemy",
		Phases: extractor.PhaseProbe | extractor.PhaseItems | extractor.PhaseDownload,
		Match:  MatchAny("udemy.com"),
		Apply: func(req Request, opts *extractor.Options) {
			opts.ExtractFlat = false
			opts.IgnoreCertificateErrors = true
			opts.SetHeader("Accept", AcceptDocument)
			opts.SetHeader("Accept-Language", AcceptLanguage)
			opts.SetHeader("Accept-Encoding", AcceptEncodingBrowse)
			opts.SetHeader("DNT", "1")
			opts.SetHeader("Connection", "keep-alive")
			opts.SetHeader("Upgrade-Insecure-Requests", "1")

			if req.Phase != extractor.PhaseDownload {
				opts.ExtractorArgs = append(opts.ExtractorArgs, UdemyExtractorArgs)
				opts.SleepInterval = time.Second
				opts.MaxSleepInterval = 5 * time.Second
				return
			}

			opts.SetHeader("Sec-Fetch-Dest", "document")
			opts.SetHeader("Sec-Fetch-Mode", "navigate")
			opts.SetHeader("Sec-Fetch-Site", "none")
			opts.SetHeader("Sec-GPC", "1")
			opts.ExtractorArgs = append(opts.ExtractorArgs, UdemyDownloadExtractorArgs)
			opts.SleepInterval = 2 * time.Second
			opts.MaxSleepInterval = 10 * time.Second
			opts.SocketTimeout = UdemySocketTimeout
			opts.Retries = UdemyRetries
		},
	}
}

// header looks up name case-insensitively
func header(headers map[string]string, name string) string {
	if v, ok := headers[name]; ok {
		return v
	}
	canonical := textproto.CanonicalMIMEHeaderKey(name)
	for k, v := range headers {
		if textproto.CanonicalMIMEHeaderKey(k) == canonical {
			return v
		}
	}
	return ""
}
