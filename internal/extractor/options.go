package extractor

import (
	"maps"
	"slices"
	"time"

	"github.com/ytget/videodl/internal/model"
)

// Phase identifies which extractor call options are being prepared for
type Phase uint8

const (
	PhaseProbe Phase = 1 << iota
	PhaseItems
	PhaseFormats
	PhaseDownload

	PhaseResolve = PhaseProbe | PhaseItems | PhaseFormats
	PhaseAll     = PhaseResolve | PhaseDownload
)

// Has reports whether p includes q
func (p Phase) Has(q Phase) bool {
	return p&q != 0
}

// Tick is one progress report from the extractor's own downloader
type Tick struct {
	Status          model.ProgressStatus
	DownloadedBytes int64
	TotalBytes      int64
	Speed           float64
	ETA             time.Duration
	Filename        string
	PlaylistIndex   int
	PlaylistCount   int
}

// ProgressFunc receives ticks during a download. A non-nil error aborts the
// whole download and is returned from Backend.Download unchanged.
type ProgressFunc func(Tick) error

// Options is the typed configuration handed to a Backend
type Options struct {
	SkipDownload bool
	Quiet        bool
	NoWarnings   bool
	ExtractFlat  bool

	HTTPHeaders             map[string]string
	Referer                 string
	UserAgent               string
	IgnoreCertificateErrors bool
	DisableCookieFile       bool

	OutputTemplate string
	Progress       ProgressFunc

	Format               string
	PostProcessors       []model.PostProcessor
	PostProcessorArgs    string
	MergeOutputContainer string
	WriteThumbnail       bool

	PlaylistItems string
	NoPlaylist    bool

	SocketTimeout    time.Duration
	Retries          int
	SleepInterval    time.Duration
	MaxSleepInterval time.Duration
	ExtractorArgs    []string // "extractor:key=value;key=value"

	IgnoreErrors bool
	NoOverwrites bool
}

// SetHeader sets one HTTP header, allocating the map on first use
func (o *Options) SetHeader(name, value string) {
	if o.HTTPHeaders == nil {
		o.HTTPHeaders = make(map[string]string)
	}
	o.HTTPHeaders[name] = value
}

// Clone returns a copy that shares no mutable state with o
func (o Options) Clone() Options {
	c := o
	c.HTTPHeaders = maps.Clone(o.HTTPHeaders)
	c.PostProcessors = slices.Clone(o.PostProcessors)
	c.ExtractorArgs = slices.Clone(o.ExtractorArgs)
	return c
}

// OptionAdapter rewrites options for a URL before they reach a Backend
type OptionAdapter interface {
	Adapt(url string, headers map[string]string, phase Phase, opts *Options)
}
