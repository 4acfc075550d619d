package extractor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/ytget/videodl/internal/model"
)

// Default titles used when metadata omits one
const (
	DefaultPlaylistTitle   = "Playlist"
	DefaultEntryTitle      = "Untitled"
	DefaultSingleTitle     = "Unknown"
	DefaultItemTitleFormat = "Video %d"
)

// Backend is the extraction capability the Adapter delegates to
type Backend interface {
	// Available returns model.ErrExtractorUnavailable when the capability
	// is missing from the runtime.
	Available() error

	// Extract returns the info document for url, or nil when the remote
	// resource yielded nothing.
	Extract(ctx context.Context, url string, opts Options) (*Info, error)

	// Download retrieves url and returns the output path when known.
	Download(ctx context.Context, url string, opts Options) (string, error)
}

// PlaylistLister lists playlist items without going through the Backend
type PlaylistLister interface {
	Supports(url string) bool
	ListItems(ctx context.Context, url string) ([]model.MediaItem, error)
}

// Adapter normalizes Backend output into model values
type Adapter struct {
	backend   Backend
	rules     OptionAdapter
	playlists PlaylistLister
	log       *zap.Logger
}

// NewAdapter creates an adapter. rules may be nil.
func NewAdapter(backend Backend, rules OptionAdapter, log *zap.Logger) *Adapter {
	if log == nil {
		log = zap.NewNop()
	}
	return &Adapter{backend: backend, rules: rules, log: log}
}

// SetPlaylistLister installs a fast path for ListItems
func (a *Adapter) SetPlaylistLister(l PlaylistLister) {
	a.playlists = l
}

// Available reports whether the backend can be used
func (a *Adapter) Available() error {
	return a.backend.Available()
}

// Options builds options for phase with site rules applied
func (a *Adapter) Options(url string, headers map[string]string, phase Phase, base Options) Options {
	opts := base.Clone()
	if a.rules != nil {
		a.rules.Adapt(url, headers, phase, &opts)
	}
	return opts
}

func (a *Adapter) probeOptions(url string, headers map[string]string, phase Phase, flat bool) Options {
	return a.Options(url, headers, phase, Options{
		SkipDownload: true,
		Quiet:        true,
		NoWarnings:   true,
		ExtractFlat:  flat,
	})
}

// ResolveMetadata reports whether url is a playlist, its title and size.
// A resource that yields nothing returns the zero ResolutionResult.
func (a *Adapter) ResolveMetadata(ctx context.Context, url string, headers map[string]string) (model.ResolutionResult, error) {
	if err := a.backend.Available(); err != nil {
		return model.ResolutionResult{}, err
	}

	opts := a.probeOptions(url, headers, PhaseProbe, true)
	a.log.Debug("resolving metadata", zap.String("url", url), zap.Bool("flat", opts.ExtractFlat))

	info, err := a.backend.Extract(ctx, url, opts)
	if err != nil {
		return model.ResolutionResult{}, wrapResolution("resolve metadata", err)
	}
	if info == nil {
		return model.ResolutionResult{}, nil
	}

	if !info.HasEntries() {
		title := info.Title
		if title == "" {
			title = DefaultSingleTitle
		}
		return model.ResolutionResult{
			Title:          title,
			TotalCount:     1,
			FirstItemTitle: title,
		}, nil
	}

	entries := info.ValidEntries()
	count := info.PlaylistCount
	if count <= 0 {
		count = len(entries)
	}
	if count == 0 {
		// every entry was malformed
		return model.ResolutionResult{}, nil
	}
	title := info.Title
	if title == "" {
		title = DefaultPlaylistTitle
	}
	first := ""
	if len(entries) > 0 {
		first = entries[0].Title
		if first == "" {
			first = DefaultEntryTitle
		}
	}
	return model.ResolutionResult{
		IsPlaylist:     true,
		Title:          title,
		TotalCount:     count,
		FirstItemTitle: first,
	}, nil
}

// ListItems returns the items under url with contiguous 1-based indexes.
// Entries without resolvable metadata are dropped.
func (a *Adapter) ListItems(ctx context.Context, url string, headers map[string]string) ([]model.MediaItem, error) {
	if err := a.backend.Available(); err != nil {
		return nil, err
	}

	if a.playlists != nil && len(headers) == 0 && a.playlists.Supports(url) {
		items, err := a.playlists.ListItems(ctx, url)
		if err == nil && len(items) > 0 {
			return items, nil
		}
		a.log.Debug("playlist fast path unavailable, using extractor", zap.String("url", url), zap.Error(err))
	}

	opts := a.probeOptions(url, headers, PhaseItems, false)
	info, err := a.backend.Extract(ctx, url, opts)
	if err != nil {
		return nil, wrapResolution("list items", err)
	}
	if info == nil {
		return nil, nil
	}

	if !info.HasEntries() {
		return []model.MediaItem{info.Item(1, DefaultEntryTitle, url)}, nil
	}

	items := make([]model.MediaItem, 0, len(info.Entries))
	for _, e := range info.Entries {
		if e == nil || !e.Resolvable() {
			continue
		}
		index := len(items) + 1
		items = append(items, e.Item(index, fmt.Sprintf(DefaultItemTitleFormat, index), ""))
	}
	if dropped := len(info.Entries) - len(items); dropped > 0 {
		a.log.Debug("skipped malformed entries", zap.String("url", url), zap.Int("count", dropped))
	}
	return items, nil
}

// ListStreams returns the streams of the first resolvable item only. One
// selection is applied to every item of a playlist, so heterogeneous
// playlists may get a format that only the first item offers.
func (a *Adapter) ListStreams(ctx context.Context, url string, headers map[string]string) ([]model.StreamDescriptor, error) {
	if err := a.backend.Available(); err != nil {
		return nil, err
	}

	opts := a.probeOptions(url, headers, PhaseFormats, false)
	info, err := a.backend.Extract(ctx, url, opts)
	if err != nil {
		return nil, wrapResolution("list streams", err)
	}
	if info == nil {
		return nil, nil
	}
	if info.HasEntries() {
		if info = info.FirstEntry(); info == nil {
			return nil, nil
		}
	}

	streams := make([]model.StreamDescriptor, 0, len(info.Formats))
	for _, f := range info.Formats {
		if s, ok := f.Stream(); ok {
			streams = append(streams, s)
		}
	}
	return streams, nil
}

// Download delegates a whole download to the backend
func (a *Adapter) Download(ctx context.Context, url string, opts Options) (string, error) {
	if err := a.backend.Available(); err != nil {
		return "", err
	}
	return a.backend.Download(ctx, url, opts)
}

// wrapResolution tags unclassified backend errors as resolution failures
func wrapResolution(op string, err error) error {
	if model.KindOf(err) != model.KindUnknown {
		return err
	}
	return model.ResolutionError(op, err)
}
