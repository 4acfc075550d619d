package download

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ytget/videodl/internal/extractor"
	"github.com/ytget/videodl/internal/format"
	"github.com/ytget/videodl/internal/model"
	"github.com/ytget/videodl/internal/mux"
	"github.com/ytget/videodl/internal/platform"
)

// Defaults for direct downloads
const (
	DefaultChunkSize       = 8192
	DefaultSocketTimeout   = 30 * time.Second
	DefaultRetries         = 3
	DirectSleepInterval    = time.Second
	DirectMaxSleepInterval = 3 * time.Second
	rawStreamOperation     = "raw stream"
	adaptiveMuxOperation   = "adaptive mux"
)

// Config tunes the retrieval strategies
type Config struct {
	// FFmpegPath overrides the ffmpeg lookup on PATH
	FFmpegPath string

	SocketTimeout  time.Duration
	Retries        int
	ChunkSize      int
	DefaultReferer string

	// HTTPClient is used for raw streams; nil uses a client without timeout
	HTTPClient *http.Client
}

func (c Config) withDefaults() Config {
	if c.SocketTimeout <= 0 {
		c.SocketTimeout = DefaultSocketTimeout
	}
	if c.Retries <= 0 {
		c.Retries = DefaultRetries
	}
	if c.ChunkSize <= 0 {
		c.ChunkSize = DefaultChunkSize
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{}
	}
	return c
}

// Downloader runs one download at a time per caller and owns the
// cooperative cancellation token for it.
type Downloader struct {
	adapter *extractor.Adapter
	cfg     Config
	log     *zap.Logger

	mu        sync.Mutex
	cancelled bool
}

// New creates a downloader on top of an extractor adapter
func New(adapter *extractor.Adapter, cfg Config, log *zap.Logger) *Downloader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Downloader{adapter: adapter, cfg: cfg.withDefaults(), log: log}
}

// Cancel sets the cancellation token. Safe to call from any goroutine. Only
// the delegated strategy polls it; remux and raw streams stop only through
// their context.
func (d *Downloader) Cancel() {
	d.mu.Lock()
	d.cancelled = true
	d.mu.Unlock()
}

// IsCancelled reports whether Cancel was called for the current invocation
func (d *Downloader) IsCancelled() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cancelled
}

// Reset clears the cancellation token
func (d *Downloader) Reset() {
	d.mu.Lock()
	d.cancelled = false
	d.mu.Unlock()
}

// Download performs req and returns exactly one outcome. A Cancel issued
// before Download starts is honored on the first progress tick; the token
// is cleared when Download returns.
func (d *Downloader) Download(ctx context.Context, req model.DownloadRequest, onProgress model.ProgressFunc) model.Outcome {
	defer d.Reset()

	if err := platform.EnsureWritable(req.OutputDir); err != nil {
		return model.Failed(err)
	}

	var (
		path string
		err  error
	)
	if req.Direct {
		path, err = d.direct(ctx, req, onProgress)
	} else {
		path, err = d.catalog(ctx, req, onProgress)
	}

	switch {
	case errors.Is(err, model.ErrCancelled):
		d.log.Info("download cancelled", zap.String("url", req.URL))
		return model.Cancelled()
	case err != nil:
		d.log.Error("download failed", zap.String("url", req.URL), zap.Error(err))
		return model.Failed(err)
	}
	d.log.Info("download finished", zap.String("url", req.URL), zap.String("output", path))
	return model.Done(path)
}

// catalog downloads a page URL through the extractor
func (d *Downloader) catalog(ctx context.Context, req model.DownloadRequest, onProgress model.ProgressFunc) (string, error) {
	_, ffErr := platform.LookupTool(d.cfg.FFmpegPath, platform.FFmpegCommand)
	sel, err := format.Select(format.ConstraintsFor(req, ffErr == nil))
	if err != nil {
		return "", err
	}

	opts := extractor.Options{
		Quiet:                true,
		NoWarnings:           true,
		IgnoreErrors:         true,
		NoOverwrites:         true,
		OutputTemplate:       platform.BuildTemplate(req.OutputDir, req.Title, req.Playlist),
		Format:               sel.Expression,
		PostProcessors:       sel.PostProcessors,
		MergeOutputContainer: sel.MergeContainer,
		PostProcessorArgs:    sel.PostProcessorArgs,
		NoPlaylist:           !req.Playlist,
	}
	if req.Thumbnail {
		opts.WriteThumbnail = true
		opts.PostProcessors = append(opts.PostProcessors, format.ThumbnailPostProcessors()...)
	}
	if req.Playlist && len(req.Items) > 0 {
		opts.PlaylistItems = req.ItemSelector()
	}

	opts = d.adapter.Options(req.URL, req.Headers, extractor.PhaseDownload, opts)
	opts.Progress = d.progressHook(req, onProgress)

	d.log.Info("starting download",
		zap.String("url", req.URL),
		zap.String("format", opts.Format),
		zap.Bool("playlist", req.Playlist))
	return d.adapter.Download(ctx, req.URL, opts)
}

// direct downloads a browser-captured media URL
func (d *Downloader) direct(ctx context.Context, req model.DownloadRequest, onProgress model.ProgressFunc) (string, error) {
	headers := DirectHeaders(req.Headers, d.cfg.DefaultReferer)
	strategy := Classify(req.URL)
	d.log.Info("direct download", zap.String("url", req.URL), zap.String("strategy", string(strategy)))

	switch strategy {
	case StrategyAdaptiveMux:
		ffmpeg, err := platform.LookupTool(d.cfg.FFmpegPath, platform.FFmpegCommand)
		if err != nil {
			return "", fmt.Errorf("%w: %v", model.ErrMuxerRequired, err)
		}
		out := mux.OutputPath(filepath.Join(req.OutputDir, platform.DirectBaseName(req.Title)))
		if err := mux.NewRunner(ffmpeg, d.log).Run(ctx, req.URL, headers, out, onProgress); err != nil {
			return "", model.RetrievalError(adaptiveMuxOperation, err)
		}
		finished(onProgress, out)
		return out, nil

	case StrategyRawStream:
		out := platform.DirectPath(req.OutputDir, req.Title, MediaExtension(req.URL))
		if err := d.fetch(ctx, req.URL, headers, out); err != nil {
			return "", model.RetrievalError(rawStreamOperation, err)
		}
		finished(onProgress, out)
		return out, nil
	}

	opts := extractor.Options{
		Quiet:                   true,
		NoWarnings:              true,
		NoPlaylist:              true,
		OutputTemplate:          platform.DirectTemplate(req.OutputDir, req.Title),
		Format:                  format.Best,
		IgnoreCertificateErrors: true,
		SocketTimeout:           d.cfg.SocketTimeout,
		Retries:                 d.cfg.Retries,
		SleepInterval:           DirectSleepInterval,
		MaxSleepInterval:        DirectMaxSleepInterval,
	}
	for k, v := range headers {
		opts.SetHeader(k, v)
	}
	opts = d.adapter.Options(req.URL, headers, extractor.PhaseDownload, opts)
	opts.Progress = d.progressHook(req, onProgress)
	return d.adapter.Download(ctx, req.URL, opts)
}

// progressHook polls the cancellation token on every tick and forwards the
// tick as a normalized event.
func (d *Downloader) progressHook(req model.DownloadRequest, onProgress model.ProgressFunc) extractor.ProgressFunc {
	return func(t extractor.Tick) error {
		if d.IsCancelled() {
			return model.ErrCancelled
		}
		if onProgress != nil {
			onProgress(eventFrom(t, req))
		}
		return nil
	}
}

// eventFrom normalizes a tick. With an item selection the playlist index
// is rewritten to the ordinal within the selection so it agrees with the
// selection-sized count.
func eventFrom(t extractor.Tick, req model.DownloadRequest) model.ProgressEvent {
	count := t.PlaylistCount
	if count <= 0 {
		count = req.PlaylistCount
	}
	index := t.PlaylistIndex
	if len(req.Items) > 0 && index > 0 {
		index = slices.Index(req.Items, index) + 1
		count = len(req.Items)
	}
	return model.ProgressEvent{
		Status:          t.Status,
		DownloadedBytes: t.DownloadedBytes,
		TotalBytes:      t.TotalBytes,
		Speed:           t.Speed,
		ETA:             t.ETA,
		PlaylistIndex:   index,
		PlaylistCount:   count,
		OutputPath:      t.Filename,
	}
}

func finished(onProgress model.ProgressFunc, out string) {
	if onProgress != nil {
		onProgress(model.ProgressEvent{Status: model.ProgressFinished, OutputPath: out})
	}
}
