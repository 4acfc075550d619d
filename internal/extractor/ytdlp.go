package extractor

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"

	"github.com/ytget/videodl/internal/model"
	"github.com/ytget/videodl/internal/platform"
)

// ProgressInterval bounds how often yt-dlp progress reaches callbacks
const ProgressInterval = 250 * time.Millisecond

// Raw yt-dlp flags. Repeatable and numeric flags are passed as arguments
// so every occurrence survives.
const (
	flagAddHeaders        = "--add-headers"
	flagExtractorArgs     = "--extractor-args"
	flagPostprocessorArgs = "--postprocessor-args"
	flagSocketTimeout     = "--socket-timeout"
	flagRetries           = "--retries"
	flagSleepInterval     = "--sleep-interval"
	flagMaxSleepInterval  = "--max-sleep-interval"

	ffmpegArgsPrefix = "ffmpeg:"
)

var playlistIndexPrefix = regexp.MustCompile(`^(\d+)` + regexp.QuoteMeta(platform.PlaylistIndexSeparator))

// YTDLP is the Backend driven by the yt-dlp executable
type YTDLP struct {
	override string
	log      *zap.Logger

	mu   sync.Mutex
	path string
}

// NewYTDLP creates a backend. executable overrides the yt-dlp lookup when set.
func NewYTDLP(executable string, log *zap.Logger) *YTDLP {
	if log == nil {
		log = zap.NewNop()
	}
	return &YTDLP{override: executable, log: log}
}

// Available resolves the yt-dlp executable
func (y *YTDLP) Available() error {
	path, err := platform.LookupTool(y.override, platform.YTDLPCommand)
	if err != nil {
		return fmt.Errorf("%w (%v)", model.ErrExtractorUnavailable, err)
	}
	y.mu.Lock()
	y.path = path
	y.mu.Unlock()
	return nil
}

// Extract runs yt-dlp in single-JSON mode and parses its output
func (y *YTDLP) Extract(ctx context.Context, url string, opts Options) (*Info, error) {
	opts.SkipDownload = true
	opts.Progress = nil
	cmd := y.command(opts).DumpSingleJSON()

	y.log.Debug("yt-dlp extract", zap.String("url", url), zap.Strings("args", redactArgs(rawArgs(opts))))
	res, err := cmd.Run(ctx, append(rawArgs(opts), url)...)
	if err != nil {
		return nil, model.ResolutionError("yt-dlp", err)
	}
	return ParseInfo([]byte(res.Stdout))
}

// Download runs yt-dlp with its own downloader. Ticks are forwarded to
// opts.Progress; an error returned from it stops the process and is
// returned as is.
func (y *YTDLP) Download(ctx context.Context, url string, opts Options) (string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		abortErr error
		lastFile string
	)

	cmd := y.command(opts)
	if opts.Progress != nil {
		cmd.ProgressFunc(ProgressInterval, func(update ytdlp.ProgressUpdate) {
			tick := tickFrom(update)

			mu.Lock()
			if tick.Filename != "" {
				lastFile = tick.Filename
			}
			aborted := abortErr != nil
			mu.Unlock()
			if aborted {
				return
			}

			if err := opts.Progress(tick); err != nil {
				mu.Lock()
				abortErr = err
				mu.Unlock()
				cancel()
			}
		})
	}

	y.log.Debug("yt-dlp download", zap.String("url", url), zap.String("format", opts.Format))
	_, err := cmd.Run(ctx, append(rawArgs(opts), url)...)

	mu.Lock()
	defer mu.Unlock()
	if abortErr != nil {
		return lastFile, abortErr
	}
	if err != nil {
		return "", model.RetrievalError("yt-dlp", err)
	}
	return lastFile, nil
}

// command translates the boolean and string options into builder calls
func (y *YTDLP) command(opts Options) *ytdlp.Command {
	cmd := ytdlp.New()

	y.mu.Lock()
	if y.path != "" {
		cmd.SetExecutable(y.path)
	}
	y.mu.Unlock()

	if opts.SkipDownload {
		cmd.SkipDownload()
	}
	// quiet would also hide the progress lines the callback parses
	if opts.Quiet && opts.Progress == nil {
		cmd.Quiet()
	}
	if opts.NoWarnings {
		cmd.NoWarnings()
	}
	if opts.ExtractFlat {
		cmd.FlatPlaylist()
	}
	if opts.IgnoreCertificateErrors {
		cmd.NoCheckCertificates()
	}
	if opts.DisableCookieFile {
		cmd.NoCookies()
	}
	if opts.OutputTemplate != "" {
		cmd.Output(opts.OutputTemplate)
	}
	if opts.Format != "" {
		cmd.Format(opts.Format)
	}
	if opts.MergeOutputContainer != "" {
		cmd.MergeOutputFormat(opts.MergeOutputContainer)
	}
	if opts.WriteThumbnail {
		cmd.WriteThumbnail()
	}
	for _, pp := range opts.PostProcessors {
		switch pp.Kind {
		case model.PPExtractAudio:
			cmd.ExtractAudio()
			if pp.Codec != "" {
				cmd.AudioFormat(pp.Codec)
			}
			if pp.Quality != "" {
				cmd.AudioQuality(pp.Quality)
			}
		case model.PPEmbedThumbnail:
			cmd.EmbedThumbnail()
		case model.PPEmbedMetadata:
			cmd.EmbedMetadata()
		case model.PPConvertThumbnails:
			cmd.ConvertThumbnails(pp.Format)
		}
	}
	if opts.PlaylistItems != "" {
		cmd.PlaylistItems(opts.PlaylistItems)
	}
	if !opts.SkipDownload {
		if opts.NoPlaylist {
			cmd.NoPlaylist()
		} else {
			cmd.YesPlaylist()
		}
	}
	if opts.IgnoreErrors {
		cmd.IgnoreErrors()
	}
	if opts.NoOverwrites {
		cmd.NoOverwrites()
	}
	return cmd
}

// rawArgs renders the repeatable and numeric options as yt-dlp arguments.
// Headers are emitted in sorted order so runs are reproducible.
func rawArgs(opts Options) []string {
	var args []string

	headers := make(map[string]string, len(opts.HTTPHeaders)+2)
	for k, v := range opts.HTTPHeaders {
		headers[k] = v
	}
	if opts.Referer != "" {
		headers["Referer"] = opts.Referer
	}
	if opts.UserAgent != "" {
		headers["User-Agent"] = opts.UserAgent
	}
	keys := make([]string, 0, len(headers))
	for k := range headers {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		args = append(args, flagAddHeaders, k+":"+headers[k])
	}

	for _, ea := range opts.ExtractorArgs {
		args = append(args, flagExtractorArgs, ea)
	}
	if opts.PostProcessorArgs != "" {
		args = append(args, flagPostprocessorArgs, ffmpegArgsPrefix+opts.PostProcessorArgs)
	}
	if opts.SocketTimeout > 0 {
		args = append(args, flagSocketTimeout, seconds(opts.SocketTimeout))
	}
	if opts.Retries > 0 {
		args = append(args, flagRetries, strconv.Itoa(opts.Retries))
	}
	if opts.SleepInterval > 0 {
		args = append(args, flagSleepInterval, seconds(opts.SleepInterval))
		if opts.MaxSleepInterval > opts.SleepInterval {
			args = append(args, flagMaxSleepInterval, seconds(opts.MaxSleepInterval))
		}
	}
	return args
}

func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', -1, 64)
}

// redactArgs hides header values, which may carry cookies or tokens
func redactArgs(args []string) []string {
	out := slices.Clone(args)
	for i := 0; i+1 < len(out); i++ {
		if out[i] == flagAddHeaders {
			name, _, _ := strings.Cut(out[i+1], ":")
			out[i+1] = name + ":<redacted>"
		}
	}
	return out
}

func tickFrom(u ytdlp.ProgressUpdate) Tick {
	t := Tick{
		Status:          progressStatus(u.Status),
		DownloadedBytes: int64(u.DownloadedBytes),
		TotalBytes:      int64(u.TotalBytes),
		Filename:        u.Filename,
		PlaylistIndex:   PlaylistIndexFromFilename(u.Filename),
	}
	if !u.Started.IsZero() {
		if elapsed := time.Since(u.Started).Seconds(); elapsed > 0 {
			t.Speed = float64(u.DownloadedBytes) / elapsed
		}
	}
	if eta := u.ETA(); eta > 0 {
		t.ETA = eta
	}
	return t
}

func progressStatus(s ytdlp.ProgressStatus) model.ProgressStatus {
	switch s {
	case ytdlp.ProgressStatusFinished:
		return model.ProgressFinished
	case ytdlp.ProgressStatusError:
		return model.ProgressError
	case ytdlp.ProgressStatusStarting:
		return model.ProgressQueued
	default:
		return model.ProgressDownloading
	}
}

// PlaylistIndexFromFilename recovers the item index from a name produced by
// a playlist output template ("007 - Title.mp4"). It returns 0 otherwise.
func PlaylistIndexFromFilename(name string) int {
	m := playlistIndexPrefix.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return 0
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0
	}
	return n
}
