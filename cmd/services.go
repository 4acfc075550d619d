package cmd

import (
	"go.uber.org/zap"

	"github.com/ytget/videodl/internal/bridge"
	"github.com/ytget/videodl/internal/download"
	"github.com/ytget/videodl/internal/extractor"
	"github.com/ytget/videodl/internal/session"
	"github.com/ytget/videodl/internal/siterules"
)

// services are the collaborators every command builds on
type services struct {
	adapter    *extractor.Adapter
	downloader *download.Downloader
	session    *session.Session
}

// newServices wires the yt-dlp backend, the site rules and the YouTube
// playlist fast path into one session
func newServices(l *zap.Logger, post session.Poster) *services {
	backend := extractor.NewYTDLP(cfg.Tools.YTDLPPath, l.Named("ytdlp"))
	adapter := extractor.NewAdapter(backend, siterules.Default(l.Named("rules")), l.Named("extractor"))
	adapter.SetPlaylistLister(extractor.NewYouTubePlaylist())

	downloader := download.New(adapter, cfg.DownloaderConfig(), l.Named("download"))
	return &services{
		adapter:    adapter,
		downloader: downloader,
		session:    session.New(adapter, downloader, post, l.Named("session")),
	}
}

// newBridge builds the loopback endpoint; outputDir is read per request
func newBridge(q bridge.Queue, outputDir func() string, l *zap.Logger) *bridge.Server {
	return bridge.New(bridge.Options{
		Addr:          cfg.BridgeAddr(),
		RatePerSecond: cfg.Bridge.RatePerSecond,
		Burst:         cfg.Bridge.Burst,
		OutputDir:     outputDir,
	}, q, l.Named("bridge"))
}
