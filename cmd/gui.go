package cmd

import (
	"context"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/lang"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ytget/videodl/internal/bridge"
	"github.com/ytget/videodl/internal/config"
	"github.com/ytget/videodl/internal/logger"
	"github.com/ytget/videodl/internal/platform"
	"github.com/ytget/videodl/internal/ui"
)

// guiRun opens the desktop window and, when browser integration is on,
// the loopback bridge feeding the same session.
func guiRun(cmd *cobra.Command, args []string) error {
	a := app.NewWithID(AppID)
	a.Settings().SetTheme(ui.NewCompactTheme())

	panel := ui.NewLogPanel()
	l := zlog.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, logger.Sink(panel.Append))
	}))
	l.Info("starting", zap.String("version", Version))

	settings := config.NewSettings(a)
	if err := platform.CreateDirectoryIfNotExists(settings.GetDownloadDirectory()); err != nil {
		l.Warn("failed to ensure download directory", zap.Error(err))
	}

	svc := newServices(l, fyne.Do)
	w := a.NewWindow(AppName)
	ui.NewRootUI(w, ui.Options{
		Session:      svc.session,
		Settings:     settings,
		LogPanel:     panel,
		Localization: ui.NewLocalization(lang.SystemLocale().LanguageString()),
		FFmpegPath:   cfg.Tools.FFmpegPath,
		Version:      Version,
		Log:          l,
	})

	if cfg.Bridge.Enabled && settings.GetBrowserIntegration() {
		srv := newBridge(svc.session, settings.GetDownloadDirectory, l)
		if err := srv.Start(); err != nil {
			// typically another instance already owns the port
			l.Warn("browser integration unavailable", zap.Error(err))
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), bridge.ShutdownGracePeriod)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					zlog.Error("bridge shutdown failed", zap.Error(err))
				}
			}()
		}
	}

	w.ShowAndRun()
	svc.session.Cancel()
	return nil
}
