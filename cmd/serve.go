package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/videodl/internal/bridge"
	"github.com/ytget/videodl/internal/model"
	"github.com/ytget/videodl/internal/platform"
	"github.com/ytget/videodl/internal/session"
)

var serveDir string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the browser-extension endpoint without a window",
	Args:  cobra.NoArgs,
	RunE:  serveRun,
}

func init() {
	serveCmd.Flags().StringVarP(&serveDir, "dir", "d", "", "Destination directory (default: ~/Downloads)")
}

func serveRun(cmd *cobra.Command, args []string) error {
	dir := serveDir
	if dir == "" {
		var err error
		if dir, err = platform.GetHomeDownloadsDir(); err != nil {
			return fmt.Errorf("resolving default directory: %w", err)
		}
	}
	if err := platform.EnsureWritable(dir); err != nil {
		return err
	}

	svc := newServices(zlog, session.Inline)
	if err := svc.adapter.Available(); err != nil {
		return err
	}
	svc.session.SetUpdateCallback(func(t model.DownloadTask) {
		if t.Status.IsFinished() {
			zlog.Info("job done",
				zap.String("job", t.ID),
				zap.String("status", t.Status.String()),
				zap.String("path", t.OutputPath),
				zap.String("error", t.LastError))
		}
	})

	srv := newBridge(svc.session, func() string { return dir }, zlog)
	if err := srv.Start(); err != nil {
		return err
	}
	zlog.Info("serving downloads", zap.String("dir", dir), zap.String("address", cfg.BridgeAddr()))

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	svc.session.Cancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), bridge.ShutdownGracePeriod)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("bridge shutdown: %w", err)
	}
	return nil
}
