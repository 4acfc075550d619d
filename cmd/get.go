package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ytget/videodl/internal/model"
	"github.com/ytget/videodl/internal/platform"
	"github.com/ytget/videodl/internal/session"
)

var getOpts getOptions

var getCmd = &cobra.Command{
	Use:   "get <url>",
	Short: "Download a video, a playlist or a captured media URL",
	Long: `Download a URL into --dir. Progress is printed to stderr and the
resulting path to stdout. Ctrl+C cancels the download.`,
	Args: cobra.ExactArgs(1),
	RunE: getRun,
}

func init() {
	f := getCmd.Flags()
	f.StringVarP(&getOpts.dir, "dir", "d", "", "Destination directory (default: ~/Downloads)")
	f.StringVarP(&getOpts.format, "format", "f", "", "Stream id from the formats command")
	f.BoolVarP(&getOpts.audioOnly, "audio-only", "a", false, "Extract audio as mp3")
	f.BoolVar(&getOpts.mp4, "mp4", true, "Prefer mp4/m4a streams")
	f.BoolVarP(&getOpts.playlist, "playlist", "p", false, "Download the whole playlist")
	f.StringVarP(&getOpts.items, "items", "i", "", "Playlist positions, e.g. 1,3,5-7")
	f.BoolVar(&getOpts.thumbnail, "thumbnail", false, "Embed the thumbnail")
	f.StringVarP(&getOpts.title, "title", "t", "", "Output base name")
	f.BoolVar(&getOpts.direct, "direct", false, "Treat the URL as a media resource (manifest or file)")
	addHeaderFlag(getCmd, &getOpts.headers)
}

func getRun(cmd *cobra.Command, args []string) error {
	req, err := getOpts.request(args[0])
	if err != nil {
		return err
	}
	if req.OutputDir == "" {
		if req.OutputDir, err = platform.GetHomeDownloadsDir(); err != nil {
			return fmt.Errorf("resolving default directory: %w", err)
		}
	}
	if err := platform.CreateDirectoryIfNotExists(req.OutputDir); err != nil {
		return err
	}

	svc := newServices(zlog, session.Inline)
	if err := svc.adapter.Available(); err != nil {
		return err
	}

	if req.Playlist && !req.Direct {
		res, err := svc.adapter.ResolveMetadata(cmd.Context(), req.URL, req.Headers)
		if err != nil {
			zlog.Warn("playlist size unknown", zap.Error(err))
		} else if res.IsPlaylist {
			req.PlaylistCount = res.TotalCount
			if len(req.Items) > 0 {
				req.PlaylistCount = len(req.Items)
			}
		}
	}

	errOut := cmd.ErrOrStderr()
	svc.session.SetUpdateCallback(func(t model.DownloadTask) {
		if t.Status.IsActive() && t.StatusText != "" {
			fmt.Fprintf(errOut, "\r\033[K%s", t.StatusText)
		}
	})

	done := make(chan model.Outcome, 1)
	svc.session.Download(req, session.SourceCLI, func(o model.Outcome) { done <- o })

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	defer signal.Stop(sigs)

	for {
		select {
		case <-sigs:
			fmt.Fprintln(errOut, "\ncancelling...")
			svc.session.Cancel()
		case o := <-done:
			fmt.Fprintln(errOut)
			return reportOutcome(cmd, o)
		}
	}
}

func reportOutcome(cmd *cobra.Command, o model.Outcome) error {
	switch o.State {
	case model.OutcomeDone:
		if o.OutputPath != "" {
			fmt.Fprintln(cmd.OutOrStdout(), o.OutputPath)
		}
		return nil
	case model.OutcomeCancelled:
		return model.ErrCancelled
	}
	if o.Err != nil {
		return o.Err
	}
	return errors.New(o.Message())
}
