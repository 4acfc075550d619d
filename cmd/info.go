package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ytget/videodl/internal/session"
)

var infoHeaders []string

var infoCmd = &cobra.Command{
	Use:   "info <url>",
	Short: "Show what a URL resolves to and list its items",
	Args:  cobra.ExactArgs(1),
	RunE:  infoRun,
}

func init() {
	addHeaderFlag(infoCmd, &infoHeaders)
}

func infoRun(cmd *cobra.Command, args []string) error {
	headers, err := parseHeaders(infoHeaders)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	svc := newServices(zlog, session.Inline)
	res, err := svc.adapter.ResolveMetadata(ctx, args[0], headers)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if res.IsPlaylist {
		fmt.Fprintf(out, "Playlist: %s (%d items)\n", res.Title, res.TotalCount)
	} else {
		fmt.Fprintf(out, "Video: %s\n", res.Title)
		return nil
	}

	items, err := svc.adapter.ListItems(ctx, args[0], headers)
	if err != nil {
		return fmt.Errorf("listing items: %w", err)
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tDURATION\tTITLE\tURL")
	for _, it := range items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", it.Index, it.DurationString(), it.Title, it.URL)
	}
	return w.Flush()
}
