package cmd

import (
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/ytget/videodl/internal/session"
)

var formatsHeaders []string

var formatsCmd = &cobra.Command{
	Use:   "formats <url>",
	Short: "List the downloadable streams of a URL (first item of a playlist)",
	Args:  cobra.ExactArgs(1),
	RunE:  formatsRun,
}

func init() {
	addHeaderFlag(formatsCmd, &formatsHeaders)
}

func formatsRun(cmd *cobra.Command, args []string) error {
	headers, err := parseHeaders(formatsHeaders)
	if err != nil {
		return err
	}
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	svc := newServices(zlog, session.Inline)
	streams, err := svc.adapter.ListStreams(ctx, args[0], headers)
	if err != nil {
		return fmt.Errorf("listing formats: %w", err)
	}
	if len(streams) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No formats found.")
		return nil
	}
	for _, s := range streams {
		fmt.Fprintln(cmd.OutOrStdout(), s.Label())
	}
	return nil
}
