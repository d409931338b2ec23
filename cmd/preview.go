package cmd

import (
	"log"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/notepipe/config"
	"github.com/gaurav-prasanna/notepipe/preview"
)

func newPreviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Serve a live preview of a note",
		Long: `Preview renders a note, serves it over HTTP and re-renders it whenever the
file changes. The page reloads itself after each change.

Example:
  notepipe preview todo.md --addr 127.0.0.1:7070`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.FromContext(cmd.Context())
			logger := log.New(cmd.ErrOrStderr(), "[notepipe] ", log.LstdFlags)

			srv := preview.New(args[0], buildConverter(cfg),
				preview.WithDebounce(cfg.Debounce),
				preview.WithLogger(logger),
			)
			return srv.Run(cmd.Context(), cfg.PreviewAddr)
		},
	}

	addConverterFlags(cmd)
	cmd.Flags().String("addr", "127.0.0.1:7070", "Listen address")
	cmd.Flags().Duration("debounce", preview.DefaultDebounce, "Delay between a file change and the refresh")
	return cmd
}
