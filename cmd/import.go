// Package cmd — import command.
// Turns a web page or saved HTML file into a note:
// fetch → extract → normalize → front matter → write.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/notepipe/config"
	"github.com/gaurav-prasanna/notepipe/core"
	"github.com/gaurav-prasanna/notepipe/core/extract"
	"github.com/gaurav-prasanna/notepipe/core/fetch"
	"github.com/gaurav-prasanna/notepipe/core/normalize"
	"github.com/gaurav-prasanna/notepipe/core/note"
	"github.com/gaurav-prasanna/notepipe/core/output"
	"github.com/gaurav-prasanna/notepipe/core/render"
)

func newImportCmd() *cobra.Command {
	var stdout bool

	cmd := &cobra.Command{
		Use:   "import <file|url|->",
		Short: "Import an HTML page as a Markdown note",
		Long: `Import fetches a web page (or reads saved HTML), extracts its main content,
converts it to Markdown and writes a note with front matter.

Examples:
  notepipe import https://example.com/article
  notepipe import saved.html --output_dir ./notes`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.FromContext(ctx)
			location := args[0]

			fetcher := fetch.New(cfg.FetchTimeout).WithStdin(cmd.InOrStdin())
			n, err := importNote(ctx, location, fetcher, extract.New(), normalize.New())
			if err != nil {
				return err
			}

			data, err := render.NewMarkdownRenderer(true).Render(n)
			if err != nil {
				return fmt.Errorf("render: %w", err)
			}

			if stdout {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			writer, err := output.New(cfg.OutputDir)
			if err != nil {
				return fmt.Errorf("initializing output writer: %w", err)
			}
			path, err := writer.Write(location, data, ".md")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Written: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&stdout, "stdout", false, "Write to standard output instead of a file")
	cmd.Flags().String("output_dir", "", "Output directory (default: current directory)")
	cmd.Flags().Duration("timeout", 0, "Timeout for loading a URL")
	return cmd
}

// importNote runs a page through fetch, extract and normalize.
func importNote(
	ctx context.Context,
	location string,
	fetcher core.Fetcher,
	extractor core.Extractor,
	normalizer core.Normalizer,
) (core.Note, error) {
	// 1. Fetch
	result, err := fetcher.Fetch(ctx, location)
	if err != nil {
		return core.Note{}, fmt.Errorf("fetch: %w", err)
	}

	// 2. Extract main content
	page, err := extractor.Extract(result.Body)
	if err != nil {
		return core.Note{}, fmt.Errorf("extract: %w", err)
	}

	// 3. Normalize to Markdown, resolving links against the page origin
	base := ""
	if fetch.IsURL(location) {
		base = location
	}
	md, err := normalizer.Normalize(page.HTML, base)
	if err != nil {
		return core.Note{}, fmt.Errorf("normalize: %w", err)
	}
	if md == "" {
		return core.Note{}, fmt.Errorf("normalize %s: %w", location, core.ErrEmptyNote)
	}

	n := note.Parse(location, md)
	if page.Title != "" {
		n.Metadata.Title = page.Title
	}
	n.Metadata.Language = page.Language
	return n, nil
}
