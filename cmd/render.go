// Package cmd — render command.
// This is the main command that orchestrates the pipeline:
// fetch → parse → render → write.
//
// It handles flag validation, renderer selection, and the single-note and
// --all modes.
package cmd

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gaurav-prasanna/notepipe/config"
	"github.com/gaurav-prasanna/notepipe/core"
	"github.com/gaurav-prasanna/notepipe/core/fetch"
	"github.com/gaurav-prasanna/notepipe/core/markdown"
	"github.com/gaurav-prasanna/notepipe/core/note"
	"github.com/gaurav-prasanna/notepipe/core/output"
	"github.com/gaurav-prasanna/notepipe/core/render"
	"github.com/gaurav-prasanna/notepipe/crawl"
)

type renderFlags struct {
	all      bool
	stdout   bool
	html     bool
	document bool
	pdf      bool
	json     bool
	markdown bool
	terminal bool
}

func newRenderCmd() *cobra.Command {
	var f renderFlags

	cmd := &cobra.Command{
		Use:     "render <file|dir|url|->",
		Aliases: []string{"convert"},
		Short:   "Render a note to the specified output format",
		Long: `Render loads a Markdown note, converts it with the preview pipeline (or the
strict CommonMark engine) and writes it in the specified output format.

Examples:
  notepipe render todo.md
  notepipe render todo.md --document --highlight --output_dir ./out
  notepipe render ./notes --all --json
  cat todo.md | notepipe render - --terminal --stdout`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, args[0], f)
		},
	}

	cmd.Flags().BoolVar(&f.all, "all", false, "Render every note below the given directory")
	cmd.Flags().BoolVar(&f.stdout, "stdout", false, "Write to standard output instead of a file")

	// Output format flags (mutually exclusive).
	cmd.Flags().BoolVar(&f.html, "html", false, "Output an HTML fragment (default)")
	cmd.Flags().BoolVar(&f.document, "document", false, "Output a standalone HTML page")
	cmd.Flags().BoolVar(&f.pdf, "pdf", false, "Output PDF")
	cmd.Flags().BoolVar(&f.json, "json", false, "Output structured JSON")
	cmd.Flags().BoolVar(&f.markdown, "markdown", false, "Output Markdown with front matter")
	cmd.Flags().BoolVar(&f.terminal, "terminal", false, "Output styled terminal text")

	addConverterFlags(cmd)
	cmd.Flags().String("output_dir", "", "Output directory (default: current directory)")
	cmd.Flags().Int("max_notes", 1000, "Maximum notes rendered with --all (0 = unlimited)")
	cmd.Flags().Duration("timeout", 0, "Timeout for loading a URL")
	cmd.Flags().String("term_style", "dark", "Terminal style for --terminal")
	cmd.Flags().Int("width", 80, "Word wrap width for --terminal")
	return cmd
}

// addConverterFlags registers the flags that shape the Markdown converter.
// Their values are read back through the config.
func addConverterFlags(cmd *cobra.Command) {
	cmd.Flags().String("preset", "notes", "Pipeline preset: notes or chat")
	cmd.Flags().String("engine", "pipeline", "Markdown engine: pipeline or strict")
	cmd.Flags().Bool("sanitize", true, "Filter rendered HTML through an allow-list")
	cmd.Flags().Bool("highlight", false, "Syntax-highlight fenced code")
	cmd.Flags().String("style", markdown.DefaultStyle, "Highlight style")
}

func runRender(cmd *cobra.Command, location string, f renderFlags) error {
	if err := validateFlags(f); err != nil {
		return err
	}

	ctx := cmd.Context()
	cfg := config.FromContext(ctx)
	renderer := selectRenderer(f, cfg)
	fetcher := fetch.New(cfg.FetchTimeout).WithStdin(cmd.InOrStdin())

	if f.stdout {
		data, err := processNote(ctx, location, fetcher, renderer)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}

	writer, err := output.New(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("initializing output writer: %w", err)
	}

	if f.all {
		return runAll(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), location, cfg.MaxNotes, fetcher, renderer, writer)
	}
	return runOnly(ctx, cmd.OutOrStdout(), location, fetcher, renderer, writer)
}

// runOnly processes a single note through the pipeline.
func runOnly(
	ctx context.Context,
	out io.Writer,
	location string,
	fetcher core.Fetcher,
	renderer core.Renderer,
	writer *output.Writer,
) error {
	data, err := processNote(ctx, location, fetcher, renderer)
	if err != nil {
		return err
	}

	path, err := writer.Write(location, data, renderer.Extension())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "✓ Written: %s\n", path)
	return nil
}

// runAll discovers every note below dir and processes each through the
// pipeline. A failing note is reported and the run continues.
func runAll(
	ctx context.Context,
	out, errOut io.Writer,
	dir string,
	maxNotes int,
	fetcher core.Fetcher,
	renderer core.Renderer,
	writer *output.Writer,
) error {
	fmt.Fprintf(out, "Discovering notes in %s...\n", dir)

	notes, dirs, err := crawl.DiscoverAll(ctx, dir, maxNotes)
	if err != nil {
		return fmt.Errorf("discovering notes: %w", err)
	}

	fmt.Fprintf(out, "Found %d notes to render in %d directories\n", len(notes), dirs)

	var errCount int
	for i, rel := range notes {
		fmt.Fprintf(out, "[%d/%d] Rendering %s\n", i+1, len(notes), rel)

		data, err := processNote(ctx, filepath.Join(dir, rel), fetcher, renderer)
		if err != nil {
			fmt.Fprintf(errOut, "  ✗ Error: %v\n", err)
			errCount++
			continue
		}

		path, err := writer.WriteTree(rel, data, renderer.Extension())
		if err != nil {
			fmt.Fprintf(errOut, "  ✗ Write error: %v\n", err)
			errCount++
			continue
		}
		fmt.Fprintf(out, "  ✓ Written: %s\n", path)
	}

	if errCount > 0 {
		return fmt.Errorf("%d/%d notes failed", errCount, len(notes))
	}
	return nil
}

// processNote runs a single note through the pipeline.
func processNote(ctx context.Context, location string, fetcher core.Fetcher, renderer core.Renderer) ([]byte, error) {
	// 1. Fetch
	result, err := fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	// 2. Parse front matter and metadata
	n := note.Parse(location, result.Body)

	// 3. Render to output format
	data, err := renderer.Render(n)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return data, nil
}

// validateFlags checks that at most one output format is chosen and that
// the mode flags agree.
func validateFlags(f renderFlags) error {
	if f.all && f.stdout {
		return fmt.Errorf("--all and --stdout are mutually exclusive")
	}

	formatCount := 0
	for _, set := range []bool{f.html, f.document, f.pdf, f.json, f.markdown, f.terminal} {
		if set {
			formatCount++
		}
	}
	if formatCount > 1 {
		return fmt.Errorf("only one output format allowed per run (got %d)", formatCount)
	}
	return nil
}

// selectRenderer creates the appropriate Renderer based on flags.
func selectRenderer(f renderFlags, cfg config.Config) core.Renderer {
	switch {
	case f.document:
		return render.NewDocumentRenderer(buildConverter(cfg))
	case f.pdf:
		return render.NewPDFRenderer()
	case f.json:
		return render.NewJSONRenderer(buildConverter(cfg))
	case f.markdown:
		return render.NewMarkdownRenderer(true)
	case f.terminal:
		return render.NewTerminalRenderer(cfg.TerminalStyle, cfg.TerminalWidth)
	default:
		return render.NewHTMLRenderer(buildConverter(cfg))
	}
}

// buildConverter creates the Markdown converter the config asks for.
func buildConverter(cfg config.Config) core.Converter {
	style := ""
	if cfg.Highlight {
		style = cfg.HighlightStyle
	}

	if cfg.Engine == "strict" {
		return markdown.NewStrict(style)
	}

	var opts []markdown.Option
	if cfg.Preset == "chat" {
		opts = append(opts, markdown.WithEscapeHTML(), markdown.WithLinkRel("noopener"))
		if style == "" {
			style = cfg.HighlightStyle
		}
	}
	if style != "" {
		opts = append(opts, markdown.WithHighlighting(style))
	}
	if cfg.Sanitize {
		opts = append(opts, markdown.WithSanitizer())
	}
	return markdown.New(opts...)
}
