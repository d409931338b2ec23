// Package cmd implements the CLI commands for notepipe using Cobra.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/notepipe/config"
)

// flagKeys maps command flags onto the config keys they override.
var flagKeys = map[string]string{
	"preset":     "render.preset",
	"engine":     "render.engine",
	"sanitize":   "render.sanitize",
	"highlight":  "render.highlight",
	"style":      "render.highlight_style",
	"output_dir": "output.dir",
	"timeout":    "fetch.timeout",
	"max_notes":  "crawl.max_notes",
	"addr":       "preview.addr",
	"debounce":   "preview.debounce",
	"term_style": "terminal.style",
	"width":      "terminal.width",
}

// NewRootCmd builds the notepipe command tree.
func NewRootCmd() *cobra.Command {
	v := viper.New()
	var cfgPath string

	root := &cobra.Command{
		Use:   "notepipe",
		Short: "notepipe — render Markdown notes to HTML, PDF, JSON and more",
		Long: `notepipe renders Markdown notes with the same regex pipeline a notes app
uses for its live preview, and exports them as HTML, PDF, JSON, Markdown or
terminal text.

Usage:
  notepipe render <file|dir|url|-> [flags]
  notepipe import <file|url|-> [flags]
  notepipe preview <file> [flags]`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Load(v, cfgPath); err != nil {
				return err
			}
			applyConfigFlagOverrides(cmd, v, flagKeys)

			cfg := config.FromViper(v)
			if err := cfg.Validate(); err != nil {
				return err
			}
			cmd.SetContext(config.WithContext(cmd.Context(), cfg))
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default: $XDG_CONFIG_HOME/notepipe/config.yaml)")

	root.AddCommand(newRenderCmd(), newImportCmd(), newPreviewCmd(), newConfigCmd())
	return root
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := NewRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func applyConfigFlagOverrides(cmd *cobra.Command, v *viper.Viper, keys map[string]string) {
	for flagName, key := range keys {
		flag := cmd.Flags().Lookup(flagName)
		if flag == nil || !flag.Changed {
			continue
		}
		setFromFlag(cmd, v, flagName, key)
	}
}

func setFromFlag(cmd *cobra.Command, v *viper.Viper, flagName, key string) {
	switch cmd.Flags().Lookup(flagName).Value.Type() {
	case "bool":
		if val, err := cmd.Flags().GetBool(flagName); err == nil {
			v.Set(key, val)
		}
	case "int":
		if val, err := cmd.Flags().GetInt(flagName); err == nil {
			v.Set(key, val)
		}
	case "duration":
		if val, err := cmd.Flags().GetDuration(flagName); err == nil {
			v.Set(key, val)
		}
	default:
		if val, err := cmd.Flags().GetString(flagName); err == nil {
			v.Set(key, val)
		}
	}
}
