// Package config resolves notepipe settings with precedence
// defaults < file < env < flags.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// Option is one known configuration key with its default and meaning.
type Option struct {
	Key     string
	Value   any
	Comment string
}

// Options returns the known configuration keys. It's the single source of
// truth for defaults and the generated config file.
func Options() []Option {
	return []Option{
		{Key: "render.preset", Value: "notes", Comment: "Pipeline preset: notes or chat"},
		{Key: "render.engine", Value: "pipeline", Comment: "Markdown engine: pipeline (preview parity) or strict (CommonMark + GFM)"},
		{Key: "render.sanitize", Value: true, Comment: "Filter rendered HTML through an allow-list before writing it"},
		{Key: "render.highlight", Value: false, Comment: "Syntax-highlight fenced code with a language tag"},
		{Key: "render.highlight_style", Value: "github", Comment: "Highlight style name"},

		{Key: "output.dir", Value: "", Comment: "Directory for rendered files; empty means the current directory"},
		{Key: "fetch.timeout", Value: "30s", Comment: "Timeout for loading a URL"},
		{Key: "crawl.max_notes", Value: 1000, Comment: "Maximum notes rendered by --all (0 = unlimited)"},

		{Key: "preview.addr", Value: "127.0.0.1:7070", Comment: "Listen address of the live preview server"},
		{Key: "preview.debounce", Value: "200ms", Comment: "Delay between a file change and the preview refresh"},

		{Key: "terminal.style", Value: "dark", Comment: "Terminal style: dark, light, dracula, notty, ..."},
		{Key: "terminal.width", Value: 80, Comment: "Terminal word wrap width"},
	}
}

// Config is the resolved, typed configuration.
type Config struct {
	Preset         string
	Engine         string
	Sanitize       bool
	Highlight      bool
	HighlightStyle string
	OutputDir      string
	FetchTimeout   time.Duration
	MaxNotes       int
	PreviewAddr    string
	Debounce       time.Duration
	TerminalStyle  string
	TerminalWidth  int
}

type ctxKey struct{}

// WithContext returns a copy of ctx carrying cfg.
func WithContext(ctx context.Context, cfg Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext returns the Config stored in ctx, or the defaults.
func FromContext(ctx context.Context) Config {
	if cfg, ok := ctx.Value(ctxKey{}).(Config); ok {
		return cfg
	}
	v := viper.New()
	applyDefaults(v)
	return FromViper(v)
}

func applyDefaults(v *viper.Viper) {
	for _, o := range Options() {
		v.SetDefault(o.Key, o.Value)
	}
}

// Load resolves configuration into v with precedence: defaults < file < env.
// An explicit path must exist; the searched locations may be absent.
func Load(v *viper.Viper, path string) error {
	applyDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "notepipe"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "notepipe"))
		}
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("reading config: %w", err)
		}
	}

	// Environment variables: NOTEPIPE_RENDER_PRESET etc.
	v.SetEnvPrefix("notepipe")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return nil
}

// FromViper reads the typed Config out of v.
func FromViper(v *viper.Viper) Config {
	return Config{
		Preset:         strings.ToLower(strings.TrimSpace(v.GetString("render.preset"))),
		Engine:         strings.ToLower(strings.TrimSpace(v.GetString("render.engine"))),
		Sanitize:       v.GetBool("render.sanitize"),
		Highlight:      v.GetBool("render.highlight"),
		HighlightStyle: v.GetString("render.highlight_style"),
		OutputDir:      v.GetString("output.dir"),
		FetchTimeout:   v.GetDuration("fetch.timeout"),
		MaxNotes:       v.GetInt("crawl.max_notes"),
		PreviewAddr:    v.GetString("preview.addr"),
		Debounce:       v.GetDuration("preview.debounce"),
		TerminalStyle:  v.GetString("terminal.style"),
		TerminalWidth:  v.GetInt("terminal.width"),
	}
}

// Validate reports every problem in c at once.
func (c Config) Validate() error {
	var problems []string
	switch c.Preset {
	case "notes", "chat":
	default:
		problems = append(problems, fmt.Sprintf("render.preset must be notes or chat, got %q", c.Preset))
	}
	switch c.Engine {
	case "pipeline", "strict":
	default:
		problems = append(problems, fmt.Sprintf("render.engine must be pipeline or strict, got %q", c.Engine))
	}
	if c.FetchTimeout <= 0 {
		problems = append(problems, "fetch.timeout must be greater than 0")
	}
	if c.MaxNotes < 0 {
		problems = append(problems, "crawl.max_notes must not be negative")
	}
	if c.Debounce < 0 {
		problems = append(problems, "preview.debounce must not be negative")
	}
	if strings.TrimSpace(c.PreviewAddr) == "" {
		problems = append(problems, "preview.addr is required")
	}
	if c.TerminalWidth <= 0 {
		problems = append(problems, "terminal.width must be greater than 0")
	}
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
}
