package chatlog

import (
	"io"
	"log/slog"
	"time"
)

// Option configures a Converter.
type Option func(*Converter)

// converterConfig holds internal configuration for Converter.
type converterConfig struct {
	timeout         time.Duration
	styleInput      string // name, file path or CSS content
	resolvedStyle   string
	templateSetName string
	assetPath       string
	now             func() time.Time
}

// defaultTimeout bounds PDF rendering when the context has no deadline.
const defaultTimeout = 30 * time.Second

// WithTimeout sets the PDF rendering timeout.
// Panics if d <= 0 (programmer error, similar to time.NewTicker).
func WithTimeout(d time.Duration) Option {
	if d <= 0 {
		panic("chatlog: WithTimeout duration must be positive")
	}
	return func(c *Converter) {
		c.cfg.timeout = d
	}
}

// WithStyle selects the stylesheet of book formats: a style name known to
// the asset loader, a path to a .css file, or CSS content.
func WithStyle(style string) Option {
	return func(c *Converter) {
		c.cfg.styleInput = style
	}
}

// WithTemplateSet selects the cover and chapter templates by name.
func WithTemplateSet(name string) Option {
	return func(c *Converter) {
		c.cfg.templateSetName = name
	}
}

// WithAssetPath loads styles and templates from dir, falling back to the
// embedded assets. Ignored when WithAssetLoader is also given.
func WithAssetPath(dir string) Option {
	return func(c *Converter) {
		c.cfg.assetPath = dir
	}
}

// WithAssetLoader replaces the asset source.
func WithAssetLoader(loader AssetLoader) Option {
	return func(c *Converter) {
		c.publicAssetLoader = loader
	}
}

// WithLogger sets the logger receiving debug-level stage timings.
// A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Converter) {
		if logger == nil {
			logger = discardLogger()
		}
		c.logger = logger
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
