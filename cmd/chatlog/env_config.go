package main

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	chatlog "github.com/alnah/go-chatlog"
	"github.com/alnah/go-chatlog/internal/config"
)

// envPrefix marks the environment variables read by chatlog.
const envPrefix = "CHATLOG_"

// dotEnvFile is loaded from the working directory when present.
const dotEnvFile = ".env"

// envConfig holds configuration from environment variables.
// Provides CI/CD-friendly overrides without requiring YAML files.
type envConfig struct {
	// Tier 1 - Essential
	ConfigPath string        // CHATLOG_CONFIG: config file name or path
	Format     string        // CHATLOG_FORMAT: txt, epub, html, pdf
	Style      string        // CHATLOG_STYLE: CSS style name or path
	Timeout    time.Duration // CHATLOG_TIMEOUT: PDF generation timeout
	Roles      []string      // CHATLOG_ROLES: comma-separated, or one prefix per line

	// Tier 2 - I/O
	InputDir  string // CHATLOG_INPUT_DIR: default input directory
	OutputDir string // CHATLOG_OUTPUT_DIR: default output directory
	AssetPath string // CHATLOG_ASSET_PATH: custom asset directory
	Workers   int    // CHATLOG_WORKERS: parallel workers

	// Tier 3 - Book
	BookTitle   string // CHATLOG_BOOK_TITLE
	BookAuthor  string // CHATLOG_BOOK_AUTHOR
	Language    string // CHATLOG_BOOK_LANGUAGE
	ChapterMode string // CHATLOG_CHAPTER_MODE
	ChapterSize int    // CHATLOG_CHAPTER_SIZE
	PageSize    string // CHATLOG_PAGE_SIZE
}

// knownEnvVars lists valid CHATLOG_* environment variables.
// Used to detect typos and warn users about unknown variables.
var knownEnvVars = map[string]bool{
	// Tier 1 - Essential
	"CHATLOG_CONFIG":  true,
	"CHATLOG_FORMAT":  true,
	"CHATLOG_STYLE":   true,
	"CHATLOG_TIMEOUT": true,
	"CHATLOG_ROLES":   true,
	// Tier 2 - I/O
	"CHATLOG_INPUT_DIR":  true,
	"CHATLOG_OUTPUT_DIR": true,
	"CHATLOG_ASSET_PATH": true,
	"CHATLOG_WORKERS":    true,
	// Tier 3 - Book
	"CHATLOG_BOOK_TITLE":    true,
	"CHATLOG_BOOK_AUTHOR":   true,
	"CHATLOG_BOOK_LANGUAGE": true,
	"CHATLOG_CHAPTER_MODE":  true,
	"CHATLOG_CHAPTER_SIZE":  true,
	"CHATLOG_PAGE_SIZE":     true,
}

// loadDotEnv reads .env from the working directory. Variables already set in
// the process environment win.
func loadDotEnv(logger *slog.Logger) {
	err := godotenv.Load(dotEnvFile)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		logger.Warn("ignoring unreadable .env file", "error", err)
	}
}

// loadEnvConfig reads configuration from environment variables.
// Malformed numbers and durations are ignored with a warning.
func loadEnvConfig(logger *slog.Logger) *envConfig {
	cfg := &envConfig{
		// Tier 1
		ConfigPath: os.Getenv("CHATLOG_CONFIG"),
		Format:     os.Getenv("CHATLOG_FORMAT"),
		Style:      os.Getenv("CHATLOG_STYLE"),
		Roles:      splitRoles(os.Getenv("CHATLOG_ROLES")),
		// Tier 2
		InputDir:  os.Getenv("CHATLOG_INPUT_DIR"),
		OutputDir: os.Getenv("CHATLOG_OUTPUT_DIR"),
		AssetPath: os.Getenv("CHATLOG_ASSET_PATH"),
		// Tier 3
		BookTitle:   os.Getenv("CHATLOG_BOOK_TITLE"),
		BookAuthor:  os.Getenv("CHATLOG_BOOK_AUTHOR"),
		Language:    os.Getenv("CHATLOG_BOOK_LANGUAGE"),
		ChapterMode: os.Getenv("CHATLOG_CHAPTER_MODE"),
		PageSize:    os.Getenv("CHATLOG_PAGE_SIZE"),
	}

	if timeout := os.Getenv("CHATLOG_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil && d > 0 {
			cfg.Timeout = d
		} else {
			logger.Warn("ignoring invalid environment variable", "name", "CHATLOG_TIMEOUT", "value", timeout)
		}
	}

	cfg.Workers = positiveIntEnv(logger, "CHATLOG_WORKERS")
	cfg.ChapterSize = positiveIntEnv(logger, "CHATLOG_CHAPTER_SIZE")

	return cfg
}

func positiveIntEnv(logger *slog.Logger, name string) int {
	value := os.Getenv(name)
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil || n <= 0 {
		logger.Warn("ignoring invalid environment variable", "name", name, "value", value)
		return 0
	}
	return n
}

// splitList splits a comma-separated value, dropping empty items.
func splitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

// splitRoles reads CHATLOG_ROLES. A multi-line value lists one prefix per
// line, which allows prefixes containing commas.
func splitRoles(value string) []string {
	if strings.ContainsAny(value, "\r\n") {
		return chatlog.ParseRolePrefixes(value)
	}
	return splitList(value)
}

// warnUnknownEnvVars logs warnings for unrecognized CHATLOG_* variables.
// Helps catch typos like CHATLOG_STYEL.
func warnUnknownEnvVars(logger *slog.Logger) {
	for _, env := range os.Environ() {
		if strings.HasPrefix(env, envPrefix) {
			name, _, _ := strings.Cut(env, "=")
			if !knownEnvVars[name] {
				logger.Warn("unknown environment variable (typo?)", "name", name)
			}
		}
	}
}

// applyEnvConfig applies environment variable values over the loaded config.
// CLI flags are merged afterwards, giving: flags > env > config file > defaults.
func applyEnvConfig(env *envConfig, cfg *config.Config) {
	// Tier 1
	if env.Format != "" {
		cfg.Output.Format = env.Format
	}
	if env.Style != "" {
		cfg.Style.Name = env.Style
	}
	if len(env.Roles) > 0 {
		cfg.Roles.Prefixes = env.Roles
	}

	// Tier 2
	if env.InputDir != "" {
		cfg.Input.DefaultDir = env.InputDir
	}
	if env.OutputDir != "" {
		cfg.Output.DefaultDir = env.OutputDir
	}
	if env.AssetPath != "" {
		cfg.Assets.BasePath = env.AssetPath
	}

	// Tier 3
	if env.BookTitle != "" {
		cfg.Book.Title = env.BookTitle
	}
	if env.BookAuthor != "" {
		cfg.Book.Author = env.BookAuthor
	}
	if env.Language != "" {
		cfg.Book.Language = env.Language
	}
	if env.ChapterMode != "" {
		cfg.Book.ChapterMode = env.ChapterMode
	}
	if env.ChapterSize > 0 {
		cfg.Book.ChapterSize = env.ChapterSize
	}
	if env.PageSize != "" {
		cfg.Page.Size = env.PageSize
	}
}
