// Package config loads and validates YAML configuration for the chatlog CLI.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	chatlog "github.com/alnah/go-chatlog"
	"github.com/alnah/go-chatlog/internal/chapter"
	"github.com/alnah/go-chatlog/internal/filter"
	"github.com/alnah/go-chatlog/internal/yamlutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrConfigInvalid   = errors.New("invalid config")
)

// AppDir is the directory name under the user config directory.
const AppDir = "go-chatlog"

// Field limits.
const (
	MaxPrefixLength      = 20
	MaxPrefixes          = 50
	MaxTokenLength       = 20
	MaxTitleLength       = 200
	MaxNameLength        = 100
	MaxDescriptionLength = 1000
	MaxLanguageLength    = 35 // BCP 47 upper bound in practice
	MaxDateLength        = 60
	MaxTextLength        = 500
	MaxNewlines          = 20
	MaxChapterSize       = 10000
	MinMargin            = 0.25
	MaxMargin            = 3.0
)

// Config holds all configuration for transcript conversion.
type Config struct {
	Input   InputConfig   `yaml:"input"`
	Output  OutputConfig  `yaml:"output"`
	Roles   RolesConfig   `yaml:"roles"`
	Filters FiltersConfig `yaml:"filters"`
	Text    TextConfig    `yaml:"text"`
	Book    BookConfig    `yaml:"book"`
	Style   StyleConfig   `yaml:"style"`
	Assets  AssetsConfig  `yaml:"assets"`
	Page    PageConfig    `yaml:"page"`
	Footer  FooterConfig  `yaml:"footer"`
}

// InputConfig defines input source options.
type InputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // used when no input argument is given
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the input
	Format     string `yaml:"format"`     // txt, epub, html, pdf
}

// RolesConfig defines how transcript lines are segmented.
type RolesConfig struct {
	Prefixes   []string `yaml:"prefixes"`
	UserMarker string   `yaml:"userMarker"` // user-start chapters and styling
	UserTokens []string `yaml:"userTokens"`
}

// FiltersConfig toggles content filters.
type FiltersConfig struct {
	HTMLComments   bool `yaml:"htmlComments"`
	Details        bool `yaml:"details"`
	HTMLTags       bool `yaml:"htmlTags"`
	HTMLToMarkdown bool `yaml:"htmlToMarkdown"`
	MaxNewlines    int  `yaml:"maxNewlines"` // 0 = no filter-stage cap
}

// TextConfig defines flat text output options.
type TextConfig struct {
	Separators  bool `yaml:"separators"`
	MaxNewlines int  `yaml:"maxNewlines"` // 0 = no cap
}

// BookConfig defines e-book (and HTML/PDF document) options.
type BookConfig struct {
	Title       string `yaml:"title"`
	Author      string `yaml:"author"`
	Language    string `yaml:"language"`
	Description string `yaml:"description"`
	Date        string `yaml:"date"` // "auto", "auto:FORMAT" or literal
	ChapterMode string `yaml:"chapterMode"`
	ChapterSize int    `yaml:"chapterSize"`
	MaxNewlines int    `yaml:"maxNewlines"`
	Markdown    bool   `yaml:"markdown"`
}

// StyleConfig selects the stylesheet and template set.
type StyleConfig struct {
	Name      string `yaml:"name"` // style name or path to a .css file
	Templates string `yaml:"templates"`
}

// AssetsConfig defines asset loading options.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"` // empty = embedded assets only
}

// PageConfig defines PDF page settings.
type PageConfig struct {
	Size        string  `yaml:"size"`        // letter, a4, legal
	Orientation string  `yaml:"orientation"` // portrait, landscape
	Margin      float64 `yaml:"margin"`      // inches
}

// FooterConfig defines the PDF page footer.
type FooterConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Position       string `yaml:"position"` // left, center, right
	ShowPageNumber bool   `yaml:"showPageNumber"`
	Text           string `yaml:"text"`
}

// DefaultConfig returns the configuration used when no file is given. Values
// mirror the defaults of the conversion library.
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{Format: string(chatlog.DefaultFormat)},
		Roles:  RolesConfig{Prefixes: []string{"您：", "AI："}},
		Filters: FiltersConfig{
			HTMLComments: true,
			Details:      true,
		},
		Text: TextConfig{Separators: true, MaxNewlines: filter.DefaultMaxNewlines},
		Book: BookConfig{
			Title:       "對話記錄",
			Author:      "Chatlog Tool",
			Language:    "zh-TW",
			Date:        "auto",
			ChapterMode: string(chapter.ModeBatch),
			ChapterSize: chapter.DefaultSize,
			MaxNewlines: filter.DefaultMaxNewlines,
		},
		Style: StyleConfig{Name: "default", Templates: "default"},
	}
}

// Validate checks every section. Called by LoadConfig; also usable on a
// Config built in code.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.Output),
		validation.Field(&c.Roles),
		validation.Field(&c.Filters),
		validation.Field(&c.Text),
		validation.Field(&c.Book),
		validation.Field(&c.Style),
		validation.Field(&c.Page),
		validation.Field(&c.Footer),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}
	return nil
}

func (o OutputConfig) Validate() error {
	return validation.ValidateStruct(&o,
		validation.Field(&o.Format, validation.By(knownFormat)),
	)
}

// knownFormat accepts every spelling chatlog.ParseFormat does, such as
// "EPUB", ".pdf" or "text".
func knownFormat(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := chatlog.ParseFormat(s); err != nil {
		return validation.NewError("validation_unknown_format", err.Error())
	}
	return nil
}

// chapterModes lists the chapter mode names for validation.In.
func chapterModes() []any {
	modes := chapter.Modes()
	names := make([]any, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return names
}

func (r RolesConfig) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Prefixes,
			validation.Length(0, MaxPrefixes),
			validation.Each(validation.Required, validation.RuneLength(2, MaxPrefixLength)),
		),
		validation.Field(&r.UserMarker, validation.RuneLength(0, MaxTokenLength)),
		validation.Field(&r.UserTokens, validation.Each(validation.Required, validation.RuneLength(1, MaxTokenLength))),
	)
}

func (f FiltersConfig) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.MaxNewlines, validation.Min(0), validation.Max(MaxNewlines)),
	)
}

func (t TextConfig) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.MaxNewlines, validation.Min(0), validation.Max(MaxNewlines)),
	)
}

func (b BookConfig) Validate() error {
	return validation.ValidateStruct(&b,
		validation.Field(&b.Title, validation.RuneLength(0, MaxTitleLength)),
		validation.Field(&b.Author, validation.RuneLength(0, MaxNameLength)),
		validation.Field(&b.Language, validation.RuneLength(0, MaxLanguageLength)),
		validation.Field(&b.Description, validation.RuneLength(0, MaxDescriptionLength)),
		validation.Field(&b.Date, validation.RuneLength(0, MaxDateLength)),
		validation.Field(&b.ChapterMode, validation.In(chapterModes()...)),
		validation.Field(&b.ChapterSize, validation.Min(0), validation.Max(MaxChapterSize)),
		validation.Field(&b.MaxNewlines, validation.Min(0), validation.Max(MaxNewlines)),
	)
}

func (s StyleConfig) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Templates, validation.RuneLength(0, MaxNameLength)),
	)
}

func (p PageConfig) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.Size, validation.In("letter", "a4", "legal")),
		validation.Field(&p.Orientation, validation.In("portrait", "landscape")),
		validation.Field(&p.Margin, validation.When(p.Margin != 0,
			validation.Min(MinMargin), validation.Max(MaxMargin))),
	)
}

func (f FooterConfig) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Position, validation.In("left", "center", "right")),
		validation.Field(&f.Text, validation.RuneLength(0, MaxTextLength)),
	)
}

// LoadConfig loads configuration from a file path or a config name.
// Values with a path separator or a .yaml/.yml extension are paths; a name
// is looked up by SearchPaths. The file is decoded over
// DefaultConfig, so omitted fields keep their defaults.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !isConfigPath(nameOrPath) {
		var err error
		if configPath, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(configPath) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := yamlutil.UnmarshalStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// SearchPaths lists where a config name is looked up, in order:
// ./name.yaml, ./name.yml, then the same under the user config directory.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(dir, AppDir, name+ext))
		}
	}
	return paths
}

func isConfigPath(s string) bool {
	if strings.ContainsAny(s, `/\`) {
		return true
	}
	ext := strings.ToLower(filepath.Ext(s))
	return ext == ".yaml" || ext == ".yml"
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
