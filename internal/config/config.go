package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-mdpost/internal/dateutil"
	"github.com/alnah/go-mdpost/internal/fileutil"
)

// Sentinel errors for config operations.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// Field length limits.
const (
	MaxEngineLength     = 10   // "editor", "gfm"
	MaxTOCTitleLength   = 100  // TOC title
	MaxStyleLength      = 100  // style name
	MaxPathLength       = 4096 // filesystem paths
	MaxSuffixLength     = 50   // fallback base name suffix
	MaxDateFormatLength = 50   // "YYYY-MM-DD", "long"
	MaxPageSizeLength   = 10   // "letter", "a4", "legal"
	MaxDurationLength   = 20   // "150ms", "1m30s"
)

// Margin bounds in inches, shared with the PDF page settings.
const (
	MinMargin = 0.25
	MaxMargin = 3.0
)

// Defaults applied by DefaultConfig.
const (
	DefaultEngine         = "editor"
	DefaultFallbackSuffix = "blog-post"
	DefaultFormat         = "md"
	DefaultPageSize       = "letter"
	DefaultMargin         = 0.5
	DefaultTimeout        = "30s"
	DefaultDebounce       = "150ms"
	DefaultSessionPath    = "mdpost-session.json"
	DefaultConfigDirName  = "go-mdpost"
)

var (
	validEngines   = []string{"editor", "gfm"}
	validFormats   = []string{"md", "zip", "html", "pdf"}
	validPageSizes = []string{"letter", "a4", "legal"}
)

// Config holds all configuration for rendering and exporting posts.
type Config struct {
	Render  RenderConfig  `yaml:"render"`
	Export  ExportConfig  `yaml:"export"`
	PDF     PDFConfig     `yaml:"pdf"`
	Watch   WatchConfig   `yaml:"watch"`
	Session SessionConfig `yaml:"session"`
}

// RenderConfig defines markdown rendering options.
type RenderConfig struct {
	Engine         string `yaml:"engine"`         // "editor" or "gfm"
	TOCTitle       string `yaml:"tocTitle"`       // Empty = default title
	Highlight      bool   `yaml:"highlight"`      // chroma syntax highlighting
	HighlightStyle string `yaml:"highlightStyle"` // chroma style name
	Style          string `yaml:"style"`          // stylesheet for standalone documents
	AssetPath      string `yaml:"assetPath"`      // Empty = embedded styles
}

// ExportConfig defines export bundle options.
type ExportConfig struct {
	DateFormat     string `yaml:"dateFormat"`     // fallback base name date
	FallbackSuffix string `yaml:"fallbackSuffix"` // "<date>-<suffix>"
	Format         string `yaml:"format"`         // "md", "zip", "html", "pdf"
	OutputDir      string `yaml:"outputDir"`      // Empty = current directory
	IncludeHTML    bool   `yaml:"includeHTML"`    // add <base>.html to zip bundles
}

// PDFConfig defines PDF page settings.
type PDFConfig struct {
	PageSize string  `yaml:"pageSize"` // "letter", "a4", "legal"
	Margin   float64 `yaml:"margin"`   // inches
	Timeout  string  `yaml:"timeout"`  // Go duration
}

// WatchConfig defines watch mode options.
type WatchConfig struct {
	Debounce string `yaml:"debounce"` // Go duration
}

// SessionConfig defines where the image session is persisted.
type SessionConfig struct {
	Path string `yaml:"path"`
}

// TimeoutDuration returns the parsed timeout, or zero when unset or invalid.
func (p PDFConfig) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(p.Timeout)
	return d
}

// DebounceDuration returns the parsed debounce delay, or zero when unset or invalid.
func (w WatchConfig) DebounceDuration() time.Duration {
	d, _ := time.ParseDuration(w.Debounce)
	return d
}

// Validate checks field lengths and enumerated values.
// Called automatically by LoadConfig, but available for callers
// who construct Config manually.
func (c *Config) Validate() error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"render.engine", c.Render.Engine, MaxEngineLength},
		{"render.tocTitle", c.Render.TOCTitle, MaxTOCTitleLength},
		{"render.highlightStyle", c.Render.HighlightStyle, MaxStyleLength},
		{"render.style", c.Render.Style, MaxStyleLength},
		{"render.assetPath", c.Render.AssetPath, MaxPathLength},
		{"export.dateFormat", c.Export.DateFormat, MaxDateFormatLength},
		{"export.fallbackSuffix", c.Export.FallbackSuffix, MaxSuffixLength},
		{"export.outputDir", c.Export.OutputDir, MaxPathLength},
		{"pdf.pageSize", c.PDF.PageSize, MaxPageSizeLength},
		{"pdf.timeout", c.PDF.Timeout, MaxDurationLength},
		{"watch.debounce", c.Watch.Debounce, MaxDurationLength},
		{"session.path", c.Session.Path, MaxPathLength},
	}
	for _, f := range fields {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if err := validateOneOf("render.engine", c.Render.Engine, validEngines); err != nil {
		return err
	}
	if err := validateOneOf("export.format", c.Export.Format, validFormats); err != nil {
		return err
	}
	if err := validateOneOf("pdf.pageSize", c.PDF.PageSize, validPageSizes); err != nil {
		return err
	}

	if c.Export.DateFormat != "" {
		if _, err := dateutil.Layout(c.Export.DateFormat); err != nil {
			return fmt.Errorf("export.dateFormat: %w", err)
		}
	}

	if c.PDF.Margin != 0 && (c.PDF.Margin < MinMargin || c.PDF.Margin > MaxMargin) {
		return fmt.Errorf("%w: pdf.margin must be between %.2f and %.1f inches, got %.2f",
			ErrInvalidValue, MinMargin, MaxMargin, c.PDF.Margin)
	}

	if err := validateDuration("pdf.timeout", c.PDF.Timeout); err != nil {
		return err
	}
	return validateDuration("watch.debounce", c.Watch.Debounce)
}

// validateFieldLength checks if a field exceeds its maximum allowed length.
func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// validateOneOf accepts an empty value or one of allowed, case-insensitively.
func validateOneOf(fieldName, value string, allowed []string) error {
	if value == "" {
		return nil
	}
	for _, a := range allowed {
		if strings.EqualFold(value, a) {
			return nil
		}
	}
	return fmt.Errorf("%w: %s %q (must be one of %s)", ErrInvalidValue, fieldName, value, strings.Join(allowed, ", "))
}

func validateDuration(fieldName, value string) error {
	if value == "" {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("%w: %s %q: %v", ErrInvalidValue, fieldName, value, err)
	}
	if d <= 0 {
		return fmt.Errorf("%w: %s must be positive, got %s", ErrInvalidValue, fieldName, value)
	}
	return nil
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{
		Render: RenderConfig{Engine: DefaultEngine},
		Export: ExportConfig{
			DateFormat:     dateutil.DefaultDateFormat,
			FallbackSuffix: DefaultFallbackSuffix,
			Format:         DefaultFormat,
		},
		PDF: PDFConfig{
			PageSize: DefaultPageSize,
			Margin:   DefaultMargin,
			Timeout:  DefaultTimeout,
		},
		Watch:   WatchConfig{Debounce: DefaultDebounce},
		Session: SessionConfig{Path: DefaultSessionPath},
	}
}

// LoadConfig loads configuration from a file path or config name.
// If nameOrPath contains a path separator, it's treated as a file path.
// Otherwise, it's searched in the current directory and the user config
// directory. Values absent from the file keep their DefaultConfig value.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	configPath := nameOrPath
	if !fileutil.IsFilePath(nameOrPath) {
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
	if err := decodeStrict(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrConfigParse, configPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SearchPaths returns the candidate files LoadConfig tries for a config name,
// in lookup order.
func SearchPaths(name string) []string {
	extensions := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(extensions)*2)
	for _, ext := range extensions {
		paths = append(paths, name+ext)
	}
	if userConfigDir, err := os.UserConfigDir(); err == nil {
		for _, ext := range extensions {
			paths = append(paths, filepath.Join(userConfigDir, DefaultConfigDirName, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	tried := SearchPaths(name)
	for _, p := range tried {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(tried, ", "))
}
