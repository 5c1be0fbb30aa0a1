package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// RenameConfig is read by the planner and executor for one pass. It is a
// plain value; replanning always starts from a fresh copy.
type RenameConfig struct {
	Pattern       string
	StartNumber   int
	Recursive     bool // accepted for interface compatibility, not consulted by the scanner
	DryRun        bool
	Overwrite     bool
	Prefix        string
	Suffix        string
	EnableResize  bool
	ResizeWidth   int
	ResizeQuality int
	KeepOriginals bool
}

func Default() RenameConfig {
	return RenameConfig{
		Pattern:       "{name}",
		StartNumber:   1,
		ResizeWidth:   1920,
		ResizeQuality: 80,
	}
}

// UsesExif reports whether the pattern needs EXIF capture times, so the
// scanner only reads headers when asked to.
func (c RenameConfig) UsesExif() bool {
	return strings.Contains(c.Pattern, "{exif}")
}

func (c RenameConfig) Validate() error {
	if strings.TrimSpace(c.Pattern) == "" && c.Prefix == "" && c.Suffix == "" {
		return errors.New("a pattern or a prefix/suffix is required")
	}
	if c.EnableResize {
		if c.ResizeWidth <= 0 {
			return fmt.Errorf("resize width must be positive, got %d", c.ResizeWidth)
		}
		if c.ResizeQuality < 1 || c.ResizeQuality > 100 {
			return fmt.Errorf("resize quality must be between 1 and 100, got %d", c.ResizeQuality)
		}
	}
	return nil
}

// fileConfig mirrors the optional defaults file; nil fields keep the
// built-in default.
type fileConfig struct {
	Pattern       *string `toml:"pattern"`
	StartNumber   *int    `toml:"start_number"`
	Overwrite     *bool   `toml:"overwrite"`
	Prefix        *string `toml:"prefix"`
	Suffix        *string `toml:"suffix"`
	EnableResize  *bool   `toml:"enable_resize"`
	ResizeWidth   *int    `toml:"resize_width"`
	ResizeQuality *int    `toml:"resize_quality"`
	KeepOriginals *bool   `toml:"keep_originals"`
}

// DefaultPath is where LoadDefaults looks when no explicit path is given.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "picren", "config.toml")
}

// LoadDefaults layers the defaults file and environment over the built-in
// defaults. A missing file is not an error.
func LoadDefaults(path string) (RenameConfig, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			var fc fileConfig
			if err := toml.Unmarshal(data, &fc); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
			fc.apply(&cfg)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func (fc fileConfig) apply(cfg *RenameConfig) {
	if fc.Pattern != nil {
		cfg.Pattern = *fc.Pattern
	}
	if fc.StartNumber != nil {
		cfg.StartNumber = *fc.StartNumber
	}
	if fc.Overwrite != nil {
		cfg.Overwrite = *fc.Overwrite
	}
	if fc.Prefix != nil {
		cfg.Prefix = *fc.Prefix
	}
	if fc.Suffix != nil {
		cfg.Suffix = *fc.Suffix
	}
	if fc.EnableResize != nil {
		cfg.EnableResize = *fc.EnableResize
	}
	if fc.ResizeWidth != nil {
		cfg.ResizeWidth = *fc.ResizeWidth
	}
	if fc.ResizeQuality != nil {
		cfg.ResizeQuality = *fc.ResizeQuality
	}
	if fc.KeepOriginals != nil {
		cfg.KeepOriginals = *fc.KeepOriginals
	}
}

func applyEnv(cfg *RenameConfig) {
	if v := envOrEmpty("PICREN_PATTERN"); v != "" {
		cfg.Pattern = v
	}
	if v := envOrEmpty("PICREN_PREFIX"); v != "" {
		cfg.Prefix = v
	}
	if v := envOrEmpty("PICREN_SUFFIX"); v != "" {
		cfg.Suffix = v
	}
	if envTruthy("PICREN_DRY_RUN") {
		cfg.DryRun = true
	}
	if envTruthy("PICREN_OVERWRITE") {
		cfg.Overwrite = true
	}
}

func envOrEmpty(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func envTruthy(key string) bool {
	val := strings.TrimSpace(strings.ToLower(os.Getenv(key)))
	return val == "1" || val == "true" || val == "yes" || val == "y"
}
