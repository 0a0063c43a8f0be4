package collect

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/hayeah/collect/fstree"
)

// Config is the user configuration file.
type Config struct {
	// Extensions is the default extension set for scan and copy.
	Extensions []string `toml:"extensions"`
	// Gitignore makes scans skip paths matched by .gitignore files.
	Gitignore bool `toml:"gitignore"`
	// Journal is the SQLite journal location. Empty disables journaling.
	Journal  string `toml:"journal"`
	LogLevel string `toml:"log_level"`
	// LogFormat is "json" for JSON lines on stderr, or "console" for devslog output.
	LogFormat string `toml:"log_format"`
}

// DefaultConfig is the configuration used for keys a config file leaves out.
func DefaultConfig() *Config {
	cfg := &Config{
		Extensions: slices.Clone(fstree.DefaultExtensions),
		LogLevel:   "info",
		LogFormat:  "json",
	}
	if dir, err := os.UserConfigDir(); err == nil {
		cfg.Journal = filepath.Join(dir, "collect", "journal.db")
	}
	return cfg
}

// DefaultConfigPath is where the config file is looked up when neither --config nor
// COLLECT_CONFIG is set.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "collect", "config.toml"), nil
}

// LoadConfig reads the config file at path over the defaults. A missing file is an
// error matching fs.ErrNotExist.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config file %s: %w", path, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("unknown keys in config %s: %s", path, strings.Join(keys, ", "))
	}

	switch cfg.LogFormat {
	case "json", "console":
	default:
		return nil, fmt.Errorf("unknown log_format %q in config %s: use json or console", cfg.LogFormat, path)
	}

	cfg.Extensions = fstree.NormalizeExtensions(cfg.Extensions)
	return cfg, nil
}

// ProvideConfig loads the config file named by the command line or the environment,
// which must exist. Otherwise the file at the default location is used when present.
func ProvideConfig(args *Args) (*Config, error) {
	if args.Config != "" {
		return LoadConfig(args.Config)
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return DefaultConfig(), nil
	}
	cfg, err := LoadConfig(path)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	return cfg, err
}

// extensions picks the command line set over the configured one.
func (c *Config) extensions(flagExts []string) []string {
	if exts := fstree.NormalizeExtensions(flagExts); len(exts) > 0 {
		return exts
	}
	return c.Extensions
}
