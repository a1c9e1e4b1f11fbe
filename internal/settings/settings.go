// Package settings resolves plover's runtime settings from flags, PLOVER_*
// environment variables, an optional .env file and an optional
// .plover.yaml, in that order of precedence.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment variable plover reads.
const EnvPrefix = "PLOVER"

// Settings are the resolved runtime settings.
type Settings struct {
	Plopfile  string // Explicit plopfile path; empty means search upward from Cwd
	Cwd       string // Directory to start the plopfile search from
	Verbose   bool
	DryRun    bool
	LogLevel  string
	LogFormat string // "console" or "json"
}

// flagKeys maps command-line flag names to settings keys.
var flagKeys = map[string]string{
	"plopfile":   "plopfile",
	"cwd":        "cwd",
	"verbose":    "verbose",
	"dry-run":    "dry_run",
	"log-level":  "log.level",
	"log-format": "log.format",
}

// Load resolves settings for cmd. Flags that cmd does not define are
// ignored. dir is where .env and .plover.yaml are looked up before $HOME;
// an empty dir means the working directory.
func Load(cmd *cobra.Command, dir string) (*Settings, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting working directory: %w", err)
		}
		dir = wd
	}

	if err := loadEnvFile(dir); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("cwd", dir)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "console")

	v.SetConfigName(".plover")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(home)
	}

	// Enable environment variable overrides, e.g. PLOVER_LOG_LEVEL
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read .plover.yaml: %w", err)
		}
	}

	if cmd != nil {
		for name, key := range flagKeys {
			if f := cmd.Flags().Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("binding --%s: %w", name, err)
				}
			}
		}
	}

	s := &Settings{
		Plopfile:  v.GetString("plopfile"),
		Cwd:       v.GetString("cwd"),
		Verbose:   v.GetBool("verbose"),
		DryRun:    v.GetBool("dry_run"),
		LogLevel:  v.GetString("log.level"),
		LogFormat: v.GetString("log.format"),
	}

	if s.Cwd == "" {
		s.Cwd = dir
	}
	if !filepath.IsAbs(s.Cwd) {
		s.Cwd = filepath.Join(dir, s.Cwd)
	}
	if s.LogFormat != "console" && s.LogFormat != "json" {
		return nil, fmt.Errorf("invalid log format %q (want console or json)", s.LogFormat)
	}

	return s, nil
}

// loadEnvFile loads dir/.env if present. Variables already set in the
// environment win.
func loadEnvFile(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}
