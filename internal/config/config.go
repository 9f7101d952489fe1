// Package config layers defaults, an optional YAML file, TQC_* environment
// variables and command-line flags into one Config.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/telequebec-dl/tqc/internal/api"
	"github.com/telequebec-dl/tqc/internal/downloader"
)

// Keys understood in the config file and as TQC_<KEY> environment variables
const (
	KeyAPIBase     = "api_base"
	KeyPlayerBase  = "player_base"
	KeyDownloader  = "downloader"
	KeyOutputDir   = "output_dir"
	KeyTimeout     = "timeout"
	KeyAutoInstall = "auto_install"
	KeyDebug       = "debug"

	EnvPrefix = "TQC"
)

// flagNames maps config keys to the command-line flags that override them
var flagNames = map[string]string{
	KeyAPIBase:     "api-base",
	KeyPlayerBase:  "player-base",
	KeyDownloader:  "downloader",
	KeyOutputDir:   "output-dir",
	KeyTimeout:     "timeout",
	KeyAutoInstall: "auto-install",
	KeyDebug:       "debug",
}

// Config is the resolved runtime configuration
type Config struct {
	APIBase     string
	PlayerBase  string
	Downloader  string
	OutputDir   string
	Timeout     time.Duration
	AutoInstall bool
	Debug       bool

	// File is the config file that was read, empty when none was
	File string
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyAPIBase, api.DefaultBaseURL)
	v.SetDefault(KeyPlayerBase, downloader.DefaultPlayerBase)
	v.SetDefault(KeyDownloader, downloader.DefaultExecutable)
	v.SetDefault(KeyOutputDir, ".")
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyAutoInstall, false)
	v.SetDefault(KeyDebug, false)
}

// DefaultPath returns <user config dir>/tqc/config.yaml
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "tqc", "config.yaml"), nil
}

// Load resolves the configuration. cfgFile names an explicit config file,
// which must exist; when empty the default path is used if present. Flags
// that were set on the command line take precedence over everything else.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagNames {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag --%s: %w", name, err)
				}
			}
		}
	}

	if cfgFile == "" {
		if path, err := DefaultPath(); err == nil {
			if _, statErr := os.Stat(path); statErr == nil {
				cfgFile = path
			}
		}
	}
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	}

	cfg := &Config{
		APIBase:     v.GetString(KeyAPIBase),
		PlayerBase:  v.GetString(KeyPlayerBase),
		Downloader:  v.GetString(KeyDownloader),
		OutputDir:   v.GetString(KeyOutputDir),
		Timeout:     v.GetDuration(KeyTimeout),
		AutoInstall: v.GetBool(KeyAutoInstall),
		Debug:       v.GetBool(KeyDebug),
		File:        v.ConfigFileUsed(),
	}
	return cfg, nil
}

// Validate rejects settings the commands cannot work with
func (c *Config) Validate() error {
	var errs []error
	if err := absoluteURL(KeyAPIBase, c.APIBase); err != nil {
		errs = append(errs, err)
	}
	if err := absoluteURL(KeyPlayerBase, c.PlayerBase); err != nil {
		errs = append(errs, err)
	}
	if c.Downloader == "" {
		errs = append(errs, errors.New("downloader: must not be empty"))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout: must be positive, got %s", c.Timeout))
	}
	return errors.Join(errs...)
}

func absoluteURL(key, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s: must not be empty", key)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" || u.Host == "" {
		return fmt.Errorf("%s: %q is not an absolute http(s) URL", key, raw)
	}
	return nil
}
