package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "PLUGSYNC"

// Config holds the resolved plugsync configuration.
type Config struct {
	// Sources lists the manifest source URLs to check.
	Sources []string `mapstructure:"sources"`

	// PluginsDir is the directory holding loose plugin files.
	PluginsDir string `mapstructure:"plugins_dir"`

	// ArchivePath is the zip file used as a virtual plugins folder when
	// SaveToArchive is set.
	ArchivePath string `mapstructure:"archive_path"`

	// SaveToArchive stores plugin files as archive entries instead of loose
	// files.
	SaveToArchive bool `mapstructure:"save_to_archive"`

	// Notifications controls whether update-available notifications are
	// emitted. Failure notifications are always emitted.
	Notifications bool `mapstructure:"notifications"`

	// ConfigDir holds plugsync state such as the installed-plugin registry.
	ConfigDir string `mapstructure:"config_dir"`
}

// Load reads configuration from the given file path (or the default
// locations when empty), environment variables with the PLUGSYNC prefix, and
// built-in defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".plugsync"))
		}
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("sources", []string{})
	v.SetDefault("plugins_dir", "plugins")
	v.SetDefault("archive_path", "plugins.zip")
	v.SetDefault("save_to_archive", false)
	v.SetDefault("notifications", true)
	v.SetDefault("config_dir", defaultConfigDir())
}

func defaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".plugsync"
	}
	return filepath.Join(home, ".plugsync")
}
