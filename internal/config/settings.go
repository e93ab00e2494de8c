package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/viper"
)

// Settings holds the user-tunable options of a session.
type Settings struct {
	DBPath   string `mapstructure:"db_path"`
	Language string `mapstructure:"language"`
	PageSize int    `mapstructure:"page_size"`
	Color    bool   `mapstructure:"color"`
	Debug    bool   `mapstructure:"debug"`
}

// DefaultSettings returns the settings used when nothing else is configured.
func DefaultSettings() Settings {
	return Settings{
		DBPath:   DefaultDBPath,
		Language: DefaultLanguage,
		PageSize: DefaultPageSize,
		Color:    DefaultColor,
	}
}

// NewViper returns a viper instance with defaults, search paths and the
// GOCONTACTS_ environment prefix registered. Flags are bound by the caller.
func NewViper() *viper.Viper {
	v := viper.New()

	d := DefaultSettings()
	v.SetDefault(SettingDBPath, d.DBPath)
	v.SetDefault(SettingLanguage, d.Language)
	v.SetDefault(SettingPageSize, d.PageSize)
	v.SetDefault(SettingColor, d.Color)
	v.SetDefault(SettingDebug, d.Debug)

	v.SetConfigName(SettingsFileName)
	v.SetConfigType(SettingsFileType)
	v.AddConfigPath(".")
	if dir, err := os.UserConfigDir(); err == nil {
		v.AddConfigPath(filepath.Join(dir, BinaryName))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	return v
}

// LoadSettings reads the optional config file into v and decodes the result.
// A missing config file is not an error.
func LoadSettings(v *viper.Viper, explicitPath string) (Settings, error) {
	if explicitPath != "" {
		v.SetConfigFile(explicitPath)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Settings{}, fmt.Errorf("%s: %w", ErrSettingsRead, err)
		}
		slog.Debug(MsgSettingsNone, LogKeyComponent, CompConfig)
	}

	s := DefaultSettings()
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("%s: %w", ErrSettings, err)
	}
	s.Language = strings.ToLower(strings.TrimSpace(s.Language))

	if err := s.Validate(); err != nil {
		return Settings{}, err
	}

	slog.Debug(MsgSettingsLoaded,
		LogKeyComponent, CompConfig,
		LogKeyFile, v.ConfigFileUsed(),
		LogKeyLang, s.Language,
		LogKeyPath, s.DBPath,
	)
	return s, nil
}

// Validate checks the settings for values the session cannot work with.
func (s Settings) Validate() error {
	if s.PageSize < 1 {
		return errors.New(ErrPageSize)
	}
	if !slices.Contains(SupportedLanguages, s.Language) {
		return fmt.Errorf("%s: %q", ErrLanguage, s.Language)
	}
	return nil
}
