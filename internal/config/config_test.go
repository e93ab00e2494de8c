package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-contacts/internal/config"
)

// TestConstants_Integrity ensures critical constants are not empty or malformed.
func TestConstants_Integrity(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"AppName", config.AppName},
		{"AppID", config.AppID},
		{"Version", config.Version},
		{"ICalVersion", config.ICalVersion},
		{"ICalProdid", config.ICalProdid},
		{"DefaultDBPath", config.DefaultDBPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.NotEmpty(t, tt.value, "Critical constant %s should not be empty", tt.name)
		})
	}
}

// TestDefaults_Sanity checks that default values make sense logically.
func TestDefaults_Sanity(t *testing.T) {
	assert.Equal(t, 12, config.PhoneLength)
	assert.Equal(t, 2, config.DefaultPageSize, "show_all pages hold two contacts by default")
	assert.Equal(t, 2000, config.DefaultLeapYear, "Default leap year must be 2000 for consistency")
	assert.Contains(t, config.SupportedLanguages, config.DefaultLanguage)
	assert.ElementsMatch(t, []string{"good bye", "close", "exit"}, config.StopWords)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.Settings)
		wantErr string
	}{
		{"Defaults", func(*config.Settings) {}, ""},
		{"Ukrainian", func(s *config.Settings) { s.Language = "uk" }, ""},
		{"Zero page size", func(s *config.Settings) { s.PageSize = 0 }, config.ErrPageSize},
		{"Unknown language", func(s *config.Settings) { s.Language = "xx" }, config.ErrLanguage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := config.DefaultSettings()
			tt.mutate(&s)
			err := s.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadSettings_FromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "db_path: /tmp/book.bin\nlanguage: UK\npage_size: 5\ncolor: false\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	s, err := config.LoadSettings(config.NewViper(), path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/book.bin", s.DBPath)
	assert.Equal(t, "uk", s.Language, "language is normalized to lower case")
	assert.Equal(t, 5, s.PageSize)
	assert.False(t, s.Color)
}

func TestLoadSettings_EnvOverride(t *testing.T) {
	t.Setenv("GOCONTACTS_PAGE_SIZE", "3")
	t.Setenv("GOCONTACTS_DB_PATH", "env.bin")

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_size: 9\n"), 0o600))

	s, err := config.LoadSettings(config.NewViper(), path)
	require.NoError(t, err)
	assert.Equal(t, 3, s.PageSize, "environment wins over the config file")
	assert.Equal(t, "env.bin", s.DBPath)
}

func TestLoadSettings_MissingExplicitFile(t *testing.T) {
	_, err := config.LoadSettings(config.NewViper(), filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestLoadSettings_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("page_size: 0\n"), 0o600))

	_, err := config.LoadSettings(config.NewViper(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), config.ErrPageSize)
}
