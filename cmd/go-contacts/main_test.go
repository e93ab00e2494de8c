package main

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tartampluch/go-contacts/internal/config"
)

// isolate keeps log files and config lookups inside the test directory.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("XDG_CACHE_HOME", filepath.Join(dir, "cache"))
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Chdir(dir)
	return dir
}

func execute(t *testing.T, input string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCommand(config.NewViper(), strings.NewReader(input), &out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestRootCommand_Version(t *testing.T) {
	isolate(t)
	out, _, err := execute(t, "", "--version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, config.AppName+" version "+config.Version))
}

func TestRootCommand_SessionPersists(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "data", "book.db")

	out, _, err := execute(t, "add ann 380931112233 birth=15.06.1990\nexit\n", "--db", db, "--no-color")
	require.NoError(t, err)
	assert.Contains(t, out, "Contact added successfully")
	assert.Contains(t, out, "Good bye!")

	_, err = os.Stat(db)
	require.NoError(t, err, "the book is saved on exit")

	out, _, err = execute(t, "phone ann\n", "--db", db, "--no-color")
	require.NoError(t, err, "end of input ends the session")
	assert.Contains(t, out, "380931112233")

	_, err = os.Stat(filepath.Join(dir, "cache", config.AppID, config.LogFileName))
	assert.NoError(t, err, "logs go to the cache directory")
}

func TestRootCommand_ConfigFile(t *testing.T) {
	dir := isolate(t)
	db := filepath.Join(dir, "from-config.db")
	cfg := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("db_path: "+db+"\n"), 0o600))

	_, _, err := execute(t, "exit\n", "--config", cfg, "--no-color")
	require.NoError(t, err)

	_, err = os.Stat(db)
	assert.NoError(t, err)
}

func TestRootCommand_InvalidSettings(t *testing.T) {
	isolate(t)

	_, errOut, err := execute(t, "exit\n", "--lang", "xx")
	assert.Error(t, err)
	assert.Contains(t, errOut, config.ErrLanguage)

	_, _, err = execute(t, "", "unexpected-arg")
	assert.Error(t, err)
}

func TestLoadSettings_NoColor(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantColor bool
	}{
		{"Flag absent", nil, true},
		{"Flag set", []string{"--no-color"}, false},
		{"Flag explicitly false", []string{"--no-color=false"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)
			v := config.NewViper()
			cmd := newRootCommand(v, strings.NewReader(""), io.Discard)
			require.NoError(t, cmd.ParseFlags(tt.args))

			settings, err := loadSettings(cmd, v, "")
			require.NoError(t, err)
			assert.Equal(t, tt.wantColor, settings.Color)
		})
	}
}

func TestNewTranslator(t *testing.T) {
	for _, lang := range config.SupportedLanguages {
		tr, err := newTranslator(lang)
		require.NoError(t, err, lang)
		assert.NotNil(t, tr)
	}

	_, err := newTranslator("de")
	assert.ErrorContains(t, err, config.ErrLanguage)
}
