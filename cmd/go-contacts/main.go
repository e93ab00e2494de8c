package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"slices"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tartampluch/go-contacts/internal/command"
	"github.com/tartampluch/go-contacts/internal/config"
	"github.com/tartampluch/go-contacts/internal/console"
	"github.com/tartampluch/go-contacts/internal/contact"
	"github.com/tartampluch/go-contacts/internal/i18n"
	"github.com/tartampluch/go-contacts/internal/session"
	"github.com/tartampluch/go-contacts/internal/storage"
)

// main is the application entry point.
// It delegates execution to runMain to ensure that deferred function calls
// (like closing log files) are executed before the process terminates.
func main() {
	os.Exit(runMain())
}

// runMain executes the root command and maps its result to an exit code.
func runMain() int {
	root := newRootCommand(config.NewViper(), os.Stdin, os.Stdout)
	if err := root.ExecuteContext(context.Background()); err != nil {
		return config.ExitCodeError
	}
	return config.ExitCodeSuccess
}

// newRootCommand builds the single interactive command. Flags override the
// config file and GOCONTACTS_* variables through v.
func newRootCommand(v *viper.Viper, in io.Reader, out io.Writer) *cobra.Command {
	var (
		showVersion bool
		configPath  string
	)

	cmd := &cobra.Command{
		Use:           config.BinaryName,
		Short:         config.CmdShort,
		Long:          config.CmdLong,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if showVersion {
				printVersion(cmd.OutOrStdout())
				return nil
			}
			settings, err := loadSettings(cmd, v, configPath)
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}

			logCloser := setupLogging(settings.Debug)
			if logCloser != nil {
				defer func() {
					_ = logCloser.Close() // Best effort close
				}()
			}
			logStartupInfo()

			if err := run(cmd.Context(), settings, in, cmd.OutOrStdout()); err != nil {
				slog.Error(config.ErrAppFailed,
					config.LogKeyComponent, config.CompMain,
					config.LogKeyError, err,
				)
				fmt.Fprintln(cmd.ErrOrStderr(), err)
				return err
			}

			slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
			return nil
		},
	}
	cmd.SetOut(out)

	f := cmd.Flags()
	f.BoolVar(&showVersion, config.FlagVersion, false, config.FlagDescVer)
	f.StringVar(&configPath, config.FlagConfig, "", config.FlagDescCfg)
	f.Bool(config.FlagDebug, false, config.FlagDescDbg)
	f.String(config.FlagDB, config.DefaultDBPath, config.FlagDescDB)
	f.String(config.FlagLang, config.DefaultLanguage, config.FlagDescLang)
	f.Bool(config.FlagNoColor, false, config.FlagDescNoCl)

	_ = v.BindPFlag(config.SettingDebug, f.Lookup(config.FlagDebug))
	_ = v.BindPFlag(config.SettingDBPath, f.Lookup(config.FlagDB))
	_ = v.BindPFlag(config.SettingLanguage, f.Lookup(config.FlagLang))

	return cmd
}

// loadSettings resolves the settings once flags are parsed. --no-color only
// overrides the color setting when it is true.
func loadSettings(cmd *cobra.Command, v *viper.Viper, configPath string) (config.Settings, error) {
	noColor, err := cmd.Flags().GetBool(config.FlagNoColor)
	if err != nil {
		return config.Settings{}, err
	}
	if noColor {
		v.Set(config.SettingColor, false)
	}
	return config.LoadSettings(v, configPath)
}

// newTranslator returns the catalogue for lang, which must be one of the
// embedded languages.
func newTranslator(lang string) (*i18n.Translator, error) {
	tr := i18n.New(lang)
	if !slices.Contains(tr.Languages(), lang) {
		return nil, fmt.Errorf("%s: %q", config.ErrLanguage, lang)
	}
	return tr, nil
}

// run wires the session collaborators and blocks until the session ends.
// Ctrl+C only aborts the pending prompt; SIGTERM ends the session, which
// still saves the book.
func run(parent context.Context, settings config.Settings, in io.Reader, out io.Writer) error {
	ctx, cancel := signal.NotifyContext(parent, syscall.SIGTERM)
	defer cancel()

	interrupts := make(chan os.Signal, config.ChannelBufferSize)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	tr, err := newTranslator(settings.Language)
	if err != nil {
		return err
	}
	book := contact.NewAddressBook()
	prompter := console.NewPrompter(in, out, interrupts)
	renderer := console.NewRenderer(out, settings.Color)

	sess := &session.Session{
		Book:     book,
		Snapshot: storage.NewSQLiteSnapshot(settings.DBPath),
		Dispatcher: command.New(book, command.Deps{
			Translator: tr,
			Clock:      contact.RealClock{},
			Prompter:   prompter,
			Renderer:   renderer,
			PageSize:   settings.PageSize,
		}),
		Prompter:   prompter,
		Renderer:   renderer,
		Translator: tr,
	}
	return sess.Run(ctx)
}

// printVersion outputs the build information.
func printVersion(w io.Writer) {
	fmt.Fprintf(w, config.MsgVersionOutput,
		config.AppName,
		config.Version,
		runtime.GOOS,
		runtime.GOARCH,
	)
}

// logStartupInfo logs environment details useful for debugging.
func logStartupInfo() {
	slog.Info(config.MsgAppStarting,
		config.LogKeyComponent, config.CompMain,
		slog.Group(config.LogKeyBuild,
			slog.String(config.LogKeyApp, config.AppName),
			slog.String(config.LogKeyVersion, config.Version),
			slog.String(config.LogKeyGoVer, runtime.Version()),
		),
		slog.Group(config.LogKeyEnv,
			slog.String(config.LogKeyOS, runtime.GOOS),
			slog.String(config.LogKeyArch, runtime.GOARCH),
			slog.Int(config.LogKeyPID, os.Getpid()),
		),
	)
}

// setupLogging configures the default slog logger. Stdout belongs to the
// interactive console, so logs go to a file in the user's cache directory and,
// in debug mode, to stderr as well.
func setupLogging(debugMode bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	if debugMode {
		writers = append(writers, os.Stderr)
	}

	if logPath, err := getLogFilePath(); err == nil {
		// O_TRUNC resets logs on restart to prevent indefinite growth.
		f, err := os.OpenFile(logPath, os.O_TRUNC|os.O_CREATE|os.O_WRONLY, config.FilePermUserRW)
		if err == nil {
			writers = append(writers, f)
			logFile = f
		} else {
			fmt.Fprintf(os.Stderr, config.MsgLogWarning, config.ErrLogFile, logPath, err)
		}
	}

	level := slog.LevelInfo
	if debugMode {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: debugMode,
	}

	logger := slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts))
	slog.SetDefault(logger)

	if logFile == nil {
		return nil
	}
	return logFile
}

// getLogFilePath determines the platform-specific cache directory for logs.
func getLogFilePath() (string, error) {
	cacheDir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCacheDir, err)
	}

	appDir := filepath.Join(cacheDir, config.AppID)
	if err := os.MkdirAll(appDir, config.DirPermUserRWX); err != nil {
		return "", fmt.Errorf("%s: %w", config.ErrCreateDir, err)
	}

	return filepath.Join(appDir, config.LogFileName), nil
}
