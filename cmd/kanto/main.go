package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/fang"
	charmLog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/hylla/kanto/internal/app"
	"github.com/hylla/kanto/internal/cloud"
	"github.com/hylla/kanto/internal/config"
	"github.com/hylla/kanto/internal/platform"
	"github.com/hylla/kanto/internal/storage"
	"github.com/hylla/kanto/internal/tui"
)

// version stores a package-level helper value.
var version = "dev"

// program represents program data used by this package.
type program interface {
	Run() (tea.Model, error)
}

// programFactory stores a package-level helper value.
var programFactory = func(m tea.Model) program {
	return tea.NewProgram(m)
}

// main handles main.
func main() {
	if err := fang.Execute(context.Background(), newRootCmd(os.Stdout, os.Stderr)); err != nil {
		os.Exit(1)
	}
}

// rootOptions collects the flag and environment overrides shared by every
// command.
type rootOptions struct {
	configPath string
	saveDir    string
	logLevel   string
	keyB64     string
	appName    string
	devMode    bool
}

// newRootCmd builds the command tree. Running the root with no subcommand
// starts the board.
func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}

	opts := &rootOptions{}
	defaultDevMode := version == "dev"
	if envDev, ok := parseBoolEnv("KANTO_DEV_MODE"); ok {
		defaultDevMode = envDev
	}

	cmd := &cobra.Command{
		Use:           "kanto",
		Short:         "A terminal kanban board with encrypted local and cloud saves",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd.Context(), stdout, stderr, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", envOr("KANTO_CONFIG", ""), "path to config JSON")
	cmd.PersistentFlags().StringVar(&opts.saveDir, "save-dir", envOr("KANTO_SAVE_DIR", ""), "directory for local save files")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", envOr("KANTO_LOG_LEVEL", "info"), "log level (debug|info|warn|error)")
	cmd.PersistentFlags().StringVar(&opts.keyB64, "encryption-key", "", "base64 encryption key for this run only")
	cmd.PersistentFlags().StringVar(&opts.appName, "app", envOr("KANTO_APP_NAME", "kanto"), "application name for config/data path resolution")
	cmd.PersistentFlags().BoolVar(&opts.devMode, "dev", defaultDevMode, "use dev mode paths (<app>-dev)")

	cmd.AddCommand(newResetConfigCmd(stdout, opts))
	cmd.AddCommand(newGenerateKeyCmd(stdout, stderr, opts))
	return cmd
}

// runTUI wires the service stack and hands the terminal to the board.
func runTUI(ctx context.Context, stdout, stderr io.Writer, opts *rootOptions) error {
	paths, cfg, warn, err := resolveRuntime(opts)
	if err != nil {
		return err
	}

	logger, err := newRuntimeLogger(stderr, opts.appName, opts.logLevel, os.Getenv("KANTO_DEV_LOG"), time.Now)
	if err != nil {
		return fmt.Errorf("configure runtime logger: %w", err)
	}
	// Keep TUI rendering clean: runtime logs stay in the dev-file sink while
	// the board is active.
	logger.SetConsoleEnabled(false)
	defer func() {
		if closeErr := logger.Close(); closeErr != nil {
			_, _ = fmt.Fprintf(stderr, "warning: close runtime log sink: %v\n", closeErr)
		}
	}()

	logger.Info("startup configuration resolved", "app", opts.appName, "dev_mode", opts.devMode)
	logger.Debug("runtime paths resolved", "config_path", paths.ConfigPath, "save_dir", cfg.SaveDirectory, "theme_dir", paths.ThemeDir)
	if warn != nil {
		logger.Warn("running without a writable config dir", "err", warn)
	}
	if devPath := logger.DevLogPath(); devPath != "" {
		logger.Info("dev file logging enabled", "path", devPath)
	}

	svc := app.NewService(storage.New(cfg.SaveDirectory), cloudClientFromEnv(), paths, logger.TUISink())
	if opts.keyB64 != "" {
		if err := svc.InjectKey(opts.keyB64); err != nil {
			logger.Error("encryption key rejected", "err", err)
			return fmt.Errorf("inject encryption key: %w", err)
		}
		logger.Info("using out-of-band encryption key for this run")
	}

	runner := app.NewRunner(16)
	runner.Start()
	defer runner.Close()

	themes, err := tui.LoadThemeDir(paths.ThemeDir)
	if err != nil {
		logger.Warn("custom themes unavailable", "dir", paths.ThemeDir, "err", err)
	}

	m := tui.NewModel(cfg,
		tui.WithService(svc),
		tui.WithRunner(runner),
		tui.WithLogger(logger.TUISink()),
		tui.WithThemes(themes),
	)
	logger.Info("starting tui program loop")
	if _, err := programFactory(m).Run(); err != nil {
		logger.Error("tui program terminated with error", "err", err)
		return fmt.Errorf("run tui program: %w", err)
	}
	logger.Info("command flow complete", "command", "tui")
	return nil
}

// newResetConfigCmd rewrites the config file with defaults.
func newResetConfigCmd(stdout io.Writer, opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset-config",
		Short: "Rewrite the config file with defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, cfg, _, err := resolveRuntime(opts)
			if err != nil {
				return err
			}
			defaults := config.Default(cfg.SaveDirectory)
			if err := config.Reset(paths.ConfigPath, defaults); err != nil {
				return fmt.Errorf("reset config %q: %w", paths.ConfigPath, err)
			}
			_, _ = fmt.Fprintf(stdout, "config reset: %s\n", paths.ConfigPath)
			return nil
		},
	}
}

// newGenerateKeyCmd rotates the encryption key. Existing cloud saves are
// encrypted under the old key and become unreadable, so the command
// re-authenticates and requires an explicit confirmation before it deletes
// them and writes the fresh key.
func newGenerateKeyCmd(stdout, stderr io.Writer, opts *rootOptions) *cobra.Command {
	var (
		email    string
		password string
		yes      bool
	)
	cmd := &cobra.Command{
		Use:   "generate-key",
		Short: "Rotate the encryption key and delete cloud saves made with the old one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, cfg, _, err := resolveRuntime(opts)
			if err != nil {
				return err
			}
			client := cloudClientFromEnv()
			if client == nil {
				return fmt.Errorf("cloud backend is not configured; set KANTO_CLOUD_URL and KANTO_CLOUD_ANON_KEY")
			}

			confirmed := yes
			if !confirmed {
				confirmed, err = promptYes(cmd.InOrStdin(), stderr,
					"This deletes every cloud save encrypted with the current key. Type 'yes' to continue: ")
				if err != nil {
					return err
				}
			}

			logger, err := newRuntimeLogger(stderr, opts.appName, opts.logLevel, "", time.Now)
			if err != nil {
				return fmt.Errorf("configure runtime logger: %w", err)
			}
			svc := app.NewService(storage.New(cfg.SaveDirectory), client, paths, logger.TUISink())
			if err := svc.RotateKey(cmd.Context(), email, password, confirmed); err != nil {
				logger.Error("key rotation failed", "err", err)
				return fmt.Errorf("rotate encryption key: %w", err)
			}
			_, _ = fmt.Fprintf(stdout, "new encryption key written: %s\n", paths.KeyPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	cmd.Flags().BoolVar(&yes, "yes", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

// resolveRuntime turns flags and environment into paths and a validated
// config. A non-nil warn means the config dir is unusable and the run
// continues in memory with defaults.
func resolveRuntime(opts *rootOptions) (platform.Paths, config.Config, error, error) {
	paths, err := platform.DefaultPathsWithOptions(platform.Options{
		AppName: opts.appName,
		DevMode: opts.devMode,
	})
	if err != nil {
		return platform.Paths{}, config.Config{}, nil, err
	}
	if opts.configPath != "" {
		paths.ConfigPath = opts.configPath
	}
	if opts.saveDir != "" {
		paths.SaveDir = opts.saveDir
	}

	defaults := config.Default(paths.SaveDir)
	var warn error
	if err := platform.EnsureDirs(paths); err != nil {
		warn = err
		return paths, defaults, warn, nil
	}

	cfg, err := config.Load(paths.ConfigPath, defaults)
	if err != nil {
		return platform.Paths{}, config.Config{}, nil, fmt.Errorf("load config %q: %w", paths.ConfigPath, err)
	}
	if opts.saveDir != "" {
		cfg.SaveDirectory = opts.saveDir
	}
	return paths, cfg, nil, nil
}

// cloudClientFromEnv builds the hosted save-store client, or nil when the
// backend endpoint is not configured.
func cloudClientFromEnv() *cloud.Client {
	baseURL := strings.TrimSpace(os.Getenv("KANTO_CLOUD_URL"))
	anonKey := strings.TrimSpace(os.Getenv("KANTO_CLOUD_ANON_KEY"))
	if baseURL == "" || anonKey == "" {
		return nil
	}
	return cloud.NewClient(baseURL, anonKey)
}

// promptYes asks for an exact "yes" on the reader.
func promptYes(in io.Reader, out io.Writer, prompt string) (bool, error) {
	_, _ = fmt.Fprint(out, prompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false, fmt.Errorf("read confirmation: %w", err)
	}
	return strings.EqualFold(strings.TrimSpace(line), "yes"), nil
}

// runtimeLogger fans log events to a styled console sink and an optional
// logfmt dev-file sink.
type runtimeLogger struct {
	sinks          []*charmLog.Logger
	consoleSink    *charmLog.Logger
	consoleEnabled bool
	closeFile      func() error
	devLog         string
}

// newRuntimeLogger configures runtime log sinks from CLI/environment state.
// devLogDir empty disables the file sink.
func newRuntimeLogger(stderr io.Writer, appName, levelName, devLogDir string, now func() time.Time) (*runtimeLogger, error) {
	level, err := charmLog.ParseLevel(levelName)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", levelName, err)
	}
	if now == nil {
		now = time.Now
	}
	if stderr == nil {
		stderr = io.Discard
	}

	consoleLogger := charmLog.NewWithOptions(stderr, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.TextFormatter,
	})

	logger := &runtimeLogger{
		sinks:          []*charmLog.Logger{consoleLogger},
		consoleSink:    consoleLogger,
		consoleEnabled: true,
	}
	if devLogDir == "" {
		return logger, nil
	}

	devLogPath, err := devLogFilePath(devLogDir, appName, now().UTC())
	if err != nil {
		return nil, fmt.Errorf("resolve dev log file path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(devLogPath), 0o755); err != nil {
		return nil, fmt.Errorf("create dev log dir: %w", err)
	}
	logFile, err := os.OpenFile(devLogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open dev log file: %w", err)
	}

	// Keep file output parseable and unstyled while preserving styled console logs.
	fileLogger := charmLog.NewWithOptions(logFile, charmLog.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmLog.LogfmtFormatter,
	})
	logger.sinks = append(logger.sinks, fileLogger)
	logger.closeFile = logFile.Close
	logger.devLog = devLogPath
	return logger, nil
}

// DevLogPath returns the active dev log file path.
func (l *runtimeLogger) DevLogPath() string {
	if l == nil {
		return ""
	}
	return l.devLog
}

// TUISink returns the logger that stays safe while the TUI owns the
// terminal: the file sink when one is open, a silent logger otherwise.
func (l *runtimeLogger) TUISink() *charmLog.Logger {
	if l == nil || len(l.sinks) < 2 {
		return charmLog.New(io.Discard)
	}
	return l.sinks[len(l.sinks)-1]
}

// Close closes the optional dev-file sink.
func (l *runtimeLogger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	return l.closeFile()
}

// SetConsoleEnabled toggles whether the console sink receives runtime events.
func (l *runtimeLogger) SetConsoleEnabled(enabled bool) {
	if l == nil {
		return
	}
	l.consoleEnabled = enabled
}

// shouldLogToSink reports whether one sink should receive runtime output.
func (l *runtimeLogger) shouldLogToSink(sink *charmLog.Logger) bool {
	if l == nil || sink == nil {
		return false
	}
	if sink == l.consoleSink && !l.consoleEnabled {
		return false
	}
	return true
}

// Debug logs a debug event to all configured sinks.
func (l *runtimeLogger) Debug(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if !l.shouldLogToSink(sink) {
			continue
		}
		sink.Debug(msg, keyvals...)
	}
}

// Info logs an informational event to all configured sinks.
func (l *runtimeLogger) Info(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if !l.shouldLogToSink(sink) {
			continue
		}
		sink.Info(msg, keyvals...)
	}
}

// Warn logs a warning event to all configured sinks.
func (l *runtimeLogger) Warn(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if !l.shouldLogToSink(sink) {
			continue
		}
		sink.Warn(msg, keyvals...)
	}
}

// Error logs an error event to all configured sinks.
func (l *runtimeLogger) Error(msg string, keyvals ...any) {
	if l == nil {
		return
	}
	for _, sink := range l.sinks {
		if !l.shouldLogToSink(sink) {
			continue
		}
		sink.Error(msg, keyvals...)
	}
}

// devLogFilePath resolves a dev log file path for the current run day.
func devLogFilePath(baseDir, appName string, now time.Time) (string, error) {
	baseDir = strings.TrimSpace(baseDir)
	if !filepath.IsAbs(baseDir) {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("resolve working directory: %w", err)
		}
		baseDir = filepath.Join(cwd, baseDir)
	}
	name := fmt.Sprintf("%s-%s.log", appName, now.Format("2006-01-02"))
	return filepath.Join(baseDir, name), nil
}

// envOr returns the trimmed environment value or the fallback.
func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// parseBoolEnv reads a boolean environment variable.
func parseBoolEnv(key string) (bool, bool) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return false, false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return v, true
}
