package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"github.com/tartampluch/go-tzconv/internal/config"
	"github.com/tartampluch/go-tzconv/internal/engine"
	"github.com/tartampluch/go-tzconv/internal/prefs"
	"github.com/tartampluch/go-tzconv/internal/ui"
	"github.com/tartampluch/go-tzconv/internal/zone"
)

// main is the application entry point.
// It delegates execution to runMain so that deferred calls (like closing the
// log file) run before the process terminates.
func main() {
	os.Exit(runMain())
}

// runMain manages the application lifecycle, argument parsing, and exit codes.
func runMain() int {
	// -------------------------------------------------------------------------
	// 1. CLI Argument Parsing
	// -------------------------------------------------------------------------
	showVersion := flag.Bool(config.FlagVersion, false, config.FlagDescVersion)
	debugMode := flag.Bool(config.FlagDebug, false, config.FlagDescDebug)
	flag.Parse()

	if *showVersion {
		printVersion()
		return config.ExitCodeSuccess
	}

	// -------------------------------------------------------------------------
	// 2. Logging Initialization
	// -------------------------------------------------------------------------
	logCloser := setupLogging(*debugMode)
	if logCloser != nil {
		defer func() {
			_ = logCloser.Close()
		}()
	}

	// -------------------------------------------------------------------------
	// 3. Context & Signal Handling
	// -------------------------------------------------------------------------
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logStartupInfo()

	// -------------------------------------------------------------------------
	// 4. Application Logic
	// -------------------------------------------------------------------------
	if err := run(ctx); err != nil {
		slog.Error(config.ErrAppFailed,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err,
		)
		return config.ExitCodeError
	}

	slog.Info(config.MsgAppStop, config.LogKeyComponent, config.CompMain)
	return config.ExitCodeSuccess
}

// run builds the zone catalog, restores the last session, and starts the UI loop.
func run(ctx context.Context) error {
	a := app.NewWithID(config.AppID)

	store := prefs.New(a.Preferences())
	store.RecordRun(config.Version)

	settings := loadSettings()

	catalog, err := zone.Build(zone.NewSystemSource(), time.Now())
	if err != nil {
		return fmt.Errorf("%s: %w", config.ErrCatalogBuild, err)
	}

	snap := engine.Bootstrap(catalog, store, zone.IDs(settings.DefaultSelectedZones...), engine.RealClock{})
	state, err := engine.NewState(catalog, snap)
	if err != nil {
		return err
	}

	gui := ui.NewTzConvApp(a, state, engine.NewRenderer(catalog), store, settings)

	// Lifecycle Bridge:
	// A signal bypasses the window close intercept, so flush here as well.
	go func() {
		<-ctx.Done()
		slog.Info(config.MsgCtxCancel, config.LogKeyComponent, config.CompMain)
		fyne.Do(func() {
			if err := gui.Persist(); err != nil {
				slog.Error(config.MsgPrefsFailed,
					config.LogKeyComponent, config.CompMain,
					config.LogKeyError, err)
			}
			a.Quit()
		})
	}()

	// Blocks until the main window closes.
	gui.Run()

	return nil
}

// loadSettings reads the optional settings file, falling back to the
// embedded defaults when it cannot be used.
func loadSettings() *config.Settings {
	path, err := config.SettingsPath()
	if err != nil {
		slog.Warn(config.MsgSettingsInvalid,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyError, err)
		return config.DefaultSettings()
	}

	settings, err := config.LoadSettings(path)
	if err != nil {
		slog.Warn(config.MsgSettingsInvalid,
			config.LogKeyComponent, config.CompMain,
			config.LogKeyPath, path,
			config.LogKeyError, err)
		return config.DefaultSettings()
	}
	return settings
}

// printVersion outputs the build information to stdout.
func printVersion() {
	fmt.Printf(config.MsgVersionOutput,
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

// setupLogging configures the default slog logger.
func setupLogging(debugMode bool) io.Closer {
	var writers []io.Writer
	var logFile *os.File

	writers = append(writers, os.Stdout)

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

	slog.SetDefault(slog.New(slog.NewJSONHandler(io.MultiWriter(writers...), opts)))

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
