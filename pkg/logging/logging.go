package logging

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/frux-technologies/parcel/pkg/errors"
)

const (
	// EnvStateDir overrides the directory the log file is written to
	EnvStateDir = "PARCEL_STATE_DIR"

	appDirName  = "parcel"
	logFileName = "parcel.log"
)

// SetupLogger configures the global logger for the given -v count.
// Records go to stderr and are appended to parcel.log in the state directory.
func SetupLogger(verbosity int) {
	zerolog.SetGlobalLevel(levelFor(verbosity))

	writers := []io.Writer{zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}}

	logPath := logFilePath()
	file, err := openLogFile(logPath)
	if err == nil {
		writers = append(writers, file)
	}

	ctx := zerolog.New(io.MultiWriter(writers...)).With().Timestamp()
	if verbosity >= 2 {
		ctx = ctx.Caller()
	}
	log.Logger = ctx.Logger()

	if err != nil {
		log.Warn().Err(err).Str("path", logPath).Msg("Log file unavailable, logging to console only")
	}
	log.Debug().Int("verbosity", verbosity).Str("logFile", logPath).Msg("Logger initialized")
}

func levelFor(verbosity int) zerolog.Level {
	switch {
	case verbosity <= 0:
		return zerolog.WarnLevel
	case verbosity == 1:
		return zerolog.InfoLevel
	case verbosity == 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// GetLogger returns the global logger tagged with a component name
func GetLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// logFilePath prefers PARCEL_STATE_DIR over the XDG state directory.
func logFilePath() string {
	if dir := os.Getenv(EnvStateDir); dir != "" {
		return filepath.Join(dir, logFileName)
	}
	return filepath.Join(xdg.StateHome, appDirName, logFileName)
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to create log directory").
			WithDetail("path", path)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to open log file").
			WithDetail("path", path)
	}
	return file, nil
}

// LogOperationStart logs the start of an operation and returns a function
// that logs its completion with the elapsed time.
func LogOperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().Str("operation", operation).Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
