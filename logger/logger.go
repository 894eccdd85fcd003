package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type LogConfig struct {
	Level      string // trace, debug, info, warn, error
	Format     string // console or json
	TimeFormat string
	Output     string // stdout, stderr or a file path
}

func DefaultConfig() LogConfig {
	return LogConfig{
		Level:      "info",
		Format:     "console",
		TimeFormat: time.RFC3339,
		Output:     "stdout",
	}
}

var (
	mu      sync.Mutex
	logFile *os.File
)

func noop() error { return nil }

// Setup replaces the global zerolog logger. When config.Output is a file
// path the returned func closes that file; a file opened by an earlier Setup
// is closed once the new logger is in place.
func Setup(config LogConfig) (func() error, error) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.Level))
	if err != nil {
		return noop, err
	}

	var (
		output io.Writer
		file   *os.File
	)

	switch config.Output {
	case "", "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err = os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return noop, err
		}
		output = file
	}

	zerolog.SetGlobalLevel(level)

	if config.TimeFormat != "" {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	if strings.ToLower(config.Format) != "json" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: config.TimeFormat,
		}
	}

	mu.Lock()
	defer mu.Unlock()

	log.Logger = zerolog.New(output).With().Timestamp().Logger()

	if logFile != nil {
		logFile.Close()
	}
	logFile = file

	if file == nil {
		return noop, nil
	}

	var once sync.Once

	return func() error {
		err := os.ErrClosed
		once.Do(func() {
			mu.Lock()
			defer mu.Unlock()

			if logFile == file {
				logFile = nil
			}
			err = file.Close()
		})
		return err
	}, nil
}

func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}
