package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

var (
	mu     sync.RWMutex
	level            = zerolog.InfoLevel
	format           = FormatJSON
	out    io.Writer = os.Stdout
)

// Configure sets the level and output format of loggers created afterwards.
// An empty level keeps the current one.
func Configure(levelName, outputFormat string) error {
	mu.Lock()
	defer mu.Unlock()
	if levelName != "" {
		lvl, err := zerolog.ParseLevel(strings.ToLower(levelName))
		if err != nil {
			return fmt.Errorf("log level %q: %w", levelName, err)
		}
		level = lvl
	}
	switch outputFormat {
	case "", FormatJSON:
		format = FormatJSON
	case FormatConsole:
		format = FormatConsole
	default:
		return fmt.Errorf("unknown log format %q", outputFormat)
	}
	return nil
}

// SetOutput redirects loggers created afterwards to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
}

// ZerologLogger implements Logger using rs/zerolog.
type ZerologLogger struct {
	log zerolog.Logger
}

// NewZerologLogger creates a ZerologLogger tagged with the component field.
func NewZerologLogger(component string) Logger {
	mu.RLock()
	w, lvl, f := out, level, format
	mu.RUnlock()

	if f == FormatConsole || strings.ToLower(os.Getenv("APP_ENV")) == "dev" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: f != FormatConsole}
	}
	z := zerolog.New(w).Level(lvl).With().Timestamp().Str("component", component).Logger()
	return &ZerologLogger{log: z}
}

func (l *ZerologLogger) Debugf(format string, args ...any) {
	l.log.Debug().Msgf(format, args...)
}

func (l *ZerologLogger) Debugw(msg string, fields map[string]any) {
	l.log.Debug().Fields(fields).Msg(msg)
}

func (l *ZerologLogger) Infof(format string, args ...any) {
	l.log.Info().Msgf(format, args...)
}

func (l *ZerologLogger) Warnf(format string, args ...any) {
	l.log.Warn().Msgf(format, args...)
}

func (l *ZerologLogger) Errorf(format string, args ...any) {
	l.log.Error().Msgf(format, args...)
}
