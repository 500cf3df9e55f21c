// Package logger configures the global zerolog logger from command line options.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger holds logging options, embedded into each command as a flags group.
type Logger struct {
	Level   string `long:"log-level"    env:"LOG_LEVEL"    description:"Log level" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" default:"info"`
	Format  string `long:"log-format"   env:"LOG_FORMAT"   description:"Log format" choice:"text" choice:"json" default:"text"`
	NoColor bool   `long:"log-no-color" env:"LOG_NO_COLOR" description:"Disable colors in text format"`
}

// Setup installs the global logger writing to stderr.
func (l Logger) Setup() {
	l.SetupWriter(os.Stderr)
}

// SetupWriter installs the global logger writing to w.
func (l Logger) SetupWriter(w io.Writer) {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	out := w
	if l.Format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    l.NoColor,
			TimeFormat: time.DateTime,
		}
	}

	log.Logger = zerolog.New(out).With().Timestamp().Logger()
}
