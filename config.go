package gamutcheck

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Config is the process-level configuration threaded into a Pipeline.
type Config struct {
	// LogLevel is a logrus level name: trace, debug, info, warn, error.
	LogLevel string
	// LogOutput receives diagnostics, os.Stderr when nil.
	LogOutput io.Writer
	// Rounding is the output-size rule of scale steps.
	Rounding RoundingRule
	// JPEGQuality is used by the JPEG encoder (1-100).
	JPEGQuality int
	// TIFFDeflate enables deflate compression in the TIFF encoder.
	TIFFDeflate bool
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		LogLevel:    defaultLogLevel,
		Rounding:    RoundHalfUp,
		JPEGQuality: defaultJPEGQuality,
	}
}

// NewLogger builds a dedicated logger for the configured verbosity.
func (c Config) NewLogger() (*logrus.Logger, error) {
	lvl := c.LogLevel
	if lvl == "" {
		lvl = defaultLogLevel
	}
	level, err := logrus.ParseLevel(lvl)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	if c.LogOutput != nil {
		l.SetOutput(c.LogOutput)
	} else {
		l.SetOutput(os.Stderr)
	}
	return l, nil
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
