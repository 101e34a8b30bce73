// Package logging sets up the engine's structured loggers: one
// logrus.Logger per subsystem strand, writing to both the console and a
// shared file sink under <base>/logs/engine.log. Grounded on
// evalgo-org-eve's common/logging.go (global logger + io.Writer sink) and
// common/logger.go (LoggerConfig/NewLogger), scoped down to this engine's
// single file sink instead of evalgo-org-eve's stdout/stderr splitter.
package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Sink owns the shared file handle every strand logger writes through,
// alongside the console. Close once at shutdown.
type Sink struct {
	file io.WriteCloser
}

// Open creates <baseDir>/logs/engine.log (and the logs directory, if
// missing) and returns a Sink ready to back strand loggers.
func Open(baseDir string) (*Sink, error) {
	logsDir := filepath.Join(baseDir, "logs")
	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(filepath.Join(logsDir, "engine.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}
	return &Sink{file: f}, nil
}

// Close releases the underlying log file.
func (s *Sink) Close() error {
	return s.file.Close()
}

// For returns a logger tagged with the given strand name, writing to both
// stdout and the sink's file. Every log entry carries a "strand" field so
// console/file lines from different strands can be told apart.
func (s *Sink) For(strand string) *logrus.Entry {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	logger.SetOutput(io.MultiWriter(os.Stdout, s.file))
	return logger.WithField("strand", strand)
}
