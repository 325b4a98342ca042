package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-kit/log"
)

// New creates a logfmt logger writing to stdout and, when dir is not empty,
// also to a timestamped file inside dir.
func New(dir string) (log.Logger, error) {
	var w io.Writer = os.Stdout
	if dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create logs directory: %w", err)
		}

		name := fmt.Sprintf("gpatracker_%s.log", time.Now().Format("2006-01-02_15-04-05"))
		file, err := os.OpenFile(filepath.Join(dir, name), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		w = io.MultiWriter(os.Stdout, file)
	}

	return NewWithWriter(w), nil
}

// NewWithWriter wraps w in a logfmt logger with timestamp and caller.
func NewWithWriter(w io.Writer) log.Logger {
	logger := log.NewLogfmtLogger(log.NewSyncWriter(w))
	return log.With(logger, "ts", log.DefaultTimestampUTC, "caller", log.DefaultCaller)
}
