package internal

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/quietriver/librarian/internal/config"
)

// SetupLogging mirrors log output to a per-run file under
// ~/.librarian/logs in addition to stderr.
func SetupLogging(subcommand string) error {
	logDir, err := config.LogsDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return err
	}

	timestamp := time.Now().Format("20060102-150405")
	logPath := filepath.Join(logDir, "librarian-"+subcommand+"-"+timestamp+".log")

	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}

	log.SetOutput(io.MultiWriter(os.Stderr, logFile))
	return nil
}
