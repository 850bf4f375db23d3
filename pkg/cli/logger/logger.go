package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

var (
	mu      sync.Mutex
	base    *logrus.Logger
	logFile *os.File
	once    sync.Once
)

// LogDir is where log files are written.
const LogDir = "tmp"

func setup() {
	base = logrus.New()
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})

	// Create log directory if it doesn't exist
	if err := os.MkdirAll(LogDir, 0755); err != nil {
		// If we can't create log dir, just use stderr
		base.SetOutput(os.Stderr)
		return
	}

	// Create log file with timestamp
	logFileName := filepath.Join(LogDir, fmt.Sprintf("cli-%s.log", time.Now().Format("20060102-150405")))

	f, err := os.OpenFile(logFileName, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		// If we can't open log file, use stderr
		base.SetOutput(os.Stderr)
		return
	}

	// The TUI owns the terminal, so logs go only to the file
	logFile = f
	base.SetOutput(f)
}

func get() *logrus.Logger {
	once.Do(setup)
	return base
}

// Logger returns the shared logger for injection into services.
func Logger() logrus.FieldLogger {
	return get().WithField("app", "web-cloner")
}

// SetDebug toggles debug level logging.
func SetDebug(debug bool) {
	if debug {
		get().SetLevel(logrus.DebugLevel)
		return
	}
	get().SetLevel(logrus.InfoLevel)
}

// Log writes a log message
func Log(format string, v ...interface{}) {
	get().Infof(format, v...)
}

// LogError writes an error log message
func LogError(err error, format string, v ...interface{}) {
	get().WithError(err).Errorf(format, v...)
}

// CloseLog closes the log file
func CloseLog() {
	mu.Lock()
	defer mu.Unlock()
	if logFile != nil {
		logFile.Close()
		logFile = nil
		base.SetOutput(os.Stderr)
	}
}
