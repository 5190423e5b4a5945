// Package logger provides leveled log lines over the standard logger, with
// optional rotation to a file.
package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	appLogger *log.Logger
	debug     bool
)

// Init sets up logging to stdout and, when logDir is not empty, to a rotated
// file inside it. Debug lines are dropped unless verbose is true.
func Init(logDir string, verbose bool) error {
	debug = verbose

	if logDir == "" {
		appLogger = log.New(os.Stdout, "", log.LstdFlags)
		return nil
	}

	absLogDir, err := filepath.Abs(logDir)
	if err != nil {
		absLogDir = logDir
	}

	if err := os.MkdirAll(absLogDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory %s: %w", absLogDir, err)
	}

	currentDate := time.Now().Format("2006-01-02")

	appLogFile := &lumberjack.Logger{
		Filename:   filepath.Join(absLogDir, fmt.Sprintf("app-%s.log", currentDate)),
		MaxSize:    10, // MB
		MaxBackups: 30,
		MaxAge:     30, // days
		Compress:   true,
		LocalTime:  true,
	}

	out := io.MultiWriter(os.Stdout, appLogFile)
	appLogger = log.New(out, "", log.LstdFlags)

	// GORM and gin's default writers go through the standard logger.
	log.SetOutput(out)
	log.SetFlags(log.LstdFlags)

	appLogger.Printf("[INFO] Logger initialized, log file: %s", appLogFile.Filename)
	return nil
}

// SetOutput redirects log lines, mainly for tests.
func SetOutput(w io.Writer) {
	appLogger = log.New(w, "", 0)
}

// Writer returns the destination of log lines.
func Writer() io.Writer {
	if appLogger != nil {
		return appLogger.Writer()
	}
	return log.Writer()
}

// Info logs info level messages
func Info(format string, v ...interface{}) {
	output("[INFO] "+format, v...)
}

// Error logs error level messages
func Error(format string, v ...interface{}) {
	output("[ERROR] "+format, v...)
}

// Debug logs debug level messages
func Debug(format string, v ...interface{}) {
	if !debug {
		return
	}
	output("[DEBUG] "+format, v...)
}

func output(format string, v ...interface{}) {
	if appLogger != nil {
		appLogger.Printf(format, v...)
	} else {
		log.Printf(format, v...)
	}
}
