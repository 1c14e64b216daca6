// Package observability provides structured logging for the lint pipeline.
package observability

import (
	"context"
	"encoding/json"
	"log"
	"time"
)

// LogLevel defines the logging verbosity level.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelError
)

// LogFormat defines the output format for logs.
type LogFormat int

const (
	LogFormatHuman LogFormat = iota
	LogFormatJSON
)

// Logger writes leveled, structured log lines.
type Logger struct {
	level  LogLevel
	format LogFormat
}

// NewLogger creates a logger with the specified config.
func NewLogger(level LogLevel, format LogFormat) *Logger {
	return &Logger{level: level, format: format}
}

// LogInfo logs an informational message with structured fields.
func (l *Logger) LogInfo(ctx context.Context, message string, fields map[string]interface{}) {
	if l.level > LogLevelInfo {
		return
	}
	l.emit("info", message, fields)
}

// LogWarning logs a warning message with structured fields. Warnings are
// always emitted; the pipeline uses them for per-file failures that must be
// visible without failing the run.
func (l *Logger) LogWarning(ctx context.Context, message string, fields map[string]interface{}) {
	l.emit("warning", message, fields)
}

func (l *Logger) emit(level, message string, fields map[string]interface{}) {
	if l.format == LogFormatJSON {
		record := map[string]interface{}{
			"level":     level,
			"message":   message,
			"timestamp": time.Now().Format(time.RFC3339),
		}
		for k, v := range fields {
			record[k] = v
		}
		encoded, err := json.Marshal(record)
		if err != nil {
			log.Printf("[%s] %s %v", level, message, fields)
			return
		}
		log.Print(string(encoded))
		return
	}

	if len(fields) == 0 {
		log.Printf("[%s] %s", level, message)
		return
	}
	log.Printf("[%s] %s %v", level, message, fields)
}
