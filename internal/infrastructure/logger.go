package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"shipreport/internal/config"
)

// consoleWriter receives console logs. Stdout carries only the
// confirmation line printed after a successful run.
var consoleWriter io.Writer = os.Stderr

// process-wide logger, built once by InitializeLogger
var logState struct {
	once   sync.Once
	mu     sync.Mutex
	logger *slog.Logger
	file   *os.File
}

var levelNames = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// InitializeLogger builds the process logger from cfg and installs it as
// the slog default. Later calls return the first logger unchanged.
func InitializeLogger(cfg config.LoggingConfig) (*slog.Logger, error) {
	var err error
	logState.once.Do(func() {
		var out io.Writer
		var file *os.File
		out, file, err = logOutput(cfg)
		if err != nil {
			return
		}

		logger := slog.New(&traceHandler{Handler: slog.NewJSONHandler(out, &slog.HandlerOptions{
			AddSource: ParseLogLevel(cfg.Level) == slog.LevelDebug,
			Level:     ParseLogLevel(cfg.Level),
		})})

		logState.mu.Lock()
		logState.logger = logger
		logState.file = file
		logState.mu.Unlock()
		slog.SetDefault(logger)
	})
	if err != nil {
		return nil, err
	}
	return GetLogger(), nil
}

// GetLogger returns the process logger, or the slog default before
// InitializeLogger ran
func GetLogger() *slog.Logger {
	logState.mu.Lock()
	defer logState.mu.Unlock()
	if logState.logger == nil {
		return slog.Default()
	}
	return logState.logger
}

// NewLogger builds a JSON logger writing to w, without touching global state
func NewLogger(w io.Writer, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: ParseLogLevel(level)})
	return slog.New(&traceHandler{Handler: handler})
}

// logOutput selects the destination for cfg.Output (console, file or both)
func logOutput(cfg config.LoggingConfig) (io.Writer, *os.File, error) {
	mode := strings.ToLower(cfg.Output)
	if mode != "file" && mode != "both" {
		return consoleWriter, nil, nil
	}

	file, err := openLogFile(cfg.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	if mode == "both" {
		return io.MultiWriter(consoleWriter, file), file, nil
	}
	return file, file, nil
}

// traceHandler stamps every record logged with a run context with its trace_id
type traceHandler struct {
	slog.Handler
}

func (h *traceHandler) Handle(ctx context.Context, r slog.Record) error {
	if traceID := GetTraceID(ctx); traceID != "" {
		r.AddAttrs(slog.String("trace_id", traceID))
	}
	return h.Handler.Handle(ctx, r)
}

func (h *traceHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithAttrs(attrs)}
}

func (h *traceHandler) WithGroup(name string) slog.Handler {
	return &traceHandler{Handler: h.Handler.WithGroup(name)}
}

// ParseLogLevel maps a configured level name to a slog.Level.
// Unknown names fall back to info.
func ParseLogLevel(level string) slog.Level {
	if l, ok := levelNames[strings.ToLower(strings.TrimSpace(level))]; ok {
		return l
	}
	return slog.LevelInfo
}

// CloseLogFile closes the log file opened by InitializeLogger, if any
func CloseLogFile() error {
	logState.mu.Lock()
	defer logState.mu.Unlock()

	if logState.file == nil {
		return nil
	}
	err := logState.file.Close()
	logState.file = nil
	return err
}

// ResetLoggerForTesting drops the process logger so a test can initialize
// a fresh one
func ResetLoggerForTesting() {
	CloseLogFile()
	logState.mu.Lock()
	logState.logger = nil
	logState.mu.Unlock()
	logState.once = sync.Once{}
}

// openLogFile appends to filePath, creating it and its directory as needed
func openLogFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return nil, fmt.Errorf("no log file path configured")
	}
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	return os.OpenFile(filePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
}
