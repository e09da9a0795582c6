package log

import (
	"io"
	"log/slog"
	"os"
)

// Logger decorates slog with a fixed component attribute so log lines
// can be filtered by subsystem.
type Logger struct {
	*slog.Logger
	component string
}

// Config holds logger configuration.
type Config struct {
	Level     slog.Level
	Component string
	Output    io.Writer
}

// DefaultConfig returns sensible defaults for logging.
func DefaultConfig() Config {
	return Config{
		Level:     slog.LevelInfo,
		Component: "fintrack",
		Output:    os.Stdout,
	}
}

// New creates a logger writing text lines to cfg.Output.
func New(cfg Config) *Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.Component == "" {
		cfg.Component = "fintrack"
	}

	handler := slog.NewTextHandler(cfg.Output, &slog.HandlerOptions{
		Level: cfg.Level,
	})

	return &Logger{
		Logger:    slog.New(handler).With(FieldComponent, cfg.Component),
		component: cfg.Component,
	}
}

// With returns a logger carrying the given attributes on every line.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		Logger:    l.Logger.With(args...),
		component: l.component,
	}
}

// WithComponent returns a logger tagged with a different component.
func (l *Logger) WithComponent(component string) *Logger {
	return &Logger{
		Logger:    l.Logger.With(FieldComponent, component),
		component: component,
	}
}

// Component returns the logger's component name.
func (l *Logger) Component() string {
	return l.component
}

// SetDefault installs the logger as the process-wide slog default.
func SetDefault(l *Logger) {
	slog.SetDefault(l.Logger)
}
