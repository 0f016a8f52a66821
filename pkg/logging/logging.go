// Package logging wires the decred/slog backend used by every package to
// stdout and an optional rotating log file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/decred/slog"
	"github.com/jrick/logrotate/rotator"
)

// Subsystem tags.
const (
	SubsystemPoker = "POKR"
	SubsystemLobby = "LBBY"
	SubsystemStore = "STOR"
	SubsystemHTTP  = "HTTP"
	SubsystemMain  = "MAIN"
)

// LogConfig configures a LogBackend.
type LogConfig struct {
	// LogFile is the path of the rotated log file. Empty disables file
	// logging.
	LogFile     string
	DebugLevel  string
	MaxLogFiles int
	// Console receives a copy of every line. Defaults to os.Stdout.
	Console io.Writer
}

// LogBackend hands out per-subsystem loggers sharing one output.
type LogBackend struct {
	backend *slog.Backend
	rotator *rotator.Rotator

	mu      sync.Mutex
	level   slog.Level
	loggers map[string]slog.Logger
}

// NewLogBackend creates the backend described by cfg.
func NewLogBackend(cfg LogConfig) (*LogBackend, error) {
	level := slog.LevelInfo
	if cfg.DebugLevel != "" {
		lvl, ok := slog.LevelFromString(cfg.DebugLevel)
		if !ok {
			return nil, fmt.Errorf("invalid debug level %q", cfg.DebugLevel)
		}
		level = lvl
	}

	console := cfg.Console
	if console == nil {
		console = os.Stdout
	}

	lb := &LogBackend{
		level:   level,
		loggers: make(map[string]slog.Logger),
	}

	var w io.Writer = console
	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}
		maxRolls := cfg.MaxLogFiles
		if maxRolls <= 0 {
			maxRolls = 3
		}
		r, err := rotator.New(cfg.LogFile, 10*1024, false, maxRolls)
		if err != nil {
			return nil, fmt.Errorf("failed to create file rotator: %w", err)
		}
		lb.rotator = r
		w = io.MultiWriter(console, r)
	}

	lb.backend = slog.NewBackend(w)
	return lb, nil
}

// Logger returns the logger for subsystem, creating it at the current level.
func (lb *LogBackend) Logger(subsystem string) slog.Logger {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	if l, ok := lb.loggers[subsystem]; ok {
		return l
	}
	l := lb.backend.Logger(subsystem)
	l.SetLevel(lb.level)
	lb.loggers[subsystem] = l
	return l
}

// SetLevel changes the level of every logger handed out so far and of
// those created later.
func (lb *LogBackend) SetLevel(level string) error {
	lvl, ok := slog.LevelFromString(level)
	if !ok {
		return fmt.Errorf("invalid debug level %q", level)
	}
	lb.mu.Lock()
	defer lb.mu.Unlock()
	lb.level = lvl
	for _, l := range lb.loggers {
		l.SetLevel(lvl)
	}
	return nil
}

// Close flushes and closes the log file, if any.
func (lb *LogBackend) Close() error {
	if lb.rotator != nil {
		return lb.rotator.Close()
	}
	return nil
}
