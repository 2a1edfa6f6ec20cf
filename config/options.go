// Package config loads Composition construction options from YAML: a
// single typed struct unmarshaled with `gopkg.in/yaml.v3` and then
// handed to a builder, rather than hand-rolled flag parsing.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// Options holds the Composition constructor options. Field tags are
// the YAML keys 1:1.
type Options struct {
	Components         []string `yaml:"components"`
	LoggerName         string   `yaml:"loggerName"`
	PrintLog           bool     `yaml:"printLog"`
	LogFile            string   `yaml:"logFile"`
	LogLevel           string   `yaml:"logLevel"`
	SlotMemoryLimit    int64    `yaml:"slotMemoryLimit"`
	SlotMemoryLocation string   `yaml:"slotMemoryLocation"`
}

// Default returns the default option set: logger name "FINAM",
// unlimited slot memory, the OS temp directory as scratch location.
func Default() Options {
	return Options{
		LoggerName:         "FINAM",
		SlotMemoryLimit:    0,
		SlotMemoryLocation: os.TempDir(),
		LogLevel:           "INFO",
	}
}

// Load reads and unmarshals a YAML options file, filling in any field
// left zero with Default()'s value.
func Load(path string) (Options, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Options{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	opts := Default()
	if err := yaml.Unmarshal(raw, &opts); err != nil {
		return Options{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return opts, nil
}

// SlogLevel resolves the LogLevel string to a slog.Level, defaulting to
// Info on an unrecognized value.
func (o Options) SlogLevel() slog.Level {
	switch o.LogLevel {
	case "TRACE":
		return slog.LevelDebug - 4
	case "DEBUG":
		return slog.LevelDebug
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger builds the *slog.Logger described by these options: text
// handler to stderr when PrintLog is set, optionally tee'd to LogFile,
// named via LoggerName. With only LogFile set, output goes to the file
// alone; with neither set, it is discarded.
func (o Options) Logger() (*slog.Logger, error) {
	var out io.Writer = os.Stderr
	if o.LogFile != "" {
		f, err := os.OpenFile(o.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("config: open log file %s: %w", o.LogFile, err)
		}
		if o.PrintLog {
			out = io.MultiWriter(os.Stderr, f)
		} else {
			out = f
		}
	}
	if !o.PrintLog && o.LogFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: o.SlogLevel()})).With("logger", o.LoggerName), nil
	}
	handler := slog.NewTextHandler(out, &slog.HandlerOptions{Level: o.SlogLevel()})
	return slog.New(handler).With("logger", o.LoggerName), nil
}
