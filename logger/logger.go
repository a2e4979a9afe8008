/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

// Package logger builds the process zerolog logger from configuration.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/suparena/activerecord/config"
)

// Configure sets the global level and returns a logger writing to stdout.
// An unknown or empty level means info. A disabled config discards output.
func Configure(cfg config.Logging) zerolog.Logger {
	return New(cfg, os.Stdout)
}

// New is Configure with an explicit destination.
func New(cfg config.Logging, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	switch {
	case !cfg.Enabled:
		out = io.Discard
	case cfg.Format == "console":
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: true}
	}

	return zerolog.New(out).With().Timestamp().Logger()
}
