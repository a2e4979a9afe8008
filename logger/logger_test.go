/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package logger

import (
	"bytes"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/suparena/activerecord/config"
)

func TestNew(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	t.Run("json at warn", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(config.Logging{Enabled: true, Level: "WARN", Format: "json"}, &buf)

		log.Info().Msg("hidden")
		log.Warn().Str("table", "Entity").Msg("shown")

		assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), `"table":"Entity"`)
		assert.Contains(t, buf.String(), `"time":`)
	})

	t.Run("console", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(config.Logging{Enabled: true, Format: "console"}, &buf)
		log.Info().Msg("hello")
		assert.Contains(t, buf.String(), "hello")
		assert.NotContains(t, buf.String(), `"message"`)
	})

	t.Run("bad level falls back to info", func(t *testing.T) {
		New(config.Logging{Enabled: true, Level: "chatty"}, &bytes.Buffer{})
		assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("disabled", func(t *testing.T) {
		var buf bytes.Buffer
		log := New(config.Logging{Enabled: false}, &buf)
		log.Error().Msg("dropped")
		assert.Zero(t, buf.Len())
	})
}
