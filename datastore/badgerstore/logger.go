/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package badgerstore

import (
	"strings"

	"github.com/rs/zerolog"
)

// badgerLogger adapts zerolog to badger.Logger.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(f string, v ...interface{})   { l.log.Error().Msgf(trim(f), v...) }
func (l badgerLogger) Warningf(f string, v ...interface{}) { l.log.Warn().Msgf(trim(f), v...) }
func (l badgerLogger) Infof(f string, v ...interface{})    { l.log.Info().Msgf(trim(f), v...) }
func (l badgerLogger) Debugf(f string, v ...interface{})   { l.log.Debug().Msgf(trim(f), v...) }

// Badger terminates its format strings with a newline.
func trim(f string) string { return strings.TrimSuffix(f, "\n") }
