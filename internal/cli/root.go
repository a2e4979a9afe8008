/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/suparena/activerecord/config"
	"github.com/suparena/activerecord/connection"
	"github.com/suparena/activerecord/datastore"
	"github.com/suparena/activerecord/logger"
	"github.com/suparena/activerecord/metrics"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	Format     string // "json" | "text"
	Timeout    time.Duration
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the recordctl root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "recordctl",
		Short: "Inspect and edit active records",
		Long: `recordctl reads and writes records through the configured storage
provider (memory, badger or dynamodb).

Settings come from the --config YAML file, a .env file and STORAGE_*
environment variables, in that order.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "how long to wait for storage")

	cmd.AddCommand(NewVersionCommand())
	cmd.AddCommand(NewEntityCommand(opts))

	return cmd
}

// session is the storage side of one command run.
type session struct {
	conn     *connection.Connection
	provider datastore.ConnectionProvider
	metrics  metrics.Provider
	log      zerolog.Logger
}

// open loads settings and connects. Logs go to the command's stderr so
// JSON output stays clean.
func (o *RootOptions) open(cmd *cobra.Command) (*session, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return nil, err
	}

	l := logger.New(cfg.Logging, cmd.ErrOrStderr())
	log.Logger = l

	m, err := metrics.Setup(cfg.Metrics)
	if err != nil {
		return nil, err
	}

	conn := connection.New(cfg.Storage)
	provider, err := conn.Provider(cmd.Context())
	if err != nil {
		closeMetrics(m)
		return nil, err
	}
	return &session{conn: conn, provider: provider, metrics: m, log: l}, nil
}

func (s *session) close() {
	if err := s.conn.Close(); err != nil {
		s.log.Warn().Err(err).Msg("closing storage")
	}
	closeMetrics(s.metrics)
}

func closeMetrics(m metrics.Provider) {
	if c, ok := m.(io.Closer); ok {
		_ = c.Close()
	}
}
