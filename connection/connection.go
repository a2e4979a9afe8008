/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package connection

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/suparena/activerecord/config"
	"github.com/suparena/activerecord/datastore"
	"github.com/suparena/activerecord/datastore/badgerstore"
	"github.com/suparena/activerecord/datastore/ddb"
	"github.com/suparena/activerecord/datastore/mock"
)

// Factory opens a provider from storage settings.
type Factory func(ctx context.Context, s config.Storage, l zerolog.Logger) (datastore.ConnectionProvider, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{
		config.ProviderMemory: func(context.Context, config.Storage, zerolog.Logger) (datastore.ConnectionProvider, error) {
			return mock.New(), nil
		},
		config.ProviderBadger: func(_ context.Context, s config.Storage, l zerolog.Logger) (datastore.ConnectionProvider, error) {
			return badgerstore.Open(s.DataDir, badgerstore.WithLogger(l))
		},
		config.ProviderDynamoDB: func(ctx context.Context, s config.Storage, l zerolog.Logger) (datastore.ConnectionProvider, error) {
			return ddb.NewFromConfig(ctx, s, ddb.WithLogger(l))
		},
	}
)

// RegisterProvider makes a provider available under name. Registering a
// name twice is an error.
func RegisterProvider(name string, f Factory) error {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[name]; exists {
		return fmt.Errorf("provider %q already registered", name)
	}
	factories[name] = f
	return nil
}

// Providers lists the registered provider names.
func Providers() []string {
	mu.RLock()
	defer mu.RUnlock()

	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func factory(name string) (Factory, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, exists := factories[name]
	if !exists {
		return nil, fmt.Errorf("provider %q not registered", name)
	}
	return f, nil
}

// Connection opens the configured provider on first use and shares it
// afterwards.
type Connection struct {
	storage config.Storage
	log     zerolog.Logger

	once     sync.Once
	provider datastore.ConnectionProvider
	err      error
}

// New prepares a connection. Nothing is opened until Provider is called.
func New(s config.Storage) *Connection {
	return &Connection{
		storage: s,
		log:     log.Logger.With().Str("provider", s.Provider).Logger(),
	}
}

// Provider opens the provider once. A failed open is remembered and
// returned on every later call.
func (c *Connection) Provider(ctx context.Context) (datastore.ConnectionProvider, error) {
	c.once.Do(func() {
		f, err := factory(c.storage.Provider)
		if err != nil {
			c.err = err
			return
		}
		c.provider, c.err = f(ctx, c.storage, c.log)
		if c.err != nil {
			c.err = fmt.Errorf("open %s provider: %w", c.storage.Provider, c.err)
			c.log.Error().Err(c.err).Msg("storage unavailable")
			return
		}
		c.log.Info().Str("cluster", c.storage.Cluster).Msg("storage connected")
	})
	return c.provider, c.err
}

// Close releases the provider if it was opened and holds resources.
func (c *Connection) Close() error {
	if closer, ok := c.provider.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
