/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package connection

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/activerecord/config"
	"github.com/suparena/activerecord/datastore"
	"github.com/suparena/activerecord/datastore/badgerstore"
	"github.com/suparena/activerecord/datastore/mock"
	"github.com/suparena/activerecord/datastore/providertest"
)

func TestBuiltInProviders(t *testing.T) {
	assert.Subset(t, Providers(), []string{"badger", "dynamodb", "memory"})
}

func TestMemoryProvider(t *testing.T) {
	conn := New(config.Storage{Provider: config.ProviderMemory})
	p, err := conn.Provider(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &mock.Provider{}, p)

	again, err := conn.Provider(context.Background())
	require.NoError(t, err)
	assert.Same(t, p, again)
	assert.NoError(t, conn.Close())
}

func TestBadgerProvider(t *testing.T) {
	conn := New(config.Storage{Provider: config.ProviderBadger, DataDir: t.TempDir()})
	p, err := conn.Provider(context.Background())
	require.NoError(t, err)
	require.IsType(t, &badgerstore.Provider{}, p)

	providertest.Run(t, p, "Entity")
	assert.NoError(t, conn.Close())
}

func TestRegisterProvider(t *testing.T) {
	opened := 0
	custom := mock.New()
	err := RegisterProvider("custom-test", func(_ context.Context, s config.Storage, _ zerolog.Logger) (datastore.ConnectionProvider, error) {
		opened++
		assert.Equal(t, "blue", s.Cluster)
		return custom, nil
	})
	require.NoError(t, err)

	err = RegisterProvider("custom-test", nil)
	assert.ErrorContains(t, err, "already registered")

	conn := New(config.Storage{Provider: "custom-test", Cluster: "blue"})
	for i := 0; i < 2; i++ {
		p, err := conn.Provider(context.Background())
		require.NoError(t, err)
		assert.Same(t, custom, p)
	}
	assert.Equal(t, 1, opened)
}

func TestOpenFailureIsRemembered(t *testing.T) {
	boom := errors.New("boom")
	opened := 0
	require.NoError(t, RegisterProvider("failing-test", func(context.Context, config.Storage, zerolog.Logger) (datastore.ConnectionProvider, error) {
		opened++
		return nil, boom
	}))

	conn := New(config.Storage{Provider: "failing-test"})
	_, err := conn.Provider(context.Background())
	assert.ErrorIs(t, err, boom)
	_, err = conn.Provider(context.Background())
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, opened)
	assert.NoError(t, conn.Close())
}

func TestUnknownProvider(t *testing.T) {
	_, err := New(config.Storage{Provider: "cassandra"}).Provider(context.Background())
	assert.ErrorContains(t, err, `provider "cassandra" not registered`)
}
