//go:build integration

/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package activerecord_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/activerecord"
	"github.com/suparena/activerecord/config"
	"github.com/suparena/activerecord/connection"
	"github.com/suparena/activerecord/datastore"
	"github.com/suparena/activerecord/datastore/providertest"
	"github.com/suparena/activerecord/datastore/testmodels"
	errs "github.com/suparena/activerecord/errors"
	sm "github.com/suparena/activerecord/storagemodels"
)

// Run with a .env or STORAGE_* variables pointing at a DynamoDB (or DynamoDB
// Local) endpoint that has an "Entity" table keyed by cnes (hash) and cap
// (range), prefixed by STORAGE_CLUSTER when set:
//
//	STORAGE_PROVIDER=dynamodb STORAGE_REGION=us-east-1 \
//	STORAGE_ENDPOINT=localhost:8000 go test -tags integration .
func integrationProvider(t *testing.T) datastore.ConnectionProvider {
	t.Helper()
	cfg, err := config.Load("")
	require.NoError(t, err)
	if cfg.Storage.Provider != config.ProviderDynamoDB {
		t.Skip("STORAGE_PROVIDER is not dynamodb, skipping integration test")
	}

	conn := connection.New(cfg.Storage)
	t.Cleanup(func() { _ = conn.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	p, err := conn.Provider(ctx)
	require.NoError(t, err)
	return p
}

func TestIntegrationProviderConformance(t *testing.T) {
	providertest.Run(t, integrationProvider(t), "Entity")
}

func TestIntegrationEntityCrud(t *testing.T) {
	store, err := activerecord.NewStore[testmodels.EntityRecord](integrationProvider(t))
	require.NoError(t, err)

	cnes := fmt.Sprintf("it-%d", time.Now().UnixNano())
	rec := &testmodels.EntityRecord{
		Cnes:   cnes,
		Cap:    "C1",
		Name:   "Integration",
		Status: testmodels.StatusActive,
		System: &testmodels.SystemInfo{Name: "e-SUS", Version: "5"},
	}
	t.Cleanup(func() {
		_ = store.Delete(&testmodels.EntityRecord{Cnes: cnes, Cap: "C1"}).GetTimeout(providertest.Wait)
	})

	require.NoError(t, store.Save(rec).GetTimeout(providertest.Wait).Err)
	assert.False(t, time.Time(rec.CreatedAt).IsZero())

	fetched := &testmodels.EntityRecord{Cnes: cnes, Cap: "C1"}
	require.NoError(t, store.Fetch(fetched).GetTimeout(providertest.Wait).Err)
	assert.Equal(t, "Integration", fetched.Name)
	assert.Equal(t, testmodels.StatusActive, fetched.Status)
	require.NotNil(t, fetched.System)
	assert.Equal(t, "5", fetched.System.Version)
	assert.Equal(t, rec.CreatedAt.String(), fetched.CreatedAt.String())

	found := store.Query().Where(sm.Equals("cnes", sm.String(cnes))).Results().GetTimeout(providertest.Wait)
	require.NoError(t, found.Err)
	assert.Len(t, found.Records, 1)

	require.NoError(t, store.Delete(fetched).GetTimeout(providertest.Wait).Err)
	assert.False(t, fetched.IsFromStorage())

	st := store.Fetch(&testmodels.EntityRecord{Cnes: cnes, Cap: "C1"}).GetTimeout(providertest.Wait)
	var e *errs.Error
	require.ErrorAs(t, st.Err, &e)
	assert.Equal(t, errs.ResourceNotFound, e.Type)
}
