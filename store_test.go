/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package activerecord_test

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/go-openapi/strfmt"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suparena/activerecord"
	"github.com/suparena/activerecord/datastore/mock"
	"github.com/suparena/activerecord/datastore/testmodels"
	errs "github.com/suparena/activerecord/errors"
	"github.com/suparena/activerecord/mapping"
	"github.com/suparena/activerecord/metrics"
	sm "github.com/suparena/activerecord/storagemodels"
)

const wait = 2 * time.Second

type entityStore = activerecord.Store[testmodels.EntityRecord, *testmodels.EntityRecord]

func newEntityStore(t *testing.T, opts ...activerecord.Option) (*entityStore, *mock.Provider) {
	t.Helper()
	conn := mock.New()
	store, err := activerecord.NewStore[testmodels.EntityRecord](conn, opts...)
	require.NoError(t, err)
	return store, conn
}

func entity(cnes, cap, name string) *testmodels.EntityRecord {
	return &testmodels.EntityRecord{Cnes: cnes, Cap: cap, Name: name}
}

func TestEntityFullCrud(t *testing.T) {
	store, conn := newEntityStore(t)

	created := entity("1", "C1", "Rio")
	created.System = &testmodels.SystemInfo{Name: "e-SUS", Version: "4.2"}
	created.Status = testmodels.StatusActive
	st := store.Save(created).GetTimeout(wait)
	require.NoError(t, st.Err)
	assert.Same(t, created, st.Record)
	assert.True(t, created.IsFromStorage())
	assert.Equal(t, activerecord.StatePersisted, created.State())

	fetched := &testmodels.EntityRecord{Cnes: "1", Cap: "C1"}
	require.NoError(t, store.Fetch(fetched).GetTimeout(wait).Err)
	assert.Equal(t, "Rio", fetched.Name)
	assert.Equal(t, testmodels.StatusActive, fetched.Status)
	require.NotNil(t, fetched.System)
	assert.Equal(t, "4.2", fetched.System.Version)
	assert.True(t, time.Time(created.CreatedAt).Equal(time.Time(fetched.CreatedAt)))

	fetched.Name = "Rio Updated"
	require.NoError(t, store.Save(fetched).GetTimeout(wait).Err)

	updated := &testmodels.EntityRecord{Cnes: "1", Cap: "C1"}
	require.NoError(t, store.Fetch(updated).GetTimeout(wait).Err)
	assert.Equal(t, "Rio Updated", updated.Name)

	require.NoError(t, store.Delete(updated).GetTimeout(wait).Err)
	assert.False(t, updated.IsFromStorage())
	assert.Equal(t, activerecord.StateTransient, updated.State())
	assert.Zero(t, conn.Count("Entity"))

	afterDelete := &testmodels.EntityRecord{Cnes: "1", Cap: "C1"}
	st = store.Fetch(afterDelete).GetTimeout(wait)
	require.True(t, st.HasError())
	assert.Nil(t, st.Record)
	assert.ErrorIs(t, st.Err, errs.OfType(errs.ResourceNotFound))
	assert.ErrorIs(t, st.Err, errs.ErrNotFound)
	assert.Equal(t, 411, errs.CodeOf(st.Err))
	assert.Equal(t, activerecord.StateFailed, afterDelete.State())
}

func TestPatientConnectionsRoundTrip(t *testing.T) {
	conn := mock.New()
	store, err := activerecord.NewStore[testmodels.PatientRecord](conn)
	require.NoError(t, err)

	joao := &testmodels.PatientRecord{
		Cpf:  "1",
		Name: "joao",
		Connections: []testmodels.ConnectionInfo{
			{Name: "Joao Antunes"},
			{Name: "Joao Carlos"},
		},
	}
	require.NoError(t, store.Save(joao).GetTimeout(wait).Err)

	stored, ok := conn.Attributes("Patient", sm.String("1"), sm.Value{})
	require.True(t, ok)
	assert.Equal(t, `[{"name":"Joao Antunes"},{"name":"Joao Carlos"}]`, stored["connections"].Text())

	fetched := &testmodels.PatientRecord{Cpf: "1"}
	require.NoError(t, store.Fetch(fetched).GetTimeout(wait).Err)
	assert.Equal(t, joao.Connections, fetched.Connections)
	assert.Equal(t, "joao", fetched.Name)
}

func TestQueries(t *testing.T) {
	store, _ := newEntityStore(t)
	for _, e := range []*testmodels.EntityRecord{entity("rio", "rio", "rio"), entity("paulo", "paulo", "paulo")} {
		require.NoError(t, store.Save(e).GetTimeout(wait).Err)
	}

	t.Run("fetch all", func(t *testing.T) {
		st := store.FetchAll().GetTimeout(wait)
		require.NoError(t, st.Err)
		require.Len(t, st.Records, 2)
		for _, r := range st.Records {
			assert.True(t, r.IsFromStorage())
		}
	})

	t.Run("where cap equals", func(t *testing.T) {
		st := store.Query().Where(sm.Equals("cap", sm.String("rio"))).Results().GetTimeout(wait)
		require.NoError(t, st.Err)
		require.Len(t, st.Records, 1)
		assert.Equal(t, "rio", st.Records[0].Cnes)
	})

	t.Run("no match is an empty list", func(t *testing.T) {
		st := store.Query().Where(sm.BeginsWith("name", "sal")).Results().GetTimeout(wait)
		require.NoError(t, st.Err)
		assert.NotNil(t, st.Records)
		assert.Empty(t, st.Records)
	})

	t.Run("where is immutable", func(t *testing.T) {
		base := store.Query().Where(sm.NotNull("name"))
		narrowed := base.Where(sm.Equals("cap", sm.String("paulo")))
		assert.Len(t, base.Conditions(), 1)
		assert.Len(t, narrowed.Conditions(), 2)
		assert.Len(t, base.Results().GetTimeout(wait).Records, 2)
		assert.Len(t, narrowed.Results().GetTimeout(wait).Records, 1)
	})

	t.Run("records from a query delete through their origin", func(t *testing.T) {
		st := store.Query().Where(sm.Equals("cap", sm.String("paulo"))).Results().GetTimeout(wait)
		require.Len(t, st.Records, 1)
		require.NoError(t, store.Delete(st.Records[0]).GetTimeout(wait).Err)
		assert.Len(t, store.FetchAll().GetTimeout(wait).Records, 1)
	})
}

func TestPatientContainsQuery(t *testing.T) {
	conn := mock.New()
	store := activerecord.MustNewStore[testmodels.PatientRecord](conn)
	require.NoError(t, store.Save(&testmodels.PatientRecord{Cpf: "1", Name: "joao"}).GetTimeout(wait).Err)
	require.NoError(t, store.Save(&testmodels.PatientRecord{Cpf: "2", Name: "vitor"}).GetTimeout(wait).Err)

	st := store.Query().Where(sm.Contains("name", "joao")).Results().GetTimeout(wait)
	require.NoError(t, st.Err)
	require.Len(t, st.Records, 1)
	assert.Equal(t, "1", st.Records[0].Cpf)
}

func TestDeleteWithoutOrigin(t *testing.T) {
	store, conn := newEntityStore(t)
	require.NoError(t, store.Save(entity("7", "C7", "Niteroi")).GetTimeout(wait).Err)

	keysOnly := &testmodels.EntityRecord{Cnes: "7", Cap: "C7"}
	st := store.Delete(keysOnly).GetTimeout(wait)
	require.NoError(t, st.Err)

	// the fetched copy is deleted and returned, not the caller's instance
	require.NotNil(t, st.Record)
	assert.NotSame(t, keysOnly, st.Record)
	assert.Equal(t, "Niteroi", st.Record.Name)
	assert.Empty(t, keysOnly.Name)
	assert.Zero(t, conn.Count("Entity"))
	assert.Equal(t, 1, conn.Calls("get"))
	assert.Equal(t, 1, conn.Calls("delete"))
}

func TestDeleteWithoutOriginNeverResolvesWhenFetchFails(t *testing.T) {
	t.Run("missing item", func(t *testing.T) {
		store, conn := newEntityStore(t)
		fut := store.Delete(entity("404", "X", ""))

		st := fut.GetTimeout(50 * time.Millisecond)
		assert.ErrorIs(t, st.Err, errs.ErrTimeout)
		assert.True(t, fut.IsRunning())
		assert.Zero(t, conn.Calls("delete"))
	})

	t.Run("provider failure", func(t *testing.T) {
		conn := mock.New().WithGetError(415, "unavailable")
		store, err := activerecord.NewStore[testmodels.EntityRecord](conn)
		require.NoError(t, err)

		var calls int
		fut := store.Delete(entity("1", "C1", ""),
			activerecord.OnSuccess(func(*testmodels.EntityRecord) { calls++ }),
			activerecord.OnError(func(error) { calls++ }))

		assert.ErrorIs(t, fut.GetTimeout(50*time.Millisecond).Err, errs.ErrTimeout)
		assert.Zero(t, calls)

		assert.True(t, fut.Cancel())
		assert.ErrorIs(t, fut.Get().Err, errs.ErrCancelled)
	})
}

func TestDeleteMissingThroughOrigin(t *testing.T) {
	store, conn := newEntityStore(t)
	rec := entity("1", "C1", "Rio")
	require.NoError(t, store.Save(rec).GetTimeout(wait).Err)
	conn.Clear()

	st := store.Delete(rec).GetTimeout(wait)
	assert.ErrorIs(t, st.Err, errs.ErrNotFound)
	assert.Equal(t, activerecord.StateFailed, rec.State())
	assert.True(t, rec.IsFromStorage(), "a failed delete keeps the origin")
}

func TestFetchWithoutPrimaryKeyPanics(t *testing.T) {
	store, conn := newEntityStore(t)

	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, ok := r.(error)
		require.True(t, ok, "panic value %v", r)
		assert.ErrorIs(t, err, errs.ErrMissingPrimaryKey)
		assert.Zero(t, conn.Calls("get"))
	}()
	store.Fetch(&testmodels.EntityRecord{Cap: "C1"})
}

func TestSaveWithoutPrimaryKey(t *testing.T) {
	store, conn := newEntityStore(t)

	var got error
	st := store.Save(&testmodels.EntityRecord{Name: "nobody"}, activerecord.OnError(func(err error) { got = err })).GetTimeout(wait)

	require.Error(t, st.Err)
	assert.Same(t, st.Err, got)
	assert.ErrorIs(t, st.Err, errs.OfType(errs.MissingArgument))
	assert.ErrorIs(t, st.Err, errs.ErrInvalidInput)
	assert.Equal(t, 403, errs.CodeOf(st.Err))
	assert.Zero(t, conn.Calls("put"))
}

func TestFetchClearsLocalFields(t *testing.T) {
	store, _ := newEntityStore(t)
	require.NoError(t, store.Save(entity("1", "C1", "Rio")).GetTimeout(wait).Err)

	rec := entity("1", "C1", "")
	rec.Endpoint = "https://stale.example"
	require.NoError(t, store.Fetch(rec).GetTimeout(wait).Err)
	assert.Equal(t, "Rio", rec.Name)
	assert.Empty(t, rec.Endpoint)
}

func TestCreatedAtStampedOnce(t *testing.T) {
	store, _ := newEntityStore(t)
	rec := entity("1", "C1", "Rio")
	require.NoError(t, store.Save(rec).GetTimeout(wait).Err)

	first := rec.CreatedAt
	require.False(t, time.Time(first).IsZero())

	rec.CreatedAt = strfmt.DateTime{}
	rec.Name = "Rio 2"
	require.NoError(t, store.Save(rec).GetTimeout(wait).Err)
	assert.True(t, time.Time(rec.CreatedAt).IsZero(), "BeforeCreate only runs for records without an origin")
}

type auditedRecord struct {
	activerecord.Persisted
	ID      string
	Note    string
	created int
}

var errNoNote = errors.New("note required")

func (a *auditedRecord) BeforeSave() error {
	if a.Note == "" {
		return errNoNote
	}
	return nil
}

func (a *auditedRecord) BeforeCreate() error {
	a.created++
	return nil
}

func auditedSchema() *mapping.Schema[auditedRecord] {
	return mapping.NewSchema("", func() *auditedRecord { return &auditedRecord{} }).
		Bind(
			mapping.Field("id", func(a *auditedRecord) *string { return &a.ID }, mapping.PrimaryKey()),
			mapping.Field("note", func(a *auditedRecord) *string { return &a.Note }),
		).
		MustBuild()
}

func TestHooks(t *testing.T) {
	conn := mock.New().WithSynchronousCallbacks()
	store, err := activerecord.NewStore[auditedRecord](conn, activerecord.WithSchema(auditedSchema()))
	require.NoError(t, err)
	assert.Equal(t, "audited", store.Schema().Table())

	rec := &auditedRecord{ID: "a1"}
	st := store.Save(rec).Get()
	assert.ErrorIs(t, st.Err, errNoNote)
	assert.ErrorIs(t, st.Err, errs.OfType(errs.Validation))
	assert.Equal(t, 316, errs.CodeOf(st.Err))
	assert.Zero(t, rec.created, "BeforeCreate runs after BeforeSave")
	assert.Zero(t, conn.Calls("put"))

	rec.Note = "ok"
	require.NoError(t, store.Save(rec).Get().Err)
	require.NoError(t, store.Save(rec).Get().Err)
	assert.Equal(t, 1, rec.created)
	assert.Equal(t, 2, conn.Calls("put"))
}

func TestProviderErrorsAreClassified(t *testing.T) {
	conn := mock.New().WithPutError(418, "slow down").WithQueryError(999, "boom")
	store, err := activerecord.NewStore[testmodels.EntityRecord](conn)
	require.NoError(t, err)

	rec := entity("1", "C1", "Rio")
	st := store.Save(rec).GetTimeout(wait)
	assert.ErrorIs(t, st.Err, errs.OfType(errs.Throttling))
	assert.Equal(t, activerecord.StateFailed, rec.State())
	assert.False(t, rec.IsFromStorage())

	var onErr error
	cst := store.FetchAll(activerecord.OnError(func(err error) { onErr = err })).GetTimeout(wait)
	require.Error(t, cst.Err)
	assert.Same(t, cst.Err, onErr)
	assert.NotNil(t, cst.Records)
	assert.Empty(t, cst.Records)
	assert.ErrorIs(t, cst.Err, errs.OfType(errs.Unknown))
	assert.Contains(t, cst.Err.Error(), "provider code 999")
}

func TestCallbacksRunBeforeGet(t *testing.T) {
	store, _ := newEntityStore(t)

	var saved *testmodels.EntityRecord
	rec := entity("1", "C1", "Rio")
	st := store.Save(rec, activerecord.OnSuccess(func(r *testmodels.EntityRecord) { saved = r })).GetTimeout(wait)
	require.NoError(t, st.Err)
	assert.Same(t, rec, saved)

	var listed []*testmodels.EntityRecord
	cst := store.FetchAll(activerecord.OnRecords(func(rs []*testmodels.EntityRecord) { listed = rs })).GetTimeout(wait)
	require.NoError(t, cst.Err)
	assert.Equal(t, cst.Records, listed)
}

func TestMismatchedCallbackPanics(t *testing.T) {
	store, _ := newEntityStore(t)
	assert.Panics(t, func() {
		store.Save(entity("1", "C1", ""), activerecord.OnSuccess(func(*testmodels.PatientRecord) {}))
	})
}

func TestNewStoreErrors(t *testing.T) {
	_, err := activerecord.NewStore[testmodels.EntityRecord](nil)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = activerecord.NewStore[auditedRecord](mock.New())
	assert.Error(t, err, "auditedRecord is not registered")

	_, err = activerecord.NewStore[auditedRecord](mock.New(), activerecord.WithSchema(testmodels.PatientSchema()))
	assert.ErrorIs(t, err, errs.ErrInvalidType)
}

func TestOperationsAreObserved(t *testing.T) {
	var buf bytes.Buffer
	rec := metrics.NewRecorder()
	store, _ := newEntityStore(t,
		activerecord.WithLogger(zerolog.New(&buf).Level(zerolog.DebugLevel)),
		activerecord.WithMetrics(rec))

	require.NoError(t, store.Save(entity("1", "C1", "Rio")).GetTimeout(wait).Err)
	require.Error(t, store.Fetch(entity("2", "C2", "")).GetTimeout(wait).Err)
	require.NoError(t, store.FetchAll().GetTimeout(wait).Err)

	assert.Equal(t, 1.0, rec.Counted("activerecord.save", "table:Entity", "outcome:success"))
	assert.Equal(t, 1.0, rec.Counted("activerecord.fetch", "table:Entity", "outcome:error"))
	assert.Equal(t, 1.0, rec.Counted("activerecord.query", "table:Entity", "outcome:success"))
	assert.Len(t, rec.Observed("activerecord.save.duration_ms", "table:Entity"), 1)

	out := buf.String()
	assert.Contains(t, out, `"op_id":`)
	assert.Contains(t, out, `"op":"fetch"`)
	assert.Contains(t, out, `"table":"Entity"`)
	assert.Contains(t, out, `"code":411`)
}

func TestLifecycleStateString(t *testing.T) {
	assert.Equal(t, "Transient", activerecord.StateTransient.String())
	assert.Equal(t, "Persisted", activerecord.StatePersisted.String())
	assert.Equal(t, "Failed", activerecord.StateFailed.String())
	assert.Equal(t, "Unknown", activerecord.LifecycleState(42).String())
}
