/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package testmodels

import (
	"time"

	"github.com/go-openapi/strfmt"

	"github.com/suparena/activerecord"
	"github.com/suparena/activerecord/mapping"
	"github.com/suparena/activerecord/registry"
)

// EntityStatus is stored by name.
type EntityStatus int

const (
	StatusUnknown EntityStatus = iota
	StatusActive
	StatusSuspended
)

var EntityStatuses = mapping.NewEnumSet(map[EntityStatus]string{
	StatusActive:    "ACTIVE",
	StatusSuspended: "SUSPENDED",
})

// SystemInfo describes the software an entity runs. It is stored as a JSON
// object in the "system" attribute.
type SystemInfo struct {
	Name    string
	Version string
}

// EntityRecord is a health facility, keyed by its CNES code and its CAP
// region.
type EntityRecord struct {
	activerecord.Persisted

	Cnes         string
	Cap          string
	Name         string
	Endpoint     string
	ProviderName string
	Username     string
	Password     string
	System       *SystemInfo
	Status       EntityStatus

	// Set on first save.
	CreatedAt strfmt.DateTime
}

// BeforeCreate stamps CreatedAt unless already set.
func (e *EntityRecord) BeforeCreate() error {
	if time.Time(e.CreatedAt).IsZero() {
		e.CreatedAt = strfmt.DateTime(time.Now().UTC())
	}
	return nil
}

var systemSchema = mapping.NewSchema("", func() *SystemInfo { return &SystemInfo{} }).
	Bind(
		mapping.Field("name", func(s *SystemInfo) *string { return &s.Name }),
		mapping.Field("version", func(s *SystemInfo) *string { return &s.Version }),
	).
	MustBuild()

// EntitySchema describes how EntityRecord is stored.
func EntitySchema() *mapping.Schema[EntityRecord] {
	return mapping.NewSchema("Entity", func() *EntityRecord { return &EntityRecord{} }).
		PrimaryKey("cnes").
		SecondaryKey("cap").
		Bind(
			mapping.Field("cnes", func(e *EntityRecord) *string { return &e.Cnes }, mapping.PrimaryKey()),
			mapping.Field("cap", func(e *EntityRecord) *string { return &e.Cap }, mapping.SecondaryKey()),
			mapping.Field("name", func(e *EntityRecord) *string { return &e.Name }),
			mapping.Field("endpoint", func(e *EntityRecord) *string { return &e.Endpoint }),
			mapping.Field("providerName", func(e *EntityRecord) *string { return &e.ProviderName }),
			mapping.Field("username", func(e *EntityRecord) *string { return &e.Username }),
			mapping.Field("password", func(e *EntityRecord) *string { return &e.Password }),
			mapping.Embedded("system", func(e *EntityRecord) **SystemInfo { return &e.System }, systemSchema),
			mapping.Enum("status", func(e *EntityRecord) *EntityStatus { return &e.Status }, EntityStatuses),
			mapping.Field("createdAt", func(e *EntityRecord) *strfmt.DateTime { return &e.CreatedAt }),
		).
		MustBuild()
}

func init() {
	registry.Register(EntitySchema)
	registry.Register(PatientSchema)
}
