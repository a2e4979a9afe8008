/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package testmodels

import (
	"github.com/suparena/activerecord"
	"github.com/suparena/activerecord/mapping"
)

// ConnectionInfo is one person a patient can be reached through.
type ConnectionInfo struct {
	Name string
}

// PatientRecord is keyed by CPF and has no secondary key.
type PatientRecord struct {
	activerecord.Persisted

	Cpf         string
	Name        string
	Connections []ConnectionInfo
}

var connectionSchema = mapping.NewSchema("", func() *ConnectionInfo { return &ConnectionInfo{} }).
	Bind(mapping.Field("name", func(c *ConnectionInfo) *string { return &c.Name })).
	MustBuild()

func PatientSchema() *mapping.Schema[PatientRecord] {
	return mapping.NewSchema("", func() *PatientRecord { return &PatientRecord{} }).
		PrimaryKey("cpf").
		Bind(
			mapping.Field("cpf", func(p *PatientRecord) *string { return &p.Cpf }, mapping.PrimaryKey()),
			mapping.Field("name", func(p *PatientRecord) *string { return &p.Name }),
			mapping.Collection("connections", func(p *PatientRecord) *[]ConnectionInfo { return &p.Connections }, connectionSchema),
		).
		MustBuild()
}
