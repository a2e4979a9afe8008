/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"errors"

	errs "github.com/suparena/activerecord/errors"
)

// Diagnostics lists the fields a mapping call skipped. Skipped fields are
// left at their previous value; every other field is still mapped.
type Diagnostics struct {
	Skipped []*errs.FieldError
}

// Empty reports whether every field mapped cleanly.
func (d Diagnostics) Empty() bool { return len(d.Skipped) == 0 }

// Err joins the skipped field errors, or returns nil.
func (d Diagnostics) Err() error {
	if len(d.Skipped) == 0 {
		return nil
	}
	list := make([]error, len(d.Skipped))
	for i, fe := range d.Skipped {
		list[i] = fe
	}
	return errors.Join(list...)
}

// Fields returns the paths of the skipped fields.
func (d Diagnostics) Fields() []string {
	out := make([]string, len(d.Skipped))
	for i, fe := range d.Skipped {
		out[i] = fe.Field
	}
	return out
}

// collector appends field errors under a path prefix.
type collector struct {
	prefix string
	d      *Diagnostics
}

func newCollector(d *Diagnostics) collector {
	return collector{d: d}
}

func (c collector) add(field string, err error) {
	c.d.Skipped = append(c.d.Skipped, errs.NewFieldError(c.prefix+field, err))
}

func (c collector) within(path string) collector {
	return collector{prefix: c.prefix + path + ".", d: c.d}
}
