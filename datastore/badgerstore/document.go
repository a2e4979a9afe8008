/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package badgerstore

import (
	"fmt"

	"github.com/suparena/activerecord/storagemodels"
)

// typed is one attribute value with its kind.
type typed struct {
	K string `json:"k"`
	V string `json:"v"`
}

func typedOf(v storagemodels.Value) typed {
	if v.IsZero() {
		return typed{}
	}
	return typed{K: v.Kind().String(), V: v.Text()}
}

func (t typed) value() storagemodels.Value {
	switch t.K {
	case "S":
		return storagemodels.String(t.V)
	case "N":
		if v, err := storagemodels.NumberText(t.V); err == nil {
			return v
		}
	}
	return storagemodels.Value{}
}

type namedValue struct {
	Name string `json:"n"`
	typed
}

// document is the stored form of an item. Attribute order is kept.
type document struct {
	PK    typed        `json:"pk"`
	SK    typed        `json:"sk"`
	Attrs []namedValue `json:"attrs"`
}

func newDocument(pk, sk storagemodels.Value, attrs *storagemodels.Attributes) document {
	doc := document{PK: typedOf(pk), SK: typedOf(sk), Attrs: make([]namedValue, 0, attrs.Len())}
	attrs.Range(func(name string, v storagemodels.Value) bool {
		doc.Attrs = append(doc.Attrs, namedValue{Name: name, typed: typedOf(v)})
		return true
	})
	return doc
}

func (d *document) unmarshal(val []byte) error {
	if err := json.Unmarshal(val, d); err != nil {
		return fmt.Errorf("badgerstore: corrupt item: %w", err)
	}
	return nil
}

func (d document) attributes() map[string]storagemodels.Value {
	out := make(map[string]storagemodels.Value, len(d.Attrs))
	for _, a := range d.Attrs {
		if v := a.value(); !v.IsZero() {
			out[a.Name] = v
		}
	}
	return out
}
