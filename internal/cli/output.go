/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/suparena/activerecord/storagemodels"
)

var json = jsoniter.Config{EscapeHTML: false, SortMapKeys: true}.Froze()

// object renders attributes for JSON output. Numbers keep their decimal
// text.
func object(attrs *storagemodels.Attributes) map[string]any {
	out := make(map[string]any, attrs.Len())
	attrs.Range(func(name string, v storagemodels.Value) bool {
		if v.IsNumber() {
			out[name] = jsoniter.Number(v.Text())
		} else {
			out[name] = v.Text()
		}
		return true
	})
	return out
}

func line(attrs *storagemodels.Attributes) string {
	parts := make([]string, 0, attrs.Len())
	attrs.Range(func(name string, v storagemodels.Value) bool {
		parts = append(parts, name+"="+v.Text())
		return true
	})
	return strings.Join(parts, " ")
}

func printRecord(w io.Writer, format string, attrs *storagemodels.Attributes) error {
	if format == "json" {
		text, err := json.MarshalToString(object(attrs))
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, text)
		return err
	}
	_, err := fmt.Fprintln(w, line(attrs))
	return err
}

func printRecords(w io.Writer, format string, all []*storagemodels.Attributes) error {
	if format == "json" {
		objs := make([]map[string]any, 0, len(all))
		for _, attrs := range all {
			objs = append(objs, object(attrs))
		}
		text, err := json.MarshalToString(objs)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, text)
		return err
	}
	for _, attrs := range all {
		if _, err := fmt.Fprintln(w, line(attrs)); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "%d record(s)\n", len(all))
	return err
}
