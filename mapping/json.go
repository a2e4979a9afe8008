/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"encoding/json"
	"fmt"
	"strconv"

	jsoniter "github.com/json-iterator/go"

	errs "github.com/suparena/activerecord/errors"
	"github.com/suparena/activerecord/storagemodels"
)

// jsonAPI keeps numbers as json.Number so decimal text survives decoding.
var jsonAPI = jsoniter.Config{
	EscapeHTML:  true,
	SortMapKeys: true,
	UseNumber:   true,
}.Froze()

// jsonOf renders an attribute value inside embedded JSON.
func jsonOf(v storagemodels.Value) any {
	if v.IsNumber() {
		return json.Number(v.Text())
	}
	return v.Text()
}

// valueOfJSON converts a decoded JSON scalar back into an attribute value.
func valueOfJSON(raw any) (storagemodels.Value, error) {
	switch x := raw.(type) {
	case string:
		return storagemodels.String(x), nil
	case json.Number:
		return storagemodels.NumberText(string(x))
	case float64:
		return storagemodels.Float(x), nil
	case bool:
		return storagemodels.String(strconv.FormatBool(x)), nil
	default:
		return storagemodels.Value{}, fmt.Errorf("%w: JSON %T is not a scalar", errs.ErrInvalidType, raw)
	}
}

// parseJSON decodes attribute text into dst, which must be a pointer to a
// map or slice.
func parseJSON(v storagemodels.Value, dst any) error {
	if !v.IsString() {
		return fmt.Errorf("%w: %s attribute cannot hold JSON", errs.ErrInvalidType, v.Kind())
	}
	if err := jsonAPI.UnmarshalFromString(v.Text(), dst); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrMalformedJSON, err)
	}
	return nil
}

func formatJSON(obj any) (storagemodels.Value, error) {
	text, err := jsonAPI.MarshalToString(obj)
	if err != nil {
		return storagemodels.Value{}, fmt.Errorf("%w: %v", errs.ErrMalformedJSON, err)
	}
	return storagemodels.String(text), nil
}
