/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	jsoniter "github.com/json-iterator/go"

	"github.com/suparena/activerecord/storagemodels"
)

var json = jsoniter.Config{EscapeHTML: false, SortMapKeys: true}.Froze()

func attributeOf(v storagemodels.Value) types.AttributeValue {
	if v.IsNumber() {
		return &types.AttributeValueMemberN{Value: v.Text()}
	}
	return &types.AttributeValueMemberS{Value: v.Text()}
}

func itemOf(attrs *storagemodels.Attributes) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, attrs.Len())
	attrs.Range(func(name string, v storagemodels.Value) bool {
		if !v.IsZero() {
			out[name] = attributeOf(v)
		}
		return true
	})
	return out
}

// valueOf converts one DynamoDB attribute. NULL reports ok=false.
func valueOf(av types.AttributeValue) (storagemodels.Value, bool, error) {
	switch tv := av.(type) {
	case *types.AttributeValueMemberS:
		return storagemodels.String(tv.Value), true, nil
	case *types.AttributeValueMemberN:
		v, err := storagemodels.NumberText(tv.Value)
		return v, err == nil, err
	case *types.AttributeValueMemberNULL:
		return storagemodels.Value{}, false, nil
	}

	var native any
	if err := attributevalue.Unmarshal(av, &native); err != nil {
		return storagemodels.Value{}, false, fmt.Errorf("decode %T: %w", av, err)
	}
	text, err := json.MarshalToString(native)
	if err != nil {
		return storagemodels.Value{}, false, fmt.Errorf("encode %T as json: %w", av, err)
	}
	return storagemodels.String(text), true, nil
}

func valuesOf(raw map[string]types.AttributeValue) (map[string]storagemodels.Value, map[string]error) {
	out := make(map[string]storagemodels.Value, len(raw))
	var skipped map[string]error
	for name, av := range raw {
		v, ok, err := valueOf(av)
		if err != nil {
			if skipped == nil {
				skipped = make(map[string]error)
			}
			skipped[name] = err
			continue
		}
		if ok {
			out[name] = v
		}
	}
	return out, skipped
}
