/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueConstructors(t *testing.T) {
	tests := []struct {
		name string
		v    Value
		kind Kind
		text string
	}{
		{"string", String("Rio"), KindString, "Rio"},
		{"empty string", String(""), KindString, ""},
		{"int", Int(-42), KindNumber, "-42"},
		{"float", Float(1.5), KindNumber, "1.5"},
		{"decimal", Decimal(big.NewFloat(2.25)), KindNumber, "2.25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.kind, tt.v.Kind())
			assert.Equal(t, tt.text, tt.v.Text())
			assert.False(t, tt.v.IsZero())
		})
	}

	assert.True(t, Value{}.IsZero())
}

func TestNumberText(t *testing.T) {
	v, err := NumberText("12345678901234567890.5")
	require.NoError(t, err)
	assert.True(t, v.IsNumber())
	assert.Equal(t, "12345678901234567890.5", v.Text())

	f, err := v.BigFloat()
	require.NoError(t, err)
	assert.Equal(t, 1, f.Cmp(big.NewFloat(12345678901234567890)))

	_, err = NumberText("twelve")
	assert.Error(t, err)
	_, err = NumberText("Inf")
	assert.Error(t, err)

	assert.Panics(t, func() { MustNumberText("x") })
}

func TestNumberTextIsJSONNumberSyntax(t *testing.T) {
	tests := map[string]string{
		".5":        "0.5",
		"+5":        "5",
		"05":        "5",
		"5.":        "5",
		"-.25":      "-0.25",
		"-00.25e3":  "-0.25e3",
		"+.5E-2":    "0.5E-2",
		"000":       "0",
		" 10.50 ":   "10.50",
		"-0":        "-0",
		"1e+21":     "1e+21",
		"123456789": "123456789",
	}
	for in, want := range tests {
		v, err := NumberText(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, v.Text(), in)
		assert.True(t, v.Equal(MustNumberText(want)), in)
	}
}

func TestNumericAccessors(t *testing.T) {
	n, err := MustNumberText("7.9").Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)

	n, err = Int(1 << 40).Int64()
	require.NoError(t, err)
	assert.Equal(t, int64(1<<40), n)

	f, err := Int(3).Float64()
	require.NoError(t, err)
	assert.Equal(t, 3.0, f)

	_, err = String("3").Int64()
	assert.Error(t, err)
}

func TestValueEqual(t *testing.T) {
	assert.True(t, MustNumberText("1.0").Equal(Int(1)))
	assert.True(t, String("a").Equal(String("a")))
	assert.False(t, String("1").Equal(Int(1)))
	assert.False(t, Int(1).Equal(Int(2)))
}

func TestAttributesOrder(t *testing.T) {
	a := NewAttributes()
	a.Set("cnes", String("1"))
	a.Set("cap", String("C1"))
	a.Set("name", String("Rio"))
	a.Set("cap", String("C2"))

	assert.Equal(t, []string{"cnes", "cap", "name"}, a.Keys())
	assert.Equal(t, 3, a.Len())

	v, ok := a.Get("cap")
	require.True(t, ok)
	assert.Equal(t, "C2", v.Text())

	var seen []string
	a.Range(func(name string, _ Value) bool {
		seen = append(seen, name)
		return name != "cap"
	})
	assert.Equal(t, []string{"cnes", "cap"}, seen)

	m := a.Map()
	assert.Len(t, m, 3)

	b := AttributesFromMap(map[string]Value{"z": Int(1), "a": Int(2)})
	assert.Equal(t, []string{"a", "z"}, b.Keys())

	var nilAttrs *Attributes
	assert.Equal(t, 0, nilAttrs.Len())
	_, ok = nilAttrs.Get("x")
	assert.False(t, ok)
}

func TestConditionMatches(t *testing.T) {
	item := map[string]Value{
		"cap":   String("rio"),
		"beds":  Int(12),
		"title": String("Hospital Central"),
	}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"equals", Equals("cap", String("rio")), true},
		{"equals other", Equals("cap", String("sp")), false},
		{"kind mismatch", Equals("beds", String("12")), false},
		{"not equals", NotEquals("cap", String("sp")), true},
		{"greater", GreaterThan("beds", Int(10)), true},
		{"greater equal", GreaterEqual("beds", MustNumberText("12.0")), true},
		{"less", LessThan("beds", Int(12)), false},
		{"less equal", LessEqual("beds", Int(12)), true},
		{"begins with", BeginsWith("title", "Hosp"), true},
		{"contains", Contains("title", "Central"), true},
		{"contains on number", Contains("beds", "1"), false},
		{"not null", NotNull("cap"), true},
		{"null", Null("missing"), true},
		{"missing attribute", Equals("missing", String("x")), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cond.Matches(item))
		})
	}

	assert.True(t, MatchAll(item, []Condition{NotNull("cap"), GreaterThan("beds", Int(1))}))
	assert.False(t, MatchAll(item, []Condition{NotNull("cap"), Null("cap")}))
	assert.True(t, MatchAll(item, nil))
}

func TestConditionValidate(t *testing.T) {
	assert.NoError(t, Equals("cap", String("rio")).Validate())
	assert.NoError(t, NotNull("cap").Validate())
	assert.Error(t, Condition{Operator: OpEquals, Value: Int(1)}.Validate())
	assert.Error(t, Condition{Attribute: "a", Operator: "~"}.Validate())
	assert.Error(t, Condition{Attribute: "a", Operator: OpEquals}.Validate())
	assert.Error(t, Condition{Attribute: "a", Operator: OpBeginsWith, Value: Int(1)}.Validate())
}

func TestKeyText(t *testing.T) {
	assert.Equal(t, "S:1", String("1").KeyText())
	assert.Equal(t, Int(1).KeyText(), MustNumberText("1.00").KeyText())
	assert.NotEqual(t, String("1").KeyText(), Int(1).KeyText())
	assert.Empty(t, Value{}.KeyText())
}
