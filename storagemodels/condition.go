/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"fmt"
	"strings"
)

// Operator is a comparison applied by a Condition.
type Operator string

const (
	OpEquals       Operator = "="
	OpNotEquals    Operator = "<>"
	OpGreaterThan  Operator = ">"
	OpGreaterEqual Operator = ">="
	OpLessThan     Operator = "<"
	OpLessEqual    Operator = "<="
	OpBeginsWith   Operator = "begins_with"
	OpContains     Operator = "contains"
	OpNotNull      Operator = "attribute_exists"
	OpNull         Operator = "attribute_not_exists"
)

// Condition is a predicate over one attribute of a stored item.
type Condition struct {
	Attribute string
	Operator  Operator
	Value     Value
}

func Equals(attr string, v Value) Condition {
	return Condition{Attribute: attr, Operator: OpEquals, Value: v}
}

func NotEquals(attr string, v Value) Condition {
	return Condition{Attribute: attr, Operator: OpNotEquals, Value: v}
}

func GreaterThan(attr string, v Value) Condition {
	return Condition{Attribute: attr, Operator: OpGreaterThan, Value: v}
}

func GreaterEqual(attr string, v Value) Condition {
	return Condition{Attribute: attr, Operator: OpGreaterEqual, Value: v}
}

func LessThan(attr string, v Value) Condition {
	return Condition{Attribute: attr, Operator: OpLessThan, Value: v}
}

func LessEqual(attr string, v Value) Condition {
	return Condition{Attribute: attr, Operator: OpLessEqual, Value: v}
}

// BeginsWith matches string attributes with the given prefix.
func BeginsWith(attr, prefix string) Condition {
	return Condition{Attribute: attr, Operator: OpBeginsWith, Value: String(prefix)}
}

// Contains matches string attributes containing substr.
func Contains(attr, substr string) Condition {
	return Condition{Attribute: attr, Operator: OpContains, Value: String(substr)}
}

func NotNull(attr string) Condition {
	return Condition{Attribute: attr, Operator: OpNotNull}
}

func Null(attr string) Condition {
	return Condition{Attribute: attr, Operator: OpNull}
}

// Validate reports whether the condition is well formed.
func (c Condition) Validate() error {
	if c.Attribute == "" {
		return fmt.Errorf("condition has no attribute")
	}
	switch c.Operator {
	case OpNotNull, OpNull:
		return nil
	case OpEquals, OpNotEquals, OpGreaterThan, OpGreaterEqual, OpLessThan, OpLessEqual:
	case OpBeginsWith, OpContains:
		if !c.Value.IsString() {
			return fmt.Errorf("operator %s on %q requires a string operand", c.Operator, c.Attribute)
		}
	default:
		return fmt.Errorf("unknown operator %q", c.Operator)
	}
	if c.Value.IsZero() {
		return fmt.Errorf("operator %s on %q requires an operand", c.Operator, c.Attribute)
	}
	return nil
}

// Matches evaluates the condition against item. Values of different kinds
// never compare equal or ordered.
func (c Condition) Matches(item map[string]Value) bool {
	v, present := item[c.Attribute]
	switch c.Operator {
	case OpNotNull:
		return present
	case OpNull:
		return !present
	}
	if !present {
		return false
	}

	switch c.Operator {
	case OpEquals:
		return v.Equal(c.Value)
	case OpNotEquals:
		return v.kind == c.Value.kind && !v.Equal(c.Value)
	case OpBeginsWith:
		return v.IsString() && strings.HasPrefix(v.text, c.Value.text)
	case OpContains:
		return v.IsString() && strings.Contains(v.text, c.Value.text)
	}

	cmp, ok := v.compare(c.Value)
	if !ok {
		return false
	}
	switch c.Operator {
	case OpGreaterThan:
		return cmp > 0
	case OpGreaterEqual:
		return cmp >= 0
	case OpLessThan:
		return cmp < 0
	case OpLessEqual:
		return cmp <= 0
	}
	return false
}

// MatchAll reports whether item satisfies every condition.
func MatchAll(item map[string]Value, conds []Condition) bool {
	for _, c := range conds {
		if !c.Matches(item) {
			return false
		}
	}
	return true
}

func (c Condition) String() string {
	switch c.Operator {
	case OpNotNull, OpNull, OpBeginsWith, OpContains:
		if c.Value.IsZero() {
			return fmt.Sprintf("%s(%s)", c.Operator, c.Attribute)
		}
		return fmt.Sprintf("%s(%s, %q)", c.Operator, c.Attribute, c.Value.text)
	}
	return fmt.Sprintf("%s %s %#v", c.Attribute, c.Operator, c.Value)
}
