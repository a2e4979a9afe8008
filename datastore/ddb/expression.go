/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package ddb

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"

	"github.com/suparena/activerecord/errors"
	"github.com/suparena/activerecord/storagemodels"
)

func operand(v storagemodels.Value) expression.ValueBuilder {
	if v.IsNumber() {
		return expression.Value(attributevalue.Number(v.Text()))
	}
	return expression.Value(v.Text())
}

func conditionOf(c storagemodels.Condition) (expression.ConditionBuilder, error) {
	if err := c.Validate(); err != nil {
		return expression.ConditionBuilder{}, errors.NewValidationError(c.Attribute, err.Error())
	}

	name := expression.Name(c.Attribute)
	switch c.Operator {
	case storagemodels.OpEquals:
		return name.Equal(operand(c.Value)), nil
	case storagemodels.OpNotEquals:
		return name.NotEqual(operand(c.Value)), nil
	case storagemodels.OpGreaterThan:
		return name.GreaterThan(operand(c.Value)), nil
	case storagemodels.OpGreaterEqual:
		return name.GreaterThanEqual(operand(c.Value)), nil
	case storagemodels.OpLessThan:
		return name.LessThan(operand(c.Value)), nil
	case storagemodels.OpLessEqual:
		return name.LessThanEqual(operand(c.Value)), nil
	case storagemodels.OpBeginsWith:
		return name.BeginsWith(c.Value.Text()), nil
	case storagemodels.OpContains:
		return name.Contains(c.Value.Text()), nil
	case storagemodels.OpNotNull:
		return name.AttributeExists(), nil
	case storagemodels.OpNull:
		return name.AttributeNotExists(), nil
	}
	return expression.ConditionBuilder{}, errors.NewValidationError(c.Attribute, fmt.Sprintf("unsupported operator %q", c.Operator))
}

// filterExpression joins conds with AND.
func filterExpression(conds []storagemodels.Condition) (expression.Expression, error) {
	var filter expression.ConditionBuilder
	for i, c := range conds {
		cb, err := conditionOf(c)
		if err != nil {
			return expression.Expression{}, err
		}
		if i == 0 {
			filter = cb
		} else {
			filter = filter.And(cb)
		}
	}
	return expression.NewBuilder().WithFilter(filter).Build()
}

func existsCondition(attr string) (expression.Expression, error) {
	return expression.NewBuilder().
		WithCondition(expression.AttributeExists(expression.Name(attr))).
		Build()
}
