/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package cli

import (
	"fmt"
	"strings"

	"github.com/suparena/activerecord/storagemodels"
)

// Longer operators first so ">=" is not read as ">".
var whereOperators = []struct {
	token string
	build func(attr string, v storagemodels.Value) storagemodels.Condition
}{
	{"<>", storagemodels.NotEquals},
	{">=", storagemodels.GreaterEqual},
	{"<=", storagemodels.LessEqual},
	{"^=", func(attr string, v storagemodels.Value) storagemodels.Condition {
		return storagemodels.BeginsWith(attr, v.Text())
	}},
	{"~=", func(attr string, v storagemodels.Value) storagemodels.Condition {
		return storagemodels.Contains(attr, v.Text())
	}},
	{"=", storagemodels.Equals},
	{">", storagemodels.GreaterThan},
	{"<", storagemodels.LessThan},
}

// parseWhere reads one --where expression.
//
//	name=Rio        equals (numbers compare as numbers)
//	name='42'       quoted values are always strings
//	beds>=10        <> >= <= > < also work
//	name^=Ri        begins with
//	name~=io        contains
//	system?         attribute exists
//	!system         attribute does not exist
func parseWhere(expr string) (storagemodels.Condition, error) {
	expr = strings.TrimSpace(expr)
	switch {
	case strings.HasPrefix(expr, "!") && validAttr(expr[1:]):
		return storagemodels.Null(expr[1:]), nil
	case strings.HasSuffix(expr, "?") && validAttr(expr[:len(expr)-1]):
		return storagemodels.NotNull(expr[:len(expr)-1]), nil
	}

	for _, op := range whereOperators {
		i := strings.Index(expr, op.token)
		if i <= 0 {
			continue
		}
		attr := strings.TrimSpace(expr[:i])
		if !validAttr(attr) {
			break
		}
		return op.build(attr, whereValue(strings.TrimSpace(expr[i+len(op.token):]))), nil
	}
	return storagemodels.Condition{}, fmt.Errorf("invalid --where %q", expr)
}

func validAttr(s string) bool {
	return s != "" && !strings.ContainsAny(s, " =<>!?^~'\"")
}

func whereValue(raw string) storagemodels.Value {
	if len(raw) >= 2 && (raw[0] == '\'' || raw[0] == '"') && raw[len(raw)-1] == raw[0] {
		return storagemodels.String(raw[1 : len(raw)-1])
	}
	if n, err := storagemodels.NumberText(raw); err == nil {
		return n
	}
	return storagemodels.String(raw)
}
