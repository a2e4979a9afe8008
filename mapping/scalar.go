/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package mapping

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-openapi/strfmt"

	errs "github.com/suparena/activerecord/errors"
	"github.com/suparena/activerecord/storagemodels"
)

type integer interface {
	int | int8 | int16 | int32 | int64
}

type float interface {
	float32 | float64
}

type scalarCodec[R, T any] struct {
	ref func(*R) *T
}

func (s scalarCodec[R, T]) encode(rec *R, name string, out *storagemodels.Attributes, c collector) {
	v, ok, err := toValue(s.ref(rec))
	if err != nil {
		c.add(name, err)
		return
	}
	if ok {
		out.Set(name, v)
	}
}

func (s scalarCodec[R, T]) decode(in map[string]storagemodels.Value, name string, rec *R, c collector) bool {
	v, ok := in[name]
	if !ok {
		return false
	}
	if err := fromValue(v, s.ref(rec)); err != nil {
		c.add(name, err)
	}
	return true
}

func (s scalarCodec[R, T]) encodeJSON(rec *R, name string, obj map[string]any, c collector) {
	ptr := s.ref(rec)
	switch p := any(ptr).(type) {
	case *bool:
		if *p {
			obj[name] = true
		}
		return
	case **bool:
		if *p != nil {
			obj[name] = **p
		}
		return
	}
	v, ok, err := toValue(ptr)
	if err != nil {
		c.add(name, err)
		return
	}
	if ok {
		obj[name] = jsonOf(v)
	}
}

func (s scalarCodec[R, T]) decodeJSON(obj map[string]any, name string, rec *R, c collector) bool {
	raw, ok := obj[name]
	if !ok || raw == nil {
		return false
	}
	v, err := valueOfJSON(raw)
	if err == nil {
		err = fromValue(v, s.ref(rec))
	}
	if err != nil {
		c.add(name, err)
	}
	return true
}

func (s scalarCodec[R, T]) reset(rec *R) {
	switch p := any(s.ref(rec)).(type) {
	case *atomic.Int32:
		p.Store(0)
	case *atomic.Int64:
		p.Store(0)
	case *big.Float:
		p.SetInt64(0)
	default:
		var zero T
		*s.ref(rec) = zero
	}
}

func (s scalarCodec[R, T]) key(rec *R) (storagemodels.Value, bool) {
	v, ok, err := toValue(s.ref(rec))
	if err != nil {
		return storagemodels.Value{}, false
	}
	return v, ok
}

func intValue[N integer](n N) (storagemodels.Value, bool, error) {
	if n == 0 {
		return storagemodels.Value{}, false, nil
	}
	return storagemodels.Int(int64(n)), true, nil
}

func intPtrValue[N integer](p *N) (storagemodels.Value, bool, error) {
	if p == nil {
		return storagemodels.Value{}, false, nil
	}
	return storagemodels.Int(int64(*p)), true, nil
}

func floatValue[F float](f F) (storagemodels.Value, bool, error) {
	if f == 0 {
		return storagemodels.Value{}, false, nil
	}
	return floatText(f), true, nil
}

func floatPtrValue[F float](p *F) (storagemodels.Value, bool, error) {
	if p == nil {
		return storagemodels.Value{}, false, nil
	}
	return floatText(*p), true, nil
}

// floatText formats at the field's own width so float32 values keep their
// short decimal form.
func floatText[F float](f F) storagemodels.Value {
	bits := 64
	if _, ok := any(f).(float32); ok {
		bits = 32
	}
	v, err := storagemodels.NumberText(strconv.FormatFloat(float64(f), 'g', -1, bits))
	if err != nil {
		return storagemodels.Float(float64(f))
	}
	return v
}

// dateTimeLayout is RFC 3339 with a fixed nanosecond fraction, so stored
// times round trip exactly and sort as text within one zone.
const dateTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func dateTimeText(dt strfmt.DateTime) storagemodels.Value {
	return storagemodels.String(time.Time(dt).Format(dateTimeLayout))
}

func dateTimeValue(dt strfmt.DateTime) (storagemodels.Value, bool, error) {
	if time.Time(dt).IsZero() {
		return storagemodels.Value{}, false, nil
	}
	return dateTimeText(dt), true, nil
}

// toValue reads the field at ptr. ok is false when the field holds its
// zero value and is therefore absent.
func toValue(ptr any) (v storagemodels.Value, ok bool, err error) {
	switch p := ptr.(type) {
	case *string:
		if *p == "" {
			return v, false, nil
		}
		return storagemodels.String(*p), true, nil
	case **string:
		if *p == nil {
			return v, false, nil
		}
		return storagemodels.String(**p), true, nil
	case *int:
		return intValue(*p)
	case *int8:
		return intValue(*p)
	case *int16:
		return intValue(*p)
	case *int32:
		return intValue(*p)
	case *int64:
		return intValue(*p)
	case **int:
		return intPtrValue(*p)
	case **int8:
		return intPtrValue(*p)
	case **int16:
		return intPtrValue(*p)
	case **int32:
		return intPtrValue(*p)
	case **int64:
		return intPtrValue(*p)
	case *float32:
		return floatValue(*p)
	case *float64:
		return floatValue(*p)
	case **float32:
		return floatPtrValue(*p)
	case **float64:
		return floatPtrValue(*p)
	case **big.Float:
		if *p == nil {
			return v, false, nil
		}
		return storagemodels.Decimal(*p), true, nil
	case *big.Float:
		if p.Sign() == 0 {
			return v, false, nil
		}
		return storagemodels.Decimal(p), true, nil
	case *atomic.Int32:
		return intValue(p.Load())
	case *atomic.Int64:
		return intValue(p.Load())
	case **atomic.Int32:
		if *p == nil {
			return v, false, nil
		}
		return storagemodels.Int(int64((*p).Load())), true, nil
	case **atomic.Int64:
		if *p == nil {
			return v, false, nil
		}
		return storagemodels.Int((*p).Load()), true, nil
	case *bool:
		if !*p {
			return v, false, nil
		}
		return storagemodels.String("true"), true, nil
	case **bool:
		if *p == nil {
			return v, false, nil
		}
		return storagemodels.String(strconv.FormatBool(**p)), true, nil
	case *strfmt.DateTime:
		return dateTimeValue(*p)
	case **strfmt.DateTime:
		if *p == nil {
			return v, false, nil
		}
		return dateTimeText(**p), true, nil
	case *storagemodels.Value:
		return *p, !p.IsZero(), nil
	case **storagemodels.Value:
		if *p == nil || (*p).IsZero() {
			return v, false, nil
		}
		return **p, true, nil
	case *any:
		return dynamicValue(*p)
	default:
		if rv := reflect.ValueOf(ptr); rv.Kind() == reflect.Pointer && !rv.IsNil() && rv.Elem().IsZero() {
			return v, false, nil
		}
		return v, false, unsupported(ptr)
	}
}

// dynamicValue converts the content of an interface field.
func dynamicValue(x any) (storagemodels.Value, bool, error) {
	switch d := x.(type) {
	case nil:
		return storagemodels.Value{}, false, nil
	case storagemodels.Value:
		return d, !d.IsZero(), nil
	case string:
		return storagemodels.String(d), true, nil
	case bool:
		return storagemodels.String(strconv.FormatBool(d)), true, nil
	case int:
		return storagemodels.Int(int64(d)), true, nil
	case int64:
		return storagemodels.Int(d), true, nil
	case float64:
		return storagemodels.Float(d), true, nil
	case json.Number:
		v, err := storagemodels.NumberText(string(d))
		if err != nil {
			return v, false, fmt.Errorf("%w: %v", errs.ErrInvalidType, err)
		}
		return v, true, nil
	default:
		return storagemodels.Value{}, false, fmt.Errorf("%w: dynamic %T", errs.ErrUnsupportedType, x)
	}
}

func intOf(v storagemodels.Value) (int64, error) {
	if !v.IsNumber() {
		return 0, fmt.Errorf("%w: %s attribute %q for numeric field", errs.ErrInvalidType, v.Kind(), v.Text())
	}
	n, err := v.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errs.ErrInvalidType, err)
	}
	return n, nil
}

func floatOf(v storagemodels.Value) (float64, error) {
	if !v.IsNumber() {
		return 0, fmt.Errorf("%w: %s attribute %q for numeric field", errs.ErrInvalidType, v.Kind(), v.Text())
	}
	f, err := v.Float64()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errs.ErrInvalidType, err)
	}
	return f, nil
}

func setInt[N integer](v storagemodels.Value, p *N) error {
	n, err := intOf(v)
	if err != nil {
		return err
	}
	*p = N(n)
	return nil
}

func setIntPtr[N integer](v storagemodels.Value, p **N) error {
	var n N
	if err := setInt(v, &n); err != nil {
		return err
	}
	*p = &n
	return nil
}

func setFloat[F float](v storagemodels.Value, p *F) error {
	f, err := floatOf(v)
	if err != nil {
		return err
	}
	*p = F(f)
	return nil
}

func setFloatPtr[F float](v storagemodels.Value, p **F) error {
	var f F
	if err := setFloat(v, &f); err != nil {
		return err
	}
	*p = &f
	return nil
}

func boolOf(v storagemodels.Value) (bool, error) {
	if !v.IsString() {
		return false, fmt.Errorf("%w: %s attribute for boolean field", errs.ErrInvalidType, v.Kind())
	}
	return strings.EqualFold(v.Text(), "true"), nil
}

func dateTimeOf(v storagemodels.Value) (strfmt.DateTime, error) {
	if !v.IsString() {
		return strfmt.DateTime{}, fmt.Errorf("%w: %s attribute for date-time field", errs.ErrInvalidType, v.Kind())
	}
	dt, err := strfmt.ParseDateTime(v.Text())
	if err != nil {
		return strfmt.DateTime{}, fmt.Errorf("%w: %v", errs.ErrInvalidType, err)
	}
	return dt, nil
}

// fromValue converts v according to the declared type of the field at ptr.
// On error the field is left unchanged.
func fromValue(v storagemodels.Value, ptr any) error {
	switch p := ptr.(type) {
	case *string:
		*p = v.Text()
	case **string:
		s := v.Text()
		*p = &s
	case *int:
		return setInt(v, p)
	case *int8:
		return setInt(v, p)
	case *int16:
		return setInt(v, p)
	case *int32:
		return setInt(v, p)
	case *int64:
		return setInt(v, p)
	case **int:
		return setIntPtr(v, p)
	case **int8:
		return setIntPtr(v, p)
	case **int16:
		return setIntPtr(v, p)
	case **int32:
		return setIntPtr(v, p)
	case **int64:
		return setIntPtr(v, p)
	case *float32:
		return setFloat(v, p)
	case *float64:
		return setFloat(v, p)
	case **float32:
		return setFloatPtr(v, p)
	case **float64:
		return setFloatPtr(v, p)
	case **big.Float, *big.Float:
		if !v.IsNumber() {
			return fmt.Errorf("%w: %s attribute for decimal field", errs.ErrInvalidType, v.Kind())
		}
		f, err := v.BigFloat()
		if err != nil {
			return fmt.Errorf("%w: %v", errs.ErrInvalidType, err)
		}
		if pp, ok := p.(**big.Float); ok {
			*pp = f
		} else {
			p.(*big.Float).Set(f)
		}
	case *atomic.Int32:
		n, err := intOf(v)
		if err != nil {
			return err
		}
		p.Store(int32(n))
	case *atomic.Int64:
		n, err := intOf(v)
		if err != nil {
			return err
		}
		p.Store(n)
	case **atomic.Int32:
		n, err := intOf(v)
		if err != nil {
			return err
		}
		a := new(atomic.Int32)
		a.Store(int32(n))
		*p = a
	case **atomic.Int64:
		n, err := intOf(v)
		if err != nil {
			return err
		}
		a := new(atomic.Int64)
		a.Store(n)
		*p = a
	case *bool:
		b, err := boolOf(v)
		if err != nil {
			return err
		}
		*p = b
	case **bool:
		b, err := boolOf(v)
		if err != nil {
			return err
		}
		*p = &b
	case *strfmt.DateTime:
		dt, err := dateTimeOf(v)
		if err != nil {
			return err
		}
		*p = dt
	case **strfmt.DateTime:
		dt, err := dateTimeOf(v)
		if err != nil {
			return err
		}
		*p = &dt
	case *storagemodels.Value:
		*p = v
	case **storagemodels.Value:
		vv := v
		*p = &vv
	case *any:
		*p = v
	default:
		return unsupported(ptr)
	}
	return nil
}

func unsupported(ptr any) error {
	t := reflect.TypeOf(ptr)
	if t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return fmt.Errorf("%w: %v", errs.ErrUnsupportedType, t)
}
