// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xmlrpc

import (
	"math"
	"reflect"
	"sort"
	"time"

	"xmlrpc.io/errors"
)

var (
	valueType = reflect.TypeOf((*Value)(nil)).Elem()
	timeType  = reflect.TypeOf(time.Time{})
)

// ValueOf converts an ordinary Go value to a Value.
//
// Values are returned unchanged. Booleans, integers, floats, strings,
// []byte, time.Time, slices, arrays and maps with string keys are
// converted; integers that fit in 32 bits become Int and larger ones
// Int64. Map members are ordered by name. A nil interface, pointer, slice
// or map becomes Nil. A cyclic input and anything else are Invalid errors.
func ValueOf(x any) (Value, error) {
	const op errors.Op = "xmlrpc.ValueOf"
	if x == nil {
		return Nil{}, nil
	}
	if v, ok := x.(Value); ok {
		return v, nil
	}
	c := converter{active: make(map[visit]bool)}
	v, err := c.valueOf(reflect.ValueOf(x))
	if err != nil {
		return nil, errors.E(op, err)
	}
	return v, nil
}

// A visit identifies a pointer, slice or map being converted.
// Slices sharing a backing array differ by length.
type visit struct {
	ptr uintptr
	typ reflect.Type
	len int
}

// converter holds the references on the path from the root to the value
// being converted. Meeting one again means the input is cyclic.
type converter struct {
	active map[visit]bool
}

// enter records rv on the current path. It fails if rv is already on it.
func (c *converter) enter(rv reflect.Value) (visit, error) {
	v := visit{ptr: rv.Pointer(), typ: rv.Type()}
	if rv.Kind() == reflect.Slice {
		v.len = rv.Len()
	}
	if c.active[v] {
		return v, errors.E(errors.Invalid, errors.Errorf("cyclic %s value", rv.Type()))
	}
	c.active[v] = true
	return v, nil
}

func (c *converter) leave(v visit) {
	delete(c.active, v)
}

func (c *converter) valueOf(rv reflect.Value) (Value, error) {
	if k := rv.Kind(); (k == reflect.Interface || k == reflect.Pointer) && rv.IsNil() {
		return Nil{}, nil
	}
	if rv.Type().Implements(valueType) {
		return rv.Interface().(Value), nil
	}
	if rv.Type() == timeType {
		return DateTimeOf(rv.Interface().(time.Time)), nil
	}
	switch rv.Kind() {
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intValue(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, errors.E(errors.Invalid, errors.Errorf("unsigned value %d overflows i8", u))
		}
		return intValue(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return Double(rv.Float()), nil
	case reflect.String:
		return String(rv.String()), nil
	case reflect.Interface:
		return c.valueOf(rv.Elem())
	case reflect.Pointer:
		v, err := c.enter(rv)
		if err != nil {
			return nil, err
		}
		defer c.leave(v)
		return c.valueOf(rv.Elem())
	case reflect.Slice:
		if rv.IsNil() {
			return Nil{}, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return Bytes(rv.Bytes()), nil
		}
		v, err := c.enter(rv)
		if err != nil {
			return nil, err
		}
		defer c.leave(v)
		return c.arrayOf(rv)
	case reflect.Array:
		return c.arrayOf(rv)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, errors.E(errors.Invalid, errors.Errorf("map key type %s is not a string", rv.Type().Key()))
		}
		if rv.IsNil() {
			return Nil{}, nil
		}
		v, err := c.enter(rv)
		if err != nil {
			return nil, err
		}
		defer c.leave(v)
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		s := &Struct{}
		for _, k := range keys {
			m, err := c.valueOf(rv.MapIndex(k))
			if err != nil {
				return nil, err
			}
			s.Set(k.String(), m)
		}
		return s, nil
	}
	return nil, errors.E(errors.Invalid, errors.Errorf("cannot convert %s to a value", rv.Type()))
}

func intValue(i int64) Value {
	if i < math.MinInt32 || i > math.MaxInt32 {
		return Int64(i)
	}
	return Int(i)
}

func (c *converter) arrayOf(rv reflect.Value) (Value, error) {
	a := make(Array, rv.Len())
	for i := range a {
		v, err := c.valueOf(rv.Index(i))
		if err != nil {
			return nil, err
		}
		a[i] = v
	}
	return a, nil
}

// AsInt64 returns the integer held by an Int or Int64.
func AsInt64(v Value) (int64, bool) {
	switch v := v.(type) {
	case Int:
		return int64(v), true
	case Int64:
		return int64(v), true
	}
	return 0, false
}

// AsBool returns the boolean held by a Bool.
func AsBool(v Value) (bool, bool) {
	b, ok := v.(Bool)
	return bool(b), ok
}

// AsDouble returns the float held by a Double.
func AsDouble(v Value) (float64, bool) {
	d, ok := v.(Double)
	return float64(d), ok
}

// AsString returns the text held by a String.
func AsString(v Value) (string, bool) {
	s, ok := v.(String)
	return string(s), ok
}

// AsBytes returns the payload held by a Bytes.
func AsBytes(v Value) ([]byte, bool) {
	b, ok := v.(Bytes)
	return []byte(b), ok
}

// AsDateTime returns the DateTime held by v.
func AsDateTime(v Value) (DateTime, bool) {
	d, ok := v.(DateTime)
	return d, ok
}

// AsArray returns the elements held by an Array.
func AsArray(v Value) ([]Value, bool) {
	a, ok := v.(Array)
	return []Value(a), ok
}

// AsStruct returns v as a *Struct.
func AsStruct(v Value) (*Struct, bool) {
	s, ok := v.(*Struct)
	return s, ok
}
