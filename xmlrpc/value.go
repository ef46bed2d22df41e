// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xmlrpc

import (
	"bytes"
	"math"

	"xmlrpc.io/errors"
)

// A Value is any value an XML-RPC document can carry.
// The set of implementations is closed: Int, Int64, Bool, Double,
// String, DateTime, Bytes, Array, *Struct and Nil.
//
// Values are trees owned top-down; once built they are treated as
// immutable and may be shared between goroutines.
type Value interface {
	// Kind reports which variant the value is.
	Kind() Kind

	isValue()
}

// Kind identifies the variant of a Value.
type Kind uint8

// The kinds of Value. The zero Kind is not a valid kind.
const (
	KindInvalid Kind = iota
	KindInt
	KindInt64
	KindBool
	KindDouble
	KindString
	KindDateTime
	KindBytes
	KindArray
	KindStruct
	KindNil
)

// String returns the wire tag name of the kind, such as "i4" or "struct".
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "i4"
	case KindInt64:
		return "i8"
	case KindBool:
		return "boolean"
	case KindDouble:
		return "double"
	case KindString:
		return "string"
	case KindDateTime:
		return "dateTime.iso8601"
	case KindBytes:
		return "base64"
	case KindArray:
		return "array"
	case KindStruct:
		return "struct"
	case KindNil:
		return "nil"
	}
	return "invalid"
}

// Int is a 32-bit signed integer, <i4> or <int> on the wire.
type Int int32

// Int64 is a 64-bit signed integer, the <i8> extension.
type Int64 int64

// Bool is <boolean>, encoded as 0 or 1.
type Bool bool

// Double is a 64-bit float, <double>.
type Double float64

// String is <string>, or bare text inside <value>.
// Its bytes are only checked for UTF-8 validity when encoded.
type String string

// Bytes is an opaque binary payload, <base64> on the wire.
type Bytes []byte

// Array is an ordered list of values, <array>.
type Array []Value

// Nil is the explicit absence of a value, the <nil/> extension.
// It can only be sent or received when the codec enables it.
type Nil struct{}

func (Int) Kind() Kind      { return KindInt }
func (Int64) Kind() Kind    { return KindInt64 }
func (Bool) Kind() Kind     { return KindBool }
func (Double) Kind() Kind   { return KindDouble }
func (String) Kind() Kind   { return KindString }
func (DateTime) Kind() Kind { return KindDateTime }
func (Bytes) Kind() Kind    { return KindBytes }
func (Array) Kind() Kind    { return KindArray }
func (*Struct) Kind() Kind  { return KindStruct }
func (Nil) Kind() Kind      { return KindNil }

func (Int) isValue()      {}
func (Int64) isValue()    {}
func (Bool) isValue()     {}
func (Double) isValue()   {}
func (String) isValue()   {}
func (DateTime) isValue() {}
func (Bytes) isValue()    {}
func (Array) isValue()    {}
func (*Struct) isValue()  {}
func (Nil) isValue()      {}

// A Member is one named entry of a Struct.
type Member struct {
	Name  string
	Value Value
}

// Struct is a mapping from names to values, <struct> on the wire.
// Names are unique. Insertion order carries no meaning but is kept
// so that encoding is deterministic.
type Struct struct {
	members []Member
	index   map[string]int
}

// NewStruct returns a Struct holding the given members in order.
// It fails if two members share a name.
func NewStruct(members ...Member) (*Struct, error) {
	const op errors.Op = "xmlrpc.NewStruct"
	s := &Struct{}
	for _, m := range members {
		if err := s.add(m.Name, m.Value); err != nil {
			return nil, errors.E(op, err)
		}
	}
	return s, nil
}

func (s *Struct) add(name string, v Value) error {
	if v == nil {
		return errors.E(errors.Invalid, errors.Errorf("member %q has no value", name))
	}
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if _, ok := s.index[name]; ok {
		return errors.E(errors.Invalid, errors.Errorf("duplicate member %q", name))
	}
	s.index[name] = len(s.members)
	s.members = append(s.members, Member{Name: name, Value: v})
	return nil
}

// Set adds the named member, or replaces its value if the name is
// already present, and returns the receiver. It is meant for building a
// Struct before it is shared; a nil value removes nothing and is ignored.
func (s *Struct) Set(name string, v Value) *Struct {
	if v == nil {
		return s
	}
	if i, ok := s.index[name]; ok {
		s.members[i].Value = v
		return s
	}
	s.add(name, v)
	return s
}

// Get returns the value of the named member.
func (s *Struct) Get(name string) (Value, bool) {
	if s == nil {
		return nil, false
	}
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.members[i].Value, true
}

// Len returns the number of members.
func (s *Struct) Len() int {
	if s == nil {
		return 0
	}
	return len(s.members)
}

// Members returns the members in insertion order.
// The returned slice must not be modified.
func (s *Struct) Members() []Member {
	if s == nil {
		return nil
	}
	return s.members
}

// Equal reports whether a and b are the same value tree.
// Struct members are compared by name regardless of order, and
// DateTimes compare by their fields, so an absent and a zero offset
// or fraction are the same.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case Int, Int64, Bool, String, DateTime, Nil:
		return a == b
	case Double:
		b := b.(Double)
		return a == b || math.Float64bits(float64(a)) == math.Float64bits(float64(b))
	case Bytes:
		return bytes.Equal(a, b.(Bytes))
	case Array:
		b := b.(Array)
		if len(a) != len(b) {
			return false
		}
		for i := range a {
			if !Equal(a[i], b[i]) {
				return false
			}
		}
		return true
	case *Struct:
		b := b.(*Struct)
		if a.Len() != b.Len() {
			return false
		}
		for _, m := range a.Members() {
			v, ok := b.Get(m.Name)
			if !ok || !Equal(m.Value, v) {
				return false
			}
		}
		return true
	}
	return false
}
