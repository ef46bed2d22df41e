// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xmlrpc

import (
	"math"
	"testing"
	"time"

	"xmlrpc.io/errors"
)

func TestKindString(t *testing.T) {
	tests := []struct {
		v    Value
		want string
	}{
		{Int(1), "i4"},
		{Int64(1), "i8"},
		{Bool(true), "boolean"},
		{Double(1), "double"},
		{String("x"), "string"},
		{DateTime{Year: 2020, Month: 1, Day: 1}, "dateTime.iso8601"},
		{Bytes("x"), "base64"},
		{Array{}, "array"},
		{&Struct{}, "struct"},
		{Nil{}, "nil"},
	}
	for _, test := range tests {
		if got := test.v.Kind().String(); got != test.want {
			t.Errorf("%T: kind %q, want %q", test.v, got, test.want)
		}
	}
	if got := KindInvalid.String(); got != "invalid" {
		t.Errorf("KindInvalid = %q", got)
	}
}

func TestNewStructDuplicate(t *testing.T) {
	_, err := NewStruct(Member{"a", Int(1)}, Member{"b", Int(2)}, Member{"a", Int(3)})
	if !errors.Is(errors.Invalid, err) {
		t.Fatalf("got %v, want Invalid error", err)
	}
	_, err = NewStruct(Member{"a", nil})
	if !errors.Is(errors.Invalid, err) {
		t.Fatalf("nil member: got %v, want Invalid error", err)
	}
}

func TestStructSet(t *testing.T) {
	s := (&Struct{}).Set("b", Int(1)).Set("a", Int(2)).Set("b", Int(3))
	if s.Len() != 2 {
		t.Fatalf("Len = %d, want 2", s.Len())
	}
	m := s.Members()
	if m[0].Name != "b" || m[1].Name != "a" {
		t.Errorf("order = %q %q, want b a", m[0].Name, m[1].Name)
	}
	if v, _ := s.Get("b"); v != Int(3) {
		t.Errorf("b = %v, want 3", v)
	}
	if _, ok := s.Get("c"); ok {
		t.Error("found missing member c")
	}
	var nilStruct *Struct
	if nilStruct.Len() != 0 {
		t.Error("nil struct has members")
	}
}

func TestEqual(t *testing.T) {
	s1, _ := NewStruct(Member{"x", Int(1)}, Member{"y", String("a")})
	s2, _ := NewStruct(Member{"y", String("a")}, Member{"x", Int(1)})
	s3, _ := NewStruct(Member{"y", String("a")}, Member{"x", Int64(1)})
	nan := Double(math.NaN())
	tests := []struct {
		a, b Value
		want bool
	}{
		{Int(1), Int(1), true},
		{Int(1), Int64(1), false},
		{nan, nan, true},
		{Double(0), Double(math.Copysign(0, -1)), true},
		{Bytes("ab"), Bytes("ab"), true},
		{Bytes("ab"), Bytes("ac"), false},
		{Array{Int(1), String("x")}, Array{Int(1), String("x")}, true},
		{Array{Int(1)}, Array{Int(1), Int(2)}, false},
		{s1, s2, true},
		{s1, s3, false},
		{Nil{}, Nil{}, true},
		{nil, nil, true},
		{nil, Nil{}, false},
		{DateTime{Year: 1998, Month: 7, Day: 17}, DateTime{Year: 1998, Month: 7, Day: 17}, true},
	}
	for i, test := range tests {
		if got := Equal(test.a, test.b); got != test.want {
			t.Errorf("%d: Equal(%v, %v) = %t, want %t", i, test.a, test.b, got, test.want)
		}
	}
}

func TestDateTimeString(t *testing.T) {
	tests := []struct {
		d    DateTime
		want string
	}{
		{DateTime{Year: 1998, Month: 7, Day: 17, Hour: 14, Minute: 8, Second: 55}, "19980717T14:08:55"},
		{DateTime{Year: 2024, Month: 2, Day: 29, Millisecond: 5}, "20240229T00:00:00.005"},
		{DateTime{Year: 2024, Month: 2, Day: 29, Offset: -330}, "20240229T00:00:00-05:30"},
		{DateTime{Year: 2024, Month: 2, Day: 29, Offset: 60}, "20240229T00:00:00+01:00"},
	}
	for _, test := range tests {
		if got := test.d.String(); got != test.want {
			t.Errorf("got %q, want %q", got, test.want)
		}
	}
}

func TestDateTimeValid(t *testing.T) {
	tests := []struct {
		d    DateTime
		want bool
	}{
		{DateTime{Year: 2024, Month: 2, Day: 29}, true},
		{DateTime{Year: 2023, Month: 2, Day: 29}, false},
		{DateTime{Year: 2023, Month: 13, Day: 1}, false},
		{DateTime{Year: 2023, Month: 1, Day: 1, Hour: 24}, false},
		{DateTime{Year: 2023, Month: 1, Day: 1, Offset: 24 * 60}, false},
		{DateTime{Year: 2023, Month: 1, Day: 1, Millisecond: 1000}, false},
	}
	for _, test := range tests {
		if got := test.d.Valid(); got != test.want {
			t.Errorf("%v.Valid() = %t, want %t", test.d, got, test.want)
		}
	}
}

func TestDateTimeTime(t *testing.T) {
	tm := time.Date(2001, 3, 4, 5, 6, 7, 891234567, time.FixedZone("x", -2*3600))
	d := DateTimeOf(tm)
	if d.Millisecond != 891 || d.Offset != -120 {
		t.Fatalf("DateTimeOf = %+v", d)
	}
	back := d.Time()
	if !back.Equal(tm.Truncate(time.Millisecond)) {
		t.Errorf("Time() = %v, want %v", back, tm.Truncate(time.Millisecond))
	}
}
