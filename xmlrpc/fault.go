// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xmlrpc

import (
	stderrors "errors"
	"fmt"
	"math"

	"xmlrpc.io/errors"
)

// Names of the two members of a fault struct.
const (
	FaultCodeMember   = "faultCode"
	FaultStringMember = "faultString"
)

// A Fault is a failure reported by the remote peer: the call reached
// the server and the server declined it. It is a normal outcome of a
// call, not a local error.
type Fault struct {
	Code    int32
	Message string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("%s (%d)", f.Message, f.Code)
}

// Value returns f as the struct carried inside <fault>.
func (f *Fault) Value() Value {
	s := &Struct{}
	s.Set(FaultCodeMember, Int(f.Code))
	s.Set(FaultStringMember, String(f.Message))
	return s
}

// FaultFromValue interprets v as a fault struct. The struct must have
// exactly two members: faultCode, an integer that fits in 32 bits, and
// faultString, a string. Anything else is a malformed document.
func FaultFromValue(v Value) (*Fault, error) {
	const op errors.Op = "xmlrpc.FaultFromValue"
	s, ok := v.(*Struct)
	if !ok {
		return nil, errors.E(op, errors.Document, errors.Errorf("fault is a %s, not a struct", kindOf(v)))
	}
	if s.Len() != 2 {
		return nil, errors.E(op, errors.Document, errors.Errorf("fault struct has %d members, want 2", s.Len()))
	}
	codeVal, ok := s.Get(FaultCodeMember)
	if !ok {
		return nil, errors.E(op, errors.Document, "fault struct has no faultCode member")
	}
	msgVal, ok := s.Get(FaultStringMember)
	if !ok {
		return nil, errors.E(op, errors.Document, "fault struct has no faultString member")
	}
	var code int32
	switch c := codeVal.(type) {
	case Int:
		code = int32(c)
	case Int64:
		if c < math.MinInt32 || c > math.MaxInt32 {
			return nil, errors.E(op, errors.Document, errors.Errorf("faultCode %d out of range", c))
		}
		code = int32(c)
	default:
		return nil, errors.E(op, errors.Document, errors.Errorf("faultCode is a %s, not an integer", kindOf(codeVal)))
	}
	msg, ok := msgVal.(String)
	if !ok {
		return nil, errors.E(op, errors.Document, errors.Errorf("faultString is a %s, not a string", kindOf(msgVal)))
	}
	return &Fault{Code: code, Message: string(msg)}, nil
}

// FaultOf returns the remote fault carried by err, if any.
func FaultOf(err error) (*Fault, bool) {
	var f *Fault
	if stderrors.As(err, &f) {
		return f, true
	}
	return nil, false
}

func kindOf(v Value) Kind {
	if v == nil {
		return KindInvalid
	}
	return v.Kind()
}
