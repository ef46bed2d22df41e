// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package message

import (
	"xmlrpc.io/errors"
	"xmlrpc.io/xmlrpc"
)

// MulticallMethod is the method that runs a batch of calls in one
// round trip.
const MulticallMethod = "system.multicall"

// Member names of one packed call.
const (
	methodNameMember = "methodName"
	paramsMember     = "params"
)

// NewMulticall packs calls into one system.multicall request. The
// request has a single parameter, an array holding one
// {methodName, params} struct per call, in order.
func NewMulticall(calls ...xmlrpc.Call) (*xmlrpc.Request, error) {
	const op errors.Op = "message.NewMulticall"
	batch := make(xmlrpc.Array, len(calls))
	for i, c := range calls {
		if err := (&xmlrpc.Request{Method: c.Method, Params: c.Params}).Validate(); err != nil {
			return nil, errors.E(op, errors.Method(MulticallMethod), errors.Encoding, errors.Errorf("call %d: %v", i, err))
		}
		params := xmlrpc.Array(c.Params)
		if params == nil {
			params = xmlrpc.Array{}
		}
		s, err := xmlrpc.NewStruct(
			xmlrpc.Member{Name: methodNameMember, Value: xmlrpc.String(c.Method)},
			xmlrpc.Member{Name: paramsMember, Value: params},
		)
		if err != nil {
			return nil, errors.E(op, err)
		}
		batch[i] = s
	}
	return xmlrpc.NewRequest(MulticallMethod, batch), nil
}

// UnpackMulticall is the inverse of NewMulticall: it recovers the calls
// from a system.multicall request.
func UnpackMulticall(r *xmlrpc.Request) ([]xmlrpc.Call, error) {
	const op errors.Op = "message.UnpackMulticall"
	bad := func(format string, args ...any) error {
		return errors.E(op, errors.Method(MulticallMethod), errors.Document, errors.Errorf(format, args...))
	}
	if r.Method != MulticallMethod {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("method %q is not %s", r.Method, MulticallMethod))
	}
	if len(r.Params) != 1 {
		return nil, bad("want 1 parameter, have %d", len(r.Params))
	}
	batch, ok := xmlrpc.AsArray(r.Params[0])
	if !ok {
		return nil, bad("parameter is a %s, not an array", kind(r.Params[0]))
	}
	calls := make([]xmlrpc.Call, len(batch))
	for i, elem := range batch {
		s, ok := xmlrpc.AsStruct(elem)
		if !ok {
			return nil, bad("call %d is a %s, not a struct", i, kind(elem))
		}
		name, _ := s.Get(methodNameMember)
		method, ok := xmlrpc.AsString(name)
		if !ok || method == "" {
			return nil, bad("call %d has no method name", i)
		}
		p, _ := s.Get(paramsMember)
		params, ok := xmlrpc.AsArray(p)
		if !ok {
			return nil, bad("call %d has no params array", i)
		}
		calls[i] = xmlrpc.Call{Method: method, Params: params}
	}
	return calls, nil
}

// ParseMulticall unpacks the value returned by system.multicall into one
// Result per call, in order. Each element must be a one-element array,
// the call's result, or a fault struct. Any other shape, or a number of
// results other than n, is a Document error.
func ParseMulticall(v xmlrpc.Value, n int) ([]xmlrpc.Result, error) {
	const op errors.Op = "message.ParseMulticall"
	bad := func(format string, args ...any) error {
		return errors.E(op, errors.Method(MulticallMethod), errors.Document, errors.Errorf(format, args...))
	}
	results, ok := xmlrpc.AsArray(v)
	if !ok {
		return nil, bad("result is a %s, not an array", kind(v))
	}
	if len(results) != n {
		return nil, bad("got %d results for %d calls", len(results), n)
	}
	out := make([]xmlrpc.Result, n)
	for i, elem := range results {
		switch elem := elem.(type) {
		case xmlrpc.Array:
			if len(elem) != 1 {
				return nil, bad("result %d is an array of %d values, want 1", i, len(elem))
			}
			out[i].Value = elem[0]
		case *xmlrpc.Struct:
			f, err := xmlrpc.FaultFromValue(elem)
			if err != nil {
				return nil, bad("result %d: %v", i, err)
			}
			out[i].Fault = f
		default:
			return nil, bad("result %d is a %s, want an array or a fault struct", i, kind(elem))
		}
	}
	return out, nil
}

// PackMulticall builds the value system.multicall returns for results.
func PackMulticall(results []xmlrpc.Result) (xmlrpc.Value, error) {
	const op errors.Op = "message.PackMulticall"
	out := make(xmlrpc.Array, len(results))
	for i, r := range results {
		switch {
		case r.Fault != nil:
			out[i] = r.Fault.Value()
		case r.Value != nil:
			out[i] = xmlrpc.Array{r.Value}
		default:
			return nil, errors.E(op, errors.Invalid, errors.Errorf("result %d is empty", i))
		}
	}
	return out, nil
}

func kind(v xmlrpc.Value) xmlrpc.Kind {
	if v == nil {
		return xmlrpc.KindInvalid
	}
	return v.Kind()
}
