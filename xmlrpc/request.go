// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xmlrpc

import (
	"context"

	"xmlrpc.io/errors"
)

// A Request is one method call: a method name and its ordered
// parameters. A Request is built by the caller, not modified afterwards,
// and consumed by a single call.
type Request struct {
	Method string
	Params []Value
}

// NewRequest returns a request to call method with the given parameters.
func NewRequest(method string, params ...Value) *Request {
	return &Request{Method: method, Params: params}
}

// Validate checks the parts of the request that must hold before it
// can be serialized: a non-empty method name and no missing parameters.
func (r *Request) Validate() error {
	const op errors.Op = "xmlrpc.Request.Validate"
	if r == nil {
		return errors.E(op, errors.Invalid, "nil request")
	}
	if r.Method == "" {
		return errors.E(op, errors.Encoding, "empty method name")
	}
	for i, p := range r.Params {
		if p == nil {
			return errors.E(op, errors.Method(r.Method), errors.Encoding, errors.Errorf("parameter %d is nil", i))
		}
	}
	return nil
}

// A Call is one entry of a multicall batch.
type Call struct {
	Method string
	Params []Value
}

// A Result is the outcome of one call of a multicall batch:
// exactly one of Value and Fault is set.
type Result struct {
	Value Value
	Fault *Fault
}

// Err returns the fault as an error, or nil on success.
func (r Result) Err() error {
	if r.Fault != nil {
		return r.Fault
	}
	return nil
}

// Transport delivers a serialized request document to a destination and
// returns the bytes of the response document.
//
// RoundTrip blocks until the response is fully available or delivery has
// certainly failed. Implementations own timeouts, retries and
// cancellation; the returned errors must be safe to hand to another
// goroutine.
type Transport interface {
	RoundTrip(ctx context.Context, dest Endpoint, request []byte) ([]byte, error)
}

// TransportFunc adapts an ordinary function to the Transport interface.
type TransportFunc func(ctx context.Context, dest Endpoint, request []byte) ([]byte, error)

// RoundTrip calls f(ctx, dest, request).
func (f TransportFunc) RoundTrip(ctx context.Context, dest Endpoint, request []byte) ([]byte, error) {
	return f(ctx, dest, request)
}
