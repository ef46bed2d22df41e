// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package inprocess implements an in-memory Transport that serves
// requests by calling a Go function. It exists so clients and tests can
// exercise the whole document round trip without a network.
package inprocess // import "xmlrpc.io/transport/inprocess"

import (
	"bytes"
	"context"
	"sync"

	"xmlrpc.io/codec"
	"xmlrpc.io/errors"
	"xmlrpc.io/log"
	"xmlrpc.io/message"
	"xmlrpc.io/xmlrpc"
)

// Standard fault codes used for requests that never reach the handler.
const (
	FaultParse          = -32700
	FaultMethodNotFound = -32601
)

// A Handler serves one decoded request. Returning a *xmlrpc.Fault as the
// error sends a fault document; any other error aborts the round trip
// and is returned by RoundTrip as the transport's failure.
type Handler func(ctx context.Context, req *xmlrpc.Request) (xmlrpc.Value, error)

// Transport serves requests in process. The system.multicall method is
// expanded by the transport itself, calling the handler once per entry.
type Transport struct {
	handler Handler
	opts    codec.Options

	// mu protects the fields below.
	mu       sync.Mutex
	requests int
}

var _ xmlrpc.Transport = (*Transport)(nil)

// New returns a Transport that serves requests with h.
func New(h Handler, opts codec.Options) *Transport {
	return &Transport{handler: h, opts: opts}
}

// Requests reports how many documents the transport has received.
func (t *Transport) Requests() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.requests
}

// RoundTrip implements xmlrpc.Transport.
func (t *Transport) RoundTrip(ctx context.Context, dest xmlrpc.Endpoint, request []byte) ([]byte, error) {
	const op errors.Op = "transport/inprocess.RoundTrip"
	if dest.Transport != xmlrpc.InProcess {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("cannot reach endpoint %s", dest))
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.E(op, err)
	}
	t.mu.Lock()
	t.requests++
	t.mu.Unlock()

	req, err := message.ParseRequest(bytes.NewReader(request), t.opts)
	if err != nil {
		log.Debug.Printf("%s: unparseable request: %v", op, err)
		return message.MarshalFault(&xmlrpc.Fault{Code: FaultParse, Message: err.Error()})
	}
	var v xmlrpc.Value
	if req.Method == message.MulticallMethod {
		v, err = t.multicall(ctx, req)
	} else {
		v, err = t.serve(ctx, req)
	}
	if f, ok := xmlrpc.FaultOf(err); ok {
		return message.MarshalFault(f)
	}
	if err != nil {
		return nil, errors.E(op, errors.Method(req.Method), err)
	}
	b, err := message.MarshalResponse(v, t.opts)
	if err != nil {
		return nil, errors.E(op, errors.Method(req.Method), err)
	}
	return b, nil
}

func (t *Transport) serve(ctx context.Context, req *xmlrpc.Request) (xmlrpc.Value, error) {
	if t.handler == nil {
		return nil, &xmlrpc.Fault{Code: FaultMethodNotFound, Message: "no handler for " + req.Method}
	}
	return t.handler(ctx, req)
}

func (t *Transport) multicall(ctx context.Context, req *xmlrpc.Request) (xmlrpc.Value, error) {
	calls, err := message.UnpackMulticall(req)
	if err != nil {
		return nil, &xmlrpc.Fault{Code: FaultParse, Message: err.Error()}
	}
	results := make([]xmlrpc.Result, len(calls))
	for i, c := range calls {
		v, err := t.serve(ctx, xmlrpc.NewRequest(c.Method, c.Params...))
		if f, ok := xmlrpc.FaultOf(err); ok {
			results[i].Fault = f
			continue
		}
		if err != nil {
			return nil, err
		}
		results[i].Value = v
	}
	return message.PackMulticall(results)
}

// Raw returns a Transport that hands the request document to fn and
// returns whatever bytes fn produces, for replaying canned responses.
func Raw(fn func(request []byte) ([]byte, error)) xmlrpc.Transport {
	return xmlrpc.TransportFunc(func(ctx context.Context, _ xmlrpc.Endpoint, request []byte) ([]byte, error) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return fn(request)
	})
}
