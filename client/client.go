// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package client makes XML-RPC calls through an xmlrpc.Transport.
//
// A call is serialized, handed to the transport, and its response parsed.
// It ends in exactly one of a value, a *xmlrpc.Fault (as an error of kind
// errors.Fault), or an error saying why the call could not complete.
// Nothing is retried.
package client // import "xmlrpc.io/client"

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"xmlrpc.io/codec"
	"xmlrpc.io/errors"
	"xmlrpc.io/log"
	"xmlrpc.io/message"
	"xmlrpc.io/metric"
	"xmlrpc.io/xmlrpc"
)

const tracerName = "xmlrpc.io/client"

// Client sends calls to one endpoint. It is safe for concurrent use if
// its transport is.
type Client struct {
	transport xmlrpc.Transport
	dest      xmlrpc.Endpoint
	opts      codec.Options
	tracer    trace.Tracer
}

// An Option configures a Client.
type Option func(*Client)

// WithNil enables the <nil/> extension in requests and responses.
func WithNil(enabled bool) Option {
	return func(c *Client) { c.opts.Nil = enabled }
}

// WithMaxDepth bounds the nesting of decoded response values.
// Values below one select codec.DefaultMaxDepth.
func WithMaxDepth(n int) Option {
	return func(c *Client) { c.opts.MaxDepth = n }
}

// WithTracerProvider sets the provider of the tracer for call spans.
// By default the global provider is used.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(c *Client) { c.tracer = tp.Tracer(tracerName) }
}

// New returns a Client that sends calls to dest through t.
func New(t xmlrpc.Transport, dest xmlrpc.Endpoint, opts ...Option) *Client {
	c := &Client{
		transport: t,
		dest:      dest,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.tracer == nil {
		c.tracer = otel.GetTracerProvider().Tracer(tracerName)
	}
	return c
}

// Endpoint returns the destination of the client's calls.
func (c *Client) Endpoint() xmlrpc.Endpoint {
	return c.dest
}

// Call calls the named method with the given parameters and returns its
// result. A fault returned by the server is an error of kind errors.Fault
// from which xmlrpc.FaultOf recovers the *xmlrpc.Fault.
func (c *Client) Call(ctx context.Context, method string, params ...xmlrpc.Value) (xmlrpc.Value, error) {
	return c.Do(ctx, xmlrpc.NewRequest(method, params...))
}

// Do is like Call for a prepared request.
func (c *Client) Do(ctx context.Context, req *xmlrpc.Request) (xmlrpc.Value, error) {
	const op errors.Op = "client.Call"
	var method string
	if req != nil {
		method = req.Method
	}
	ctx, sp, m, root := c.start(ctx, op, method)
	v, err := c.do(ctx, op, root, req)
	c.finish(sp, m, op, method, err)
	return v, err
}

// Multicall sends the calls as one system.multicall request. On success
// it returns one Result per call, in order; a call the server rejected
// has its Fault set. The returned error reports failure of the batch as
// a whole.
func (c *Client) Multicall(ctx context.Context, calls ...xmlrpc.Call) ([]xmlrpc.Result, error) {
	const op errors.Op = "client.Multicall"
	ctx, sp, m, root := c.start(ctx, op, message.MulticallMethod)
	sp.SetAttributes(attribute.Int("xmlrpc.multicall.calls", len(calls)))

	results, err := c.multicall(ctx, op, root, calls)
	for i, r := range results {
		if r.Fault != nil {
			addFaultEvent(sp, r.Fault, attribute.Int("xmlrpc.multicall.index", i))
		}
	}
	c.finish(sp, m, op, message.MulticallMethod, err)
	return results, err
}

func (c *Client) multicall(ctx context.Context, op errors.Op, root *metric.Span, calls []xmlrpc.Call) ([]xmlrpc.Result, error) {
	s := root.StartSpan("serialize")
	req, err := message.NewMulticall(calls...)
	s.End()
	if err != nil {
		return nil, errors.E(op, err)
	}
	v, err := c.do(ctx, op, root, req)
	if err != nil {
		return nil, err
	}
	results, err := message.ParseMulticall(v, len(calls))
	if err != nil {
		return nil, errors.E(op, err)
	}
	return results, nil
}

// do runs the lifecycle of one request: serialize, send, parse.
func (c *Client) do(ctx context.Context, op errors.Op, root *metric.Span, req *xmlrpc.Request) (xmlrpc.Value, error) {
	s := root.StartSpan("serialize")
	body, err := message.MarshalRequest(req, c.opts)
	s.End()
	if err != nil {
		return nil, errors.E(op, err)
	}
	method := errors.Method(req.Method)

	s = root.StartSpan("transport")
	resp, err := c.transport.RoundTrip(ctx, c.dest, body)
	s.End()
	if err != nil {
		return nil, errors.E(op, method, errors.Transport, err)
	}

	s = root.StartSpan("parse")
	v, err := message.UnmarshalResponse(resp, c.opts)
	s.End()
	if err != nil {
		return nil, errors.E(op, method, err)
	}
	return v, nil
}

func (c *Client) start(ctx context.Context, op errors.Op, method string) (context.Context, trace.Span, *metric.Metric, *metric.Span) {
	ctx, sp := c.tracer.Start(ctx, "xmlrpc.call",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rpc.system", "xmlrpc"),
			attribute.String("rpc.method", method),
		))
	m, root := metric.NewSpan(op)
	m.SetLabel(metric.MethodLabel, method)
	root.SetAnnotation(c.dest.String())
	return ctx, sp, m, root
}

func (c *Client) finish(sp trace.Span, m *metric.Metric, op errors.Op, method string, err error) {
	out := outcome(err)
	m.SetLabel(metric.OutcomeLabel, out)
	m.Done()

	sp.SetAttributes(attribute.String("xmlrpc.outcome", out))
	if f, ok := xmlrpc.FaultOf(err); ok && out == "fault" {
		addFaultEvent(sp, f)
	} else if err != nil {
		sp.RecordError(err)
		sp.SetStatus(codes.Error, out)
	} else {
		sp.SetStatus(codes.Ok, "")
	}
	sp.End()

	if err != nil {
		log.Debug.Printf("%s: %s to %s: %s: %v", op, method, c.dest, out, err)
		return
	}
	log.Debug.Printf("%s: %s to %s: ok", op, method, c.dest)
}

func addFaultEvent(sp trace.Span, f *xmlrpc.Fault, attrs ...attribute.KeyValue) {
	attrs = append(attrs,
		attribute.Int("xmlrpc.fault.code", int(f.Code)),
		attribute.String("xmlrpc.fault.message", f.Message),
	)
	sp.AddEvent("xmlrpc.fault", trace.WithAttributes(attrs...))
}

// outcome names the terminal state of a call for metrics and traces.
func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(errors.Fault, err):
		return "fault"
	case errors.Is(errors.Transport, err):
		return "transport"
	case errors.IsDocument(err):
		return "document"
	case errors.Is(errors.Encoding, err):
		return "encoding"
	case errors.Is(errors.Invalid, err):
		return "invalid"
	}
	return "error"
}

