// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"xmlrpc.io/codec"
	"xmlrpc.io/config"
	"xmlrpc.io/errors"
	"xmlrpc.io/message"
	"xmlrpc.io/transport/inprocess"
	"xmlrpc.io/xmlrpc"
)

var local = xmlrpc.Endpoint{Transport: xmlrpc.InProcess}

// serve implements a few methods for the tests.
func serve(ctx context.Context, req *xmlrpc.Request) (xmlrpc.Value, error) {
	switch req.Method {
	case "math.add":
		var sum int64
		for _, p := range req.Params {
			n, ok := xmlrpc.AsInt64(p)
			if !ok {
				return nil, &xmlrpc.Fault{Code: 3, Message: "not an integer"}
			}
			sum += n
		}
		return xmlrpc.Int(sum), nil
	case "echo":
		if len(req.Params) != 1 {
			return nil, &xmlrpc.Fault{Code: 4, Message: "Too many parameters."}
		}
		return req.Params[0], nil
	case "nest":
		var v xmlrpc.Value = xmlrpc.Array{}
		for i := 0; i < 10; i++ {
			v = xmlrpc.Array{v}
		}
		return v, nil
	case "broken":
		return nil, errors.Str("handler crashed")
	}
	return nil, &xmlrpc.Fault{Code: inprocess.FaultMethodNotFound, Message: "no such method " + req.Method}
}

func newClient(opts ...Option) (*Client, *inprocess.Transport) {
	t := inprocess.New(serve, codec.Options{Nil: true})
	return New(t, local, opts...), t
}

func TestCall(t *testing.T) {
	c, _ := newClient()
	v, err := c.Call(context.Background(), "math.add", xmlrpc.Int(2), xmlrpc.Int64(3))
	if err != nil {
		t.Fatal(err)
	}
	if v != xmlrpc.Int(5) {
		t.Errorf("math.add = %v, want 5", v)
	}

	s := (&xmlrpc.Struct{}).Set("name", xmlrpc.String("Ann")).Set("tags", xmlrpc.Array{xmlrpc.Bool(true), xmlrpc.Double(1.5)})
	v, err = c.Do(context.Background(), xmlrpc.NewRequest("echo", s))
	if err != nil {
		t.Fatal(err)
	}
	if !xmlrpc.Equal(v, s) {
		t.Errorf("echo = %v, want %v", v, s)
	}
	if c.Endpoint() != local {
		t.Errorf("Endpoint() = %v", c.Endpoint())
	}
}

func TestFault(t *testing.T) {
	c, _ := newClient()
	_, err := c.Call(context.Background(), "echo", xmlrpc.Int(1), xmlrpc.Int(2))
	if !errors.Match(errors.E(errors.Op("client.Call"), errors.Method("echo"), errors.Fault), err) {
		t.Fatalf("got %v, want fault", err)
	}
	f, ok := xmlrpc.FaultOf(err)
	if !ok {
		t.Fatalf("FaultOf(%v) failed", err)
	}
	if want := (&xmlrpc.Fault{Code: 4, Message: "Too many parameters."}); *f != *want {
		t.Errorf("fault = %v, want %v", f, want)
	}
}

func TestEncodingErrorsNeverReachTransport(t *testing.T) {
	c, tr := newClient()
	tests := []*xmlrpc.Request{
		nil,
		xmlrpc.NewRequest(""),
		xmlrpc.NewRequest("echo", nil),
		xmlrpc.NewRequest("echo", xmlrpc.String("bad \xff byte")),
		xmlrpc.NewRequest("echo", xmlrpc.Nil{}),
	}
	for i, req := range tests {
		_, err := c.Do(context.Background(), req)
		if err == nil {
			t.Errorf("%d: no error", i)
			continue
		}
		if errors.Is(errors.Transport, err) || errors.IsDocument(err) {
			t.Errorf("%d: got %v, want local error", i, err)
		}
	}
	if n := tr.Requests(); n != 0 {
		t.Errorf("transport received %d requests, want 0", n)
	}
	_, err := c.Call(context.Background(), "echo", xmlrpc.String("\x00"))
	if !errors.Is(errors.Encoding, err) {
		t.Errorf("got %v, want Encoding error", err)
	}
}

func TestNil(t *testing.T) {
	c, _ := newClient(WithNil(true))
	v, err := c.Call(context.Background(), "echo", xmlrpc.Nil{})
	if err != nil {
		t.Fatal(err)
	}
	if v != (xmlrpc.Nil{}) {
		t.Errorf("echo = %v, want nil", v)
	}
}

func TestTransportErrors(t *testing.T) {
	c, _ := newClient()
	_, err := c.Call(context.Background(), "broken")
	if !errors.Match(errors.E(errors.Op("client.Call"), errors.Method("broken"), errors.Transport), err) {
		t.Errorf("handler error: got %v, want Transport error", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Call(ctx, "echo", xmlrpc.Int(1)); !errors.Is(errors.Transport, err) {
		t.Errorf("canceled: got %v, want Transport error", err)
	}

	tr := inprocess.New(serve, codec.Options{})
	remote := New(tr, xmlrpc.Endpoint{Transport: xmlrpc.HTTP, NetAddr: "example.com"})
	if _, err := remote.Call(context.Background(), "echo", xmlrpc.Int(1)); !errors.Is(errors.Transport, err) {
		t.Errorf("unreachable endpoint: got %v, want Transport error", err)
	}

	failing := New(inprocess.Raw(func([]byte) ([]byte, error) {
		return nil, errors.Str("connection reset")
	}), local)
	_, err = failing.Call(context.Background(), "echo", xmlrpc.Int(1))
	if !errors.Is(errors.Transport, err) || !strings.Contains(err.Error(), "connection reset") {
		t.Errorf("raw transport: got %v", err)
	}
}

func TestDocumentErrors(t *testing.T) {
	tests := []string{
		"",
		"not xml",
		"<methodResponse><params></params></methodResponse>",
		"<methodResponse><params><param><value><i4>1</i4></value></param><param><value><i4>2</i4></value></param></params></methodResponse>",
		"<methodResponse><fault><value><struct><member><name>faultCode</name><value><string>4</string></value></member>" +
			"<member><name>faultString</name><value>x</value></member></struct></value></fault></methodResponse>",
		"<methodResponse><params><param><value><struct><member><name>a</name><value>1</value></member>" +
			"<member><name>a</name><value>2</value></member></struct></value></param></params></methodResponse>",
	}
	for _, doc := range tests {
		doc := doc
		c := New(inprocess.Raw(func([]byte) ([]byte, error) { return []byte(doc), nil }), local)
		_, err := c.Call(context.Background(), "echo")
		if !errors.IsDocument(err) {
			t.Errorf("%q: got %v, want Document error", doc, err)
		}
	}
}

func TestDepthLimit(t *testing.T) {
	c, _ := newClient(WithMaxDepth(3))
	_, err := c.Call(context.Background(), "nest")
	if !errors.Is(errors.Limit, err) {
		t.Fatalf("got %v, want Limit error", err)
	}
	c, _ = newClient()
	if _, err := c.Call(context.Background(), "nest"); err != nil {
		t.Fatal(err)
	}
}

func TestMulticall(t *testing.T) {
	c, tr := newClient()
	results, err := c.Multicall(context.Background(),
		xmlrpc.Call{Method: "math.add", Params: []xmlrpc.Value{xmlrpc.Int(1), xmlrpc.Int(2)}},
		xmlrpc.Call{Method: "nosuch"},
		xmlrpc.Call{Method: "echo", Params: []xmlrpc.Value{xmlrpc.String("hi")}},
	)
	if err != nil {
		t.Fatal(err)
	}
	want := []xmlrpc.Result{
		{Value: xmlrpc.Int(3)},
		{Fault: &xmlrpc.Fault{Code: inprocess.FaultMethodNotFound, Message: "no such method nosuch"}},
		{Value: xmlrpc.String("hi")},
	}
	if diff := cmp.Diff(want, results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
	if n := tr.Requests(); n != 1 {
		t.Errorf("transport received %d requests, want 1", n)
	}

	_, err = c.Multicall(context.Background(), xmlrpc.Call{Method: "echo"}, xmlrpc.Call{})
	if !errors.Is(errors.Encoding, err) {
		t.Errorf("invalid call: got %v, want Encoding error", err)
	}
	if n := tr.Requests(); n != 1 {
		t.Errorf("transport received %d requests, want 1", n)
	}

	_, err = c.Multicall(context.Background(), xmlrpc.Call{Method: "broken"})
	if !errors.Is(errors.Transport, err) {
		t.Errorf("broken handler: got %v, want Transport error", err)
	}
}

func TestMulticallShortResponse(t *testing.T) {
	resp, err := message.MarshalResponse(xmlrpc.Array{xmlrpc.Array{xmlrpc.Int(1)}}, codec.Options{})
	if err != nil {
		t.Fatal(err)
	}
	c := New(inprocess.Raw(func([]byte) ([]byte, error) { return resp, nil }), local)
	_, err = c.Multicall(context.Background(), xmlrpc.Call{Method: "a"}, xmlrpc.Call{Method: "b"})
	if !errors.Match(errors.E(errors.Op("client.Multicall"), errors.Document), err) {
		t.Errorf("got %v, want Document error", err)
	}
}

func TestTracing(t *testing.T) {
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	defer tp.Shutdown(context.Background())

	c, _ := newClient(WithTracerProvider(tp))
	if _, err := c.Call(context.Background(), "math.add", xmlrpc.Int(1)); err != nil {
		t.Fatal(err)
	}
	c.Call(context.Background(), "nosuch")
	c.Call(context.Background(), "broken")
	c.Multicall(context.Background(), xmlrpc.Call{Method: "nosuch"}, xmlrpc.Call{Method: "echo", Params: []xmlrpc.Value{xmlrpc.Int(1)}})

	spans := sr.Ended()
	if len(spans) != 4 {
		t.Fatalf("got %d spans, want 4", len(spans))
	}
	want := []struct {
		method  string
		outcome string
		status  codes.Code
		faults  int
	}{
		{"math.add", "ok", codes.Ok, 0},
		{"nosuch", "fault", codes.Unset, 1},
		{"broken", "transport", codes.Error, 0},
		{message.MulticallMethod, "ok", codes.Ok, 1},
	}
	for i, sp := range spans {
		w := want[i]
		if sp.Name() != "xmlrpc.call" {
			t.Errorf("%d: span name %q", i, sp.Name())
		}
		attrs := map[attribute.Key]string{}
		for _, kv := range sp.Attributes() {
			attrs[kv.Key] = kv.Value.Emit()
		}
		if attrs["rpc.system"] != "xmlrpc" || attrs["rpc.method"] != w.method || attrs["xmlrpc.outcome"] != w.outcome {
			t.Errorf("%d: attributes %v", i, attrs)
		}
		if sp.Status().Code != w.status {
			t.Errorf("%d: status %v, want %v", i, sp.Status().Code, w.status)
		}
		faults := 0
		for _, ev := range sp.Events() {
			if ev.Name == "xmlrpc.fault" {
				faults++
			}
		}
		if faults != w.faults {
			t.Errorf("%d: %d fault events, want %d", i, faults, w.faults)
		}
	}
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{errors.E(errors.Fault, &xmlrpc.Fault{Code: 1}), "fault"},
		{errors.E(errors.Op("x"), errors.Transport, errors.Str("reset")), "transport"},
		{errors.E(errors.Document, "bad"), "document"},
		{errors.E(errors.Limit, "deep"), "document"},
		{errors.E(errors.Encoding, "bad utf-8"), "encoding"},
		{errors.E(errors.Invalid, "nil request"), "invalid"},
		{errors.Str("mystery"), "error"},
	}
	for _, test := range tests {
		if got := outcome(test.err); got != test.want {
			t.Errorf("outcome(%v) = %q, want %q", test.err, got, test.want)
		}
	}
}

func TestFromConfig(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req, err := message.ParseRequest(r.Body, codec.Options{})
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/xml; charset=utf-8")
		v, err := serve(r.Context(), req)
		if f, ok := xmlrpc.FaultOf(err); ok {
			message.EncodeFault(w, f)
			return
		}
		message.EncodeResponse(w, v, codec.Options{})
	}))
	defer srv.Close()

	cfg, err := config.InitConfig(strings.NewReader("endpoint: " + srv.URL + "/RPC2\nuseragent: test/1"))
	if err != nil {
		t.Fatal(err)
	}
	c, err := FromConfig(cfg)
	if err != nil {
		t.Fatal(err)
	}
	v, err := c.Call(context.Background(), "math.add", xmlrpc.Int(20), xmlrpc.Int(22))
	if err != nil {
		t.Fatal(err)
	}
	if v != xmlrpc.Int(42) {
		t.Errorf("math.add = %v, want 42", v)
	}
	if _, err := c.Call(context.Background(), "nosuch"); !errors.Is(errors.Fault, err) {
		t.Errorf("got %v, want fault", err)
	}

	if _, err := FromConfig(config.New()); !errors.Is(errors.Invalid, err) {
		t.Errorf("unassigned endpoint: got %v, want Invalid error", err)
	}
}
