// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inprocess

import (
	"bytes"
	"context"
	"testing"

	"xmlrpc.io/codec"
	"xmlrpc.io/errors"
	"xmlrpc.io/message"
	"xmlrpc.io/xmlrpc"
)

var local = xmlrpc.Endpoint{Transport: xmlrpc.InProcess}

func handler(ctx context.Context, req *xmlrpc.Request) (xmlrpc.Value, error) {
	switch req.Method {
	case "echo":
		return xmlrpc.Array(req.Params), nil
	case "fail":
		return nil, &xmlrpc.Fault{Code: 7, Message: "failed"}
	case "wrapped":
		return nil, errors.E(errors.Op("handler"), &xmlrpc.Fault{Code: 8, Message: "wrapped"})
	case "crash":
		return nil, errors.Str("crash")
	}
	return nil, &xmlrpc.Fault{Code: FaultMethodNotFound, Message: req.Method}
}

func roundTrip(t *testing.T, tr *Transport, req *xmlrpc.Request) (xmlrpc.Value, error) {
	t.Helper()
	b, err := message.MarshalRequest(req, codec.Options{})
	if err != nil {
		t.Fatal(err)
	}
	resp, err := tr.RoundTrip(context.Background(), local, b)
	if err != nil {
		t.Fatal(err)
	}
	return message.UnmarshalResponse(resp, codec.Options{})
}

func TestServe(t *testing.T) {
	tr := New(handler, codec.Options{})
	v, err := roundTrip(t, tr, xmlrpc.NewRequest("echo", xmlrpc.Int(1), xmlrpc.String("a")))
	if err != nil {
		t.Fatal(err)
	}
	if want := (xmlrpc.Array{xmlrpc.Int(1), xmlrpc.String("a")}); !xmlrpc.Equal(v, want) {
		t.Errorf("echo = %v, want %v", v, want)
	}
	for _, test := range []struct {
		method string
		code   int32
	}{
		{"fail", 7},
		{"wrapped", 8},
		{"nosuch", FaultMethodNotFound},
	} {
		_, err := roundTrip(t, tr, xmlrpc.NewRequest(test.method))
		f, ok := xmlrpc.FaultOf(err)
		if !ok || f.Code != test.code {
			t.Errorf("%s: got %v, want fault %d", test.method, err, test.code)
		}
	}
	if n := tr.Requests(); n != 4 {
		t.Errorf("Requests() = %d, want 4", n)
	}
}

func TestNoHandler(t *testing.T) {
	_, err := roundTrip(t, New(nil, codec.Options{}), xmlrpc.NewRequest("echo"))
	if f, ok := xmlrpc.FaultOf(err); !ok || f.Code != FaultMethodNotFound {
		t.Errorf("got %v, want method-not-found fault", err)
	}
}

func TestParseFault(t *testing.T) {
	tr := New(handler, codec.Options{})
	resp, err := tr.RoundTrip(context.Background(), local, []byte("<methodCall><params/></methodCall>"))
	if err != nil {
		t.Fatal(err)
	}
	_, err = message.UnmarshalResponse(resp, codec.Options{})
	if f, ok := xmlrpc.FaultOf(err); !ok || f.Code != FaultParse {
		t.Errorf("got %v, want parse fault", err)
	}
}

func TestErrors(t *testing.T) {
	tr := New(handler, codec.Options{})
	b, err := message.MarshalRequest(xmlrpc.NewRequest("crash"), codec.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tr.RoundTrip(context.Background(), local, b); !errors.Match(errors.E(errors.Method("crash"), errors.Str("crash")), err) {
		t.Errorf("crash: got %v", err)
	}
	remote := xmlrpc.Endpoint{Transport: xmlrpc.HTTP, NetAddr: "example.com"}
	if _, err := tr.RoundTrip(context.Background(), remote, b); !errors.Is(errors.Invalid, err) {
		t.Errorf("remote endpoint: got %v, want Invalid error", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tr.RoundTrip(ctx, local, b); err == nil {
		t.Error("canceled context: no error")
	}
	if n := tr.Requests(); n != 1 {
		t.Errorf("Requests() = %d, want 1", n)
	}
}

func TestMulticall(t *testing.T) {
	tr := New(handler, codec.Options{})
	req, err := message.NewMulticall(
		xmlrpc.Call{Method: "echo", Params: []xmlrpc.Value{xmlrpc.Bool(true)}},
		xmlrpc.Call{Method: "fail"},
		xmlrpc.Call{Method: "echo"},
	)
	if err != nil {
		t.Fatal(err)
	}
	v, err := roundTrip(t, tr, req)
	if err != nil {
		t.Fatal(err)
	}
	results, err := message.ParseMulticall(v, 3)
	if err != nil {
		t.Fatal(err)
	}
	if !xmlrpc.Equal(results[0].Value, xmlrpc.Array{xmlrpc.Bool(true)}) {
		t.Errorf("result 0 = %v", results[0])
	}
	if results[1].Fault == nil || results[1].Fault.Code != 7 {
		t.Errorf("result 1 = %v", results[1])
	}
	if !xmlrpc.Equal(results[2].Value, xmlrpc.Array{}) {
		t.Errorf("result 2 = %v", results[2])
	}

	// A malformed batch is answered with a fault.
	_, err = roundTrip(t, tr, xmlrpc.NewRequest(message.MulticallMethod, xmlrpc.Int(1)))
	if f, ok := xmlrpc.FaultOf(err); !ok || f.Code != FaultParse {
		t.Errorf("malformed batch: got %v, want parse fault", err)
	}
}

func TestRaw(t *testing.T) {
	canned := []byte("canned")
	var got []byte
	tr := Raw(func(req []byte) ([]byte, error) {
		got = req
		return canned, nil
	})
	resp, err := tr.RoundTrip(context.Background(), xmlrpc.Endpoint{}, []byte("request"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(resp, canned) || string(got) != "request" {
		t.Errorf("RoundTrip = %q, saw %q", resp, got)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := tr.RoundTrip(ctx, xmlrpc.Endpoint{}, nil); err == nil {
		t.Error("canceled context: no error")
	}
}
