// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package message

import (
	"encoding/xml"
	"io"

	"xmlrpc.io/codec"
	"xmlrpc.io/errors"
	"xmlrpc.io/xmlrpc"
)

// MarshalRequest returns the <methodCall> document for r.
// Every part of the request is checked before the document is built, so
// an unencodable request yields an Encoding error and no bytes.
func MarshalRequest(r *xmlrpc.Request, opts codec.Options) ([]byte, error) {
	const op errors.Op = "message.MarshalRequest"
	if err := r.Validate(); err != nil {
		return nil, errors.E(op, err)
	}
	b := make([]byte, 0, 256)
	b = append(b, Header...)
	b = append(b, "<methodCall><methodName>"...)
	b, err := codec.AppendText(b, r.Method)
	if err != nil {
		return nil, errors.E(op, errors.Method(r.Method), err)
	}
	b = append(b, "</methodName><params>"...)
	for _, p := range r.Params {
		b = append(b, "<param>"...)
		if b, err = codec.AppendValue(b, p, opts); err != nil {
			return nil, errors.E(op, errors.Method(r.Method), err)
		}
		b = append(b, "</param>"...)
	}
	b = append(b, "</params></methodCall>"...)
	return b, nil
}

// EncodeRequest writes the <methodCall> document for r to w.
func EncodeRequest(w io.Writer, r *xmlrpc.Request, opts codec.Options) error {
	const op errors.Op = "message.EncodeRequest"
	b, err := MarshalRequest(r, opts)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return errors.E(op, errors.IO, err)
	}
	return nil
}

// ParseRequest reads a <methodCall> document. The <params> element may
// be absent, in which case the request has no parameters.
func ParseRequest(r io.Reader, opts codec.Options) (*xmlrpc.Request, error) {
	const op errors.Op = "message.ParseRequest"
	e := envelope{codec.NewDecoder(r, opts)}
	root, err := e.Root()
	if err != nil {
		return nil, errors.E(op, err)
	}
	if root.Name.Local != "methodCall" {
		return nil, errors.E(op, e.Errorf("expected <methodCall>, found <%s>", root.Name.Local))
	}
	if _, err := e.open("methodName"); err != nil {
		return nil, errors.E(op, err)
	}
	method, err := e.text("methodName")
	if err != nil {
		return nil, errors.E(op, err)
	}
	if method == "" {
		return nil, errors.E(op, e.Errorf("empty <methodName>"))
	}
	req := &xmlrpc.Request{Method: method}

	tok, err := e.next()
	if err != nil {
		return nil, errors.E(op, errors.Method(method), err)
	}
	if start, ok := tok.(xml.StartElement); ok {
		if start.Name.Local != "params" {
			return nil, errors.E(op, errors.Method(method), e.Errorf("expected <params>, found <%s>", start.Name.Local))
		}
		req.Params, err = e.params()
		if err != nil {
			return nil, errors.E(op, errors.Method(method), err)
		}
		if err := e.end("methodCall"); err != nil {
			return nil, errors.E(op, errors.Method(method), err)
		}
	}
	// Otherwise tok is </methodCall>; the strict decoder has matched it.
	if err := e.End(); err != nil {
		return nil, errors.E(op, errors.Method(method), err)
	}
	return req, nil
}

// params reads zero or more <param> elements through </params>.
func (e envelope) params() ([]xmlrpc.Value, error) {
	var params []xmlrpc.Value
	for {
		tok, err := e.next()
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.EndElement:
			return params, nil
		case xml.StartElement:
			if t.Name.Local != "param" {
				return nil, e.Errorf("expected <param>, found <%s>", t.Name.Local)
			}
			v, err := e.value()
			if err != nil {
				return nil, err
			}
			if err := e.end("param"); err != nil {
				return nil, err
			}
			params = append(params, v)
		}
	}
}
