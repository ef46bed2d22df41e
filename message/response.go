// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package message

import (
	"bytes"
	"encoding/xml"
	"io"

	"xmlrpc.io/codec"
	"xmlrpc.io/errors"
	"xmlrpc.io/xmlrpc"
)

// ParseResponse reads a <methodResponse> document and reduces it to the
// outcome of the call.
//
// A response with <params> yields its single parameter. A response with
// <fault> yields an error of kind errors.Fault wrapping the *xmlrpc.Fault;
// xmlrpc.FaultOf recovers it. A document that breaks the envelope or value
// grammar yields a Document or Limit error.
func ParseResponse(r io.Reader, opts codec.Options) (xmlrpc.Value, error) {
	const op errors.Op = "message.ParseResponse"
	e := envelope{codec.NewDecoder(r, opts)}
	root, err := e.Root()
	if err != nil {
		return nil, errors.E(op, err)
	}
	if root.Name.Local != "methodResponse" {
		return nil, errors.E(op, e.Errorf("expected <methodResponse>, found <%s>", root.Name.Local))
	}
	tok, err := e.next()
	if err != nil {
		return nil, errors.E(op, err)
	}
	start, ok := tok.(xml.StartElement)
	if !ok {
		return nil, errors.E(op, e.Errorf("<methodResponse> holds neither <params> nor <fault>"))
	}

	var (
		result xmlrpc.Value
		fault  *xmlrpc.Fault
	)
	switch start.Name.Local {
	case "params":
		if _, err := e.open("param"); err != nil {
			return nil, errors.E(op, err)
		}
		if result, err = e.value(); err != nil {
			return nil, errors.E(op, err)
		}
		if err := e.end("param"); err != nil {
			return nil, errors.E(op, err)
		}
		if err := e.end("params"); err != nil {
			return nil, errors.E(op, err)
		}
	case "fault":
		v, err := e.value()
		if err != nil {
			return nil, errors.E(op, err)
		}
		if fault, err = xmlrpc.FaultFromValue(v); err != nil {
			return nil, errors.E(op, e.Errorf("malformed <fault>: %v", err))
		}
		if err := e.end("fault"); err != nil {
			return nil, errors.E(op, err)
		}
	default:
		return nil, errors.E(op, e.Errorf("expected <params> or <fault>, found <%s>", start.Name.Local))
	}
	if err := e.end("methodResponse"); err != nil {
		return nil, errors.E(op, err)
	}
	if err := e.End(); err != nil {
		return nil, errors.E(op, err)
	}
	if fault != nil {
		return nil, errors.E(op, errors.Fault, fault)
	}
	return result, nil
}

// UnmarshalResponse is ParseResponse over a byte slice.
func UnmarshalResponse(data []byte, opts codec.Options) (xmlrpc.Value, error) {
	return ParseResponse(bytes.NewReader(data), opts)
}

// MarshalResponse returns the <methodResponse> document carrying v as
// its single parameter.
func MarshalResponse(v xmlrpc.Value, opts codec.Options) ([]byte, error) {
	const op errors.Op = "message.MarshalResponse"
	b := append([]byte(Header), "<methodResponse><params><param>"...)
	b, err := codec.AppendValue(b, v, opts)
	if err != nil {
		return nil, errors.E(op, err)
	}
	return append(b, "</param></params></methodResponse>"...), nil
}

// MarshalFault returns the <methodResponse> document reporting f.
func MarshalFault(f *xmlrpc.Fault) ([]byte, error) {
	const op errors.Op = "message.MarshalFault"
	b := append([]byte(Header), "<methodResponse><fault>"...)
	b, err := codec.AppendValue(b, f.Value(), codec.Options{})
	if err != nil {
		return nil, errors.E(op, err)
	}
	return append(b, "</fault></methodResponse>"...), nil
}

// EncodeResponse writes the <methodResponse> document carrying v to w.
func EncodeResponse(w io.Writer, v xmlrpc.Value, opts codec.Options) error {
	b, err := MarshalResponse(v, opts)
	if err != nil {
		return err
	}
	return write(w, b)
}

// EncodeFault writes the <methodResponse> document reporting f to w.
func EncodeFault(w io.Writer, f *xmlrpc.Fault) error {
	b, err := MarshalFault(f)
	if err != nil {
		return err
	}
	return write(w, b)
}

func write(w io.Writer, b []byte) error {
	if _, err := w.Write(b); err != nil {
		return errors.E(errors.Op("message.write"), errors.IO, err)
	}
	return nil
}
