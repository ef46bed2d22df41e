// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xmlrpc

import (
	"fmt"
	"strings"

	"xmlrpc.io/errors"
)

// TransportKind identifies how a request reaches its destination.
type TransportKind uint8

// The known transport kinds.
const (
	// Unassigned means the endpoint names no destination.
	Unassigned TransportKind = iota

	// InProcess means the peer is served inside this process.
	InProcess

	// HTTP means plain HTTP POST to NetAddr.
	HTTP

	// HTTPS means HTTP POST over TLS to NetAddr.
	HTTPS
)

func (t TransportKind) String() string {
	switch t {
	case Unassigned:
		return "unassigned"
	case InProcess:
		return "inprocess"
	case HTTP:
		return "http"
	case HTTPS:
		return "https"
	}
	return fmt.Sprintf("transport(%d)", uint8(t))
}

// NetAddr is the network part of an endpoint: host[:port][/path].
type NetAddr string

// An Endpoint identifies where requests are delivered.
type Endpoint struct {
	Transport TransportKind
	NetAddr   NetAddr
}

// ParseEndpoint parses the string form of an endpoint. Both the
// "kind,netaddr" form ("https,example.com/RPC2", "inprocess") and a
// plain http or https URL are accepted.
func ParseEndpoint(v string) (*Endpoint, error) {
	const op errors.Op = "xmlrpc.ParseEndpoint"
	for _, kind := range []TransportKind{HTTP, HTTPS} {
		if rest, ok := strings.CutPrefix(v, kind.String()+"://"); ok {
			if rest == "" {
				return nil, errors.E(op, errors.Invalid, errors.Errorf("%s endpoint %q requires a netaddr", kind, v))
			}
			return &Endpoint{Transport: kind, NetAddr: NetAddr(rest)}, nil
		}
	}
	elems := strings.SplitN(v, ",", 2)
	switch elems[0] {
	case "inprocess":
		return &Endpoint{Transport: InProcess}, nil
	case "unassigned":
		return &Endpoint{Transport: Unassigned}, nil
	case "http", "https":
		kind := HTTP
		if elems[0] == "https" {
			kind = HTTPS
		}
		if len(elems) < 2 || elems[1] == "" {
			return nil, errors.E(op, errors.Invalid, errors.Errorf("%s endpoint %q requires a netaddr", kind, v))
		}
		return &Endpoint{Transport: kind, NetAddr: NetAddr(elems[1])}, nil
	}
	return nil, errors.E(op, errors.Invalid, errors.Errorf("unknown transport type in endpoint %q", v))
}

func (ep Endpoint) toString() (string, error) {
	switch ep.Transport {
	case InProcess:
		return "inprocess", nil
	case Unassigned:
		return "unassigned", nil
	case HTTP, HTTPS:
		return fmt.Sprintf("%s,%s", ep.Transport, ep.NetAddr), nil
	}
	// Can't use errors.E here; its formatting may print the endpoint.
	return "", fmt.Errorf("unknown transport {%v, %v}", ep.Transport, ep.NetAddr)
}

// String returns the "kind,netaddr" form of the endpoint.
func (ep Endpoint) String() string {
	str, err := ep.toString()
	if err != nil {
		return err.Error()
	}
	return str
}

// MarshalText implements encoding.TextMarshaler.
func (ep Endpoint) MarshalText() ([]byte, error) {
	str, err := ep.toString()
	if err != nil {
		return nil, err
	}
	return []byte(str), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (ep *Endpoint) UnmarshalText(text []byte) error {
	e, err := ParseEndpoint(string(text))
	if err != nil {
		return err
	}
	*ep = *e
	return nil
}
