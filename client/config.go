// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package client

import (
	"xmlrpc.io/config"
	"xmlrpc.io/errors"
	"xmlrpc.io/transport/httptransport"
	"xmlrpc.io/xmlrpc"
)

// FromConfig returns a Client for the HTTP or HTTPS endpoint named in cfg,
// with a transport built from the settings in cfg.
func FromConfig(cfg config.Config, opts ...Option) (*Client, error) {
	const op errors.Op = "client.FromConfig"
	switch cfg.Endpoint.Transport {
	case xmlrpc.HTTP, xmlrpc.HTTPS:
	default:
		return nil, errors.E(op, errors.Invalid, errors.Errorf("no transport for endpoint %s", cfg.Endpoint))
	}
	t, err := httptransport.New(httptransport.Config{
		UserAgent:    cfg.UserAgent,
		GzipRequests: cfg.Gzip,
		HTTP2:        cfg.HTTP2,
		RootCAs:      cfg.CertPool,
		Timeout:      cfg.Timeout,
		MaxResponse:  cfg.MaxResponse,
	})
	if err != nil {
		return nil, errors.E(op, err)
	}
	opts = append([]Option{WithNil(cfg.Nil), WithMaxDepth(cfg.MaxDepth)}, opts...)
	return New(t, cfg.Endpoint, opts...), nil
}
