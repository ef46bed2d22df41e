// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package httptransport carries XML-RPC documents as HTTP POST requests.
//
// Responses may be compressed with gzip or zstd; they are decompressed
// before the size limit applies. Every request is traced with an
// OpenTelemetry client span.
package httptransport // import "xmlrpc.io/transport/httptransport"

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/klauspost/compress/gzip"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/net/http2"

	"xmlrpc.io/errors"
	"xmlrpc.io/log"
	"xmlrpc.io/version"
	"xmlrpc.io/xmlrpc"
)

// DefaultPath is the request path used when an endpoint names none.
const DefaultPath = "/RPC2"

// DefaultMaxResponse is the response size limit used when
// Config.MaxResponse is not positive.
const DefaultMaxResponse = 64 << 20

// Config holds the settings of a Transport. The zero value is usable.
type Config struct {
	// UserAgent is sent with every request. If empty,
	// version.UserAgent() is used.
	UserAgent string

	// GzipRequests compresses request bodies with gzip.
	// The server must accept Content-Encoding: gzip.
	GzipRequests bool

	// HTTP2 enables HTTP/2 for TLS connections.
	HTTP2 bool

	// RootCAs verifies servers. If nil the system roots are used.
	RootCAs *x509.CertPool

	// Timeout bounds a whole round trip, including reading the
	// response. Zero means no limit beyond the context's.
	Timeout time.Duration

	// MaxResponse bounds the decompressed size of a response body.
	MaxResponse int64

	// TracerProvider supplies the tracer for client spans. If nil the
	// global provider is used.
	TracerProvider trace.TracerProvider
}

func (c Config) maxResponse() int64 {
	if c.MaxResponse < 1 {
		return DefaultMaxResponse
	}
	return c.MaxResponse
}

// Transport implements xmlrpc.Transport over HTTP. It is safe for
// concurrent use.
type Transport struct {
	client *http.Client
	cfg    Config
}

var _ xmlrpc.Transport = (*Transport)(nil)

// New returns a Transport with its own connection pool.
func New(cfg Config) (*Transport, error) {
	const op errors.Op = "httptransport.New"
	t := &http.Transport{
		TLSClientConfig: &tls.Config{RootCAs: cfg.RootCAs},
		// The following values are the same as
		// net/http.DefaultTransport.
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	if cfg.HTTP2 {
		if err := http2.ConfigureTransport(t); err != nil {
			return nil, errors.E(op, errors.Invalid, err)
		}
	}
	return NewWithBase(t, cfg), nil
}

// NewWithBase returns a Transport that sends requests through base,
// adding response decompression and tracing on top of it.
func NewWithBase(base http.RoundTripper, cfg Config) *Transport {
	opts := []otelhttp.Option{
		otelhttp.WithSpanNameFormatter(func(_ string, r *http.Request) string {
			return "xmlrpc POST " + r.URL.Path
		}),
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelhttp.WithTracerProvider(cfg.TracerProvider))
	}
	rt := otelhttp.NewTransport(gzhttp.Transport(base), opts...)
	return &Transport{
		client: &http.Client{Transport: rt, Timeout: cfg.Timeout},
		cfg:    cfg,
	}
}

// URL returns the URL that requests for dest are posted to.
func URL(dest xmlrpc.Endpoint) (string, error) {
	const op errors.Op = "httptransport.URL"
	var scheme string
	switch dest.Transport {
	case xmlrpc.HTTP:
		scheme = "http://"
	case xmlrpc.HTTPS:
		scheme = "https://"
	default:
		return "", errors.E(op, errors.Invalid, errors.Errorf("endpoint %s is not an HTTP endpoint", dest))
	}
	addr := string(dest.NetAddr)
	if !strings.Contains(addr, "/") {
		addr += DefaultPath
	}
	u, err := url.Parse(scheme + addr)
	if err != nil {
		return "", errors.E(op, errors.Invalid, err)
	}
	if u.Host == "" {
		return "", errors.E(op, errors.Invalid, errors.Errorf("endpoint %s has no host", dest))
	}
	return u.String(), nil
}

// RoundTrip implements xmlrpc.Transport. It posts request to dest and
// returns the body of a successful response.
func (t *Transport) RoundTrip(ctx context.Context, dest xmlrpc.Endpoint, request []byte) ([]byte, error) {
	const op errors.Op = "httptransport.RoundTrip"
	u, err := URL(dest)
	if err != nil {
		return nil, errors.E(op, err)
	}
	body := request
	if t.cfg.GzipRequests {
		if body, err = compress(request); err != nil {
			return nil, errors.E(op, errors.Encoding, err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, errors.E(op, errors.Invalid, err)
	}
	ua := t.cfg.UserAgent
	if ua == "" {
		ua = version.UserAgent()
	}
	SetRequestHeaders(req.Header, len(body), ua)
	if t.cfg.GzipRequests {
		req.Header.Set("Content-Encoding", "gzip")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, errors.E(op, errors.Transport, err)
	}
	defer resp.Body.Close()
	if err := CheckResponse(resp); err != nil {
		return nil, errors.E(op, err)
	}

	limit := t.cfg.maxResponse()
	b, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return nil, errors.E(op, errors.Transport, err)
	}
	if int64(len(b)) > limit {
		return nil, errors.E(op, errors.Transport, errors.Errorf("response body exceeds %d bytes", limit))
	}
	if b, err = UTF8Body(resp.Header.Get("Content-Type"), b); err != nil {
		return nil, errors.E(op, err)
	}
	log.Debug.Printf("%s: %s: %d bytes sent, %d received", op, u, len(body), len(b))
	return b, nil
}

func compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(b); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
