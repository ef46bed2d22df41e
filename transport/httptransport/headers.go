// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package httptransport

import (
	"io"
	"mime"
	"net/http"
	"regexp"
	"strconv"

	"golang.org/x/text/encoding/htmlindex"

	"xmlrpc.io/errors"
)

// ContentType is the media type of every request body.
const ContentType = "text/xml; charset=utf-8"

// maxErrorBody bounds how much of a failed response is kept for the
// error message.
const maxErrorBody = 1 << 20

// SetRequestHeaders sets the headers an XML-RPC request must carry for a
// body of n bytes.
func SetRequestHeaders(h http.Header, n int, userAgent string) {
	h.Set("User-Agent", userAgent)
	h.Set("Content-Type", ContentType)
	h.Set("Content-Length", strconv.Itoa(n))
}

// CheckResponse verifies that resp can carry an XML-RPC response: a 2xx
// status and, if a Content-Type is declared, an XML media type whose
// charset, if any, is known. A missing Content-Type is accepted.
// UTF8Body applies the charset to the body.
//
// On failure the returned error is of kind errors.Transport; for a bad
// status it includes up to 1 MiB of the response body. CheckResponse
// does not close the body.
func CheckResponse(resp *http.Response) error {
	const op errors.Op = "httptransport.CheckResponse"
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return errors.E(op, errors.Transport, &StatusError{Status: resp.Status, Code: resp.StatusCode, Body: excerpt})
	}
	ct := resp.Header.Get("Content-Type")
	if ct == "" {
		return nil
	}
	media, params, err := mime.ParseMediaType(ct)
	if err != nil {
		return errors.E(op, errors.Transport, errors.Errorf("invalid Content-Type %q: %v", ct, err))
	}
	switch media {
	case "text/xml", "application/xml":
	default:
		return errors.E(op, errors.Transport, errors.Errorf("unexpected Content-Type %q", media))
	}
	if cs, ok := params["charset"]; ok {
		if _, err := htmlindex.Get(cs); err != nil {
			return errors.E(op, errors.Transport, errors.Errorf("unknown charset %q", cs))
		}
	}
	return nil
}

// declaredEncoding matches an XML declaration that names an encoding.
var declaredEncoding = regexp.MustCompile(`^\s*<\?xml[^>]*\sencoding\s*=\s*["'][A-Za-z0-9._:-]+["']`)

// UTF8Body returns body as the XML decoder should see it given the
// response's Content-Type. A body whose XML declaration names an
// encoding is returned unchanged, as is one with no charset or a UTF-8
// charset. Otherwise body is transcoded from the header's charset to
// UTF-8. An unknown charset or undecodable body is a Transport error.
func UTF8Body(contentType string, body []byte) ([]byte, error) {
	const op errors.Op = "httptransport.UTF8Body"
	if contentType == "" || declaredEncoding.Match(body) {
		return body, nil
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return nil, errors.E(op, errors.Transport, errors.Errorf("invalid Content-Type %q: %v", contentType, err))
	}
	cs, ok := params["charset"]
	if !ok {
		return body, nil
	}
	enc, err := htmlindex.Get(cs)
	if err != nil {
		return nil, errors.E(op, errors.Transport, errors.Errorf("unknown charset %q", cs))
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return body, nil
	}
	b, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return nil, errors.E(op, errors.Transport, errors.Errorf("decoding %s body: %v", cs, err))
	}
	return b, nil
}

// StatusError reports a response with a status outside 2xx.
type StatusError struct {
	Status string
	Code   int
	// Body holds the start of the response body.
	Body []byte
}

func (e *StatusError) Error() string {
	if len(e.Body) == 0 {
		return "HTTP status " + e.Status
	}
	return "HTTP status " + e.Status + ": " + string(e.Body)
}
