// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"encoding/base64"
	"io"
	"math"
	"strconv"
	"unicode/utf8"

	"xmlrpc.io/errors"
	"xmlrpc.io/xmlrpc"
)

// An Encoder writes values to an output stream.
type Encoder struct {
	w    io.Writer
	opts Options
	buf  []byte
}

// NewEncoder returns an encoder that writes to w.
func NewEncoder(w io.Writer, opts Options) *Encoder {
	return &Encoder{w: w, opts: opts}
}

// Encode writes the XML form of v. Nothing is written if v cannot be
// encoded.
func (e *Encoder) Encode(v xmlrpc.Value) error {
	const op errors.Op = "codec.Encode"
	var err error
	e.buf, err = AppendValue(e.buf[:0], v, e.opts)
	if err != nil {
		return errors.E(op, err)
	}
	if _, err := e.w.Write(e.buf); err != nil {
		return errors.E(op, errors.IO, err)
	}
	return nil
}

// EncodeValue writes the XML form of v to w.
func EncodeValue(w io.Writer, v xmlrpc.Value, opts Options) error {
	return NewEncoder(w, opts).Encode(v)
}

// AppendValue appends the XML form of v, a complete <value> element, to
// dst and returns the extended buffer. On error the returned buffer is
// dst unchanged.
func AppendValue(dst []byte, v xmlrpc.Value, opts Options) ([]byte, error) {
	out, err := appendValue(dst, v, opts)
	if err != nil {
		return dst, err
	}
	return out, nil
}

func appendValue(b []byte, v xmlrpc.Value, opts Options) ([]byte, error) {
	var err error
	b = append(b, "<value>"...)
	switch v := v.(type) {
	case xmlrpc.Int:
		b = append(b, "<i4>"...)
		b = strconv.AppendInt(b, int64(v), 10)
		b = append(b, "</i4>"...)
	case xmlrpc.Int64:
		b = append(b, "<i8>"...)
		b = strconv.AppendInt(b, int64(v), 10)
		b = append(b, "</i8>"...)
	case xmlrpc.Bool:
		if v {
			b = append(b, "<boolean>1</boolean>"...)
		} else {
			b = append(b, "<boolean>0</boolean>"...)
		}
	case xmlrpc.Double:
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, errors.E(errors.Encoding, errors.Errorf("double %v has no decimal form", f))
		}
		b = append(b, "<double>"...)
		b = appendDouble(b, f)
		b = append(b, "</double>"...)
	case xmlrpc.String:
		b = append(b, "<string>"...)
		if b, err = AppendText(b, string(v)); err != nil {
			return nil, err
		}
		b = append(b, "</string>"...)
	case xmlrpc.DateTime:
		if !v.Valid() {
			return nil, errors.E(errors.Encoding, errors.Errorf("invalid dateTime %+v", v))
		}
		b = append(b, "<dateTime.iso8601>"...)
		b = append(b, v.String()...)
		b = append(b, "</dateTime.iso8601>"...)
	case xmlrpc.Bytes:
		b = append(b, "<base64>"...)
		n := base64.StdEncoding.EncodedLen(len(v))
		b = append(b, make([]byte, n)...)
		base64.StdEncoding.Encode(b[len(b)-n:], v)
		b = append(b, "</base64>"...)
	case xmlrpc.Array:
		b = append(b, "<array><data>"...)
		for _, elem := range v {
			if b, err = appendValue(b, elem, opts); err != nil {
				return nil, err
			}
		}
		b = append(b, "</data></array>"...)
	case *xmlrpc.Struct:
		b = append(b, "<struct>"...)
		for _, m := range v.Members() {
			b = append(b, "<member><name>"...)
			if b, err = AppendText(b, m.Name); err != nil {
				return nil, err
			}
			b = append(b, "</name>"...)
			if b, err = appendValue(b, m.Value, opts); err != nil {
				return nil, err
			}
			b = append(b, "</member>"...)
		}
		b = append(b, "</struct>"...)
	case xmlrpc.Nil:
		if !opts.Nil {
			return nil, errors.E(errors.Encoding, "nil values are not enabled")
		}
		b = append(b, "<nil/>"...)
	case nil:
		return nil, errors.E(errors.Encoding, "missing value")
	default:
		return nil, errors.E(errors.Encoding, errors.Errorf("unknown value type %T", v))
	}
	return append(b, "</value>"...), nil
}

// appendDouble writes f in plain decimal notation, always with a
// decimal point.
func appendDouble(b []byte, f float64) []byte {
	start := len(b)
	b = strconv.AppendFloat(b, f, 'f', -1, 64)
	if bytes.IndexByte(b[start:], '.') < 0 {
		b = append(b, ".0"...)
	}
	return b
}

// AppendText appends s to dst with the XML markup characters escaped.
// It fails with an Encoding error if s is not valid UTF-8 or contains a
// character that XML 1.0 cannot represent.
func AppendText(dst []byte, s string) ([]byte, error) {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r == utf8.RuneError && size == 1 {
			return nil, errors.E(errors.Encoding, errors.Errorf("invalid UTF-8 at byte %d of %q", i, s))
		}
		if !isXMLChar(r) {
			return nil, errors.E(errors.Encoding, errors.Errorf("character %U at byte %d cannot appear in XML", r, i))
		}
		switch r {
		case '&':
			dst = append(dst, "&amp;"...)
		case '<':
			dst = append(dst, "&lt;"...)
		case '>':
			dst = append(dst, "&gt;"...)
		case '\r':
			// A literal CR would be folded into LF by the reader.
			dst = append(dst, "&#xD;"...)
		default:
			dst = append(dst, s[i:i+size]...)
		}
		i += size
	}
	return dst, nil
}

// isXMLChar reports whether r is in the XML 1.0 Char production.
func isXMLChar(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return true
	case r >= 0x20 && r <= 0xD7FF:
		return true
	case r >= 0xE000 && r <= 0xFFFD:
		return true
	case r >= 0x10000 && r <= utf8.MaxRune:
		return true
	}
	return false
}
