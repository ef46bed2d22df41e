// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"bytes"
	"encoding/base64"
	"encoding/xml"
	"io"
	"strconv"

	"golang.org/x/net/html/charset"

	"xmlrpc.io/errors"
	"xmlrpc.io/xmlrpc"
)

// A Decoder reads XML-RPC documents from an input stream. It hands out
// the protocol-level tokens of the document and decodes whole <value>
// elements.
type Decoder struct {
	xd   *xml.Decoder
	src  *errReader
	opts Options
}

// NewDecoder returns a decoder reading from r. The encoding named in the
// XML declaration is honored; documents without one are read as UTF-8.
func NewDecoder(r io.Reader, opts Options) *Decoder {
	src := &errReader{r: r}
	xd := xml.NewDecoder(src)
	xd.Strict = true
	xd.CharsetReader = charset.NewReaderLabel
	return &Decoder{xd: xd, src: src, opts: opts}
}

// errReader remembers the first error of the underlying reader other
// than io.EOF, so read failures can be told apart from malformed input.
type errReader struct {
	r   io.Reader
	err error
}

func (e *errReader) Read(p []byte) (int, error) {
	n, err := e.r.Read(p)
	if err != nil && err != io.EOF && e.err == nil {
		e.err = err
	}
	return n, err
}

// Pos returns the line and column of the decoder's input position.
func (d *Decoder) Pos() (line, column int) {
	return d.xd.InputPos()
}

// Errorf returns a Document error that names the decoder's position.
func (d *Decoder) Errorf(format string, args ...any) error {
	line, col := d.Pos()
	return errors.E(errors.Document, errors.Errorf("%d:%d: "+format, append([]any{line, col}, args...)...))
}

// Token returns the next start element, end element or character data of
// the document. Comments, processing instructions and directives are
// skipped. At the end of the input it returns io.EOF.
//
// Protocol elements never carry attributes or namespaces, so a start
// element with either is a Document error.
func (d *Decoder) Token() (xml.Token, error) {
	for {
		tok, err := d.xd.Token()
		if err == io.EOF {
			return nil, io.EOF
		}
		if err != nil {
			return nil, d.wrapErr(err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space != "" {
				return nil, d.Errorf("element <%s:%s> has a namespace", t.Name.Space, t.Name.Local)
			}
			if len(t.Attr) > 0 {
				return nil, d.Errorf("element <%s> has attribute %q", t.Name.Local, t.Attr[0].Name.Local)
			}
			return t, nil
		case xml.EndElement:
			return t, nil
		case xml.CharData:
			return t.Copy(), nil
		}
	}
}

func (d *Decoder) wrapErr(err error) error {
	if d.src.err != nil {
		return errors.E(errors.IO, d.src.err)
	}
	if err == io.ErrUnexpectedEOF {
		return d.Errorf("unexpected end of document")
	}
	return errors.E(errors.Document, err)
}

// IsSpace reports whether b holds only XML whitespace.
func IsSpace(b []byte) bool {
	return len(bytes.Trim(b, " \t\r\n")) == 0
}

type frameKind uint8

const (
	valueFrame  frameKind = iota // <value>
	scalarFrame                  // a typed scalar such as <i4> or <nil>
	arrayFrame                   // <array>
	dataFrame                    // <data>
	structFrame                  // <struct>
	memberFrame                  // <member>
	nameFrame                    // <name>
)

// A frame is one open element of the value being decoded.
type frame struct {
	kind frameKind
	tag  string
	text []byte

	// typed is set once a <value> has its typed child, and marks the
	// <data> of an <array> or the <value> of a <member> as seen.
	typed bool
	val   xmlrpc.Value

	elems   xmlrpc.Array
	st      *xmlrpc.Struct
	name    string
	hasName bool
}

// DecodeValue decodes the <value> element opened by start, consuming
// input through its end tag.
func (d *Decoder) DecodeValue(start xml.StartElement) (xmlrpc.Value, error) {
	const op errors.Op = "codec.DecodeValue"
	if start.Name.Local != "value" {
		return nil, errors.E(op, d.Errorf("expected <value>, found <%s>", start.Name.Local))
	}
	v, err := d.decodeValue()
	if err != nil {
		return nil, errors.E(op, err)
	}
	return v, nil
}

func (d *Decoder) decodeValue() (xmlrpc.Value, error) {
	stack := []*frame{{kind: valueFrame, tag: "value"}}
	depth := 0
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil, d.Errorf("unexpected end of document inside <%s>", stack[len(stack)-1].tag)
		}
		if err != nil {
			return nil, err
		}
		top := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.CharData:
			switch top.kind {
			case valueFrame:
				if top.typed {
					if !IsSpace(t) {
						return nil, d.Errorf("text %q next to <%s>", t, kindTag(top.val))
					}
					continue
				}
				top.text = append(top.text, t...)
			case scalarFrame, nameFrame:
				top.text = append(top.text, t...)
			default:
				if !IsSpace(t) {
					return nil, d.Errorf("unexpected text %q inside <%s>", t, top.tag)
				}
			}

		case xml.StartElement:
			tag := t.Name.Local
			var next *frame
			switch top.kind {
			case valueFrame:
				if top.typed {
					return nil, d.Errorf("<value> has a second typed child <%s>", tag)
				}
				if !IsSpace(top.text) {
					return nil, d.Errorf("text %q next to <%s>", top.text, tag)
				}
				top.typed = true
				switch tag {
				case "i4", "int", "i8", "boolean", "double", "string", "dateTime.iso8601", "base64":
					next = &frame{kind: scalarFrame, tag: tag}
				case "nil":
					if !d.opts.Nil {
						return nil, d.Errorf("<nil/> is not enabled")
					}
					next = &frame{kind: scalarFrame, tag: tag}
				case "array":
					next = &frame{kind: arrayFrame, tag: tag}
				case "struct":
					next = &frame{kind: structFrame, tag: tag, st: &xmlrpc.Struct{}}
				default:
					return nil, d.Errorf("unknown value type <%s>", tag)
				}
				if next.kind == arrayFrame || next.kind == structFrame {
					depth++
					if depth > d.opts.maxDepth() {
						line, col := d.Pos()
						return nil, errors.E(errors.Limit, errors.Errorf("%d:%d: containers nested deeper than %d", line, col, d.opts.maxDepth()))
					}
				}
			case arrayFrame:
				if tag != "data" || top.typed {
					return nil, d.Errorf("<array> must hold exactly one <data>, found <%s>", tag)
				}
				next = &frame{kind: dataFrame, tag: tag}
			case dataFrame:
				if tag != "value" {
					return nil, d.Errorf("<data> may hold only <value>, found <%s>", tag)
				}
				next = &frame{kind: valueFrame, tag: tag}
			case structFrame:
				if tag != "member" {
					return nil, d.Errorf("<struct> may hold only <member>, found <%s>", tag)
				}
				next = &frame{kind: memberFrame, tag: tag}
			case memberFrame:
				switch {
				case tag == "name" && !top.hasName:
					next = &frame{kind: nameFrame, tag: tag}
				case tag == "value" && top.hasName && !top.typed:
					next = &frame{kind: valueFrame, tag: tag}
				default:
					return nil, d.Errorf("<member> must hold one <name> then one <value>, found <%s>", tag)
				}
			default:
				return nil, d.Errorf("unexpected element <%s> inside <%s>", tag, top.tag)
			}
			stack = append(stack, next)

		case xml.EndElement:
			stack = stack[:len(stack)-1]
			var result xmlrpc.Value
			switch top.kind {
			case valueFrame:
				if top.typed {
					result = top.val
				} else {
					result = xmlrpc.String(top.text)
				}
			case scalarFrame:
				result, err = d.scalar(top.tag, top.text)
				if err != nil {
					return nil, err
				}
			case arrayFrame:
				if !top.typed {
					return nil, d.Errorf("<array> without <data>")
				}
				depth--
				result = top.val
			case dataFrame:
				if top.elems == nil {
					top.elems = xmlrpc.Array{}
				}
				result = top.elems
			case structFrame:
				depth--
				result = top.st
			case memberFrame:
				if !top.typed {
					return nil, d.Errorf("<member> without <value>")
				}
				parent := stack[len(stack)-1]
				if _, dup := parent.st.Get(top.name); dup {
					return nil, d.Errorf("duplicate struct member %q", top.name)
				}
				parent.st.Set(top.name, top.val)
				continue
			case nameFrame:
				parent := stack[len(stack)-1]
				parent.name = string(top.text)
				parent.hasName = true
				continue
			}
			if len(stack) == 0 {
				return result, nil
			}
			parent := stack[len(stack)-1]
			switch parent.kind {
			case dataFrame:
				parent.elems = append(parent.elems, result)
			default:
				parent.val = result
				parent.typed = true
			}
		}
	}
}

// kindTag names the element of an already decoded typed child.
func kindTag(v xmlrpc.Value) string {
	if v == nil {
		return "?"
	}
	return v.Kind().String()
}

func (d *Decoder) scalar(tag string, text []byte) (xmlrpc.Value, error) {
	s := string(bytes.Trim(text, " \t\r\n"))
	switch tag {
	case "string":
		return xmlrpc.String(text), nil
	case "i4", "int":
		i, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return nil, d.Errorf("invalid <%s> %q", tag, s)
		}
		return xmlrpc.Int(i), nil
	case "i8":
		i, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return nil, d.Errorf("invalid <i8> %q", s)
		}
		return xmlrpc.Int64(i), nil
	case "boolean":
		switch s {
		case "0":
			return xmlrpc.Bool(false), nil
		case "1":
			return xmlrpc.Bool(true), nil
		}
		return nil, d.Errorf("invalid <boolean> %q", s)
	case "double":
		if !isDecimal(s) {
			return nil, d.Errorf("invalid <double> %q", s)
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, d.Errorf("invalid <double> %q", s)
		}
		return xmlrpc.Double(f), nil
	case "dateTime.iso8601":
		dt, err := ParseDateTime(s)
		if err != nil {
			return nil, d.Errorf("invalid <dateTime.iso8601> %q", s)
		}
		return dt, nil
	case "base64":
		b, err := base64.StdEncoding.DecodeString(stripSpace(text))
		if err != nil {
			return nil, d.Errorf("invalid <base64>: %v", err)
		}
		return xmlrpc.Bytes(b), nil
	case "nil":
		if s != "" {
			return nil, d.Errorf("<nil> must be empty")
		}
		return xmlrpc.Nil{}, nil
	}
	return nil, d.Errorf("unknown value type <%s>", tag)
}

// isDecimal reports whether s is a decimal number: an optional sign,
// digits with at most one decimal point, and an optional exponent.
// It excludes the NaN, Inf and hexadecimal forms strconv accepts.
func isDecimal(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits, dot := 0, false
	for ; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9':
			digits++
			continue
		case c == '.' && !dot:
			dot = true
			continue
		}
		break
	}
	if digits == 0 {
		return false
	}
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		exp := 0
		for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
			exp++
		}
		if exp == 0 {
			return false
		}
	}
	return i == len(s)
}

func stripSpace(b []byte) string {
	out := make([]byte, 0, len(b))
	for _, c := range b {
		switch c {
		case ' ', '\t', '\r', '\n':
			continue
		}
		out = append(out, c)
	}
	return string(out)
}

// DecodeValue reads a document whose root element is a single <value>.
func DecodeValue(r io.Reader, opts Options) (xmlrpc.Value, error) {
	const op errors.Op = "codec.DecodeValue"
	d := NewDecoder(r, opts)
	start, err := d.Root()
	if err != nil {
		return nil, errors.E(op, err)
	}
	v, err := d.DecodeValue(start)
	if err != nil {
		return nil, err
	}
	if err := d.End(); err != nil {
		return nil, errors.E(op, err)
	}
	return v, nil
}

// Root returns the root element of the document, skipping the prolog.
func (d *Decoder) Root() (xml.StartElement, error) {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return xml.StartElement{}, d.Errorf("document has no root element")
		}
		if err != nil {
			return xml.StartElement{}, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return t, nil
		case xml.CharData:
			if !IsSpace(t) {
				return xml.StartElement{}, d.Errorf("text %q before the root element", t)
			}
		}
	}
}

// End checks that nothing but whitespace, comments and processing
// instructions follows the root element.
func (d *Decoder) End() error {
	for {
		tok, err := d.Token()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return d.Errorf("element <%s> after the root element", t.Name.Local)
		case xml.CharData:
			if !IsSpace(t) {
				return d.Errorf("text %q after the root element", t)
			}
		}
	}
}
