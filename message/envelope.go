// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package message

import (
	"encoding/xml"
	"io"

	"xmlrpc.io/codec"
	"xmlrpc.io/xmlrpc"
)

// Header is the XML declaration that starts every document written by
// this package.
const Header = `<?xml version="1.0" encoding="UTF-8"?>`

// An envelope reads the fixed element structure around values.
type envelope struct {
	*codec.Decoder
}

// next returns the next start or end element, skipping whitespace.
// Any other text is malformed.
func (e envelope) next() (xml.Token, error) {
	for {
		tok, err := e.Token()
		if err == io.EOF {
			return nil, e.Errorf("unexpected end of document")
		}
		if err != nil {
			return nil, err
		}
		if text, ok := tok.(xml.CharData); ok {
			if !codec.IsSpace(text) {
				return nil, e.Errorf("unexpected text %q", text)
			}
			continue
		}
		return tok, nil
	}
}

// open consumes the start element name.
func (e envelope) open(name string) (xml.StartElement, error) {
	tok, err := e.next()
	if err != nil {
		return xml.StartElement{}, err
	}
	start, ok := tok.(xml.StartElement)
	if !ok || start.Name.Local != name {
		return xml.StartElement{}, e.Errorf("expected <%s>, found %s", name, describe(tok))
	}
	return start, nil
}

// end consumes the end element name.
func (e envelope) end(name string) error {
	tok, err := e.next()
	if err != nil {
		return err
	}
	if end, ok := tok.(xml.EndElement); !ok || end.Name.Local != name {
		return e.Errorf("expected </%s>, found %s", name, describe(tok))
	}
	return nil
}

// value consumes one complete <value> element.
func (e envelope) value() (xmlrpc.Value, error) {
	start, err := e.open("value")
	if err != nil {
		return nil, err
	}
	return e.DecodeValue(start)
}

// text collects the character data of a simple element whose start tag
// has been consumed, through its end tag.
func (e envelope) text(name string) (string, error) {
	var buf []byte
	for {
		tok, err := e.Token()
		if err == io.EOF {
			return "", e.Errorf("unexpected end of document inside <%s>", name)
		}
		if err != nil {
			return "", err
		}
		switch t := tok.(type) {
		case xml.CharData:
			buf = append(buf, t...)
		case xml.EndElement:
			return string(buf), nil
		case xml.StartElement:
			return "", e.Errorf("unexpected element <%s> inside <%s>", t.Name.Local, name)
		}
	}
}

func describe(tok xml.Token) string {
	switch t := tok.(type) {
	case xml.StartElement:
		return "<" + t.Name.Local + ">"
	case xml.EndElement:
		return "</" + t.Name.Local + ">"
	}
	return "text"
}
