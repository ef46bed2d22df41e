// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"xmlrpc.io/errors"
	"xmlrpc.io/xmlrpc"
)

// ParseDateTime parses the text of a <dateTime.iso8601> element.
//
// The date is YYYYMMDD or YYYY-MM-DD, followed by T and HH:MM:SS. A
// fraction of any length may follow the seconds and is truncated to
// milliseconds. The zone is optional and may be Z, ±HH, ±HHMM or ±HH:MM.
// Out of range fields are errors, not clamped.
func ParseDateTime(s string) (xmlrpc.DateTime, error) {
	p := &dtParser{s: s}
	var d xmlrpc.DateTime
	d.Year = p.digits(4)
	if p.peek('-') {
		p.expect('-')
		d.Month = p.digits(2)
		p.expect('-')
		d.Day = p.digits(2)
	} else {
		d.Month = p.digits(2)
		d.Day = p.digits(2)
	}
	p.expect('T')
	d.Hour = p.digits(2)
	p.expect(':')
	d.Minute = p.digits(2)
	p.expect(':')
	d.Second = p.digits(2)
	if p.peek('.') || p.peek(',') {
		p.i++
		d.Millisecond = p.fraction()
	}
	switch {
	case p.peek('Z'):
		p.i++
	case p.peek('+') || p.peek('-'):
		sign := 1
		if p.s[p.i] == '-' {
			sign = -1
		}
		p.i++
		h := p.digits(2)
		m := 0
		if p.peek(':') {
			p.i++
			m = p.digits(2)
		} else if p.i < len(p.s) {
			m = p.digits(2)
		}
		if h > 23 || m > 59 {
			p.fail()
		}
		d.Offset = sign * (h*60 + m)
	}
	if p.i != len(p.s) {
		p.fail()
	}
	if p.err {
		return xmlrpc.DateTime{}, errors.E(errors.Document, errors.Errorf("invalid dateTime.iso8601 %q", s))
	}
	if !d.Valid() {
		return xmlrpc.DateTime{}, errors.E(errors.Document, errors.Errorf("dateTime.iso8601 %q is not a real instant", s))
	}
	return d, nil
}

// dtParser scans a date-time string. Once a step fails, err is set and
// the remaining steps are no-ops.
type dtParser struct {
	s   string
	i   int
	err bool
}

func (p *dtParser) fail() { p.err = true }

func (p *dtParser) peek(c byte) bool {
	return !p.err && p.i < len(p.s) && p.s[p.i] == c
}

func (p *dtParser) expect(c byte) {
	if !p.peek(c) {
		p.fail()
		return
	}
	p.i++
}

func (p *dtParser) digits(n int) int {
	if p.err || p.i+n > len(p.s) {
		p.fail()
		return 0
	}
	v := 0
	for _, c := range []byte(p.s[p.i : p.i+n]) {
		if c < '0' || c > '9' {
			p.fail()
			return 0
		}
		v = v*10 + int(c-'0')
	}
	p.i += n
	return v
}

// fraction consumes one or more digits and returns the first three as
// milliseconds.
func (p *dtParser) fraction() int {
	start := p.i
	ms, scale := 0, 100
	for p.i < len(p.s) && p.s[p.i] >= '0' && p.s[p.i] <= '9' {
		ms += int(p.s[p.i]-'0') * scale
		scale /= 10
		p.i++
	}
	if p.i == start {
		p.fail()
	}
	return ms
}
