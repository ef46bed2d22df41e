// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

import (
	"testing"

	"xmlrpc.io/errors"
	"xmlrpc.io/xmlrpc"
)

func TestParseDateTime(t *testing.T) {
	base := xmlrpc.DateTime{Year: 2015, Month: 2, Day: 18, Hour: 23, Minute: 16, Second: 9}
	with := func(ms, off int) xmlrpc.DateTime {
		d := base
		d.Millisecond, d.Offset = ms, off
		return d
	}
	tests := []struct {
		in   string
		want xmlrpc.DateTime
	}{
		{"20150218T23:16:09", base},
		{"2015-02-18T23:16:09", base},
		{"2015-02-18T23:16:09Z", base},
		{"20150218T23:16:09.5", with(500, 0)},
		{"20150218T23:16:09.123456789", with(123, 0)},
		{"20150218T23:16:09,25", with(250, 0)},
		{"20150218T23:16:09+01", with(0, 60)},
		{"20150218T23:16:09-0530", with(0, -330)},
		{"20150218T23:16:09.001+05:45", with(1, 345)},
	}
	for _, test := range tests {
		got, err := ParseDateTime(test.in)
		if err != nil {
			t.Errorf("%q: %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("%q: got %+v, want %+v", test.in, got, test.want)
		}
	}
}

func TestParseDateTimeErrors(t *testing.T) {
	tests := []string{
		"",
		"ILLEGAL VALUE :(",
		"20151318T23:16:09",
		"20150230T23:16:09",
		"20150218T24:00:00",
		"20150218T23:60:00",
		"20150218T23:16:60",
		"20150218 23:16:09",
		"2015021T23:16:09",
		"20150218T23:16",
		"20150218T23:16:09.",
		"20150218T23:16:09+1",
		"20150218T23:16:09+24:00",
		"20150218T23:16:09+01:60",
		"20150218T23:16:09Zjunk",
		"2015-0218T23:16:09",
	}
	for _, in := range tests {
		if _, err := ParseDateTime(in); !errors.Is(errors.Document, err) {
			t.Errorf("%q: got %v, want Document error", in, err)
		}
	}
}

func TestDateTimeWireRoundTrip(t *testing.T) {
	d := xmlrpc.DateTime{Year: 1, Month: 12, Day: 31, Hour: 0, Minute: 0, Second: 1, Millisecond: 7, Offset: -(23*60 + 59)}
	got, err := ParseDateTime(d.String())
	if err != nil {
		t.Fatal(err)
	}
	if got != d {
		t.Errorf("got %+v, want %+v", got, d)
	}
}
