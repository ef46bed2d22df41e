// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package xmlrpc

import (
	"fmt"
	"time"
)

// DateTime is <dateTime.iso8601>: a calendar date, a time of day, and
// optionally fractional seconds and a UTC offset.
//
// A zero Millisecond means no fraction and a zero Offset means no
// offset; the wire form omits both in that case.
type DateTime struct {
	Year, Month, Day     int
	Hour, Minute, Second int
	Millisecond          int
	// Offset is the UTC offset in minutes east of UTC.
	Offset int
}

// DateTimeOf returns the DateTime for t, truncated to milliseconds and
// keeping t's zone offset.
func DateTimeOf(t time.Time) DateTime {
	_, off := t.Zone()
	return DateTime{
		Year:        t.Year(),
		Month:       int(t.Month()),
		Day:         t.Day(),
		Hour:        t.Hour(),
		Minute:      t.Minute(),
		Second:      t.Second(),
		Millisecond: t.Nanosecond() / int(time.Millisecond),
		Offset:      off / 60,
	}
}

// Time returns d as a time.Time in a fixed zone carrying d's offset.
// With no offset the result is in UTC.
func (d DateTime) Time() time.Time {
	loc := time.UTC
	if d.Offset != 0 {
		loc = time.FixedZone("", d.Offset*60)
	}
	return time.Date(d.Year, time.Month(d.Month), d.Day, d.Hour, d.Minute, d.Second,
		d.Millisecond*int(time.Millisecond), loc)
}

// Valid reports whether d names a real calendar instant that the wire
// form can express: a four-digit year, a real day of its month, a time of
// day below 24:00:00, and an offset within ±23:59.
func (d DateTime) Valid() bool {
	switch {
	case d.Year < 0 || d.Year > 9999:
		return false
	case d.Month < 1 || d.Month > 12:
		return false
	case d.Day < 1 || d.Day > daysIn(d.Year, d.Month):
		return false
	case d.Hour < 0 || d.Hour > 23:
		return false
	case d.Minute < 0 || d.Minute > 59:
		return false
	case d.Second < 0 || d.Second > 59:
		return false
	case d.Millisecond < 0 || d.Millisecond > 999:
		return false
	case d.Offset <= -24*60 || d.Offset >= 24*60:
		return false
	}
	return true
}

func daysIn(year, month int) int {
	// Day 0 of the following month is the last day of this one.
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// String returns the wire form of d.
func (d DateTime) String() string {
	s := fmt.Sprintf("%04d%02d%02dT%02d:%02d:%02d", d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
	if d.Millisecond != 0 {
		s += fmt.Sprintf(".%03d", d.Millisecond)
	}
	if d.Offset != 0 {
		sign := '+'
		off := d.Offset
		if off < 0 {
			sign = '-'
			off = -off
		}
		s += fmt.Sprintf("%c%02d:%02d", sign, off/60, off%60)
	}
	return s
}
