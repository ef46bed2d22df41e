// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build debug

package errors

import (
	"bytes"
	"fmt"
	"runtime"
	"slices"
	"strings"
)

// stack records where an Error was created. It is embedded in Error.
type stack struct {
	callers []uintptr
}

// populateStack records the caller of E. When the Error wraps another
// Error, the two stacks are merged into the outer one: the inner
// error's frames below the point where the stacks meet, then the outer
// error's frames. The inner error keeps no stack of its own, so a
// chain of wrapped errors prints a single trace.
func (e *Error) populateStack() {
	e.callers = callers()
	inner, ok := e.Err.(*Error)
	if !ok {
		return
	}
	n := sharedTail(e.callers, inner.callers)
	if n == 0 {
		return
	}
	merged := make([]uintptr, 0, len(inner.callers)-n+len(e.callers))
	merged = append(merged, inner.callers[:len(inner.callers)-n]...)
	e.callers = append(merged, e.callers...)
	inner.callers = nil
}

// sharedTail returns how many outermost PCs a and b have in common.
func sharedTail(a, b []uintptr) int {
	n := 0
	for n < len(a) && n < len(b) && a[len(a)-1-n] == b[len(b)-1-n] {
		n++
	}
	return n
}

// frames expands pcs into frames, inlined calls included, ordered from
// the outermost call to the innermost.
func frames(pcs []uintptr) []runtime.Frame {
	if len(pcs) == 0 {
		return nil
	}
	var out []runtime.Frame
	it := runtime.CallersFrames(pcs)
	for {
		f, more := it.Next()
		out = append(out, f)
		if !more {
			break
		}
	}
	slices.Reverse(out)
	return out
}

// printStack writes one line per function between the caller of Error
// and the place the error was created, for example
//
//	.../message/response.go:62: xmlrpc.io/message.ParseResponse
//	.../codec/decode.go:331: ...codec.(*Decoder).scalar
//
// Frames shared with the caller of Error are omitted.
func (e *Error) printStack(b *bytes.Buffer) {
	here := frames(callers())
	var prev string
	for i, f := range frames(e.callers) {
		if i < len(here) && prev == "" && here[i].Function == f.Function {
			continue
		}
		if f.Function == prev {
			continue
		}
		pad(b, Separator)
		fmt.Fprintf(b, "%s:%d: %s", f.File, f.Line, abbreviate(prev, f.Function))
		prev = f.Function
	}
}

// abbreviate elides the leading dot- or slash-terminated elements of
// name that prev starts with.
func abbreviate(prev, name string) string {
	trim := 0
	for {
		j := strings.IndexAny(name[trim:], "./")
		if j < 0 || !strings.HasPrefix(prev, name[:trim+j+1]) {
			break
		}
		trim += j + 1
	}
	if trim == 0 {
		return name
	}
	return "..." + name[trim:]
}

// callers returns the PCs of the stack above the caller of the
// function that calls it: E for populateStack, Error for printStack.
func callers() []uintptr {
	var stk [64]uintptr
	const skip = 4 // runtime.Callers, callers, populateStack or printStack, E or Error.
	n := runtime.Callers(skip, stk[:])
	return stk[:n]
}
