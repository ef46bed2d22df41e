// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package codec converts between xmlrpc.Value trees and their XML form.
//
// Encoding writes the canonical compact rendering, one <value> element
// per value, and refuses text that XML cannot carry. Decoding walks an
// encoding/xml token stream with an explicit stack of frames, so the
// nesting of a received document is bounded by Options.MaxDepth rather
// than by the goroutine stack.
package codec // import "xmlrpc.io/codec"
