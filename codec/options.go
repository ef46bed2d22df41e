// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package codec

// DefaultMaxDepth is the container nesting limit used when
// Options.MaxDepth is not positive.
const DefaultMaxDepth = 256

// Options control both directions of the codec.
// The zero value is the plain XML-RPC dialect with the default depth limit.
type Options struct {
	// Nil enables the <nil/> extension. Without it Nil values cannot be
	// encoded and <nil/> in a document is malformed.
	Nil bool

	// MaxDepth bounds how deeply arrays and structs may nest in a
	// decoded document. Exceeding it is a Limit error.
	MaxDepth int
}

func (o Options) maxDepth() int {
	if o.MaxDepth < 1 {
		return DefaultMaxDepth
	}
	return o.MaxDepth
}
