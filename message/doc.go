// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package message builds and parses the XML-RPC document envelopes:
// <methodCall> requests, <methodResponse> replies carrying either one
// parameter or a fault, and the system.multicall batch convention.
//
// Values inside the envelopes are handled by package codec.
package message // import "xmlrpc.io/message"
