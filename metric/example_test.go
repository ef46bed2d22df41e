// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric_test

import "xmlrpc.io/metric"

func ExampleMetric() {
	// In a call:
	m := metric.New("client.Call")
	m.SetLabel(metric.MethodLabel, "examples.getStateName")
	s := m.StartSpan("call")
	defer m.Done()
	// encode the request ...
	// ... then time the round trip as a sub-span:
	ss := s.StartSpan("transport")
	defer ss.End()
	// do work ...
	// return

	// Should save metric client.Call
	// with a sub-span for transport covering part of the call span.
}
