// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"xmlrpc.io/errors"
)

func TestPrometheusSaver(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, err := NewPrometheusSaver(reg)
	if err != nil {
		t.Fatal(err)
	}

	for _, outcome := range []string{"ok", "ok", "fault"} {
		m := New("client.Call").SetLabel(MethodLabel, "math.add").SetLabel(OutcomeLabel, outcome)
		m.StartSpan("call").StartSpan("transport").End()
		m.Done()
		s.observe(m)
	}
	m := New("client.Call").SetLabel(MethodLabel, "math.sub")
	m.StartSpan("call")
	m.Done()
	s.observe(m)

	if got := testutil.ToFloat64(s.outcomes.WithLabelValues("math.add", "ok")); got != 2 {
		t.Errorf("ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(s.outcomes.WithLabelValues("math.add", "fault")); got != 1 {
		t.Errorf("fault count = %v, want 1", got)
	}
	if got := testutil.ToFloat64(s.outcomes.WithLabelValues("math.sub", "unknown")); got != 1 {
		t.Errorf("unknown count = %v, want 1", got)
	}
	// Series: (math.add, call), (math.add, transport), (math.sub, call).
	if n := testutil.CollectAndCount(s.duration); n != 3 {
		t.Errorf("histogram series = %d, want 3", n)
	}
}

func TestPrometheusSaverQueue(t *testing.T) {
	reg := prometheus.NewRegistry()
	s, err := NewPrometheusSaver(reg)
	if err != nil {
		t.Fatal(err)
	}
	queue := make(chan *Metric)
	s.Register(queue)
	m := New("client.Call").SetLabel(MethodLabel, "m").SetLabel(OutcomeLabel, "transport")
	m.StartSpan("call").End()
	queue <- m
	close(queue)

	c := s.outcomes.WithLabelValues("m", "transport")
	deadline := time.Now().Add(5 * time.Second)
	for testutil.ToFloat64(c) != 1 {
		if time.Now().After(deadline) {
			t.Fatal("metric not observed")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPrometheusSaverDuplicate(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := NewPrometheusSaver(reg); err != nil {
		t.Fatal(err)
	}
	_, err := NewPrometheusSaver(reg)
	if !errors.Is(errors.Invalid, err) {
		t.Fatalf("second registration: got %v, want Invalid error", err)
	}
}
