// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"github.com/prometheus/client_golang/prometheus"

	"xmlrpc.io/errors"
)

// Labels read by the Prometheus saver.
const (
	MethodLabel  = "method"
	OutcomeLabel = "outcome"
)

// PrometheusSaver exports metrics as Prometheus collectors: a histogram of
// span durations by method and span name, and a counter of finished
// metrics by method and outcome.
type PrometheusSaver struct {
	duration *prometheus.HistogramVec
	outcomes *prometheus.CounterVec
}

var _ Saver = (*PrometheusSaver)(nil)

// NewPrometheusSaver creates the collectors and registers them with reg.
// If reg is nil, prometheus.DefaultRegisterer is used.
func NewPrometheusSaver(reg prometheus.Registerer) (*PrometheusSaver, error) {
	const op errors.Op = "metric.NewPrometheusSaver"
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSaver{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "xmlrpc",
			Subsystem: "client",
			Name:      "span_duration_seconds",
			Help:      "Duration of the phases of XML-RPC calls.",
			Buckets:   prometheus.DefBuckets,
		}, []string{MethodLabel, "span"}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "xmlrpc",
			Subsystem: "client",
			Name:      "calls_total",
			Help:      "Number of XML-RPC calls by outcome.",
		}, []string{MethodLabel, OutcomeLabel}),
	}
	for _, c := range []prometheus.Collector{s.duration, s.outcomes} {
		if err := reg.Register(c); err != nil {
			return nil, errors.E(op, errors.Invalid, err)
		}
	}
	return s, nil
}

// Register implements Saver.
func (s *PrometheusSaver) Register(queue chan *Metric) {
	go func() {
		for m := range queue {
			if m != nil {
				s.observe(m)
			}
		}
	}()
}

func (s *PrometheusSaver) observe(m *Metric) {
	method := m.Label(MethodLabel)
	for _, sp := range m.Spans() {
		s.duration.WithLabelValues(method, string(sp.Name)).Observe(sp.Duration().Seconds())
	}
	outcome := m.Label(OutcomeLabel)
	if outcome == "" {
		outcome = "unknown"
	}
	s.outcomes.WithLabelValues(method, outcome).Inc()
}
