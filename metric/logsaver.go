// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package metric

import (
	"sync/atomic"

	"xmlrpc.io/log"
)

// NewLogSaver returns a Saver that writes each metric to the debug log.
func NewLogSaver() Saver {
	return &logSaver{}
}

type logSaver struct {
	processed int32
}

func (s *logSaver) Register(queue chan *Metric) {
	go func() {
		for m := range queue {
			if m == nil {
				continue
			}
			log.Debug.Printf("metric: %s", m)
			atomic.AddInt32(&s.processed, 1)
		}
	}()
}

func (s *logSaver) NumProcessed() int32 {
	return atomic.LoadInt32(&s.processed)
}
