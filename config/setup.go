// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	cloudlog "xmlrpc.io/cloud/log"
	"xmlrpc.io/errors"
	"xmlrpc.io/log"
	"xmlrpc.io/metric"
)

// Setup applies the process-wide settings of cfg: the log level, the
// Google Cloud Logging sink and the metric saver. A metric saver is
// registered only if none is registered yet.
func Setup(cfg Config) error {
	const op errors.Op = "config.Setup"
	if err := log.SetLevel(cfg.LogLevel); err != nil {
		return errors.E(op, errors.Invalid, err)
	}
	if cfg.LogProject != "" {
		if err := cloudlog.Connect(cfg.LogProject, cfg.LogName, cfg.Endpoint.String()); err != nil {
			return errors.E(op, errors.IO, err)
		}
	}
	if metric.Registered() {
		return nil
	}
	switch cfg.Metrics {
	case "log":
		metric.RegisterSaver(metric.NewLogSaver())
	case "prometheus":
		s, err := metric.NewPrometheusSaver(nil)
		if err != nil {
			return errors.E(op, err)
		}
		metric.RegisterSaver(s)
	}
	return nil
}
