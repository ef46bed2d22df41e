// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package log provides an implementation of xmlrpc.io/log.ExternalLogger that
// sends logs to the Google Cloud Logging service.
package log

import (
	"context"
	"strings"

	"xmlrpc.io/log"

	"cloud.google.com/go/logging"
	"google.golang.org/api/option"
)

// Connect creates a logger that speaks to the Google Cloud Logging service for
// the given project and registers that logger with the log package.
// Every entry carries the given endpoint as the "endpoint" label so that logs
// from clients talking to different servers can be told apart.
func Connect(projectID, logName, endpoint string) error {
	client, err := logging.NewClient(context.Background(), projectID, option.WithScopes(logging.WriteScope))
	if err != nil {
		return err
	}
	log.Register(newLogger(client.Logger(logName, logging.CommonLabels(map[string]string{
		"endpoint": endpoint,
	}))))
	return nil
}

// entryLogger is the part of *logging.Logger used here.
type entryLogger interface {
	Log(logging.Entry)
	Flush() error
}

type logger struct {
	cloud entryLogger
}

func newLogger(cloud entryLogger) logger {
	return logger{cloud: cloud}
}

var severity = map[log.Level]logging.Severity{
	log.DebugLevel: logging.Debug,
	log.ErrorLevel: logging.Error,
	log.InfoLevel:  logging.Info,
}

func (l logger) Log(level log.Level, message string) {
	s, ok := severity[level]
	if !ok {
		return
	}
	l.cloud.Log(logging.Entry{
		Severity: s,
		Payload:  strings.TrimSuffix(message, "\n"),
	})
}

func (l logger) Flush() {
	l.cloud.Flush()
}
