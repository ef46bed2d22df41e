// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package httptransport

import (
	"crypto/x509"
	"os"
	"path/filepath"

	"xmlrpc.io/errors"
)

// CertPoolFromDir parses any PEM files in the provided directory
// and returns the resulting pool. It returns a nil pool, meaning the
// system roots, if the directory holds no PEM files.
func CertPoolFromDir(dir string) (*x509.CertPool, error) {
	const op errors.Op = "httptransport.CertPoolFromDir"
	var pool *x509.CertPool
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.E(op, errors.Invalid, errors.Errorf("reading TLS certificates in %q: %v", dir, err))
	}
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || filepath.Ext(name) != ".pem" {
			continue
		}
		pem, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, errors.E(op, errors.IO, errors.Errorf("reading TLS certificate %q: %v", name, err))
		}
		if pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.E(op, errors.Invalid, errors.Errorf("no certificates in %q", name))
		}
	}
	return pool, nil
}
