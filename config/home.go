// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"os"
	osuser "os/user"

	"xmlrpc.io/errors"
)

// Homedir returns the home directory of the OS' logged-in user.
func Homedir() (string, error) {
	u, err := osuser.Current()
	// user.Current may return an error, but we should only handle it if it
	// returns a nil user. This is because os/user is wonky without cgo,
	// but it should work well enough for our purposes.
	if u == nil {
		e := errors.Str("lookup of current user failed")
		if err != nil {
			e = errors.Errorf("%v: %v", e, err)
		}
		return "", e
	}
	h := u.HomeDir
	if h == "" {
		return "", errors.E(errors.Invalid, errors.Str("user home directory not found"))
	}
	fi, err := os.Stat(h)
	if err != nil {
		return "", errors.E(errors.IO, err)
	}
	if !fi.IsDir() {
		return "", errors.E(errors.Invalid, errors.Errorf("%s is not a directory", h))
	}
	return h, nil
}
