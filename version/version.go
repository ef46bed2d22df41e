// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package version describes the build, for logs and for the User-Agent
// header sent with every HTTP request.
package version // import "xmlrpc.io/version"

import (
	"fmt"
	"time"
)

// Release is the version of the library.
const Release = "0.4.0"

// These are set at link time by the release process, for example
// with -ldflags "-X xmlrpc.io/version.GitSHA=abc123".
var (
	BuildTime = ""
	GitSHA    = ""
)

// Version returns a newline-terminated string describing the current
// version of the build.
func Version() string {
	if GitSHA == "" {
		return Release + " devel\n"
	}
	str := Release + "\n"
	if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
		str += fmt.Sprintf("Build time: %s\n", t.In(time.UTC).Format(time.Stamp+" 2006 UTC"))
	}
	str += fmt.Sprintf("Git hash:   %s\n", GitSHA)
	return str
}

// UserAgent returns the default User-Agent for HTTP requests.
func UserAgent() string {
	if GitSHA == "" {
		return "xmlrpc.io/" + Release
	}
	sha := GitSHA
	if len(sha) > 7 {
		sha = sha[:7]
	}
	return "xmlrpc.io/" + Release + " (" + sha + ")"
}
