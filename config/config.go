// Copyright 2026 The XML-RPC Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config creates a client configuration from various sources.
package config // import "xmlrpc.io/config"

import (
	"crypto/x509"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	yaml "gopkg.in/yaml.v2"

	"xmlrpc.io/codec"
	"xmlrpc.io/errors"
	"xmlrpc.io/log"
	"xmlrpc.io/transport/httptransport"
	"xmlrpc.io/xmlrpc"
)

// Config holds the settings of a client and of the HTTP transport it uses.
type Config struct {
	// Endpoint is the server that calls are sent to.
	Endpoint xmlrpc.Endpoint

	// UserAgent overrides the default User-Agent header.
	UserAgent string

	// Nil enables the <nil/> extension.
	Nil bool

	// MaxDepth bounds the nesting of decoded values.
	MaxDepth int

	// Gzip compresses request bodies.
	Gzip bool

	// HTTP2 enables HTTP/2 over TLS.
	HTTP2 bool

	// CertPool, if not nil, replaces the system roots.
	CertPool *x509.CertPool

	// Timeout bounds each round trip. Zero means no limit.
	Timeout time.Duration

	// MaxResponse bounds the size of a response body.
	MaxResponse int64

	// LogLevel is one of debug, info, error or disabled.
	LogLevel string

	// LogProject, if set, is the Google Cloud project that logs are
	// also sent to, under the log LogName.
	LogProject string
	LogName    string

	// Metrics selects where call metrics are saved: "none", "log" or
	// "prometheus".
	Metrics string
}

// Format is the syntax of a configuration file.
type Format int

// Supported formats.
const (
	YAML Format = iota
	TOML
)

// Known keys. All others are treated as errors.
const (
	endpoint    = "endpoint"
	useragent   = "useragent"
	nilKey      = "nil"
	maxdepth    = "maxdepth"
	gzip        = "gzip"
	http2       = "http2"
	tlscerts    = "tlscerts"
	timeout     = "timeout"
	maxresponse = "maxresponse"
	loglevel    = "loglevel"
	logproject  = "logproject"
	logname     = "logname"
	metrics     = "metrics"
)

// New returns a config with all fields set as defaults.
func New() Config {
	return Config{
		MaxDepth:    codec.DefaultMaxDepth,
		MaxResponse: httptransport.DefaultMaxResponse,
		LogLevel:    "info",
		LogName:     "xmlrpc",
		Metrics:     "none",
	}
}

// FromFile initializes a config using the given file. If the file cannot
// be opened but the name can be found in $HOME/xmlrpc, that file is used.
// Files named with the suffix ".toml" are read as TOML, all others as YAML.
func FromFile(name string) (Config, error) {
	const op errors.Op = "config.FromFile"
	f, err := os.Open(name)
	if err != nil && !filepath.IsAbs(name) && os.IsNotExist(err) {
		// It's a local name, so, try adding $HOME/xmlrpc
		home, errHome := Homedir()
		if errHome == nil {
			f, err = os.Open(filepath.Join(home, "xmlrpc", name))
		}
	}
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, errors.E(op, errors.Invalid, err)
		}
		return Config{}, errors.E(op, errors.IO, err)
	}
	defer f.Close()
	format := YAML
	if filepath.Ext(name) == ".toml" {
		format = TOML
	}
	return Read(f, format)
}

// InitConfig returns a config generated from a YAML configuration file
// and environment variables.
//
// A configuration file should be of the format
//   # lines that begin with a hash are ignored
//   key: value
// where key may be one of endpoint, useragent, nil, maxdepth, gzip,
// http2, tlscerts, timeout, maxresponse, loglevel, logproject, logname
// or metrics.
//
// If passed a nil io.Reader, $HOME/xmlrpc/config is used.
//
// Environment variables named "xmlrpckey", where "key" is a recognized
// configuration key, override configuration values in the file.
//
// The endpoint is parsed by xmlrpc.ParseEndpoint. An endpoint given
// without a transport is assumed to be the address of an HTTP endpoint.
//
// The tlscerts key names a directory of PEM certificates that replace
// the system roots when verifying servers. Files without the suffix
// ".pem" are ignored.
func InitConfig(r io.Reader) (Config, error) {
	const op errors.Op = "config.InitConfig"
	if r == nil {
		home, err := Homedir()
		if err != nil {
			return Config{}, errors.E(op, err)
		}
		f, err := os.Open(filepath.Join(home, "xmlrpc/config"))
		if err != nil {
			return Config{}, errors.E(op, errors.IO, err)
		}
		defer f.Close()
		r = f
	}
	cfg, err := Read(r, YAML)
	if err != nil {
		return Config{}, errors.E(op, err)
	}
	return cfg, nil
}

// Read returns a config generated from data in the given format and from
// environment variables, as described for InitConfig.
func Read(r io.Reader, format Format) (Config, error) {
	const op errors.Op = "config.Read"
	vals := map[string]string{
		endpoint:    "",
		useragent:   "",
		nilKey:      "false",
		maxdepth:    strconv.Itoa(codec.DefaultMaxDepth),
		gzip:        "false",
		http2:       "false",
		tlscerts:    "",
		timeout:     "0",
		maxresponse: strconv.Itoa(httptransport.DefaultMaxResponse),
		loglevel:    "info",
		logproject:  "",
		logname:     "xmlrpc",
		metrics:     "none",
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Config{}, errors.E(op, errors.IO, err)
	}
	switch format {
	case YAML:
		err = valsFromYAML(vals, data)
	case TOML:
		err = valsFromTOML(vals, data)
	default:
		err = errors.E(errors.Invalid, errors.Errorf("unknown format %d", format))
	}
	if err != nil {
		return Config{}, errors.E(op, err)
	}
	valsFromEnvironment(vals)

	cfg, err := fromVals(vals)
	if err != nil {
		return Config{}, errors.E(op, err)
	}
	return cfg, nil
}

func fromVals(vals map[string]string) (Config, error) {
	cfg := New()
	var err error

	if text := vals[endpoint]; text != "" {
		if cfg.Endpoint, err = parseEndpoint(text); err != nil {
			return Config{}, err
		}
	}
	cfg.UserAgent = vals[useragent]
	if cfg.Nil, err = parseBool(vals, nilKey); err != nil {
		return Config{}, err
	}
	if cfg.Gzip, err = parseBool(vals, gzip); err != nil {
		return Config{}, err
	}
	if cfg.HTTP2, err = parseBool(vals, http2); err != nil {
		return Config{}, err
	}
	if cfg.MaxDepth, err = strconv.Atoi(vals[maxdepth]); err != nil {
		return Config{}, badValue(maxdepth, vals)
	}
	if cfg.MaxResponse, err = strconv.ParseInt(vals[maxresponse], 10, 64); err != nil {
		return Config{}, badValue(maxresponse, vals)
	}
	if cfg.Timeout, err = time.ParseDuration(vals[timeout]); err != nil || cfg.Timeout < 0 {
		return Config{}, badValue(timeout, vals)
	}

	switch vals[loglevel] {
	case "debug", "info", "error", "disabled":
		cfg.LogLevel = vals[loglevel]
	default:
		return Config{}, badValue(loglevel, vals)
	}
	cfg.LogProject = vals[logproject]
	cfg.LogName = vals[logname]
	if cfg.LogProject != "" && cfg.LogName == "" {
		return Config{}, badValue(logname, vals)
	}
	switch vals[metrics] {
	case "none", "log", "prometheus":
		cfg.Metrics = vals[metrics]
	default:
		return Config{}, badValue(metrics, vals)
	}

	if dir := vals[tlscerts]; dir != "" {
		pool, err := httptransport.CertPoolFromDir(dir)
		if err != nil {
			return Config{}, err
		}
		if pool != nil {
			cfg.CertPool = pool
		} else {
			log.Info.Printf("config: no PEM certificates found in %q", dir)
		}
	}
	return cfg, nil
}

// parseEndpoint parses text as an endpoint. If no transport is provided,
// it is assumed to be the address of an HTTP endpoint.
func parseEndpoint(text string) (xmlrpc.Endpoint, error) {
	ep, err := xmlrpc.ParseEndpoint(text)
	if err != nil && !strings.Contains(text, ",") && !strings.Contains(text, "://") {
		if ep2, err2 := xmlrpc.ParseEndpoint("http," + text); err2 == nil {
			ep, err = ep2, nil
		}
	}
	if err != nil {
		return xmlrpc.Endpoint{}, errors.E(errors.Invalid, errors.Errorf("cannot parse endpoint %q: %v", text, err))
	}
	return *ep, nil
}

func parseBool(vals map[string]string, key string) (bool, error) {
	b, err := strconv.ParseBool(vals[key])
	if err != nil {
		return false, badValue(key, vals)
	}
	return b, nil
}

func badValue(key string, vals map[string]string) error {
	return errors.E(errors.Invalid, errors.Errorf("bad value %q for key %q", vals[key], key))
}

// valsFromYAML parses YAML from the given data and puts the values
// into the provided map. Unrecognized keys generate an error.
func valsFromYAML(vals map[string]string, data []byte) error {
	newVals := map[string]interface{}{}
	if err := yaml.Unmarshal(data, newVals); err != nil {
		return errors.E(errors.Invalid, errors.Errorf("parsing YAML file: %v", err))
	}
	return setVals(vals, newVals)
}

// valsFromTOML is like valsFromYAML for TOML data.
func valsFromTOML(vals map[string]string, data []byte) error {
	newVals := map[string]interface{}{}
	if err := toml.Unmarshal(data, &newVals); err != nil {
		return errors.E(errors.Invalid, errors.Errorf("parsing TOML file: %v", err))
	}
	return setVals(vals, newVals)
}

func setVals(vals map[string]string, newVals map[string]interface{}) error {
	for k, v := range newVals {
		if _, ok := vals[k]; !ok {
			return errors.E(errors.Invalid, errors.Errorf("unrecognized key %q", k))
		}
		s, err := asString(v)
		if err != nil {
			return errors.E(errors.Invalid, errors.Errorf("%q: %v", k, err))
		}
		vals[k] = s
	}
	return nil
}

// valsFromEnvironment overrides values with those of environment
// variables named "xmlrpckey".
func valsFromEnvironment(vals map[string]string) {
	for k := range vals {
		if v, ok := os.LookupEnv("xmlrpc" + k); ok {
			vals[k] = v
		}
	}
}

// asString tries to convert a value back into its original string. This will not
// always be possible but should be for all our expected use cases.
func asString(v interface{}) (string, error) {
	switch vc := v.(type) {
	case int, int32, int64, uint, uint32, uint64, float32, float64, bool:
		return fmt.Sprintf("%v", vc), nil
	case string:
		return vc, nil
	}
	return "", errors.Errorf("unrecognized value %T", v)
}
