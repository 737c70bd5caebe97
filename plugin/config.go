// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package plugin

import (
	"fmt"
	"strconv"

	"github.com/nmcades/cades-android/certimport"
	"github.com/nmcades/cades-android/messaging"
	"github.com/nmcades/cades-android/native"
	"tailscale.com/envknob"
	"tailscale.com/types/logger"
)

// Trial licenses installed at startup.
const (
	defaultOCSPLicense = "0A20B-83010-00KAN-9Q3BW-8EQDV"
	defaultTSPLicense  = "TA20D-H3010-00KAN-GF6KF-MVN4R"
)

// Config is the deployment configuration of the plug-in.
type Config struct {
	// DataDir is the application data directory. The engine keeps its
	// message FIFOs there.
	DataDir string

	OCSPLicense string
	TSPLicense  string

	Codes     native.Codes
	Decoding  certimport.Decoding
	Extension messaging.Extension

	// TokenSupport enables loading hardware token (Rutoken) support
	// before the engine starts.
	TokenSupport bool
}

// DefaultConfig returns the configuration the browser ships with.
func DefaultConfig(dataDir string) Config {
	return Config{
		DataDir:      dataDir,
		OCSPLicense:  defaultOCSPLicense,
		TSPLicense:   defaultTSPLicense,
		Codes:        native.DefaultCodes,
		Decoding:     certimport.DecodingBase64,
		Extension:    messaging.DefaultExtension,
		TokenSupport: true,
	}
}

// ApplyEnv overrides c from CADES_* environment knobs. Invalid values are
// logged and ignored.
func (c *Config) ApplyEnv(logf logger.Logf) {
	if v := envknob.String("CADES_QR_DECODING"); v != "" {
		d, err := certimport.ParseDecoding(v)
		if err != nil {
			logf("CADES_QR_DECODING: %v", err)
		} else {
			c.Decoding = d
		}
	}
	if v := envknob.String("CADES_SUCCESS_CODE"); v != "" {
		if code, err := parseStatus(v); err != nil {
			logf("CADES_SUCCESS_CODE: %v", err)
		} else {
			c.Codes.Success = code
		}
	}
	if v := envknob.String("CADES_PASSWORD_REQUIRED_CODE"); v != "" {
		if code, err := parseStatus(v); err != nil {
			logf("CADES_PASSWORD_REQUIRED_CODE: %v", err)
		} else {
			c.Codes.PasswordRequired = code
		}
	}
	if v := envknob.String("CADES_OCSP_LICENSE"); v != "" {
		c.OCSPLicense = v
	}
	if v := envknob.String("CADES_TSP_LICENSE"); v != "" {
		c.TSPLicense = v
	}
	if envknob.Bool("CADES_DISABLE_RUTOKEN") {
		c.TokenSupport = false
	}
}

// parseStatus accepts a status in decimal or 0x hex, signed or as the
// unsigned 32-bit value vendors document.
func parseStatus(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid status %q: %w", s, err)
	}
	if v < -1<<31 || v > 1<<32-1 {
		return 0, fmt.Errorf("status %q out of 32-bit range", s)
	}
	return int32(uint32(v)), nil
}
