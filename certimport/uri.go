// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package certimport

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Resource is a parsed QR import URI of the form
//
//	<scheme>://[<kind>][?]<key>=<value>[&<key>=<value>...]
//
// such as cert://root?data=... or pfx://data=....
// content:// and file:// URIs are kept whole in Location; their bytes
// come from a Fetcher.
type Resource struct {
	Scheme   string
	Kind     string
	Params   map[string]string
	Location string
}

// Fetched reports whether the resource content has to be fetched rather
// than read from the URI itself.
func (r *Resource) Fetched() bool {
	return r.Location != ""
}

var errMalformedURI = errors.New("malformed import URI")

// ParseURI parses a scanned import URI. Parameter values are
// percent-decoded, but '+' is kept as is since payloads are base64.
func ParseURI(uri string) (*Resource, error) {
	uri = strings.TrimSpace(uri)
	scheme, rest, ok := strings.Cut(uri, "://")
	if !ok || scheme == "" {
		return nil, fmt.Errorf("%w: %q has no scheme", errMalformedURI, truncate(uri))
	}
	scheme = strings.ToLower(scheme)
	if fetchedSchemes[scheme] {
		return &Resource{Scheme: scheme, Location: uri}, nil
	}

	res := &Resource{Scheme: scheme, Params: map[string]string{}}
	kind, query, hasQuery := strings.Cut(rest, "?")
	if !hasQuery && strings.Contains(kind, "=") {
		kind, query = "", kind
	}
	res.Kind = strings.ToLower(strings.Trim(kind, "/"))
	for _, kv := range strings.Split(query, "&") {
		if kv == "" {
			continue
		}
		k, v, _ := strings.Cut(kv, "=")
		uk, err := url.PathUnescape(k)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q: %v", errMalformedURI, truncate(k), err)
		}
		uv, err := url.PathUnescape(v)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q: %v", errMalformedURI, uk, err)
		}
		res.Params[strings.ToLower(uk)] = uv
	}
	return res, nil
}

var fetchedSchemes = map[string]bool{
	"content": true,
	"file":    true,
}

// targetsByScheme is the single dispatch table from inline URI schemes to
// targets. The kind is the authority part of the URI.
var targetsByScheme = map[string]func(kind string) Target{
	"cert": func(kind string) Target {
		switch kind {
		case "", "root", "ca":
			return TargetRootCertificate
		case "intermediate", "sub", "subca":
			return TargetIntermediateCertificate
		}
		return TargetUnknown
	},
	"crl":     func(string) Target { return TargetCRL },
	"pfx":     func(string) Target { return TargetPFX },
	"p12":     func(string) Target { return TargetPFX },
	"license": func(string) Target { return TargetLicense },
	"lic":     func(string) Target { return TargetLicense },
}

var targetsByExt = map[string]Target{
	".cer": TargetRootCertificate,
	".crt": TargetRootCertificate,
	".der": TargetRootCertificate,
	".pem": TargetRootCertificate,
	".crl": TargetCRL,
	".pfx": TargetPFX,
	".p12": TargetPFX,
	".lic": TargetLicense,
}

// Target returns what the resource names itself as, without looking at
// its content.
func (r *Resource) Target() Target {
	if r.Fetched() {
		u, err := url.Parse(r.Location)
		if err != nil {
			return TargetUnknown
		}
		return targetsByExt[strings.ToLower(path.Ext(u.Path))]
	}
	if f, ok := targetsByScheme[r.Scheme]; ok {
		return f(r.Kind)
	}
	return TargetUnknown
}

// Classify returns the target uri names. It never fails: anything
// unrecognized is TargetUnknown.
func Classify(uri string) Target {
	res, err := ParseURI(uri)
	if err != nil {
		return TargetUnknown
	}
	return res.Target()
}

func truncate(s string) string {
	const maxLen = 32
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
