// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package certimport

import (
	"encoding/base32"
	"encoding/base64"
	"fmt"
	"net/url"
)

// Encode is the inverse of Decode.
func (d Decoding) Encode(content []byte) (string, error) {
	switch d {
	case DecodingRaw:
		return string(content), nil
	case DecodingBase64:
		return base64.StdEncoding.EncodeToString(content), nil
	case DecodingBase32Base64:
		b64 := base64.StdEncoding.EncodeToString(content)
		return base32.StdEncoding.EncodeToString([]byte(b64)), nil
	}
	return "", fmt.Errorf("unsupported decoding %v", d)
}

var schemesByTarget = map[Target]string{
	TargetRootCertificate:         "cert://root",
	TargetIntermediateCertificate: "cert://intermediate",
	TargetCRL:                     "crl://",
	TargetPFX:                     "pfx://",
	TargetLicense:                 "license://",
}

// FormatURI returns the inline import URI carrying payload, an already
// encoded data parameter, for t.
func FormatURI(t Target, payload string) (string, error) {
	prefix, ok := schemesByTarget[t]
	if !ok {
		return "", fmt.Errorf("%w: %v", ErrUnknownTarget, t)
	}
	if payload == "" {
		return "", fmt.Errorf("%w: empty", errBadPayload)
	}
	return prefix + "?data=" + url.PathEscape(payload), nil
}

// Detect guesses the target of a DER or PEM encoded certificate, CRL or
// PKCS#12 container.
func Detect(content []byte) Target {
	return sniff(unwrapPEM(content))
}
