// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package certimport

import (
	"bytes"
	"crypto/x509"
	"encoding/base32"
	"encoding/base64"
	"encoding/pem"
	"errors"
	"fmt"
	"strings"

	"software.sslmate.com/src/go-pkcs12"
)

// Decoding is how the data parameter of an inline import URI is encoded.
// Deployments differ, so it is configuration.
type Decoding int

const (
	// DecodingBase64 expects base64 in any of the standard or URL
	// alphabets, padded or not.
	DecodingBase64 Decoding = iota
	// DecodingRaw takes the parameter bytes as the content.
	DecodingRaw
	// DecodingBase32Base64 expects base32 text that decodes to base64.
	DecodingBase32Base64
)

func (d Decoding) String() string {
	switch d {
	case DecodingBase64:
		return "base64"
	case DecodingRaw:
		return "raw"
	case DecodingBase32Base64:
		return "base32+base64"
	}
	return fmt.Sprintf("Decoding(%d)", int(d))
}

// ParseDecoding parses the String form of a Decoding.
func ParseDecoding(s string) (Decoding, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "base64", "":
		return DecodingBase64, nil
	case "raw":
		return DecodingRaw, nil
	case "base32+base64", "base32":
		return DecodingBase32Base64, nil
	}
	return 0, fmt.Errorf("unknown QR decoding %q", s)
}

var errBadPayload = errors.New("payload is not validly encoded")

// Decode returns the content bytes carried in data.
func (d Decoding) Decode(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, fmt.Errorf("%w: empty", errBadPayload)
	}
	switch d {
	case DecodingRaw:
		return []byte(data), nil
	case DecodingBase64:
		return decodeBase64(data)
	case DecodingBase32Base64:
		b64, err := decodeBase32(data)
		if err != nil {
			return nil, err
		}
		return decodeBase64(string(b64))
	}
	return nil, fmt.Errorf("%w: unsupported decoding %v", errBadPayload, d)
}

var base64Encodings = []*base64.Encoding{
	base64.StdEncoding,
	base64.RawStdEncoding,
	base64.URLEncoding,
	base64.RawURLEncoding,
}

func decodeBase64(s string) ([]byte, error) {
	for _, enc := range base64Encodings {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: not base64", errBadPayload)
}

func decodeBase32(s string) ([]byte, error) {
	s = strings.ToUpper(s)
	for _, enc := range []*base32.Encoding{base32.StdEncoding, base32.StdEncoding.WithPadding(base32.NoPadding)} {
		if b, err := enc.DecodeString(s); err == nil {
			return b, nil
		}
	}
	return nil, fmt.Errorf("%w: not base32", errBadPayload)
}

// unwrapPEM returns the DER bytes of the first PEM block in data, or data
// itself if it is not PEM.
func unwrapPEM(data []byte) []byte {
	if !bytes.Contains(data, []byte("-----BEGIN")) {
		return data
	}
	block, _ := pem.Decode(data)
	if block == nil {
		return data
	}
	return block.Bytes
}

// sniff guesses the target of fetched DER content.
func sniff(der []byte) Target {
	if cert, err := x509.ParseCertificate(der); err == nil {
		if selfSigned(cert) {
			return TargetRootCertificate
		}
		return TargetIntermediateCertificate
	}
	if _, err := x509.ParseRevocationList(der); err == nil {
		return TargetCRL
	}
	if _, _, _, err := pkcs12.DecodeChain(der, ""); err == nil || errors.Is(err, pkcs12.ErrIncorrectPassword) {
		return TargetPFX
	}
	return TargetUnknown
}

func selfSigned(cert *x509.Certificate) bool {
	if !bytes.Equal(cert.RawSubject, cert.RawIssuer) {
		return false
	}
	return cert.CheckSignature(cert.SignatureAlgorithm, cert.RawTBSCertificate, cert.Signature) == nil
}
