// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package certimport

import (
	"bytes"
	"encoding/pem"
	"errors"
	"testing"
)

func TestFormatURIRoundTrip(t *testing.T) {
	content := []byte{0xfb, 0xff, 0x00, 'a', '/', '+'}
	for _, target := range []Target{
		TargetRootCertificate,
		TargetIntermediateCertificate,
		TargetCRL,
		TargetPFX,
		TargetLicense,
	} {
		for _, d := range []Decoding{DecodingBase64, DecodingBase32Base64} {
			payload, err := d.Encode(content)
			if err != nil {
				t.Fatal(err)
			}
			uri, err := FormatURI(target, payload)
			if err != nil {
				t.Fatal(err)
			}
			if got := Classify(uri); got != target {
				t.Errorf("%s: Classify = %v, want %v", uri, got, target)
			}
			res, err := ParseURI(uri)
			if err != nil {
				t.Fatal(err)
			}
			got, err := d.Decode(res.Params["data"])
			if err != nil {
				t.Fatalf("%s: %v", uri, err)
			}
			if !bytes.Equal(got, content) {
				t.Errorf("%s: decoded %x, want %x", uri, got, content)
			}
		}
	}
}

func TestFormatURIErrors(t *testing.T) {
	if _, err := FormatURI(TargetUnknown, "AAAA"); !errors.Is(err, ErrUnknownTarget) {
		t.Errorf("unknown target: err = %v", err)
	}
	if _, err := FormatURI(TargetPFX, ""); err == nil {
		t.Error("empty payload accepted")
	}
}

func TestDetect(t *testing.T) {
	pki := newTestPKI(t)
	tests := []struct {
		name    string
		content []byte
		want    Target
	}{
		{"root", pki.root.Raw, TargetRootCertificate},
		{"root pem", pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: pki.root.Raw}), TargetRootCertificate},
		{"leaf", pki.leaf.Raw, TargetIntermediateCertificate},
		{"crl", pki.crl(t), TargetCRL},
		{"pfx", pki.pfx(t, "secret"), TargetPFX},
		{"junk", []byte("junk"), TargetUnknown},
	}
	for _, tt := range tests {
		if got := Detect(tt.content); got != tt.want {
			t.Errorf("%s: Detect = %v, want %v", tt.name, got, tt.want)
		}
	}
}
