// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package certimport

import (
	"bytes"
	"testing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		uri  string
		want Target
	}{
		{"cert://root?data=AAAA", TargetRootCertificate},
		{"CERT://ROOT?data=AAAA", TargetRootCertificate},
		{"cert://?data=AAAA", TargetRootCertificate},
		{"cert://ca/?data=AAAA", TargetRootCertificate},
		{"cert://intermediate?data=AAAA", TargetIntermediateCertificate},
		{"cert://subca?data=AAAA", TargetIntermediateCertificate},
		{"cert://leaf?data=AAAA", TargetUnknown},
		{"crl://?data=AAAA", TargetCRL},
		{"crl://data=AAAA", TargetCRL},
		{"pfx://data=BBBB", TargetPFX},
		{"pfx://?data=BBBB", TargetPFX},
		{"p12://data=BBBB", TargetPFX},
		{"license://data=AAAA", TargetLicense},
		{"lic://?data=AAAA", TargetLicense},
		{"content://com.android.providers.downloads/document/ca.CRT", TargetRootCertificate},
		{"content://media/external/file/42", TargetUnknown},
		{"file:///sdcard/Download/store.p12", TargetPFX},
		{"file:///sdcard/Download/list.crl", TargetCRL},
		{"file:///sdcard/Download/csp.lic", TargetLicense},
		{"https://example.com/ca.cer", TargetUnknown},
		{"mailto:someone@example.com", TargetUnknown},
		{"", TargetUnknown},
		{"://", TargetUnknown},
		{"cert://root?data=%zz", TargetUnknown},
		{"\x00\xff://\x01", TargetUnknown},
	}
	for _, tt := range tests {
		if got := Classify(tt.uri); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.uri, got, tt.want)
		}
	}
}

func TestParseURI(t *testing.T) {
	res, err := ParseURI("pfx://data=ab+c/d%3D%3D&user=Jane%20Doe")
	if err != nil {
		t.Fatal(err)
	}
	if res.Scheme != "pfx" || res.Kind != "" {
		t.Errorf("scheme %q kind %q", res.Scheme, res.Kind)
	}
	if got := res.Params["data"]; got != "ab+c/d==" {
		t.Errorf("data = %q, want base64 '+' kept", got)
	}
	if got := res.Params["user"]; got != "Jane Doe" {
		t.Errorf("user = %q", got)
	}

	res, err = ParseURI("cert://root?data=QUJD=")
	if err != nil {
		t.Fatal(err)
	}
	if res.Kind != "root" || res.Params["data"] != "QUJD=" {
		t.Errorf("got %+v", res)
	}

	res, err = ParseURI("content://downloads/ca.pem")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Fetched() || res.Location != "content://downloads/ca.pem" {
		t.Errorf("got %+v", res)
	}

	if _, err := ParseURI("no scheme here"); err == nil {
		t.Error("expected error for URI without scheme")
	}
}

func TestDecoding(t *testing.T) {
	tests := []struct {
		dec     Decoding
		in      string
		want    []byte
		wantErr bool
	}{
		{DecodingBase64, "AAAA", []byte{0, 0, 0}, false},
		{DecodingBase64, "QUJD", []byte("ABC"), false},
		{DecodingBase64, "QUI=", []byte("AB"), false},
		{DecodingBase64, "QUI", []byte("AB"), false},
		{DecodingBase64, "-_8", []byte{0xfb, 0xff}, false},
		{DecodingBase64, " QUJD\n", []byte("ABC"), false},
		{DecodingBase64, "not base64!", nil, true},
		{DecodingBase64, "", nil, true},
		{DecodingRaw, "AAAA", []byte("AAAA"), false},
		// base32("QUJD") = KFKUURA=
		{DecodingBase32Base64, "KFKUURA=", []byte("ABC"), false},
		{DecodingBase32Base64, "kfkuura", []byte("ABC"), false},
		{DecodingBase32Base64, "QUJD", nil, true},
	}
	for _, tt := range tests {
		got, err := tt.dec.Decode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("%v.Decode(%q) error = %v, wantErr %v", tt.dec, tt.in, err, tt.wantErr)
			continue
		}
		if !bytes.Equal(got, tt.want) {
			t.Errorf("%v.Decode(%q) = %x, want %x", tt.dec, tt.in, got, tt.want)
		}
	}
}

func TestParseDecoding(t *testing.T) {
	for in, want := range map[string]Decoding{
		"":              DecodingBase64,
		"base64":        DecodingBase64,
		"RAW":           DecodingRaw,
		"base32+base64": DecodingBase32Base64,
		"base32":        DecodingBase32Base64,
	} {
		got, err := ParseDecoding(in)
		if err != nil || got != want {
			t.Errorf("ParseDecoding(%q) = %v, %v; want %v", in, got, err, want)
		}
		if in != "" && in != "base32" && in != "RAW" && got.String() != in {
			t.Errorf("%v.String() = %q", got, got.String())
		}
	}
	if _, err := ParseDecoding("rot13"); err == nil {
		t.Error("expected error")
	}
}
