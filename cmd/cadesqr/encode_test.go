// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"

	"github.com/nmcades/cades-android/certimport"
	"github.com/skip2/go-qrcode"
)

func TestBuildURILicense(t *testing.T) {
	uri, target, err := buildURI([]byte("40400-Q0000-00000\n"), "license", "base64")
	if err != nil {
		t.Fatal(err)
	}
	if target != certimport.TargetLicense {
		t.Errorf("target = %v", target)
	}
	want := "license://?data=" + base64.StdEncoding.EncodeToString([]byte("40400-Q0000-00000"))
	if uri != want {
		t.Errorf("uri = %q, want %q", uri, want)
	}
}

func TestBuildURIErrors(t *testing.T) {
	tests := []struct {
		name, typ, enc string
	}{
		{"undetectable", "auto", "base64"},
		{"bad type", "leaf", "base64"},
		{"bad encoding", "pfx", "hex"},
	}
	for _, tt := range tests {
		if _, _, err := buildURI([]byte("junk"), tt.typ, tt.enc); err == nil {
			t.Errorf("%s: no error", tt.name)
		}
	}
}

func TestBuildURIExplicitType(t *testing.T) {
	uri, _, err := buildURI([]byte{1, 2, 3}, "crl", "base32+base64")
	if err != nil {
		t.Fatal(err)
	}
	if got := certimport.Classify(uri); got != certimport.TargetCRL {
		t.Errorf("Classify(%q) = %v", uri, got)
	}
}

func TestParseRecovery(t *testing.T) {
	if l, err := parseRecovery("HIGH"); err != nil || l != qrcode.High {
		t.Errorf("parseRecovery(HIGH) = %v, %v", l, err)
	}
	if _, err := parseRecovery("max"); err == nil {
		t.Error("parseRecovery(max) succeeded")
	}
}

func TestEncodeCommandWritesPNG(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "csp.lic")
	if err := os.WriteFile(in, []byte("40400-Q0000-00000"), 0o600); err != nil {
		t.Fatal(err)
	}
	out := filepath.Join(dir, "csp.png")

	rootCmd.SetArgs([]string{"encode", in, "--type", "license", "-o", out, "--size", "256"})
	rootCmd.SetErr(&bytes.Buffer{})
	if err := rootCmd.Execute(); err != nil {
		t.Fatal(err)
	}
	png, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(png, []byte("\x89PNG")) {
		t.Errorf("output is not a PNG")
	}
}
