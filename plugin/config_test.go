// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package plugin

import (
	"testing"

	"github.com/nmcades/cades-android/certimport"
	"github.com/nmcades/cades-android/native"
)

func TestApplyEnv(t *testing.T) {
	t.Setenv("CADES_QR_DECODING", "base32+base64")
	t.Setenv("CADES_SUCCESS_CODE", "-1")
	t.Setenv("CADES_PASSWORD_REQUIRED_CODE", "0x80070056")
	t.Setenv("CADES_OCSP_LICENSE", "OCSP-KEY")
	t.Setenv("CADES_TSP_LICENSE", "TSP-KEY")
	t.Setenv("CADES_DISABLE_RUTOKEN", "true")

	cfg := DefaultConfig("/data")
	cfg.ApplyEnv(t.Logf)

	if cfg.Decoding != certimport.DecodingBase32Base64 {
		t.Errorf("Decoding = %v", cfg.Decoding)
	}
	if cfg.Codes != (native.Codes{Success: -1, PasswordRequired: native.ErrorInvalidPassword}) {
		t.Errorf("Codes = %+v", cfg.Codes)
	}
	if cfg.OCSPLicense != "OCSP-KEY" || cfg.TSPLicense != "TSP-KEY" {
		t.Errorf("licenses %q %q", cfg.OCSPLicense, cfg.TSPLicense)
	}
	if cfg.TokenSupport {
		t.Error("TokenSupport still enabled")
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	t.Setenv("CADES_QR_DECODING", "rot13")
	t.Setenv("CADES_SUCCESS_CODE", "zero")

	var logged int
	cfg := DefaultConfig("/data")
	cfg.ApplyEnv(func(string, ...any) { logged++ })
	if cfg.Decoding != certimport.DecodingBase64 || cfg.Codes != native.DefaultCodes {
		t.Errorf("invalid values applied: %+v", cfg)
	}
	if logged != 2 {
		t.Errorf("logged %d problems, want 2", logged)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    int32
		wantErr bool
	}{
		{"0", 0, false},
		{"-1", -1, false},
		{"0xFFFFFFFF", -1, false},
		{"0x80070056", native.ErrorInvalidPassword, false},
		{"-2147024810", native.ErrorInvalidPassword, false},
		{"0x100000000", 0, true},
		{"nope", 0, true},
	}
	for _, tt := range tests {
		got, err := parseStatus(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseStatus(%q) = %d, %v", tt.in, got, err)
		}
	}
}
