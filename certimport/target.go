// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package certimport

// Target is what a scanned resource is to be installed as.
type Target int

const (
	TargetUnknown Target = iota
	TargetRootCertificate
	TargetIntermediateCertificate
	TargetCRL
	TargetPFX
	TargetLicense
)

func (t Target) String() string {
	switch t {
	case TargetRootCertificate:
		return "root-certificate"
	case TargetIntermediateCertificate:
		return "intermediate-certificate"
	case TargetCRL:
		return "crl"
	case TargetPFX:
		return "pfx"
	case TargetLicense:
		return "license"
	}
	return "unknown"
}

// State is a step of an import.
type State int

const (
	StateScanned State = iota
	StateDecoding
	StateInstalling
	StateNeedsPassword
	StatePromptingUser
	StateSuccess
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateScanned:
		return "scanned"
	case StateDecoding:
		return "decoding"
	case StateInstalling:
		return "installing"
	case StateNeedsPassword:
		return "needs-password"
	case StatePromptingUser:
		return "prompting-user"
	case StateSuccess:
		return "success"
	case StateFailed:
		return "failed"
	}
	return "invalid"
}

// Terminal reports whether s ends an import.
func (s State) Terminal() bool {
	return s == StateSuccess || s == StateFailed
}
