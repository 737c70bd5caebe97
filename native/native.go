// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package native is the boundary to the vendor CAdES/CSP engine. The engine
// itself is opaque; this package only describes the calls it accepts and the
// status codes it returns.
package native

import (
	"errors"
	"fmt"
)

// Engine is the native cryptographic engine as seen by the plug-in.
// Statuses are vendor result codes; see Codes for how to interpret them.
type Engine interface {
	// Init initializes the cryptographic provider. path is the
	// application data directory.
	Init(path string) int32

	// InstallLicense installs the OCSP and TSP licenses.
	InstallLicense(ocsp, tsp string) int32

	// Serve runs the engine's main message circle over FIFOs created in
	// path. It blocks for as long as the engine is running.
	Serve(path string) int32

	// Read blocks until the engine produces a message for the browser.
	// ok is false when the engine returned no message.
	Read() (msg string, ok bool)

	// Write hands a message from the browser to the engine.
	Write(msg string, flags int32) int32

	// InstallPfx installs a base64 encoded PKCS#12 container.
	InstallPfx(base64Data, password string) int32

	// InstallRootCert installs a base64 encoded root certificate.
	InstallRootCert(base64Cert string) int32

	// InstallLicenseCSP installs a CSP license key.
	InstallLicenseCSP(license, user, company string) int32

	// ErrorMessage returns the engine's description of status, or the
	// empty string if it has none.
	ErrorMessage(status int32) string

	// Close releases the message circle FIFOs.
	Close() int32
}

// WriteFlags is the flags value passed to Engine.Write for browser messages.
const WriteFlags int32 = 0

// Codes names the result codes that the plug-in has to recognize. The
// values differ between vendor library builds, so they are configuration.
type Codes struct {
	// Success is returned by every call that completed.
	Success int32
	// PasswordRequired is returned by InstallPfx when the container needs
	// a (different) password.
	PasswordRequired int32
}

// ErrorInvalidPassword is ERROR_INVALID_PASSWORD (0x80070056) as a signed
// 32-bit status.
const ErrorInvalidPassword int32 = -2147024810

// DefaultCodes is the convention of the wrapper library shipped with the
// browser.
var DefaultCodes = Codes{
	Success:          0,
	PasswordRequired: ErrorInvalidPassword,
}

// OK reports whether status is the success code.
func (c Codes) OK(status int32) bool {
	return status == c.Success
}

// StatusError is a non-success status returned by an engine call.
type StatusError struct {
	Op     string
	Status int32
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s failed with status %s", e.Op, FormatStatus(e.Status))
}

// Check returns a *StatusError for status unless it is c.Success.
func (c Codes) Check(op string, status int32) error {
	if c.OK(status) {
		return nil
	}
	return &StatusError{Op: op, Status: status}
}

// FormatStatus renders status the way the vendor documents it, as an
// unsigned hex value.
func FormatStatus(status int32) string {
	return fmt.Sprintf("0x%08X", uint32(status))
}

// ErrUnsupported is returned by Open on platforms without the native library.
var ErrUnsupported = errors.New("native CAdES library is not available on this platform")
