// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package certimport

import (
	"fmt"

	"github.com/nmcades/cades-android/native"
)

// String resource keys understood by a Localizer.
const (
	KeyCertInstalled      = "cert_installation_success"
	KeyPfxInstalled       = "pfx_installation_success"
	KeyLicenseInstalled   = "license_installation_success"
	KeyInvalidFormat      = "InvalidURIFormat"
	KeyInstallationFailed = "installation_failed"
	KeyPasswordCancelled  = "pfx_password_cancelled"
	KeyNotSupported       = "import_not_supported"
	KeyEnterPassword      = "pfx_enter_password"
)

// Localizer looks up user-facing strings. GetString returns the empty
// string for keys it does not know.
type Localizer interface {
	GetString(key string) string
}

// Notice is the single user-facing outcome of an import.
type Notice struct {
	Message string
	IsError bool
}

func successKey(t Target) string {
	switch t {
	case TargetPFX:
		return KeyPfxInstalled
	case TargetLicense:
		return KeyLicenseInstalled
	}
	return KeyCertInstalled
}

func (im *Importer) localize(key string) string {
	if im.loc == nil {
		return ""
	}
	return im.loc.GetString(key)
}

// text returns the localized string for key, or key itself.
func (im *Importer) text(key string) string {
	if s := im.localize(key); s != "" {
		return s
	}
	return key
}

// installNotice turns an engine status into a Notice. Success prefers the
// localized string and then the engine's own message; failure prefers the
// engine's message and then a generic one carrying the status.
func (im *Importer) installNotice(t Target, status int32) Notice {
	if im.codes.OK(status) {
		key := successKey(t)
		msg := im.localize(key)
		if msg == "" {
			msg = im.engine.ErrorMessage(status)
		}
		if msg == "" {
			msg = key
		}
		return Notice{Message: msg}
	}
	if msg := im.engine.ErrorMessage(status); msg != "" {
		return Notice{Message: msg, IsError: true}
	}
	return Notice{
		Message: fmt.Sprintf("%s (%s)", im.text(KeyInstallationFailed), native.FormatStatus(status)),
		IsError: true,
	}
}

// errorNotice reports err, falling back to the invalid format string when
// err has nothing to say.
func (im *Importer) errorNotice(err error) Notice {
	if err != nil && err.Error() != "" {
		return Notice{Message: err.Error(), IsError: true}
	}
	return Notice{Message: im.text(KeyInvalidFormat), IsError: true}
}
