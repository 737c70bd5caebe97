// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package libcades

import (
	_ "golang.org/x/mobile/bind"
)

// Start starts the plug-in, keeping engine state in the given dataDir and
// using appCtx and ui. There is a single plug-in per process: later calls
// return the Application created by the first successful one.
func Start(dataDir string, appCtx AppContext, ui UI) (Application, error) {
	return start(dataDir, appCtx, ui)
}

// AppContext provides a context within which the plug-in is running. This
// context is a hook into functionality that's implemented on the Java side.
type AppContext interface {
	// Log logs the given tag and logLine.
	Log(tag, logLine string)

	// GetString returns the localized string resource with the given name,
	// or empty string if there is none.
	GetString(name string) string

	// InitNativeCSP initializes the Java CSP provider (NCSPConfig.init)
	// and returns its status.
	InitNativeCSP() int32

	// LoadTokenSupport registers the application context with the Rutoken
	// PC/SC service and reports whether it succeeded.
	LoadTokenSupport() bool

	// ReadContent returns the bytes behind a content:// or file:// URI.
	ReadContent(uri string) ([]byte, error)
}

// UI is implemented by the browser's UI layer. Its methods are called
// from background goroutines and must post to the main thread themselves.
type UI interface {
	// LaunchQR starts the QR scanner activity with request code
	// QRRequestCode.
	LaunchQR()

	// ShowNotice shows message in a snackbar.
	ShowNotice(message string, isError bool)

	// PromptPfxPassword asks the user for the password of a PKCS#12
	// container. The dialog answers through req exactly once.
	PromptPfxPassword(req *PasswordRequest)
}

// Port corresponds to a web extension message port.
type Port interface {
	// PostMessage sends msg to the extension. It must not call
	// OnPortConnected, OnPortMessage or OnPortDisconnected before it
	// returns; post such events to another thread.
	PostMessage(msg string) error

	// Name returns the port name.
	Name() string

	// SessionID returns an identifier of the engine session bound to the
	// port, or empty string for the background page.
	SessionID() string
}

// Application encapsulates the running plug-in. There is only a single
// instance of Application per Android application.
type Application interface {
	// Initialize initializes the engine and starts its message loops.
	// It blocks until that is done and only does work on its first call.
	Initialize()

	// Extension returns the identifiers to register the message handler
	// under.
	Extension() *Extension

	// OnPortConnected is called when the extension connects a port.
	OnPortConnected(port Port)

	// OnPortMessage is called for every message received on port.
	OnPortMessage(msg string, port Port)

	// OnPortDisconnected is called when port goes away.
	OnPortDisconnected(port Port)

	// OnActivityResult handles activity results. It reports whether
	// requestCode belonged to the plug-in.
	OnActivityResult(requestCode, resultCode int32, uri string) bool

	// ImportQR installs the resource named by a scanned QR code.
	ImportQR(uri string)

	// Close stops the message reader.
	Close()
}

// Extension identifies the CryptoPro browser extension.
type Extension struct {
	ID           string
	URL          string
	MessagingID  string
	BackgroundID string
}
