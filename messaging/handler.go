// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package messaging

import (
	"strings"

	"github.com/nmcades/cades-android/native"
	"tailscale.com/types/logger"
)

// LaunchQRCommand is the message an extension sends to open the QR
// scanner instead of talking to the engine. It is matched
// case-insensitively.
const LaunchQRCommand = "LAUNCH_QR_SCANNER"

// Extension identifies the CryptoPro browser extension and its messaging
// channels.
type Extension struct {
	ID           string
	URL          string
	MessagingID  string
	BackgroundID string
}

// DefaultExtension is the nmcades extension bundled with the browser.
var DefaultExtension = Extension{
	ID:           "ru.cryptopro.nmcades@cryptopro.ru",
	URL:          "resource://android/assets/extensions/cades-plugin/",
	MessagingID:  "ru.cryptopro.nmcades.content",
	BackgroundID: "ru.cryptopro.nmcades",
}

// Handler handles message port events from the browser runtime.
type Handler struct {
	logf     logger.Logf
	reg      *Registry
	engine   native.Engine
	codes    native.Codes
	launchQR func()
}

// NewHandler returns a Handler that registers ports in reg and writes
// port messages to engine. launchQR is called for LaunchQRCommand.
func NewHandler(logf logger.Logf, reg *Registry, engine native.Engine, codes native.Codes, launchQR func()) *Handler {
	return &Handler{
		logf:     logger.WithPrefix(logf, "cades-port: "),
		reg:      reg,
		engine:   engine,
		codes:    codes,
		launchQR: launchQR,
	}
}

// OnPortConnected makes p the active port.
func (h *Handler) OnPortConnected(p Port) {
	h.logf("connected %q for session %q", p.Name(), p.SessionID())
	h.reg.SetActive(p)
}

// OnPortMessage handles msg received on p. The port that spoke last is
// the one that gets the engine's answers, so p becomes active first.
func (h *Handler) OnPortMessage(msg string, p Port) {
	h.reg.SetActive(p)
	if strings.EqualFold(msg, LaunchQRCommand) {
		if h.launchQR != nil {
			h.launchQR()
		}
		return
	}
	h.logf("message on %q for session %q", p.Name(), p.SessionID())
	if status := h.engine.Write(msg, native.WriteFlags); !h.codes.OK(status) {
		h.logf("write failed with status %s", native.FormatStatus(status))
	}
}

// OnPortDisconnected forgets p if it is still the active port.
func (h *Handler) OnPortDisconnected(p Port) {
	h.logf("disconnected %q for session %q", p.Name(), p.SessionID())
	h.reg.Clear(p)
}
