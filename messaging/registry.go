// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package messaging connects the browser extension's message ports to the
// native engine's message loop.
package messaging

import (
	"errors"
	"sync"
)

// Port is a message port to one browser tab or to the extension's
// background page. It is owned by the browser runtime.
type Port interface {
	// PostMessage sends msg to the extension side of the port. It is
	// called with the Registry locked and must not call back into the
	// Registry or Handler synchronously; hand such work to another
	// goroutine or thread.
	PostMessage(msg string) error

	// Name returns the port name the extension connected with.
	Name() string

	// SessionID identifies the engine session (tab) bound to the port,
	// or is empty for the background page.
	SessionID() string
}

// ErrNoPort is returned by Registry.Deliver when no port is registered.
var ErrNoPort = errors.New("no active message port")

// Registry holds the single active port. A later SetActive always
// supersedes an earlier one; there is no reference counting.
//
// Delivery happens with the registry locked, so a message is never posted
// to a port that was replaced before the post completed.
type Registry struct {
	mu   sync.Mutex
	port Port
}

// SetActive makes p the active port and returns the port it replaced.
func (r *Registry) SetActive(p Port) (prev Port) {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev, r.port = r.port, p
	return prev
}

// Active returns the active port, or nil.
func (r *Registry) Active() Port {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.port
}

// Clear unregisters p if it is still the active port. It reports whether
// the registry changed.
func (r *Registry) Clear(p Port) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.port == nil || !samePort(r.port, p) {
		return false
	}
	r.port = nil
	return true
}

// Deliver posts msg to the active port. It returns the port used, or
// ErrNoPort. The lock is held across PostMessage so that a port replaced
// by SetActive never receives another message.
func (r *Registry) Deliver(msg string) (Port, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.port == nil {
		return nil, ErrNoPort
	}
	return r.port, r.port.PostMessage(msg)
}

// samePort reports whether a and b refer to the same port. Bound Java
// objects may arrive wrapped in distinct Go values, so identity falls back
// to the port's name and session.
func samePort(a, b Port) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a == b {
		return true
	}
	return a.Name() == b.Name() && a.SessionID() == b.SessionID()
}
