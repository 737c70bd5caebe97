// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package nativetest provides an in-memory native.Engine for tests.
package nativetest

import (
	"sync"

	"github.com/nmcades/cades-android/native"
)

// Call records one engine invocation.
type Call struct {
	Op   string
	Args []string
}

// Engine is a scriptable native.Engine. The exported fields configure its
// answers and must be set before the engine is shared with other
// goroutines.
type Engine struct {
	InitStatus       int32
	LicenseStatus    int32
	ServeStatus      int32
	WriteStatus      int32
	RootCertStatus   int32
	LicenseCSPStatus int32

	// PfxFunc decides the status of InstallPfx. If nil, InstallPfx
	// returns 0.
	PfxFunc func(base64Data, password string) int32

	// Messages maps statuses to engine error descriptions.
	Messages map[int32]string

	// InitHook, if set, runs inside Init before it returns.
	InitHook func()

	msgs      chan string
	closed    chan struct{}
	closeOnce sync.Once

	mu    sync.Mutex
	calls []Call
}

var _ native.Engine = (*Engine)(nil)

// New returns an Engine whose calls all succeed with status 0.
func New() *Engine {
	return &Engine{
		msgs:   make(chan string, 64),
		closed: make(chan struct{}),
	}
}

// Push queues msg to be returned by a future Read.
func (e *Engine) Push(msg string) {
	e.msgs <- msg
}

// PushEmpty queues a Read that returns no message.
func (e *Engine) PushEmpty() {
	e.msgs <- "\x00"
}

func (e *Engine) record(op string, args ...string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.calls = append(e.calls, Call{Op: op, Args: args})
}

// Calls returns the recorded invocations of op, in order.
func (e *Engine) Calls(op string) []Call {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []Call
	for _, c := range e.calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

// Count returns how many times op was invoked.
func (e *Engine) Count(op string) int {
	return len(e.Calls(op))
}

// Ops returns the names of all invocations in order.
func (e *Engine) Ops() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]string, len(e.calls))
	for i, c := range e.calls {
		out[i] = c.Op
	}
	return out
}

func (e *Engine) Init(path string) int32 {
	e.record("Init", path)
	if e.InitHook != nil {
		e.InitHook()
	}
	return e.InitStatus
}

func (e *Engine) InstallLicense(ocsp, tsp string) int32 {
	e.record("InstallLicense", ocsp, tsp)
	return e.LicenseStatus
}

// Serve blocks until Close.
func (e *Engine) Serve(path string) int32 {
	e.record("Serve", path)
	<-e.closed
	return e.ServeStatus
}

// Read blocks until a message is pushed or the engine is closed.
func (e *Engine) Read() (string, bool) {
	select {
	case m := <-e.msgs:
		if m == "\x00" {
			return "", false
		}
		return m, true
	case <-e.closed:
		return "", false
	}
}

func (e *Engine) Write(msg string, flags int32) int32 {
	e.record("Write", msg)
	return e.WriteStatus
}

func (e *Engine) InstallPfx(base64Data, password string) int32 {
	e.record("InstallPfx", base64Data, password)
	if e.PfxFunc == nil {
		return 0
	}
	return e.PfxFunc(base64Data, password)
}

func (e *Engine) InstallRootCert(base64Cert string) int32 {
	e.record("InstallRootCert", base64Cert)
	return e.RootCertStatus
}

func (e *Engine) InstallLicenseCSP(license, user, company string) int32 {
	e.record("InstallLicenseCSP", license, user, company)
	return e.LicenseCSPStatus
}

func (e *Engine) ErrorMessage(status int32) string {
	return e.Messages[status]
}

func (e *Engine) Close() int32 {
	e.record("Close")
	e.closeOnce.Do(func() { close(e.closed) })
	return 0
}
