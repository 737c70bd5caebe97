// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package plugin owns the process-wide state of the CAdES plug-in: the
// native engine, its one-time initialization and the message reader.
package plugin

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"github.com/nmcades/cades-android/messaging"
	"github.com/nmcades/cades-android/native"
	"tailscale.com/types/logger"
)

// Plugin is the initialized-once plug-in. Construct one per process and
// hand it to everything that needs the engine.
type Plugin struct {
	logf   logger.Logf
	cfg    Config
	engine native.Engine
	tokens func() bool

	reg    *messaging.Registry
	reader *messaging.Reader

	ctx    context.Context
	cancel context.CancelFunc

	initOnce    sync.Once
	initialized atomic.Bool
	closed      atomic.Bool
	readerDone  chan struct{}
}

// New returns a Plugin for engine. loadTokens, if non-nil and enabled by
// cfg.TokenSupport, loads hardware token support and reports success; it
// runs before the engine is initialized.
func New(logf logger.Logf, engine native.Engine, cfg Config, loadTokens func() bool) *Plugin {
	ctx, cancel := context.WithCancel(context.Background())
	reg := new(messaging.Registry)
	return &Plugin{
		logf:       logger.WithPrefix(logf, "cades-plugin: "),
		cfg:        cfg,
		engine:     engine,
		tokens:     loadTokens,
		reg:        reg,
		reader:     messaging.NewReader(logf, engine, reg),
		ctx:        ctx,
		cancel:     cancel,
		readerDone: make(chan struct{}),
	}
}

// Config returns the plug-in configuration.
func (p *Plugin) Config() Config { return p.cfg }

// Engine returns the native engine.
func (p *Plugin) Engine() native.Engine { return p.engine }

// Registry returns the active port registry shared with the reader.
func (p *Plugin) Registry() *messaging.Registry { return p.reg }

// Reader returns the message reader.
func (p *Plugin) Reader() *messaging.Reader { return p.reader }

// Context is done once the plug-in is closed.
func (p *Plugin) Context() context.Context { return p.ctx }

// Initialized reports whether EnsureInitialized has completed.
func (p *Plugin) Initialized() bool { return p.initialized.Load() }

// EnsureInitialized initializes the engine, installs the licenses and
// starts the reader and the engine's main message circle. It does so once
// per Plugin no matter how many goroutines call it; callers return once
// initialization is done. Engine failures are logged and the plug-in
// carries on in whatever state the engine is in.
func (p *Plugin) EnsureInitialized() {
	if p.initialized.Load() {
		return
	}
	p.initOnce.Do(p.init)
}

func (p *Plugin) init() {
	if p.closed.Load() {
		return
	}
	codes := p.cfg.Codes
	if p.cfg.TokenSupport && p.tokens != nil {
		p.logf("loading token support...")
		if !p.tokens() {
			p.logf("loading token support failed")
		}
	}

	// The provider must be initialized before anything else touches it.
	p.logf("initiating native CSP...")
	if err := codes.Check("init", p.engine.Init(p.cfg.DataDir)); err != nil {
		p.logf("initiating native CSP: %v", err)
	}
	p.logf("installing CSP licenses...")
	if err := codes.Check("installLicense", p.engine.InstallLicense(p.cfg.OCSPLicense, p.cfg.TSPLicense)); err != nil {
		p.logf("CSP licenses not set: %v", err)
	}

	// Close may have run while the engine was initializing.
	if p.closed.Load() {
		p.logf("closed during initialization")
		return
	}
	go p.runReader()
	p.logf("initiating main message circle...")
	go p.serve()
	p.initialized.Store(true)
}

func (p *Plugin) runReader() {
	defer close(p.readerDone)
	defer func() {
		if e := recover(); e != nil {
			p.logf("panic in reader %s: %s", e, debug.Stack())
			panic(e)
		}
	}()
	p.reader.Run(p.ctx)
}

func (p *Plugin) serve() {
	defer func() {
		if e := recover(); e != nil {
			p.logf("panic in main message circle %s: %s", e, debug.Stack())
			panic(e)
		}
	}()
	status := p.engine.Serve(p.cfg.DataDir)
	if err := p.cfg.Codes.Check("main message circle", status); err != nil && p.ctx.Err() == nil {
		p.logf("%v", err)
	}
}

// ReaderDone is closed when the reader goroutine has exited. It is never
// closed if the plug-in was not initialized.
func (p *Plugin) ReaderDone() <-chan struct{} { return p.readerDone }

// Close stops the reader and releases the engine's message FIFOs. A read
// that is blocked in the engine ends when the engine returns. After Close,
// EnsureInitialized does nothing.
func (p *Plugin) Close() error {
	if !p.closed.CompareAndSwap(false, true) {
		return nil
	}
	p.cancel()
	if status := p.engine.Close(); !p.cfg.Codes.OK(status) {
		p.logf("close: status %s", native.FormatStatus(status))
	}
	return nil
}
