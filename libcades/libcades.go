// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package libcades is the plug-in as bound into the browser with gomobile.
package libcades

import (
	"fmt"
	"log"
	"runtime/debug"
	"sync"

	"github.com/nmcades/cades-android/certimport"
	"github.com/nmcades/cades-android/messaging"
	"github.com/nmcades/cades-android/native"
	"github.com/nmcades/cades-android/plugin"
)

const (
	// QRRequestCode is the activity request code of the QR scanner.
	QRRequestCode = 111123

	// resultOK is Android's Activity.RESULT_OK.
	resultOK = -1
)

var running struct {
	mu  sync.Mutex
	app *App
}

// App is the Application.
type App struct {
	appCtx AppContext
	ui     UI

	plugin   *plugin.Plugin
	handler  *messaging.Handler
	importer *certimport.Importer
}

func start(dataDir string, appCtx AppContext, ui UI) (_ Application, err error) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("panic in Start %s: %s", p, debug.Stack())
			panic(p)
		}
	}()

	running.mu.Lock()
	defer running.mu.Unlock()
	if running.app != nil {
		return running.app, nil
	}

	initLogging(appCtx)
	cfg := plugin.DefaultConfig(dataDir)
	cfg.ApplyEnv(log.Printf)
	engine, err := native.Open(func(string) int32 { return appCtx.InitNativeCSP() })
	if err != nil {
		return nil, fmt.Errorf("opening native library: %w", err)
	}
	running.app = newApp(engine, cfg, appCtx, ui)
	return running.app, nil
}

func newApp(engine native.Engine, cfg plugin.Config, appCtx AppContext, ui UI) *App {
	a := &App{
		appCtx: appCtx,
		ui:     ui,
	}
	a.plugin = plugin.New(log.Printf, engine, cfg, appCtx.LoadTokenSupport)
	a.handler = messaging.NewHandler(log.Printf, a.plugin.Registry(), engine, cfg.Codes, ui.LaunchQR)
	a.importer = certimport.New(log.Printf, engine, localizer{appCtx}, fetcher{appCtx}, certimport.Config{
		Codes:    cfg.Codes,
		Decoding: cfg.Decoding,
	})
	return a
}

func (a *App) Initialize() {
	a.plugin.EnsureInitialized()
}

func (a *App) Extension() *Extension {
	ext := a.plugin.Config().Extension
	return &Extension{
		ID:           ext.ID,
		URL:          ext.URL,
		MessagingID:  ext.MessagingID,
		BackgroundID: ext.BackgroundID,
	}
}

func (a *App) OnPortConnected(port Port) {
	// The reader has to be running before anything can reach the port.
	a.plugin.EnsureInitialized()
	a.handler.OnPortConnected(port)
}

func (a *App) OnPortMessage(msg string, port Port) {
	a.handler.OnPortMessage(msg, port)
}

func (a *App) OnPortDisconnected(port Port) {
	a.handler.OnPortDisconnected(port)
}

func (a *App) OnActivityResult(requestCode, resultCode int32, uri string) bool {
	if requestCode != QRRequestCode {
		return false
	}
	if resultCode == resultOK && uri != "" {
		a.ImportQR(uri)
	}
	return true
}

func (a *App) ImportQR(uri string) {
	a.importer.Start(a.plugin.Context(), uri,
		func(n certimport.Notice) {
			a.ui.ShowNotice(n.Message, n.IsError)
		},
		func(p *certimport.Prompt) {
			a.ui.PromptPfxPassword(&PasswordRequest{p: p})
		})
}

func (a *App) Close() {
	if err := a.plugin.Close(); err != nil {
		log.Printf("close: %v", err)
	}
}

// PasswordRequest is a pending PFX password prompt.
type PasswordRequest struct {
	p *certimport.Prompt
}

// Data returns the base64 container the password is for.
func (r *PasswordRequest) Data() string { return r.p.Data() }

// Attempt is 1 for the first prompt of an import and grows with every
// wrong password.
func (r *PasswordRequest) Attempt() int32 { return int32(r.p.Attempt()) }

// Submit continues the import with password. It reports false if the
// request was already answered.
func (r *PasswordRequest) Submit(password string) bool { return r.p.Submit(password) }

// Cancel ends the import. It reports false if the request was already
// answered.
func (r *PasswordRequest) Cancel() bool { return r.p.Cancel() }

type localizer struct{ appCtx AppContext }

func (l localizer) GetString(key string) string { return l.appCtx.GetString(key) }

type fetcher struct{ appCtx AppContext }

func (f fetcher) Fetch(uri string) ([]byte, error) { return f.appCtx.ReadContent(uri) }
