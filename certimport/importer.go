// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Package certimport installs certificates, PKCS#12 containers, licenses
// and CRLs delivered by QR code into the native engine.
package certimport

import (
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/nmcades/cades-android/native"
	"tailscale.com/types/logger"
)

var (
	// ErrUnknownTarget means the scanned resource is not something the
	// plug-in can install.
	ErrUnknownTarget = errors.New("unrecognized import resource")
	// ErrPasswordCancelled means the user dismissed the PFX password prompt.
	ErrPasswordCancelled = errors.New("pfx password entry cancelled")
	// ErrAlreadyResolved is returned when a PasswordRequest is used twice.
	ErrAlreadyResolved = errors.New("password request already resolved")
)

// InstallError is a failed engine install call.
type InstallError struct {
	Target Target
	Status int32
}

func (e *InstallError) Error() string {
	return fmt.Sprintf("installing %v failed with status %s", e.Target, native.FormatStatus(e.Status))
}

// FetchError is a failure to retrieve a content:// or file:// resource.
type FetchError struct {
	Location string
	Err      error
}

func (e *FetchError) Error() string { return e.Err.Error() }
func (e *FetchError) Unwrap() error { return e.Err }

// Fetcher reads the bytes behind a content:// or file:// URI.
type Fetcher interface {
	Fetch(uri string) ([]byte, error)
}

// Config holds the deployment specific parts of an Importer.
type Config struct {
	Codes    native.Codes
	Decoding Decoding
}

// Importer drives scanned resources into the engine.
type Importer struct {
	logf     logger.Logf
	engine   native.Engine
	codes    native.Codes
	decoding Decoding
	loc      Localizer
	fetch    Fetcher

	lastID atomic.Int64
}

// New returns an Importer. loc and fetch may be nil: without a Localizer
// messages are resource keys, without a Fetcher content:// and file://
// URIs fail.
func New(logf logger.Logf, engine native.Engine, loc Localizer, fetch Fetcher, cfg Config) *Importer {
	return &Importer{
		logf:     logger.WithPrefix(logf, "cades-import: "),
		engine:   engine,
		codes:    cfg.Codes,
		decoding: cfg.Decoding,
		loc:      loc,
		fetch:    fetch,
	}
}

// Result is where an import stopped: a terminal state with its Notice, or
// StateNeedsPassword with a Password handle to continue it.
type Result struct {
	State  State
	Target Target
	// Status is the last engine status, if an install call was made.
	Status int32
	Notice Notice
	// Err explains StateFailed.
	Err error
	// Password is set in StateNeedsPassword.
	Password *PasswordRequest
	// Path lists the states the import went through.
	Path []State
}

// flow is one import in progress.
type flow struct {
	im     *Importer
	id     int64
	target Target
	path   []State
}

func (f *flow) enter(s State) {
	f.path = append(f.path, s)
	f.im.logf("[%d] %v", f.id, s)
}

func (f *flow) result(s State) Result {
	f.enter(s)
	return Result{State: s, Target: f.target, Path: append([]State(nil), f.path...)}
}

func (f *flow) fail(n Notice, err error) Result {
	res := f.result(StateFailed)
	res.Notice = n
	res.Err = err
	f.im.logf("[%d] %v: %v", f.id, f.target, err)
	return res
}

// Import runs the import of uri up to a terminal state or up to the point
// where a PFX password is needed.
func (im *Importer) Import(uri string) Result {
	f := &flow{im: im, id: im.lastID.Add(1)}
	f.enter(StateScanned)
	f.enter(StateDecoding)

	res, err := ParseURI(uri)
	if err != nil {
		return f.fail(Notice{Message: im.text(KeyInvalidFormat), IsError: true}, fmt.Errorf("%w: %v", ErrUnknownTarget, err))
	}
	content, target, err := im.load(res)
	f.target = target
	var fe *FetchError
	switch {
	case errors.As(err, &fe):
		return f.fail(im.errorNotice(fe), err)
	case err != nil:
		return f.fail(Notice{Message: im.text(KeyInvalidFormat), IsError: true}, err)
	}
	return im.install(f, content)
}

// load returns the content and target of res.
func (im *Importer) load(res *Resource) ([]byte, Target, error) {
	target := res.Target()
	if !res.Fetched() {
		if target == TargetUnknown {
			return nil, target, fmt.Errorf("%w: scheme %q kind %q", ErrUnknownTarget, res.Scheme, res.Kind)
		}
		content, err := im.decoding.Decode(res.Params["data"])
		if err != nil {
			return nil, target, fmt.Errorf("%v data: %w", target, err)
		}
		return content, target, nil
	}

	if im.fetch == nil {
		return nil, target, &FetchError{Location: res.Location, Err: errors.New("no content resolver")}
	}
	raw, err := im.fetch.Fetch(res.Location)
	if err != nil {
		return nil, target, &FetchError{Location: res.Location, Err: err}
	}
	// License files are text and are installed as such.
	if target == TargetLicense {
		return raw, target, nil
	}
	// The content decides what a certificate file is; a .crt may hold a
	// CA-issued certificate or a CRL. The extension is only a fallback.
	content := unwrapPEM(raw)
	if sniffed := sniff(content); sniffed != TargetUnknown {
		target = sniffed
	}
	if target == TargetUnknown {
		return nil, target, fmt.Errorf("%w: content of %s", ErrUnknownTarget, res.Scheme)
	}
	return content, target, nil
}

func (im *Importer) install(f *flow, content []byte) Result {
	f.enter(StateInstalling)
	switch f.target {
	case TargetRootCertificate:
		status := im.engine.InstallRootCert(base64.StdEncoding.EncodeToString(content))
		return im.finish(f, status)
	case TargetPFX:
		return im.installPfx(f, base64.StdEncoding.EncodeToString(content), "")
	case TargetLicense:
		status := im.engine.InstallLicenseCSP(string(content), "", "")
		return im.finish(f, status)
	case TargetCRL, TargetIntermediateCertificate:
		// Accepted, but the engine has no call for these yet.
		res := f.result(StateSuccess)
		res.Notice = Notice{Message: im.text(KeyNotSupported)}
		return res
	}
	return f.fail(Notice{Message: im.text(KeyInvalidFormat), IsError: true}, ErrUnknownTarget)
}

func (im *Importer) installPfx(f *flow, data, password string) Result {
	status := im.engine.InstallPfx(data, password)
	if status == im.codes.PasswordRequired {
		res := f.result(StateNeedsPassword)
		res.Status = status
		res.Password = &PasswordRequest{flow: f, data: data}
		return res
	}
	return im.finish(f, status)
}

func (im *Importer) finish(f *flow, status int32) Result {
	n := im.installNotice(f.target, status)
	if !im.codes.OK(status) {
		res := f.fail(n, &InstallError{Target: f.target, Status: status})
		res.Status = status
		return res
	}
	res := f.result(StateSuccess)
	res.Status = status
	res.Notice = n
	return res
}

// PasswordRequest resumes a PFX import that needs a password. Exactly one
// of Submit or Cancel may be called.
type PasswordRequest struct {
	flow *flow
	data string

	mu   sync.Mutex
	done bool
}

// Data returns the base64 container the password is for.
func (r *PasswordRequest) Data() string {
	return r.data
}

func (r *PasswordRequest) resolve() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return ErrAlreadyResolved
	}
	r.done = true
	return nil
}

// Submit retries the install with password. The result may ask for a
// password again.
func (r *PasswordRequest) Submit(password string) (Result, error) {
	if err := r.resolve(); err != nil {
		return Result{}, err
	}
	f := r.flow
	f.enter(StatePromptingUser)
	f.enter(StateInstalling)
	return f.im.installPfx(f, r.data, password), nil
}

// Cancel ends the import as failed.
func (r *PasswordRequest) Cancel() (Result, error) {
	return r.abort(KeyPasswordCancelled, ErrPasswordCancelled)
}

// abort ends the import as failed with the notice text of key.
func (r *PasswordRequest) abort(key string, err error) (Result, error) {
	if err := r.resolve(); err != nil {
		return Result{}, err
	}
	f := r.flow
	f.enter(StatePromptingUser)
	return f.fail(Notice{Message: f.im.text(key), IsError: true}, err), nil
}
