// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package certimport

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
)

// Prompt is handed to the UI when a PFX container needs a password. The
// UI answers with Submit or Cancel, once, from any goroutine; the import
// then continues on its own goroutine.
type Prompt struct {
	data    string
	attempt int

	once   sync.Once
	answer chan promptAnswer
}

type promptAnswer struct {
	password  string
	cancelled bool
}

func newPrompt(data string, attempt int) *Prompt {
	return &Prompt{data: data, attempt: attempt, answer: make(chan promptAnswer, 1)}
}

// Data returns the base64 container being installed.
func (p *Prompt) Data() string { return p.data }

// Attempt is 1 for the first prompt of an import, 2 after one wrong
// password, and so on.
func (p *Prompt) Attempt() int { return p.attempt }

// Submit answers the prompt with password. It reports false if the prompt
// was already answered.
func (p *Prompt) Submit(password string) bool {
	return p.reply(promptAnswer{password: password})
}

// Cancel answers the prompt with a cancellation. It reports false if the
// prompt was already answered.
func (p *Prompt) Cancel() bool {
	return p.reply(promptAnswer{cancelled: true})
}

func (p *Prompt) reply(a promptAnswer) bool {
	sent := false
	p.once.Do(func() {
		p.answer <- a
		sent = true
	})
	return sent
}

// Run imports uri, asking prompt for a password each time a PFX container
// needs one, and returns the terminal Result. A nil prompt cancels
// password entry. If ctx is done while waiting for an answer, the import
// fails with ctx.Err().
func (im *Importer) Run(ctx context.Context, uri string, prompt func(*Prompt)) Result {
	res := im.Import(uri)
	for attempt := 1; res.State == StateNeedsPassword; attempt++ {
		req := res.Password
		var err error
		if prompt == nil {
			res, err = req.Cancel()
		} else {
			p := newPrompt(req.Data(), attempt)
			prompt(p)
			select {
			case a := <-p.answer:
				if a.cancelled {
					res, err = req.Cancel()
				} else {
					res, err = req.Submit(a.password)
				}
			case <-ctx.Done():
				// Nobody cancelled; the plug-in is going away.
				res, err = req.abort(KeyInstallationFailed, ctx.Err())
			}
		}
		if err != nil {
			// Only this loop resolves req.
			panic(fmt.Sprintf("certimport: %v", err))
		}
	}
	return res
}

// Start runs the import of uri on a new goroutine and reports its outcome
// to notify exactly once. prompt is called on that goroutine and must hand
// the Prompt over to the UI without blocking on the user.
func (im *Importer) Start(ctx context.Context, uri string, notify func(Notice), prompt func(*Prompt)) {
	go func() {
		var n Notice
		defer func() {
			if p := recover(); p != nil {
				im.logf("panic in import %s: %s", p, debug.Stack())
				n = Notice{Message: im.text(KeyInvalidFormat), IsError: true}
			}
			if notify != nil {
				notify(n)
			}
		}()
		n = im.Run(ctx, uri, prompt).Notice
	}()
}
