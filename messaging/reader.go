// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package messaging

import (
	"context"
	"errors"
	"runtime/debug"
	"sync/atomic"
	"time"

	"github.com/nmcades/cades-android/native"
	"tailscale.com/types/logger"
)

// emptyReadBackoff is how long the reader waits after the engine returned
// no message, so that a closed or degraded engine does not spin a core.
const emptyReadBackoff = 100 * time.Millisecond

// Reader forwards every message the engine produces to the active port of
// a Registry. Messages that arrive while no port is registered are dropped.
type Reader struct {
	logf   logger.Logf
	engine native.Engine
	reg    *Registry

	delivered atomic.Int64
	dropped   atomic.Int64
	failed    atomic.Int64
}

// Stats counts what a Reader did with the messages it read.
type Stats struct {
	Delivered int64 // posted to a port
	Dropped   int64 // no port was registered
	Failed    int64 // the port returned an error or panicked
}

// NewReader returns a Reader that reads from engine and delivers to reg.
func NewReader(logf logger.Logf, engine native.Engine, reg *Registry) *Reader {
	return &Reader{
		logf:   logger.WithPrefix(logf, "cades-reader: "),
		engine: engine,
		reg:    reg,
	}
}

// Run reads messages until ctx is done. A read in progress is not
// interrupted: Run returns after the engine's Read returns.
func (r *Reader) Run(ctx context.Context) {
	r.logf("started")
	defer r.logf("stopped")
	for ctx.Err() == nil {
		msg, ok := r.engine.Read()
		if ctx.Err() != nil {
			return
		}
		if !ok {
			select {
			case <-ctx.Done():
				return
			case <-time.After(emptyReadBackoff):
			}
			continue
		}
		r.deliver(msg)
	}
}

func (r *Reader) deliver(msg string) {
	defer func() {
		if p := recover(); p != nil {
			r.failed.Add(1)
			r.logf("panic delivering message: %v\n%s", p, debug.Stack())
		}
	}()
	port, err := r.reg.Deliver(msg)
	switch {
	case errors.Is(err, ErrNoPort):
		r.dropped.Add(1)
	case err != nil:
		r.failed.Add(1)
		r.logf("PostMessage to %q (session %q): %v", port.Name(), port.SessionID(), err)
	default:
		r.delivered.Add(1)
	}
}

// Stats returns the reader's counters.
func (r *Reader) Stats() Stats {
	return Stats{
		Delivered: r.delivered.Load(),
		Dropped:   r.dropped.Load(),
		Failed:    r.failed.Load(),
	}
}
