// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Gratefully borrowed from Gio UI https://gioui.org/ under MIT license

package libcades

import (
	"log"
	"os"
)

// 1024 is the truncation limit from android/log.h, plus a \n.
const logLineLimit = 1024

// logTag is the logcat tag of everything the plug-in logs.
const logTag = "CAdESPlugin"

func initLogging(appCtx AppContext) {
	// Android's logcat already includes timestamps.
	log.SetFlags(log.Flags() &^ log.LstdFlags)
	log.SetOutput(&androidLogWriter{
		appCtx: appCtx,
	})

	// Redirect stdout and stderr to the Android logger; the native
	// library prints its diagnostics there.
	logFd(os.Stdout.Fd(), streamTag("stdout"), false)
	logFd(os.Stderr.Fd(), streamTag("stderr"), true)
}

// streamTag is the logcat tag for output the native engine writes to
// stream, so it can be told apart from the plug-in's own log lines.
func streamTag(stream string) string {
	return logTag + "/" + stream
}

type androidLogWriter struct {
	appCtx AppContext
}

func (w *androidLogWriter) Write(data []byte) (int, error) {
	n := 0
	for len(data) > 0 {
		msg := data
		if len(msg) > logLineLimit {
			msg = msg[:logLineLimit]
		}
		w.appCtx.Log(logTag, string(msg))
		n += len(msg)
		data = data[len(msg):]
	}
	return n, nil
}
