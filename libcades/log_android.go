// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// Gratefully borrowed from Gio UI https://gioui.org/ under MIT license

//go:build android && cgo

package libcades

/*
#cgo LDFLAGS: -llog

#include <stdlib.h>
#include <android/log.h>
*/
import "C"

import (
	"bufio"
	"log"
	"os"
	"runtime"
	"runtime/debug"
	"unsafe"

	"golang.org/x/sys/unix"
)

// logFd sends every line written to fd to logcat under tag, at error
// priority if isErr is set.
func logFd(fd uintptr, tag string, isErr bool) {
	cTag := C.CString(tag) // lives as long as the process
	prio := C.int(C.ANDROID_LOG_INFO)
	if isErr {
		prio = C.int(C.ANDROID_LOG_ERROR)
	}

	r, w, err := os.Pipe()
	if err != nil {
		panic(err)
	}
	if err := unix.Dup3(int(w.Fd()), int(fd), unix.O_CLOEXEC); err != nil {
		panic(err)
	}
	go func() {
		defer func() {
			if p := recover(); p != nil {
				log.Printf("panic in logFd %s: %s", p, debug.Stack())
				panic(p)
			}
		}()

		lineBuf := bufio.NewReaderSize(r, logLineLimit)
		// The buffer to pass to C, including the terminating '\0'.
		buf := make([]byte, lineBuf.Size()+1)
		cbuf := (*C.char)(unsafe.Pointer(&buf[0]))
		for {
			line, _, err := lineBuf.ReadLine()
			if err != nil {
				break
			}
			copy(buf, line)
			buf[len(line)] = 0
			C.__android_log_write(prio, cTag, cbuf)
		}
		// w's fd was dup'ed behind the garbage collector's back.
		runtime.KeepAlive(w)
	}()
}
