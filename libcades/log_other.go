// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build !android || !cgo

package libcades

// logFd leaves fd alone; outside Android there is no logcat to feed.
func logFd(fd uintptr, tag string, isErr bool) {}
