// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build !android || !cgo

package native

// Open reports ErrUnsupported: the wrapper library only ships for Android.
func Open(initCSP func(path string) int32) (Engine, error) {
	return nil, ErrUnsupported
}
