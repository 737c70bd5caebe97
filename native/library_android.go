// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

//go:build android && cgo

package native

/*
#cgo LDFLAGS: -lnmcades

#include <stdlib.h>

extern int main_wrapper(int pipe_in, int pipe_out);
extern const char* read_wrapper();
extern int write_wrapper(const char* request, int length);
extern int license_wrapper(const char* ocsp_lic, const char* tsp_lic);
extern int install_pfx_wrapper(const char* pfx, const char* password);
extern int install_root_cert_wrapper(const char* cert);
extern int license_csp_wrapper(const char* csp_lic, const char* user, const char* company);
extern const char* error_message_wrapper(int code);
*/
import "C"

import (
	"log"
	"unsafe"
)

// Open binds the vendor wrapper library linked into the application.
// Provider initialization lives on the Java side (JCSP), so it is
// supplied by the caller as initCSP; nil means there is nothing to do.
func Open(initCSP func(path string) int32) (Engine, error) {
	return &library{initCSP: initCSP}, nil
}

type library struct {
	initCSP func(path string) int32

	fifos fifoOwner
}

func (l *library) Init(path string) int32 {
	if l.initCSP == nil {
		return 0
	}
	return l.initCSP(path)
}

func (l *library) InstallLicense(ocsp, tsp string) int32 {
	cOCSP := C.CString(ocsp)
	defer C.free(unsafe.Pointer(cOCSP))
	cTSP := C.CString(tsp)
	defer C.free(unsafe.Pointer(cTSP))
	return int32(C.license_wrapper(cOCSP, cTSP))
}

func (l *library) Serve(path string) int32 {
	p, err := l.fifos.open(path)
	if err != nil {
		log.Printf("native: %v", err)
		return errnoStatus(err)
	}
	return int32(C.main_wrapper(C.int(p.in), C.int(p.out)))
}

func (l *library) Read() (string, bool) {
	res := C.read_wrapper()
	if res == nil {
		return "", false
	}
	return C.GoString(res), true
}

func (l *library) Write(msg string, flags int32) int32 {
	// The wrapper has no flags parameter; flags is accepted for the
	// boundary's sake only.
	cMsg := C.CString(msg)
	defer C.free(unsafe.Pointer(cMsg))
	return int32(C.write_wrapper(cMsg, C.int(len(msg))))
}

func (l *library) InstallPfx(base64Data, password string) int32 {
	cPfx := C.CString(base64Data)
	defer C.free(unsafe.Pointer(cPfx))
	cPassword := C.CString(password)
	defer C.free(unsafe.Pointer(cPassword))
	return int32(C.install_pfx_wrapper(cPfx, cPassword))
}

func (l *library) InstallRootCert(base64Cert string) int32 {
	cCert := C.CString(base64Cert)
	defer C.free(unsafe.Pointer(cCert))
	return int32(C.install_root_cert_wrapper(cCert))
}

func (l *library) InstallLicenseCSP(license, user, company string) int32 {
	cLicense := C.CString(license)
	defer C.free(unsafe.Pointer(cLicense))
	cUser := C.CString(user)
	defer C.free(unsafe.Pointer(cUser))
	cCompany := C.CString(company)
	defer C.free(unsafe.Pointer(cCompany))
	return int32(C.license_csp_wrapper(cLicense, cUser, cCompany))
}

func (l *library) ErrorMessage(status int32) string {
	res := C.error_message_wrapper(C.int(status))
	if res == nil {
		return ""
	}
	return C.GoString(res)
}

func (l *library) Close() int32 {
	if err := l.fifos.close(); err != nil {
		return errnoStatus(err)
	}
	return 0
}
