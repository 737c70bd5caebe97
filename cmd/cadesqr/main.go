// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

// The cadesqr command renders certificates, CRLs, PFX containers and CSP
// licenses as QR codes that the browser's scanner installs.
package main

import (
	"fmt"
	"os"
)

var version = "dev"

func main() {
	rootCmd.Version = version
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
