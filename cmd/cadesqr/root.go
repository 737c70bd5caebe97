// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"github.com/spf13/cobra"
)

var encoding string

var rootCmd = &cobra.Command{
	Use:   "cadesqr",
	Short: "Provision CryptoPro objects over QR codes",
	Long:  "Build import URIs for root and intermediate certificates, CRLs, PFX containers and CSP licenses, and render them as QR codes.",
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&encoding, "encoding", "e", "base64", "Payload encoding: base64, raw, base32+base64")

	rootCmd.AddCommand(encodeCmd)
}
