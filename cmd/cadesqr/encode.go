// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/nmcades/cades-android/certimport"
	"github.com/skip2/go-qrcode"
	"github.com/spf13/cobra"
)

var (
	encodeType     string
	encodeOutPath  string
	encodeSize     int
	encodeRecovery string
	encodePrint    bool
)

var encodeCmd = &cobra.Command{
	Use:   "encode <file>",
	Short: "Render a file as an import QR code",
	Long: `Render a certificate, CRL, PFX container or license file as a QR code.

Certificates, CRLs and PFX containers are detected from their content (DER
or PEM). Licenses hold the serial number as text and need --type license.`,
	Example: `  cadesqr encode root.cer -o root.png
  cadesqr encode signer.pfx --recovery low -o signer.png
  cadesqr encode csp.lic --type license --print`,
	Args: cobra.ExactArgs(1),
	RunE: runEncode,
}

func init() {
	encodeCmd.Flags().StringVarP(&encodeType, "type", "t", "auto", "Object type: auto, root, intermediate, crl, pfx, license")
	encodeCmd.Flags().StringVarP(&encodeOutPath, "out", "o", "import.png", "Output PNG path")
	encodeCmd.Flags().IntVarP(&encodeSize, "size", "s", 512, "Image width and height in pixels")
	encodeCmd.Flags().StringVar(&encodeRecovery, "recovery", "medium", "Error recovery level: low, medium, high, highest")
	encodeCmd.Flags().BoolVar(&encodePrint, "print", false, "Print the URI instead of writing a PNG")
}

func runEncode(cmd *cobra.Command, args []string) error {
	content, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	uri, target, err := buildURI(content, encodeType, encoding)
	if err != nil {
		return err
	}
	if encodePrint {
		fmt.Fprintln(cmd.OutOrStdout(), uri)
		return nil
	}
	level, err := parseRecovery(encodeRecovery)
	if err != nil {
		return err
	}
	if err := qrcode.WriteFile(uri, level, encodeSize, encodeOutPath); err != nil {
		return fmt.Errorf("rendering %s QR code: %w", target, err)
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s (%d bytes of URI)\n", target, encodeOutPath, len(uri))
	return nil
}

var targetNames = map[string]certimport.Target{
	"root":         certimport.TargetRootCertificate,
	"intermediate": certimport.TargetIntermediateCertificate,
	"crl":          certimport.TargetCRL,
	"pfx":          certimport.TargetPFX,
	"license":      certimport.TargetLicense,
}

// buildURI returns the import URI carrying content.
func buildURI(content []byte, typ, enc string) (string, certimport.Target, error) {
	d, err := certimport.ParseDecoding(enc)
	if err != nil {
		return "", certimport.TargetUnknown, err
	}

	var target certimport.Target
	switch typ = strings.ToLower(typ); typ {
	case "", "auto":
		target = certimport.Detect(content)
		if target == certimport.TargetUnknown {
			return "", target, fmt.Errorf("cannot tell what the file holds; pass --type")
		}
	default:
		t, ok := targetNames[typ]
		if !ok {
			return "", certimport.TargetUnknown, fmt.Errorf("unknown type %q", typ)
		}
		target = t
	}
	if target == certimport.TargetLicense {
		content = bytes.TrimSpace(content)
	}

	payload, err := d.Encode(content)
	if err != nil {
		return "", target, err
	}
	uri, err := certimport.FormatURI(target, payload)
	if err != nil {
		return "", target, err
	}
	return uri, target, nil
}

func parseRecovery(s string) (qrcode.RecoveryLevel, error) {
	switch strings.ToLower(s) {
	case "low":
		return qrcode.Low, nil
	case "medium":
		return qrcode.Medium, nil
	case "high":
		return qrcode.High, nil
	case "highest":
		return qrcode.Highest, nil
	}
	return 0, fmt.Errorf("unknown recovery level %q", s)
}
