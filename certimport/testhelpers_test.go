// Copyright (c) CAdES Plug-in AUTHORS
// SPDX-License-Identifier: BSD-3-Clause

package certimport

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"math/big"
	"testing"
	"time"

	"github.com/nmcades/cades-android/native"
	"github.com/nmcades/cades-android/native/nativetest"
	"software.sslmate.com/src/go-pkcs12"
)

func newTestImporter(t *testing.T, e *nativetest.Engine, loc Localizer, fetch Fetcher) *Importer {
	t.Helper()
	return New(t.Logf, e, loc, fetch, Config{Codes: native.DefaultCodes, Decoding: DecodingBase64})
}

type mapLocalizer map[string]string

func (m mapLocalizer) GetString(key string) string { return m[key] }

type fetchFunc func(uri string) ([]byte, error)

func (f fetchFunc) Fetch(uri string) ([]byte, error) { return f(uri) }

type testPKI struct {
	rootKey *ecdsa.PrivateKey
	root    *x509.Certificate
	leafKey *ecdsa.PrivateKey
	leaf    *x509.Certificate
}

func newTestPKI(t *testing.T) *testPKI {
	t.Helper()
	rootKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	rootTmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "Test Root CA"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
	}
	rootDER, err := x509.CreateCertificate(rand.Reader, rootTmpl, rootTmpl, &rootKey.PublicKey, rootKey)
	if err != nil {
		t.Fatal(err)
	}
	root, err := x509.ParseCertificate(rootDER)
	if err != nil {
		t.Fatal(err)
	}

	leafKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatal(err)
	}
	leafTmpl := &x509.Certificate{
		SerialNumber: big.NewInt(2),
		Subject:      pkix.Name{CommonName: "Test Signer"},
		NotBefore:    time.Now().Add(-time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}
	leafDER, err := x509.CreateCertificate(rand.Reader, leafTmpl, root, &leafKey.PublicKey, rootKey)
	if err != nil {
		t.Fatal(err)
	}
	leaf, err := x509.ParseCertificate(leafDER)
	if err != nil {
		t.Fatal(err)
	}
	return &testPKI{rootKey: rootKey, root: root, leafKey: leafKey, leaf: leaf}
}

func (p *testPKI) crl(t *testing.T) []byte {
	t.Helper()
	der, err := x509.CreateRevocationList(rand.Reader, &x509.RevocationList{
		Number:     big.NewInt(1),
		ThisUpdate: time.Now().Add(-time.Hour),
		NextUpdate: time.Now().Add(time.Hour),
	}, p.root, p.rootKey)
	if err != nil {
		t.Fatal(err)
	}
	return der
}

func (p *testPKI) pfx(t *testing.T, password string) []byte {
	t.Helper()
	der, err := pkcs12.Modern.Encode(p.leafKey, p.leaf, []*x509.Certificate{p.root}, password)
	if err != nil {
		t.Fatal(err)
	}
	return der
}
