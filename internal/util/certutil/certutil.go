/*
Copyright 2024 Alexandre Mahdhaoui

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

// Package certutil issues short-lived certificates from an in-memory CA. It is
// meant for tests and local setups.
package certutil

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"errors"
	"math/big"
	"net"
	"os"
	"path/filepath"
	"time"
)

var (
	ErrCreateCA   = errors.New("creating certificate authority")
	ErrIssue      = errors.New("issuing certificate")
	ErrWriteFiles = errors.New("writing certificate files")
)

const organization = "vmagent (not for production use)"

// ------------------------------------------------------- CA ------------------------------------------------------- //

type CA struct {
	key  *ecdsa.PrivateKey
	pool *x509.CertPool
	root *x509.Certificate
}

func NewCA() (*CA, error) {
	serial, err := newSerial()
	if err != nil {
		return nil, errors.Join(err, ErrCreateCA)
	}

	template := &x509.Certificate{
		Subject:               pkix.Name{Organization: []string{organization}, CommonName: "vmagent test CA"},
		SerialNumber:          serial,
		NotBefore:             time.Now().Add(-1 * time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		IsCA:                  true,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign | x509.KeyUsageCRLSign,
		BasicConstraintsValid: true,
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, errors.Join(err, ErrCreateCA)
	}

	raw, err := x509.CreateCertificate(rand.Reader, template, template, key.Public(), key)
	if err != nil {
		return nil, errors.Join(err, ErrCreateCA)
	}

	root, err := x509.ParseCertificate(raw)
	if err != nil {
		return nil, errors.Join(err, ErrCreateCA)
	}

	pool := x509.NewCertPool()
	pool.AddCert(root)

	return &CA{key: key, pool: pool, root: root}, nil
}

func (ca *CA) Pool() *x509.CertPool {
	return ca.pool
}

// Cert returns the root certificate, PEM encoded.
func (ca *CA) Cert() []byte {
	return certToPEM(ca.root)
}

// ------------------------------------------------ CertifiedKeypair ------------------------------------------------ //

// NewCertifiedKey issues a certificate valid for client and server auth. Each
// host is added as an IP SAN when it parses as an IP, and as a DNS SAN
// otherwise.
func (ca *CA) NewCertifiedKey(hosts ...string) (*ecdsa.PrivateKey, *x509.Certificate, error) {
	serial, err := newSerial()
	if err != nil {
		return nil, nil, errors.Join(err, ErrIssue)
	}

	template := &x509.Certificate{
		Subject:      pkix.Name{Organization: []string{organization}},
		SerialNumber: serial,
		NotBefore:    time.Now().Add(-1 * time.Hour),
		NotAfter:     time.Now().Add(24 * time.Hour),
		ExtKeyUsage:  []x509.ExtKeyUsage{x509.ExtKeyUsageClientAuth, x509.ExtKeyUsageServerAuth},
		KeyUsage:     x509.KeyUsageDigitalSignature,
	}

	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			template.IPAddresses = append(template.IPAddresses, ip)
		} else {
			template.DNSNames = append(template.DNSNames, h)
		}
	}

	if len(hosts) > 0 {
		template.Subject.CommonName = hosts[0]
	}

	key, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return nil, nil, errors.Join(err, ErrIssue)
	}

	raw, err := x509.CreateCertificate(rand.Reader, template, ca.root, key.Public(), ca.key)
	if err != nil {
		return nil, nil, errors.Join(err, ErrIssue)
	}

	cert, err := x509.ParseCertificate(raw)
	if err != nil {
		return nil, nil, errors.Join(err, ErrIssue)
	}

	return key, cert, nil
}

// NewCertifiedKeyPEM is NewCertifiedKey with PEM encoded output.
func (ca *CA) NewCertifiedKeyPEM(hosts ...string) (key []byte, cert []byte, err error) {
	k, c, err := ca.NewCertifiedKey(hosts...)
	if err != nil {
		return nil, nil, err
	}

	der, err := x509.MarshalPKCS8PrivateKey(k)
	if err != nil {
		return nil, nil, errors.Join(err, ErrIssue)
	}

	return pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}), certToPEM(c), nil
}

// Files are the paths written by WriteFiles.
type Files struct {
	CA   string
	Cert string
	Key  string
}

// WriteFiles issues a keypair for hosts and writes it to dir, next to the CA
// certificate, as <name>.crt, <name>.key and ca.crt.
func (ca *CA) WriteFiles(dir, name string, hosts ...string) (Files, error) {
	keyPEM, certPEM, err := ca.NewCertifiedKeyPEM(hosts...)
	if err != nil {
		return Files{}, err
	}

	files := Files{
		CA:   filepath.Join(dir, "ca.crt"),
		Cert: filepath.Join(dir, name+".crt"),
		Key:  filepath.Join(dir, name+".key"),
	}

	for path, content := range map[string][]byte{files.CA: ca.Cert(), files.Cert: certPEM} {
		if err := os.WriteFile(path, content, 0o644); err != nil {
			return Files{}, errors.Join(err, ErrWriteFiles)
		}
	}

	if err := os.WriteFile(files.Key, keyPEM, 0o600); err != nil {
		return Files{}, errors.Join(err, ErrWriteFiles)
	}

	return files, nil
}

func certToPEM(cert *x509.Certificate) []byte {
	return pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: cert.Raw})
}

func newSerial() (*big.Int, error) {
	return rand.Int(rand.Reader, new(big.Int).Lsh(big.NewInt(1), 127))
}
