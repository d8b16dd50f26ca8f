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

package tlsutil

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"os"
)

var (
	ErrCertNotFound      = errors.New("certificate file not found")
	ErrKeyNotFound       = errors.New("key file not found")
	ErrCANotFound        = errors.New("CA file not found")
	ErrInvalidClientAuth = errors.New("invalid clientAuth value")
	ErrIncompleteKeypair = errors.New("certPath and keyPath must be set together")
	ErrLoadCertFailed    = errors.New("failed to load certificate")
	ErrLoadCAFailed      = errors.New("failed to load CA file")
	ErrParseCAFailed     = errors.New("failed to parse CA certificate")
)

// Config describes one side of a TLS connection.
type Config struct {
	Enabled bool `json:"enabled"`
	// ClientAuth is the server's client certificate policy: "none", "request"
	// or "require". Clients ignore it.
	ClientAuth string `json:"clientAuth,omitempty"`
	CertPath   string `json:"certPath,omitempty"`
	KeyPath    string `json:"keyPath,omitempty"`
	// CAPath verifies the peer: client certificates on a server, the server
	// certificate on a client. Clients fall back to the system pool.
	CAPath string `json:"caPath,omitempty"`
	// ServerName overrides the name a client verifies. Servers ignore it.
	ServerName string `json:"serverName,omitempty"`
}

// BuildServerTLSConfig returns nil, nil when TLS is disabled. The CA is only
// required when clients must present a certificate.
func BuildServerTLSConfig(config *Config) (*tls.Config, error) {
	if config == nil || !config.Enabled {
		return nil, nil
	}

	clientAuth, err := parseClientAuth(config.ClientAuth)
	if err != nil {
		return nil, err
	}

	cert, err := loadKeypair(config.CertPath, config.KeyPath)
	if err != nil {
		return nil, err
	}

	tlsConfig := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		ClientAuth:   clientAuth,
	}

	if clientAuth != tls.NoClientCert {
		if tlsConfig.ClientCAs, err = loadPool(config.CAPath); err != nil {
			return nil, err
		}
	}

	return tlsConfig, nil
}

// BuildClientTLSConfig returns nil, nil when TLS is disabled. The client
// certificate is optional; without one the connection is server-authenticated
// only.
func BuildClientTLSConfig(config *Config) (*tls.Config, error) {
	if config == nil || !config.Enabled {
		return nil, nil
	}

	tlsConfig := &tls.Config{
		MinVersion: tls.VersionTLS12,
		ServerName: config.ServerName,
	}

	switch {
	case config.CertPath == "" && config.KeyPath == "":
	case config.CertPath == "" || config.KeyPath == "":
		return nil, ErrIncompleteKeypair
	default:
		cert, err := loadKeypair(config.CertPath, config.KeyPath)
		if err != nil {
			return nil, err
		}

		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	if config.CAPath != "" {
		pool, err := loadPool(config.CAPath)
		if err != nil {
			return nil, err
		}

		tlsConfig.RootCAs = pool
	}

	return tlsConfig, nil
}

func loadKeypair(certPath, keyPath string) (tls.Certificate, error) {
	if _, err := os.Stat(certPath); os.IsNotExist(err) {
		return tls.Certificate{}, fmt.Errorf("%w: %s", ErrCertNotFound, certPath)
	}

	if _, err := os.Stat(keyPath); os.IsNotExist(err) {
		return tls.Certificate{}, fmt.Errorf("%w: %s", ErrKeyNotFound, keyPath)
	}

	cert, err := tls.LoadX509KeyPair(certPath, keyPath)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("%w: %w", ErrLoadCertFailed, err)
	}

	return cert, nil
}

func loadPool(caPath string) (*x509.CertPool, error) {
	caBytes, err := os.ReadFile(caPath)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrCANotFound, caPath)
	} else if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadCAFailed, err)
	}

	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(caBytes) {
		return nil, fmt.Errorf("%w: %s", ErrParseCAFailed, caPath)
	}

	return pool, nil
}

func parseClientAuth(clientAuth string) (tls.ClientAuthType, error) {
	switch clientAuth {
	case "", "none":
		return tls.NoClientCert, nil
	case "request":
		return tls.RequestClientCert, nil
	case "require":
		return tls.RequireAndVerifyClientCert, nil
	default:
		return 0, fmt.Errorf("%w: %q (valid values: none, request, require)", ErrInvalidClientAuth, clientAuth)
	}
}
