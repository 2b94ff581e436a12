/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package identity loads the X.509 credential and private-key signer used
// for every outbound gateway call. Both are immutable once loaded and are
// held in memory for the life of the process.
package identity

import (
	"crypto/x509"
	"encoding/pem"
	"os"

	"github.com/pkg/errors"

	"github.com/hyperledger/fabric-asset-gateway/pkg/common/errors/status"
)

// X509Identity is an X.509 certificate credential bound to a membership
// service provider.
type X509Identity struct {
	mspID       string
	credentials []byte
}

// NewX509Identity creates an identity from a PEM-encoded certificate. The
// certificate is parsed to catch malformed credentials at construction
// rather than on the first ledger call.
func NewX509Identity(mspID string, certPEM []byte) (*X509Identity, error) {
	if mspID == "" {
		return nil, status.New(status.ClientStatus, status.InvalidCredential.ToInt32(), "mspID is required", nil)
	}
	if _, err := CertificateFromPEM(certPEM); err != nil {
		return nil, err
	}

	return &X509Identity{mspID: mspID, credentials: certPEM}, nil
}

// MSPID returns the membership service provider ID of this identity.
func (x *X509Identity) MSPID() string {
	return x.mspID
}

// Credentials returns the PEM-encoded certificate.
func (x *X509Identity) Credentials() []byte {
	return x.credentials
}

// LoadIdentity reads exactly one PEM certificate file and returns the
// identity it describes.
func LoadIdentity(mspID, certPath string) (*X509Identity, error) {
	certPEM, err := os.ReadFile(certPath)
	if err != nil {
		return nil, status.New(status.ClientStatus, status.ResourceUnavailable.ToInt32(),
			errors.Wrapf(err, "failed to read certificate file %s", certPath).Error(), nil)
	}

	return NewX509Identity(mspID, certPEM)
}

// CertificateFromPEM parses a PEM-encoded X.509 certificate.
func CertificateFromPEM(certPEM []byte) (*x509.Certificate, error) {
	block, _ := pem.Decode(certPEM)
	if block == nil {
		return nil, status.New(status.ClientStatus, status.InvalidCredential.ToInt32(), "no PEM data found in certificate", nil)
	}

	cert, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, status.New(status.ClientStatus, status.InvalidCredential.ToInt32(),
			errors.Wrap(err, "failed to parse certificate").Error(), nil)
	}

	return cert, nil
}
