/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package identity

import (
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/sha256"
	"crypto/x509"
	"encoding/asn1"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/hyperledger/fabric-asset-gateway/pkg/common/errors/status"
)

// Sign signs a message on behalf of the loaded identity. The private key
// behind the capability is never serialized and never logged.
type Sign func(message []byte) ([]byte, error)

type ecdsaSignature struct {
	R, S *big.Int
}

// NewPrivateKeySigner returns a signing capability over an in-memory ECDSA
// private key. Signatures are SHA-256 ECDSA with the S value normalized to
// the lower half of the curve order, as required by Fabric peers.
func NewPrivateKeySigner(key *ecdsa.PrivateKey) Sign {
	return func(message []byte) ([]byte, error) {
		digest := sha256.Sum256(message)

		r, s, err := ecdsa.Sign(rand.Reader, key, digest[:])
		if err != nil {
			return nil, errors.Wrap(err, "failed to sign message")
		}

		s = toLowS(s, key.Params().N)

		signature, err := asn1.Marshal(ecdsaSignature{R: r, S: s})
		if err != nil {
			return nil, errors.Wrap(err, "failed to marshal ECDSA signature")
		}
		return signature, nil
	}
}

// toLowS returns s if it is at most half the curve order, otherwise order-s.
func toLowS(s, order *big.Int) *big.Int {
	halfOrder := new(big.Int).Rsh(order, 1)
	if s.Cmp(halfOrder) > 0 {
		return new(big.Int).Sub(order, s)
	}
	return s
}

// LoadSigner reads the single private-key file in keyDir and returns a
// signer over it. The directory must hold exactly one regular file;
// picking an arbitrary entry would be filesystem-order dependent, so an
// empty or ambiguous directory fails loudly instead.
func LoadSigner(keyDir string) (Sign, error) {
	entries, err := os.ReadDir(keyDir)
	if err != nil {
		return nil, status.New(status.ClientStatus, status.ResourceUnavailable.ToInt32(),
			errors.Wrapf(err, "failed to read key directory %s", keyDir).Error(), nil)
	}

	var keyPath string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if keyPath != "" {
			return nil, status.New(status.ClientStatus, status.InvalidCredential.ToInt32(),
				"key directory "+keyDir+" contains more than one file; expected exactly one private key", nil)
		}
		keyPath = filepath.Join(keyDir, entry.Name())
	}
	if keyPath == "" {
		return nil, status.New(status.ClientStatus, status.InvalidCredential.ToInt32(),
			"key directory "+keyDir+" contains no private key", nil)
	}

	keyPEM, err := os.ReadFile(keyPath)
	if err != nil {
		return nil, status.New(status.ClientStatus, status.ResourceUnavailable.ToInt32(),
			errors.Wrapf(err, "failed to read private key %s", keyPath).Error(), nil)
	}

	key, err := PrivateKeyFromPEM(keyPEM)
	if err != nil {
		return nil, err
	}

	return NewPrivateKeySigner(key), nil
}

// PrivateKeyFromPEM parses a PEM-encoded PKCS#8 or SEC1 ECDSA private key.
func PrivateKeyFromPEM(keyPEM []byte) (*ecdsa.PrivateKey, error) {
	block, _ := pem.Decode(keyPEM)
	if block == nil {
		return nil, status.New(status.ClientStatus, status.InvalidCredential.ToInt32(), "no PEM data found in private key", nil)
	}

	if key, err := x509.ParsePKCS8PrivateKey(block.Bytes); err == nil {
		ecKey, ok := key.(*ecdsa.PrivateKey)
		if !ok {
			return nil, status.New(status.ClientStatus, status.InvalidCredential.ToInt32(), "private key is not an ECDSA key", nil)
		}
		return ecKey, nil
	}

	key, err := x509.ParseECPrivateKey(block.Bytes)
	if err != nil {
		return nil, status.New(status.ClientStatus, status.InvalidCredential.ToInt32(),
			errors.Wrap(err, "failed to parse private key").Error(), nil)
	}
	return key, nil
}
