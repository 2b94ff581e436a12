/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package status

import (
	"github.com/hyperledger/fabric-protos-go/peer"
	grpccodes "google.golang.org/grpc/codes"
)

// Code is a status code within a status group.
type Code uint32

const (
	// OK is returned on success.
	OK Code = 0

	// Unknown represents status codes that are uncategorized or unknown to the client.
	Unknown Code = 1

	// ConnectionFailed is returned when the transport to the gateway peer
	// could not be established.
	ConnectionFailed Code = 2

	// Timeout operation timed out against its call-category deadline.
	Timeout Code = 3

	// InvalidCredential is returned when an identity certificate or private
	// key cannot be parsed.
	InvalidCredential Code = 4

	// ResourceUnavailable is returned when a required file (certificate,
	// key, TLS root) is missing or unreadable.
	ResourceUnavailable Code = 5

	// EndorsementFailed is returned when the gateway could not collect the
	// endorsements required to submit a transaction.
	EndorsementFailed Code = 6

	// CommitFailed is returned when a submitted transaction was committed
	// with an unsuccessful validation code.
	CommitFailed Code = 7

	// ValidationFailed is returned when caller-supplied input is missing or
	// malformed before any ledger call is made.
	ValidationFailed Code = 8
)

// CodeName maps the codes in this package to human-readable strings.
var CodeName = map[int32]string{
	0: "OK",
	1: "UNKNOWN",
	2: "CONNECTION_FAILED",
	3: "TIMEOUT",
	4: "INVALID_CREDENTIAL",
	5: "RESOURCE_UNAVAILABLE",
	6: "ENDORSEMENT_FAILED",
	7: "COMMIT_FAILED",
	8: "VALIDATION_FAILED",
}

// ToInt32 cast to int32
func (c Code) ToInt32() int32 {
	return int32(c)
}

// String representation of the code
func (c Code) String() string {
	if s, ok := CodeName[c.ToInt32()]; ok {
		return s
	}
	return "UNKNOWN"
}

// ToGRPCStatusCode cast to gRPC status code
func ToGRPCStatusCode(c int32) grpccodes.Code {
	return grpccodes.Code(c)
}

// ToTransactionValidationCode cast to transaction validation code
func ToTransactionValidationCode(c int32) peer.TxValidationCode {
	return peer.TxValidationCode(c)
}

// ToClientStatusCode cast to client status code
func ToClientStatusCode(c int32) Code {
	return Code(c)
}
